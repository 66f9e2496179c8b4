package api

import (
	"net/http"
	"satchel/shared"
	"satchel/shared/endpoints"
)

// GetServerInfo returns information about the current Satchel instance/server
func (ctx *Context) GetServerInfo() (shared.ServerInfo, error) {
	var serverInfo shared.ServerInfo
	err := ctx.send(http.MethodGet, endpoints.ServerInfo.Format(ctx.Server), nil, &serverInfo)
	return serverInfo, err
}
