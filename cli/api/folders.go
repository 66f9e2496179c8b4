package api

import (
	"net/http"
	"satchel/shared"
	"satchel/shared/endpoints"
)

func (ctx *Context) GetFolders() ([]shared.Folder, error) {
	var folders []shared.Folder
	err := ctx.send(http.MethodGet, endpoints.Folders.Format(ctx.Server), nil, &folders)
	return folders, err
}

// GetFolder returns a folder with its catalogs
func (ctx *Context) GetFolder(folderID string) (shared.FolderResponse, error) {
	var resp shared.FolderResponse
	err := ctx.send(http.MethodGet, endpoints.Folder.Format(ctx.Server, folderID), nil, &resp)
	return resp, err
}

func (ctx *Context) CreateFolder(folder shared.NewFolder) (shared.Folder, error) {
	var created shared.Folder
	err := ctx.send(http.MethodPost, endpoints.Folders.Format(ctx.Server), folder, &created)
	return created, err
}

func (ctx *Context) ModifyFolder(folderID string, mod shared.ModifyItem) (shared.Folder, error) {
	var folder shared.Folder
	err := ctx.send(http.MethodPut, endpoints.Folder.Format(ctx.Server, folderID), mod, &folder)
	return folder, err
}

func (ctx *Context) DeleteFolder(folderID string) error {
	return ctx.send(http.MethodDelete, endpoints.Folder.Format(ctx.Server, folderID), nil, nil)
}

func (ctx *Context) AddToFolder(folderID string, catalogIDs []string) (shared.Folder, error) {
	var folder shared.Folder
	err := ctx.send(
		http.MethodPost,
		endpoints.FolderCatalogs.Format(ctx.Server, folderID),
		shared.ItemIDs{IDs: catalogIDs},
		&folder)
	return folder, err
}

func (ctx *Context) RemoveFromFolder(folderID string, catalogIDs []string) (shared.Folder, error) {
	var folder shared.Folder
	err := ctx.send(
		http.MethodDelete,
		endpoints.FolderCatalogs.Format(ctx.Server, folderID),
		shared.ItemIDs{IDs: catalogIDs},
		&folder)
	return folder, err
}
