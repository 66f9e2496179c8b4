package misc

import (
	"encoding/json"
	"net/http"
	"satchel/backend/config"
)

// UpHandler is used as the health check endpoint for load balancing, docker, etc.
func UpHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// InfoHandler returns information about the current instance
func InfoHandler(w http.ResponseWriter, _ *http.Request) {
	info := config.GetServerInfoStruct()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(info)
}
