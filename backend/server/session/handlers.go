package session

import (
	"encoding/json"
	"net/http"
	"satchel/backend/db"
	"satchel/backend/logging"
	"satchel/shared"
)

// SessionHandler returns the current user's session info if the request has a
// valid session, otherwise Unauthorized (401)
func SessionHandler(w http.ResponseWriter, req *http.Request) {
	if !IsValidSession(req) {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	id, err := GetSessionAndUserID(req)
	if err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	user, err := db.GetUserByID(id)
	if err != nil {
		logging.Log.Errorf("Error fetching session user: %v", err)
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	_ = json.NewEncoder(w).Encode(shared.SessionInfo{ID: user.ID, Email: user.Email})
}
