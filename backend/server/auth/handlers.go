package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"satchel/backend/db"
	"satchel/backend/logging"
	"satchel/backend/server/session"
	"satchel/backend/utils"
	"satchel/shared"
)

// LoginHandler validates the user's email and password and starts a new
// session for them.
func LoginHandler(w http.ResponseWriter, req *http.Request) {
	var login shared.Login
	if utils.LimitedJSONReader(w, req.Body).Decode(&login) != nil {
		http.Error(w, "Unable to parse request", http.StatusBadRequest)
		return
	}

	user, err := ValidateCredentials(login.Email, login.Password)
	if errors.Is(err, InvalidCredentials) {
		http.Error(w, "User not found, or incorrect password", http.StatusNotFound)
		return
	} else if err != nil {
		logging.Log.Errorf("Error validating credentials: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if err = session.SetSession(user.ID, w, req); err != nil {
		logging.Log.Errorf("Error setting session: %v", err)
		http.Error(w, "Unable to start session", http.StatusInternalServerError)
		return
	}

	_ = json.NewEncoder(w).Encode(shared.LoginResponse{ID: user.ID, Email: user.Email})
}

// SignupHandler creates a new account from an email and password. The new
// user still needs to log in to start a session.
func SignupHandler(w http.ResponseWriter, req *http.Request) {
	var signup shared.Signup
	if utils.LimitedJSONReader(w, req.Body).Decode(&signup) != nil {
		http.Error(w, "Unable to parse request", http.StatusBadRequest)
		return
	}

	id, err := CreateUser(signup.Email, signup.Password)
	switch {
	case errors.Is(err, InvalidEmail), errors.Is(err, PasswordTooShort):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, db.UserAlreadyExists):
		http.Error(w, "User already exists", http.StatusConflict)
		return
	case errors.Is(err, db.UserLimitReached):
		http.Error(w, "This server is not accepting new users", http.StatusForbidden)
		return
	case err != nil:
		logging.Log.Errorf("Error creating user: %v", err)
		http.Error(w, "Error creating account", http.StatusInternalServerError)
		return
	}

	_ = json.NewEncoder(w).Encode(shared.SignupResponse{ID: id})
}

// LogoutHandler ends every session held by the current user.
func LogoutHandler(w http.ResponseWriter, req *http.Request) {
	if !session.IsValidSession(req) {
		_ = session.RemoveSession(w, req)
		w.WriteHeader(http.StatusOK)
		return
	}

	if err := session.InvalidateAllSessions(w, req); err != nil {
		logging.Log.Errorf("Error logging out: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}
