package session

import (
	"errors"
	"github.com/gorilla/sessions"
	"net/http"
	"satchel/backend/config"
	"satchel/backend/db"
	"satchel/backend/logging"
	"satchel/shared"
	"satchel/shared/constants"
)

type HandlerFunc func(w http.ResponseWriter, req *http.Request, userID string)

var (
	store = sessions.NewFilesystemStore("", []byte(sessionKey()))
)

const UserIDKey = "user"
const UserSessionKey = "session"

var ErrInvalidSession = errors.New("invalid session")

func sessionKey() string {
	if len(config.SatchelConfig.SessionKey) > 0 {
		return config.SatchelConfig.SessionKey
	}

	return shared.GenRandomString(32)
}

func GetSession(req *http.Request) (*sessions.Session, error) {
	return store.Get(req, constants.AuthSessionStore)
}

// SetSession stores the user's ID alongside their current session key, so
// that rotating the key in the db invalidates every session they hold.
func SetSession(id string, w http.ResponseWriter, req *http.Request) error {
	session, _ := GetSession(req)

	sessionKey, err := db.GetUserSessionKey(id)
	if err != nil {
		return err
	} else if len(sessionKey) == 0 {
		sessionKey = shared.GenRandomString(constants.SessionKeyLength)
		err = db.SetUserSessionKey(id, sessionKey)
		if err != nil {
			return err
		}
	}

	session.Values[UserSessionKey] = sessionKey
	session.Values[UserIDKey] = id
	session.Options.HttpOnly = true
	session.Options.SameSite = http.SameSiteStrictMode
	session.Options.Secure = !config.IsDebugMode
	return session.Save(req, w)
}

func IsValidSession(req *http.Request) bool {
	session, err := GetSession(req)
	if err != nil {
		return false
	}

	id, found := session.Values[UserIDKey].(string)
	if !found || len(id) == 0 {
		return false
	}

	sessionKey, found := session.Values[UserSessionKey].(string)
	if !found || len(sessionKey) == 0 {
		return false
	}

	dbKey, err := db.GetUserSessionKey(id)
	if err != nil || sessionKey != dbKey {
		logging.Log.Debugf("Stale session for user %s", id)
		return false
	}

	return true
}

// InvalidateAllSessions rotates the user's session key, which logs out every
// client holding a session for them, and removes the current session.
func InvalidateAllSessions(w http.ResponseWriter, req *http.Request) error {
	id, err := GetSessionAndUserID(req)
	if err != nil {
		return err
	}

	err = db.SetUserSessionKey(id, shared.GenRandomString(constants.SessionKeyLength))
	if err != nil {
		return err
	}

	return RemoveSession(w, req)
}

func RemoveSession(w http.ResponseWriter, req *http.Request) error {
	session, _ := GetSession(req)

	if session.Values[UserIDKey] != nil || session.Values[UserSessionKey] != nil {
		session.Options.MaxAge = -1
		session.Values[UserSessionKey] = ""
		session.Values[UserIDKey] = ""
		return session.Save(req, w)
	}

	return nil
}

func GetSessionUserID(session *sessions.Session) string {
	if id, ok := session.Values[UserIDKey].(string); ok {
		return id
	}

	return ""
}

func GetSessionAndUserID(req *http.Request) (string, error) {
	s, err := GetSession(req)
	if err != nil {
		return "", ErrInvalidSession
	}

	id := GetSessionUserID(s)
	if len(id) == 0 {
		return "", ErrInvalidSession
	}

	return id, nil
}
