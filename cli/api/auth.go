package api

import (
	"encoding/json"
	"net/http"
	"satchel/cli/requests"
	"satchel/cli/utils"
	"satchel/shared"
	"satchel/shared/constants"
	"satchel/shared/endpoints"
)

// Login logs a user into a Satchel server, returning the server response,
// the session cookie, and any errors.
func (ctx *Context) Login(login shared.Login) (shared.LoginResponse, string, error) {
	url := endpoints.Login.Format(ctx.Server)
	reqData, err := json.Marshal(login)
	if err != nil {
		return shared.LoginResponse{}, "", err
	}

	resp, err := requests.PostRequest(ctx.Session, url, reqData)
	if err != nil {
		return shared.LoginResponse{}, "", err
	} else if resp.StatusCode != http.StatusOK {
		return shared.LoginResponse{}, "", utils.ParseHTTPError(resp)
	}

	defer resp.Body.Close()

	var loginResponse shared.LoginResponse
	err = json.NewDecoder(resp.Body).Decode(&loginResponse)
	if err != nil {
		return shared.LoginResponse{}, "", err
	}

	var session string
	for _, cookie := range resp.Cookies() {
		if cookie.Name == constants.AuthSessionStore {
			ctx.Session = cookie.Value
			session = cookie.Value
		}
	}

	return loginResponse, session, nil
}

// SubmitSignup creates a new account. The user still needs to log in
// afterwards.
func (ctx *Context) SubmitSignup(signup shared.Signup) (shared.SignupResponse, error) {
	var signupResponse shared.SignupResponse
	url := endpoints.Signup.Format(ctx.Server)
	err := ctx.send(http.MethodPost, url, signup, &signupResponse)
	return signupResponse, err
}

// GetSession returns the current session info.
func (ctx *Context) GetSession() (shared.SessionInfo, error) {
	var sessionInfo shared.SessionInfo
	err := ctx.send(http.MethodGet, endpoints.Session.Format(ctx.Server), nil, &sessionInfo)
	return sessionInfo, err
}

// LogOut invalidates every session for the logged-in user
func (ctx *Context) LogOut() error {
	err := ctx.send(http.MethodPost, endpoints.Logout.Format(ctx.Server), nil, nil)
	if err == nil {
		ctx.Session = ""
	}

	return err
}
