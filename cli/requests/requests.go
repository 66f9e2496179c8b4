package requests

import (
	"bytes"
	"net/http"
	"satchel/shared/constants"
	"time"
)

// Redirects are returned to the caller rather than followed, so that image
// redirects to public gateways never carry the session cookie.
var transport = &http.Transport{
	Proxy:               http.ProxyFromEnvironment,
	IdleConnTimeout:     30 * time.Second,
	TLSHandshakeTimeout: 10 * time.Second,
}

func GetRequest(session, url string) (*http.Response, error) {
	return sendRequest(session, http.MethodGet, url, nil)
}

func PostRequest(session, url string, data []byte) (*http.Response, error) {
	return sendRequest(session, http.MethodPost, url, data)
}

func PutRequest(session, url string, data []byte) (*http.Response, error) {
	return sendRequest(session, http.MethodPut, url, data)
}

func DeleteRequest(session, url string, data []byte) (*http.Response, error) {
	return sendRequest(session, http.MethodDelete, url, data)
}

func sendRequest(session, method, url string, data []byte) (*http.Response, error) {
	req, err := http.NewRequest(method, url, bytes.NewBuffer(data))
	if err != nil {
		return nil, err
	}

	if len(session) > 0 {
		req.AddCookie(&http.Cookie{
			Name:  constants.AuthSessionStore,
			Value: session,
		})
	}

	if len(data) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}

	req.Header.Set("User-Agent", constants.CLIUserAgent)

	resp, err := transport.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	return resp, nil
}
