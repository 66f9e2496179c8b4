package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"satchel/cli/requests"
	"satchel/cli/utils"
)

type Context struct {
	Server  string
	Session string
}

func InitContext(server, session string) *Context {
	return &Context{
		Server:  server,
		Session: session,
	}
}

// send issues a request with an optional JSON body and decodes a successful
// JSON response into out (when out isn't nil).
func (ctx *Context) send(method, url string, body any, out any) error {
	var reqData []byte
	if body != nil {
		var err error
		reqData, err = json.Marshal(body)
		if err != nil {
			return err
		}
	}

	var (
		resp *http.Response
		err  error
	)

	switch method {
	case http.MethodGet:
		resp, err = requests.GetRequest(ctx.Session, url)
	case http.MethodPost:
		resp, err = requests.PostRequest(ctx.Session, url, reqData)
	case http.MethodPut:
		resp, err = requests.PutRequest(ctx.Session, url, reqData)
	case http.MethodDelete:
		resp, err = requests.DeleteRequest(ctx.Session, url, reqData)
	default:
		return fmt.Errorf("unsupported method %s", method)
	}

	if err != nil {
		return err
	} else if resp.StatusCode != http.StatusOK {
		return utils.ParseHTTPError(resp)
	}

	defer resp.Body.Close()
	if out == nil {
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
