package utils

import (
	"errors"
	"fmt"
	"github.com/charmbracelet/huh"
	"io"
	"net/http"
	"os"
	"satchel/cli/styles"
	"strings"
)

// HTTPError is a non-2xx response from the server
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	if len(e.Message) == 0 {
		return fmt.Sprintf("server error %d", e.StatusCode)
	}

	return fmt.Sprintf("server error %d: %s", e.StatusCode, e.Message)
}

// ParseHTTPError reads the body of a failed response into an HTTPError
func ParseHTTPError(resp *http.Response) error {
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &HTTPError{
		StatusCode: resp.StatusCode,
		Message:    strings.TrimSpace(string(body)),
	}
}

// IsStatus reports whether err is an HTTPError with the given status code
func IsStatus(err error, status int) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.StatusCode == status
}

func HandleCLIError(msg string, err error) {
	if err == nil {
		return
	} else if errors.Is(err, huh.ErrUserAborted) {
		os.Exit(0)
	}

	styles.PrintErrStr(fmt.Sprintf("ERROR: %s - %v\n", msg, err))
	os.Exit(1)
}
