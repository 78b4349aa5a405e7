package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

// An Error is returned when the gateway responds with an error status.
type Error struct {
	StatusCode int
	ErrorCode  int
	Message    string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("%s (%d)", e.Message, e.StatusCode)
}

func newError(resp *http.Response, body []byte) *Error {
	var payload struct {
		Message        string `json:"message"`
		HTTPStatusCode int    `json:"httpStatusCode"`
		ErrorCode      int    `json:"errorCode"`
	}
	e := &Error{StatusCode: resp.StatusCode}
	if err := json.Unmarshal(body, &payload); err == nil {
		e.Message = payload.Message
		e.ErrorCode = payload.ErrorCode
	}
	if e.Message == "" {
		e.Message = strings.TrimSpace(string(body))
	}
	return e
}

// IsNotFound returns true if err reports a missing instance. Older gateways
// report missing instances with status 500.
func IsNotFound(err error) bool {
	e, ok := errors.Cause(err).(*Error)
	if !ok {
		return false
	}
	switch e.StatusCode {
	case http.StatusNotFound:
		return true
	case http.StatusInternalServerError:
		msg := strings.ToLower(e.Message)
		return strings.Contains(msg, "could not find") || strings.Contains(msg, "not found")
	}
	return false
}
