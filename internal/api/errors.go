package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

// ErrNoSession is returned before any request is made when the context
// carries no session token.
var ErrNoSession = errors.New("no session token")

// RequestError is a non-2xx backend response.
type RequestError struct {
	Status  int
	Message string
	Errors  FieldErrors
}

func (e *RequestError) Error() string {
	return e.Message
}

func errorFromResponse(resp *http.Response) error {
	reqErr := &RequestError{Status: resp.StatusCode}
	if resp.Body != nil {
		body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err == nil && len(body) > 0 {
			var payload struct {
				Message json.RawMessage `json:"message"`
				Error   json.RawMessage `json:"error"`
				Errors  json.RawMessage `json:"errors"`
			}
			if err := json.Unmarshal(body, &payload); err == nil {
				reqErr.Message = text(payload.Message)
				if reqErr.Message == "" {
					reqErr.Message = text(payload.Error)
				}
				var fields FieldErrors
				if len(payload.Errors) > 0 && json.Unmarshal(payload.Errors, &fields) == nil {
					reqErr.Errors = fields
				}
			}
		}
	}
	if reqErr.Message == "" {
		reqErr.Message = http.StatusText(resp.StatusCode)
	}
	if reqErr.Message == "" {
		reqErr.Message = resp.Status
	}
	return reqErr
}

// text returns a JSON string value, or "" for anything else.
func text(raw json.RawMessage) string {
	var out string
	if len(raw) == 0 || json.Unmarshal(raw, &out) != nil {
		return ""
	}
	return strings.TrimSpace(out)
}
