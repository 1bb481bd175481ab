package cosplay2

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// maxErrorBody bounds how much of a response body an HTTPError quotes.
const maxErrorBody = 200

var (
	// ErrBadCredentials indicates the remote rejected the configured login.
	ErrBadCredentials = errors.New("cosplay2 login rejected; check email and password in config")

	// ErrUnexpectedStatus indicates a non-2xx response from the remote API.
	ErrUnexpectedStatus = errors.New("unexpected cosplay2 response status")
)

// HTTPError describes a failed API call.
type HTTPError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	body := e.Body
	if len(body) > maxErrorBody {
		n := maxErrorBody
		for n > 0 && !utf8.RuneStart(body[n]) {
			n--
		}
		body = body[:n] + "..."
	}
	return fmt.Sprintf("cosplay2 %s: status %d: %s", e.Op, e.StatusCode, body)
}

func (e *HTTPError) Unwrap() error {
	return ErrUnexpectedStatus
}
