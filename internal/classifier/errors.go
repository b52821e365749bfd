package classifier

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport reports that no response arrived: the request could not be
	// sent, or a success body could not be read.
	ErrTransport = errors.New("classifier unreachable")

	// ErrMalformedResponse reports a success status whose body is not a
	// well-formed prediction.
	ErrMalformedResponse = errors.New("malformed classifier response")
)

// ServerError is returned for any non-2xx status. Message carries the
// server-supplied "error" field and is empty when the body had none.
type ServerError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("classifier API error: %s", e.Status)
	}
	return fmt.Sprintf("classifier API error: %s (%s)", e.Status, e.Message)
}
