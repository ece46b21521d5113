package tcdd

import (
	"errors"
	"fmt"
)

// ErrBusy is returned when a request is attempted while another one is
// still in flight. It is a skip signal, not a failure: callers drop the
// attempt and wait for the next tick.
var ErrBusy = errors.New("tcdd: another request is already in flight")

// TransportError is a non-2xx response or a network-level failure on an
// endpoint that propagates errors (availability, release).
type TransportError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("tcdd: %s: %v", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("tcdd: %s: unexpected status %d", e.Endpoint, e.StatusCode)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
