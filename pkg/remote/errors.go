package remote

import "fmt"

// TransportError indicates the HTTP request could not be completed at
// all (connection refused, timeout, DNS failure). It is always fatal to
// the current sync run.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "remote transport error: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// AuthError indicates a login handshake step returned an unexpected
// status. The run must abort before touching local data.
type AuthError struct {
	Step       string
	StatusCode int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("remote auth failed at %s: status %d", e.Step, e.StatusCode)
}

// DecodeError indicates one response body could not be decoded. The
// fetch sequence that hit it stops early; pages collected before it are
// kept.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding response from %s: %s", e.Path, e.Err.Error())
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// StatusError indicates a non-200 response on an authenticated data
// call. Like a transport error it aborts the run; the remote system is
// in no state to be mirrored.
type StatusError struct {
	Path       string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.Path)
}
