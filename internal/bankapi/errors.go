package bankapi

import (
	"errors"
	"fmt"
)

// TransportError indicates the request never completed at the network layer:
// the connection failed, DNS did not resolve, or the body could not be read.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RequestError indicates the server answered with a failure status. Message
// is the server-provided body text when available, otherwise an
// operation-specific fallback; callers present it verbatim.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string { return e.Message }

// DecodeError indicates a response body could not be parsed where parsing
// was required and no fallback value was defined.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// IsTransport reports whether err is a transport-level failure.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsRequest reports whether err is a server-reported failure.
func IsRequest(err error) bool {
	var re *RequestError
	return errors.As(err, &re)
}

// IsDecode reports whether err is a response decoding failure.
func IsDecode(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}
