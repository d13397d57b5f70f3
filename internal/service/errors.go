package service

import "errors"

// Sentinel errors for service layer
var (
	ErrNotConfigured     = errors.New("not configured")
	ErrUpstreamStatus    = errors.New("unexpected upstream status")
	ErrMalformedResponse = errors.New("malformed upstream response")
	ErrInvalidMessage    = errors.New("invalid outbound message")
	ErrTemplate          = errors.New("template error")
)

// DispatchError is returned when the mail transport fails to deliver a message.
// Its message is the provider's own error text.
type DispatchError struct {
	Transport string
	Err       error
}

func (e *DispatchError) Error() string {
	return e.Err.Error()
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}
