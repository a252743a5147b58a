package model

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("validation error")
	ErrInvalidTransition = errors.New("invalid payout flow transition")
	ErrBadGateway        = errors.New("bad gateway")
	ErrDeviceID          = errors.New("device id unavailable")

	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrServiceUnavailable = errors.New("service temporarily unavailable")
)

// User-facing messages.
const (
	MsgServiceUnavailable = "Service temporarily unavailable. Please try again later."
	MsgNetworkFailure     = "Unable to reach the payout service. Please check your connection and try again."
	MsgDeviceIDFailure    = "Unable to identify this device. Please try again."
)

// GatewayError is returned by the payout gateway for non-2xx responses
// and transport failures. Message is safe to show to the user.
type GatewayError struct {
	StatusCode int
	Message    string
	Err        error
}

func NewGatewayStatusError(statusCode int, serverMessage string) *GatewayError {
	msg := serverMessage
	if msg == "" {
		msg = fmt.Sprintf("Payout failed: %d", statusCode)
	}
	return &GatewayError{StatusCode: statusCode, Message: msg}
}

func (e *GatewayError) Error() string { return e.Message }

func (e *GatewayError) Unwrap() error { return e.Err }

func (e *GatewayError) Is(target error) bool { return target == ErrBadGateway }
