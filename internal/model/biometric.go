package model

type BiometricCause string

const (
	BiometricNotEnrolled BiometricCause = "BIOMETRIC_NOT_ENROLLED"
	BiometricUnavailable BiometricCause = "BIOMETRIC_UNAVAILABLE"
	BiometricCancelled   BiometricCause = "BIOMETRIC_CANCELLED"
	BiometricFallback    BiometricCause = "BIOMETRIC_FALLBACK"
	BiometricFailed      BiometricCause = "BIOMETRIC_FAILED"
)

const (
	MsgBiometricNotEnrolled = "Biometric authentication is not set up. Please enable it in Settings."
	MsgBiometricUnavailable = "Biometric authentication is not available on this device."
	MsgBiometricCancelled   = "Biometric authentication was cancelled."
	MsgBiometricFailed      = "Biometric authentication failed. Please try again."
)

func (c BiometricCause) Message() string {
	switch c {
	case BiometricNotEnrolled:
		return MsgBiometricNotEnrolled
	case BiometricUnavailable:
		return MsgBiometricUnavailable
	case BiometricCancelled, BiometricFallback:
		return MsgBiometricCancelled
	default:
		return MsgBiometricFailed
	}
}

// BiometricError is the typed failure of an authenticator.
type BiometricError struct {
	Cause BiometricCause
}

func NewBiometricError(cause BiometricCause) *BiometricError {
	return &BiometricError{Cause: cause}
}

func (e *BiometricError) Error() string { return e.Cause.Message() }
