package biometric

import "context"

type fallback struct{}

// NewFallback returns the authenticator used where no biometric sensor exists.
// It always approves.
func NewFallback() *fallback { return &fallback{} }

func (fallback) Authenticate(context.Context) (bool, error) { return true, nil }
