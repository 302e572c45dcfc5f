// Package common defines shared constants and sentinel errors used across
// the onboarding client and the development notification gateway. Callers
// should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// ErrValidation marks malformed or missing input at a transition boundary.
	// It is the only error that blocks onboarding progress.
	ErrValidation = errors.New("validation error")

	// ErrInvalidTransition is returned when an operation is invoked from a
	// step that does not define it.
	ErrInvalidTransition = errors.New("invalid transition")

	// Secret pipeline errors.
	ErrEntropySource = errors.New("secure random source unavailable")
	ErrEncryption    = errors.New("encryption failed")

	// Best-effort side effects; logged, never surfaced to the wizard.
	ErrDelivery = errors.New("notification delivery failed")
	ErrStore    = errors.New("recovery store unavailable")

	// Verification token errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
