package domain

import "errors"

var (
	ErrValidation           = errors.New("validation error")
	ErrNotFound             = errors.New("not found")
	ErrInvalidStatus        = errors.New("invalid status")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrLeadLocked           = errors.New("lead is locked")
	ErrAlreadyConverted     = errors.New("lead is already converted")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInsufficientBalance  = errors.New("insufficient balance")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrMissingPaymentInfo   = errors.New("missing payment info")
	ErrReferralCycle        = errors.New("referral cycle detected")
	// ErrConflict is returned when a row changed between read and write.
	ErrConflict = errors.New("concurrent modification")
)
