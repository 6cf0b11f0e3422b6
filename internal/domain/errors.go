package domain

import "errors"

// Sentinel errors used across all layers.
var (
	ErrNotFound         = errors.New("not found")
	ErrAlreadyExists    = errors.New("already exists")
	ErrValidation       = errors.New("validation error")
	ErrPermissionDenied = errors.New("permission denied")
	ErrLocked           = errors.New("component is locked")
	ErrHashMismatch     = errors.New("identity hash mismatch")
)
