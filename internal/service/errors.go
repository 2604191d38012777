package service

import "errors"

// Sentinel errors classifying service failures. Handlers translate these
// into HTTP statuses; wrap them with fmt.Errorf("...: %w", Err...) to keep
// the classification through errors.Is.
var (
	ErrValidation       = errors.New("validation failed")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrAlreadyProcessed = errors.New("already processed")
	ErrLevelIncomplete  = errors.New("level 1 approval must be completed first")
	ErrConflict         = errors.New("conflict")
)
