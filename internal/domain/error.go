package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrConflict           = errors.New("conflicting subscription state")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrPlanNotAvailable   = errors.New("plan not found or inactive")
	ErrStorageUnavailable = errors.New("storage temporarily unavailable")
	ErrOperationFailed    = errors.New("operation failed")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
	ErrInvalidExecContext = errors.New("invalid execution context")
)
