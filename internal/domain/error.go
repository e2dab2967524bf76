package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound             = errors.New("entity not found")
	ErrAlreadyExists        = errors.New("entity already exists")
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrUnauthorized         = errors.New("missing or invalid credentials")
	ErrForbidden            = errors.New("insufficient role")
	ErrAlreadyProcessed     = errors.New("request already processed")
	ErrNoActiveSubscription = errors.New("no active subscription")
	ErrInvalidSignature     = errors.New("invalid webhook signature")
	ErrUpstreamFailure      = errors.New("upstream provider failure")
	ErrRateLimited          = errors.New("rate limit exceeded")

	// Infra-level errors surfaced through repositories
	ErrInvalidExecContext = errors.New("invalid executor context")
	ErrOperationFailed    = errors.New("storage operation failed")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
)
