package accounts

import "errors"

var (
	// ErrNotAuthenticated indicates an operation was invoked without an
	// authenticated user in the context.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrAccountNotFound indicates no record exists for the (user, platform) pair.
	ErrAccountNotFound = errors.New("connected account not found")

	// ErrPermissionDenied indicates the primary store rejected the operation;
	// it triggers the local-mirror degraded mode.
	ErrPermissionDenied = errors.New("permission denied by primary store")
)
