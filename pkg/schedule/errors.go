package schedule

import "errors"

var (
	// ErrNotFound is returned when a scheduled post does not exist or does not
	// belong to the requesting user.
	ErrNotFound = errors.New("scheduled post not found")

	// ErrPublishTimeNotFuture is returned when attempting to schedule a post
	// whose publish time is absent or already in the past.
	ErrPublishTimeNotFuture = errors.New("publish time must be in the future")

	// ErrNotCancelable is returned when cancelling a post that has already been
	// claimed for publishing.
	ErrNotCancelable = errors.New("scheduled post is no longer pending")

	// ErrRepositoryNil is returned when constructing a service or worker
	// without a repository.
	ErrRepositoryNil = errors.New("repository is nil")

	// ErrMissingUserID is returned when scheduling without an owner.
	ErrMissingUserID = errors.New("user id is required")
)
