package reconciler

import "errors"

var (
	// ErrBacklogFull rejects a submission while too many records are Pending.
	ErrBacklogFull = errors.New("pending backlog full")
	// ErrInvalidSubmission rejects a submission that never enters the lifecycle.
	ErrInvalidSubmission = errors.New("invalid submission")
)
