package driving

import "context"

// Scheduler manages background task execution.
type Scheduler interface {
	// Start begins the scheduler loop and blocks until Stop is called or
	// the context is cancelled.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the scheduler, waiting for running tasks.
	Stop() error
}
