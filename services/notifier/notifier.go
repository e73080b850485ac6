package notifier

import "context"

// Notifier represents a transport for outgoing deal alerts
type Notifier interface {
	// Notify sends a formatted message. Failures are non-fatal to the run.
	Notify(ctx context.Context, message string) error

	// Name returns the notifier's name for logging
	Name() string

	// Enabled reports whether sends actually leave the process
	Enabled() bool
}
