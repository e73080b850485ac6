package notifier

import (
	"context"

	"cruisescanner/logger"
)

// DisabledNotifier is the notifier used when no webhook URL is configured.
// The pipeline still extracts, filters and records history; sends are
// silently successful so the run completes in extraction-only mode.
type DisabledNotifier struct{}

// Disabled creates a no-op notifier and logs the degraded mode once
func Disabled() *DisabledNotifier {
	logger.ForNotifier().Warn().Msg("No webhook URL configured, running in extraction-only mode")
	return &DisabledNotifier{}
}

// Name returns the notifier name
func (d *DisabledNotifier) Name() string {
	return "disabled"
}

// Enabled reports that sends are suppressed
func (d *DisabledNotifier) Enabled() bool {
	return false
}

// Notify is a no-op success
func (d *DisabledNotifier) Notify(ctx context.Context, message string) error {
	return nil
}
