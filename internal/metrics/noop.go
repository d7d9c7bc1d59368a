package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncUserLookup is a no-op.
func (n *NoopRecorder) IncUserLookup(result string) {}

// IncUserUpdated is a no-op.
func (n *NoopRecorder) IncUserUpdated() {}

// IncDuplicateEmail is a no-op.
func (n *NoopRecorder) IncDuplicateEmail() {}

// IncIdentityRejected is a no-op.
func (n *NoopRecorder) IncIdentityRejected(reason string) {}

// IncRateLimited is a no-op.
func (n *NoopRecorder) IncRateLimited() {}

// ObserveStoreDuration is a no-op.
func (n *NoopRecorder) ObserveStoreDuration(duration time.Duration) {}
