// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Lookup outcomes.
const (
	LookupFound    = "found"
	LookupNotFound = "not_found"
)

// Identity rejection reasons.
const (
	IdentityMissing = "missing"
	IdentityInvalid = "invalid"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// User profile metrics
	IncUserLookup(result string) // result: "found" or "not_found"
	IncUserUpdated()
	IncDuplicateEmail()

	// Edge metrics
	IncIdentityRejected(reason string) // reason: "missing" or "invalid"
	IncRateLimited()

	// Store metrics
	ObserveStoreDuration(duration time.Duration)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
