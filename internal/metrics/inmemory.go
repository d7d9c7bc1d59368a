package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UserLookupsFound     uint64
	UserLookupsNotFound  uint64
	UsersUpdated         uint64
	DuplicateEmails      uint64
	IdentityMissing      uint64
	IdentityInvalid      uint64
	RateLimited          uint64
	StoreDurationCount   uint64
	StoreDurationTotalNs int64
}

// InMemoryRecorder stores metrics in memory.
type InMemoryRecorder struct {
	userLookupsFound     uint64
	userLookupsNotFound  uint64
	usersUpdated         uint64
	duplicateEmails      uint64
	identityMissing      uint64
	identityInvalid      uint64
	rateLimited          uint64
	storeDurationCount   uint64
	storeDurationTotalNs int64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UserLookupsFound:     atomic.LoadUint64(&m.userLookupsFound),
		UserLookupsNotFound:  atomic.LoadUint64(&m.userLookupsNotFound),
		UsersUpdated:         atomic.LoadUint64(&m.usersUpdated),
		DuplicateEmails:      atomic.LoadUint64(&m.duplicateEmails),
		IdentityMissing:      atomic.LoadUint64(&m.identityMissing),
		IdentityInvalid:      atomic.LoadUint64(&m.identityInvalid),
		RateLimited:          atomic.LoadUint64(&m.rateLimited),
		StoreDurationCount:   atomic.LoadUint64(&m.storeDurationCount),
		StoreDurationTotalNs: atomic.LoadInt64(&m.storeDurationTotalNs),
	}
}

// IncUserLookup increments the found or not-found lookup counter.
func (m *InMemoryRecorder) IncUserLookup(result string) {
	switch result {
	case LookupFound:
		atomic.AddUint64(&m.userLookupsFound, 1)
	case LookupNotFound:
		atomic.AddUint64(&m.userLookupsNotFound, 1)
	}
}

// IncUserUpdated increments user updated counter.
func (m *InMemoryRecorder) IncUserUpdated() {
	atomic.AddUint64(&m.usersUpdated, 1)
}

// IncDuplicateEmail increments duplicate email rejection counter.
func (m *InMemoryRecorder) IncDuplicateEmail() {
	atomic.AddUint64(&m.duplicateEmails, 1)
}

// IncIdentityRejected increments the identity rejection counter for reason.
func (m *InMemoryRecorder) IncIdentityRejected(reason string) {
	switch reason {
	case IdentityMissing:
		atomic.AddUint64(&m.identityMissing, 1)
	case IdentityInvalid:
		atomic.AddUint64(&m.identityInvalid, 1)
	}
}

// IncRateLimited increments rate limited counter.
func (m *InMemoryRecorder) IncRateLimited() {
	atomic.AddUint64(&m.rateLimited, 1)
}

// ObserveStoreDuration records the duration of one store session.
func (m *InMemoryRecorder) ObserveStoreDuration(duration time.Duration) {
	atomic.AddUint64(&m.storeDurationCount, 1)
	atomic.AddInt64(&m.storeDurationTotalNs, duration.Nanoseconds())
}
