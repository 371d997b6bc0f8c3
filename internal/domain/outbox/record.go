// Package outbox implements the persistable envelope for a pending external
// event (spec §3.2, C5): written in the same transaction as the aggregate
// that produced it, and later drained by the publisher (C9).
package outbox

import (
	"time"

	"github.com/google/uuid"

	"github.com/paklog/inventory-ledger/internal/domain/event"
)

// Record is one row of the outbox_events collection (spec §6.3).
type Record struct {
	ID          uuid.UUID
	AggregateID string
	EventType   event.Type
	EventData   []byte // the serialized event.Envelope, wire-exact per §6.2
	CreatedAt   time.Time
	Published   bool
	PublishedAt *time.Time
	RetryCount  int
	// NextAttemptAt implements the publisher's exponential backoff (spec
	// §4.4 step 2): rows are only eligible for a retry attempt once now is
	// past this instant.
	NextAttemptAt time.Time
}

// New builds an unpublished Record from a domain event and its already
// wire-serialized envelope.
func New(de event.DomainEvent, serializedEnvelope []byte) Record {
	now := time.Now()

	return Record{
		ID:            uuid.New(),
		AggregateID:   de.AggregateID,
		EventType:     de.Type,
		EventData:     serializedEnvelope,
		CreatedAt:     now,
		Published:     false,
		NextAttemptAt: now,
	}
}

// MarkPublished flips the published flag and timestamp.
func (r *Record) MarkPublished(at time.Time) {
	r.Published = true
	r.PublishedAt = &at
}

// MarkRetry bumps the retry count and schedules the next attempt using the
// given backoff delay (spec §4.4 step 2).
func (r *Record) MarkRetry(delay time.Duration) {
	r.RetryCount++
	r.NextAttemptAt = time.Now().Add(delay)
}

// EligibleForRetention reports whether a published row older than window may
// be purged by the retention sweeper (spec §4.4 step 4, default 30 days).
func (r Record) EligibleForRetention(now time.Time, window time.Duration) bool {
	return r.Published && r.PublishedAt != nil && now.Sub(*r.PublishedAt) >= window
}
