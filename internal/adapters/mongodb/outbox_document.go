package mongodb

import (
	"time"

	"github.com/google/uuid"

	"github.com/paklog/inventory-ledger/internal/domain/event"
	"github.com/paklog/inventory-ledger/internal/domain/outbox"
)

// outboxDocument is the BSON shape of one outbox_events row (spec §6.3,
// indexed by (published, createdAt) for publisher selection and
// aggregateId for ordered retrieval).
type outboxDocument struct {
	ID            string     `bson:"_id"`
	AggregateID   string     `bson:"aggregateId"`
	EventType     string     `bson:"eventType"`
	EventData     []byte     `bson:"eventData"`
	CreatedAt     time.Time  `bson:"createdAt"`
	Published     bool       `bson:"published"`
	PublishedAt   *time.Time `bson:"publishedAt,omitempty"`
	RetryCount    int        `bson:"retryCount"`
	NextAttemptAt time.Time  `bson:"nextAttemptAt"`
}

func fromOutboxRecord(r outbox.Record) outboxDocument {
	return outboxDocument{
		ID:            r.ID.String(),
		AggregateID:   r.AggregateID,
		EventType:     string(r.EventType),
		EventData:     r.EventData,
		CreatedAt:     r.CreatedAt,
		Published:     r.Published,
		PublishedAt:   r.PublishedAt,
		RetryCount:    r.RetryCount,
		NextAttemptAt: r.NextAttemptAt,
	}
}

func (doc outboxDocument) toRecord() outbox.Record {
	id, _ := uuid.Parse(doc.ID)

	return outbox.Record{
		ID:            id,
		AggregateID:   doc.AggregateID,
		EventType:     event.Type(doc.EventType),
		EventData:     doc.EventData,
		CreatedAt:     doc.CreatedAt,
		Published:     doc.Published,
		PublishedAt:   doc.PublishedAt,
		RetryCount:    doc.RetryCount,
		NextAttemptAt: doc.NextAttemptAt,
	}
}
