// Package event defines the domain event variants the ProductStock aggregate
// emits into its pending-event buffer, and the CloudEvents-flavored wire
// envelope they travel in once published (spec §6.2). Each variant is a
// payload struct; Event is the tagged-union header every variant shares.
package event

import (
	"time"

	"github.com/google/uuid"
)

// Type is the canonical, stable event type string used both as the outbox
// row's EventType and as the envelope's "type" suffix.
type Type string

const (
	TypeStockLevelChanged        Type = "product-stock.level-changed"
	TypeStockStatusChanged       Type = "product-stock.status-changed"
	TypeInventoryHoldPlaced      Type = "inventory-hold.placed"
	TypeInventoryHoldReleased    Type = "inventory-hold.released"
	TypeInventoryValuationChanged Type = "inventory-valuation.changed"
	TypeABCClassificationChanged Type = "abc-classification.changed"
	TypeStockTransferInitiated   Type = "stock-transfer.initiated"
	TypeStockTransferCompleted   Type = "stock-transfer.completed"
	TypeSerialNumberReceived     Type = "serial-number.received"
	TypeSerialNumberAllocated    Type = "serial-number.allocated"
	TypeSerialNumberShipped      Type = "serial-number.shipped"
	TypeInventorySnapshotCreated Type = "inventory-snapshot.created"
)

// Envelope is the CloudEvents-shaped wrapper mandated by spec §6.2. It is the
// exact shape serialized onto the outbox row's EventData / published to the
// bus; field names and casing here are part of the wire contract.
type Envelope struct {
	SpecVersion     string `json:"specversion"`
	ID              string `json:"id"`
	Type            string `json:"type"`
	Source          string `json:"source"`
	Time            string `json:"time"`
	Subject         string `json:"subject"`
	DataContentType string `json:"datacontenttype"`
	Data            any    `json:"data"`
}

// Source is the fixed "source" field for every envelope this service emits.
const Source = "/fulfillment/inventory-service"

// NewEnvelope wraps a variant's payload in the canonical envelope.
func NewEnvelope(eventID uuid.UUID, t Type, subject string, occurredOn time.Time, data any) Envelope {
	return Envelope{
		SpecVersion:     "1.0",
		ID:              eventID.String(),
		Type:            "com.paklog.inventory.fulfillment.v1." + string(t),
		Source:          Source,
		Time:            occurredOn.UTC().Format(time.RFC3339Nano),
		Subject:         subject,
		DataContentType: "application/json",
		Data:            data,
	}
}

// DomainEvent is the common header carried by every pending-event variant
// before it is turned into an outbox row. AggregateID is always the SKU.
type DomainEvent struct {
	EventID     uuid.UUID
	AggregateID string
	OccurredOn  time.Time
	Type        Type
	Payload     any
}
