package replay

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/paklog/inventory-ledger/internal/apperr"
	"github.com/paklog/inventory-ledger/internal/domain/event"
	"github.com/paklog/inventory-ledger/internal/domain/outbox"
)

// decodeRecord recovers the typed event.DomainEvent an outbox.Record's wire
// envelope was built from, so Fold can pattern-match on its Payload the same
// way it does for events still sitting in an aggregate's pending buffer.
func decodeRecord(row outbox.Record) (event.DomainEvent, error) {
	var envelope event.Envelope
	if err := json.Unmarshal(row.EventData, &envelope); err != nil {
		return event.DomainEvent{}, apperr.Wrap(apperr.KindSchemaValidation, err, "replay: decode envelope for row %s", row.ID)
	}

	eventID, err := uuid.Parse(envelope.ID)
	if err != nil {
		return event.DomainEvent{}, apperr.Wrap(apperr.KindSchemaValidation, err, "replay: parse event id for row %s", row.ID)
	}

	occurredOn, err := time.Parse(time.RFC3339Nano, envelope.Time)
	if err != nil {
		return event.DomainEvent{}, apperr.Wrap(apperr.KindSchemaValidation, err, "replay: parse occurredOn for row %s", row.ID)
	}

	payload, err := decodePayload(row.EventType, envelope.Data)
	if err != nil {
		return event.DomainEvent{}, err
	}

	return event.DomainEvent{
		EventID:     eventID,
		AggregateID: row.AggregateID,
		OccurredOn:  occurredOn,
		Type:        row.EventType,
		Payload:     payload,
	}, nil
}

// decodePayload re-marshals the envelope's untyped data field and unmarshals
// it into the concrete payload struct applyEvent switches on. Event types
// Fold does not act on (transfer/serial/snapshot events) decode to nil,
// which applyEvent's switch silently ignores.
func decodePayload(t event.Type, data any) (any, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindSchemaValidation, err, "replay: remarshal payload for %s", t)
	}

	var (
		payload any
		target  any
	)

	switch t {
	case event.TypeStockLevelChanged:
		target = &event.StockLevelChangedPayload{}
	case event.TypeStockStatusChanged:
		target = &event.StockStatusChangedPayload{}
	case event.TypeInventoryHoldPlaced:
		target = &event.InventoryHoldPlacedPayload{}
	case event.TypeInventoryHoldReleased:
		target = &event.InventoryHoldReleasedPayload{}
	case event.TypeABCClassificationChanged:
		target = &event.ABCClassificationChangedPayload{}
	case event.TypeInventoryValuationChanged:
		target = &event.InventoryValuationChangedPayload{}
	default:
		return nil, nil
	}

	if err := json.Unmarshal(raw, target); err != nil {
		return nil, apperr.Wrap(apperr.KindSchemaValidation, err, "replay: decode %s payload", t)
	}

	switch v := target.(type) {
	case *event.StockLevelChangedPayload:
		payload = *v
	case *event.StockStatusChangedPayload:
		payload = *v
	case *event.InventoryHoldPlacedPayload:
		payload = *v
	case *event.InventoryHoldReleasedPayload:
		payload = *v
	case *event.ABCClassificationChangedPayload:
		payload = *v
	case *event.InventoryValuationChangedPayload:
		payload = *v
	}

	return payload, nil
}
