// Package transfer implements the stock transfer state machine (spec §4.6).
package transfer

import (
	"time"

	"github.com/google/uuid"

	"github.com/paklog/inventory-ledger/internal/apperr"
)

// Status is one state of the transfer lifecycle (spec §4.6):
// INITIATED -> IN_TRANSIT -> COMPLETED (terminal), with CANCELLED reachable
// from any non-terminal state.
type Status string

const (
	StatusInitiated Status = "INITIATED"
	StatusInTransit Status = "IN_TRANSIT"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// Transfer moves a planned quantity of a SKU between two locations.
type Transfer struct {
	ID                     uuid.UUID
	SKU                    string
	FromLocation           string
	ToLocation             string
	PlannedQuantity        int64
	ActualQuantityReceived int64
	Shrinkage              int64
	Status                 Status
	ContainerID            *string
	InitiatedAt            time.Time
	CompletedAt            *time.Time
}

// Initiate creates a new transfer in INITIATED state.
func Initiate(sku, fromLocation, toLocation string, plannedQuantity int64) (*Transfer, error) {
	if plannedQuantity <= 0 {
		return nil, apperr.New(apperr.KindInvalidQuantity, "planned quantity must be > 0")
	}

	return &Transfer{
		ID:              uuid.New(),
		SKU:             sku,
		FromLocation:    fromLocation,
		ToLocation:      toLocation,
		PlannedQuantity: plannedQuantity,
		Status:          StatusInitiated,
		InitiatedAt:     time.Now(),
	}, nil
}

func (t *Transfer) isTerminal() bool {
	return t.Status == StatusCompleted || t.Status == StatusCancelled
}

// Dispatch transitions INITIATED -> IN_TRANSIT.
func (t *Transfer) Dispatch() error {
	if t.Status != StatusInitiated {
		return apperr.New(apperr.KindInvalidQuantity, "transfer %s: cannot dispatch from %s", t.ID, t.Status)
	}

	t.Status = StatusInTransit

	return nil
}

// Complete transitions IN_TRANSIT -> COMPLETED, recording shrinkage as
// planned - actual (spec §4.6).
func (t *Transfer) Complete(actualQuantityReceived int64) error {
	if t.Status != StatusInTransit {
		return apperr.New(apperr.KindInvalidQuantity, "transfer %s: cannot complete from %s", t.ID, t.Status)
	}

	if actualQuantityReceived < 0 {
		return apperr.New(apperr.KindInvalidQuantity, "actual quantity received must be >= 0")
	}

	now := time.Now()
	t.ActualQuantityReceived = actualQuantityReceived
	t.Shrinkage = t.PlannedQuantity - actualQuantityReceived
	t.Status = StatusCompleted
	t.CompletedAt = &now

	return nil
}

// Cancel transitions any non-terminal state to CANCELLED.
func (t *Transfer) Cancel() error {
	if t.isTerminal() {
		return apperr.New(apperr.KindInvalidQuantity, "transfer %s: cannot cancel from terminal state %s", t.ID, t.Status)
	}

	t.Status = StatusCancelled

	return nil
}
