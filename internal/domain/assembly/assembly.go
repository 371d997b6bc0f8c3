// Package assembly implements the assembly order state machine (spec §4.6):
// CREATED -> IN_PROGRESS -> COMPLETED, with CANCELLED reachable from CREATED
// or IN_PROGRESS.
package assembly

import (
	"time"

	"github.com/google/uuid"

	"github.com/paklog/inventory-ledger/internal/apperr"
)

// Status is one state of the assembly order lifecycle.
type Status string

const (
	StatusCreated    Status = "CREATED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
)

// Component is one input SKU/quantity consumed by the assembly.
type Component struct {
	SKU      string
	Quantity int64
	// Allocated records whether the command service has confirmed this
	// component's allocation against its own ProductStock aggregate.
	Allocated bool
}

// Order is an assembly order producing PlannedQuantity of SKU from
// Components.
type Order struct {
	ID              uuid.UUID
	SKU             string
	PlannedQuantity int64
	ActualQuantity  int64
	Components      []Component
	Status          Status
	CreatedAt       time.Time
	CompletedAt     *time.Time
}

// New creates an assembly order in CREATED state.
func New(sku string, plannedQuantity int64, components []Component) (*Order, error) {
	if plannedQuantity <= 0 {
		return nil, apperr.New(apperr.KindInvalidQuantity, "planned quantity must be > 0")
	}

	return &Order{
		ID:              uuid.New(),
		SKU:             sku,
		PlannedQuantity: plannedQuantity,
		Components:      components,
		Status:          StatusCreated,
		CreatedAt:       time.Now(),
	}, nil
}

// Start transitions CREATED -> IN_PROGRESS; requires every component to
// already be marked allocated (spec §4.6 start()).
func (o *Order) Start() error {
	if o.Status != StatusCreated {
		return apperr.New(apperr.KindInvalidQuantity, "assembly order %s: cannot start from %s", o.ID, o.Status)
	}

	for _, c := range o.Components {
		if !c.Allocated {
			return apperr.New(apperr.KindInsufficientStock, "assembly order %s: component %s not yet allocated", o.ID, c.SKU)
		}
	}

	o.Status = StatusInProgress

	return nil
}

// Complete transitions IN_PROGRESS -> COMPLETED; actualQty must not exceed
// PlannedQuantity (spec §4.6 complete()).
func (o *Order) Complete(actualQty int64) error {
	if o.Status != StatusInProgress {
		return apperr.New(apperr.KindInvalidQuantity, "assembly order %s: cannot complete from %s", o.ID, o.Status)
	}

	if actualQty > o.PlannedQuantity {
		return apperr.New(apperr.KindInvalidQuantity, "assembly order %s: actual %d exceeds planned %d", o.ID, actualQty, o.PlannedQuantity)
	}

	now := time.Now()
	o.ActualQuantity = actualQty
	o.Status = StatusCompleted
	o.CompletedAt = &now

	return nil
}

// Cancel transitions CREATED or IN_PROGRESS to CANCELLED.
func (o *Order) Cancel() error {
	if o.Status != StatusCreated && o.Status != StatusInProgress {
		return apperr.New(apperr.KindInvalidQuantity, "assembly order %s: cannot cancel from %s", o.ID, o.Status)
	}

	o.Status = StatusCancelled

	return nil
}
