// Package serial implements the serial number lifecycle (spec §3.3: "Snapshots
// and serial numbers are independent aggregates with their own identifiers;
// they reference a ProductStock by SKU"). Supplements spec.md per SPEC_FULL.md
// since the event catalog (§6.2) names serial-number.received/.allocated/
// .shipped but the distillation otherwise left the aggregate unspecified.
package serial

import (
	"time"

	"github.com/paklog/inventory-ledger/internal/apperr"
)

// Status is the lifecycle state of one serialized unit.
type Status string

const (
	StatusReceived  Status = "RECEIVED"
	StatusAllocated Status = "ALLOCATED"
	StatusShipped   Status = "SHIPPED"
)

// SerialNumber is one uniquely identified physical unit of a SKU.
type SerialNumber struct {
	SKU          string
	Number       string
	Status       Status
	ReceivedAt   time.Time
	AllocatedTo  *string // orderID
	AllocatedAt  *time.Time
	ShippedAt    *time.Time
}

// Receive creates a new serial number in RECEIVED state.
func Receive(sku, number string) SerialNumber {
	return SerialNumber{SKU: sku, Number: number, Status: StatusReceived, ReceivedAt: time.Now()}
}

// Allocate transitions RECEIVED -> ALLOCATED for a specific order.
func (s *SerialNumber) Allocate(orderID string) error {
	if s.Status != StatusReceived {
		return apperr.New(apperr.KindInvalidQuantity, "serial %s: cannot allocate from status %s", s.Number, s.Status)
	}

	now := time.Now()
	s.Status = StatusAllocated
	s.AllocatedTo = &orderID
	s.AllocatedAt = &now

	return nil
}

// Ship transitions ALLOCATED -> SHIPPED.
func (s *SerialNumber) Ship() error {
	if s.Status != StatusAllocated {
		return apperr.New(apperr.KindInvalidQuantity, "serial %s: cannot ship from status %s", s.Number, s.Status)
	}

	now := time.Now()
	s.Status = StatusShipped
	s.ShippedAt = &now

	return nil
}
