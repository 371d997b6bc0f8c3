// Package snapshot defines the immutable, point-in-time InventorySnapshot
// (spec §3.2, §4.5, C10) used both as a retention artifact and as the
// replay baseline.
package snapshot

import (
	"time"

	"github.com/google/uuid"

	"github.com/paklog/inventory-ledger/internal/domain/stock"
)

// Type classifies why a snapshot was captured (spec §3.2).
type Type string

const (
	TypeDaily    Type = "DAILY"
	TypeMonthly  Type = "MONTHLY"
	TypeYearEnd  Type = "YEAR_END"
	TypeOnDemand Type = "ON_DEMAND"
)

// Snapshot is an immutable, denormalized copy of all observable ProductStock
// state captured at SnapshotTimestamp (spec §3.2).
type Snapshot struct {
	SnapshotID        uuid.UUID
	SKU               string
	SnapshotTimestamp time.Time
	Type              Type
	Reason            string

	// State is the denormalized ProductStock projection at SnapshotTimestamp.
	// pendingEvents is deliberately not part of this projection: a snapshot
	// is always taken at a commit boundary, where the buffer is empty.
	State State

	CreatedBy string
	CreatedAt time.Time
}

// State is the subset of stock.Aggregate fields that are meaningfully
// denormalized into a snapshot (everything observable except the transient
// pending-event buffer).
type State struct {
	StockLevel          stock.StockLevel
	StockStatusQuantity map[stock.Status]int64
	Holds               []stock.InventoryHold
	LotBatches          map[string]stock.LotBatch
	ABCClassification   *stock.ABCClassification
	Valuation           *stock.InventoryValuation
	Version             int64
	LastUpdated         time.Time
}

// FromAggregate denormalizes an aggregate's current state into a State.
func FromAggregate(a *stock.Aggregate) State {
	statusCopy := make(map[stock.Status]int64, len(a.StockStatusQuantity))
	for k, v := range a.StockStatusQuantity {
		statusCopy[k] = v
	}

	holdsCopy := make([]stock.InventoryHold, len(a.Holds))
	copy(holdsCopy, a.Holds)

	lotsCopy := make(map[string]stock.LotBatch, len(a.LotBatches))
	for k, v := range a.LotBatches {
		lotsCopy[k] = v
	}

	return State{
		StockLevel:          a.StockLevel,
		StockStatusQuantity: statusCopy,
		Holds:               holdsCopy,
		LotBatches:          lotsCopy,
		ABCClassification:   a.ABCClassification,
		Valuation:           a.Valuation,
		Version:             a.Version,
		LastUpdated:         a.LastUpdated,
	}
}

// New builds a Snapshot from an aggregate's current state.
func New(a *stock.Aggregate, snapType Type, reason, createdBy string) Snapshot {
	now := time.Now()

	return Snapshot{
		SnapshotID:        uuid.New(),
		SKU:               a.SKU,
		SnapshotTimestamp: now,
		Type:              snapType,
		Reason:            reason,
		State:             FromAggregate(a),
		CreatedBy:         createdBy,
		CreatedAt:         now,
	}
}

// ToAggregate materializes a mutable *stock.Aggregate projection seeded from
// this snapshot, used as the replay baseline (spec §4.5 step 1).
func (s Snapshot) ToAggregate() *stock.Aggregate {
	statusCopy := make(map[stock.Status]int64, len(s.State.StockStatusQuantity))
	for k, v := range s.State.StockStatusQuantity {
		statusCopy[k] = v
	}

	holdsCopy := make([]stock.InventoryHold, len(s.State.Holds))
	copy(holdsCopy, s.State.Holds)

	lotsCopy := make(map[string]stock.LotBatch, len(s.State.LotBatches))
	for k, v := range s.State.LotBatches {
		lotsCopy[k] = v
	}

	return &stock.Aggregate{
		SKU:                 s.SKU,
		StockLevel:          s.State.StockLevel,
		StockStatusQuantity: statusCopy,
		Holds:               holdsCopy,
		LotBatches:          lotsCopy,
		ABCClassification:   s.State.ABCClassification,
		Valuation:           s.State.Valuation,
		Version:             s.State.Version,
		LastUpdated:         s.State.LastUpdated,
	}
}
