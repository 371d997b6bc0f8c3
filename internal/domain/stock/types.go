// Package stock implements the ProductStock aggregate (spec §3.1, §4.1): the
// in-memory consistency boundary for a single SKU's quantity, allocation,
// status segregation, holds, lots, valuation, and classification.
package stock

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is one bucket of the stockStatusQuantity breakdown (spec §3.1).
type Status string

const (
	StatusAvailable Status = "AVAILABLE"
	StatusQuarantine Status = "QUARANTINE"
	StatusDamaged    Status = "DAMAGED"
	StatusOnHold     Status = "ON_HOLD"
	StatusExpired    Status = "EXPIRED"
	StatusReturned   Status = "RETURNED"
	StatusReserved   Status = "RESERVED"
	StatusAllocated  Status = "ALLOCATED"
	StatusInTransit  Status = "IN_TRANSIT"
)

// AllStatuses lists every recognized status bucket, used to seed a fresh
// StockStatusQuantity map and to validate changeStockStatus inputs.
var AllStatuses = []Status{
	StatusAvailable, StatusQuarantine, StatusDamaged, StatusOnHold,
	StatusExpired, StatusReturned, StatusReserved, StatusAllocated, StatusInTransit,
}

func isKnownStatus(s Status) bool {
	for _, known := range AllStatuses {
		if known == s {
			return true
		}
	}

	return false
}

// Location identifies a warehouse slot a stock quantity can be attributed to.
// The core does not execute physical movement (spec §1 out-of-scope); this
// value object exists so adapters can tag ledger entries and transfers with
// a place without the aggregate owning warehouse topology.
type Location struct {
	WarehouseID string
	Zone        string
	Aisle       string
	Bin         string
}

// StockLevel is the pair of quantities every invariant in spec §3.1 is stated
// against.
type StockLevel struct {
	QuantityOnHand    int64
	QuantityAllocated int64
}

// Available returns quantityOnHand - quantityAllocated, the naive available
// figure before status/hold adjustments (distinct from ATP, see Aggregate.ATP).
func (l StockLevel) Available() int64 {
	v := l.QuantityOnHand - l.QuantityAllocated
	if v < 0 {
		return 0
	}

	return v
}

// HoldType categorizes why a hold was placed (administrative, legal, quality,
// credit, ...). The set is open-ended; callers supply any non-empty string.
type HoldType string

// InventoryHold is an administrative block on a subset of AVAILABLE stock
// (spec §3.1).
type InventoryHold struct {
	HoldID    string
	HoldType  HoldType
	Quantity  int64
	Reason    string
	PlacedBy  string
	PlacedAt  time.Time
	ExpiresAt *time.Time
	LotNumber *string
	Active    bool
}

// IsEffective reports whether the hold counts against ATP at instant now:
// active, and not lazily expired (spec §4.6 Hold state machine).
func (h InventoryHold) IsEffective(now time.Time) bool {
	if !h.Active {
		return false
	}

	if h.ExpiresAt != nil && !h.ExpiresAt.After(now) {
		return false
	}

	return true
}

// LotStatus tracks the lifecycle of a lot/batch independent of the overall
// stock status breakdown (e.g. a lot can be ACTIVE while some of its units
// sit in the QUARANTINE status bucket).
type LotStatus string

const (
	LotStatusActive   LotStatus = "ACTIVE"
	LotStatusExpired  LotStatus = "EXPIRED"
	LotStatusRecalled LotStatus = "RECALLED"
	LotStatusDepleted LotStatus = "DEPLETED"
)

// LotBatch is a production run's worth of a SKU, tracked for expiry and
// recall (spec §3.1).
type LotBatch struct {
	LotNumber         string
	ManufactureDate   time.Time
	ExpiryDate        *time.Time
	Status            LotStatus
	Quantity          int64
	AllocatedQuantity int64
}

// Available returns the lot's unallocated quantity.
func (l LotBatch) Available() int64 {
	v := l.Quantity - l.AllocatedQuantity
	if v < 0 {
		return 0
	}

	return v
}

// ABCClass is the usage-value tier assigned by classification.
type ABCClass string

const (
	ABCClassA ABCClass = "A"
	ABCClassB ABCClass = "B"
	ABCClassC ABCClass = "C"
)

// ABCClassification records the aggregate's current usage-value tier (spec
// §3.1).
type ABCClassification struct {
	Class            ABCClass
	Criteria         string
	AnnualUsageValue decimal.Decimal
	ClassifiedAt     time.Time
	ValidUntil       *time.Time
}

// ValuationMethod is the costing method applied to the aggregate's on-hand
// quantity.
type ValuationMethod string

const (
	ValuationFIFO            ValuationMethod = "FIFO"
	ValuationLIFO            ValuationMethod = "LIFO"
	ValuationWeightedAverage ValuationMethod = "WEIGHTED_AVERAGE"
	ValuationStandardCost    ValuationMethod = "STANDARD_COST"
)

// CostLayer is one FIFO/LIFO costing layer contributing to TotalValue.
type CostLayer struct {
	Quantity int64
	UnitCost decimal.Decimal
}

// InventoryValuation is the aggregate's current costing snapshot (spec
// §3.1).
type InventoryValuation struct {
	Method     ValuationMethod
	UnitCost   decimal.Decimal
	TotalValue decimal.Decimal
	Currency   string
	CostLayers []CostLayer
}

// NewStockStatusQuantity seeds a status breakdown map with every known
// bucket present (zeroed), so callers never have to nil-check a missing key.
func NewStockStatusQuantity() map[Status]int64 {
	m := make(map[Status]int64, len(AllStatuses))
	for _, s := range AllStatuses {
		m[s] = 0
	}

	return m
}

func sumStatusQuantity(m map[Status]int64) int64 {
	var total int64
	for _, v := range m {
		total += v
	}

	return total
}
