package stock

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/paklog/inventory-ledger/internal/apperr"
	"github.com/paklog/inventory-ledger/internal/domain/event"
)

// Aggregate is the ProductStock aggregate root (spec §3.1). It is not safe
// for concurrent use: the command service loads one private copy per
// command and persists it under optimistic-concurrency control (spec §4.2).
type Aggregate struct {
	SKU                 string
	StockLevel          StockLevel
	StockStatusQuantity map[Status]int64
	Holds               []InventoryHold
	LotBatches          map[string]LotBatch
	ABCClassification   *ABCClassification
	Valuation           *InventoryValuation
	Version             int64
	LastUpdated         time.Time

	pendingEvents []event.DomainEvent
}

// New builds a zero-state ProductStock for sku, ready for its first receipt
// or explicit Create (spec §3.1 lifecycle).
func New(sku string) *Aggregate {
	return &Aggregate{
		SKU:                 sku,
		StockStatusQuantity: NewStockStatusQuantity(),
		LotBatches:          make(map[string]LotBatch),
		LastUpdated:         time.Now(),
	}
}

// PendingEvents returns the ordered, not-yet-persisted events accumulated
// since construction or the last Clear (spec §4.1 event accumulation
// semantics).
func (a *Aggregate) PendingEvents() []event.DomainEvent {
	return a.pendingEvents
}

// ClearPendingEvents empties the pending-event buffer. Called by the command
// service only after aggregate + outbox rows have committed (spec §4.2 step 6).
func (a *Aggregate) ClearPendingEvents() {
	a.pendingEvents = nil
}

func (a *Aggregate) emit(t event.Type, payload any) {
	a.pendingEvents = append(a.pendingEvents, event.DomainEvent{
		EventID:     uuid.New(),
		AggregateID: a.SKU,
		OccurredOn:  time.Now(),
		Type:        t,
		Payload:     payload,
	})
}

func (a *Aggregate) levelSnapshot() StockLevelSnapshotArgs {
	return StockLevelSnapshotArgs{
		QuantityOnHand:     a.StockLevel.QuantityOnHand,
		QuantityAllocated:  a.StockLevel.QuantityAllocated,
		AvailableToPromise: a.ATP(time.Now()),
	}
}

// StockLevelSnapshotArgs mirrors event.StockLevelSnapshot; kept distinct so
// the domain package has no import-time dependency on json tags.
type StockLevelSnapshotArgs struct {
	QuantityOnHand     int64
	QuantityAllocated  int64
	AvailableToPromise int64
}

func toEventSnapshot(s StockLevelSnapshotArgs) event.StockLevelSnapshot {
	return event.StockLevelSnapshot{
		QuantityOnHand:     s.QuantityOnHand,
		QuantityAllocated:  s.QuantityAllocated,
		AvailableToPromise: s.AvailableToPromise,
	}
}

func (a *Aggregate) emitLevelChanged(before StockLevelSnapshotArgs, reason string) {
	after := a.levelSnapshot()
	a.emit(event.TypeStockLevelChanged, event.StockLevelChangedPayload{
		SKU:                a.SKU,
		PreviousStockLevel: toEventSnapshot(before),
		NewStockLevel:      toEventSnapshot(after),
		ChangeReason:       reason,
	})
}

// ATP is the canonical Available-to-Promise function (spec §4.1): AVAILABLE
// bucket minus allocated minus the sum of currently-effective hold
// quantities, floored at 0.
func (a *Aggregate) ATP(now time.Time) int64 {
	atp := a.StockStatusQuantity[StatusAvailable] - a.StockLevel.QuantityAllocated - a.activeHoldQuantity(now)
	if atp < 0 {
		return 0
	}

	return atp
}

func (a *Aggregate) activeHoldQuantity(now time.Time) int64 {
	var total int64
	for _, h := range a.Holds {
		if h.IsEffective(now) {
			total += h.Quantity
		}
	}

	return total
}

// CheckInvariants verifies I1–I6 hold. Called by the repository layer right
// after hydrating a persisted document (spec §7: a violation discovered on
// load is fatal for that load, surfaced as InvariantViolation).
func (a *Aggregate) CheckInvariants() error {
	if a.StockLevel.QuantityAllocated > a.StockLevel.QuantityOnHand {
		return apperr.New(apperr.KindInvariantViolation, "sku %s: quantityAllocated %d > quantityOnHand %d", a.SKU, a.StockLevel.QuantityAllocated, a.StockLevel.QuantityOnHand)
	}

	if a.StockLevel.QuantityOnHand < 0 || a.StockLevel.QuantityAllocated < 0 {
		return apperr.New(apperr.KindInvariantViolation, "sku %s: negative quantity", a.SKU)
	}

	if sum := sumStatusQuantity(a.StockStatusQuantity); sum != a.StockLevel.QuantityOnHand {
		return apperr.New(apperr.KindInvariantViolation, "sku %s: stockStatusQuantity sums to %d, quantityOnHand is %d", a.SKU, sum, a.StockLevel.QuantityOnHand)
	}

	if rawATP := a.StockStatusQuantity[StatusAvailable] - a.StockLevel.QuantityAllocated - a.activeHoldQuantity(time.Now()); rawATP < 0 {
		return apperr.New(apperr.KindInvariantViolation, "sku %s: ATP negative", a.SKU)
	}

	var lotTotal int64

	for _, lot := range a.LotBatches {
		if lot.AllocatedQuantity > lot.Quantity {
			return apperr.New(apperr.KindInvariantViolation, "sku %s: lot %s allocated %d > quantity %d", a.SKU, lot.LotNumber, lot.AllocatedQuantity, lot.Quantity)
		}

		lotTotal += lot.Quantity
	}

	if len(a.LotBatches) > 0 && lotTotal > a.StockLevel.QuantityOnHand {
		return apperr.New(apperr.KindInvariantViolation, "sku %s: lot total %d > quantityOnHand %d", a.SKU, lotTotal, a.StockLevel.QuantityOnHand)
	}

	return nil
}

// Create is the explicit creation path (spec §3.1, §9 open question):
// establishes the aggregate's first non-zero state from a previousLevel of
// (0,0). Preferred over implicit creation-on-receipt for auditability.
func (a *Aggregate) Create(qty int64) error {
	if qty < 0 {
		return apperr.New(apperr.KindInvalidQuantity, "initial quantity must be >= 0, got %d", qty)
	}

	before := a.levelSnapshot()

	a.StockLevel.QuantityOnHand = qty
	a.StockStatusQuantity[StatusAvailable] = qty
	a.Version++
	a.LastUpdated = time.Now()

	a.emitLevelChanged(before, "CREATE")

	return nil
}

// Allocate reserves qty units for an outstanding order (spec §4.1 allocate).
func (a *Aggregate) Allocate(qty int64) error {
	if qty <= 0 {
		return apperr.New(apperr.KindInvalidQuantity, "allocate quantity must be > 0, got %d", qty)
	}

	available := a.ATP(time.Now())
	if qty > available {
		return apperr.New(apperr.KindInsufficientStock, "sku %s: requested=%d available=%d", a.SKU, qty, available)
	}

	before := a.levelSnapshot()
	a.StockLevel.QuantityAllocated += qty
	a.touch()

	a.emitLevelChanged(before, "ALLOCATION")

	return nil
}

// Deallocate releases a previously allocated reservation (spec §4.1
// deallocate).
func (a *Aggregate) Deallocate(qty int64) error {
	if qty <= 0 {
		return apperr.New(apperr.KindInvalidQuantity, "deallocate quantity must be > 0, got %d", qty)
	}

	if qty > a.StockLevel.QuantityAllocated {
		return apperr.New(apperr.KindInsufficientStock, "sku %s: requested=%d allocated=%d", a.SKU, qty, a.StockLevel.QuantityAllocated)
	}

	before := a.levelSnapshot()
	a.StockLevel.QuantityAllocated -= qty
	a.touch()

	a.emitLevelChanged(before, "DEALLOCATION")

	return nil
}

// AdjustQuantityOnHand applies a signed delta to quantityOnHand and the
// AVAILABLE bucket (spec §4.1 adjustQuantityOnHand). reason is one of the
// codes in spec §6.1 (e.g. PHYSICAL_COUNT, DAMAGE, SYSTEM_CORRECTION).
func (a *Aggregate) AdjustQuantityOnHand(delta int64, reason string) error {
	if delta == 0 {
		return apperr.New(apperr.KindInvalidQuantity, "adjustment delta must be != 0")
	}

	newOnHand := a.StockLevel.QuantityOnHand + delta
	if newOnHand < 0 {
		return apperr.New(apperr.KindInvalidQuantity, "sku %s: adjustment would take quantityOnHand negative (%d%+d)", a.SKU, a.StockLevel.QuantityOnHand, delta)
	}

	newAvailableBucket := a.StockStatusQuantity[StatusAvailable] + delta
	if newAvailableBucket < 0 {
		return apperr.New(apperr.KindInvalidQuantity, "sku %s: adjustment would take AVAILABLE bucket negative", a.SKU)
	}

	if a.StockLevel.QuantityAllocated > newOnHand {
		return apperr.New(apperr.KindInsufficientStock, "sku %s: adjustment would violate quantityAllocated <= quantityOnHand", a.SKU)
	}

	before := a.levelSnapshot()
	a.StockLevel.QuantityOnHand = newOnHand
	a.StockStatusQuantity[StatusAvailable] = newAvailableBucket
	a.touch()

	a.emitLevelChanged(before, reason)

	return nil
}

// ReceiveStock increases on-hand and AVAILABLE quantity (spec §4.1
// receiveStock).
func (a *Aggregate) ReceiveStock(qty int64, receiptID *string) error {
	if qty <= 0 {
		return apperr.New(apperr.KindInvalidQuantity, "receipt quantity must be > 0, got %d", qty)
	}

	before := a.levelSnapshot()
	a.StockLevel.QuantityOnHand += qty
	a.StockStatusQuantity[StatusAvailable] += qty
	a.touch()

	a.emitLevelChanged(before, "STOCK_RECEIPT")

	return nil
}

// ReceiveStockInStatus increases on-hand and the named status bucket (spec
// §4.1 receiveStockInStatus), e.g. receiving directly into QUARANTINE pending
// inspection.
func (a *Aggregate) ReceiveStockInStatus(qty int64, status Status, receiptID *string) error {
	if qty <= 0 {
		return apperr.New(apperr.KindInvalidQuantity, "receipt quantity must be > 0, got %d", qty)
	}

	if !isKnownStatus(status) {
		return apperr.New(apperr.KindInvalidQuantity, "unknown stock status %q", status)
	}

	before := a.levelSnapshot()
	a.StockLevel.QuantityOnHand += qty
	a.StockStatusQuantity[status] += qty
	a.touch()

	a.emitLevelChanged(before, "STOCK_RECEIPT")
	a.emit(event.TypeStockStatusChanged, event.StockStatusChangedPayload{
		SKU:       a.SKU,
		NewStatus: string(status),
		Quantity:  qty,
		Reason:    "STOCK_RECEIPT",
	})

	return nil
}

// ProcessPick is deallocate(qty) + adjustQuantityOnHand(-qty, PICK) applied
// atomically within the aggregate: no intermediate state is ever observable,
// and a single StockLevelChanged event is emitted (spec §4.1 processPick).
func (a *Aggregate) ProcessPick(qty int64, orderID string) error {
	if qty <= 0 {
		return apperr.New(apperr.KindInvalidQuantity, "pick quantity must be > 0, got %d", qty)
	}

	if qty > a.StockLevel.QuantityAllocated {
		return apperr.New(apperr.KindInsufficientStock, "sku %s: pick %d exceeds allocated %d", a.SKU, qty, a.StockLevel.QuantityAllocated)
	}

	newOnHand := a.StockLevel.QuantityOnHand - qty
	if newOnHand < 0 {
		return apperr.New(apperr.KindInvalidQuantity, "sku %s: pick %d would take quantityOnHand negative", a.SKU, qty)
	}

	if a.StockStatusQuantity[StatusAvailable]-qty < 0 {
		return apperr.New(apperr.KindInsufficientStock, "sku %s: pick %d exceeds AVAILABLE bucket %d", a.SKU, qty, a.StockStatusQuantity[StatusAvailable])
	}

	before := a.levelSnapshot()
	a.StockLevel.QuantityAllocated -= qty
	a.StockLevel.QuantityOnHand = newOnHand
	a.StockStatusQuantity[StatusAvailable] -= qty
	a.touch()

	a.emitLevelChanged(before, "PICK")

	return nil
}

// ChangeStockStatus moves qty units between two status buckets (spec §4.1
// changeStockStatus).
func (a *Aggregate) ChangeStockStatus(from, to Status, qty int64, reason string, lotNumber *string) error {
	if qty <= 0 {
		return apperr.New(apperr.KindInvalidQuantity, "status-change quantity must be > 0, got %d", qty)
	}

	if from == to {
		return apperr.New(apperr.KindInvalidQuantity, "from and to status must differ")
	}

	if !isKnownStatus(from) || !isKnownStatus(to) {
		return apperr.New(apperr.KindInvalidQuantity, "unknown stock status")
	}

	if a.StockStatusQuantity[from] < qty {
		return apperr.New(apperr.KindInsufficientStock, "sku %s: status %s has %d, need %d", a.SKU, from, a.StockStatusQuantity[from], qty)
	}

	a.StockStatusQuantity[from] -= qty
	a.StockStatusQuantity[to] += qty
	a.touch()

	a.emit(event.TypeStockStatusChanged, event.StockStatusChangedPayload{
		SKU:            a.SKU,
		PreviousStatus: string(from),
		NewStatus:      string(to),
		Quantity:       qty,
		Reason:         reason,
		LotNumber:      lotNumber,
	})

	return nil
}

// PlaceHold appends an administrative hold against AVAILABLE stock (spec
// §4.1 placeHold). Returns the generated hold ID.
func (a *Aggregate) PlaceHold(holdType HoldType, qty int64, reason, placedBy string, expiresAt *time.Time) (string, error) {
	if qty <= 0 {
		return "", apperr.New(apperr.KindInvalidQuantity, "hold quantity must be > 0, got %d", qty)
	}

	now := time.Now()
	if qty > a.ATP(now) {
		return "", apperr.New(apperr.KindInsufficientStock, "sku %s: hold %d exceeds available %d", a.SKU, qty, a.ATP(now))
	}

	holdID := uuid.New().String()
	a.Holds = append(a.Holds, InventoryHold{
		HoldID:    holdID,
		HoldType:  holdType,
		Quantity:  qty,
		Reason:    reason,
		PlacedBy:  placedBy,
		PlacedAt:  now,
		ExpiresAt: expiresAt,
		Active:    true,
	})
	a.touch()

	a.emit(event.TypeInventoryHoldPlaced, event.InventoryHoldPlacedPayload{
		SKU:            a.SKU,
		HoldID:         holdID,
		HoldType:       string(holdType),
		QuantityOnHold: qty,
		Reason:         reason,
		PlacedBy:       placedBy,
	})

	return holdID, nil
}

// ReleaseHold marks an active hold inactive (spec §4.1 releaseHold).
func (a *Aggregate) ReleaseHold(holdID, releasedBy string) error {
	for i := range a.Holds {
		if a.Holds[i].HoldID != holdID {
			continue
		}

		if !a.Holds[i].Active {
			return apperr.New(apperr.KindInvalidQuantity, "hold %s is not active", holdID)
		}

		a.Holds[i].Active = false
		a.touch()

		a.emit(event.TypeInventoryHoldReleased, event.InventoryHoldReleasedPayload{
			SKU:              a.SKU,
			HoldID:           holdID,
			HoldType:         string(a.Holds[i].HoldType),
			QuantityReleased: a.Holds[i].Quantity,
			ReleasedBy:       releasedBy,
		})

		return nil
	}

	return apperr.New(apperr.KindInvalidQuantity, "hold %s not found", holdID)
}

// ExpireHoldsLazily deactivates holds whose ExpiresAt has passed as of now,
// without emitting events (spec §4.6: lazy expiration on read is silent —
// only an explicit ReleaseHold is an auditable action).
func (a *Aggregate) ExpireHoldsLazily(now time.Time) {
	for i := range a.Holds {
		if a.Holds[i].Active && a.Holds[i].ExpiresAt != nil && !a.Holds[i].ExpiresAt.After(now) {
			a.Holds[i].Active = false
		}
	}
}

// AddLot registers a new lot/batch against the aggregate (spec §4.1 lot
// mutations). The lot's quantity must already be reflected in quantityOnHand
// via a prior ReceiveStock(InStatus) call.
func (a *Aggregate) AddLot(lot LotBatch) error {
	if lot.LotNumber == "" {
		return apperr.New(apperr.KindInvalidQuantity, "lot number must not be empty")
	}

	if _, exists := a.LotBatches[lot.LotNumber]; exists {
		return apperr.New(apperr.KindInvalidQuantity, "lot %s already exists", lot.LotNumber)
	}

	if lot.AllocatedQuantity > lot.Quantity {
		return apperr.New(apperr.KindInvalidQuantity, "lot allocated quantity exceeds lot quantity")
	}

	var existingLotTotal int64
	for _, l := range a.LotBatches {
		existingLotTotal += l.Quantity
	}

	if existingLotTotal+lot.Quantity > a.StockLevel.QuantityOnHand {
		return apperr.New(apperr.KindInvalidQuantity, "sku %s: lot total would exceed quantityOnHand", a.SKU)
	}

	a.LotBatches[lot.LotNumber] = lot
	a.touch()

	return nil
}

// AllocateLot reserves qty units of a specific lot (spec §4.1 I6: lot
// allocations <= lot quantities).
func (a *Aggregate) AllocateLot(lotNumber string, qty int64) error {
	lot, ok := a.LotBatches[lotNumber]
	if !ok {
		return apperr.New(apperr.KindInvalidQuantity, "lot %s not found", lotNumber)
	}

	if qty <= 0 {
		return apperr.New(apperr.KindInvalidQuantity, "lot allocation quantity must be > 0")
	}

	if lot.Available() < qty {
		return apperr.New(apperr.KindInsufficientStock, "lot %s: requested=%d available=%d", lotNumber, qty, lot.Available())
	}

	lot.AllocatedQuantity += qty
	a.LotBatches[lotNumber] = lot
	a.touch()

	return nil
}

// Classify overwrites the aggregate's ABC classification (spec §4.1
// classification mutations).
func (a *Aggregate) Classify(class ABCClass, criteria string, annualUsageValue decimal.Decimal, reason string, validUntil *time.Time) error {
	var previous *string
	if a.ABCClassification != nil {
		p := string(a.ABCClassification.Class)
		previous = &p
	}

	a.ABCClassification = &ABCClassification{
		Class:            class,
		Criteria:         criteria,
		AnnualUsageValue: annualUsageValue,
		ClassifiedAt:     time.Now(),
		ValidUntil:       validUntil,
	}
	a.touch()

	a.emit(event.TypeABCClassificationChanged, event.ABCClassificationChangedPayload{
		SKU:           a.SKU,
		PreviousClass: previous,
		NewClass:      string(class),
		Criteria:      criteria,
		Reason:        reason,
	})

	return nil
}

// Revalue overwrites the aggregate's valuation (spec §4.1 valuation
// mutations).
func (a *Aggregate) Revalue(method ValuationMethod, newUnitCost decimal.Decimal, currency, reason string) error {
	var previousUnitCost, previousTotalValue decimal.Decimal
	if a.Valuation != nil {
		previousUnitCost = a.Valuation.UnitCost
		previousTotalValue = a.Valuation.TotalValue
	}

	newTotalValue := newUnitCost.Mul(decimal.NewFromInt(a.StockLevel.QuantityOnHand))

	a.Valuation = &InventoryValuation{
		Method:     method,
		UnitCost:   newUnitCost,
		TotalValue: newTotalValue,
		Currency:   currency,
	}
	a.touch()

	a.emit(event.TypeInventoryValuationChanged, event.InventoryValuationChangedPayload{
		SKU:                a.SKU,
		ValuationMethod:    string(method),
		PreviousUnitCost:   previousUnitCost.String(),
		NewUnitCost:        newUnitCost.String(),
		PreviousTotalValue: previousTotalValue.String(),
		NewTotalValue:      newTotalValue.String(),
		Quantity:           a.StockLevel.QuantityOnHand,
		Reason:             reason,
	})

	return nil
}

func (a *Aggregate) touch() {
	a.Version++
	a.LastUpdated = time.Now()
}

// String implements fmt.Stringer for debug logging.
func (a *Aggregate) String() string {
	return fmt.Sprintf("ProductStock{sku=%s, onHand=%d, allocated=%d, version=%d}", a.SKU, a.StockLevel.QuantityOnHand, a.StockLevel.QuantityAllocated, a.Version)
}
