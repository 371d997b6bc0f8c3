// Package replay implements the pure, deterministic reconstruction of a
// ProductStock's historical state from a snapshot baseline plus the ordered
// event stream recorded after it (spec §4.5 C10). Replay never consults a
// repository or a clock; it only folds event.DomainEvent values onto a
// stock.Aggregate.
package replay

import (
	"sort"

	"github.com/paklog/inventory-ledger/internal/domain/event"
	"github.com/paklog/inventory-ledger/internal/domain/stock"
)

// Fold applies events, in the order given, onto baseline and returns the
// resulting aggregate. baseline is not mutated. events must already be
// restricted to the target SKU and sorted by (occurredOn, eventId); Fold
// sorts defensively but does not deduplicate.
//
// Every case here is the read-side mirror of the corresponding
// stock.Aggregate mutator: it must reconstruct the same post-state the
// mutator produced, without re-deriving it from inputs the event stream does
// not carry (e.g. a hold's expiry is not replayed since the wire payload
// does not carry it — spec §6.2 only pins the fields listed there).
func Fold(baseline *stock.Aggregate, events []event.DomainEvent) *stock.Aggregate {
	agg := cloneAggregate(baseline)

	sorted := make([]event.DomainEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].OccurredOn.Before(sorted[j].OccurredOn)
	})

	for _, de := range sorted {
		applyEvent(agg, de)
	}

	rebalanceAvailableBucket(agg)

	return agg
}

func cloneAggregate(a *stock.Aggregate) *stock.Aggregate {
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

	return &stock.Aggregate{
		SKU:                 a.SKU,
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

func applyEvent(agg *stock.Aggregate, de event.DomainEvent) {
	switch de.Type {
	case event.TypeStockLevelChanged:
		applyLevelChanged(agg, de)
	case event.TypeStockStatusChanged:
		applyStatusChanged(agg, de)
	case event.TypeInventoryHoldPlaced:
		applyHoldPlaced(agg, de)
	case event.TypeInventoryHoldReleased:
		applyHoldReleased(agg, de)
	case event.TypeABCClassificationChanged:
		applyClassificationChanged(agg, de)
	case event.TypeInventoryValuationChanged:
		applyValuationChanged(agg, de)
	}

	agg.Version++
	agg.LastUpdated = de.OccurredOn
}

// applyLevelChanged overwrites onHand/allocated from the event's authoritative
// new-state snapshot. It never touches status buckets directly: those are
// reconciled once, after the whole fold, by rebalanceAvailableBucket.
func applyLevelChanged(agg *stock.Aggregate, de event.DomainEvent) {
	payload, ok := de.Payload.(event.StockLevelChangedPayload)
	if !ok {
		return
	}

	agg.StockLevel.QuantityOnHand = payload.NewStockLevel.QuantityOnHand
	agg.StockLevel.QuantityAllocated = payload.NewStockLevel.QuantityAllocated
}

// applyStatusChanged moves quantity between the two named buckets. An empty
// PreviousStatus (as emitted by receiveStockInStatus) means "add directly to
// NewStatus" rather than "move from an empty bucket".
func applyStatusChanged(agg *stock.Aggregate, de event.DomainEvent) {
	payload, ok := de.Payload.(event.StockStatusChangedPayload)
	if !ok {
		return
	}

	if payload.PreviousStatus != "" {
		agg.StockStatusQuantity[stock.Status(payload.PreviousStatus)] -= payload.Quantity
	}

	agg.StockStatusQuantity[stock.Status(payload.NewStatus)] += payload.Quantity
}

func applyHoldPlaced(agg *stock.Aggregate, de event.DomainEvent) {
	payload, ok := de.Payload.(event.InventoryHoldPlacedPayload)
	if !ok {
		return
	}

	agg.Holds = append(agg.Holds, stock.InventoryHold{
		HoldID:    payload.HoldID,
		HoldType:  stock.HoldType(payload.HoldType),
		Quantity:  payload.QuantityOnHold,
		Reason:    payload.Reason,
		PlacedBy:  payload.PlacedBy,
		PlacedAt:  de.OccurredOn,
		LotNumber: payload.LotNumber,
		Active:    true,
	})
}

func applyHoldReleased(agg *stock.Aggregate, de event.DomainEvent) {
	payload, ok := de.Payload.(event.InventoryHoldReleasedPayload)
	if !ok {
		return
	}

	for i := range agg.Holds {
		if agg.Holds[i].HoldID == payload.HoldID {
			agg.Holds[i].Active = false
			return
		}
	}
}

func applyClassificationChanged(agg *stock.Aggregate, de event.DomainEvent) {
	payload, ok := de.Payload.(event.ABCClassificationChangedPayload)
	if !ok {
		return
	}

	agg.ABCClassification = &stock.ABCClassification{
		Class:        stock.ABCClass(payload.NewClass),
		Criteria:     payload.Criteria,
		ClassifiedAt: de.OccurredOn,
	}
}

func applyValuationChanged(agg *stock.Aggregate, de event.DomainEvent) {
	payload, ok := de.Payload.(event.InventoryValuationChangedPayload)
	if !ok {
		return
	}

	unitCost, err := parseDecimal(payload.NewUnitCost)
	if err != nil {
		return
	}

	totalValue, err := parseDecimal(payload.NewTotalValue)
	if err != nil {
		return
	}

	agg.Valuation = &stock.InventoryValuation{
		Method:     stock.ValuationMethod(payload.ValuationMethod),
		UnitCost:   unitCost,
		TotalValue: totalValue,
	}
}

// rebalanceAvailableBucket restores invariant I3 (sum of status buckets ==
// quantityOnHand) by treating AVAILABLE as the residual bucket: every
// non-AVAILABLE bucket is driven precisely by explicit status-changed events,
// so AVAILABLE is whatever quantityOnHand leaves over.
func rebalanceAvailableBucket(agg *stock.Aggregate) {
	var nonAvailable int64

	for status, qty := range agg.StockStatusQuantity {
		if status == stock.StatusAvailable {
			continue
		}

		nonAvailable += qty
	}

	agg.StockStatusQuantity[stock.StatusAvailable] = agg.StockLevel.QuantityOnHand - nonAvailable
}
