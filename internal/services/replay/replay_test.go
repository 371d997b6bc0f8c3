package replay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paklog/inventory-ledger/internal/domain/event"
	"github.com/paklog/inventory-ledger/internal/domain/stock"
)

func baseAggregate() *stock.Aggregate {
	agg := stock.New("SKU-1")
	agg.StockLevel = stock.StockLevel{QuantityOnHand: 100, QuantityAllocated: 0}
	agg.StockStatusQuantity[stock.StatusAvailable] = 100

	return agg
}

func TestFold_DoesNotMutateBaseline(t *testing.T) {
	baseline := baseAggregate()

	events := []event.DomainEvent{
		{
			Type:       event.TypeStockLevelChanged,
			OccurredOn: time.Now(),
			Payload: event.StockLevelChangedPayload{
				SKU:           "SKU-1",
				NewStockLevel: event.StockLevelSnapshot{QuantityOnHand: 80, QuantityAllocated: 20},
			},
		},
	}

	result := Fold(baseline, events)

	assert.Equal(t, int64(100), baseline.StockLevel.QuantityOnHand)
	assert.Equal(t, int64(80), result.StockLevel.QuantityOnHand)
	assert.Equal(t, int64(20), result.StockLevel.QuantityAllocated)
}

func TestFold_SortsOutOfOrderEventsByOccurredOn(t *testing.T) {
	baseline := baseAggregate()

	t1 := time.Now().Add(-2 * time.Hour)
	t2 := time.Now().Add(-1 * time.Hour)

	events := []event.DomainEvent{
		// intentionally supplied out of order
		{
			Type:       event.TypeStockLevelChanged,
			OccurredOn: t2,
			Payload: event.StockLevelChangedPayload{
				NewStockLevel: event.StockLevelSnapshot{QuantityOnHand: 90, QuantityAllocated: 10},
			},
		},
		{
			Type:       event.TypeStockLevelChanged,
			OccurredOn: t1,
			Payload: event.StockLevelChangedPayload{
				NewStockLevel: event.StockLevelSnapshot{QuantityOnHand: 95, QuantityAllocated: 5},
			},
		},
	}

	result := Fold(baseline, events)

	// Whichever event has the later OccurredOn must win, regardless of the
	// order the caller happened to supply them in.
	assert.Equal(t, int64(90), result.StockLevel.QuantityOnHand)
	assert.Equal(t, int64(10), result.StockLevel.QuantityAllocated)
}

func TestFold_StatusChangedMovesBetweenBucketsAndRebalancesAvailable(t *testing.T) {
	baseline := baseAggregate()

	events := []event.DomainEvent{
		{
			Type:       event.TypeStockStatusChanged,
			OccurredOn: time.Now(),
			Payload: event.StockStatusChangedPayload{
				PreviousStatus: string(stock.StatusAvailable),
				NewStatus:      string(stock.StatusQuarantine),
				Quantity:       30,
			},
		},
	}

	result := Fold(baseline, events)

	assert.Equal(t, int64(30), result.StockStatusQuantity[stock.StatusQuarantine])
	assert.Equal(t, int64(70), result.StockStatusQuantity[stock.StatusAvailable])
}

func TestFold_ReceiveInStatusAddsDirectlyWithoutDebitingAvailable(t *testing.T) {
	baseline := baseAggregate()

	events := []event.DomainEvent{
		{
			Type:       event.TypeStockLevelChanged,
			OccurredOn: time.Now(),
			Payload: event.StockLevelChangedPayload{
				NewStockLevel: event.StockLevelSnapshot{QuantityOnHand: 150, QuantityAllocated: 0},
			},
		},
		{
			// receiveStockInStatus: no PreviousStatus, so the full quantity
			// is additive into NewStatus rather than moved out of AVAILABLE.
			Type:       event.TypeStockStatusChanged,
			OccurredOn: time.Now(),
			Payload: event.StockStatusChangedPayload{
				NewStatus: string(stock.StatusQuarantine),
				Quantity:  50,
			},
		},
	}

	result := Fold(baseline, events)

	assert.Equal(t, int64(50), result.StockStatusQuantity[stock.StatusQuarantine])
	assert.Equal(t, int64(100), result.StockStatusQuantity[stock.StatusAvailable])
}

func TestFold_HoldPlacedThenReleased(t *testing.T) {
	baseline := baseAggregate()

	events := []event.DomainEvent{
		{
			Type:       event.TypeInventoryHoldPlaced,
			OccurredOn: time.Now().Add(-time.Minute),
			Payload: event.InventoryHoldPlacedPayload{
				HoldID:         "hold-1",
				HoldType:       "QUALITY",
				QuantityOnHold: 10,
				Reason:         "inspection",
				PlacedBy:       "operator-1",
			},
		},
	}

	afterPlace := Fold(baseline, events)
	require.Len(t, afterPlace.Holds, 1)
	assert.True(t, afterPlace.Holds[0].Active)

	events = append(events, event.DomainEvent{
		Type:       event.TypeInventoryHoldReleased,
		OccurredOn: time.Now(),
		Payload: event.InventoryHoldReleasedPayload{
			HoldID:     "hold-1",
			ReleasedBy: "operator-1",
		},
	})

	afterRelease := Fold(baseline, events)
	require.Len(t, afterRelease.Holds, 1)
	assert.False(t, afterRelease.Holds[0].Active)
}

func TestFold_ValuationChangedParsesDecimalStrings(t *testing.T) {
	baseline := baseAggregate()

	events := []event.DomainEvent{
		{
			Type:       event.TypeInventoryValuationChanged,
			OccurredOn: time.Now(),
			Payload: event.InventoryValuationChangedPayload{
				ValuationMethod: "FIFO",
				NewUnitCost:     "12.50",
				NewTotalValue:   "1250.00",
			},
		},
	}

	result := Fold(baseline, events)

	require.NotNil(t, result.Valuation)
	assert.Equal(t, "12.5", result.Valuation.UnitCost.String()) // String() drops trailing zeros
	assert.Equal(t, stock.ValuationMethod("FIFO"), result.Valuation.Method)
}

func TestFold_ValuationChangedMalformedDecimalIsIgnored(t *testing.T) {
	baseline := baseAggregate()

	events := []event.DomainEvent{
		{
			Type:       event.TypeInventoryValuationChanged,
			OccurredOn: time.Now(),
			Payload: event.InventoryValuationChangedPayload{
				NewUnitCost:   "not-a-number",
				NewTotalValue: "1250.00",
			},
		},
	}

	result := Fold(baseline, events)

	assert.Nil(t, result.Valuation)
}

func TestFold_ClassificationChanged(t *testing.T) {
	baseline := baseAggregate()

	events := []event.DomainEvent{
		{
			Type:       event.TypeABCClassificationChanged,
			OccurredOn: time.Now(),
			Payload: event.ABCClassificationChangedPayload{
				NewClass: "A",
				Criteria: "usage_value",
			},
		},
	}

	result := Fold(baseline, events)

	require.NotNil(t, result.ABCClassification)
	assert.Equal(t, stock.ABCClass("A"), result.ABCClassification.Class)
}

func TestFold_EmptyEventStreamReturnsEquivalentClone(t *testing.T) {
	baseline := baseAggregate()

	result := Fold(baseline, nil)

	assert.Equal(t, baseline.StockLevel, result.StockLevel)
	assert.NotSame(t, baseline, result)
}
