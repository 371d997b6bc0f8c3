package event

// StockLevelSnapshot is the nested before/after shape inside
// StockLevelChangedPayload. Field names are snake_case per spec §6.2 and must
// be preserved on the wire.
type StockLevelSnapshot struct {
	QuantityOnHand    int64 `json:"quantity_on_hand"`
	QuantityAllocated int64 `json:"quantity_allocated"`
	AvailableToPromise int64 `json:"available_to_promise"`
}

// StockLevelChangedPayload is emitted by every aggregate operation that moves
// quantityOnHand and/or quantityAllocated (allocate, deallocate, adjust,
// receive, pick).
type StockLevelChangedPayload struct {
	SKU               string             `json:"sku"`
	PreviousStockLevel StockLevelSnapshot `json:"previous_stock_level"`
	NewStockLevel      StockLevelSnapshot `json:"new_stock_level"`
	ChangeReason       string             `json:"change_reason"`
}

// StockStatusChangedPayload is emitted when quantity moves between status
// buckets (spec §4.1 changeStockStatus). This payload keeps the mixed camelCase
// keys the spec pins for this variant, distinct from level-changed's
// snake_case.
type StockStatusChangedPayload struct {
	SKU             string  `json:"sku"`
	PreviousStatus  string  `json:"previousStatus"`
	NewStatus       string  `json:"newStatus"`
	Quantity        int64   `json:"quantity"`
	Reason          string  `json:"reason"`
	LotNumber       *string `json:"lotNumber,omitempty"`
}

// InventoryHoldPlacedPayload is emitted by placeHold.
type InventoryHoldPlacedPayload struct {
	SKU             string  `json:"sku"`
	HoldID          string  `json:"holdId"`
	HoldType        string  `json:"holdType"`
	QuantityOnHold  int64   `json:"quantityOnHold"`
	Reason          string  `json:"reason"`
	PlacedBy        string  `json:"placedBy"`
	LotNumber       *string `json:"lotNumber,omitempty"`
}

// InventoryHoldReleasedPayload is emitted by releaseHold.
type InventoryHoldReleasedPayload struct {
	SKU              string `json:"sku"`
	HoldID           string `json:"holdId"`
	HoldType         string `json:"holdType"`
	QuantityReleased int64  `json:"quantityReleased"`
	Reason           string `json:"reason"`
	ReleasedBy       string `json:"releasedBy"`
}

// InventoryValuationChangedPayload is emitted whenever the aggregate's
// valuation is recomputed or overwritten.
type InventoryValuationChangedPayload struct {
	SKU              string  `json:"sku"`
	ValuationMethod  string  `json:"valuationMethod"`
	PreviousUnitCost string  `json:"previousUnitCost"`
	NewUnitCost      string  `json:"newUnitCost"`
	PreviousTotalValue string `json:"previousTotalValue"`
	NewTotalValue    string  `json:"newTotalValue"`
	Quantity         int64   `json:"quantity"`
	Reason           string  `json:"reason"`
}

// ABCClassificationChangedPayload is emitted when classify() overwrites the
// aggregate's ABC classification.
type ABCClassificationChangedPayload struct {
	SKU            string  `json:"sku"`
	PreviousClass  *string `json:"previousClass,omitempty"`
	NewClass       string  `json:"newClass"`
	Criteria       string  `json:"criteria"`
	Reason         string  `json:"reason"`
}

// StockTransferInitiatedPayload is emitted when a transfer state machine
// enters INITIATED.
type StockTransferInitiatedPayload struct {
	TransferID      string `json:"transferId"`
	SKU             string `json:"sku"`
	FromLocation    string `json:"fromLocation"`
	ToLocation      string `json:"toLocation"`
	PlannedQuantity int64  `json:"plannedQuantity"`
}

// StockTransferCompletedPayload is emitted when a transfer reaches COMPLETED.
type StockTransferCompletedPayload struct {
	TransferID             string `json:"transferId"`
	SKU                    string `json:"sku"`
	PlannedQuantity        int64  `json:"plannedQuantity"`
	ActualQuantityReceived int64  `json:"actualQuantityReceived"`
	Shrinkage              int64  `json:"shrinkage"`
}

// SerialNumberEventPayload covers received/allocated/shipped serial number
// transitions; the three variants share a shape and differ only by Type.
type SerialNumberEventPayload struct {
	SKU            string `json:"sku"`
	SerialNumber   string `json:"serialNumber"`
	OrderID        *string `json:"orderId,omitempty"`
	Reason         string `json:"reason,omitempty"`
}

// InventorySnapshotCreatedPayload is emitted when a scheduled or on-demand
// snapshot is persisted.
type InventorySnapshotCreatedPayload struct {
	SnapshotID string `json:"snapshotId"`
	SKU        string `json:"sku"`
	Type       string `json:"type"`
	Reason     string `json:"reason"`
}
