// Package ledger implements the immutable audit record factory (spec §3.2,
// C4): one InventoryLedgerEntry per stock-changing operation, created by the
// command service and never updated thereafter.
package ledger

import (
	"time"

	"github.com/google/uuid"
)

// ChangeType classifies the stock-changing operation that produced an entry.
type ChangeType string

const (
	ChangeTypeAllocation        ChangeType = "ALLOCATION"
	ChangeTypeDeallocation      ChangeType = "DEALLOCATION"
	ChangeTypePick              ChangeType = "PICK"
	ChangeTypeReceipt           ChangeType = "RECEIPT"
	ChangeTypeAdjustmentPositive ChangeType = "ADJUSTMENT_POSITIVE"
	ChangeTypeAdjustmentNegative ChangeType = "ADJUSTMENT_NEGATIVE"
	ChangeTypeCycleCount        ChangeType = "CYCLE_COUNT"
)

// Entry is the immutable audit record of one stock-changing operation (spec
// §3.2).
type Entry struct {
	ID               uuid.UUID
	SKU              string
	Timestamp        time.Time
	QuantityChange   int64
	ChangeType       ChangeType
	SourceReference  *string
	Reason           string
	OperatorID       string
}

// New builds an Entry with a fresh ID and the current timestamp.
func New(sku string, quantityChange int64, changeType ChangeType, reason, operatorID string, sourceReference *string) Entry {
	return Entry{
		ID:              uuid.New(),
		SKU:             sku,
		Timestamp:       time.Now(),
		QuantityChange:  quantityChange,
		ChangeType:      changeType,
		SourceReference: sourceReference,
		Reason:          reason,
		OperatorID:      operatorID,
	}
}

// ChangeTypeForReasonCode maps a spec §6.1 adjustment reason code onto the
// ledger ChangeType it produces. Unknown codes map to CYCLE_COUNT's sibling,
// ADJUSTMENT_POSITIVE/NEGATIVE, based on sign.
func ChangeTypeForReasonCode(reasonCode string, quantityChange int64) ChangeType {
	switch reasonCode {
	case "ALLOCATION":
		return ChangeTypeAllocation
	case "DEALLOCATION":
		return ChangeTypeDeallocation
	case "ITEM_PICKED":
		return ChangeTypePick
	case "PURCHASE_RECEIPT", "RETURN_TO_STOCK", "TRANSFER_IN", "PRODUCTION_COMPLETE":
		return ChangeTypeReceipt
	case "PHYSICAL_COUNT", "CYCLE_COUNT":
		return ChangeTypeCycleCount
	default:
		if quantityChange >= 0 {
			return ChangeTypeAdjustmentPositive
		}

		return ChangeTypeAdjustmentNegative
	}
}
