// Package ingest consumes the external events the service reacts to (spec
// §6.2 "Ingested event types") and dispatches each to the command service.
// A payload that fails shape validation is dead-lettered rather than
// silently dropped (spec §7 KindSchemaValidation).
package ingest

import (
	"context"
	"encoding/json"

	"github.com/paklog/inventory-ledger/internal/apperr"
	"github.com/paklog/inventory-ledger/internal/domain/stock"
	"github.com/paklog/inventory-ledger/internal/services/command"
	"github.com/paklog/inventory-ledger/pkg/mlog"
)

// DeadLetterSink receives an ingested message the handler could not process,
// along with the reason, for operator inspection (spec §9 is silent on the
// exact sink; grounded on the teacher's poison-message handling, which
// republishes to a parking-lot routing key rather than discarding).
type DeadLetterSink interface {
	Park(ctx context.Context, eventType string, body []byte, reason error) error
}

// Handler dispatches ingested external events onto the command service.
type Handler struct {
	cmd        *command.Service
	deadLetter DeadLetterSink
	log        mlog.Logger
}

// New builds an ingest Handler.
func New(cmd *command.Service, deadLetter DeadLetterSink, log mlog.Logger) *Handler {
	if log == nil {
		log = mlog.NopLogger{}
	}

	return &Handler{cmd: cmd, deadLetter: deadLetter, log: log}
}

// itemPicked mirrors the wire shape of *.item.picked.
type itemPicked struct {
	SKU        string `json:"sku"`
	Quantity   int64  `json:"quantity"`
	OrderID    string `json:"orderId"`
	OperatorID string `json:"operatorId,omitempty"`
}

// stockAddedToLocation mirrors the wire shape of *.stock-added-to-location.
type stockAddedToLocation struct {
	SKU        string `json:"sku"`
	Quantity   int64  `json:"quantity"`
	ReceiptID  string `json:"receiptId"`
	OperatorID string `json:"operatorId,omitempty"`
}

// allocationRequested mirrors the wire shape of *.inventory.allocation.requested.
type allocationRequested struct {
	SKU        string `json:"sku"`
	Quantity   int64  `json:"quantity"`
	OrderID    string `json:"orderId"`
	OperatorID string `json:"operatorId,omitempty"`
}

// qualityInspectionCompleted mirrors *.quality-inspection.completed: stock
// moves out of QUARANTINE into AVAILABLE (passed) or DAMAGED (failed).
type qualityInspectionCompleted struct {
	SKU        string  `json:"sku"`
	Quantity   int64   `json:"quantity"`
	Passed     bool    `json:"passed"`
	LotNumber  *string `json:"lotNumber,omitempty"`
	OperatorID string  `json:"operatorId,omitempty"`
}

// damageReported mirrors *.damage.reported: stock moves from AVAILABLE into
// DAMAGED. The payload carries no from-status, so other buckets are never
// debited.
type damageReported struct {
	SKU        string `json:"sku"`
	Quantity   int64  `json:"quantity"`
	Reason     string `json:"reason"`
	OperatorID string `json:"operatorId,omitempty"`
}

// HandleItemPicked applies a PICK to sku (spec §8 scenario 4).
func (h *Handler) HandleItemPicked(ctx context.Context, body []byte) error {
	var evt itemPicked
	if err := h.decode(ctx, "item.picked", body, &evt); err != nil {
		return err
	}

	operator := operatorOrDefault(evt.OperatorID)

	_, err := h.cmd.ProcessItemPicked(ctx, evt.SKU, evt.Quantity, evt.OrderID, operator)

	return h.handleOutcome(ctx, "item.picked", body, err)
}

// HandleStockAddedToLocation applies a receipt to sku.
func (h *Handler) HandleStockAddedToLocation(ctx context.Context, body []byte) error {
	var evt stockAddedToLocation
	if err := h.decode(ctx, "stock-added-to-location", body, &evt); err != nil {
		return err
	}

	operator := operatorOrDefault(evt.OperatorID)

	_, err := h.cmd.ReceiveStock(ctx, evt.SKU, evt.Quantity, evt.ReceiptID, operator)

	return h.handleOutcome(ctx, "stock-added-to-location", body, err)
}

// HandleAllocationRequested applies an allocation to sku.
func (h *Handler) HandleAllocationRequested(ctx context.Context, body []byte) error {
	var evt allocationRequested
	if err := h.decode(ctx, "inventory.allocation.requested", body, &evt); err != nil {
		return err
	}

	operator := operatorOrDefault(evt.OperatorID)

	_, err := h.cmd.Allocate(ctx, evt.SKU, evt.Quantity, evt.OrderID, operator)

	return h.handleOutcome(ctx, "inventory.allocation.requested", body, err)
}

// HandleQualityInspectionCompleted routes quarantined stock to AVAILABLE or
// DAMAGED depending on the inspection outcome.
func (h *Handler) HandleQualityInspectionCompleted(ctx context.Context, body []byte) error {
	var evt qualityInspectionCompleted
	if err := h.decode(ctx, "quality-inspection.completed", body, &evt); err != nil {
		return err
	}

	to := stock.StatusAvailable
	reason := "QUALITY_INSPECTION_PASSED"

	if !evt.Passed {
		to = stock.StatusDamaged
		reason = "QUALITY_INSPECTION_FAILED"
	}

	operator := operatorOrDefault(evt.OperatorID)

	_, err := h.cmd.ChangeStockStatus(ctx, evt.SKU, stock.StatusQuarantine, to, evt.Quantity, reason, operator, evt.LotNumber)

	return h.handleOutcome(ctx, "quality-inspection.completed", body, err)
}

// HandleDamageReported moves stock into DAMAGED from AVAILABLE.
func (h *Handler) HandleDamageReported(ctx context.Context, body []byte) error {
	var evt damageReported
	if err := h.decode(ctx, "damage.reported", body, &evt); err != nil {
		return err
	}

	operator := operatorOrDefault(evt.OperatorID)

	_, err := h.cmd.ChangeStockStatus(ctx, evt.SKU, stock.StatusAvailable, stock.StatusDamaged, evt.Quantity, "DAMAGE", operator, nil)

	return h.handleOutcome(ctx, "damage.reported", body, err)
}

func (h *Handler) decode(ctx context.Context, eventType string, body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		schemaErr := apperr.Wrap(apperr.KindSchemaValidation, err, "ingest: malformed %s payload", eventType)
		h.park(ctx, eventType, body, schemaErr)

		return schemaErr
	}

	return nil
}

// handleOutcome dead-letters precondition failures (InvalidQuantity,
// InsufficientStock, ...) since retrying an identical malformed/impossible
// command cannot succeed; retryable errors (ConcurrentModification,
// RepositoryError) are returned so the caller's bus-level redelivery retries
// the whole message.
func (h *Handler) handleOutcome(ctx context.Context, eventType string, body []byte, err error) error {
	if err == nil {
		return nil
	}

	if ae, ok := err.(*apperr.Error); ok && !ae.Retryable() {
		h.park(ctx, eventType, body, err)
		return nil
	}

	return err
}

func (h *Handler) park(ctx context.Context, eventType string, body []byte, reason error) {
	if h.deadLetter == nil {
		h.log.Errorf("ingest: dropping unprocessable %s message: %v", eventType, reason)
		return
	}

	if err := h.deadLetter.Park(ctx, eventType, body, reason); err != nil {
		h.log.Errorf("ingest: failed to park %s message: %v", eventType, err)
	}
}

func operatorOrDefault(operatorID string) string {
	if operatorID == "" {
		return "system"
	}

	return operatorID
}
