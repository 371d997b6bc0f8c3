// Package command implements the write side of the stock ledger (spec §3.1
// C7): load a ProductStock aggregate, apply one mutation, and persist
// aggregate + ledger entry + outbox rows atomically under optimistic
// concurrency control, retrying the whole load-mutate-persist cycle on a
// CAS conflict (spec §4.2).
package command

import (
	"context"
	"encoding/json"
	"time"

	"github.com/paklog/inventory-ledger/internal/apperr"
	"github.com/paklog/inventory-ledger/internal/domain/event"
	"github.com/paklog/inventory-ledger/internal/domain/ledger"
	"github.com/paklog/inventory-ledger/internal/domain/outbox"
	"github.com/paklog/inventory-ledger/internal/domain/stock"
	"github.com/paklog/inventory-ledger/internal/ports"
	"github.com/paklog/inventory-ledger/pkg/mlog"
	"github.com/paklog/inventory-ledger/pkg/retry"
)

// Service is the command-side application service. It holds no per-call
// state: every method is safe for concurrent use by multiple goroutines,
// since each call loads and mutates its own private aggregate copy.
type Service struct {
	repo    ports.ProductStockRepository
	cache   ports.CacheInvalidator
	retryer retry.Config
	log     mlog.Logger
}

// New builds a command Service. cache may be nil (invalidation becomes a
// no-op), matching spec §9's "caching is peripheral" stance.
func New(repo ports.ProductStockRepository, cache ports.CacheInvalidator, retryer retry.Config, log mlog.Logger) *Service {
	if log == nil {
		log = mlog.NopLogger{}
	}

	return &Service{repo: repo, cache: cache, retryer: retryer, log: log}
}

// Mutation is one aggregate-level operation applied within a retried
// load-mutate-persist cycle. It returns the ledger change produced by the
// mutation (quantityChange, changeType, reason) so the service can build the
// Entry without duplicating each operation's bookkeeping.
type Mutation func(agg *stock.Aggregate) (quantityChange int64, changeType ledger.ChangeType, reason string, err error)

// Execute runs mutate against the current state of sku under CAS retry (spec
// §4.2 steps 1-7, §7 KindConcurrentModification is retried, every other Kind
// is returned immediately since retrying a precondition failure cannot help).
func (s *Service) Execute(ctx context.Context, sku, operatorID string, sourceReference *string, mutate Mutation) (*stock.Aggregate, error) {
	var result *stock.Aggregate

	err := retry.Do(ctx, s.retryer, func() error {
		agg, err := s.repo.FindBySKU(ctx, sku)
		if err != nil {
			if apperr.KindOf(err) == apperr.KindConcurrentModification {
				return err
			}

			return retry.Permanent(err)
		}

		if agg == nil {
			agg = stock.New(sku)
		}

		if err := agg.CheckInvariants(); err != nil {
			return retry.Permanent(err)
		}

		qtyChange, changeType, reason, err := mutate(agg)
		if err != nil {
			if apperr.KindOf(err) == apperr.KindConcurrentModification {
				return err // retryable, let backoff.Do re-run the whole closure
			}

			return retry.Permanent(err)
		}

		// A status-only mutation (changeStockStatus, placeHold, releaseHold)
		// carries no quantity delta and is skipped from the immutable ledger
		// entirely (spec §4.2 step 3).
		var ledgerEntry *ledger.Entry

		if qtyChange != 0 {
			entry := ledger.New(sku, qtyChange, changeType, reason, operatorID, sourceReference)
			ledgerEntry = &entry
		}

		outboxRows, err := buildOutboxRows(agg)
		if err != nil {
			return retry.Permanent(err)
		}

		if err := s.repo.Save(ctx, agg, ledgerEntry, outboxRows); err != nil {
			if apperr.KindOf(err) == apperr.KindConcurrentModification {
				s.log.Warnf("command: CAS conflict on sku %s, retrying", sku)
				return err
			}

			return retry.Permanent(err)
		}

		agg.ClearPendingEvents()
		result = agg

		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if ierr := s.cache.InvalidateStockLevel(ctx, sku); ierr != nil {
			s.log.Warnf("command: cache invalidation failed for sku %s: %v", sku, ierr)
		}
	}

	return result, nil
}

// buildOutboxRows serializes every event an operation accumulated into the
// CloudEvents envelope of spec §6.2, one outbox row per pending event,
// preserving emission order (spec §4.2 step 4: "one outbox row per domain
// event, in emission order").
func buildOutboxRows(agg *stock.Aggregate) ([]outbox.Record, error) {
	pending := agg.PendingEvents()
	rows := make([]outbox.Record, 0, len(pending))

	for _, de := range pending {
		envelope := event.NewEnvelope(de.EventID, de.Type, de.AggregateID, de.OccurredOn, de.Payload)

		data, err := json.Marshal(envelope)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindSchemaValidation, err, "marshal envelope for event %s", de.Type)
		}

		rows = append(rows, outbox.New(de, data))
	}

	return rows, nil
}

// AdjustQuantityOnHand applies a signed delta with an audit reason code
// (spec §4.1 adjustQuantityOnHand / spec §6.1 reason catalog).
func (s *Service) AdjustQuantityOnHand(ctx context.Context, sku string, delta int64, reasonCode, operatorID string, sourceReference *string) (*stock.Aggregate, error) {
	return s.Execute(ctx, sku, operatorID, sourceReference, func(agg *stock.Aggregate) (int64, ledger.ChangeType, string, error) {
		if err := agg.AdjustQuantityOnHand(delta, reasonCode); err != nil {
			return 0, "", "", err
		}

		return delta, ledger.ChangeTypeForReasonCode(reasonCode, delta), reasonCode, nil
	})
}

// Allocate reserves qty units against sku for orderID.
func (s *Service) Allocate(ctx context.Context, sku string, qty int64, orderID, operatorID string) (*stock.Aggregate, error) {
	ref := orderID

	return s.Execute(ctx, sku, operatorID, &ref, func(agg *stock.Aggregate) (int64, ledger.ChangeType, string, error) {
		if err := agg.Allocate(qty); err != nil {
			return 0, "", "", err
		}

		return qty, ledger.ChangeTypeAllocation, "ALLOCATION", nil
	})
}

// Deallocate releases a previously allocated reservation.
func (s *Service) Deallocate(ctx context.Context, sku string, qty int64, orderID, operatorID string) (*stock.Aggregate, error) {
	ref := orderID

	return s.Execute(ctx, sku, operatorID, &ref, func(agg *stock.Aggregate) (int64, ledger.ChangeType, string, error) {
		if err := agg.Deallocate(qty); err != nil {
			return 0, "", "", err
		}

		return -qty, ledger.ChangeTypeDeallocation, "DEALLOCATION", nil
	})
}

// ReceiveStock increases on-hand and AVAILABLE quantity from a purchase or
// transfer receipt.
func (s *Service) ReceiveStock(ctx context.Context, sku string, qty int64, receiptID, operatorID string) (*stock.Aggregate, error) {
	ref := receiptID

	return s.Execute(ctx, sku, operatorID, &ref, func(agg *stock.Aggregate) (int64, ledger.ChangeType, string, error) {
		if err := agg.ReceiveStock(qty, &ref); err != nil {
			return 0, "", "", err
		}

		return qty, ledger.ChangeTypeReceipt, "PURCHASE_RECEIPT", nil
	})
}

// ReceiveStockInStatus receives directly into a named status bucket, e.g.
// QUARANTINE pending quality inspection.
func (s *Service) ReceiveStockInStatus(ctx context.Context, sku string, qty int64, status stock.Status, receiptID, operatorID string) (*stock.Aggregate, error) {
	ref := receiptID

	return s.Execute(ctx, sku, operatorID, &ref, func(agg *stock.Aggregate) (int64, ledger.ChangeType, string, error) {
		if err := agg.ReceiveStockInStatus(qty, status, &ref); err != nil {
			return 0, "", "", err
		}

		return qty, ledger.ChangeTypeReceipt, "PURCHASE_RECEIPT", nil
	})
}

// ProcessItemPicked applies the atomic deallocate+decrement pick operation
// driven by an external item.picked event (spec §4.1 processPick, §9
// ingestion mapping).
func (s *Service) ProcessItemPicked(ctx context.Context, sku string, qty int64, orderID, operatorID string) (*stock.Aggregate, error) {
	ref := orderID

	return s.Execute(ctx, sku, operatorID, &ref, func(agg *stock.Aggregate) (int64, ledger.ChangeType, string, error) {
		if err := agg.ProcessPick(qty, orderID); err != nil {
			return 0, "", "", err
		}

		return -qty, ledger.ChangeTypePick, "ITEM_PICKED", nil
	})
}

// ChangeStockStatus moves qty units between two status buckets, e.g.
// QUARANTINE -> AVAILABLE after a passed inspection.
func (s *Service) ChangeStockStatus(ctx context.Context, sku string, from, to stock.Status, qty int64, reason, operatorID string, lotNumber *string) (*stock.Aggregate, error) {
	return s.Execute(ctx, sku, operatorID, nil, func(agg *stock.Aggregate) (int64, ledger.ChangeType, string, error) {
		if err := agg.ChangeStockStatus(from, to, qty, reason, lotNumber); err != nil {
			return 0, "", "", err
		}

		return 0, ledger.ChangeTypeCycleCount, reason, nil
	})
}

// PlaceHold places an administrative hold and returns the updated aggregate
// together with the generated hold ID.
func (s *Service) PlaceHold(ctx context.Context, sku string, holdType stock.HoldType, qty int64, reason, placedBy string, expiresAt *time.Time) (*stock.Aggregate, string, error) {
	var holdID string

	agg, err := s.Execute(ctx, sku, placedBy, nil, func(agg *stock.Aggregate) (int64, ledger.ChangeType, string, error) {
		id, err := agg.PlaceHold(holdType, qty, reason, placedBy, expiresAt)
		if err != nil {
			return 0, "", "", err
		}

		holdID = id

		return 0, ledger.ChangeTypeCycleCount, reason, nil
	})

	return agg, holdID, err
}

// ReleaseHold releases a previously placed hold.
func (s *Service) ReleaseHold(ctx context.Context, sku, holdID, releasedBy string) (*stock.Aggregate, error) {
	return s.Execute(ctx, sku, releasedBy, nil, func(agg *stock.Aggregate) (int64, ledger.ChangeType, string, error) {
		if err := agg.ReleaseHold(holdID, releasedBy); err != nil {
			return 0, "", "", err
		}

		return 0, ledger.ChangeTypeCycleCount, "HOLD_RELEASED", nil
	})
}
