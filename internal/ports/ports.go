// Package ports declares the abstract repository contracts the core depends
// on (spec §3.1 C6). The document store, relational store, cache, and bus
// themselves are adapters implementing these interfaces; the core never
// imports a driver package directly outside internal/adapters.
package ports

import (
	"context"
	"time"

	"github.com/paklog/inventory-ledger/internal/domain/assembly"
	"github.com/paklog/inventory-ledger/internal/domain/container"
	"github.com/paklog/inventory-ledger/internal/domain/ledger"
	"github.com/paklog/inventory-ledger/internal/domain/outbox"
	"github.com/paklog/inventory-ledger/internal/domain/serial"
	"github.com/paklog/inventory-ledger/internal/domain/snapshot"
	"github.com/paklog/inventory-ledger/internal/domain/stock"
	"github.com/paklog/inventory-ledger/internal/domain/transfer"
)

//go:generate mockgen --destination=mock/ports_mock.go --package=mock . ProductStockRepository,LedgerRepository,OutboxRepository,SnapshotRepository,EventRepository,SerialNumberRepository,TransferRepository,ContainerRepository,AssemblyOrderRepository,CacheInvalidator,BusPublisher

// ProductStockRepository is the optimistic-concurrency persistence port for
// the ProductStock aggregate (spec §4.2).
type ProductStockRepository interface {
	// FindBySKU loads the current state of a SKU, or (nil, nil) if it does
	// not exist.
	FindBySKU(ctx context.Context, sku string) (*stock.Aggregate, error)

	// Save performs the atomic write of spec §4.2 step 5: it persists the
	// aggregate, its new ledger entry, and its new outbox rows as a single
	// unit, conditioned on the aggregate's in-memory Version still matching
	// the stored version (CAS). On a version mismatch it returns an
	// *apperr.Error of kind KindConcurrentModification.
	Save(ctx context.Context, agg *stock.Aggregate, entry *ledger.Entry, outboxRows []outbox.Record) error
}

// LedgerRepository is the read port over immutable ledger entries (spec
// §3.2, §6.3).
type LedgerRepository interface {
	ListBySKU(ctx context.Context, sku string, since, until time.Time, limit int) ([]ledger.Entry, error)
}

// OutboxRepository is the publisher's (C9) view of the outbox_events
// collection (spec §4.4, §6.3).
type OutboxRepository interface {
	// FetchUnpublished returns up to limit rows eligible for a publish
	// attempt (NextAttemptAt <= now), ordered by (createdAt, id) ascending.
	FetchUnpublished(ctx context.Context, now time.Time, limit int) ([]outbox.Record, error)

	// MarkPublished persists the published/publishedAt transition for a row.
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error

	// MarkRetry persists the retryCount/nextAttemptAt transition for a row.
	MarkRetry(ctx context.Context, id string, retryCount int, nextAttemptAt time.Time) error

	// PurgePublishedBefore deletes published rows older than cutoff (spec
	// §4.4 step 4 retention sweep) and returns the count removed.
	PurgePublishedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// SnapshotRepository persists and retrieves InventorySnapshot records (spec
// §4.5, C10).
type SnapshotRepository interface {
	Save(ctx context.Context, snap snapshot.Snapshot) error
	// LatestBefore returns the most recent snapshot for sku with
	// SnapshotTimestamp <= at, used as a replay baseline.
	LatestBefore(ctx context.Context, sku string, at time.Time) (*snapshot.Snapshot, error)
}

// EventRepository is the read port over the historical, ordered event stream
// used by replay (spec §4.5 step 2). In this implementation the outbox
// collection doubles as the durable event log (published or not), since
// spec §4.5 step 3 requires every event ever emitted, not just undelivered
// ones.
type EventRepository interface {
	// ListBetween returns events for sku recorded in (t0, t1], oldest first.
	// The MongoDB implementation compares t0 and t1 with each outbox row's
	// createdAt, which is stamped when the row is built rather than taken
	// from the event's occurredOn, and orders by createdAt alone; ties are
	// not broken by eventId.
	ListBetween(ctx context.Context, sku string, t0, t1 time.Time) ([]outbox.Record, error)
}

// SerialNumberRepository persists the serial number lifecycle (spec §3.3,
// SPEC_FULL.md supplemented feature 1).
type SerialNumberRepository interface {
	FindByNumber(ctx context.Context, sku, number string) (*serial.SerialNumber, error)
	Save(ctx context.Context, sn *serial.SerialNumber) error
}

// TransferRepository persists stock transfer state machines (spec §4.6).
type TransferRepository interface {
	FindByID(ctx context.Context, id string) (*transfer.Transfer, error)
	Save(ctx context.Context, t *transfer.Transfer) error
}

// ContainerRepository persists container/LPN movement records (spec §3.1
// C6, SPEC_FULL.md supplemented feature 3).
type ContainerRepository interface {
	FindByLPN(ctx context.Context, lpn string) (*container.Container, error)
	Save(ctx context.Context, c *container.Container) error
}

// AssemblyOrderRepository persists assembly order state machines (spec
// §4.6, SPEC_FULL.md supplemented feature 2).
type AssemblyOrderRepository interface {
	FindByID(ctx context.Context, id string) (*assembly.Order, error)
	Save(ctx context.Context, o *assembly.Order) error
}

// CacheInvalidator is the core's only touchpoint with the cache tier (spec
// §4.2 step 6, §9 "Caching is peripheral"): it signals invalidation, it does
// not own cache storage.
type CacheInvalidator interface {
	InvalidateStockLevel(ctx context.Context, sku string) error
}

// BusPublisher is the outbox publisher's (C9) abstraction over the event
// bus.
type BusPublisher interface {
	Publish(ctx context.Context, exchange, routingKey string, body []byte) error
}
