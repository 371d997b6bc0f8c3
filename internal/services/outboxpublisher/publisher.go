// Package outboxpublisher implements the transactional outbox drain loop
// (spec §3.1 C9, §4.4): a periodic worker that reads unpublished rows,
// publishes them to the bus in per-aggregate FIFO order, and retires
// published rows past a retention window.
package outboxpublisher

import (
	"context"
	"time"

	"github.com/paklog/inventory-ledger/internal/apperr"
	"github.com/paklog/inventory-ledger/internal/domain/outbox"
	"github.com/paklog/inventory-ledger/internal/ports"
	"github.com/paklog/inventory-ledger/pkg/mlog"
	"github.com/paklog/inventory-ledger/pkg/retry"
)

// Config tunes the publisher's cadence (spec §6.4 outbox.* options).
type Config struct {
	PollInterval  time.Duration
	BatchSize     int
	RetentionDays int
	Exchange      string
	RoutingPrefix string
}

// DefaultConfig mirrors spec §6.4's defaults.
func DefaultConfig() Config {
	return Config{
		PollInterval:  5 * time.Second,
		BatchSize:     100,
		RetentionDays: 30,
		Exchange:      "inventory.events",
		RoutingPrefix: "inventory",
	}
}

// Publisher drains the outbox on a ticker.
type Publisher struct {
	repo    ports.OutboxRepository
	bus     ports.BusPublisher
	cfg     Config
	retryer retry.Config
	log     mlog.Logger
}

// New builds a Publisher.
func New(repo ports.OutboxRepository, bus ports.BusPublisher, cfg Config, log mlog.Logger) *Publisher {
	if log == nil {
		log = mlog.NopLogger{}
	}

	return &Publisher{repo: repo, bus: bus, cfg: cfg, retryer: retry.DefaultPublisherRetryConfig(), log: log}
}

// Run blocks, draining the outbox every PollInterval until ctx is cancelled
// (spec §4.4: "runs indefinitely as a background worker").
func (p *Publisher) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.cfg.PollInterval)
	defer ticker.Stop()

	retentionTicker := time.NewTicker(24 * time.Hour)
	defer retentionTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := p.drainOnce(ctx); err != nil {
				p.log.Errorf("outbox: drain cycle failed: %v", err)
			}
		case <-retentionTicker.C:
			if err := p.sweepRetention(ctx); err != nil {
				p.log.Errorf("outbox: retention sweep failed: %v", err)
			}
		}
	}
}

// drainOnce fetches one batch and publishes it, batched per aggregateId:
// each aggregate's rows are published strictly in fetch order, and the first
// failure within an aggregate's group stops that group for this cycle
// without touching any other aggregate's group (spec §4.4 step 3: "batch per
// aggregateId and abort the batch on first failure for that aggregate" —
// this is what actually guarantees per-aggregate FIFO delivery, since a
// later row for the same SKU publishing ahead of an earlier, still-failing
// one would reorder it).
func (p *Publisher) drainOnce(ctx context.Context) error {
	rows, err := p.repo.FetchUnpublished(ctx, time.Now(), p.cfg.BatchSize)
	if err != nil {
		return apperr.Wrap(apperr.KindRepositoryError, err, "outbox: fetch unpublished")
	}

	order := make([]string, 0)
	groups := make(map[string][]outbox.Record)

	for _, row := range rows {
		if _, seen := groups[row.AggregateID]; !seen {
			order = append(order, row.AggregateID)
		}

		groups[row.AggregateID] = append(groups[row.AggregateID], row)
	}

	for _, aggregateID := range order {
		for _, row := range groups[aggregateID] {
			if !p.publishRow(ctx, row) {
				break
			}
		}
	}

	return nil
}

// publishRow attempts one row with bounded retry and reports whether it
// succeeded. On exhaustion it reschedules the row instead of blocking the
// rest of the drain loop (spec §4.4 step 2: a poison row backs off
// exponentially, it never halts rows belonging to other aggregates) — the
// caller uses the return value only to decide whether to keep draining
// *this* aggregate's remaining rows.
func (p *Publisher) publishRow(ctx context.Context, row outbox.Record) bool {
	routingKey := p.cfg.RoutingPrefix + "." + string(row.EventType)

	err := retry.Do(ctx, p.retryer, func() error {
		return p.bus.Publish(ctx, p.cfg.Exchange, routingKey, row.EventData)
	})
	if err != nil {
		row.MarkRetry(p.nextBackoff(row.RetryCount))

		if merr := p.repo.MarkRetry(ctx, row.ID.String(), row.RetryCount, row.NextAttemptAt); merr != nil {
			p.log.Errorf("outbox: failed to record retry for row %s: %v", row.ID, merr)
		}

		p.log.Warnf("outbox: publish failed for row %s (aggregate %s, attempt %d): %v", row.ID, row.AggregateID, row.RetryCount, err)

		return false
	}

	if merr := p.repo.MarkPublished(ctx, row.ID.String(), time.Now()); merr != nil {
		p.log.Errorf("outbox: failed to mark row %s published: %v", row.ID, merr)
	}

	return true
}

// nextBackoff grows geometrically with the row's own retry count, independent
// of the per-call retry.Do budget, since a row can be revisited across many
// drain cycles (spec §4.4 step 2).
func (p *Publisher) nextBackoff(retryCount int) time.Duration {
	d := retry.PublisherInitialBackoff
	for i := 0; i < retryCount; i++ {
		d *= 2
		if d > retry.PublisherMaxBackoff {
			return retry.PublisherMaxBackoff
		}
	}

	return d
}

func (p *Publisher) sweepRetention(ctx context.Context) error {
	cutoff := time.Now().AddDate(0, 0, -p.cfg.RetentionDays)

	purged, err := p.repo.PurgePublishedBefore(ctx, cutoff)
	if err != nil {
		return apperr.Wrap(apperr.KindRepositoryError, err, "outbox: retention sweep")
	}

	if purged > 0 {
		p.log.Infof("outbox: retention sweep purged %d rows older than %s", purged, cutoff.Format(time.RFC3339))
	}

	return nil
}
