// Package query implements the read side of the stock ledger (spec §3.1
// C11): stock-level lookups and aggregate health metrics, with an optional
// read-through cache in front of the stock-level path.
package query

import (
	"context"
	"encoding/json"
	"time"

	"github.com/paklog/inventory-ledger/internal/apperr"
	"github.com/paklog/inventory-ledger/internal/domain/ledger"
	"github.com/paklog/inventory-ledger/internal/domain/stock"
	"github.com/paklog/inventory-ledger/internal/ports"
	"github.com/paklog/inventory-ledger/pkg/mlog"
)

// StockLevelView is the read-model projection returned by GetStockLevel;
// it mirrors StockLevelSnapshot plus the status breakdown callers most often
// need alongside it.
type StockLevelView struct {
	SKU                 string
	QuantityOnHand      int64
	QuantityAllocated   int64
	AvailableToPromise  int64
	StockStatusQuantity map[stock.Status]int64
}

// HealthMetrics is the spec §6.1 GetHealthMetrics result: {turnover,
// deadStockSkus[], totalSkus, outOfStockSkus}.
type HealthMetrics struct {
	// Turnover is total outbound (picked/shipped) units across the window
	// divided by the average on-hand quantity of the SKUs considered —
	// a unit-based turnover ratio, since the core holds no per-unit cost
	// basis to compute a COGS-based ratio (spec §9 is silent on the exact
	// formula; see DESIGN.md).
	Turnover float64

	// DeadStockSKUs lists SKUs holding on-hand quantity but with zero
	// outbound ledger activity within the window.
	DeadStockSKUs []string

	TotalSKUs      int64
	OutOfStockSKUs []string
}

// DefaultHealthMetricsWindow bounds the ledger lookback used to classify
// dead stock and compute turnover when the caller supplies no dateRange.
const DefaultHealthMetricsWindow = 90 * 24 * time.Hour

// DateRange bounds GetHealthMetrics' ledger lookback (spec §6.1
// GetHealthMetrics(categoryFilter?, dateRange?)).
type DateRange struct {
	Since time.Time
	Until time.Time
}

// healthMetricsLedgerLimit caps the ledger rows read per SKU when computing
// health metrics. Zero would be interpreted by the squirrel-built postgres
// query as "LIMIT 0", not "unlimited", so this must stay positive.
const healthMetricsLedgerLimit = 10000

// stockLevelCacheTTL bounds how long a cached StockLevelView is served
// before GetStockLevel reads through to the repository again.
const stockLevelCacheTTL = 5 * time.Minute

// Cache is a narrow read-through cache port, separate from
// ports.CacheInvalidator since the query side only ever reads and
// populates, never invalidates directly (invalidation is the command side's
// job, spec §4.2 step 6).
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// SKULister enumerates every SKU currently tracked, so GetHealthMetrics can
// scan the whole catalog rather than only SKUs a caller already knows about.
type SKULister interface {
	ListAllSKUs(ctx context.Context) ([]string, error)
}

// LedgerReader is the slice of ports.LedgerRepository GetHealthMetrics needs
// to compute turnover and dead-stock detection from ledger history.
type LedgerReader interface {
	ListBySKU(ctx context.Context, sku string, since, until time.Time, limit int) ([]ledger.Entry, error)
}

// Service is the query-side application service.
type Service struct {
	repo   ports.ProductStockRepository
	skus   SKULister
	ledger LedgerReader
	cache  Cache
	log    mlog.Logger
}

// New builds a query Service. cache may be nil, in which case every call
// falls through to repo.
func New(repo ports.ProductStockRepository, skus SKULister, ledgerReader LedgerReader, cache Cache, log mlog.Logger) *Service {
	if log == nil {
		log = mlog.NopLogger{}
	}

	return &Service{repo: repo, skus: skus, ledger: ledgerReader, cache: cache, log: log}
}

// GetStockLevel returns the current stock-level view for sku, serving from
// cache when available (spec §9: caching is an optimization over this single
// read path, never a source of truth).
func (s *Service) GetStockLevel(ctx context.Context, sku string) (*StockLevelView, error) {
	key := cacheKey(sku)

	if s.cache != nil {
		if raw, found, err := s.cache.Get(ctx, key); err != nil {
			s.log.Warnf("query: cache read failed for sku %s: %v", sku, err)
		} else if found {
			var view StockLevelView
			if err := json.Unmarshal(raw, &view); err == nil {
				return &view, nil
			}
		}
	}

	agg, err := s.repo.FindBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}

	if agg == nil {
		return nil, apperr.New(apperr.KindProductStockNotFound, "sku %s not found", sku)
	}

	agg.ExpireHoldsLazily(time.Now())

	view := &StockLevelView{
		SKU:                 agg.SKU,
		QuantityOnHand:      agg.StockLevel.QuantityOnHand,
		QuantityAllocated:   agg.StockLevel.QuantityAllocated,
		AvailableToPromise:  agg.ATP(time.Now()),
		StockStatusQuantity: agg.StockStatusQuantity,
	}

	if s.cache != nil {
		if raw, err := json.Marshal(view); err == nil {
			if err := s.cache.Set(ctx, key, raw, stockLevelCacheTTL); err != nil {
				s.log.Warnf("query: cache write failed for sku %s: %v", sku, err)
			}
		}
	}

	return view, nil
}

// GetHealthMetrics reports catalog-wide turnover, dead stock, and
// out-of-stock SKUs (spec §6.1). categoryFilter, when non-nil, restricts the
// scan to SKUs currently classified into that ABC class; dateRange, when
// nil, defaults to DefaultHealthMetricsWindow ending now.
func (s *Service) GetHealthMetrics(ctx context.Context, categoryFilter *stock.ABCClass, dateRange *DateRange) (*HealthMetrics, error) {
	since, until := resolveDateRange(dateRange)

	skus, err := s.skus.ListAllSKUs(ctx)
	if err != nil {
		return nil, err
	}

	metrics := &HealthMetrics{TotalSKUs: int64(len(skus))}

	var (
		totalOutboundUnits int64
		totalOnHand        int64
		countedSKUs        int64
	)

	for _, sku := range skus {
		agg, err := s.repo.FindBySKU(ctx, sku)
		if err != nil {
			s.log.Warnf("query: load %s for health metrics failed: %v", sku, err)
			continue
		}

		if agg == nil {
			continue
		}

		if categoryFilter != nil && (agg.ABCClassification == nil || agg.ABCClassification.Class != *categoryFilter) {
			continue
		}

		countedSKUs++
		totalOnHand += agg.StockLevel.QuantityOnHand

		if agg.StockLevel.QuantityOnHand == 0 {
			metrics.OutOfStockSKUs = append(metrics.OutOfStockSKUs, sku)
		}

		entries, err := s.ledger.ListBySKU(ctx, sku, since, until, healthMetricsLedgerLimit)
		if err != nil {
			s.log.Warnf("query: load ledger for %s for health metrics failed: %v", sku, err)
			continue
		}

		outboundUnits := outboundUnitsPicked(entries)
		totalOutboundUnits += outboundUnits

		if outboundUnits == 0 && agg.StockLevel.QuantityOnHand > 0 {
			metrics.DeadStockSKUs = append(metrics.DeadStockSKUs, sku)
		}
	}

	if countedSKUs > 0 && totalOnHand > 0 {
		avgOnHand := float64(totalOnHand) / float64(countedSKUs)
		metrics.Turnover = float64(totalOutboundUnits) / avgOnHand
	}

	return metrics, nil
}

func outboundUnitsPicked(entries []ledger.Entry) int64 {
	var total int64

	for _, e := range entries {
		if e.ChangeType != ledger.ChangeTypePick {
			continue
		}

		if e.QuantityChange < 0 {
			total -= e.QuantityChange
		} else {
			total += e.QuantityChange
		}
	}

	return total
}

func resolveDateRange(dateRange *DateRange) (time.Time, time.Time) {
	if dateRange != nil {
		return dateRange.Since, dateRange.Until
	}

	until := time.Now()

	return until.Add(-DefaultHealthMetricsWindow), until
}

func cacheKey(sku string) string {
	return "inventory:stock-level:" + sku
}
