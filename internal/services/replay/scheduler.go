package replay

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/paklog/inventory-ledger/internal/domain/snapshot"
	"github.com/paklog/inventory-ledger/internal/ports"
	"github.com/paklog/inventory-ledger/pkg/mlog"
)

// SchedulerConfig tunes the three standing snapshot cadences (spec §4.5,
// §6.4 snapshot.schedule.*), each given as a standard five-field cron
// expression.
type SchedulerConfig struct {
	DailyCron   string
	MonthlyCron string
	YearEndCron string
}

// DefaultSchedulerConfig captures a snapshot daily at 01:00, monthly on the
// 1st at 02:00, and year-end on Dec 31 at 23:00, all in the server's local
// time zone.
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		DailyCron:   "0 1 * * *",
		MonthlyCron: "0 2 1 * *",
		YearEndCron: "0 23 31 12 *",
	}
}

// SKULister enumerates the SKUs a scheduled snapshot pass should cover.
// Implemented by the repository adapter; kept as its own narrow port so the
// scheduler does not need the full ProductStockRepository surface.
type SKULister interface {
	ListAllSKUs(ctx context.Context) ([]string, error)
}

// Scheduler drives periodic snapshot capture via cron.Cron (spec §4.5: "runs
// on a schedule independent of any write path").
type Scheduler struct {
	cron     *cron.Cron
	lister   SKULister
	repo     ports.ProductStockRepository
	snapRepo ports.SnapshotRepository
	log      mlog.Logger
}

// NewScheduler builds a Scheduler; call Start to begin firing.
func NewScheduler(cfg SchedulerConfig, lister SKULister, repo ports.ProductStockRepository, snapRepo ports.SnapshotRepository, log mlog.Logger) (*Scheduler, error) {
	if log == nil {
		log = mlog.NopLogger{}
	}

	c := cron.New()
	s := &Scheduler{cron: c, lister: lister, repo: repo, snapRepo: snapRepo, log: log}

	if _, err := c.AddFunc(cfg.DailyCron, s.runCapture(snapshot.TypeDaily)); err != nil {
		return nil, err
	}

	if _, err := c.AddFunc(cfg.MonthlyCron, s.runCapture(snapshot.TypeMonthly)); err != nil {
		return nil, err
	}

	if _, err := c.AddFunc(cfg.YearEndCron, s.runCapture(snapshot.TypeYearEnd)); err != nil {
		return nil, err
	}

	return s, nil
}

// Start begins the cron loop. Stop ends it.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop blocks until the currently running job (if any) completes.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runCapture(snapType snapshot.Type) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		if err := s.captureAll(ctx, snapType); err != nil {
			s.log.Errorf("snapshot scheduler: %s pass failed: %v", snapType, err)
		}
	}
}

func (s *Scheduler) captureAll(ctx context.Context, snapType snapshot.Type) error {
	skus, err := s.lister.ListAllSKUs(ctx)
	if err != nil {
		return err
	}

	for _, sku := range skus {
		agg, err := s.repo.FindBySKU(ctx, sku)
		if err != nil {
			s.log.Warnf("snapshot scheduler: load %s failed: %v", sku, err)
			continue
		}

		if agg == nil {
			continue
		}

		snap := snapshot.New(agg, snapType, "SCHEDULED", "system")

		if err := s.snapRepo.Save(ctx, snap); err != nil {
			s.log.Warnf("snapshot scheduler: save snapshot for %s failed: %v", sku, err)
		}
	}

	s.log.Infof("snapshot scheduler: %s pass captured %d SKUs", snapType, len(skus))

	return nil
}
