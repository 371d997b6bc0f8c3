package replay

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/paklog/inventory-ledger/internal/domain/snapshot"
	"github.com/paklog/inventory-ledger/internal/domain/stock"
	"github.com/paklog/inventory-ledger/internal/ports/mock"
	"github.com/paklog/inventory-ledger/pkg/mlog"
)

type fakeSKULister struct {
	skus []string
	err  error
}

func (f fakeSKULister) ListAllSKUs(_ context.Context) ([]string, error) {
	return f.skus, f.err
}

func TestDefaultSchedulerConfig_MatchesStandingCadences(t *testing.T) {
	cfg := DefaultSchedulerConfig()

	assert.Equal(t, "0 1 * * *", cfg.DailyCron)
	assert.Equal(t, "0 2 1 * *", cfg.MonthlyCron)
	assert.Equal(t, "0 23 31 12 *", cfg.YearEndCron)
}

func TestNewScheduler_RejectsInvalidCronExpression(t *testing.T) {
	cfg := SchedulerConfig{DailyCron: "not-a-cron", MonthlyCron: "0 2 1 * *", YearEndCron: "0 23 31 12 *"}

	_, err := NewScheduler(cfg, fakeSKULister{}, nil, nil, mlog.NopLogger{})

	assert.Error(t, err)
}

func TestCaptureAll_SavesASnapshotPerSKUAndSkipsMissingAggregates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock.NewMockProductStockRepository(ctrl)
	snapRepo := mock.NewMockSnapshotRepository(ctrl)

	agg := stock.New("SKU-1")
	require.NoError(t, agg.Create(10))

	lister := fakeSKULister{skus: []string{"SKU-1", "SKU-MISSING"}}

	repo.EXPECT().FindBySKU(gomock.Any(), "SKU-1").Return(agg, nil)
	repo.EXPECT().FindBySKU(gomock.Any(), "SKU-MISSING").Return(nil, nil)

	snapRepo.EXPECT().Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, snap snapshot.Snapshot) error {
			assert.Equal(t, "SKU-1", snap.SKU)
			assert.Equal(t, snapshot.TypeDaily, snap.Type)
			return nil
		})

	sched, err := NewScheduler(DefaultSchedulerConfig(), lister, repo, snapRepo, mlog.NopLogger{})
	require.NoError(t, err)

	require.NoError(t, sched.captureAll(context.Background(), snapshot.TypeDaily))
}

func TestCaptureAll_RepositoryErrorSkipsThatSKUButContinues(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock.NewMockProductStockRepository(ctrl)
	snapRepo := mock.NewMockSnapshotRepository(ctrl)

	agg := stock.New("SKU-2")
	require.NoError(t, agg.Create(5))

	lister := fakeSKULister{skus: []string{"SKU-BROKEN", "SKU-2"}}

	repo.EXPECT().FindBySKU(gomock.Any(), "SKU-BROKEN").Return(nil, assert.AnError)
	repo.EXPECT().FindBySKU(gomock.Any(), "SKU-2").Return(agg, nil)
	snapRepo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

	sched, err := NewScheduler(DefaultSchedulerConfig(), lister, repo, snapRepo, mlog.NopLogger{})
	require.NoError(t, err)

	require.NoError(t, sched.captureAll(context.Background(), snapshot.TypeMonthly))
}

func TestCaptureAll_ListerErrorIsReturned(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock.NewMockProductStockRepository(ctrl)
	snapRepo := mock.NewMockSnapshotRepository(ctrl)

	lister := fakeSKULister{err: assert.AnError}

	sched, err := NewScheduler(DefaultSchedulerConfig(), lister, repo, snapRepo, mlog.NopLogger{})
	require.NoError(t, err)

	assert.Error(t, sched.captureAll(context.Background(), snapshot.TypeYearEnd))
}
