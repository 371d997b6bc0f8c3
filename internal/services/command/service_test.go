package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/paklog/inventory-ledger/internal/apperr"
	"github.com/paklog/inventory-ledger/internal/domain/ledger"
	"github.com/paklog/inventory-ledger/internal/domain/outbox"
	"github.com/paklog/inventory-ledger/internal/domain/stock"
	"github.com/paklog/inventory-ledger/internal/ports/mock"
	"github.com/paklog/inventory-ledger/pkg/mlog"
	"github.com/paklog/inventory-ledger/pkg/retry"
)

func fastRetryConfig() retry.Config {
	return retry.DefaultCommandRetryConfig().WithMaxRetries(3).WithInitialBackoff(0).WithMaxBackoff(0)
}

func TestAllocate_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock.NewMockProductStockRepository(ctrl)
	cache := mock.NewMockCacheInvalidator(ctrl)

	existing := stock.New("SKU-1")
	require.NoError(t, existing.Create(100))
	existing.ClearPendingEvents()

	repo.EXPECT().FindBySKU(gomock.Any(), "SKU-1").Return(existing, nil)
	repo.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	cache.EXPECT().InvalidateStockLevel(gomock.Any(), "SKU-1").Return(nil)

	svc := New(repo, cache, fastRetryConfig(), mlog.NopLogger{})

	agg, err := svc.Allocate(context.Background(), "SKU-1", 10, "order-1", "operator-1")

	require.NoError(t, err)
	assert.Equal(t, int64(10), agg.StockLevel.QuantityAllocated)
}

func TestAllocate_InsufficientStockNotRetried(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock.NewMockProductStockRepository(ctrl)

	existing := stock.New("SKU-1")
	require.NoError(t, existing.Create(5))
	existing.ClearPendingEvents()

	// FindBySKU must be called exactly once: an InsufficientStock failure is
	// a precondition violation, never retried.
	repo.EXPECT().FindBySKU(gomock.Any(), "SKU-1").Return(existing, nil).Times(1)

	svc := New(repo, nil, fastRetryConfig(), mlog.NopLogger{})

	_, err := svc.Allocate(context.Background(), "SKU-1", 100, "order-1", "operator-1")

	require.Error(t, err)
	assert.Equal(t, apperr.KindInsufficientStock, apperr.KindOf(err))
}

func TestExecute_RetriesOnConcurrentModificationThenSucceeds(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock.NewMockProductStockRepository(ctrl)

	fresh := func() *stock.Aggregate {
		a := stock.New("SKU-1")
		require.NoError(t, a.Create(100))
		a.ClearPendingEvents()
		return a
	}

	// Each reload returns a new copy of the stored state, as the real
	// repository does, so the retried allocation starts from scratch.
	repo.EXPECT().FindBySKU(gomock.Any(), "SKU-1").
		DoAndReturn(func(context.Context, string) (*stock.Aggregate, error) { return fresh(), nil }).Times(2)
	repo.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(apperr.New(apperr.KindConcurrentModification, "version mismatch")).Times(1)
	repo.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).Times(1)

	svc := New(repo, nil, fastRetryConfig(), mlog.NopLogger{})

	agg, err := svc.Allocate(context.Background(), "SKU-1", 10, "order-1", "operator-1")

	require.NoError(t, err)
	assert.Equal(t, int64(10), agg.StockLevel.QuantityAllocated)
}

func TestExecute_BudgetExhaustedOnRepeatedConflict(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock.NewMockProductStockRepository(ctrl)

	fresh := func() *stock.Aggregate {
		a := stock.New("SKU-1")
		require.NoError(t, a.Create(100))
		a.ClearPendingEvents()
		return a
	}

	cfg := fastRetryConfig()

	repo.EXPECT().FindBySKU(gomock.Any(), "SKU-1").Return(fresh(), nil).Times(cfg.MaxRetries + 1)
	repo.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(apperr.New(apperr.KindConcurrentModification, "version mismatch")).Times(cfg.MaxRetries + 1)

	svc := New(repo, nil, cfg, mlog.NopLogger{})

	_, err := svc.Allocate(context.Background(), "SKU-1", 10, "order-1", "operator-1")

	assert.Error(t, err)
}

func TestPlaceHold_ReturnsHoldID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock.NewMockProductStockRepository(ctrl)

	existing := stock.New("SKU-1")
	require.NoError(t, existing.Create(100))
	existing.ClearPendingEvents()

	repo.EXPECT().FindBySKU(gomock.Any(), "SKU-1").Return(existing, nil)
	repo.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *stock.Aggregate, _ *ledger.Entry, _ []outbox.Record) error {
			return nil
		})

	svc := New(repo, nil, fastRetryConfig(), mlog.NopLogger{})

	_, holdID, err := svc.PlaceHold(context.Background(), "SKU-1", stock.HoldType("QUALITY"), 10, "pending QA", "qa-bot", nil)

	require.NoError(t, err)
	assert.NotEmpty(t, holdID)
}

func TestReceiveStock_CreatesAggregateWhenMissing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock.NewMockProductStockRepository(ctrl)

	repo.EXPECT().FindBySKU(gomock.Any(), "SKU-NEW").Return(nil, nil)
	repo.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	svc := New(repo, nil, fastRetryConfig(), mlog.NopLogger{})

	agg, err := svc.ReceiveStock(context.Background(), "SKU-NEW", 50, "receipt-1", "operator-1")

	require.NoError(t, err)
	assert.Equal(t, int64(50), agg.StockLevel.QuantityOnHand)
}
