package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/paklog/inventory-ledger/internal/domain/ledger"
	"github.com/paklog/inventory-ledger/internal/domain/stock"
	"github.com/paklog/inventory-ledger/internal/ports/mock"
	"github.com/paklog/inventory-ledger/pkg/mlog"
)

type fakeCache struct {
	store map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: make(map[string][]byte)}
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := c.store[key]
	return v, ok, nil
}

func (c *fakeCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.store[key] = value
	return nil
}

type fakeSKULister struct {
	skus []string
}

func (f fakeSKULister) ListAllSKUs(_ context.Context) ([]string, error) {
	return f.skus, nil
}

type fakeLedgerReader struct {
	bySKU map[string][]ledger.Entry
}

func (f fakeLedgerReader) ListBySKU(_ context.Context, sku string, _, _ time.Time, _ int) ([]ledger.Entry, error) {
	return f.bySKU[sku], nil
}

func TestGetStockLevel_FallsThroughToRepoOnCacheMiss(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock.NewMockProductStockRepository(ctrl)

	agg := stock.New("SKU-1")
	require.NoError(t, agg.Create(100))
	require.NoError(t, agg.Allocate(20))

	repo.EXPECT().FindBySKU(gomock.Any(), "SKU-1").Return(agg, nil)

	cache := newFakeCache()
	svc := New(repo, nil, nil, cache, mlog.NopLogger{})

	view, err := svc.GetStockLevel(context.Background(), "SKU-1")

	require.NoError(t, err)
	assert.Equal(t, int64(100), view.QuantityOnHand)
	assert.Equal(t, int64(20), view.QuantityAllocated)
	assert.Equal(t, int64(80), view.AvailableToPromise)
	assert.Contains(t, cache.store, cacheKey("SKU-1"))
}

func TestGetStockLevel_ServesFromCacheOnHit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock.NewMockProductStockRepository(ctrl)

	agg := stock.New("SKU-1")
	require.NoError(t, agg.Create(100))

	repo.EXPECT().FindBySKU(gomock.Any(), "SKU-1").Return(agg, nil).Times(1)

	cache := newFakeCache()
	svc := New(repo, nil, nil, cache, mlog.NopLogger{})

	_, err := svc.GetStockLevel(context.Background(), "SKU-1")
	require.NoError(t, err)

	// Second call must be served entirely from cache: repo.FindBySKU is
	// expected exactly once above.
	view, err := svc.GetStockLevel(context.Background(), "SKU-1")
	require.NoError(t, err)
	assert.Equal(t, "SKU-1", view.SKU)
}

func TestGetStockLevel_NotFoundReturnsError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock.NewMockProductStockRepository(ctrl)
	repo.EXPECT().FindBySKU(gomock.Any(), "SKU-MISSING").Return(nil, nil)

	svc := New(repo, nil, nil, nil, mlog.NopLogger{})

	_, err := svc.GetStockLevel(context.Background(), "SKU-MISSING")

	assert.Error(t, err)
}

func TestGetHealthMetrics_ComputesTurnoverDeadStockAndOutOfStock(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock.NewMockProductStockRepository(ctrl)

	active := stock.New("SKU-ACTIVE")
	require.NoError(t, active.Create(100))

	dead := stock.New("SKU-DEAD")
	require.NoError(t, dead.Create(50))

	empty := stock.New("SKU-EMPTY")

	repo.EXPECT().FindBySKU(gomock.Any(), "SKU-ACTIVE").Return(active, nil)
	repo.EXPECT().FindBySKU(gomock.Any(), "SKU-DEAD").Return(dead, nil)
	repo.EXPECT().FindBySKU(gomock.Any(), "SKU-EMPTY").Return(empty, nil)

	skus := fakeSKULister{skus: []string{"SKU-ACTIVE", "SKU-DEAD", "SKU-EMPTY"}}
	ledgerReader := fakeLedgerReader{bySKU: map[string][]ledger.Entry{
		"SKU-ACTIVE": {
			{ChangeType: ledger.ChangeTypePick, QuantityChange: -30},
			{ChangeType: ledger.ChangeTypeAllocation, QuantityChange: -10},
		},
	}}

	svc := New(repo, skus, ledgerReader, nil, mlog.NopLogger{})

	got, err := svc.GetHealthMetrics(context.Background(), nil, nil)

	require.NoError(t, err)
	assert.Equal(t, int64(3), got.TotalSKUs)
	assert.Equal(t, []string{"SKU-EMPTY"}, got.OutOfStockSKUs)
	assert.Equal(t, []string{"SKU-DEAD"}, got.DeadStockSKUs)
	assert.True(t, got.Turnover > 0)
}

func TestGetHealthMetrics_CategoryFilterExcludesOtherClasses(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock.NewMockProductStockRepository(ctrl)

	classA := stock.New("SKU-A")
	require.NoError(t, classA.Create(10))
	classA.ABCClassification = &stock.ABCClassification{Class: stock.ABCClassA}

	classB := stock.New("SKU-B")
	require.NoError(t, classB.Create(10))
	classB.ABCClassification = &stock.ABCClassification{Class: stock.ABCClassB}

	repo.EXPECT().FindBySKU(gomock.Any(), "SKU-A").Return(classA, nil)
	repo.EXPECT().FindBySKU(gomock.Any(), "SKU-B").Return(classB, nil)

	skus := fakeSKULister{skus: []string{"SKU-A", "SKU-B"}}
	ledgerReader := fakeLedgerReader{bySKU: map[string][]ledger.Entry{}}

	filter := stock.ABCClassA
	svc := New(repo, skus, ledgerReader, nil, mlog.NopLogger{})

	got, err := svc.GetHealthMetrics(context.Background(), &filter, nil)

	require.NoError(t, err)
	assert.Equal(t, int64(2), got.TotalSKUs)
	assert.Equal(t, []string{"SKU-A"}, got.DeadStockSKUs)
}

func TestGetHealthMetrics_RespectsExplicitDateRange(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock.NewMockProductStockRepository(ctrl)

	agg := stock.New("SKU-1")
	require.NoError(t, agg.Create(10))
	repo.EXPECT().FindBySKU(gomock.Any(), "SKU-1").Return(agg, nil)

	skus := fakeSKULister{skus: []string{"SKU-1"}}
	ledgerReader := fakeLedgerReader{bySKU: map[string][]ledger.Entry{}}

	svc := New(repo, skus, ledgerReader, nil, mlog.NopLogger{})

	dr := &DateRange{Since: time.Now().Add(-time.Hour), Until: time.Now()}
	got, err := svc.GetHealthMetrics(context.Background(), nil, dr)

	require.NoError(t, err)
	assert.Equal(t, []string{"SKU-1"}, got.DeadStockSKUs)
}
