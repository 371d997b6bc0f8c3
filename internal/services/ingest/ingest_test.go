package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/paklog/inventory-ledger/internal/apperr"
	"github.com/paklog/inventory-ledger/internal/domain/stock"
	"github.com/paklog/inventory-ledger/internal/ports/mock"
	"github.com/paklog/inventory-ledger/internal/services/command"
	"github.com/paklog/inventory-ledger/pkg/mlog"
	"github.com/paklog/inventory-ledger/pkg/retry"
)

type fakeDeadLetter struct {
	eventType string
	body      []byte
	reason    error
	parked    bool
	returnErr error
}

func (f *fakeDeadLetter) Park(_ context.Context, eventType string, body []byte, reason error) error {
	f.parked = true
	f.eventType = eventType
	f.body = body
	f.reason = reason

	return f.returnErr
}

func fastRetryConfig() retry.Config {
	return retry.DefaultCommandRetryConfig().WithMaxRetries(1).WithInitialBackoff(0).WithMaxBackoff(0)
}

func TestHandleItemPicked_MalformedPayloadIsDeadLettered(t *testing.T) {
	repo := mock.NewMockProductStockRepository(gomock.NewController(t))
	dl := &fakeDeadLetter{}

	cmdSvc := command.New(repo, nil, fastRetryConfig(), mlog.NopLogger{})
	h := New(cmdSvc, dl, mlog.NopLogger{})

	err := h.HandleItemPicked(context.Background(), []byte(`not-json`))

	require.Error(t, err)
	assert.True(t, dl.parked)
	assert.Equal(t, "item.picked", dl.eventType)

	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, apperr.KindSchemaValidation, ae.Kind)
}

func TestHandleItemPicked_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock.NewMockProductStockRepository(ctrl)

	agg := stock.New("SKU-1")
	require.NoError(t, agg.Create(100))
	require.NoError(t, agg.Allocate(10))
	agg.ClearPendingEvents()

	repo.EXPECT().FindBySKU(gomock.Any(), "SKU-1").Return(agg, nil)
	repo.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	cmdSvc := command.New(repo, nil, fastRetryConfig(), mlog.NopLogger{})
	h := New(cmdSvc, nil, mlog.NopLogger{})

	body := []byte(`{"sku":"SKU-1","quantity":5,"orderId":"order-1"}`)
	err := h.HandleItemPicked(context.Background(), body)

	require.NoError(t, err)
}

func TestHandleAllocationRequested_InsufficientStockIsDeadLetteredNotReturned(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock.NewMockProductStockRepository(ctrl)

	agg := stock.New("SKU-1")
	require.NoError(t, agg.Create(5))
	agg.ClearPendingEvents()

	repo.EXPECT().FindBySKU(gomock.Any(), "SKU-1").Return(agg, nil)

	cmdSvc := command.New(repo, nil, fastRetryConfig(), mlog.NopLogger{})
	dl := &fakeDeadLetter{}
	h := New(cmdSvc, dl, mlog.NopLogger{})

	body := []byte(`{"sku":"SKU-1","quantity":100,"orderId":"order-1"}`)
	err := h.HandleAllocationRequested(context.Background(), body)

	// A precondition violation is not retryable: the handler parks it and
	// reports success to the caller so the bus does not redeliver it.
	require.NoError(t, err)
	assert.True(t, dl.parked)
	assert.Equal(t, "inventory.allocation.requested", dl.eventType)
}

func TestHandleQualityInspectionCompleted_PassedMovesToAvailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock.NewMockProductStockRepository(ctrl)

	agg := stock.New("SKU-1")
	require.NoError(t, agg.Create(100))
	require.NoError(t, agg.ChangeStockStatus(stock.StatusAvailable, stock.StatusQuarantine, 20, "inspection hold", nil))
	agg.ClearPendingEvents()

	repo.EXPECT().FindBySKU(gomock.Any(), "SKU-1").Return(agg, nil)
	repo.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, saved *stock.Aggregate, _, _ any) error {
			assert.Equal(t, int64(100), saved.StockStatusQuantity[stock.StatusAvailable])
			assert.Equal(t, int64(0), saved.StockStatusQuantity[stock.StatusQuarantine])
			return nil
		})

	cmdSvc := command.New(repo, nil, fastRetryConfig(), mlog.NopLogger{})
	h := New(cmdSvc, nil, mlog.NopLogger{})

	body := []byte(`{"sku":"SKU-1","quantity":20,"passed":true}`)
	err := h.HandleQualityInspectionCompleted(context.Background(), body)

	require.NoError(t, err)
}

func TestHandleDamageReported_MovesAvailableToDamaged(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock.NewMockProductStockRepository(ctrl)

	agg := stock.New("SKU-1")
	require.NoError(t, agg.Create(100))
	agg.ClearPendingEvents()

	repo.EXPECT().FindBySKU(gomock.Any(), "SKU-1").Return(agg, nil)
	repo.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	cmdSvc := command.New(repo, nil, fastRetryConfig(), mlog.NopLogger{})
	h := New(cmdSvc, nil, mlog.NopLogger{})

	body := []byte(`{"sku":"SKU-1","quantity":5,"reason":"forklift"}`)
	err := h.HandleDamageReported(context.Background(), body)

	require.NoError(t, err)
}

func TestPark_LogsWhenNoDeadLetterSinkConfigured(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock.NewMockProductStockRepository(ctrl)
	cmdSvc := command.New(repo, nil, fastRetryConfig(), mlog.NopLogger{})
	h := New(cmdSvc, nil, mlog.NopLogger{})

	err := h.HandleItemPicked(context.Background(), []byte(`not-json`))

	require.Error(t, err)
}

func TestPark_SinkFailureIsLoggedNotPropagated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock.NewMockProductStockRepository(ctrl)

	agg := stock.New("SKU-1")
	require.NoError(t, agg.Create(5))
	agg.ClearPendingEvents()

	repo.EXPECT().FindBySKU(gomock.Any(), "SKU-1").Return(agg, nil)

	dl := &fakeDeadLetter{returnErr: errors.New("parking lot unavailable")}
	cmdSvc := command.New(repo, nil, fastRetryConfig(), mlog.NopLogger{})
	h := New(cmdSvc, dl, mlog.NopLogger{})

	body := []byte(`{"sku":"SKU-1","quantity":100,"orderId":"order-1"}`)
	err := h.HandleAllocationRequested(context.Background(), body)

	require.NoError(t, err)
	assert.True(t, dl.parked)
}
