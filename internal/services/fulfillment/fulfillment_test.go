package fulfillment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/paklog/inventory-ledger/internal/domain/assembly"
	"github.com/paklog/inventory-ledger/internal/domain/serial"
	"github.com/paklog/inventory-ledger/internal/domain/stock"
	"github.com/paklog/inventory-ledger/internal/domain/transfer"
	"github.com/paklog/inventory-ledger/internal/ports/mock"
	"github.com/paklog/inventory-ledger/internal/services/command"
	"github.com/paklog/inventory-ledger/pkg/mlog"
	"github.com/paklog/inventory-ledger/pkg/retry"
)

func newCommandService(repo *mock.MockProductStockRepository) *command.Service {
	cfg := retry.DefaultCommandRetryConfig().WithMaxRetries(1).WithInitialBackoff(0).WithMaxBackoff(0)
	return command.New(repo, nil, cfg, mlog.NopLogger{})
}

func TestInitiateTransfer_SavesAndPublishes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	transfers := mock.NewMockTransferRepository(ctrl)
	bus := mock.NewMockBusPublisher(ctrl)

	transfers.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
	bus.EXPECT().Publish(gomock.Any(), "stock-events", "stock.stock-transfer.initiated", gomock.Any()).Return(nil)

	svc := New(transfers, nil, nil, nil, nil, bus, "stock-events", "stock", mlog.NopLogger{})

	tr, err := svc.InitiateTransfer(context.Background(), "SKU-1", "DOCK-1", "DOCK-2", 10)

	require.NoError(t, err)
	assert.Equal(t, transfer.StatusInitiated, tr.Status)
}

func TestInitiateTransfer_RejectsNonPositiveQuantity(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	transfers := mock.NewMockTransferRepository(ctrl)
	svc := New(transfers, nil, nil, nil, nil, nil, "stock-events", "stock", mlog.NopLogger{})

	_, err := svc.InitiateTransfer(context.Background(), "SKU-1", "DOCK-1", "DOCK-2", 0)

	assert.Error(t, err)
}

func TestAssignContainer_AttachesNewContainer(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	existing, err := transfer.Initiate("SKU-1", "DOCK-1", "DOCK-2", 10)
	require.NoError(t, err)

	transfers := mock.NewMockTransferRepository(ctrl)
	containers := mock.NewMockContainerRepository(ctrl)

	transfers.EXPECT().FindByID(gomock.Any(), existing.ID.String()).Return(existing, nil)
	containers.EXPECT().FindByLPN(gomock.Any(), "LPN-1").Return(nil, nil)
	containers.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
	transfers.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

	svc := New(transfers, nil, containers, nil, nil, nil, "stock-events", "stock", mlog.NopLogger{})

	tr, err := svc.AssignContainer(context.Background(), existing.ID.String(), "LPN-1")

	require.NoError(t, err)
	require.NotNil(t, tr.ContainerID)
	assert.Equal(t, "LPN-1", *tr.ContainerID)
}

func TestAssignContainer_RejectsNonInitiatedTransfer(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	existing, err := transfer.Initiate("SKU-1", "DOCK-1", "DOCK-2", 10)
	require.NoError(t, err)
	require.NoError(t, existing.Dispatch())

	transfers := mock.NewMockTransferRepository(ctrl)
	transfers.EXPECT().FindByID(gomock.Any(), existing.ID.String()).Return(existing, nil)

	svc := New(transfers, nil, mock.NewMockContainerRepository(ctrl), nil, nil, nil, "stock-events", "stock", mlog.NopLogger{})

	_, err = svc.AssignContainer(context.Background(), existing.ID.String(), "LPN-1")

	assert.Error(t, err)
}

func TestCompleteTransfer_RecordsShrinkageAndPublishes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	existing, err := transfer.Initiate("SKU-1", "DOCK-1", "DOCK-2", 10)
	require.NoError(t, err)
	require.NoError(t, existing.Dispatch())

	transfers := mock.NewMockTransferRepository(ctrl)
	bus := mock.NewMockBusPublisher(ctrl)

	transfers.EXPECT().FindByID(gomock.Any(), existing.ID.String()).Return(existing, nil)
	transfers.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
	bus.EXPECT().Publish(gomock.Any(), "stock-events", "stock.stock-transfer.completed", gomock.Any()).Return(nil)

	svc := New(transfers, nil, nil, nil, nil, bus, "stock-events", "stock", mlog.NopLogger{})

	tr, err := svc.CompleteTransfer(context.Background(), existing.ID.String(), 8)

	require.NoError(t, err)
	assert.Equal(t, transfer.StatusCompleted, tr.Status)
	assert.Equal(t, int64(2), tr.Shrinkage)
}

func TestCancelTransfer_NotFoundReturnsError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	transfers := mock.NewMockTransferRepository(ctrl)
	transfers.EXPECT().FindByID(gomock.Any(), "missing").Return(nil, nil)

	svc := New(transfers, nil, nil, nil, nil, nil, "stock-events", "stock", mlog.NopLogger{})

	_, err := svc.CancelTransfer(context.Background(), "missing")

	assert.Error(t, err)
}

func TestSerialNumberLifecycle_ReceiveAllocateShip(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	serials := mock.NewMockSerialNumberRepository(ctrl)
	bus := mock.NewMockBusPublisher(ctrl)

	serials.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
	bus.EXPECT().Publish(gomock.Any(), "stock-events", "stock.serial-number.received", gomock.Any()).Return(nil)

	svc := New(nil, serials, nil, nil, nil, bus, "stock-events", "stock", mlog.NopLogger{})

	sn, err := svc.ReceiveSerialNumber(context.Background(), "SKU-1", "SN-001")
	require.NoError(t, err)
	assert.Equal(t, serial.StatusReceived, sn.Status)

	serials.EXPECT().FindByNumber(gomock.Any(), "SKU-1", "SN-001").Return(sn, nil)
	serials.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
	bus.EXPECT().Publish(gomock.Any(), "stock-events", "stock.serial-number.allocated", gomock.Any()).Return(nil)

	sn, err = svc.AllocateSerialNumber(context.Background(), "SKU-1", "SN-001", "order-1")
	require.NoError(t, err)
	assert.Equal(t, serial.StatusAllocated, sn.Status)

	serials.EXPECT().FindByNumber(gomock.Any(), "SKU-1", "SN-001").Return(sn, nil)
	serials.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
	bus.EXPECT().Publish(gomock.Any(), "stock-events", "stock.serial-number.shipped", gomock.Any()).Return(nil)

	sn, err = svc.ShipSerialNumber(context.Background(), "SKU-1", "SN-001")
	require.NoError(t, err)
	assert.Equal(t, serial.StatusShipped, sn.Status)
}

func TestAllocateSerialNumber_NotFoundReturnsError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	serials := mock.NewMockSerialNumberRepository(ctrl)
	serials.EXPECT().FindByNumber(gomock.Any(), "SKU-1", "SN-404").Return(nil, nil)

	svc := New(nil, serials, nil, nil, nil, nil, "stock-events", "stock", mlog.NopLogger{})

	_, err := svc.AllocateSerialNumber(context.Background(), "SKU-1", "SN-404", "order-1")

	assert.Error(t, err)
}

func TestStartAssemblyOrder_AllocatesComponentsThenTransitions(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	order, err := assembly.New("SKU-FINISHED", 10, []assembly.Component{
		{SKU: "SKU-PART-A", Quantity: 5},
		{SKU: "SKU-PART-B", Quantity: 3},
	})
	require.NoError(t, err)

	orders := mock.NewMockAssemblyOrderRepository(ctrl)
	stockRepo := mock.NewMockProductStockRepository(ctrl)

	orders.EXPECT().FindByID(gomock.Any(), order.ID.String()).Return(order, nil)

	partA := stock.New("SKU-PART-A")
	require.NoError(t, partA.Create(100))
	partA.ClearPendingEvents()
	partB := stock.New("SKU-PART-B")
	require.NoError(t, partB.Create(100))
	partB.ClearPendingEvents()

	stockRepo.EXPECT().FindBySKU(gomock.Any(), "SKU-PART-A").Return(partA, nil)
	stockRepo.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	stockRepo.EXPECT().FindBySKU(gomock.Any(), "SKU-PART-B").Return(partB, nil)
	stockRepo.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	orders.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

	svc := New(nil, nil, nil, orders, newCommandService(stockRepo), nil, "stock-events", "stock", mlog.NopLogger{})

	started, err := svc.StartAssemblyOrder(context.Background(), order.ID.String(), "operator-1")

	require.NoError(t, err)
	assert.Equal(t, assembly.StatusInProgress, started.Status)
	assert.True(t, started.Components[0].Allocated)
	assert.True(t, started.Components[1].Allocated)
}

func TestStartAssemblyOrder_PersistsPartialProgressOnFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	order, err := assembly.New("SKU-FINISHED", 10, []assembly.Component{
		{SKU: "SKU-PART-A", Quantity: 5},
		{SKU: "SKU-PART-B", Quantity: 1000},
	})
	require.NoError(t, err)

	orders := mock.NewMockAssemblyOrderRepository(ctrl)
	stockRepo := mock.NewMockProductStockRepository(ctrl)

	orders.EXPECT().FindByID(gomock.Any(), order.ID.String()).Return(order, nil)

	partA := stock.New("SKU-PART-A")
	require.NoError(t, partA.Create(100))
	partA.ClearPendingEvents()
	partB := stock.New("SKU-PART-B")
	require.NoError(t, partB.Create(5))
	partB.ClearPendingEvents()

	stockRepo.EXPECT().FindBySKU(gomock.Any(), "SKU-PART-A").Return(partA, nil)
	stockRepo.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	stockRepo.EXPECT().FindBySKU(gomock.Any(), "SKU-PART-B").Return(partB, nil).AnyTimes()

	orders.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, o *assembly.Order) error {
		assert.True(t, o.Components[0].Allocated)
		assert.False(t, o.Components[1].Allocated)
		return nil
	})

	svc := New(nil, nil, nil, orders, newCommandService(stockRepo), nil, "stock-events", "stock", mlog.NopLogger{})

	_, err = svc.StartAssemblyOrder(context.Background(), order.ID.String(), "operator-1")

	assert.Error(t, err)
}

func TestCompleteAssemblyOrder_ReceivesProducedStock(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	order, err := assembly.New("SKU-FINISHED", 10, []assembly.Component{{SKU: "SKU-PART-A", Quantity: 5, Allocated: true}})
	require.NoError(t, err)
	require.NoError(t, order.Start())

	orders := mock.NewMockAssemblyOrderRepository(ctrl)
	stockRepo := mock.NewMockProductStockRepository(ctrl)

	orders.EXPECT().FindByID(gomock.Any(), order.ID.String()).Return(order, nil)
	orders.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

	stockRepo.EXPECT().FindBySKU(gomock.Any(), "SKU-FINISHED").Return(nil, nil)
	stockRepo.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	svc := New(nil, nil, nil, orders, newCommandService(stockRepo), nil, "stock-events", "stock", mlog.NopLogger{})

	completed, err := svc.CompleteAssemblyOrder(context.Background(), order.ID.String(), "operator-1", 10)

	require.NoError(t, err)
	assert.Equal(t, assembly.StatusCompleted, completed.Status)
	assert.Equal(t, int64(10), completed.ActualQuantity)
}

func TestCancelAssemblyOrder_RejectsTerminalState(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	order, err := assembly.New("SKU-FINISHED", 10, nil)
	require.NoError(t, err)
	order.Status = assembly.StatusCancelled

	orders := mock.NewMockAssemblyOrderRepository(ctrl)
	orders.EXPECT().FindByID(gomock.Any(), order.ID.String()).Return(order, nil)

	svc := New(nil, nil, nil, orders, nil, nil, "stock-events", "stock", mlog.NopLogger{})

	_, err = svc.CancelAssemblyOrder(context.Background(), order.ID.String())

	assert.Error(t, err)
}
