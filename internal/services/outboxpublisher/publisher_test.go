package outboxpublisher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/paklog/inventory-ledger/internal/domain/event"
	"github.com/paklog/inventory-ledger/internal/domain/outbox"
	"github.com/paklog/inventory-ledger/internal/ports/mock"
	"github.com/paklog/inventory-ledger/pkg/mlog"
	"github.com/paklog/inventory-ledger/pkg/retry"
)

func testRow(sku string) outbox.Record {
	return testRowLabeled(sku, sku)
}

// testRowLabeled builds a row for aggregateID whose body carries label, so a
// test can tell two rows of the same aggregate apart.
func testRowLabeled(aggregateID, label string) outbox.Record {
	de := event.DomainEvent{
		EventID:     uuid.New(),
		Type:        event.TypeStockLevelChanged,
		AggregateID: aggregateID,
		OccurredOn:  time.Now(),
	}

	return outbox.New(de, []byte(`{"sku":"`+label+`"}`))
}

func TestDrainOnce_PublishesFetchedRowsInOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock.NewMockOutboxRepository(ctrl)
	bus := mock.NewMockBusPublisher(ctrl)

	row1 := testRow("SKU-1")
	row2 := testRow("SKU-2")

	repo.EXPECT().FetchUnpublished(gomock.Any(), gomock.Any(), 100).Return([]outbox.Record{row1, row2}, nil)

	var publishedOrder []string
	bus.EXPECT().Publish(gomock.Any(), "inventory.events", gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _ string, body []byte) error {
			publishedOrder = append(publishedOrder, string(body))
			return nil
		}).Times(2)

	repo.EXPECT().MarkPublished(gomock.Any(), row1.ID.String(), gomock.Any()).Return(nil)
	repo.EXPECT().MarkPublished(gomock.Any(), row2.ID.String(), gomock.Any()).Return(nil)

	cfg := DefaultConfig()
	p := New(repo, bus, cfg, mlog.NopLogger{})

	require.NoError(t, p.drainOnce(context.Background()))
	assert.Equal(t, []string{`{"sku":"SKU-1"}`, `{"sku":"SKU-2"}`}, publishedOrder)
}

func TestDrainOnce_PoisonRowReschedulesWithoutHaltingBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock.NewMockOutboxRepository(ctrl)
	bus := mock.NewMockBusPublisher(ctrl)

	badRow := testRow("SKU-BAD")
	goodRow := testRow("SKU-GOOD")

	repo.EXPECT().FetchUnpublished(gomock.Any(), gomock.Any(), 100).Return([]outbox.Record{badRow, goodRow}, nil)

	bus.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any(), []byte(`{"sku":"SKU-BAD"}`)).
		Return(errors.New("broker unreachable")).AnyTimes()
	bus.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any(), []byte(`{"sku":"SKU-GOOD"}`)).Return(nil)

	repo.EXPECT().MarkRetry(gomock.Any(), badRow.ID.String(), 1, gomock.Any()).Return(nil)
	repo.EXPECT().MarkPublished(gomock.Any(), goodRow.ID.String(), gomock.Any()).Return(nil)

	cfg := DefaultConfig()
	p := New(repo, bus, cfg, mlog.NopLogger{})
	p.retryer = p.retryer.WithMaxRetries(0).WithInitialBackoff(0).WithMaxBackoff(0)

	require.NoError(t, p.drainOnce(context.Background()))
}

func TestDrainOnce_SameAggregateSecondRowNeverPublishedAfterFirstFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock.NewMockOutboxRepository(ctrl)
	bus := mock.NewMockBusPublisher(ctrl)

	firstRow := testRowLabeled("SKU-SAME", "first")
	secondRow := testRowLabeled("SKU-SAME", "second")

	repo.EXPECT().FetchUnpublished(gomock.Any(), gomock.Any(), 100).Return([]outbox.Record{firstRow, secondRow}, nil)

	// Only the first row's publish is ever attempted: the group aborts on
	// its failure, so the second row for the same aggregate must not be
	// published out of FIFO order.
	bus.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any(), []byte(`{"sku":"first"}`)).
		Return(errors.New("broker unreachable")).AnyTimes()

	repo.EXPECT().MarkRetry(gomock.Any(), firstRow.ID.String(), 1, gomock.Any()).Return(nil)

	cfg := DefaultConfig()
	p := New(repo, bus, cfg, mlog.NopLogger{})
	p.retryer = p.retryer.WithMaxRetries(0).WithInitialBackoff(0).WithMaxBackoff(0)

	require.NoError(t, p.drainOnce(context.Background()))
}

func TestSweepRetention_PurgesOlderThanWindow(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock.NewMockOutboxRepository(ctrl)
	repo.EXPECT().PurgePublishedBefore(gomock.Any(), gomock.Any()).Return(int64(7), nil)

	cfg := DefaultConfig()
	p := New(repo, nil, cfg, mlog.NopLogger{})

	require.NoError(t, p.sweepRetention(context.Background()))
}

func TestNextBackoff_GrowsGeometricallyThenCaps(t *testing.T) {
	p := New(nil, nil, DefaultConfig(), mlog.NopLogger{})

	assert.Equal(t, retry.PublisherInitialBackoff, p.nextBackoff(0))

	d1 := p.nextBackoff(1)
	d2 := p.nextBackoff(2)
	assert.True(t, d2 > d1)

	assert.Equal(t, p.nextBackoff(1000), p.nextBackoff(999))
}
