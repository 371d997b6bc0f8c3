package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/paklog/inventory-ledger/internal/apperr"
	"github.com/paklog/inventory-ledger/internal/domain/outbox"
	"github.com/paklog/inventory-ledger/internal/ports"
)

// OutboxRepository implements ports.OutboxRepository against MongoDB's
// outbox_events collection.
type OutboxRepository struct {
	conn *Connection
}

// NewOutboxRepository builds an OutboxRepository.
func NewOutboxRepository(conn *Connection) *OutboxRepository {
	return &OutboxRepository{conn: conn}
}

var (
	_ ports.OutboxRepository = (*OutboxRepository)(nil)
	_ ports.EventRepository  = (*OutboxRepository)(nil)
)

// FetchUnpublished returns up to limit rows eligible for a publish attempt,
// ordered by (createdAt, _id) (spec §4.4 step 3).
func (r *OutboxRepository) FetchUnpublished(ctx context.Context, now time.Time, limit int) ([]outbox.Record, error) {
	db, err := r.conn.GetDB(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindRepositoryError, err, "mongodb: get database")
	}

	filter := bson.M{"published": false, "nextAttemptAt": bson.M{"$lte": now}}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}).SetLimit(int64(limit))

	cursor, err := db.Collection(outboxEventsCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindRepositoryError, err, "mongodb: fetch unpublished outbox rows")
	}
	defer cursor.Close(ctx)

	var docs []outboxDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, apperr.Wrap(apperr.KindRepositoryError, err, "mongodb: decode outbox rows")
	}

	rows := make([]outbox.Record, 0, len(docs))
	for _, d := range docs {
		rows = append(rows, d.toRecord())
	}

	return rows, nil
}

// MarkPublished flips published/publishedAt on the identified row.
func (r *OutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	db, err := r.conn.GetDB(ctx)
	if err != nil {
		return apperr.Wrap(apperr.KindRepositoryError, err, "mongodb: get database")
	}

	update := bson.M{"$set": bson.M{"published": true, "publishedAt": publishedAt}}

	_, err = db.Collection(outboxEventsCollection).UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return apperr.Wrap(apperr.KindRepositoryError, err, "mongodb: mark outbox row %s published", id)
	}

	return nil
}

// MarkRetry persists the retryCount/nextAttemptAt transition.
func (r *OutboxRepository) MarkRetry(ctx context.Context, id string, retryCount int, nextAttemptAt time.Time) error {
	db, err := r.conn.GetDB(ctx)
	if err != nil {
		return apperr.Wrap(apperr.KindRepositoryError, err, "mongodb: get database")
	}

	update := bson.M{"$set": bson.M{"retryCount": retryCount, "nextAttemptAt": nextAttemptAt}}

	_, err = db.Collection(outboxEventsCollection).UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return apperr.Wrap(apperr.KindRepositoryError, err, "mongodb: mark outbox row %s retry", id)
	}

	return nil
}

// PurgePublishedBefore deletes published rows older than cutoff.
func (r *OutboxRepository) PurgePublishedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	db, err := r.conn.GetDB(ctx)
	if err != nil {
		return 0, apperr.Wrap(apperr.KindRepositoryError, err, "mongodb: get database")
	}

	filter := bson.M{"published": true, "publishedAt": bson.M{"$lt": cutoff}}

	res, err := db.Collection(outboxEventsCollection).DeleteMany(ctx, filter)
	if err != nil {
		return 0, apperr.Wrap(apperr.KindRepositoryError, err, "mongodb: purge retained outbox rows")
	}

	return res.DeletedCount, nil
}

// ListBetween returns the durable event log (outbox rows double as it, spec
// §4.5 step 3 / internal/ports.EventRepository) for sku with
// t0 < createdAt <= t1, sorted by createdAt.
func (r *OutboxRepository) ListBetween(ctx context.Context, sku string, t0, t1 time.Time) ([]outbox.Record, error) {
	db, err := r.conn.GetDB(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindRepositoryError, err, "mongodb: get database")
	}

	filter := bson.M{
		"aggregateId": sku,
		"createdAt":   bson.M{"$gt": t0, "$lte": t1},
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})

	cursor, err := db.Collection(outboxEventsCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindRepositoryError, err, "mongodb: list events for %s", sku)
	}
	defer cursor.Close(ctx)

	var docs []outboxDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, apperr.Wrap(apperr.KindRepositoryError, err, "mongodb: decode events for %s", sku)
	}

	rows := make([]outbox.Record, 0, len(docs))
	for _, d := range docs {
		rows = append(rows, d.toRecord())
	}

	return rows, nil
}
