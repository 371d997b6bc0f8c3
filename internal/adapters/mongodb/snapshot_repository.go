package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/paklog/inventory-ledger/internal/apperr"
	"github.com/paklog/inventory-ledger/internal/domain/snapshot"
	"github.com/paklog/inventory-ledger/internal/domain/stock"
	"github.com/paklog/inventory-ledger/internal/ports"
)

const snapshotsCollection = "snapshots"

type snapshotDocument struct {
	SnapshotID        string                `bson:"_id"`
	SKU               string                `bson:"sku"`
	SnapshotTimestamp time.Time             `bson:"snapshotTimestamp"`
	Type              string                `bson:"type"`
	Reason            string                `bson:"reason"`
	State             productStockDocument  `bson:"state"`
	CreatedBy         string                `bson:"createdBy"`
	CreatedAt         time.Time             `bson:"createdAt"`
}

// SnapshotRepository implements ports.SnapshotRepository against MongoDB.
type SnapshotRepository struct {
	conn *Connection
}

// NewSnapshotRepository builds a SnapshotRepository.
func NewSnapshotRepository(conn *Connection) *SnapshotRepository {
	return &SnapshotRepository{conn: conn}
}

var _ ports.SnapshotRepository = (*SnapshotRepository)(nil)

// Save persists a snapshot.
func (r *SnapshotRepository) Save(ctx context.Context, snap snapshot.Snapshot) error {
	db, err := r.conn.GetDB(ctx)
	if err != nil {
		return apperr.Wrap(apperr.KindRepositoryError, err, "mongodb: get database")
	}

	doc := toSnapshotDocument(snap)

	if _, err := db.Collection(snapshotsCollection).InsertOne(ctx, doc); err != nil {
		return apperr.Wrap(apperr.KindRepositoryError, err, "mongodb: insert snapshot for %s", snap.SKU)
	}

	return nil
}

// LatestBefore returns the most recent snapshot for sku at or before at.
func (r *SnapshotRepository) LatestBefore(ctx context.Context, sku string, at time.Time) (*snapshot.Snapshot, error) {
	db, err := r.conn.GetDB(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindRepositoryError, err, "mongodb: get database")
	}

	filter := bson.M{"sku": sku, "snapshotTimestamp": bson.M{"$lte": at}}
	opts := options.FindOne().SetSort(bson.D{{Key: "snapshotTimestamp", Value: -1}})

	var doc snapshotDocument

	err = db.Collection(snapshotsCollection).FindOne(ctx, filter, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}

	if err != nil {
		return nil, apperr.Wrap(apperr.KindRepositoryError, err, "mongodb: find latest snapshot for %s", sku)
	}

	snap := fromSnapshotDocument(doc)

	return &snap, nil
}

func toSnapshotDocument(s snapshot.Snapshot) snapshotDocument {
	agg := &stock.Aggregate{
		SKU:                 s.SKU,
		StockLevel:          s.State.StockLevel,
		StockStatusQuantity: s.State.StockStatusQuantity,
		Holds:               s.State.Holds,
		LotBatches:          s.State.LotBatches,
		ABCClassification:   s.State.ABCClassification,
		Valuation:           s.State.Valuation,
		Version:             s.State.Version,
		LastUpdated:         s.State.LastUpdated,
	}

	return snapshotDocument{
		SnapshotID:        s.SnapshotID.String(),
		SKU:               s.SKU,
		SnapshotTimestamp: s.SnapshotTimestamp,
		Type:              string(s.Type),
		Reason:            s.Reason,
		State:             fromAggregate(agg),
		CreatedBy:         s.CreatedBy,
		CreatedAt:         s.CreatedAt,
	}
}

func fromSnapshotDocument(doc snapshotDocument) snapshot.Snapshot {
	id, _ := uuid.Parse(doc.SnapshotID)
	agg := doc.State.toAggregate()

	return snapshot.Snapshot{
		SnapshotID:        id,
		SKU:               doc.SKU,
		SnapshotTimestamp: doc.SnapshotTimestamp,
		Type:              snapshot.Type(doc.Type),
		Reason:            doc.Reason,
		State:             snapshot.FromAggregate(agg),
		CreatedBy:         doc.CreatedBy,
		CreatedAt:         doc.CreatedAt,
	}
}
