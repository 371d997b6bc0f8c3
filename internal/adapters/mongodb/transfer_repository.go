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
	"github.com/paklog/inventory-ledger/internal/domain/transfer"
	"github.com/paklog/inventory-ledger/internal/ports"
)

const transfersCollection = "transfers"

type transferDocument struct {
	ID                     string     `bson:"_id"`
	SKU                    string     `bson:"sku"`
	FromLocation           string     `bson:"fromLocation"`
	ToLocation             string     `bson:"toLocation"`
	PlannedQuantity        int64      `bson:"plannedQuantity"`
	ActualQuantityReceived int64      `bson:"actualQuantityReceived"`
	Shrinkage              int64      `bson:"shrinkage"`
	Status                 string     `bson:"status"`
	ContainerID            *string    `bson:"containerId,omitempty"`
	InitiatedAt            time.Time  `bson:"initiatedAt"`
	CompletedAt            *time.Time `bson:"completedAt,omitempty"`
}

func fromTransfer(t *transfer.Transfer) transferDocument {
	return transferDocument{
		ID:                     t.ID.String(),
		SKU:                    t.SKU,
		FromLocation:           t.FromLocation,
		ToLocation:             t.ToLocation,
		PlannedQuantity:        t.PlannedQuantity,
		ActualQuantityReceived: t.ActualQuantityReceived,
		Shrinkage:              t.Shrinkage,
		Status:                 string(t.Status),
		ContainerID:            t.ContainerID,
		InitiatedAt:            t.InitiatedAt,
		CompletedAt:            t.CompletedAt,
	}
}

func (doc transferDocument) toTransfer() (*transfer.Transfer, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindRepositoryError, err, "mongodb: parse transfer id %s", doc.ID)
	}

	return &transfer.Transfer{
		ID:                     id,
		SKU:                    doc.SKU,
		FromLocation:           doc.FromLocation,
		ToLocation:             doc.ToLocation,
		PlannedQuantity:        doc.PlannedQuantity,
		ActualQuantityReceived: doc.ActualQuantityReceived,
		Shrinkage:              doc.Shrinkage,
		Status:                 transfer.Status(doc.Status),
		ContainerID:            doc.ContainerID,
		InitiatedAt:            doc.InitiatedAt,
		CompletedAt:            doc.CompletedAt,
	}, nil
}

// TransferRepository implements ports.TransferRepository against MongoDB
// (spec §4.6 stock transfer state machine).
type TransferRepository struct {
	conn *Connection
}

// NewTransferRepository builds a TransferRepository.
func NewTransferRepository(conn *Connection) *TransferRepository {
	return &TransferRepository{conn: conn}
}

var _ ports.TransferRepository = (*TransferRepository)(nil)

// FindByID loads a transfer, or (nil, nil) if unknown.
func (r *TransferRepository) FindByID(ctx context.Context, id string) (*transfer.Transfer, error) {
	db, err := r.conn.GetDB(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindRepositoryError, err, "mongodb: get database")
	}

	var doc transferDocument

	err = db.Collection(transfersCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}

	if err != nil {
		return nil, apperr.Wrap(apperr.KindRepositoryError, err, "mongodb: find transfer %s", id)
	}

	return doc.toTransfer()
}

// Save upserts the transfer's current state.
func (r *TransferRepository) Save(ctx context.Context, t *transfer.Transfer) error {
	db, err := r.conn.GetDB(ctx)
	if err != nil {
		return apperr.Wrap(apperr.KindRepositoryError, err, "mongodb: get database")
	}

	doc := fromTransfer(t)

	_, err = db.Collection(transfersCollection).ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return apperr.Wrap(apperr.KindRepositoryError, err, "mongodb: save transfer %s", doc.ID)
	}

	return nil
}
