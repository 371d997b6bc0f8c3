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
	"github.com/paklog/inventory-ledger/internal/domain/assembly"
	"github.com/paklog/inventory-ledger/internal/ports"
)

const assemblyOrdersCollection = "assembly_orders"

type assemblyComponentDocument struct {
	SKU       string `bson:"sku"`
	Quantity  int64  `bson:"quantity"`
	Allocated bool   `bson:"allocated"`
}

type assemblyOrderDocument struct {
	ID              string                      `bson:"_id"`
	SKU             string                      `bson:"sku"`
	PlannedQuantity int64                       `bson:"plannedQuantity"`
	ActualQuantity  int64                       `bson:"actualQuantity"`
	Components      []assemblyComponentDocument `bson:"components"`
	Status          string                      `bson:"status"`
	CreatedAt       time.Time                   `bson:"createdAt"`
	CompletedAt     *time.Time                  `bson:"completedAt,omitempty"`
}

func fromAssemblyOrder(o *assembly.Order) assemblyOrderDocument {
	components := make([]assemblyComponentDocument, 0, len(o.Components))
	for _, c := range o.Components {
		components = append(components, assemblyComponentDocument{SKU: c.SKU, Quantity: c.Quantity, Allocated: c.Allocated})
	}

	return assemblyOrderDocument{
		ID:              o.ID.String(),
		SKU:             o.SKU,
		PlannedQuantity: o.PlannedQuantity,
		ActualQuantity:  o.ActualQuantity,
		Components:      components,
		Status:          string(o.Status),
		CreatedAt:       o.CreatedAt,
		CompletedAt:     o.CompletedAt,
	}
}

func (doc assemblyOrderDocument) toAssemblyOrder() (*assembly.Order, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindRepositoryError, err, "mongodb: parse assembly order id %s", doc.ID)
	}

	components := make([]assembly.Component, 0, len(doc.Components))
	for _, c := range doc.Components {
		components = append(components, assembly.Component{SKU: c.SKU, Quantity: c.Quantity, Allocated: c.Allocated})
	}

	return &assembly.Order{
		ID:              id,
		SKU:             doc.SKU,
		PlannedQuantity: doc.PlannedQuantity,
		ActualQuantity:  doc.ActualQuantity,
		Components:      components,
		Status:          assembly.Status(doc.Status),
		CreatedAt:       doc.CreatedAt,
		CompletedAt:     doc.CompletedAt,
	}, nil
}

// AssemblyOrderRepository implements ports.AssemblyOrderRepository against
// MongoDB (spec §4.6 assembly order state machine).
type AssemblyOrderRepository struct {
	conn *Connection
}

// NewAssemblyOrderRepository builds an AssemblyOrderRepository.
func NewAssemblyOrderRepository(conn *Connection) *AssemblyOrderRepository {
	return &AssemblyOrderRepository{conn: conn}
}

var _ ports.AssemblyOrderRepository = (*AssemblyOrderRepository)(nil)

// FindByID loads an assembly order, or (nil, nil) if unknown.
func (r *AssemblyOrderRepository) FindByID(ctx context.Context, id string) (*assembly.Order, error) {
	db, err := r.conn.GetDB(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindRepositoryError, err, "mongodb: get database")
	}

	var doc assemblyOrderDocument

	err = db.Collection(assemblyOrdersCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}

	if err != nil {
		return nil, apperr.Wrap(apperr.KindRepositoryError, err, "mongodb: find assembly order %s", id)
	}

	return doc.toAssemblyOrder()
}

// Save upserts the assembly order's current state.
func (r *AssemblyOrderRepository) Save(ctx context.Context, o *assembly.Order) error {
	db, err := r.conn.GetDB(ctx)
	if err != nil {
		return apperr.Wrap(apperr.KindRepositoryError, err, "mongodb: get database")
	}

	doc := fromAssemblyOrder(o)

	_, err = db.Collection(assemblyOrdersCollection).ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return apperr.Wrap(apperr.KindRepositoryError, err, "mongodb: save assembly order %s", doc.ID)
	}

	return nil
}
