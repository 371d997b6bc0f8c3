package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/paklog/inventory-ledger/internal/apperr"
	"github.com/paklog/inventory-ledger/internal/domain/container"
	"github.com/paklog/inventory-ledger/internal/ports"
)

const containersCollection = "containers"

type containerDocument struct {
	LPN         string    `bson:"_id"`
	CurrentSKU  *string   `bson:"currentSku,omitempty"`
	Quantity    int64     `bson:"quantity"`
	Location    string    `bson:"location"`
	LastMovedAt time.Time `bson:"lastMovedAt"`
}

func fromContainer(c *container.Container) containerDocument {
	return containerDocument{
		LPN:         c.LPN,
		CurrentSKU:  c.CurrentSKU,
		Quantity:    c.Quantity,
		Location:    c.Location,
		LastMovedAt: c.LastMovedAt,
	}
}

func (doc containerDocument) toContainer() *container.Container {
	return &container.Container{
		LPN:         doc.LPN,
		CurrentSKU:  doc.CurrentSKU,
		Quantity:    doc.Quantity,
		Location:    doc.Location,
		LastMovedAt: doc.LastMovedAt,
	}
}

// ContainerRepository implements ports.ContainerRepository against MongoDB
// (spec §3.1 C6: "Ancillary aggregates with simple CRUD lifecycle").
type ContainerRepository struct {
	conn *Connection
}

// NewContainerRepository builds a ContainerRepository.
func NewContainerRepository(conn *Connection) *ContainerRepository {
	return &ContainerRepository{conn: conn}
}

var _ ports.ContainerRepository = (*ContainerRepository)(nil)

// FindByLPN loads a container record, or (nil, nil) if unknown.
func (r *ContainerRepository) FindByLPN(ctx context.Context, lpn string) (*container.Container, error) {
	db, err := r.conn.GetDB(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindRepositoryError, err, "mongodb: get database")
	}

	var doc containerDocument

	err = db.Collection(containersCollection).FindOne(ctx, bson.M{"_id": lpn}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}

	if err != nil {
		return nil, apperr.Wrap(apperr.KindRepositoryError, err, "mongodb: find container %s", lpn)
	}

	return doc.toContainer(), nil
}

// Save upserts the container's current movement record.
func (r *ContainerRepository) Save(ctx context.Context, c *container.Container) error {
	db, err := r.conn.GetDB(ctx)
	if err != nil {
		return apperr.Wrap(apperr.KindRepositoryError, err, "mongodb: get database")
	}

	doc := fromContainer(c)

	_, err = db.Collection(containersCollection).ReplaceOne(ctx, bson.M{"_id": doc.LPN}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return apperr.Wrap(apperr.KindRepositoryError, err, "mongodb: save container %s", doc.LPN)
	}

	return nil
}
