package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/paklog/inventory-ledger/internal/apperr"
	"github.com/paklog/inventory-ledger/internal/domain/serial"
	"github.com/paklog/inventory-ledger/internal/ports"
)

const serialNumbersCollection = "serial_numbers"

type serialNumberDocument struct {
	ID          string     `bson:"_id"`
	SKU         string     `bson:"sku"`
	Number      string     `bson:"number"`
	Status      string     `bson:"status"`
	ReceivedAt  time.Time  `bson:"receivedAt"`
	AllocatedTo *string    `bson:"allocatedTo,omitempty"`
	AllocatedAt *time.Time `bson:"allocatedAt,omitempty"`
	ShippedAt   *time.Time `bson:"shippedAt,omitempty"`
}

func fromSerialNumber(s *serial.SerialNumber) serialNumberDocument {
	return serialNumberDocument{
		ID:          s.SKU + ":" + s.Number,
		SKU:         s.SKU,
		Number:      s.Number,
		Status:      string(s.Status),
		ReceivedAt:  s.ReceivedAt,
		AllocatedTo: s.AllocatedTo,
		AllocatedAt: s.AllocatedAt,
		ShippedAt:   s.ShippedAt,
	}
}

func (doc serialNumberDocument) toSerialNumber() *serial.SerialNumber {
	return &serial.SerialNumber{
		SKU:         doc.SKU,
		Number:      doc.Number,
		Status:      serial.Status(doc.Status),
		ReceivedAt:  doc.ReceivedAt,
		AllocatedTo: doc.AllocatedTo,
		AllocatedAt: doc.AllocatedAt,
		ShippedAt:   doc.ShippedAt,
	}
}

// SerialNumberRepository implements ports.SerialNumberRepository against
// MongoDB, alongside product_stocks and outbox_events (spec §3.3: "Snapshots
// and serial numbers are independent aggregates ... they reference a
// ProductStock by SKU").
type SerialNumberRepository struct {
	conn *Connection
}

// NewSerialNumberRepository builds a SerialNumberRepository.
func NewSerialNumberRepository(conn *Connection) *SerialNumberRepository {
	return &SerialNumberRepository{conn: conn}
}

var _ ports.SerialNumberRepository = (*SerialNumberRepository)(nil)

// FindByNumber loads the serial number record, or (nil, nil) if unknown.
func (r *SerialNumberRepository) FindByNumber(ctx context.Context, sku, number string) (*serial.SerialNumber, error) {
	db, err := r.conn.GetDB(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindRepositoryError, err, "mongodb: get database")
	}

	var doc serialNumberDocument

	err = db.Collection(serialNumbersCollection).FindOne(ctx, bson.M{"_id": sku + ":" + number}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}

	if err != nil {
		return nil, apperr.Wrap(apperr.KindRepositoryError, err, "mongodb: find serial number %s/%s", sku, number)
	}

	return doc.toSerialNumber(), nil
}

// Save upserts the serial number's current lifecycle state.
func (r *SerialNumberRepository) Save(ctx context.Context, sn *serial.SerialNumber) error {
	db, err := r.conn.GetDB(ctx)
	if err != nil {
		return apperr.Wrap(apperr.KindRepositoryError, err, "mongodb: get database")
	}

	doc := fromSerialNumber(sn)

	_, err = db.Collection(serialNumbersCollection).ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return apperr.Wrap(apperr.KindRepositoryError, err, "mongodb: save serial number %s", doc.ID)
	}

	return nil
}
