package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/paklog/inventory-ledger/internal/apperr"
)

// SKULister implements replay.SKULister against product_stocks.
type SKULister struct {
	conn *Connection
}

// NewSKULister builds a SKULister.
func NewSKULister(conn *Connection) *SKULister {
	return &SKULister{conn: conn}
}

// ListAllSKUs returns every SKU presently tracked.
func (l *SKULister) ListAllSKUs(ctx context.Context) ([]string, error) {
	db, err := l.conn.GetDB(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindRepositoryError, err, "mongodb: get database")
	}

	cursor, err := db.Collection(productStocksCollection).Find(ctx, bson.M{}, nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindRepositoryError, err, "mongodb: list skus")
	}
	defer cursor.Close(ctx)

	var docs []struct {
		SKU string `bson:"_id"`
	}

	if err := cursor.All(ctx, &docs); err != nil {
		return nil, apperr.Wrap(apperr.KindRepositoryError, err, "mongodb: decode sku list")
	}

	skus := make([]string, 0, len(docs))
	for _, d := range docs {
		skus = append(skus, d.SKU)
	}

	return skus, nil
}
