package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/paklog/inventory-ledger/internal/apperr"
	"github.com/paklog/inventory-ledger/internal/domain/ledger"
	"github.com/paklog/inventory-ledger/internal/domain/outbox"
	"github.com/paklog/inventory-ledger/internal/domain/stock"
	"github.com/paklog/inventory-ledger/internal/ports"
	"github.com/paklog/inventory-ledger/pkg/mlog"
)

const (
	productStocksCollection = "product_stocks"
	outboxEventsCollection  = "outbox_events"
)

// LedgerWriter is the narrow slice of the ledger repository the ProductStock
// adapter needs to append the audit row produced alongside an aggregate
// write. It is a separate store (Postgres, see internal/adapters/postgres)
// from the document store that owns the aggregate and outbox, so the
// two-store write below is sequenced rather than transactional — see
// DESIGN.md for the trade-off this accepts.
type LedgerWriter interface {
	Append(ctx context.Context, entry ledger.Entry) error
}

// ProductStockRepository implements ports.ProductStockRepository against
// MongoDB's product_stocks and outbox_events collections, writing both
// within a single client session transaction (spec §9: "where the
// underlying store supports multi-document transactions, write aggregate +
// ledger + outbox together").
type ProductStockRepository struct {
	conn   *Connection
	ledger LedgerWriter
	log    mlog.Logger
}

// NewProductStockRepository builds a ProductStockRepository.
func NewProductStockRepository(conn *Connection, ledgerWriter LedgerWriter, log mlog.Logger) *ProductStockRepository {
	if log == nil {
		log = mlog.NopLogger{}
	}

	return &ProductStockRepository{conn: conn, ledger: ledgerWriter, log: log}
}

var _ ports.ProductStockRepository = (*ProductStockRepository)(nil)

// FindBySKU loads and validates the current aggregate state for sku.
func (r *ProductStockRepository) FindBySKU(ctx context.Context, sku string) (*stock.Aggregate, error) {
	db, err := r.conn.GetDB(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindRepositoryError, err, "mongodb: get database")
	}

	var doc productStockDocument

	err = db.Collection(productStocksCollection).FindOne(ctx, bson.M{"_id": sku}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}

	if err != nil {
		return nil, apperr.Wrap(apperr.KindRepositoryError, err, "mongodb: find product stock %s", sku)
	}

	agg := doc.toAggregate()

	if err := agg.CheckInvariants(); err != nil {
		return nil, err
	}

	return agg, nil
}

// Save persists the aggregate's new state and its pending outbox rows in one
// MongoDB transaction, conditioned on the stored version still matching
// agg.Version-1 (the version the aggregate was loaded at). It then appends
// the ledger entry to the separate ledger store.
func (r *ProductStockRepository) Save(ctx context.Context, agg *stock.Aggregate, entry *ledger.Entry, outboxRows []outbox.Record) error {
	client, err := r.conn.GetClient(ctx)
	if err != nil {
		return apperr.Wrap(apperr.KindRepositoryError, err, "mongodb: get client")
	}

	expectedVersion := agg.Version - 1

	session, err := client.StartSession()
	if err != nil {
		return apperr.Wrap(apperr.KindRepositoryError, err, "mongodb: start session")
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx context.Context) (any, error) {
		db := client.Database(r.conn.Database)

		doc := fromAggregate(agg)

		filter := bson.M{"_id": agg.SKU, "version": expectedVersion}
		if expectedVersion == 0 {
			// First write for a SKU: the upsert inserts the document when
			// none exists. If another writer has already stored this SKU at
			// a later version, the filter does not match and the insert
			// collides on _id, which is reported as a version conflict.
			opts := options.Replace().SetUpsert(true)

			res, err := db.Collection(productStocksCollection).ReplaceOne(sessCtx, filter, doc, opts)
			if mongo.IsDuplicateKeyError(err) {
				return nil, apperr.New(apperr.KindConcurrentModification, "sku %s: version conflict on create", agg.SKU)
			}

			if err != nil {
				return nil, err
			}

			if res.MatchedCount == 0 && res.UpsertedCount == 0 {
				return nil, apperr.New(apperr.KindConcurrentModification, "sku %s: version conflict on create", agg.SKU)
			}
		} else {
			res, err := db.Collection(productStocksCollection).ReplaceOne(sessCtx, filter, doc)
			if err != nil {
				return nil, err
			}

			if res.MatchedCount == 0 {
				return nil, apperr.New(apperr.KindConcurrentModification, "sku %s: expected version %d no longer current", agg.SKU, expectedVersion)
			}
		}

		if len(outboxRows) > 0 {
			docs := make([]any, 0, len(outboxRows))
			for _, row := range outboxRows {
				docs = append(docs, fromOutboxRecord(row))
			}

			if _, err := db.Collection(outboxEventsCollection).InsertMany(sessCtx, docs); err != nil {
				return nil, err
			}
		}

		return nil, nil
	})
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return appErr
		}

		return apperr.Wrap(apperr.KindRepositoryError, err, "mongodb: save product stock %s", agg.SKU)
	}

	if r.ledger != nil && entry != nil {
		if err := r.ledger.Append(ctx, *entry); err != nil {
			// The aggregate write already committed and is authoritative;
			// a failed ledger append is logged, not fatal, since the ledger
			// is an audit projection, not the source of truth (spec §3.2).
			r.log.Errorf("mongodb: ledger append failed for sku %s: %v", agg.SKU, err)
		}
	}

	return nil
}
