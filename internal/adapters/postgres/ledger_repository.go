package postgres

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/paklog/inventory-ledger/internal/apperr"
	"github.com/paklog/inventory-ledger/internal/domain/ledger"
	"github.com/paklog/inventory-ledger/internal/ports"
)

const ledgerTable = "inventory_ledger"

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// LedgerRepository implements ports.LedgerRepository and
// mongodb.LedgerWriter against the inventory_ledger table.
type LedgerRepository struct {
	conn *Connection
}

// NewLedgerRepository builds a LedgerRepository.
func NewLedgerRepository(conn *Connection) *LedgerRepository {
	return &LedgerRepository{conn: conn}
}

var _ ports.LedgerRepository = (*LedgerRepository)(nil)

// Append inserts one immutable ledger row. Ledger rows are never updated or
// deleted outside the retention TTL (spec §3.2).
func (r *LedgerRepository) Append(ctx context.Context, entry ledger.Entry) error {
	pool, err := r.conn.GetPool(ctx)
	if err != nil {
		return apperr.Wrap(apperr.KindRepositoryError, err, "postgres: get pool")
	}

	query, args, err := psql.Insert(ledgerTable).
		Columns("id", "sku", "timestamp", "quantity_change", "change_type", "source_reference", "reason", "operator_id").
		Values(entry.ID, entry.SKU, entry.Timestamp, entry.QuantityChange, string(entry.ChangeType), entry.SourceReference, entry.Reason, entry.OperatorID).
		ToSql()
	if err != nil {
		return apperr.Wrap(apperr.KindRepositoryError, err, "postgres: build ledger insert")
	}

	if _, err := pool.Exec(ctx, query, args...); err != nil {
		return apperr.Wrap(apperr.KindRepositoryError, err, "postgres: insert ledger entry for %s", entry.SKU)
	}

	return nil
}

// ListBySKU returns ledger rows for sku within [since, until], newest first,
// capped at limit.
func (r *LedgerRepository) ListBySKU(ctx context.Context, sku string, since, until time.Time, limit int) ([]ledger.Entry, error) {
	pool, err := r.conn.GetPool(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindRepositoryError, err, "postgres: get pool")
	}

	query, args, err := psql.Select("id", "sku", "timestamp", "quantity_change", "change_type", "source_reference", "reason", "operator_id").
		From(ledgerTable).
		Where(squirrel.Eq{"sku": sku}).
		Where(squirrel.GtOrEq{"timestamp": since}).
		Where(squirrel.LtOrEq{"timestamp": until}).
		OrderBy("timestamp DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, apperr.Wrap(apperr.KindRepositoryError, err, "postgres: build ledger query")
	}

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindRepositoryError, err, "postgres: query ledger for %s", sku)
	}
	defer rows.Close()

	var entries []ledger.Entry

	for rows.Next() {
		var (
			id              uuid.UUID
			entrySKU        string
			timestamp       time.Time
			quantityChange  int64
			changeType      string
			sourceReference *string
			reason          string
			operatorID      string
		)

		if err := rows.Scan(&id, &entrySKU, &timestamp, &quantityChange, &changeType, &sourceReference, &reason, &operatorID); err != nil {
			return nil, apperr.Wrap(apperr.KindRepositoryError, err, "postgres: scan ledger row")
		}

		entries = append(entries, ledger.Entry{
			ID:              id,
			SKU:             entrySKU,
			Timestamp:       timestamp,
			QuantityChange:  quantityChange,
			ChangeType:      ledger.ChangeType(changeType),
			SourceReference: sourceReference,
			Reason:          reason,
			OperatorID:      operatorID,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.KindRepositoryError, err, "postgres: iterate ledger rows for %s", sku)
	}

	return entries, nil
}
