package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/fishtrade-api/internal/domain/entity"
	"github.com/jhoicas/fishtrade-api/internal/domain/repository"
)

var _ repository.InventoryLogRepository = (*InventoryLogRepo)(nil)

const logColumns = `id, product_id, type, quantity_change, quantity_before, quantity_after,
	reference_type, reference_id, note, actor_id, created_at`

// InventoryLogRepo kardex append-only. Un trigger en la base rechaza UPDATE y DELETE.
type InventoryLogRepo struct {
	q Querier
}

// NewInventoryLogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryLogRepository(q Querier) *InventoryLogRepo {
	return &InventoryLogRepo{q: q}
}

// Append inserta una entrada del kardex.
func (r *InventoryLogRepo) Append(ctx context.Context, e *entity.InventoryLogEntry) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO inventory_log (`+logColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		e.ID, e.ProductID, string(e.Type), e.QuantityChange, e.QuantityBefore, e.QuantityAfter,
		e.ReferenceType, e.ReferenceID, e.Note, e.ActorID, e.CreatedAt,
	)
	return wrapErr("append inventory log", err)
}

// List entradas filtradas, de la más reciente a la más antigua.
func (r *InventoryLogRepo) List(ctx context.Context, q repository.LogQuery) ([]*entity.InventoryLogEntry, error) {
	var f filter
	if q.ProductID != "" {
		if !validID(q.ProductID) {
			return nil, nil
		}
		f.add(`product_id = $%d`, q.ProductID)
	}
	if q.Type != "" {
		f.add(`type = $%d`, string(q.Type))
	}
	if q.ReferenceType != "" {
		f.add(`reference_type = $%d`, q.ReferenceType)
	}
	if q.ReferenceID != "" {
		f.add(`reference_id = $%d`, q.ReferenceID)
	}
	if q.From != nil {
		f.add(`created_at >= $%d`, *q.From)
	}
	if q.To != nil {
		f.add(`created_at <= $%d`, *q.To)
	}
	rows, err := r.q.Query(ctx, `SELECT `+logColumns+` FROM inventory_log`+f.where()+
		` ORDER BY created_at DESC, seq DESC`+pageClause(q.Limit, q.Offset), f.args...)
	if err != nil {
		return nil, wrapErr("list inventory log", err)
	}
	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.InventoryLogEntry, error) {
		var e entity.InventoryLogEntry
		var typ string
		err := row.Scan(&e.ID, &e.ProductID, &typ, &e.QuantityChange, &e.QuantityBefore, &e.QuantityAfter,
			&e.ReferenceType, &e.ReferenceID, &e.Note, &e.ActorID, &e.CreatedAt)
		e.Type = entity.LogType(typ)
		return &e, err
	})
	if err != nil {
		return nil, wrapErr("scan inventory log", err)
	}
	return entries, nil
}

// Balances agrega el kardex por producto junto al stock guardado, en una sola consulta.
func (r *InventoryLogRepo) Balances(ctx context.Context) ([]repository.LedgerBalance, error) {
	rows, err := r.q.Query(ctx, `
		SELECT p.id,
		       COALESCE(l.sum_changes, 0),
		       COALESCE(l.last_after, 0),
		       COALESCE(l.entries, 0),
		       COALESCE(ir.quantity, 0),
		       ir.product_id IS NOT NULL
		FROM products p
		LEFT JOIN inventory_records ir ON ir.product_id = p.id
		LEFT JOIN (
			SELECT product_id,
			       SUM(quantity_change) AS sum_changes,
			       COUNT(*) AS entries,
			       (ARRAY_AGG(quantity_after ORDER BY seq DESC))[1] AS last_after
			FROM inventory_log
			GROUP BY product_id
		) l ON l.product_id = p.id
		ORDER BY p.id::text`)
	if err != nil {
		return nil, wrapErr("ledger balances", err)
	}
	balances, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (repository.LedgerBalance, error) {
		var b repository.LedgerBalance
		err := row.Scan(&b.ProductID, &b.SumChanges, &b.LastAfter, &b.EntryCount, &b.StoredQty, &b.HasRecord)
		return b, err
	})
	if err != nil {
		return nil, wrapErr("scan ledger balances", err)
	}
	return balances, nil
}
