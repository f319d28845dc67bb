package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/fishtrade-api/internal/domain"
	"github.com/jhoicas/fishtrade-api/internal/domain/entity"
	"github.com/jhoicas/fishtrade-api/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo stock actual por producto (tabla inventory_records).
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

// Get devuelve el stock actual; cero si el producto aún no tiene fila.
func (r *InventoryRepo) Get(ctx context.Context, productID string) (*entity.InventoryRecord, error) {
	zero := &entity.InventoryRecord{ProductID: productID, Quantity: decimal.Zero}
	if !validID(productID) {
		return zero, nil
	}
	var rec entity.InventoryRecord
	err := r.q.QueryRow(ctx, `
		SELECT product_id, quantity, last_updated
		FROM inventory_records WHERE product_id = $1`, productID,
	).Scan(&rec.ProductID, &rec.Quantity, &rec.LastUpdated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, nil
		}
		return nil, wrapErr("get inventory", err)
	}
	return &rec, nil
}

// GetForUpdate crea la fila en cero si falta y la bloquea (SELECT FOR UPDATE) hasta el fin de la tx.
// El INSERT parte de products, así un producto inexistente da NotFound sin abortar la transacción.
func (r *InventoryRepo) GetForUpdate(ctx context.Context, productID string) (*entity.InventoryRecord, error) {
	if !validID(productID) {
		return nil, domain.NewNotFound("product", productID)
	}
	if _, err := r.q.Exec(ctx, `
		INSERT INTO inventory_records (product_id, quantity, last_updated)
		SELECT id, 0, NOW() FROM products WHERE id = $1
		ON CONFLICT (product_id) DO NOTHING`, productID); err != nil {
		return nil, wrapErr("ensure inventory record", err)
	}
	var rec entity.InventoryRecord
	err := r.q.QueryRow(ctx, `
		SELECT product_id, quantity, last_updated
		FROM inventory_records WHERE product_id = $1
		FOR UPDATE`, productID,
	).Scan(&rec.ProductID, &rec.Quantity, &rec.LastUpdated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFound("product", productID)
		}
		return nil, wrapErr("lock inventory record", err)
	}
	return &rec, nil
}

// Save guarda la cantidad del registro (upsert por producto).
func (r *InventoryRepo) Save(ctx context.Context, rec *entity.InventoryRecord) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO inventory_records (product_id, quantity, last_updated)
		VALUES ($1, $2, $3)
		ON CONFLICT (product_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, last_updated = EXCLUDED.last_updated`,
		rec.ProductID, rec.Quantity, rec.LastUpdated,
	)
	return wrapErr("save inventory", err)
}

// ListLevels productos con su stock; sin fila cuentan como cero.
func (r *InventoryRepo) ListLevels(ctx context.Context, q repository.StockLevelQuery) ([]repository.StockLevel, error) {
	var f filter
	if len(q.ProductIDs) > 0 {
		f.add(`p.id::text = ANY($%d)`, q.ProductIDs)
	}
	if q.Search != "" {
		f.add(`(p.name ILIKE $%[1]d OR p.sku ILIKE $%[1]d)`, likePattern(q.Search))
	}
	where := f.where()
	if q.LowOnly {
		if where == "" {
			where = " WHERE "
		} else {
			where += " AND "
		}
		where += "COALESCE(r.quantity, 0) <= p.min_stock"
	}
	rows, err := r.q.Query(ctx, `
		SELECT p.id, p.sku, p.name, p.unit, COALESCE(r.quantity, 0), p.min_stock, p.purchase_price, p.sale_price
		FROM products p
		LEFT JOIN inventory_records r ON r.product_id = p.id`+where+`
		ORDER BY p.name, p.id`+pageClause(q.Limit, q.Offset), f.args...)
	if err != nil {
		return nil, wrapErr("list stock levels", err)
	}
	levels, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (repository.StockLevel, error) {
		var l repository.StockLevel
		err := row.Scan(&l.ProductID, &l.SKU, &l.ProductName, &l.Unit, &l.Quantity, &l.MinStock, &l.PurchasePrice, &l.SalePrice)
		return l, err
	})
	if err != nil {
		return nil, wrapErr("scan stock levels", err)
	}
	return levels, nil
}
