package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/fishtrade-api/internal/domain"
	"github.com/jhoicas/fishtrade-api/internal/domain/entity"
	"github.com/jhoicas/fishtrade-api/internal/domain/repository"
)

var _ repository.ImportOrderRepository = (*ImportOrderRepo)(nil)

const importOrderColumns = `id, order_number, COALESCE(supplier_id::text, ''), status, total_amount, notes,
	expected_date, delivery_date, created_by, created_at, updated_at`

// ImportOrderRepo órdenes de importación: cabecera en import_orders, líneas en import_order_items.
type ImportOrderRepo struct {
	q Querier
}

// NewImportOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewImportOrderRepository(q Querier) *ImportOrderRepo {
	return &ImportOrderRepo{q: q}
}

// Create inserta la cabecera y sus líneas.
func (r *ImportOrderRepo) Create(ctx context.Context, o *entity.ImportOrder) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO import_orders (id, order_number, supplier_id, status, total_amount, notes,
		                           expected_date, delivery_date, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		o.ID, o.OrderNumber, nullable(o.SupplierID), string(o.Status), o.TotalAmount, o.Notes,
		o.ExpectedDate, o.DeliveryDate, o.CreatedBy, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return wrapErr("insert import order", err)
	}
	for i, it := range o.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO import_order_items (id, order_id, line_no, product_id, batch_id, quantity, unit_price, total_price)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			it.ID, o.ID, i+1, it.ProductID, it.BatchID, it.Quantity, it.UnitPrice, it.TotalPrice,
		)
		if err != nil {
			return wrapErr("insert import order item", err)
		}
	}
	return nil
}

// GetByID cabecera + líneas; (nil, nil) si no existe.
func (r *ImportOrderRepo) GetByID(ctx context.Context, id string) (*entity.ImportOrder, error) {
	return r.get(ctx, id, "")
}

// GetForUpdate igual que GetByID pero bloquea la cabecera.
func (r *ImportOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.ImportOrder, error) {
	return r.get(ctx, id, " FOR UPDATE")
}

func (r *ImportOrderRepo) get(ctx context.Context, id, lock string) (*entity.ImportOrder, error) {
	if !validID(id) {
		return nil, nil
	}
	o, err := scanImportOrder(r.q.QueryRow(ctx, `SELECT `+importOrderColumns+` FROM import_orders WHERE id = $1`+lock, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get import order", err)
	}
	items, err := r.items(ctx, []string{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]
	return o, nil
}

// Update guarda la cabecera. delivery_date solo la fija MarkDelivered.
func (r *ImportOrderRepo) Update(ctx context.Context, o *entity.ImportOrder) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE import_orders
		SET supplier_id = $2, status = $3, total_amount = $4, notes = $5, expected_date = $6, updated_at = $7
		WHERE id = $1`,
		o.ID, nullable(o.SupplierID), string(o.Status), o.TotalAmount, o.Notes, o.ExpectedDate, o.UpdatedAt,
	)
	if err != nil {
		return wrapErr("update import order", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("import_order", o.ID)
	}
	return nil
}

// MarkDelivered UPDATE condicional: solo una transacción puede pasar la orden a delivered.
func (r *ImportOrderRepo) MarkDelivered(ctx context.Context, id string, deliveredAt time.Time) (bool, error) {
	if !validID(id) {
		return false, domain.NewNotFound("import_order", id)
	}
	tag, err := r.q.Exec(ctx, `
		UPDATE import_orders
		SET status = 'delivered', delivery_date = $2, updated_at = $2
		WHERE id = $1 AND status <> 'delivered'`, id, deliveredAt)
	if err != nil {
		return false, wrapErr("mark import order delivered", err)
	}
	if tag.RowsAffected() == 1 {
		return true, nil
	}
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM import_orders WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, wrapErr("check import order", err)
	}
	if !exists {
		return false, domain.NewNotFound("import_order", id)
	}
	return false, nil
}

// Delete elimina la orden y sus líneas (ON DELETE CASCADE).
func (r *ImportOrderRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.NewNotFound("import_order", id)
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM import_orders WHERE id = $1`, id)
	if err != nil {
		return wrapErr("delete import order", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("import_order", id)
	}
	return nil
}

// List órdenes de la más reciente a la más antigua, con sus líneas.
func (r *ImportOrderRepo) List(ctx context.Context, q repository.ImportOrderQuery) ([]*entity.ImportOrder, error) {
	var f filter
	if q.Status != "" {
		f.add(`status = $%d`, string(q.Status))
	}
	if q.SupplierID != "" {
		if !validID(q.SupplierID) {
			return nil, nil
		}
		f.add(`supplier_id = $%d`, q.SupplierID)
	}
	if q.From != nil {
		f.add(`created_at >= $%d`, *q.From)
	}
	if q.To != nil {
		f.add(`created_at <= $%d`, *q.To)
	}
	rows, err := r.q.Query(ctx, `SELECT `+importOrderColumns+` FROM import_orders`+f.where()+
		` ORDER BY created_at DESC, id`+pageClause(q.Limit, q.Offset), f.args...)
	if err != nil {
		return nil, wrapErr("list import orders", err)
	}
	orders, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.ImportOrder, error) {
		return scanImportOrder(row)
	})
	if err != nil {
		return nil, wrapErr("scan import orders", err)
	}
	if len(orders) == 0 {
		return orders, nil
	}
	ids := make([]string, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	items, err := r.items(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		o.Items = items[o.ID]
	}
	return orders, nil
}

func (r *ImportOrderRepo) items(ctx context.Context, orderIDs []string) (map[string][]entity.ImportOrderItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, order_id, product_id, batch_id, quantity, unit_price, total_price
		FROM import_order_items
		WHERE order_id::text = ANY($1)
		ORDER BY order_id, line_no`, orderIDs)
	if err != nil {
		return nil, wrapErr("list import order items", err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.ImportOrderItem, error) {
		var it entity.ImportOrderItem
		err := row.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.BatchID, &it.Quantity, &it.UnitPrice, &it.TotalPrice)
		return it, err
	})
	if err != nil {
		return nil, wrapErr("scan import order items", err)
	}
	out := make(map[string][]entity.ImportOrderItem, len(orderIDs))
	for _, it := range list {
		out[it.OrderID] = append(out[it.OrderID], it)
	}
	return out, nil
}

func scanImportOrder(row pgx.Row) (*entity.ImportOrder, error) {
	var o entity.ImportOrder
	var status string
	err := row.Scan(&o.ID, &o.OrderNumber, &o.SupplierID, &status, &o.TotalAmount, &o.Notes,
		&o.ExpectedDate, &o.DeliveryDate, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt)
	o.Status = entity.ImportStatus(status)
	return &o, err
}
