package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/fishtrade-api/internal/domain"
	"github.com/jhoicas/fishtrade-api/internal/domain/entity"
	"github.com/jhoicas/fishtrade-api/internal/domain/repository"
)

var _ repository.SaleOrderRepository = (*SaleOrderRepo)(nil)

const saleOrderColumns = `id, order_number, COALESCE(customer_id::text, ''), status, subtotal, discount, total,
	notes, created_by, created_at, updated_at`

// SaleOrderRepo pedidos de venta: cabecera en sale_orders, líneas en sale_order_items.
type SaleOrderRepo struct {
	q Querier
}

// NewSaleOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleOrderRepository(q Querier) *SaleOrderRepo {
	return &SaleOrderRepo{q: q}
}

// Create inserta la cabecera y sus líneas.
func (r *SaleOrderRepo) Create(ctx context.Context, o *entity.SaleOrder) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sale_orders (id, order_number, customer_id, status, subtotal, discount, total,
		                         notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		o.ID, o.OrderNumber, nullable(o.CustomerID), string(o.Status), o.Subtotal, o.Discount, o.Total,
		o.Notes, o.CreatedBy, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return wrapErr("insert sale order", err)
	}
	return r.insertItems(ctx, o.ID, o.Items)
}

func (r *SaleOrderRepo) insertItems(ctx context.Context, orderID string, items []entity.SaleOrderItem) error {
	for i, it := range items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO sale_order_items (id, order_id, line_no, product_id, quantity, unit_price, total_price)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			it.ID, orderID, i+1, it.ProductID, it.Quantity, it.UnitPrice, it.TotalPrice,
		)
		if err != nil {
			return wrapErr("insert sale order item", err)
		}
	}
	return nil
}

// GetByID cabecera + líneas; (nil, nil) si no existe.
func (r *SaleOrderRepo) GetByID(ctx context.Context, id string) (*entity.SaleOrder, error) {
	return r.get(ctx, id, "")
}

// GetForUpdate igual que GetByID pero bloquea la cabecera hasta el fin de la tx.
func (r *SaleOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.SaleOrder, error) {
	return r.get(ctx, id, " FOR UPDATE")
}

func (r *SaleOrderRepo) get(ctx context.Context, id, lock string) (*entity.SaleOrder, error) {
	if !validID(id) {
		return nil, nil
	}
	o, err := scanSaleOrder(r.q.QueryRow(ctx, `SELECT `+saleOrderColumns+` FROM sale_orders WHERE id = $1`+lock, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get sale order", err)
	}
	items, err := r.items(ctx, []string{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]
	return o, nil
}

// Update guarda solo la cabecera.
func (r *SaleOrderRepo) Update(ctx context.Context, o *entity.SaleOrder) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE sale_orders
		SET customer_id = $2, status = $3, subtotal = $4, discount = $5, total = $6, notes = $7, updated_at = $8
		WHERE id = $1`,
		o.ID, nullable(o.CustomerID), string(o.Status), o.Subtotal, o.Discount, o.Total, o.Notes, o.UpdatedAt,
	)
	if err != nil {
		return wrapErr("update sale order", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("sale_order", o.ID)
	}
	return nil
}

// ReplaceItems borra las líneas del pedido e inserta las nuevas.
func (r *SaleOrderRepo) ReplaceItems(ctx context.Context, orderID string, items []entity.SaleOrderItem) error {
	if !validID(orderID) {
		return domain.NewNotFound("sale_order", orderID)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM sale_order_items WHERE order_id = $1`, orderID); err != nil {
		return wrapErr("delete sale order items", err)
	}
	return r.insertItems(ctx, orderID, items)
}

// Delete elimina el pedido; las líneas caen por ON DELETE CASCADE. El kardex no se toca.
func (r *SaleOrderRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.NewNotFound("sale_order", id)
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM sale_orders WHERE id = $1`, id)
	if err != nil {
		return wrapErr("delete sale order", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("sale_order", id)
	}
	return nil
}

// List pedidos del más reciente al más antiguo, con sus líneas.
func (r *SaleOrderRepo) List(ctx context.Context, q repository.SaleOrderQuery) ([]*entity.SaleOrder, error) {
	var f filter
	if q.Status != "" {
		f.add(`status = $%d`, string(q.Status))
	}
	if q.CustomerID != "" {
		if !validID(q.CustomerID) {
			return nil, nil
		}
		f.add(`customer_id = $%d`, q.CustomerID)
	}
	if q.From != nil {
		f.add(`created_at >= $%d`, *q.From)
	}
	if q.To != nil {
		f.add(`created_at <= $%d`, *q.To)
	}
	rows, err := r.q.Query(ctx, `SELECT `+saleOrderColumns+` FROM sale_orders`+f.where()+
		` ORDER BY created_at DESC, id`+pageClause(q.Limit, q.Offset), f.args...)
	if err != nil {
		return nil, wrapErr("list sale orders", err)
	}
	orders, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.SaleOrder, error) {
		return scanSaleOrder(row)
	})
	if err != nil {
		return nil, wrapErr("scan sale orders", err)
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

// items líneas de varios pedidos agrupadas por pedido, en orden de captura.
func (r *SaleOrderRepo) items(ctx context.Context, orderIDs []string) (map[string][]entity.SaleOrderItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, order_id, product_id, quantity, unit_price, total_price
		FROM sale_order_items
		WHERE order_id::text = ANY($1)
		ORDER BY order_id, line_no`, orderIDs)
	if err != nil {
		return nil, wrapErr("list sale order items", err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.SaleOrderItem, error) {
		var it entity.SaleOrderItem
		err := row.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.TotalPrice)
		return it, err
	})
	if err != nil {
		return nil, wrapErr("scan sale order items", err)
	}
	out := make(map[string][]entity.SaleOrderItem, len(orderIDs))
	for _, it := range list {
		out[it.OrderID] = append(out[it.OrderID], it)
	}
	return out, nil
}

func scanSaleOrder(row pgx.Row) (*entity.SaleOrder, error) {
	var o entity.SaleOrder
	var status string
	err := row.Scan(&o.ID, &o.OrderNumber, &o.CustomerID, &status, &o.Subtotal, &o.Discount, &o.Total,
		&o.Notes, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt)
	o.Status = entity.SaleStatus(status)
	return &o, err
}
