package repository

import (
	"context"
	"time"

	"github.com/jhoicas/fishtrade-api/internal/domain/entity"
)

// SaleOrderQuery filtros tipados para listar pedidos de venta.
type SaleOrderQuery struct {
	Status     entity.SaleStatus
	CustomerID string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// SaleOrderRepository puerto de persistencia de pedidos de venta (cabecera + ítems).
// GetByID y GetForUpdate devuelven (nil, nil) si no existe.
type SaleOrderRepository interface {
	Create(ctx context.Context, order *entity.SaleOrder) error
	GetByID(ctx context.Context, id string) (*entity.SaleOrder, error)
	// GetForUpdate bloquea la cabecera del pedido durante la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.SaleOrder, error)
	// Update guarda campos de cabecera (estado, cliente, notas, totales).
	Update(ctx context.Context, order *entity.SaleOrder) error
	ReplaceItems(ctx context.Context, orderID string, items []entity.SaleOrderItem) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, q SaleOrderQuery) ([]*entity.SaleOrder, error)
}
