package repository

import (
	"context"
	"time"

	"github.com/jhoicas/fishtrade-api/internal/domain/entity"
)

// ImportOrderQuery filtros tipados para listar órdenes de importación.
type ImportOrderQuery struct {
	Status     entity.ImportStatus
	SupplierID string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// ImportOrderRepository puerto de persistencia de órdenes de importación.
// GetByID y GetForUpdate devuelven (nil, nil) si no existe.
type ImportOrderRepository interface {
	Create(ctx context.Context, order *entity.ImportOrder) error
	GetByID(ctx context.Context, id string) (*entity.ImportOrder, error)
	GetForUpdate(ctx context.Context, id string) (*entity.ImportOrder, error)
	Update(ctx context.Context, order *entity.ImportOrder) error
	// MarkDelivered pasa la orden a delivered solo si aún no lo está.
	// Devuelve false si otra transacción ya la entregó.
	MarkDelivered(ctx context.Context, id string, deliveredAt time.Time) (bool, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, q ImportOrderQuery) ([]*entity.ImportOrder, error)
}
