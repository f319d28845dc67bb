package repository

import (
	"context"

	"github.com/jhoicas/fishtrade-api/internal/domain/entity"
)

// ProductQuery filtros tipados para listar productos.
type ProductQuery struct {
	Search     string // coincidencia parcial por nombre o SKU
	CategoryID string
	Limit      int
	Offset     int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID y GetBySKU devuelven (nil, nil) si no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	List(ctx context.Context, q ProductQuery) ([]*entity.Product, error)
	// CountBySKUPrefix cuántos SKUs empiezan por prefix (para generar el consecutivo).
	CountBySKUPrefix(ctx context.Context, prefix string) (int, error)
}
