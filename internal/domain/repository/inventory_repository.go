package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/fishtrade-api/internal/domain/entity"
)

// StockLevel fila de lectura: producto + stock actual.
type StockLevel struct {
	ProductID     string
	SKU           string
	ProductName   string
	Unit          string
	Quantity      decimal.Decimal
	MinStock      decimal.Decimal
	PurchasePrice decimal.Decimal
	SalePrice     decimal.Decimal
}

// StockLevelQuery filtros tipados para listar niveles de stock.
// Productos sin InventoryRecord aparecen con cantidad 0.
type StockLevelQuery struct {
	ProductIDs []string
	Search     string
	LowOnly    bool // solo cantidad <= min_stock
	Limit      int  // 0 = sin límite
	Offset     int
}

// InventoryRepository define el puerto para el stock actual por producto.
// Usado dentro de transacciones para garantizar consistencia.
type InventoryRepository interface {
	// Get devuelve el registro o uno en cero si el producto aún no tiene stock.
	Get(ctx context.Context, productID string) (*entity.InventoryRecord, error)
	// GetForUpdate crea el registro si no existe y bloquea la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, productID string) (*entity.InventoryRecord, error)
	Save(ctx context.Context, record *entity.InventoryRecord) error
	ListLevels(ctx context.Context, q StockLevelQuery) ([]StockLevel, error)
}
