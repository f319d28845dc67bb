package inventory

import (
	"context"

	"github.com/jhoicas/fishtrade-api/internal/domain/repository"
)

// Repos repositorios atados a una misma transacción.
type Repos struct {
	Products     repository.ProductRepository
	Inventory    repository.InventoryRepository
	Logs         repository.InventoryLogRepository
	SaleOrders   repository.SaleOrderRepository
	ImportOrders repository.ImportOrderRepository
	Customers    repository.CustomerRepository
	Suppliers    repository.SupplierRepository
}

// TxRunner ejecuta fn dentro de una transacción, pasando repositorios atados a ella.
// Commit si fn devuelve nil; Rollback en cualquier otro caso (incluido panic).
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, r Repos) error) error
}
