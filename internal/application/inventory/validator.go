package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/fishtrade-api/internal/domain"
	"github.com/jhoicas/fishtrade-api/internal/domain/repository"
)

// StockRequest cantidad pedida de un producto.
type StockRequest struct {
	ProductID string
	Quantity  decimal.Decimal
}

// StockValidator verificación previa todo-o-nada antes de descontar varias líneas.
// No sustituye al bloqueo del ledger: cada descuento vuelve a validarse bajo la fila bloqueada.
type StockValidator struct{}

// EnsureAvailable suma las cantidades de ids repetidos y bloquea las filas en orden
// ascendente de producto, de modo que dos pedidos concurrentes no se crucen.
// Devuelve *domain.InsufficientStockError con el primer producto que no alcanza.
func (StockValidator) EnsureAvailable(ctx context.Context, inv repository.InventoryRepository, items []StockRequest) error {
	totals := AggregateRequests(items)
	ids := make([]string, 0, len(totals))
	for id := range totals {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		requested := totals[id]
		if !requested.IsPositive() {
			continue
		}
		rec, err := inv.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if rec.Quantity.LessThan(requested) {
			return &domain.InsufficientStockError{ProductID: id, Available: rec.Quantity, Requested: requested}
		}
	}
	return nil
}

// AggregateRequests suma cantidades por producto.
func AggregateRequests(items []StockRequest) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal, len(items))
	for _, it := range items {
		totals[it.ProductID] = totals[it.ProductID].Add(it.Quantity)
	}
	return totals
}
