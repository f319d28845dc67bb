package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/fishtrade-api/internal/domain"
	"github.com/jhoicas/fishtrade-api/internal/domain/entity"
	"github.com/jhoicas/fishtrade-api/internal/domain/repository"
)

var (
	_ repository.InventoryRepository    = (*inventoryRepo)(nil)
	_ repository.InventoryLogRepository = (*logRepo)(nil)
)

type inventoryRepo struct{ v view }

func (r *inventoryRepo) Get(_ context.Context, productID string) (*entity.InventoryRecord, error) {
	var out *entity.InventoryRecord
	err := r.v.read(func(st *state) error {
		rec, ok := st.inventory[productID]
		if !ok {
			rec = entity.InventoryRecord{ProductID: productID, Quantity: decimal.Zero}
		}
		out = &rec
		return nil
	})
	return out, err
}

// GetForUpdate dentro de una transacción el bloqueo ya lo da el mutex de Run.
func (r *inventoryRepo) GetForUpdate(_ context.Context, productID string) (*entity.InventoryRecord, error) {
	var out *entity.InventoryRecord
	err := r.v.write(func(st *state) error {
		if _, ok := st.products[productID]; !ok {
			return domain.NewNotFound("product", productID)
		}
		rec, ok := st.inventory[productID]
		if !ok {
			rec = entity.InventoryRecord{ProductID: productID, Quantity: decimal.Zero}
			st.inventory[productID] = rec
		}
		out = &rec
		return nil
	})
	return out, err
}

func (r *inventoryRepo) Save(_ context.Context, rec *entity.InventoryRecord) error {
	return r.v.write(func(st *state) error {
		st.inventory[rec.ProductID] = *rec
		return nil
	})
}

func (r *inventoryRepo) ListLevels(_ context.Context, q repository.StockLevelQuery) ([]repository.StockLevel, error) {
	var out []repository.StockLevel
	wanted := make(map[string]bool, len(q.ProductIDs))
	for _, id := range q.ProductIDs {
		wanted[id] = true
	}
	search := strings.ToLower(q.Search)
	err := r.v.read(func(st *state) error {
		for _, p := range st.products {
			if len(wanted) > 0 && !wanted[p.ID] {
				continue
			}
			if search != "" && !strings.Contains(strings.ToLower(p.Name), search) &&
				!strings.Contains(strings.ToLower(p.SKU), search) {
				continue
			}
			qty := st.inventory[p.ID].Quantity
			if q.LowOnly && qty.GreaterThan(p.MinStock) {
				continue
			}
			out = append(out, repository.StockLevel{
				ProductID:     p.ID,
				SKU:           p.SKU,
				ProductName:   p.Name,
				Unit:          p.Unit,
				Quantity:      qty,
				MinStock:      p.MinStock,
				PurchasePrice: p.PurchasePrice,
				SalePrice:     p.SalePrice,
			})
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ProductName < out[j].ProductName })
	return page(out, q.Limit, q.Offset), err
}

type logRepo struct{ v view }

func (r *logRepo) Append(_ context.Context, e *entity.InventoryLogEntry) error {
	return r.v.write(func(st *state) error {
		st.logs = append(st.logs, *e)
		return nil
	})
}

func (r *logRepo) List(_ context.Context, q repository.LogQuery) ([]*entity.InventoryLogEntry, error) {
	var out []*entity.InventoryLogEntry
	err := r.v.read(func(st *state) error {
		// del más reciente al más antiguo; a igual fecha manda el orden de inserción
		for i := len(st.logs) - 1; i >= 0; i-- {
			e := st.logs[i]
			if !matchLog(e, q) {
				continue
			}
			out = append(out, &e)
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, q.Limit, q.Offset), err
}

func matchLog(e entity.InventoryLogEntry, q repository.LogQuery) bool {
	switch {
	case q.ProductID != "" && e.ProductID != q.ProductID:
		return false
	case q.Type != "" && e.Type != q.Type:
		return false
	case q.ReferenceType != "" && e.ReferenceType != q.ReferenceType:
		return false
	case q.ReferenceID != "" && e.ReferenceID != q.ReferenceID:
		return false
	case q.From != nil && e.CreatedAt.Before(*q.From):
		return false
	case q.To != nil && e.CreatedAt.After(*q.To):
		return false
	}
	return true
}

func (r *logRepo) Balances(_ context.Context) ([]repository.LedgerBalance, error) {
	byProduct := make(map[string]*repository.LedgerBalance)
	get := func(id string) *repository.LedgerBalance {
		b, ok := byProduct[id]
		if !ok {
			b = &repository.LedgerBalance{ProductID: id}
			byProduct[id] = b
		}
		return b
	}
	err := r.v.read(func(st *state) error {
		for id := range st.products {
			get(id)
		}
		for id, rec := range st.inventory {
			b := get(id)
			b.StoredQty = rec.Quantity
			b.HasRecord = true
		}
		for _, e := range st.logs {
			b := get(e.ProductID)
			b.SumChanges = b.SumChanges.Add(e.QuantityChange)
			b.LastAfter = e.QuantityAfter
			b.EntryCount++
		}
		return nil
	})
	out := make([]repository.LedgerBalance, 0, len(byProduct))
	for _, b := range byProduct {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, err
}
