package inventory

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/fishtrade-api/internal/domain/entity"
	"github.com/jhoicas/fishtrade-api/internal/domain/repository"
)

// TypeSummary totales del kardex para un tipo de movimiento.
type TypeSummary struct {
	Type     entity.LogType
	Entries  int
	UnitsIn  decimal.Decimal
	UnitsOut decimal.Decimal // valor absoluto de las salidas
	Net      decimal.Decimal
}

// SummarizeByType agrupa las entradas por tipo, en el orden import, sale, adjustment, loss.
func SummarizeByType(entries []*entity.InventoryLogEntry) []TypeSummary {
	byType := make(map[entity.LogType]*TypeSummary)
	for _, e := range entries {
		s, ok := byType[e.Type]
		if !ok {
			s = &TypeSummary{Type: e.Type}
			byType[e.Type] = s
		}
		s.Entries++
		if e.QuantityChange.IsPositive() {
			s.UnitsIn = s.UnitsIn.Add(e.QuantityChange)
		} else {
			s.UnitsOut = s.UnitsOut.Add(e.QuantityChange.Abs())
		}
		s.Net = s.Net.Add(e.QuantityChange)
	}
	order := map[entity.LogType]int{
		entity.LogTypeImport: 0, entity.LogTypeSale: 1, entity.LogTypeAdjustment: 2, entity.LogTypeLoss: 3,
	}
	out := make([]TypeSummary, 0, len(byType))
	for _, s := range byType {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return order[out[i].Type] < order[out[j].Type] })
	return out
}

// Discrepancy producto cuyo kardex no cuadra con el stock guardado.
type Discrepancy struct {
	ProductID  string
	StoredQty  decimal.Decimal
	SumChanges decimal.Decimal
	LastAfter  decimal.Decimal
	Reason     string
}

// Reconcile verifica que Σ quantity_change y el último quantity_after coincidan
// con la cantidad guardada. Un producto sin movimientos debe tener stock 0.
func Reconcile(balances []repository.LedgerBalance) []Discrepancy {
	var out []Discrepancy
	for _, b := range balances {
		d := Discrepancy{ProductID: b.ProductID, StoredQty: b.StoredQty, SumChanges: b.SumChanges, LastAfter: b.LastAfter}
		switch {
		case !b.SumChanges.Equal(b.StoredQty):
			d.Reason = "la suma de movimientos no coincide con el stock"
		case b.EntryCount > 0 && !b.LastAfter.Equal(b.StoredQty):
			d.Reason = "el último saldo del kardex no coincide con el stock"
		default:
			continue
		}
		out = append(out, d)
	}
	return out
}
