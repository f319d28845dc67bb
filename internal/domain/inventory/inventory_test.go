package inventory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fishtrade-api/internal/domain/entity"
	"github.com/jhoicas/fishtrade-api/internal/domain/repository"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func entry(product string, t entity.LogType, change int64, ref string) *entity.InventoryLogEntry {
	return &entity.InventoryLogEntry{ProductID: product, Type: t, QuantityChange: d(change), ReferenceType: ref}
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, StockStatusOutOfStock, StatusFor(d(0), d(5)))
	assert.Equal(t, StockStatusLowStock, StatusFor(d(3), d(5)))
	assert.Equal(t, StockStatusLowStock, StatusFor(d(5), d(5)))
	assert.Equal(t, StockStatusInStock, StatusFor(d(6), d(5)))
	assert.Equal(t, "Low Stock", StatusFor(d(3), d(5)).Label())
}

func TestComputeLossStats_DescuentaCancelaciones(t *testing.T) {
	entries := []*entity.InventoryLogEntry{
		entry("p1", entity.LogTypeImport, 100, entity.ReferenceImportOrder),
		entry("p1", entity.LogTypeSale, -50, entity.ReferenceSaleOrder),
		entry("p1", entity.LogTypeAdjustment, 5, entity.ReferenceSaleOrder), // cancelación parcial
		entry("p1", entity.LogTypeLoss, -5, ""),
		entry("p1", entity.LogTypeAdjustment, 2, ""), // conteo físico, no cuenta como venta
	}
	stats := ComputeLossStats(entries)
	require.Len(t, stats, 1)
	st := stats[0]
	assert.True(t, st.Imported.Equal(d(100)))
	assert.True(t, st.Sold.Equal(d(45)))
	assert.True(t, st.Lost.Equal(d(5)))
	assert.Equal(t, "0.1", st.LossRate.String())
}

func TestLossRate_SinSalidas(t *testing.T) {
	assert.True(t, LossRate(d(0), d(0)).IsZero())
}

func TestAssessRisk(t *testing.T) {
	th := DefaultRiskThresholds()
	high := ProductLossStats{Sold: d(90), Lost: d(10), LossRate: LossRate(d(90), d(10))}
	medium := ProductLossStats{Sold: d(94), Lost: d(6), LossRate: LossRate(d(94), d(6))}
	low := ProductLossStats{Sold: d(99), Lost: d(1), LossRate: LossRate(d(99), d(1))}

	assert.Equal(t, RiskHigh, AssessRisk(high, StockStatusInStock, th))
	assert.Equal(t, RiskMedium, AssessRisk(medium, StockStatusInStock, th))
	assert.Equal(t, RiskLow, AssessRisk(low, StockStatusInStock, th))
	assert.Equal(t, RiskMedium, AssessRisk(low, StockStatusOutOfStock, th), "agotado con ventas")
	assert.Equal(t, RiskLow, AssessRisk(ProductLossStats{}, StockStatusOutOfStock, th), "agotado sin ventas")
}

func TestSummarizeByType(t *testing.T) {
	entries := []*entity.InventoryLogEntry{
		entry("p1", entity.LogTypeSale, -3, entity.ReferenceSaleOrder),
		entry("p1", entity.LogTypeImport, 20, entity.ReferenceImportOrder),
		entry("p2", entity.LogTypeSale, -4, entity.ReferenceSaleOrder),
		entry("p2", entity.LogTypeAdjustment, 4, entity.ReferenceSaleOrder),
		entry("p2", entity.LogTypeAdjustment, -1, ""),
	}
	got := SummarizeByType(entries)
	require.Len(t, got, 3)
	assert.Equal(t, entity.LogTypeImport, got[0].Type)
	assert.Equal(t, entity.LogTypeSale, got[1].Type)
	assert.Equal(t, 2, got[1].Entries)
	assert.True(t, got[1].UnitsOut.Equal(d(7)))
	assert.True(t, got[1].Net.Equal(d(-7)))
	assert.True(t, got[2].UnitsIn.Equal(d(4)))
	assert.True(t, got[2].UnitsOut.Equal(d(1)))
	assert.True(t, got[2].Net.Equal(d(3)))
}

func TestReconcile(t *testing.T) {
	balances := []repository.LedgerBalance{
		{ProductID: "ok", SumChanges: d(10), LastAfter: d(10), EntryCount: 2, StoredQty: d(10), HasRecord: true},
		{ProductID: "suma", SumChanges: d(8), LastAfter: d(10), EntryCount: 2, StoredQty: d(10), HasRecord: true},
		{ProductID: "ultimo", SumChanges: d(10), LastAfter: d(9), EntryCount: 3, StoredQty: d(10), HasRecord: true},
		{ProductID: "vacio", StoredQty: d(0)},
	}
	got := Reconcile(balances)
	require.Len(t, got, 2)
	assert.Equal(t, "suma", got[0].ProductID)
	assert.Equal(t, "ultimo", got[1].ProductID)
}
