package reporting

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/fishtrade-api/internal/application/dto"
	domaininv "github.com/jhoicas/fishtrade-api/internal/domain/inventory"
	"github.com/jhoicas/fishtrade-api/internal/domain/repository"
)

const salesWindowDays = 90

// ReplenishmentUseCase genera la lista de reposición: productos en o bajo su stock mínimo,
// priorizados por lo vendido en los últimos 90 días.
type ReplenishmentUseCase struct {
	inventory repository.InventoryRepository
	logs      repository.InventoryLogRepository
	now       func() time.Time
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(inventory repository.InventoryRepository, logs repository.InventoryLogRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{inventory: inventory, logs: logs, now: time.Now}
}

// GenerateReplenishmentList devuelve la cantidad sugerida (1.5 × mínimo − actual) y la prioridad
// (1 = más urgente). Productos con mínimo 0 no se sugieren.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context) ([]dto.ReplenishmentSuggestionDTO, error) {
	// 1. Productos en o bajo el mínimo
	levels, err := uc.inventory.ListLevels(ctx, repository.StockLevelQuery{LowOnly: true})
	if err != nil {
		return nil, err
	}
	if len(levels) == 0 {
		return []dto.ReplenishmentSuggestionDTO{}, nil
	}

	// 2. Ventas netas por producto en la ventana
	end := uc.now()
	start := end.AddDate(0, 0, -salesWindowDays)
	entries, err := uc.logs.List(ctx, repository.LogQuery{From: &start, To: &end})
	if err != nil {
		return nil, err
	}
	soldByID := make(map[string]decimal.Decimal)
	for _, st := range domaininv.ComputeLossStats(entries) {
		soldByID[st.ProductID] = st.Sold
	}

	// 3. Sugerencias
	hundred := decimal.NewFromInt(100)
	factor := decimal.NewFromFloat(1.5)
	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0, len(levels))
	for _, l := range levels {
		if !l.MinStock.IsPositive() {
			continue
		}
		ideal := l.MinStock.Mul(factor)
		suggested := ideal.Sub(l.Quantity)
		if suggested.IsNegative() {
			suggested = decimal.Zero
		}
		var margin decimal.Decimal
		if l.SalePrice.IsPositive() {
			margin = l.SalePrice.Sub(l.PurchasePrice).Div(l.SalePrice).Mul(hundred).Round(2)
		}
		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			ProductID:           l.ProductID,
			SKU:                 l.SKU,
			ProductName:         l.ProductName,
			CurrentStock:        l.Quantity,
			MinStock:            l.MinStock,
			IdealStock:          ideal,
			SuggestedOrderQty:   suggested,
			UnitCost:            l.PurchasePrice,
			EstimatedOrderCost:  suggested.Mul(l.PurchasePrice),
			GrossMarginPct:      margin,
			UnitsSoldLast90Days: soldByID[l.ProductID],
		})
	}

	// 4. Ordenar: más vendido, luego mayor margen, luego mayor déficit
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if !a.UnitsSoldLast90Days.Equal(b.UnitsSoldLast90Days) {
			return a.UnitsSoldLast90Days.GreaterThan(b.UnitsSoldLast90Days)
		}
		if !a.GrossMarginPct.Equal(b.GrossMarginPct) {
			return a.GrossMarginPct.GreaterThan(b.GrossMarginPct)
		}
		return a.MinStock.Sub(a.CurrentStock).GreaterThan(b.MinStock.Sub(b.CurrentStock))
	})
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
