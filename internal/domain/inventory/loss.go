package inventory

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/fishtrade-api/internal/domain/entity"
)

// RiskLevel nivel de riesgo de pérdida de un producto.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// RiskThresholds tasas de merma a partir de las cuales sube el riesgo.
type RiskThresholds struct {
	Medium decimal.Decimal
	High   decimal.Decimal
}

// DefaultRiskThresholds 5% medio, 10% alto.
func DefaultRiskThresholds() RiskThresholds {
	return RiskThresholds{
		Medium: decimal.NewFromFloat(0.05),
		High:   decimal.NewFromFloat(0.10),
	}
}

// ProductLossStats unidades por producto en una ventana del kardex.
type ProductLossStats struct {
	ProductID string
	Imported  decimal.Decimal
	Sold      decimal.Decimal // ventas netas de cancelaciones/ediciones
	Lost      decimal.Decimal
	LossRate  decimal.Decimal // Lost / (Sold + Lost)
}

// ComputeLossStats agrega el kardex por producto. Los ajustes que referencian un
// pedido de venta (cancelación, edición, borrado) se descuentan de lo vendido.
// El resultado viene ordenado por ProductID.
func ComputeLossStats(entries []*entity.InventoryLogEntry) []ProductLossStats {
	byProduct := make(map[string]*ProductLossStats)
	for _, e := range entries {
		st, ok := byProduct[e.ProductID]
		if !ok {
			st = &ProductLossStats{ProductID: e.ProductID}
			byProduct[e.ProductID] = st
		}
		switch e.Type {
		case entity.LogTypeImport:
			st.Imported = st.Imported.Add(e.QuantityChange)
		case entity.LogTypeSale:
			st.Sold = st.Sold.Sub(e.QuantityChange)
		case entity.LogTypeLoss:
			st.Lost = st.Lost.Sub(e.QuantityChange)
		case entity.LogTypeAdjustment:
			if e.ReferenceType == entity.ReferenceSaleOrder {
				st.Sold = st.Sold.Sub(e.QuantityChange)
			}
		}
	}

	out := make([]ProductLossStats, 0, len(byProduct))
	for _, st := range byProduct {
		st.LossRate = LossRate(st.Sold, st.Lost)
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

// LossRate lost / (sold + lost), 0 si no hubo salidas. Redondeado a 4 decimales.
func LossRate(sold, lost decimal.Decimal) decimal.Decimal {
	outflow := sold.Add(lost)
	if !outflow.IsPositive() {
		return decimal.Zero
	}
	return lost.Div(outflow).Round(4)
}

// AssessRisk combina la tasa de merma con el estado del stock.
// Un producto agotado que sí tuvo ventas nunca queda por debajo de medio.
func AssessRisk(st ProductLossStats, status StockStatus, th RiskThresholds) RiskLevel {
	level := RiskLow
	switch {
	case st.LossRate.GreaterThanOrEqual(th.High):
		level = RiskHigh
	case st.LossRate.GreaterThanOrEqual(th.Medium):
		level = RiskMedium
	}
	if level == RiskLow && status == StockStatusOutOfStock && st.Sold.IsPositive() {
		level = RiskMedium
	}
	return level
}
