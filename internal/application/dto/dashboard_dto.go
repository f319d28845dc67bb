package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
// Stock actual, ventas y mermas del mes en curso y top de productos vendidos.
type DashboardSummaryDTO struct {
	Inventory InventorySummaryDTO `json:"inventory"`

	// Mes en curso (día 1 – hoy)
	MonthSoldUnits decimal.Decimal `json:"month_sold_units"`
	MonthLostUnits decimal.Decimal `json:"month_lost_units"`
	MonthLossValue decimal.Decimal `json:"month_loss_value"` // unidades perdidas × precio de compra
	MonthLossRate  decimal.Decimal `json:"month_loss_rate"`

	PendingSaleOrders   int `json:"pending_sale_orders"`
	PendingImportOrders int `json:"pending_import_orders"`

	TopProducts []TopProductDTO `json:"top_products"`
	DateLabel   string          `json:"date_label"` // ej: "Octubre 2026"
}

// TopProductDTO producto más vendido del mes.
type TopProductDTO struct {
	ProductID    string          `json:"product_id"`
	SKU          string          `json:"sku"`
	ProductName  string          `json:"product_name"`
	QuantitySold decimal.Decimal `json:"quantity_sold"`
}
