package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/fishtrade-api/internal/domain/entity"
)

// AdjustStockRequest body de POST /api/inventory/adjustments (conteo físico absoluto).
type AdjustStockRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Type      string          `json:"type,omitempty"` // adjustment (defecto) | loss
	Note      string          `json:"note,omitempty"`
}

// RecordLossRequest body de POST /api/inventory/losses.
type RecordLossRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Reason    string          `json:"reason,omitempty"`
}

// InventoryRecordResponse stock actual de un producto.
type InventoryRecordResponse struct {
	ProductID   string          `json:"product_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	LastUpdated time.Time       `json:"last_updated"`
}

// ToInventoryRecordResponse mapea la entidad.
func ToInventoryRecordResponse(r *entity.InventoryRecord) InventoryRecordResponse {
	return InventoryRecordResponse{ProductID: r.ProductID, Quantity: r.Quantity, LastUpdated: r.LastUpdated}
}

// InventoryLogDTO fila del kardex.
type InventoryLogDTO struct {
	ID             string          `json:"id"`
	ProductID      string          `json:"product_id"`
	Type           string          `json:"type"`
	QuantityChange decimal.Decimal `json:"quantity_change"`
	QuantityBefore decimal.Decimal `json:"quantity_before"`
	QuantityAfter  decimal.Decimal `json:"quantity_after"`
	ReferenceType  string          `json:"reference_type,omitempty"`
	ReferenceID    string          `json:"reference_id,omitempty"`
	Note           string          `json:"note,omitempty"`
	ActorID        string          `json:"actor_id,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// InventoryLogListResponse página del kardex.
type InventoryLogListResponse struct {
	Items []InventoryLogDTO `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ToInventoryLogDTO mapea una entrada del kardex.
func ToInventoryLogDTO(e *entity.InventoryLogEntry) InventoryLogDTO {
	return InventoryLogDTO{
		ID:             e.ID,
		ProductID:      e.ProductID,
		Type:           string(e.Type),
		QuantityChange: e.QuantityChange,
		QuantityBefore: e.QuantityBefore,
		QuantityAfter:  e.QuantityAfter,
		ReferenceType:  e.ReferenceType,
		ReferenceID:    e.ReferenceID,
		Note:           e.Note,
		ActorID:        e.ActorID,
		CreatedAt:      e.CreatedAt,
	}
}

// InventorySummaryDTO respuesta de GET /api/inventory/summary.
type InventorySummaryDTO struct {
	TotalProducts   int             `json:"total_products"`
	TotalUnits      decimal.Decimal `json:"total_units"`
	TotalValue      decimal.Decimal `json:"total_value"` // Σ cantidad × precio de compra
	LowStockCount   int             `json:"low_stock_count"`
	OutOfStockCount int             `json:"out_of_stock_count"`
}

// StockLevelDTO stock de un producto con su estado derivado.
type StockLevelDTO struct {
	ProductID   string          `json:"product_id"`
	SKU         string          `json:"sku"`
	ProductName string          `json:"product_name"`
	Unit        string          `json:"unit"`
	Quantity    decimal.Decimal `json:"quantity"`
	MinStock    decimal.Decimal `json:"min_stock"`
	Status      string          `json:"status"`       // in_stock | low_stock | out_of_stock
	StatusLabel string          `json:"status_label"` // "In Stock", "Low Stock", "Out of Stock"
}

// LossReportItemDTO merma de un producto en el período.
type LossReportItemDTO struct {
	ProductID   string          `json:"product_id"`
	SKU         string          `json:"sku"`
	ProductName string          `json:"product_name"`
	Imported    decimal.Decimal `json:"imported"`
	Sold        decimal.Decimal `json:"sold"`
	Lost        decimal.Decimal `json:"lost"`
	LossRate    decimal.Decimal `json:"loss_rate"` // 0..1
	Quantity    decimal.Decimal `json:"quantity"`
	StockStatus string          `json:"stock_status"`
	RiskLevel   string          `json:"risk_level"` // low | medium | high
}

// LossReportDTO respuesta de GET /api/inventory/loss-report.
type LossReportDTO struct {
	From      time.Time           `json:"from"`
	To        time.Time           `json:"to"`
	TotalLost decimal.Decimal     `json:"total_lost"`
	Items     []LossReportItemDTO `json:"items"`
}

// MovementSummaryDTO totales del kardex por tipo de movimiento.
type MovementSummaryDTO struct {
	Type     string          `json:"type"`
	Entries  int             `json:"entries"`
	UnitsIn  decimal.Decimal `json:"units_in"`
	UnitsOut decimal.Decimal `json:"units_out"`
	Net      decimal.Decimal `json:"net"`
}

// DiscrepancyDTO producto cuyo kardex no cuadra con el stock.
type DiscrepancyDTO struct {
	ProductID  string          `json:"product_id"`
	StoredQty  decimal.Decimal `json:"stored_quantity"`
	SumChanges decimal.Decimal `json:"sum_of_changes"`
	LastAfter  decimal.Decimal `json:"last_quantity_after"`
	Reason     string          `json:"reason"`
}

// ReconciliationDTO respuesta de GET /api/inventory/reconciliation.
type ReconciliationDTO struct {
	CheckedProducts int              `json:"checked_products"`
	Consistent      bool             `json:"consistent"`
	Discrepancies   []DiscrepancyDTO `json:"discrepancies"`
}

// ReplenishmentSuggestionDTO sugerencia de reposición para un producto en o bajo su stock mínimo.
type ReplenishmentSuggestionDTO struct {
	ProductID           string          `json:"product_id"`
	SKU                 string          `json:"sku"`
	ProductName         string          `json:"product_name"`
	CurrentStock        decimal.Decimal `json:"current_stock"`
	MinStock            decimal.Decimal `json:"min_stock"`
	IdealStock          decimal.Decimal `json:"ideal_stock"`         // MinStock * 1.5
	SuggestedOrderQty   decimal.Decimal `json:"suggested_order_qty"` // IdealStock - CurrentStock
	UnitCost            decimal.Decimal `json:"unit_cost"`
	EstimatedOrderCost  decimal.Decimal `json:"estimated_order_cost"`
	GrossMarginPct      decimal.Decimal `json:"gross_margin_pct"`
	UnitsSoldLast90Days decimal.Decimal `json:"units_sold_last_90d"`
	Priority            int             `json:"priority"` // 1 = más urgente
}
