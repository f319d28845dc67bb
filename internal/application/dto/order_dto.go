package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/fishtrade-api/internal/domain/entity"
)

// SaleOrderItemRequest línea de un pedido. unit_price omitido toma el precio de venta del producto.
type SaleOrderItemRequest struct {
	ProductID string           `json:"product_id"`
	Quantity  decimal.Decimal  `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}

// CreateSaleOrderRequest body de POST /api/sale-orders.
type CreateSaleOrderRequest struct {
	CustomerID string                 `json:"customer_id,omitempty"`
	Status     string                 `json:"status,omitempty"`
	Discount   decimal.Decimal        `json:"discount"`
	Notes      string                 `json:"notes,omitempty"`
	Items      []SaleOrderItemRequest `json:"items"`
}

// UpdateStatusRequest body de PATCH .../status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateSaleOrderRequest body de PUT /api/sale-orders/:id (solo metadatos).
type UpdateSaleOrderRequest struct {
	CustomerID *string `json:"customer_id"`
	Notes      *string `json:"notes"`
}

// ReplaceSaleOrderItemsRequest body de PUT /api/sale-orders/:id/items.
type ReplaceSaleOrderItemsRequest struct {
	Items []SaleOrderItemRequest `json:"items"`
}

// SaleOrderItemResponse línea de pedido.
type SaleOrderItemResponse struct {
	ID         string          `json:"id"`
	ProductID  string          `json:"product_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// SaleOrderResponse pedido de venta.
type SaleOrderResponse struct {
	ID          string                  `json:"id"`
	OrderNumber string                  `json:"order_number"`
	CustomerID  string                  `json:"customer_id,omitempty"`
	Status      string                  `json:"status"`
	Subtotal    decimal.Decimal         `json:"subtotal"`
	Discount    decimal.Decimal         `json:"discount"`
	Total       decimal.Decimal         `json:"total"`
	Notes       string                  `json:"notes,omitempty"`
	CreatedBy   string                  `json:"created_by,omitempty"`
	Items       []SaleOrderItemResponse `json:"items"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

// ToSaleOrderResponse mapea la entidad.
func ToSaleOrderResponse(o *entity.SaleOrder) SaleOrderResponse {
	items := make([]SaleOrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, SaleOrderItemResponse{
			ID: it.ID, ProductID: it.ProductID, Quantity: it.Quantity, UnitPrice: it.UnitPrice, TotalPrice: it.TotalPrice,
		})
	}
	return SaleOrderResponse{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		CustomerID:  o.CustomerID,
		Status:      string(o.Status),
		Subtotal:    o.Subtotal,
		Discount:    o.Discount,
		Total:       o.Total,
		Notes:       o.Notes,
		CreatedBy:   o.CreatedBy,
		Items:       items,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

// ImportOrderItemRequest línea de compra.
type ImportOrderItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreateImportOrderRequest body de POST /api/import-orders.
type CreateImportOrderRequest struct {
	SupplierID   string                   `json:"supplier_id,omitempty"`
	Notes        string                   `json:"notes,omitempty"`
	ExpectedDate *time.Time               `json:"expected_date,omitempty"`
	Items        []ImportOrderItemRequest `json:"items"`
}

// UpdateImportOrderRequest body de PUT /api/import-orders/:id.
type UpdateImportOrderRequest struct {
	SupplierID   *string    `json:"supplier_id"`
	Notes        *string    `json:"notes"`
	ExpectedDate *time.Time `json:"expected_date"`
}

// ImportOrderItemResponse línea de compra con su lote.
type ImportOrderItemResponse struct {
	ID         string          `json:"id"`
	ProductID  string          `json:"product_id"`
	BatchID    string          `json:"batch_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// ImportOrderResponse orden de importación.
type ImportOrderResponse struct {
	ID           string                    `json:"id"`
	OrderNumber  string                    `json:"order_number"`
	SupplierID   string                    `json:"supplier_id,omitempty"`
	Status       string                    `json:"status"`
	TotalAmount  decimal.Decimal           `json:"total_amount"`
	Notes        string                    `json:"notes,omitempty"`
	ExpectedDate *time.Time                `json:"expected_date,omitempty"`
	DeliveryDate *time.Time                `json:"delivery_date,omitempty"`
	CreatedBy    string                    `json:"created_by,omitempty"`
	Items        []ImportOrderItemResponse `json:"items"`
	CreatedAt    time.Time                 `json:"created_at"`
	UpdatedAt    time.Time                 `json:"updated_at"`
}

// ToImportOrderResponse mapea la entidad.
func ToImportOrderResponse(o *entity.ImportOrder) ImportOrderResponse {
	items := make([]ImportOrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, ImportOrderItemResponse{
			ID: it.ID, ProductID: it.ProductID, BatchID: it.BatchID, Quantity: it.Quantity, UnitPrice: it.UnitPrice, TotalPrice: it.TotalPrice,
		})
	}
	return ImportOrderResponse{
		ID:           o.ID,
		OrderNumber:  o.OrderNumber,
		SupplierID:   o.SupplierID,
		Status:       string(o.Status),
		TotalAmount:  o.TotalAmount,
		Notes:        o.Notes,
		ExpectedDate: o.ExpectedDate,
		DeliveryDate: o.DeliveryDate,
		CreatedBy:    o.CreatedBy,
		Items:        items,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

// SaleOrderListResponse página de pedidos de venta.
type SaleOrderListResponse struct {
	Items []SaleOrderResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}

// ImportOrderListResponse página de órdenes de importación.
type ImportOrderListResponse struct {
	Items []ImportOrderResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}
