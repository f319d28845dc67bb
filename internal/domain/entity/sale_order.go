package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleStatus estado de un pedido de venta.
type SaleStatus string

const (
	SaleStatusPending    SaleStatus = "pending"
	SaleStatusProcessing SaleStatus = "processing"
	SaleStatusCompleted  SaleStatus = "completed"
	SaleStatusCancelled  SaleStatus = "cancelled"
)

// Valid indica si el estado es uno de los cuatro conocidos.
func (s SaleStatus) Valid() bool {
	switch s {
	case SaleStatusPending, SaleStatusProcessing, SaleStatusCompleted, SaleStatusCancelled:
		return true
	}
	return false
}

// SaleOrder pedido de venta. CustomerID vacío = cliente de mostrador.
type SaleOrder struct {
	ID          string
	OrderNumber string
	CustomerID  string
	Status      SaleStatus
	Subtotal    decimal.Decimal
	Discount    decimal.Decimal
	Total       decimal.Decimal
	Notes       string
	CreatedBy   string
	Items       []SaleOrderItem
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SaleOrderItem línea de un pedido de venta.
type SaleOrderItem struct {
	ID         string
	OrderID    string
	ProductID  string
	Quantity   decimal.Decimal
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal // Quantity * UnitPrice
}
