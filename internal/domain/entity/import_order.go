package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ImportStatus estado de una orden de importación (compra a proveedor).
type ImportStatus string

const (
	ImportStatusPending   ImportStatus = "pending"
	ImportStatusConfirmed ImportStatus = "confirmed"
	ImportStatusDelivered ImportStatus = "delivered"
	ImportStatusCancelled ImportStatus = "cancelled"
)

// Valid indica si el estado es uno de los cuatro conocidos.
func (s ImportStatus) Valid() bool {
	switch s {
	case ImportStatusPending, ImportStatusConfirmed, ImportStatusDelivered, ImportStatusCancelled:
		return true
	}
	return false
}

// ImportOrder orden de compra a proveedor. Solo la entrega mueve stock.
type ImportOrder struct {
	ID           string
	OrderNumber  string
	SupplierID   string // vacío si no se registró proveedor
	Status       ImportStatus
	TotalAmount  decimal.Decimal
	Notes        string
	ExpectedDate *time.Time
	DeliveryDate *time.Time // se fija al pasar a delivered
	CreatedBy    string
	Items        []ImportOrderItem
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ImportOrderItem línea de una orden de importación; BatchID solo sirve de trazabilidad.
type ImportOrderItem struct {
	ID         string
	OrderID    string
	ProductID  string
	BatchID    string
	Quantity   decimal.Decimal
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal
}
