package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryRecord stock actual de un producto (una fila por producto, bodega única).
// Quantity solo la modifica el InventoryLedger.
type InventoryRecord struct {
	ProductID   string
	Quantity    decimal.Decimal
	LastUpdated time.Time
}
