package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LogType tipo de movimiento registrado en el kardex.
type LogType string

const (
	LogTypeImport     LogType = "import"     // entrada por orden de importación
	LogTypeSale       LogType = "sale"       // salida por pedido de venta
	LogTypeAdjustment LogType = "adjustment" // ajuste manual, cancelaciones, ediciones
	LogTypeLoss       LogType = "loss"       // merma
)

// Valid indica si el tipo pertenece al catálogo conocido.
func (t LogType) Valid() bool {
	switch t {
	case LogTypeImport, LogTypeSale, LogTypeAdjustment, LogTypeLoss:
		return true
	}
	return false
}

// Tipos de documento que originan un movimiento.
const (
	ReferenceSaleOrder   = "sale_order"
	ReferenceImportOrder = "import_order"
)

// Reference documento que causó el movimiento.
type Reference struct {
	Type string
	ID   string
}

// InventoryLogEntry fila inmutable del kardex. Nunca se actualiza ni se borra.
type InventoryLogEntry struct {
	ID             string
	ProductID      string
	Type           LogType
	QuantityChange decimal.Decimal // con signo
	QuantityBefore decimal.Decimal
	QuantityAfter  decimal.Decimal
	ReferenceType  string // vacío si no hay documento
	ReferenceID    string
	Note           string
	ActorID        string
	CreatedAt      time.Time
}
