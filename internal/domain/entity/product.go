package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa una especie/presentación de pescado que se compra y se vende.
// El catálogo la crea y edita; el núcleo de inventario solo la lee.
type Product struct {
	ID            string
	SKU           string // único; se genera desde el nombre si viene vacío
	Name          string
	CategoryID    string // vacío si no tiene categoría
	Unit          string // kg, con, thùng...
	MinStock      decimal.Decimal
	PurchasePrice decimal.Decimal // precio de compra de referencia
	SalePrice     decimal.Decimal // precio de venta sugerido
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
