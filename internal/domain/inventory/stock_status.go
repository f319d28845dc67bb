package inventory

import "github.com/shopspring/decimal"

// StockStatus etiqueta derivada del stock; no se persiste.
type StockStatus string

const (
	StockStatusInStock    StockStatus = "in_stock"
	StockStatusLowStock   StockStatus = "low_stock"
	StockStatusOutOfStock StockStatus = "out_of_stock"
)

// Label texto que muestra la interfaz.
func (s StockStatus) Label() string {
	switch s {
	case StockStatusOutOfStock:
		return "Out of Stock"
	case StockStatusLowStock:
		return "Low Stock"
	default:
		return "In Stock"
	}
}

// StatusFor clasifica una cantidad frente al stock mínimo del producto.
// Cantidad 0 es agotado; cantidad <= mínimo es bajo.
func StatusFor(quantity, minStock decimal.Decimal) StockStatus {
	if !quantity.IsPositive() {
		return StockStatusOutOfStock
	}
	if quantity.LessThanOrEqual(minStock) {
		return StockStatusLowStock
	}
	return StockStatusInStock
}
