package domain

import "github.com/shopspring/decimal"

// Decimales que guarda el esquema: NUMERIC(14,3) en cantidades, NUMERIC(14,2) en importes.
const (
	QuantityPlaces int32 = 3
	MoneyPlaces    int32 = 2
)

// CheckQuantityScale rechaza cantidades con más decimales de los que se persisten.
// Los ceros a la derecha no cuentan: 1.5000 es válido.
func CheckQuantityScale(field string, d decimal.Decimal) error {
	if !fitsPlaces(d, QuantityPlaces) {
		return NewValidationError(field, "admite como máximo %d decimales (%s)", QuantityPlaces, d.String())
	}
	return nil
}

// CheckMoneyScale igual que CheckQuantityScale para precios y descuentos.
func CheckMoneyScale(field string, d decimal.Decimal) error {
	if !fitsPlaces(d, MoneyPlaces) {
		return NewValidationError(field, "admite como máximo %d decimales (%s)", MoneyPlaces, d.String())
	}
	return nil
}

// RoundMoney lleva un importe calculado (cantidad × precio) a la escala persistida.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

func fitsPlaces(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Truncate(places))
}
