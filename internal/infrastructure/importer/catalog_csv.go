// Package importer lee catálogos de productos exportados por sistemas anteriores.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/fishtrade-api/internal/application/dto"
)

// Columnas reconocidas en la cabecera (sin importar mayúsculas ni orden).
const (
	colSKU           = "sku"
	colName          = "name"
	colUnit          = "unit"
	colMinStock      = "min_stock"
	colPurchasePrice = "purchase_price"
	colSalePrice     = "sale_price"
	colCategory      = "category_id"
)

// decoderFor devuelve el decodificador del charset indicado.
// Las hojas de cálculo vietnamitas antiguas suelen salir en windows-1258.
func decoderFor(charset string) (*encoding.Decoder, error) {
	switch strings.ToLower(strings.ReplaceAll(charset, "_", "-")) {
	case "", "utf-8", "utf8":
		return unicode.UTF8BOM.NewDecoder(), nil
	case "windows-1258", "cp1258":
		return charmap.Windows1258.NewDecoder(), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder(), nil
	case "iso-8859-1", "latin1":
		return charmap.ISO8859_1.NewDecoder(), nil
	}
	return nil, fmt.Errorf("charset no soportado %q", charset)
}

// ReadProducts convierte un CSV con cabecera en solicitudes de alta de producto.
// name y unit son obligatorias; el resto de columnas es opcional.
// Los nombres se normalizan a NFC para que "Cá" compuesto y descompuesto sean iguales.
func ReadProducts(r io.Reader, charset string) ([]dto.CreateProductRequest, error) {
	dec, err := decoderFor(charset)
	if err != nil {
		return nil, err
	}
	cr := csv.NewReader(transform.NewReader(r, dec))
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("csv vacío")
		}
		return nil, fmt.Errorf("leer cabecera: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{colName, colUnit} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("falta la columna %q", required)
		}
	}

	var out []dto.CreateProductRequest
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		field := func(col string) string {
			i, ok := idx[col]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		if field(colName) == "" && field(colSKU) == "" {
			continue
		}
		p := dto.CreateProductRequest{
			SKU:        strings.ToUpper(field(colSKU)),
			Name:       norm.NFC.String(field(colName)),
			CategoryID: field(colCategory),
			Unit:       field(colUnit),
		}
		for col, dst := range map[string]*decimal.Decimal{
			colMinStock:      &p.MinStock,
			colPurchasePrice: &p.PurchasePrice,
			colSalePrice:     &p.SalePrice,
		} {
			v, err := parseAmount(field(col))
			if err != nil {
				return nil, fmt.Errorf("línea %d, columna %s: %w", line, col, err)
			}
			*dst = v
		}
		out = append(out, p)
	}
	return out, nil
}

// parseAmount acepta "1500000", "1.500.000" y "12,5" (formato local).
func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	} else if strings.Count(s, ".") > 1 {
		s = strings.ReplaceAll(s, ".", "")
	}
	return decimal.NewFromString(s)
}
