package importer

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestReadProducts_UTF8ConColumnasOpcionales(t *testing.T) {
	in := "\ufeffName,Unit,Sale_Price,SKU\n" +
		"Cá Tra,kg,\"85.000,50\",tra-0001\n" +
		",,,\n" +
		"Mực,kg,120000,\n"

	got, err := ReadProducts(strings.NewReader(in), "")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Cá Tra", got[0].Name, "NFC")
	assert.Equal(t, "TRA-0001", got[0].SKU)
	assert.True(t, got[0].SalePrice.Equal(decimal.RequireFromString("85000.50")))
	assert.True(t, got[0].MinStock.IsZero())

	assert.Equal(t, "Mực", got[1].Name)
	assert.Empty(t, got[1].SKU)
	assert.True(t, got[1].SalePrice.Equal(decimal.NewFromInt(120000)))
}

func TestReadProducts_Windows1258(t *testing.T) {
	utf8 := "name,unit,min_stock,purchase_price\nTôm Sú,kg,5,1.500.000\n"
	raw, err := charmap.Windows1258.NewEncoder().String(utf8)
	require.NoError(t, err)

	got, err := ReadProducts(strings.NewReader(raw), "windows-1258")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Tôm Sú", got[0].Name)
	assert.True(t, got[0].MinStock.Equal(decimal.NewFromInt(5)))
	assert.True(t, got[0].PurchasePrice.Equal(decimal.NewFromInt(1500000)))
}

func TestReadProducts_Errores(t *testing.T) {
	_, err := ReadProducts(strings.NewReader("sku,unit\nA,kg\n"), "")
	assert.ErrorContains(t, err, "name")

	_, err = ReadProducts(strings.NewReader("name,unit,sale_price\nCá,kg,abc\n"), "")
	assert.ErrorContains(t, err, "línea 2")

	_, err = ReadProducts(strings.NewReader(""), "")
	assert.Error(t, err)

	_, err = ReadProducts(strings.NewReader("name,unit\n"), "ebcdic")
	assert.ErrorContains(t, err, "charset")
}
