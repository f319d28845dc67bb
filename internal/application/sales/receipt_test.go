package sales_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fishtrade-api/internal/application/sales"
	"github.com/jhoicas/fishtrade-api/internal/domain"
)

type captureGenerator struct {
	got sales.ReceiptData
}

func (g *captureGenerator) GenerateReceipt(_ context.Context, data sales.ReceiptData) ([]byte, error) {
	g.got = data
	return []byte("%PDF-fake"), nil
}

func TestReceipt_ResuelveClienteYProductos(t *testing.T) {
	f := newFixture(t, map[string]int64{"P": 10})
	ctx := context.Background()
	order, err := f.sm.Create(ctx, sales.CreateInput{CustomerID: "c1", Items: []sales.ItemInput{item("P", 2)}}, "u1")
	require.NoError(t, err)

	gen := &captureGenerator{}
	repos := f.store.Repos()
	uc := sales.NewReceiptUseCase(repos.SaleOrders, repos.Products, repos.Customers, gen)

	pdf, filename, err := uc.Download(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-fake", string(pdf))
	assert.Equal(t, order.OrderNumber+".pdf", filename)
	require.NotNil(t, gen.got.Customer)
	assert.Equal(t, "Chị Lan", gen.got.Customer.Name)
	require.Len(t, gen.got.Lines, 1)
	assert.Equal(t, "SKU-P", gen.got.Lines[0].SKU)
	assert.True(t, gen.got.Lines[0].Total.Equal(dec(200)))
}

func TestReceipt_PedidoCanceladoOInexistente(t *testing.T) {
	f := newFixture(t, map[string]int64{"P": 10})
	ctx := context.Background()
	repos := f.store.Repos()
	uc := sales.NewReceiptUseCase(repos.SaleOrders, repos.Products, repos.Customers, &captureGenerator{})

	_, _, err := uc.Download(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	order, err := f.sm.Create(ctx, sales.CreateInput{Items: []sales.ItemInput{item("P", 2)}}, "u1")
	require.NoError(t, err)
	_, err = f.sm.Cancel(ctx, order.ID, "u1")
	require.NoError(t, err)

	_, _, err = uc.Download(ctx, order.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
