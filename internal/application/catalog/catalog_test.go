package catalog_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fishtrade-api/internal/application/catalog"
	"github.com/jhoicas/fishtrade-api/internal/application/dto"
	"github.com/jhoicas/fishtrade-api/internal/domain"
	"github.com/jhoicas/fishtrade-api/internal/infrastructure/memory"
)

func newProductUC() *catalog.ProductUseCase {
	return catalog.NewProductUseCase(memory.New().Repos().Products)
}

func TestProductCreate_GeneraSKUDesdeNombre(t *testing.T) {
	uc := newProductUC()
	ctx := context.Background()

	first, err := uc.Create(ctx, dto.CreateProductRequest{Name: "Cá Điêu Hồng", Unit: "kg", MinStock: decimal.NewFromInt(5)})
	require.NoError(t, err)
	assert.Equal(t, "CDH-0001", first.SKU)

	second, err := uc.Create(ctx, dto.CreateProductRequest{Name: "Cá điêu hồng fillet", Unit: "kg"})
	require.NoError(t, err)
	assert.Equal(t, "CDHF-0001", second.SKU)

	third, err := uc.Create(ctx, dto.CreateProductRequest{Name: "cá diêu hồng", Unit: "kg"})
	require.NoError(t, err)
	assert.Equal(t, "CDH-0002", third.SKU)
}

func TestProductCreate_SaltaConsecutivoOcupado(t *testing.T) {
	uc := newProductUC()
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.CreateProductRequest{SKU: "TRA-0001", Name: "Otro", Unit: "kg"})
	require.NoError(t, err)

	// el SKU manual cuenta para el prefijo, el consecutivo arranca en 0002
	p, err := uc.Create(ctx, dto.CreateProductRequest{Name: "Tra", Unit: "kg"})
	require.NoError(t, err)
	assert.Equal(t, "TRA-0002", p.SKU)
}

func TestProductCreate_SKUDuplicado(t *testing.T) {
	uc := newProductUC()
	ctx := context.Background()
	_, err := uc.Create(ctx, dto.CreateProductRequest{SKU: "BASA-1", Name: "Basa", Unit: "kg"})
	require.NoError(t, err)

	_, err = uc.Create(ctx, dto.CreateProductRequest{SKU: "BASA-1", Name: "Basa 2", Unit: "kg"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestProductCreate_Validaciones(t *testing.T) {
	uc := newProductUC()
	ctx := context.Background()
	cases := []struct {
		name  string
		in    dto.CreateProductRequest
		field string
	}{
		{"sin nombre", dto.CreateProductRequest{Name: "  ", Unit: "kg"}, "name"},
		{"sin unidad", dto.CreateProductRequest{Name: "Basa"}, "unit"},
		{"mínimo negativo", dto.CreateProductRequest{Name: "Basa", Unit: "kg", MinStock: decimal.NewFromInt(-1)}, "min_stock"},
		{"precio negativo", dto.CreateProductRequest{Name: "Basa", Unit: "kg", SalePrice: decimal.NewFromInt(-1)}, "sale_price"},
		{"mínimo con 4 decimales", dto.CreateProductRequest{Name: "Basa", Unit: "kg", MinStock: decimal.RequireFromString("2.0005")}, "min_stock"},
		{"costo con 3 decimales", dto.CreateProductRequest{Name: "Basa", Unit: "kg", PurchasePrice: decimal.RequireFromString("50000.125")}, "purchase_price"},
		{"precio con 3 decimales", dto.CreateProductRequest{Name: "Basa", Unit: "kg", SalePrice: decimal.RequireFromString("85000.001")}, "sale_price"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Create(ctx, tc.in)
			var vErr *domain.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tc.field, vErr.Field)
		})
	}
}

func TestProductUpdate_YGet(t *testing.T) {
	uc := newProductUC()
	ctx := context.Background()
	p, err := uc.Create(ctx, dto.CreateProductRequest{Name: "Cá Basa", Unit: "kg"})
	require.NoError(t, err)

	price := decimal.NewFromInt(85000)
	name := "Cá Basa fillet"
	updated, err := uc.Update(ctx, p.ID, dto.UpdateProductRequest{Name: &name, SalePrice: &price})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.True(t, updated.SalePrice.Equal(price))
	assert.Equal(t, p.SKU, updated.SKU)

	got, err := uc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, name, got.Name)

	_, err = uc.GetByID(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	negative := decimal.NewFromInt(-3)
	_, err = uc.Update(ctx, p.ID, dto.UpdateProductRequest{MinStock: &negative})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductList_BuscaPorNombreOSKU(t *testing.T) {
	uc := newProductUC()
	ctx := context.Background()
	for _, n := range []string{"Cá Basa", "Cá Tra", "Tôm sú"} {
		_, err := uc.Create(ctx, dto.CreateProductRequest{Name: n, Unit: "kg"})
		require.NoError(t, err)
	}

	out, err := uc.List(ctx, "cá", "", dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, out.Items, 2)
	assert.Equal(t, 20, out.Page.Limit)

	out, err = uc.List(ctx, "", "", dto.PageRequest{Limit: 1, Offset: 2})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "Tôm sú", out.Items[0].Name)
}

func TestCustomerYSupplier(t *testing.T) {
	repos := memory.New().Repos()
	ctx := context.Background()
	customers := catalog.NewCustomerUseCase(repos.Customers)
	suppliers := catalog.NewSupplierUseCase(repos.Suppliers)

	c, err := customers.Create(ctx, dto.ContactRequest{Name: " Nhà hàng Biển Xanh ", Email: "Compras@BienXanh.vn"})
	require.NoError(t, err)
	assert.Equal(t, "Nhà hàng Biển Xanh", c.Name)
	assert.Equal(t, "compras@bienxanh.vn", c.Email)

	got, err := customers.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)

	_, err = customers.Create(ctx, dto.ContactRequest{Name: "X", Email: "sin-arroba"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = suppliers.Create(ctx, dto.ContactRequest{Name: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	s, err := suppliers.Create(ctx, dto.ContactRequest{Name: "Vĩnh Hoàn"})
	require.NoError(t, err)
	list, err := suppliers.List(ctx, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, s.ID, list.Items[0].ID)

	_, err = suppliers.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
