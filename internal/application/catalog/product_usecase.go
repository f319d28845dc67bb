// Package catalog casos de uso del catálogo: productos, clientes y proveedores.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/fishtrade-api/internal/application/dto"
	"github.com/jhoicas/fishtrade-api/internal/domain"
	"github.com/jhoicas/fishtrade-api/internal/domain/catalog"
	"github.com/jhoicas/fishtrade-api/internal/domain/entity"
	"github.com/jhoicas/fishtrade-api/internal/domain/repository"
)

// skuAttempts consecutivos que se prueban si el generado ya existe.
const skuAttempts = 5

// ProductUseCase casos de uso CRUD para productos. El stock se maneja solo vía el ledger.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un producto. Si SKU viene vacío se genera desde el nombre.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.SKU = strings.TrimSpace(in.SKU)
	if in.Name == "" {
		return nil, domain.NewValidationError("name", "es obligatorio")
	}
	if strings.TrimSpace(in.Unit) == "" {
		return nil, domain.NewValidationError("unit", "es obligatoria")
	}
	if err := validateAmounts(in.MinStock, in.PurchasePrice, in.SalePrice); err != nil {
		return nil, err
	}

	sku := in.SKU
	if sku == "" {
		generated, err := uc.nextSKU(ctx, in.Name)
		if err != nil {
			return nil, err
		}
		sku = generated
	} else {
		existing, err := uc.repo.GetBySKU(ctx, sku)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, fmt.Errorf("sku %s: %w", sku, domain.ErrDuplicate)
		}
	}

	now := time.Now().UTC()
	product := &entity.Product{
		ID:            uuid.New().String(),
		SKU:           sku,
		Name:          in.Name,
		CategoryID:    in.CategoryID,
		Unit:          strings.TrimSpace(in.Unit),
		MinStock:      in.MinStock,
		PurchasePrice: in.PurchasePrice,
		SalePrice:     in.SalePrice,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	out := dto.ToProductResponse(product)
	return &out, nil
}

// nextSKU arma PREFIJO-NNNN con el siguiente consecutivo libre.
func (uc *ProductUseCase) nextSKU(ctx context.Context, name string) (string, error) {
	prefix := catalog.SKUPrefix(name)
	n, err := uc.repo.CountBySKUPrefix(ctx, prefix+"-")
	if err != nil {
		return "", err
	}
	for i := 1; i <= skuAttempts; i++ {
		sku := catalog.GenerateSKU(name, n+i)
		existing, err := uc.repo.GetBySKU(ctx, sku)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return sku, nil
		}
	}
	return "", fmt.Errorf("no hay consecutivo libre para %s: %w", prefix, domain.ErrDuplicate)
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NewNotFound("product", id)
	}
	out := dto.ToProductResponse(product)
	return &out, nil
}

// Update actualiza los campos de catálogo. SKU y stock no se editan aquí.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NewNotFound("product", id)
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.NewValidationError("name", "no puede quedar vacío")
		}
		product.Name = name
	}
	if in.CategoryID != nil {
		product.CategoryID = *in.CategoryID
	}
	if in.Unit != nil {
		product.Unit = strings.TrimSpace(*in.Unit)
	}
	if in.MinStock != nil {
		product.MinStock = *in.MinStock
	}
	if in.PurchasePrice != nil {
		product.PurchasePrice = *in.PurchasePrice
	}
	if in.SalePrice != nil {
		product.SalePrice = *in.SalePrice
	}
	if err := validateAmounts(product.MinStock, product.PurchasePrice, product.SalePrice); err != nil {
		return nil, err
	}
	product.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	out := dto.ToProductResponse(product)
	return &out, nil
}

// List lista productos con búsqueda por nombre/SKU y paginación.
func (uc *ProductUseCase) List(ctx context.Context, search, categoryID string, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, repository.ProductQuery{
		Search:     strings.TrimSpace(search),
		CategoryID: categoryID,
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, dto.ToProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

func validateAmounts(minStock, purchasePrice, salePrice decimal.Decimal) error {
	switch {
	case minStock.IsNegative():
		return domain.NewValidationError("min_stock", "no puede ser negativo")
	case purchasePrice.IsNegative():
		return domain.NewValidationError("purchase_price", "no puede ser negativo")
	case salePrice.IsNegative():
		return domain.NewValidationError("sale_price", "no puede ser negativo")
	}
	if err := domain.CheckQuantityScale("min_stock", minStock); err != nil {
		return err
	}
	if err := domain.CheckMoneyScale("purchase_price", purchasePrice); err != nil {
		return err
	}
	return domain.CheckMoneyScale("sale_price", salePrice)
}
