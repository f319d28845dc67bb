package sales

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/fishtrade-api/internal/domain"
	"github.com/jhoicas/fishtrade-api/internal/domain/entity"
	"github.com/jhoicas/fishtrade-api/internal/domain/repository"
)

// ReceiptLine línea del comprobante con los datos de catálogo ya resueltos.
type ReceiptLine struct {
	SKU         string
	ProductName string
	Unit        string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Total       decimal.Decimal
}

// ReceiptData todo lo que necesita el generador; Customer es nil para venta de mostrador.
type ReceiptData struct {
	Order    *entity.SaleOrder
	Customer *entity.Customer
	Lines    []ReceiptLine
}

// ReceiptGenerator puerto del render del comprobante (PDF).
type ReceiptGenerator interface {
	GenerateReceipt(ctx context.Context, data ReceiptData) ([]byte, error)
}

// ReceiptUseCase arma el comprobante de un pedido de venta.
type ReceiptUseCase struct {
	orders    repository.SaleOrderRepository
	products  repository.ProductRepository
	customers repository.CustomerRepository
	generator ReceiptGenerator
}

// NewReceiptUseCase construye el caso de uso inyectando todas sus dependencias.
func NewReceiptUseCase(
	orders repository.SaleOrderRepository,
	products repository.ProductRepository,
	customers repository.CustomerRepository,
	generator ReceiptGenerator,
) *ReceiptUseCase {
	return &ReceiptUseCase{orders: orders, products: products, customers: customers, generator: generator}
}

// Download devuelve el PDF y el nombre de archivo sugerido.
// Un pedido cancelado no tiene comprobante (ErrInvalidInput).
func (uc *ReceiptUseCase) Download(ctx context.Context, orderID string) ([]byte, string, error) {
	order, err := uc.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, "", err
	}
	if order == nil {
		return nil, "", domain.NewNotFound(entityName, orderID)
	}
	if order.Status == entity.SaleStatusCancelled {
		return nil, "", domain.NewValidationError("status", "el pedido %s está cancelado", order.OrderNumber)
	}

	data := ReceiptData{Order: order}
	if order.CustomerID != "" {
		c, err := uc.customers.GetByID(ctx, order.CustomerID)
		if err != nil {
			return nil, "", fmt.Errorf("receipt: obtener cliente: %w", err)
		}
		data.Customer = c
	}
	for _, it := range order.Items {
		line := ReceiptLine{Quantity: it.Quantity, UnitPrice: it.UnitPrice, Total: it.TotalPrice, ProductName: it.ProductID}
		p, err := uc.products.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, "", fmt.Errorf("receipt: obtener producto: %w", err)
		}
		if p != nil {
			line.SKU, line.ProductName, line.Unit = p.SKU, p.Name, p.Unit
		}
		data.Lines = append(data.Lines, line)
	}

	pdf, err := uc.generator.GenerateReceipt(ctx, data)
	if err != nil {
		return nil, "", err
	}
	return pdf, order.OrderNumber + ".pdf", nil
}
