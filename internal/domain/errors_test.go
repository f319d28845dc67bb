package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fishtrade-api/internal/domain"
)

func TestInsufficientStockError_MensajeYSentinel(t *testing.T) {
	err := &domain.InsufficientStockError{
		ProductID: "p-1",
		Available: decimal.NewFromInt(3),
		Requested: decimal.NewFromInt(7),
	}
	assert.Contains(t, err.Error(), "disponible 3, solicitado 7")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	wrapped := fmt.Errorf("crear pedido: %w", err)
	var target *domain.InsufficientStockError
	require.True(t, errors.As(wrapped, &target))
	assert.Equal(t, "p-1", target.ProductID)
}

func TestErroresTipados_UnwrapASentinel(t *testing.T) {
	assert.ErrorIs(t, &domain.InvalidTransitionError{Entity: "sale_order", From: "cancelled", To: "cancelled"}, domain.ErrInvalidTransition)
	assert.ErrorIs(t, domain.NewValidationError("items", "vacío"), domain.ErrInvalidInput)
	assert.ErrorIs(t, domain.NewNotFound("product", "x"), domain.ErrNotFound)
	assert.NotErrorIs(t, domain.NewNotFound("product", "x"), domain.ErrInvalidInput)
}

func TestValidationError_SinCampo(t *testing.T) {
	err := &domain.ValidationError{Message: "pedido sin ítems"}
	assert.Equal(t, "pedido sin ítems", err.Error())
}
