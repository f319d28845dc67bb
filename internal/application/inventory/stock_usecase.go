package inventory

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/fishtrade-api/internal/domain"
	"github.com/jhoicas/fishtrade-api/internal/domain/entity"
)

// AdjustStockInput conteo físico: la cantidad nueva es absoluta.
type AdjustStockInput struct {
	ProductID   string
	NewQuantity decimal.Decimal
	Type        entity.LogType // adjustment (por defecto) o loss
	Note        string
	ActorID     string
}

// RecordLossInput merma: cantidad positiva que se descuenta.
type RecordLossInput struct {
	ProductID string
	Quantity  decimal.Decimal
	Reason    string
	ActorID   string
}

// StockUseCase operaciones manuales sobre el stock (bodega).
type StockUseCase struct {
	ledger *Ledger
	log    zerolog.Logger
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(ledger *Ledger, log zerolog.Logger) *StockUseCase {
	return &StockUseCase{ledger: ledger, log: log}
}

// AdjustStock fija la cantidad contada. Sin diferencia no se escribe nada.
func (uc *StockUseCase) AdjustStock(ctx context.Context, in AdjustStockInput) (*entity.InventoryRecord, error) {
	typ := in.Type
	if typ == "" {
		typ = entity.LogTypeAdjustment
	}
	if typ != entity.LogTypeAdjustment && typ != entity.LogTypeLoss {
		return nil, domain.NewValidationError("type", "solo se admite adjustment o loss")
	}
	mov, err := uc.ledger.SetAbsolute(ctx, in.ProductID, in.NewQuantity, typ, in.ActorID, in.Note)
	if err != nil {
		return nil, err
	}
	if mov.Entry != nil {
		uc.log.Info().
			Str("product_id", in.ProductID).
			Str("type", string(typ)).
			Str("before", mov.Before.String()).
			Str("after", mov.After.String()).
			Str("actor_id", in.ActorID).
			Msg("ajuste de stock registrado")
	}
	return mov.Record, nil
}

// RecordLoss descuenta una merma; falla con stock insuficiente si no alcanza.
func (uc *StockUseCase) RecordLoss(ctx context.Context, in RecordLossInput) (*entity.InventoryRecord, error) {
	if !in.Quantity.IsPositive() {
		return nil, domain.NewValidationError("quantity", "debe ser mayor que cero")
	}
	if err := domain.CheckQuantityScale("quantity", in.Quantity); err != nil {
		return nil, err
	}
	mov, err := uc.ledger.Adjust(ctx, AdjustInput{
		ProductID: in.ProductID,
		Delta:     in.Quantity.Neg(),
		Type:      entity.LogTypeLoss,
		ActorID:   in.ActorID,
		Note:      in.Reason,
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("product_id", in.ProductID).
		Str("lost", in.Quantity.String()).
		Str("after", mov.After.String()).
		Str("actor_id", in.ActorID).
		Msg("merma registrada")
	return mov.Record, nil
}
