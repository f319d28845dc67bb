package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/fishtrade-api/internal/domain"
	"github.com/jhoicas/fishtrade-api/internal/domain/entity"
	"github.com/jhoicas/fishtrade-api/internal/domain/repository"
)

// AdjustInput un cambio de stock sobre un producto.
type AdjustInput struct {
	ProductID string
	Delta     decimal.Decimal // con signo
	Type      entity.LogType
	Reference *entity.Reference
	ActorID   string
	Note      string
}

// Movement resultado de un ajuste. Entry es nil si no hubo cambio.
type Movement struct {
	Before decimal.Decimal
	After  decimal.Decimal
	Record *entity.InventoryRecord
	Entry  *entity.InventoryLogEntry
}

// Ledger dueño de la cantidad por producto y del kardex.
// Toda escritura bloquea la fila de inventory_records (SELECT FOR UPDATE) y
// añade exactamente una entrada al kardex en la misma transacción.
type Ledger struct {
	txRunner  TxRunner
	inventory repository.InventoryRepository
	now       func() time.Time
}

// NewLedger construye el ledger. inventory se usa solo para lecturas fuera de transacción.
func NewLedger(txRunner TxRunner, inventory repository.InventoryRepository) *Ledger {
	return &Ledger{txRunner: txRunner, inventory: inventory, now: time.Now}
}

// Get cantidad actual; 0 si el producto aún no tiene registro.
func (l *Ledger) Get(ctx context.Context, productID string) (decimal.Decimal, error) {
	rec, err := l.inventory.Get(ctx, productID)
	if err != nil {
		return decimal.Zero, err
	}
	if rec == nil {
		return decimal.Zero, nil
	}
	return rec.Quantity, nil
}

// Adjust aplica delta en su propia transacción.
func (l *Ledger) Adjust(ctx context.Context, in AdjustInput) (*Movement, error) {
	if err := validateAdjust(in); err != nil {
		return nil, err
	}
	var mov *Movement
	err := l.txRunner.Run(ctx, func(ctx context.Context, r Repos) error {
		var err error
		mov, err = l.AdjustInTx(ctx, r, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// AdjustInTx aplica delta usando los repositorios de la transacción del caller.
// Los pedidos lo usan para que todas sus líneas compartan una transacción.
func (l *Ledger) AdjustInTx(ctx context.Context, r Repos, in AdjustInput) (*Movement, error) {
	if err := validateAdjust(in); err != nil {
		return nil, err
	}
	if err := ensureProduct(ctx, r, in.ProductID); err != nil {
		return nil, err
	}
	rec, err := r.Inventory.GetForUpdate(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	return l.apply(ctx, r, rec, in)
}

// SetAbsolute fija la cantidad a newQuantity calculando el delta bajo el bloqueo.
// Si no hay diferencia no escribe nada y devuelve el registro actual.
func (l *Ledger) SetAbsolute(ctx context.Context, productID string, newQuantity decimal.Decimal, typ entity.LogType, actorID, note string) (*Movement, error) {
	if productID == "" {
		return nil, domain.NewValidationError("product_id", "es obligatorio")
	}
	if newQuantity.IsNegative() {
		return nil, domain.NewValidationError("quantity", "no puede ser negativa")
	}
	if err := domain.CheckQuantityScale("quantity", newQuantity); err != nil {
		return nil, err
	}
	if !typ.Valid() {
		return nil, domain.NewValidationError("type", "tipo de movimiento desconocido %q", typ)
	}
	var mov *Movement
	err := l.txRunner.Run(ctx, func(ctx context.Context, r Repos) error {
		if err := ensureProduct(ctx, r, productID); err != nil {
			return err
		}
		rec, err := r.Inventory.GetForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		delta := newQuantity.Sub(rec.Quantity)
		if delta.IsZero() {
			mov = &Movement{Before: rec.Quantity, After: rec.Quantity, Record: rec}
			return nil
		}
		mov, err = l.apply(ctx, r, rec, AdjustInput{
			ProductID: productID,
			Delta:     delta,
			Type:      typ,
			ActorID:   actorID,
			Note:      note,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// apply asume la fila ya bloqueada.
func (l *Ledger) apply(ctx context.Context, r Repos, rec *entity.InventoryRecord, in AdjustInput) (*Movement, error) {
	before := rec.Quantity
	after := before.Add(in.Delta)
	if after.IsNegative() {
		return nil, &domain.InsufficientStockError{
			ProductID: in.ProductID,
			Available: before,
			Requested: in.Delta.Neg(),
		}
	}
	now := l.now()
	rec.Quantity = after
	rec.LastUpdated = now
	if err := r.Inventory.Save(ctx, rec); err != nil {
		return nil, err
	}
	entry := &entity.InventoryLogEntry{
		ID:             uuid.New().String(),
		ProductID:      in.ProductID,
		Type:           in.Type,
		QuantityChange: in.Delta,
		QuantityBefore: before,
		QuantityAfter:  after,
		Note:           in.Note,
		ActorID:        in.ActorID,
		CreatedAt:      now,
	}
	if in.Reference != nil {
		entry.ReferenceType = in.Reference.Type
		entry.ReferenceID = in.Reference.ID
	}
	if err := r.Logs.Append(ctx, entry); err != nil {
		return nil, err
	}
	return &Movement{Before: before, After: after, Record: rec, Entry: entry}, nil
}

func validateAdjust(in AdjustInput) error {
	if in.ProductID == "" {
		return domain.NewValidationError("product_id", "es obligatorio")
	}
	if in.Delta.IsZero() {
		return domain.NewValidationError("quantity", "el cambio no puede ser cero")
	}
	if err := domain.CheckQuantityScale("quantity", in.Delta); err != nil {
		return err
	}
	if !in.Type.Valid() {
		return domain.NewValidationError("type", "tipo de movimiento desconocido %q", in.Type)
	}
	return nil
}

func ensureProduct(ctx context.Context, r Repos, productID string) error {
	p, err := r.Products.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.NewNotFound("product", productID)
	}
	return nil
}
