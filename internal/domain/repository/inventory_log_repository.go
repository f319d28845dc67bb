package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/fishtrade-api/internal/domain/entity"
)

// LogQuery filtros tipados sobre el kardex. Campos vacíos/nil no filtran.
type LogQuery struct {
	ProductID     string
	Type          entity.LogType
	ReferenceType string
	ReferenceID   string
	From          *time.Time // inclusive
	To            *time.Time // inclusive
	Limit         int        // 0 = sin límite
	Offset        int
}

// LedgerBalance agregado del kardex de un producto (para conciliación).
type LedgerBalance struct {
	ProductID  string
	SumChanges decimal.Decimal
	LastAfter  decimal.Decimal
	EntryCount int
	StoredQty  decimal.Decimal
	HasRecord  bool
}

// InventoryLogRepository puerto del kardex append-only. No expone Update ni Delete.
type InventoryLogRepository interface {
	Append(ctx context.Context, entry *entity.InventoryLogEntry) error
	// List devuelve las entradas ordenadas por fecha descendente.
	List(ctx context.Context, q LogQuery) ([]*entity.InventoryLogEntry, error)
	// Balances agrega el kardex por producto junto al stock guardado.
	Balances(ctx context.Context) ([]LedgerBalance, error)
}
