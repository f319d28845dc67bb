package purchasing

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/fishtrade-api/internal/application/inventory"
	"github.com/jhoicas/fishtrade-api/internal/domain"
	"github.com/jhoicas/fishtrade-api/internal/domain/entity"
	"github.com/jhoicas/fishtrade-api/internal/domain/repository"
)

const entityName = "import_order"

// transitions delivered y cancelled son terminales.
var transitions = map[entity.ImportStatus][]entity.ImportStatus{
	entity.ImportStatusPending:   {entity.ImportStatusConfirmed, entity.ImportStatusDelivered, entity.ImportStatusCancelled},
	entity.ImportStatusConfirmed: {entity.ImportStatusDelivered, entity.ImportStatusCancelled},
}

// CanTransition indica si from → to está permitido.
func CanTransition(from, to entity.ImportStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ItemInput línea de compra.
type ItemInput struct {
	ProductID string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// CreateInput datos de una orden de importación.
type CreateInput struct {
	SupplierID   string
	Notes        string
	ExpectedDate *time.Time
	Items        []ItemInput
}

// FieldsInput campos editables mientras la orden no esté entregada; nil = sin cambio.
type FieldsInput struct {
	SupplierID   *string
	Notes        *string
	ExpectedDate *time.Time
}

// StateMachine ciclo de vida de la orden de importación. Solo la entrega mueve stock.
type StateMachine struct {
	txRunner inventory.TxRunner
	ledger   *inventory.Ledger
	orders   repository.ImportOrderRepository
	log      zerolog.Logger
	now      func() time.Time
}

// NewStateMachine construye la máquina de estados.
func NewStateMachine(txRunner inventory.TxRunner, ledger *inventory.Ledger, orders repository.ImportOrderRepository, log zerolog.Logger) *StateMachine {
	return &StateMachine{txRunner: txRunner, ledger: ledger, orders: orders, log: log, now: time.Now}
}

// Create registra la orden en pending; no afecta el stock.
// Cada línea recibe el lote LOT-<número de orden>-<línea>.
func (sm *StateMachine) Create(ctx context.Context, in CreateInput, actorID string) (*entity.ImportOrder, error) {
	if len(in.Items) == 0 {
		return nil, domain.NewValidationError("items", "la orden debe tener al menos un ítem")
	}
	for i, it := range in.Items {
		field := fmt.Sprintf("items[%d]", i)
		if it.ProductID == "" {
			return nil, domain.NewValidationError(field+".product_id", "es obligatorio")
		}
		if !it.Quantity.IsPositive() {
			return nil, domain.NewValidationError(field+".quantity", "debe ser mayor que cero")
		}
		if err := domain.CheckQuantityScale(field+".quantity", it.Quantity); err != nil {
			return nil, err
		}
		if it.UnitPrice.IsNegative() {
			return nil, domain.NewValidationError(field+".unit_price", "no puede ser negativo")
		}
		if err := domain.CheckMoneyScale(field+".unit_price", it.UnitPrice); err != nil {
			return nil, err
		}
	}

	now := sm.now()
	order := &entity.ImportOrder{
		ID:           uuid.New().String(),
		OrderNumber:  entity.NewOrderNumber(entity.ImportOrderPrefix, now),
		SupplierID:   in.SupplierID,
		Status:       entity.ImportStatusPending,
		Notes:        in.Notes,
		ExpectedDate: in.ExpectedDate,
		CreatedBy:    actorID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	total := decimal.Zero
	for i, it := range in.Items {
		line := entity.ImportOrderItem{
			ID:         uuid.New().String(),
			OrderID:    order.ID,
			ProductID:  it.ProductID,
			BatchID:    BatchID(order.OrderNumber, i+1),
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			TotalPrice: domain.RoundMoney(it.Quantity.Mul(it.UnitPrice)),
		}
		total = total.Add(line.TotalPrice)
		order.Items = append(order.Items, line)
	}
	order.TotalAmount = total

	err := sm.txRunner.Run(ctx, func(ctx context.Context, r inventory.Repos) error {
		if err := ensureSupplier(ctx, r, in.SupplierID); err != nil {
			return err
		}
		for _, it := range order.Items {
			p, err := r.Products.GetByID(ctx, it.ProductID)
			if err != nil {
				return err
			}
			if p == nil {
				return domain.NewNotFound("product", it.ProductID)
			}
		}
		return r.ImportOrders.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	sm.log.Info().Str("order_id", order.ID).Str("order_number", order.OrderNumber).Int("items", len(order.Items)).Msg("orden de importación creada")
	return order, nil
}

// UpdateStatus aplica la tabla de transiciones. La entrega suma cada línea al
// stock (tipo import) y fija delivery_date; no puede aplicarse dos veces.
func (sm *StateMachine) UpdateStatus(ctx context.Context, orderID string, to entity.ImportStatus, actorID string) (*entity.ImportOrder, error) {
	if !to.Valid() {
		return nil, domain.NewValidationError("status", "estado desconocido %q", to)
	}
	var (
		order *entity.ImportOrder
		from  entity.ImportStatus
	)
	err := sm.txRunner.Run(ctx, func(ctx context.Context, r inventory.Repos) error {
		var err error
		order, err = lockOrder(ctx, r, orderID)
		if err != nil {
			return err
		}
		from = order.Status
		if !CanTransition(from, to) {
			return &domain.InvalidTransitionError{Entity: entityName, ID: orderID, From: string(from), To: string(to)}
		}
		now := sm.now()
		if to == entity.ImportStatusDelivered {
			return sm.deliver(ctx, r, order, actorID, now)
		}
		order.Status = to
		order.UpdatedAt = now
		return r.ImportOrders.Update(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	sm.log.Info().
		Str("order_id", orderID).
		Str("from", string(from)).
		Str("to", string(to)).
		Str("actor_id", actorID).
		Msg("estado de orden de importación actualizado")
	return order, nil
}

// deliver marca la orden primero (update condicional) y luego mueve el stock,
// así una segunda entrega concurrente no suma nada.
func (sm *StateMachine) deliver(ctx context.Context, r inventory.Repos, order *entity.ImportOrder, actorID string, now time.Time) error {
	changed, err := r.ImportOrders.MarkDelivered(ctx, order.ID, now)
	if err != nil {
		return err
	}
	if !changed {
		return &domain.InvalidTransitionError{Entity: entityName, ID: order.ID, From: string(entity.ImportStatusDelivered), To: string(entity.ImportStatusDelivered)}
	}
	ref := &entity.Reference{Type: entity.ReferenceImportOrder, ID: order.ID}
	items := append([]entity.ImportOrderItem(nil), order.Items...)
	sort.SliceStable(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })
	for _, it := range items {
		if _, err := sm.ledger.AdjustInTx(ctx, r, inventory.AdjustInput{
			ProductID: it.ProductID,
			Delta:     it.Quantity,
			Type:      entity.LogTypeImport,
			Reference: ref,
			ActorID:   actorID,
			Note:      it.BatchID,
		}); err != nil {
			return err
		}
	}
	order.Status = entity.ImportStatusDelivered
	order.DeliveryDate = &now
	order.UpdatedAt = now
	return nil
}

// UpdateFields edita proveedor, notas y fecha esperada de una orden no entregada.
func (sm *StateMachine) UpdateFields(ctx context.Context, orderID string, in FieldsInput) (*entity.ImportOrder, error) {
	var order *entity.ImportOrder
	err := sm.txRunner.Run(ctx, func(ctx context.Context, r inventory.Repos) error {
		var err error
		order, err = lockOrder(ctx, r, orderID)
		if err != nil {
			return err
		}
		if order.Status == entity.ImportStatusDelivered {
			return &domain.InvalidTransitionError{Entity: entityName, ID: orderID, From: string(order.Status), To: "edit"}
		}
		if in.SupplierID != nil {
			if err := ensureSupplier(ctx, r, *in.SupplierID); err != nil {
				return err
			}
			order.SupplierID = *in.SupplierID
		}
		if in.Notes != nil {
			order.Notes = *in.Notes
		}
		if in.ExpectedDate != nil {
			order.ExpectedDate = in.ExpectedDate
		}
		order.UpdatedAt = sm.now()
		return r.ImportOrders.Update(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Delete solo mientras la orden está pending.
func (sm *StateMachine) Delete(ctx context.Context, orderID, actorID string) error {
	err := sm.txRunner.Run(ctx, func(ctx context.Context, r inventory.Repos) error {
		order, err := lockOrder(ctx, r, orderID)
		if err != nil {
			return err
		}
		if order.Status != entity.ImportStatusPending {
			return &domain.InvalidTransitionError{Entity: entityName, ID: orderID, From: string(order.Status), To: "deleted"}
		}
		return r.ImportOrders.Delete(ctx, orderID)
	})
	if err != nil {
		return err
	}
	sm.log.Info().Str("order_id", orderID).Str("actor_id", actorID).Msg("orden de importación eliminada")
	return nil
}

// Get orden con sus ítems.
func (sm *StateMachine) Get(ctx context.Context, orderID string) (*entity.ImportOrder, error) {
	order, err := sm.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.NewNotFound(entityName, orderID)
	}
	return order, nil
}

// List órdenes según filtros.
func (sm *StateMachine) List(ctx context.Context, q repository.ImportOrderQuery) ([]*entity.ImportOrder, error) {
	if q.Status != "" && !q.Status.Valid() {
		return nil, domain.NewValidationError("status", "estado desconocido %q", q.Status)
	}
	return sm.orders.List(ctx, q)
}

// BatchID identificador de lote de una línea.
func BatchID(orderNumber string, line int) string {
	return fmt.Sprintf("LOT-%s-%d", orderNumber, line)
}

func lockOrder(ctx context.Context, r inventory.Repos, orderID string) (*entity.ImportOrder, error) {
	order, err := r.ImportOrders.GetForUpdate(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.NewNotFound(entityName, orderID)
	}
	return order, nil
}

func ensureSupplier(ctx context.Context, r inventory.Repos, supplierID string) error {
	if supplierID == "" {
		return nil
	}
	s, err := r.Suppliers.GetByID(ctx, supplierID)
	if err != nil {
		return err
	}
	if s == nil {
		return domain.NewNotFound("supplier", supplierID)
	}
	return nil
}
