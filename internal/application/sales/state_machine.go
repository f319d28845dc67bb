package sales

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

const entityName = "sale_order"

// Notas del kardex para movimientos originados por pedidos.
const (
	NoteCancelled   = "pedido cancelado"
	NoteDeleted     = "pedido eliminado"
	NoteReactivated = "pedido reactivado"
	NoteEdited      = "pedido editado"
)

// ItemInput línea pedida. UnitPrice nil toma el precio de venta del producto.
type ItemInput struct {
	ProductID string
	Quantity  decimal.Decimal
	UnitPrice *decimal.Decimal
}

// CreateInput datos para crear un pedido. Status vacío = pending.
type CreateInput struct {
	CustomerID string
	Status     entity.SaleStatus
	Discount   decimal.Decimal
	Notes      string
	Items      []ItemInput
}

// FieldsInput campos de cabecera editables; nil = sin cambio.
type FieldsInput struct {
	CustomerID *string
	Notes      *string
}

// StateMachine ciclo de vida del pedido de venta. Cada operación corre en una
// sola transacción: cabecera, ítems y movimientos del kardex se confirman juntos.
type StateMachine struct {
	txRunner  inventory.TxRunner
	ledger    *inventory.Ledger
	validator inventory.StockValidator
	orders    repository.SaleOrderRepository
	log       zerolog.Logger
	now       func() time.Time
}

// NewStateMachine construye la máquina de estados. orders se usa para lecturas fuera de transacción.
func NewStateMachine(txRunner inventory.TxRunner, ledger *inventory.Ledger, orders repository.SaleOrderRepository, log zerolog.Logger) *StateMachine {
	return &StateMachine{
		txRunner: txRunner,
		ledger:   ledger,
		orders:   orders,
		log:      log,
		now:      time.Now,
	}
}

// Create valida, descuenta stock por cada línea y guarda el pedido. Todo o nada.
func (sm *StateMachine) Create(ctx context.Context, in CreateInput, actorID string) (*entity.SaleOrder, error) {
	status := in.Status
	if status == "" {
		status = entity.SaleStatusPending
	}
	if !status.Valid() {
		return nil, domain.NewValidationError("status", "estado desconocido %q", status)
	}
	if status == entity.SaleStatusCancelled {
		return nil, domain.NewValidationError("status", "un pedido no puede crearse cancelado")
	}
	if in.Discount.IsNegative() {
		return nil, domain.NewValidationError("discount", "no puede ser negativo")
	}
	if err := domain.CheckMoneyScale("discount", in.Discount); err != nil {
		return nil, err
	}
	if err := validateItems(in.Items); err != nil {
		return nil, err
	}

	now := sm.now()
	order := &entity.SaleOrder{
		ID:          uuid.New().String(),
		OrderNumber: entity.NewOrderNumber(entity.SaleOrderPrefix, now),
		CustomerID:  in.CustomerID,
		Status:      status,
		Discount:    in.Discount,
		Notes:       in.Notes,
		CreatedBy:   actorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := sm.txRunner.Run(ctx, func(ctx context.Context, r inventory.Repos) error {
		if err := ensureCustomer(ctx, r, in.CustomerID); err != nil {
			return err
		}
		items, err := buildItems(ctx, r, order.ID, in.Items)
		if err != nil {
			return err
		}
		order.Items = items
		if err := applyTotals(order); err != nil {
			return err
		}
		if err := sm.deduct(ctx, r, order, actorID, ""); err != nil {
			return err
		}
		return r.SaleOrders.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	sm.log.Info().
		Str("order_id", order.ID).
		Str("order_number", order.OrderNumber).
		Int("items", len(order.Items)).
		Str("total", order.Total.String()).
		Str("actor_id", actorID).
		Msg("pedido de venta creado")
	return order, nil
}

// Cancel devuelve al stock todas las líneas y deja el pedido cancelado.
func (sm *StateMachine) Cancel(ctx context.Context, orderID, actorID string) (*entity.SaleOrder, error) {
	return sm.UpdateStatus(ctx, orderID, entity.SaleStatusCancelled, actorID)
}

// UpdateStatus aplica la tabla de transiciones. Hacia cancelled restaura stock;
// desde cancelled vuelve a validar y descontar como en Create.
func (sm *StateMachine) UpdateStatus(ctx context.Context, orderID string, to entity.SaleStatus, actorID string) (*entity.SaleOrder, error) {
	if !to.Valid() {
		return nil, domain.NewValidationError("status", "estado desconocido %q", to)
	}
	var (
		order *entity.SaleOrder
		from  entity.SaleStatus
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
		switch {
		case to == entity.SaleStatusCancelled:
			if err := sm.restore(ctx, r, order, actorID, NoteCancelled); err != nil {
				return err
			}
		case from == entity.SaleStatusCancelled:
			if err := sm.deduct(ctx, r, order, actorID, NoteReactivated); err != nil {
				return err
			}
		}
		order.Status = to
		order.UpdatedAt = sm.now()
		return r.SaleOrders.Update(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	sm.log.Info().
		Str("order_id", orderID).
		Str("from", string(from)).
		Str("to", string(to)).
		Str("actor_id", actorID).
		Msg("estado de pedido de venta actualizado")
	return order, nil
}

// UpdateFields edita cliente y notas; no toca el stock.
func (sm *StateMachine) UpdateFields(ctx context.Context, orderID string, in FieldsInput) (*entity.SaleOrder, error) {
	var order *entity.SaleOrder
	err := sm.txRunner.Run(ctx, func(ctx context.Context, r inventory.Repos) error {
		var err error
		order, err = lockOrder(ctx, r, orderID)
		if err != nil {
			return err
		}
		if in.CustomerID != nil {
			if err := ensureCustomer(ctx, r, *in.CustomerID); err != nil {
				return err
			}
			order.CustomerID = *in.CustomerID
		}
		if in.Notes != nil {
			order.Notes = *in.Notes
		}
		order.UpdatedAt = sm.now()
		return r.SaleOrders.Update(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// ReplaceItems reemplaza el conjunto de líneas de un pedido pending o processing.
// El stock se concilia por la diferencia neta de cada producto.
func (sm *StateMachine) ReplaceItems(ctx context.Context, orderID string, items []ItemInput, actorID string) (*entity.SaleOrder, error) {
	if err := validateItems(items); err != nil {
		return nil, err
	}
	var order *entity.SaleOrder
	err := sm.txRunner.Run(ctx, func(ctx context.Context, r inventory.Repos) error {
		var err error
		order, err = lockOrder(ctx, r, orderID)
		if err != nil {
			return err
		}
		if order.Status != entity.SaleStatusPending && order.Status != entity.SaleStatusProcessing {
			return &domain.InvalidTransitionError{Entity: entityName, ID: orderID, From: string(order.Status), To: "edit_items"}
		}
		newItems, err := buildItems(ctx, r, order.ID, items)
		if err != nil {
			return err
		}

		diff := quantities(newItems)
		for pid, qty := range quantities(order.Items) {
			diff[pid] = diff[pid].Sub(qty)
		}
		// Todas las filas afectadas, suban o bajen, se bloquean en orden ascendente
		// antes de validar; el mismo orden que usa Create.
		keys := sortedKeys(diff)
		for _, pid := range keys {
			d := diff[pid]
			if d.IsZero() {
				continue
			}
			rec, err := r.Inventory.GetForUpdate(ctx, pid)
			if err != nil {
				return err
			}
			if d.IsPositive() && rec.Quantity.LessThan(d) {
				return &domain.InsufficientStockError{ProductID: pid, Available: rec.Quantity, Requested: d}
			}
		}
		ref := &entity.Reference{Type: entity.ReferenceSaleOrder, ID: order.ID}
		for _, pid := range keys {
			d := diff[pid]
			in := inventory.AdjustInput{ProductID: pid, Reference: ref, ActorID: actorID, Note: NoteEdited}
			switch {
			case d.IsPositive():
				in.Delta, in.Type = d.Neg(), entity.LogTypeSale
			case d.IsNegative():
				in.Delta, in.Type = d.Neg(), entity.LogTypeAdjustment
			default:
				continue
			}
			if _, err := sm.ledger.AdjustInTx(ctx, r, in); err != nil {
				return err
			}
		}

		order.Items = newItems
		if err := applyTotals(order); err != nil {
			return err
		}
		order.UpdatedAt = sm.now()
		if err := r.SaleOrders.ReplaceItems(ctx, order.ID, newItems); err != nil {
			return err
		}
		return r.SaleOrders.Update(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	sm.log.Info().Str("order_id", orderID).Int("items", len(order.Items)).Str("actor_id", actorID).Msg("ítems de pedido de venta reemplazados")
	return order, nil
}

// Delete borra un pedido pending devolviendo su stock en la misma transacción.
func (sm *StateMachine) Delete(ctx context.Context, orderID, actorID string) error {
	err := sm.txRunner.Run(ctx, func(ctx context.Context, r inventory.Repos) error {
		order, err := lockOrder(ctx, r, orderID)
		if err != nil {
			return err
		}
		if order.Status != entity.SaleStatusPending {
			return &domain.InvalidTransitionError{Entity: entityName, ID: orderID, From: string(order.Status), To: "deleted"}
		}
		if err := sm.restore(ctx, r, order, actorID, NoteDeleted); err != nil {
			return err
		}
		return r.SaleOrders.Delete(ctx, orderID)
	})
	if err != nil {
		return err
	}
	sm.log.Info().Str("order_id", orderID).Str("actor_id", actorID).Msg("pedido de venta eliminado")
	return nil
}

// Get pedido con sus ítems.
func (sm *StateMachine) Get(ctx context.Context, orderID string) (*entity.SaleOrder, error) {
	order, err := sm.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.NewNotFound(entityName, orderID)
	}
	return order, nil
}

// List pedidos según filtros.
func (sm *StateMachine) List(ctx context.Context, q repository.SaleOrderQuery) ([]*entity.SaleOrder, error) {
	if q.Status != "" && !q.Status.Valid() {
		return nil, domain.NewValidationError("status", "estado desconocido %q", q.Status)
	}
	return sm.orders.List(ctx, q)
}

// deduct valida disponibilidad de todo el pedido y descuenta cada línea (tipo sale).
func (sm *StateMachine) deduct(ctx context.Context, r inventory.Repos, order *entity.SaleOrder, actorID, note string) error {
	reqs := make([]inventory.StockRequest, 0, len(order.Items))
	for _, it := range order.Items {
		reqs = append(reqs, inventory.StockRequest{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	if err := sm.validator.EnsureAvailable(ctx, r.Inventory, reqs); err != nil {
		return err
	}
	ref := &entity.Reference{Type: entity.ReferenceSaleOrder, ID: order.ID}
	for _, it := range byProduct(order.Items) {
		if _, err := sm.ledger.AdjustInTx(ctx, r, inventory.AdjustInput{
			ProductID: it.ProductID,
			Delta:     it.Quantity.Neg(),
			Type:      entity.LogTypeSale,
			Reference: ref,
			ActorID:   actorID,
			Note:      note,
		}); err != nil {
			return err
		}
	}
	return nil
}

// restore devuelve cada línea al stock (tipo adjustment).
func (sm *StateMachine) restore(ctx context.Context, r inventory.Repos, order *entity.SaleOrder, actorID, note string) error {
	ref := &entity.Reference{Type: entity.ReferenceSaleOrder, ID: order.ID}
	for _, it := range byProduct(order.Items) {
		if _, err := sm.ledger.AdjustInTx(ctx, r, inventory.AdjustInput{
			ProductID: it.ProductID,
			Delta:     it.Quantity,
			Type:      entity.LogTypeAdjustment,
			Reference: ref,
			ActorID:   actorID,
			Note:      note,
		}); err != nil {
			return err
		}
	}
	return nil
}

func lockOrder(ctx context.Context, r inventory.Repos, orderID string) (*entity.SaleOrder, error) {
	order, err := r.SaleOrders.GetForUpdate(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.NewNotFound(entityName, orderID)
	}
	return order, nil
}

func ensureCustomer(ctx context.Context, r inventory.Repos, customerID string) error {
	if customerID == "" {
		return nil
	}
	c, err := r.Customers.GetByID(ctx, customerID)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.NewNotFound("customer", customerID)
	}
	return nil
}

func validateItems(items []ItemInput) error {
	if len(items) == 0 {
		return domain.NewValidationError("items", "el pedido debe tener al menos un ítem")
	}
	for i, it := range items {
		field := fmt.Sprintf("items[%d]", i)
		if it.ProductID == "" {
			return domain.NewValidationError(field+".product_id", "es obligatorio")
		}
		if !it.Quantity.IsPositive() {
			return domain.NewValidationError(field+".quantity", "debe ser mayor que cero")
		}
		if err := domain.CheckQuantityScale(field+".quantity", it.Quantity); err != nil {
			return err
		}
		if it.UnitPrice != nil {
			if it.UnitPrice.IsNegative() {
				return domain.NewValidationError(field+".unit_price", "no puede ser negativo")
			}
			if err := domain.CheckMoneyScale(field+".unit_price", *it.UnitPrice); err != nil {
				return err
			}
		}
	}
	return nil
}

// buildItems carga los productos y arma las líneas con su total.
func buildItems(ctx context.Context, r inventory.Repos, orderID string, in []ItemInput) ([]entity.SaleOrderItem, error) {
	items := make([]entity.SaleOrderItem, 0, len(in))
	for _, it := range in {
		p, err := r.Products.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, domain.NewNotFound("product", it.ProductID)
		}
		price := p.SalePrice
		if it.UnitPrice != nil {
			price = *it.UnitPrice
		}
		items = append(items, entity.SaleOrderItem{
			ID:         uuid.New().String(),
			OrderID:    orderID,
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			UnitPrice:  price,
			TotalPrice: domain.RoundMoney(it.Quantity.Mul(price)),
		})
	}
	return items, nil
}

// applyTotals recalcula subtotal y total; el descuento no puede superar el subtotal.
func applyTotals(order *entity.SaleOrder) error {
	subtotal := decimal.Zero
	for _, it := range order.Items {
		subtotal = subtotal.Add(it.TotalPrice)
	}
	if order.Discount.GreaterThan(subtotal) {
		return domain.NewValidationError("discount", "el descuento (%s) supera el subtotal (%s)", order.Discount, subtotal)
	}
	order.Subtotal = subtotal
	order.Total = subtotal.Sub(order.Discount)
	return nil
}

func quantities(items []entity.SaleOrderItem) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(items))
	for _, it := range items {
		out[it.ProductID] = out[it.ProductID].Add(it.Quantity)
	}
	return out
}

// byProduct copia de las líneas ordenada por producto (orden de bloqueo).
func byProduct(items []entity.SaleOrderItem) []entity.SaleOrderItem {
	out := append([]entity.SaleOrderItem(nil), items...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

func sortedKeys(m map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
