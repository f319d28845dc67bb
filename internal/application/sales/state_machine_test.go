package sales_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fishtrade-api/internal/application/inventory"
	"github.com/jhoicas/fishtrade-api/internal/application/sales"
	"github.com/jhoicas/fishtrade-api/internal/domain"
	"github.com/jhoicas/fishtrade-api/internal/domain/entity"
	domaininv "github.com/jhoicas/fishtrade-api/internal/domain/inventory"
	"github.com/jhoicas/fishtrade-api/internal/domain/repository"
	"github.com/jhoicas/fishtrade-api/internal/infrastructure/memory"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

type fixture struct {
	store  *memory.Store
	ledger *inventory.Ledger
	sm     *sales.StateMachine
}

// newFixture crea productos con el stock inicial indicado (min_stock 5, precio 100).
func newFixture(t *testing.T, stock map[string]int64) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	ledger := inventory.NewLedger(store, store.Repos().Inventory)
	for id, qty := range stock {
		require.NoError(t, store.Repos().Products.Create(ctx, &entity.Product{
			ID: id, SKU: "SKU-" + id, Name: id, MinStock: dec(5), SalePrice: dec(100), PurchasePrice: dec(60),
		}))
		if qty > 0 {
			_, err := ledger.Adjust(ctx, inventory.AdjustInput{ProductID: id, Delta: dec(qty), Type: entity.LogTypeImport})
			require.NoError(t, err)
		}
	}
	require.NoError(t, store.Repos().Customers.Create(ctx, &entity.Customer{ID: "c1", Name: "Chị Lan"}))
	return &fixture{
		store:  store,
		ledger: ledger,
		sm:     sales.NewStateMachine(store, ledger, store.Repos().SaleOrders, zerolog.Nop()),
	}
}

func (f *fixture) qty(t *testing.T, productID string) decimal.Decimal {
	t.Helper()
	q, err := f.ledger.Get(context.Background(), productID)
	require.NoError(t, err)
	return q
}

func (f *fixture) logs(t *testing.T, q repository.LogQuery) []*entity.InventoryLogEntry {
	t.Helper()
	entries, err := f.store.Repos().Logs.List(context.Background(), q)
	require.NoError(t, err)
	return entries
}

func (f *fixture) assertReconciled(t *testing.T) {
	t.Helper()
	balances, err := f.store.Repos().Logs.Balances(context.Background())
	require.NoError(t, err)
	assert.Empty(t, domaininv.Reconcile(balances))
}

func item(productID string, qty int64) sales.ItemInput {
	return sales.ItemInput{ProductID: productID, Quantity: dec(qty)}
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenarios de negocio
// ──────────────────────────────────────────────────────────────────────────────

func TestEscenarioA_VentaDejaStockBajoYRechazaSegundoPedido(t *testing.T) {
	f := newFixture(t, map[string]int64{"P": 10})
	ctx := context.Background()

	order, err := f.sm.Create(ctx, sales.CreateInput{Items: []sales.ItemInput{item("P", 7)}}, "u1")
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusPending, order.Status)
	assert.True(t, f.qty(t, "P").Equal(dec(3)))
	assert.Equal(t, "Low Stock", domaininv.StatusFor(f.qty(t, "P"), dec(5)).Label())

	_, err = f.sm.Create(ctx, sales.CreateInput{Items: []sales.ItemInput{item("P", 5)}}, "u1")
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "P", insufficient.ProductID)
	assert.True(t, insufficient.Available.Equal(dec(3)))
	assert.True(t, insufficient.Requested.Equal(dec(5)))
	assert.True(t, f.qty(t, "P").Equal(dec(3)))

	orders, err := f.sm.List(ctx, repository.SaleOrderQuery{})
	require.NoError(t, err)
	assert.Len(t, orders, 1)
	f.assertReconciled(t)
}

func TestEscenarioC_CancelarDevuelveStock(t *testing.T) {
	f := newFixture(t, map[string]int64{"P": 10})
	ctx := context.Background()
	order, err := f.sm.Create(ctx, sales.CreateInput{Items: []sales.ItemInput{item("P", 7)}}, "u1")
	require.NoError(t, err)

	cancelled, err := f.sm.Cancel(ctx, order.ID, "u2")
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusCancelled, cancelled.Status)
	assert.True(t, f.qty(t, "P").Equal(dec(10)))

	adjustments := f.logs(t, repository.LogQuery{ReferenceID: order.ID, Type: entity.LogTypeAdjustment})
	require.Len(t, adjustments, 1)
	assert.True(t, adjustments[0].QuantityChange.Equal(dec(7)))
	assert.Equal(t, sales.NoteCancelled, adjustments[0].Note)
	assert.Equal(t, "u2", adjustments[0].ActorID)

	_, err = f.sm.Cancel(ctx, order.ID, "u2")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.True(t, f.qty(t, "P").Equal(dec(10)))
	f.assertReconciled(t)
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_AtomicoSiUnaLineaNoAlcanza(t *testing.T) {
	f := newFixture(t, map[string]int64{"A": 10, "B": 2})
	ctx := context.Background()

	_, err := f.sm.Create(ctx, sales.CreateInput{Items: []sales.ItemInput{item("A", 4), item("B", 3)}}, "u1")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.True(t, f.qty(t, "A").Equal(dec(10)))
	assert.True(t, f.qty(t, "B").Equal(dec(2)))
	assert.Empty(t, f.logs(t, repository.LogQuery{Type: entity.LogTypeSale}))
	orders, err := f.sm.List(ctx, repository.SaleOrderQuery{})
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestCreate_IdsRepetidosSeSuman(t *testing.T) {
	f := newFixture(t, map[string]int64{"A": 5})
	_, err := f.sm.Create(context.Background(), sales.CreateInput{Items: []sales.ItemInput{item("A", 3), item("A", 3)}}, "u1")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, f.qty(t, "A").Equal(dec(5)))
}

func TestCreate_TotalesYUnaEntradaPorLinea(t *testing.T) {
	f := newFixture(t, map[string]int64{"A": 10, "B": 10})
	price := dec(80)
	order, err := f.sm.Create(context.Background(), sales.CreateInput{
		CustomerID: "c1",
		Status:     entity.SaleStatusProcessing,
		Discount:   dec(50),
		Items:      []sales.ItemInput{item("A", 2), {ProductID: "B", Quantity: dec(3), UnitPrice: &price}},
	}, "u1")
	require.NoError(t, err)

	assert.Equal(t, entity.SaleStatusProcessing, order.Status)
	assert.True(t, order.Subtotal.Equal(dec(440)), order.Subtotal.String())
	assert.True(t, order.Total.Equal(dec(390)))
	assert.Contains(t, order.OrderNumber, "SO-")
	assert.Len(t, f.logs(t, repository.LogQuery{ReferenceID: order.ID, Type: entity.LogTypeSale}), 2)
	f.assertReconciled(t)
}

func TestCreate_Validaciones(t *testing.T) {
	f := newFixture(t, map[string]int64{"A": 10})
	ctx := context.Background()

	cases := []struct {
		name string
		in   sales.CreateInput
		want error
	}{
		{"sin ítems", sales.CreateInput{}, domain.ErrInvalidInput},
		{"cantidad cero", sales.CreateInput{Items: []sales.ItemInput{item("A", 0)}}, domain.ErrInvalidInput},
		{"creado cancelado", sales.CreateInput{Status: entity.SaleStatusCancelled, Items: []sales.ItemInput{item("A", 1)}}, domain.ErrInvalidInput},
		{"descuento mayor al subtotal", sales.CreateInput{Discount: dec(1000), Items: []sales.ItemInput{item("A", 1)}}, domain.ErrInvalidInput},
		{"descuento negativo", sales.CreateInput{Discount: dec(-1), Items: []sales.ItemInput{item("A", 1)}}, domain.ErrInvalidInput},
		{"cliente inexistente", sales.CreateInput{CustomerID: "nope", Items: []sales.ItemInput{item("A", 1)}}, domain.ErrNotFound},
		{"producto inexistente", sales.CreateInput{Items: []sales.ItemInput{item("Z", 1)}}, domain.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.sm.Create(ctx, tc.in, "u1")
			assert.ErrorIs(t, err, tc.want)
		})
	}
	assert.True(t, f.qty(t, "A").Equal(dec(10)))
}

// ──────────────────────────────────────────────────────────────────────────────
// UpdateStatus
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateStatus_TablaDeTransiciones(t *testing.T) {
	assert.True(t, sales.CanTransition(entity.SaleStatusPending, entity.SaleStatusCompleted))
	assert.True(t, sales.CanTransition(entity.SaleStatusCompleted, entity.SaleStatusCancelled))
	assert.True(t, sales.CanTransition(entity.SaleStatusCancelled, entity.SaleStatusPending))
	assert.False(t, sales.CanTransition(entity.SaleStatusCompleted, entity.SaleStatusPending))
	assert.False(t, sales.CanTransition(entity.SaleStatusProcessing, entity.SaleStatusPending))
	assert.False(t, sales.CanTransition(entity.SaleStatusCancelled, entity.SaleStatusCancelled))
}

func TestUpdateStatus_CambioPuroNoTocaStock(t *testing.T) {
	f := newFixture(t, map[string]int64{"A": 10})
	ctx := context.Background()
	order, err := f.sm.Create(ctx, sales.CreateInput{Items: []sales.ItemInput{item("A", 4)}}, "u1")
	require.NoError(t, err)

	_, err = f.sm.UpdateStatus(ctx, order.ID, entity.SaleStatusProcessing, "u1")
	require.NoError(t, err)
	got, err := f.sm.UpdateStatus(ctx, order.ID, entity.SaleStatusCompleted, "u1")
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusCompleted, got.Status)
	assert.True(t, f.qty(t, "A").Equal(dec(6)))

	_, err = f.sm.UpdateStatus(ctx, order.ID, entity.SaleStatusPending, "u1")
	var invalid *domain.InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "completed", invalid.From)
	assert.Equal(t, "pending", invalid.To)

	_, err = f.sm.UpdateStatus(ctx, order.ID, "shipped", "u1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateStatus_ReactivarVuelveADescontar(t *testing.T) {
	f := newFixture(t, map[string]int64{"A": 10})
	ctx := context.Background()
	order, err := f.sm.Create(ctx, sales.CreateInput{Items: []sales.ItemInput{item("A", 6)}}, "u1")
	require.NoError(t, err)
	_, err = f.sm.Cancel(ctx, order.ID, "u1")
	require.NoError(t, err)

	got, err := f.sm.UpdateStatus(ctx, order.ID, entity.SaleStatusProcessing, "u1")
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusProcessing, got.Status)
	assert.True(t, f.qty(t, "A").Equal(dec(4)))
	f.assertReconciled(t)
}

func TestUpdateStatus_ReactivarSinStockDejaCancelado(t *testing.T) {
	f := newFixture(t, map[string]int64{"A": 10})
	ctx := context.Background()
	first, err := f.sm.Create(ctx, sales.CreateInput{Items: []sales.ItemInput{item("A", 6)}}, "u1")
	require.NoError(t, err)
	_, err = f.sm.Cancel(ctx, first.ID, "u1")
	require.NoError(t, err)
	_, err = f.sm.Create(ctx, sales.CreateInput{Items: []sales.ItemInput{item("A", 8)}}, "u1")
	require.NoError(t, err)

	_, err = f.sm.UpdateStatus(ctx, first.ID, entity.SaleStatusPending, "u1")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	got, err := f.sm.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusCancelled, got.Status)
	assert.True(t, f.qty(t, "A").Equal(dec(2)))
	f.assertReconciled(t)
}

func TestUpdateStatus_PedidoInexistente(t *testing.T) {
	f := newFixture(t, map[string]int64{"A": 1})
	_, err := f.sm.UpdateStatus(context.Background(), "nope", entity.SaleStatusCompleted, "u1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Edición, borrado y campos
// ──────────────────────────────────────────────────────────────────────────────

func TestReplaceItems_ConciliaDiferenciaNeta(t *testing.T) {
	f := newFixture(t, map[string]int64{"A": 10, "B": 10, "C": 10})
	ctx := context.Background()
	order, err := f.sm.Create(ctx, sales.CreateInput{Items: []sales.ItemInput{item("A", 5), item("B", 2)}}, "u1")
	require.NoError(t, err)

	got, err := f.sm.ReplaceItems(ctx, order.ID, []sales.ItemInput{item("A", 3), item("C", 4)}, "u1")
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.True(t, got.Subtotal.Equal(dec(700)))

	assert.True(t, f.qty(t, "A").Equal(dec(7)))
	assert.True(t, f.qty(t, "B").Equal(dec(10)))
	assert.True(t, f.qty(t, "C").Equal(dec(6)))
	f.assertReconciled(t)

	stored, err := f.sm.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Items, 2)
}

func TestReplaceItems_SinStockNoCambiaNada(t *testing.T) {
	f := newFixture(t, map[string]int64{"A": 10})
	ctx := context.Background()
	order, err := f.sm.Create(ctx, sales.CreateInput{Items: []sales.ItemInput{item("A", 5)}}, "u1")
	require.NoError(t, err)

	_, err = f.sm.ReplaceItems(ctx, order.ID, []sales.ItemInput{item("A", 11)}, "u1")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, f.qty(t, "A").Equal(dec(5)))
}

func TestReplaceItems_PedidoCompletadoRechazado(t *testing.T) {
	f := newFixture(t, map[string]int64{"A": 10})
	ctx := context.Background()
	order, err := f.sm.Create(ctx, sales.CreateInput{Status: entity.SaleStatusCompleted, Items: []sales.ItemInput{item("A", 1)}}, "u1")
	require.NoError(t, err)
	_, err = f.sm.ReplaceItems(ctx, order.ID, []sales.ItemInput{item("A", 2)}, "u1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestDelete_SoloPendingYDevuelveStock(t *testing.T) {
	f := newFixture(t, map[string]int64{"A": 10})
	ctx := context.Background()
	pending, err := f.sm.Create(ctx, sales.CreateInput{Items: []sales.ItemInput{item("A", 3)}}, "u1")
	require.NoError(t, err)
	processing, err := f.sm.Create(ctx, sales.CreateInput{Status: entity.SaleStatusProcessing, Items: []sales.ItemInput{item("A", 2)}}, "u1")
	require.NoError(t, err)

	require.NoError(t, f.sm.Delete(ctx, pending.ID, "u1"))
	assert.True(t, f.qty(t, "A").Equal(dec(8)))
	_, err = f.sm.Get(ctx, pending.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = f.sm.Delete(ctx, processing.ID, "u1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	f.assertReconciled(t)
}

func TestUpdateFields_SoloMetadatos(t *testing.T) {
	f := newFixture(t, map[string]int64{"A": 10})
	ctx := context.Background()
	order, err := f.sm.Create(ctx, sales.CreateInput{Items: []sales.ItemInput{item("A", 3)}}, "u1")
	require.NoError(t, err)

	customer, notes := "c1", "giao buổi sáng"
	got, err := f.sm.UpdateFields(ctx, order.ID, sales.FieldsInput{CustomerID: &customer, Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, "c1", got.CustomerID)
	assert.Equal(t, notes, got.Notes)
	assert.True(t, f.qty(t, "A").Equal(dec(7)))

	bad := "nope"
	_, err = f.sm.UpdateFields(ctx, order.ID, sales.FieldsInput{CustomerID: &bad})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_ConcurrenteNuncaStockNegativo(t *testing.T) {
	f := newFixture(t, map[string]int64{"A": 10, "B": 10})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			items := []sales.ItemInput{item("A", 1), item("B", 1)}
			if i%2 == 0 {
				items = []sales.ItemInput{item("B", 1), item("A", 1)}
			}
			_, _ = f.sm.Create(ctx, sales.CreateInput{Items: items}, "u1")
		}(i)
	}
	wg.Wait()

	assert.True(t, f.qty(t, "A").IsZero())
	assert.True(t, f.qty(t, "B").IsZero())
	orders, err := f.sm.List(ctx, repository.SaleOrderQuery{})
	require.NoError(t, err)
	assert.Len(t, orders, 10)
	f.assertReconciled(t)
}

func TestCancel_ConcurrenteSoloUnaVez(t *testing.T) {
	f := newFixture(t, map[string]int64{"A": 10})
	ctx := context.Background()
	order, err := f.sm.Create(ctx, sales.CreateInput{Items: []sales.ItemInput{item("A", 4)}}, "u1")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = f.sm.Cancel(ctx, order.ID, "u1")
		}()
	}
	wg.Wait()

	assert.True(t, f.qty(t, "A").Equal(dec(10)))
	assert.Len(t, f.logs(t, repository.LogQuery{ReferenceID: order.ID, Type: entity.LogTypeAdjustment}), 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Escala decimal
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_RechazaDecimalesQueNoSeGuardan(t *testing.T) {
	f := newFixture(t, map[string]int64{"A": 10})
	ctx := context.Background()
	price := decimal.RequireFromString("100.005")

	cases := []struct {
		name  string
		in    sales.CreateInput
		field string
	}{
		{"cantidad con 4 decimales", sales.CreateInput{Items: []sales.ItemInput{{ProductID: "A", Quantity: decimal.RequireFromString("1.0004")}}}, "items[0].quantity"},
		{"cantidad que redondea distinto", sales.CreateInput{Items: []sales.ItemInput{{ProductID: "A", Quantity: decimal.RequireFromString("1.0005")}}}, "items[0].quantity"},
		{"precio con 3 decimales", sales.CreateInput{Items: []sales.ItemInput{{ProductID: "A", Quantity: dec(1), UnitPrice: &price}}}, "items[0].unit_price"},
		{"descuento con 3 decimales", sales.CreateInput{Discount: decimal.RequireFromString("0.001"), Items: []sales.ItemInput{item("A", 1)}}, "discount"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.sm.Create(ctx, tc.in, "u1")
			var vErr *domain.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tc.field, vErr.Field)
		})
	}
	assert.True(t, f.qty(t, "A").Equal(dec(10)))
	assert.Empty(t, f.logs(t, repository.LogQuery{Type: entity.LogTypeSale}))
}

func TestCreate_TotalDeLineaRedondeadoAPesos(t *testing.T) {
	f := newFixture(t, map[string]int64{"A": 10})
	price := decimal.RequireFromString("85000.55")
	order, err := f.sm.Create(context.Background(), sales.CreateInput{
		Items: []sales.ItemInput{{ProductID: "A", Quantity: decimal.RequireFromString("1.005"), UnitPrice: &price}},
	}, "u1")
	require.NoError(t, err)

	require.Len(t, order.Items, 1)
	assert.Equal(t, "85425.55", order.Items[0].TotalPrice.StringFixed(2))
	assert.True(t, order.Items[0].TotalPrice.Equal(order.Items[0].TotalPrice.Round(2)))
	assert.True(t, order.Subtotal.Equal(order.Items[0].TotalPrice))
	assert.True(t, f.qty(t, "A").Equal(decimal.RequireFromString("8.995")))
	f.assertReconciled(t)
}

func TestReplaceItems_RechazaDecimalesQueNoSeGuardan(t *testing.T) {
	f := newFixture(t, map[string]int64{"A": 10})
	ctx := context.Background()
	order, err := f.sm.Create(ctx, sales.CreateInput{Items: []sales.ItemInput{item("A", 2)}}, "u1")
	require.NoError(t, err)

	_, err = f.sm.ReplaceItems(ctx, order.ID, []sales.ItemInput{{ProductID: "A", Quantity: decimal.RequireFromString("3.0001")}}, "u1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.True(t, f.qty(t, "A").Equal(dec(8)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios intervenidos dentro de la transacción
// ──────────────────────────────────────────────────────────────────────────────

// hookedRunner corre sobre el store en memoria y deja reemplazar repositorios de la transacción.
type hookedRunner struct {
	store *memory.Store
	wrap  func(r inventory.Repos) inventory.Repos
}

func (h hookedRunner) Run(ctx context.Context, fn func(ctx context.Context, r inventory.Repos) error) error {
	return h.store.Run(ctx, func(ctx context.Context, r inventory.Repos) error {
		return fn(ctx, h.wrap(r))
	})
}

// lockRecorder anota cada producto bloqueado.
type lockRecorder struct {
	repository.InventoryRepository
	locked *[]string
}

func (l lockRecorder) GetForUpdate(ctx context.Context, productID string) (*entity.InventoryRecord, error) {
	*l.locked = append(*l.locked, productID)
	return l.InventoryRepository.GetForUpdate(ctx, productID)
}

// failingOrders falla al guardar el pedido, después de que el ledger ya escribió.
type failingOrders struct {
	repository.SaleOrderRepository
	inv  repository.InventoryRepository
	seen map[string]decimal.Decimal
}

func (f failingOrders) Create(ctx context.Context, order *entity.SaleOrder) error {
	return f.fail(ctx, order)
}

func (f failingOrders) Update(ctx context.Context, order *entity.SaleOrder) error {
	return f.fail(ctx, order)
}

func (f failingOrders) fail(ctx context.Context, order *entity.SaleOrder) error {
	for _, it := range order.Items {
		rec, err := f.inv.Get(ctx, it.ProductID)
		if err != nil {
			return err
		}
		f.seen[it.ProductID] = rec.Quantity
	}
	return fmt.Errorf("guardar pedido %s: %w", order.ID, domain.ErrPersistence)
}

func firstSeen(ids []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func TestReplaceItems_BloqueaEnOrdenAscendente(t *testing.T) {
	f := newFixture(t, map[string]int64{"A": 10, "B": 10})
	ctx := context.Background()
	order, err := f.sm.Create(ctx, sales.CreateInput{Items: []sales.ItemInput{item("A", 5), item("B", 1)}}, "u1")
	require.NoError(t, err)

	var locked []string
	runner := hookedRunner{store: f.store, wrap: func(r inventory.Repos) inventory.Repos {
		r.Inventory = lockRecorder{InventoryRepository: r.Inventory, locked: &locked}
		return r
	}}
	sm := sales.NewStateMachine(runner, f.ledger, f.store.Repos().SaleOrders, zerolog.Nop())

	// A baja y B sube: B no puede bloquearse antes que A
	_, err = sm.ReplaceItems(ctx, order.ID, []sales.ItemInput{item("A", 2), item("B", 4)}, "u1")
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, firstSeen(locked))
	assert.True(t, f.qty(t, "A").Equal(dec(8)))
	assert.True(t, f.qty(t, "B").Equal(dec(6)))
	f.assertReconciled(t)
}

func TestCreate_FalloAlGuardarRevierteDescuentos(t *testing.T) {
	f := newFixture(t, map[string]int64{"A": 10, "B": 10})
	ctx := context.Background()
	logsBefore := len(f.logs(t, repository.LogQuery{}))

	seen := make(map[string]decimal.Decimal)
	runner := hookedRunner{store: f.store, wrap: func(r inventory.Repos) inventory.Repos {
		r.SaleOrders = failingOrders{SaleOrderRepository: r.SaleOrders, inv: r.Inventory, seen: seen}
		return r
	}}
	sm := sales.NewStateMachine(runner, f.ledger, f.store.Repos().SaleOrders, zerolog.Nop())

	_, err := sm.Create(ctx, sales.CreateInput{Items: []sales.ItemInput{item("A", 7), item("B", 2)}}, "u1")
	require.ErrorIs(t, err, domain.ErrPersistence)

	// dentro de la transacción los descuentos ya estaban aplicados
	assert.True(t, seen["A"].Equal(dec(3)), seen["A"].String())
	assert.True(t, seen["B"].Equal(dec(8)), seen["B"].String())

	assert.True(t, f.qty(t, "A").Equal(dec(10)))
	assert.True(t, f.qty(t, "B").Equal(dec(10)))
	assert.Len(t, f.logs(t, repository.LogQuery{}), logsBefore)
	orders, err := f.sm.List(ctx, repository.SaleOrderQuery{})
	require.NoError(t, err)
	assert.Empty(t, orders)
	f.assertReconciled(t)
}

func TestCancel_FalloAlGuardarMantieneStockDescontado(t *testing.T) {
	f := newFixture(t, map[string]int64{"A": 10})
	ctx := context.Background()
	order, err := f.sm.Create(ctx, sales.CreateInput{Items: []sales.ItemInput{item("A", 7)}}, "u1")
	require.NoError(t, err)

	seen := make(map[string]decimal.Decimal)
	runner := hookedRunner{store: f.store, wrap: func(r inventory.Repos) inventory.Repos {
		r.SaleOrders = failingOrders{SaleOrderRepository: r.SaleOrders, inv: r.Inventory, seen: seen}
		return r
	}}
	sm := sales.NewStateMachine(runner, f.ledger, f.store.Repos().SaleOrders, zerolog.Nop())

	_, err = sm.Cancel(ctx, order.ID, "u1")
	require.ErrorIs(t, err, domain.ErrPersistence)
	assert.True(t, seen["A"].Equal(dec(10)))

	assert.True(t, f.qty(t, "A").Equal(dec(3)))
	assert.Empty(t, f.logs(t, repository.LogQuery{Type: entity.LogTypeAdjustment}))
	stored, err := f.sm.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusPending, stored.Status)
	f.assertReconciled(t)
}
