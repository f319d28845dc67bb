package purchasing_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fishtrade-api/internal/application/inventory"
	"github.com/jhoicas/fishtrade-api/internal/application/purchasing"
	"github.com/jhoicas/fishtrade-api/internal/domain"
	"github.com/jhoicas/fishtrade-api/internal/domain/entity"
	"github.com/jhoicas/fishtrade-api/internal/domain/repository"
	"github.com/jhoicas/fishtrade-api/internal/infrastructure/memory"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func setup(t *testing.T) (*memory.Store, *inventory.Ledger, *purchasing.StateMachine) {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	for _, id := range []string{"A", "B"} {
		require.NoError(t, store.Repos().Products.Create(ctx, &entity.Product{ID: id, SKU: "SKU-" + id, Name: id}))
	}
	require.NoError(t, store.Repos().Suppliers.Create(ctx, &entity.Supplier{ID: "s1", Name: "Vựa cá Cần Thơ"}))
	ledger := inventory.NewLedger(store, store.Repos().Inventory)
	return store, ledger, purchasing.NewStateMachine(store, ledger, store.Repos().ImportOrders, zerolog.Nop())
}

func TestCreate_PendingConLotesYSinStock(t *testing.T) {
	_, ledger, sm := setup(t)
	ctx := context.Background()

	order, err := sm.Create(ctx, purchasing.CreateInput{
		SupplierID: "s1",
		Items: []purchasing.ItemInput{
			{ProductID: "A", Quantity: dec(20), UnitPrice: dec(50)},
			{ProductID: "B", Quantity: dec(5), UnitPrice: dec(30)},
		},
	}, "u1")
	require.NoError(t, err)
	assert.Equal(t, entity.ImportStatusPending, order.Status)
	assert.True(t, order.TotalAmount.Equal(dec(1150)))
	assert.Equal(t, "LOT-"+order.OrderNumber+"-1", order.Items[0].BatchID)
	assert.Equal(t, "LOT-"+order.OrderNumber+"-2", order.Items[1].BatchID)

	qty, err := ledger.Get(ctx, "A")
	require.NoError(t, err)
	assert.True(t, qty.IsZero())
}

func TestCreate_Validaciones(t *testing.T) {
	_, _, sm := setup(t)
	ctx := context.Background()

	_, err := sm.Create(ctx, purchasing.CreateInput{}, "u1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = sm.Create(ctx, purchasing.CreateInput{Items: []purchasing.ItemInput{{ProductID: "A", Quantity: dec(-1)}}}, "u1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = sm.Create(ctx, purchasing.CreateInput{SupplierID: "nope", Items: []purchasing.ItemInput{{ProductID: "A", Quantity: dec(1)}}}, "u1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = sm.Create(ctx, purchasing.CreateInput{Items: []purchasing.ItemInput{{ProductID: "Z", Quantity: dec(1)}}}, "u1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEscenarioB_EntregaSumaStockYFijaFecha(t *testing.T) {
	store, ledger, sm := setup(t)
	ctx := context.Background()
	order, err := sm.Create(ctx, purchasing.CreateInput{Items: []purchasing.ItemInput{{ProductID: "A", Quantity: dec(20), UnitPrice: dec(50)}}}, "u1")
	require.NoError(t, err)

	_, err = sm.UpdateStatus(ctx, order.ID, entity.ImportStatusConfirmed, "u1")
	require.NoError(t, err)
	delivered, err := sm.UpdateStatus(ctx, order.ID, entity.ImportStatusDelivered, "u2")
	require.NoError(t, err)
	assert.Equal(t, entity.ImportStatusDelivered, delivered.Status)
	require.NotNil(t, delivered.DeliveryDate)

	qty, err := ledger.Get(ctx, "A")
	require.NoError(t, err)
	assert.True(t, qty.Equal(dec(20)))

	entries, err := store.Repos().Logs.List(ctx, repository.LogQuery{ReferenceID: order.ID})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.LogTypeImport, entries[0].Type)
	assert.True(t, entries[0].QuantityChange.Equal(dec(20)))

	stored, err := sm.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ImportStatusDelivered, stored.Status)
	assert.NotNil(t, stored.DeliveryDate)
}

func TestEntrega_SoloUnaVez(t *testing.T) {
	_, ledger, sm := setup(t)
	ctx := context.Background()
	order, err := sm.Create(ctx, purchasing.CreateInput{Items: []purchasing.ItemInput{{ProductID: "A", Quantity: dec(20)}}}, "u1")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = sm.UpdateStatus(ctx, order.ID, entity.ImportStatusDelivered, "u1")
		}()
	}
	wg.Wait()

	_, err = sm.UpdateStatus(ctx, order.ID, entity.ImportStatusDelivered, "u1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	qty, err := ledger.Get(ctx, "A")
	require.NoError(t, err)
	assert.True(t, qty.Equal(dec(20)))
}

func TestUpdateStatus_Transiciones(t *testing.T) {
	assert.True(t, purchasing.CanTransition(entity.ImportStatusPending, entity.ImportStatusDelivered))
	assert.False(t, purchasing.CanTransition(entity.ImportStatusCancelled, entity.ImportStatusPending))
	assert.False(t, purchasing.CanTransition(entity.ImportStatusDelivered, entity.ImportStatusCancelled))

	_, ledger, sm := setup(t)
	ctx := context.Background()
	order, err := sm.Create(ctx, purchasing.CreateInput{Items: []purchasing.ItemInput{{ProductID: "A", Quantity: dec(3)}}}, "u1")
	require.NoError(t, err)
	_, err = sm.UpdateStatus(ctx, order.ID, entity.ImportStatusCancelled, "u1")
	require.NoError(t, err)
	_, err = sm.UpdateStatus(ctx, order.ID, entity.ImportStatusDelivered, "u1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	qty, err := ledger.Get(ctx, "A")
	require.NoError(t, err)
	assert.True(t, qty.IsZero())
}

func TestUpdateFieldsYDelete(t *testing.T) {
	_, _, sm := setup(t)
	ctx := context.Background()
	order, err := sm.Create(ctx, purchasing.CreateInput{Items: []purchasing.ItemInput{{ProductID: "A", Quantity: dec(3)}}}, "u1")
	require.NoError(t, err)

	supplier, notes := "s1", "hàng về thứ hai"
	expected := time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)
	got, err := sm.UpdateFields(ctx, order.ID, purchasing.FieldsInput{SupplierID: &supplier, Notes: &notes, ExpectedDate: &expected})
	require.NoError(t, err)
	assert.Equal(t, "s1", got.SupplierID)
	assert.Equal(t, notes, got.Notes)
	require.NotNil(t, got.ExpectedDate)

	_, err = sm.UpdateStatus(ctx, order.ID, entity.ImportStatusConfirmed, "u1")
	require.NoError(t, err)
	err = sm.Delete(ctx, order.ID, "u1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = sm.UpdateStatus(ctx, order.ID, entity.ImportStatusDelivered, "u1")
	require.NoError(t, err)
	_, err = sm.UpdateFields(ctx, order.ID, purchasing.FieldsInput{Notes: &notes})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	pending, err := sm.Create(ctx, purchasing.CreateInput{Items: []purchasing.ItemInput{{ProductID: "B", Quantity: dec(1)}}}, "u1")
	require.NoError(t, err)
	require.NoError(t, sm.Delete(ctx, pending.ID, "u1"))
	_, err = sm.Get(ctx, pending.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreate_EscalaDecimal(t *testing.T) {
	store, _, sm := setup(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		item  purchasing.ItemInput
		field string
	}{
		{"cantidad con 4 decimales", purchasing.ItemInput{ProductID: "A", Quantity: decimal.RequireFromString("20.0004"), UnitPrice: dec(50)}, "items[0].quantity"},
		{"precio con 3 decimales", purchasing.ItemInput{ProductID: "A", Quantity: dec(20), UnitPrice: decimal.RequireFromString("50.125")}, "items[0].unit_price"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := sm.Create(ctx, purchasing.CreateInput{Items: []purchasing.ItemInput{tc.item}}, "u1")
			var vErr *domain.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tc.field, vErr.Field)
		})
	}
	orders, err := store.Repos().ImportOrders.List(ctx, repository.ImportOrderQuery{})
	require.NoError(t, err)
	assert.Empty(t, orders)

	// 12.345 kg × 50000.55 = 617256.789... → 617256.79
	order, err := sm.Create(ctx, purchasing.CreateInput{Items: []purchasing.ItemInput{
		{ProductID: "A", Quantity: decimal.RequireFromString("12.345"), UnitPrice: decimal.RequireFromString("50000.55")},
	}}, "u1")
	require.NoError(t, err)
	assert.Equal(t, "617256.79", order.Items[0].TotalPrice.StringFixed(2))
	assert.True(t, order.TotalAmount.Equal(order.Items[0].TotalPrice))
}
