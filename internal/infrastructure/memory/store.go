// Package memory implementa todos los puertos de persistencia en memoria.
// Cada transacción trabaja sobre una copia del estado; Commit la publica y
// Rollback simplemente la descarta. Las transacciones se serializan con un mutex.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/fishtrade-api/internal/application/inventory"
	"github.com/jhoicas/fishtrade-api/internal/domain/entity"
	"github.com/jhoicas/fishtrade-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)

type state struct {
	products     map[string]entity.Product
	inventory    map[string]entity.InventoryRecord
	logs         []entity.InventoryLogEntry
	saleOrders   map[string]entity.SaleOrder
	importOrders map[string]entity.ImportOrder
	customers    map[string]entity.Customer
	suppliers    map[string]entity.Supplier
	users        map[string]entity.User
}

func newState() *state {
	return &state{
		products:     make(map[string]entity.Product),
		inventory:    make(map[string]entity.InventoryRecord),
		saleOrders:   make(map[string]entity.SaleOrder),
		importOrders: make(map[string]entity.ImportOrder),
		customers:    make(map[string]entity.Customer),
		suppliers:    make(map[string]entity.Supplier),
		users:        make(map[string]entity.User),
	}
}

// clone copia profunda; los ítems de los pedidos también se copian.
func (s *state) clone() *state {
	c := newState()
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.inventory {
		c.inventory[k] = v
	}
	c.logs = append(make([]entity.InventoryLogEntry, 0, len(s.logs)+8), s.logs...)
	for k, v := range s.saleOrders {
		c.saleOrders[k] = copySaleOrder(v)
	}
	for k, v := range s.importOrders {
		c.importOrders[k] = copyImportOrder(v)
	}
	for k, v := range s.customers {
		c.customers[k] = v
	}
	for k, v := range s.suppliers {
		c.suppliers[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	return c
}

// Store almacén en memoria. Se usa en tests y con STORE_DRIVER=memory.
type Store struct {
	txMu sync.Mutex   // serializa transacciones y escrituras sueltas
	mu   sync.RWMutex // protege el puntero st
	st   *state
}

// New crea un almacén vacío.
func New() *Store {
	return &Store{st: newState()}
}

// view acceso a un estado: el de una transacción en curso (tx) o el publicado.
type view struct {
	s  *Store
	tx *state
}

func (v view) read(fn func(st *state) error) error {
	if v.tx != nil {
		return fn(v.tx)
	}
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	return fn(v.s.st)
}

func (v view) write(fn func(st *state) error) error {
	if v.tx != nil {
		return fn(v.tx)
	}
	v.s.txMu.Lock()
	defer v.s.txMu.Unlock()
	work := v.s.st.clone()
	if err := fn(work); err != nil {
		return err
	}
	v.s.mu.Lock()
	v.s.st = work
	v.s.mu.Unlock()
	return nil
}

// Run ejecuta fn sobre una copia del estado y la publica solo si fn devuelve nil.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, r inventory.Repos) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	work := s.st.clone()
	s.mu.RUnlock()

	if err := fn(ctx, s.repos(view{s: s, tx: work})); err != nil {
		return err
	}
	s.mu.Lock()
	s.st = work
	s.mu.Unlock()
	return nil
}

// Repos repositorios fuera de transacción.
func (s *Store) Repos() inventory.Repos {
	return s.repos(view{s: s})
}

// Users repositorio de usuarios.
func (s *Store) Users() repository.UserRepository {
	return &userRepo{v: view{s: s}}
}

func (s *Store) repos(v view) inventory.Repos {
	return inventory.Repos{
		Products:     &productRepo{v: v},
		Inventory:    &inventoryRepo{v: v},
		Logs:         &logRepo{v: v},
		SaleOrders:   &saleOrderRepo{v: v},
		ImportOrders: &importOrderRepo{v: v},
		Customers:    &customerRepo{v: v},
		Suppliers:    &supplierRepo{v: v},
	}
}

func page[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return items[:0]
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
