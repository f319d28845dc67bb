package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/fishtrade-api/internal/domain/entity"
	"github.com/jhoicas/fishtrade-api/internal/domain/repository"
)

var (
	_ repository.CustomerRepository = (*CustomerRepo)(nil)
	_ repository.SupplierRepository = (*SupplierRepo)(nil)
)

type entityTimes struct {
	CreatedAt time.Time
	UpdatedAt time.Time
}

// contact columnas comunes de customers y suppliers.
type contact struct {
	ID, Name, Phone, Email, Address string
	entityTimes
}

const contactColumns = `id, name, phone, email, address, created_at, updated_at`

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

// Create persiste un nuevo cliente.
func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	return insertContact(ctx, r.q, "customers", contact{c.ID, c.Name, c.Phone, c.Email, c.Address, entityTimes{c.CreatedAt, c.UpdatedAt}})
}

// GetByID obtiene un cliente por ID; (nil, nil) si no existe.
func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	c, err := getContact(ctx, r.q, "customers", id)
	if err != nil || c == nil {
		return nil, err
	}
	out := entity.Customer{ID: c.ID, Name: c.Name, Phone: c.Phone, Email: c.Email, Address: c.Address, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
	return &out, nil
}

// List clientes por nombre.
func (r *CustomerRepo) List(ctx context.Context, limit, offset int) ([]*entity.Customer, error) {
	list, err := listContacts(ctx, r.q, "customers", limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Customer, 0, len(list))
	for _, c := range list {
		out = append(out, &entity.Customer{ID: c.ID, Name: c.Name, Phone: c.Phone, Email: c.Email, Address: c.Address, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt})
	}
	return out, nil
}

// SupplierRepo implementación de SupplierRepository (usable con pool o tx).
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

// Create persiste un nuevo proveedor.
func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	return insertContact(ctx, r.q, "suppliers", contact{s.ID, s.Name, s.Phone, s.Email, s.Address, entityTimes{s.CreatedAt, s.UpdatedAt}})
}

// GetByID obtiene un proveedor por ID; (nil, nil) si no existe.
func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	c, err := getContact(ctx, r.q, "suppliers", id)
	if err != nil || c == nil {
		return nil, err
	}
	out := entity.Supplier{ID: c.ID, Name: c.Name, Phone: c.Phone, Email: c.Email, Address: c.Address, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
	return &out, nil
}

// List proveedores por nombre.
func (r *SupplierRepo) List(ctx context.Context, limit, offset int) ([]*entity.Supplier, error) {
	list, err := listContacts(ctx, r.q, "suppliers", limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Supplier, 0, len(list))
	for _, c := range list {
		out = append(out, &entity.Supplier{ID: c.ID, Name: c.Name, Phone: c.Phone, Email: c.Email, Address: c.Address, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt})
	}
	return out, nil
}

// table siempre es una constante interna ("customers" o "suppliers").
func insertContact(ctx context.Context, q Querier, table string, c contact) error {
	_, err := q.Exec(ctx, `INSERT INTO `+table+` (`+contactColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.ID, c.Name, c.Phone, c.Email, c.Address, c.CreatedAt, c.UpdatedAt)
	return wrapErr("insert "+table, err)
}

func getContact(ctx context.Context, q Querier, table, id string) (*contact, error) {
	if !validID(id) {
		return nil, nil
	}
	c, err := scanContact(q.QueryRow(ctx, `SELECT `+contactColumns+` FROM `+table+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get "+table, err)
	}
	return &c, nil
}

func listContacts(ctx context.Context, q Querier, table string, limit, offset int) ([]contact, error) {
	rows, err := q.Query(ctx, `SELECT `+contactColumns+` FROM `+table+` ORDER BY name, id`+pageClause(limit, offset))
	if err != nil {
		return nil, wrapErr("list "+table, err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (contact, error) {
		return scanContact(row)
	})
	if err != nil {
		return nil, wrapErr("scan "+table, err)
	}
	return list, nil
}

func scanContact(row pgx.Row) (contact, error) {
	var c contact
	err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}
