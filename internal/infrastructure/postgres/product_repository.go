package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/fishtrade-api/internal/domain"
	"github.com/jhoicas/fishtrade-api/internal/domain/entity"
	"github.com/jhoicas/fishtrade-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, sku, name, category_id, unit, min_stock, purchase_price, sale_price, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.ID, p.SKU, p.Name, p.CategoryID, p.Unit, p.MinStock, p.PurchasePrice, p.SalePrice, p.CreatedAt, p.UpdatedAt,
	)
	return wrapErr("insert product", err)
}

// GetByID obtiene un producto por ID; (nil, nil) si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, "get product", `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

// GetBySKU obtiene un producto por SKU; (nil, nil) si no existe.
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	return r.getOne(ctx, "get product by sku", `SELECT `+productColumns+` FROM products WHERE sku = $1`, sku)
}

func (r *ProductRepo) getOne(ctx context.Context, op, query string, arg any) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr(op, err)
	}
	return &p, nil
}

// Update actualiza los campos de catálogo. El stock vive en inventory_records.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE products
		SET sku = $2, name = $3, category_id = $4, unit = $5, min_stock = $6,
		    purchase_price = $7, sale_price = $8, updated_at = $9
		WHERE id = $1`,
		p.ID, p.SKU, p.Name, p.CategoryID, p.Unit, p.MinStock, p.PurchasePrice, p.SalePrice, p.UpdatedAt,
	)
	if err != nil {
		return wrapErr("update product", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("product", p.ID)
	}
	return nil
}

// List lista productos ordenados por nombre.
func (r *ProductRepo) List(ctx context.Context, q repository.ProductQuery) ([]*entity.Product, error) {
	var f filter
	if q.Search != "" {
		f.add(`(name ILIKE $%[1]d OR sku ILIKE $%[1]d)`, likePattern(q.Search))
	}
	if q.CategoryID != "" {
		f.add(`category_id = $%d`, q.CategoryID)
	}
	rows, err := r.q.Query(ctx, `SELECT `+productColumns+` FROM products`+f.where()+
		` ORDER BY name, id`+pageClause(q.Limit, q.Offset), f.args...)
	if err != nil {
		return nil, wrapErr("list products", err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.Product, error) {
		p, err := scanProduct(row)
		return &p, err
	})
	if err != nil {
		return nil, wrapErr("scan products", err)
	}
	return list, nil
}

// CountBySKUPrefix cuántos SKUs empiezan por prefix.
func (r *ProductRepo) CountBySKUPrefix(ctx context.Context, prefix string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE starts_with(sku, $1)`, prefix).Scan(&n)
	if err != nil {
		return 0, wrapErr("count sku prefix", err)
	}
	return n, nil
}

func scanProduct(row pgx.Row) (entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.CategoryID, &p.Unit, &p.MinStock,
		&p.PurchasePrice, &p.SalePrice, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}
