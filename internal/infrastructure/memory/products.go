package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/fishtrade-api/internal/domain"
	"github.com/jhoicas/fishtrade-api/internal/domain/entity"
	"github.com/jhoicas/fishtrade-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*productRepo)(nil)

type productRepo struct{ v view }

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.products[p.ID]; ok {
			return fmt.Errorf("create product: %w", domain.ErrDuplicate)
		}
		for _, other := range st.products {
			if other.SKU == p.SKU {
				return fmt.Errorf("create product: sku %s: %w", p.SKU, domain.ErrDuplicate)
			}
		}
		st.products[p.ID] = *p
		return nil
	})
}

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.v.read(func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *productRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	var out *entity.Product
	err := r.v.read(func(st *state) error {
		for _, p := range st.products {
			if p.SKU == sku {
				p := p
				out = &p
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *productRepo) Update(_ context.Context, p *entity.Product) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.products[p.ID]; !ok {
			return domain.NewNotFound("product", p.ID)
		}
		for id, other := range st.products {
			if id != p.ID && other.SKU == p.SKU {
				return fmt.Errorf("update product: sku %s: %w", p.SKU, domain.ErrDuplicate)
			}
		}
		st.products[p.ID] = *p
		return nil
	})
}

func (r *productRepo) List(_ context.Context, q repository.ProductQuery) ([]*entity.Product, error) {
	var list []*entity.Product
	search := strings.ToLower(q.Search)
	err := r.v.read(func(st *state) error {
		for _, p := range st.products {
			if q.CategoryID != "" && p.CategoryID != q.CategoryID {
				continue
			}
			if search != "" && !strings.Contains(strings.ToLower(p.Name), search) &&
				!strings.Contains(strings.ToLower(p.SKU), search) {
				continue
			}
			p := p
			list = append(list, &p)
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return page(list, q.Limit, q.Offset), err
}

func (r *productRepo) CountBySKUPrefix(_ context.Context, prefix string) (int, error) {
	n := 0
	err := r.v.read(func(st *state) error {
		for _, p := range st.products {
			if strings.HasPrefix(p.SKU, prefix) {
				n++
			}
		}
		return nil
	})
	return n, err
}
