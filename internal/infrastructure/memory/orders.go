package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/fishtrade-api/internal/domain"
	"github.com/jhoicas/fishtrade-api/internal/domain/entity"
	"github.com/jhoicas/fishtrade-api/internal/domain/repository"
)

var (
	_ repository.SaleOrderRepository   = (*saleOrderRepo)(nil)
	_ repository.ImportOrderRepository = (*importOrderRepo)(nil)
)

func copySaleOrder(o entity.SaleOrder) entity.SaleOrder {
	o.Items = append([]entity.SaleOrderItem(nil), o.Items...)
	return o
}

func copyImportOrder(o entity.ImportOrder) entity.ImportOrder {
	o.Items = append([]entity.ImportOrderItem(nil), o.Items...)
	if o.ExpectedDate != nil {
		t := *o.ExpectedDate
		o.ExpectedDate = &t
	}
	if o.DeliveryDate != nil {
		t := *o.DeliveryDate
		o.DeliveryDate = &t
	}
	return o
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}

type saleOrderRepo struct{ v view }

func (r *saleOrderRepo) Create(_ context.Context, o *entity.SaleOrder) error {
	return r.v.write(func(st *state) error {
		for _, other := range st.saleOrders {
			if other.ID == o.ID || other.OrderNumber == o.OrderNumber {
				return fmt.Errorf("create sale order: %w", domain.ErrDuplicate)
			}
		}
		st.saleOrders[o.ID] = copySaleOrder(*o)
		return nil
	})
}

func (r *saleOrderRepo) GetByID(_ context.Context, id string) (*entity.SaleOrder, error) {
	var out *entity.SaleOrder
	err := r.v.read(func(st *state) error {
		if o, ok := st.saleOrders[id]; ok {
			c := copySaleOrder(o)
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *saleOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.SaleOrder, error) {
	return r.GetByID(ctx, id)
}

// Update solo toca la cabecera; los ítems se cambian con ReplaceItems.
func (r *saleOrderRepo) Update(_ context.Context, o *entity.SaleOrder) error {
	return r.v.write(func(st *state) error {
		cur, ok := st.saleOrders[o.ID]
		if !ok {
			return domain.NewNotFound("sale_order", o.ID)
		}
		items := cur.Items
		cur = *o
		cur.Items = items
		st.saleOrders[o.ID] = cur
		return nil
	})
}

func (r *saleOrderRepo) ReplaceItems(_ context.Context, orderID string, items []entity.SaleOrderItem) error {
	return r.v.write(func(st *state) error {
		cur, ok := st.saleOrders[orderID]
		if !ok {
			return domain.NewNotFound("sale_order", orderID)
		}
		cur.Items = append([]entity.SaleOrderItem(nil), items...)
		st.saleOrders[orderID] = cur
		return nil
	})
}

func (r *saleOrderRepo) Delete(_ context.Context, id string) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.saleOrders[id]; !ok {
			return domain.NewNotFound("sale_order", id)
		}
		delete(st.saleOrders, id)
		return nil
	})
}

func (r *saleOrderRepo) List(_ context.Context, q repository.SaleOrderQuery) ([]*entity.SaleOrder, error) {
	var out []*entity.SaleOrder
	err := r.v.read(func(st *state) error {
		for _, o := range st.saleOrders {
			if q.Status != "" && o.Status != q.Status {
				continue
			}
			if q.CustomerID != "" && o.CustomerID != q.CustomerID {
				continue
			}
			if !inRange(o.CreatedAt, q.From, q.To) {
				continue
			}
			c := copySaleOrder(o)
			out = append(out, &c)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, q.Limit, q.Offset), err
}

type importOrderRepo struct{ v view }

func (r *importOrderRepo) Create(_ context.Context, o *entity.ImportOrder) error {
	return r.v.write(func(st *state) error {
		for _, other := range st.importOrders {
			if other.ID == o.ID || other.OrderNumber == o.OrderNumber {
				return fmt.Errorf("create import order: %w", domain.ErrDuplicate)
			}
		}
		st.importOrders[o.ID] = copyImportOrder(*o)
		return nil
	})
}

func (r *importOrderRepo) GetByID(_ context.Context, id string) (*entity.ImportOrder, error) {
	var out *entity.ImportOrder
	err := r.v.read(func(st *state) error {
		if o, ok := st.importOrders[id]; ok {
			c := copyImportOrder(o)
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *importOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.ImportOrder, error) {
	return r.GetByID(ctx, id)
}

func (r *importOrderRepo) Update(_ context.Context, o *entity.ImportOrder) error {
	return r.v.write(func(st *state) error {
		cur, ok := st.importOrders[o.ID]
		if !ok {
			return domain.NewNotFound("import_order", o.ID)
		}
		items := cur.Items
		cur = copyImportOrder(*o)
		cur.Items = items
		st.importOrders[o.ID] = cur
		return nil
	})
}

func (r *importOrderRepo) MarkDelivered(_ context.Context, id string, deliveredAt time.Time) (bool, error) {
	changed := false
	err := r.v.write(func(st *state) error {
		cur, ok := st.importOrders[id]
		if !ok {
			return domain.NewNotFound("import_order", id)
		}
		if cur.Status == entity.ImportStatusDelivered {
			return nil
		}
		cur.Status = entity.ImportStatusDelivered
		cur.DeliveryDate = &deliveredAt
		cur.UpdatedAt = deliveredAt
		st.importOrders[id] = cur
		changed = true
		return nil
	})
	return changed, err
}

func (r *importOrderRepo) Delete(_ context.Context, id string) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.importOrders[id]; !ok {
			return domain.NewNotFound("import_order", id)
		}
		delete(st.importOrders, id)
		return nil
	})
}

func (r *importOrderRepo) List(_ context.Context, q repository.ImportOrderQuery) ([]*entity.ImportOrder, error) {
	var out []*entity.ImportOrder
	err := r.v.read(func(st *state) error {
		for _, o := range st.importOrders {
			if q.Status != "" && o.Status != q.Status {
				continue
			}
			if q.SupplierID != "" && o.SupplierID != q.SupplierID {
				continue
			}
			if !inRange(o.CreatedAt, q.From, q.To) {
				continue
			}
			c := copyImportOrder(o)
			out = append(out, &c)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, q.Limit, q.Offset), err
}
