package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/tokokita-api/internal/domain"
	"github.com/jhoicas/tokokita-api/internal/domain/entity"
	"github.com/jhoicas/tokokita-api/internal/domain/repository"
)

// ProductRepo implementa repository.ProductRepository.
type ProductRepo struct{ sc scope }

var _ repository.ProductRepository = (*ProductRepo)(nil)

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	defer r.sc.lock()()
	st := r.sc.s.st
	if _, ok := st.products[p.ID]; ok {
		return domain.ErrDuplicate
	}
	st.products[p.ID] = copyProduct(p)
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	defer r.sc.rlock()()
	p, ok := r.sc.s.st.products[id]
	if !ok {
		return nil, nil
	}
	return copyProduct(p), nil
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	defer r.sc.lock()()
	st := r.sc.s.st
	if _, ok := st.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	st.products[p.ID] = copyProduct(p)
	return nil
}

func (r *ProductRepo) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	defer r.sc.rlock()()
	out := make([]*entity.Product, 0, len(r.sc.s.st.products))
	for _, p := range r.sc.s.st.products {
		out = append(out, copyProduct(p))
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if a != b {
			return a < b
		}
		return out[i].ID < out[j].ID
	})
	return paginate(out, limit, offset), nil
}

// Delete falla con ErrConflict si el producto tiene lotes, compras o ventas.
func (r *ProductRepo) Delete(_ context.Context, id string) error {
	defer r.sc.lock()()
	st := r.sc.s.st
	if _, ok := st.products[id]; !ok {
		return domain.ErrNotFound
	}
	for _, b := range st.batches {
		if b.ProductID == id {
			return domain.ErrConflict
		}
	}
	for _, p := range st.purchases {
		if p.ProductID == id {
			return domain.ErrConflict
		}
	}
	for _, s := range st.sales {
		if s.ProductID == id {
			return domain.ErrConflict
		}
	}
	delete(st.products, id)
	return nil
}

// SupplierRepo implementa repository.SupplierRepository.
type SupplierRepo struct{ sc scope }

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

func (r *SupplierRepo) Create(_ context.Context, s *entity.Supplier) error {
	defer r.sc.lock()()
	st := r.sc.s.st
	if _, ok := st.suppliers[s.ID]; ok {
		return domain.ErrDuplicate
	}
	st.suppliers[s.ID] = copySupplier(s)
	return nil
}

func (r *SupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	defer r.sc.rlock()()
	s, ok := r.sc.s.st.suppliers[id]
	if !ok {
		return nil, nil
	}
	return copySupplier(s), nil
}

func (r *SupplierRepo) Update(_ context.Context, s *entity.Supplier) error {
	defer r.sc.lock()()
	st := r.sc.s.st
	if _, ok := st.suppliers[s.ID]; !ok {
		return domain.ErrNotFound
	}
	st.suppliers[s.ID] = copySupplier(s)
	return nil
}

func (r *SupplierRepo) List(_ context.Context) ([]*entity.Supplier, error) {
	defer r.sc.rlock()()
	out := make([]*entity.Supplier, 0, len(r.sc.s.st.suppliers))
	for _, s := range r.sc.s.st.suppliers {
		out = append(out, copySupplier(s))
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if a != b {
			return a < b
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Delete falla con ErrConflict si el proveedor tiene compras.
func (r *SupplierRepo) Delete(_ context.Context, id string) error {
	defer r.sc.lock()()
	st := r.sc.s.st
	if _, ok := st.suppliers[id]; !ok {
		return domain.ErrNotFound
	}
	for _, p := range st.purchases {
		if p.SupplierID != nil && *p.SupplierID == id {
			return domain.ErrConflict
		}
	}
	delete(st.suppliers, id)
	return nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return items[:0]
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
