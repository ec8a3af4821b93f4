package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/tokokita-api/internal/domain"
	"github.com/jhoicas/tokokita-api/internal/domain/entity"
	"github.com/jhoicas/tokokita-api/internal/domain/repository"
)

// PurchaseRepo implementa repository.PurchaseRepository.
type PurchaseRepo struct{ sc scope }

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

func (r *PurchaseRepo) Create(_ context.Context, p *entity.Purchase) error {
	defer r.sc.lock()()
	st := r.sc.s.st
	if _, ok := st.purchases[p.ID]; ok {
		return domain.ErrDuplicate
	}
	if _, ok := st.products[p.ProductID]; !ok {
		return domain.ErrConflict
	}
	if p.SupplierID != nil {
		if _, ok := st.suppliers[*p.SupplierID]; !ok {
			return domain.ErrConflict
		}
	}
	st.purchases[p.ID] = copyPurchase(p)
	return nil
}

func (r *PurchaseRepo) GetByID(_ context.Context, id string) (*entity.Purchase, error) {
	defer r.sc.rlock()()
	p, ok := r.sc.s.st.purchases[id]
	if !ok {
		return nil, nil
	}
	return r.withBatch(p), nil
}

func (r *PurchaseRepo) List(_ context.Context, f repository.PurchaseFilter) ([]*entity.Purchase, error) {
	defer r.sc.rlock()()
	out := make([]*entity.Purchase, 0)
	for _, p := range r.sc.s.st.purchases {
		if f.ProductID != "" && p.ProductID != f.ProductID {
			continue
		}
		if f.SupplierID != "" && (p.SupplierID == nil || *p.SupplierID != f.SupplierID) {
			continue
		}
		if f.From != nil && p.PurchaseDate.Before(*f.From) {
			continue
		}
		if f.To != nil && !p.PurchaseDate.Before(*f.To) {
			continue
		}
		out = append(out, r.withBatch(p))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PurchaseDate.Equal(out[j].PurchaseDate) {
			return out[i].PurchaseDate.After(out[j].PurchaseDate)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Delete falla con ErrConflict mientras el lote generado exista.
func (r *PurchaseRepo) Delete(_ context.Context, id string) error {
	defer r.sc.lock()()
	st := r.sc.s.st
	if _, ok := st.purchases[id]; !ok {
		return domain.ErrNotFound
	}
	for _, b := range st.batches {
		if b.PurchaseID != nil && *b.PurchaseID == id {
			return domain.ErrConflict
		}
	}
	delete(st.purchases, id)
	return nil
}

// withBatch copia la compra resolviendo el lote que generó. El llamador tiene el lock.
func (r *PurchaseRepo) withBatch(p *entity.Purchase) *entity.Purchase {
	c := copyPurchase(p)
	for _, b := range r.sc.s.st.batches {
		if b.PurchaseID != nil && *b.PurchaseID == p.ID {
			c.BatchID = b.ID
			break
		}
	}
	return c
}
