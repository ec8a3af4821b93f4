package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/tokokita-api/internal/domain"
	"github.com/jhoicas/tokokita-api/internal/domain/entity"
	"github.com/jhoicas/tokokita-api/internal/domain/repository"
)

// SaleRepo implementa repository.SaleRepository.
type SaleRepo struct{ sc scope }

var _ repository.SaleRepository = (*SaleRepo)(nil)

func (r *SaleRepo) Create(_ context.Context, s *entity.Sale) error {
	defer r.sc.lock()()
	st := r.sc.s.st
	if _, ok := st.sales[s.ID]; ok {
		return domain.ErrDuplicate
	}
	st.sales[s.ID] = copySale(s)
	return nil
}

func (r *SaleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	defer r.sc.rlock()()
	s, ok := r.sc.s.st.sales[id]
	if !ok {
		return nil, nil
	}
	return copySale(s), nil
}

func (r *SaleRepo) List(_ context.Context, f repository.SaleFilter) ([]*entity.Sale, error) {
	defer r.sc.rlock()()
	out := make([]*entity.Sale, 0)
	for _, s := range r.sc.s.st.sales {
		if f.ProductID != "" && s.ProductID != f.ProductID {
			continue
		}
		if f.From != nil && s.SaleDate.Before(*f.From) {
			continue
		}
		if f.To != nil && !s.SaleDate.Before(*f.To) {
			continue
		}
		out = append(out, copySale(s))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SaleDate.Equal(out[j].SaleDate) {
			return out[i].SaleDate.After(out[j].SaleDate)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// SaleBatchItemRepo implementa repository.SaleBatchItemRepository.
type SaleBatchItemRepo struct{ sc scope }

var _ repository.SaleBatchItemRepository = (*SaleBatchItemRepo)(nil)

// CreateMany exige que la venta y los lotes existan.
func (r *SaleBatchItemRepo) CreateMany(_ context.Context, items []*entity.SaleBatchItem) error {
	defer r.sc.lock()()
	st := r.sc.s.st
	for _, it := range items {
		if _, ok := st.sales[it.SaleID]; !ok {
			return domain.ErrConflict
		}
		if _, ok := st.batches[it.StockBatchID]; !ok {
			return domain.ErrConflict
		}
	}
	for _, it := range items {
		st.items[it.SaleID] = append(st.items[it.SaleID], copyItem(it))
	}
	return nil
}

func (r *SaleBatchItemRepo) ListBySale(_ context.Context, saleID string) ([]*entity.SaleBatchItem, error) {
	defer r.sc.rlock()()
	list := r.sc.s.st.items[saleID]
	out := make([]*entity.SaleBatchItem, 0, len(list))
	for _, it := range list {
		out = append(out, copyItem(it))
	}
	return out, nil
}
