package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/tokokita-api/internal/domain"
	"github.com/jhoicas/tokokita-api/internal/domain/entity"
	"github.com/jhoicas/tokokita-api/internal/domain/repository"
)

// StockBatchRepo implementa repository.StockBatchRepository.
type StockBatchRepo struct{ sc scope }

var _ repository.StockBatchRepository = (*StockBatchRepo)(nil)

// Create asigna Seq y guarda una copia del lote.
func (r *StockBatchRepo) Create(_ context.Context, b *entity.StockBatch) error {
	defer r.sc.lock()()
	st := r.sc.s.st
	if _, ok := st.batches[b.ID]; ok {
		return domain.ErrDuplicate
	}
	if _, ok := st.products[b.ProductID]; !ok {
		return fmt.Errorf("%w: lote de producto inexistente", domain.ErrConflict)
	}
	st.seq++
	b.Seq = st.seq
	st.batches[b.ID] = copyBatch(b)
	return nil
}

func (r *StockBatchRepo) GetByID(_ context.Context, id string) (*entity.StockBatch, error) {
	defer r.sc.rlock()()
	b, ok := r.sc.s.st.batches[id]
	if !ok {
		return nil, nil
	}
	return copyBatch(b), nil
}

func (r *StockBatchRepo) LoadAvailable(_ context.Context, productID string) ([]*entity.StockBatch, error) {
	defer r.sc.rlock()()
	return r.collect(func(b *entity.StockBatch) bool {
		return b.ProductID == productID && b.RemainingQuantity > 0
	}), nil
}

func (r *StockBatchRepo) ListAvailable(_ context.Context) ([]*entity.StockBatch, error) {
	defer r.sc.rlock()()
	out := r.collect(func(b *entity.StockBatch) bool { return b.RemainingQuantity > 0 })
	sort.SliceStable(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

func (r *StockBatchRepo) ListByProduct(_ context.Context, productID string) ([]*entity.StockBatch, error) {
	defer r.sc.rlock()()
	return r.collect(func(b *entity.StockBatch) bool { return b.ProductID == productID }), nil
}

// collect filtra y ordena por (batch_date, seq). El llamador tiene el lock.
func (r *StockBatchRepo) collect(keep func(*entity.StockBatch) bool) []*entity.StockBatch {
	out := make([]*entity.StockBatch, 0)
	for _, b := range r.sc.s.st.batches {
		if keep(b) {
			out = append(out, copyBatch(b))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].BatchDate.Equal(out[j].BatchDate) {
			return out[i].BatchDate.Before(out[j].BatchDate)
		}
		return out[i].Seq < out[j].Seq
	})
	return out
}

// Update solo aplica costo unitario, fecha de lote y vencimiento.
func (r *StockBatchRepo) Update(_ context.Context, b *entity.StockBatch) error {
	defer r.sc.lock()()
	cur, ok := r.sc.s.st.batches[b.ID]
	if !ok {
		return domain.ErrNotFound
	}
	upd := copyBatch(b)
	cur.UnitCost = upd.UnitCost
	cur.BatchDate = upd.BatchDate
	cur.ExpiryDate = upd.ExpiryDate
	cur.UpdatedAt = time.Now()
	return nil
}

func (r *StockBatchRepo) DecrementRemaining(_ context.Context, batchID string, amount, expectedRemaining int64) (int64, error) {
	defer r.sc.lock()()
	b, ok := r.sc.s.st.batches[batchID]
	if !ok {
		return 0, domain.ErrNotFound
	}
	if b.RemainingQuantity != expectedRemaining {
		return 0, domain.ErrConcurrentModification
	}
	if amount <= 0 || amount > b.RemainingQuantity {
		return 0, fmt.Errorf("%w: descuento %d sobre remanente %d", domain.ErrInvalidInput, amount, b.RemainingQuantity)
	}
	b.RemainingQuantity -= amount
	b.UpdatedAt = time.Now()
	return b.RemainingQuantity, nil
}

// Delete falla con ErrConflict si alguna venta consumió el lote.
func (r *StockBatchRepo) Delete(_ context.Context, id string) error {
	defer r.sc.lock()()
	st := r.sc.s.st
	if _, ok := st.batches[id]; !ok {
		return domain.ErrNotFound
	}
	for _, items := range st.items {
		for _, it := range items {
			if it.StockBatchID == id {
				return domain.ErrConflict
			}
		}
	}
	delete(st.batches, id)
	return nil
}
