package inventory

import (
	"sort"

	"github.com/jhoicas/tokokita-api/internal/domain/entity"
)

// OrderForAllocation filtra los lotes con remanente y los ordena por (BatchDate, Seq) ascendente.
// Lo usan los colaboradores que no pueden ordenar en su consulta.
func OrderForAllocation(batches []*entity.StockBatch) []AvailableBatch {
	out := make([]AvailableBatch, 0, len(batches))
	for _, b := range batches {
		if b == nil || !b.IsAvailable() {
			continue
		}
		out = append(out, AvailableBatch{
			BatchID:   b.ID,
			Available: b.RemainingQuantity,
			UnitCost:  b.UnitCost,
			BatchDate: b.BatchDate,
			Seq:       b.Seq,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].BatchDate.Equal(out[j].BatchDate) {
			return out[i].BatchDate.Before(out[j].BatchDate)
		}
		return out[i].Seq < out[j].Seq
	})
	return out
}

// TotalAvailable suma el remanente de los lotes (satura en MaxInt64).
func TotalAvailable(batches []*entity.StockBatch) int64 {
	var total int64
	for _, b := range batches {
		if b != nil && b.RemainingQuantity > 0 {
			total = addQty(total, b.RemainingQuantity)
		}
	}
	return total
}
