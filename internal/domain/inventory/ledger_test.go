package inventory

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/tokokita-api/internal/domain/entity"
)

func stockBatch(id string, remaining int64, d int, seq int64) *entity.StockBatch {
	return &entity.StockBatch{
		ID:                id,
		Quantity:          remaining + 1,
		RemainingQuantity: remaining,
		UnitCost:          decimal.NewFromInt(10),
		BatchDate:         day(d),
		Seq:               seq,
	}
}

func TestOrderForAllocation(t *testing.T) {
	batches := []*entity.StockBatch{
		stockBatch("late", 4, 9, 1),
		stockBatch("same-day-second", 2, 3, 7),
		stockBatch("exhausted", 0, 1, 2),
		stockBatch("same-day-first", 1, 3, 5),
		nil,
		stockBatch("oldest", 6, 2, 9),
	}

	got := OrderForAllocation(batches)

	ids := make([]string, 0, len(got))
	for _, b := range got {
		ids = append(ids, b.BatchID)
	}
	assert.Equal(t, []string{"oldest", "same-day-first", "same-day-second", "late"}, ids,
		"orden por fecha y luego por secuencia, sin lotes agotados")
}

func TestTotalAvailable(t *testing.T) {
	assert.Equal(t, int64(0), TotalAvailable(nil))
	assert.Equal(t, int64(7), TotalAvailable([]*entity.StockBatch{stockBatch("a", 3, 1, 1), stockBatch("b", 0, 1, 2), stockBatch("c", 4, 1, 3)}))

	huge := []*entity.StockBatch{stockBatch("a", 1<<62, 1, 1), stockBatch("b", 1<<62, 1, 2)}
	assert.Equal(t, int64(math.MaxInt64), TotalAvailable(huge))
}
