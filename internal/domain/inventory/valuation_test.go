package inventory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/tokokita-api/internal/domain/entity"
)

func TestClassifyStock(t *testing.T) {
	tests := []struct {
		total, minimum int64
		want           StockStatus
	}{
		{0, 5, StockOut},
		{0, 0, StockOut},
		{3, 5, StockLow},
		{5, 5, StockLow},
		{6, 5, StockNormal},
		{1, 0, StockNormal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyStock(tt.total, tt.minimum), "total=%d mínimo=%d", tt.total, tt.minimum)
	}
}

func TestStockValuation(t *testing.T) {
	batches := []*entity.StockBatch{
		{RemainingQuantity: 5, UnitCost: decimal.NewFromInt(1200)},
		{RemainingQuantity: 0, UnitCost: decimal.NewFromInt(1000)},
		{RemainingQuantity: 2, UnitCost: decimal.RequireFromString("999.5")},
	}
	assert.Equal(t, "7999", StockValuation(batches).String())
	assert.Equal(t, "1142.71", AverageUnitCost(batches).String())
}

func TestAverageUnitCost_Empty(t *testing.T) {
	assert.True(t, AverageUnitCost(nil).IsZero())
	assert.True(t, StockValuation(nil).IsZero())
}

func TestSuggestedOrderQuantity(t *testing.T) {
	assert.Equal(t, int64(15), SuggestedOrderQuantity(0, 10))
	assert.Equal(t, int64(11), SuggestedOrderQuantity(4, 10))
	assert.Equal(t, int64(5), SuggestedOrderQuantity(0, 3), "3 * 1.5 = 4.5 se redondea hacia arriba")
	assert.Equal(t, int64(0), SuggestedOrderQuantity(20, 10))
}
