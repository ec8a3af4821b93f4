package inventory

import (
	"github.com/jhoicas/tokokita-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// StockStatus clasifica el nivel de stock de un producto.
type StockStatus string

const (
	StockNormal StockStatus = "normal"
	StockLow    StockStatus = "low"
	StockOut    StockStatus = "out"
)

// ClassifyStock: out si total == 0, low si total <= mínimo, normal en otro caso.
func ClassifyStock(total, minimum int64) StockStatus {
	switch {
	case total <= 0:
		return StockOut
	case total <= minimum:
		return StockLow
	default:
		return StockNormal
	}
}

// StockValuation = Σ remanente * costo unitario sobre lotes disponibles.
func StockValuation(batches []*entity.StockBatch) decimal.Decimal {
	value := decimal.Zero
	for _, b := range batches {
		if b == nil || !b.IsAvailable() {
			continue
		}
		value = value.Add(b.Value())
	}
	return value
}

// AverageUnitCost es el costo promedio ponderado del remanente.
// CostoPromedio = Σ(remanente * costo) / Σ remanente; cero si no hay stock.
func AverageUnitCost(batches []*entity.StockBatch) decimal.Decimal {
	total := TotalAvailable(batches)
	if total <= 0 {
		return decimal.Zero
	}
	return StockValuation(batches).Div(decimal.NewFromInt(total)).Round(2)
}

// SuggestedOrderQuantity = mínimo * 1.5 - actual, con piso en cero (redondeado hacia arriba).
func SuggestedOrderQuantity(current, minimum int64) int64 {
	target := decimal.NewFromInt(minimum).Mul(decimal.NewFromFloat(1.5)).Ceil().IntPart()
	if q := target - current; q > 0 {
		return q
	}
	return 0
}
