package inventory

import (
	"time"

	"github.com/jhoicas/tokokita-api/internal/application/dto"
	"github.com/jhoicas/tokokita-api/internal/domain/entity"
)

func toBatchResponse(b *entity.StockBatch) dto.BatchResponse {
	return dto.BatchResponse{
		ID:                b.ID,
		ProductID:         b.ProductID,
		PurchaseID:        b.PurchaseID,
		SupplierID:        b.SupplierID,
		Seq:               b.Seq,
		Quantity:          b.Quantity,
		RemainingQuantity: b.RemainingQuantity,
		UnitCost:          b.UnitCost,
		BatchDate:         b.BatchDate,
		ExpiryDate:        b.ExpiryDate,
		Exhausted:         !b.IsAvailable(),
		CreatedAt:         b.CreatedAt,
	}
}

func toPurchaseResponse(p *entity.Purchase) dto.PurchaseResponse {
	return dto.PurchaseResponse{
		ID:            p.ID,
		ProductID:     p.ProductID,
		SupplierID:    p.SupplierID,
		Quantity:      p.Quantity,
		PurchasePrice: p.PurchasePrice,
		TotalAmount:   p.TotalAmount,
		PurchaseDate:  p.PurchaseDate,
		Notes:         p.Notes,
		BatchID:       p.BatchID,
		CreatedAt:     p.CreatedAt,
	}
}

func toSaleResponse(s *entity.Sale) dto.SaleResponse {
	return dto.SaleResponse{
		ID:           s.ID,
		ProductID:    s.ProductID,
		Quantity:     s.Quantity,
		UnitPrice:    s.UnitPrice,
		TotalRevenue: s.TotalRevenue,
		COGS:         s.COGS,
		Profit:       s.Profit,
		ProfitMargin: s.ProfitMargin,
		SaleDate:     s.SaleDate,
		CustomerName: s.CustomerName,
		Notes:        s.Notes,
		ReversalOf:   s.ReversalOf,
		CreatedAt:    s.CreatedAt,
	}
}

func toConsumptionResponse(i *entity.SaleBatchItem) dto.BatchConsumptionResponse {
	return dto.BatchConsumptionResponse{
		ID:           i.ID,
		SaleID:       i.SaleID,
		StockBatchID: i.StockBatchID,
		QuantityUsed: i.QuantityUsed,
		UnitCost:     i.UnitCost,
		Cost:         i.Cost(),
	}
}

// dayRange convierte fechas inclusivas en [from, to+1día), con los días en loc.
func dayRange(from, to *time.Time, loc *time.Location) (*time.Time, *time.Time) {
	var f, t *time.Time
	if from != nil {
		v := entity.DayIn(*from, loc)
		f = &v
	}
	if to != nil {
		v := entity.DayIn(*to, loc).AddDate(0, 0, 1)
		t = &v
	}
	return f, t
}
