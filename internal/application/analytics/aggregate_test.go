package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tokokita-api/internal/domain/entity"
)

func sale(productID string, qty, revenue, cogs int64, d time.Time) *entity.Sale {
	return &entity.Sale{
		ProductID:    productID,
		Quantity:     qty,
		TotalRevenue: decimal.NewFromInt(revenue),
		COGS:         decimal.NewFromInt(cogs),
		Profit:       decimal.NewFromInt(revenue - cogs),
		SaleDate:     d,
	}
}

func TestSummarizeSales(t *testing.T) {
	d1 := time.Date(2025, 8, 2, 9, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 8, 1, 15, 0, 0, 0, time.UTC)
	stats := SummarizeSales([]*entity.Sale{
		sale("a", 2, 300, 200, d1),
		sale("b", 1, 100, 40, d2),
		sale("a", 1, 200, 100, d2),
	}, time.UTC)

	assert.Equal(t, 3, stats.TotalSales)
	assert.Equal(t, "600", stats.TotalRevenue.String())
	assert.Equal(t, "340", stats.TotalCOGS.String())
	assert.Equal(t, "260", stats.TotalProfit.String())
	assert.Equal(t, "200", stats.AverageSale.String())
	assert.Equal(t, "43.33", stats.ProfitMargin.String())

	a := stats.ProductStats["a"]
	assert.Equal(t, int64(3), a.QuantitySold)
	assert.Equal(t, 2, a.SalesCount)
	assert.Equal(t, "200", a.Profit.String())

	require.Len(t, stats.DailySales, 2)
	assert.Equal(t, "2025-08-01", stats.DailySales[0].Date, "ordenado por fecha")
	assert.Equal(t, 2, stats.DailySales[0].Count)
	assert.Equal(t, "300", stats.DailySales[0].Revenue.String())
}

func TestSummarizeSales_Empty(t *testing.T) {
	stats := SummarizeSales(nil, nil)
	assert.Equal(t, 0, stats.TotalSales)
	assert.True(t, stats.AverageSale.IsZero())
	assert.True(t, stats.ProfitMargin.IsZero())
	assert.NotNil(t, stats.DailySales)
}

func TestSummarizeSales_DayInBusinessZone(t *testing.T) {
	wib := time.FixedZone("WIB", 7*3600)
	// 03:00 WIB del 18 de octubre; pgx la devuelve en la zona del servidor
	d := time.Date(2026, 10, 18, 3, 0, 0, 0, wib).UTC()

	stats := SummarizeSales([]*entity.Sale{sale("a", 1, 100, 40, d)}, wib)
	require.Len(t, stats.DailySales, 1)
	assert.Equal(t, "2026-10-18", stats.DailySales[0].Date)

	utc := SummarizeSales([]*entity.Sale{sale("a", 1, 100, 40, d)}, nil)
	assert.Equal(t, "2026-10-17", utc.DailySales[0].Date)
}

func TestDayRange_BusinessZone(t *testing.T) {
	wib := time.FixedZone("WIB", 7*3600)
	day := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)

	f, to := dayRange(&day, &day, wib)
	require.NotNil(t, f)
	require.NotNil(t, to)
	assert.True(t, f.Equal(time.Date(2026, 10, 18, 0, 0, 0, 0, wib)))
	assert.True(t, to.Equal(time.Date(2026, 10, 19, 0, 0, 0, 0, wib)))

	sale := time.Date(2026, 10, 18, 3, 0, 0, 0, wib)
	assert.False(t, sale.Before(*f))
	assert.True(t, sale.Before(*to))
}

func TestRankProducts(t *testing.T) {
	d := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	stats := SummarizeSales([]*entity.Sale{
		sale("a", 1, 100, 50, d),
		sale("b", 1, 300, 100, d),
		sale("ghost", 1, 200, 200, d),
	}, time.UTC)

	ranked := RankProducts(stats.ProductStats, map[string]string{"a": "Kopi", "b": "Teh"})
	require.Len(t, ranked, 3)
	assert.Equal(t, "Teh", ranked[0].ProductName)
	assert.Equal(t, "66.67", ranked[0].ProfitMargin.String())
	assert.Equal(t, unknownProduct, ranked[1].ProductName)
	assert.True(t, ranked[1].ProfitMargin.IsZero())
	assert.Equal(t, "Kopi", ranked[2].ProductName)
}

func TestBreakdownSuppliers(t *testing.T) {
	s1 := "s1"
	s2 := "s2"
	purchases := []*entity.Purchase{
		{SupplierID: &s1, TotalAmount: decimal.NewFromInt(300)},
		{SupplierID: &s2, TotalAmount: decimal.NewFromInt(500)},
		{SupplierID: &s1, TotalAmount: decimal.NewFromInt(100)},
		{TotalAmount: decimal.NewFromInt(100)},
	}

	got := BreakdownSuppliers(purchases, map[string]string{"s1": "Toko Jaya"})

	assert.Equal(t, 4, got.TotalPurchases)
	assert.Equal(t, "1000", got.TotalAmount.String())
	assert.Equal(t, "250", got.AverageAmount.String())
	require.Len(t, got.SupplierBreakdown, 3)

	assert.Equal(t, "s2", got.SupplierBreakdown[0].SupplierID)
	assert.Equal(t, "Proveedor s2", got.SupplierBreakdown[0].SupplierName)
	assert.Equal(t, "50", got.SupplierBreakdown[0].Percentage.String())

	assert.Equal(t, "Toko Jaya", got.SupplierBreakdown[1].SupplierName)
	assert.Equal(t, 2, got.SupplierBreakdown[1].PurchaseCount)
	assert.Equal(t, "40", got.SupplierBreakdown[1].Percentage.String())

	assert.Equal(t, noSupplier, got.SupplierBreakdown[2].SupplierName)
}

func TestStockLevels(t *testing.T) {
	products := []*entity.Product{
		{ID: "p2", Name: "teh", MinimumStock: 5},
		{ID: "p1", Name: "Kopi", MinimumStock: 5},
		{ID: "p3", Name: "Gula", MinimumStock: 5},
	}
	batches := []*entity.StockBatch{
		{ProductID: "p1", RemainingQuantity: 10, UnitCost: decimal.NewFromInt(100)},
		{ProductID: "p1", RemainingQuantity: 10, UnitCost: decimal.NewFromInt(200)},
		{ProductID: "p2", RemainingQuantity: 3, UnitCost: decimal.NewFromInt(50)},
	}

	levels := StockLevels(products, batches)
	require.Len(t, levels, 3)

	assert.Equal(t, "Gula", levels[0].ProductName)
	assert.Equal(t, "out", levels[0].Status)

	assert.Equal(t, "Kopi", levels[1].ProductName)
	assert.Equal(t, "normal", levels[1].Status)
	assert.Equal(t, "3000", levels[1].StockValue.String())
	assert.Equal(t, "150", levels[1].AverageCOGS.String())

	assert.Equal(t, "low", levels[2].Status)
}

func TestProfitGrowth(t *testing.T) {
	assert.Equal(t, "50", profitGrowth(decimal.NewFromInt(150), decimal.NewFromInt(100)).String())
	assert.Equal(t, "-25", profitGrowth(decimal.NewFromInt(75), decimal.NewFromInt(100)).String())
	assert.True(t, profitGrowth(decimal.NewFromInt(75), decimal.Zero).IsZero())
}

func TestMonthLabel(t *testing.T) {
	assert.Equal(t, "Febrero 2026", monthLabel(time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)))
}
