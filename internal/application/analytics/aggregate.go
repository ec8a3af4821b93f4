package analytics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/tokokita-api/internal/application/dto"
	"github.com/jhoicas/tokokita-api/internal/domain/entity"
	"github.com/jhoicas/tokokita-api/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

const (
	unknownProduct = "Producto desconocido"
	noSupplier     = "Sin proveedor"
	dayLayout      = "2006-01-02"
	monthLayout    = "2006-01"
)

var hundred = decimal.NewFromInt(100)

// percent = part / whole * 100 con 2 decimales; 0 si whole no es positivo.
func percent(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred).Round(2)
}

// SummarizeSales acumula totales, estadísticas por producto y ventas por día.
// El día de cada venta es su fecha calendario en loc (nil = UTC).
// Solo consume cifras ya liquidadas; no recalcula asignaciones.
func SummarizeSales(sales []*entity.Sale, loc *time.Location) dto.SalesStatsDTO {
	loc = orUTC(loc)
	out := dto.SalesStatsDTO{
		TotalRevenue: decimal.Zero,
		TotalCOGS:    decimal.Zero,
		TotalProfit:  decimal.Zero,
		AverageSale:  decimal.Zero,
		ProfitMargin: decimal.Zero,
		ProductStats: make(map[string]dto.ProductStatDTO),
		DailySales:   []dto.DailySalesDTO{},
	}
	daily := make(map[string]*dto.DailySalesDTO)

	for _, s := range sales {
		out.TotalSales++
		out.TotalRevenue = out.TotalRevenue.Add(s.TotalRevenue)
		out.TotalCOGS = out.TotalCOGS.Add(s.COGS)
		out.TotalProfit = out.TotalProfit.Add(s.Profit)

		ps, ok := out.ProductStats[s.ProductID]
		if !ok {
			ps = dto.ProductStatDTO{Revenue: decimal.Zero, Profit: decimal.Zero}
		}
		ps.QuantitySold += s.Quantity
		ps.Revenue = ps.Revenue.Add(s.TotalRevenue)
		ps.Profit = ps.Profit.Add(s.Profit)
		ps.SalesCount++
		out.ProductStats[s.ProductID] = ps

		key := s.SaleDate.In(loc).Format(dayLayout)
		d, ok := daily[key]
		if !ok {
			d = &dto.DailySalesDTO{Date: key, Revenue: decimal.Zero, Profit: decimal.Zero}
			daily[key] = d
		}
		d.Revenue = d.Revenue.Add(s.TotalRevenue)
		d.Profit = d.Profit.Add(s.Profit)
		d.Count++
	}

	if out.TotalSales > 0 {
		out.AverageSale = out.TotalRevenue.Div(decimal.NewFromInt(int64(out.TotalSales))).Round(2)
	}
	out.ProfitMargin = percent(out.TotalProfit, out.TotalRevenue)

	for _, d := range daily {
		out.DailySales = append(out.DailySales, *d)
	}
	sort.Slice(out.DailySales, func(i, j int) bool { return out.DailySales[i].Date < out.DailySales[j].Date })
	return out
}

// RankProducts convierte las estadísticas por producto en filas ordenadas por ingreso descendente.
func RankProducts(stats map[string]dto.ProductStatDTO, names map[string]string) []dto.ProductPerformanceDTO {
	out := make([]dto.ProductPerformanceDTO, 0, len(stats))
	for id, s := range stats {
		name, ok := names[id]
		if !ok {
			name = unknownProduct
		}
		out = append(out, dto.ProductPerformanceDTO{
			ProductID:    id,
			ProductName:  name,
			QuantitySold: s.QuantitySold,
			Revenue:      s.Revenue,
			Profit:       s.Profit,
			ProfitMargin: percent(s.Profit, s.Revenue),
			SalesCount:   s.SalesCount,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Revenue.Equal(out[j].Revenue) {
			return out[i].Revenue.GreaterThan(out[j].Revenue)
		}
		return out[i].ProductID < out[j].ProductID
	})
	return out
}

// BreakdownSuppliers totaliza compras y reparte por proveedor (monto descendente).
func BreakdownSuppliers(purchases []*entity.Purchase, names map[string]string) dto.PurchaseAnalysisDTO {
	out := dto.PurchaseAnalysisDTO{
		TotalAmount:       decimal.Zero,
		AverageAmount:     decimal.Zero,
		SupplierBreakdown: []dto.SupplierBreakdownDTO{},
	}
	bySupplier := make(map[string]*dto.SupplierBreakdownDTO)
	for _, p := range purchases {
		out.TotalPurchases++
		out.TotalAmount = out.TotalAmount.Add(p.TotalAmount)

		id := ""
		if p.SupplierID != nil {
			id = *p.SupplierID
		}
		b, ok := bySupplier[id]
		if !ok {
			b = &dto.SupplierBreakdownDTO{SupplierID: id, SupplierName: supplierName(id, names), TotalAmount: decimal.Zero}
			bySupplier[id] = b
		}
		b.PurchaseCount++
		b.TotalAmount = b.TotalAmount.Add(p.TotalAmount)
	}
	if out.TotalPurchases > 0 {
		out.AverageAmount = out.TotalAmount.Div(decimal.NewFromInt(int64(out.TotalPurchases))).Round(2)
	}
	for _, b := range bySupplier {
		b.Percentage = percent(b.TotalAmount, out.TotalAmount)
		out.SupplierBreakdown = append(out.SupplierBreakdown, *b)
	}
	sort.Slice(out.SupplierBreakdown, func(i, j int) bool {
		a, b := out.SupplierBreakdown[i], out.SupplierBreakdown[j]
		if !a.TotalAmount.Equal(b.TotalAmount) {
			return a.TotalAmount.GreaterThan(b.TotalAmount)
		}
		return a.SupplierID < b.SupplierID
	})
	return out
}

func supplierName(id string, names map[string]string) string {
	if id == "" {
		return noSupplier
	}
	if n, ok := names[id]; ok {
		return n
	}
	return fmt.Sprintf("Proveedor %s", id)
}

// StockLevels calcula stock, estado y valorización por producto, ordenado por nombre.
func StockLevels(products []*entity.Product, available []*entity.StockBatch) []dto.StockLevelDTO {
	byProduct := make(map[string][]*entity.StockBatch, len(products))
	for _, b := range available {
		byProduct[b.ProductID] = append(byProduct[b.ProductID], b)
	}
	out := make([]dto.StockLevelDTO, 0, len(products))
	for _, p := range products {
		batches := byProduct[p.ID]
		total := inventory.TotalAvailable(batches)
		out = append(out, dto.StockLevelDTO{
			ProductID:    p.ID,
			ProductName:  p.Name,
			Unit:         p.Unit,
			CurrentStock: total,
			MinStock:     p.MinimumStock,
			Status:       string(inventory.ClassifyStock(total, p.MinimumStock)),
			StockValue:   inventory.StockValuation(batches),
			AverageCOGS:  inventory.AverageUnitCost(batches),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].ProductName) < strings.ToLower(out[j].ProductName)
	})
	return out
}

// monthStart devuelve la medianoche del primer día del mes en loc.
func monthStart(year int, month time.Month, loc *time.Location) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, orUTC(loc))
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
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

func orUTC(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}

func namesOf(products []*entity.Product) map[string]string {
	names := make(map[string]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}
	return names
}
