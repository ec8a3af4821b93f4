// Package analytics contiene los casos de uso para reportes de negocio y el
// resumen del dashboard.
package analytics

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/tokokita-api/internal/application/dto"
	"github.com/jhoicas/tokokita-api/internal/domain/entity"
	"github.com/jhoicas/tokokita-api/internal/domain/inventory"
	"github.com/jhoicas/tokokita-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// DashboardUseCase genera el resumen del día y del mes en curso.
//
// Fuente de datos: repositorios de productos, lotes y ventas (solo lectura).
type DashboardUseCase struct {
	productRepo repository.ProductRepository
	batchRepo   repository.StockBatchRepository
	saleRepo    repository.SaleRepository
	loc         *time.Location
}

// NewDashboardUseCase construye el caso de uso. "Hoy" y "mes" se miden en loc (nil = UTC).
func NewDashboardUseCase(
	productRepo repository.ProductRepository,
	batchRepo repository.StockBatchRepository,
	saleRepo repository.SaleRepository,
	loc *time.Location,
) *DashboardUseCase {
	return &DashboardUseCase{productRepo: productRepo, batchRepo: batchRepo, saleRepo: saleRepo, loc: orUTC(loc)}
}

// GetSummary construye el DashboardSummaryDTO relativo a now.
//
// Cuatro lecturas en paralelo:
//  1. productos + lotes disponibles → niveles de stock y valorización
//  2. ventas de hoy
//  3. ventas del mes en curso (día 1 – hoy)
//  4. ventas del mes anterior → crecimiento de ganancia
func (uc *DashboardUseCase) GetSummary(ctx context.Context, now time.Time) (*dto.DashboardSummaryDTO, error) {
	// ── Rangos de fecha ────────────────────────────────────────────────────────
	now = now.In(uc.loc)
	todayStart := entity.StartOfDay(now, uc.loc)
	todayEnd := todayStart.AddDate(0, 0, 1)
	monthFrom := monthStart(now.Year(), now.Month(), uc.loc)
	lastMonthFrom := monthFrom.AddDate(0, -1, 0)

	var (
		products       []*entity.Product
		batches        []*entity.StockBatch
		todaySales     []*entity.Sale
		monthSales     []*entity.Sale
		lastMonthSales []*entity.Sale
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if products, err = uc.productRepo.List(gctx, 0, 0); err != nil {
			return fmt.Errorf("dashboard: productos: %w", err)
		}
		if batches, err = uc.batchRepo.ListAvailable(gctx); err != nil {
			return fmt.Errorf("dashboard: lotes: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		todaySales, err = uc.saleRepo.List(gctx, repository.SaleFilter{From: &todayStart, To: &todayEnd})
		if err != nil {
			return fmt.Errorf("dashboard: ventas de hoy: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		monthSales, err = uc.saleRepo.List(gctx, repository.SaleFilter{From: &monthFrom, To: &todayEnd})
		if err != nil {
			return fmt.Errorf("dashboard: ventas del mes: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		lastMonthSales, err = uc.saleRepo.List(gctx, repository.SaleFilter{From: &lastMonthFrom, To: &monthFrom})
		if err != nil {
			return fmt.Errorf("dashboard: ventas del mes anterior: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	levels := StockLevels(products, batches)
	today := SummarizeSales(todaySales, uc.loc)
	month := SummarizeSales(monthSales, uc.loc)
	lastMonth := SummarizeSales(lastMonthSales, uc.loc)

	out := &dto.DashboardSummaryDTO{
		TotalProducts:   len(levels),
		TotalStockValue: totalStockValue(levels),
		TodaySales:      today.TotalRevenue,
		TodayProfit:     today.TotalProfit,
		MonthlyProfit:   month.TotalProfit,
		ProfitGrowth:    profitGrowth(month.TotalProfit, lastMonth.TotalProfit),
		DateLabel:       monthLabel(now),
	}
	for _, l := range levels {
		switch inventory.StockStatus(l.Status) {
		case inventory.StockLow:
			out.LowStockProducts++
		case inventory.StockOut:
			out.OutOfStockProducts++
		}
	}
	return out, nil
}

// profitGrowth = (actual - anterior) / anterior * 100; 0 si el mes anterior no tuvo ganancia.
func profitGrowth(current, previous decimal.Decimal) decimal.Decimal {
	if !previous.IsPositive() {
		return decimal.Zero
	}
	return current.Sub(previous).Div(previous).Mul(hundred).Round(2)
}
