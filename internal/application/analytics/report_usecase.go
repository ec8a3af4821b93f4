package analytics

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/tokokita-api/internal/application/dto"
	"github.com/jhoicas/tokokita-api/internal/application/ports"
	"github.com/jhoicas/tokokita-api/internal/domain"
	"github.com/jhoicas/tokokita-api/internal/domain/entity"
	"github.com/jhoicas/tokokita-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

const (
	monthlyTopProducts = 10 // productos en el ranking mensual
	defaultTrendMonths = 12
	maxTrendMonths     = 60
)

// ReportUseCase genera los reportes de negocio a partir de ventas y compras ya registradas.
type ReportUseCase struct {
	productRepo  repository.ProductRepository
	supplierRepo repository.SupplierRepository
	batchRepo    repository.StockBatchRepository
	saleRepo     repository.SaleRepository
	purchaseRepo repository.PurchaseRepository
	pdf          ports.ReportPDFGenerator
	loc          *time.Location // zona del negocio para días y meses
	now          func() time.Time
}

// NewReportUseCase construye el caso de uso. pdf puede ser nil (sin exportación);
// loc nil usa UTC.
func NewReportUseCase(
	productRepo repository.ProductRepository,
	supplierRepo repository.SupplierRepository,
	batchRepo repository.StockBatchRepository,
	saleRepo repository.SaleRepository,
	purchaseRepo repository.PurchaseRepository,
	pdf ports.ReportPDFGenerator,
	loc *time.Location,
) *ReportUseCase {
	return &ReportUseCase{
		productRepo:  productRepo,
		supplierRepo: supplierRepo,
		batchRepo:    batchRepo,
		saleRepo:     saleRepo,
		purchaseRepo: purchaseRepo,
		pdf:          pdf,
		loc:          orUTC(loc),
		now:          time.Now,
	}
}

// Now devuelve la hora actual en la zona del negocio.
func (uc *ReportUseCase) Now() time.Time {
	return uc.now().In(uc.loc)
}

// SalesStats estadísticas de ventas entre from y to (inclusivos; nil = sin límite).
func (uc *ReportUseCase) SalesStats(ctx context.Context, from, to *time.Time) (*dto.SalesStatsDTO, error) {
	f, t := dayRange(from, to, uc.loc)
	sales, err := uc.saleRepo.List(ctx, repository.SaleFilter{From: f, To: t})
	if err != nil {
		return nil, fmt.Errorf("reportes: ventas: %w", err)
	}
	stats := SummarizeSales(sales, uc.loc)
	return &stats, nil
}

// MonthlyReport totales del mes y top 10 productos por ingreso.
func (uc *ReportUseCase) MonthlyReport(ctx context.Context, year, month int) (*dto.MonthlyReportDTO, error) {
	if month < 1 || month > 12 || year < 1 {
		return nil, fmt.Errorf("%w: mes inválido %d-%d", domain.ErrInvalidInput, year, month)
	}
	start := monthStart(year, time.Month(month), uc.loc)
	end := start.AddDate(0, 1, 0)

	var (
		sales    []*entity.Sale
		products []*entity.Product
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sales, err = uc.saleRepo.List(gctx, repository.SaleFilter{From: &start, To: &end})
		if err != nil {
			return fmt.Errorf("reportes: ventas del mes: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		products, err = uc.productRepo.List(gctx, 0, 0)
		if err != nil {
			return fmt.Errorf("reportes: productos: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := SummarizeSales(sales, uc.loc)
	ranked := RankProducts(stats.ProductStats, namesOf(products))
	if len(ranked) > monthlyTopProducts {
		ranked = ranked[:monthlyTopProducts]
	}
	top := make([]dto.TopProductDTO, 0, len(ranked))
	for _, r := range ranked {
		top = append(top, dto.TopProductDTO{
			ProductID:    r.ProductID,
			ProductName:  r.ProductName,
			QuantitySold: r.QuantitySold,
			Revenue:      r.Revenue,
			Profit:       r.Profit,
		})
	}

	return &dto.MonthlyReportDTO{
		Month:       start.Format(monthLayout),
		MonthLabel:  monthLabel(start),
		TotalSales:  stats.TotalRevenue,
		TotalCOGS:   stats.TotalCOGS,
		TotalProfit: stats.TotalProfit,
		SalesCount:  stats.TotalSales,
		TopProducts: top,
	}, nil
}

// MonthlyReportPDF genera el PDF del reporte mensual.
func (uc *ReportUseCase) MonthlyReportPDF(ctx context.Context, year, month int) ([]byte, error) {
	if uc.pdf == nil {
		return nil, fmt.Errorf("generador de PDF no configurado")
	}
	report, err := uc.MonthlyReport(ctx, year, month)
	if err != nil {
		return nil, err
	}
	return uc.pdf.GenerateMonthlyReport(report)
}

// ProfitTrend un punto por mes, del más antiguo al más reciente, terminando en endYear-endMonth.
// months <= 0 usa 12; endYear == 0 usa el mes actual.
func (uc *ReportUseCase) ProfitTrend(ctx context.Context, endYear, endMonth, months int) ([]dto.ProfitTrendPointDTO, error) {
	if months <= 0 {
		months = defaultTrendMonths
	}
	if months > maxTrendMonths {
		return nil, fmt.Errorf("%w: máximo %d meses", domain.ErrInvalidInput, maxTrendMonths)
	}
	if endYear == 0 {
		now := uc.Now()
		endYear, endMonth = now.Year(), int(now.Month())
	}
	if endMonth < 1 || endMonth > 12 {
		return nil, fmt.Errorf("%w: mes inválido %d", domain.ErrInvalidInput, endMonth)
	}

	last := monthStart(endYear, time.Month(endMonth), uc.loc)
	first := last.AddDate(0, -(months - 1), 0)
	end := last.AddDate(0, 1, 0)

	sales, err := uc.saleRepo.List(ctx, repository.SaleFilter{From: &first, To: &end})
	if err != nil {
		return nil, fmt.Errorf("reportes: tendencia: %w", err)
	}
	byMonth := make(map[string][]*entity.Sale, months)
	for _, s := range sales {
		key := s.SaleDate.In(uc.loc).Format(monthLayout)
		byMonth[key] = append(byMonth[key], s)
	}

	points := make([]dto.ProfitTrendPointDTO, 0, months)
	for i := 0; i < months; i++ {
		m := first.AddDate(0, i, 0)
		key := m.Format(monthLayout)
		stats := SummarizeSales(byMonth[key], uc.loc)
		points = append(points, dto.ProfitTrendPointDTO{
			Month:        key,
			MonthLabel:   monthLabel(m),
			Sales:        stats.TotalRevenue,
			COGS:         stats.TotalCOGS,
			Profit:       stats.TotalProfit,
			ProfitMargin: stats.ProfitMargin,
		})
	}
	return points, nil
}

// StockLevelReport stock actual, estado y valorización por producto.
func (uc *ReportUseCase) StockLevelReport(ctx context.Context) ([]dto.StockLevelDTO, error) {
	var (
		products []*entity.Product
		batches  []*entity.StockBatch
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = uc.productRepo.List(gctx, 0, 0)
		return err
	})
	g.Go(func() error {
		var err error
		batches, err = uc.batchRepo.ListAvailable(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("reportes: stock: %w", err)
	}
	return StockLevels(products, batches), nil
}

// ProductPerformance ventas por producto en el período, por ingreso descendente.
func (uc *ReportUseCase) ProductPerformance(ctx context.Context, from, to *time.Time) ([]dto.ProductPerformanceDTO, error) {
	stats, err := uc.SalesStats(ctx, from, to)
	if err != nil {
		return nil, err
	}
	products, err := uc.productRepo.List(ctx, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("reportes: productos: %w", err)
	}
	return RankProducts(stats.ProductStats, namesOf(products)), nil
}

// PurchaseAnalysis totales de compras y participación por proveedor.
func (uc *ReportUseCase) PurchaseAnalysis(ctx context.Context, from, to *time.Time) (*dto.PurchaseAnalysisDTO, error) {
	// purchase_date es DATE (medianoche UTC), no un instante
	f, t := dayRange(from, to, time.UTC)
	var (
		purchases []*entity.Purchase
		suppliers []*entity.Supplier
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		purchases, err = uc.purchaseRepo.List(gctx, repository.PurchaseFilter{From: f, To: t})
		return err
	})
	g.Go(func() error {
		var err error
		suppliers, err = uc.supplierRepo.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("reportes: compras: %w", err)
	}
	names := make(map[string]string, len(suppliers))
	for _, s := range suppliers {
		names[s.ID] = s.Name
	}
	out := BreakdownSuppliers(purchases, names)
	return &out, nil
}

// totalStockValue suma la valorización de todos los productos.
func totalStockValue(levels []dto.StockLevelDTO) decimal.Decimal {
	total := decimal.Zero
	for _, l := range levels {
		total = total.Add(l.StockValue)
	}
	return total
}
