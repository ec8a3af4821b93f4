package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	appanalytics "github.com/jhoicas/tokokita-api/internal/application/analytics"
	appinv "github.com/jhoicas/tokokita-api/internal/application/inventory"
)

// ReportHandler reportes de ventas, márgenes, stock y reposición.
type ReportHandler struct {
	reports       *appanalytics.ReportUseCase
	replenishment *appinv.ReplenishmentUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(reports *appanalytics.ReportUseCase, replenishment *appinv.ReplenishmentUseCase) *ReportHandler {
	return &ReportHandler{reports: reports, replenishment: replenishment}
}

// yearMonth lee ?year=&month=, por defecto el mes en curso en la zona del negocio.
func (h *ReportHandler) yearMonth(c *fiber.Ctx) (int, int) {
	now := h.reports.Now()
	return c.QueryInt("year", now.Year()), c.QueryInt("month", int(now.Month()))
}

// SalesStats godoc
// @Summary      Estadísticas de ventas
// @Tags         reports
// @Produce      json
// @Param        start_date  query  string  false  "Desde (YYYY-MM-DD)"
// @Param        end_date    query  string  false  "Hasta inclusive (YYYY-MM-DD)"
// @Success      200  {object}  dto.SalesStatsDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/sales-stats [get]
func (h *ReportHandler) SalesStats(c *fiber.Ctx) error {
	from, to, err := dateRange(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.reports.SalesStats(c.UserContext(), from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Monthly godoc
// @Summary      Reporte mensual
// @Tags         reports
// @Produce      json
// @Param        year   query  int  false  "Año (por defecto el actual)"
// @Param        month  query  int  false  "Mes 1-12 (por defecto el actual)"
// @Success      200  {object}  dto.MonthlyReportDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/monthly [get]
func (h *ReportHandler) Monthly(c *fiber.Ctx) error {
	year, month := h.yearMonth(c)
	out, err := h.reports.MonthlyReport(c.UserContext(), year, month)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// MonthlyPDF godoc
// @Summary      Reporte mensual en PDF
// @Tags         reports
// @Produce      application/pdf
// @Param        year   query  int  false  "Año"
// @Param        month  query  int  false  "Mes 1-12"
// @Success      200  {file}    file
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/monthly.pdf [get]
func (h *ReportHandler) MonthlyPDF(c *fiber.Ctx) error {
	year, month := h.yearMonth(c)
	body, err := h.reports.MonthlyReportPDF(c.UserContext(), year, month)
	if err != nil {
		return writeError(c, err)
	}
	return attachment(c, "application/pdf", fmt.Sprintf("reporte_%04d-%02d.pdf", year, month), body)
}

// ProfitTrend godoc
// @Summary      Tendencia mensual de beneficio
// @Tags         reports
// @Produce      json
// @Param        months  query  int  false  "Meses hacia atrás (1-60)"  default(12)
// @Param        year    query  int  false  "Año del último mes"
// @Param        month   query  int  false  "Último mes 1-12"
// @Success      200  {array}   dto.ProfitTrendPointDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/profit-trend [get]
func (h *ReportHandler) ProfitTrend(c *fiber.Ctx) error {
	year, month := h.yearMonth(c)
	out, err := h.reports.ProfitTrend(c.UserContext(), year, month, c.QueryInt("months", 0))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// StockLevels godoc
// @Summary      Niveles de stock y valorización
// @Tags         reports
// @Produce      json
// @Success      200  {array}  dto.StockLevelDTO
// @Router       /api/reports/stock-levels [get]
func (h *ReportHandler) StockLevels(c *fiber.Ctx) error {
	out, err := h.reports.StockLevelReport(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ProductPerformance godoc
// @Summary      Rendimiento por producto
// @Tags         reports
// @Produce      json
// @Param        start_date  query  string  false  "Desde (YYYY-MM-DD)"
// @Param        end_date    query  string  false  "Hasta inclusive (YYYY-MM-DD)"
// @Success      200  {array}   dto.ProductPerformanceDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/product-performance [get]
func (h *ReportHandler) ProductPerformance(c *fiber.Ctx) error {
	from, to, err := dateRange(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.reports.ProductPerformance(c.UserContext(), from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// PurchaseAnalysis godoc
// @Summary      Análisis de compras por proveedor
// @Tags         reports
// @Produce      json
// @Param        start_date  query  string  false  "Desde (YYYY-MM-DD)"
// @Param        end_date    query  string  false  "Hasta inclusive (YYYY-MM-DD)"
// @Success      200  {object}  dto.PurchaseAnalysisDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/purchase-analysis [get]
func (h *ReportHandler) PurchaseAnalysis(c *fiber.Ctx) error {
	from, to, err := dateRange(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.reports.PurchaseAnalysis(c.UserContext(), from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Replenishment godoc
// @Summary      Sugerencias de reposición
// @Description  Productos bajo el stock mínimo, con cantidad sugerida y prioridad según las ventas de los últimos 90 días.
// @Tags         reports
// @Produce      json
// @Success      200  {array}  dto.ReplenishmentSuggestionDTO
// @Router       /api/reports/replenishment [get]
func (h *ReportHandler) Replenishment(c *fiber.Ctx) error {
	out, err := h.replenishment.GenerateReplenishmentList(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
