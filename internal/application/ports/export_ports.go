package ports

import "github.com/jhoicas/tokokita-api/internal/application/dto"

// ReportPDFGenerator genera el PDF del reporte mensual.
type ReportPDFGenerator interface {
	GenerateMonthlyReport(report *dto.MonthlyReportDTO) ([]byte, error)
}

// SalesSheetExporter genera una hoja de cálculo con el listado de ventas.
// productNames traduce product_id a nombre; los faltantes se muestran con su ID.
type SalesSheetExporter interface {
	ExportSales(sales []dto.SaleResponse, productNames map[string]string) ([]byte, error)
}
