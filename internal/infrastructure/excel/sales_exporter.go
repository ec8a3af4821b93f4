// Package excel exporta listados a XLSX con excelize.
package excel

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/tokokita-api/internal/application/dto"
	"github.com/jhoicas/tokokita-api/internal/application/ports"
)

const salesSheet = "Ventas"

var salesHeadings = []any{
	"Fecha", "Producto", "Cliente", "Cantidad", "Precio unit.", "Ingreso", "Costo (COGS)", "Ganancia", "Margen %",
}

var _ ports.SalesSheetExporter = (*SalesExporter)(nil)

// SalesExporter implementa ports.SalesSheetExporter.
type SalesExporter struct{}

// NewSalesExporter construye el exportador.
func NewSalesExporter() *SalesExporter { return &SalesExporter{} }

// ExportSales escribe una fila por venta y una fila final de totales.
func (e *SalesExporter) ExportSales(sales []dto.SaleResponse, productNames map[string]string) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", salesSheet); err != nil {
		return nil, fmt.Errorf("excel: renombrar hoja: %w", err)
	}
	if err := f.SetSheetRow(salesSheet, "A1", &salesHeadings); err != nil {
		return nil, fmt.Errorf("excel: cabecera: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("excel: estilo: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(salesHeadings))
	_ = f.SetCellStyle(salesSheet, "A1", lastCol+"1", bold)

	var (
		qty     int64
		revenue = decimal.Zero
		cogs    = decimal.Zero
		profit  = decimal.Zero
	)
	for i, s := range sales {
		name, ok := productNames[s.ProductID]
		if !ok {
			name = s.ProductID
		}
		values := []any{
			s.SaleDate.Format("2006-01-02"),
			name,
			s.CustomerName,
			s.Quantity,
			s.UnitPrice.InexactFloat64(),
			s.TotalRevenue.InexactFloat64(),
			s.COGS.InexactFloat64(),
			s.Profit.InexactFloat64(),
			s.ProfitMargin.InexactFloat64(),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(salesSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("excel: fila %d: %w", i+2, err)
		}
		qty += s.Quantity
		revenue = revenue.Add(s.TotalRevenue)
		cogs = cogs.Add(s.COGS)
		profit = profit.Add(s.Profit)
	}

	totalRow := len(sales) + 2
	totals := []any{
		"TOTAL", "", "", qty, "",
		revenue.InexactFloat64(), cogs.InexactFloat64(), profit.InexactFloat64(), "",
	}
	cell, _ := excelize.CoordinatesToCellName(1, totalRow)
	if err := f.SetSheetRow(salesSheet, cell, &totals); err != nil {
		return nil, fmt.Errorf("excel: totales: %w", err)
	}
	_ = f.SetCellStyle(salesSheet, cell, fmt.Sprintf("%s%d", lastCol, totalRow), bold)
	_ = f.SetColWidth(salesSheet, "A", "C", 18)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("excel: escribir: %w", err)
	}
	return buf.Bytes(), nil
}
