package dto

import "github.com/shopspring/decimal"

// ── Query parameters ──────────────────────────────────────────────────────────

// DateRangeRequest parámetros start_date / end_date (YYYY-MM-DD, ambos inclusivos).
type DateRangeRequest struct {
	StartDate string `query:"start_date"`
	EndDate   string `query:"end_date"`
}

// ── Estadísticas de ventas ────────────────────────────────────────────────────

// SalesStatsDTO totales de ventas de un período.
type SalesStatsDTO struct {
	TotalSales   int                       `json:"total_sales"`
	TotalRevenue decimal.Decimal           `json:"total_revenue"`
	TotalCOGS    decimal.Decimal           `json:"total_cogs"`
	TotalProfit  decimal.Decimal           `json:"total_profit"`
	AverageSale  decimal.Decimal           `json:"average_sale"`
	ProfitMargin decimal.Decimal           `json:"profit_margin"` // TotalProfit / TotalRevenue * 100
	ProductStats map[string]ProductStatDTO `json:"product_stats"`
	DailySales   []DailySalesDTO           `json:"daily_sales"` // ordenado por fecha
}

// ProductStatDTO acumulado por producto.
type ProductStatDTO struct {
	QuantitySold int64           `json:"quantity_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
	Profit       decimal.Decimal `json:"profit"`
	SalesCount   int             `json:"sales_count"`
}

// DailySalesDTO acumulado por día.
type DailySalesDTO struct {
	Date    string          `json:"date"` // YYYY-MM-DD
	Revenue decimal.Decimal `json:"revenue"`
	Profit  decimal.Decimal `json:"profit"`
	Count   int             `json:"count"`
}

// ── Reporte mensual ───────────────────────────────────────────────────────────

// MonthlyReportDTO totales del mes y top 10 productos por ingreso.
type MonthlyReportDTO struct {
	Month       string          `json:"month"` // YYYY-MM
	MonthLabel  string          `json:"month_label"`
	TotalSales  decimal.Decimal `json:"total_sales"`
	TotalCOGS   decimal.Decimal `json:"total_cogs"`
	TotalProfit decimal.Decimal `json:"total_profit"`
	SalesCount  int             `json:"sales_count"`
	TopProducts []TopProductDTO `json:"top_products"`
}

// TopProductDTO producto del ranking mensual.
type TopProductDTO struct {
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	QuantitySold int64           `json:"quantity_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
	Profit       decimal.Decimal `json:"profit"`
}

// ProfitTrendPointDTO un punto de la tendencia mensual.
type ProfitTrendPointDTO struct {
	Month        string          `json:"month"` // YYYY-MM
	MonthLabel   string          `json:"month_label"`
	Sales        decimal.Decimal `json:"sales"`
	COGS         decimal.Decimal `json:"cogs"`
	Profit       decimal.Decimal `json:"profit"`
	ProfitMargin decimal.Decimal `json:"profit_margin"`
}

// ── Stock ─────────────────────────────────────────────────────────────────────

// StockLevelDTO nivel de stock de un producto.
type StockLevelDTO struct {
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	Unit         string          `json:"unit"`
	CurrentStock int64           `json:"current_stock"`
	MinStock     int64           `json:"min_stock"`
	Status       string          `json:"status"` // normal | low | out
	StockValue   decimal.Decimal `json:"stock_value"`
	AverageCOGS  decimal.Decimal `json:"average_cogs"`
}

// ── Rendimiento por producto ──────────────────────────────────────────────────

// ProductPerformanceDTO ventas de un producto en el período.
type ProductPerformanceDTO struct {
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	QuantitySold int64           `json:"quantity_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
	Profit       decimal.Decimal `json:"profit"`
	ProfitMargin decimal.Decimal `json:"profit_margin"`
	SalesCount   int             `json:"sales_count"`
}

// ── Compras ───────────────────────────────────────────────────────────────────

// PurchaseAnalysisDTO totales de compras y reparto por proveedor.
type PurchaseAnalysisDTO struct {
	TotalPurchases    int                    `json:"total_purchases"`
	TotalAmount       decimal.Decimal        `json:"total_amount"`
	AverageAmount     decimal.Decimal        `json:"average_amount"`
	SupplierBreakdown []SupplierBreakdownDTO `json:"supplier_breakdown"` // por monto desc
}

// SupplierBreakdownDTO participación de un proveedor en las compras.
type SupplierBreakdownDTO struct {
	SupplierID    string          `json:"supplier_id"` // "" = sin proveedor
	SupplierName  string          `json:"supplier_name"`
	PurchaseCount int             `json:"purchase_count"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Percentage    decimal.Decimal `json:"percentage"`
}

// ── Reposición ────────────────────────────────────────────────────────────────

// ReplenishmentSuggestionDTO sugerencia de reposición para un producto en estado low u out.
type ReplenishmentSuggestionDTO struct {
	ProductID           string          `json:"product_id"`
	ProductName         string          `json:"product_name"`
	Status              string          `json:"status"`
	CurrentStock        int64           `json:"current_stock"`
	MinimumStock        int64           `json:"minimum_stock"`
	SuggestedOrderQty   int64           `json:"suggested_order_qty"`  // mínimo * 1.5 - actual
	LastUnitCost        decimal.Decimal `json:"last_unit_cost"`       // costo del lote más reciente
	EstimatedOrderCost  decimal.Decimal `json:"estimated_order_cost"` // SuggestedOrderQty * LastUnitCost
	ProfitLast90Days    decimal.Decimal `json:"profit_last_90d"`
	UnitsSoldLast90Days int64           `json:"units_sold_last_90d"`
	Priority            int             `json:"priority"` // 1 = más urgente
}
