package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
type DashboardSummaryDTO struct {
	TotalProducts      int             `json:"total_products"`
	LowStockProducts   int             `json:"low_stock_products"`
	OutOfStockProducts int             `json:"out_of_stock_products"`
	TotalStockValue    decimal.Decimal `json:"total_stock_value"`

	// Métricas del día actual
	TodaySales  decimal.Decimal `json:"today_sales"`
	TodayProfit decimal.Decimal `json:"today_profit"`

	// Mes en curso contra mes anterior
	MonthlyProfit decimal.Decimal `json:"monthly_profit"`
	ProfitGrowth  decimal.Decimal `json:"profit_growth"` // %; 0 si el mes anterior no tuvo ganancia

	DateLabel string `json:"date_label"` // ej: "Febrero 2026"
}
