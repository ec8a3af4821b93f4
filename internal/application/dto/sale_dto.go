package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SettleSaleRequest body para POST /api/sales.
type SettleSaleRequest struct {
	ProductID    string          `json:"product_id" validate:"required"`
	Quantity     int64           `json:"quantity" validate:"gt=0"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	SaleDate     string          `json:"sale_date"` // YYYY-MM-DD; por defecto ahora
	CustomerName string          `json:"customer_name"`
	Notes        string          `json:"notes"`
}

// AllocationLineDTO cuánto se tomó de cada lote.
type AllocationLineDTO struct {
	BatchID  string          `json:"batch_id"`
	Quantity int64           `json:"quantity"`
	UnitCost decimal.Decimal `json:"unit_cost"`
	Cost     decimal.Decimal `json:"cost"`
}

// SettleSaleResponse respuesta de POST /api/sales (201 si success, 409 si stock insuficiente).
type SettleSaleResponse struct {
	Success      bool                `json:"success"`
	SaleID       string              `json:"sale_id,omitempty"`
	Revenue      *decimal.Decimal    `json:"revenue,omitempty"`
	COGS         *decimal.Decimal    `json:"cogs,omitempty"`
	Profit       *decimal.Decimal    `json:"profit,omitempty"`
	ProfitMargin *decimal.Decimal    `json:"profit_margin,omitempty"`
	Lines        []AllocationLineDTO `json:"lines,omitempty"`
	AvailableQty int64               `json:"available_qty"`
	RequestedQty int64               `json:"requested_qty"`
	Shortfall    int64               `json:"shortfall,omitempty"`
	Message      string              `json:"message"`
}

// AvailabilityResponse respuesta de GET /api/sales/availability.
type AvailabilityResponse struct {
	CanFulfill    bool            `json:"can_fulfill"`
	AvailableQty  int64           `json:"available_qty"`
	RequestedQty  int64           `json:"requested_qty"`
	EstimatedCOGS decimal.Decimal `json:"estimated_cogs"`
	Message       string          `json:"message"`
}

// SaleResponse salida de una venta.
type SaleResponse struct {
	ID           string                     `json:"id"`
	ProductID    string                     `json:"product_id"`
	Quantity     int64                      `json:"quantity"`
	UnitPrice    decimal.Decimal            `json:"unit_price"`
	TotalRevenue decimal.Decimal            `json:"total_revenue"`
	COGS         decimal.Decimal            `json:"cogs"`
	Profit       decimal.Decimal            `json:"profit"`
	ProfitMargin decimal.Decimal            `json:"profit_margin"`
	SaleDate     time.Time                  `json:"sale_date"`
	CustomerName string                     `json:"customer_name,omitempty"`
	Notes        string                     `json:"notes,omitempty"`
	ReversalOf   *string                    `json:"reversal_of,omitempty"`
	CreatedAt    time.Time                  `json:"created_at"`
	Consumptions []BatchConsumptionResponse `json:"consumptions,omitempty"`
}
