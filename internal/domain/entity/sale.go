package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale es una transacción de venta ya liquidada. Inmutable tras su creación.
type Sale struct {
	ID           string
	ProductID    string
	Quantity     int64
	UnitPrice    decimal.Decimal
	TotalRevenue decimal.Decimal
	COGS         decimal.Decimal
	Profit       decimal.Decimal
	ProfitMargin decimal.Decimal // porcentaje, 2 decimales
	SaleDate     time.Time
	CustomerName string
	Notes        string
	ReversalOf   *string // venta que esta revierte, si aplica
	CreatedAt    time.Time
}

// SaleBatchItem es el consumo de un lote por una venta.
// UnitCost se copia al momento de la asignación; editar el lote después no lo altera.
type SaleBatchItem struct {
	ID           string
	SaleID       string
	StockBatchID string
	QuantityUsed int64
	UnitCost     decimal.Decimal
}

// Cost devuelve QuantityUsed * UnitCost.
func (i *SaleBatchItem) Cost() decimal.Decimal {
	return i.UnitCost.Mul(decimal.NewFromInt(i.QuantityUsed))
}
