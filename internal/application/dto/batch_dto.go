package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateBatchRequest body para POST /api/batches: alta directa de stock sin compra asociada.
type CreateBatchRequest struct {
	ProductID  string          `json:"product_id" validate:"required"`
	SupplierID *string         `json:"supplier_id,omitempty"`
	Quantity   int64           `json:"quantity" validate:"gt=0"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	BatchDate  string          `json:"batch_date"` // YYYY-MM-DD; por defecto hoy
	ExpiryDate *string         `json:"expiry_date,omitempty"`
}

// UpdateBatchRequest body para PUT /api/batches/:id. Solo correcciones; las cantidades no se editan.
type UpdateBatchRequest struct {
	UnitCost   *decimal.Decimal `json:"unit_cost"`
	BatchDate  *string          `json:"batch_date"`  // YYYY-MM-DD
	ExpiryDate *string          `json:"expiry_date"` // YYYY-MM-DD; "" lo elimina
}

// BatchResponse salida de un lote.
type BatchResponse struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"product_id"`
	PurchaseID        *string         `json:"purchase_id,omitempty"`
	SupplierID        *string         `json:"supplier_id,omitempty"`
	Seq               int64           `json:"seq"`
	Quantity          int64           `json:"quantity"`
	RemainingQuantity int64           `json:"remaining_quantity"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	BatchDate         time.Time       `json:"batch_date"`
	ExpiryDate        *time.Time      `json:"expiry_date,omitempty"`
	Exhausted         bool            `json:"exhausted"`
	CreatedAt         time.Time       `json:"created_at"`
}

// BatchConsumptionResponse consumo de un lote por una venta.
type BatchConsumptionResponse struct {
	ID           string          `json:"id"`
	SaleID       string          `json:"sale_id"`
	StockBatchID string          `json:"stock_batch_id"`
	QuantityUsed int64           `json:"quantity_used"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	Cost         decimal.Decimal `json:"cost"`
}
