package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePurchaseRequest body para POST /api/purchases.
type CreatePurchaseRequest struct {
	ProductID     string          `json:"product_id" validate:"required"`
	SupplierID    *string         `json:"supplier_id,omitempty"`
	Quantity      int64           `json:"quantity" validate:"gt=0"`
	PurchasePrice decimal.Decimal `json:"purchase_price"` // costo unitario
	PurchaseDate  string          `json:"purchase_date"`  // YYYY-MM-DD; por defecto hoy
	ExpiryDate    *string         `json:"expiry_date,omitempty"`
	Notes         string          `json:"notes"`
}

// PurchaseResponse salida de una compra.
type PurchaseResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	SupplierID    *string         `json:"supplier_id,omitempty"`
	Quantity      int64           `json:"quantity"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PurchaseDate  time.Time       `json:"purchase_date"`
	Notes         string          `json:"notes"`
	BatchID       string          `json:"batch_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}
