package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase registra una compra a proveedor. Cada compra produce exactamente un lote.
type Purchase struct {
	ID            string
	ProductID     string
	SupplierID    *string
	Quantity      int64
	PurchasePrice decimal.Decimal // costo unitario
	TotalAmount   decimal.Decimal // Quantity * PurchasePrice
	PurchaseDate  time.Time
	Notes         string
	BatchID       string // lote generado (se resuelve por join)
	CreatedAt     time.Time
}
