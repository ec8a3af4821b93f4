package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockBatch es un lote de inventario adquirido en una compra.
// RemainingQuantity solo disminuye (por liquidación de ventas) y nunca es negativo.
// Un lote agotado se conserva para auditoría.
type StockBatch struct {
	ID                string
	ProductID         string
	PurchaseID        *string
	SupplierID        *string
	Seq               int64 // secuencia de inserción, asignada por el almacenamiento
	Quantity          int64 // cantidad original
	RemainingQuantity int64
	UnitCost          decimal.Decimal
	BatchDate         time.Time
	ExpiryDate        *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsAvailable indica si el lote aún puede participar en una asignación FIFO.
func (b *StockBatch) IsAvailable() bool {
	return b.RemainingQuantity > 0
}

// IsUntouched indica que ninguna venta ha consumido el lote.
func (b *StockBatch) IsUntouched() bool {
	return b.RemainingQuantity == b.Quantity
}

// Value es el valor en inventario del remanente.
func (b *StockBatch) Value() decimal.Decimal {
	return b.UnitCost.Mul(decimal.NewFromInt(b.RemainingQuantity))
}
