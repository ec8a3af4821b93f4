package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo.
// El stock no vive aquí: es la suma de RemainingQuantity de sus lotes.
type Product struct {
	ID           string
	Name         string
	Description  string
	Category     string
	Unit         string          // "pcs", "kg", ...
	SellingPrice decimal.Decimal // precio de venta sugerido
	MinimumStock int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
