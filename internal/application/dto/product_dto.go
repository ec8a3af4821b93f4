package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Name         string          `json:"name" validate:"required,min=1,max=200"`
	Description  string          `json:"description"`
	Category     string          `json:"category"`
	Unit         string          `json:"unit"` // por defecto "pcs"
	SellingPrice decimal.Decimal `json:"selling_price"`
	MinimumStock int64           `json:"minimum_stock" validate:"gte=0"`
}

// UpdateProductRequest entrada para actualizar un producto. El stock se maneja vía compras y ventas.
type UpdateProductRequest struct {
	Name         *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description  *string          `json:"description"`
	Category     *string          `json:"category"`
	Unit         *string          `json:"unit"`
	SellingPrice *decimal.Decimal `json:"selling_price"`
	MinimumStock *int64           `json:"minimum_stock" validate:"omitempty,gte=0"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Category     string          `json:"category"`
	Unit         string          `json:"unit"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	MinimumStock int64           `json:"minimum_stock"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ProductWithStockResponse producto con su stock actual (suma de remanentes).
type ProductWithStockResponse struct {
	ProductResponse
	TotalStock int64 `json:"total_stock"`
	LowStock   bool  `json:"low_stock"` // total <= mínimo
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductWithStockResponse `json:"items"`
	Page  PageResponse               `json:"page"`
}
