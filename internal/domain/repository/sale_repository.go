package repository

import (
	"context"
	"time"

	"github.com/jhoicas/tokokita-api/internal/domain/entity"
)

// SaleFilter filtra listados de ventas. Campos vacíos no filtran.
// From es inclusivo y To exclusivo, sobre la fecha de venta.
type SaleFilter struct {
	From      *time.Time
	To        *time.Time
	ProductID string
}

// SaleRepository persiste ventas liquidadas (solo inserción).
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	// List ordena por fecha de venta descendente.
	List(ctx context.Context, filter SaleFilter) ([]*entity.Sale, error)
}

// SaleBatchItemRepository persiste los consumos de lotes por venta.
type SaleBatchItemRepository interface {
	CreateMany(ctx context.Context, items []*entity.SaleBatchItem) error
	ListBySale(ctx context.Context, saleID string) ([]*entity.SaleBatchItem, error)
}
