package repository

import (
	"context"
	"time"

	"github.com/jhoicas/tokokita-api/internal/domain/entity"
)

// PurchaseFilter filtra listados de compras. Campos vacíos no filtran.
// From es inclusivo y To exclusivo, sobre la fecha de compra.
type PurchaseFilter struct {
	From       *time.Time
	To         *time.Time
	SupplierID string
	ProductID  string
}

// PurchaseRepository define el puerto de persistencia para Purchase.
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *entity.Purchase) error
	GetByID(ctx context.Context, id string) (*entity.Purchase, error)
	// List ordena por fecha de compra descendente.
	List(ctx context.Context, filter PurchaseFilter) ([]*entity.Purchase, error)
	Delete(ctx context.Context, id string) error
}
