package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/tokokita-api/internal/application/dto"
	"github.com/jhoicas/tokokita-api/internal/application/ports"
	"github.com/jhoicas/tokokita-api/internal/domain/repository"
)

// SaleQueryUseCase consultas de ventas ya liquidadas (más recientes primero).
type SaleQueryUseCase struct {
	saleRepo    repository.SaleRepository
	itemRepo    repository.SaleBatchItemRepository
	productRepo repository.ProductRepository
	exporter    ports.SalesSheetExporter
	loc         *time.Location
}

// NewSaleQueryUseCase construye el caso de uso. exporter puede ser nil (sin exportación).
// Las fechas de venta se filtran y devuelven en loc (nil = UTC).
func NewSaleQueryUseCase(
	saleRepo repository.SaleRepository,
	itemRepo repository.SaleBatchItemRepository,
	productRepo repository.ProductRepository,
	exporter ports.SalesSheetExporter,
	loc *time.Location,
) *SaleQueryUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &SaleQueryUseCase{saleRepo: saleRepo, itemRepo: itemRepo, productRepo: productRepo, exporter: exporter, loc: loc}
}

// GetByID devuelve la venta con sus consumos; nil si no existe.
func (uc *SaleQueryUseCase) GetByID(ctx context.Context, id string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(ctx, id)
	if err != nil || sale == nil {
		return nil, err
	}
	items, err := uc.itemRepo.ListBySale(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toSaleResponse(sale)
	out.SaleDate = out.SaleDate.In(uc.loc)
	out.Consumptions = make([]dto.BatchConsumptionResponse, 0, len(items))
	for _, it := range items {
		out.Consumptions = append(out.Consumptions, toConsumptionResponse(it))
	}
	return &out, nil
}

// List lista todas las ventas.
func (uc *SaleQueryUseCase) List(ctx context.Context) ([]dto.SaleResponse, error) {
	return uc.list(ctx, repository.SaleFilter{})
}

// ListByDateRange lista ventas entre from y to (ambos inclusivos; nil = sin límite).
func (uc *SaleQueryUseCase) ListByDateRange(ctx context.Context, from, to *time.Time) ([]dto.SaleResponse, error) {
	f, t := dayRange(from, to, uc.loc)
	return uc.list(ctx, repository.SaleFilter{From: f, To: t})
}

// ListByProduct lista las ventas de un producto.
func (uc *SaleQueryUseCase) ListByProduct(ctx context.Context, productID string) ([]dto.SaleResponse, error) {
	return uc.list(ctx, repository.SaleFilter{ProductID: productID})
}

func (uc *SaleQueryUseCase) list(ctx context.Context, f repository.SaleFilter) ([]dto.SaleResponse, error) {
	list, err := uc.saleRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		r := toSaleResponse(s)
		r.SaleDate = r.SaleDate.In(uc.loc)
		out = append(out, r)
	}
	return out, nil
}

// Export genera la hoja de ventas del rango indicado.
func (uc *SaleQueryUseCase) Export(ctx context.Context, from, to *time.Time) ([]byte, error) {
	if uc.exporter == nil {
		return nil, fmt.Errorf("exportación de ventas no configurada")
	}
	sales, err := uc.ListByDateRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	products, err := uc.productRepo.List(ctx, 0, 0)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}
	return uc.exporter.ExportSales(sales, names)
}
