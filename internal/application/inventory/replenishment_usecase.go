package inventory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/tokokita-api/internal/application/dto"
	"github.com/jhoicas/tokokita-api/internal/domain/inventory"
	"github.com/jhoicas/tokokita-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

const replenishmentWindowDays = 90

// ReplenishmentUseCase genera la lista de reposición.
// Combina stock actual con la ganancia de los últimos 90 días para priorizar.
type ReplenishmentUseCase struct {
	productRepo repository.ProductRepository
	batchRepo   repository.StockBatchRepository
	saleRepo    repository.SaleRepository
	now         func() time.Time
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(
	productRepo repository.ProductRepository,
	batchRepo repository.StockBatchRepository,
	saleRepo repository.SaleRepository,
) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{
		productRepo: productRepo,
		batchRepo:   batchRepo,
		saleRepo:    saleRepo,
		now:         time.Now,
	}
}

// GenerateReplenishmentList devuelve los productos en estado low u out con la cantidad
// sugerida de pedido y un ranking de prioridad.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context) ([]dto.ReplenishmentSuggestionDTO, error) {
	// 1. Stock actual por producto
	products, err := uc.productRepo.List(ctx, 0, 0)
	if err != nil {
		return nil, err
	}
	available, err := uc.batchRepo.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}
	stock := make(map[string]int64, len(products))
	for _, b := range available {
		stock[b.ProductID] += b.RemainingQuantity
	}

	// 2. Historial de ventas (últimos 90 días)
	from := uc.now().AddDate(0, 0, -replenishmentWindowDays)
	sales, err := uc.saleRepo.List(ctx, repository.SaleFilter{From: &from})
	if err != nil {
		return nil, err
	}
	type history struct {
		profit decimal.Decimal
		units  int64
	}
	byProduct := make(map[string]*history)
	for _, s := range sales {
		h, ok := byProduct[s.ProductID]
		if !ok {
			h = &history{profit: decimal.Zero}
			byProduct[s.ProductID] = h
		}
		h.profit = h.profit.Add(s.Profit)
		h.units += s.Quantity
	}

	// 3. Sugerencias para productos bajo mínimo
	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0)
	for _, p := range products {
		current := stock[p.ID]
		status := inventory.ClassifyStock(current, p.MinimumStock)
		if status == inventory.StockNormal {
			continue
		}

		// Último costo conocido: el lote más reciente, aunque esté agotado
		lastCost := decimal.Zero
		batches, err := uc.batchRepo.ListByProduct(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		if n := len(batches); n > 0 {
			lastCost = batches[n-1].UnitCost
		}

		qty := inventory.SuggestedOrderQuantity(current, p.MinimumStock)
		s := dto.ReplenishmentSuggestionDTO{
			ProductID:          p.ID,
			ProductName:        p.Name,
			Status:             string(status),
			CurrentStock:       current,
			MinimumStock:       p.MinimumStock,
			SuggestedOrderQty:  qty,
			LastUnitCost:       lastCost,
			EstimatedOrderCost: lastCost.Mul(decimal.NewFromInt(qty)),
			ProfitLast90Days:   decimal.Zero,
		}
		if h, ok := byProduct[p.ID]; ok {
			s.ProfitLast90Days = h.profit
			s.UnitsSoldLast90Days = h.units
		}
		suggestions = append(suggestions, s)
	}

	// 4. Ordenar: mayor ganancia reciente, luego mayor volumen, luego mayor déficit
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if !a.ProfitLast90Days.Equal(b.ProfitLast90Days) {
			return a.ProfitLast90Days.GreaterThan(b.ProfitLast90Days)
		}
		if a.UnitsSoldLast90Days != b.UnitsSoldLast90Days {
			return a.UnitsSoldLast90Days > b.UnitsSoldLast90Days
		}
		defA := a.MinimumStock - a.CurrentStock
		defB := b.MinimumStock - b.CurrentStock
		if defA != defB {
			return defA > defB
		}
		return strings.ToLower(a.ProductName) < strings.ToLower(b.ProductName)
	})

	// 5. Asignar prioridad (1 = más urgente)
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
