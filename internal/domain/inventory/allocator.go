package inventory

import (
	"fmt"
	"math"
	"time"

	"github.com/jhoicas/tokokita-api/internal/domain"
	"github.com/shopspring/decimal"
)

// AvailableBatch es la vista mínima de un lote que necesita el asignador FIFO.
type AvailableBatch struct {
	BatchID   string
	Available int64
	UnitCost  decimal.Decimal
	BatchDate time.Time
	Seq       int64
}

// AllocationLine indica cuántas unidades se toman de un lote y a qué costo.
type AllocationLine struct {
	BatchID  string
	Quantity int64
	UnitCost decimal.Decimal
}

// Cost devuelve Quantity * UnitCost.
func (l AllocationLine) Cost() decimal.Decimal {
	return l.UnitCost.Mul(decimal.NewFromInt(l.Quantity))
}

// Allocation es el resultado de una asignación. Fulfilled es la etiqueta:
// si es false, Lines está vacío y TotalCost es cero.
type Allocation struct {
	Fulfilled bool
	Lines     []AllocationLine
	TotalCost decimal.Decimal
	Available int64 // total disponible en los lotes recibidos
	Requested int64
}

// Shortfall devuelve las unidades faltantes (0 si la asignación se cumplió).
func (a Allocation) Shortfall() int64 {
	if a.Fulfilled || a.Available >= a.Requested {
		return 0
	}
	return a.Requested - a.Available
}

// Allocate reparte requested unidades sobre batches en el orden recibido (más antiguo primero).
// Los lotes deben venir filtrados (Available > 0) y ordenados por (BatchDate, Seq); ver OrderForAllocation.
// Es una función pura: no modifica batches.
func Allocate(batches []AvailableBatch, requested int64) (Allocation, error) {
	if requested <= 0 {
		return Allocation{}, fmt.Errorf("%w: la cantidad solicitada debe ser mayor a cero", domain.ErrInvalidInput)
	}

	var total int64
	for _, b := range batches {
		if b.Available <= 0 {
			return Allocation{}, fmt.Errorf("%w: lote %s sin unidades disponibles", domain.ErrInvalidInput, b.BatchID)
		}
		if b.UnitCost.IsNegative() {
			return Allocation{}, fmt.Errorf("%w: lote %s con costo negativo", domain.ErrInvalidInput, b.BatchID)
		}
		total = addQty(total, b.Available)
	}

	if total < requested {
		return Allocation{
			Fulfilled: false,
			TotalCost: decimal.Zero,
			Available: total,
			Requested: requested,
		}, nil
	}

	remaining := requested
	cost := decimal.Zero
	lines := make([]AllocationLine, 0, len(batches))
	for _, b := range batches {
		if remaining == 0 {
			break
		}
		drawn := min(b.Available, remaining)
		line := AllocationLine{BatchID: b.BatchID, Quantity: drawn, UnitCost: b.UnitCost}
		cost = cost.Add(line.Cost())
		lines = append(lines, line)
		remaining -= drawn
	}

	return Allocation{
		Fulfilled: true,
		Lines:     lines,
		TotalCost: cost,
		Available: total,
		Requested: requested,
	}, nil
}

// addQty suma cantidades no negativas saturando en MaxInt64 en lugar de desbordar.
func addQty(a, b int64) int64 {
	if b > math.MaxInt64-a {
		return math.MaxInt64
	}
	return a + b
}
