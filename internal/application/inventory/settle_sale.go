package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/jhoicas/tokokita-api/internal/domain"
	"github.com/jhoicas/tokokita-api/internal/domain/entity"
	"github.com/jhoicas/tokokita-api/internal/domain/inventory"
	"github.com/jhoicas/tokokita-api/internal/domain/repository"
	"github.com/jhoicas/tokokita-api/pkg/logger"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// SettlementOptions parámetros de reintento ante modificación concurrente.
type SettlementOptions struct {
	MaxRetries int            // reintentos tras el primer intento
	RetryBase  time.Duration  // espera inicial del backoff exponencial
	Location   *time.Location // zona del negocio para fechas sin hora; nil = UTC
}

// SettleSaleUseCase liquida ventas contra los lotes FIFO del producto.
// Bloquea el producto, asigna, registra venta y consumos y decrementa lotes en una sola transacción.
type SettleSaleUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	batchRepo   repository.StockBatchRepository
	locker      ProductLocker
	log         *logger.Logger
	opts        SettlementOptions
	now         func() time.Time
}

// NewSettleSaleUseCase construye el caso de uso.
func NewSettleSaleUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	batchRepo repository.StockBatchRepository,
	locker ProductLocker,
	log *logger.Logger,
	opts SettlementOptions,
) *SettleSaleUseCase {
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.RetryBase <= 0 {
		opts.RetryBase = 20 * time.Millisecond
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &SettleSaleUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		batchRepo:   batchRepo,
		locker:      locker,
		log:         log,
		opts:        opts,
		now:         time.Now,
	}
}

// SettleSaleInput datos de la venta a liquidar. SaleDate cero = ahora.
type SettleSaleInput struct {
	ProductID    string
	Quantity     int64
	UnitPrice    decimal.Decimal
	SaleDate     time.Time
	CustomerName string
	Notes        string
}

func (in SettleSaleInput) validate() error {
	if in.ProductID == "" {
		return fmt.Errorf("%w: product_id es obligatorio", domain.ErrInvalidInput)
	}
	if in.Quantity <= 0 {
		return fmt.Errorf("%w: la cantidad debe ser mayor a cero", domain.ErrInvalidInput)
	}
	return inventory.ValidateMoney("el precio", in.UnitPrice)
}

// SettlementResult resultado de Settle. Success=false significa stock insuficiente:
// no se escribió nada y solo AvailableQty/RequestedQty/Message son relevantes.
type SettlementResult struct {
	Success      bool
	SaleID       string
	ProductID    string
	Quantity     int64
	Revenue      decimal.Decimal
	COGS         decimal.Decimal
	Profit       decimal.Decimal
	ProfitMargin decimal.Decimal
	Lines        []inventory.AllocationLine
	AvailableQty int64
	RequestedQty int64
	Message      string
}

// Shortfall unidades faltantes cuando la venta no pudo liquidarse.
func (r *SettlementResult) Shortfall() int64 {
	if r.Success || r.AvailableQty >= r.RequestedQty {
		return 0
	}
	return r.RequestedQty - r.AvailableQty
}

// Err devuelve domain.ErrInsufficientStock envuelto si la liquidación falló, nil si no.
func (r *SettlementResult) Err() error {
	if r.Success {
		return nil
	}
	return fmt.Errorf("%w: disponible %d, solicitado %d", domain.ErrInsufficientStock, r.AvailableQty, r.RequestedQty)
}

// Settle liquida la venta. Stock insuficiente no es error: devuelve Success=false.
// Errores: domain.ErrInvalidInput (incl. ErrUnknownProduct), domain.ErrConcurrentModification
// (reintentos agotados) y domain.ErrPersistence.
func (uc *SettleSaleUseCase) Settle(ctx context.Context, in SettleSaleInput) (*SettlementResult, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	product, err := uc.productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	if product == nil {
		return nil, domain.ErrUnknownProduct
	}
	switch {
	case in.SaleDate.IsZero():
		in.SaleDate = uc.now()
	case entity.IsDateOnly(in.SaleDate):
		// "2026-10-18" es ese día en la zona del negocio, no en UTC
		in.SaleDate = entity.DayIn(in.SaleDate, uc.opts.Location)
	}

	unlock, err := uc.locker.Lock(ctx, in.ProductID)
	if err != nil {
		return nil, fmt.Errorf("bloquear producto %s: %w", in.ProductID, err)
	}
	defer unlock()

	var (
		result  *SettlementResult
		attempt int
	)
	op := func() error {
		attempt++
		res, err := uc.settleOnce(ctx, in)
		if err == nil {
			result = res
			return nil
		}
		if errors.Is(err, domain.ErrConcurrentModification) {
			uc.log.Warn().
				Str("product_id", in.ProductID).
				Int("attempt", attempt).
				Msg("conflicto de concurrencia al liquidar venta, reintentando")
			return err
		}
		return backoff.Permanent(err)
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = uc.opts.RetryBase
	policy.MaxElapsedTime = 0
	retry := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(uc.opts.MaxRetries)), ctx)

	if err := backoff.Retry(op, retry); err != nil {
		uc.log.Error().Err(err).
			Str("product_id", in.ProductID).
			Int("attempt", attempt).
			Msg("liquidación de venta fallida")
		return nil, err
	}

	if result.Success {
		uc.log.Info().
			Str("sale_id", result.SaleID).
			Str("product_id", in.ProductID).
			Int64("quantity", in.Quantity).
			Str("cogs", result.COGS.String()).
			Msg("venta liquidada")
	}
	return result, nil
}

// settleOnce ejecuta un intento completo dentro de una transacción.
func (uc *SettleSaleUseCase) settleOnce(ctx context.Context, in SettleSaleInput) (*SettlementResult, error) {
	var result *SettlementResult

	err := uc.txRunner.RunSettlement(ctx, func(
		batchRepo repository.StockBatchRepository,
		saleRepo repository.SaleRepository,
		itemRepo repository.SaleBatchItemRepository,
	) error {
		batches, err := batchRepo.LoadAvailable(ctx, in.ProductID)
		if err != nil {
			return fmt.Errorf("%w: cargar lotes: %w", domain.ErrPersistence, err)
		}
		ordered := inventory.OrderForAllocation(batches)

		alloc, err := inventory.Allocate(ordered, in.Quantity)
		if err != nil {
			return err
		}
		if !alloc.Fulfilled {
			result = insufficientResult(in, alloc)
			return nil
		}

		now := uc.now()
		sale := newSale(in, alloc, now)
		if err := saleRepo.Create(ctx, sale); err != nil {
			return fmt.Errorf("%w: registrar venta: %w", domain.ErrPersistence, err)
		}

		items := make([]*entity.SaleBatchItem, 0, len(alloc.Lines))
		for _, l := range alloc.Lines {
			items = append(items, &entity.SaleBatchItem{
				ID:           uuid.New().String(),
				SaleID:       sale.ID,
				StockBatchID: l.BatchID,
				QuantityUsed: l.Quantity,
				UnitCost:     l.UnitCost,
			})
		}
		if err := itemRepo.CreateMany(ctx, items); err != nil {
			return fmt.Errorf("%w: registrar consumos: %w", domain.ErrPersistence, err)
		}

		// Decremento condicionado al remanente leído: si otro escritor lo tocó, conflicto y reintento.
		expected := make(map[string]int64, len(ordered))
		for _, b := range ordered {
			expected[b.BatchID] = b.Available
		}
		for _, l := range alloc.Lines {
			if _, err := batchRepo.DecrementRemaining(ctx, l.BatchID, l.Quantity, expected[l.BatchID]); err != nil {
				if errors.Is(err, domain.ErrConcurrentModification) {
					return err
				}
				return fmt.Errorf("%w: descontar lote %s: %w", domain.ErrPersistence, l.BatchID, err)
			}
		}

		result = &SettlementResult{
			Success:      true,
			SaleID:       sale.ID,
			ProductID:    in.ProductID,
			Quantity:     in.Quantity,
			Revenue:      sale.TotalRevenue,
			COGS:         sale.COGS,
			Profit:       sale.Profit,
			ProfitMargin: sale.ProfitMargin,
			Lines:        alloc.Lines,
			AvailableQty: alloc.Available,
			RequestedQty: in.Quantity,
			Message:      "venta registrada",
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrConcurrentModification) ||
			errors.Is(err, domain.ErrPersistence) ||
			errors.Is(err, domain.ErrInvalidInput) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	return result, nil
}

func newSale(in SettleSaleInput, alloc inventory.Allocation, now time.Time) *entity.Sale {
	revenue := in.UnitPrice.Mul(decimal.NewFromInt(in.Quantity))
	profit := revenue.Sub(alloc.TotalCost)
	return &entity.Sale{
		ID:           uuid.New().String(),
		ProductID:    in.ProductID,
		Quantity:     in.Quantity,
		UnitPrice:    in.UnitPrice,
		TotalRevenue: revenue,
		COGS:         alloc.TotalCost,
		Profit:       profit,
		ProfitMargin: marginPct(profit, revenue),
		SaleDate:     in.SaleDate,
		CustomerName: in.CustomerName,
		Notes:        in.Notes,
		CreatedAt:    now,
	}
}

func insufficientResult(in SettleSaleInput, alloc inventory.Allocation) *SettlementResult {
	return &SettlementResult{
		Success:      false,
		ProductID:    in.ProductID,
		Quantity:     in.Quantity,
		AvailableQty: alloc.Available,
		RequestedQty: alloc.Requested,
		Message:      fmt.Sprintf("stock insuficiente: disponible %d, solicitado %d", alloc.Available, alloc.Requested),
	}
}

// marginPct = profit / revenue * 100 con 2 decimales; 0 si no hay ingreso.
func marginPct(profit, revenue decimal.Decimal) decimal.Decimal {
	if !revenue.IsPositive() {
		return decimal.Zero
	}
	return profit.Div(revenue).Mul(hundred).Round(2)
}

// AvailabilityResult resultado de una simulación de venta.
type AvailabilityResult struct {
	CanFulfill    bool
	AvailableQty  int64
	RequestedQty  int64
	EstimatedCOGS decimal.Decimal
	Message       string
}

// ProbeAvailability simula la asignación sin bloquear ni escribir. Repetirla no cambia nada.
func (uc *SettleSaleUseCase) ProbeAvailability(ctx context.Context, productID string, quantity int64) (*AvailabilityResult, error) {
	if productID == "" {
		return nil, fmt.Errorf("%w: product_id es obligatorio", domain.ErrInvalidInput)
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: la cantidad debe ser mayor a cero", domain.ErrInvalidInput)
	}
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	if product == nil {
		return nil, domain.ErrUnknownProduct
	}

	batches, err := uc.batchRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	alloc, err := inventory.Allocate(inventory.OrderForAllocation(batches), quantity)
	if err != nil {
		return nil, err
	}

	res := &AvailabilityResult{
		CanFulfill:    alloc.Fulfilled,
		AvailableQty:  alloc.Available,
		RequestedQty:  quantity,
		EstimatedCOGS: alloc.TotalCost,
		Message:       "stock suficiente",
	}
	if !alloc.Fulfilled {
		res.Message = fmt.Sprintf("stock insuficiente: disponible %d, solicitado %d", alloc.Available, quantity)
	}
	return res, nil
}
