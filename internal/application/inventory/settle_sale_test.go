package inventory_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinv "github.com/jhoicas/tokokita-api/internal/application/inventory"
	"github.com/jhoicas/tokokita-api/internal/domain"
	"github.com/jhoicas/tokokita-api/internal/domain/entity"
	"github.com/jhoicas/tokokita-api/internal/domain/repository"
	"github.com/jhoicas/tokokita-api/internal/infrastructure/memory"
	"github.com/jhoicas/tokokita-api/pkg/logger"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func day(n int) time.Time {
	return time.Date(2025, 8, n, 0, 0, 0, 0, time.UTC)
}

type fixture struct {
	store *memory.Store
	uc    *appinv.SettleSaleUseCase
}

func newFixture(t *testing.T, tx appinv.TxRunner) *fixture {
	t.Helper()
	store := memory.NewStore()
	if tx == nil {
		tx = store
	}
	if f, ok := tx.(*flakyTx); ok {
		f.Store = store
	}
	require.NoError(t, store.Products().Create(context.Background(), &entity.Product{ID: "p1", Name: "Kopi"}))
	uc := appinv.NewSettleSaleUseCase(tx, store.Products(), store.Batches(), appinv.NewLocalLocker(), logger.Nop(),
		appinv.SettlementOptions{MaxRetries: 3, RetryBase: time.Millisecond})
	return &fixture{store: store, uc: uc}
}

func (f *fixture) addBatch(t *testing.T, id string, qty, cost int64, d int) {
	t.Helper()
	require.NoError(t, f.store.Batches().Create(context.Background(), &entity.StockBatch{
		ID:                id,
		ProductID:         "p1",
		Quantity:          qty,
		RemainingQuantity: qty,
		UnitCost:          decimal.NewFromInt(cost),
		BatchDate:         day(d),
	}))
}

func (f *fixture) remaining(t *testing.T, id string) int64 {
	t.Helper()
	b, err := f.store.Batches().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, b)
	return b.RemainingQuantity
}

func (f *fixture) salesCount(t *testing.T) int {
	t.Helper()
	sales, err := f.store.Sales().List(context.Background(), repository.SaleFilter{})
	require.NoError(t, err)
	return len(sales)
}

func sell(qty, price int64) appinv.SettleSaleInput {
	return appinv.SettleSaleInput{ProductID: "p1", Quantity: qty, UnitPrice: decimal.NewFromInt(price), SaleDate: day(10)}
}

// flakyTx decora el store: inyecta conflictos en el decremento o falla la inserción de consumos.
type flakyTx struct {
	*memory.Store
	conflicts atomic.Int32
	itemsErr  error
}

func (f *flakyTx) RunSettlement(ctx context.Context, fn func(
	repository.StockBatchRepository, repository.SaleRepository, repository.SaleBatchItemRepository,
) error) error {
	return f.Store.RunSettlement(ctx, func(br repository.StockBatchRepository, sr repository.SaleRepository, ir repository.SaleBatchItemRepository) error {
		return fn(&flakyBatches{StockBatchRepository: br, tx: f}, sr, &flakyItems{SaleBatchItemRepository: ir, tx: f})
	})
}

type flakyBatches struct {
	repository.StockBatchRepository
	tx *flakyTx
}

func (b *flakyBatches) DecrementRemaining(ctx context.Context, id string, amount, expected int64) (int64, error) {
	if b.tx.conflicts.Load() != 0 {
		b.tx.conflicts.Add(-1)
		return 0, domain.ErrConcurrentModification
	}
	return b.StockBatchRepository.DecrementRemaining(ctx, id, amount, expected)
}

type flakyItems struct {
	repository.SaleBatchItemRepository
	tx *flakyTx
}

func (i *flakyItems) CreateMany(ctx context.Context, items []*entity.SaleBatchItem) error {
	if i.tx.itemsErr != nil {
		return i.tx.itemsErr
	}
	return i.SaleBatchItemRepository.CreateMany(ctx, items)
}

// ── Liquidación ──────────────────────────────────────────────────────────────

func TestSettle_EndToEnd(t *testing.T) {
	f := newFixture(t, nil)
	f.addBatch(t, "b1", 10, 1000, 1)
	f.addBatch(t, "b2", 10, 1200, 2)

	res, err := f.uc.Settle(context.Background(), sell(15, 1500))
	require.NoError(t, err)
	require.True(t, res.Success)

	assert.Equal(t, "16000", res.COGS.String())
	assert.Equal(t, "22500", res.Revenue.String())
	assert.Equal(t, "6500", res.Profit.String())
	assert.Equal(t, "28.89", res.ProfitMargin.String())
	assert.Equal(t, int64(0), f.remaining(t, "b1"))
	assert.Equal(t, int64(5), f.remaining(t, "b2"))

	items, err := f.store.SaleItems().ListBySale(context.Background(), res.SaleID)
	require.NoError(t, err)
	require.Len(t, items, 2)

	var used int64
	cost := decimal.Zero
	for _, it := range items {
		used += it.QuantityUsed
		cost = cost.Add(it.Cost())
	}
	assert.Equal(t, int64(15), used, "Σ consumos = cantidad vendida")
	assert.True(t, cost.Equal(res.COGS), "Σ costo de consumos = COGS")

	sale, err := f.store.Sales().GetByID(context.Background(), res.SaleID)
	require.NoError(t, err)
	require.NotNil(t, sale)
	assert.True(t, sale.COGS.Equal(res.COGS))
}

func TestSettle_OldestFirst(t *testing.T) {
	f := newFixture(t, nil)
	f.addBatch(t, "b1", 5, 100, 1)
	f.addBatch(t, "b2", 10, 120, 2)
	f.addBatch(t, "b3", 7, 150, 3)

	res, err := f.uc.Settle(context.Background(), sell(8, 200))
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Len(t, res.Lines, 2)

	assert.Equal(t, "b1", res.Lines[0].BatchID)
	assert.Equal(t, int64(5), res.Lines[0].Quantity)
	assert.Equal(t, "b2", res.Lines[1].BatchID)
	assert.Equal(t, int64(3), res.Lines[1].Quantity)
	assert.Equal(t, int64(7), f.remaining(t, "b2"))
	assert.Equal(t, int64(7), f.remaining(t, "b3"), "el lote más nuevo no se toca")
}

func TestSettle_InsufficientWritesNothing(t *testing.T) {
	f := newFixture(t, nil)
	f.addBatch(t, "b1", 5, 100, 1)
	f.addBatch(t, "b2", 10, 120, 2)
	f.addBatch(t, "b3", 7, 150, 3)

	res, err := f.uc.Settle(context.Background(), sell(23, 200))
	require.NoError(t, err, "stock insuficiente es un resultado, no un error")

	assert.False(t, res.Success)
	assert.Equal(t, int64(22), res.AvailableQty)
	assert.Equal(t, int64(23), res.RequestedQty)
	assert.Equal(t, int64(1), res.Shortfall())
	assert.ErrorIs(t, res.Err(), domain.ErrInsufficientStock)
	assert.Empty(t, res.SaleID)

	assert.Equal(t, 0, f.salesCount(t))
	assert.Equal(t, int64(5), f.remaining(t, "b1"))
	assert.Equal(t, int64(10), f.remaining(t, "b2"))
	assert.Equal(t, int64(7), f.remaining(t, "b3"))
}

func TestSettle_NoBatches(t *testing.T) {
	f := newFixture(t, nil)

	res, err := f.uc.Settle(context.Background(), sell(1, 100))
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, int64(0), res.AvailableQty)
}

func TestSettle_InvalidInput(t *testing.T) {
	f := newFixture(t, nil)
	f.addBatch(t, "b1", 5, 100, 1)

	tests := []struct {
		name string
		in   appinv.SettleSaleInput
		want error
	}{
		{"cantidad cero", sell(0, 100), domain.ErrInvalidInput},
		{"cantidad negativa", sell(-1, 100), domain.ErrInvalidInput},
		{"precio negativo", sell(1, -5), domain.ErrInvalidInput},
		{"precio con más de dos decimales", appinv.SettleSaleInput{ProductID: "p1", Quantity: 3, UnitPrice: decimal.RequireFromString("0.005")}, domain.ErrInvalidInput},
		{"sin producto", appinv.SettleSaleInput{Quantity: 1}, domain.ErrInvalidInput},
		{"producto desconocido", appinv.SettleSaleInput{ProductID: "nope", Quantity: 1}, domain.ErrUnknownProduct},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Settle(context.Background(), tt.in)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Equal(t, int64(5), f.remaining(t, "b1"))
}

func TestSettle_ZeroPriceAllowed(t *testing.T) {
	f := newFixture(t, nil)
	f.addBatch(t, "b1", 5, 100, 1)

	res, err := f.uc.Settle(context.Background(), sell(2, 0))
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.True(t, res.ProfitMargin.IsZero(), "margen 0 cuando no hay ingreso")
	assert.Equal(t, "-200", res.Profit.String())
}

func TestSettle_CentPrice(t *testing.T) {
	f := newFixture(t, nil)
	f.addBatch(t, "b1", 5, 100, 1)

	in := sell(3, 0)
	in.UnitPrice = decimal.RequireFromString("0.01")
	res, err := f.uc.Settle(context.Background(), in)
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, "0.03", res.Revenue.StringFixed(2))

	sale, err := f.store.Sales().GetByID(context.Background(), res.SaleID)
	require.NoError(t, err)
	assert.True(t, sale.TotalRevenue.Equal(sale.UnitPrice.Mul(decimal.NewFromInt(sale.Quantity))))
}

func TestSettle_DateOnlyUsesBusinessZone(t *testing.T) {
	wib := time.FixedZone("WIB", 7*3600)
	f := newFixture(t, nil)
	f.addBatch(t, "b1", 5, 100, 1)
	uc := appinv.NewSettleSaleUseCase(f.store, f.store.Products(), f.store.Batches(), appinv.NewLocalLocker(), logger.Nop(),
		appinv.SettlementOptions{Location: wib})

	res, err := uc.Settle(context.Background(), sell(1, 150)) // fecha 2025-08-10 sin hora
	require.NoError(t, err)
	require.True(t, res.Success)

	sale, err := f.store.Sales().GetByID(context.Background(), res.SaleID)
	require.NoError(t, err)
	assert.True(t, sale.SaleDate.Equal(time.Date(2025, 8, 10, 0, 0, 0, 0, wib)))
}

func TestSettle_CostDeterminismAfterBatchEdit(t *testing.T) {
	f := newFixture(t, nil)
	f.addBatch(t, "b1", 10, 1000, 1)
	ctx := context.Background()

	res, err := f.uc.Settle(ctx, sell(4, 1500))
	require.NoError(t, err)
	require.True(t, res.Success)

	b, err := f.store.Batches().GetByID(ctx, "b1")
	require.NoError(t, err)
	b.UnitCost = decimal.NewFromInt(5000)
	require.NoError(t, f.store.Batches().Update(ctx, b))

	sale, err := f.store.Sales().GetByID(ctx, res.SaleID)
	require.NoError(t, err)
	assert.Equal(t, "4000", sale.COGS.String(), "el COGS histórico no cambia")

	items, err := f.store.SaleItems().ListBySale(ctx, res.SaleID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "1000", items[0].UnitCost.String())
}

// ── Simulación ───────────────────────────────────────────────────────────────

func TestProbeAvailability_Idempotent(t *testing.T) {
	f := newFixture(t, nil)
	f.addBatch(t, "b1", 10, 1000, 1)
	f.addBatch(t, "b2", 10, 1200, 2)
	ctx := context.Background()

	first, err := f.uc.ProbeAvailability(ctx, "p1", 15)
	require.NoError(t, err)
	second, err := f.uc.ProbeAvailability(ctx, "p1", 15)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.True(t, first.CanFulfill)
	assert.Equal(t, "16000", first.EstimatedCOGS.String())
	assert.Equal(t, int64(10), f.remaining(t, "b1"))
	assert.Equal(t, 0, f.salesCount(t))

	short, err := f.uc.ProbeAvailability(ctx, "p1", 21)
	require.NoError(t, err)
	assert.False(t, short.CanFulfill)
	assert.Equal(t, int64(20), short.AvailableQty)
	assert.True(t, short.EstimatedCOGS.IsZero())

	_, err = f.uc.ProbeAvailability(ctx, "p1", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.uc.ProbeAvailability(ctx, "nope", 1)
	assert.ErrorIs(t, err, domain.ErrUnknownProduct)
}

// ── Concurrencia ─────────────────────────────────────────────────────────────

func TestSettle_ConcurrentNeverOversells(t *testing.T) {
	f := newFixture(t, nil)
	f.addBatch(t, "b1", 8, 100, 1)
	f.addBatch(t, "b2", 12, 110, 2)

	var (
		wg   sync.WaitGroup
		sold atomic.Int64
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := f.uc.Settle(context.Background(), sell(3, 200))
			if !assert.NoError(t, err) {
				return
			}
			if res.Success {
				sold.Add(res.Quantity)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(18), sold.Load(), "caben exactamente 6 ventas de 3")
	left := f.remaining(t, "b1") + f.remaining(t, "b2")
	assert.Equal(t, int64(2), left)
	assert.Equal(t, 6, f.salesCount(t))
}

func TestSettle_RetriesOnConflict(t *testing.T) {
	tx := &flakyTx{}
	tx.conflicts.Store(1)
	f := newFixture(t, tx)
	f.addBatch(t, "b1", 10, 100, 1)

	res, err := f.uc.Settle(context.Background(), sell(4, 200))
	require.NoError(t, err)
	require.True(t, res.Success)

	assert.Equal(t, 1, f.salesCount(t), "el intento fallido se revirtió")
	assert.Equal(t, int64(6), f.remaining(t, "b1"))
}

func TestSettle_RetriesExhausted(t *testing.T) {
	tx := &flakyTx{}
	tx.conflicts.Store(100)
	f := newFixture(t, tx)
	f.addBatch(t, "b1", 10, 100, 1)

	_, err := f.uc.Settle(context.Background(), sell(4, 200))
	assert.ErrorIs(t, err, domain.ErrConcurrentModification)
	assert.Equal(t, 0, f.salesCount(t))
	assert.Equal(t, int64(10), f.remaining(t, "b1"))
	assert.Equal(t, int32(96), tx.conflicts.Load(), "1 intento + 3 reintentos")
}

func TestSettle_AtomicOnPersistenceFailure(t *testing.T) {
	tx := &flakyTx{itemsErr: errors.New("disk full")}
	f := newFixture(t, tx)
	f.addBatch(t, "b1", 10, 100, 1)

	_, err := f.uc.Settle(context.Background(), sell(4, 200))
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.Equal(t, 0, f.salesCount(t), "sin venta parcial")
	assert.Equal(t, int64(10), f.remaining(t, "b1"), "sin decremento parcial")
}
