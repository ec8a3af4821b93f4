//go:build integration

package postgres_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/tokokita-api/internal/application/dto"
	appinv "github.com/jhoicas/tokokita-api/internal/application/inventory"
	"github.com/jhoicas/tokokita-api/internal/domain"
	"github.com/jhoicas/tokokita-api/internal/domain/entity"
	"github.com/jhoicas/tokokita-api/internal/infrastructure/migration"
	"github.com/jhoicas/tokokita-api/internal/infrastructure/postgres"
	"github.com/jhoicas/tokokita-api/pkg/logger"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

// newTestPool levanta un PostgreSQL efímero con el esquema migrado.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("tokokita_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "no se pudo iniciar el contenedor PostgreSQL")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminar contenedor: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, migration.Run(dsn, logger.Nop()))

	pool, err := postgres.NewPoolFromDSN(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

type env struct {
	pool     *pgxpool.Pool
	products *postgres.ProductRepo
	batches  *postgres.StockBatchRepo
	items    *postgres.SaleBatchItemRepo
	purchase *appinv.PurchaseUseCase
	settle   *appinv.SettleSaleUseCase
}

func newEnv(t *testing.T) *env {
	pool := newTestPool(t)
	tx := postgres.NewTxRunner(pool)
	products := postgres.NewProductRepository(pool)
	batches := postgres.NewStockBatchRepository(pool)
	return &env{
		pool:     pool,
		products: products,
		batches:  batches,
		items:    postgres.NewSaleBatchItemRepository(pool),
		purchase: appinv.NewPurchaseUseCase(tx, products, postgres.NewSupplierRepository(pool), postgres.NewPurchaseRepository(pool), logger.Nop()),
		settle: appinv.NewSettleSaleUseCase(tx, products, batches, appinv.NewLocalLocker(), logger.Nop(),
			appinv.SettlementOptions{MaxRetries: 3, RetryBase: time.Millisecond}),
	}
}

func (e *env) product(t *testing.T, id string) {
	t.Helper()
	now := time.Now().UTC()
	require.NoError(t, e.products.Create(context.Background(), &entity.Product{
		ID: id, Name: id, Unit: "pcs", SellingPrice: decimal.Zero, CreatedAt: now, UpdatedAt: now,
	}))
}

func (e *env) buy(t *testing.T, productID string, qty, price int64, date string) *dto.PurchaseResponse {
	t.Helper()
	p, err := e.purchase.Record(context.Background(), dto.CreatePurchaseRequest{
		ProductID:     productID,
		Quantity:      qty,
		PurchasePrice: decimal.NewFromInt(price),
		PurchaseDate:  date,
	})
	require.NoError(t, err)
	return p
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestIntegration_SettlementEndToEnd(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.product(t, "p1")
	first := e.buy(t, "p1", 10, 1000, "2025-08-01")
	second := e.buy(t, "p1", 10, 1200, "2025-08-02")
	assert.NotEmpty(t, first.BatchID)

	res, err := e.settle.Settle(ctx, appinv.SettleSaleInput{ProductID: "p1", Quantity: 15, UnitPrice: decimal.NewFromInt(1500)})
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, "16000", res.COGS.String())
	assert.Equal(t, "22500", res.Revenue.String())
	assert.Equal(t, "6500", res.Profit.String())

	batches, err := e.batches.ListByProduct(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, batches, 2)
	assert.Equal(t, first.BatchID, batches[0].ID)
	assert.Equal(t, int64(0), batches[0].RemainingQuantity, "agotado pero conservado")
	assert.Equal(t, second.BatchID, batches[1].ID)
	assert.Equal(t, int64(5), batches[1].RemainingQuantity)

	items, err := e.items.ListBySale(ctx, res.SaleID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, int64(10), items[0].QuantityUsed)
	assert.Equal(t, int64(5), items[1].QuantityUsed)

	// Insuficiente: nada se escribe.
	res, err = e.settle.Settle(ctx, appinv.SettleSaleInput{ProductID: "p1", Quantity: 6, UnitPrice: decimal.NewFromInt(1500)})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, int64(5), res.AvailableQty)

	// Compra con lote consumido no se puede borrar; el producto tampoco.
	assert.ErrorIs(t, e.purchase.Delete(ctx, first.ID), domain.ErrConflict)
	assert.ErrorIs(t, e.products.Delete(ctx, "p1"), domain.ErrConflict)
}

func TestIntegration_SameDateUsesSeq(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.product(t, "p1")
	a := e.buy(t, "p1", 2, 100, "2025-08-01")
	b := e.buy(t, "p1", 2, 200, "2025-08-01")

	res, err := e.settle.Settle(ctx, appinv.SettleSaleInput{ProductID: "p1", Quantity: 3, UnitPrice: decimal.NewFromInt(300)})
	require.NoError(t, err)
	require.Len(t, res.Lines, 2)
	assert.Equal(t, a.BatchID, res.Lines[0].BatchID)
	assert.Equal(t, b.BatchID, res.Lines[1].BatchID)
	assert.Equal(t, "400", res.COGS.String())
}

func TestIntegration_ConcurrentSettlementsNeverOversell(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.product(t, "p1")
	e.buy(t, "p1", 20, 1000, "2025-08-01")

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		sold int64
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := e.settle.Settle(ctx, appinv.SettleSaleInput{ProductID: "p1", Quantity: 3, UnitPrice: decimal.NewFromInt(1500)})
			if !assert.NoError(t, err) {
				return
			}
			if res.Success {
				mu.Lock()
				sold += res.Quantity
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(18), sold)
	batches, err := e.batches.LoadAvailable(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Equal(t, int64(2), batches[0].RemainingQuantity)
}

func TestIntegration_DecrementRemaining(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.product(t, "p1")
	p := e.buy(t, "p1", 10, 1000, "2025-08-01")

	_, err := e.batches.DecrementRemaining(ctx, p.BatchID, 3, 9)
	assert.ErrorIs(t, err, domain.ErrConcurrentModification)

	_, err = e.batches.DecrementRemaining(ctx, "no-existe", 1, 10)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	left, err := e.batches.DecrementRemaining(ctx, p.BatchID, 3, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(7), left)
}

func TestIntegration_PurchaseDeleteUntouched(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.product(t, "p1")
	p := e.buy(t, "p1", 10, 1000, "2025-08-01")

	require.NoError(t, e.purchase.Delete(ctx, p.ID))
	b, err := e.batches.GetByID(ctx, p.BatchID)
	require.NoError(t, err)
	assert.Nil(t, b, "el lote se elimina junto con la compra")
}
