package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	appanalytics "github.com/jhoicas/tokokita-api/internal/application/analytics"
	"github.com/jhoicas/tokokita-api/internal/application/inventory"
	"github.com/jhoicas/tokokita-api/internal/application/usecase"
	"github.com/jhoicas/tokokita-api/internal/domain/repository"
	infraexcel "github.com/jhoicas/tokokita-api/internal/infrastructure/excel"
	"github.com/jhoicas/tokokita-api/internal/infrastructure/memory"
	"github.com/jhoicas/tokokita-api/internal/infrastructure/migration"
	infrapdf "github.com/jhoicas/tokokita-api/internal/infrastructure/pdf"
	"github.com/jhoicas/tokokita-api/internal/infrastructure/postgres"
	"github.com/jhoicas/tokokita-api/internal/infrastructure/redislock"
	httpRouter "github.com/jhoicas/tokokita-api/internal/interfaces/http"
	"github.com/jhoicas/tokokita-api/pkg/config"
	"github.com/jhoicas/tokokita-api/pkg/logger"
)

// storage agrupa los repositorios del driver elegido.
type storage struct {
	products  repository.ProductRepository
	suppliers repository.SupplierRepository
	batches   repository.StockBatchRepository
	purchases repository.PurchaseRepository
	sales     repository.SaleRepository
	saleItems repository.SaleBatchItemRepository
	tx        inventory.TxRunner
	health    httpRouter.Pinger
	close     func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer store.close()

	// Exclusión por producto: Redis si está configurado, si no un mutex por proceso.
	var locker inventory.ProductLocker = inventory.NewLocalLocker()
	if cfg.Redis.Enabled() {
		rdb, err := redislock.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		locker = redislock.NewProductLocker(rdb, cfg.Settlement.LockTTL, log.Named("redislock"))
	}

	productUC := usecase.NewProductUseCase(store.products, store.batches)
	supplierUC := usecase.NewSupplierUseCase(store.suppliers)
	purchaseUC := inventory.NewPurchaseUseCase(store.tx, store.products, store.suppliers, store.purchases, log.Named("purchase"))
	batchUC := inventory.NewBatchUseCase(store.products, store.suppliers, store.batches, store.saleItems)
	settleUC := inventory.NewSettleSaleUseCase(
		store.tx, store.products, store.batches, locker, log.Named("settlement"),
		inventory.SettlementOptions{
			MaxRetries: cfg.Settlement.MaxRetries,
			RetryBase:  cfg.Settlement.RetryBase,
			Location:   cfg.App.Location,
		},
	)
	saleQueryUC := inventory.NewSaleQueryUseCase(store.sales, store.saleItems, store.products, infraexcel.NewSalesExporter(), cfg.App.Location)
	replenishmentUC := inventory.NewReplenishmentUseCase(store.products, store.batches, store.sales)
	reportUC := appanalytics.NewReportUseCase(
		store.products, store.suppliers, store.batches, store.sales, store.purchases,
		infrapdf.NewMarotoReportGenerator("Toko Kita"),
		cfg.App.Location,
	)
	dashboardUC := appanalytics.NewDashboardUseCase(store.products, store.batches, store.sales, cfg.App.Location)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestID(), httpRouter.RequestLogger(log.Named("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Toko Kita API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:     productUC,
		SupplierUC:    supplierUC,
		PurchaseUC:    purchaseUC,
		BatchUC:       batchUC,
		SettleSale:    settleUC,
		SaleQuery:     saleQueryUC,
		Replenishment: replenishmentUC,
		ReportUC:      reportUC,
		DashboardUC:   dashboardUC,
		Health:        store.health,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.Storage.Driver == config.StorageMemory {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		s := memory.NewStore()
		return &storage{
			products:  s.Products(),
			suppliers: s.Suppliers(),
			batches:   s.Batches(),
			purchases: s.Purchases(),
			sales:     s.Sales(),
			saleItems: s.SaleItems(),
			tx:        s,
			health:    s,
			close:     func() {},
		}, nil
	}

	if cfg.DB.AutoMigrate {
		if err := migration.Run(cfg.DB.ConnectionString(), log.Named("migrate")); err != nil {
			return nil, err
		}
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	return &storage{
		products:  postgres.NewProductRepository(pool),
		suppliers: postgres.NewSupplierRepository(pool),
		batches:   postgres.NewStockBatchRepository(pool),
		purchases: postgres.NewPurchaseRepository(pool),
		sales:     postgres.NewSaleRepository(pool),
		saleItems: postgres.NewSaleBatchItemRepository(pool),
		tx:        postgres.NewTxRunner(pool),
		health:    pool,
		close:     pool.Close,
	}, nil
}
