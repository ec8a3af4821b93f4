// seed carga el catálogo inicial de productos desde un CSV.
//
// Uso: go run ./cmd/seed [ruta/productos.csv]
// Por defecto busca productos.csv en el directorio actual.
// Columnas: nombre, categoría, unidad, precio de venta, stock mínimo, cantidad inicial, costo unitario inicial.
// El stock inicial se registra como compra para que genere su lote FIFO.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/tokokita-api/internal/application/dto"
	"github.com/jhoicas/tokokita-api/internal/application/inventory"
	"github.com/jhoicas/tokokita-api/internal/application/usecase"
	"github.com/jhoicas/tokokita-api/internal/infrastructure/csvimport"
	"github.com/jhoicas/tokokita-api/internal/infrastructure/migration"
	"github.com/jhoicas/tokokita-api/internal/infrastructure/postgres"
	"github.com/jhoicas/tokokita-api/pkg/config"
	"github.com/jhoicas/tokokita-api/pkg/logger"
)

func main() {
	csvPath := "productos.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	rows, err := csvimport.ParseCatalog(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer catálogo: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	if cfg.DB.AutoMigrate {
		if err := migration.Run(cfg.DB.ConnectionString(), log.Named("migrate")); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	productRepo := postgres.NewProductRepository(pool)
	productUC := usecase.NewProductUseCase(productRepo, postgres.NewStockBatchRepository(pool))
	purchaseUC := inventory.NewPurchaseUseCase(
		postgres.NewTxRunner(pool), productRepo, postgres.NewSupplierRepository(pool),
		postgres.NewPurchaseRepository(pool), log.Named("purchase"),
	)

	today := time.Now().UTC().Format(dto.DateLayout)
	var products, batches int
	for _, row := range rows {
		p, err := productUC.Create(ctx, dto.CreateProductRequest{
			Name:         row.Name,
			Category:     row.Category,
			Unit:         row.Unit,
			SellingPrice: row.SellingPrice,
			MinimumStock: row.MinimumStock,
		})
		if err != nil {
			log.Error().Err(err).Int("line", row.Line).Str("name", row.Name).Msg("crear producto")
			continue
		}
		products++

		if row.OpeningQty == 0 {
			continue
		}
		_, err = purchaseUC.Record(ctx, dto.CreatePurchaseRequest{
			ProductID:     p.ID,
			Quantity:      row.OpeningQty,
			PurchasePrice: row.OpeningUnitCost,
			PurchaseDate:  today,
			Notes:         "stock inicial",
		})
		if err != nil {
			log.Error().Err(err).Int("line", row.Line).Str("product_id", p.ID).Msg("registrar stock inicial")
			continue
		}
		batches++
	}

	log.Info().
		Int("rows", len(rows)).
		Int("products", products).
		Int("batches", batches).
		Msg("catálogo cargado")
}
