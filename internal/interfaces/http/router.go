package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	appanalytics "github.com/jhoicas/tokokita-api/internal/application/analytics"
	"github.com/jhoicas/tokokita-api/internal/application/dto"
	appinv "github.com/jhoicas/tokokita-api/internal/application/inventory"
	"github.com/jhoicas/tokokita-api/internal/application/usecase"
)

// Pinger comprueba que el almacenamiento responde.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC     *usecase.ProductUseCase
	SupplierUC    *usecase.SupplierUseCase
	PurchaseUC    *appinv.PurchaseUseCase
	BatchUC       *appinv.BatchUseCase
	SettleSale    *appinv.SettleSaleUseCase
	SaleQuery     *appinv.SaleQueryUseCase
	Replenishment *appinv.ReplenishmentUseCase
	ReportUC      *appanalytics.ReportUseCase
	DashboardUC   *appanalytics.DashboardUseCase
	Health        Pinger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", healthHandler(deps.Health))

	api := app.Group("/api")

	// Products
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	batchHandler := NewBatchHandler(deps.BatchUC)
	saleHandler := NewSaleHandler(deps.SettleSale, deps.SaleQuery, deps.BatchUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)
	products.Get("/:id/batches", batchHandler.ListByProduct)
	products.Get("/:id/sales", saleHandler.ListByProduct)

	// Suppliers
	suppliers := api.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Put("/:id", supplierHandler.Update)
	suppliers.Delete("/:id", supplierHandler.Delete)
	suppliers.Get("/:id/purchases", purchaseHandler.ListBySupplier)

	// Purchases (cada compra crea un lote)
	purchases := api.Group("/purchases")
	purchases.Post("/", purchaseHandler.Create)
	purchases.Get("/", purchaseHandler.List)
	purchases.Get("/:id", purchaseHandler.GetByID)
	purchases.Delete("/:id", purchaseHandler.Delete)

	// Batches
	batches := api.Group("/batches")
	batches.Post("/", batchHandler.Create)
	batches.Get("/available", batchHandler.ListAvailable)
	batches.Put("/:id", batchHandler.Update)

	// Sales: rutas estáticas antes de /:id
	sales := api.Group("/sales")
	sales.Post("/", saleHandler.Settle)
	sales.Get("/", saleHandler.List)
	sales.Get("/availability", saleHandler.Availability)
	sales.Get("/export.xlsx", saleHandler.Export)
	sales.Get("/:id", saleHandler.GetByID)
	sales.Get("/:id/consumptions", saleHandler.Consumptions)

	// Reports
	reports := api.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportUC, deps.Replenishment)
	reports.Get("/sales-stats", reportHandler.SalesStats)
	reports.Get("/monthly", reportHandler.Monthly)
	reports.Get("/monthly.pdf", reportHandler.MonthlyPDF)
	reports.Get("/profit-trend", reportHandler.ProfitTrend)
	reports.Get("/stock-levels", reportHandler.StockLevels)
	reports.Get("/product-performance", reportHandler.ProductPerformance)
	reports.Get("/purchase-analysis", reportHandler.PurchaseAnalysis)
	reports.Get("/replenishment", reportHandler.Replenishment)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	api.Get("/dashboard/summary", dashboardHandler.GetSummary)
}

func healthHandler(p Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if p == nil {
			return c.JSON(fiber.Map{"status": "ok"})
		}
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "UNAVAILABLE", Message: err.Error()})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	}
}
