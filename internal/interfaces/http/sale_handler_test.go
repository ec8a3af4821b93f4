package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/tokokita-api/internal/application/analytics"
	"github.com/jhoicas/tokokita-api/internal/application/dto"
	appinv "github.com/jhoicas/tokokita-api/internal/application/inventory"
	"github.com/jhoicas/tokokita-api/internal/application/usecase"
	"github.com/jhoicas/tokokita-api/internal/infrastructure/excel"
	"github.com/jhoicas/tokokita-api/internal/infrastructure/memory"
	"github.com/jhoicas/tokokita-api/internal/infrastructure/pdf"
	httpapi "github.com/jhoicas/tokokita-api/internal/interfaces/http"
	"github.com/jhoicas/tokokita-api/pkg/logger"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.NewStore()
	app := fiber.New()
	httpapi.Router(app, httpapi.RouterDeps{
		ProductUC:  usecase.NewProductUseCase(store.Products(), store.Batches()),
		SupplierUC: usecase.NewSupplierUseCase(store.Suppliers()),
		PurchaseUC: appinv.NewPurchaseUseCase(store, store.Products(), store.Suppliers(), store.Purchases(), logger.Nop()),
		BatchUC:    appinv.NewBatchUseCase(store.Products(), store.Suppliers(), store.Batches(), store.SaleItems()),
		SettleSale: appinv.NewSettleSaleUseCase(store, store.Products(), store.Batches(), appinv.NewLocalLocker(), logger.Nop(),
			appinv.SettlementOptions{MaxRetries: 3, RetryBase: time.Millisecond}),
		SaleQuery:     appinv.NewSaleQueryUseCase(store.Sales(), store.SaleItems(), store.Products(), excel.NewSalesExporter(), nil),
		Replenishment: appinv.NewReplenishmentUseCase(store.Products(), store.Batches(), store.Sales()),
		ReportUC: appanalytics.NewReportUseCase(store.Products(), store.Suppliers(), store.Batches(), store.Sales(),
			store.Purchases(), pdf.NewMarotoReportGenerator("Toko Kita"), nil),
		DashboardUC: appanalytics.NewDashboardUseCase(store.Products(), store.Batches(), store.Sales(), nil),
		Health:      store,
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// seedProduct crea un producto con dos compras: 10 @ 1000 y 10 @ 1200.
func seedProduct(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/products", map[string]any{
		"name": "Kopi Kapal Api", "unit": "pcs", "selling_price": 2000, "minimum_stock": 5,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var p dto.ProductResponse
	decodeBody(t, resp, &p)

	for _, purchase := range []map[string]any{
		{"product_id": p.ID, "quantity": 10, "purchase_price": 1000, "purchase_date": "2025-08-01"},
		{"product_id": p.ID, "quantity": 10, "purchase_price": 1200, "purchase_date": "2025-08-05"},
	} {
		resp := doJSON(t, app, http.MethodPost, "/api/purchases", purchase)
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}
	return p.ID
}

func TestSettleSale_AcrossBatches(t *testing.T) {
	app := newTestApp(t)
	productID := seedProduct(t, app)

	resp := doJSON(t, app, http.MethodPost, "/api/sales", map[string]any{
		"product_id": productID, "quantity": 15, "unit_price": 2000, "sale_date": "2025-08-10",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var out dto.SettleSaleResponse
	decodeBody(t, resp, &out)
	assert.True(t, out.Success)
	assert.NotEmpty(t, out.SaleID)
	require.NotNil(t, out.COGS)
	assert.True(t, decimal.NewFromInt(16000).Equal(*out.COGS), "cogs=%s", out.COGS)
	assert.True(t, decimal.NewFromInt(30000).Equal(*out.Revenue))
	assert.True(t, decimal.NewFromInt(14000).Equal(*out.Profit))
	require.Len(t, out.Lines, 2)
	assert.Equal(t, int64(10), out.Lines[0].Quantity)
	assert.Equal(t, int64(5), out.Lines[1].Quantity)

	// La venta se puede consultar con sus consumos
	resp = doJSON(t, app, http.MethodGet, "/api/sales/"+out.SaleID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var sale dto.SaleResponse
	decodeBody(t, resp, &sale)
	assert.Equal(t, int64(15), sale.Quantity)
	assert.Len(t, sale.Consumptions, 2)

	// Quedan 5 unidades en el segundo lote
	resp = doJSON(t, app, http.MethodGet, "/api/products/"+productID+"/batches", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var batches []dto.BatchResponse
	decodeBody(t, resp, &batches)
	require.Len(t, batches, 2)
	assert.Equal(t, int64(0), batches[0].RemainingQuantity)
	assert.Equal(t, int64(5), batches[1].RemainingQuantity)
}

func TestSettleSale_InsufficientStock(t *testing.T) {
	app := newTestApp(t)
	productID := seedProduct(t, app)

	resp := doJSON(t, app, http.MethodPost, "/api/sales", map[string]any{
		"product_id": productID, "quantity": 25, "unit_price": 2000,
	})
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)

	var out dto.SettleSaleResponse
	decodeBody(t, resp, &out)
	assert.False(t, out.Success)
	assert.Equal(t, int64(20), out.AvailableQty)
	assert.Equal(t, int64(25), out.RequestedQty)
	assert.Equal(t, int64(5), out.Shortfall)
	assert.Empty(t, out.SaleID)

	// No se registró ninguna venta
	resp = doJSON(t, app, http.MethodGet, "/api/sales", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var sales []dto.SaleResponse
	decodeBody(t, resp, &sales)
	assert.Empty(t, sales)
}

func TestSettleSale_Validation(t *testing.T) {
	app := newTestApp(t)
	productID := seedProduct(t, app)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"cantidad cero", map[string]any{"product_id": productID, "quantity": 0, "unit_price": 2000}},
		{"precio negativo", map[string]any{"product_id": productID, "quantity": 1, "unit_price": -1}},
		{"precio de fracción de centavo", map[string]any{"product_id": productID, "quantity": 3, "unit_price": 0.005}},
		{"producto desconocido", map[string]any{"product_id": "nope", "quantity": 1, "unit_price": 2000}},
		{"fecha inválida", map[string]any{"product_id": productID, "quantity": 1, "unit_price": 2000, "sale_date": "10/08/2025"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, app, http.MethodPost, "/api/sales", tt.body)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
			var e dto.ErrorResponse
			decodeBody(t, resp, &e)
			assert.Equal(t, "VALIDATION", e.Code)
		})
	}
}

func TestAvailability(t *testing.T) {
	app := newTestApp(t)
	productID := seedProduct(t, app)

	resp := doJSON(t, app, http.MethodGet, "/api/sales/availability?product_id="+productID+"&quantity=12", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var out dto.AvailabilityResponse
	decodeBody(t, resp, &out)
	assert.True(t, out.CanFulfill)
	assert.Equal(t, int64(20), out.AvailableQty)
	assert.True(t, decimal.NewFromInt(12400).Equal(out.EstimatedCOGS), "cogs=%s", out.EstimatedCOGS)

	// La consulta no consume stock
	resp = doJSON(t, app, http.MethodGet, "/api/products/"+productID+"/batches", nil)
	var batches []dto.BatchResponse
	decodeBody(t, resp, &batches)
	assert.Equal(t, int64(10), batches[0].RemainingQuantity)
}

func TestSaleNotFound(t *testing.T) {
	app := newTestApp(t)
	resp := doJSON(t, app, http.MethodGet, "/api/sales/does-not-exist", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestExportSales(t *testing.T) {
	app := newTestApp(t)
	productID := seedProduct(t, app)
	resp := doJSON(t, app, http.MethodPost, "/api/sales", map[string]any{
		"product_id": productID, "quantity": 3, "unit_price": 2000, "sale_date": "2025-08-10",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/sales/export.xlsx?start_date=2025-08-01&end_date=2025-08-31", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "spreadsheetml")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "ventas_2025-08-01_2025-08-31.xlsx")
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotEmpty(t, body)
}

func TestDeletePurchase_ConsumedBatchConflicts(t *testing.T) {
	app := newTestApp(t)
	productID := seedProduct(t, app)

	resp := doJSON(t, app, http.MethodGet, "/api/purchases", nil)
	var purchases []dto.PurchaseResponse
	decodeBody(t, resp, &purchases)
	require.Len(t, purchases, 2)

	resp = doJSON(t, app, http.MethodPost, "/api/sales", map[string]any{
		"product_id": productID, "quantity": 1, "unit_price": 2000,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	var consumed, untouched string
	for _, p := range purchases {
		if p.PurchaseDate.Format(dto.DateLayout) == "2025-08-01" {
			consumed = p.ID
		} else {
			untouched = p.ID
		}
	}
	resp = doJSON(t, app, http.MethodDelete, "/api/purchases/"+consumed, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	resp = doJSON(t, app, http.MethodDelete, "/api/purchases/"+untouched, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestCreateBatch_EntersFIFOQueue(t *testing.T) {
	app := newTestApp(t)
	productID := seedProduct(t, app)

	resp := doJSON(t, app, http.MethodPost, "/api/batches", map[string]any{
		"product_id": productID, "quantity": 5, "unit_cost": 900, "batch_date": "2025-07-01",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var created dto.BatchResponse
	decodeBody(t, resp, &created)
	assert.Nil(t, created.PurchaseID)

	resp = doJSON(t, app, http.MethodGet, "/api/products/"+productID+"/batches", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var batches []dto.BatchResponse
	decodeBody(t, resp, &batches)
	require.Len(t, batches, 3)
	assert.Equal(t, created.ID, batches[0].ID, "el lote más antiguo va primero")

	resp = doJSON(t, app, http.MethodPost, "/api/batches", map[string]any{
		"product_id": productID, "quantity": 1, "unit_cost": 9.999,
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	resp := doJSON(t, app, http.MethodGet, "/health", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
