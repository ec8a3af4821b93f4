package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/tokokita-api/internal/application/dto"
	appinv "github.com/jhoicas/tokokita-api/internal/application/inventory"
	"github.com/jhoicas/tokokita-api/internal/domain"
	"github.com/shopspring/decimal"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SaleHandler liquidación FIFO y consultas de ventas.
type SaleHandler struct {
	settle *appinv.SettleSaleUseCase
	query  *appinv.SaleQueryUseCase
	batch  *appinv.BatchUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(settle *appinv.SettleSaleUseCase, query *appinv.SaleQueryUseCase, batch *appinv.BatchUseCase) *SaleHandler {
	return &SaleHandler{settle: settle, query: query, batch: batch}
}

// Settle godoc
// @Summary      Registrar venta con costeo FIFO
// @Description  Consume los lotes más antiguos primero. Si no hay stock suficiente responde 409 sin escribir nada.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SettleSaleRequest  true  "Venta"
// @Success      201   {object}  dto.SettleSaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.SettleSaleResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Settle(c *fiber.Ctx) error {
	var req dto.SettleSaleRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}
	in := appinv.SettleSaleInput{
		ProductID:    req.ProductID,
		Quantity:     req.Quantity,
		UnitPrice:    req.UnitPrice,
		CustomerName: req.CustomerName,
		Notes:        req.Notes,
	}
	saleDate, err := dto.ParseDate(req.SaleDate)
	if err != nil {
		return writeError(c, err)
	}
	if saleDate != nil {
		in.SaleDate = *saleDate
	}

	res, err := h.settle.Settle(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	if !res.Success {
		return c.Status(fiber.StatusConflict).JSON(toSettleResponse(res))
	}
	return c.Status(fiber.StatusCreated).JSON(toSettleResponse(res))
}

// Availability godoc
// @Summary      Consultar si hay stock para una venta
// @Description  Simula la asignación FIFO sin escribir ni bloquear.
// @Tags         sales
// @Produce      json
// @Param        product_id  query  string  true  "ID del producto"
// @Param        quantity    query  int     true  "Cantidad"
// @Success      200  {object}  dto.AvailabilityResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/sales/availability [get]
func (h *SaleHandler) Availability(c *fiber.Ctx) error {
	qty := c.QueryInt("quantity", 0)
	res, err := h.settle.ProbeAvailability(c.UserContext(), c.Query("product_id"), int64(qty))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.AvailabilityResponse{
		CanFulfill:    res.CanFulfill,
		AvailableQty:  res.AvailableQty,
		RequestedQty:  res.RequestedQty,
		EstimatedCOGS: res.EstimatedCOGS,
		Message:       res.Message,
	})
}

// List godoc
// @Summary      Listar ventas
// @Tags         sales
// @Produce      json
// @Param        start_date  query  string  false  "Desde (YYYY-MM-DD)"
// @Param        end_date    query  string  false  "Hasta inclusive (YYYY-MM-DD)"
// @Success      200  {array}   dto.SaleResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	from, to, err := dateRange(c)
	if err != nil {
		return writeError(c, err)
	}
	var out []dto.SaleResponse
	if from == nil && to == nil {
		out, err = h.query.List(c.UserContext())
	} else {
		out, err = h.query.ListByDateRange(c.UserContext(), from, to)
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener venta con sus consumos de lote
// @Tags         sales
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.query.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "venta no encontrada")
	}
	return c.JSON(out)
}

// Consumptions godoc
// @Summary      Lotes consumidos por una venta
// @Tags         sales
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {array}   dto.BatchConsumptionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/consumptions [get]
func (h *SaleHandler) Consumptions(c *fiber.Ctx) error {
	out, err := h.batch.Consumptions(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListByProduct godoc
// @Summary      Ventas de un producto
// @Tags         products
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {array}  dto.SaleResponse
// @Router       /api/products/{id}/sales [get]
func (h *SaleHandler) ListByProduct(c *fiber.Ctx) error {
	out, err := h.query.ListByProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Export godoc
// @Summary      Exportar ventas a Excel
// @Tags         sales
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        start_date  query  string  false  "Desde (YYYY-MM-DD)"
// @Param        end_date    query  string  false  "Hasta inclusive (YYYY-MM-DD)"
// @Success      200  {file}    file
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/sales/export.xlsx [get]
func (h *SaleHandler) Export(c *fiber.Ctx) error {
	from, to, err := dateRange(c)
	if err != nil {
		return writeError(c, err)
	}
	body, err := h.query.Export(c.UserContext(), from, to)
	if err != nil {
		return writeError(c, err)
	}
	return attachment(c, xlsxContentType, exportName(from, to), body)
}

// exportName arma ventas[_desde][_hasta].xlsx.
func exportName(from, to *time.Time) string {
	name := "ventas"
	if from != nil {
		name += "_" + from.Format(dto.DateLayout)
	}
	if to != nil {
		name += "_" + to.Format(dto.DateLayout)
	}
	return name + ".xlsx"
}

func toSettleResponse(res *appinv.SettlementResult) dto.SettleSaleResponse {
	out := dto.SettleSaleResponse{
		Success:      res.Success,
		AvailableQty: res.AvailableQty,
		RequestedQty: res.RequestedQty,
		Shortfall:    res.Shortfall(),
		Message:      res.Message,
	}
	if !res.Success {
		if out.Message == "" {
			out.Message = fmt.Sprintf("%s: faltan %d unidades", domain.ErrInsufficientStock, out.Shortfall)
		}
		return out
	}
	out.SaleID = res.SaleID
	out.Revenue = decPtr(res.Revenue)
	out.COGS = decPtr(res.COGS)
	out.Profit = decPtr(res.Profit)
	out.ProfitMargin = decPtr(res.ProfitMargin)
	out.Lines = make([]dto.AllocationLineDTO, 0, len(res.Lines))
	for _, l := range res.Lines {
		out.Lines = append(out.Lines, dto.AllocationLineDTO{
			BatchID:  l.BatchID,
			Quantity: l.Quantity,
			UnitCost: l.UnitCost,
			Cost:     l.Cost(),
		})
	}
	return out
}

func decPtr(d decimal.Decimal) *decimal.Decimal { return &d }
