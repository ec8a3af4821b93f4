package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/tokokita-api/internal/application/dto"
	"github.com/jhoicas/tokokita-api/internal/domain"
)

const internalMessage = "error interno"

// writeError traduce errores de dominio a status HTTP + dto.ErrorResponse.
// Los 500 no exponen el detalle (puede traer SQL); la causa queda para RequestLogger.
func writeError(c *fiber.Ctx, err error) error {
	status, code := fiber.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		status, code = fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrNotFound):
		status, code = fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrInsufficientStock):
		status, code = fiber.StatusConflict, "INSUFFICIENT_STOCK"
	case errors.Is(err, domain.ErrDuplicate):
		status, code = fiber.StatusConflict, "DUPLICATE"
	case errors.Is(err, domain.ErrConflict):
		status, code = fiber.StatusConflict, "CONFLICT"
	case errors.Is(err, domain.ErrConcurrentModification):
		status, code = fiber.StatusServiceUnavailable, "RETRY"
		c.Set(fiber.HeaderRetryAfter, "1")
	}
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		c.Locals(localErrorKey, err)
		msg = internalMessage
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func notFound(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: msg})
}

// dateRange lee start_date / end_date (YYYY-MM-DD). Ausentes = sin límite.
func dateRange(c *fiber.Ctx) (from, to *time.Time, err error) {
	var req dto.DateRangeRequest
	if err := c.QueryParser(&req); err != nil {
		return nil, nil, domain.ErrInvalidInput
	}
	if from, err = dto.ParseDate(req.StartDate); err != nil {
		return nil, nil, err
	}
	if to, err = dto.ParseDate(req.EndDate); err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

// attachment responde bytes como descarga.
func attachment(c *fiber.Ctx, contentType, filename string, body []byte) error {
	c.Attachment(filename)
	c.Set(fiber.HeaderContentType, contentType)
	return c.Send(body)
}
