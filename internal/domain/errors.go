package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrDuplicate              = errors.New("recurso duplicado")
	ErrConflict               = errors.New("conflicto con el estado actual")
	ErrInsufficientStock      = errors.New("stock insuficiente")
	ErrConcurrentModification = errors.New("el lote cambió durante la operación")
	ErrPersistence            = errors.New("fallo de persistencia")
)

// ErrUnknownProduct es una entrada inválida: el producto no existe.
// errors.Is(ErrUnknownProduct, ErrInvalidInput) es verdadero.
var ErrUnknownProduct = fmt.Errorf("%w: producto desconocido", ErrInvalidInput)
