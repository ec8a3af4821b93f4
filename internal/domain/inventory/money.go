package inventory

import (
	"fmt"

	"github.com/jhoicas/tokokita-api/internal/domain"
	"github.com/shopspring/decimal"
)

// MoneyPlaces decimales de los importes almacenados (NUMERIC(15,2)).
const MoneyPlaces = 2

// ValidateMoney rechaza importes negativos o con más de MoneyPlaces decimales.
// Con precio y costo en centavos exactos, qty*precio y Σ qty*costo también lo son.
func ValidateMoney(field string, v decimal.Decimal) error {
	if v.IsNegative() {
		return fmt.Errorf("%w: %s no puede ser negativo", domain.ErrInvalidInput, field)
	}
	if !v.Equal(v.Round(MoneyPlaces)) {
		return fmt.Errorf("%w: %s admite como máximo %d decimales", domain.ErrInvalidInput, field, MoneyPlaces)
	}
	return nil
}
