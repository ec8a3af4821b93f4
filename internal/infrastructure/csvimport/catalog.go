// Package csvimport lee el catálogo inicial de productos desde CSV.
package csvimport

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jhoicas/tokokita-api/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// ErrEmptyFile el CSV no tiene filas de datos.
var ErrEmptyFile = errors.New("csv vacío")

// Columnas: nombre, categoría, unidad, precio de venta, stock mínimo, cantidad inicial, costo unitario inicial.
const (
	colName = iota
	colCategory
	colUnit
	colSellingPrice
	colMinimumStock
	colOpeningQty
	colOpeningCost
	minColumns = colSellingPrice + 1
)

// CatalogRow una fila del catálogo. OpeningQty 0 = sin stock inicial.
type CatalogRow struct {
	Line            int
	Name            string
	Category        string
	Unit            string
	SellingPrice    decimal.Decimal
	MinimumStock    int64
	OpeningQty      int64
	OpeningUnitCost decimal.Decimal
}

// ParseCatalog lee el CSV completo. Acepta UTF-8 (con o sin BOM) o ISO-8859-1,
// separado por ';' o ','. Con ';' la coma se interpreta como separador decimal.
// La primera fila se descarta si es cabecera.
func ParseCatalog(r io.Reader) ([]CatalogRow, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("leer csv: %w", err)
	}
	raw = bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF})
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, ErrEmptyFile
	}

	var src io.Reader = bytes.NewReader(raw)
	if !utf8.Valid(raw) {
		src = transform.NewReader(src, charmap.ISO8859_1.NewDecoder())
	}

	delim := detectDelimiter(raw)
	reader := csv.NewReader(src)
	reader.Comma = delim
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: csv mal formado: %w", domain.ErrInvalidInput, err)
	}

	rows := make([]CatalogRow, 0, len(records))
	for i, rec := range records {
		line := i + 1
		if i == 0 && isHeader(rec) {
			continue
		}
		if blank(rec) {
			continue
		}
		row, err := parseRow(rec, delim)
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		row.Line = line
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}
	return rows, nil
}

func detectDelimiter(raw []byte) rune {
	first := raw
	if i := bytes.IndexByte(raw, '\n'); i >= 0 {
		first = raw[:i]
	}
	if bytes.Count(first, []byte{';'}) > bytes.Count(first, []byte{','}) {
		return ';'
	}
	return ','
}

func isHeader(rec []string) bool {
	if len(rec) == 0 {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(rec[colName])) {
	case "name", "nombre", "nama", "product", "producto":
		return true
	}
	return false
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func parseRow(rec []string, delim rune) (CatalogRow, error) {
	if len(rec) < minColumns {
		return CatalogRow{}, fmt.Errorf("%w: se esperaban al menos %d columnas, hay %d", domain.ErrInvalidInput, minColumns, len(rec))
	}
	field := func(i int) string {
		if i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	row := CatalogRow{
		Name:     field(colName),
		Category: field(colCategory),
		Unit:     field(colUnit),
	}
	if row.Name == "" {
		return CatalogRow{}, fmt.Errorf("%w: nombre vacío", domain.ErrInvalidInput)
	}

	var err error
	if row.SellingPrice, err = parseMoney(field(colSellingPrice), delim); err != nil {
		return CatalogRow{}, fmt.Errorf("precio de venta: %w", err)
	}
	if row.MinimumStock, err = parseQty(field(colMinimumStock)); err != nil {
		return CatalogRow{}, fmt.Errorf("stock mínimo: %w", err)
	}
	if row.OpeningQty, err = parseQty(field(colOpeningQty)); err != nil {
		return CatalogRow{}, fmt.Errorf("cantidad inicial: %w", err)
	}
	if row.OpeningUnitCost, err = parseMoney(field(colOpeningCost), delim); err != nil {
		return CatalogRow{}, fmt.Errorf("costo inicial: %w", err)
	}
	return row, nil
}

func parseMoney(s string, delim rune) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	if delim == ';' {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: importe inválido %q", domain.ErrInvalidInput, s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: importe negativo %q", domain.ErrInvalidInput, s)
	}
	return d, nil
}

func parseQty(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: cantidad inválida %q", domain.ErrInvalidInput, s)
	}
	return n, nil
}
