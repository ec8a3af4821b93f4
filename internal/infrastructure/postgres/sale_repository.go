package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/tokokita-api/internal/domain"
	"github.com/jhoicas/tokokita-api/internal/domain/entity"
	"github.com/jhoicas/tokokita-api/internal/domain/repository"
)

var (
	_ repository.SaleRepository          = (*SaleRepo)(nil)
	_ repository.SaleBatchItemRepository = (*SaleBatchItemRepo)(nil)
)

// SaleRepo ventas liquidadas; solo inserción y lectura.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `id, product_id, quantity, unit_price, total_revenue, cogs, profit, profit_margin,
	sale_date, customer_name, notes, reversal_of, created_at`

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	err := row.Scan(&s.ID, &s.ProductID, &s.Quantity, &s.UnitPrice, &s.TotalRevenue, &s.COGS, &s.Profit,
		&s.ProfitMargin, &s.SaleDate, &s.CustomerName, &s.Notes, &s.ReversalOf, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sales (`+saleColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		s.ID, s.ProductID, s.Quantity, s.UnitPrice, s.TotalRevenue, s.COGS, s.Profit, s.ProfitMargin,
		s.SaleDate, s.CustomerName, s.Notes, s.ReversalOf, s.CreatedAt,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrDuplicate
		case isForeignKeyViolation(err):
			return domain.ErrConflict
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return s, nil
}

// List aplica los filtros presentes; más reciente primero.
func (r *SaleRepo) List(ctx context.Context, f repository.SaleFilter) ([]*entity.Sale, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.From != nil {
		add("sale_date >= $%d", *f.From)
	}
	if f.To != nil {
		add("sale_date < $%d", *f.To)
	}
	if f.ProductID != "" {
		add("product_id = $%d", f.ProductID)
	}
	query := `SELECT ` + saleColumns + ` FROM sales`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY sale_date DESC, created_at DESC`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Sale, 0)
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// SaleBatchItemRepo consumos de lotes por venta.
type SaleBatchItemRepo struct {
	q Querier
}

// NewSaleBatchItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleBatchItemRepository(q Querier) *SaleBatchItemRepo {
	return &SaleBatchItemRepo{q: q}
}

// CreateMany inserta los consumos; dentro de RunSettlement todo comparte la tx.
func (r *SaleBatchItemRepo) CreateMany(ctx context.Context, items []*entity.SaleBatchItem) error {
	if len(items) == 0 {
		return nil
	}
	const query = `
		INSERT INTO sale_batch_items (id, sale_id, stock_batch_id, quantity_used, unit_cost)
		VALUES ($1, $2, $3, $4, $5)`
	for _, it := range items {
		if _, err := r.q.Exec(ctx, query, it.ID, it.SaleID, it.StockBatchID, it.QuantityUsed, it.UnitCost); err != nil {
			if isForeignKeyViolation(err) {
				return domain.ErrConflict
			}
			return fmt.Errorf("insert sale batch item: %w", err)
		}
	}
	return nil
}

// ListBySale devuelve los consumos en orden FIFO del lote.
func (r *SaleBatchItemRepo) ListBySale(ctx context.Context, saleID string) ([]*entity.SaleBatchItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT i.id, i.sale_id, i.stock_batch_id, i.quantity_used, i.unit_cost
		FROM sale_batch_items i
		JOIN stock_batches b ON b.id = i.stock_batch_id
		WHERE i.sale_id = $1
		ORDER BY b.batch_date, b.seq`, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale batch items: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.SaleBatchItem, 0)
	for rows.Next() {
		var it entity.SaleBatchItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.StockBatchID, &it.QuantityUsed, &it.UnitCost); err != nil {
			return nil, fmt.Errorf("scan sale batch item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}
