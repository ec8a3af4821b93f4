package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/tokokita-api/internal/domain"
	"github.com/jhoicas/tokokita-api/internal/domain/entity"
	"github.com/jhoicas/tokokita-api/internal/domain/repository"
)

var _ repository.StockBatchRepository = (*StockBatchRepo)(nil)

// StockBatchRepo libro de lotes sobre PostgreSQL (usable con pool o tx).
type StockBatchRepo struct {
	q         Querier
	forUpdate bool // LoadAvailable bloquea filas; solo tiene sentido dentro de una tx
}

// NewStockBatchRepository construye el adaptador para lecturas fuera de transacción.
func NewStockBatchRepository(q Querier) *StockBatchRepo {
	return newStockBatchRepo(q, false)
}

func newStockBatchRepo(q Querier, forUpdate bool) *StockBatchRepo {
	return &StockBatchRepo{q: q, forUpdate: forUpdate}
}

const batchColumns = `id, seq, product_id, purchase_id, supplier_id, quantity, remaining_quantity,
	unit_cost, batch_date, expiry_date, created_at, updated_at`

// fifoOrder orden de consumo: fecha de lote y luego secuencia de inserción.
const fifoOrder = ` ORDER BY batch_date, seq`

func scanBatch(row pgx.Row) (*entity.StockBatch, error) {
	var b entity.StockBatch
	err := row.Scan(&b.ID, &b.Seq, &b.ProductID, &b.PurchaseID, &b.SupplierID, &b.Quantity,
		&b.RemainingQuantity, &b.UnitCost, &b.BatchDate, &b.ExpiryDate, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *StockBatchRepo) queryBatches(ctx context.Context, query string, args ...any) ([]*entity.StockBatch, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := make([]*entity.StockBatch, 0)
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock batch: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

// Create inserta el lote; seq lo asigna la secuencia de la tabla.
func (r *StockBatchRepo) Create(ctx context.Context, b *entity.StockBatch) error {
	query := `
		INSERT INTO stock_batches (id, product_id, purchase_id, supplier_id, quantity, remaining_quantity,
		                           unit_cost, batch_date, expiry_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING seq`
	err := r.q.QueryRow(ctx, query,
		b.ID, b.ProductID, b.PurchaseID, b.SupplierID, b.Quantity, b.RemainingQuantity,
		b.UnitCost, b.BatchDate, b.ExpiryDate, b.CreatedAt, b.UpdatedAt,
	).Scan(&b.Seq)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrDuplicate
		case isForeignKeyViolation(err):
			return fmt.Errorf("%w: lote con referencias inexistentes", domain.ErrConflict)
		case isCheckViolation(err):
			return fmt.Errorf("%w: cantidades o costo de lote inválidos", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert stock batch: %w", err)
	}
	return nil
}

func (r *StockBatchRepo) GetByID(ctx context.Context, id string) (*entity.StockBatch, error) {
	b, err := scanBatch(r.q.QueryRow(ctx, `SELECT `+batchColumns+` FROM stock_batches WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock batch: %w", err)
	}
	return b, nil
}

// LoadAvailable lotes con remanente, en orden FIFO. Dentro de RunSettlement usa FOR UPDATE.
func (r *StockBatchRepo) LoadAvailable(ctx context.Context, productID string) ([]*entity.StockBatch, error) {
	query := `SELECT ` + batchColumns + ` FROM stock_batches
		WHERE product_id = $1 AND remaining_quantity > 0` + fifoOrder
	if r.forUpdate {
		query += ` FOR UPDATE`
	}
	list, err := r.queryBatches(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("load available batches: %w", err)
	}
	return list, nil
}

func (r *StockBatchRepo) ListAvailable(ctx context.Context) ([]*entity.StockBatch, error) {
	list, err := r.queryBatches(ctx, `SELECT `+batchColumns+` FROM stock_batches
		WHERE remaining_quantity > 0 ORDER BY product_id, batch_date, seq`)
	if err != nil {
		return nil, fmt.Errorf("list available batches: %w", err)
	}
	return list, nil
}

// ListByProduct incluye lotes agotados.
func (r *StockBatchRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.StockBatch, error) {
	list, err := r.queryBatches(ctx, `SELECT `+batchColumns+` FROM stock_batches
		WHERE product_id = $1`+fifoOrder, productID)
	if err != nil {
		return nil, fmt.Errorf("list batches by product: %w", err)
	}
	return list, nil
}

// Update corrige costo, fecha y vencimiento. Las cantidades no se tocan.
func (r *StockBatchRepo) Update(ctx context.Context, b *entity.StockBatch) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE stock_batches
		SET unit_cost = $2, batch_date = $3, expiry_date = $4, updated_at = now()
		WHERE id = $1`,
		b.ID, b.UnitCost, b.BatchDate, b.ExpiryDate,
	)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("%w: costo de lote inválido", domain.ErrInvalidInput)
		}
		return fmt.Errorf("update stock batch: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DecrementRemaining descuenta solo si remaining_quantity sigue valiendo expectedRemaining.
func (r *StockBatchRepo) DecrementRemaining(ctx context.Context, batchID string, amount, expectedRemaining int64) (int64, error) {
	if amount <= 0 || amount > expectedRemaining {
		return 0, fmt.Errorf("%w: descuento %d sobre remanente %d", domain.ErrInvalidInput, amount, expectedRemaining)
	}
	var remaining int64
	err := r.q.QueryRow(ctx, `
		UPDATE stock_batches
		SET remaining_quantity = remaining_quantity - $2, updated_at = now()
		WHERE id = $1 AND remaining_quantity = $3
		RETURNING remaining_quantity`,
		batchID, amount, expectedRemaining,
	).Scan(&remaining)
	if err == nil {
		return remaining, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("decrement stock batch: %w", err)
	}

	// Sin filas: el lote no existe o su remanente cambió.
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM stock_batches WHERE id = $1)`, batchID).Scan(&exists); err != nil {
		return 0, fmt.Errorf("check stock batch: %w", err)
	}
	if !exists {
		return 0, domain.ErrNotFound
	}
	return 0, domain.ErrConcurrentModification
}

// Delete falla con ErrConflict si alguna venta consumió el lote.
func (r *StockBatchRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM stock_batches WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete stock batch: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
