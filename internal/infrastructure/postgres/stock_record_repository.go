package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/SellerHub-api/internal/domain/entity"
	"github.com/jhoicas/SellerHub-api/internal/domain/repository"
)

var _ repository.StockRecordRepository = (*StockRecordRepo)(nil)

// StockRecordRepo implementación del puerto StockRecordRepository sobre PostgreSQL.
type StockRecordRepo struct {
	q Querier
}

// NewStockRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockRecordRepository(q Querier) *StockRecordRepo {
	return &StockRecordRepo{q: q}
}

const stockRecordCols = `product_id, variant_id, current_qty, available_qty, reserved_qty, minimum_qty, updated_at`

// Get devuelve la proyección; si no existe aún, una en cero (bootstrap lazy:
// la fila se crea recién con el primer movimiento).
func (r *StockRecordRepo) Get(productID, variantID string) (*entity.StockRecord, error) {
	query := `SELECT ` + stockRecordCols + `
		FROM stock_records WHERE product_id = $1 AND variant_id = $2`
	rec, err := r.scanOne(r.q.QueryRow(context.Background(), query, productID, variantID))
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return &entity.StockRecord{ProductID: productID, VariantID: variantID}, nil
	}
	return rec, nil
}

// GetForUpdate igual que Get pero con SELECT FOR UPDATE: serializa los
// movimientos concurrentes sobre el mismo producto/variante. Antes del SELECT
// materializa la fila en cero si no existe: FOR UPDATE sobre cero filas no
// bloquea nada, y dos primeros movimientos concurrentes se pisarían el Upsert.
func (r *StockRecordRepo) GetForUpdate(productID, variantID string) (*entity.StockRecord, error) {
	bootstrap := `
		INSERT INTO stock_records (` + stockRecordCols + `)
		VALUES ($1, $2, 0, 0, 0, 0, now())
		ON CONFLICT (product_id, variant_id) DO NOTHING`
	if _, err := r.q.Exec(context.Background(), bootstrap, productID, variantID); err != nil {
		return nil, fmt.Errorf("bootstrap stock record: %w", err)
	}

	query := `SELECT ` + stockRecordCols + `
		FROM stock_records WHERE product_id = $1 AND variant_id = $2 FOR UPDATE`
	rec, err := r.scanOne(r.q.QueryRow(context.Background(), query, productID, variantID))
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return &entity.StockRecord{ProductID: productID, VariantID: variantID}, nil
	}
	return rec, nil
}

func (r *StockRecordRepo) scanOne(row pgx.Row) (*entity.StockRecord, error) {
	var rec entity.StockRecord
	err := row.Scan(&rec.ProductID, &rec.VariantID, &rec.Current, &rec.Available,
		&rec.Reserved, &rec.Minimum, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock record: %w", err)
	}
	return &rec, nil
}

// Upsert inserta o reemplaza la proyección completa.
func (r *StockRecordRepo) Upsert(record *entity.StockRecord) error {
	query := `
		INSERT INTO stock_records (product_id, variant_id, current_qty, available_qty, reserved_qty, minimum_qty, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (product_id, variant_id) DO UPDATE SET
			current_qty = EXCLUDED.current_qty,
			available_qty = EXCLUDED.available_qty,
			reserved_qty = EXCLUDED.reserved_qty,
			minimum_qty = EXCLUDED.minimum_qty,
			updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(context.Background(), query,
		record.ProductID, record.VariantID, record.Current, record.Available,
		record.Reserved, record.Minimum, record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert stock record: %w", err)
	}
	return nil
}

// ListBelowMinimum proyecciones del usuario con disponible bajo el mínimo,
// con el producto y el déficit ya calculado. Ordena por déficit descendente
// (lo más urgente primero).
func (r *StockRecordRepo) ListBelowMinimum(userID string) ([]repository.BelowMinimumResult, error) {
	query := `
		SELECT p.id, p.user_id, p.sku, p.name, p.description, p.price, p.status, p.created_at, p.updated_at,
		       s.product_id, s.variant_id, s.current_qty, s.available_qty, s.reserved_qty, s.minimum_qty, s.updated_at
		FROM stock_records s
		JOIN products p ON p.id = s.product_id
		WHERE p.user_id = $1 AND s.available_qty < s.minimum_qty AND p.status <> 'discontinued'
		ORDER BY (s.minimum_qty - s.available_qty) DESC`
	rows, err := r.q.Query(context.Background(), query, userID)
	if err != nil {
		return nil, fmt.Errorf("list below minimum: %w", err)
	}
	defer rows.Close()

	var list []repository.BelowMinimumResult
	for rows.Next() {
		var res repository.BelowMinimumResult
		if err := rows.Scan(
			&res.Product.ID, &res.Product.UserID, &res.Product.SKU, &res.Product.Name,
			&res.Product.Description, &res.Product.Price, &res.Product.Status,
			&res.Product.CreatedAt, &res.Product.UpdatedAt,
			&res.Record.ProductID, &res.Record.VariantID, &res.Record.Current,
			&res.Record.Available, &res.Record.Reserved, &res.Record.Minimum,
			&res.Record.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan below minimum: %w", err)
		}
		res.Deficit = res.Record.Deficit()
		list = append(list, res)
	}
	return list, rows.Err()
}
