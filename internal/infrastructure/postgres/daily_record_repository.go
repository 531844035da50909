package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/bakery-inventory/internal/domain/entity"
	"github.com/jhoicas/bakery-inventory/internal/domain/repository"
)

var _ repository.DailyRecordRepository = (*DailyRecordRepo)(nil)

// DailyRecordRepo registros diarios sobre PostgreSQL (usable con pool o tx).
type DailyRecordRepo struct {
	q Querier
}

// NewDailyRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDailyRecordRepository(q Querier) *DailyRecordRepo {
	return &DailyRecordRepo{q: q}
}

// ListByDate devuelve los registros de la fecha indexados por producto.
func (r *DailyRecordRepo) ListByDate(ctx context.Context, date string) (map[string]*entity.DailyRecord, error) {
	d, err := dateParam(date)
	if err != nil {
		return nil, err
	}
	query := `
		SELECT id, product_id, date::text, batches, total_sent, remaining_qty, sold_qty, created_at, updated_at
		FROM daily_records WHERE date = $1`
	rows, err := r.q.Query(ctx, query, d)
	if err != nil {
		return nil, fmt.Errorf("list daily records: %w", err)
	}
	defer rows.Close()

	out := make(map[string]*entity.DailyRecord)
	for rows.Next() {
		var rec entity.DailyRecord
		var batches []int
		if err := rows.Scan(&rec.ID, &rec.ProductID, &rec.Date, &batches,
			&rec.TotalSent, &rec.RemainingQty, &rec.SoldQty, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan daily record: %w", err)
		}
		rec.Batches = entity.BatchesFromSlice(batches)
		out[rec.ProductID] = &rec
	}
	return out, rows.Err()
}

// Upsert inserta o reemplaza el registro (por producto y fecha).
func (r *DailyRecordRepo) Upsert(ctx context.Context, record *entity.DailyRecord) error {
	d, err := dateParam(record.Date)
	if err != nil {
		return err
	}
	id := record.ID
	if id == "" {
		id = uuid.New().String()
	}
	query := `
		INSERT INTO daily_records (id, product_id, date, batches, total_sent, remaining_qty, sold_qty, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		ON CONFLICT (product_id, date)
		DO UPDATE SET batches = EXCLUDED.batches, total_sent = EXCLUDED.total_sent,
			remaining_qty = EXCLUDED.remaining_qty, sold_qty = EXCLUDED.sold_qty, updated_at = now()
		RETURNING id, created_at, updated_at`
	err = r.q.QueryRow(ctx, query,
		id, record.ProductID, d, record.Batches.Slice(),
		record.TotalSent, record.RemainingQty, record.SoldQty,
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert daily record: %w", err)
	}
	return nil
}

// DeleteByProduct elimina todos los registros de un producto.
func (r *DailyRecordRepo) DeleteByProduct(ctx context.Context, productID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM daily_records WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("delete daily records: %w", err)
	}
	return nil
}
