package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/bakery-inventory/internal/domain/entity"
	"github.com/jhoicas/bakery-inventory/internal/domain/repository"
)

var _ repository.DailyRecordRepository = (*DailyRecordRepo)(nil)

// DailyRecordRepo registros diarios sobre SQLite (usable con db o tx).
type DailyRecordRepo struct {
	q querier
}

// ListByDate devuelve los registros de la fecha indexados por producto.
func (r *DailyRecordRepo) ListByDate(ctx context.Context, date string) (map[string]*entity.DailyRecord, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, product_id, date, batches, total_sent, remaining_qty, sold_qty, created_at, updated_at
		FROM daily_records WHERE date = ?`, date)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listar registros: %w", err)
	}
	defer rows.Close()

	out := make(map[string]*entity.DailyRecord)
	for rows.Next() {
		var rec entity.DailyRecord
		var raw string
		if err := rows.Scan(&rec.ID, &rec.ProductID, &rec.Date, &raw,
			&rec.TotalSent, &rec.RemainingQty, &rec.SoldQty, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: leer registro: %w", err)
		}
		var batches []int
		if err := json.Unmarshal([]byte(raw), &batches); err != nil {
			return nil, fmt.Errorf("sqlite: batches de %s: %w", rec.ID, err)
		}
		rec.Batches = entity.BatchesFromSlice(batches)
		out[rec.ProductID] = &rec
	}
	return out, rows.Err()
}

// Upsert inserta o reemplaza por (product_id, date) y relee id y timestamps.
func (r *DailyRecordRepo) Upsert(ctx context.Context, record *entity.DailyRecord) error {
	raw, err := json.Marshal(record.Batches.Slice())
	if err != nil {
		return fmt.Errorf("sqlite: batches: %w", err)
	}
	id := record.ID
	if id == "" {
		id = uuid.New().String()
	}
	now := time.Now().UTC()
	_, err = r.q.ExecContext(ctx, `
		INSERT INTO daily_records (id, product_id, date, batches, total_sent, remaining_qty, sold_qty, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (product_id, date) DO UPDATE SET
			batches = excluded.batches, total_sent = excluded.total_sent,
			remaining_qty = excluded.remaining_qty, sold_qty = excluded.sold_qty,
			updated_at = excluded.updated_at`,
		id, record.ProductID, record.Date, string(raw),
		record.TotalSent, record.RemainingQty, record.SoldQty, now, now,
	)
	if err != nil {
		return fmt.Errorf("sqlite: upsert registro: %w", err)
	}
	err = r.q.QueryRowContext(ctx,
		`SELECT id, created_at, updated_at FROM daily_records WHERE product_id = ? AND date = ?`,
		record.ProductID, record.Date,
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		return fmt.Errorf("sqlite: releer registro: %w", err)
	}
	return nil
}

// DeleteByProduct elimina todos los registros del producto.
func (r *DailyRecordRepo) DeleteByProduct(ctx context.Context, productID string) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM daily_records WHERE product_id = ?`, productID); err != nil {
		return fmt.Errorf("sqlite: eliminar registros: %w", err)
	}
	return nil
}
