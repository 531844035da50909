package daily

import (
	"time"

	"github.com/jhoicas/bakery-inventory/internal/domain/entity"
	"github.com/jhoicas/bakery-inventory/internal/domain/inventory"
)

// Row fila de la planilla: producto, registro vivo y valores conciliados.
type Row struct {
	Product *entity.Product
	Record  *entity.DailyRecord
	Result  inventory.RowResult
}

// Sheet planilla completa de una fecha, en orden de catálogo.
type Sheet struct {
	Date     string
	Editable bool
	Rows     []Row
	Totals   inventory.Totals
}

// RowEdit resultado de EditRow.
type RowEdit struct {
	Row        Row
	Totals     inventory.Totals
	WasClamped bool
}

func (s *Service) rowsLocked() []Row {
	rows := make([]Row, 0, len(s.state.Products))
	for _, p := range s.state.Products {
		rec := s.state.Rows[p.ID].Clone()
		if rec == nil {
			rec = entity.NewEmptyRecord(p.ID, s.state.Date)
		}
		rows = append(rows, Row{Product: p, Record: rec, Result: inventory.ReconcileRecord(rec, p.UnitPrice())})
	}
	return rows
}

func (s *Service) totalsLocked() inventory.Totals {
	rows := s.rowsLocked()
	results := make([]inventory.RowResult, len(rows))
	for i, r := range rows {
		results[i] = r.Result
	}
	return inventory.Aggregate(results)
}

func (s *Service) sheetLocked(date time.Time) *Sheet {
	rows := s.rowsLocked()
	results := make([]inventory.RowResult, len(rows))
	for i, r := range rows {
		results[i] = r.Result
	}
	return &Sheet{
		Date:     s.state.Date,
		Editable: s.policy.IsEditable(date, s.Today()),
		Rows:     rows,
		Totals:   inventory.Aggregate(results),
	}
}
