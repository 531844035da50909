package report_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bakery-inventory/internal/application/report"
	"github.com/jhoicas/bakery-inventory/internal/domain"
	"github.com/jhoicas/bakery-inventory/internal/domain/entity"
)

func products() []*entity.Product {
	return []*entity.Product{
		{ID: "a", Name: "Bun", Price: decimal.NewFromInt(5)},
		{ID: "b", Name: "කිරි බත්", Price: decimal.NewFromInt(20)},
	}
}

func records() map[string]*entity.DailyRecord {
	return map[string]*entity.DailyRecord{
		"a": {ProductID: "a", Date: "2026-10-19", Batches: entity.Batches{6, 4}, RemainingQty: 4},
	}
}

// ─── Assemble ────────────────────────────────────────────────────────────────

func TestHeader_EtiquetasFijas(t *testing.T) {
	assert.Equal(t, []string{"Item", "Price", "B1", "B2", "B3", "B4", "B5", "B6", "Sent", "Rem", "Sold", "Rev"}, report.Header())
	assert.Equal(t, report.NumColumns, len(report.Header()))
}

func TestAssemble_FilasTotalesYResumen(t *testing.T) {
	rep := report.Assemble(report.Meta{Title: "Bakery Polina", Currency: "Rs.", Date: "2026-10-19"}, products(), records())

	require.Len(t, rep.Rows, 2)
	assert.Equal(t, []string{"Bun", "5.00", "6", "4", "0", "0", "0", "0", "10", "4", "6", "30.00"}, rep.Rows[0])
	assert.Equal(t, []string{"කිරි බත්", "20.00", "0", "0", "0", "0", "0", "0", "0", "0", "0", "0.00"}, rep.Rows[1])

	assert.Equal(t, "TOTALS", rep.Footer[report.ColItem])
	assert.Equal(t, "", rep.Footer[report.ColPrice])
	assert.Equal(t, "10", rep.Footer[report.ColSent])
	assert.Equal(t, "4", rep.Footer[report.ColRem])
	assert.Equal(t, "6", rep.Footer[report.ColSold])
	assert.Equal(t, "30.00", rep.Footer[report.ColRev])

	assert.Equal(t, []string{
		"Total Revenue: Rs. 30.00",
		"Total Items Sold: 6",
		"Total Unsold Items: 4",
	}, rep.Summary)
	assert.True(t, rep.Totals.RemainingValue.Equal(decimal.NewFromInt(20)))
}

// TestAssemble_RegistroInconsistenteSeConcilia un sobrante guardado mayor que lo enviado no da vendido negativo.
func TestAssemble_RegistroInconsistenteSeConcilia(t *testing.T) {
	recs := map[string]*entity.DailyRecord{"a": {ProductID: "a", Batches: entity.Batches{2}, RemainingQty: 5}}
	rep := report.Assemble(report.Meta{}, products()[:1], recs)
	assert.Equal(t, "2", rep.Rows[0][report.ColRem])
	assert.Equal(t, "0", rep.Rows[0][report.ColSold])
}

// ─── UseCase ─────────────────────────────────────────────────────────────────

type fakeSource struct {
	products []*entity.Product
	records  map[string]*entity.DailyRecord
	err      error
}

func (f fakeSource) Snapshot(context.Context, string) ([]*entity.Product, map[string]*entity.DailyRecord, error) {
	return f.products, f.records, f.err
}

type fakeRenderer struct {
	got *report.DailyReport
	err error
}

func (r *fakeRenderer) Render(_ context.Context, rep *report.DailyReport) ([]byte, error) {
	r.got = rep
	return []byte("%PDF-fake"), r.err
}

func TestGenerateDailyReport(t *testing.T) {
	generated := time.Date(2026, 10, 19, 18, 30, 0, 0, time.UTC)
	r := &fakeRenderer{}
	uc := report.NewUseCase(fakeSource{products: products(), records: records()}, r,
		report.Branding{Title: "Bakery Polina", Subtitle: "Daily Inventory Report", Currency: "Rs."},
		zerolog.Nop(), func() time.Time { return generated })

	file, err := uc.GenerateDailyReport(context.Background(), "2026-10-19")
	require.NoError(t, err)
	assert.Equal(t, "bakery_report_2026-10-19.pdf", file.Name)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.Equal(t, []byte("%PDF-fake"), file.Content)
	assert.Equal(t, "Daily Inventory Report", r.got.Subtitle)
	assert.Equal(t, generated, r.got.GeneratedAt)
}

func TestGenerateDailyReport_Errores(t *testing.T) {
	ctx := context.Background()

	uc := report.NewUseCase(fakeSource{}, &fakeRenderer{}, report.Branding{}, zerolog.Nop(), nil)
	_, err := uc.GenerateDailyReport(ctx, "2026-10-19")
	assert.ErrorIs(t, err, domain.ErrNoData)

	boom := errors.New("sin memoria")
	uc = report.NewUseCase(fakeSource{products: products()}, &fakeRenderer{err: boom}, report.Branding{}, zerolog.Nop(), nil)
	_, err = uc.GenerateDailyReport(ctx, "2026-10-19")
	assert.ErrorIs(t, err, boom)

	uc = report.NewUseCase(fakeSource{err: boom}, &fakeRenderer{}, report.Branding{}, zerolog.Nop(), nil)
	_, err = uc.GenerateDailyReport(ctx, "2026-10-19")
	assert.ErrorIs(t, err, boom)
}
