package pdf_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bakery-inventory/internal/application/report"
	"github.com/jhoicas/bakery-inventory/internal/domain/entity"
	"github.com/jhoicas/bakery-inventory/internal/infrastructure/pdf"
)

func sampleReport() *report.DailyReport {
	products := []*entity.Product{
		{ID: "a", Name: "Bun", Price: decimal.NewFromInt(10)},
		{ID: "b", Name: "Tea Bun", Price: decimal.RequireFromString("12.50")},
	}
	records := map[string]*entity.DailyRecord{
		"a": {ProductID: "a", Batches: entity.Batches{10}, RemainingQty: 3},
	}
	meta := report.Meta{
		Title: "Bakery Polina", Subtitle: "Daily Inventory Report", Currency: "Rs.",
		Date: "2026-10-19", GeneratedAt: time.Date(2026, 10, 19, 20, 0, 0, 0, time.UTC),
	}
	return report.Assemble(meta, products, records)
}

type brokenFonts struct{}

func (brokenFonts) Path(context.Context) (string, error) { return "", errors.New("sin red") }

func TestRender_GeneraPDF(t *testing.T) {
	r := pdf.NewMarotoReportRenderer(nil, zerolog.Nop())
	out, err := r.Render(context.Background(), sampleReport())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

// TestRender_FuenteFallidaUsaHelvetica el reporte se produce igual sin la fuente personalizada.
func TestRender_FuenteFallidaUsaHelvetica(t *testing.T) {
	r := pdf.NewMarotoReportRenderer(brokenFonts{}, zerolog.Nop())
	out, err := r.Render(context.Background(), sampleReport())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
