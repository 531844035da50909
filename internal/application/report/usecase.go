package report

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/bakery-inventory/internal/domain"
	"github.com/jhoicas/bakery-inventory/internal/domain/entity"
)

// Renderer convierte el reporte armado en un documento (PDF).
type Renderer interface {
	Render(ctx context.Context, rep *DailyReport) ([]byte, error)
}

// Source provee catálogo y registros de una fecha (la planilla viva o el store).
type Source interface {
	Snapshot(ctx context.Context, date string) ([]*entity.Product, map[string]*entity.DailyRecord, error)
}

// File documento generado.
type File struct {
	Name        string
	ContentType string
	Content     []byte
}

// Branding textos fijos del encabezado.
type Branding struct {
	Title    string
	Subtitle string
	Currency string
}

// UseCase genera el reporte diario.
type UseCase struct {
	source   Source
	renderer Renderer
	brand    Branding
	log      zerolog.Logger
	now      func() time.Time
}

// NewUseCase construye el caso de uso. now define la hora de "Generated".
func NewUseCase(source Source, renderer Renderer, brand Branding, log zerolog.Logger, now func() time.Time) *UseCase {
	if now == nil {
		now = time.Now
	}
	return &UseCase{source: source, renderer: renderer, brand: brand, log: log, now: now}
}

// Build arma el reporte sin renderizar. ErrNoData si el catálogo está vacío.
func (uc *UseCase) Build(ctx context.Context, date string) (*DailyReport, error) {
	products, records, err := uc.source.Snapshot(ctx, date)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, domain.ErrNoData
	}
	meta := Meta{
		Title:       uc.brand.Title,
		Subtitle:    uc.brand.Subtitle,
		Currency:    uc.brand.Currency,
		Date:        date,
		GeneratedAt: uc.now(),
	}
	return Assemble(meta, products, records), nil
}

// GenerateDailyReport arma y renderiza el reporte de date.
func (uc *UseCase) GenerateDailyReport(ctx context.Context, date string) (*File, error) {
	rep, err := uc.Build(ctx, date)
	if err != nil {
		return nil, err
	}
	content, err := uc.renderer.Render(ctx, rep)
	if err != nil {
		uc.log.Error().Err(err).Str("date", date).Msg("error al renderizar reporte")
		return nil, fmt.Errorf("renderizar reporte: %w", err)
	}
	uc.log.Info().Str("date", date).Int("products", rep.Totals.Products).Int("bytes", len(content)).Msg("reporte generado")
	return &File{Name: FileName(date), ContentType: "application/pdf", Content: content}, nil
}
