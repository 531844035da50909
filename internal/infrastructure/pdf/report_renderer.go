// Package pdf renderiza el reporte diario de inventario con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre de la panadería + subtítulo                 │
//	│          Date / Generated                                   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Item | Price | B1..B6 | Sent | Rem | Sold | Rev     │
//	│  TOTALS                                                     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  SUMMARY: ingreso total / vendidos / sin vender             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/johnfercher/maroto/v2/pkg/repository"
	"github.com/rs/zerolog"

	"github.com/jhoicas/bakery-inventory/internal/application/report"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 41, Green: 128, Blue: 185}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorFooter  = &props.Color{Red: 241, Green: 245, Blue: 249}
	colorRem     = &props.Color{Red: 192, Green: 57, Blue: 43}
	colorSold    = &props.Color{Red: 39, Green: 174, Blue: 96}
)

const (
	defaultFamily = "helvetica"
	bodyFamily    = "notosanssinhala"
	gridSize      = 20
)

// Ancho de cada columna sobre una grilla de 20.
var colSizes = [report.NumColumns]int{4, 2, 1, 1, 1, 1, 1, 1, 2, 2, 2, 2}

// FontSource entrega la ruta local de la fuente TTF para nombres no latinos.
type FontSource interface {
	Path(ctx context.Context) (string, error)
}

// MarotoReportRenderer implementa report.Renderer usando Maroto v2.
type MarotoReportRenderer struct {
	fonts FontSource
	log   zerolog.Logger
}

var _ report.Renderer = (*MarotoReportRenderer)(nil)

// NewMarotoReportRenderer construye el renderer. fonts puede ser nil (solo helvetica).
func NewMarotoReportRenderer(fonts FontSource, log zerolog.Logger) *MarotoReportRenderer {
	return &MarotoReportRenderer{fonts: fonts, log: log}
}

// Render genera el PDF y devuelve sus bytes.
func (g *MarotoReportRenderer) Render(ctx context.Context, rep *report.DailyReport) ([]byte, error) {
	builder := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithMaxGridSize(gridSize).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: defaultFamily, Size: 8}).
		WithTitle(rep.Title+" - "+rep.Date, true).
		WithAuthor(rep.Title, true)

	builder, family := g.withBodyFont(ctx, builder)
	m := maroto.New(builder.Build())

	m.AddRows(titleRows(rep)...)
	m.AddRows(line.NewRow(2, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(headerRow(rep.Header))
	for _, r := range rep.Rows {
		m.AddRows(bodyRow(r, family))
	}
	m.AddRows(footerRow(rep.Footer))

	m.AddRows(line.NewRow(4))
	m.AddRows(summaryRows(rep.Summary)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// withBodyFont registra la fuente del cuerpo; ante cualquier error se sigue con helvetica.
func (g *MarotoReportRenderer) withBodyFont(ctx context.Context, b config.Builder) (config.Builder, string) {
	if g.fonts == nil {
		return b, defaultFamily
	}
	path, err := g.fonts.Path(ctx)
	if err != nil {
		g.log.Warn().Err(err).Msg("fuente no disponible, se usa helvetica")
		return b, defaultFamily
	}
	fonts, err := repository.New().AddUTF8Font(bodyFamily, fontstyle.Normal, path).Load()
	if err != nil {
		g.log.Warn().Err(err).Str("path", path).Msg("fuente inválida, se usa helvetica")
		return b, defaultFamily
	}
	return b.WithCustomFonts(fonts), bodyFamily
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func titleRows(rep *report.DailyReport) []core.Row {
	return []core.Row{
		row.New(12).Add(col.New(gridSize).Add(text.New(rep.Title, props.Text{
			Style: fontstyle.Bold, Size: 20, Color: colorPrimary,
		}))),
		row.New(7).Add(col.New(gridSize).Add(text.New(rep.Subtitle, props.Text{
			Size: 12, Color: colorGray,
		}))),
		row.New(5).Add(col.New(gridSize).Add(text.New("Date: "+rep.Date, props.Text{
			Size: 9, Color: colorGray,
		}))),
		row.New(5).Add(col.New(gridSize).Add(text.New(
			"Generated: "+rep.GeneratedAt.Format("2006-01-02 15:04:05"),
			props.Text{Size: 9, Color: colorGray},
		))),
	}
}

// alignFor columnas numéricas centradas, precio e ingreso a la derecha.
func alignFor(i int) align.Type {
	switch i {
	case report.ColItem:
		return align.Left
	case report.ColPrice, report.ColRev:
		return align.Right
	default:
		return align.Center
	}
}

func headerRow(labels []string) core.Row {
	cols := make([]core.Col, 0, len(labels))
	for i, l := range labels {
		cols = append(cols, col.New(colSizes[i]).Add(text.New(l, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: align.Center,
			Color: colorWhite, Top: 1.5,
		})))
	}
	return row.New(7).Add(cols...).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func bodyRow(values []string, family string) core.Row {
	cols := make([]core.Col, 0, len(values))
	for i, v := range values {
		p := props.Text{Size: 8, Align: alignFor(i), Top: 1.5, Left: 1, Right: 1}
		switch i {
		case report.ColItem:
			p.Family = family
		case report.ColSent, report.ColRev:
			p.Style = fontstyle.Bold
		case report.ColRem:
			p.Color = colorRem
		case report.ColSold:
			p.Style = fontstyle.Bold
			p.Color = colorSold
		}
		cols = append(cols, col.New(colSizes[i]).Add(text.New(v, p)))
	}
	return row.New(7).Add(cols...)
}

func footerRow(values []string) core.Row {
	cols := make([]core.Col, 0, len(values))
	for i, v := range values {
		cols = append(cols, col.New(colSizes[i]).Add(text.New(v, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: alignFor(i), Top: 1.5, Left: 1, Right: 1,
		})))
	}
	return row.New(7).Add(cols...).WithStyle(&props.Cell{BackgroundColor: colorFooter})
}

func summaryRows(lines []string) []core.Row {
	rows := []core.Row{
		row.New(8).Add(col.New(gridSize).Add(text.New("Summary", props.Text{
			Style: fontstyle.Bold, Size: 13, Color: colorPrimary,
		}))),
	}
	for _, l := range lines {
		rows = append(rows, row.New(5).Add(col.New(gridSize).Add(text.New(l, props.Text{Size: 10}))))
	}
	return rows
}
