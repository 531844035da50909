/*
Package report arma la tabla del reporte diario y la entrega a un Renderer.

COLUMNAS:

	Item | Price | B1..B6 | Sent | Rem | Sold | Rev

Cada fila se deriva con inventory.ReconcileRow, de modo que vendido e ingreso
coinciden siempre con lo que muestra la planilla.
*/
package report

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/bakery-inventory/internal/domain/entity"
	"github.com/jhoicas/bakery-inventory/internal/domain/inventory"
)

// Columnas fijas del reporte.
const (
	ColItem       = 0
	ColPrice      = 1
	ColFirstBatch = 2
	ColSent       = ColFirstBatch + entity.NumBatches
	ColRem        = ColSent + 1
	ColSold       = ColRem + 1
	ColRev        = ColSold + 1
	NumColumns    = ColRev + 1
)

// Meta encabezado del documento.
type Meta struct {
	Title       string
	Subtitle    string
	Currency    string
	Date        string
	GeneratedAt time.Time
}

// DailyReport tabla lista para renderizar.
type DailyReport struct {
	Meta
	Header  []string
	Rows    [][]string
	Footer  []string
	Summary []string
	Totals  inventory.Totals
}

// Header etiquetas fijas de la tabla.
func Header() []string {
	h := []string{"Item", "Price"}
	for i := 1; i <= entity.NumBatches; i++ {
		h = append(h, fmt.Sprintf("B%d", i))
	}
	return append(h, "Sent", "Rem", "Sold", "Rev")
}

// Assemble arma el reporte en orden de catálogo. Un producto sin registro aparece en ceros.
func Assemble(meta Meta, products []*entity.Product, records map[string]*entity.DailyRecord) *DailyReport {
	p := message.NewPrinter(language.English)
	rep := &DailyReport{Meta: meta, Header: Header()}

	results := make([]inventory.RowResult, 0, len(products))
	for _, product := range products {
		res := inventory.ReconcileRecord(records[product.ID], product.UnitPrice())
		results = append(results, res)

		row := make([]string, 0, NumColumns)
		row = append(row, product.Name, money(product.UnitPrice()))
		for _, b := range res.Batches {
			row = append(row, p.Sprintf("%d", b))
		}
		row = append(row,
			p.Sprintf("%d", res.TotalSent),
			p.Sprintf("%d", res.RemainingQty),
			p.Sprintf("%d", res.SoldQty),
			money(res.Revenue),
		)
		rep.Rows = append(rep.Rows, row)
	}

	rep.Totals = inventory.Aggregate(results)
	rep.Footer = make([]string, NumColumns)
	rep.Footer[ColItem] = "TOTALS"
	rep.Footer[ColSent] = p.Sprintf("%d", rep.Totals.TotalSent)
	rep.Footer[ColRem] = p.Sprintf("%d", rep.Totals.TotalRemaining)
	rep.Footer[ColSold] = p.Sprintf("%d", rep.Totals.TotalSold)
	rep.Footer[ColRev] = money(rep.Totals.Revenue)

	rep.Summary = []string{
		fmt.Sprintf("Total Revenue: %s %s", meta.Currency, money(rep.Totals.Revenue)),
		p.Sprintf("Total Items Sold: %d", rep.Totals.TotalSold),
		p.Sprintf("Total Unsold Items: %d", rep.Totals.TotalRemaining),
	}
	return rep
}

// FileName nombre de descarga del reporte de date.
func FileName(date string) string {
	return fmt.Sprintf("bakery_report_%s.pdf", date)
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
