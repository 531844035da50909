package inventory

import "github.com/shopspring/decimal"

// Totals totales de la tienda para el día (solo para mostrar; no se persisten).
type Totals struct {
	Products       int
	TotalSent      int
	TotalRemaining int
	TotalSold      int
	Revenue        decimal.Decimal
	RemainingValue decimal.Decimal
}

// Aggregate suma todas las filas. El orden no importa; sin filas devuelve ceros.
func Aggregate(rows []RowResult) Totals {
	t := Totals{Revenue: decimal.Zero, RemainingValue: decimal.Zero}
	for _, r := range rows {
		t.Products++
		t.TotalSent += r.TotalSent
		t.TotalRemaining += r.RemainingQty
		t.TotalSold += r.SoldQty
		t.Revenue = t.Revenue.Add(r.Revenue)
		t.RemainingValue = t.RemainingValue.Add(r.StockValue)
	}
	return t
}
