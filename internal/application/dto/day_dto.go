package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/bakery-inventory/internal/application/notify"
)

// LimitsResponse rango del selector de fecha.
type LimitsResponse struct {
	Today             string `json:"today"`
	Min               string `json:"min"`
	Max               string `json:"max"`
	HistoryDays       int    `json:"history_days"`
	EditableRangeDays int    `json:"editable_range_days"`
}

// RowResponse fila conciliada de la planilla.
type RowResponse struct {
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	Price        decimal.Decimal `json:"price"`
	Batches      []int           `json:"batches"`
	TotalSent    int             `json:"total_sent"`
	RemainingQty int             `json:"remaining_qty"`
	SoldQty      int             `json:"sold_qty"`
	StockValue   decimal.Decimal `json:"stock_value"`
	Revenue      decimal.Decimal `json:"revenue"`
	Persisted    bool            `json:"persisted"`
}

// TotalsResponse totales de la tienda para el día.
type TotalsResponse struct {
	Products       int             `json:"products"`
	TotalSent      int             `json:"total_sent"`
	TotalRemaining int             `json:"total_remaining"`
	TotalSold      int             `json:"total_sold"`
	Revenue        decimal.Decimal `json:"revenue"`
	RemainingValue decimal.Decimal `json:"remaining_value"`
}

// SheetResponse planilla de una fecha.
type SheetResponse struct {
	Date     string         `json:"date"`
	Editable bool           `json:"editable"`
	Rows     []RowResponse  `json:"rows"`
	Totals   TotalsResponse `json:"totals"`
}

// EditRowRequest nuevas tandas y sobrante de una fila. Los negativos se tratan como 0.
type EditRowRequest struct {
	Batches      []int `json:"batches" validate:"max=6"`
	RemainingQty int   `json:"remaining_qty"`
}

// EditRowResponse fila conciliada tras la edición; el guardado queda programado.
type EditRowResponse struct {
	Row        RowResponse    `json:"row"`
	Totals     TotalsResponse `json:"totals"`
	WasClamped bool           `json:"was_clamped"`
	SaveAfter  int64          `json:"save_after_ms"`
}

// NotificationListResponse avisos con seq mayor al pedido.
type NotificationListResponse struct {
	Items []notify.Notice `json:"items"`
	Last  uint64          `json:"last"`
}
