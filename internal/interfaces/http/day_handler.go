package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/bakery-inventory/internal/application/daily"
	"github.com/jhoicas/bakery-inventory/internal/application/dto"
	"github.com/jhoicas/bakery-inventory/internal/domain/entity"
	"github.com/jhoicas/bakery-inventory/internal/domain/inventory"
)

// DayHandler planilla diaria: límites, carga y edición de filas.
type DayHandler struct {
	svc *daily.Service
	log zerolog.Logger
}

// NewDayHandler construye el handler.
func NewDayHandler(svc *daily.Service, log zerolog.Logger) *DayHandler {
	return &DayHandler{svc: svc, log: log}
}

// Limits godoc
// @Summary      Rango del selector de fecha
// @Tags         days
// @Produce      json
// @Success      200  {object}  dto.LimitsResponse
// @Router       /api/days/limits [get]
func (h *DayHandler) Limits(c *fiber.Ctx) error {
	policy := h.svc.Policy()
	limits := h.svc.Limits()
	return c.JSON(dto.LimitsResponse{
		Today:             inventory.FormatDate(h.svc.Today()),
		Min:               inventory.FormatDate(limits.Min),
		Max:               inventory.FormatDate(limits.Max),
		HistoryDays:       policy.HistoryDays,
		EditableRangeDays: policy.EditableRangeDays,
	})
}

// Get godoc
// @Summary      Planilla de una fecha (la deja como fecha activa)
// @Tags         days
// @Produce      json
// @Param        date  path  string  true  "YYYY-MM-DD"
// @Success      200   {object}  dto.SheetResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/days/{date} [get]
func (h *DayHandler) Get(c *fiber.Ctx) error {
	sheet, err := h.svc.Open(c.UserContext(), c.Params("date"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(toSheetResponse(sheet))
}

// EditRow godoc
// @Summary      Editar tandas y sobrante de un producto (autosave diferido)
// @Tags         days
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        date       path  string              true  "YYYY-MM-DD"
// @Param        productId  path  string              true  "ID del producto"
// @Param        body       body  dto.EditRowRequest  true  "batches y remaining_qty"
// @Success      200        {object}  dto.EditRowResponse
// @Failure      400        {object}  dto.ErrorResponse
// @Failure      404        {object}  dto.ErrorResponse
// @Failure      409        {object}  dto.ErrorResponse
// @Router       /api/days/{date}/products/{productId} [put]
func (h *DayHandler) EditRow(c *fiber.Ctx) error {
	var in dto.EditRowRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	edit, err := h.svc.EditRow(c.UserContext(), c.Params("date"), c.Params("productId"),
		entity.BatchesFromSlice(in.Batches), in.RemainingQty)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.EditRowResponse{
		Row:        toRowResponse(edit.Row),
		Totals:     toTotalsResponse(edit.Totals),
		WasClamped: edit.WasClamped,
		SaveAfter:  h.svc.Delay().Milliseconds(),
	})
}

func toSheetResponse(s *daily.Sheet) dto.SheetResponse {
	rows := make([]dto.RowResponse, 0, len(s.Rows))
	for _, r := range s.Rows {
		rows = append(rows, toRowResponse(r))
	}
	return dto.SheetResponse{
		Date:     s.Date,
		Editable: s.Editable,
		Rows:     rows,
		Totals:   toTotalsResponse(s.Totals),
	}
}

func toRowResponse(r daily.Row) dto.RowResponse {
	return dto.RowResponse{
		ProductID:    r.Product.ID,
		ProductName:  r.Product.Name,
		Price:        r.Product.UnitPrice(),
		Batches:      r.Result.Batches.Slice(),
		TotalSent:    r.Result.TotalSent,
		RemainingQty: r.Result.RemainingQty,
		SoldQty:      r.Result.SoldQty,
		StockValue:   r.Result.StockValue,
		Revenue:      r.Result.Revenue,
		Persisted:    r.Record.Persisted(),
	}
}

func toTotalsResponse(t inventory.Totals) dto.TotalsResponse {
	return dto.TotalsResponse{
		Products:       t.Products,
		TotalSent:      t.TotalSent,
		TotalRemaining: t.TotalRemaining,
		TotalSold:      t.TotalSold,
		Revenue:        t.Revenue,
		RemainingValue: t.RemainingValue,
	}
}
