package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/jhoicas/bakery-inventory/internal/application/dto"
	"github.com/jhoicas/bakery-inventory/internal/application/report"
)

// ReportHandler descarga del reporte PDF.
type ReportHandler struct {
	uc  *report.UseCase
	log zerolog.Logger
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *report.UseCase, log zerolog.Logger) *ReportHandler {
	return &ReportHandler{uc: uc, log: log}
}

// Download godoc
// @Summary      Reporte diario en PDF
// @Tags         reports
// @Produce      application/pdf
// @Param        date  path  string  true  "YYYY-MM-DD"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      429  {object}  dto.ErrorResponse
// @Router       /api/days/{date}/report [get]
func (h *ReportHandler) Download(c *fiber.Ctx) error {
	file, err := h.uc.GenerateDailyReport(c.UserContext(), c.Params("date"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", file.Name))
	return c.Send(file.Content)
}

// RateLimit limita un grupo de rutas con un token bucket compartido.
func RateLimit(l *rate.Limiter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !l.Allow() {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{Code: "RATE_LIMITED", Message: "demasiadas solicitudes, intente en un momento"})
		}
		return c.Next()
	}
}
