package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/bakery-inventory/internal/application/dto"
	"github.com/jhoicas/bakery-inventory/internal/application/notify"
)

// NotificationHandler feed de avisos transitorios.
type NotificationHandler struct {
	feed *notify.Feed
}

// NewNotificationHandler construye el handler.
func NewNotificationHandler(feed *notify.Feed) *NotificationHandler {
	return &NotificationHandler{feed: feed}
}

// List godoc
// @Summary      Avisos posteriores a un seq
// @Tags         notifications
// @Produce      json
// @Param        after  query  int  false  "último seq recibido"
// @Success      200    {object}  dto.NotificationListResponse
// @Router       /api/notifications [get]
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	after := c.QueryInt("after", 0)
	if after < 0 {
		after = 0
	}
	return c.JSON(dto.NotificationListResponse{
		Items: h.feed.Since(uint64(after)),
		Last:  h.feed.Last(),
	})
}
