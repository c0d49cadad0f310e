package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/helpmate/helpdesk/internal/auth"
	"github.com/helpmate/helpdesk/internal/service"
	apperrors "github.com/helpmate/helpdesk/pkg/util/errorutil"
)

// StatsHandler serves the admin dashboard counts.
type StatsHandler struct {
	service *service.TicketService
}

// NewStatsHandler constructs handler.
func NewStatsHandler(ticketService *service.TicketService) *StatsHandler {
	return &StatsHandler{service: ticketService}
}

// GetStats GET /api/stats.
func (h *StatsHandler) GetStats(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	stats, err := h.service.GetStats(c.UserContext(), actor)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}
