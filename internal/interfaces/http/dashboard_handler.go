package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pqrix/pqrix-api/internal/application/usecase"
)

// DashboardHandler expone los contadores del panel.
type DashboardHandler struct {
	uc *usecase.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *usecase.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetStats contadores agregados del back-office.
// GET /api/admin/stats
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.uc.GetStats(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}
