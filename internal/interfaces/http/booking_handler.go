package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pqrix/pqrix-api/internal/application/booking"
	"github.com/pqrix/pqrix-api/internal/application/dto"
)

// BookingHandler maneja las peticiones HTTP de contrataciones.
type BookingHandler struct {
	uc *booking.UseCase
}

// NewBookingHandler construye el handler.
func NewBookingHandler(uc *booking.UseCase) *BookingHandler {
	return &BookingHandler{uc: uc}
}

// Create registra la consulta de un cliente por un paquete.
// POST /api/admin/bookings
func (h *BookingHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBookingRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	b, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(b)
}

// List lista contrataciones filtrando por estado.
// GET /api/admin/bookings?status=&limit=&offset=
func (h *BookingHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query inválido"})
	}
	page.DefaultPage()
	list, err := h.uc.List(c.Context(), c.Query("status"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// GetByID obtiene una contratación.
// GET /api/admin/bookings/:id
func (h *BookingHandler) GetByID(c *fiber.Ctx) error {
	b, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(b)
}

// UpdateStatus cambia estado y progreso.
// PUT /api/admin/bookings/:id/status
func (h *BookingHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateBookingStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	b, err := h.uc.UpdateStatus(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(b)
}

// ReplaceTimeline reemplaza el plan de fases.
// PUT /api/admin/bookings/:id/timeline
func (h *BookingHandler) ReplaceTimeline(c *fiber.Ctx) error {
	var in dto.ReplaceTimelineRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	b, err := h.uc.ReplaceTimeline(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(b)
}

// ListByClient contrataciones del portal de cliente, por email.
// GET /api/bookings?email=
func (h *BookingHandler) ListByClient(c *fiber.Ctx) error {
	list, err := h.uc.ListByClientEmail(c.Context(), c.Query("email"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}
