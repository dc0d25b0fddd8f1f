package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pqrix/pqrix-api/internal/application/billing"
	"github.com/pqrix/pqrix-api/internal/application/dto"
)

// InvoiceHandler maneja las peticiones HTTP de facturación.
// Las mutaciones van bajo /api/admin; la vista de factura, el PDF y el XML
// son lecturas del portal de cliente.
type InvoiceHandler struct {
	ledger *billing.LedgerUseCase
	pdf    *billing.PDFUseCase
	export *billing.ExportUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(ledger *billing.LedgerUseCase, pdf *billing.PDFUseCase, export *billing.ExportUseCase) *InvoiceHandler {
	return &InvoiceHandler{ledger: ledger, pdf: pdf, export: export}
}

// Create crea una factura ligada a una contratación.
// POST /api/admin/invoices
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	invoice, err := h.ledger.CreateInvoice(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(invoice)
}

// RecordPayment registra un pago contra la factura.
// POST /api/admin/invoices/:id/payments
func (h *InvoiceHandler) RecordPayment(c *fiber.Ctx) error {
	var in dto.RecordPaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	verifiedBy := GetAdminEmail(c)
	invoice, err := h.ledger.RecordPayment(c.Context(), c.Params("id"), verifiedBy, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(invoice)
}

// ToggleMilestone alterna el estado de pago de un hito (Paid ↔ Unpaid).
// POST /api/admin/invoices/:id/milestones/:mid/toggle
func (h *InvoiceHandler) ToggleMilestone(c *fiber.Ctx) error {
	invoice, err := h.ledger.ToggleMilestonePayment(c.Context(), c.Params("id"), c.Params("mid"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(invoice)
}

// UpdateMilestoneStatus cambia el avance de entrega de un hito (no toca dinero).
// PUT /api/admin/invoices/:id/milestones/:mid/status
func (h *InvoiceHandler) UpdateMilestoneStatus(c *fiber.Ctx) error {
	var in dto.UpdateMilestoneStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	invoice, err := h.ledger.UpdateMilestoneStatus(c.Context(), c.Params("id"), c.Params("mid"), in.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(invoice)
}

// OverrideStatus fija o quita una excepción de estado (Overdue/Cancelled/Active).
// PUT /api/admin/invoices/:id/status
func (h *InvoiceHandler) OverrideStatus(c *fiber.Ctx) error {
	var in dto.InvoiceStatusOverrideRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	invoice, err := h.ledger.OverrideStatus(c.Context(), c.Params("id"), in.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(invoice)
}

// GetByID obtiene la factura completa (admin y portal de cliente).
// GET /api/invoices/:id  |  GET /api/admin/invoices/:id
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	invoice, err := h.ledger.GetInvoice(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(invoice)
}

// GetByBooking obtiene la factura ligada a una contratación.
// GET /api/admin/bookings/:id/invoice
func (h *InvoiceHandler) GetByBooking(c *fiber.Ctx) error {
	invoice, err := h.ledger.GetInvoiceByBooking(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(invoice)
}

// List lista facturas filtrando por estado.
// GET /api/admin/invoices?status=&limit=&offset=
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query inválido"})
	}
	page.DefaultPage()
	invoices, err := h.ledger.ListInvoices(c.Context(), c.Query("status"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(invoices)
}

// ListByClient facturas del portal de cliente, por email.
// GET /api/invoices?email=
func (h *InvoiceHandler) ListByClient(c *fiber.Ctx) error {
	invoices, err := h.ledger.ListInvoicesByClient(c.Context(), c.Query("email"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(invoices)
}

// DownloadPDF genera y descarga el recibo PDF de la factura.
// GET /api/invoices/:id/pdf
func (h *InvoiceHandler) DownloadPDF(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.pdf.DownloadInvoicePDF(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}

// ExportXML genera y descarga el XML contable de la factura.
// GET /api/invoices/:id/xml
func (h *InvoiceHandler) ExportXML(c *fiber.Ctx) error {
	xmlBytes, filename, err := h.export.ExportInvoiceXML(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/xml")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(xmlBytes)
}
