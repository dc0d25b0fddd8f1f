package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pqrix/pqrix-api/internal/application/auth"
	"github.com/pqrix/pqrix-api/internal/application/billing"
	"github.com/pqrix/pqrix-api/internal/application/booking"
	"github.com/pqrix/pqrix-api/internal/application/usecase"
	"github.com/pqrix/pqrix-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	LedgerUC    *billing.LedgerUseCase
	PDFUC       *billing.PDFUseCase
	ExportUC    *billing.ExportUseCase
	BookingUC   *booking.UseCase
	ClientUC    *usecase.ClientUseCase
	ServiceUC   *usecase.ServiceUseCase
	DashboardUC *usecase.DashboardUseCase
	AuthUC      *auth.UseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
//
// Tres niveles de acceso:
//   - público: catálogo y login
//   - portal de cliente: lecturas por email o por id de factura
//   - /api/admin: todo lo demás, con Bearer Token
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	invoiceHandler := NewInvoiceHandler(deps.LedgerUC, deps.PDFUC, deps.ExportUC)
	bookingHandler := NewBookingHandler(deps.BookingUC)
	clientHandler := NewClientHandler(deps.ClientUC)
	serviceHandler := NewServiceHandler(deps.ServiceUC)
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	authHandler := NewAuthHandler(deps.AuthUC)

	// Auth (público)
	api.Post("/auth/login", authHandler.Login)

	// Catálogo (público, lo consume el sitio)
	api.Get("/services", serviceHandler.List)
	api.Get("/services/:id", serviceHandler.GetByID)

	// Portal de cliente (lecturas sin token, por email o id)
	api.Get("/bookings", bookingHandler.ListByClient)
	api.Get("/invoices", invoiceHandler.ListByClient)
	api.Get("/invoices/:id", invoiceHandler.GetByID)
	api.Get("/invoices/:id/pdf", invoiceHandler.DownloadPDF)
	api.Get("/invoices/:id/xml", invoiceHandler.ExportXML)

	// Back-office (Bearer Token; editores y admins)
	admin := api.Group("/admin", AuthMiddleware(deps.JWTSecret), RequireRole(entity.RoleAdmin, entity.RoleEditor))

	admin.Post("/bookings", bookingHandler.Create)
	admin.Get("/bookings", bookingHandler.List)
	admin.Get("/bookings/:id", bookingHandler.GetByID)
	admin.Get("/bookings/:id/invoice", invoiceHandler.GetByBooking)
	admin.Put("/bookings/:id/status", bookingHandler.UpdateStatus)
	admin.Put("/bookings/:id/timeline", bookingHandler.ReplaceTimeline)

	admin.Post("/invoices", invoiceHandler.Create)
	admin.Get("/invoices", invoiceHandler.List)
	admin.Get("/invoices/:id", invoiceHandler.GetByID)
	admin.Post("/invoices/:id/payments", invoiceHandler.RecordPayment)
	admin.Post("/invoices/:id/milestones/:mid/toggle", invoiceHandler.ToggleMilestone)
	admin.Put("/invoices/:id/milestones/:mid/status", invoiceHandler.UpdateMilestoneStatus)
	admin.Put("/invoices/:id/status", invoiceHandler.OverrideStatus)

	admin.Post("/clients", clientHandler.Create)
	admin.Get("/clients", clientHandler.List)
	admin.Get("/clients/:id", clientHandler.GetByID)
	admin.Post("/clients/:id/projects", clientHandler.CreateProject)
	admin.Get("/clients/:id/projects", clientHandler.ListProjects)
	admin.Put("/clients/:id/projects/:pid", clientHandler.UpdateProject)

	admin.Post("/services", serviceHandler.Create)
	admin.Put("/services/:id", serviceHandler.Update)
	admin.Delete("/services/:id", serviceHandler.Delete)

	admin.Get("/stats", dashboardHandler.GetStats)
}
