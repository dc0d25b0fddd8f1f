package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/pqrix/pqrix-api/internal/application/auth"
	"github.com/pqrix/pqrix-api/internal/application/billing"
	"github.com/pqrix/pqrix-api/internal/application/booking"
	"github.com/pqrix/pqrix-api/internal/application/usecase"
	infrapdf "github.com/pqrix/pqrix-api/internal/infrastructure/pdf"
	"github.com/pqrix/pqrix-api/internal/infrastructure/postgres"
	"github.com/pqrix/pqrix-api/internal/infrastructure/xmlexport"
	httpRouter "github.com/pqrix/pqrix-api/internal/interfaces/http"
	"github.com/pqrix/pqrix-api/pkg/config"
	"github.com/pqrix/pqrix-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	invoiceRepo := postgres.NewInvoiceRepository(pool)
	bookingRepo := postgres.NewBookingRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	serviceRepo := postgres.NewServiceRepository(pool)
	adminRepo := postgres.NewAdminRepository(pool)
	statsRepo := postgres.NewStatsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	company := billing.CompanyInfo{
		Name:  cfg.Billing.CompanyName,
		Email: cfg.Billing.CompanyEmail,
		Phone: cfg.Billing.CompanyPhone,
	}

	ledgerUC := billing.NewLedgerUseCase(txRunner, invoiceRepo, bookingRepo, billing.Config{
		DefaultCurrency: cfg.Billing.DefaultCurrency,
	})
	pdfUC := billing.NewPDFUseCase(invoiceRepo, infrapdf.NewMarotoInvoiceGenerator(), company)
	exportUC := billing.NewExportUseCase(invoiceRepo, xmlexport.NewExporter(), company)
	bookingUC := booking.NewUseCase(bookingRepo, serviceRepo)
	clientUC := usecase.NewClientUseCase(clientRepo)
	serviceUC := usecase.NewServiceUseCase(serviceRepo, cfg.Billing.DefaultCurrency)
	dashboardUC := usecase.NewDashboardUseCase(statsRepo)
	authUC := auth.NewUseCase(adminRepo, auth.Config{
		JWTSecret:  cfg.JWT.Secret,
		Issuer:     cfg.JWT.Issuer,
		ExpMinutes: cfg.JWT.Expiration,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Pqrix API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		LedgerUC:    ledgerUC,
		PDFUC:       pdfUC,
		ExportUC:    exportUC,
		BookingUC:   bookingUC,
		ClientUC:    clientUC,
		ServiceUC:   serviceUC,
		DashboardUC: dashboardUC,
		AuthUC:      authUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
