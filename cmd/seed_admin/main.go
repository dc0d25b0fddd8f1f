// Comando de seed: crea el primer usuario del back-office.
//
// Uso:
//
//	SEED_ADMIN_NAME="Admin" SEED_ADMIN_EMAIL=admin@pqrix.com \
//	SEED_ADMIN_PASSWORD=changeme go run ./cmd/seed_admin
package main

import (
	"context"
	"os"

	"github.com/pqrix/pqrix-api/internal/application/auth"
	"github.com/pqrix/pqrix-api/internal/domain/entity"
	"github.com/pqrix/pqrix-api/internal/infrastructure/postgres"
	"github.com/pqrix/pqrix-api/pkg/config"
	"github.com/pqrix/pqrix-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})

	name := os.Getenv("SEED_ADMIN_NAME")
	email := os.Getenv("SEED_ADMIN_EMAIL")
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	role := os.Getenv("SEED_ADMIN_ROLE")
	if role == "" {
		role = entity.RoleAdmin
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	authUC := auth.NewUseCase(postgres.NewAdminRepository(pool), auth.Config{
		JWTSecret:  cfg.JWT.Secret,
		Issuer:     cfg.JWT.Issuer,
		ExpMinutes: cfg.JWT.Expiration,
	})

	admin, err := authUC.CreateAdmin(ctx, name, email, password, role)
	if err != nil {
		log.Fatal().Err(err).Msg("crear admin")
	}
	log.Info().
		Str("id", admin.ID).
		Str("email", admin.Email).
		Str("role", admin.Role).
		Msg("usuario del back-office creado")
}
