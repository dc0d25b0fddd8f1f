package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pqrix/pqrix-api/internal/application/dto"
	"github.com/pqrix/pqrix-api/internal/domain"
	"github.com/pqrix/pqrix-api/internal/domain/entity"
	"github.com/pqrix/pqrix-api/internal/domain/repository"
	"github.com/pqrix/pqrix-api/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// Config parámetros de emisión de tokens.
type Config struct {
	JWTSecret  string
	Issuer     string
	ExpMinutes int
}

// UseCase login de usuarios del back-office.
type UseCase struct {
	adminRepo repository.AdminRepository
	cfg       Config
}

// NewUseCase construye el caso de uso.
func NewUseCase(adminRepo repository.AdminRepository, cfg Config) *UseCase {
	return &UseCase{adminRepo: adminRepo, cfg: cfg}
}

// Login valida credenciales y emite un JWT. Credenciales inválidas siempre
// devuelven el mismo ErrUnauthorized, sin distinguir email de contraseña.
func (uc *UseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: email y password son obligatorios", domain.ErrInvalidInput)
	}

	admin, err := uc.adminRepo.GetByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}

	token, err := jwt.Generate(uc.cfg.JWTSecret, admin.ID, admin.Email, admin.Role, uc.cfg.Issuer, uc.cfg.ExpMinutes)
	if err != nil {
		return nil, fmt.Errorf("auth: generar token: %w", err)
	}
	return &dto.LoginResponse{
		Token: token,
		Name:  admin.Name,
		Email: admin.Email,
		Role:  admin.Role,
	}, nil
}

// CreateAdmin da de alta un usuario del back-office. Lo usa el comando de
// seed; no está expuesto por HTTP.
func (uc *UseCase) CreateAdmin(ctx context.Context, name, email, password, role string) (*entity.AdminUser, error) {
	if name == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: name, email y password son obligatorios", domain.ErrInvalidInput)
	}
	if role != entity.RoleAdmin && role != entity.RoleEditor {
		return nil, fmt.Errorf("%w: rol desconocido %q", domain.ErrInvalidInput, role)
	}
	existing, err := uc.adminRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrEmailExists, email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth: hashear contraseña: %w", err)
	}
	now := time.Now()
	admin := &entity.AdminUser{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.adminRepo.Create(admin); err != nil {
		return nil, err
	}
	return admin, nil
}
