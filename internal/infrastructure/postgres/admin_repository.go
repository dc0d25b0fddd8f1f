package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pqrix/pqrix-api/internal/domain"
	"github.com/pqrix/pqrix-api/internal/domain/entity"
	"github.com/pqrix/pqrix-api/internal/domain/repository"
)

var _ repository.AdminRepository = (*AdminRepo)(nil)

// AdminRepo implementación de AdminRepository sobre PostgreSQL.
type AdminRepo struct {
	q Querier
}

// NewAdminRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAdminRepository(q Querier) *AdminRepo {
	return &AdminRepo{q: q}
}

// Create persiste un usuario del back-office. El email tiene constraint único.
func (r *AdminRepo) Create(admin *entity.AdminUser) error {
	query := `
		INSERT INTO admin_users (id, name, email, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		admin.ID, admin.Name, admin.Email, admin.PasswordHash, admin.Role,
		admin.CreatedAt, admin.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", domain.ErrEmailExists, admin.Email)
		}
		return fmt.Errorf("insert admin: %w", err)
	}
	return nil
}

// GetByEmail obtiene un usuario por email. Retorna nil si no existe.
func (r *AdminRepo) GetByEmail(email string) (*entity.AdminUser, error) {
	query := `
		SELECT id, name, email, password_hash, role, created_at, updated_at
		FROM admin_users WHERE email = $1`
	return scanAdmin(r.q.QueryRow(context.Background(), query, email))
}

// GetByID obtiene un usuario por ID. Retorna nil si no existe.
func (r *AdminRepo) GetByID(id string) (*entity.AdminUser, error) {
	query := `
		SELECT id, name, email, password_hash, role, created_at, updated_at
		FROM admin_users WHERE id = $1`
	return scanAdmin(r.q.QueryRow(context.Background(), query, id))
}

func scanAdmin(row pgx.Row) (*entity.AdminUser, error) {
	var a entity.AdminUser
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.Role, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan admin: %w", err)
	}
	return &a, nil
}
