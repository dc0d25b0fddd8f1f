package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pqrix/pqrix-api/internal/domain/entity"
	"github.com/pqrix/pqrix-api/internal/domain/repository"
)

var _ repository.ServiceRepository = (*ServiceRepo)(nil)

// ServiceRepo implementación de ServiceRepository sobre PostgreSQL (usable con pool o tx).
// Los paquetes van en una columna JSONB de la misma fila.
type ServiceRepo struct {
	q Querier
}

// NewServiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewServiceRepository(q Querier) *ServiceRepo {
	return &ServiceRepo{q: q}
}

// Create persiste un servicio del catálogo.
func (r *ServiceRepo) Create(service *entity.Service) error {
	packages, err := marshalPackages(service.Packages)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO services (id, title, description, packages, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err = r.q.Exec(context.Background(), query,
		service.ID, service.Title, nullIfEmpty(service.Description), packages,
		service.CreatedAt, service.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert service: %w", err)
	}
	return nil
}

// Update reemplaza título, descripción y paquetes.
func (r *ServiceRepo) Update(service *entity.Service) error {
	packages, err := marshalPackages(service.Packages)
	if err != nil {
		return err
	}
	query := `
		UPDATE services
		SET title = $2, description = $3, packages = $4, updated_at = $5
		WHERE id = $1`
	_, err = r.q.Exec(context.Background(), query,
		service.ID, service.Title, nullIfEmpty(service.Description), packages, service.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update service: %w", err)
	}
	return nil
}

// Delete elimina un servicio del catálogo.
func (r *ServiceRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	return nil
}

// GetByID obtiene un servicio por ID. Retorna nil si no existe.
func (r *ServiceRepo) GetByID(id string) (*entity.Service, error) {
	query := `
		SELECT id, title, description, packages, created_at, updated_at
		FROM services WHERE id = $1`
	svc, err := scanService(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return svc, nil
}

// List lista el catálogo por título ascendente.
func (r *ServiceRepo) List(limit, offset int) ([]*entity.Service, error) {
	query := `
		SELECT id, title, description, packages, created_at, updated_at
		FROM services ORDER BY title LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()
	var list []*entity.Service
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, svc)
	}
	return list, rows.Err()
}

func scanService(row pgx.Row) (*entity.Service, error) {
	var svc entity.Service
	var description *string
	var packages []byte
	err := row.Scan(&svc.ID, &svc.Title, &description, &packages, &svc.CreatedAt, &svc.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan service: %w", err)
	}
	svc.Description = derefStr(description)
	if svc.Packages, err = unmarshalPackages(packages); err != nil {
		return nil, err
	}
	return &svc, nil
}
