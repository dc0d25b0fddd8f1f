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

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo implementación de ClientRepository sobre PostgreSQL (usable con pool o tx).
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

// Create persiste el cliente. El email tiene constraint único.
func (r *ClientRepo) Create(client *entity.Client) error {
	query := `
		INSERT INTO clients (id, name, email, phone, company, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		client.ID, client.Name, client.Email, nullIfEmpty(client.Phone), nullIfEmpty(client.Company),
		client.CreatedAt, client.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", domain.ErrEmailExists, client.Email)
		}
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// Update actualiza los datos del cliente.
func (r *ClientRepo) Update(client *entity.Client) error {
	query := `
		UPDATE clients
		SET name = $2, phone = $3, company = $4, updated_at = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		client.ID, client.Name, nullIfEmpty(client.Phone), nullIfEmpty(client.Company), client.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID. Retorna nil si no existe.
func (r *ClientRepo) GetByID(id string) (*entity.Client, error) {
	query := `
		SELECT id, name, email, phone, company, created_at, updated_at
		FROM clients WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetByEmail obtiene un cliente por email (identidad del portal).
func (r *ClientRepo) GetByEmail(email string) (*entity.Client, error) {
	query := `
		SELECT id, name, email, phone, company, created_at, updated_at
		FROM clients WHERE email = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, email))
}

// List lista clientes por nombre ascendente.
func (r *ClientRepo) List(limit, offset int) ([]*entity.Client, error) {
	query := `
		SELECT id, name, email, phone, company, created_at, updated_at
		FROM clients ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()
	var list []*entity.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// CreateProject persiste un tracker de proyecto del cliente.
func (r *ClientRepo) CreateProject(project *entity.ClientProject) error {
	timeline, err := marshalTimeline(project.Timeline)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO client_projects (id, client_id, name, description, status, progress, timeline, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err = r.q.Exec(context.Background(), query,
		project.ID, project.ClientID, project.Name, nullIfEmpty(project.Description),
		project.Status, project.Progress, timeline, project.CreatedAt, project.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert client project: %w", err)
	}
	return nil
}

// UpdateProject actualiza estado, progreso y timeline del proyecto.
func (r *ClientRepo) UpdateProject(project *entity.ClientProject) error {
	timeline, err := marshalTimeline(project.Timeline)
	if err != nil {
		return err
	}
	query := `
		UPDATE client_projects
		SET name = $2, description = $3, status = $4, progress = $5, timeline = $6, updated_at = $7
		WHERE id = $1`
	_, err = r.q.Exec(context.Background(), query,
		project.ID, project.Name, nullIfEmpty(project.Description),
		project.Status, project.Progress, timeline, project.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update client project: %w", err)
	}
	return nil
}

// GetProjectByID obtiene un proyecto por ID. Retorna nil si no existe.
func (r *ClientRepo) GetProjectByID(id string) (*entity.ClientProject, error) {
	query := `
		SELECT id, client_id, name, description, status, progress, timeline, created_at, updated_at
		FROM client_projects WHERE id = $1`
	p, err := scanProject(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

// ListProjectsByClient lista los proyectos de un cliente, creación descendente.
func (r *ClientRepo) ListProjectsByClient(clientID string) ([]*entity.ClientProject, error) {
	query := `
		SELECT id, client_id, name, description, status, progress, timeline, created_at, updated_at
		FROM client_projects WHERE client_id = $1 ORDER BY created_at DESC`
	rows, err := r.q.Query(context.Background(), query, clientID)
	if err != nil {
		return nil, fmt.Errorf("list client projects: %w", err)
	}
	defer rows.Close()
	var list []*entity.ClientProject
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *ClientRepo) scanOne(row pgx.Row) (*entity.Client, error) {
	c, err := scanClient(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

func scanClient(row pgx.Row) (*entity.Client, error) {
	var c entity.Client
	var phone, company *string
	err := row.Scan(&c.ID, &c.Name, &c.Email, &phone, &company, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan client: %w", err)
	}
	c.Phone = derefStr(phone)
	c.Company = derefStr(company)
	return &c, nil
}

func scanProject(row pgx.Row) (*entity.ClientProject, error) {
	var p entity.ClientProject
	var description *string
	var timeline []byte
	err := row.Scan(&p.ID, &p.ClientID, &p.Name, &description, &p.Status, &p.Progress, &timeline, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan client project: %w", err)
	}
	p.Description = derefStr(description)
	if p.Timeline, err = unmarshalTimeline(timeline); err != nil {
		return nil, err
	}
	return &p, nil
}
