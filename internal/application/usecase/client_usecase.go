package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pqrix/pqrix-api/internal/application/booking"
	"github.com/pqrix/pqrix-api/internal/application/dto"
	"github.com/pqrix/pqrix-api/internal/domain"
	"github.com/pqrix/pqrix-api/internal/domain/entity"
	"github.com/pqrix/pqrix-api/internal/domain/repository"
)

var validProjectStatuses = map[string]bool{
	entity.PhasePending:    true,
	entity.PhaseInProgress: true,
	entity.PhaseCompleted:  true,
}

// ClientUseCase administra clientes del portal y sus proyectos.
type ClientUseCase struct {
	clientRepo repository.ClientRepository
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(clientRepo repository.ClientRepository) *ClientUseCase {
	return &ClientUseCase{clientRepo: clientRepo}
}

// Create registra un cliente. El email es la identidad del portal, único.
func (uc *ClientUseCase) Create(ctx context.Context, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	if in.Name == "" || in.Email == "" {
		return nil, fmt.Errorf("%w: name y email son obligatorios", domain.ErrInvalidInput)
	}
	existing, err := uc.clientRepo.GetByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrEmailExists, in.Email)
	}

	now := time.Now()
	c := &entity.Client{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Company:   in.Company,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.clientRepo.Create(c); err != nil {
		return nil, err
	}
	return toClientResponse(c), nil
}

// Get obtiene un cliente por ID.
func (uc *ClientUseCase) Get(ctx context.Context, id string) (*dto.ClientResponse, error) {
	c, err := uc.loadClient(id)
	if err != nil {
		return nil, err
	}
	return toClientResponse(c), nil
}

// List lista clientes paginados.
func (uc *ClientUseCase) List(ctx context.Context, limit, offset int) ([]*dto.ClientResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.clientRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ClientResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toClientResponse(c))
	}
	return out, nil
}

// CreateProject abre un tracker de proyecto para el cliente. Arranca en
// Pending con progreso 0.
func (uc *ClientUseCase) CreateProject(ctx context.Context, clientID string, in dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name es obligatorio", domain.ErrInvalidInput)
	}
	if _, err := uc.loadClient(clientID); err != nil {
		return nil, err
	}

	now := time.Now()
	p := &entity.ClientProject{
		ID:          uuid.New().String(),
		ClientID:    clientID,
		Name:        in.Name,
		Description: in.Description,
		Status:      entity.PhasePending,
		Progress:    0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.clientRepo.CreateProject(p); err != nil {
		return nil, err
	}
	return toProjectResponse(p), nil
}

// UpdateProject actualiza estado, progreso y/o timeline de un proyecto.
// Todos los campos son opcionales; los omitidos no se tocan.
func (uc *ClientUseCase) UpdateProject(ctx context.Context, clientID, projectID string, in dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	if in.Status != "" && !validProjectStatuses[in.Status] {
		return nil, fmt.Errorf("%w: estado de proyecto desconocido %q", domain.ErrInvalidInput, in.Status)
	}
	if in.Progress != nil && (*in.Progress < 0 || *in.Progress > 100) {
		return nil, fmt.Errorf("%w: progress debe estar entre 0 y 100", domain.ErrInvalidInput)
	}

	p, err := uc.clientRepo.GetProjectByID(projectID)
	if err != nil {
		return nil, err
	}
	if p == nil || p.ClientID != clientID {
		return nil, fmt.Errorf("%w: proyecto %s", domain.ErrNotFound, projectID)
	}

	if in.Status != "" {
		p.Status = in.Status
	}
	if in.Progress != nil {
		p.Progress = *in.Progress
	}
	if in.Timeline != nil {
		phases, err := booking.ParseTimeline(in.Timeline)
		if err != nil {
			return nil, err
		}
		p.Timeline = phases
	}
	p.UpdatedAt = time.Now()
	if err := uc.clientRepo.UpdateProject(p); err != nil {
		return nil, err
	}
	return toProjectResponse(p), nil
}

// ListProjects lista los proyectos de un cliente.
func (uc *ClientUseCase) ListProjects(ctx context.Context, clientID string) ([]*dto.ProjectResponse, error) {
	if _, err := uc.loadClient(clientID); err != nil {
		return nil, err
	}
	list, err := uc.clientRepo.ListProjectsByClient(clientID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ProjectResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toProjectResponse(p))
	}
	return out, nil
}

func (uc *ClientUseCase) loadClient(id string) (*entity.Client, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: id requerido", domain.ErrInvalidInput)
	}
	c, err := uc.clientRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: cliente %s", domain.ErrNotFound, id)
	}
	return c, nil
}

func toClientResponse(c *entity.Client) *dto.ClientResponse {
	return &dto.ClientResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Company:   c.Company,
		CreatedAt: c.CreatedAt.Format("2006-01-02"),
	}
}

func toProjectResponse(p *entity.ClientProject) *dto.ProjectResponse {
	resp := &dto.ProjectResponse{
		ID:          p.ID,
		ClientID:    p.ClientID,
		Name:        p.Name,
		Description: p.Description,
		Status:      p.Status,
		Progress:    p.Progress,
		Timeline:    make([]dto.TimelinePhaseResponse, 0, len(p.Timeline)),
		CreatedAt:   p.CreatedAt.Format("2006-01-02"),
	}
	for _, ph := range p.Timeline {
		phase := dto.TimelinePhaseResponse{
			Name:        ph.Name,
			Status:      ph.Status,
			Description: ph.Description,
		}
		if ph.Date != nil {
			phase.Date = ph.Date.Format("2006-01-02")
		}
		resp.Timeline = append(resp.Timeline, phase)
	}
	return resp
}
