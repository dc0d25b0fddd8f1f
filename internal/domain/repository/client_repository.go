package repository

import "github.com/pqrix/pqrix-api/internal/domain/entity"

// ClientRepository define el puerto de persistencia para clientes y sus
// proyectos (trackers independientes, nunca ligados a facturas).
type ClientRepository interface {
	Create(client *entity.Client) error
	Update(client *entity.Client) error
	GetByID(id string) (*entity.Client, error)
	GetByEmail(email string) (*entity.Client, error)
	List(limit, offset int) ([]*entity.Client, error)

	CreateProject(project *entity.ClientProject) error
	UpdateProject(project *entity.ClientProject) error
	GetProjectByID(id string) (*entity.ClientProject, error)
	ListProjectsByClient(clientID string) ([]*entity.ClientProject, error)
}
