package repository

import "github.com/pqrix/pqrix-api/internal/domain/entity"

// ServiceRepository define el puerto de persistencia para el catálogo.
type ServiceRepository interface {
	Create(service *entity.Service) error
	Update(service *entity.Service) error
	Delete(id string) error
	GetByID(id string) (*entity.Service, error)
	List(limit, offset int) ([]*entity.Service, error)
}
