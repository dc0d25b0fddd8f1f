package repository

import "github.com/pqrix/pqrix-api/internal/domain/entity"

// AdminRepository define el puerto de persistencia para usuarios del back-office.
type AdminRepository interface {
	Create(admin *entity.AdminUser) error
	GetByEmail(email string) (*entity.AdminUser, error)
	GetByID(id string) (*entity.AdminUser, error)
}
