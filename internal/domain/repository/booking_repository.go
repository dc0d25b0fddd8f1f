package repository

import "github.com/pqrix/pqrix-api/internal/domain/entity"

// BookingRepository define el puerto de persistencia para contrataciones.
type BookingRepository interface {
	Create(booking *entity.ServiceBooking) error
	Update(booking *entity.ServiceBooking) error
	GetByID(id string) (*entity.ServiceBooking, error)
	// List filtra por estado ("" = todos), ordenado por creación descendente.
	List(status string, limit, offset int) ([]*entity.ServiceBooking, error)
	ListByClientEmail(email string) ([]*entity.ServiceBooking, error)
}
