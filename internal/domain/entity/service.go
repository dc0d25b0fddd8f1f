package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service es un servicio del catálogo público de la agencia.
type Service struct {
	ID          string
	Title       string
	Description string
	Packages    []ServicePackage
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ServicePackage es un paquete contratable de un servicio. Es la fuente del
// snapshot (nombre/precio) que se copia al booking y a la factura al crearlos.
type ServicePackage struct {
	ID           string
	Name         string
	Price        decimal.Decimal
	Currency     string
	DeliveryDays int
	Features     []string
}
