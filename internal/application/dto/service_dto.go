package dto

import "github.com/shopspring/decimal"

// ServicePackageRequest paquete dentro de un servicio del catálogo.
type ServicePackageRequest struct {
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Currency     string          `json:"currency,omitempty"`
	DeliveryDays int             `json:"delivery_days,omitempty"`
	Features     []string        `json:"features,omitempty"`
}

// CreateServiceRequest body para POST /api/admin/services.
type CreateServiceRequest struct {
	Title       string                  `json:"title"`
	Description string                  `json:"description,omitempty"`
	Packages    []ServicePackageRequest `json:"packages"`
}

// ServicePackageResponse paquete en respuestas.
type ServicePackageResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Currency     string          `json:"currency"`
	DeliveryDays int             `json:"delivery_days,omitempty"`
	Features     []string        `json:"features,omitempty"`
}

// ServiceResponse servicio del catálogo en respuestas.
type ServiceResponse struct {
	ID          string                   `json:"id"`
	Title       string                   `json:"title"`
	Description string                   `json:"description,omitempty"`
	Packages    []ServicePackageResponse `json:"packages"`
}
