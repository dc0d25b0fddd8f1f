package dto

import "github.com/shopspring/decimal"

// CreateBookingRequest body para POST /api/admin/bookings (consulta de cliente).
type CreateBookingRequest struct {
	ClientName  string `json:"client_name"`
	ClientEmail string `json:"client_email"`
	ClientPhone string `json:"client_phone,omitempty"`
	ServiceID   string `json:"service_id"`
	PackageID   string `json:"package_id"`
	Notes       string `json:"notes,omitempty"`
}

// UpdateBookingStatusRequest body para PUT /api/admin/bookings/:id/status.
// El admin edita estado y progreso de forma independiente a la factura.
type UpdateBookingStatusRequest struct {
	Status   string `json:"status"`
	Progress *int   `json:"progress,omitempty"` // 0-100; nil = sin cambio
}

// TimelinePhaseRequest fase del plan de trabajo.
type TimelinePhaseRequest struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	Date        string `json:"date,omitempty"` // YYYY-MM-DD
	Description string `json:"description,omitempty"`
}

// ReplaceTimelineRequest body para PUT /api/admin/bookings/:id/timeline.
type ReplaceTimelineRequest struct {
	Timeline []TimelinePhaseRequest `json:"timeline"`
}

// TimelinePhaseResponse fase en respuestas.
type TimelinePhaseResponse struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	Date        string `json:"date,omitempty"`
	Description string `json:"description,omitempty"`
}

// BookingResponse contratación en respuestas.
type BookingResponse struct {
	ID           string                  `json:"id"`
	ClientName   string                  `json:"client_name"`
	ClientEmail  string                  `json:"client_email"`
	ClientPhone  string                  `json:"client_phone,omitempty"`
	ServiceID    string                  `json:"service_id"`
	ServiceName  string                  `json:"service_name"`
	PackageName  string                  `json:"package_name"`
	PackagePrice decimal.Decimal         `json:"package_price"`
	Currency     string                  `json:"currency"`
	InvoiceID    string                  `json:"invoice_id,omitempty"`
	Status       string                  `json:"status"`
	Progress     int                     `json:"progress"`
	Timeline     []TimelinePhaseResponse `json:"timeline"`
	Notes        string                  `json:"notes,omitempty"`
	CreatedAt    string                  `json:"created_at"`
}
