package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una contratación de servicio. Los edita el administrador de forma
// independiente a la factura: pagar la factura NO cambia el estado del booking.
const (
	BookingStatusInquired   = "Inquired"
	BookingStatusPending    = "Pending"
	BookingStatusPaid       = "Paid"
	BookingStatusStarted    = "Started"
	BookingStatusInProgress = "In Progress"
	BookingStatusCompleted  = "Completed"
	BookingStatusCancelled  = "Cancelled"
)

// Estados de una fase del timeline (booking o proyecto de cliente).
const (
	PhasePending    = "Pending"
	PhaseInProgress = "In Progress"
	PhaseCompleted  = "Completed"
)

// ServiceBooking es la contratación de un servicio por un cliente.
// Referencia a su factura por InvoiceID (a lo sumo una), pero es dueña de su
// propio estado/progreso/timeline.
type ServiceBooking struct {
	ID string

	ClientName  string
	ClientEmail string
	ClientPhone string

	ServiceID    string
	ServiceName  string
	PackageName  string
	PackagePrice decimal.Decimal
	Currency     string

	InvoiceID string // vacío hasta que se crea la factura

	Status   string
	Progress int // 0-100
	Timeline []TimelinePhase

	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TimelinePhase es una fase ordenada del plan de trabajo.
type TimelinePhase struct {
	Name        string
	Status      string // "Pending" | "In Progress" | "Completed"
	Date        *time.Time
	Description string
}
