package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de pago de la factura.
// Unpaid/Partial/Paid se derivan de los montos; Overdue y Cancelled son
// excepciones marcadas por el administrador (ver internal/domain/ledger).
const (
	InvoiceStatusUnpaid    = "Unpaid"
	InvoiceStatusPartial   = "Partial"
	InvoiceStatusPaid      = "Paid"
	InvoiceStatusOverdue   = "Overdue"
	InvoiceStatusCancelled = "Cancelled"
)

// Tipos de pago (informativos, no cambian las reglas de conciliación).
const (
	PaymentTypeFull      = "Full"
	PaymentTypeMilestone = "Milestone"
)

// Invoice es el agregado de facturación de una contratación de servicio.
// Los campos PaidAmount, RemainingAmount y Status son derivados: solo el
// ledger los recalcula; nunca se aceptan como input independiente.
type Invoice struct {
	ID            string
	InvoiceNumber string // etiqueta legible, única, inmutable
	BookingID     string // contratación asociada (1:1)

	// Snapshot del cliente al momento de crear la factura (no es referencia viva)
	ClientName    string
	ClientEmail   string
	ClientPhone   string
	ClientCompany string

	// Snapshot del paquete comprado
	ServiceName  string
	PackageName  string
	PackagePrice decimal.Decimal

	Currency    string // etiqueta ISO usada por todos los montos de esta factura
	TotalAmount decimal.Decimal
	PaymentType string // "Full" | "Milestone"

	Milestones []Milestone // orden significativo; nunca vacío
	Payments   []Payment   // historial append-only

	PaidAmount      decimal.Decimal // derivado: sum(milestones[].PaidAmount)
	RemainingAmount decimal.Decimal // derivado: TotalAmount - PaidAmount, nunca negativo
	Status          string

	IssueDate time.Time
	DueDate   *time.Time
	PaidDate  *time.Time // se fija una sola vez, en la primera transición a Paid

	PaymentMethods     []PaymentMethod // datos de cuentas para mostrar al cliente
	TermsAndConditions string

	Version   int64 // token de concurrencia optimista para el replace del documento
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Milestone estado de pago del hito (binario, sin "Partial" a esta granularidad).
const (
	MilestonePaid   = "Paid"
	MilestoneUnpaid = "Unpaid"
)

// Estados de avance de entrega del hito (independientes del estado de pago).
const (
	MilestonePending    = "Pending"
	MilestoneInProgress = "In Progress"
	MilestoneCompleted  = "Completed"
)

// Milestone es un sub-monto de la factura que representa un entregable.
// PaidAmount está acoplado a PaymentStatus: igual a Amount si Paid, cero si Unpaid.
type Milestone struct {
	ID          string
	Name        string
	Description string

	Amount     decimal.Decimal // fijo desde la creación; aporta al TotalAmount
	Percentage decimal.Decimal // Amount/TotalAmount*100, solo display, siempre recalculado

	PaymentStatus string // "Paid" | "Unpaid"
	PaidAmount    decimal.Decimal
	PaidDate      *time.Time

	Status        string // "Pending" | "In Progress" | "Completed" (avance de entrega)
	CompletedDate *time.Time
}

// Métodos de pago aceptados por la agencia.
const (
	PaymentMethodBkash = "bKash"
	PaymentMethodNagad = "Nagad"
	PaymentMethodBank  = "Bank"
	PaymentMethodOther = "Other"
)

// Payment es un registro append-only de dinero recibido.
// Nunca se edita ni se elimina una vez registrado.
type Payment struct {
	ID            string
	Amount        decimal.Decimal
	Method        string // "bKash" | "Nagad" | "Bank" | "Other"
	TransactionID string // referencia externa, opcional
	MilestoneID   string // atribución opcional a un hito
	PaymentDate   time.Time
	Notes         string
	VerifiedBy    string // admin que registró el pago
}

// PaymentMethod datos estáticos de cuenta que se muestran en la factura.
// No participa en la conciliación.
type PaymentMethod struct {
	Name          string // "bKash" | "Nagad" | "Bank" | ...
	AccountName   string
	AccountNumber string
	Instructions  string
}

// MilestoneByID busca un hito por su ID. Retorna nil si no existe.
func (i *Invoice) MilestoneByID(id string) *Milestone {
	for idx := range i.Milestones {
		if i.Milestones[idx].ID == id {
			return &i.Milestones[idx]
		}
	}
	return nil
}
