// Package ledger implementa la conciliación de pagos de una factura:
// hitos (milestones), pagos registrados y los campos derivados
// PaidAmount/RemainingAmount/Status.
//
// Reglas centrales:
//
//	I1: sum(milestones[].Amount) == TotalAmount (epsilon 0.01 al crear)
//	I2: Payments es append-only (nunca se edita ni se borra un pago)
//	I3: PaidAmount == sum(milestones[].PaidAmount)
//	I4: RemainingAmount == TotalAmount - PaidAmount, nunca negativo
//	I5: milestone Paid ⇔ PaidAmount == Amount; Unpaid ⇔ PaidAmount == 0
//	I6: un pago nunca excede el saldo pendiente al momento de registrarlo
//
// El estado de la factura es función pura de los montos, salvo las dos
// excepciones de administrador: Overdue (bandera suave, la limpia solo el
// pago total) y Cancelled (bloquea toda operación de pago).
//
// Todas las funciones mutan el agregado en memoria y fallan cerradas: si
// retornan error, la factura no quedó a medio modificar.
package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pqrix/pqrix-api/internal/domain"
	"github.com/pqrix/pqrix-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// PaymentInput datos para registrar un pago.
// ID es opcional: si el caller provee uno propio, registrar dos veces el mismo
// pago retorna ErrDuplicate en lugar de duplicar el monto (reintentos seguros).
type PaymentInput struct {
	ID            string
	Amount        decimal.Decimal
	Method        string // bKash | Nagad | Bank | Other
	MilestoneID   string // obligatorio si la factura tiene más de un hito
	TransactionID string
	Notes         string
	VerifiedBy    string
	Date          time.Time // cero = now
}

// validMethods métodos de pago aceptados.
var validMethods = map[string]bool{
	entity.PaymentMethodBkash: true,
	entity.PaymentMethodNagad: true,
	entity.PaymentMethodBank:  true,
	entity.PaymentMethodOther: true,
}

// RecordPayment registra un pago sobre la factura y recalcula los derivados.
//
// Precondiciones:
//   - la factura no está Paid ni Cancelled
//   - Amount > 0 y Amount <= RemainingAmount
//   - MilestoneID resuelve a un hito; si va vacío y la factura tiene un solo
//     hito, se atribuye automáticamente a ese hito; con más de un hito es
//     obligatorio (evita dejar los hitos fuera de sincronía con el agregado)
//
// Efecto: agrega el Payment al historial, marca el hito como Paid si estaba
// Unpaid, y recalcula PaidAmount/RemainingAmount/Status.
func RecordPayment(inv *entity.Invoice, in PaymentInput, now time.Time) (*entity.Payment, error) {
	if inv.Status == entity.InvoiceStatusCancelled {
		return nil, fmt.Errorf("%w: la factura está cancelada", domain.ErrInvalidState)
	}
	if inv.Status == entity.InvoiceStatusPaid {
		return nil, fmt.Errorf("%w: la factura ya está pagada", domain.ErrInvalidState)
	}
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: el monto del pago debe ser positivo", domain.ErrInvalidInput)
	}
	if in.Amount.GreaterThan(inv.RemainingAmount) {
		return nil, fmt.Errorf("%w: el monto excede el saldo pendiente (%s)",
			domain.ErrInvalidInput, inv.RemainingAmount.StringFixed(2))
	}
	if !validMethods[in.Method] {
		return nil, fmt.Errorf("%w: método de pago desconocido %q", domain.ErrInvalidInput, in.Method)
	}
	if in.VerifiedBy == "" {
		return nil, fmt.Errorf("%w: verified_by requerido", domain.ErrInvalidInput)
	}

	milestoneID := in.MilestoneID
	if milestoneID == "" {
		if len(inv.Milestones) != 1 {
			return nil, fmt.Errorf("%w: milestone_id es obligatorio en facturas con varios hitos", domain.ErrInvalidInput)
		}
		// Factura de pago único: atribución automática al único hito
		milestoneID = inv.Milestones[0].ID
	}
	m := inv.MilestoneByID(milestoneID)
	if m == nil {
		return nil, fmt.Errorf("%w: hito %s", domain.ErrNotFound, milestoneID)
	}

	id := in.ID
	if id == "" {
		id = uuid.New().String()
	} else {
		for i := range inv.Payments {
			if inv.Payments[i].ID == id {
				return nil, fmt.Errorf("%w: pago %s ya registrado", domain.ErrDuplicate, id)
			}
		}
	}
	date := in.Date
	if date.IsZero() {
		date = now
	}

	payment := entity.Payment{
		ID:            id,
		Amount:        in.Amount,
		Method:        in.Method,
		TransactionID: in.TransactionID,
		MilestoneID:   milestoneID,
		PaymentDate:   date,
		Notes:         in.Notes,
		VerifiedBy:    in.VerifiedBy,
	}
	inv.Payments = append(inv.Payments, payment)

	if m.PaymentStatus == entity.MilestoneUnpaid {
		markMilestonePaid(m, now)
	}
	Recompute(inv, now)
	return &inv.Payments[len(inv.Payments)-1], nil
}

// ToggleMilestonePayment alterna el estado de pago de un hito sin crear un
// Payment (corrección manual: algo que se liquidó por fuera del sistema).
// A diferencia de los pagos, esta operación sí puede retroceder el estado de
// la factura (Paid → Partial, Partial → Unpaid).
func ToggleMilestonePayment(inv *entity.Invoice, milestoneID string, now time.Time) error {
	if inv.Status == entity.InvoiceStatusCancelled {
		return fmt.Errorf("%w: la factura está cancelada", domain.ErrInvalidState)
	}
	m := inv.MilestoneByID(milestoneID)
	if m == nil {
		return fmt.Errorf("%w: hito %s", domain.ErrNotFound, milestoneID)
	}
	if m.PaymentStatus == entity.MilestonePaid {
		m.PaymentStatus = entity.MilestoneUnpaid
		m.PaidAmount = decimal.Zero
		m.PaidDate = nil
	} else {
		markMilestonePaid(m, now)
	}
	Recompute(inv, now)
	return nil
}

// UpdateMilestoneWorkflow cambia el estado de avance de entrega del hito
// (Pending|In Progress|Completed). No toca montos ni estado de pago.
func UpdateMilestoneWorkflow(inv *entity.Invoice, milestoneID, status string, now time.Time) error {
	switch status {
	case entity.MilestonePending, entity.MilestoneInProgress, entity.MilestoneCompleted:
	default:
		return fmt.Errorf("%w: estado de avance desconocido %q", domain.ErrInvalidInput, status)
	}
	m := inv.MilestoneByID(milestoneID)
	if m == nil {
		return fmt.Errorf("%w: hito %s", domain.ErrNotFound, milestoneID)
	}
	m.Status = status
	if status == entity.MilestoneCompleted {
		t := now
		m.CompletedDate = &t
	} else {
		m.CompletedDate = nil
	}
	return nil
}

// MarkOverdue marca la factura como vencida (acción explícita del
// administrador, ej. un chequeo de DueDate externo a este paquete).
func MarkOverdue(inv *entity.Invoice) error {
	if inv.Status == entity.InvoiceStatusCancelled {
		return fmt.Errorf("%w: la factura está cancelada", domain.ErrInvalidState)
	}
	if inv.PaidAmount.GreaterThanOrEqual(inv.TotalAmount) {
		return fmt.Errorf("%w: la factura ya está pagada", domain.ErrInvalidState)
	}
	inv.Status = entity.InvoiceStatusOverdue
	return nil
}

// Cancel cancela la factura. Mientras esté Cancelled no se permite ninguna
// operación de pago. La cancelación es un estado, no un borrado.
func Cancel(inv *entity.Invoice) error {
	if inv.Status == entity.InvoiceStatusCancelled {
		return fmt.Errorf("%w: la factura ya está cancelada", domain.ErrInvalidState)
	}
	inv.Status = entity.InvoiceStatusCancelled
	return nil
}

// ClearOverride quita la excepción Overdue/Cancelled y vuelve al estado
// derivado por montos.
func ClearOverride(inv *entity.Invoice, now time.Time) error {
	if inv.Status != entity.InvoiceStatusOverdue && inv.Status != entity.InvoiceStatusCancelled {
		return fmt.Errorf("%w: la factura no tiene excepción activa", domain.ErrInvalidState)
	}
	inv.Status = entity.InvoiceStatusUnpaid
	Recompute(inv, now)
	return nil
}

// Recompute recalcula PaidAmount, RemainingAmount y Status a partir de los
// hitos. Es idempotente: aplicarla dos veces seguidas produce el mismo
// resultado. Respeta las excepciones de administrador: Cancelled se mantiene
// siempre; Overdue solo se limpia cuando el pago queda completo.
func Recompute(inv *entity.Invoice, now time.Time) {
	paid := decimal.Zero
	for i := range inv.Milestones {
		paid = paid.Add(inv.Milestones[i].PaidAmount)
	}
	if paid.GreaterThan(inv.TotalAmount) {
		paid = inv.TotalAmount
	}
	inv.PaidAmount = paid
	inv.RemainingAmount = inv.TotalAmount.Sub(paid)
	if inv.RemainingAmount.IsNegative() {
		inv.RemainingAmount = decimal.Zero
	}

	switch {
	case inv.Status == entity.InvoiceStatusCancelled:
		// se mantiene hasta que el administrador la reactive
	case paid.GreaterThanOrEqual(inv.TotalAmount):
		inv.Status = entity.InvoiceStatusPaid
		if inv.PaidDate == nil {
			t := now
			inv.PaidDate = &t
		}
	case inv.Status == entity.InvoiceStatusOverdue:
		// bandera suave: un pago parcial no la limpia
	case paid.IsPositive():
		inv.Status = entity.InvoiceStatusPartial
	default:
		inv.Status = entity.InvoiceStatusUnpaid
	}
}

// markMilestonePaid acopla PaidAmount/PaidDate al estado Paid (I5).
func markMilestonePaid(m *entity.Milestone, now time.Time) {
	m.PaymentStatus = entity.MilestonePaid
	m.PaidAmount = m.Amount
	t := now
	m.PaidDate = &t
}
