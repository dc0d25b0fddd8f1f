package dto

import "github.com/shopspring/decimal"

// MilestoneSpecRequest hito a crear junto con la factura.
// El porcentaje no se acepta como input: siempre se calcula del monto.
type MilestoneSpecRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Paid        bool            `json:"paid,omitempty"` // registros migrados
}

// PaymentMethodRequest cuenta de pago para mostrar en la factura.
type PaymentMethodRequest struct {
	Name          string `json:"name"`
	AccountName   string `json:"account_name,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	Instructions  string `json:"instructions,omitempty"`
}

// CreateInvoiceRequest body para POST /api/admin/invoices.
// El snapshot de cliente y paquete se copia del booking referenciado.
type CreateInvoiceRequest struct {
	BookingID          string                 `json:"booking_id"`
	InvoiceNumber      string                 `json:"invoice_number,omitempty"` // opcional; si va vacío se genera
	ClientCompany      string                 `json:"client_company,omitempty"` // el booking no lo trae
	PaymentType        string                 `json:"payment_type,omitempty"`   // "Full" | "Milestone"
	Currency           string                 `json:"currency,omitempty"`
	TotalAmount        decimal.Decimal        `json:"total_amount"`
	DueDate            string                 `json:"due_date,omitempty"` // YYYY-MM-DD
	Milestones         []MilestoneSpecRequest `json:"milestones"`
	PaymentMethods     []PaymentMethodRequest `json:"payment_methods,omitempty"`
	TermsAndConditions string                 `json:"terms_and_conditions,omitempty"`
}

// RecordPaymentRequest body para POST /api/admin/invoices/:id/payments.
// PaymentID es opcional: un ID generado por el cliente hace el reintento
// idempotente (el segundo intento con el mismo ID no duplica el monto).
type RecordPaymentRequest struct {
	PaymentID     string          `json:"payment_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method"`
	MilestoneID   string          `json:"milestone_id,omitempty"`
	TransactionID string          `json:"transaction_id,omitempty"`
	Notes         string          `json:"notes,omitempty"`
}

// UpdateMilestoneStatusRequest body para PUT .../milestones/:mid/status.
type UpdateMilestoneStatusRequest struct {
	Status string `json:"status"` // "Pending" | "In Progress" | "Completed"
}

// InvoiceStatusOverrideRequest body para PUT /api/admin/invoices/:id/status.
// Solo las excepciones de administrador: "Overdue", "Cancelled" o "Active"
// (quita la excepción y vuelve al estado derivado por montos).
type InvoiceStatusOverrideRequest struct {
	Status string `json:"status"`
}

// MilestoneResponse hito en respuestas.
type MilestoneResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Percentage    decimal.Decimal `json:"percentage"`
	PaymentStatus string          `json:"payment_status"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	PaidDate      string          `json:"paid_date,omitempty"`
	Status        string          `json:"status"`
	CompletedDate string          `json:"completed_date,omitempty"`
}

// PaymentResponse pago registrado en respuestas.
type PaymentResponse struct {
	ID            string          `json:"id"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method"`
	TransactionID string          `json:"transaction_id,omitempty"`
	MilestoneID   string          `json:"milestone_id,omitempty"`
	PaymentDate   string          `json:"payment_date"`
	Notes         string          `json:"notes,omitempty"`
	VerifiedBy    string          `json:"verified_by"`
}

// PaymentMethodResponse cuenta de pago en respuestas.
type PaymentMethodResponse struct {
	Name          string `json:"name"`
	AccountName   string `json:"account_name,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	Instructions  string `json:"instructions,omitempty"`
}

// InvoiceResponse factura completa, incluida la vista del portal de cliente.
type InvoiceResponse struct {
	ID                 string                  `json:"id"`
	InvoiceNumber      string                  `json:"invoice_number"`
	BookingID          string                  `json:"booking_id"`
	ClientName         string                  `json:"client_name"`
	ClientEmail        string                  `json:"client_email"`
	ClientPhone        string                  `json:"client_phone,omitempty"`
	ClientCompany      string                  `json:"client_company,omitempty"`
	ServiceName        string                  `json:"service_name"`
	PackageName        string                  `json:"package_name"`
	PackagePrice       decimal.Decimal         `json:"package_price"`
	Currency           string                  `json:"currency"`
	TotalAmount        decimal.Decimal         `json:"total_amount"`
	PaymentType        string                  `json:"payment_type"`
	Milestones         []MilestoneResponse     `json:"milestones"`
	Payments           []PaymentResponse       `json:"payments"`
	PaidAmount         decimal.Decimal         `json:"paid_amount"`
	RemainingAmount    decimal.Decimal         `json:"remaining_amount"`
	Status             string                  `json:"status"`
	IssueDate          string                  `json:"issue_date"`
	DueDate            string                  `json:"due_date,omitempty"`
	PaidDate           string                  `json:"paid_date,omitempty"`
	PaymentMethods     []PaymentMethodResponse `json:"payment_methods,omitempty"`
	TermsAndConditions string                  `json:"terms_and_conditions,omitempty"`
	Version            int64                   `json:"version"`
}
