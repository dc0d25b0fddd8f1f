package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pqrix/pqrix-api/internal/application/dto"
	"github.com/pqrix/pqrix-api/internal/domain"
	"github.com/pqrix/pqrix-api/internal/domain/entity"
	"github.com/pqrix/pqrix-api/internal/domain/ledger"
	"github.com/pqrix/pqrix-api/internal/domain/repository"
)

// Config parámetros de facturación para el caso de uso.
type Config struct {
	DefaultCurrency string
}

// LedgerUseCase es el único dueño de las mutaciones de factura: toda escritura
// pasa por aquí y los derivados se recalculan en el servidor. Las UIs (admin
// de facturas, admin de bookings, portal de cliente) son clientes de
// lectura/comando y nunca computan totales por su cuenta.
type LedgerUseCase struct {
	txRunner    BillingTxRunner
	invoiceRepo repository.InvoiceRepository
	bookingRepo repository.BookingRepository
	cfg         Config
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(
	txRunner BillingTxRunner,
	invoiceRepo repository.InvoiceRepository,
	bookingRepo repository.BookingRepository,
	cfg Config,
) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner:    txRunner,
		invoiceRepo: invoiceRepo,
		bookingRepo: bookingRepo,
		cfg:         cfg,
	}
}

// CreateInvoice crea la factura de una contratación y enlaza booking.InvoiceID
// en una sola transacción. El snapshot de cliente y paquete se copia del
// booking al momento de crear (no es referencia viva).
func (uc *LedgerUseCase) CreateInvoice(ctx context.Context, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if in.BookingID == "" || len(in.Milestones) == 0 {
		return nil, fmt.Errorf("%w: booking_id y milestones son obligatorios", domain.ErrInvalidInput)
	}

	booking, err := uc.bookingRepo.GetByID(in.BookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, fmt.Errorf("%w: contratación %s", domain.ErrNotFound, in.BookingID)
	}
	if booking.InvoiceID != "" {
		return nil, fmt.Errorf("%w: la contratación ya tiene factura %s", domain.ErrDuplicate, booking.InvoiceID)
	}

	now := time.Now()

	specs := make([]ledger.MilestoneSpec, 0, len(in.Milestones))
	for _, m := range in.Milestones {
		specs = append(specs, ledger.MilestoneSpec{
			Name:        m.Name,
			Description: m.Description,
			Amount:      m.Amount,
			Paid:        m.Paid,
		})
	}
	milestones, err := ledger.BuildMilestones(in.TotalAmount, specs, now)
	if err != nil {
		return nil, err
	}

	number := in.InvoiceNumber
	if number == "" {
		number = fmt.Sprintf("PQX-%d-%d", now.Year(), now.Unix())
	}
	if existing, err := uc.invoiceRepo.GetByNumber(number); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("%w: número de factura %s", domain.ErrDuplicate, number)
	}

	currency := in.Currency
	if currency == "" {
		currency = booking.Currency
	}
	if currency == "" {
		currency = uc.cfg.DefaultCurrency
	}
	paymentType := in.PaymentType
	if paymentType == "" {
		if len(milestones) == 1 {
			paymentType = entity.PaymentTypeFull
		} else {
			paymentType = entity.PaymentTypeMilestone
		}
	}

	var dueDate *time.Time
	if in.DueDate != "" {
		d, err := time.Parse("2006-01-02", in.DueDate)
		if err != nil {
			return nil, fmt.Errorf("%w: due_date debe ser YYYY-MM-DD", domain.ErrInvalidInput)
		}
		dueDate = &d
	}

	methods := make([]entity.PaymentMethod, 0, len(in.PaymentMethods))
	for _, pm := range in.PaymentMethods {
		methods = append(methods, entity.PaymentMethod{
			Name:          pm.Name,
			AccountName:   pm.AccountName,
			AccountNumber: pm.AccountNumber,
			Instructions:  pm.Instructions,
		})
	}

	inv := &entity.Invoice{
		ID:                 uuid.New().String(),
		InvoiceNumber:      number,
		BookingID:          booking.ID,
		ClientName:         booking.ClientName,
		ClientEmail:        booking.ClientEmail,
		ClientPhone:        booking.ClientPhone,
		ClientCompany:      in.ClientCompany,
		ServiceName:        booking.ServiceName,
		PackageName:        booking.PackageName,
		PackagePrice:       booking.PackagePrice,
		Currency:           currency,
		TotalAmount:        in.TotalAmount,
		PaymentType:        paymentType,
		Milestones:         milestones,
		Status:             entity.InvoiceStatusUnpaid,
		IssueDate:          now,
		DueDate:            dueDate,
		PaymentMethods:     methods,
		TermsAndConditions: in.TermsAndConditions,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	// Estado inicial derivado (Partial/Paid si hay hitos migrados ya pagados)
	ledger.Recompute(inv, now)

	err = uc.txRunner.RunBilling(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		bookingRepo repository.BookingRepository,
	) error {
		if err := invoiceRepo.Create(inv); err != nil {
			return err
		}
		booking.InvoiceID = inv.ID
		booking.UpdatedAt = now
		return bookingRepo.Update(booking)
	})
	if err != nil {
		return nil, err
	}

	return toInvoiceResponse(inv), nil
}

// RecordPayment registra un pago y persiste el documento completo con chequeo
// de versión. La validación ocurre antes de cualquier escritura: en error no
// queda mutación parcial persistida.
func (uc *LedgerUseCase) RecordPayment(ctx context.Context, invoiceID, verifiedBy string, in dto.RecordPaymentRequest) (*dto.InvoiceResponse, error) {
	inv, err := uc.loadInvoice(invoiceID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	_, err = ledger.RecordPayment(inv, ledger.PaymentInput{
		ID:            in.PaymentID,
		Amount:        in.Amount,
		Method:        in.Method,
		MilestoneID:   in.MilestoneID,
		TransactionID: in.TransactionID,
		Notes:         in.Notes,
		VerifiedBy:    verifiedBy,
	}, now)
	if err != nil {
		return nil, err
	}
	return uc.persist(inv, now)
}

// ToggleMilestonePayment alterna el estado de pago de un hito (corrección
// manual, sin crear Payment) y recalcula los derivados.
func (uc *LedgerUseCase) ToggleMilestonePayment(ctx context.Context, invoiceID, milestoneID string) (*dto.InvoiceResponse, error) {
	inv, err := uc.loadInvoice(invoiceID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if err := ledger.ToggleMilestonePayment(inv, milestoneID, now); err != nil {
		return nil, err
	}
	return uc.persist(inv, now)
}

// UpdateMilestoneStatus cambia el avance de entrega de un hito.
func (uc *LedgerUseCase) UpdateMilestoneStatus(ctx context.Context, invoiceID, milestoneID, status string) (*dto.InvoiceResponse, error) {
	inv, err := uc.loadInvoice(invoiceID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if err := ledger.UpdateMilestoneWorkflow(inv, milestoneID, status, now); err != nil {
		return nil, err
	}
	return uc.persist(inv, now)
}

// OverrideStatus aplica o quita una excepción de administrador:
// "Overdue", "Cancelled" o "Active" (vuelve al estado derivado).
func (uc *LedgerUseCase) OverrideStatus(ctx context.Context, invoiceID, status string) (*dto.InvoiceResponse, error) {
	inv, err := uc.loadInvoice(invoiceID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	switch status {
	case entity.InvoiceStatusOverdue:
		err = ledger.MarkOverdue(inv)
	case entity.InvoiceStatusCancelled:
		err = ledger.Cancel(inv)
	case "Active":
		err = ledger.ClearOverride(inv, now)
	default:
		err = fmt.Errorf("%w: estado %q no es una excepción de administrador", domain.ErrInvalidInput, status)
	}
	if err != nil {
		return nil, err
	}
	return uc.persist(inv, now)
}

// GetInvoice obtiene una factura por ID.
func (uc *LedgerUseCase) GetInvoice(ctx context.Context, invoiceID string) (*dto.InvoiceResponse, error) {
	inv, err := uc.loadInvoice(invoiceID)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv), nil
}

// GetInvoiceByBooking obtiene la factura asociada a una contratación.
func (uc *LedgerUseCase) GetInvoiceByBooking(ctx context.Context, bookingID string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByBookingID(bookingID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, fmt.Errorf("%w: la contratación %s no tiene factura", domain.ErrNotFound, bookingID)
	}
	return toInvoiceResponse(inv), nil
}

// ListInvoices lista facturas filtrando por estado ("" = todas).
func (uc *LedgerUseCase) ListInvoices(ctx context.Context, status string, limit, offset int) ([]*dto.InvoiceResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.invoiceRepo.List(status, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, toInvoiceResponse(inv))
	}
	return out, nil
}

// ListInvoicesByClient facturas del portal de cliente (solo lectura).
func (uc *LedgerUseCase) ListInvoicesByClient(ctx context.Context, email string) ([]*dto.InvoiceResponse, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: email requerido", domain.ErrInvalidInput)
	}
	list, err := uc.invoiceRepo.ListByClientEmail(email)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, toInvoiceResponse(inv))
	}
	return out, nil
}

func (uc *LedgerUseCase) loadInvoice(invoiceID string) (*entity.Invoice, error) {
	if invoiceID == "" {
		return nil, fmt.Errorf("%w: id requerido", domain.ErrInvalidInput)
	}
	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, fmt.Errorf("%w: factura %s", domain.ErrNotFound, invoiceID)
	}
	return inv, nil
}

// persist guarda el documento completo. Un ErrConflict del repo significa que
// otro admin escribió primero: el caller debe refrescar y reintentar.
func (uc *LedgerUseCase) persist(inv *entity.Invoice, now time.Time) (*dto.InvoiceResponse, error) {
	inv.UpdatedAt = now
	if err := uc.invoiceRepo.Update(inv); err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv), nil
}

func fmtDate(t time.Time) string { return t.Format("2006-01-02") }

func fmtDatePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func toInvoiceResponse(inv *entity.Invoice) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{
		ID:                 inv.ID,
		InvoiceNumber:      inv.InvoiceNumber,
		BookingID:          inv.BookingID,
		ClientName:         inv.ClientName,
		ClientEmail:        inv.ClientEmail,
		ClientPhone:        inv.ClientPhone,
		ClientCompany:      inv.ClientCompany,
		ServiceName:        inv.ServiceName,
		PackageName:        inv.PackageName,
		PackagePrice:       inv.PackagePrice,
		Currency:           inv.Currency,
		TotalAmount:        inv.TotalAmount,
		PaymentType:        inv.PaymentType,
		Milestones:         make([]dto.MilestoneResponse, 0, len(inv.Milestones)),
		Payments:           make([]dto.PaymentResponse, 0, len(inv.Payments)),
		PaidAmount:         inv.PaidAmount,
		RemainingAmount:    inv.RemainingAmount,
		Status:             inv.Status,
		IssueDate:          fmtDate(inv.IssueDate),
		DueDate:            fmtDatePtr(inv.DueDate),
		PaidDate:           fmtDatePtr(inv.PaidDate),
		TermsAndConditions: inv.TermsAndConditions,
		Version:            inv.Version,
	}
	for _, m := range inv.Milestones {
		resp.Milestones = append(resp.Milestones, dto.MilestoneResponse{
			ID:            m.ID,
			Name:          m.Name,
			Description:   m.Description,
			Amount:        m.Amount,
			Percentage:    m.Percentage,
			PaymentStatus: m.PaymentStatus,
			PaidAmount:    m.PaidAmount,
			PaidDate:      fmtDatePtr(m.PaidDate),
			Status:        m.Status,
			CompletedDate: fmtDatePtr(m.CompletedDate),
		})
	}
	for _, p := range inv.Payments {
		resp.Payments = append(resp.Payments, dto.PaymentResponse{
			ID:            p.ID,
			Amount:        p.Amount,
			Method:        p.Method,
			TransactionID: p.TransactionID,
			MilestoneID:   p.MilestoneID,
			PaymentDate:   fmtDate(p.PaymentDate),
			Notes:         p.Notes,
			VerifiedBy:    p.VerifiedBy,
		})
	}
	for _, pm := range inv.PaymentMethods {
		resp.PaymentMethods = append(resp.PaymentMethods, dto.PaymentMethodResponse{
			Name:          pm.Name,
			AccountName:   pm.AccountName,
			AccountNumber: pm.AccountNumber,
			Instructions:  pm.Instructions,
		})
	}
	return resp
}
