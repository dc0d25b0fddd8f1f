package billing_test

import (
	"context"
	"testing"
	"time"

	"github.com/pqrix/pqrix-api/internal/application/billing"
	"github.com/pqrix/pqrix-api/internal/application/dto"
	"github.com/pqrix/pqrix-api/internal/domain"
	"github.com/pqrix/pqrix-api/internal/domain/entity"
	"github.com/pqrix/pqrix-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Fakes en memoria ──────────────────────────────────────────────────────────

type fakeInvoiceRepo struct {
	byID map[string]*entity.Invoice
	// failUpdateWith simula una escritura concurrente: el próximo Update
	// retorna este error sin escribir.
	failUpdateWith error
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{byID: make(map[string]*entity.Invoice)}
}

func (r *fakeInvoiceRepo) Create(inv *entity.Invoice) error {
	cp := *inv
	r.byID[inv.ID] = &cp
	return nil
}

// Update simula el replace con control de versión optimista del repo real.
func (r *fakeInvoiceRepo) Update(inv *entity.Invoice) error {
	if r.failUpdateWith != nil {
		err := r.failUpdateWith
		r.failUpdateWith = nil
		return err
	}
	stored, ok := r.byID[inv.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if stored.Version != inv.Version {
		return domain.ErrConflict
	}
	inv.Version++
	cp := *inv
	r.byID[inv.ID] = &cp
	return nil
}

func (r *fakeInvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	inv, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (r *fakeInvoiceRepo) GetByBookingID(bookingID string) (*entity.Invoice, error) {
	for _, inv := range r.byID {
		if inv.BookingID == bookingID {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeInvoiceRepo) GetByNumber(number string) (*entity.Invoice, error) {
	for _, inv := range r.byID {
		if inv.InvoiceNumber == number {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeInvoiceRepo) List(status string, limit, offset int) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for _, inv := range r.byID {
		if status == "" || inv.Status == status {
			cp := *inv
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeInvoiceRepo) ListByClientEmail(email string) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for _, inv := range r.byID {
		if inv.ClientEmail == email {
			cp := *inv
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeBookingRepo struct {
	byID map[string]*entity.ServiceBooking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{byID: make(map[string]*entity.ServiceBooking)}
}

func (r *fakeBookingRepo) Create(b *entity.ServiceBooking) error {
	cp := *b
	r.byID[b.ID] = &cp
	return nil
}

func (r *fakeBookingRepo) Update(b *entity.ServiceBooking) error {
	if _, ok := r.byID[b.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *b
	r.byID[b.ID] = &cp
	return nil
}

func (r *fakeBookingRepo) GetByID(id string) (*entity.ServiceBooking, error) {
	b, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBookingRepo) List(status string, limit, offset int) ([]*entity.ServiceBooking, error) {
	return nil, nil
}

func (r *fakeBookingRepo) ListByClientEmail(email string) ([]*entity.ServiceBooking, error) {
	return nil, nil
}

// fakeTxRunner ejecuta el callback sobre los mismos fakes (sin tx real).
type fakeTxRunner struct {
	invoiceRepo repository.InvoiceRepository
	bookingRepo repository.BookingRepository
}

func (r *fakeTxRunner) RunBilling(ctx context.Context, fn func(
	invoiceRepo repository.InvoiceRepository,
	bookingRepo repository.BookingRepository,
) error) error {
	return fn(r.invoiceRepo, r.bookingRepo)
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func setupLedger(t *testing.T) (*billing.LedgerUseCase, *fakeInvoiceRepo, *fakeBookingRepo) {
	t.Helper()
	invoiceRepo := newFakeInvoiceRepo()
	bookingRepo := newFakeBookingRepo()
	uc := billing.NewLedgerUseCase(
		&fakeTxRunner{invoiceRepo: invoiceRepo, bookingRepo: bookingRepo},
		invoiceRepo, bookingRepo,
		billing.Config{DefaultCurrency: "BDT"},
	)
	require.NoError(t, bookingRepo.Create(&entity.ServiceBooking{
		ID:           "bk-1",
		ClientName:   "Rahim Uddin",
		ClientEmail:  "rahim@example.com",
		ClientPhone:  "+8801700000000",
		ServiceID:    "svc-1",
		ServiceName:  "Desarrollo Web",
		PackageName:  "Standard",
		PackagePrice: decimal.NewFromInt(1000),
		Currency:     "BDT",
		Status:       entity.BookingStatusPending,
		CreatedAt:    time.Now(),
	}))
	return uc, invoiceRepo, bookingRepo
}

func createTestInvoice(t *testing.T, uc *billing.LedgerUseCase) *dto.InvoiceResponse {
	t.Helper()
	resp, err := uc.CreateInvoice(context.Background(), dto.CreateInvoiceRequest{
		BookingID:   "bk-1",
		TotalAmount: decimal.NewFromInt(1000),
		Milestones: []dto.MilestoneSpecRequest{
			{Name: "Anticipo", Amount: decimal.NewFromInt(300)},
			{Name: "Entrega", Amount: decimal.NewFromInt(700)},
		},
	})
	require.NoError(t, err)
	return resp
}

// ── CreateInvoice ─────────────────────────────────────────────────────────────

func TestCreateInvoice_CopiaSnapshotYEnlazaBooking(t *testing.T) {
	uc, invoiceRepo, bookingRepo := setupLedger(t)

	resp := createTestInvoice(t, uc)

	// Snapshot del booking copiado a la factura
	assert.Equal(t, "Rahim Uddin", resp.ClientName)
	assert.Equal(t, "rahim@example.com", resp.ClientEmail)
	assert.Equal(t, "Desarrollo Web", resp.ServiceName)
	assert.Equal(t, "Standard", resp.PackageName)
	assert.Equal(t, "BDT", resp.Currency)
	assert.Equal(t, entity.InvoiceStatusUnpaid, resp.Status)
	assert.Equal(t, entity.PaymentTypeMilestone, resp.PaymentType)
	assert.NotEmpty(t, resp.InvoiceNumber)

	// Enlace booking → factura, en la misma transacción
	booking, err := bookingRepo.GetByID("bk-1")
	require.NoError(t, err)
	assert.Equal(t, resp.ID, booking.InvoiceID)

	stored, err := invoiceRepo.GetByID(resp.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Len(t, stored.Milestones, 2)
}

func TestCreateInvoice_BookingInexistente(t *testing.T) {
	uc, _, _ := setupLedger(t)
	_, err := uc.CreateInvoice(context.Background(), dto.CreateInvoiceRequest{
		BookingID:   "no-existe",
		TotalAmount: decimal.NewFromInt(100),
		Milestones:  []dto.MilestoneSpecRequest{{Name: "Todo", Amount: decimal.NewFromInt(100)}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateInvoice_BookingYaFacturado(t *testing.T) {
	uc, _, _ := setupLedger(t)
	createTestInvoice(t, uc)

	_, err := uc.CreateInvoice(context.Background(), dto.CreateInvoiceRequest{
		BookingID:   "bk-1",
		TotalAmount: decimal.NewFromInt(1000),
		Milestones:  []dto.MilestoneSpecRequest{{Name: "Todo", Amount: decimal.NewFromInt(1000)}},
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCreateInvoice_SumaDeHitosInvalida(t *testing.T) {
	uc, invoiceRepo, _ := setupLedger(t)
	_, err := uc.CreateInvoice(context.Background(), dto.CreateInvoiceRequest{
		BookingID:   "bk-1",
		TotalAmount: decimal.NewFromInt(1000),
		Milestones: []dto.MilestoneSpecRequest{
			{Name: "A", Amount: decimal.NewFromInt(300)},
			{Name: "B", Amount: decimal.NewFromInt(300)},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, invoiceRepo.byID, "no debe persistir nada en error")
}

func TestCreateInvoice_NumeroDuplicado(t *testing.T) {
	uc, _, bookingRepo := setupLedger(t)
	_, err := uc.CreateInvoice(context.Background(), dto.CreateInvoiceRequest{
		BookingID:     "bk-1",
		InvoiceNumber: "PQX-2026-100",
		TotalAmount:   decimal.NewFromInt(1000),
		Milestones:    []dto.MilestoneSpecRequest{{Name: "Todo", Amount: decimal.NewFromInt(1000)}},
	})
	require.NoError(t, err)

	require.NoError(t, bookingRepo.Create(&entity.ServiceBooking{
		ID: "bk-2", ClientName: "Otro", ClientEmail: "otro@example.com",
		Status: entity.BookingStatusPending,
	}))
	_, err = uc.CreateInvoice(context.Background(), dto.CreateInvoiceRequest{
		BookingID:     "bk-2",
		InvoiceNumber: "PQX-2026-100",
		TotalAmount:   decimal.NewFromInt(500),
		Milestones:    []dto.MilestoneSpecRequest{{Name: "Todo", Amount: decimal.NewFromInt(500)}},
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

// ── RecordPayment vía caso de uso ─────────────────────────────────────────────

func TestRecordPayment_PersisteYDerivaEstado(t *testing.T) {
	uc, invoiceRepo, _ := setupLedger(t)
	created := createTestInvoice(t, uc)

	resp, err := uc.RecordPayment(context.Background(), created.ID, "admin-1", dto.RecordPaymentRequest{
		Amount:      decimal.NewFromInt(300),
		Method:      entity.PaymentMethodBkash,
		MilestoneID: created.Milestones[0].ID,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusPartial, resp.Status)
	assert.True(t, resp.PaidAmount.Equal(decimal.NewFromInt(300)))

	stored, err := invoiceRepo.GetByID(created.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Payments, 1)
	assert.Equal(t, "admin-1", stored.Payments[0].VerifiedBy)
	assert.Equal(t, entity.InvoiceStatusPartial, stored.Status)
	assert.Equal(t, int64(1), stored.Version, "el replace incrementa la versión")
}

func TestRecordPayment_ValidacionNoPersisteNada(t *testing.T) {
	uc, invoiceRepo, _ := setupLedger(t)
	created := createTestInvoice(t, uc)

	_, err := uc.RecordPayment(context.Background(), created.ID, "admin-1", dto.RecordPaymentRequest{
		Amount:      decimal.NewFromInt(2000), // excede el saldo
		Method:      entity.PaymentMethodBkash,
		MilestoneID: created.Milestones[0].ID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	stored, _ := invoiceRepo.GetByID(created.ID)
	assert.Empty(t, stored.Payments)
	assert.Equal(t, entity.InvoiceStatusUnpaid, stored.Status)
	assert.Equal(t, int64(0), stored.Version)
}

func TestRecordPayment_ConflictoDeVersion(t *testing.T) {
	uc, invoiceRepo, _ := setupLedger(t)
	created := createTestInvoice(t, uc)

	// Otro admin escribió entre nuestro findOne y el replace
	invoiceRepo.failUpdateWith = domain.ErrConflict

	_, err := uc.RecordPayment(context.Background(), created.ID, "admin-1", dto.RecordPaymentRequest{
		Amount:      decimal.NewFromInt(300),
		Method:      entity.PaymentMethodNagad,
		MilestoneID: created.Milestones[0].ID,
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestOverrideStatus_CancelarBloqueaPagos(t *testing.T) {
	uc, _, _ := setupLedger(t)
	created := createTestInvoice(t, uc)

	resp, err := uc.OverrideStatus(context.Background(), created.ID, entity.InvoiceStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusCancelled, resp.Status)

	_, err = uc.RecordPayment(context.Background(), created.ID, "admin-1", dto.RecordPaymentRequest{
		Amount:      decimal.NewFromInt(300),
		Method:      entity.PaymentMethodBank,
		MilestoneID: created.Milestones[0].ID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	// "Active" quita la excepción y vuelve al estado derivado
	resp, err = uc.OverrideStatus(context.Background(), created.ID, "Active")
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusUnpaid, resp.Status)
}

func TestOverrideStatus_EstadoDesconocido(t *testing.T) {
	uc, _, _ := setupLedger(t)
	created := createTestInvoice(t, uc)
	_, err := uc.OverrideStatus(context.Background(), created.ID, "Paid")
	assert.ErrorIs(t, err, domain.ErrInvalidInput,
		"Paid se deriva de los montos, no es una excepción de administrador")
}

func TestToggleMilestonePayment_ViaCasoDeUso(t *testing.T) {
	uc, invoiceRepo, _ := setupLedger(t)
	created := createTestInvoice(t, uc)

	resp, err := uc.ToggleMilestonePayment(context.Background(), created.ID, created.Milestones[0].ID)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusPartial, resp.Status)

	resp, err = uc.ToggleMilestonePayment(context.Background(), created.ID, created.Milestones[1].ID)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusPaid, resp.Status)
	assert.NotEmpty(t, resp.PaidDate)

	stored, _ := invoiceRepo.GetByID(created.ID)
	assert.Equal(t, int64(2), stored.Version)
}

func TestListInvoicesByClient_RequiereEmail(t *testing.T) {
	uc, _, _ := setupLedger(t)
	_, err := uc.ListInvoicesByClient(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
