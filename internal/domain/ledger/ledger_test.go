package ledger_test

import (
	"testing"
	"time"

	"github.com/pqrix/pqrix-api/internal/domain"
	"github.com/pqrix/pqrix-api/internal/domain/entity"
	"github.com/pqrix/pqrix-api/internal/domain/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

// buildInvoice construye una factura con hitos de los montos dados y
// derivados recalculados (estado inicial Unpaid).
func buildInvoice(t *testing.T, total int64, amounts ...int64) *entity.Invoice {
	t.Helper()
	specs := make([]ledger.MilestoneSpec, 0, len(amounts))
	for i, a := range amounts {
		specs = append(specs, ledger.MilestoneSpec{
			Name:   "Hito " + string(rune('A'+i)),
			Amount: decimal.NewFromInt(a),
		})
	}
	milestones, err := ledger.BuildMilestones(decimal.NewFromInt(total), specs, testNow)
	require.NoError(t, err)
	inv := &entity.Invoice{
		ID:            "inv-1",
		InvoiceNumber: "PQX-2026-001",
		ClientName:    "Cliente Demo",
		ClientEmail:   "cliente@example.com",
		Currency:      "BDT",
		TotalAmount:   decimal.NewFromInt(total),
		PaymentType:   entity.PaymentTypeMilestone,
		Milestones:    milestones,
		Status:        entity.InvoiceStatusUnpaid,
		IssueDate:     testNow,
	}
	ledger.Recompute(inv, testNow)
	return inv
}

// assertInvariants verifica I3, I4 e I5 sobre el agregado.
func assertInvariants(t *testing.T, inv *entity.Invoice) {
	t.Helper()
	sum := decimal.Zero
	for _, m := range inv.Milestones {
		sum = sum.Add(m.PaidAmount)
		switch m.PaymentStatus {
		case entity.MilestonePaid:
			assert.True(t, m.PaidAmount.Equal(m.Amount), "hito Paid debe tener PaidAmount == Amount")
			assert.NotNil(t, m.PaidDate)
		case entity.MilestoneUnpaid:
			assert.True(t, m.PaidAmount.IsZero(), "hito Unpaid debe tener PaidAmount == 0")
			assert.Nil(t, m.PaidDate)
		}
	}
	if sum.GreaterThan(inv.TotalAmount) {
		sum = inv.TotalAmount
	}
	assert.True(t, inv.PaidAmount.Equal(sum), "I3: PaidAmount == sum(milestones)")
	assert.True(t, inv.RemainingAmount.Equal(inv.TotalAmount.Sub(inv.PaidAmount)), "I4: Remaining == Total - Paid")
	assert.False(t, inv.RemainingAmount.IsNegative(), "I4: Remaining nunca negativo")
}

func pay(amount int64, milestoneID string) ledger.PaymentInput {
	return ledger.PaymentInput{
		Amount:      decimal.NewFromInt(amount),
		Method:      entity.PaymentMethodBkash,
		MilestoneID: milestoneID,
		VerifiedBy:  "admin-1",
	}
}

// ── Creación de hitos (I1) ────────────────────────────────────────────────────

func TestBuildMilestones_SumaDebeCoincidirConTotal(t *testing.T) {
	_, err := ledger.BuildMilestones(decimal.NewFromInt(1000), []ledger.MilestoneSpec{
		{Name: "Diseño", Amount: decimal.NewFromInt(300)},
		{Name: "Desarrollo", Amount: decimal.NewFromInt(600)}, // suma 900 != 1000
	}, testNow)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBuildMilestones_EpsilonPermiteRedondeoDeCentavos(t *testing.T) {
	// Split 33.33/33.33/33.34 sobre 100.00 con centavo de diferencia
	specs := []ledger.MilestoneSpec{
		{Name: "A", Amount: decimal.RequireFromString("33.33")},
		{Name: "B", Amount: decimal.RequireFromString("33.33")},
		{Name: "C", Amount: decimal.RequireFromString("33.33")},
	}
	_, err := ledger.BuildMilestones(decimal.RequireFromString("100.00"), specs, testNow)
	require.NoError(t, err, "diferencia de 0.01 debe ser tolerada")

	specs[2].Amount = decimal.RequireFromString("33.00")
	_, err = ledger.BuildMilestones(decimal.RequireFromString("100.00"), specs, testNow)
	require.Error(t, err, "diferencia de 0.34 debe rechazarse")
}

func TestBuildMilestones_PorcentajeSiempreCalculado(t *testing.T) {
	milestones, err := ledger.BuildMilestones(decimal.NewFromInt(1000), []ledger.MilestoneSpec{
		{Name: "Anticipo", Amount: decimal.NewFromInt(300)},
		{Name: "Entrega", Amount: decimal.NewFromInt(700)},
	}, testNow)
	require.NoError(t, err)
	assert.True(t, milestones[0].Percentage.Equal(decimal.NewFromInt(30)))
	assert.True(t, milestones[1].Percentage.Equal(decimal.NewFromInt(70)))
}

func TestBuildMilestones_MontosNoPositivosRechazados(t *testing.T) {
	_, err := ledger.BuildMilestones(decimal.NewFromInt(100), []ledger.MilestoneSpec{
		{Name: "A", Amount: decimal.NewFromInt(100)},
		{Name: "B", Amount: decimal.Zero},
	}, testNow)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBuildMilestones_HitosPrepagados(t *testing.T) {
	// Registros migrados: la factura nace con un hito ya pagado
	milestones, err := ledger.BuildMilestones(decimal.NewFromInt(1000), []ledger.MilestoneSpec{
		{Name: "Anticipo", Amount: decimal.NewFromInt(300), Paid: true},
		{Name: "Entrega", Amount: decimal.NewFromInt(700)},
	}, testNow)
	require.NoError(t, err)

	inv := &entity.Invoice{
		TotalAmount: decimal.NewFromInt(1000),
		Milestones:  milestones,
		Status:      entity.InvoiceStatusUnpaid,
	}
	ledger.Recompute(inv, testNow)
	assert.Equal(t, entity.InvoiceStatusPartial, inv.Status)
	assert.True(t, inv.PaidAmount.Equal(decimal.NewFromInt(300)))
	assertInvariants(t, inv)
}

// ── Escenario 1: pago parcial atribuido a un hito ─────────────────────────────

func TestRecordPayment_PagoParcialAtribuido(t *testing.T) {
	inv := buildInvoice(t, 1000, 300, 700)
	require.Equal(t, entity.InvoiceStatusUnpaid, inv.Status)
	require.True(t, inv.PaidAmount.IsZero())

	p, err := ledger.RecordPayment(inv, pay(300, inv.Milestones[0].ID), testNow)
	require.NoError(t, err)

	assert.Equal(t, entity.MilestonePaid, inv.Milestones[0].PaymentStatus)
	assert.True(t, inv.PaidAmount.Equal(decimal.NewFromInt(300)))
	assert.True(t, inv.RemainingAmount.Equal(decimal.NewFromInt(700)))
	assert.Equal(t, entity.InvoiceStatusPartial, inv.Status)
	assert.Equal(t, inv.Milestones[0].ID, p.MilestoneID)
	assert.Len(t, inv.Payments, 1)
	assertInvariants(t, inv)
}

// ── Escenario 2: toggle del último hito completa la factura ───────────────────

func TestToggle_UltimoHitoCompletaFactura(t *testing.T) {
	inv := buildInvoice(t, 1000, 300, 700)
	_, err := ledger.RecordPayment(inv, pay(300, inv.Milestones[0].ID), testNow)
	require.NoError(t, err)

	err = ledger.ToggleMilestonePayment(inv, inv.Milestones[1].ID, testNow)
	require.NoError(t, err)

	assert.True(t, inv.PaidAmount.Equal(decimal.NewFromInt(1000)))
	assert.True(t, inv.RemainingAmount.IsZero())
	assert.Equal(t, entity.InvoiceStatusPaid, inv.Status)
	require.NotNil(t, inv.PaidDate, "PaidDate se fija en la primera transición a Paid")
	assertInvariants(t, inv)
}

// ── Escenario 3: toggle inverso retrocede el estado ───────────────────────────

func TestToggle_ReversaDePagoRetrocedeEstado(t *testing.T) {
	inv := buildInvoice(t, 1000, 300, 700)
	_, err := ledger.RecordPayment(inv, pay(300, inv.Milestones[0].ID), testNow)
	require.NoError(t, err)
	require.NoError(t, ledger.ToggleMilestonePayment(inv, inv.Milestones[1].ID, testNow))
	require.Equal(t, entity.InvoiceStatusPaid, inv.Status)

	// Des-marcar el hito 2: Paid → Partial
	require.NoError(t, ledger.ToggleMilestonePayment(inv, inv.Milestones[1].ID, testNow))
	assert.True(t, inv.PaidAmount.Equal(decimal.NewFromInt(300)))
	assert.True(t, inv.RemainingAmount.Equal(decimal.NewFromInt(700)))
	assert.Equal(t, entity.InvoiceStatusPartial, inv.Status)
	assertInvariants(t, inv)

	// Des-marcar también el hito 1: Partial → Unpaid
	require.NoError(t, ledger.ToggleMilestonePayment(inv, inv.Milestones[0].ID, testNow))
	assert.Equal(t, entity.InvoiceStatusUnpaid, inv.Status)
	assert.True(t, inv.PaidAmount.IsZero())

	// El historial de pagos no se toca (I2: append-only)
	assert.Len(t, inv.Payments, 1)
	assertInvariants(t, inv)
}

// ── Escenario 4: auto-atribución en factura de hito único ─────────────────────

func TestRecordPayment_AutoAtribucionHitoUnico(t *testing.T) {
	inv := buildInvoice(t, 500, 500)

	// Sin milestone_id: con un solo hito se atribuye automáticamente
	p, err := ledger.RecordPayment(inv, pay(500, ""), testNow)
	require.NoError(t, err)

	assert.Equal(t, inv.Milestones[0].ID, p.MilestoneID)
	assert.Equal(t, entity.MilestonePaid, inv.Milestones[0].PaymentStatus)
	assert.Equal(t, entity.InvoiceStatusPaid, inv.Status)
	assert.True(t, inv.RemainingAmount.IsZero())
	assertInvariants(t, inv)
}

func TestRecordPayment_MilestoneIDObligatorioConVariosHitos(t *testing.T) {
	inv := buildInvoice(t, 1000, 300, 700)
	_, err := ledger.RecordPayment(inv, pay(300, ""), testNow)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, inv.Payments, "no debe persistir nada en error")
	assert.Equal(t, entity.InvoiceStatusUnpaid, inv.Status)
}

// ── Escenario 5: pago que excede el saldo ─────────────────────────────────────

func TestRecordPayment_ExcedeSaldoRechazado(t *testing.T) {
	inv := buildInvoice(t, 1000, 500, 500)
	_, err := ledger.RecordPayment(inv, pay(500, inv.Milestones[0].ID), testNow)
	require.NoError(t, err)
	require.True(t, inv.RemainingAmount.Equal(decimal.NewFromInt(500)))

	_, err = ledger.RecordPayment(inv, pay(600, inv.Milestones[1].ID), testNow)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Estado intacto tras el rechazo
	assert.Len(t, inv.Payments, 1)
	assert.True(t, inv.RemainingAmount.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, entity.InvoiceStatusPartial, inv.Status)
	assertInvariants(t, inv)
}

// ── Escenario 6: factura cancelada rechaza toda operación de pago ─────────────

func TestFacturaCancelada_RechazaOperaciones(t *testing.T) {
	inv := buildInvoice(t, 1000, 300, 700)
	require.NoError(t, ledger.Cancel(inv))
	require.Equal(t, entity.InvoiceStatusCancelled, inv.Status)

	_, err := ledger.RecordPayment(inv, pay(300, inv.Milestones[0].ID), testNow)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	err = ledger.ToggleMilestonePayment(inv, inv.Milestones[0].ID, testNow)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	assert.Empty(t, inv.Payments)
	assert.Equal(t, entity.InvoiceStatusCancelled, inv.Status)
}

// ── Bordes del saldo ──────────────────────────────────────────────────────────

func TestRecordPayment_PagoExactoDelSaldoCompletaFactura(t *testing.T) {
	inv := buildInvoice(t, 1000, 300, 700)
	_, err := ledger.RecordPayment(inv, pay(300, inv.Milestones[0].ID), testNow)
	require.NoError(t, err)

	_, err = ledger.RecordPayment(inv, pay(700, inv.Milestones[1].ID), testNow)
	require.NoError(t, err)

	assert.Equal(t, entity.InvoiceStatusPaid, inv.Status)
	assert.True(t, inv.RemainingAmount.IsZero())
	assert.NotNil(t, inv.PaidDate)
	assertInvariants(t, inv)
}

func TestRecordPayment_SobreFacturaPagadaRechazado(t *testing.T) {
	inv := buildInvoice(t, 500, 500)
	_, err := ledger.RecordPayment(inv, pay(500, ""), testNow)
	require.NoError(t, err)

	_, err = ledger.RecordPayment(inv, pay(1, ""), testNow)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Len(t, inv.Payments, 1)
}

func TestRecordPayment_MontoNoPositivoRechazado(t *testing.T) {
	inv := buildInvoice(t, 500, 500)
	_, err := ledger.RecordPayment(inv, pay(0, ""), testNow)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = ledger.RecordPayment(inv, pay(-10, ""), testNow)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecordPayment_MetodoDesconocidoRechazado(t *testing.T) {
	inv := buildInvoice(t, 500, 500)
	in := pay(100, "")
	in.Method = "Cheque"
	_, err := ledger.RecordPayment(inv, in, testNow)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecordPayment_HitoInexistente(t *testing.T) {
	inv := buildInvoice(t, 1000, 300, 700)
	_, err := ledger.RecordPayment(inv, pay(300, "no-existe"), testNow)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, inv.Payments)
}

// ── Idempotencia ──────────────────────────────────────────────────────────────

func TestRecompute_Idempotente(t *testing.T) {
	inv := buildInvoice(t, 1000, 300, 700)
	_, err := ledger.RecordPayment(inv, pay(300, inv.Milestones[0].ID), testNow)
	require.NoError(t, err)

	paid, remaining, status := inv.PaidAmount, inv.RemainingAmount, inv.Status
	ledger.Recompute(inv, testNow)
	ledger.Recompute(inv, testNow)

	assert.True(t, inv.PaidAmount.Equal(paid))
	assert.True(t, inv.RemainingAmount.Equal(remaining))
	assert.Equal(t, status, inv.Status)
}

func TestRecordPayment_IDClienteEvitaDuplicados(t *testing.T) {
	inv := buildInvoice(t, 1000, 300, 700)
	in := pay(300, inv.Milestones[0].ID)
	in.ID = "pago-cliente-1"

	_, err := ledger.RecordPayment(inv, in, testNow)
	require.NoError(t, err)

	// El reintento con el mismo ID no duplica el monto
	_, err = ledger.RecordPayment(inv, in, testNow)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Len(t, inv.Payments, 1)
	assert.True(t, inv.PaidAmount.Equal(decimal.NewFromInt(300)))
}

// ── Overdue: bandera suave ────────────────────────────────────────────────────

func TestOverdue_PagoParcialNoLaLimpia(t *testing.T) {
	inv := buildInvoice(t, 1000, 300, 700)
	require.NoError(t, ledger.MarkOverdue(inv))
	require.Equal(t, entity.InvoiceStatusOverdue, inv.Status)

	_, err := ledger.RecordPayment(inv, pay(300, inv.Milestones[0].ID), testNow)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusOverdue, inv.Status, "pago parcial mantiene Overdue")
	assertInvariants(t, inv)
}

func TestOverdue_PagoTotalLaLimpia(t *testing.T) {
	inv := buildInvoice(t, 1000, 300, 700)
	require.NoError(t, ledger.MarkOverdue(inv))

	_, err := ledger.RecordPayment(inv, pay(300, inv.Milestones[0].ID), testNow)
	require.NoError(t, err)
	_, err = ledger.RecordPayment(inv, pay(700, inv.Milestones[1].ID), testNow)
	require.NoError(t, err)

	assert.Equal(t, entity.InvoiceStatusPaid, inv.Status, "el pago completo limpia Overdue")
	assert.NotNil(t, inv.PaidDate)
}

func TestMarkOverdue_RechazadaSiYaPagada(t *testing.T) {
	inv := buildInvoice(t, 500, 500)
	_, err := ledger.RecordPayment(inv, pay(500, ""), testNow)
	require.NoError(t, err)
	assert.ErrorIs(t, ledger.MarkOverdue(inv), domain.ErrInvalidState)
}

func TestClearOverride_VuelveAlEstadoDerivado(t *testing.T) {
	inv := buildInvoice(t, 1000, 300, 700)
	_, err := ledger.RecordPayment(inv, pay(300, inv.Milestones[0].ID), testNow)
	require.NoError(t, err)
	require.NoError(t, ledger.MarkOverdue(inv))

	require.NoError(t, ledger.ClearOverride(inv, testNow))
	assert.Equal(t, entity.InvoiceStatusPartial, inv.Status)

	// Sin excepción activa no hay nada que limpiar
	assert.ErrorIs(t, ledger.ClearOverride(inv, testNow), domain.ErrInvalidState)
}

func TestClearOverride_ReactivaFacturaCancelada(t *testing.T) {
	inv := buildInvoice(t, 1000, 300, 700)
	require.NoError(t, ledger.Cancel(inv))
	require.NoError(t, ledger.ClearOverride(inv, testNow))
	assert.Equal(t, entity.InvoiceStatusUnpaid, inv.Status)
}

// ── Workflow de entrega (independiente del pago) ──────────────────────────────

func TestUpdateMilestoneWorkflow_NoTocaMontos(t *testing.T) {
	inv := buildInvoice(t, 1000, 300, 700)

	err := ledger.UpdateMilestoneWorkflow(inv, inv.Milestones[0].ID, entity.MilestoneCompleted, testNow)
	require.NoError(t, err)

	// Hito Completed pero Unpaid: entrega y pago son ejes independientes
	assert.Equal(t, entity.MilestoneCompleted, inv.Milestones[0].Status)
	assert.NotNil(t, inv.Milestones[0].CompletedDate)
	assert.Equal(t, entity.MilestoneUnpaid, inv.Milestones[0].PaymentStatus)
	assert.True(t, inv.PaidAmount.IsZero())
	assert.Equal(t, entity.InvoiceStatusUnpaid, inv.Status)

	// Volver a In Progress limpia CompletedDate
	err = ledger.UpdateMilestoneWorkflow(inv, inv.Milestones[0].ID, entity.MilestoneInProgress, testNow)
	require.NoError(t, err)
	assert.Nil(t, inv.Milestones[0].CompletedDate)

	err = ledger.UpdateMilestoneWorkflow(inv, inv.Milestones[0].ID, "Archivado", testNow)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
