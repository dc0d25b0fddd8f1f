// Package pdf implementa el recibo PDF de la factura que se comparte con el
// cliente de la agencia.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Agencia  │  N° Factura + Fecha + Estado            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: Nombre + Email + Servicio/Paquete                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA HITOS: Hito | % | Monto | Estado de pago             │
//	│  TABLA PAGOS: Fecha | Método | Referencia | Monto           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Total / Pagado / Saldo                            │
//	│  FOOTER: Métodos de pago + Términos                         │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	appbilling "github.com/pqrix/pqrix-api/internal/application/billing"
	"github.com/pqrix/pqrix-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 24, Green: 54, Blue: 99}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorGreen   = &props.Color{Red: 22, Green: 128, Blue: 57}
)

var amountPrinter = message.NewPrinter(language.English)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ appbilling.InvoicePDFGenerator = (*MarotoInvoiceGenerator)(nil)

// MarotoInvoiceGenerator implementa billing.InvoicePDFGenerator usando Maroto v2.
type MarotoInvoiceGenerator struct{}

// NewMarotoInvoiceGenerator construye el generador.
func NewMarotoInvoiceGenerator() *MarotoInvoiceGenerator { return &MarotoInvoiceGenerator{} }

// GenerateInvoicePDF genera el PDF y devuelve sus bytes.
func (g *MarotoInvoiceGenerator) GenerateInvoicePDF(
	_ context.Context,
	invoice *entity.Invoice,
	company appbilling.CompanyInfo,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Factura "+invoice.InvoiceNumber, true).
		WithAuthor(company.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(invoice, company))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(clientRow(invoice))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	// Hitos
	m.AddRows(sectionTitleRow("HITOS"))
	m.AddRows(milestoneHeaderRow())
	for _, r := range milestoneRows(invoice) {
		m.AddRows(r)
	}

	// Historial de pagos (solo si hay)
	if len(invoice.Payments) > 0 {
		m.AddRows(line.NewRow(2))
		m.AddRows(sectionTitleRow("PAGOS RECIBIDOS"))
		m.AddRows(paymentHeaderRow())
		for _, r := range paymentRows(invoice) {
			m.AddRows(r)
		}
	}

	// Totales
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(invoice))

	// Footer: métodos de pago + términos
	if len(invoice.PaymentMethods) > 0 {
		m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
		for _, r := range paymentMethodRows(invoice) {
			m.AddRows(r)
		}
	}
	if invoice.TermsAndConditions != "" {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New(invoice.TermsAndConditions, props.Text{Size: 6.5, Color: colorGray, Top: 2}),
		)))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: agencia (izq) y N° Factura + Fecha + Estado (der).
func headerRow(invoice *entity.Invoice, company appbilling.CompanyInfo) core.Row {
	fecha := invoice.IssueDate.Format("02/01/2006")
	contact := ""
	if company.Email != "" {
		contact = company.Email
	}
	if company.Phone != "" {
		if contact != "" {
			contact += "   |   "
		}
		contact += company.Phone
	}

	statusColor := colorGray
	if invoice.Status == entity.InvoiceStatusPaid {
		statusColor = colorGreen
	}

	return row.New(20).Add(
		col.New(7).Add(
			text.New(company.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(contact, props.Text{Size: 8, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("FACTURA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(invoice.InvoiceNumber, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+fecha+"   Estado: "+invoice.Status, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: statusColor,
			}),
		),
	)
}

// clientRow: datos del cliente y el paquete contratado.
func clientRow(invoice *entity.Invoice) core.Row {
	return row.New(16).Add(
		col.New(12).Add(
			text.New("FACTURAR A", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(invoice.ClientName, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Email: %s   |   Servicio: %s — %s",
				invoice.ClientEmail, invoice.ServiceName, invoice.PackageName,
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func sectionTitleRow(title string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(title, props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2,
		}),
	))
}

func milestoneHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 1,
		}))
	}
	return row.New(6).Add(
		h("Hito", 5, align.Left),
		h("%", 1, align.Center),
		h("Monto", 3, align.Right),
		h("Pago", 3, align.Right),
	)
}

func milestoneRows(invoice *entity.Invoice) []core.Row {
	result := make([]core.Row, 0, len(invoice.Milestones))
	for _, ms := range invoice.Milestones {
		payState := "Pendiente"
		payColor := colorGray
		if ms.PaymentStatus == entity.MilestonePaid {
			payState = "Pagado"
			if ms.PaidDate != nil {
				payState += " " + ms.PaidDate.Format("02/01/2006")
			}
			payColor = colorGreen
		}
		result = append(result, row.New(6).Add(
			col.New(5).Add(text.New(ms.Name, props.Text{Size: 8, Top: 1})),
			col.New(1).Add(text.New(ms.Percentage.StringFixed(0)+"%", props.Text{
				Size: 8, Align: align.Center, Top: 1,
			})),
			col.New(3).Add(text.New(formatAmount(ms.Amount, invoice.Currency), props.Text{
				Size: 8, Align: align.Right, Top: 1,
			})),
			col.New(3).Add(text.New(payState, props.Text{
				Size: 8, Align: align.Right, Top: 1, Color: payColor,
			})),
		))
	}
	return result
}

func paymentHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 1,
		}))
	}
	return row.New(6).Add(
		h("Fecha", 2, align.Left),
		h("Método", 3, align.Left),
		h("Referencia", 4, align.Left),
		h("Monto", 3, align.Right),
	)
}

func paymentRows(invoice *entity.Invoice) []core.Row {
	result := make([]core.Row, 0, len(invoice.Payments))
	for _, p := range invoice.Payments {
		ref := p.TransactionID
		if ref == "" {
			ref = "—"
		}
		result = append(result, row.New(6).Add(
			col.New(2).Add(text.New(p.PaymentDate.Format("02/01/2006"), props.Text{Size: 8, Top: 1})),
			col.New(3).Add(text.New(p.Method, props.Text{Size: 8, Top: 1})),
			col.New(4).Add(text.New(ref, props.Text{Size: 8, Top: 1, Color: colorGray})),
			col.New(3).Add(text.New(formatAmount(p.Amount, invoice.Currency), props.Text{
				Size: 8, Align: align.Right, Top: 1,
			})),
		))
	}
	return result
}

// totalsRow: total / pagado / saldo pendiente alineados a la derecha.
func totalsRow(invoice *entity.Invoice) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grandLabel := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2,
		})
	}
	grandValue := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1,
		})
	}

	return row.New(26).Add(
		col.New(3),
		col.New(4).Add(
			label("Total:"),
			label("Pagado:"),
			grandLabel("SALDO PENDIENTE:"),
		),
		col.New(5).Add(
			value(formatAmount(invoice.TotalAmount, invoice.Currency)),
			value(formatAmount(invoice.PaidAmount, invoice.Currency)),
			grandValue(formatAmount(invoice.RemainingAmount, invoice.Currency)),
		),
	)
}

// paymentMethodRows: cuentas de la agencia donde el cliente puede pagar.
func paymentMethodRows(invoice *entity.Invoice) []core.Row {
	rows := []core.Row{sectionTitleRow("MÉTODOS DE PAGO")}
	for _, pm := range invoice.PaymentMethods {
		detail := pm.AccountNumber
		if pm.AccountName != "" {
			detail = pm.AccountName + " — " + detail
		}
		if pm.Instructions != "" {
			detail += "   (" + pm.Instructions + ")"
		}
		rows = append(rows, row.New(5).Add(
			col.New(3).Add(text.New(pm.Name, props.Text{Style: fontstyle.Bold, Size: 8, Top: 1})),
			col.New(9).Add(text.New(detail, props.Text{Size: 8, Top: 1, Color: colorGray})),
		))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

// formatAmount formatea "BDT 33,333.33" con separadores de miles según locale.
// Solo display: los montos reales siguen siendo decimal.Decimal.
func formatAmount(d decimal.Decimal, currency string) string {
	f, _ := d.Float64()
	return amountPrinter.Sprintf("%s %v", currency,
		number.Decimal(f, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}
