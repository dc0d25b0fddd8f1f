package billing

import (
	"context"

	"github.com/pqrix/pqrix-api/internal/domain/entity"
	"github.com/pqrix/pqrix-api/internal/domain/repository"
)

// BillingTxRunner ejecuta una función dentro de una transacción que incluye
// los repos de facturación y contrataciones. Se usa al crear la factura para
// que el alta del documento y el enlace booking.InvoiceID sean atómicos.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(
		invoiceRepo repository.InvoiceRepository,
		bookingRepo repository.BookingRepository,
	) error) error
}

// CompanyInfo datos de la agencia que aparecen en el PDF y el XML.
type CompanyInfo struct {
	Name  string
	Email string
	Phone string
}

// InvoicePDFGenerator genera el recibo PDF de una factura para el cliente.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, invoice *entity.Invoice, company CompanyInfo) ([]byte, error)
}

// InvoiceXMLExporter serializa la factura a XML (handoff contable).
type InvoiceXMLExporter interface {
	Export(invoice *entity.Invoice, company CompanyInfo) ([]byte, error)
}
