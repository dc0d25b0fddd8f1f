package billing

import (
	"context"
	"fmt"

	"github.com/pqrix/pqrix-api/internal/domain"
	"github.com/pqrix/pqrix-api/internal/domain/repository"
)

// PDFUseCase genera el recibo PDF de una factura para el cliente.
type PDFUseCase struct {
	invoiceRepo repository.InvoiceRepository
	generator   InvoicePDFGenerator
	company     CompanyInfo
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(invoiceRepo repository.InvoiceRepository, generator InvoicePDFGenerator, company CompanyInfo) *PDFUseCase {
	return &PDFUseCase{invoiceRepo: invoiceRepo, generator: generator, company: company}
}

// DownloadInvoicePDF recupera la factura y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil) si todo sale bien.
//   - domain.ErrNotFound        si la factura no existe.
func (uc *PDFUseCase) DownloadInvoicePDF(ctx context.Context, invoiceID string) (pdfBytes []byte, filename string, err error) {
	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, "", domain.ErrNotFound
	}

	pdfBytes, err = uc.generator.GenerateInvoicePDF(ctx, inv, uc.company)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generar documento: %w", err)
	}
	filename = fmt.Sprintf("factura-%s.pdf", inv.InvoiceNumber)
	return pdfBytes, filename, nil
}
