package billing

import (
	"context"
	"fmt"

	"github.com/pqrix/pqrix-api/internal/domain"
	"github.com/pqrix/pqrix-api/internal/domain/repository"
)

// ExportUseCase serializa una factura a XML para el handoff contable.
type ExportUseCase struct {
	invoiceRepo repository.InvoiceRepository
	exporter    InvoiceXMLExporter
	company     CompanyInfo
}

// NewExportUseCase construye el caso de uso.
func NewExportUseCase(invoiceRepo repository.InvoiceRepository, exporter InvoiceXMLExporter, company CompanyInfo) *ExportUseCase {
	return &ExportUseCase{invoiceRepo: invoiceRepo, exporter: exporter, company: company}
}

// ExportInvoiceXML recupera la factura y la serializa a XML.
func (uc *ExportUseCase) ExportInvoiceXML(ctx context.Context, invoiceID string) (xmlBytes []byte, filename string, err error) {
	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("export: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, "", domain.ErrNotFound
	}

	xmlBytes, err = uc.exporter.Export(inv, uc.company)
	if err != nil {
		return nil, "", fmt.Errorf("export: generar XML: %w", err)
	}
	filename = fmt.Sprintf("factura-%s.xml", inv.InvoiceNumber)
	return xmlBytes, filename, nil
}
