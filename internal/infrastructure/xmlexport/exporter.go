// Package xmlexport serializa facturas a XML para el handoff contable.
// El formato es propio de la agencia (no UBL): una estructura plana y estable
// que el contador importa en su herramienta.
package xmlexport

import (
	"fmt"
	"time"

	"github.com/beevik/etree"

	appbilling "github.com/pqrix/pqrix-api/internal/application/billing"
	"github.com/pqrix/pqrix-api/internal/domain/entity"
)

var _ appbilling.InvoiceXMLExporter = (*Exporter)(nil)

// Exporter implementa billing.InvoiceXMLExporter con etree.
type Exporter struct{}

// NewExporter construye el exportador.
func NewExporter() *Exporter { return &Exporter{} }

// Export genera el documento XML de la factura. Los montos van con dos
// decimales fijos para que el round-trip contable sea exacto.
func (e *Exporter) Export(invoice *entity.Invoice, company appbilling.CompanyInfo) ([]byte, error) {
	if invoice == nil {
		return nil, fmt.Errorf("xmlexport: factura nil")
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("Invoice")
	root.CreateAttr("number", invoice.InvoiceNumber)
	root.CreateAttr("currency", invoice.Currency)
	root.CreateAttr("version", fmt.Sprintf("%d", invoice.Version))

	agency := root.CreateElement("Agency")
	agency.CreateElement("Name").SetText(company.Name)
	if company.Email != "" {
		agency.CreateElement("Email").SetText(company.Email)
	}
	if company.Phone != "" {
		agency.CreateElement("Phone").SetText(company.Phone)
	}

	client := root.CreateElement("Client")
	client.CreateElement("Name").SetText(invoice.ClientName)
	client.CreateElement("Email").SetText(invoice.ClientEmail)
	if invoice.ClientPhone != "" {
		client.CreateElement("Phone").SetText(invoice.ClientPhone)
	}
	if invoice.ClientCompany != "" {
		client.CreateElement("Company").SetText(invoice.ClientCompany)
	}

	service := root.CreateElement("Service")
	service.CreateElement("Name").SetText(invoice.ServiceName)
	service.CreateElement("Package").SetText(invoice.PackageName)
	service.CreateElement("PackagePrice").SetText(invoice.PackagePrice.StringFixed(2))

	root.CreateElement("BookingID").SetText(invoice.BookingID)
	root.CreateElement("IssueDate").SetText(invoice.IssueDate.Format("2006-01-02"))
	if invoice.DueDate != nil {
		root.CreateElement("DueDate").SetText(invoice.DueDate.Format("2006-01-02"))
	}
	root.CreateElement("Status").SetText(invoice.Status)
	root.CreateElement("PaymentType").SetText(invoice.PaymentType)

	amounts := root.CreateElement("Amounts")
	amounts.CreateElement("Total").SetText(invoice.TotalAmount.StringFixed(2))
	amounts.CreateElement("Paid").SetText(invoice.PaidAmount.StringFixed(2))
	amounts.CreateElement("Remaining").SetText(invoice.RemainingAmount.StringFixed(2))
	if invoice.PaidDate != nil {
		amounts.CreateElement("PaidDate").SetText(invoice.PaidDate.Format("2006-01-02"))
	}

	milestones := root.CreateElement("Milestones")
	for _, ms := range invoice.Milestones {
		el := milestones.CreateElement("Milestone")
		el.CreateAttr("id", ms.ID)
		el.CreateElement("Name").SetText(ms.Name)
		el.CreateElement("Amount").SetText(ms.Amount.StringFixed(2))
		el.CreateElement("Percentage").SetText(ms.Percentage.StringFixed(2))
		el.CreateElement("PaymentStatus").SetText(ms.PaymentStatus)
		el.CreateElement("PaidAmount").SetText(ms.PaidAmount.StringFixed(2))
		if ms.PaidDate != nil {
			el.CreateElement("PaidDate").SetText(ms.PaidDate.Format("2006-01-02"))
		}
		el.CreateElement("WorkStatus").SetText(ms.Status)
	}

	payments := root.CreateElement("Payments")
	for _, p := range invoice.Payments {
		el := payments.CreateElement("Payment")
		el.CreateAttr("id", p.ID)
		el.CreateElement("Amount").SetText(p.Amount.StringFixed(2))
		el.CreateElement("Method").SetText(p.Method)
		if p.TransactionID != "" {
			el.CreateElement("TransactionID").SetText(p.TransactionID)
		}
		if p.MilestoneID != "" {
			el.CreateElement("MilestoneID").SetText(p.MilestoneID)
		}
		el.CreateElement("Date").SetText(p.PaymentDate.Format(time.RFC3339))
		el.CreateElement("VerifiedBy").SetText(p.VerifiedBy)
	}

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("xmlexport: serializar: %w", err)
	}
	return out, nil
}
