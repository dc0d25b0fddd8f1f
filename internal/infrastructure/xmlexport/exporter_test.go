package xmlexport

import (
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	appbilling "github.com/pqrix/pqrix-api/internal/application/billing"
	"github.com/pqrix/pqrix-api/internal/domain/entity"
)

func TestExport_MontosExactos(t *testing.T) {
	issue := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	paid := issue.AddDate(0, 0, 5)
	inv := &entity.Invoice{
		ID:            "inv-1",
		InvoiceNumber: "PQX-2026-0001",
		BookingID:     "bk-1",
		ClientName:    "Rahim Uddin",
		ClientEmail:   "rahim@example.com",
		ServiceName:   "Desarrollo Web",
		PackageName:   "Standard",
		PackagePrice:  decimal.RequireFromString("1000.00"),
		Currency:      "BDT",
		TotalAmount:   decimal.RequireFromString("1000.00"),
		PaymentType:   entity.PaymentTypeMilestone,
		Milestones: []entity.Milestone{
			{
				ID:            "ms-1",
				Name:          "Anticipo",
				Amount:        decimal.RequireFromString("333.33"),
				Percentage:    decimal.RequireFromString("33.33"),
				PaymentStatus: entity.MilestonePaid,
				PaidAmount:    decimal.RequireFromString("333.33"),
				PaidDate:      &paid,
				Status:        entity.MilestoneCompleted,
			},
			{
				ID:            "ms-2",
				Name:          "Entrega",
				Amount:        decimal.RequireFromString("666.67"),
				Percentage:    decimal.RequireFromString("66.67"),
				PaymentStatus: entity.MilestoneUnpaid,
				PaidAmount:    decimal.Zero,
				Status:        entity.MilestonePending,
			},
		},
		Payments: []entity.Payment{
			{
				ID:          "pay-1",
				Amount:      decimal.RequireFromString("333.33"),
				Method:      entity.PaymentMethodBkash,
				MilestoneID: "ms-1",
				PaymentDate: paid,
				VerifiedBy:  "admin@pqrix.com",
			},
		},
		PaidAmount:      decimal.RequireFromString("333.33"),
		RemainingAmount: decimal.RequireFromString("666.67"),
		Status:          entity.InvoiceStatusPartial,
		IssueDate:       issue,
		Version:         3,
	}

	out, err := NewExporter().Export(inv, appbilling.CompanyInfo{Name: "Pqrix", Email: "hello@pqrix.com"})
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))

	root := doc.SelectElement("Invoice")
	require.NotNil(t, root)
	require.Equal(t, "PQX-2026-0001", root.SelectAttrValue("number", ""))
	require.Equal(t, "BDT", root.SelectAttrValue("currency", ""))
	require.Equal(t, "3", root.SelectAttrValue("version", ""))

	// Los montos serializan con dos decimales fijos, sin redondeos raros.
	amounts := root.SelectElement("Amounts")
	require.NotNil(t, amounts)
	require.Equal(t, "1000.00", amounts.SelectElement("Total").Text())
	require.Equal(t, "333.33", amounts.SelectElement("Paid").Text())
	require.Equal(t, "666.67", amounts.SelectElement("Remaining").Text())

	milestones := root.SelectElement("Milestones").SelectElements("Milestone")
	require.Len(t, milestones, 2)
	require.Equal(t, "333.33", milestones[0].SelectElement("Amount").Text())
	require.Equal(t, "Paid", milestones[0].SelectElement("PaymentStatus").Text())
	require.Equal(t, "666.67", milestones[1].SelectElement("Amount").Text())
	require.Equal(t, "0.00", milestones[1].SelectElement("PaidAmount").Text())

	payments := root.SelectElement("Payments").SelectElements("Payment")
	require.Len(t, payments, 1)
	require.Equal(t, "333.33", payments[0].SelectElement("Amount").Text())
	require.Equal(t, "bKash", payments[0].SelectElement("Method").Text())
	require.Equal(t, "ms-1", payments[0].SelectElement("MilestoneID").Text())
}

func TestExport_FacturaNil(t *testing.T) {
	_, err := NewExporter().Export(nil, appbilling.CompanyInfo{Name: "Pqrix"})
	require.Error(t, err)
}
