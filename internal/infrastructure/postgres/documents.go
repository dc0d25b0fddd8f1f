package postgres

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pqrix/pqrix-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Documentos JSONB embebidos en las filas. Los montos serializan como strings
// decimales (shopspring los cita por defecto), así el round-trip es exacto.

type milestoneDoc struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Percentage    decimal.Decimal `json:"percentage"`
	PaymentStatus string          `json:"payment_status"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	PaidDate      *time.Time      `json:"paid_date,omitempty"`
	Status        string          `json:"status"`
	CompletedDate *time.Time      `json:"completed_date,omitempty"`
}

type paymentDoc struct {
	ID            string          `json:"id"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method"`
	TransactionID string          `json:"transaction_id,omitempty"`
	MilestoneID   string          `json:"milestone_id,omitempty"`
	PaymentDate   time.Time       `json:"payment_date"`
	Notes         string          `json:"notes,omitempty"`
	VerifiedBy    string          `json:"verified_by"`
}

type paymentMethodDoc struct {
	Name          string `json:"name"`
	AccountName   string `json:"account_name,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	Instructions  string `json:"instructions,omitempty"`
}

type timelinePhaseDoc struct {
	Name        string     `json:"name"`
	Status      string     `json:"status"`
	Date        *time.Time `json:"date,omitempty"`
	Description string     `json:"description,omitempty"`
}

type servicePackageDoc struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Currency     string          `json:"currency"`
	DeliveryDays int             `json:"delivery_days,omitempty"`
	Features     []string        `json:"features,omitempty"`
}

func marshalMilestones(ms []entity.Milestone) ([]byte, error) {
	docs := make([]milestoneDoc, 0, len(ms))
	for _, m := range ms {
		docs = append(docs, milestoneDoc{
			ID:            m.ID,
			Name:          m.Name,
			Description:   m.Description,
			Amount:        m.Amount,
			Percentage:    m.Percentage,
			PaymentStatus: m.PaymentStatus,
			PaidAmount:    m.PaidAmount,
			PaidDate:      m.PaidDate,
			Status:        m.Status,
			CompletedDate: m.CompletedDate,
		})
	}
	b, err := json.Marshal(docs)
	if err != nil {
		return nil, fmt.Errorf("marshal milestones: %w", err)
	}
	return b, nil
}

func unmarshalMilestones(b []byte) ([]entity.Milestone, error) {
	var docs []milestoneDoc
	if err := json.Unmarshal(b, &docs); err != nil {
		return nil, fmt.Errorf("unmarshal milestones: %w", err)
	}
	ms := make([]entity.Milestone, 0, len(docs))
	for _, d := range docs {
		ms = append(ms, entity.Milestone{
			ID:            d.ID,
			Name:          d.Name,
			Description:   d.Description,
			Amount:        d.Amount,
			Percentage:    d.Percentage,
			PaymentStatus: d.PaymentStatus,
			PaidAmount:    d.PaidAmount,
			PaidDate:      d.PaidDate,
			Status:        d.Status,
			CompletedDate: d.CompletedDate,
		})
	}
	return ms, nil
}

func marshalPayments(ps []entity.Payment) ([]byte, error) {
	docs := make([]paymentDoc, 0, len(ps))
	for _, p := range ps {
		docs = append(docs, paymentDoc{
			ID:            p.ID,
			Amount:        p.Amount,
			Method:        p.Method,
			TransactionID: p.TransactionID,
			MilestoneID:   p.MilestoneID,
			PaymentDate:   p.PaymentDate,
			Notes:         p.Notes,
			VerifiedBy:    p.VerifiedBy,
		})
	}
	b, err := json.Marshal(docs)
	if err != nil {
		return nil, fmt.Errorf("marshal payments: %w", err)
	}
	return b, nil
}

func unmarshalPayments(b []byte) ([]entity.Payment, error) {
	var docs []paymentDoc
	if err := json.Unmarshal(b, &docs); err != nil {
		return nil, fmt.Errorf("unmarshal payments: %w", err)
	}
	ps := make([]entity.Payment, 0, len(docs))
	for _, d := range docs {
		ps = append(ps, entity.Payment{
			ID:            d.ID,
			Amount:        d.Amount,
			Method:        d.Method,
			TransactionID: d.TransactionID,
			MilestoneID:   d.MilestoneID,
			PaymentDate:   d.PaymentDate,
			Notes:         d.Notes,
			VerifiedBy:    d.VerifiedBy,
		})
	}
	return ps, nil
}

func marshalPaymentMethods(pms []entity.PaymentMethod) ([]byte, error) {
	docs := make([]paymentMethodDoc, 0, len(pms))
	for _, pm := range pms {
		docs = append(docs, paymentMethodDoc(pm))
	}
	b, err := json.Marshal(docs)
	if err != nil {
		return nil, fmt.Errorf("marshal payment methods: %w", err)
	}
	return b, nil
}

func unmarshalPaymentMethods(b []byte) ([]entity.PaymentMethod, error) {
	var docs []paymentMethodDoc
	if err := json.Unmarshal(b, &docs); err != nil {
		return nil, fmt.Errorf("unmarshal payment methods: %w", err)
	}
	pms := make([]entity.PaymentMethod, 0, len(docs))
	for _, d := range docs {
		pms = append(pms, entity.PaymentMethod(d))
	}
	return pms, nil
}

func marshalTimeline(phases []entity.TimelinePhase) ([]byte, error) {
	docs := make([]timelinePhaseDoc, 0, len(phases))
	for _, p := range phases {
		docs = append(docs, timelinePhaseDoc{
			Name:        p.Name,
			Status:      p.Status,
			Date:        p.Date,
			Description: p.Description,
		})
	}
	b, err := json.Marshal(docs)
	if err != nil {
		return nil, fmt.Errorf("marshal timeline: %w", err)
	}
	return b, nil
}

func unmarshalTimeline(b []byte) ([]entity.TimelinePhase, error) {
	var docs []timelinePhaseDoc
	if err := json.Unmarshal(b, &docs); err != nil {
		return nil, fmt.Errorf("unmarshal timeline: %w", err)
	}
	phases := make([]entity.TimelinePhase, 0, len(docs))
	for _, d := range docs {
		phases = append(phases, entity.TimelinePhase{
			Name:        d.Name,
			Status:      d.Status,
			Date:        d.Date,
			Description: d.Description,
		})
	}
	return phases, nil
}

func marshalPackages(pkgs []entity.ServicePackage) ([]byte, error) {
	docs := make([]servicePackageDoc, 0, len(pkgs))
	for _, p := range pkgs {
		docs = append(docs, servicePackageDoc{
			ID:           p.ID,
			Name:         p.Name,
			Price:        p.Price,
			Currency:     p.Currency,
			DeliveryDays: p.DeliveryDays,
			Features:     p.Features,
		})
	}
	b, err := json.Marshal(docs)
	if err != nil {
		return nil, fmt.Errorf("marshal packages: %w", err)
	}
	return b, nil
}

func unmarshalPackages(b []byte) ([]entity.ServicePackage, error) {
	var docs []servicePackageDoc
	if err := json.Unmarshal(b, &docs); err != nil {
		return nil, fmt.Errorf("unmarshal packages: %w", err)
	}
	pkgs := make([]entity.ServicePackage, 0, len(docs))
	for _, d := range docs {
		pkgs = append(pkgs, entity.ServicePackage{
			ID:           d.ID,
			Name:         d.Name,
			Price:        d.Price,
			Currency:     d.Currency,
			DeliveryDays: d.DeliveryDays,
			Features:     d.Features,
		})
	}
	return pkgs, nil
}
