package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pqrix/pqrix-api/internal/domain"
	"github.com/pqrix/pqrix-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// amountEpsilon tolerancia para la validación I1 (aritmética de moneda con
// dos decimales). Los montos se manejan con decimal exacto, pero los hitos
// pueden venir de un split porcentual redondeado (ej. 33.33/33.33/33.34).
var amountEpsilon = decimal.New(1, -2) // 0.01

// MilestoneSpec input para crear los hitos de una factura.
// Paid permite construir facturas migradas que ya traen hitos pagados.
type MilestoneSpec struct {
	Name        string
	Description string
	Amount      decimal.Decimal
	Paid        bool
}

// BuildMilestones valida el invariante I1 y construye los hitos.
// El porcentaje SIEMPRE se calcula de Amount/total: nunca se acepta como
// input independiente (evita que display y montos diverjan).
func BuildMilestones(total decimal.Decimal, specs []MilestoneSpec, now time.Time) ([]entity.Milestone, error) {
	if !total.IsPositive() {
		return nil, fmt.Errorf("%w: el total de la factura debe ser positivo", domain.ErrInvalidInput)
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("%w: la factura necesita al menos un hito", domain.ErrInvalidInput)
	}

	sum := decimal.Zero
	for i := range specs {
		if specs[i].Name == "" {
			return nil, fmt.Errorf("%w: el hito %d no tiene nombre", domain.ErrInvalidInput, i+1)
		}
		if !specs[i].Amount.IsPositive() {
			return nil, fmt.Errorf("%w: el monto del hito %q debe ser positivo", domain.ErrInvalidInput, specs[i].Name)
		}
		sum = sum.Add(specs[i].Amount)
	}
	if sum.Sub(total).Abs().GreaterThan(amountEpsilon) {
		return nil, fmt.Errorf("%w: la suma de hitos (%s) no coincide con el total (%s)",
			domain.ErrInvalidInput, sum.StringFixed(2), total.StringFixed(2))
	}

	milestones := make([]entity.Milestone, 0, len(specs))
	for _, spec := range specs {
		m := entity.Milestone{
			ID:            uuid.New().String(),
			Name:          spec.Name,
			Description:   spec.Description,
			Amount:        spec.Amount,
			Percentage:    Percentage(spec.Amount, total),
			PaymentStatus: entity.MilestoneUnpaid,
			PaidAmount:    decimal.Zero,
			Status:        entity.MilestonePending,
		}
		if spec.Paid {
			markMilestonePaid(&m, now)
		}
		milestones = append(milestones, m)
	}
	return milestones, nil
}

// Percentage calcula amount/total*100 redondeado a dos decimales.
// Solo display: el valor autoritativo siempre es Amount.
func Percentage(amount, total decimal.Decimal) decimal.Decimal {
	if !total.IsPositive() {
		return decimal.Zero
	}
	return amount.Div(total).Mul(decimal.NewFromInt(100)).Round(2)
}
