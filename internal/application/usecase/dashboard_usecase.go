package usecase

import (
	"context"
	"fmt"

	"github.com/pqrix/pqrix-api/internal/application/dto"
	"github.com/pqrix/pqrix-api/internal/domain/repository"
)

// DashboardUseCase expone los contadores agregados del panel.
type DashboardUseCase struct {
	statsRepo repository.StatsRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(statsRepo repository.StatsRepository) *DashboardUseCase {
	return &DashboardUseCase{statsRepo: statsRepo}
}

// GetStats obtiene los contadores del dashboard. Los ingresos van como
// strings decimales con dos cifras, por moneda.
func (uc *DashboardUseCase) GetStats(ctx context.Context) (*dto.DashboardStatsResponse, error) {
	stats, err := uc.statsRepo.GetDashboardStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}

	revenue := make(map[string]string, len(stats.RevenueByCurrency))
	for currency, amount := range stats.RevenueByCurrency {
		revenue[currency] = amount.StringFixed(2)
	}
	return &dto.DashboardStatsResponse{
		BookingsByStatus:  stats.BookingsByStatus,
		InvoicesByStatus:  stats.InvoicesByStatus,
		RevenueByCurrency: revenue,
		ClientCount:       stats.ClientCount,
		ServiceCount:      stats.ServiceCount,
	}, nil
}
