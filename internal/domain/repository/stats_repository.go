package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

// DashboardStats contadores agregados para el panel del back-office.
type DashboardStats struct {
	BookingsByStatus map[string]int
	InvoicesByStatus map[string]int
	// RevenueByCurrency suma de paid_amount de facturas no canceladas, por moneda.
	RevenueByCurrency map[string]decimal.Decimal
	ClientCount       int
	ServiceCount      int
}

// StatsRepository consultas de solo lectura para el dashboard.
type StatsRepository interface {
	GetDashboardStats(ctx context.Context) (*DashboardStats, error)
}
