package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pqrix/pqrix-api/internal/domain/entity"
	"github.com/pqrix/pqrix-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.StatsRepository = (*StatsRepo)(nil)

// StatsRepo consultas de solo lectura para el dashboard del back-office.
type StatsRepo struct {
	pool *pgxpool.Pool
}

// NewStatsRepository construye el adaptador de estadísticas.
func NewStatsRepository(pool *pgxpool.Pool) *StatsRepo {
	return &StatsRepo{pool: pool}
}

// GetDashboardStats agrega contadores por estado y los ingresos cobrados
// (paid_amount de facturas no canceladas) por moneda.
func (r *StatsRepo) GetDashboardStats(ctx context.Context) (*repository.DashboardStats, error) {
	stats := &repository.DashboardStats{
		BookingsByStatus:  make(map[string]int),
		InvoicesByStatus:  make(map[string]int),
		RevenueByCurrency: make(map[string]decimal.Decimal),
	}

	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM bookings GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("stats bookings: %w", err)
	}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan booking stats: %w", err)
		}
		stats.BookingsByStatus[status] = count
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = r.pool.Query(ctx, `SELECT status, COUNT(*) FROM invoices GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("stats invoices: %w", err)
	}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan invoice stats: %w", err)
		}
		stats.InvoicesByStatus[status] = count
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = r.pool.Query(ctx, `
		SELECT currency, COALESCE(SUM(paid_amount), 0)
		FROM invoices
		WHERE status <> $1
		GROUP BY currency`, entity.InvoiceStatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("stats revenue: %w", err)
	}
	for rows.Next() {
		var currency string
		var amount decimal.Decimal
		if err := rows.Scan(&currency, &amount); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan revenue stats: %w", err)
		}
		stats.RevenueByCurrency[currency] = amount
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM clients`).Scan(&stats.ClientCount); err != nil {
		return nil, fmt.Errorf("stats clients: %w", err)
	}
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM services`).Scan(&stats.ServiceCount); err != nil {
		return nil, fmt.Errorf("stats services: %w", err)
	}
	return stats, nil
}
