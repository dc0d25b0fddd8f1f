package dto

// DashboardStatsResponse contadores del panel del back-office.
// Los montos van como strings decimales para no perder precisión.
type DashboardStatsResponse struct {
	BookingsByStatus  map[string]int    `json:"bookings_by_status"`
	InvoicesByStatus  map[string]int    `json:"invoices_by_status"`
	RevenueByCurrency map[string]string `json:"revenue_by_currency"`
	ClientCount       int               `json:"client_count"`
	ServiceCount      int               `json:"service_count"`
}
