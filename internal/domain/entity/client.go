package entity

import "time"

// Client es un cliente del portal (identificado por email).
type Client struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Company   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ClientProject es un tracker de proyecto por cliente, con su propio
// estado/progreso/timeline. Estructuralmente igual a un booking pero
// nunca está ligado a una factura.
type ClientProject struct {
	ID          string
	ClientID    string
	Name        string
	Description string
	Status      string // "Pending" | "In Progress" | "Completed"
	Progress    int    // 0-100
	Timeline    []TimelinePhase
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
