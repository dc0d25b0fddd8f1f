package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pqrix/pqrix-api/internal/domain/entity"
	"github.com/pqrix/pqrix-api/internal/domain/repository"
)

var _ repository.BookingRepository = (*BookingRepo)(nil)

const bookingColumns = `
	id, client_name, client_email, client_phone,
	service_id, service_name, package_name, package_price, currency,
	invoice_id, status, progress, timeline, notes,
	created_at, updated_at`

// BookingRepo implementación de BookingRepository sobre PostgreSQL (usable con pool o tx).
type BookingRepo struct {
	q Querier
}

// NewBookingRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBookingRepository(q Querier) *BookingRepo {
	return &BookingRepo{q: q}
}

// Create persiste la contratación.
func (r *BookingRepo) Create(booking *entity.ServiceBooking) error {
	timeline, err := marshalTimeline(booking.Timeline)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err = r.q.Exec(context.Background(), query,
		booking.ID, booking.ClientName, booking.ClientEmail, nullIfEmpty(booking.ClientPhone),
		booking.ServiceID, booking.ServiceName, booking.PackageName, booking.PackagePrice, booking.Currency,
		nullIfEmpty(booking.InvoiceID), booking.Status, booking.Progress, timeline, nullIfEmpty(booking.Notes),
		booking.CreatedAt, booking.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

// Update reemplaza los campos mutables de la contratación.
func (r *BookingRepo) Update(booking *entity.ServiceBooking) error {
	timeline, err := marshalTimeline(booking.Timeline)
	if err != nil {
		return err
	}
	query := `
		UPDATE bookings
		SET invoice_id = $2,
		    status     = $3,
		    progress   = $4,
		    timeline   = $5,
		    notes      = $6,
		    updated_at = $7
		WHERE id = $1`
	_, err = r.q.Exec(context.Background(), query,
		booking.ID, nullIfEmpty(booking.InvoiceID), booking.Status, booking.Progress,
		timeline, nullIfEmpty(booking.Notes), booking.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update booking: %w", err)
	}
	return nil
}

// GetByID obtiene una contratación por ID. Retorna nil si no existe.
func (r *BookingRepo) GetByID(id string) (*entity.ServiceBooking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	b, err := scanBooking(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return b, nil
}

// List lista contrataciones filtrando por estado ("" = todas), creación descendente.
func (r *BookingRepo) List(status string, limit, offset int) ([]*entity.ServiceBooking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()
	return scanBookings(rows)
}

// ListByClientEmail contrataciones del portal de cliente (solo lectura).
func (r *BookingRepo) ListByClientEmail(email string) ([]*entity.ServiceBooking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE client_email = $1
		ORDER BY created_at DESC`
	rows, err := r.q.Query(context.Background(), query, email)
	if err != nil {
		return nil, fmt.Errorf("list bookings by client: %w", err)
	}
	defer rows.Close()
	return scanBookings(rows)
}

func scanBookings(rows pgx.Rows) ([]*entity.ServiceBooking, error) {
	var list []*entity.ServiceBooking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

func scanBooking(row pgx.Row) (*entity.ServiceBooking, error) {
	var b entity.ServiceBooking
	var clientPhone, invoiceID, notes *string
	var timeline []byte
	err := row.Scan(
		&b.ID, &b.ClientName, &b.ClientEmail, &clientPhone,
		&b.ServiceID, &b.ServiceName, &b.PackageName, &b.PackagePrice, &b.Currency,
		&invoiceID, &b.Status, &b.Progress, &timeline, &notes,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan booking: %w", err)
	}
	b.ClientPhone = derefStr(clientPhone)
	b.InvoiceID = derefStr(invoiceID)
	b.Notes = derefStr(notes)
	if b.Timeline, err = unmarshalTimeline(timeline); err != nil {
		return nil, err
	}
	return &b, nil
}
