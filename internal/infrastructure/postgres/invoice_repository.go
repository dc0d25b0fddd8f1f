package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pqrix/pqrix-api/internal/domain"
	"github.com/pqrix/pqrix-api/internal/domain/entity"
	"github.com/pqrix/pqrix-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

const invoiceColumns = `
	id, invoice_number, booking_id,
	client_name, client_email, client_phone, client_company,
	service_name, package_name, package_price,
	currency, total_amount, payment_type,
	milestones, payments,
	paid_amount, remaining_amount, status,
	issue_date, due_date, paid_date,
	payment_methods, terms_and_conditions,
	version, created_at, updated_at`

// InvoiceRepo implementación de InvoiceRepository sobre PostgreSQL (usable con pool o tx).
// La factura se guarda como documento: los hitos, pagos y métodos de pago van
// en columnas JSONB dentro de la misma fila, así el replace es atómico.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create persiste la factura completa con version 0.
func (r *InvoiceRepo) Create(invoice *entity.Invoice) error {
	milestones, payments, methods, err := marshalInvoiceDocs(invoice)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
		        $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)`
	_, err = r.q.Exec(context.Background(), query,
		invoice.ID, invoice.InvoiceNumber, invoice.BookingID,
		invoice.ClientName, invoice.ClientEmail, nullIfEmpty(invoice.ClientPhone), nullIfEmpty(invoice.ClientCompany),
		invoice.ServiceName, invoice.PackageName, invoice.PackagePrice,
		invoice.Currency, invoice.TotalAmount, invoice.PaymentType,
		milestones, payments,
		invoice.PaidAmount, invoice.RemainingAmount, invoice.Status,
		invoice.IssueDate, invoice.DueDate, invoice.PaidDate,
		methods, nullIfEmpty(invoice.TermsAndConditions),
		invoice.Version, invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: número de factura o booking ya facturado", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// Update reemplaza el documento completo con control de concurrencia optimista:
// la fila solo se escribe si la versión en DB coincide con invoice.Version.
// Si no coincide (u otro proceso la borró) retorna domain.ErrConflict.
// En éxito incrementa invoice.Version.
func (r *InvoiceRepo) Update(invoice *entity.Invoice) error {
	milestones, payments, methods, err := marshalInvoiceDocs(invoice)
	if err != nil {
		return err
	}
	query := `
		UPDATE invoices
		SET milestones           = $3,
		    payments             = $4,
		    paid_amount          = $5,
		    remaining_amount     = $6,
		    status               = $7,
		    due_date             = $8,
		    paid_date            = $9,
		    payment_methods      = $10,
		    terms_and_conditions = $11,
		    version              = version + 1,
		    updated_at           = $12
		WHERE id = $1 AND version = $2`
	tag, err := r.q.Exec(context.Background(), query,
		invoice.ID, invoice.Version,
		milestones, payments,
		invoice.PaidAmount, invoice.RemainingAmount, invoice.Status,
		invoice.DueDate, invoice.PaidDate,
		methods, nullIfEmpty(invoice.TermsAndConditions),
		invoice.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: la factura %s cambió mientras se editaba", domain.ErrConflict, invoice.ID)
	}
	invoice.Version++
	return nil
}

// GetByID obtiene la factura completa por ID. Retorna nil si no existe.
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetByBookingID obtiene la factura ligada a una contratación (1:1).
func (r *InvoiceRepo) GetByBookingID(bookingID string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE booking_id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, bookingID))
}

// GetByNumber obtiene la factura por su número legible.
func (r *InvoiceRepo) GetByNumber(invoiceNumber string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_number = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, invoiceNumber))
}

// List lista facturas filtrando por estado ("" = todas), emisión descendente.
func (r *InvoiceRepo) List(status string, limit, offset int) ([]*entity.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE ($1 = '' OR status = $1)
		ORDER BY issue_date DESC, created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// ListByClientEmail facturas del portal de cliente (solo lectura).
func (r *InvoiceRepo) ListByClientEmail(email string) ([]*entity.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE client_email = $1
		ORDER BY issue_date DESC, created_at DESC`
	rows, err := r.q.Query(context.Background(), query, email)
	if err != nil {
		return nil, fmt.Errorf("list invoices by client: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

func (r *InvoiceRepo) scanOne(row pgx.Row) (*entity.Invoice, error) {
	inv, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return inv, nil
}

func (r *InvoiceRepo) scanAll(rows pgx.Rows) ([]*entity.Invoice, error) {
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var clientPhone, clientCompany, terms *string
	var milestones, payments, methods []byte
	err := row.Scan(
		&inv.ID, &inv.InvoiceNumber, &inv.BookingID,
		&inv.ClientName, &inv.ClientEmail, &clientPhone, &clientCompany,
		&inv.ServiceName, &inv.PackageName, &inv.PackagePrice,
		&inv.Currency, &inv.TotalAmount, &inv.PaymentType,
		&milestones, &payments,
		&inv.PaidAmount, &inv.RemainingAmount, &inv.Status,
		&inv.IssueDate, &inv.DueDate, &inv.PaidDate,
		&methods, &terms,
		&inv.Version, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan invoice: %w", err)
	}
	inv.ClientPhone = derefStr(clientPhone)
	inv.ClientCompany = derefStr(clientCompany)
	inv.TermsAndConditions = derefStr(terms)
	if inv.Milestones, err = unmarshalMilestones(milestones); err != nil {
		return nil, err
	}
	if inv.Payments, err = unmarshalPayments(payments); err != nil {
		return nil, err
	}
	if inv.PaymentMethods, err = unmarshalPaymentMethods(methods); err != nil {
		return nil, err
	}
	return &inv, nil
}

func marshalInvoiceDocs(invoice *entity.Invoice) (milestones, payments, methods []byte, err error) {
	if milestones, err = marshalMilestones(invoice.Milestones); err != nil {
		return nil, nil, nil, err
	}
	if payments, err = marshalPayments(invoice.Payments); err != nil {
		return nil, nil, nil, err
	}
	if methods, err = marshalPaymentMethods(invoice.PaymentMethods); err != nil {
		return nil, nil, nil, err
	}
	return milestones, payments, methods, nil
}
