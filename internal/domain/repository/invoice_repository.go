package repository

import "github.com/pqrix/pqrix-api/internal/domain/entity"

// InvoiceRepository define el puerto de persistencia para el agregado Invoice.
// La factura se guarda como documento completo (hitos y pagos incluidos):
// cada mutación es un findOne + replace.
type InvoiceRepository interface {
	Create(invoice *entity.Invoice) error
	// Update reemplaza el documento completo con control de concurrencia
	// optimista: si la versión en DB no coincide con invoice.Version retorna
	// domain.ErrConflict y no escribe nada. En éxito incrementa Version.
	Update(invoice *entity.Invoice) error
	GetByID(id string) (*entity.Invoice, error)
	GetByBookingID(bookingID string) (*entity.Invoice, error)
	GetByNumber(invoiceNumber string) (*entity.Invoice, error)
	// List filtra por estado ("" = todos), ordenado por fecha de emisión descendente.
	List(status string, limit, offset int) ([]*entity.Invoice, error)
	// ListByClientEmail facturas del portal de cliente (solo lectura).
	ListByClientEmail(email string) ([]*entity.Invoice, error)
}
