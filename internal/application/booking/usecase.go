package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pqrix/pqrix-api/internal/application/dto"
	"github.com/pqrix/pqrix-api/internal/domain"
	"github.com/pqrix/pqrix-api/internal/domain/entity"
	"github.com/pqrix/pqrix-api/internal/domain/repository"
)

// validStatuses estados permitidos de una contratación.
var validStatuses = map[string]bool{
	entity.BookingStatusInquired:   true,
	entity.BookingStatusPending:    true,
	entity.BookingStatusPaid:       true,
	entity.BookingStatusStarted:    true,
	entity.BookingStatusInProgress: true,
	entity.BookingStatusCompleted:  true,
	entity.BookingStatusCancelled:  true,
}

var validPhaseStatuses = map[string]bool{
	entity.PhasePending:    true,
	entity.PhaseInProgress: true,
	entity.PhaseCompleted:  true,
}

// UseCase casos de uso de contrataciones. El estado/progreso/timeline del
// booking lo edita el admin de forma independiente a la factura: marcar la
// factura como Paid NO cambia el booking (sin auto-sync, a propósito).
type UseCase struct {
	bookingRepo repository.BookingRepository
	serviceRepo repository.ServiceRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(bookingRepo repository.BookingRepository, serviceRepo repository.ServiceRepository) *UseCase {
	return &UseCase{bookingRepo: bookingRepo, serviceRepo: serviceRepo}
}

// Create registra la consulta de un cliente por un paquete del catálogo.
// El nombre y precio del paquete se copian como snapshot.
func (uc *UseCase) Create(ctx context.Context, in dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	if in.ClientName == "" || in.ClientEmail == "" || in.ServiceID == "" || in.PackageID == "" {
		return nil, fmt.Errorf("%w: client_name, client_email, service_id y package_id son obligatorios", domain.ErrInvalidInput)
	}

	svc, err := uc.serviceRepo.GetByID(in.ServiceID)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, fmt.Errorf("%w: servicio %s", domain.ErrNotFound, in.ServiceID)
	}
	var pkg *entity.ServicePackage
	for i := range svc.Packages {
		if svc.Packages[i].ID == in.PackageID {
			pkg = &svc.Packages[i]
			break
		}
	}
	if pkg == nil {
		return nil, fmt.Errorf("%w: paquete %s", domain.ErrNotFound, in.PackageID)
	}

	now := time.Now()
	b := &entity.ServiceBooking{
		ID:           uuid.New().String(),
		ClientName:   in.ClientName,
		ClientEmail:  in.ClientEmail,
		ClientPhone:  in.ClientPhone,
		ServiceID:    svc.ID,
		ServiceName:  svc.Title,
		PackageName:  pkg.Name,
		PackagePrice: pkg.Price,
		Currency:     pkg.Currency,
		Status:       entity.BookingStatusInquired,
		Progress:     0,
		Notes:        in.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.bookingRepo.Create(b); err != nil {
		return nil, err
	}
	return toBookingResponse(b), nil
}

// UpdateStatus cambia estado y (opcionalmente) progreso de la contratación.
func (uc *UseCase) UpdateStatus(ctx context.Context, id string, in dto.UpdateBookingStatusRequest) (*dto.BookingResponse, error) {
	if !validStatuses[in.Status] {
		return nil, fmt.Errorf("%w: estado de contratación desconocido %q", domain.ErrInvalidInput, in.Status)
	}
	if in.Progress != nil && (*in.Progress < 0 || *in.Progress > 100) {
		return nil, fmt.Errorf("%w: progress debe estar entre 0 y 100", domain.ErrInvalidInput)
	}

	b, err := uc.load(id)
	if err != nil {
		return nil, err
	}
	b.Status = in.Status
	if in.Progress != nil {
		b.Progress = *in.Progress
	}
	b.UpdatedAt = time.Now()
	if err := uc.bookingRepo.Update(b); err != nil {
		return nil, err
	}
	return toBookingResponse(b), nil
}

// ReplaceTimeline reemplaza el plan de fases completo de la contratación.
func (uc *UseCase) ReplaceTimeline(ctx context.Context, id string, in dto.ReplaceTimelineRequest) (*dto.BookingResponse, error) {
	phases, err := ParseTimeline(in.Timeline)
	if err != nil {
		return nil, err
	}
	b, err := uc.load(id)
	if err != nil {
		return nil, err
	}
	b.Timeline = phases
	b.UpdatedAt = time.Now()
	if err := uc.bookingRepo.Update(b); err != nil {
		return nil, err
	}
	return toBookingResponse(b), nil
}

// Get obtiene una contratación por ID.
func (uc *UseCase) Get(ctx context.Context, id string) (*dto.BookingResponse, error) {
	b, err := uc.load(id)
	if err != nil {
		return nil, err
	}
	return toBookingResponse(b), nil
}

// List lista contrataciones filtrando por estado ("" = todas).
func (uc *UseCase) List(ctx context.Context, status string, limit, offset int) ([]*dto.BookingResponse, error) {
	if status != "" && !validStatuses[status] {
		return nil, fmt.Errorf("%w: estado de contratación desconocido %q", domain.ErrInvalidInput, status)
	}
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.bookingRepo.List(status, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.BookingResponse, 0, len(list))
	for _, b := range list {
		out = append(out, toBookingResponse(b))
	}
	return out, nil
}

// ListByClientEmail contrataciones del portal de cliente (solo lectura).
func (uc *UseCase) ListByClientEmail(ctx context.Context, email string) ([]*dto.BookingResponse, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: email requerido", domain.ErrInvalidInput)
	}
	list, err := uc.bookingRepo.ListByClientEmail(email)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.BookingResponse, 0, len(list))
	for _, b := range list {
		out = append(out, toBookingResponse(b))
	}
	return out, nil
}

func (uc *UseCase) load(id string) (*entity.ServiceBooking, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: id requerido", domain.ErrInvalidInput)
	}
	b, err := uc.bookingRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fmt.Errorf("%w: contratación %s", domain.ErrNotFound, id)
	}
	return b, nil
}

// ParseTimeline valida y convierte fases del request. Compartido con los
// proyectos de cliente (misma estructura de timeline).
func ParseTimeline(in []dto.TimelinePhaseRequest) ([]entity.TimelinePhase, error) {
	phases := make([]entity.TimelinePhase, 0, len(in))
	for i, p := range in {
		if p.Name == "" {
			return nil, fmt.Errorf("%w: la fase %d no tiene nombre", domain.ErrInvalidInput, i+1)
		}
		if !validPhaseStatuses[p.Status] {
			return nil, fmt.Errorf("%w: estado de fase desconocido %q", domain.ErrInvalidInput, p.Status)
		}
		phase := entity.TimelinePhase{
			Name:        p.Name,
			Status:      p.Status,
			Description: p.Description,
		}
		if p.Date != "" {
			d, err := time.Parse("2006-01-02", p.Date)
			if err != nil {
				return nil, fmt.Errorf("%w: la fecha de la fase %q debe ser YYYY-MM-DD", domain.ErrInvalidInput, p.Name)
			}
			phase.Date = &d
		}
		phases = append(phases, phase)
	}
	return phases, nil
}

func toBookingResponse(b *entity.ServiceBooking) *dto.BookingResponse {
	resp := &dto.BookingResponse{
		ID:           b.ID,
		ClientName:   b.ClientName,
		ClientEmail:  b.ClientEmail,
		ClientPhone:  b.ClientPhone,
		ServiceID:    b.ServiceID,
		ServiceName:  b.ServiceName,
		PackageName:  b.PackageName,
		PackagePrice: b.PackagePrice,
		Currency:     b.Currency,
		InvoiceID:    b.InvoiceID,
		Status:       b.Status,
		Progress:     b.Progress,
		Timeline:     make([]dto.TimelinePhaseResponse, 0, len(b.Timeline)),
		Notes:        b.Notes,
		CreatedAt:    b.CreatedAt.Format("2006-01-02"),
	}
	for _, p := range b.Timeline {
		phase := dto.TimelinePhaseResponse{
			Name:        p.Name,
			Status:      p.Status,
			Description: p.Description,
		}
		if p.Date != nil {
			phase.Date = p.Date.Format("2006-01-02")
		}
		resp.Timeline = append(resp.Timeline, phase)
	}
	return resp
}
