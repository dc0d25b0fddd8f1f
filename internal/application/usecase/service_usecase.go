package usecase

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

// ServiceUseCase administra el catálogo público de servicios y paquetes.
type ServiceUseCase struct {
	serviceRepo     repository.ServiceRepository
	defaultCurrency string
}

// NewServiceUseCase construye el caso de uso.
func NewServiceUseCase(serviceRepo repository.ServiceRepository, defaultCurrency string) *ServiceUseCase {
	return &ServiceUseCase{serviceRepo: serviceRepo, defaultCurrency: defaultCurrency}
}

// Create da de alta un servicio con sus paquetes.
func (uc *ServiceUseCase) Create(ctx context.Context, in dto.CreateServiceRequest) (*dto.ServiceResponse, error) {
	pkgs, err := uc.buildPackages(in.Packages)
	if err != nil {
		return nil, err
	}
	if in.Title == "" {
		return nil, fmt.Errorf("%w: title es obligatorio", domain.ErrInvalidInput)
	}

	now := time.Now()
	svc := &entity.Service{
		ID:          uuid.New().String(),
		Title:       in.Title,
		Description: in.Description,
		Packages:    pkgs,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.serviceRepo.Create(svc); err != nil {
		return nil, err
	}
	return toServiceResponse(svc), nil
}

// Update reemplaza título, descripción y paquetes del servicio. Los paquetes
// se reconstruyen: las ofertas nuevas reciben ID nuevo, pero los bookings y
// facturas ya emitidos conservan su snapshot y no se ven afectados.
func (uc *ServiceUseCase) Update(ctx context.Context, id string, in dto.CreateServiceRequest) (*dto.ServiceResponse, error) {
	pkgs, err := uc.buildPackages(in.Packages)
	if err != nil {
		return nil, err
	}
	if in.Title == "" {
		return nil, fmt.Errorf("%w: title es obligatorio", domain.ErrInvalidInput)
	}

	svc, err := uc.load(id)
	if err != nil {
		return nil, err
	}
	svc.Title = in.Title
	svc.Description = in.Description
	svc.Packages = pkgs
	svc.UpdatedAt = time.Now()
	if err := uc.serviceRepo.Update(svc); err != nil {
		return nil, err
	}
	return toServiceResponse(svc), nil
}

// Delete retira un servicio del catálogo.
func (uc *ServiceUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.load(id); err != nil {
		return err
	}
	return uc.serviceRepo.Delete(id)
}

// Get obtiene un servicio por ID.
func (uc *ServiceUseCase) Get(ctx context.Context, id string) (*dto.ServiceResponse, error) {
	svc, err := uc.load(id)
	if err != nil {
		return nil, err
	}
	return toServiceResponse(svc), nil
}

// List lista el catálogo paginado.
func (uc *ServiceUseCase) List(ctx context.Context, limit, offset int) ([]*dto.ServiceResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.serviceRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ServiceResponse, 0, len(list))
	for _, svc := range list {
		out = append(out, toServiceResponse(svc))
	}
	return out, nil
}

func (uc *ServiceUseCase) buildPackages(in []dto.ServicePackageRequest) ([]entity.ServicePackage, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("%w: el servicio necesita al menos un paquete", domain.ErrInvalidInput)
	}
	pkgs := make([]entity.ServicePackage, 0, len(in))
	for i, p := range in {
		if p.Name == "" {
			return nil, fmt.Errorf("%w: el paquete %d no tiene nombre", domain.ErrInvalidInput, i+1)
		}
		if !p.Price.IsPositive() {
			return nil, fmt.Errorf("%w: el precio del paquete %q debe ser positivo", domain.ErrInvalidInput, p.Name)
		}
		currency := p.Currency
		if currency == "" {
			currency = uc.defaultCurrency
		}
		pkgs = append(pkgs, entity.ServicePackage{
			ID:           uuid.New().String(),
			Name:         p.Name,
			Price:        p.Price,
			Currency:     currency,
			DeliveryDays: p.DeliveryDays,
			Features:     p.Features,
		})
	}
	return pkgs, nil
}

func (uc *ServiceUseCase) load(id string) (*entity.Service, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: id requerido", domain.ErrInvalidInput)
	}
	svc, err := uc.serviceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, fmt.Errorf("%w: servicio %s", domain.ErrNotFound, id)
	}
	return svc, nil
}

func toServiceResponse(svc *entity.Service) *dto.ServiceResponse {
	resp := &dto.ServiceResponse{
		ID:          svc.ID,
		Title:       svc.Title,
		Description: svc.Description,
		Packages:    make([]dto.ServicePackageResponse, 0, len(svc.Packages)),
	}
	for _, p := range svc.Packages {
		resp.Packages = append(resp.Packages, dto.ServicePackageResponse{
			ID:           p.ID,
			Name:         p.Name,
			Price:        p.Price,
			Currency:     p.Currency,
			DeliveryDays: p.DeliveryDays,
			Features:     p.Features,
		})
	}
	return resp
}
