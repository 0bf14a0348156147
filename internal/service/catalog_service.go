package service

import (
	"context"
	"fmt"

	"github.com/deltahost/portal-service/internal/currency"
	"github.com/deltahost/portal-service/internal/models"
	"github.com/deltahost/portal-service/internal/repository"
)

// PlanStore is the slice of the plan repository the catalog needs
type PlanStore interface {
	GetActiveByLocation(ctx context.Context, locationCode string) ([]*models.HostingPlan, error)
	GetAll(ctx context.Context) ([]*models.HostingPlan, error)
	GetByID(ctx context.Context, id string) (*models.HostingPlan, error)
	Create(ctx context.Context, plan *models.HostingPlan) error
	Update(ctx context.Context, plan *models.HostingPlan) error
	Delete(ctx context.Context, id string) error
}

// LocationStore is the slice of the location repository the catalog needs
type LocationStore interface {
	GetActive(ctx context.Context) ([]*models.Location, error)
	GetAll(ctx context.Context) ([]*models.Location, error)
	GetByCode(ctx context.Context, code string) (*models.Location, error)
	Create(ctx context.Context, loc *models.Location) error
	Update(ctx context.Context, loc *models.Location) error
	Delete(ctx context.Context, id string) error
}

// PaymentMethodStore is the slice of the payment method repository exposed to
// the catalog and checkout flow
type PaymentMethodStore interface {
	GetAll(ctx context.Context) ([]*models.PaymentMethod, error)
	GetByID(ctx context.Context, id string) (*models.PaymentMethod, error)
	Create(ctx context.Context, pm *models.PaymentMethod) error
	Update(ctx context.Context, pm *models.PaymentMethod) error
	Delete(ctx context.Context, id string) error
}

// CatalogService serves the public plan/location catalog and the admin CRUD
// behind it
type CatalogService struct {
	locationRepo  LocationStore
	standardPlans PlanStore
	epycPlans     PlanStore
	paymentRepo   PaymentMethodStore
	uploader      ImageUploader
	auditRepo     AuditLogger
}

func NewCatalogService(locationRepo LocationStore, standardPlans, epycPlans PlanStore, paymentRepo PaymentMethodStore, uploader ImageUploader, auditRepo AuditLogger) *CatalogService {
	return &CatalogService{
		locationRepo:  locationRepo,
		standardPlans: standardPlans,
		epycPlans:     epycPlans,
		paymentRepo:   paymentRepo,
		uploader:      uploader,
		auditRepo:     auditRepo,
	}
}

// ListLocations returns active locations in carousel order
func (s *CatalogService) ListLocations(ctx context.Context) ([]models.LocationInfo, error) {
	locations, err := s.locationRepo.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}

	infos := make([]models.LocationInfo, 0, len(locations))
	for _, loc := range locations {
		infos = append(infos, models.LocationInfo{
			ID:        loc.ID,
			Name:      loc.Name,
			Code:      loc.Code,
			Flag:      loc.Flag,
			SortOrder: loc.SortOrder,
		})
	}
	return infos, nil
}

// GetCatalog returns both plan tiers for a location with display prices in
// the requested currency (defaults to USD)
func (s *CatalogService) GetCatalog(ctx context.Context, locationCode, displayCurrency string) (*models.CatalogResponse, error) {
	if displayCurrency == "" {
		displayCurrency = currency.USD
	}
	if !currency.Supported(displayCurrency) {
		return nil, fmt.Errorf("unsupported currency %q", displayCurrency)
	}

	locationCode = repository.NormalizeLocationCode(locationCode)

	standard, err := s.standardPlans.GetActiveByLocation(ctx, locationCode)
	if err != nil {
		return nil, fmt.Errorf("standard plans: %w", err)
	}
	epyc, err := s.epycPlans.GetActiveByLocation(ctx, locationCode)
	if err != nil {
		return nil, fmt.Errorf("epyc plans: %w", err)
	}

	resp := &models.CatalogResponse{
		Location: locationCode,
		Standard: make([]models.PlanInfo, 0, len(standard)),
		Epyc:     make([]models.PlanInfo, 0, len(epyc)),
	}

	for _, plan := range standard {
		resp.Standard = append(resp.Standard, buildPlanInfo(plan, models.ProcessorIntel, displayCurrency))
	}
	for _, plan := range epyc {
		resp.Epyc = append(resp.Epyc, buildPlanInfo(plan, models.ProcessorAMD, displayCurrency))
	}

	return resp, nil
}

// ListPaymentMethods returns checkout payment destinations
func (s *CatalogService) ListPaymentMethods(ctx context.Context) ([]models.PaymentMethodInfo, error) {
	methods, err := s.paymentRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list payment methods: %w", err)
	}

	infos := make([]models.PaymentMethodInfo, 0, len(methods))
	for _, pm := range methods {
		infos = append(infos, models.PaymentMethodInfo{
			ID:            pm.ID,
			Name:          pm.Name,
			Icon:          pm.Icon,
			AccountNumber: pm.AccountNumber,
			AccountTitle:  pm.AccountTitle,
			QRCodeURL:     pm.QRCodeURL,
		})
	}
	return infos, nil
}

func buildPlanInfo(plan *models.HostingPlan, processor, displayCurrency string) models.PlanInfo {
	display, err := currency.Display(plan.Price, displayCurrency)
	if err != nil {
		// Supported() is checked upstream; keep the raw price if it slips through
		display = fmt.Sprintf("%d %s", plan.Price, plan.Currency)
	}

	return models.PlanInfo{
		ID:           plan.ID,
		Name:         plan.Name,
		Icon:         plan.Icon,
		RAM:          plan.RAM,
		Performance:  plan.Performance,
		LocationCode: plan.LocationCode,
		Processor:    processor,
		Price:        plan.Price,
		Currency:     plan.Currency,
		DisplayPrice: display,
		ColorFrom:    plan.ColorFrom,
		ColorTo:      plan.ColorTo,
		Features:     plan.Features,
		Popular:      plan.Popular,
		Availability: models.PlanAvailability(plan.LocationCode, processor),
	}
}
