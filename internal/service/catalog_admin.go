package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/deltahost/portal-service/internal/currency"
	"github.com/deltahost/portal-service/internal/models"
	"github.com/deltahost/portal-service/internal/storage"
)

// Plan tier path segments used by the admin CRUD routes
const (
	TierStandard = "standard"
	TierEpyc     = "epyc"
)

var ErrUnknownPlanTier = errors.New("unknown plan tier")

func (s *CatalogService) planStore(tier string) (PlanStore, string, error) {
	switch tier {
	case TierStandard:
		return s.standardPlans, models.ProcessorIntel, nil
	case TierEpyc:
		return s.epycPlans, models.ProcessorAMD, nil
	default:
		return nil, "", fmt.Errorf("%w: %q", ErrUnknownPlanTier, tier)
	}
}

// ListPlans returns every plan in a tier including inactive ones (admin view)
func (s *CatalogService) ListPlans(ctx context.Context, tier string) ([]models.PlanInfo, error) {
	store, processor, err := s.planStore(tier)
	if err != nil {
		return nil, err
	}

	plans, err := store.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}

	infos := make([]models.PlanInfo, 0, len(plans))
	for _, plan := range plans {
		infos = append(infos, buildPlanInfo(plan, processor, currency.USD))
	}
	return infos, nil
}

// CreatePlan adds a plan to a tier
func (s *CatalogService) CreatePlan(ctx context.Context, tier string, req *models.PlanRequest) (*models.PlanInfo, error) {
	store, processor, err := s.planStore(tier)
	if err != nil {
		return nil, err
	}

	plan := planFromRequest(req)
	plan.ID = uuid.New().String()

	if err := store.Create(ctx, plan); err != nil {
		return nil, fmt.Errorf("create plan: %w", err)
	}

	_ = s.auditRepo.LogAction(ctx, "plan", plan.ID, "create", "ok", plan.Name)
	log.Printf("[Catalog] Created %s plan %s (%s)", tier, plan.Name, plan.ID)

	info := buildPlanInfo(plan, processor, currency.USD)
	return &info, nil
}

// UpdatePlan replaces a plan's fields
func (s *CatalogService) UpdatePlan(ctx context.Context, tier, id string, req *models.PlanRequest) (*models.PlanInfo, error) {
	store, processor, err := s.planStore(tier)
	if err != nil {
		return nil, err
	}

	plan := planFromRequest(req)
	plan.ID = id

	if err := store.Update(ctx, plan); err != nil {
		return nil, err
	}

	_ = s.auditRepo.LogAction(ctx, "plan", id, "update", "ok", plan.Name)

	info := buildPlanInfo(plan, processor, currency.USD)
	return &info, nil
}

// DeletePlan removes a plan from a tier
func (s *CatalogService) DeletePlan(ctx context.Context, tier, id string) error {
	store, _, err := s.planStore(tier)
	if err != nil {
		return err
	}

	if err := store.Delete(ctx, id); err != nil {
		return err
	}

	_ = s.auditRepo.LogAction(ctx, "plan", id, "delete", "ok", "")
	return nil
}

// ListAllLocations returns every location including inactive ones (admin view)
func (s *CatalogService) ListAllLocations(ctx context.Context) ([]models.LocationInfo, error) {
	locations, err := s.locationRepo.GetAll(ctx)
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

// CreateLocation adds a catalog location
func (s *CatalogService) CreateLocation(ctx context.Context, req *models.LocationRequest) (*models.LocationInfo, error) {
	loc := &models.Location{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Code:      req.Code,
		Flag:      req.Flag,
		Active:    req.Active,
		SortOrder: req.SortOrder,
	}

	if err := s.locationRepo.Create(ctx, loc); err != nil {
		return nil, fmt.Errorf("create location: %w", err)
	}

	_ = s.auditRepo.LogAction(ctx, "location", loc.ID, "create", "ok", loc.Code)
	log.Printf("[Catalog] Created location %s (%s)", loc.Code, loc.ID)

	return &models.LocationInfo{ID: loc.ID, Name: loc.Name, Code: loc.Code, Flag: loc.Flag, SortOrder: loc.SortOrder}, nil
}

// UpdateLocation replaces a location's fields
func (s *CatalogService) UpdateLocation(ctx context.Context, id string, req *models.LocationRequest) error {
	loc := &models.Location{
		ID:        id,
		Name:      req.Name,
		Code:      req.Code,
		Flag:      req.Flag,
		Active:    req.Active,
		SortOrder: req.SortOrder,
	}

	if err := s.locationRepo.Update(ctx, loc); err != nil {
		return err
	}

	_ = s.auditRepo.LogAction(ctx, "location", id, "update", "ok", loc.Code)
	return nil
}

// DeleteLocation removes a location. Plans pointing at it simply stop
// matching any active location.
func (s *CatalogService) DeleteLocation(ctx context.Context, id string) error {
	if err := s.locationRepo.Delete(ctx, id); err != nil {
		return err
	}

	_ = s.auditRepo.LogAction(ctx, "location", id, "delete", "ok", "")
	return nil
}

// CreatePaymentMethod adds a payment destination with an optional QR image
func (s *CatalogService) CreatePaymentMethod(ctx context.Context, req *models.PaymentMethodRequest, qrImage []byte, contentType string) (*models.PaymentMethodInfo, error) {
	pm := &models.PaymentMethod{
		ID:            uuid.New().String(),
		Name:          req.Name,
		Icon:          req.Icon,
		AccountNumber: req.AccountNumber,
		AccountTitle:  req.AccountTitle,
		SortOrder:     req.SortOrder,
	}

	if len(qrImage) > 0 {
		qrURL, err := s.uploader.Upload(ctx, storage.FolderQRCodes, qrImage, contentType)
		if err != nil {
			return nil, fmt.Errorf("upload qr code: %w", err)
		}
		pm.QRCodeURL = &qrURL
	}

	if err := s.paymentRepo.Create(ctx, pm); err != nil {
		return nil, fmt.Errorf("create payment method: %w", err)
	}

	_ = s.auditRepo.LogAction(ctx, "payment_method", pm.ID, "create", "ok", pm.Name)
	log.Printf("[Catalog] Created payment method %s (%s)", pm.Name, pm.ID)

	return buildPaymentMethodInfo(pm), nil
}

// UpdatePaymentMethod replaces a payment method's fields. A new QR image
// replaces the stored URL; no image keeps the existing one.
func (s *CatalogService) UpdatePaymentMethod(ctx context.Context, id string, req *models.PaymentMethodRequest, qrImage []byte, contentType string) (*models.PaymentMethodInfo, error) {
	existing, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	pm := &models.PaymentMethod{
		ID:            id,
		Name:          req.Name,
		Icon:          req.Icon,
		AccountNumber: req.AccountNumber,
		AccountTitle:  req.AccountTitle,
		SortOrder:     req.SortOrder,
		QRCodeURL:     existing.QRCodeURL,
	}

	if len(qrImage) > 0 {
		qrURL, err := s.uploader.Upload(ctx, storage.FolderQRCodes, qrImage, contentType)
		if err != nil {
			return nil, fmt.Errorf("upload qr code: %w", err)
		}
		pm.QRCodeURL = &qrURL
	}

	if err := s.paymentRepo.Update(ctx, pm); err != nil {
		return nil, err
	}

	_ = s.auditRepo.LogAction(ctx, "payment_method", id, "update", "ok", pm.Name)
	return buildPaymentMethodInfo(pm), nil
}

// DeletePaymentMethod removes a payment destination
func (s *CatalogService) DeletePaymentMethod(ctx context.Context, id string) error {
	if err := s.paymentRepo.Delete(ctx, id); err != nil {
		return err
	}

	_ = s.auditRepo.LogAction(ctx, "payment_method", id, "delete", "ok", "")
	return nil
}

func planFromRequest(req *models.PlanRequest) *models.HostingPlan {
	curr := req.Currency
	if curr == "" {
		curr = currency.PKR
	}

	return &models.HostingPlan{
		Name:         req.Name,
		Icon:         req.Icon,
		RAM:          req.RAM,
		Performance:  req.Performance,
		LocationCode: req.LocationCode,
		Price:        req.Price,
		Currency:     curr,
		ColorFrom:    req.ColorFrom,
		ColorTo:      req.ColorTo,
		Features:     req.Features,
		Popular:      req.Popular,
		SortOrder:    req.SortOrder,
		Active:       req.Active,
	}
}

func buildPaymentMethodInfo(pm *models.PaymentMethod) *models.PaymentMethodInfo {
	return &models.PaymentMethodInfo{
		ID:            pm.ID,
		Name:          pm.Name,
		Icon:          pm.Icon,
		AccountNumber: pm.AccountNumber,
		AccountTitle:  pm.AccountTitle,
		QRCodeURL:     pm.QRCodeURL,
	}
}
