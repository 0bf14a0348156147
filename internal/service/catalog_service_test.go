package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deltahost/portal-service/internal/models"
	"github.com/deltahost/portal-service/internal/repository"
)

type fakePlanStore struct {
	plans map[string]*models.HostingPlan
}

func newFakePlanStore(plans ...*models.HostingPlan) *fakePlanStore {
	s := &fakePlanStore{plans: make(map[string]*models.HostingPlan)}
	for _, p := range plans {
		s.plans[p.ID] = p
	}
	return s
}

func (s *fakePlanStore) GetActiveByLocation(ctx context.Context, locationCode string) ([]*models.HostingPlan, error) {
	var out []*models.HostingPlan
	for _, p := range s.plans {
		if p.Active && p.LocationCode == locationCode {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *fakePlanStore) GetAll(ctx context.Context) ([]*models.HostingPlan, error) {
	var out []*models.HostingPlan
	for _, p := range s.plans {
		out = append(out, p)
	}
	return out, nil
}

func (s *fakePlanStore) GetByID(ctx context.Context, id string) (*models.HostingPlan, error) {
	p, ok := s.plans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func (s *fakePlanStore) Create(ctx context.Context, plan *models.HostingPlan) error {
	s.plans[plan.ID] = plan
	return nil
}

func (s *fakePlanStore) Update(ctx context.Context, plan *models.HostingPlan) error {
	if _, ok := s.plans[plan.ID]; !ok {
		return repository.ErrNotFound
	}
	s.plans[plan.ID] = plan
	return nil
}

func (s *fakePlanStore) Delete(ctx context.Context, id string) error {
	if _, ok := s.plans[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.plans, id)
	return nil
}

type fakeLocationStore struct {
	locations map[string]*models.Location
}

func newFakeLocationStore(locations ...*models.Location) *fakeLocationStore {
	s := &fakeLocationStore{locations: make(map[string]*models.Location)}
	for _, l := range locations {
		s.locations[l.ID] = l
	}
	return s
}

func (s *fakeLocationStore) GetActive(ctx context.Context) ([]*models.Location, error) {
	var out []*models.Location
	for _, l := range s.locations {
		if l.Active {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *fakeLocationStore) GetAll(ctx context.Context) ([]*models.Location, error) {
	var out []*models.Location
	for _, l := range s.locations {
		out = append(out, l)
	}
	return out, nil
}

func (s *fakeLocationStore) GetByCode(ctx context.Context, code string) (*models.Location, error) {
	for _, l := range s.locations {
		if l.Code == code {
			return l, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *fakeLocationStore) Create(ctx context.Context, loc *models.Location) error {
	s.locations[loc.ID] = loc
	return nil
}

func (s *fakeLocationStore) Update(ctx context.Context, loc *models.Location) error {
	if _, ok := s.locations[loc.ID]; !ok {
		return repository.ErrNotFound
	}
	s.locations[loc.ID] = loc
	return nil
}

func (s *fakeLocationStore) Delete(ctx context.Context, id string) error {
	if _, ok := s.locations[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.locations, id)
	return nil
}

type fakePaymentStore struct {
	methods map[string]*models.PaymentMethod
}

func newFakePaymentStore(methods ...*models.PaymentMethod) *fakePaymentStore {
	s := &fakePaymentStore{methods: make(map[string]*models.PaymentMethod)}
	for _, m := range methods {
		s.methods[m.ID] = m
	}
	return s
}

func (s *fakePaymentStore) GetAll(ctx context.Context) ([]*models.PaymentMethod, error) {
	var out []*models.PaymentMethod
	for _, m := range s.methods {
		out = append(out, m)
	}
	return out, nil
}

func (s *fakePaymentStore) GetByID(ctx context.Context, id string) (*models.PaymentMethod, error) {
	m, ok := s.methods[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return m, nil
}

func (s *fakePaymentStore) Create(ctx context.Context, pm *models.PaymentMethod) error {
	s.methods[pm.ID] = pm
	return nil
}

func (s *fakePaymentStore) Update(ctx context.Context, pm *models.PaymentMethod) error {
	if _, ok := s.methods[pm.ID]; !ok {
		return repository.ErrNotFound
	}
	s.methods[pm.ID] = pm
	return nil
}

func (s *fakePaymentStore) Delete(ctx context.Context, id string) error {
	if _, ok := s.methods[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.methods, id)
	return nil
}

func newTestCatalogService(standard, epyc *fakePlanStore) *CatalogService {
	locations := newFakeLocationStore(
		&models.Location{ID: "l1", Name: "India", Code: "india", Active: true},
		&models.Location{ID: "l2", Name: "UAE", Code: "uae", Active: true},
	)
	return NewCatalogService(locations, standard, epyc, newFakePaymentStore(), &fakeUploader{}, &fakeAudit{})
}

func testPlan(id, location string, pricePKR int64) *models.HostingPlan {
	return &models.HostingPlan{
		ID:           id,
		Name:         "Blaze",
		RAM:          "8GB",
		LocationCode: location,
		Price:        pricePKR,
		Currency:     "PKR",
		Active:       true,
	}
}

func TestGetCatalogDefaultsToUSD(t *testing.T) {
	standard := newFakePlanStore(testPlan("p1", "india", 2800))
	epyc := newFakePlanStore(testPlan("p2", "india", 5600))
	svc := newTestCatalogService(standard, epyc)

	catalog, err := svc.GetCatalog(context.Background(), "india", "")
	require.NoError(t, err)

	require.Len(t, catalog.Standard, 1)
	require.Len(t, catalog.Epyc, 1)

	// 2800 PKR at 280/USD
	assert.Equal(t, "$10.00", catalog.Standard[0].DisplayPrice)
	assert.Equal(t, models.ProcessorIntel, catalog.Standard[0].Processor)
	assert.Equal(t, "$20.00", catalog.Epyc[0].DisplayPrice)
	assert.Equal(t, models.ProcessorAMD, catalog.Epyc[0].Processor)
}

func TestGetCatalogINR(t *testing.T) {
	standard := newFakePlanStore(testPlan("p1", "india", 2800))
	svc := newTestCatalogService(standard, newFakePlanStore())

	catalog, err := svc.GetCatalog(context.Background(), "india", "INR")
	require.NoError(t, err)

	require.Len(t, catalog.Standard, 1)
	// 10 USD at 83 INR/USD, whole units
	assert.Equal(t, "₹830", catalog.Standard[0].DisplayPrice)
}

func TestGetCatalogUnsupportedCurrency(t *testing.T) {
	svc := newTestCatalogService(newFakePlanStore(), newFakePlanStore())

	_, err := svc.GetCatalog(context.Background(), "india", "EUR")

	assert.Error(t, err)
}

func TestGetCatalogNormalizesLegacyLocation(t *testing.T) {
	standard := newFakePlanStore(testPlan("p1", "uae", 2800))
	svc := newTestCatalogService(standard, newFakePlanStore())

	// Old clients still request the pre-rename code
	catalog, err := svc.GetCatalog(context.Background(), "dubai", "")
	require.NoError(t, err)

	assert.Equal(t, "uae", catalog.Location)
	require.Len(t, catalog.Standard, 1)
}

func TestGetCatalogAvailability(t *testing.T) {
	standard := newFakePlanStore(testPlan("p1", "uae", 2800))
	epyc := newFakePlanStore(testPlan("p2", "uae", 5600))
	svc := newTestCatalogService(standard, epyc)

	catalog, err := svc.GetCatalog(context.Background(), "uae", "")
	require.NoError(t, err)

	assert.Equal(t, models.AvailabilityInStock, catalog.Standard[0].Availability)
	assert.Equal(t, models.AvailabilityComingSoon, catalog.Epyc[0].Availability)
}

func TestPlanTierRouting(t *testing.T) {
	standard := newFakePlanStore()
	epyc := newFakePlanStore()
	svc := newTestCatalogService(standard, epyc)

	req := &models.PlanRequest{Name: "Blaze", RAM: "8GB", LocationCode: "india", Price: 2800, Active: true}

	_, err := svc.CreatePlan(context.Background(), TierEpyc, req)
	require.NoError(t, err)
	assert.Empty(t, standard.plans)
	assert.Len(t, epyc.plans, 1)

	_, err = svc.CreatePlan(context.Background(), "premium", req)
	assert.ErrorIs(t, err, ErrUnknownPlanTier)
}

func TestCreatePlanDefaultsCurrencyToPKR(t *testing.T) {
	standard := newFakePlanStore()
	svc := newTestCatalogService(standard, newFakePlanStore())

	_, err := svc.CreatePlan(context.Background(), TierStandard, &models.PlanRequest{
		Name: "Blaze", RAM: "8GB", LocationCode: "india", Price: 2800, Active: true,
	})
	require.NoError(t, err)

	for _, p := range standard.plans {
		assert.Equal(t, "PKR", p.Currency)
	}
}
