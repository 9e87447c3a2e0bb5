package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/vtorprice/exchange-api/internal/core/domain"
	"github.com/vtorprice/exchange-api/internal/core/ports"
)

// ApplicationService owns single-application CRUD driven by forms. Bulk
// card submissions go through CompanyRecyclablesService instead.
type ApplicationService struct {
	companies ports.CompanyRepository
	apps      ports.ApplicationRepository
	materials ports.RecyclablesRepository
	bus       *Bus
	diff      *Diff
	log       zerolog.Logger
}

func NewApplicationService(companies ports.CompanyRepository, apps ports.ApplicationRepository, materials ports.RecyclablesRepository, bus *Bus, diff *Diff, log zerolog.Logger) *ApplicationService {
	return &ApplicationService{
		companies: companies,
		apps:      apps,
		materials: materials,
		bus:       bus,
		diff:      diff,
		log:       log,
	}
}

func (s *ApplicationService) Get(ctx context.Context, id int64) (domain.RecyclablesApplication, error) {
	return s.apps.Get(ctx, id)
}

func (s *ApplicationService) List(ctx context.Context, filter domain.ApplicationFilter) ([]domain.RecyclablesApplication, error) {
	return s.apps.List(ctx, filter)
}

// Create publishes a single application submitted through a form. The
// initial status follows the company's verification tier.
func (s *ApplicationService) Create(ctx context.Context, actor domain.Actor, app domain.RecyclablesApplication) (domain.RecyclablesApplication, error) {
	company, err := s.companies.Get(ctx, app.CompanyID)
	if err != nil {
		return domain.RecyclablesApplication{}, err
	}
	if !actor.CanAccessCompany(company) {
		return domain.RecyclablesApplication{}, fmt.Errorf("company %d: %w", app.CompanyID, domain.ErrPermissionDenied)
	}

	if app.Status == 0 {
		app.Status = domain.ApplicationOnReview
		if company.Trusted() {
			app.Status = domain.ApplicationPublished
		}
	}

	created, err := s.apps.CreateBatch(ctx, []domain.RecyclablesApplication{app})
	if err != nil {
		return domain.RecyclablesApplication{}, err
	}
	out := created[0]

	material, err := s.materials.Get(ctx, out.RecyclablesID)
	if err != nil {
		return domain.RecyclablesApplication{}, err
	}

	if out.Urgency == domain.UrgencySupplyContract {
		s.bus.Publish(ctx, SupplyContractCreated{
			Application: out,
			Material:    material,
			CompanyName: company.Name,
			Actor:       actor,
			Origin:      domain.OriginForm,
		})
	} else {
		s.bus.Publish(ctx, ShipmentContractCreated{
			Application: out,
			Material:    material,
			CompanyName: company.Name,
			Actor:       actor,
		})
	}

	return out, nil
}

// Update applies the patch. The change record is computed against the
// stored state before fields are overwritten.
func (s *ApplicationService) Update(ctx context.Context, actor domain.Actor, id int64, patch domain.ApplicationPatch) (domain.RecyclablesApplication, error) {
	app, err := s.apps.Get(ctx, id)
	if err != nil {
		return domain.RecyclablesApplication{}, err
	}
	company, err := s.companies.Get(ctx, app.CompanyID)
	if err != nil {
		return domain.RecyclablesApplication{}, err
	}
	if !actor.CanAccessCompany(company) {
		return domain.RecyclablesApplication{}, fmt.Errorf("application %d: %w", id, domain.ErrPermissionDenied)
	}

	changes := s.diff.ApplicationChanges(app, patch)
	applyApplicationPatch(&app, patch)

	if err := s.apps.Update(ctx, app); err != nil {
		return domain.RecyclablesApplication{}, err
	}

	if app.Urgency == domain.UrgencySupplyContract {
		s.bus.Publish(ctx, SupplyContractUpdated{
			Application: app,
			CompanyName: company.Name,
			Actor:       actor,
			Origin:      domain.OriginForm,
			Changes:     changes,
		})
	} else {
		s.bus.Publish(ctx, ShipmentContractUpdated{
			Application: app,
			CompanyName: company.Name,
			Actor:       actor,
			Changes:     changes,
		})
	}

	return app, nil
}

// Delete soft-deletes the application. The record stays for history; the
// deleted event tells the audit trail who removed it.
func (s *ApplicationService) Delete(ctx context.Context, actor domain.Actor, id int64) error {
	app, err := s.apps.Get(ctx, id)
	if err != nil {
		return err
	}
	company, err := s.companies.Get(ctx, app.CompanyID)
	if err != nil {
		return err
	}
	if !actor.CanAccessCompany(company) {
		return fmt.Errorf("application %d: %w", id, domain.ErrPermissionDenied)
	}

	app.IsDeleted = true
	app.Status = domain.ApplicationClosed
	if err := s.apps.Update(ctx, app); err != nil {
		return err
	}

	if app.Urgency == domain.UrgencySupplyContract {
		s.bus.Publish(ctx, SupplyContractDeleted{Application: app, Actor: actor})
	} else {
		s.bus.Publish(ctx, ShipmentContractDeleted{Application: app, Actor: actor})
	}
	return nil
}

// CategoryStats aggregates supply contracts for one material category: the
// two most recent purchase prices plus buy and sell volume totals in
// tonnes. ListSupply returns rows newest first.
func (s *ApplicationService) CategoryStats(ctx context.Context, categoryID int64) (domain.CategoryStats, error) {
	stats := domain.CategoryStats{CategoryID: categoryID}

	buys, err := s.apps.ListSupply(ctx, categoryID, domain.DealTypeBuy)
	if err != nil {
		return domain.CategoryStats{}, err
	}
	if len(buys) > 0 {
		stats.LastPrice = buys[0].Price
	}
	if len(buys) > 1 {
		stats.PreLastPrice = buys[1].Price
	}
	for _, app := range buys {
		v := float64(app.Volume) / 1000
		stats.PurchaseVolumes = append(stats.PurchaseVolumes, v)
		stats.PurchaseVolume += v
	}

	sells, err := s.apps.ListSupply(ctx, categoryID, domain.DealTypeSell)
	if err != nil {
		return domain.CategoryStats{}, err
	}
	for _, app := range sells {
		v := float64(app.Volume) / 1000
		stats.SalesVolumes = append(stats.SalesVolumes, v)
		stats.SalesVolume += v
	}

	return stats, nil
}

func applyApplicationPatch(a *domain.RecyclablesApplication, p domain.ApplicationPatch) {
	if p.IsDeleted != nil {
		if v, err := domain.ParseFlag(*p.IsDeleted); err == nil {
			a.IsDeleted = v
		}
	}
	if p.Address != nil {
		a.Address = *p.Address
	}
	if p.Latitude != nil {
		a.Latitude = *p.Latitude
	}
	if p.Longitude != nil {
		a.Longitude = *p.Longitude
	}
	if p.WithVAT != nil {
		if v, err := domain.ParseFlag(*p.WithVAT); err == nil {
			a.WithVAT = v
		}
	}
	if p.DealType != nil {
		a.DealType = domain.DealType(*p.DealType)
	}
	if p.Volume != nil {
		a.Volume = *p.Volume
	}
	if p.Price != nil {
		a.Price = *p.Price
	}
	if p.CityID != nil {
		a.CityID = *p.CityID
	}
	if p.CompanyID != nil {
		a.CompanyID = *p.CompanyID
	}
	if p.RecyclablesID != nil {
		a.RecyclablesID = *p.RecyclablesID
	}
	if p.Status != nil {
		a.Status = domain.ApplicationStatus(*p.Status)
	}
	if p.FullWeight != nil {
		a.FullWeight = *p.FullWeight
	}
}
