package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/vtorprice/exchange-api/internal/core/domain"
	"github.com/vtorprice/exchange-api/internal/core/ports"
)

// CompanyRecyclablesService reconciles bulk company-recyclables submissions
// with the company's standing supply-contract applications: existing open
// applications are updated in place, the rest are created in one batch, and
// every change leaves a price mark and an audit event behind.
type CompanyRecyclablesService struct {
	companies ports.CompanyRepository
	apps      ports.ApplicationRepository
	materials ports.RecyclablesRepository
	profile   ports.CompanyRecyclablesRepository
	prices    ports.PriceMarkRepository
	bus       *Bus
	diff      *Diff
	log       zerolog.Logger
}

func NewCompanyRecyclablesService(
	companies ports.CompanyRepository,
	apps ports.ApplicationRepository,
	materials ports.RecyclablesRepository,
	profile ports.CompanyRecyclablesRepository,
	prices ports.PriceMarkRepository,
	bus *Bus,
	diff *Diff,
	log zerolog.Logger,
) *CompanyRecyclablesService {
	return &CompanyRecyclablesService{
		companies: companies,
		apps:      apps,
		materials: materials,
		profile:   profile,
		prices:    prices,
		bus:       bus,
		diff:      diff,
		log:       log,
	}
}

type resolvedIntent struct {
	item domain.RecyclablesIntent
	app  domain.RecyclablesApplication
}

// Resolve processes one bulk submission. All items must target companyID;
// the permission check runs before any mutation, so a denial leaves no
// partial state.
func (s *CompanyRecyclablesService) Resolve(ctx context.Context, actor domain.Actor, companyID int64, batch []domain.RecyclablesIntent) ([]domain.RecyclablesApplication, error) {
	company, err := s.companies.Get(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccessCompany(company) {
		return nil, fmt.Errorf("company %d: %w", companyID, domain.ErrPermissionDenied)
	}

	var exists []resolvedIntent
	var missing []domain.RecyclablesIntent
	for _, item := range batch {
		item.CompanyID = companyID
		matches, err := s.apps.FindOpen(ctx, companyID, item.Action.DealType(), item.RecyclablesID)
		if err != nil {
			return nil, err
		}
		switch len(matches) {
		case 0:
			missing = append(missing, item)
		case 1:
			exists = append(exists, resolvedIntent{item: item, app: matches[0]})
		default:
			// More than one open application for the same natural key is a
			// data conflict; never silently pick one.
			return nil, &domain.AmbiguousLookupError{Entity: "recyclables application", Matches: len(matches)}
		}
	}

	result := make([]domain.RecyclablesApplication, 0, len(batch))

	for _, r := range exists {
		updated, err := s.updateExisting(ctx, actor, company, r.item, r.app)
		if err != nil {
			return nil, err
		}
		result = append(result, updated)
	}

	if len(missing) > 0 {
		created, err := s.createMissing(ctx, actor, company, missing)
		if err != nil {
			return nil, err
		}
		result = append(result, created...)
	}

	for _, item := range batch {
		if _, err := s.profile.Upsert(ctx, domain.CompanyRecyclables{
			CompanyID:     companyID,
			RecyclablesID: item.RecyclablesID,
			Action:        item.Action,
			MonthlyVolume: item.MonthlyVolume,
			Price:         item.Price,
			Deleted:       item.Deleted,
		}); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// Profile returns the persisted material profile of a company.
func (s *CompanyRecyclablesService) Profile(ctx context.Context, companyID int64) ([]domain.CompanyRecyclables, error) {
	return s.profile.ListByCompany(ctx, companyID)
}

// PriceHistory returns recorded price marks, newest first.
func (s *CompanyRecyclablesService) PriceHistory(ctx context.Context, filter domain.PriceMarkFilter) ([]domain.PriceMark, error) {
	return s.prices.List(ctx, filter)
}

func (s *CompanyRecyclablesService) updateExisting(ctx context.Context, actor domain.Actor, company domain.Company, item domain.RecyclablesIntent, app domain.RecyclablesApplication) (domain.RecyclablesApplication, error) {
	before := app

	app.CompanyID = item.CompanyID
	app.IsDeleted = item.Deleted
	app.DealType = item.Action.DealType()
	app.RecyclablesID = item.RecyclablesID
	app.Volume = item.MonthlyVolume
	app.Price = item.Price
	if item.Status != 0 {
		app.Status = item.Status
	}

	if err := s.apps.Update(ctx, app); err != nil {
		return domain.RecyclablesApplication{}, err
	}

	// Price history only moves on a real price change of a live item.
	if !item.Deleted && before.Price != item.Price {
		if err := s.appendPriceMark(ctx, company, app); err != nil {
			return domain.RecyclablesApplication{}, err
		}
	}

	if app.Urgency == domain.UrgencySupplyContract {
		changes := s.diff.ApplicationChanges(before, intentPatch(item))
		s.bus.Publish(ctx, SupplyContractUpdated{
			Application: app,
			CompanyName: company.Name,
			Actor:       actor,
			Origin:      domain.OriginCompanyCard,
			Changes:     changes,
		})
	}

	return app, nil
}

func (s *CompanyRecyclablesService) createMissing(ctx context.Context, actor domain.Actor, company domain.Company, items []domain.RecyclablesIntent) ([]domain.RecyclablesApplication, error) {
	toCreate := make([]domain.RecyclablesApplication, 0, len(items))
	for _, item := range items {
		status := domain.ApplicationOnReview
		if company.Trusted() {
			status = domain.ApplicationPublished
		}
		toCreate = append(toCreate, domain.RecyclablesApplication{
			CompanyID:     company.ID,
			RecyclablesID: item.RecyclablesID,
			DealType:      item.Action.DealType(),
			Urgency:       domain.UrgencySupplyContract,
			Status:        status,
			Volume:        item.MonthlyVolume,
			Price:         item.Price,
			WithVAT:       company.WithVAT,
			CityID:        company.CityID,
			Address:       company.Address,
			Latitude:      company.Latitude,
			Longitude:     company.Longitude,
			IsDeleted:     item.Deleted,
		})
	}

	// The batch insert reports generated ids directly; identity is never
	// re-derived by a natural-key lookup afterwards.
	created, err := s.apps.CreateBatch(ctx, toCreate)
	if err != nil {
		return nil, err
	}

	for _, app := range created {
		if err := s.appendPriceMark(ctx, company, app); err != nil {
			return nil, err
		}
		if app.Urgency == domain.UrgencySupplyContract {
			material, err := s.materials.Get(ctx, app.RecyclablesID)
			if err != nil {
				return nil, err
			}
			s.bus.Publish(ctx, SupplyContractCreated{
				Application: app,
				Material:    material,
				CompanyName: company.Name,
				Actor:       actor,
				Origin:      domain.OriginCompanyCard,
			})
		}
	}

	return created, nil
}

func (s *CompanyRecyclablesService) appendPriceMark(ctx context.Context, company domain.Company, app domain.RecyclablesApplication) error {
	material, err := s.materials.Get(ctx, app.RecyclablesID)
	if err != nil {
		return err
	}
	_, err = s.prices.Create(ctx, domain.PriceMark{
		CompanyID:       company.ID,
		CompanyName:     company.Name,
		RecyclablesID:   material.ID,
		RecyclablesName: material.Name,
		CategoryID:      material.Category.ID,
		CategoryName:    material.Category.Name,
		ApplicationID:   app.ID,
		DealType:        app.DealType,
		Price:           app.Price,
	})
	return err
}

// intentPatch projects a bulk item onto the application patch shape so the
// diff engine can describe what the overwrite changed.
func intentPatch(item domain.RecyclablesIntent) domain.ApplicationPatch {
	deleted := fmtBool(item.Deleted)
	dealType := int64(item.Action.DealType())
	patch := domain.ApplicationPatch{
		IsDeleted:     &deleted,
		DealType:      &dealType,
		Volume:        &item.MonthlyVolume,
		Price:         &item.Price,
		CompanyID:     &item.CompanyID,
		RecyclablesID: &item.RecyclablesID,
	}
	if item.Status != 0 {
		status := int64(item.Status)
		patch.Status = &status
	}
	return patch
}

func fmtBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
