package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vtorprice/exchange-api/internal/core/domain"
	"github.com/vtorprice/exchange-api/internal/core/ports"
)

// DealService creates deals out of published applications and tracks their
// lifecycle to completion.
type DealService struct {
	deals     ports.DealRepository
	apps      ports.ApplicationRepository
	companies ports.CompanyRepository
	bus       *Bus
	diff      *Diff
	log       zerolog.Logger
}

func NewDealService(deals ports.DealRepository, apps ports.ApplicationRepository, companies ports.CompanyRepository, bus *Bus, diff *Diff, log zerolog.Logger) *DealService {
	return &DealService{
		deals:     deals,
		apps:      apps,
		companies: companies,
		bus:       bus,
		diff:      diff,
		log:       log,
	}
}

func (s *DealService) Get(ctx context.Context, id int64) (domain.RecyclablesDeal, error) {
	return s.deals.Get(ctx, id)
}

func (s *DealService) List(ctx context.Context, filter domain.DealFilter) ([]domain.RecyclablesDeal, error) {
	return s.deals.List(ctx, filter)
}

// Create opens a deal against an application. The counterparty company is
// the one the actor acts for; which side supplies follows the application's
// deal direction. The deal number is assigned here and never changes.
func (s *DealService) Create(ctx context.Context, actor domain.Actor, applicationID int64, counterpartyID int64) (domain.RecyclablesDeal, error) {
	app, err := s.apps.Get(ctx, applicationID)
	if err != nil {
		return domain.RecyclablesDeal{}, err
	}
	if !app.Status.Open() || app.IsDeleted {
		return domain.RecyclablesDeal{}, fmt.Errorf("application %d is closed: %w", applicationID, domain.ErrNotFound)
	}
	counterparty, err := s.companies.Get(ctx, counterpartyID)
	if err != nil {
		return domain.RecyclablesDeal{}, err
	}
	if !actor.CanAccessCompany(counterparty) {
		return domain.RecyclablesDeal{}, fmt.Errorf("company %d: %w", counterpartyID, domain.ErrPermissionDenied)
	}

	deal := domain.RecyclablesDeal{
		DealNumber:    uuid.NewString(),
		ApplicationID: app.ID,
		Status:        domain.DealNew,
		Price:         app.Price,
		WithVAT:       app.WithVAT,
		Weight:        app.FullWeight,
		CreatedByID:   actor.ID,
	}
	// A buy application means its owner buys: the counterparty supplies.
	if app.DealType == domain.DealTypeBuy {
		deal.BuyerCompanyID = app.CompanyID
		deal.SupplierCompanyID = counterparty.ID
	} else {
		deal.SupplierCompanyID = app.CompanyID
		deal.BuyerCompanyID = counterparty.ID
	}

	created, err := s.deals.Create(ctx, deal)
	if err != nil {
		return domain.RecyclablesDeal{}, err
	}

	s.bus.Publish(ctx, DealCreated{Deal: created, Actor: actor})
	return created, nil
}

// Update applies the patch to the deal. Only a participant company's actor
// may change a deal. The change record is computed before mutation.
func (s *DealService) Update(ctx context.Context, actor domain.Actor, id int64, patch domain.DealPatch) (domain.RecyclablesDeal, error) {
	deal, err := s.deals.Get(ctx, id)
	if err != nil {
		return domain.RecyclablesDeal{}, err
	}
	if err := s.checkDealAccess(ctx, actor, deal); err != nil {
		return domain.RecyclablesDeal{}, err
	}

	changes := s.diff.DealChanges(deal, patch)
	applyDealPatch(&deal, patch)

	if err := s.deals.Update(ctx, deal); err != nil {
		return domain.RecyclablesDeal{}, err
	}

	s.bus.Publish(ctx, DealUpdated{Deal: deal, Actor: actor, Changes: changes})
	return deal, nil
}

func (s *DealService) checkDealAccess(ctx context.Context, actor domain.Actor, deal domain.RecyclablesDeal) error {
	supplier, err := s.companies.Get(ctx, deal.SupplierCompanyID)
	if err != nil {
		return err
	}
	if actor.CanAccessCompany(supplier) {
		return nil
	}
	buyer, err := s.companies.Get(ctx, deal.BuyerCompanyID)
	if err != nil {
		return err
	}
	if actor.CanAccessCompany(buyer) {
		return nil
	}
	return fmt.Errorf("deal %d: %w", deal.ID, domain.ErrPermissionDenied)
}

func applyDealPatch(d *domain.RecyclablesDeal, p domain.DealPatch) {
	if p.IsDeleted != nil {
		if v, err := domain.ParseFlag(*p.IsDeleted); err == nil {
			d.IsDeleted = v
		}
	}
	if p.WithVAT != nil {
		if v, err := domain.ParseFlag(*p.WithVAT); err == nil {
			d.WithVAT = v
		}
	}
	if p.Price != nil {
		d.Price = *p.Price
	}
	if p.Status != nil {
		d.Status = domain.DealStatus(*p.Status)
	}
	if p.PaymentTerm != nil {
		d.PaymentTerm = domain.PaymentTerm(*p.PaymentTerm)
	}
	if p.OtherPaymentTerm != nil {
		d.OtherPaymentTerm = *p.OtherPaymentTerm
	}
	if p.LoadedWeight != nil {
		d.LoadedWeight = *p.LoadedWeight
	}
	if p.AcceptedWeight != nil {
		d.AcceptedWeight = *p.AcceptedWeight
	}
	if p.ShippingDate != nil {
		if t, err := parseFormDate(*p.ShippingDate); err == nil {
			d.ShippingDate = t
		}
	}
	if p.WhoDelivers != nil {
		d.WhoDelivers = domain.WhoDelivers(*p.WhoDelivers)
	}
	if p.BuyerPaysShipping != nil {
		if v, err := domain.ParseFlag(*p.BuyerPaysShipping); err == nil {
			d.BuyerPaysShipping = v
		}
	}
	if p.ShippingAddress != nil {
		d.ShippingAddress = *p.ShippingAddress
	}
	if p.ShippingLatitude != nil {
		d.ShippingLatitude = *p.ShippingLatitude
	}
	if p.ShippingLongitude != nil {
		d.ShippingLongitude = *p.ShippingLongitude
	}
	if p.ApplicationID != nil {
		d.ApplicationID = *p.ApplicationID
	}
	if p.BuyerCompanyID != nil {
		d.BuyerCompanyID = *p.BuyerCompanyID
	}
	if p.DeliveryCityID != nil {
		d.DeliveryCityID = *p.DeliveryCityID
	}
	if p.ShippingCityID != nil {
		d.ShippingCityID = *p.ShippingCityID
	}
	if p.SupplierCompanyID != nil {
		d.SupplierCompanyID = *p.SupplierCompanyID
	}
	if p.DeliveryDate != nil {
		if t, err := parseFormDate(*p.DeliveryDate); err == nil {
			d.DeliveryDate = t
		}
	}
	if p.DealNumber != nil {
		d.DealNumber = *p.DealNumber
	}
	if p.LoadingHours != nil {
		d.LoadingHours = *p.LoadingHours
	}
	if p.CreatedByID != nil {
		d.CreatedByID = *p.CreatedByID
	}
	if p.Weight != nil {
		d.Weight = *p.Weight
	}
}

// parseFormDate accepts the date-only and RFC 3339 shapes forms send.
func parseFormDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", datePrefix(s)); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
