package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/vtorprice/exchange-api/internal/core/domain"
)

func newDealSvc(deals *stubDealRepo, apps *stubApplicationRepo, companies *stubCompanyRepo, actions *stubActionRepo) *DealService {
	bus := NewBus(zerolog.Nop(), NewRecorder(actions))
	return NewDealService(deals, apps, companies, bus, NewDiff(zerolog.Nop()), zerolog.Nop())
}

func TestDealCreateFromBuyApplication(t *testing.T) {
	apps := &stubApplicationRepo{getFn: func(_ context.Context, id int64) (domain.RecyclablesApplication, error) {
		return domain.RecyclablesApplication{
			ID: id, CompanyID: 20, DealType: domain.DealTypeBuy,
			Status: domain.ApplicationPublished, Price: 40, FullWeight: 1000,
		}, nil
	}}
	actions := &stubActionRepo{}
	svc := newDealSvc(&stubDealRepo{}, apps, verifiedCompany(), actions)

	deal, err := svc.Create(context.Background(), staffActor(7), 11, 7)
	if err != nil {
		t.Fatal(err)
	}
	if deal.DealNumber == "" {
		t.Fatal("deal number must be assigned at creation")
	}
	if deal.BuyerCompanyID != 20 || deal.SupplierCompanyID != 7 {
		t.Fatalf("buy application owner must be the buyer: %+v", deal)
	}
	if deal.Status != domain.DealNew || deal.Price != 40 {
		t.Fatalf("unexpected deal seed: %+v", deal)
	}

	if len(actions.records) != 1 || actions.records[0].Action != domain.ActionCreate {
		t.Fatalf("expected a create record, got %+v", actions.records)
	}
	if actions.records[0].Entity != domain.EntityRecyclablesDeal {
		t.Fatalf("unexpected entity kind %d", actions.records[0].Entity)
	}
	if !containsEntry(actions.records[0].UpdatedFields, "deal_number - "+deal.DealNumber) {
		t.Fatalf("deal number missing from record: %v", actions.records[0].UpdatedFields)
	}
}

func TestDealCreateFromSellApplicationSwapsSides(t *testing.T) {
	apps := &stubApplicationRepo{getFn: func(_ context.Context, id int64) (domain.RecyclablesApplication, error) {
		return domain.RecyclablesApplication{
			ID: id, CompanyID: 20, DealType: domain.DealTypeSell,
			Status: domain.ApplicationPublished, Price: 40,
		}, nil
	}}
	svc := newDealSvc(&stubDealRepo{}, apps, verifiedCompany(), &stubActionRepo{})

	deal, err := svc.Create(context.Background(), staffActor(7), 11, 7)
	if err != nil {
		t.Fatal(err)
	}
	if deal.SupplierCompanyID != 20 || deal.BuyerCompanyID != 7 {
		t.Fatalf("sell application owner must supply: %+v", deal)
	}
}

func TestDealCreateRejectsClosedApplication(t *testing.T) {
	apps := &stubApplicationRepo{getFn: func(_ context.Context, id int64) (domain.RecyclablesApplication, error) {
		return domain.RecyclablesApplication{ID: id, Status: domain.ApplicationClosed}, nil
	}}
	svc := newDealSvc(&stubDealRepo{}, apps, verifiedCompany(), &stubActionRepo{})

	_, err := svc.Create(context.Background(), staffActor(7), 11, 7)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDealUpdateRecordsChanges(t *testing.T) {
	deals := &stubDealRepo{getFn: func(_ context.Context, id int64) (domain.RecyclablesDeal, error) {
		return domain.RecyclablesDeal{ID: id, SupplierCompanyID: 7, BuyerCompanyID: 20, Status: domain.DealNew, Price: 40}, nil
	}}
	actions := &stubActionRepo{}
	svc := newDealSvc(deals, &stubApplicationRepo{}, verifiedCompany(), actions)

	status := int64(domain.DealShipped)
	deal, err := svc.Update(context.Background(), staffActor(7), 5, domain.DealPatch{
		Status:       &status,
		LoadedWeight: i64Ptr(900),
	})
	if err != nil {
		t.Fatal(err)
	}
	if deal.Status != domain.DealShipped || deal.LoadedWeight != 900 {
		t.Fatalf("patch not applied: %+v", deal)
	}

	if len(actions.records) != 1 {
		t.Fatalf("expected one record, got %d", len(actions.records))
	}
	fields := actions.records[0].UpdatedFields
	if !containsEntry(fields, "status - 3") || !containsEntry(fields, "loaded_weight - 900") {
		t.Fatalf("unexpected fields: %v", fields)
	}
}

func TestDealUpdateDeniedForOutsider(t *testing.T) {
	deals := &stubDealRepo{getFn: func(_ context.Context, id int64) (domain.RecyclablesDeal, error) {
		return domain.RecyclablesDeal{ID: id, SupplierCompanyID: 40, BuyerCompanyID: 41}, nil
	}}
	companies := &stubCompanyRepo{getFn: func(_ context.Context, id int64) (domain.Company, error) {
		return domain.Company{ID: id}, nil
	}}
	svc := newDealSvc(deals, &stubApplicationRepo{}, companies, &stubActionRepo{})

	_, err := svc.Update(context.Background(), staffActor(7), 5, domain.DealPatch{Price: f64Ptr(99)})
	if !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("expected permission denied, got %v", err)
	}
}
