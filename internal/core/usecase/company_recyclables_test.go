package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/vtorprice/exchange-api/internal/core/domain"
)

func newResolver(companies *stubCompanyRepo, apps *stubApplicationRepo, materials *stubRecyclablesRepo, profile *stubProfileRepo, prices *stubPriceRepo, actions *stubActionRepo) *CompanyRecyclablesService {
	bus := NewBus(zerolog.Nop(), NewRecorder(actions))
	return NewCompanyRecyclablesService(companies, apps, materials, profile, prices, bus, NewDiff(zerolog.Nop()), zerolog.Nop())
}

func verifiedCompany() *stubCompanyRepo {
	return &stubCompanyRepo{getFn: func(_ context.Context, id int64) (domain.Company, error) {
		return domain.Company{ID: id, Name: "Vtor", Status: domain.CompanyVerified, WithVAT: true, CityID: 2}, nil
	}}
}

func staffActor(companyID int64) domain.Actor {
	return domain.Actor{ID: 3, Name: "Staff", Role: domain.RoleCompanyStaff, CompanyID: companyID}
}

func TestResolveCreatesPublishedForVerifiedCompany(t *testing.T) {
	apps := &stubApplicationRepo{}
	prices := &stubPriceRepo{}
	actions := &stubActionRepo{}
	profile := &stubProfileRepo{}
	svc := newResolver(verifiedCompany(), apps, &stubRecyclablesRepo{getFn: func(_ context.Context, id int64) (domain.Recyclables, error) {
		return domain.Recyclables{ID: id, Name: "PET", Category: domain.RecyclablesCategory{ID: 1, Name: "Plastic"}}, nil
	}}, profile, prices, actions)

	result, err := svc.Resolve(context.Background(), staffActor(7), 7, []domain.RecyclablesIntent{
		{RecyclablesID: 4, Action: domain.ActionBuy, MonthlyVolume: 1000, Price: 40},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(result) != 1 {
		t.Fatalf("expected one application, got %d", len(result))
	}

	app := result[0]
	if app.ID == 0 {
		t.Fatal("created application has no id")
	}
	if app.Status != domain.ApplicationPublished {
		t.Fatalf("verified company must publish directly, got status %d", app.Status)
	}
	if app.Urgency != domain.UrgencySupplyContract {
		t.Fatalf("bulk items are supply contracts, got urgency %d", app.Urgency)
	}
	if !app.WithVAT || app.CityID != 2 {
		t.Fatalf("company fields not inherited: %+v", app)
	}

	if len(prices.marks) != 1 {
		t.Fatalf("expected one price mark, got %d", len(prices.marks))
	}
	mark := prices.marks[0]
	if mark.Price != 40 || mark.RecyclablesName != "PET" || mark.CategoryName != "Plastic" || mark.CompanyName != "Vtor" {
		t.Fatalf("unexpected price mark: %+v", mark)
	}

	if len(actions.records) != 1 || actions.records[0].Action != domain.ActionCreate {
		t.Fatalf("expected one create record, got %+v", actions.records)
	}
	if !containsEntry(actions.records[0].UpdatedFields, "origin - company card") {
		t.Fatalf("card origin missing: %v", actions.records[0].UpdatedFields)
	}

	if len(profile.items) != 1 || profile.items[0].RecyclablesID != 4 {
		t.Fatalf("profile not upserted: %+v", profile.items)
	}
}

func TestResolveUnverifiedCompanyGoesOnReview(t *testing.T) {
	companies := &stubCompanyRepo{getFn: func(_ context.Context, id int64) (domain.Company, error) {
		return domain.Company{ID: id, Name: "Fresh", Status: domain.CompanyNotVerified}, nil
	}}
	svc := newResolver(companies, &stubApplicationRepo{}, &stubRecyclablesRepo{}, &stubProfileRepo{}, &stubPriceRepo{}, &stubActionRepo{})

	result, err := svc.Resolve(context.Background(), staffActor(7), 7, []domain.RecyclablesIntent{
		{RecyclablesID: 4, Action: domain.ActionSell, MonthlyVolume: 10, Price: 5},
	})
	if err != nil {
		t.Fatal(err)
	}
	if result[0].Status != domain.ApplicationOnReview {
		t.Fatalf("unverified company must go on review, got %d", result[0].Status)
	}
}

func TestResolveUpdatesExistingAndMarksPriceChange(t *testing.T) {
	existing := domain.RecyclablesApplication{
		ID: 11, CompanyID: 7, RecyclablesID: 4,
		DealType: domain.DealTypeBuy, Urgency: domain.UrgencySupplyContract,
		Status: domain.ApplicationPublished, Volume: 1000, Price: 40,
	}
	var updated domain.RecyclablesApplication
	apps := &stubApplicationRepo{
		findOpenFn: func(_ context.Context, _ int64, _ domain.DealType, _ int64) ([]domain.RecyclablesApplication, error) {
			return []domain.RecyclablesApplication{existing}, nil
		},
		updateFn: func(_ context.Context, app domain.RecyclablesApplication) error {
			updated = app
			return nil
		},
	}
	prices := &stubPriceRepo{}
	actions := &stubActionRepo{}
	svc := newResolver(verifiedCompany(), apps, &stubRecyclablesRepo{}, &stubProfileRepo{}, prices, actions)

	result, err := svc.Resolve(context.Background(), staffActor(7), 7, []domain.RecyclablesIntent{
		{RecyclablesID: 4, Action: domain.ActionBuy, MonthlyVolume: 1200, Price: 50},
	})
	if err != nil {
		t.Fatal(err)
	}

	if result[0].ID != 11 {
		t.Fatalf("existing application must keep its id, got %d", result[0].ID)
	}
	if updated.Price != 50 || updated.Volume != 1200 {
		t.Fatalf("fields not overwritten: %+v", updated)
	}

	if len(prices.marks) != 1 || prices.marks[0].Price != 50 {
		t.Fatalf("price change must append a mark: %+v", prices.marks)
	}

	if len(actions.records) != 1 || actions.records[0].Action != domain.ActionUpdate {
		t.Fatalf("expected one update record, got %+v", actions.records)
	}
	fields := actions.records[0].UpdatedFields
	if !containsEntry(fields, "price - 50") {
		t.Fatalf("price change missing from record: %v", fields)
	}
	if fields[0] != "company_id - 7" || fields[1] != "company_name - Vtor" {
		t.Fatalf("company context must lead the record: %v", fields)
	}
	if !containsEntry(fields, "origin - company card") {
		t.Fatalf("card origin missing: %v", fields)
	}
}

func TestResolveEqualPriceWritesNoMark(t *testing.T) {
	existing := domain.RecyclablesApplication{
		ID: 11, CompanyID: 7, RecyclablesID: 4,
		DealType: domain.DealTypeBuy, Urgency: domain.UrgencySupplyContract,
		Status: domain.ApplicationPublished, Volume: 1000, Price: 40,
	}
	apps := &stubApplicationRepo{findOpenFn: func(_ context.Context, _ int64, _ domain.DealType, _ int64) ([]domain.RecyclablesApplication, error) {
		return []domain.RecyclablesApplication{existing}, nil
	}}
	prices := &stubPriceRepo{}
	svc := newResolver(verifiedCompany(), apps, &stubRecyclablesRepo{}, &stubProfileRepo{}, prices, &stubActionRepo{})

	_, err := svc.Resolve(context.Background(), staffActor(7), 7, []domain.RecyclablesIntent{
		{RecyclablesID: 4, Action: domain.ActionBuy, MonthlyVolume: 1000, Price: 40},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(prices.marks) != 0 {
		t.Fatalf("unchanged price must not append a mark: %+v", prices.marks)
	}
}

func TestResolveDeletedItemWritesNoMark(t *testing.T) {
	existing := domain.RecyclablesApplication{
		ID: 11, CompanyID: 7, RecyclablesID: 4,
		DealType: domain.DealTypeBuy, Urgency: domain.UrgencySupplyContract,
		Status: domain.ApplicationPublished, Price: 40,
	}
	apps := &stubApplicationRepo{findOpenFn: func(_ context.Context, _ int64, _ domain.DealType, _ int64) ([]domain.RecyclablesApplication, error) {
		return []domain.RecyclablesApplication{existing}, nil
	}}
	prices := &stubPriceRepo{}
	svc := newResolver(verifiedCompany(), apps, &stubRecyclablesRepo{}, &stubProfileRepo{}, prices, &stubActionRepo{})

	_, err := svc.Resolve(context.Background(), staffActor(7), 7, []domain.RecyclablesIntent{
		{RecyclablesID: 4, Action: domain.ActionBuy, Price: 50, Deleted: true},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(prices.marks) != 0 {
		t.Fatalf("deleted item must not append a mark: %+v", prices.marks)
	}
}

func TestResolveAmbiguousMatchFails(t *testing.T) {
	apps := &stubApplicationRepo{findOpenFn: func(_ context.Context, _ int64, _ domain.DealType, _ int64) ([]domain.RecyclablesApplication, error) {
		return []domain.RecyclablesApplication{{ID: 11}, {ID: 12}}, nil
	}}
	svc := newResolver(verifiedCompany(), apps, &stubRecyclablesRepo{}, &stubProfileRepo{}, &stubPriceRepo{}, &stubActionRepo{})

	_, err := svc.Resolve(context.Background(), staffActor(7), 7, []domain.RecyclablesIntent{
		{RecyclablesID: 4, Action: domain.ActionBuy, Price: 40},
	})
	var aerr *domain.AmbiguousLookupError
	if !errors.As(err, &aerr) {
		t.Fatalf("expected ambiguous lookup error, got %v", err)
	}
	if aerr.Matches != 2 {
		t.Fatalf("unexpected match count %d", aerr.Matches)
	}
}

func TestResolveDeniesForeignCompany(t *testing.T) {
	updateCalled := false
	apps := &stubApplicationRepo{updateFn: func(_ context.Context, _ domain.RecyclablesApplication) error {
		updateCalled = true
		return nil
	}}
	svc := newResolver(verifiedCompany(), apps, &stubRecyclablesRepo{}, &stubProfileRepo{}, &stubPriceRepo{}, &stubActionRepo{})

	_, err := svc.Resolve(context.Background(), staffActor(99), 7, []domain.RecyclablesIntent{
		{RecyclablesID: 4, Action: domain.ActionBuy, Price: 40},
	})
	if !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("expected permission denied, got %v", err)
	}
	if updateCalled {
		t.Fatal("denied request must not mutate anything")
	}
}

func containsEntry(fields []string, want string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) == want {
			return true
		}
	}
	return false
}
