package usecase

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/vtorprice/exchange-api/internal/core/domain"
)

func TestRecorderSkipsUpdateWithoutChanges(t *testing.T) {
	repo := &stubActionRepo{}
	rec := NewRecorder(repo)

	for _, ev := range []Event{
		CompanyUpdated{Company: domain.Company{ID: 1}, Actor: domain.Actor{ID: 2}},
		SupplyContractUpdated{Application: domain.RecyclablesApplication{ID: 1}, Actor: domain.Actor{ID: 2}},
		ShipmentContractUpdated{Application: domain.RecyclablesApplication{ID: 1}, Actor: domain.Actor{ID: 2}},
		DealUpdated{Deal: domain.RecyclablesDeal{ID: 1}, Actor: domain.Actor{ID: 2}},
	} {
		if err := rec.Handle(context.Background(), ev); err != nil {
			t.Fatalf("%s: %v", ev.EventName(), err)
		}
	}
	if len(repo.records) != 0 {
		t.Fatalf("empty change records must write nothing, got %d rows", len(repo.records))
	}
}

func TestRecorderCompanyUpdate(t *testing.T) {
	repo := &stubActionRepo{}
	rec := NewRecorder(repo)

	err := rec.Handle(context.Background(), CompanyUpdated{
		Company: domain.Company{ID: 7},
		Actor:   domain.Actor{ID: 3},
		Changes: []string{"name - New", "phone - 222"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(repo.records) != 1 {
		t.Fatalf("expected one record, got %d", len(repo.records))
	}

	got := repo.records[0]
	if got.UserID != 3 || got.Action != domain.ActionUpdate || got.Entity != domain.EntityCompany || got.EntityID != "7" {
		t.Fatalf("unexpected record header: %+v", got)
	}
	if !reflect.DeepEqual(got.UpdatedFields, []string{"name - New", "phone - 222"}) {
		t.Fatalf("unexpected fields: %v", got.UpdatedFields)
	}
}

func TestRecorderSupplyContractUpdatePrependsCompany(t *testing.T) {
	repo := &stubActionRepo{}
	rec := NewRecorder(repo)

	err := rec.Handle(context.Background(), SupplyContractUpdated{
		Application: domain.RecyclablesApplication{ID: 11, CompanyID: 7},
		CompanyName: "Vtor",
		Actor:       domain.Actor{ID: 3},
		Origin:      domain.OriginCompanyCard,
		Changes:     []string{"price - 50"},
	})
	if err != nil {
		t.Fatal(err)
	}

	got := repo.records[0]
	if got.Entity != domain.EntitySupplyApplication || got.EntityID != "11" {
		t.Fatalf("unexpected record header: %+v", got)
	}
	want := []string{"company_id - 7", "company_name - Vtor", "price - 50", "origin - company card"}
	if !reflect.DeepEqual(got.UpdatedFields, want) {
		t.Fatalf("got %v, want %v", got.UpdatedFields, want)
	}
}

func TestRecorderSupplyContractCreated(t *testing.T) {
	repo := &stubActionRepo{}
	rec := NewRecorder(repo)

	err := rec.Handle(context.Background(), SupplyContractCreated{
		Application: domain.RecyclablesApplication{
			ID:        11,
			CompanyID: 7,
			DealType:  domain.DealTypeBuy,
			Price:     42.5,
			Volume:    1000,
		},
		Material:    domain.Recyclables{ID: 4, Name: "PET"},
		CompanyName: "Vtor",
		Actor:       domain.Actor{ID: 3},
		Origin:      domain.OriginCompanyCard,
	})
	if err != nil {
		t.Fatal(err)
	}

	got := repo.records[0]
	if got.Action != domain.ActionCreate || got.Entity != domain.EntitySupplyApplication {
		t.Fatalf("unexpected record header: %+v", got)
	}
	want := []string{
		"company - Vtor",
		"company_id - 7",
		"recyclables_id - 4",
		"recyclables_name - PET",
		"price - 42.5",
		"volume - 1000",
		"deal_type - 1",
		"origin - company card",
	}
	if !reflect.DeepEqual(got.UpdatedFields, want) {
		t.Fatalf("got %v, want %v", got.UpdatedFields, want)
	}
}

func TestRecorderShipmentCreatedUsesFullWeightNoOrigin(t *testing.T) {
	repo := &stubActionRepo{}
	rec := NewRecorder(repo)

	err := rec.Handle(context.Background(), ShipmentContractCreated{
		Application: domain.RecyclablesApplication{
			ID:         5,
			CompanyID:  7,
			DealType:   domain.DealTypeSell,
			Price:      10,
			FullWeight: 2500,
		},
		Material:    domain.Recyclables{ID: 9, Name: "Cardboard"},
		CompanyName: "Vtor",
		Actor:       domain.Actor{ID: 3},
	})
	if err != nil {
		t.Fatal(err)
	}

	got := repo.records[0]
	if got.Entity != domain.EntityShipmentApplication {
		t.Fatalf("unexpected entity: %v", got.Entity)
	}
	want := []string{
		"company - Vtor",
		"company_id - 7",
		"recyclables_id - 9",
		"recyclables_name - Cardboard",
		"price - 10",
		"full_weight - 2500",
		"deal_type - 2",
	}
	if !reflect.DeepEqual(got.UpdatedFields, want) {
		t.Fatalf("got %v, want %v", got.UpdatedFields, want)
	}
}

func TestRecorderDeleteWritesEmptyFields(t *testing.T) {
	repo := &stubActionRepo{}
	rec := NewRecorder(repo)

	err := rec.Handle(context.Background(), SupplyContractDeleted{
		Application: domain.RecyclablesApplication{ID: 11},
		Actor:       domain.Actor{ID: 3},
	})
	if err != nil {
		t.Fatal(err)
	}

	got := repo.records[0]
	if got.Action != domain.ActionDelete || got.EntityID != "11" {
		t.Fatalf("unexpected record: %+v", got)
	}
	if len(got.UpdatedFields) != 0 {
		t.Fatalf("delete records carry no fields, got %v", got.UpdatedFields)
	}
}

func TestRecorderLoginLogout(t *testing.T) {
	repo := &stubActionRepo{}
	rec := NewRecorder(repo)

	if err := rec.Handle(context.Background(), UserLoggedIn{User: domain.User{ID: 4}}); err != nil {
		t.Fatal(err)
	}
	if err := rec.Handle(context.Background(), UserLoggedOut{User: domain.User{ID: 4}}); err != nil {
		t.Fatal(err)
	}

	if len(repo.records) != 2 {
		t.Fatalf("expected two records, got %d", len(repo.records))
	}
	if repo.records[0].Action != domain.ActionLogin || repo.records[1].Action != domain.ActionLogout {
		t.Fatalf("unexpected actions: %+v", repo.records)
	}
	if repo.records[0].UserID != 4 || repo.records[0].EntityID != "" {
		t.Fatalf("unexpected login record: %+v", repo.records[0])
	}
}

func TestRecorderWrapsStoreFailure(t *testing.T) {
	boom := errors.New("disk full")
	repo := &stubActionRepo{createFn: func(_ context.Context, _ domain.ActionRecord) (domain.ActionRecord, error) {
		return domain.ActionRecord{}, boom
	}}
	rec := NewRecorder(repo)

	err := rec.Handle(context.Background(), UserLoggedIn{User: domain.User{ID: 4}})
	var werr *domain.AuditWriteError
	if !errors.As(err, &werr) {
		t.Fatalf("expected AuditWriteError, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("cause not wrapped: %v", err)
	}
}
