package usecase

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/vtorprice/exchange-api/internal/core/domain"
)

func newCompanySvc(companies *stubCompanyRepo, verifications *stubVerificationRepo, actions *stubActionRepo) *CompanyService {
	bus := NewBus(zerolog.Nop(), NewRecorder(actions))
	return NewCompanyService(companies, verifications, bus, NewDiff(zerolog.Nop()), zerolog.Nop())
}

func TestCompanyUpdateRecordsChanges(t *testing.T) {
	companies := &stubCompanyRepo{getFn: func(_ context.Context, id int64) (domain.Company, error) {
		return domain.Company{ID: id, Name: "Old", Phone: "111"}, nil
	}}
	actions := &stubActionRepo{}
	svc := newCompanySvc(companies, &stubVerificationRepo{}, actions)

	admin := domain.Actor{ID: 1, Role: domain.RoleAdmin}
	got, err := svc.Update(context.Background(), admin, 7, domain.CompanyPatch{
		Name:  strPtr("New"),
		Phone: strPtr("222"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "New" || got.Phone != "222" {
		t.Fatalf("patch not applied: %+v", got)
	}

	if len(actions.records) != 1 {
		t.Fatalf("expected one record, got %d", len(actions.records))
	}
	want := []string{"name - New", "phone - 222"}
	if !reflect.DeepEqual(actions.records[0].UpdatedFields, want) {
		t.Fatalf("got %v, want %v", actions.records[0].UpdatedFields, want)
	}
}

func TestCompanyUpdateNoopWritesNoRecord(t *testing.T) {
	companies := &stubCompanyRepo{getFn: func(_ context.Context, id int64) (domain.Company, error) {
		return domain.Company{ID: id, Name: "Same"}, nil
	}}
	actions := &stubActionRepo{}
	svc := newCompanySvc(companies, &stubVerificationRepo{}, actions)

	admin := domain.Actor{ID: 1, Role: domain.RoleAdmin}
	if _, err := svc.Update(context.Background(), admin, 7, domain.CompanyPatch{Name: strPtr("Same")}); err != nil {
		t.Fatal(err)
	}
	if len(actions.records) != 0 {
		t.Fatalf("no-op update must write nothing, got %+v", actions.records)
	}
}

func TestCompanyUpdateDeniedForLogist(t *testing.T) {
	svc := newCompanySvc(&stubCompanyRepo{}, &stubVerificationRepo{}, &stubActionRepo{})

	logist := domain.Actor{ID: 1, Role: domain.RoleLogist}
	_, err := svc.Update(context.Background(), logist, 7, domain.CompanyPatch{Name: strPtr("X")})
	if !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("expected permission denied, got %v", err)
	}
}

func TestRequestVerificationAlreadyVerified(t *testing.T) {
	companies := &stubCompanyRepo{getFn: func(_ context.Context, id int64) (domain.Company, error) {
		return domain.Company{ID: id, Status: domain.CompanyVerified}, nil
	}}
	svc := newCompanySvc(companies, &stubVerificationRepo{}, &stubActionRepo{})

	admin := domain.Actor{ID: 1, Role: domain.RoleAdmin}
	_, err := svc.RequestVerification(context.Background(), admin, 7, 3)
	if !errors.Is(err, domain.ErrAlreadyVerified) {
		t.Fatalf("expected already verified, got %v", err)
	}
}

func TestReviewVerificationApprovalBumpsCompany(t *testing.T) {
	var savedCompany domain.Company
	companies := &stubCompanyRepo{
		getFn: func(_ context.Context, id int64) (domain.Company, error) {
			return domain.Company{ID: id, Status: domain.CompanyNotVerified}, nil
		},
		updateFn: func(_ context.Context, c domain.Company) error {
			savedCompany = c
			return nil
		},
	}
	verifications := &stubVerificationRepo{getFn: func(_ context.Context, id int64) (domain.CompanyVerificationRequest, error) {
		return domain.CompanyVerificationRequest{ID: id, CompanyID: 7, Status: domain.VerificationPending}, nil
	}}
	svc := newCompanySvc(companies, verifications, &stubActionRepo{})

	admin := domain.Actor{ID: 1, Role: domain.RoleSuperAdmin}
	req, err := svc.ReviewVerification(context.Background(), admin, 5, true, "ok")
	if err != nil {
		t.Fatal(err)
	}
	if req.Status != domain.VerificationApproved {
		t.Fatalf("unexpected request status %d", req.Status)
	}
	if savedCompany.Status != domain.CompanyVerified {
		t.Fatalf("approval must verify the company, got %d", savedCompany.Status)
	}
}

func TestReviewVerificationAdminOnly(t *testing.T) {
	svc := newCompanySvc(&stubCompanyRepo{}, &stubVerificationRepo{}, &stubActionRepo{})

	staff := domain.Actor{ID: 1, Role: domain.RoleCompanyAdmin, CompanyID: 7}
	_, err := svc.ReviewVerification(context.Background(), staff, 5, true, "")
	if !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("expected permission denied, got %v", err)
	}
}
