package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/vtorprice/exchange-api/internal/core/domain"
	"github.com/vtorprice/exchange-api/internal/core/ports"
)

// CompanyService owns company CRUD and the verification workflow.
type CompanyService struct {
	companies     ports.CompanyRepository
	verifications ports.VerificationRepository
	bus           *Bus
	diff          *Diff
	log           zerolog.Logger
}

func NewCompanyService(companies ports.CompanyRepository, verifications ports.VerificationRepository, bus *Bus, diff *Diff, log zerolog.Logger) *CompanyService {
	return &CompanyService{
		companies:     companies,
		verifications: verifications,
		bus:           bus,
		diff:          diff,
		log:           log,
	}
}

func (s *CompanyService) Get(ctx context.Context, id int64) (domain.Company, error) {
	return s.companies.Get(ctx, id)
}

func (s *CompanyService) List(ctx context.Context, filter ports.CompanyFilter) ([]domain.Company, error) {
	return s.companies.List(ctx, filter)
}

func (s *CompanyService) Create(ctx context.Context, actor domain.Actor, company domain.Company) (domain.Company, error) {
	company.OwnerID = actor.ID
	if company.Status == 0 {
		company.Status = domain.CompanyNotVerified
	}
	created, err := s.companies.Create(ctx, company)
	if err != nil {
		return domain.Company{}, err
	}
	s.log.Info().Int64("company_id", created.ID).Str("name", created.Name).Msg("company created")
	return created, nil
}

// Update applies the patch to the company. The change record is computed
// against the stored state before any field is overwritten; the update event
// carries that record even when it is empty, the audit layer decides what to
// keep.
func (s *CompanyService) Update(ctx context.Context, actor domain.Actor, id int64, patch domain.CompanyPatch) (domain.Company, error) {
	company, err := s.companies.Get(ctx, id)
	if err != nil {
		return domain.Company{}, err
	}
	if !actor.CanAccessCompany(company) {
		return domain.Company{}, fmt.Errorf("company %d: %w", id, domain.ErrPermissionDenied)
	}

	changes := s.diff.CompanyChanges(company, patch)
	applyCompanyPatch(&company, patch)

	if err := s.companies.Update(ctx, company); err != nil {
		return domain.Company{}, err
	}

	s.bus.Publish(ctx, CompanyUpdated{
		Company: company,
		Actor:   actor,
		Changes: changes,
	})

	return company, nil
}

// RequestVerification opens a review request for a company that is not yet
// trusted. Trusted companies get ErrAlreadyVerified.
func (s *CompanyService) RequestVerification(ctx context.Context, actor domain.Actor, companyID int64, employeeID int64) (domain.CompanyVerificationRequest, error) {
	company, err := s.companies.Get(ctx, companyID)
	if err != nil {
		return domain.CompanyVerificationRequest{}, err
	}
	if !actor.CanAccessCompany(company) {
		return domain.CompanyVerificationRequest{}, fmt.Errorf("company %d: %w", companyID, domain.ErrPermissionDenied)
	}
	if company.Trusted() {
		return domain.CompanyVerificationRequest{}, domain.ErrAlreadyVerified
	}
	return s.verifications.Create(ctx, domain.CompanyVerificationRequest{
		CompanyID:  companyID,
		EmployeeID: employeeID,
		Status:     domain.VerificationPending,
	})
}

// ReviewVerification settles a pending request. Approval bumps the company
// to the verified tier. Admin-only.
func (s *CompanyService) ReviewVerification(ctx context.Context, actor domain.Actor, requestID int64, approve bool, comment string) (domain.CompanyVerificationRequest, error) {
	if actor.Role != domain.RoleSuperAdmin && actor.Role != domain.RoleAdmin {
		return domain.CompanyVerificationRequest{}, fmt.Errorf("verification review: %w", domain.ErrPermissionDenied)
	}
	req, err := s.verifications.Get(ctx, requestID)
	if err != nil {
		return domain.CompanyVerificationRequest{}, err
	}

	req.Comment = comment
	if approve {
		req.Status = domain.VerificationApproved
	} else {
		req.Status = domain.VerificationRejected
	}
	if err := s.verifications.Update(ctx, req); err != nil {
		return domain.CompanyVerificationRequest{}, err
	}

	if approve {
		company, err := s.companies.Get(ctx, req.CompanyID)
		if err != nil {
			return domain.CompanyVerificationRequest{}, err
		}
		company.Status = domain.CompanyVerified
		if err := s.companies.Update(ctx, company); err != nil {
			return domain.CompanyVerificationRequest{}, err
		}
	}
	return req, nil
}

// applyCompanyPatch overwrites the supplied fields. Flags that fail
// coercion keep the stored value, matching the diff engine's skip policy.
func applyCompanyPatch(c *domain.Company, p domain.CompanyPatch) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.INN != nil {
		c.INN = *p.INN
	}
	if p.Address != nil {
		c.Address = *p.Address
	}
	if p.Latitude != nil {
		c.Latitude = *p.Latitude
	}
	if p.Longitude != nil {
		c.Longitude = *p.Longitude
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.WithVAT != nil {
		if v, err := domain.ParseFlag(*p.WithVAT); err == nil {
			c.WithVAT = v
		}
	}
	if p.BIC != nil {
		c.BIC = *p.BIC
	}
	if p.PaymentAccount != nil {
		c.PaymentAccount = *p.PaymentAccount
	}
	if p.CorrespondentAccount != nil {
		c.CorrespondentAccount = *p.CorrespondentAccount
	}
	if p.BankName != nil {
		c.BankName = *p.BankName
	}
	if p.HeadFullName != nil {
		c.HeadFullName = *p.HeadFullName
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	if p.CityID != nil {
		c.CityID = *p.CityID
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.ManagerID != nil {
		c.ManagerID = *p.ManagerID
	}
}
