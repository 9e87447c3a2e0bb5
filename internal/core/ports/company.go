package ports

import (
	"context"

	"github.com/vtorprice/exchange-api/internal/core/domain"
)

type CompanyFilter struct {
	Status  domain.CompanyStatus
	CityID  int64
	Search  string
	AfterID int64
	Limit   int
}

type CompanyRepository interface {
	Get(ctx context.Context, id int64) (domain.Company, error)
	List(ctx context.Context, filter CompanyFilter) ([]domain.Company, error)
	Create(ctx context.Context, company domain.Company) (domain.Company, error)
	Update(ctx context.Context, company domain.Company) error
}

type VerificationRepository interface {
	Create(ctx context.Context, req domain.CompanyVerificationRequest) (domain.CompanyVerificationRequest, error)
	Get(ctx context.Context, id int64) (domain.CompanyVerificationRequest, error)
	Update(ctx context.Context, req domain.CompanyVerificationRequest) error
}

// CityRepository serves the reference list companies and applications
// point at with city_id.
type CityRepository interface {
	List(ctx context.Context) ([]domain.City, error)
}
