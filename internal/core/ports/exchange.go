package ports

import (
	"context"

	"github.com/vtorprice/exchange-api/internal/core/domain"
)

type ApplicationRepository interface {
	Get(ctx context.Context, id int64) (domain.RecyclablesApplication, error)
	List(ctx context.Context, filter domain.ApplicationFilter) ([]domain.RecyclablesApplication, error)
	// FindOpen returns every non-closed application matching the natural key
	// (company, deal direction, material). Callers decide what more than one
	// match means.
	FindOpen(ctx context.Context, companyID int64, dealType domain.DealType, recyclablesID int64) ([]domain.RecyclablesApplication, error)
	// CreateBatch inserts all applications in one statement and returns them
	// with generated ids filled in, in input order.
	CreateBatch(ctx context.Context, apps []domain.RecyclablesApplication) ([]domain.RecyclablesApplication, error)
	Update(ctx context.Context, app domain.RecyclablesApplication) error
	// ListSupply returns supply-contract applications for a material category
	// and deal direction, newest first.
	ListSupply(ctx context.Context, categoryID int64, dealType domain.DealType) ([]domain.RecyclablesApplication, error)
}

type CompanyRecyclablesRepository interface {
	Upsert(ctx context.Context, item domain.CompanyRecyclables) (domain.CompanyRecyclables, error)
	ListByCompany(ctx context.Context, companyID int64) ([]domain.CompanyRecyclables, error)
}

type RecyclablesRepository interface {
	Get(ctx context.Context, id int64) (domain.Recyclables, error)
	List(ctx context.Context, categoryID int64) ([]domain.Recyclables, error)
}

type DealRepository interface {
	Get(ctx context.Context, id int64) (domain.RecyclablesDeal, error)
	List(ctx context.Context, filter domain.DealFilter) ([]domain.RecyclablesDeal, error)
	Create(ctx context.Context, deal domain.RecyclablesDeal) (domain.RecyclablesDeal, error)
	Update(ctx context.Context, deal domain.RecyclablesDeal) error
}

// PriceMarkRepository is append-only: price history is never rewritten.
type PriceMarkRepository interface {
	Create(ctx context.Context, mark domain.PriceMark) (domain.PriceMark, error)
	List(ctx context.Context, filter domain.PriceMarkFilter) ([]domain.PriceMark, error)
}
