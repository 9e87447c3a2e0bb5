package usecase

import (
	"context"

	"github.com/vtorprice/exchange-api/internal/core/domain"
	"github.com/vtorprice/exchange-api/internal/core/ports"
)

type stubCompanyRepo struct {
	getFn    func(ctx context.Context, id int64) (domain.Company, error)
	listFn   func(ctx context.Context, filter ports.CompanyFilter) ([]domain.Company, error)
	createFn func(ctx context.Context, company domain.Company) (domain.Company, error)
	updateFn func(ctx context.Context, company domain.Company) error
}

func (s *stubCompanyRepo) Get(ctx context.Context, id int64) (domain.Company, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return domain.Company{ID: id}, nil
}

func (s *stubCompanyRepo) List(ctx context.Context, filter ports.CompanyFilter) ([]domain.Company, error) {
	if s.listFn != nil {
		return s.listFn(ctx, filter)
	}
	return nil, nil
}

func (s *stubCompanyRepo) Create(ctx context.Context, company domain.Company) (domain.Company, error) {
	if s.createFn != nil {
		return s.createFn(ctx, company)
	}
	company.ID = 1
	return company, nil
}

func (s *stubCompanyRepo) Update(ctx context.Context, company domain.Company) error {
	if s.updateFn != nil {
		return s.updateFn(ctx, company)
	}
	return nil
}

type stubApplicationRepo struct {
	getFn         func(ctx context.Context, id int64) (domain.RecyclablesApplication, error)
	listFn        func(ctx context.Context, filter domain.ApplicationFilter) ([]domain.RecyclablesApplication, error)
	findOpenFn    func(ctx context.Context, companyID int64, dealType domain.DealType, recyclablesID int64) ([]domain.RecyclablesApplication, error)
	createBatchFn func(ctx context.Context, apps []domain.RecyclablesApplication) ([]domain.RecyclablesApplication, error)
	updateFn      func(ctx context.Context, app domain.RecyclablesApplication) error
	listSupplyFn  func(ctx context.Context, categoryID int64, dealType domain.DealType) ([]domain.RecyclablesApplication, error)
}

func (s *stubApplicationRepo) Get(ctx context.Context, id int64) (domain.RecyclablesApplication, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return domain.RecyclablesApplication{ID: id}, nil
}

func (s *stubApplicationRepo) List(ctx context.Context, filter domain.ApplicationFilter) ([]domain.RecyclablesApplication, error) {
	if s.listFn != nil {
		return s.listFn(ctx, filter)
	}
	return nil, nil
}

func (s *stubApplicationRepo) FindOpen(ctx context.Context, companyID int64, dealType domain.DealType, recyclablesID int64) ([]domain.RecyclablesApplication, error) {
	if s.findOpenFn != nil {
		return s.findOpenFn(ctx, companyID, dealType, recyclablesID)
	}
	return nil, nil
}

func (s *stubApplicationRepo) CreateBatch(ctx context.Context, apps []domain.RecyclablesApplication) ([]domain.RecyclablesApplication, error) {
	if s.createBatchFn != nil {
		return s.createBatchFn(ctx, apps)
	}
	out := make([]domain.RecyclablesApplication, len(apps))
	for i, app := range apps {
		app.ID = int64(i) + 1
		out[i] = app
	}
	return out, nil
}

func (s *stubApplicationRepo) Update(ctx context.Context, app domain.RecyclablesApplication) error {
	if s.updateFn != nil {
		return s.updateFn(ctx, app)
	}
	return nil
}

func (s *stubApplicationRepo) ListSupply(ctx context.Context, categoryID int64, dealType domain.DealType) ([]domain.RecyclablesApplication, error) {
	if s.listSupplyFn != nil {
		return s.listSupplyFn(ctx, categoryID, dealType)
	}
	return nil, nil
}

type stubRecyclablesRepo struct {
	getFn func(ctx context.Context, id int64) (domain.Recyclables, error)
}

func (s *stubRecyclablesRepo) Get(ctx context.Context, id int64) (domain.Recyclables, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return domain.Recyclables{ID: id, Name: "material"}, nil
}

func (s *stubRecyclablesRepo) List(ctx context.Context, categoryID int64) ([]domain.Recyclables, error) {
	return nil, nil
}

type stubProfileRepo struct {
	upsertFn func(ctx context.Context, item domain.CompanyRecyclables) (domain.CompanyRecyclables, error)
	items    []domain.CompanyRecyclables
}

func (s *stubProfileRepo) Upsert(ctx context.Context, item domain.CompanyRecyclables) (domain.CompanyRecyclables, error) {
	if s.upsertFn != nil {
		return s.upsertFn(ctx, item)
	}
	s.items = append(s.items, item)
	return item, nil
}

func (s *stubProfileRepo) ListByCompany(ctx context.Context, companyID int64) ([]domain.CompanyRecyclables, error) {
	return s.items, nil
}

type stubPriceRepo struct {
	marks []domain.PriceMark
}

func (s *stubPriceRepo) Create(ctx context.Context, mark domain.PriceMark) (domain.PriceMark, error) {
	mark.ID = int64(len(s.marks)) + 1
	s.marks = append(s.marks, mark)
	return mark, nil
}

func (s *stubPriceRepo) List(ctx context.Context, filter domain.PriceMarkFilter) ([]domain.PriceMark, error) {
	return s.marks, nil
}

type stubDealRepo struct {
	getFn    func(ctx context.Context, id int64) (domain.RecyclablesDeal, error)
	createFn func(ctx context.Context, deal domain.RecyclablesDeal) (domain.RecyclablesDeal, error)
	updateFn func(ctx context.Context, deal domain.RecyclablesDeal) error
}

func (s *stubDealRepo) Get(ctx context.Context, id int64) (domain.RecyclablesDeal, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return domain.RecyclablesDeal{ID: id}, nil
}

func (s *stubDealRepo) List(ctx context.Context, filter domain.DealFilter) ([]domain.RecyclablesDeal, error) {
	return nil, nil
}

func (s *stubDealRepo) Create(ctx context.Context, deal domain.RecyclablesDeal) (domain.RecyclablesDeal, error) {
	if s.createFn != nil {
		return s.createFn(ctx, deal)
	}
	deal.ID = 1
	return deal, nil
}

func (s *stubDealRepo) Update(ctx context.Context, deal domain.RecyclablesDeal) error {
	if s.updateFn != nil {
		return s.updateFn(ctx, deal)
	}
	return nil
}

type stubUserRepo struct {
	getFn        func(ctx context.Context, id int64) (domain.User, error)
	getByPhoneFn func(ctx context.Context, phone string) (domain.User, error)
	createFn     func(ctx context.Context, user domain.User) (domain.User, error)
	updateFn     func(ctx context.Context, user domain.User) error
}

func (s *stubUserRepo) Get(ctx context.Context, id int64) (domain.User, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return domain.User{ID: id}, nil
}

func (s *stubUserRepo) GetByPhone(ctx context.Context, phone string) (domain.User, error) {
	if s.getByPhoneFn != nil {
		return s.getByPhoneFn(ctx, phone)
	}
	return domain.User{}, domain.ErrNotFound
}

func (s *stubUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	if s.createFn != nil {
		return s.createFn(ctx, user)
	}
	user.ID = 1
	return user, nil
}

func (s *stubUserRepo) Update(ctx context.Context, user domain.User) error {
	if s.updateFn != nil {
		return s.updateFn(ctx, user)
	}
	return nil
}

type stubVerificationRepo struct {
	createFn func(ctx context.Context, req domain.CompanyVerificationRequest) (domain.CompanyVerificationRequest, error)
	getFn    func(ctx context.Context, id int64) (domain.CompanyVerificationRequest, error)
	updateFn func(ctx context.Context, req domain.CompanyVerificationRequest) error
}

func (s *stubVerificationRepo) Create(ctx context.Context, req domain.CompanyVerificationRequest) (domain.CompanyVerificationRequest, error) {
	if s.createFn != nil {
		return s.createFn(ctx, req)
	}
	req.ID = 1
	return req, nil
}

func (s *stubVerificationRepo) Get(ctx context.Context, id int64) (domain.CompanyVerificationRequest, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return domain.CompanyVerificationRequest{ID: id, Status: domain.VerificationPending}, nil
}

func (s *stubVerificationRepo) Update(ctx context.Context, req domain.CompanyVerificationRequest) error {
	if s.updateFn != nil {
		return s.updateFn(ctx, req)
	}
	return nil
}

type stubActionRepo struct {
	createFn func(ctx context.Context, record domain.ActionRecord) (domain.ActionRecord, error)
	records  []domain.ActionRecord
}

func (s *stubActionRepo) Create(ctx context.Context, record domain.ActionRecord) (domain.ActionRecord, error) {
	if s.createFn != nil {
		return s.createFn(ctx, record)
	}
	record.ID = int64(len(s.records)) + 1
	s.records = append(s.records, record)
	return record, nil
}

func (s *stubActionRepo) List(ctx context.Context, filter domain.ActionFilter) ([]domain.ActionRecord, error) {
	return s.records, nil
}
