package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/vtorprice/exchange-api/internal/adapters/sqlite/gormdb"
	"github.com/vtorprice/exchange-api/internal/core/domain"
	"github.com/vtorprice/exchange-api/internal/core/ports"
)

type companyModel struct {
	ID                   int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name                 string    `gorm:"column:name;not null"`
	INN                  string    `gorm:"column:inn"`
	Address              string    `gorm:"column:address"`
	Latitude             float64   `gorm:"column:latitude"`
	Longitude            float64   `gorm:"column:longitude"`
	Description          string    `gorm:"column:description"`
	WithVAT              bool      `gorm:"column:with_vat"`
	BIC                  string    `gorm:"column:bic"`
	PaymentAccount       string    `gorm:"column:payment_account"`
	CorrespondentAccount string    `gorm:"column:correspondent_account"`
	BankName             string    `gorm:"column:bank_name"`
	HeadFullName         string    `gorm:"column:head_full_name"`
	Phone                string    `gorm:"column:phone"`
	Email                string    `gorm:"column:email"`
	CityID               int64     `gorm:"column:city_id"`
	ManagerID            int64     `gorm:"column:manager_id"`
	OwnerID              int64     `gorm:"column:owner_id"`
	Status               int       `gorm:"column:status;not null"`
	CreatedAt            time.Time `gorm:"column:created_at;not null"`
	UpdatedAt            time.Time `gorm:"column:updated_at;not null"`
}

func (companyModel) TableName() string {
	return "companies"
}

type CompanyRepository struct {
	db *gormdb.DB
}

func NewCompanyRepository(db *gormdb.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

func (r *CompanyRepository) Get(ctx context.Context, id int64) (domain.Company, error) {
	var model companyModel
	err := r.db.ReadTX(ctx, func(tx *gormdb.Tx) error {
		return tx.Where("id = ?", id).First(&model).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Company{}, domain.ErrNotFound
		}
		return domain.Company{}, fmt.Errorf("get company: %w", err)
	}
	return companyToDomain(model), nil
}

func (r *CompanyRepository) List(ctx context.Context, filter ports.CompanyFilter) ([]domain.Company, error) {
	var models []companyModel
	err := r.db.ReadTX(ctx, func(tx *gormdb.Tx) error {
		query := tx.Model(&companyModel{})
		if filter.Status != 0 {
			query = query.Where("status = ?", int(filter.Status))
		}
		if filter.CityID != 0 {
			query = query.Where("city_id = ?", filter.CityID)
		}
		if filter.Search != "" {
			like := "%" + filter.Search + "%"
			query = query.Where("name LIKE ? OR inn LIKE ?", like, like)
		}
		if filter.AfterID != 0 {
			query = query.Where("id > ?", filter.AfterID)
		}
		if filter.Limit > 0 {
			query = query.Limit(filter.Limit)
		}
		return query.Order("id ASC").Find(&models).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}

	out := make([]domain.Company, 0, len(models))
	for _, model := range models {
		out = append(out, companyToDomain(model))
	}
	return out, nil
}

func (r *CompanyRepository) Create(ctx context.Context, company domain.Company) (domain.Company, error) {
	model := companyToModel(company)
	now := time.Now().UTC()
	model.CreatedAt = now
	model.UpdatedAt = now

	err := r.db.WriteTX(ctx, func(tx *gormdb.Tx) error {
		return tx.Create(&model).Error
	})
	if err != nil {
		return domain.Company{}, fmt.Errorf("insert company: %w", err)
	}
	return companyToDomain(model), nil
}

func (r *CompanyRepository) Update(ctx context.Context, company domain.Company) error {
	model := companyToModel(company)
	model.UpdatedAt = time.Now().UTC()

	var affected int64
	err := r.db.WriteTX(ctx, func(tx *gormdb.Tx) error {
		res := tx.Model(&companyModel{}).Where("id = ?", model.ID).
			Select("*").Omit("id", "created_at").Updates(&model)
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return fmt.Errorf("update company: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func companyToDomain(m companyModel) domain.Company {
	return domain.Company{
		ID:                   m.ID,
		Name:                 m.Name,
		INN:                  m.INN,
		Address:              m.Address,
		Latitude:             m.Latitude,
		Longitude:            m.Longitude,
		Description:          m.Description,
		WithVAT:              m.WithVAT,
		BIC:                  m.BIC,
		PaymentAccount:       m.PaymentAccount,
		CorrespondentAccount: m.CorrespondentAccount,
		BankName:             m.BankName,
		HeadFullName:         m.HeadFullName,
		Phone:                m.Phone,
		Email:                m.Email,
		CityID:               m.CityID,
		ManagerID:            m.ManagerID,
		OwnerID:              m.OwnerID,
		Status:               domain.CompanyStatus(m.Status),
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}

func companyToModel(c domain.Company) companyModel {
	return companyModel{
		ID:                   c.ID,
		Name:                 c.Name,
		INN:                  c.INN,
		Address:              c.Address,
		Latitude:             c.Latitude,
		Longitude:            c.Longitude,
		Description:          c.Description,
		WithVAT:              c.WithVAT,
		BIC:                  c.BIC,
		PaymentAccount:       c.PaymentAccount,
		CorrespondentAccount: c.CorrespondentAccount,
		BankName:             c.BankName,
		HeadFullName:         c.HeadFullName,
		Phone:                c.Phone,
		Email:                c.Email,
		CityID:               c.CityID,
		ManagerID:            c.ManagerID,
		OwnerID:              c.OwnerID,
		Status:               int(c.Status),
		CreatedAt:            c.CreatedAt,
		UpdatedAt:            c.UpdatedAt,
	}
}

type verificationModel struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	CompanyID  int64     `gorm:"column:company_id;not null"`
	EmployeeID int64     `gorm:"column:employee_id"`
	Status     int       `gorm:"column:status;not null"`
	Comment    string    `gorm:"column:comment"`
	CreatedAt  time.Time `gorm:"column:created_at;not null"`
}

func (verificationModel) TableName() string {
	return "company_verification_requests"
}

type VerificationRepository struct {
	db *gormdb.DB
}

func NewVerificationRepository(db *gormdb.DB) *VerificationRepository {
	return &VerificationRepository{db: db}
}

func (r *VerificationRepository) Create(ctx context.Context, req domain.CompanyVerificationRequest) (domain.CompanyVerificationRequest, error) {
	model := verificationModel{
		CompanyID:  req.CompanyID,
		EmployeeID: req.EmployeeID,
		Status:     int(req.Status),
		Comment:    req.Comment,
		CreatedAt:  time.Now().UTC(),
	}
	err := r.db.WriteTX(ctx, func(tx *gormdb.Tx) error {
		return tx.Create(&model).Error
	})
	if err != nil {
		return domain.CompanyVerificationRequest{}, fmt.Errorf("insert verification request: %w", err)
	}
	return verificationToDomain(model), nil
}

func (r *VerificationRepository) Get(ctx context.Context, id int64) (domain.CompanyVerificationRequest, error) {
	var model verificationModel
	err := r.db.ReadTX(ctx, func(tx *gormdb.Tx) error {
		return tx.Where("id = ?", id).First(&model).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.CompanyVerificationRequest{}, domain.ErrNotFound
		}
		return domain.CompanyVerificationRequest{}, fmt.Errorf("get verification request: %w", err)
	}
	return verificationToDomain(model), nil
}

func (r *VerificationRepository) Update(ctx context.Context, req domain.CompanyVerificationRequest) error {
	var affected int64
	err := r.db.WriteTX(ctx, func(tx *gormdb.Tx) error {
		res := tx.Model(&verificationModel{}).Where("id = ?", req.ID).
			Updates(map[string]any{
				"status":  int(req.Status),
				"comment": req.Comment,
			})
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return fmt.Errorf("update verification request: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func verificationToDomain(m verificationModel) domain.CompanyVerificationRequest {
	return domain.CompanyVerificationRequest{
		ID:         m.ID,
		CompanyID:  m.CompanyID,
		EmployeeID: m.EmployeeID,
		Status:     domain.VerificationStatus(m.Status),
		Comment:    m.Comment,
		CreatedAt:  m.CreatedAt,
	}
}
