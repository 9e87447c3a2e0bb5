package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/vtorprice/exchange-api/internal/adapters/sqlite/gormdb"
	"github.com/vtorprice/exchange-api/internal/core/domain"
)

type applicationModel struct {
	ID            int64     `gorm:"column:id;primaryKey;autoIncrement"`
	CompanyID     int64     `gorm:"column:company_id;not null"`
	RecyclablesID int64     `gorm:"column:recyclables_id;not null"`
	DealType      int       `gorm:"column:deal_type;not null"`
	Urgency       int       `gorm:"column:urgency;not null"`
	Status        int       `gorm:"column:status;not null"`
	Volume        int64     `gorm:"column:volume"`
	Price         float64   `gorm:"column:price"`
	WithVAT       bool      `gorm:"column:with_vat"`
	CityID        int64     `gorm:"column:city_id"`
	Address       string    `gorm:"column:address"`
	Latitude      float64   `gorm:"column:latitude"`
	Longitude     float64   `gorm:"column:longitude"`
	FullWeight    int64     `gorm:"column:full_weight"`
	IsDeleted     bool      `gorm:"column:is_deleted"`
	CreatedAt     time.Time `gorm:"column:created_at;not null"`
	UpdatedAt     time.Time `gorm:"column:updated_at;not null"`
}

func (applicationModel) TableName() string {
	return "recyclables_applications"
}

type ApplicationRepository struct {
	db *gormdb.DB
}

func NewApplicationRepository(db *gormdb.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) Get(ctx context.Context, id int64) (domain.RecyclablesApplication, error) {
	var model applicationModel
	err := r.db.ReadTX(ctx, func(tx *gormdb.Tx) error {
		return tx.Where("id = ?", id).First(&model).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecyclablesApplication{}, domain.ErrNotFound
		}
		return domain.RecyclablesApplication{}, fmt.Errorf("get application: %w", err)
	}
	return applicationToDomain(model), nil
}

func (r *ApplicationRepository) List(ctx context.Context, filter domain.ApplicationFilter) ([]domain.RecyclablesApplication, error) {
	var models []applicationModel
	err := r.db.ReadTX(ctx, func(tx *gormdb.Tx) error {
		query := tx.Model(&applicationModel{})
		if filter.CompanyID != 0 {
			query = query.Where("company_id = ?", filter.CompanyID)
		}
		if filter.Urgency != 0 {
			query = query.Where("urgency = ?", int(filter.Urgency))
		}
		if filter.DealType != 0 {
			query = query.Where("deal_type = ?", int(filter.DealType))
		}
		if filter.CategoryID != 0 {
			query = query.Where("recyclables_id IN (?)",
				tx.Model(&recyclablesModel{}).Select("id").Where("category_id = ?", filter.CategoryID))
		}
		if filter.Deleted != nil {
			query = query.Where("is_deleted = ?", *filter.Deleted)
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
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return applicationsToDomain(models), nil
}

func (r *ApplicationRepository) FindOpen(ctx context.Context, companyID int64, dealType domain.DealType, recyclablesID int64) ([]domain.RecyclablesApplication, error) {
	var models []applicationModel
	err := r.db.ReadTX(ctx, func(tx *gormdb.Tx) error {
		return tx.
			Where("company_id = ? AND deal_type = ? AND recyclables_id = ?", companyID, int(dealType), recyclablesID).
			Where("status <= ?", int(domain.ApplicationPublished)).
			Order("id ASC").
			Find(&models).Error
	})
	if err != nil {
		return nil, fmt.Errorf("find open applications: %w", err)
	}
	return applicationsToDomain(models), nil
}

// CreateBatch inserts all rows in one statement; gorm backfills the
// generated ids into the models, so the returned slice keeps input order.
func (r *ApplicationRepository) CreateBatch(ctx context.Context, apps []domain.RecyclablesApplication) ([]domain.RecyclablesApplication, error) {
	if len(apps) == 0 {
		return nil, nil
	}

	now := time.Now().UTC()
	models := make([]applicationModel, 0, len(apps))
	for _, app := range apps {
		model := applicationToModel(app)
		model.CreatedAt = now
		model.UpdatedAt = now
		models = append(models, model)
	}

	err := r.db.WriteTX(ctx, func(tx *gormdb.Tx) error {
		return tx.Create(&models).Error
	})
	if err != nil {
		return nil, fmt.Errorf("insert applications: %w", err)
	}
	return applicationsToDomain(models), nil
}

func (r *ApplicationRepository) Update(ctx context.Context, app domain.RecyclablesApplication) error {
	model := applicationToModel(app)
	model.UpdatedAt = time.Now().UTC()

	var affected int64
	err := r.db.WriteTX(ctx, func(tx *gormdb.Tx) error {
		res := tx.Model(&applicationModel{}).Where("id = ?", model.ID).
			Select("*").Omit("id", "created_at").Updates(&model)
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return fmt.Errorf("update application: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ApplicationRepository) ListSupply(ctx context.Context, categoryID int64, dealType domain.DealType) ([]domain.RecyclablesApplication, error) {
	var models []applicationModel
	err := r.db.ReadTX(ctx, func(tx *gormdb.Tx) error {
		return tx.Model(&applicationModel{}).
			Where("urgency = ? AND deal_type = ? AND is_deleted = ?", int(domain.UrgencySupplyContract), int(dealType), false).
			Where("recyclables_id IN (?)",
				tx.Model(&recyclablesModel{}).Select("id").Where("category_id = ?", categoryID)).
			Order("id DESC").
			Find(&models).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list supply applications: %w", err)
	}
	return applicationsToDomain(models), nil
}

func applicationsToDomain(models []applicationModel) []domain.RecyclablesApplication {
	out := make([]domain.RecyclablesApplication, 0, len(models))
	for _, model := range models {
		out = append(out, applicationToDomain(model))
	}
	return out
}

func applicationToDomain(m applicationModel) domain.RecyclablesApplication {
	return domain.RecyclablesApplication{
		ID:            m.ID,
		CompanyID:     m.CompanyID,
		RecyclablesID: m.RecyclablesID,
		DealType:      domain.DealType(m.DealType),
		Urgency:       domain.UrgencyType(m.Urgency),
		Status:        domain.ApplicationStatus(m.Status),
		Volume:        m.Volume,
		Price:         m.Price,
		WithVAT:       m.WithVAT,
		CityID:        m.CityID,
		Address:       m.Address,
		Latitude:      m.Latitude,
		Longitude:     m.Longitude,
		FullWeight:    m.FullWeight,
		IsDeleted:     m.IsDeleted,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func applicationToModel(a domain.RecyclablesApplication) applicationModel {
	return applicationModel{
		ID:            a.ID,
		CompanyID:     a.CompanyID,
		RecyclablesID: a.RecyclablesID,
		DealType:      int(a.DealType),
		Urgency:       int(a.Urgency),
		Status:        int(a.Status),
		Volume:        a.Volume,
		Price:         a.Price,
		WithVAT:       a.WithVAT,
		CityID:        a.CityID,
		Address:       a.Address,
		Latitude:      a.Latitude,
		Longitude:     a.Longitude,
		FullWeight:    a.FullWeight,
		IsDeleted:     a.IsDeleted,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}
