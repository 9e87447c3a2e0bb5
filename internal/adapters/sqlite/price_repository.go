package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/vtorprice/exchange-api/internal/adapters/sqlite/gormdb"
	"github.com/vtorprice/exchange-api/internal/core/domain"
)

type priceMarkModel struct {
	ID              int64     `gorm:"column:id;primaryKey;autoIncrement"`
	CompanyID       int64     `gorm:"column:company_id;not null"`
	CompanyName     string    `gorm:"column:company_name;not null"`
	RecyclablesID   int64     `gorm:"column:recyclables_id;not null"`
	RecyclablesName string    `gorm:"column:recyclables_name;not null"`
	CategoryID      int64     `gorm:"column:category_id"`
	CategoryName    string    `gorm:"column:category_name"`
	ApplicationID   int64     `gorm:"column:application_id;not null"`
	DealType        int       `gorm:"column:deal_type;not null"`
	Price           float64   `gorm:"column:price;not null"`
	CreatedAt       time.Time `gorm:"column:created_at;not null"`
}

func (priceMarkModel) TableName() string {
	return "price_marks"
}

// PriceMarkRepository only inserts and reads. There is no update or delete
// path; history rows are immutable.
type PriceMarkRepository struct {
	db *gormdb.DB
}

func NewPriceMarkRepository(db *gormdb.DB) *PriceMarkRepository {
	return &PriceMarkRepository{db: db}
}

func (r *PriceMarkRepository) Create(ctx context.Context, mark domain.PriceMark) (domain.PriceMark, error) {
	model := priceMarkModel{
		CompanyID:       mark.CompanyID,
		CompanyName:     mark.CompanyName,
		RecyclablesID:   mark.RecyclablesID,
		RecyclablesName: mark.RecyclablesName,
		CategoryID:      mark.CategoryID,
		CategoryName:    mark.CategoryName,
		ApplicationID:   mark.ApplicationID,
		DealType:        int(mark.DealType),
		Price:           mark.Price,
		CreatedAt:       time.Now().UTC(),
	}

	err := r.db.WriteTX(ctx, func(tx *gormdb.Tx) error {
		return tx.Create(&model).Error
	})
	if err != nil {
		return domain.PriceMark{}, fmt.Errorf("insert price mark: %w", err)
	}
	return priceMarkToDomain(model), nil
}

func (r *PriceMarkRepository) List(ctx context.Context, filter domain.PriceMarkFilter) ([]domain.PriceMark, error) {
	var models []priceMarkModel
	err := r.db.ReadTX(ctx, func(tx *gormdb.Tx) error {
		query := tx.Model(&priceMarkModel{})
		if filter.CompanyID != 0 {
			query = query.Where("company_id = ?", filter.CompanyID)
		}
		if filter.ApplicationID != 0 {
			query = query.Where("application_id = ?", filter.ApplicationID)
		}
		if filter.Limit > 0 {
			query = query.Limit(filter.Limit)
		}
		return query.Order("id DESC").Find(&models).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list price marks: %w", err)
	}

	out := make([]domain.PriceMark, 0, len(models))
	for _, model := range models {
		out = append(out, priceMarkToDomain(model))
	}
	return out, nil
}

func priceMarkToDomain(m priceMarkModel) domain.PriceMark {
	return domain.PriceMark{
		ID:              m.ID,
		CompanyID:       m.CompanyID,
		CompanyName:     m.CompanyName,
		RecyclablesID:   m.RecyclablesID,
		RecyclablesName: m.RecyclablesName,
		CategoryID:      m.CategoryID,
		CategoryName:    m.CategoryName,
		ApplicationID:   m.ApplicationID,
		DealType:        domain.DealType(m.DealType),
		Price:           m.Price,
		CreatedAt:       m.CreatedAt,
	}
}
