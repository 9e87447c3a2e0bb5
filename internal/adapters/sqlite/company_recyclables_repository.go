package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vtorprice/exchange-api/internal/adapters/sqlite/gormdb"
	"github.com/vtorprice/exchange-api/internal/core/domain"
)

type companyRecyclablesModel struct {
	ID            int64     `gorm:"column:id;primaryKey;autoIncrement"`
	CompanyID     int64     `gorm:"column:company_id;not null"`
	RecyclablesID int64     `gorm:"column:recyclables_id;not null"`
	Action        int       `gorm:"column:action;not null"`
	MonthlyVolume int64     `gorm:"column:monthly_volume"`
	Price         float64   `gorm:"column:price"`
	Deleted       bool      `gorm:"column:deleted"`
	CreatedAt     time.Time `gorm:"column:created_at;not null"`
	UpdatedAt     time.Time `gorm:"column:updated_at;not null"`
}

func (companyRecyclablesModel) TableName() string {
	return "company_recyclables"
}

type CompanyRecyclablesRepository struct {
	db *gormdb.DB
}

func NewCompanyRecyclablesRepository(db *gormdb.DB) *CompanyRecyclablesRepository {
	return &CompanyRecyclablesRepository{db: db}
}

// Upsert keys on (company, material, action) so resubmitting a card row
// overwrites the profile instead of duplicating it.
func (r *CompanyRecyclablesRepository) Upsert(ctx context.Context, item domain.CompanyRecyclables) (domain.CompanyRecyclables, error) {
	now := time.Now().UTC()
	model := companyRecyclablesModel{
		CompanyID:     item.CompanyID,
		RecyclablesID: item.RecyclablesID,
		Action:        int(item.Action),
		MonthlyVolume: item.MonthlyVolume,
		Price:         item.Price,
		Deleted:       item.Deleted,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	var saved companyRecyclablesModel
	err := r.db.WriteTX(ctx, func(tx *gormdb.Tx) error {
		err := tx.
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "company_id"}, {Name: "recyclables_id"}, {Name: "action"}},
				DoUpdates: clause.AssignmentColumns([]string{"monthly_volume", "price", "deleted", "updated_at"}),
			}).
			Create(&model).Error
		if err != nil {
			return err
		}
		return tx.
			Where("company_id = ? AND recyclables_id = ? AND action = ?", item.CompanyID, item.RecyclablesID, int(item.Action)).
			First(&saved).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.CompanyRecyclables{}, domain.ErrNotFound
		}
		return domain.CompanyRecyclables{}, fmt.Errorf("upsert company recyclables: %w", err)
	}
	return companyRecyclablesToDomain(saved), nil
}

func (r *CompanyRecyclablesRepository) ListByCompany(ctx context.Context, companyID int64) ([]domain.CompanyRecyclables, error) {
	var models []companyRecyclablesModel
	err := r.db.ReadTX(ctx, func(tx *gormdb.Tx) error {
		return tx.
			Where("company_id = ?", companyID).
			Order("id ASC").
			Find(&models).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list company recyclables: %w", err)
	}

	out := make([]domain.CompanyRecyclables, 0, len(models))
	for _, model := range models {
		out = append(out, companyRecyclablesToDomain(model))
	}
	return out, nil
}

func companyRecyclablesToDomain(m companyRecyclablesModel) domain.CompanyRecyclables {
	return domain.CompanyRecyclables{
		ID:            m.ID,
		CompanyID:     m.CompanyID,
		RecyclablesID: m.RecyclablesID,
		Action:        domain.RecyclablesAction(m.Action),
		MonthlyVolume: m.MonthlyVolume,
		Price:         m.Price,
		Deleted:       m.Deleted,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
