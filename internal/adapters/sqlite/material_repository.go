package sqlite

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/vtorprice/exchange-api/internal/adapters/sqlite/gormdb"
	"github.com/vtorprice/exchange-api/internal/core/domain"
)

type categoryModel struct {
	ID   int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name string `gorm:"column:name;not null"`
}

func (categoryModel) TableName() string {
	return "recyclables_categories"
}

type recyclablesModel struct {
	ID         int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name       string `gorm:"column:name;not null"`
	CategoryID int64  `gorm:"column:category_id;not null"`
}

func (recyclablesModel) TableName() string {
	return "recyclables"
}

type RecyclablesRepository struct {
	db *gormdb.DB
}

func NewRecyclablesRepository(db *gormdb.DB) *RecyclablesRepository {
	return &RecyclablesRepository{db: db}
}

func (r *RecyclablesRepository) Get(ctx context.Context, id int64) (domain.Recyclables, error) {
	var model recyclablesModel
	var category categoryModel
	err := r.db.ReadTX(ctx, func(tx *gormdb.Tx) error {
		if err := tx.Where("id = ?", id).First(&model).Error; err != nil {
			return err
		}
		err := tx.Where("id = ?", model.CategoryID).First(&category).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Recyclables{}, domain.ErrNotFound
		}
		return domain.Recyclables{}, fmt.Errorf("get recyclables: %w", err)
	}

	return domain.Recyclables{
		ID:   model.ID,
		Name: model.Name,
		Category: domain.RecyclablesCategory{
			ID:   category.ID,
			Name: category.Name,
		},
	}, nil
}

func (r *RecyclablesRepository) List(ctx context.Context, categoryID int64) ([]domain.Recyclables, error) {
	var models []recyclablesModel
	var cats []categoryModel
	err := r.db.ReadTX(ctx, func(tx *gormdb.Tx) error {
		query := tx.Model(&recyclablesModel{})
		if categoryID != 0 {
			query = query.Where("category_id = ?", categoryID)
		}
		if err := query.Order("id ASC").Find(&models).Error; err != nil {
			return err
		}
		return tx.Find(&cats).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list recyclables: %w", err)
	}

	categories := map[int64]categoryModel{}
	for _, c := range cats {
		categories[c.ID] = c
	}

	out := make([]domain.Recyclables, 0, len(models))
	for _, model := range models {
		cat := categories[model.CategoryID]
		out = append(out, domain.Recyclables{
			ID:   model.ID,
			Name: model.Name,
			Category: domain.RecyclablesCategory{
				ID:   cat.ID,
				Name: cat.Name,
			},
		})
	}
	return out, nil
}
