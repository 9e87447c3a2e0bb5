package sqlite

import (
	"context"
	"fmt"

	"github.com/vtorprice/exchange-api/internal/adapters/sqlite/gormdb"
	"github.com/vtorprice/exchange-api/internal/core/domain"
)

type cityModel struct {
	ID     int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name   string `gorm:"column:name;not null"`
	Region string `gorm:"column:region"`
}

func (cityModel) TableName() string {
	return "cities"
}

type CityRepository struct {
	db *gormdb.DB
}

func NewCityRepository(db *gormdb.DB) *CityRepository {
	return &CityRepository{db: db}
}

func (r *CityRepository) List(ctx context.Context) ([]domain.City, error) {
	var models []cityModel
	err := r.db.ReadTX(ctx, func(tx *gormdb.Tx) error {
		return tx.Order("name ASC").Find(&models).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}

	out := make([]domain.City, 0, len(models))
	for _, model := range models {
		out = append(out, domain.City{
			ID:     model.ID,
			Name:   model.Name,
			Region: model.Region,
		})
	}
	return out, nil
}
