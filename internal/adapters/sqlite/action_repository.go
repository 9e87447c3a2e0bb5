package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vtorprice/exchange-api/internal/adapters/sqlite/gormdb"
	"github.com/vtorprice/exchange-api/internal/core/domain"
)

type actionModel struct {
	ID            int64     `gorm:"column:id;primaryKey;autoIncrement"`
	UserID        int64     `gorm:"column:user_id;not null"`
	Action        int       `gorm:"column:action;not null"`
	Entity        int       `gorm:"column:entity"`
	EntityID      string    `gorm:"column:entity_id"`
	UpdatedFields string    `gorm:"column:updated_fields;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;not null"`
}

func (actionModel) TableName() string {
	return "user_actions"
}

// ActionRecordRepository stores the user action trail. UpdatedFields is a
// JSON array of free-form "field - value" strings; entity_id stays text so
// rows survive their subjects.
type ActionRecordRepository struct {
	db *gormdb.DB
}

func NewActionRecordRepository(db *gormdb.DB) *ActionRecordRepository {
	return &ActionRecordRepository{db: db}
}

func (r *ActionRecordRepository) Create(ctx context.Context, record domain.ActionRecord) (domain.ActionRecord, error) {
	fields := record.UpdatedFields
	if fields == nil {
		fields = []string{}
	}
	encoded, err := json.Marshal(fields)
	if err != nil {
		return domain.ActionRecord{}, fmt.Errorf("encode updated fields: %w", err)
	}

	model := actionModel{
		UserID:        record.UserID,
		Action:        int(record.Action),
		Entity:        int(record.Entity),
		EntityID:      record.EntityID,
		UpdatedFields: string(encoded),
		CreatedAt:     time.Now().UTC(),
	}

	err = r.db.WriteTX(ctx, func(tx *gormdb.Tx) error {
		return tx.Create(&model).Error
	})
	if err != nil {
		return domain.ActionRecord{}, fmt.Errorf("insert action record: %w", err)
	}
	return actionToDomain(model)
}

func (r *ActionRecordRepository) List(ctx context.Context, filter domain.ActionFilter) ([]domain.ActionRecord, error) {
	var models []actionModel
	err := r.db.ReadTX(ctx, func(tx *gormdb.Tx) error {
		query := tx.Model(&actionModel{})
		if filter.UserID != 0 {
			query = query.Where("user_id = ?", filter.UserID)
		}
		if filter.Action != 0 {
			query = query.Where("action = ?", int(filter.Action))
		}
		if filter.Entity != 0 {
			query = query.Where("entity = ?", int(filter.Entity))
		}
		if filter.AfterID != 0 {
			query = query.Where("id > ?", filter.AfterID)
		}
		if filter.Limit > 0 {
			query = query.Limit(filter.Limit)
		}
		return query.Order("id DESC").Find(&models).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list action records: %w", err)
	}

	out := make([]domain.ActionRecord, 0, len(models))
	for _, model := range models {
		record, err := actionToDomain(model)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, nil
}

func actionToDomain(m actionModel) (domain.ActionRecord, error) {
	var fields []string
	if m.UpdatedFields != "" {
		if err := json.Unmarshal([]byte(m.UpdatedFields), &fields); err != nil {
			return domain.ActionRecord{}, fmt.Errorf("decode updated fields of record %d: %w", m.ID, err)
		}
	}
	return domain.ActionRecord{
		ID:            m.ID,
		UserID:        m.UserID,
		Action:        domain.ActionKind(m.Action),
		Entity:        domain.EntityKind(m.Entity),
		EntityID:      m.EntityID,
		UpdatedFields: fields,
		CreatedAt:     m.CreatedAt,
	}, nil
}
