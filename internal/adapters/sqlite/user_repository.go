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

type userModel struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Phone      string    `gorm:"column:phone;not null"`
	Email      string    `gorm:"column:email"`
	FirstName  string    `gorm:"column:first_name"`
	MiddleName string    `gorm:"column:middle_name"`
	LastName   string    `gorm:"column:last_name"`
	Role       int       `gorm:"column:role;not null"`
	Status     int       `gorm:"column:status;not null"`
	CompanyID  int64     `gorm:"column:company_id"`
	Code       string    `gorm:"column:code"`
	CreatedAt  time.Time `gorm:"column:created_at;not null"`
	UpdatedAt  time.Time `gorm:"column:updated_at;not null"`
}

func (userModel) TableName() string {
	return "users"
}

type UserRepository struct {
	db *gormdb.DB
}

func NewUserRepository(db *gormdb.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Get(ctx context.Context, id int64) (domain.User, error) {
	var model userModel
	err := r.db.ReadTX(ctx, func(tx *gormdb.Tx) error {
		return tx.Where("id = ?", id).First(&model).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	return userToDomain(model), nil
}

func (r *UserRepository) GetByPhone(ctx context.Context, phone string) (domain.User, error) {
	var model userModel
	err := r.db.ReadTX(ctx, func(tx *gormdb.Tx) error {
		return tx.Where("phone = ?", phone).First(&model).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, fmt.Errorf("get user by phone: %w", err)
	}
	return userToDomain(model), nil
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	model := userToModel(user)
	now := time.Now().UTC()
	model.CreatedAt = now
	model.UpdatedAt = now

	err := r.db.WriteTX(ctx, func(tx *gormdb.Tx) error {
		return tx.Create(&model).Error
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("insert user: %w", err)
	}
	return userToDomain(model), nil
}

func (r *UserRepository) Update(ctx context.Context, user domain.User) error {
	model := userToModel(user)
	model.UpdatedAt = time.Now().UTC()

	var affected int64
	err := r.db.WriteTX(ctx, func(tx *gormdb.Tx) error {
		res := tx.Model(&userModel{}).Where("id = ?", model.ID).
			Select("*").Omit("id", "created_at").Updates(&model)
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func userToDomain(m userModel) domain.User {
	return domain.User{
		ID:         m.ID,
		Phone:      m.Phone,
		Email:      m.Email,
		FirstName:  m.FirstName,
		MiddleName: m.MiddleName,
		LastName:   m.LastName,
		Role:       domain.UserRole(m.Role),
		Status:     domain.UserStatus(m.Status),
		CompanyID:  m.CompanyID,
		Code:       m.Code,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func userToModel(u domain.User) userModel {
	return userModel{
		ID:         u.ID,
		Phone:      u.Phone,
		Email:      u.Email,
		FirstName:  u.FirstName,
		MiddleName: u.MiddleName,
		LastName:   u.LastName,
		Role:       int(u.Role),
		Status:     int(u.Status),
		CompanyID:  u.CompanyID,
		Code:       u.Code,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}
