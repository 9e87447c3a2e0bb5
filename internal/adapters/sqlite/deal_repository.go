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

type dealModel struct {
	ID                int64     `gorm:"column:id;primaryKey;autoIncrement"`
	DealNumber        string    `gorm:"column:deal_number;not null"`
	ApplicationID     int64     `gorm:"column:application_id;not null"`
	SupplierCompanyID int64     `gorm:"column:supplier_company_id;not null"`
	BuyerCompanyID    int64     `gorm:"column:buyer_company_id;not null"`
	Status            int       `gorm:"column:status;not null"`
	Price             float64   `gorm:"column:price"`
	WithVAT           bool      `gorm:"column:with_vat"`
	Weight            int64     `gorm:"column:weight"`
	LoadedWeight      int64     `gorm:"column:loaded_weight"`
	AcceptedWeight    int64     `gorm:"column:accepted_weight"`
	ShippingDate      time.Time `gorm:"column:shipping_date"`
	DeliveryDate      time.Time `gorm:"column:delivery_date"`
	ShippingAddress   string    `gorm:"column:shipping_address"`
	ShippingCityID    int64     `gorm:"column:shipping_city_id"`
	DeliveryCityID    int64     `gorm:"column:delivery_city_id"`
	ShippingLatitude  float64   `gorm:"column:shipping_latitude"`
	ShippingLongitude float64   `gorm:"column:shipping_longitude"`
	WhoDelivers       int       `gorm:"column:who_delivers"`
	BuyerPaysShipping bool      `gorm:"column:buyer_pays_shipping"`
	PaymentTerm       int       `gorm:"column:payment_term"`
	OtherPaymentTerm  string    `gorm:"column:other_payment_term"`
	LoadingHours      string    `gorm:"column:loading_hours"`
	CreatedByID       int64     `gorm:"column:created_by_id"`
	IsDeleted         bool      `gorm:"column:is_deleted"`
	CreatedAt         time.Time `gorm:"column:created_at;not null"`
	UpdatedAt         time.Time `gorm:"column:updated_at;not null"`
}

func (dealModel) TableName() string {
	return "recyclables_deals"
}

type DealRepository struct {
	db *gormdb.DB
}

func NewDealRepository(db *gormdb.DB) *DealRepository {
	return &DealRepository{db: db}
}

func (r *DealRepository) Get(ctx context.Context, id int64) (domain.RecyclablesDeal, error) {
	var model dealModel
	err := r.db.ReadTX(ctx, func(tx *gormdb.Tx) error {
		return tx.Where("id = ?", id).First(&model).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecyclablesDeal{}, domain.ErrNotFound
		}
		return domain.RecyclablesDeal{}, fmt.Errorf("get deal: %w", err)
	}
	return dealToDomain(model), nil
}

func (r *DealRepository) List(ctx context.Context, filter domain.DealFilter) ([]domain.RecyclablesDeal, error) {
	var models []dealModel
	err := r.db.ReadTX(ctx, func(tx *gormdb.Tx) error {
		query := tx.Model(&dealModel{})
		if filter.CompanyID != 0 {
			query = query.Where("supplier_company_id = ? OR buyer_company_id = ?", filter.CompanyID, filter.CompanyID)
		}
		if filter.Status != 0 {
			query = query.Where("status = ?", int(filter.Status))
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
		return nil, fmt.Errorf("list deals: %w", err)
	}

	out := make([]domain.RecyclablesDeal, 0, len(models))
	for _, model := range models {
		out = append(out, dealToDomain(model))
	}
	return out, nil
}

func (r *DealRepository) Create(ctx context.Context, deal domain.RecyclablesDeal) (domain.RecyclablesDeal, error) {
	model := dealToModel(deal)
	now := time.Now().UTC()
	model.CreatedAt = now
	model.UpdatedAt = now

	err := r.db.WriteTX(ctx, func(tx *gormdb.Tx) error {
		return tx.Create(&model).Error
	})
	if err != nil {
		return domain.RecyclablesDeal{}, fmt.Errorf("insert deal: %w", err)
	}
	return dealToDomain(model), nil
}

func (r *DealRepository) Update(ctx context.Context, deal domain.RecyclablesDeal) error {
	model := dealToModel(deal)
	model.UpdatedAt = time.Now().UTC()

	var affected int64
	err := r.db.WriteTX(ctx, func(tx *gormdb.Tx) error {
		res := tx.Model(&dealModel{}).Where("id = ?", model.ID).
			Select("*").Omit("id", "created_at").Updates(&model)
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return fmt.Errorf("update deal: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func dealToDomain(m dealModel) domain.RecyclablesDeal {
	return domain.RecyclablesDeal{
		ID:                m.ID,
		DealNumber:        m.DealNumber,
		ApplicationID:     m.ApplicationID,
		SupplierCompanyID: m.SupplierCompanyID,
		BuyerCompanyID:    m.BuyerCompanyID,
		Status:            domain.DealStatus(m.Status),
		Price:             m.Price,
		WithVAT:           m.WithVAT,
		Weight:            m.Weight,
		LoadedWeight:      m.LoadedWeight,
		AcceptedWeight:    m.AcceptedWeight,
		ShippingDate:      m.ShippingDate,
		DeliveryDate:      m.DeliveryDate,
		ShippingAddress:   m.ShippingAddress,
		ShippingCityID:    m.ShippingCityID,
		DeliveryCityID:    m.DeliveryCityID,
		ShippingLatitude:  m.ShippingLatitude,
		ShippingLongitude: m.ShippingLongitude,
		WhoDelivers:       domain.WhoDelivers(m.WhoDelivers),
		BuyerPaysShipping: m.BuyerPaysShipping,
		PaymentTerm:       domain.PaymentTerm(m.PaymentTerm),
		OtherPaymentTerm:  m.OtherPaymentTerm,
		LoadingHours:      m.LoadingHours,
		CreatedByID:       m.CreatedByID,
		IsDeleted:         m.IsDeleted,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func dealToModel(d domain.RecyclablesDeal) dealModel {
	return dealModel{
		ID:                d.ID,
		DealNumber:        d.DealNumber,
		ApplicationID:     d.ApplicationID,
		SupplierCompanyID: d.SupplierCompanyID,
		BuyerCompanyID:    d.BuyerCompanyID,
		Status:            int(d.Status),
		Price:             d.Price,
		WithVAT:           d.WithVAT,
		Weight:            d.Weight,
		LoadedWeight:      d.LoadedWeight,
		AcceptedWeight:    d.AcceptedWeight,
		ShippingDate:      d.ShippingDate,
		DeliveryDate:      d.DeliveryDate,
		ShippingAddress:   d.ShippingAddress,
		ShippingCityID:    d.ShippingCityID,
		DeliveryCityID:    d.DeliveryCityID,
		ShippingLatitude:  d.ShippingLatitude,
		ShippingLongitude: d.ShippingLongitude,
		WhoDelivers:       int(d.WhoDelivers),
		BuyerPaysShipping: d.BuyerPaysShipping,
		PaymentTerm:       int(d.PaymentTerm),
		OtherPaymentTerm:  d.OtherPaymentTerm,
		LoadingHours:      d.LoadingHours,
		CreatedByID:       d.CreatedByID,
		IsDeleted:         d.IsDeleted,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}
