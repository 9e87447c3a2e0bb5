package domain

import "time"

type DealStatus int

const (
	DealNew DealStatus = iota + 1
	DealAgreement
	DealShipped
	DealCompleted
	DealFailed
)

type WhoDelivers int

const (
	DeliversSupplier WhoDelivers = iota + 1
	DeliversBuyer
)

type PaymentTerm int

const (
	PaymentUponLoading PaymentTerm = iota + 1
	PaymentUponDelivery
	PaymentOther
)

// RecyclablesDeal is a realized transaction between two companies derived
// from a matched application.
type RecyclablesDeal struct {
	ID                int64
	DealNumber        string
	ApplicationID     int64
	SupplierCompanyID int64
	BuyerCompanyID    int64
	Status            DealStatus
	Price             float64
	WithVAT           bool
	Weight            int64
	LoadedWeight      int64
	AcceptedWeight    int64
	ShippingDate      time.Time
	DeliveryDate      time.Time
	ShippingAddress   string
	ShippingCityID    int64
	DeliveryCityID    int64
	ShippingLatitude  float64
	ShippingLongitude float64
	WhoDelivers       WhoDelivers
	BuyerPaysShipping bool
	PaymentTerm       PaymentTerm
	OtherPaymentTerm  string
	LoadingHours      string
	CreatedByID       int64
	IsDeleted         bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type DealFilter struct {
	CompanyID int64
	Status    DealStatus
	AfterID   int64
	Limit     int
}
