package domain

import "time"

type DealType int

const (
	DealTypeBuy DealType = iota + 1
	DealTypeSell
)

type UrgencyType int

const (
	UrgencyReadyForShipment UrgencyType = iota + 1
	UrgencySupplyContract
)

type ApplicationStatus int

const (
	ApplicationOnReview ApplicationStatus = iota + 1
	ApplicationPublished
	ApplicationClosed
)

// Open reports whether the application still participates in matching.
// Review and published records count; closed ones do not.
func (s ApplicationStatus) Open() bool {
	return s <= ApplicationPublished
}

// RecyclablesApplication is a standing buy/sell intent for a material, with a
// lifecycle status. Supply contracts (UrgencySupplyContract) are long-running;
// ready-for-shipment listings are one-off.
type RecyclablesApplication struct {
	ID            int64
	CompanyID     int64
	RecyclablesID int64
	DealType      DealType
	Urgency       UrgencyType
	Status        ApplicationStatus
	Volume        int64
	Price         float64
	WithVAT       bool
	CityID        int64
	Address       string
	Latitude      float64
	Longitude     float64
	FullWeight    int64
	IsDeleted     bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type RecyclablesAction int

const (
	ActionBuy RecyclablesAction = iota + 1
	ActionSell
)

// DealType maps the intent action onto an application deal direction.
func (a RecyclablesAction) DealType() DealType {
	if a == ActionBuy {
		return DealTypeBuy
	}
	return DealTypeSell
}

// RecyclablesIntent is one element of a bulk company-recyclables submission:
// an assertion that the company buys or sells a material at a monthly volume
// and price.
type RecyclablesIntent struct {
	CompanyID     int64
	RecyclablesID int64
	Action        RecyclablesAction
	MonthlyVolume int64
	Price         float64
	Deleted       bool
	Status        ApplicationStatus
}

// CompanyRecyclables is the persisted per-company material profile row kept
// in sync by the bulk upsert resolver.
type CompanyRecyclables struct {
	ID            int64
	CompanyID     int64
	RecyclablesID int64
	Action        RecyclablesAction
	MonthlyVolume int64
	Price         float64
	Deleted       bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type ApplicationFilter struct {
	CompanyID  int64
	Urgency    UrgencyType
	DealType   DealType
	CategoryID int64
	Deleted    *bool
	AfterID    int64
	Limit      int
}

// PriceMark is an immutable price-history row appended whenever a supply
// contract is created or its price changes. Names are denormalized on
// purpose: the row must survive renames and deletions of its sources.
type PriceMark struct {
	ID              int64
	CompanyID       int64
	CompanyName     string
	RecyclablesID   int64
	RecyclablesName string
	CategoryID      int64
	CategoryName    string
	ApplicationID   int64
	DealType        DealType
	Price           float64
	CreatedAt       time.Time
}

type PriceMarkFilter struct {
	CompanyID     int64
	ApplicationID int64
	Limit         int
}

// CategoryStats is the per-category supply-contract report: the two most
// recent purchase prices plus buy/sell volume totals in tonnes.
type CategoryStats struct {
	CategoryID       int64
	LastPrice        float64
	PreLastPrice     float64
	PurchaseVolume   float64
	SalesVolume      float64
	PurchaseVolumes  []float64
	SalesVolumes     []float64
}
