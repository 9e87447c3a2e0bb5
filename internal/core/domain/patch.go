package domain

import "strings"

// Patch structs are the typed request-field mappings handed to the diff
// engine and the update services. A nil field means the request did not
// supply it. Boolean-like flags and dates stay strings because that is how
// forms send them; the diff engine coerces them and skips malformed values
// with a warning.

type CompanyPatch struct {
	Name                 *string
	INN                  *string
	Address              *string
	Latitude             *float64
	Longitude            *float64
	Description          *string
	WithVAT              *string
	BIC                  *string
	PaymentAccount       *string
	CorrespondentAccount *string
	BankName             *string
	HeadFullName         *string
	Phone                *string
	CityID               *int64
	Email                *string
	ManagerID            *int64
}

type ApplicationPatch struct {
	IsDeleted     *string
	Address       *string
	Latitude      *float64
	Longitude     *float64
	WithVAT       *string
	DealType      *int64
	Volume        *int64
	Price         *float64
	CityID        *int64
	CompanyID     *int64
	RecyclablesID *int64
	Status        *int64
	FullWeight    *int64
}

type DealPatch struct {
	IsDeleted         *string
	WithVAT           *string
	Price             *float64
	Status            *int64
	PaymentTerm       *int64
	OtherPaymentTerm  *string
	LoadedWeight      *int64
	AcceptedWeight    *int64
	ShippingDate      *string
	WhoDelivers       *int64
	BuyerPaysShipping *string
	ShippingAddress   *string
	ShippingLatitude  *float64
	ShippingLongitude *float64
	ApplicationID     *int64
	BuyerCompanyID    *int64
	DeliveryCityID    *int64
	ShippingCityID    *int64
	SupplierCompanyID *int64
	DeliveryDate      *string
	DealNumber        *string
	LoadingHours      *string
	CreatedByID       *int64
	Weight            *int64
}

// ParseFlag coerces a form boolean string. Accepted spellings follow the
// usual yes/no set; anything else is a coercion error.
func ParseFlag(raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "yes", "true", "t", "1":
		return true, nil
	case "no", "false", "f", "0":
		return false, nil
	}
	return false, &FieldCoercionError{Raw: raw}
}
