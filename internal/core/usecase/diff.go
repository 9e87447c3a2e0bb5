package usecase

import (
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/vtorprice/exchange-api/internal/core/domain"
)

// Diff computes the human-readable change record between a persisted entity
// and an incoming request patch. The field list and comparison order are
// fixed per entity kind. A field contributes an entry only when the patch
// supplies a truthy value and the coerced comparison differs; absent, empty
// or zero patch values are skipped, so clearing a field is never recorded.
type Diff struct {
	log zerolog.Logger
}

func NewDiff(log zerolog.Logger) *Diff {
	return &Diff{log: log}
}

// CompanyChanges lists the company fields the patch would change, as
// "field - value" strings in fixed comparison order.
func (d *Diff) CompanyChanges(c domain.Company, p domain.CompanyPatch) []string {
	var out []string
	if s := strVal(p.Name); s != "" && s != c.Name {
		out = append(out, "name - "+s)
	}
	if s := strVal(p.INN); s != "" && s != c.INN {
		out = append(out, "inn - "+s)
	}
	if s := strVal(p.Address); s != "" && s != c.Address {
		out = append(out, "address - "+s)
	}
	if f64Set(p.Latitude) && c.Latitude == 0 {
		out = append(out, "latitude - "+fmtFloat(*p.Latitude))
	}
	if f64Set(p.Latitude) && c.Latitude != 0 && *p.Latitude != c.Latitude {
		out = append(out, "latitude - "+fmtFloat(*p.Latitude))
	}
	if f64Set(p.Longitude) && c.Longitude == 0 {
		out = append(out, "longitude - "+fmtFloat(*p.Longitude))
	}
	if f64Set(p.Longitude) && c.Longitude != 0 && *p.Longitude != c.Longitude {
		out = append(out, "longitude - "+fmtFloat(*p.Longitude))
	}
	if s := strVal(p.Description); s != "" && s != c.Description {
		out = append(out, "description - "+s)
	}
	if entry, ok := d.flagEntry("with_vat", p.WithVAT, c.WithVAT); ok {
		out = append(out, entry)
	}
	if s := strVal(p.BIC); s != "" && s != c.BIC {
		out = append(out, "bic - "+s)
	}
	if s := strVal(p.PaymentAccount); s != "" && s != c.PaymentAccount {
		out = append(out, "payment_account - "+s)
	}
	if s := strVal(p.CorrespondentAccount); s != "" && s != c.CorrespondentAccount {
		out = append(out, "correspondent_account - "+s)
	}
	if s := strVal(p.BankName); s != "" && s != c.BankName {
		out = append(out, "bank_name - "+s)
	}
	if s := strVal(p.HeadFullName); s != "" && s != c.HeadFullName {
		out = append(out, "head_full_name - "+s)
	}
	if s := strVal(p.Phone); s != "" && s != c.Phone {
		out = append(out, "phone - "+s)
	}
	if i64Set(p.CityID) && (c.CityID == 0 || *p.CityID != c.CityID) {
		out = append(out, "city - "+fmtInt(*p.CityID))
	}
	if s := strVal(p.Email); s != "" && s != c.Email {
		out = append(out, "email - "+s)
	}
	if c.ManagerID == 0 && i64Set(p.ManagerID) {
		out = append(out, "manager - "+fmtInt(*p.ManagerID))
	}
	if i64Set(p.ManagerID) && c.ManagerID != 0 && *p.ManagerID != c.ManagerID {
		out = append(out, "manager - "+fmtInt(*p.ManagerID))
	}
	return out
}

// ApplicationChanges lists the application fields the patch would change.
// Relational fields compare the referenced id, not the referenced object.
func (d *Diff) ApplicationChanges(a domain.RecyclablesApplication, p domain.ApplicationPatch) []string {
	var out []string
	if entry, ok := d.flagEntry("is_deleted", p.IsDeleted, a.IsDeleted); ok {
		out = append(out, entry)
	}
	if s := strVal(p.Address); s != "" && s != a.Address {
		out = append(out, "address - "+s)
	}
	if f64Set(p.Latitude) && *p.Latitude != a.Latitude {
		out = append(out, "latitude - "+fmtFloat(*p.Latitude))
	}
	if f64Set(p.Longitude) && *p.Longitude != a.Longitude {
		out = append(out, "longitude - "+fmtFloat(*p.Longitude))
	}
	if entry, ok := d.flagEntry("with_vat", p.WithVAT, a.WithVAT); ok {
		out = append(out, entry)
	}
	if i64Set(p.DealType) && *p.DealType != int64(a.DealType) {
		out = append(out, "deal_type - "+fmtInt(*p.DealType))
	}
	if i64Set(p.Volume) && *p.Volume != a.Volume {
		out = append(out, "volume - "+fmtInt(*p.Volume))
	}
	if f64Set(p.Price) && *p.Price != a.Price {
		out = append(out, "price - "+fmtFloat(*p.Price))
	}
	if i64Set(p.CityID) && *p.CityID != a.CityID {
		out = append(out, "city - "+fmtInt(*p.CityID))
	}
	if i64Set(p.CompanyID) && *p.CompanyID != a.CompanyID {
		out = append(out, "company - "+fmtInt(*p.CompanyID))
	}
	if i64Set(p.RecyclablesID) && *p.RecyclablesID != a.RecyclablesID {
		out = append(out, "recyclables - "+fmtInt(*p.RecyclablesID))
	}
	if i64Set(p.Status) && *p.Status != int64(a.Status) {
		out = append(out, "status - "+fmtInt(*p.Status))
	}
	if i64Set(p.FullWeight) && *p.FullWeight != a.FullWeight {
		out = append(out, "full_weight - "+fmtInt(*p.FullWeight))
	}
	return out
}

// DealChanges lists the deal fields the patch would change. Shipping date is
// compared by its date prefix: the time component sent by forms is ignored.
func (d *Diff) DealChanges(deal domain.RecyclablesDeal, p domain.DealPatch) []string {
	var out []string
	if entry, ok := d.flagEntry("is_deleted", p.IsDeleted, deal.IsDeleted); ok {
		out = append(out, entry)
	}
	if entry, ok := d.flagEntry("with_vat", p.WithVAT, deal.WithVAT); ok {
		out = append(out, entry)
	}
	if f64Set(p.Price) && *p.Price != deal.Price {
		out = append(out, "price - "+fmtFloat(*p.Price))
	}
	if i64Set(p.Status) && *p.Status != int64(deal.Status) {
		out = append(out, "status - "+fmtInt(*p.Status))
	}
	if i64Set(p.PaymentTerm) && *p.PaymentTerm != int64(deal.PaymentTerm) {
		out = append(out, "payment_term - "+fmtInt(*p.PaymentTerm))
	}
	if s := strVal(p.OtherPaymentTerm); s != "" && s != deal.OtherPaymentTerm {
		out = append(out, "other_payment_term - "+s)
	}
	if i64Set(p.LoadedWeight) && *p.LoadedWeight != deal.LoadedWeight {
		out = append(out, "loaded_weight - "+fmtInt(*p.LoadedWeight))
	}
	if i64Set(p.AcceptedWeight) && *p.AcceptedWeight != deal.AcceptedWeight {
		out = append(out, "accepted_weight - "+fmtInt(*p.AcceptedWeight))
	}
	if s := strVal(p.ShippingDate); s != "" && datePrefix(s) != dateOnly(deal.ShippingDate) {
		out = append(out, "shipping_date - "+datePrefix(s))
	}
	if i64Set(p.WhoDelivers) && *p.WhoDelivers != int64(deal.WhoDelivers) {
		out = append(out, "who_delivers - "+fmtInt(*p.WhoDelivers))
	}
	if entry, ok := d.flagEntry("buyer_pays_shipping", p.BuyerPaysShipping, deal.BuyerPaysShipping); ok {
		out = append(out, entry)
	}
	if s := strVal(p.ShippingAddress); s != "" && s != deal.ShippingAddress {
		out = append(out, "shipping_address - "+s)
	}
	if f64Set(p.ShippingLatitude) && *p.ShippingLatitude != deal.ShippingLatitude {
		out = append(out, "shipping_latitude - "+fmtFloat(*p.ShippingLatitude))
	}
	if f64Set(p.ShippingLongitude) && *p.ShippingLongitude != deal.ShippingLongitude {
		out = append(out, "shipping_longitude - "+fmtFloat(*p.ShippingLongitude))
	}
	if i64Set(p.ApplicationID) && *p.ApplicationID != deal.ApplicationID {
		out = append(out, "application - "+fmtInt(*p.ApplicationID))
	}
	if i64Set(p.BuyerCompanyID) && *p.BuyerCompanyID != deal.BuyerCompanyID {
		out = append(out, "buyer_company - "+fmtInt(*p.BuyerCompanyID))
	}
	if i64Set(p.DeliveryCityID) && *p.DeliveryCityID != deal.DeliveryCityID {
		out = append(out, "delivery_city - "+fmtInt(*p.DeliveryCityID))
	}
	if i64Set(p.ShippingCityID) && *p.ShippingCityID != deal.ShippingCityID {
		out = append(out, "shipping_city - "+fmtInt(*p.ShippingCityID))
	}
	if i64Set(p.SupplierCompanyID) && *p.SupplierCompanyID != deal.SupplierCompanyID {
		out = append(out, "supplier_company - "+fmtInt(*p.SupplierCompanyID))
	}
	if s := strVal(p.DeliveryDate); s != "" && s != dateOnly(deal.DeliveryDate) {
		out = append(out, "delivery_date - "+s)
	}
	if s := strVal(p.DealNumber); s != "" && s != deal.DealNumber {
		out = append(out, "deal_number - "+s)
	}
	if s := strVal(p.LoadingHours); s != "" && s != deal.LoadingHours {
		out = append(out, "loading_hours - "+s)
	}
	if i64Set(p.CreatedByID) && *p.CreatedByID != deal.CreatedByID {
		out = append(out, "created_by - "+fmtInt(*p.CreatedByID))
	}
	if i64Set(p.Weight) && *p.Weight != deal.Weight {
		out = append(out, "weight - "+fmtInt(*p.Weight))
	}
	return out
}

// flagEntry compares a boolean-like form string against the stored flag.
// Malformed strings are skipped with a warning instead of failing the
// request.
func (d *Diff) flagEntry(field string, raw *string, current bool) (string, bool) {
	s := strVal(raw)
	if s == "" {
		return "", false
	}
	v, err := domain.ParseFlag(s)
	if err != nil {
		cerr := &domain.FieldCoercionError{Field: field, Raw: s}
		d.log.Warn().Err(cerr).Msg("skip uncoercible field")
		return "", false
	}
	if v == current {
		return "", false
	}
	return field + " - " + s, true
}

func strVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func i64Set(p *int64) bool {
	return p != nil && *p != 0
}

func f64Set(p *float64) bool {
	return p != nil && *p != 0
}

func fmtFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func fmtInt(i int64) string {
	return strconv.FormatInt(i, 10)
}

// datePrefix truncates a form datetime at its date part.
func datePrefix(s string) string {
	s, _, _ = strings.Cut(s, "T")
	s, _, _ = strings.Cut(s, " ")
	return s
}

func dateOnly(t time.Time) string {
	return t.Format("2006-01-02")
}
