package httpapi

import (
	"net/http"
	"time"

	"github.com/vtorprice/exchange-api/internal/core/domain"
)

type createDealRequest struct {
	ApplicationID int64 `json:"application_id"`
	CompanyID     int64 `json:"company_id"`
}

type dealPatchRequest struct {
	IsDeleted         *string  `json:"is_deleted"`
	WithVAT           *string  `json:"with_vat"`
	Price             *float64 `json:"price"`
	Status            *int64   `json:"status"`
	PaymentTerm       *int64   `json:"payment_term"`
	OtherPaymentTerm  *string  `json:"other_payment_term"`
	LoadedWeight      *int64   `json:"loaded_weight"`
	AcceptedWeight    *int64   `json:"accepted_weight"`
	ShippingDate      *string  `json:"shipping_date"`
	DeliveryDate      *string  `json:"delivery_date"`
	WhoDelivers       *int64   `json:"who_delivers"`
	BuyerPaysShipping *string  `json:"buyer_pays_shipping"`
	ShippingAddress   *string  `json:"shipping_address"`
	ShippingLatitude  *float64 `json:"shipping_latitude"`
	ShippingLongitude *float64 `json:"shipping_longitude"`
	ShippingCityID    *int64   `json:"shipping_city_id"`
	DeliveryCityID    *int64   `json:"delivery_city_id"`
	LoadingHours      *string  `json:"loading_hours"`
	Weight            *int64   `json:"weight"`
}

type dealResponse struct {
	ID                int64   `json:"id"`
	DealNumber        string  `json:"deal_number"`
	ApplicationID     int64   `json:"application_id"`
	SupplierCompanyID int64   `json:"supplier_company_id"`
	BuyerCompanyID    int64   `json:"buyer_company_id"`
	Status            int     `json:"status"`
	Price             float64 `json:"price"`
	WithVAT           bool    `json:"with_vat"`
	Weight            int64   `json:"weight"`
	LoadedWeight      int64   `json:"loaded_weight"`
	AcceptedWeight    int64   `json:"accepted_weight"`
	ShippingDate      string  `json:"shipping_date,omitempty"`
	DeliveryDate      string  `json:"delivery_date,omitempty"`
	ShippingAddress   string  `json:"shipping_address"`
	ShippingCityID    int64   `json:"shipping_city_id"`
	DeliveryCityID    int64   `json:"delivery_city_id"`
	ShippingLatitude  float64 `json:"shipping_latitude"`
	ShippingLongitude float64 `json:"shipping_longitude"`
	WhoDelivers       int     `json:"who_delivers"`
	BuyerPaysShipping bool    `json:"buyer_pays_shipping"`
	PaymentTerm       int     `json:"payment_term"`
	OtherPaymentTerm  string  `json:"other_payment_term"`
	LoadingHours      string  `json:"loading_hours"`
	CreatedByID       int64   `json:"created_by_id"`
	IsDeleted         bool    `json:"is_deleted"`
	CreatedAt         string  `json:"created_at"`
	UpdatedAt         string  `json:"updated_at"`
}

func (h *Handler) listDeals(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(w, r, h)
	if !ok {
		return
	}

	deals, err := h.deals.List(r.Context(), domain.DealFilter{
		CompanyID: queryInt64(r, "company_id"),
		Status:    domain.DealStatus(queryInt64(r, "status")),
		AfterID:   queryInt64(r, "after"),
		Limit:     limit,
	})
	if err != nil {
		h.handleDomainError(w, err)
		return
	}

	result := make([]dealResponse, 0, len(deals))
	for _, deal := range deals {
		result = append(result, toDealResponse(deal))
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"items": result})
}

func (h *Handler) getDeal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid deal id")
		return
	}

	deal, err := h.deals.Get(r.Context(), id)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toDealResponse(deal))
}

func (h *Handler) createDeal(w http.ResponseWriter, r *http.Request) {
	var req createDealRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	if req.ApplicationID == 0 || req.CompanyID == 0 {
		h.writeError(w, http.StatusBadRequest, "application_id and company_id are required")
		return
	}

	deal, err := h.deals.Create(r.Context(), actorFromContext(r.Context()), req.ApplicationID, req.CompanyID)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, toDealResponse(deal))
}

func (h *Handler) updateDeal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid deal id")
		return
	}

	var req dealPatchRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	deal, err := h.deals.Update(r.Context(), actorFromContext(r.Context()), id, domain.DealPatch{
		IsDeleted:         req.IsDeleted,
		WithVAT:           req.WithVAT,
		Price:             req.Price,
		Status:            req.Status,
		PaymentTerm:       req.PaymentTerm,
		OtherPaymentTerm:  req.OtherPaymentTerm,
		LoadedWeight:      req.LoadedWeight,
		AcceptedWeight:    req.AcceptedWeight,
		ShippingDate:      req.ShippingDate,
		DeliveryDate:      req.DeliveryDate,
		WhoDelivers:       req.WhoDelivers,
		BuyerPaysShipping: req.BuyerPaysShipping,
		ShippingAddress:   req.ShippingAddress,
		ShippingLatitude:  req.ShippingLatitude,
		ShippingLongitude: req.ShippingLongitude,
		ShippingCityID:    req.ShippingCityID,
		DeliveryCityID:    req.DeliveryCityID,
		LoadingHours:      req.LoadingHours,
		Weight:            req.Weight,
	})
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toDealResponse(deal))
}

type actionRecordResponse struct {
	ID            int64    `json:"id"`
	UserID        int64    `json:"user_id"`
	Action        int      `json:"action"`
	Entity        int      `json:"entity,omitempty"`
	EntityID      string   `json:"entity_id,omitempty"`
	UpdatedFields []string `json:"updated_fields"`
	CreatedAt     string   `json:"created_at"`
}

func (h *Handler) listAudit(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(w, r, h)
	if !ok {
		return
	}

	records, err := h.audit.List(r.Context(), actorFromContext(r.Context()), domain.ActionFilter{
		UserID:  queryInt64(r, "user_id"),
		Action:  domain.ActionKind(queryInt64(r, "action")),
		Entity:  domain.EntityKind(queryInt64(r, "entity")),
		AfterID: queryInt64(r, "after"),
		Limit:   limit,
	})
	if err != nil {
		h.handleDomainError(w, err)
		return
	}

	result := make([]actionRecordResponse, 0, len(records))
	for _, rec := range records {
		fields := rec.UpdatedFields
		if fields == nil {
			fields = []string{}
		}
		result = append(result, actionRecordResponse{
			ID:            rec.ID,
			UserID:        rec.UserID,
			Action:        int(rec.Action),
			Entity:        int(rec.Entity),
			EntityID:      rec.EntityID,
			UpdatedFields: fields,
			CreatedAt:     rec.CreatedAt.UTC().Format(timeFormat),
		})
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"items": result})
}

func toDealResponse(d domain.RecyclablesDeal) dealResponse {
	return dealResponse{
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
		ShippingDate:      formatOptionalTime(d.ShippingDate),
		DeliveryDate:      formatOptionalTime(d.DeliveryDate),
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
		CreatedAt:         d.CreatedAt.UTC().Format(timeFormat),
		UpdatedAt:         d.UpdatedAt.UTC().Format(timeFormat),
	}
}

func formatOptionalTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeFormat)
}
