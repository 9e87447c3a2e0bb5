package httpapi

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/vtorprice/exchange-api/internal/core/domain"
)

type applicationRequest struct {
	CompanyID     int64   `json:"company_id"`
	RecyclablesID int64   `json:"recyclables_id"`
	DealType      int     `json:"deal_type"`
	Urgency       int     `json:"urgency"`
	Volume        int64   `json:"volume"`
	Price         float64 `json:"price"`
	WithVAT       bool    `json:"with_vat"`
	CityID        int64   `json:"city_id"`
	Address       string  `json:"address"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	FullWeight    int64   `json:"full_weight"`
}

type applicationPatchRequest struct {
	IsDeleted     *string  `json:"is_deleted"`
	Address       *string  `json:"address"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	WithVAT       *string  `json:"with_vat"`
	DealType      *int64   `json:"deal_type"`
	Volume        *int64   `json:"volume"`
	Price         *float64 `json:"price"`
	CityID        *int64   `json:"city_id"`
	CompanyID     *int64   `json:"company_id"`
	RecyclablesID *int64   `json:"recyclables_id"`
	Status        *int64   `json:"status"`
	FullWeight    *int64   `json:"full_weight"`
}

type applicationResponse struct {
	ID            int64   `json:"id"`
	CompanyID     int64   `json:"company_id"`
	RecyclablesID int64   `json:"recyclables_id"`
	DealType      int     `json:"deal_type"`
	Urgency       int     `json:"urgency"`
	Status        int     `json:"status"`
	Volume        int64   `json:"volume"`
	Price         float64 `json:"price"`
	WithVAT       bool    `json:"with_vat"`
	CityID        int64   `json:"city_id"`
	Address       string  `json:"address"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	FullWeight    int64   `json:"full_weight"`
	IsDeleted     bool    `json:"is_deleted"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

func (h *Handler) listApplications(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(w, r, h)
	if !ok {
		return
	}

	filter := domain.ApplicationFilter{
		CompanyID:  queryInt64(r, "company_id"),
		Urgency:    domain.UrgencyType(queryInt64(r, "urgency")),
		DealType:   domain.DealType(queryInt64(r, "deal_type")),
		CategoryID: queryInt64(r, "category_id"),
		AfterID:    queryInt64(r, "after"),
		Limit:      limit,
	}
	if raw := r.URL.Query().Get("deleted"); raw != "" {
		deleted := raw == "true" || raw == "1"
		filter.Deleted = &deleted
	}

	apps, err := h.applications.List(r.Context(), filter)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}

	result := make([]applicationResponse, 0, len(apps))
	for _, app := range apps {
		result = append(result, toApplicationResponse(app))
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"items": result})
}

func (h *Handler) getApplication(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid application id")
		return
	}

	app, err := h.applications.Get(r.Context(), id)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toApplicationResponse(app))
}

func (h *Handler) createApplication(w http.ResponseWriter, r *http.Request) {
	var req applicationRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	if req.CompanyID == 0 || req.RecyclablesID == 0 {
		h.writeError(w, http.StatusBadRequest, "company_id and recyclables_id are required")
		return
	}

	app, err := h.applications.Create(r.Context(), actorFromContext(r.Context()), domain.RecyclablesApplication{
		CompanyID:     req.CompanyID,
		RecyclablesID: req.RecyclablesID,
		DealType:      domain.DealType(req.DealType),
		Urgency:       domain.UrgencyType(req.Urgency),
		Volume:        req.Volume,
		Price:         req.Price,
		WithVAT:       req.WithVAT,
		CityID:        req.CityID,
		Address:       req.Address,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		FullWeight:    req.FullWeight,
	})
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, toApplicationResponse(app))
}

func (h *Handler) updateApplication(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid application id")
		return
	}

	var req applicationPatchRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	app, err := h.applications.Update(r.Context(), actorFromContext(r.Context()), id, domain.ApplicationPatch{
		IsDeleted:     req.IsDeleted,
		Address:       req.Address,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		WithVAT:       req.WithVAT,
		DealType:      req.DealType,
		Volume:        req.Volume,
		Price:         req.Price,
		CityID:        req.CityID,
		CompanyID:     req.CompanyID,
		RecyclablesID: req.RecyclablesID,
		Status:        req.Status,
		FullWeight:    req.FullWeight,
	})
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toApplicationResponse(app))
}

func (h *Handler) deleteApplication(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid application id")
		return
	}

	if err := h.applications.Delete(r.Context(), actorFromContext(r.Context()), id); err != nil {
		h.handleDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *Handler) applicationStats(w http.ResponseWriter, r *http.Request) {
	categoryID := queryInt64(r, "category_id")
	if categoryID == 0 {
		h.writeError(w, http.StatusBadRequest, "category_id is required")
		return
	}

	stats, err := h.applications.CategoryStats(r.Context(), categoryID)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"category_id":     stats.CategoryID,
		"last_price":      stats.LastPrice,
		"pre_last_price":  stats.PreLastPrice,
		"purchase_volume": stats.PurchaseVolume,
		"sales_volume":    stats.SalesVolume,
	})
}

type bulkUpsertItem struct {
	RecyclablesID int64   `json:"recyclables_id"`
	Action        int     `json:"action"`
	MonthlyVolume int64   `json:"monthly_volume"`
	Price         float64 `json:"price"`
	Deleted       bool    `json:"deleted"`
	Status        int     `json:"status"`
}

type bulkUpsertRequest struct {
	Items []bulkUpsertItem `json:"items"`
}

// bulkUpsertRecyclables reconciles the company card's material table in one
// request. The whole batch either passes the permission check or none of it
// is applied.
func (h *Handler) bulkUpsertRecyclables(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid company id")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodySize)
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if msg := validateBulkUpsert(raw); msg != "" {
		h.writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	var req bulkUpsertRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	batch := make([]domain.RecyclablesIntent, 0, len(req.Items))
	for _, item := range req.Items {
		batch = append(batch, domain.RecyclablesIntent{
			RecyclablesID: item.RecyclablesID,
			Action:        domain.RecyclablesAction(item.Action),
			MonthlyVolume: item.MonthlyVolume,
			Price:         item.Price,
			Deleted:       item.Deleted,
			Status:        domain.ApplicationStatus(item.Status),
		})
	}

	apps, err := h.bulk.Resolve(r.Context(), actorFromContext(r.Context()), id, batch)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}

	result := make([]applicationResponse, 0, len(apps))
	for _, app := range apps {
		result = append(result, toApplicationResponse(app))
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"items": result})
}

func (h *Handler) listCompanyRecyclables(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid company id")
		return
	}

	items, err := h.bulk.Profile(r.Context(), id)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}

	type profileRow struct {
		ID            int64   `json:"id"`
		RecyclablesID int64   `json:"recyclables_id"`
		Action        int     `json:"action"`
		MonthlyVolume int64   `json:"monthly_volume"`
		Price         float64 `json:"price"`
		Deleted       bool    `json:"deleted"`
	}
	result := make([]profileRow, 0, len(items))
	for _, item := range items {
		result = append(result, profileRow{
			ID:            item.ID,
			RecyclablesID: item.RecyclablesID,
			Action:        int(item.Action),
			MonthlyVolume: item.MonthlyVolume,
			Price:         item.Price,
			Deleted:       item.Deleted,
		})
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"items": result})
}

func (h *Handler) listPriceMarks(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(w, r, h)
	if !ok {
		return
	}

	marks, err := h.bulk.PriceHistory(r.Context(), domain.PriceMarkFilter{
		CompanyID:     queryInt64(r, "company_id"),
		ApplicationID: queryInt64(r, "application_id"),
		Limit:         limit,
	})
	if err != nil {
		h.handleDomainError(w, err)
		return
	}

	type priceMarkRow struct {
		ID              int64   `json:"id"`
		CompanyID       int64   `json:"company_id"`
		CompanyName     string  `json:"company_name"`
		RecyclablesID   int64   `json:"recyclables_id"`
		RecyclablesName string  `json:"recyclables_name"`
		CategoryID      int64   `json:"category_id"`
		CategoryName    string  `json:"category_name"`
		ApplicationID   int64   `json:"application_id"`
		DealType        int     `json:"deal_type"`
		Price           float64 `json:"price"`
		CreatedAt       string  `json:"created_at"`
	}
	result := make([]priceMarkRow, 0, len(marks))
	for _, mark := range marks {
		result = append(result, priceMarkRow{
			ID:              mark.ID,
			CompanyID:       mark.CompanyID,
			CompanyName:     mark.CompanyName,
			RecyclablesID:   mark.RecyclablesID,
			RecyclablesName: mark.RecyclablesName,
			CategoryID:      mark.CategoryID,
			CategoryName:    mark.CategoryName,
			ApplicationID:   mark.ApplicationID,
			DealType:        int(mark.DealType),
			Price:           mark.Price,
			CreatedAt:       mark.CreatedAt.UTC().Format(timeFormat),
		})
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"items": result})
}

func toApplicationResponse(a domain.RecyclablesApplication) applicationResponse {
	return applicationResponse{
		ID:            a.ID,
		CompanyID:     a.CompanyID,
		RecyclablesID: a.RecyclablesID,
		DealType:      int(a.DealType),
		Urgency:       int(a.Urgency),
		Status:        int(a.Status),
		Volume:        a.Volume,
		Price:         a.Price,
		WithVAT:       a.WithVAT,
		CityID:        a.CityID,
		Address:       a.Address,
		Latitude:      a.Latitude,
		Longitude:     a.Longitude,
		FullWeight:    a.FullWeight,
		IsDeleted:     a.IsDeleted,
		CreatedAt:     a.CreatedAt.UTC().Format(timeFormat),
		UpdatedAt:     a.UpdatedAt.UTC().Format(timeFormat),
	}
}
