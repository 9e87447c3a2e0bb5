package httpapi

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/vtorprice/exchange-api/internal/core/domain"
	"github.com/vtorprice/exchange-api/internal/core/ports"
)

type companyRequest struct {
	Name                 string  `json:"name"`
	INN                  string  `json:"inn"`
	Address              string  `json:"address"`
	Latitude             float64 `json:"latitude"`
	Longitude            float64 `json:"longitude"`
	Description          string  `json:"description"`
	WithVAT              bool    `json:"with_vat"`
	BIC                  string  `json:"bic"`
	PaymentAccount       string  `json:"payment_account"`
	CorrespondentAccount string  `json:"correspondent_account"`
	BankName             string  `json:"bank_name"`
	HeadFullName         string  `json:"head_full_name"`
	Phone                string  `json:"phone"`
	Email                string  `json:"email"`
	CityID               int64   `json:"city_id"`
}

// companyPatchRequest mirrors a partial form submission: absent fields stay
// nil, boolean flags travel as strings.
type companyPatchRequest struct {
	Name                 *string  `json:"name"`
	INN                  *string  `json:"inn"`
	Address              *string  `json:"address"`
	Latitude             *float64 `json:"latitude"`
	Longitude            *float64 `json:"longitude"`
	Description          *string  `json:"description"`
	WithVAT              *string  `json:"with_vat"`
	BIC                  *string  `json:"bic"`
	PaymentAccount       *string  `json:"payment_account"`
	CorrespondentAccount *string  `json:"correspondent_account"`
	BankName             *string  `json:"bank_name"`
	HeadFullName         *string  `json:"head_full_name"`
	Phone                *string  `json:"phone"`
	Email                *string  `json:"email"`
	CityID               *int64   `json:"city_id"`
	ManagerID            *int64   `json:"manager_id"`
}

type companyResponse struct {
	ID                   int64   `json:"id"`
	Name                 string  `json:"name"`
	INN                  string  `json:"inn"`
	Address              string  `json:"address"`
	Latitude             float64 `json:"latitude"`
	Longitude            float64 `json:"longitude"`
	Description          string  `json:"description"`
	WithVAT              bool    `json:"with_vat"`
	BIC                  string  `json:"bic"`
	PaymentAccount       string  `json:"payment_account"`
	CorrespondentAccount string  `json:"correspondent_account"`
	BankName             string  `json:"bank_name"`
	HeadFullName         string  `json:"head_full_name"`
	Phone                string  `json:"phone"`
	Email                string  `json:"email"`
	CityID               int64   `json:"city_id"`
	ManagerID            int64   `json:"manager_id"`
	OwnerID              int64   `json:"owner_id"`
	Status               int     `json:"status"`
	CreatedAt            string  `json:"created_at"`
	UpdatedAt            string  `json:"updated_at"`
}

func (h *Handler) listCompanies(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(w, r, h)
	if !ok {
		return
	}

	companies, err := h.companies.List(r.Context(), ports.CompanyFilter{
		Status:  domain.CompanyStatus(queryInt64(r, "status")),
		CityID:  queryInt64(r, "city_id"),
		Search:  r.URL.Query().Get("search"),
		AfterID: queryInt64(r, "after"),
		Limit:   limit,
	})
	if err != nil {
		h.handleDomainError(w, err)
		return
	}

	result := make([]companyResponse, 0, len(companies))
	for _, c := range companies {
		result = append(result, toCompanyResponse(c))
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"items": result})
}

func (h *Handler) getCompany(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid company id")
		return
	}

	company, err := h.companies.Get(r.Context(), id)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toCompanyResponse(company))
}

func (h *Handler) createCompany(w http.ResponseWriter, r *http.Request) {
	var req companyRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		h.writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	// A company registered without a contact phone reaches buyers through
	// its owner's phone.
	if req.Phone == "" {
		req.Phone = userFromContext(r.Context()).Phone
	}

	company, err := h.companies.Create(r.Context(), actorFromContext(r.Context()), domain.Company{
		Name:                 req.Name,
		INN:                  req.INN,
		Address:              req.Address,
		Latitude:             req.Latitude,
		Longitude:            req.Longitude,
		Description:          req.Description,
		WithVAT:              req.WithVAT,
		BIC:                  req.BIC,
		PaymentAccount:       req.PaymentAccount,
		CorrespondentAccount: req.CorrespondentAccount,
		BankName:             req.BankName,
		HeadFullName:         req.HeadFullName,
		Phone:                req.Phone,
		Email:                req.Email,
		CityID:               req.CityID,
	})
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, toCompanyResponse(company))
}

func (h *Handler) updateCompany(w http.ResponseWriter, r *http.Request) {
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
	if msg := validateCompanyPatch(raw); msg != "" {
		h.writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	var req companyPatchRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	company, err := h.companies.Update(r.Context(), actorFromContext(r.Context()), id, domain.CompanyPatch{
		Name:                 req.Name,
		INN:                  req.INN,
		Address:              req.Address,
		Latitude:             req.Latitude,
		Longitude:            req.Longitude,
		Description:          req.Description,
		WithVAT:              req.WithVAT,
		BIC:                  req.BIC,
		PaymentAccount:       req.PaymentAccount,
		CorrespondentAccount: req.CorrespondentAccount,
		BankName:             req.BankName,
		HeadFullName:         req.HeadFullName,
		Phone:                req.Phone,
		Email:                req.Email,
		CityID:               req.CityID,
		ManagerID:            req.ManagerID,
	})
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toCompanyResponse(company))
}

type verificationReviewRequest struct {
	Approve bool   `json:"approve"`
	Comment string `json:"comment"`
}

type verificationResponse struct {
	ID         int64  `json:"id"`
	CompanyID  int64  `json:"company_id"`
	EmployeeID int64  `json:"employee_id"`
	Status     int    `json:"status"`
	Comment    string `json:"comment"`
	CreatedAt  string `json:"created_at"`
}

func (h *Handler) requestVerification(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid company id")
		return
	}

	user := userFromContext(r.Context())
	req, err := h.companies.RequestVerification(r.Context(), domain.ActorFromUser(user), id, user.ID)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, toVerificationResponse(req))
}

func (h *Handler) reviewVerification(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	var body verificationReviewRequest
	if !h.decodeBody(w, r, &body) {
		return
	}

	req, err := h.companies.ReviewVerification(r.Context(), actorFromContext(r.Context()), id, body.Approve, body.Comment)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toVerificationResponse(req))
}

func toCompanyResponse(c domain.Company) companyResponse {
	return companyResponse{
		ID:                   c.ID,
		Name:                 c.Name,
		INN:                  c.INN,
		Address:              c.Address,
		Latitude:             c.Latitude,
		Longitude:            c.Longitude,
		Description:          c.Description,
		WithVAT:              c.WithVAT,
		BIC:                  c.BIC,
		PaymentAccount:       c.PaymentAccount,
		CorrespondentAccount: c.CorrespondentAccount,
		BankName:             c.BankName,
		HeadFullName:         c.HeadFullName,
		Phone:                c.Phone,
		Email:                c.Email,
		CityID:               c.CityID,
		ManagerID:            c.ManagerID,
		OwnerID:              c.OwnerID,
		Status:               int(c.Status),
		CreatedAt:            c.CreatedAt.UTC().Format(timeFormat),
		UpdatedAt:            c.UpdatedAt.UTC().Format(timeFormat),
	}
}

func toVerificationResponse(v domain.CompanyVerificationRequest) verificationResponse {
	return verificationResponse{
		ID:         v.ID,
		CompanyID:  v.CompanyID,
		EmployeeID: v.EmployeeID,
		Status:     int(v.Status),
		Comment:    v.Comment,
		CreatedAt:  v.CreatedAt.UTC().Format(timeFormat),
	}
}
