package httpapi

import (
	"net/http"

	"github.com/vtorprice/exchange-api/internal/core/domain"
)

type requestCodeRequest struct {
	Phone string `json:"phone"`
}

type loginRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

type userResponse struct {
	ID        int64  `json:"id"`
	Phone     string `json:"phone"`
	Name      string `json:"name"`
	FullName  string `json:"full_name"`
	Role      int    `json:"role"`
	CompanyID int64  `json:"company_id,omitempty"`
}

// requestCode issues a login code. The code is returned in the response;
// delivery to the phone is an operator concern outside this service.
func (h *Handler) requestCode(w http.ResponseWriter, r *http.Request) {
	var req requestCodeRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	code, err := h.auth.RequestCode(r.Context(), req.Phone)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"code": code})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	token, user, err := h.auth.Login(r.Context(), req.Phone, req.Code)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  toUserResponse(user),
	})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.auth.Logout(r.Context(), userFromContext(r.Context()))
	h.writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func toUserResponse(u domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Phone:     u.Phone,
		Name:      u.ShortName(),
		FullName:  u.FullName(),
		Role:      int(u.Role),
		CompanyID: u.CompanyID,
	}
}
