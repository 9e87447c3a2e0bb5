package httpapi

import (
	"net/http"

	"github.com/vtorprice/exchange-api/internal/core/domain"
)

type recyclablesCategoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type recyclablesResponse struct {
	ID       int64                       `json:"id"`
	Name     string                      `json:"name"`
	Category recyclablesCategoryResponse `json:"category"`
}

type cityResponse struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Region string `json:"region"`
}

func (h *Handler) listRecyclables(w http.ResponseWriter, r *http.Request) {
	materials, err := h.catalog.Recyclables(r.Context(), queryInt64(r, "category_id"))
	if err != nil {
		h.handleDomainError(w, err)
		return
	}

	out := make([]recyclablesResponse, 0, len(materials))
	for _, m := range materials {
		out = append(out, toRecyclablesResponse(m))
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"items": out})
}

func (h *Handler) listCities(w http.ResponseWriter, r *http.Request) {
	cities, err := h.catalog.Cities(r.Context())
	if err != nil {
		h.handleDomainError(w, err)
		return
	}

	out := make([]cityResponse, 0, len(cities))
	for _, c := range cities {
		out = append(out, cityResponse{ID: c.ID, Name: c.Name, Region: c.Region})
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"items": out})
}

func toRecyclablesResponse(m domain.Recyclables) recyclablesResponse {
	return recyclablesResponse{
		ID:   m.ID,
		Name: m.Name,
		Category: recyclablesCategoryResponse{
			ID:   m.Category.ID,
			Name: m.Category.Name,
		},
	}
}
