package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/vtorprice/exchange-api/internal/core/domain"
	"github.com/vtorprice/exchange-api/internal/core/usecase"
)

type ctxKey string

const (
	timeFormat             = "2006-01-02T15:04:05.999999999Z07:00"
	userCtxKey      ctxKey = "user"
	maxJSONBodySize        = 1 << 20
)

type Handler struct {
	auth         *usecase.AuthService
	companies    *usecase.CompanyService
	applications *usecase.ApplicationService
	deals        *usecase.DealService
	bulk         *usecase.CompanyRecyclablesService
	catalog      *usecase.CatalogService
	audit        *usecase.AuditService
	log          zerolog.Logger
}

func NewHandler(
	auth *usecase.AuthService,
	companies *usecase.CompanyService,
	applications *usecase.ApplicationService,
	deals *usecase.DealService,
	bulk *usecase.CompanyRecyclablesService,
	catalog *usecase.CatalogService,
	audit *usecase.AuditService,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		auth:         auth,
		companies:    companies,
		applications: applications,
		deals:        deals,
		bulk:         bulk,
		catalog:      catalog,
		audit:        audit,
		log:          log,
	}
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", h.healthz)

	r.Post("/v1/auth/request-code", h.requestCode)
	r.Post("/v1/auth/login", h.login)

	r.Group(func(pr chi.Router) {
		pr.Use(h.requireUser)
		pr.Post("/v1/auth/logout", h.logout)

		pr.Get("/v1/companies", h.listCompanies)
		pr.Post("/v1/companies", h.createCompany)
		pr.Get("/v1/companies/{id}", h.getCompany)
		pr.Patch("/v1/companies/{id}", h.updateCompany)
		pr.Post("/v1/companies/{id}/verification", h.requestVerification)
		pr.Post("/v1/verification-requests/{id}:review", h.reviewVerification)
		pr.Get("/v1/companies/{id}/recyclables", h.listCompanyRecyclables)
		pr.Post("/v1/companies/{id}/recyclables:bulk-upsert", h.bulkUpsertRecyclables)

		pr.Get("/v1/recyclables", h.listRecyclables)
		pr.Get("/v1/cities", h.listCities)
		pr.Get("/v1/price-marks", h.listPriceMarks)

		pr.Get("/v1/applications", h.listApplications)
		pr.Post("/v1/applications", h.createApplication)
		pr.Get("/v1/applications/stats", h.applicationStats)
		pr.Get("/v1/applications/{id}", h.getApplication)
		pr.Patch("/v1/applications/{id}", h.updateApplication)
		pr.Delete("/v1/applications/{id}", h.deleteApplication)

		pr.Get("/v1/deals", h.listDeals)
		pr.Post("/v1/deals", h.createDeal)
		pr.Get("/v1/deals/{id}", h.getDeal)
		pr.Patch("/v1/deals/{id}", h.updateDeal)

		pr.Get("/v1/audit", h.listAudit)
	})

	return r
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// requireUser resolves the bearer token to a user and stores it in the
// request context. Handlers derive the acting identity from it explicitly.
func (h *Handler) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimSpace(r.Header.Get("Authorization"))
		if strings.HasPrefix(strings.ToLower(token), "bearer ") {
			token = strings.TrimSpace(token[7:])
		}

		user, err := h.auth.Authenticate(r.Context(), token)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthorized) {
				h.writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			h.writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		ctx := context.WithValue(r.Context(), userCtxKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userFromContext(ctx context.Context) domain.User {
	user, _ := ctx.Value(userCtxKey).(domain.User)
	return user
}

func actorFromContext(ctx context.Context) domain.Actor {
	return domain.ActorFromUser(userFromContext(ctx))
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func parseLimit(w http.ResponseWriter, r *http.Request, h *Handler) (int, bool) {
	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "limit must be integer")
			return 0, false
		}
		limit = parsed
	}
	return limit, true
}

func queryInt64(r *http.Request, name string) int64 {
	v, _ := strconv.ParseInt(r.URL.Query().Get(name), 10, 64)
	return v
}

func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodySize)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := ensureEOF(decoder); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid json body")
		return false
	}
	return true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		h.log.Error().Err(err).Msg("encode json response")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(data, '\n')); err != nil {
		h.log.Error().Err(err).Msg("write response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]any{"error": message})
}

func (h *Handler) handleDomainError(w http.ResponseWriter, err error) {
	var ambiguous *domain.AmbiguousLookupError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		h.writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrPermissionDenied):
		h.writeError(w, http.StatusForbidden, "permission denied")
	case errors.Is(err, domain.ErrUnauthorized):
		h.writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrAlreadyVerified):
		h.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidFilter):
		h.writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &ambiguous):
		h.writeError(w, http.StatusConflict, ambiguous.Error())
	default:
		h.log.Error().Err(err).Msg("request failed")
		h.writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func ensureEOF(decoder *json.Decoder) error {
	var extra json.RawMessage
	if err := decoder.Decode(&extra); err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}
	return errors.New("extra json tokens")
}
