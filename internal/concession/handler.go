package concession

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/vidyakosh-erp/vidyakosh-erp/internal/auth"
	"github.com/vidyakosh-erp/vidyakosh-erp/internal/platform/httpx"
)

// Handler manages concession endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	authmw   auth.Middleware
	validate *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, authmw auth.Middleware) *Handler {
	return &Handler{logger: logger, service: service, authmw: authmw, validate: validator.New()}
}

// MountRoutes registers concession routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authmw.RequireRole(auth.RoleAdmin, auth.RoleAccountant, auth.RoleViewer))
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authmw.RequireRole(auth.RoleAdmin))
		r.Post("/", h.create)
		r.Delete("/{id}", h.revoke)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	studentID, _ := strconv.ParseInt(q.Get("student_id"), 10, 64)
	onlyLive, _ := strconv.ParseBool(q.Get("live"))
	var asOf time.Time
	if raw := q.Get("as_of"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "as_of must be YYYY-MM-DD")
			return
		}
		asOf = parsed
	}

	concessions, err := h.service.List(r.Context(), ListConcessionsRequest{
		StudentID: studentID,
		Type:      q.Get("type"),
		OnlyLive:  onlyLive,
		AsOf:      asOf,
	})
	if err != nil {
		h.logger.Error("list concessions", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, concessions)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid concession id")
		return
	}
	c, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateConcessionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	if req.ValidTo != nil && req.ValidTo.Before(req.ValidFrom) {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "valid_to precedes valid_from")
		return
	}
	if req.Percentage == 0 && req.FixedAmount == 0 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "concession must carry a percentage or a fixed amount")
		return
	}

	identity, _ := auth.IdentityFromContext(r.Context())
	c, err := h.service.Create(r.Context(), req, identity.OperatorID)
	if err != nil {
		h.logger.Error("create concession", slog.Any("error", err), slog.Int64("student_id", req.StudentID))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, c)
}

func (h *Handler) revoke(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid concession id")
		return
	}
	if err := h.service.Revoke(r.Context(), id); err != nil {
		h.logger.Error("revoke concession", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
