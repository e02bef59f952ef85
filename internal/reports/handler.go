package reports

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vidyakosh-erp/vidyakosh-erp/internal/auth"
	"github.com/vidyakosh-erp/vidyakosh-erp/internal/platform/httpx"
)

// Handler manages reporting endpoints. All read-only, open to every role.
type Handler struct {
	logger  *slog.Logger
	service *Service
	authmw  auth.Middleware
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, authmw auth.Middleware) *Handler {
	return &Handler{logger: logger, service: service, authmw: authmw}
}

// MountRoutes registers report routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authmw.RequireRole(auth.RoleAdmin, auth.RoleAccountant, auth.RoleViewer))
		r.Get("/collections", h.collections)
		r.Get("/defaulters", h.defaulters)
		r.Get("/classes", h.classes)
		r.Get("/payment-modes", h.paymentModes)
	})
}

func scopeFromQuery(r *http.Request) Scope {
	q := r.URL.Query()
	yearID, _ := strconv.ParseInt(q.Get("academic_year_id"), 10, 64)
	month, _ := strconv.Atoi(q.Get("month"))
	year, _ := strconv.Atoi(q.Get("year"))
	return Scope{AcademicYearID: yearID, Month: month, Year: year}
}

func (h *Handler) collections(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Collections(r.Context(), scopeFromQuery(r))
	if err != nil {
		h.logger.Error("collections report", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

func (h *Handler) defaulters(w http.ResponseWriter, r *http.Request) {
	yearID, _ := strconv.ParseInt(r.URL.Query().Get("academic_year_id"), 10, 64)
	defaulters, err := h.service.Defaulters(r.Context(), yearID)
	if err != nil {
		h.logger.Error("defaulters report", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if defaulters == nil {
		defaulters = []Defaulter{}
	}
	httpx.JSON(w, http.StatusOK, defaulters)
}

func (h *Handler) classes(w http.ResponseWriter, r *http.Request) {
	breakdown, err := h.service.ClassCollections(r.Context(), scopeFromQuery(r))
	if err != nil {
		h.logger.Error("class collections report", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, breakdown)
}

func (h *Handler) paymentModes(w http.ResponseWriter, r *http.Request) {
	breakdown, err := h.service.ModeBreakdowns(r.Context(), scopeFromQuery(r))
	if err != nil {
		h.logger.Error("payment mode report", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, breakdown)
}
