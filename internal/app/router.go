package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/vidyakosh-erp/vidyakosh-erp/internal/auth"
	"github.com/vidyakosh-erp/vidyakosh-erp/internal/billing"
	"github.com/vidyakosh-erp/vidyakosh-erp/internal/concession"
	"github.com/vidyakosh-erp/vidyakosh-erp/internal/feestructure"
	"github.com/vidyakosh-erp/vidyakosh-erp/internal/payments"
	"github.com/vidyakosh-erp/vidyakosh-erp/internal/reports"
	"github.com/vidyakosh-erp/vidyakosh-erp/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	AuthHandler       *auth.Handler
	AuthMiddleware    auth.Middleware
	StructureHandler  *feestructure.Handler
	ConcessionHandler *concession.Handler
	BillingHandler    *billing.Handler
	PaymentHandler    *payments.Handler
	ReportHandler     *reports.Handler
	JobHandler        *jobs.Handler
}

// NewRouter constructs the chi.Router with Vidyakosh defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)

	// Everything below requires a bearer token; role checks live on the
	// individual route groups.
	r.Group(func(r chi.Router) {
		r.Use(params.AuthMiddleware.Authenticate)

		r.Route("/fees", func(r chi.Router) {
			params.StructureHandler.MountRoutes(r)
			params.BillingHandler.MountRoutes(r)
		})
		r.Route("/concessions", params.ConcessionHandler.MountRoutes)
		r.Route("/payments", params.PaymentHandler.MountRoutes)
		r.Route("/reports", params.ReportHandler.MountRoutes)
		if params.JobHandler != nil {
			r.Route("/jobs", params.JobHandler.MountRoutes)
		}
	})

	return r
}
