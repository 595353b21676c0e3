package api

import (
	_ "embed"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-openapi/runtime/middleware"
	"github.com/google/uuid"
)

// API holds the dependencies needed by the HTTP handlers.
type API struct {
	sessions        SessionStore
	creds           *Credentials
	sessionDuration time.Duration
	instanceID      string
	audit           *auditLogger
	alertFn         AlertFunc
	loginPage       http.Handler
}

//go:embed openapi.yaml
var openapiSpec []byte

// Option configures the API instance.
type Option func(*API)

// WithLogger sets the structured logger for audit events.
// If not set, a default JSON logger writing to stderr is used.
func WithLogger(logger *slog.Logger) Option {
	return func(a *API) {
		a.audit = newAuditLogger(logger)
	}
}

// WithAlertFunc enables anomaly detection over the audit stream and invokes
// fn when a failure spike is detected.
func WithAlertFunc(fn AlertFunc) Option {
	return func(a *API) {
		a.alertFn = fn
	}
}

// WithLoginPage sets the handler serving GET /login.
func WithLoginPage(h http.Handler) Option {
	return func(a *API) {
		a.loginPage = h
	}
}

// New creates a new API instance.
func New(sessions SessionStore, creds *Credentials, sessionDuration time.Duration, opts ...Option) *API {
	a := &API{
		sessions:        sessions,
		creds:           creds,
		sessionDuration: sessionDuration,
		instanceID:      uuid.NewString(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.audit == nil {
		a.audit = newAuditLogger(slog.New(slog.NewJSONHandler(os.Stderr, nil)))
	}
	if a.alertFn != nil {
		a.audit.metrics = newMetricsCollector(a.alertFn)
	}
	return a
}

// InstanceID returns the per-process identifier reported by /health.
func (a *API) InstanceID() string {
	return a.instanceID
}

// Router returns a chi.Router with all routes mounted.
func (a *API) Router() chi.Router {
	r := chi.NewRouter()

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(openapiSpec)
	})

	r.Handle("/docs*", middleware.SwaggerUI(middleware.SwaggerUIOpts{
		SpecURL: "/openapi.yaml",
		Path:    "docs",
	}, nil))

	r.Handle("/redoc*", middleware.Redoc(middleware.RedocOpts{
		SpecURL: "/openapi.yaml",
		Path:    "redoc",
	}, nil))

	if a.loginPage != nil {
		r.Handle("/login", a.loginPage)
	}
	r.Post("/auth/login", a.Login)
	r.Get("/auth/check", a.AuthCheck)
	r.Get("/auth/establish-session", a.EstablishSession)
	r.Get("/health", a.Health)

	return r
}
