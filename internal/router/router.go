package router

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "pet-adoption/docs"

	"pet-adoption/internal/adapters/auth/remote"
	"pet-adoption/internal/adapters/auth/statictoken"
	"pet-adoption/internal/app"
	"pet-adoption/internal/config"
	"pet-adoption/internal/domain/adoptions"
	"pet-adoption/internal/domain/businesses"
	"pet-adoption/internal/domain/dogs"
	"pet-adoption/internal/domain/events"
	"pet-adoption/internal/domain/imports"
	"pet-adoption/internal/domain/medical"
	"pet-adoption/internal/domain/reminders"
	"pet-adoption/internal/domain/vaccinations"
	"pet-adoption/internal/middleware"
	"pet-adoption/internal/platform/apperr"
	"pet-adoption/internal/platform/httpjson"
	"pet-adoption/internal/platform/logger"
	"pet-adoption/internal/platform/metrics"
	"pet-adoption/internal/ports/auth"
	"pet-adoption/internal/ports/notify"
	"pet-adoption/internal/web"
)

type Options struct {
	Config *config.Config

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// App ya armada (CLI); si es nil se arma con Config/DB.
	App *app.App

	Logger   logger.Logger
	Metrics  *metrics.Metrics
	Registry *prometheus.Registry

	// AuthVerifier puede ser nil: se arma desde auth.remote o auth.tokens, y si no hay
	// tokens sólo funcionan los dev headers.
	AuthVerifier auth.AuthVerifier
	Notifier     notify.Notifier

	// Context corta la limpieza del rate limiter.
	Context context.Context
}

func NewRouter(opts Options) (http.Handler, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("router: config required")
	}
	cfg := opts.Config
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}
	m := opts.Metrics
	if m == nil {
		m = metrics.New(opts.Registry)
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	a := opts.App
	if a == nil {
		var err error
		a, err = app.New(app.Deps{Config: cfg, DB: opts.DB, Logger: log, Metrics: m, Notifier: opts.Notifier})
		if err != nil {
			return nil, err
		}
	}

	verifier := opts.AuthVerifier
	switch {
	case verifier != nil:
	case cfg.Auth.Remote.URL != "":
		rv, err := remote.New(remote.Config{
			URL:          cfg.Auth.Remote.URL,
			APIKey:       cfg.Auth.Remote.APIKey,
			APIKeyHeader: cfg.Auth.Remote.APIKeyHeader,
			Timeout:      cfg.Auth.Remote.Timeout,
		}, nil)
		if err != nil {
			return nil, err
		}
		verifier = rv
	default:
		if sv := statictoken.New(cfg.Auth.Tokens); sv.Len() > 0 {
			verifier = sv
		}
	}

	pages, err := web.New(a.Dogs, a.Events, a.Businesses)
	if err != nil {
		return nil, fmt.Errorf("router: templates: %w", err)
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	if cfg.Server.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.RequestID(log))
	r.Use(middleware.AccessLog(m))
	r.Use(middleware.Recover)

	r.Use(middleware.AuthContext(verifier, cfg.Auth.DevHeaders))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		httpjson.Write(w, http.StatusOK, map[string]string{"status": "ok", "storage": a.Storage})
	})
	r.Handle("/metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{}))
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	var limiter *middleware.RateLimiter
	if cfg.RateLimiter.Enabled {
		limiter = middleware.NewRateLimiter(ctx, cfg.RateLimiter.RPS, cfg.RateLimiter.Burst)
	}
	adminOnly := middleware.RequireRole(auth.RoleAdmin)

	// Rutas públicas por módulo
	api := chi.NewRouter()
	dogs.RegisterPublicRoutes(api, a.Dogs, adminOnly)
	adoptions.RegisterPublicRoutes(api, a.Adoptions, limiter.Middleware("solicitudes", m))
	businesses.RegisterPublicRoutes(api, a.Businesses)
	events.RegisterPublicRoutes(api, a.Events)

	// Back office
	admin := chi.NewRouter()
	admin.Use(adminOnly)
	dogs.RegisterAdminRoutes(admin, a.Dogs)
	medical.RegisterAdminRoutes(admin, a.Medical)
	vaccinations.RegisterAdminRoutes(admin, a.Vaccinations)
	businesses.RegisterAdminRoutes(admin, a.Businesses)
	adoptions.RegisterAdminRoutes(admin, a.Adoptions)
	events.RegisterAdminRoutes(admin, a.Events)
	imports.RegisterAdminRoutes(admin, a.Imports, cfg.Import.MaxBytes)
	reminders.RegisterAdminRoutes(admin, a.Reminders)

	notFound := func(w http.ResponseWriter, r *http.Request) {
		httpjson.Error(w, r, apperr.WithMessage(apperr.ErrNotFound, "ruta inexistente"))
	}
	api.NotFound(notFound)
	admin.NotFound(notFound)
	api.Mount("/admin", admin)
	r.Mount("/api", api)

	pages.Register(r)

	return r, nil
}
