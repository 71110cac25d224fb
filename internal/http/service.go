package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	"github.com/tuanvumaihuynh/inventory-keeper/internal/apperr"
	"github.com/tuanvumaihuynh/inventory-keeper/internal/config"
	"github.com/tuanvumaihuynh/inventory-keeper/internal/http/apierr"
	"github.com/tuanvumaihuynh/inventory-keeper/internal/http/metric"
	"github.com/tuanvumaihuynh/inventory-keeper/internal/http/middleware"
	"github.com/tuanvumaihuynh/inventory-keeper/internal/http/swagger"
	"github.com/tuanvumaihuynh/inventory-keeper/internal/http/web"
	"github.com/tuanvumaihuynh/inventory-keeper/internal/identity"
	"github.com/tuanvumaihuynh/inventory-keeper/internal/service"
	"github.com/tuanvumaihuynh/inventory-keeper/internal/storage/db"
)

var tracer = otel.Tracer("internal/http")

const healthCheckTimeout = 2 * time.Second

// Service represents the HTTP service.
type Service struct {
	cfg      config.HTTP
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *metric.Metrics

	inventorySvc  service.InventoryService
	verifier      identity.Verifier
	healthChecker db.HealthChecker
}

type CleanupFunc func(ctx context.Context) error

func New(
	cfg config.HTTP,
	log *slog.Logger,
	inventorySvc service.InventoryService,
	verifier identity.Verifier,
	healthChecker db.HealthChecker,
) *Service {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Service{
		cfg:           cfg,
		logger:        log.With(slog.String("service", "http")),
		registry:      registry,
		metrics:       metric.New(registry),
		inventorySvc:  inventorySvc,
		verifier:      verifier,
		healthChecker: healthChecker,
	}
}

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	return s.RunWithServer(ctx, s.Handler())
}

// Handler builds the router with every middleware and route registered.
func (s *Service) Handler() http.Handler {
	r := chi.NewRouter()
	s.RegisterMiddlewares(r)

	if s.cfg.Swagger {
		swagger.Register(r)
	}
	if s.cfg.Web {
		web.Register(r)
	}

	s.RegisterHandlers(r)

	return r
}

func (s *Service) RunWithServer(ctx context.Context, handler http.Handler) (CleanupFunc, error) {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64 KB
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", srv.Addr, err)
	}

	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			panic(err)
		}
	}()

	s.logger.InfoContext(ctx, "http server listening", slog.String("addr", ln.Addr().String()))

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}, nil
}

func (s *Service) RegisterMiddlewares(r chi.Router) {
	r.Use(
		middleware.Recoverer(s.logger),
		middleware.Trace(tracer),
		middleware.Metrics(s.metrics),
		middleware.CorrelationID(),
		middleware.Cors(s.cfg.CORSAllowedOrigins),
		middleware.Logging(s.logger),
	)
}

func (s *Service) RegisterHandlers(r chi.Router) {
	h := newInventoryItemHandler(s.logger, s.inventorySvc, s.verifier)

	r.Group(func(r chi.Router) {
		if s.cfg.RateLimit.Enabled {
			r.Use(middleware.RateLimit(s.cfg.RateLimit))
		}

		r.Post("/createInventoryItem", s.jsonHandler(h.CreateInventoryItem))
		r.Get("/getInventoryItems", s.jsonHandler(h.GetInventoryItems))

		update := s.jsonHandler(h.UpdateInventoryItem)
		r.Post("/updateInventoryItem", update)
		r.Put("/updateInventoryItem", update)
		r.Patch("/updateInventoryItem", update)

		del := s.jsonHandler(h.DeleteInventoryItem)
		r.Post("/deleteInventoryItem", del)
		r.Delete("/deleteInventoryItem", del)
	})

	r.Get("/healthz", s.jsonHandler(s.healthz))

	r.Handle(middleware.MetricsPath, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{
		ErrorLog: log.Default(),
	}))
}

// jsonHandler writes the value returned by fn as a 200 JSON response, or
// the error mapped to its API error response.
func (s *Service) jsonHandler(fn func(r *http.Request) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := fn(r)
		if err != nil {
			s.handleResponseError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(res); err != nil {
			s.logger.ErrorContext(r.Context(), "error encoding response",
				slog.Any("error", err))
		}
	}
}

func (s *Service) healthz(r *http.Request) (any, error) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	if _, err := s.healthChecker.IsHealthy(ctx); err != nil {
		return nil, apperr.UnavailableErr.WrapParent(err)
	}

	return messageResponse{Message: "ok"}, nil
}

func (s *Service) handleResponseError(w http.ResponseWriter, r *http.Request, err error) {
	res := apierr.New(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.StatusCode)

	logLevel := slog.LevelInfo
	if res.StatusCode >= 500 {
		logLevel = slog.LevelError
	} else if res.StatusCode >= 400 {
		logLevel = slog.LevelWarn
	}
	s.logger.Log(r.Context(), logLevel, "http response error", slog.Any("error", err))

	if err := json.NewEncoder(w).Encode(res); err != nil {
		s.logger.ErrorContext(r.Context(), "error encoding error response",
			slog.Any("error", err))
	}
}
