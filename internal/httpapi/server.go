package httpapi

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Hossam-Shehadeh/web-based-jupedsim/internal/config"
	"github.com/Hossam-Shehadeh/web-based-jupedsim/internal/logging"
	"github.com/Hossam-Shehadeh/web-based-jupedsim/internal/observability"
	"github.com/Hossam-Shehadeh/web-based-jupedsim/store"
)

// Server is the HTTP and WebSocket surface of the simulation service.
type Server struct {
	cfg       config.Config
	log       logging.Logger
	metrics   *observability.SimulationCollector
	runs      *store.RunStore
	validator *Validator

	server *http.Server
	router *mux.Router
}

// NewServer wires the router. Logger and metrics may be nil.
func NewServer(cfg config.Config, log logging.Logger, metrics *observability.SimulationCollector, runs *store.RunStore) *Server {
	if log == nil {
		log = logging.Noop()
	}

	s := &Server{
		cfg:       cfg,
		log:       log,
		metrics:   metrics,
		runs:      runs,
		validator: NewValidator(cfg.Validation),
		router:    mux.NewRouter(),
	}
	s.routes()

	s.server = &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	return s
}

func (s *Server) routes() {
	api := s.router.PathPrefix("/api").Subrouter()
	api.Handle("/simulation", s.instrument("create_simulation", s.handleCreateSimulation)).Methods(http.MethodPost)
	api.Handle("/simulation/{id}", s.instrument("get_simulation", s.handleGetSimulation)).Methods(http.MethodGet)
	api.Handle("/models", s.instrument("list_models", s.handleListModels)).Methods(http.MethodGet)

	s.router.HandleFunc("/ws/simulation/{id}", s.handleStream).Methods(http.MethodGet)

	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	if s.metrics != nil {
		s.router.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	}
}

// instrument attaches metrics, tracing, and a request-scoped logger to a
// handler.
func (s *Server) instrument(route string, h http.HandlerFunc) http.Handler {
	wrapped := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, _ := logging.WithRequestLogger(r.Context(), s.log)
		ctx, span := startServerSpan(ctx, route, r)
		defer span.End()
		h(w, r.WithContext(ctx))
	})
	return s.metrics.Middleware(route, wrapped)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Start begins serving in a background goroutine.
func (s *Server) Start() {
	go func() {
		s.log.Info(context.Background(), "http server starting", logging.String("addr", s.server.Addr))
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Error(context.Background(), "http server failed", logging.Err(err))
		}
	}()
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
