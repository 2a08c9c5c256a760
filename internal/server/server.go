package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/sozercan/insight-mole/internal/config"
	"github.com/sozercan/insight-mole/internal/gateway"
	"github.com/sozercan/insight-mole/internal/render"
)

// Gateway is the set of operations the HTTP API exposes.
type Gateway interface {
	AnalyzeQuery(ctx context.Context, query string) (*gateway.AnalysisResult, error)
	DetectAnomalies(ctx context.Context, in gateway.AnomalyInput) ([]gateway.Anomaly, error)
	GenerateQuery(ctx context.Context, prompt string, lang gateway.QueryLanguage) (string, error)
	GenerateSummary(ctx context.Context, in gateway.SummaryInput) (string, error)
}

var _ Gateway = (*gateway.Gateway)(nil)

type Server struct {
	cfg      config.ServerConfig
	router   *chi.Mux
	server   *http.Server
	gateway  Gateway
	markdown *render.Markdown
	gatherer prometheus.Gatherer
}

func New(cfg config.ServerConfig, gw Gateway, gatherer prometheus.Gatherer) *Server {
	s := &Server{
		cfg:      cfg,
		router:   chi.NewRouter(),
		gateway:  gw,
		markdown: render.NewMarkdown(),
		gatherer: gatherer,
	}
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(loggingMiddleware)
	s.router.Use(middleware.Recoverer)

	if s.gatherer != nil {
		s.router.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	s.router.Route("/api/v1", func(r chi.Router) {
		if s.cfg.RequestTimeout > 0 {
			r.Use(deadlineMiddleware(s.cfg.RequestTimeout))
		}
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/anomalies", s.handleAnomalies)
		r.Post("/queries", s.handleQuery)
		r.Post("/summaries", s.handleSummary)
		r.Get("/samples", s.handleSamples)
		r.Get("/health", s.handleHealth)
	})

	// Static front-end bundle, if one is deployed alongside the API
	if s.cfg.StaticDir != "" {
		s.router.Handle("/*", http.FileServer(http.Dir(s.cfg.StaticDir)))
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// deadlineMiddleware bounds the request context. Unlike middleware.Timeout it
// never writes a response itself; handlers map the expired deadline to 504.
func deadlineMiddleware(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Create a response wrapper to capture status code
		rw := &responseWriter{ResponseWriter: w}
		next.ServeHTTP(rw, r)

		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rw.status).
			Dur("duration", time.Since(start)).
			Str("remote_addr", r.RemoteAddr).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request completed")
	})
}

func (s *Server) Run() error {
	// Create a channel to listen for errors coming from the listener
	serverErrors := make(chan error, 1)

	go func() {
		log.Info().Str("address", s.server.Addr).Msg("Starting server")
		serverErrors <- s.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.Info().Str("signal", sig.String()).Msg("Starting shutdown")

		// Give outstanding requests a deadline for completion
		timeout := s.cfg.ShutdownTimeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := s.server.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
	}

	return nil
}

// Custom response writer to capture status code
type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	if rw.status == 0 {
		rw.status = code
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if rw.status == 0 {
		rw.status = http.StatusOK
	}
	return rw.ResponseWriter.Write(b)
}
