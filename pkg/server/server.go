// Package server exposes preference collection and sociogram analysis over
// HTTP.
//
// Participants submit their preferences with POST /api/submissions. Every
// other /api route is reserved for the mentor and requires the credential
// checked by the configured [Authenticator]:
//
//	POST /api/submissions        record or replace one participant's answer
//	GET  /api/submissions        list the current submissions
//	GET  /api/analysis           analysis result as JSON
//	GET  /api/report             text report; ?download=1 serves it as a file
//	GET  /api/sociogram.dot      Graphviz DOT source
//	GET  /api/sociogram.svg      rendered SVG
//	GET  /healthz                liveness probe
//	GET  /metrics                Prometheus metrics, when configured
//
// Analysis always runs on a [preferences.Store.Snapshot], so concurrent
// submissions never affect a request that is already being served.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/sociogram/pkg/pipeline"
	"github.com/matzehuels/sociogram/pkg/preferences"
)

// ReportFilename is the attachment name used by GET /api/report?download=1.
const ReportFilename = "sociogram_report.txt"

// maxBodyBytes caps submission bodies.
const maxBodyBytes = 1 << 20

// Server serves the sociogram HTTP API.
type Server struct {
	Store  *preferences.Store
	Runner *pipeline.Runner
	Auth   Authenticator
	Logger *log.Logger

	// TopN limits the popularity section of the report. Zero uses
	// [pipeline.DefaultTopN].
	TopN int

	// Metrics is mounted at /metrics when non-nil.
	Metrics http.Handler
}

// New creates a server over store. A nil store starts empty, a nil runner
// analyzes without caching, a nil auth denies every mentor request, and a nil
// logger uses log.Default().
func New(store *preferences.Store, runner *pipeline.Runner, auth Authenticator, logger *log.Logger) *Server {
	if store == nil {
		store = preferences.NewStore()
	}
	if logger == nil {
		logger = log.Default()
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	if auth == nil {
		auth = TokenAuthenticator{}
	}
	return &Server{
		Store:  store,
		Runner: runner,
		Auth:   auth,
		Logger: logger,
	}
}

// Handler builds the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.logRequests)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/submissions", s.handleSubmit)

		r.Group(func(r chi.Router) {
			r.Use(requireMentor(s.Auth))
			r.Get("/submissions", s.handleListSubmissions)
			r.Get("/analysis", s.handleAnalysis)
			r.Get("/report", s.handleReport)
			r.Get("/sociogram.dot", s.handleArtifact(pipeline.FormatDOT))
			r.Get("/sociogram.svg", s.handleArtifact(pipeline.FormatSVG))
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, errNotFound(r))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeStatusError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", r.Method+" not allowed on "+r.URL.Path)
	})

	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully, waiting a bounded time for in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.Logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

const shutdownTimeout = 10 * time.Second

func (s *Server) renderOptions(formats ...string) pipeline.Options {
	return pipeline.Options{
		TopN:    s.TopN,
		Formats: formats,
		Logger:  s.Logger,
	}
}
