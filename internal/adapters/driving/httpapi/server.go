// Package httpapi exposes the session over HTTP: document upload, library
// listing, search and summary.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/urfave/negroni"

	"github.com/custodia-labs/warroom/internal/core/domain"
	"github.com/custodia-labs/warroom/internal/core/ports/driving"
	"github.com/custodia-labs/warroom/internal/logger"
)

// DefaultMaxRequestBytes bounds a whole upload request.
const DefaultMaxRequestBytes int64 = 256 << 20

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 10 * time.Second

// ErrMissingService is returned when a required port is nil.
var ErrMissingService = errors.New("httpapi: ingest, search and report services are required")

// Ports aggregates the driving ports served over HTTP.
type Ports struct {
	Ingest driving.IngestService
	Search driving.SearchService
	Report driving.ReportService
}

// Options configures the server.
type Options struct {
	// MaxRequestBytes bounds an upload request (default 256 MiB).
	// Per-file limits are enforced by ingestion.
	MaxRequestBytes int64

	// AccessLog receives one line per request (default stdout).
	AccessLog io.Writer
}

// Server serves the HTTP API.
type Server struct {
	ports           *Ports
	maxRequestBytes int64
	handler         http.Handler
}

// NewServer builds the router and middleware chain.
func NewServer(ports *Ports, opts Options) (*Server, error) {
	if ports == nil || ports.Ingest == nil || ports.Search == nil || ports.Report == nil {
		return nil, ErrMissingService
	}
	if opts.MaxRequestBytes <= 0 {
		opts.MaxRequestBytes = DefaultMaxRequestBytes
	}
	if opts.AccessLog == nil {
		opts.AccessLog = os.Stdout
	}

	s := &Server{
		ports:           ports,
		maxRequestBytes: opts.MaxRequestBytes,
	}
	s.handler = setupNegroni(s.routes(), opts.AccessLog)
	return s, nil
}

// routes registers the API endpoints.
func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/documents", s.handleUpload).Methods(http.MethodPost)
	r.HandleFunc("/documents", s.handleLibrary).Methods(http.MethodGet)
	r.HandleFunc("/documents/{filename}", s.handleDocument).Methods(http.MethodGet)
	r.HandleFunc("/search", s.handleSearch).Methods(http.MethodGet)
	r.HandleFunc("/summary", s.handleSummary).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

func setupNegroni(r *mux.Router, accessLog io.Writer) *negroni.Negroni {
	n := negroni.New()

	recovery := negroni.NewRecovery()
	recovery.PrintStack = false
	recovery.Logger = log.New(accessLog, "[warroom] ", 0)
	n.Use(recovery)

	access := negroni.NewLogger()
	access.ALogger = log.New(accessLog, "[warroom] ", 0)
	n.Use(access)

	n.UseHandler(r)
	return n
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		IdleTimeout:       time.Minute,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown when context is cancelled
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown: %v", err)
		}
	}()

	logger.Info("HTTP API listening on %s", addr)
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return fmt.Errorf("serve %s: %w", addr, err)
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnsupportedType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, domain.ErrLimitExceeded):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrUnreadable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
