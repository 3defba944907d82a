// Package server exposes the badge pipeline over HTTP.
//
// Routes:
//
//	POST /upload_csv              render a roster (multipart field "file")
//	GET  /combine_images_to_pdf   download the badge sheet
//	GET  /download_zip            download the output directory as a zip
//	GET  /batches/{id}            fetch a stored batch report
//	GET  /healthz                 liveness check
//
// Every pipeline operation works on the one configured output directory, so
// the server runs them one at a time.
package server

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/badgepress/pkg/errors"
	"github.com/matzehuels/badgepress/pkg/pipeline"
)

// MaxUploadSize bounds the request body of an upload.
const MaxUploadSize = 32 << 20

// shutdownTimeout is how long Run waits for in-flight requests on exit.
const shutdownTimeout = 10 * time.Second

// Server serves the pipeline. Create one with New.
type Server struct {
	runner    *pipeline.Runner
	opts      pipeline.Options
	uploadDir string
	logger    *log.Logger

	// mu serializes pipeline runs over the shared output directory.
	mu sync.Mutex
}

// New creates a server. opts supplies the render and sheet settings for
// every request; uploads are saved under uploadDir.
func New(runner *pipeline.Runner, opts pipeline.Options, uploadDir string, logger *log.Logger) (*Server, error) {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if err := errors.ValidateDir(uploadDir); err != nil {
		return nil, err
	}
	opts.Logger = logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return &Server{runner: runner, opts: opts, uploadDir: uploadDir, logger: logger}, nil
}

// Handler returns the router with all routes and middleware mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Post("/upload_csv", s.handleUpload)
	r.Get("/combine_images_to_pdf", s.handleSheet)
	r.Get("/download_zip", s.handleZip)
	r.Get("/batches/{id}", s.handleReport)
	return r
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return errors.Wrap(errors.ErrCodeInfrastructure, err, "listen on %s", addr)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
