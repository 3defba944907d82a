package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/badgepress/pkg/cache"
	"github.com/matzehuels/badgepress/pkg/errors"
	"github.com/matzehuels/badgepress/pkg/pipeline"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleUpload saves the roster, renders it and answers with the batch report.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "read multipart field \"file\""))
		return
	}
	defer file.Close()

	if err := errors.ValidateUploadFilename(header.Filename); err != nil {
		s.writeError(w, r, err)
		return
	}

	batchID := uuid.NewString()
	saved, err := s.saveUpload(batchID, header.Filename, file)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	f, err := os.Open(saved)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInfrastructure, err, "reopen upload"))
		return
	}
	defer f.Close()

	opts := s.opts
	opts.BatchID = batchID

	s.mu.Lock()
	res, err := s.runner.Execute(r.Context(), f, opts)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pipeline.NewReport(res))
}

// saveUpload copies the upload to <uploadDir>/<batchID>_<name>.
func (s *Server) saveUpload(batchID, name string, src io.Reader) (string, error) {
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", errors.Wrap(errors.ErrCodeInfrastructure, err, "create upload directory")
	}
	dst := filepath.Join(s.uploadDir, batchID+"_"+name)
	out, err := os.Create(dst)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInfrastructure, err, "save upload")
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "save upload")
	}
	if err := out.Close(); err != nil {
		return "", errors.Wrap(errors.ErrCodeInfrastructure, err, "save upload")
	}
	return dst, nil
}

func (s *Server) handleSheet(w http.ResponseWriter, r *http.Request) {
	f, err := s.produce(r.Context(), s.runner.Sheet)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer f.Close()
	serveAttachment(w, r, f, "application/pdf")
}

func (s *Server) handleZip(w http.ResponseWriter, r *http.Request) {
	f, err := s.produce(r.Context(), s.runner.Archive)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer f.Close()
	serveAttachment(w, r, f, "application/zip")
}

// produce runs a step that writes into the output directory and opens its
// result before releasing the lock. The open handle stays readable when a
// later upload clears the directory.
func (s *Server) produce(ctx context.Context, step func(context.Context, pipeline.Options) (string, error)) (*os.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := step(ctx, s.opts)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeWriteFailed, err, "open %s", path)
	}
	return f, nil
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	rep, err := s.runner.Report(r.Context(), chi.URLParam(r, "id"))
	if err == cache.ErrNotFound {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "batch report not found"))
		return
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// =============================================================================
// Responses
// =============================================================================

type errorBody struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, errorBody{Error: errors.UserMessage(err), Code: errors.GetCode(err)})
}

// statusFor maps error codes onto HTTP statuses.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidPath,
		errors.ErrCodeMalformedRow, errors.ErrCodeUnknownCategory, errors.ErrCodeUnknownTicketType:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func serveAttachment(w http.ResponseWriter, r *http.Request, f *os.File, contentType string) {
	var modTime time.Time
	if fi, err := f.Stat(); err == nil {
		modTime = fi.ModTime()
	}
	name := filepath.Base(f.Name())
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename=\""+name+"\"")
	http.ServeContent(w, r, name, modTime, f)
}
