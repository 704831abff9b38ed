package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"chemgps/adapters/excel"
	"chemgps/app"
	"chemgps/domain/core"
	"chemgps/domain/result"
	apperrors "chemgps/internal/errors"
	"chemgps/internal/format"
)

// maxBodyBytes bounds uploaded observation tables.
const maxBodyBytes = 32 << 20

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte("ok\n"))
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, result.Entries())
}

// handlePredict runs every model of the project named by the project query
// parameter against the CSV table in the request body.
func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	project := strings.TrimSpace(q.Get("project"))
	if project == "" {
		s.fail(w, r, apperrors.InvalidInput("missing project parameter"))
		return
	}

	opts := s.base
	if v := q.Get("format"); v != "" {
		enc, err := format.ParseEncoding(v)
		if err != nil {
			s.fail(w, r, apperrors.WithCode(apperrors.CodeInvalidInput, err))
			return
		}
		opts.Format = enc
	}
	if v := q.Get("verbose"); v != "" {
		verbose, err := strconv.ParseBool(v)
		if err != nil {
			s.fail(w, r, apperrors.InvalidInput(fmt.Sprintf("invalid verbose value %q", v)))
			return
		}
		opts.Verbose = verbose
	}
	if v := q.Get("results"); v != "" {
		mask, err := result.ParseMask(v)
		if err != nil {
			s.fail(w, r, apperrors.WithCode(apperrors.CodeInvalidInput, err))
			return
		}
		opts.Results = mask
	}

	table, err := excel.ReadCSV(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.fail(w, r, apperrors.WithCode(apperrors.CodeInvalidInput, err))
		return
	}
	opts.DataSource = excel.NewSource(nil)

	if err := s.engine.Acquire(r.Context(), 1); err != nil {
		s.fail(w, r, err)
		return
	}
	defer s.engine.Release(1)

	var out bytes.Buffer
	summary, err := s.service.Run(r.Context(), app.PredictionRequest{
		ProjectPath: s.projectPath(project),
		Options:     &opts,
		CallerData:  table,
		Output:      &out,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	contentType := "text/plain; charset=utf-8"
	if opts.Format == format.XML {
		contentType = "application/xml"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Models-Predicted", strconv.Itoa(summary.Predicted()))
	w.WriteHeader(http.StatusOK)
	w.Write(out.Bytes())
}

// projectPath keeps project names inside the project directory.
func (s *Server) projectPath(name string) string {
	return filepath.Join(s.projectDir, filepath.Clean("/"+name))
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	s.log.Warn("request %s failed: %v", RequestID(r.Context()), err)
	writeJSON(w, status, errorResponse{
		Error:     err.Error(),
		Code:      code,
		RequestID: RequestID(r.Context()).String(),
	})
}

func classify(err error) (int, string) {
	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &appErr) && appErr.Code == apperrors.CodeInvalidInput:
		return http.StatusBadRequest, appErr.Code
	case errors.Is(err, core.ErrProjectLoad):
		return http.StatusNotFound, apperrors.CodeEngineError
	case errors.Is(err, core.ErrConfiguration), errors.Is(err, core.ErrInvalidOption):
		return http.StatusBadRequest, apperrors.CodeConfigInvalid
	case core.IsFatalSessionError(err):
		return http.StatusBadGateway, apperrors.CodeEngineError
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, apperrors.CodeInternalError
	}
	return http.StatusInternalServerError, apperrors.GetCode(err)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
