package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"

	"github.com/dd0wney/cluso-textnet/pkg/logging"
	"github.com/dd0wney/cluso-textnet/pkg/network"
	"github.com/dd0wney/cluso-textnet/pkg/validation"
)

var errExportDisabled = errors.New("export is not configured on this server")

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("error encoding JSON response", logging.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}

// decodeJSON reads a single JSON value, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) (int, error) {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return http.StatusRequestEntityTooLarge, fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit)
		}
		return http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err)
	}
	return 0, nil
}

// pipelineFor builds a pipeline from the base settings with overrides
// applied. Unknown override keys are invalid configuration.
func (s *Server) pipelineFor(overrides json.RawMessage) (*network.Pipeline, error) {
	cfg := s.PipelineConfig()
	cfg.Stopwords = slices.Clone(cfg.Stopwords)

	if trimmed := bytes.TrimSpace(overrides); len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("%w: config: %v", validation.ErrInvalidConfiguration, err)
		}
	}
	return network.New(cfg, s.pipelineOptions()...)
}

// respondFailure maps analysis errors to status codes. Internal details
// stay in the log.
func (s *Server) respondFailure(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, validation.ErrInvalidConfiguration),
		errors.Is(err, network.ErrInvalidInput):
		s.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, errExportDisabled):
		s.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		s.respondError(w, http.StatusGatewayTimeout, "Analysis timed out")
	case errors.Is(err, context.Canceled):
		s.respondError(w, http.StatusServiceUnavailable, "Request cancelled")
	default:
		s.logger.Error("analysis request failed",
			logging.String("path", r.URL.Path),
			logging.Error(err))
		s.respondError(w, http.StatusInternalServerError, "Analysis failed")
	}
}
