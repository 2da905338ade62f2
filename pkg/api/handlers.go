package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dd0wney/cluso-textnet/pkg/logging"
	"github.com/dd0wney/cluso-textnet/pkg/network"
)

// handleAnalyze serves POST /api/v1/analyze. Too little data is a 200
// with status insufficient_data, not an error.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if status, err := decodeJSON(r, &req); err != nil {
		s.respondError(w, status, err.Error())
		return
	}
	if req.Export && s.sink == nil {
		s.respondFailure(w, r, errExportDisabled)
		return
	}

	p, err := s.pipelineFor(req.Config)
	if err != nil {
		s.respondFailure(w, r, err)
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	result, err := p.Analyze(ctx, network.Input{
		Category:   req.Category,
		Documents:  req.Documents,
		Dictionary: req.Dictionary,
	})
	if err != nil {
		s.respondFailure(w, r, err)
		return
	}

	resp := AnalyzeResponse{Result: result}
	if req.Export {
		if err := s.export(ctx, "analyze", []*network.Result{result}); err != nil {
			s.respondError(w, http.StatusBadGateway, err.Error())
			return
		}
		resp.Exported = 1
	}
	s.respondJSON(w, http.StatusOK, resp)
}

// handleCategories serves POST /api/v1/analyze/categories.
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	var req CategoriesRequest
	if status, err := decodeJSON(r, &req); err != nil {
		s.respondError(w, status, err.Error())
		return
	}
	if req.Export && s.sink == nil {
		s.respondFailure(w, r, errExportDisabled)
		return
	}

	p, err := s.pipelineFor(req.Config)
	if err != nil {
		s.respondFailure(w, r, err)
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	results, err := p.RunCategories(ctx, req.Records, req.Dictionary)
	if err != nil {
		s.respondFailure(w, r, err)
		return
	}

	resp := CategoriesResponse{Results: results}
	if req.Export {
		if err := s.export(ctx, "analyze_categories", results); err != nil {
			s.respondError(w, http.StatusBadGateway, err.Error())
			return
		}
		resp.Exported = len(results)
	}
	s.respondJSON(w, http.StatusOK, resp)
}

// handleConfig serves the base pipeline settings so clients can see what
// their overrides apply to.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.PipelineConfig())
}

func (s *Server) export(ctx context.Context, op string, results []*network.Result) error {
	n, err := s.sink.Write(ctx, results)
	if err != nil {
		s.logger.Error("export failed",
			logging.Operation(op),
			logging.String("sink", s.sink.Name()),
			logging.Int("bytes", n),
			logging.Error(err))
		return fmt.Errorf("export to %s failed", s.sink.Name())
	}
	s.logger.Debug("results exported",
		logging.Operation(op),
		logging.String("sink", s.sink.Name()),
		logging.Count(len(results)),
		logging.Int("bytes", n))
	return nil
}
