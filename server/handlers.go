package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/teranos/chartparse/display"
	"github.com/teranos/chartparse/errors"
	"github.com/teranos/chartparse/logger"
	"github.com/teranos/chartparse/metrics"
	"github.com/teranos/chartparse/syn/chart"
	"github.com/teranos/chartparse/syn/engine"
	"github.com/teranos/chartparse/version"
)

// HandleHealth reports liveness and build information.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	info := version.Get()
	p := s.engine.Parser()
	_, remaining := s.limiter.Stats()
	health := map[string]interface{}{
		"status":            "ok",
		"state":             stateString(s.getState()),
		"version":           info.Version,
		"commit":            info.CommitHash,
		"rules":             p.Table().Len(),
		"words":             s.engine.Lexicon().Len(),
		"session_sentences": metrics.SessionSentences(),
		"parses_remaining":  remaining,
	}
	writeJSON(w, http.StatusOK, health)
}

// HandleMetrics serves the Prometheus registry.
func (s *Server) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	metrics.Handler().ServeHTTP(w, r)
}

// ParseRequest is the body of POST /parse.
type ParseRequest struct {
	Text string      `json:"text"`
	Span *chart.Span `json:"span,omitempty"`
}

// HandleParse parses one text and returns its view.
func (s *Server) HandleParse(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if err := readJSON(w, r, &req); err != nil {
		return
	}

	if err := s.limiter.Allow(); err != nil {
		writeWrappedError(w, s.logger, err, "parse rejected", http.StatusTooManyRequests)
		return
	}

	ctx := logger.WithRequestID(r.Context(), middleware.GetReqID(r.Context()))
	out, err := s.engine.Parse(ctx, engine.Request{Text: req.Text, Span: req.Span})
	if err != nil {
		writeWrappedError(w, s.logger, err, "failed to parse", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, display.NewView(out.RunID, out.Result))
}

// HandleGrammarRules lists the rules of the active grammar table.
func (s *Server) HandleGrammarRules(w http.ResponseWriter, r *http.Request) {
	rules := s.engine.Parser().Table().Rules()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(rules),
		"rules": rules,
	})
}

// HandleRuns lists recent parse runs. ?limit= caps the count.
func (s *Server) HandleRuns(w http.ResponseWriter, r *http.Request) {
	runs := s.engine.Runs()
	if runs == nil {
		writeWrappedError(w, s.logger, errors.Wrap(ErrServiceUnavailable, "no database configured"),
			"failed to list runs", http.StatusServiceUnavailable)
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, 500)
	}

	list, err := runs.Recent(r.Context(), limit)
	if err != nil {
		writeWrappedError(w, s.logger, err, "failed to list runs", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(list),
		"runs":  list,
	})
}

// HandleRun returns one parse run by id.
func (s *Server) HandleRun(w http.ResponseWriter, r *http.Request) {
	runs := s.engine.Runs()
	if runs == nil {
		writeWrappedError(w, s.logger, errors.Wrap(ErrServiceUnavailable, "no database configured"),
			"failed to load run", http.StatusServiceUnavailable)
		return
	}

	id := chi.URLParam(r, "id")
	run, err := runs.Get(r.Context(), id)
	if err != nil {
		writeWrappedError(w, s.logger, err, "failed to load run", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, run)
}
