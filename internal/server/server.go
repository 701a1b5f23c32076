package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/pable/go-fab-history/internal/aggregator"
	"github.com/pable/go-fab-history/internal/model"
	"github.com/pable/go-fab-history/internal/report"
)

const shutdownTimeout = 5 * time.Second

// Server exposes the query surface of one loaded dataset as JSON.
// Handlers share the dataset read-only.
type Server struct {
	ds     *aggregator.Dataset
	logger zerolog.Logger
}

func New(ds *aggregator.Dataset, logger zerolog.Logger) *Server {
	return &Server{ds: ds, logger: logger}
}

// Handler returns the routed handler with CORS and request logging applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/subject", s.handleSubject)
	mux.HandleFunc("GET /api/global", s.handleGlobal)
	mux.HandleFunc("GET /api/opponents", s.handleOpponents)
	mux.HandleFunc("GET /api/rounds", s.handleRounds)
	mux.HandleFunc("GET /api/top", s.handleTop)
	mux.HandleFunc("GET /api/search", s.handleSearch)
	mux.HandleFunc("GET /api/summary", s.handleSummary)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})
	return RequestID(s.logger)(c.Handler(mux))
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info().Msg("server stopped gracefully")
	return nil
}

// queryParams are the filter and sort parameters shared by the endpoints.
type queryParams struct {
	filter model.Filter
	key    model.SortKey
	dir    model.Direction
}

func parseParams(r *http.Request) (queryParams, error) {
	q := r.URL.Query()
	var p queryParams
	var err error
	if p.filter.Rating, err = model.ParseRatingFilter(q.Get("rating")); err != nil {
		return p, err
	}
	p.filter.Opponent = q.Get("opponent")
	if p.key, err = model.ParseSortKey(q.Get("sort")); err != nil {
		return p, err
	}
	if p.dir, err = model.ParseDirection(q.Get("dir")); err != nil {
		return p, err
	}
	return p, nil
}

// parseN reads a non-negative n, defaulting to def.
func parseN(r *http.Request, def int) (int, error) {
	raw := r.URL.Query().Get("n")
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid n %q (want a non-negative integer)", raw)
	}
	return n, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSubject(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"subject":     s.ds.Subject(),
		"diagnostics": s.ds.Diagnostics(),
	})
}

func (s *Server) handleGlobal(w http.ResponseWriter, r *http.Request) {
	p, err := parseParams(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, s.ds.GlobalStats(p.filter))
}

func (s *Server) handleOpponents(w http.ResponseWriter, r *http.Request) {
	p, err := parseParams(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	stats := aggregator.SortOpponents(s.ds.OpponentStats(p.filter), p.key, p.dir)
	writeResults(w, stats)
}

func (s *Server) handleRounds(w http.ResponseWriter, r *http.Request) {
	p, err := parseParams(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": s.ds.RoundStats(p.filter)})
}

func (s *Server) handleTop(w http.ResponseWriter, r *http.Request) {
	p, err := parseParams(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	n, err := parseN(r, report.DefaultTopN)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	top, err := s.ds.TopOpponents(p.filter, n)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	writeResults(w, top)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	p, err := parseParams(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	writeResults(w, s.ds.SearchOpponent(p.filter, r.URL.Query().Get("q")))
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	p, err := parseParams(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	n, err := parseN(r, report.DefaultTopN)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	sum, err := report.BuildSummary(r.Context(), s.ds, p.filter, p.key, p.dir, n)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// writeResults wraps opponent lists so that an empty result is explicit.
func writeResults(w http.ResponseWriter, stats []model.OpponentStats) {
	writeJSON(w, http.StatusOK, map[string]any{
		"results":    stats,
		"no_results": len(stats) == 0,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	zerolog.Ctx(r.Context()).Warn().Err(err).Int("status", status).Msg("request failed")
	writeJSON(w, status, map[string]string{
		"error":      err.Error(),
		"request_id": GetRequestID(r.Context()),
	})
}
