// Package api serves the lookup facade and individual strategies over HTTP.
package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"line-lookup/internal/lookup"
)

// MaxBodySize bounds the POST /v1/lookup payload.
const MaxBodySize = 64 * 1024

// APIKeyHeader carries the optional shared secret.
const APIKeyHeader = "api_key"

// Facade answers membership queries for the configured file.
type Facade interface {
	FindMatch(ctx context.Context, raw []byte) bool
	Mode() string
	Entries() int
	Stale() (bool, error)
}

// Prober is a single strategy that reports lookup errors.
type Prober interface {
	Name() string
	Path() string
	Lookup(ctx context.Context, raw []byte) (bool, error)
}

var _ Facade = (*lookup.Lookup)(nil)

// Server implements ServerInterface.
type Server struct {
	facade     Facade
	strategies map[string]Prober
	apiKey     string
	logger     *zap.Logger
}

var _ ServerInterface = (*Server)(nil)

// NewServer creates a Server. An empty apiKey disables the api_key check.
func NewServer(facade Facade, strategies []Prober, apiKey string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	byName := make(map[string]Prober, len(strategies))
	for _, s := range strategies {
		byName[s.Name()] = s
	}
	return &Server{
		facade:     facade,
		strategies: byName,
		apiKey:     apiKey,
		logger:     logger,
	}
}

// Handler returns the routed handler with auth and /metrics wired.
func (s *Server) Handler() http.Handler {
	return HandlerWithOptions(s, HandlerOptions{
		Middlewares: []func(http.Handler) http.Handler{s.requireAPIKey},
		Metrics:     promhttp.Handler(),
	})
}

func (s *Server) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey != "" && r.Header.Get(APIKeyHeader) != s.apiKey {
			writeError(w, http.StatusUnauthorized, "Invalid or missing API key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// LookupQuery handles GET /v1/lookup.
func (s *Server) LookupQuery(w http.ResponseWriter, r *http.Request, q string) {
	s.lookupFacade(w, r, []byte(q))
}

// LookupBody handles POST /v1/lookup. The body is the raw payload.
func (s *Server) LookupBody(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodySize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	s.lookupFacade(w, r, raw)
}

func (s *Server) lookupFacade(w http.ResponseWriter, r *http.Request, raw []byte) {
	start := time.Now()
	found := s.facade.FindMatch(r.Context(), raw)
	resp := LookupResponse{
		Id:        uuid.NewString(),
		Found:     found,
		Strategy:  s.facade.Mode(),
		ElapsedUs: time.Since(start).Microseconds(),
	}
	s.logger.Debug("lookup",
		zap.String("id", resp.Id),
		zap.Bool("found", found),
		zap.Int64("elapsed_us", resp.ElapsedUs),
	)
	writeJSON(w, http.StatusOK, resp)
}

// ListStrategies handles GET /v1/strategies.
func (s *Server) ListStrategies(w http.ResponseWriter, r *http.Request) {
	infos := make([]StrategyInfo, 0, len(s.strategies))
	for _, p := range s.strategies {
		infos = append(infos, StrategyInfo{Name: p.Name(), Path: p.Path()})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	writeJSON(w, http.StatusOK, infos)
}

// StrategyLookup handles GET /v1/strategies/{name}/lookup. Lookup errors
// are reported in the body alongside found=false.
func (s *Server) StrategyLookup(w http.ResponseWriter, r *http.Request, name string, q string) {
	p, ok := s.strategies[name]
	if !ok {
		writeError(w, http.StatusNotFound, "Unknown strategy: "+name)
		return
	}

	start := time.Now()
	found, err := p.Lookup(r.Context(), []byte(q))
	resp := LookupResponse{
		Id:        uuid.NewString(),
		Found:     found && err == nil,
		Strategy:  name,
		ElapsedUs: time.Since(start).Microseconds(),
	}
	if err != nil {
		resp.Error = err.Error()
		s.logger.Warn("strategy lookup failed",
			zap.String("id", resp.Id),
			zap.String("strategy", name),
			zap.Error(err),
		)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Health handles GET /healthz.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	stale, err := s.facade.Stale()
	if err != nil {
		s.logger.Warn("health check failed", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "Lookup file unavailable")
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Mode:    s.facade.Mode(),
		Entries: s.facade.Entries(),
		Stale:   stale,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
