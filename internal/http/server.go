// Package http serves the ledger and the finance engines as a JSON API.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"finanzas/internal/cache"
	"finanzas/internal/ledger"
	applog "finanzas/internal/log"
	"finanzas/internal/middleware/ratelimit"
	"finanzas/internal/middleware/security"
	"finanzas/internal/middleware/trace"
	"finanzas/internal/services"
	"finanzas/internal/simulator"
)

const (
	simulationCacheSize = 256
	simulationCacheTTL  = 30 * time.Minute
	cacheSweepInterval  = 5 * time.Minute
	readyTimeout        = 2 * time.Second
)

type Options struct {
	// RateLimitPerMinute caps mutating requests per client IP.
	RateLimitPerMinute int
	Logger             *applog.Logger
}

type Server struct {
	http.Server
	ledger   *services.LedgerService
	analysis *services.AnalysisService
	reader   ledger.SnapshotReader
	logger   *applog.Logger

	detector *security.Detector
	limiter  *ratelimit.Limiter
	tracer   *trace.Middleware

	// Simulations are a pure function of their inputs.
	simulations *cache.LRUCache[simulator.Result]
	caches      *cache.Manager

	now          func() time.Time
	shutdownOnce sync.Once
}

// NewServer wires routes and middleware and starts the background sweepers
// that Shutdown stops.
func NewServer(addr string, ls *services.LedgerService, as *services.AnalysisService, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = applog.New(applog.Config{Level: slog.LevelInfo, Component: applog.ComponentHTTP})
	}

	s := &Server{
		ledger:      ls,
		analysis:    as,
		reader:      ls.Store(),
		logger:      logger,
		detector:    security.NewDetector(),
		limiter:     ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		simulations: cache.NewLRUCache[simulator.Result](simulationCacheSize, simulationCacheTTL),
		caches:      cache.NewManager(),
		now:         time.Now,
	}
	s.tracer = trace.NewMiddleware(s.detector.ExtractClientIP)
	s.caches.Register("simulations", s.simulations)
	s.caches.StartCleanup(cacheSweepInterval)

	mux := http.NewServeMux()
	s.routes(mux)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.middleware(mux),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/score", s.handleScore)
	mux.HandleFunc("GET /api/recommendations", s.handleRecommendations)
	mux.HandleFunc("GET /api/methods", s.handleMethods)
	mux.HandleFunc("GET /api/methods/{id}", s.handleMethod)
	mux.HandleFunc("GET /api/methods/{id}/buckets", s.handleBuckets)
	mux.HandleFunc("GET /api/weekly", s.handleWeekly)
	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/advisor/context", s.handleAdvisorContext)
	mux.HandleFunc("POST /api/simulate", s.handleSimulate)

	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)
	mux.HandleFunc("POST /api/savings/contributions", s.handleCreateContribution)
	mux.HandleFunc("DELETE /api/savings/contributions/{id}", s.handleDeleteContribution)
	mux.HandleFunc("POST /api/savings/withdrawals", s.handleCreateWithdrawal)
	mux.HandleFunc("DELETE /api/savings/withdrawals/{id}", s.handleDeleteWithdrawal)
	mux.HandleFunc("GET /api/categories/{kind}", s.handleListCategories)
	mux.HandleFunc("POST /api/categories/{kind}", s.handleCreateCategory)

	mux.HandleFunc("PUT /api/settings/goal", s.handleSetGoal)
	mux.HandleFunc("DELETE /api/settings/goal", s.handleClearGoal)
	mux.HandleFunc("PUT /api/settings/expense-limit", s.handleSetExpenseLimit)

	mux.HandleFunc("GET /api/scheduled", s.handleListScheduled)
	mux.HandleFunc("POST /api/scheduled", s.handleCreateScheduled)
	mux.HandleFunc("PUT /api/scheduled/{id}", s.handleUpdateScheduled)
	mux.HandleFunc("DELETE /api/scheduled/{id}", s.handleDeleteScheduled)

	mux.HandleFunc("GET /api/reports", s.handleListReports)
	mux.HandleFunc("POST /api/reports/{year}/{month}", s.handleRequestReport)
	mux.HandleFunc("POST /api/reset", s.handleReset)
}

// middleware runs outermost first: logger, trace, headers, detection, then
// the rate limit on mutating methods.
func (s *Server) middleware(next http.Handler) http.Handler {
	limit := s.limiter.Middleware(s.detector.ExtractClientIP, isMutating, s.onRateLimit)
	h := limit(next)
	h = s.detector.Middleware(h)
	h = security.NewHeadersMiddleware(security.APIHeadersConfig()).Middleware(h)
	h = s.tracer.Middleware(h)
	return applog.Middleware(s.logger)(h)
}

func isMutating(r *http.Request) bool {
	switch r.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	}
	return true
}

func (s *Server) onRateLimit(w http.ResponseWriter, r *http.Request) {
	applog.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
		applog.FieldClientIP, s.detector.ExtractClientIP(r),
		applog.FieldPath, r.URL.Path)
	writeJSON(w, http.StatusTooManyRequests, errorBody{Error: "too many requests, retry in a minute"})
}

// Shutdown drains connections and stops the sweepers. It runs once.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.caches.Stop()
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type pinger interface {
	Ping(ctx context.Context) error
}

// handleReady pings backends that hold a connection; the others are always ready.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if p, ok := s.reader.(pinger); ok {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			applog.FromContext(ctx).ErrorContext(ctx, "Readiness check failed", applog.FieldError, err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
