// cmd/server/server.go
package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/codr1/Glamslot/internal/api"
	"github.com/codr1/Glamslot/internal/api/booking"
	"github.com/codr1/Glamslot/internal/api/periods"
	"github.com/codr1/Glamslot/internal/api/reports"
	"github.com/codr1/Glamslot/internal/clock"
	"github.com/codr1/Glamslot/internal/config"
	"github.com/codr1/Glamslot/internal/db"
	"github.com/codr1/Glamslot/internal/ratelimit"
)

func newServer(cfg *config.Config, database *db.DB, clk clock.Clock) *http.Server {
	router := http.NewServeMux()

	var routed http.Handler = router
	var limiter *ratelimit.Limiter
	if cfg.RateLimitEnabled() {
		limiter = ratelimit.New(&ratelimit.Config{
			Limit:      cfg.RateLimit.RequestsPerMinute,
			Window:     time.Minute,
			TrustProxy: cfg.RateLimit.TrustProxy,
			Clock:      clk,
		})
		routed = skipHealth(limiter.Middleware(router), router)
	}

	// Setup middleware chain
	handler := api.ChainMiddleware(
		routed,
		api.WithLogging,
		api.WithRecovery,
		api.WithRequestID,
		api.WithContentType,
	)

	periods.InitHandlers(database, clk)
	reports.InitHandlers(database, clk)
	booking.InitHandlers(database, clk, booking.Options{
		HorizonDays:        cfg.Booking.HorizonDays,
		DefaultSlotCount:   cfg.Booking.DefaultSlotCount,
		RankingParallelism: cfg.Booking.RankingParallelism,
	})

	registerRoutes(router, database)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	if limiter != nil {
		server.RegisterOnShutdown(limiter.Close)
	}
	return server
}

// skipHealth keeps health probes out of the rate limiter.
func skipHealth(limited, direct http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			direct.ServeHTTP(w, r)
			return
		}
		limited.ServeHTTP(w, r)
	})
}

func registerRoutes(mux *http.ServeMux, database *db.DB) {
	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if err := database.PingContext(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Period routes
	mux.HandleFunc("GET /api/v1/periods", periods.HandleListQuickKeys)
	mux.HandleFunc("POST /api/v1/periods", periods.HandleResolvePeriod)
	mux.HandleFunc("GET /api/v1/periods/quick", periods.HandleQuickPeriod)
	mux.HandleFunc("GET /api/v1/periods/custom", periods.HandleCustomPeriod)

	// Report routes
	mux.HandleFunc("GET /api/v1/reports/summary", reports.HandleSummary)
	mux.HandleFunc("GET /api/v1/reports/best", reports.HandleBestPeriod)
	mux.HandleFunc("GET /api/v1/reports/digest", reports.HandleDigestPreview)

	// Booking routes
	mux.HandleFunc("GET /api/v1/professionals", booking.HandleListProfessionals)
	mux.HandleFunc("GET /api/v1/professionals/{id}/slots", booking.HandleProfessionalSlots)
	mux.HandleFunc("GET /api/v1/booking/ranking", booking.HandleRanking)
}
