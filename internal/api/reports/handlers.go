// internal/api/reports/handlers.go
package reports

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/codr1/Glamslot/internal/api/apiutil"
	periodsapi "github.com/codr1/Glamslot/internal/api/periods"
	"github.com/codr1/Glamslot/internal/clock"
	appdb "github.com/codr1/Glamslot/internal/db"
	"github.com/codr1/Glamslot/internal/periods"
	"github.com/codr1/Glamslot/internal/reports"
	"github.com/codr1/Glamslot/internal/revenue"
)

const reportsQueryTimeout = 10 * time.Second

var (
	queries     *appdb.Queries
	clk         clock.Clock
	queriesOnce sync.Once
)

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(database *appdb.DB, c clock.Clock) {
	if database == nil {
		log.Warn().Msg("InitHandlers called with nil database; report handlers will be unavailable")
		return
	}
	queriesOnce.Do(func() {
		queries = database.Queries
		clk = clock.OrReal(c)
	})
}

// HandleSummary handles GET /api/v1/reports/summary with the same period
// parameters as the period endpoints.
func HandleSummary(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), reportsQueryTimeout)
	defer cancel()

	selection, err := periodsapi.ResolveSelection(ctx, q, periodsapi.SelectionRequestFromQuery(r), clk.Now())
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	events, err := loadEventsFor(ctx, q, selection)
	if err != nil {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusInternalServerError, Message: "Failed to load appointments", Err: err})
		return
	}

	summary := reports.Summarize(events, selection)
	if err := apiutil.WriteJSON(w, http.StatusOK, summary); err != nil {
		logger.Error().Err(err).Str("key", selection.Key).Msg("Failed to write summary response")
	}
}

type bestPeriodResponse struct {
	Category  revenue.Category  `json:"category"`
	Selection periods.Selection `json:"selection"`
	Revenue   decimal.Decimal   `json:"revenue"`
}

// HandleBestPeriod handles GET /api/v1/reports/best?category=week.
func HandleBestPeriod(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	raw := r.URL.Query().Get("category")
	if raw == "" {
		raw = string(revenue.CategoryWeek)
	}
	category, err := revenue.ParseCategory(raw)
	if err != nil {
		apiutil.WriteError(w, r, apiutil.BadRequest(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), reportsQueryTimeout)
	defer cancel()

	appts, err := q.ListAppointments(ctx)
	if err != nil {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusInternalServerError, Message: "Failed to load appointments", Err: err})
		return
	}

	selection, window, err := reports.BestPeriodSelection(revenue.FromAppointments(appts), category, clk.Now())
	if err != nil {
		apiutil.WriteError(w, r, apiutil.BadRequest(err))
		return
	}

	response := bestPeriodResponse{Category: category, Selection: selection, Revenue: window.Revenue}
	if err := apiutil.WriteJSON(w, http.StatusOK, response); err != nil {
		logger.Error().Err(err).Str("category", string(category)).Msg("Failed to write best period response")
	}
}

// HandleDigestPreview handles GET /api/v1/reports/digest.
func HandleDigestPreview(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), reportsQueryTimeout)
	defer cancel()

	appts, err := q.ListAppointments(ctx)
	if err != nil {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusInternalServerError, Message: "Failed to load appointments", Err: err})
		return
	}

	digest, err := reports.BuildDigest(revenue.FromAppointments(appts), clk.Now())
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, digest); err != nil {
		logger.Error().Err(err).Msg("Failed to write digest response")
	}
}

// loadEventsFor loads the appointments covering the selection and its comparison.
func loadEventsFor(ctx context.Context, q *appdb.Queries, selection periods.Selection) ([]revenue.Event, error) {
	start, end := selection.Range.Start, selection.Range.End
	if selection.Comparison != nil {
		if selection.Comparison.Range.Start.Before(start) {
			start = selection.Comparison.Range.Start
		}
		if selection.Comparison.Range.End.After(end) {
			end = selection.Comparison.Range.End
		}
	}
	appts, err := q.ListAppointmentsBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return revenue.FromAppointments(appts), nil
}

func loadQueries() *appdb.Queries {
	return queries
}
