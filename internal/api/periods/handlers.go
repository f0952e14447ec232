// internal/api/periods/handlers.go
package periods

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Glamslot/internal/api/apiutil"
	"github.com/codr1/Glamslot/internal/clock"
	appdb "github.com/codr1/Glamslot/internal/db"
	"github.com/codr1/Glamslot/internal/periods"
	"github.com/codr1/Glamslot/internal/revenue"
)

const (
	periodsQueryTimeout = 5 * time.Second
	// DefaultKey is used when a request names neither a key nor custom bounds.
	DefaultKey = periods.KeyLast30
)

var (
	queries     *appdb.Queries
	clk         clock.Clock
	queriesOnce sync.Once
)

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(database *appdb.DB, c clock.Clock) {
	if database == nil {
		log.Warn().Msg("InitHandlers called with nil database; period handlers will be unavailable")
		return
	}
	queriesOnce.Do(func() {
		queries = database.Queries
		clk = clock.OrReal(c)
	})
}

// SelectionRequest names either a quick key or custom Start/End days.
type SelectionRequest struct {
	Key     string `json:"key"`
	Start   string `json:"start"`
	End     string `json:"end"`
	Compare string `json:"compare"`
}

// SelectionRequestFromQuery reads key, start, end and compare.
func SelectionRequestFromQuery(r *http.Request) SelectionRequest {
	query := r.URL.Query()
	key := query.Get("key")
	if key == "" {
		key = query.Get("period")
	}
	return SelectionRequest{
		Key:     key,
		Start:   query.Get("start"),
		End:     query.Get("end"),
		Compare: query.Get("compare"),
	}.normalized()
}

func (req SelectionRequest) normalized() SelectionRequest {
	return SelectionRequest{
		Key:     strings.TrimSpace(req.Key),
		Start:   strings.TrimSpace(req.Start),
		End:     strings.TrimSpace(req.End),
		Compare: strings.TrimSpace(req.Compare),
	}
}

// IsCustom reports whether the request carries custom bounds.
func (req SelectionRequest) IsCustom() bool {
	return req.Start != "" || req.End != "" || req.Key == "custom"
}

// ResolveSelection turns req into a Selection as of now. Invalid input comes
// back as a 400 HandlerError. allTime reads appointment history from q.
func ResolveSelection(ctx context.Context, q *appdb.Queries, req SelectionRequest, now time.Time) (periods.Selection, error) {
	req = req.normalized()
	mode, err := periods.ParseComparisonMode(req.Compare)
	if err != nil {
		return periods.Selection{}, apiutil.BadRequest(err)
	}

	if req.IsCustom() {
		selection, err := periods.ResolveCustomPeriod(req.Start, req.End, mode)
		if err != nil {
			var rangeErr *periods.InvalidRangeError
			if errors.As(err, &rangeErr) {
				return periods.Selection{}, apiutil.HandlerError{Status: http.StatusBadRequest, Message: rangeErr.Reason, Err: err}
			}
			return periods.Selection{}, apiutil.BadRequest(err)
		}
		return selection, nil
	}

	key := req.Key
	if key == "" {
		key = DefaultKey
	}
	if !periods.IsQuickKey(key) {
		return periods.Selection{}, apiutil.HandlerError{Status: http.StatusBadRequest, Message: "invalid period key", Err: periods.ErrUnknownPeriod}
	}

	var history []time.Time
	if key == periods.KeyAllTime {
		appts, err := q.ListAppointments(ctx)
		if err != nil {
			return periods.Selection{}, apiutil.HandlerError{Status: http.StatusInternalServerError, Message: "Failed to load appointment history", Err: err}
		}
		history = revenue.Instants(revenue.FromAppointments(appts))
	}

	selection, err := periods.QuickSelection(key, now, history, mode)
	if err != nil {
		return periods.Selection{}, apiutil.BadRequest(err)
	}
	return selection, nil
}

type quickKeyOption struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// HandleListQuickKeys handles GET /api/v1/periods.
func HandleListQuickKeys(w http.ResponseWriter, r *http.Request) {
	options := make([]quickKeyOption, 0, len(periods.QuickKeys()))
	for _, key := range periods.QuickKeys() {
		options = append(options, quickKeyOption{Key: key, Label: periods.QuickLabel(key)})
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"periods": options}); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write period list response")
	}
}

// HandleQuickPeriod handles GET /api/v1/periods/quick?key=&compare=.
func HandleQuickPeriod(w http.ResponseWriter, r *http.Request) {
	req := SelectionRequestFromQuery(r)
	req.Start, req.End = "", ""
	if req.Key == "" {
		apiutil.WriteError(w, r, apiutil.FieldError{Field: "key", Reason: "is required"})
		return
	}
	respondWithSelection(w, r, req)
}

// HandleCustomPeriod handles GET /api/v1/periods/custom?start=&end=&compare=.
func HandleCustomPeriod(w http.ResponseWriter, r *http.Request) {
	req := SelectionRequestFromQuery(r)
	req.Key = "custom"
	respondWithSelection(w, r, req)
}

// HandleResolvePeriod handles POST /api/v1/periods with a SelectionRequest body.
func HandleResolvePeriod(w http.ResponseWriter, r *http.Request) {
	var req SelectionRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Message: "Invalid request body", Err: err})
		return
	}
	respondWithSelection(w, r, req)
}

func respondWithSelection(w http.ResponseWriter, r *http.Request, req SelectionRequest) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), periodsQueryTimeout)
	defer cancel()

	selection, err := ResolveSelection(ctx, q, req, clk.Now())
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, selection); err != nil {
		logger.Error().Err(err).Str("key", selection.Key).Msg("Failed to write period response")
	}
}

func loadQueries() *appdb.Queries {
	return queries
}
