// internal/api/booking/handlers.go
package booking

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Glamslot/internal/api/apiutil"
	"github.com/codr1/Glamslot/internal/availability"
	"github.com/codr1/Glamslot/internal/clock"
	appdb "github.com/codr1/Glamslot/internal/db"
	"github.com/codr1/Glamslot/internal/models"
	"github.com/codr1/Glamslot/internal/ranking"
)

const (
	bookingQueryTimeout = 5 * time.Second
	maxSlotCount        = 50
	dayLayout           = "2006-01-02"
)

type Options struct {
	HorizonDays        int
	DefaultSlotCount   int
	RankingParallelism int
}

var (
	queries     *appdb.Queries
	clk         clock.Clock
	opts        Options
	queriesOnce sync.Once
)

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(database *appdb.DB, c clock.Clock, o Options) {
	if database == nil {
		log.Warn().Msg("InitHandlers called with nil database; booking handlers will be unavailable")
		return
	}
	queriesOnce.Do(func() {
		queries = database.Queries
		clk = clock.OrReal(c)
		if o.HorizonDays <= 0 {
			o.HorizonDays = availability.DefaultHorizonDays
		}
		if o.DefaultSlotCount <= 0 {
			o.DefaultSlotCount = 1
		}
		opts = o
	})
}

type choiceOption struct {
	ID           *int64  `json:"id"`
	Label        string  `json:"label"`
	NoPreference bool    `json:"noPreference"`
	ServiceIDs   []int64 `json:"serviceIds,omitempty"`
}

// HandleListProfessionals handles GET /api/v1/professionals. The list starts
// with the no-preference entry followed by professionals in display order.
func HandleListProfessionals(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), bookingQueryTimeout)
	defer cancel()

	professionals, err := q.ListProfessionals(ctx)
	if err != nil {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusInternalServerError, Message: "Failed to load professionals", Err: err})
		return
	}

	choices := make([]choiceOption, 0, len(professionals)+1)
	choices = append(choices, choiceOption{Label: models.NoPreference{}.Label(), NoPreference: true})
	for _, professional := range professionals {
		id := professional.ID
		choices = append(choices, choiceOption{ID: &id, Label: professional.Name, ServiceIDs: professional.ServiceIDs()})
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"choices": choices}); err != nil {
		logger.Error().Err(err).Msg("Failed to write professionals response")
	}
}

// HandleProfessionalSlots handles GET /api/v1/professionals/{id}/slots?count=.
func HandleProfessionalSlots(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	professionalID, err := apiutil.ParsePositiveInt64Field(r.PathValue("id"), "professional id")
	if err != nil {
		apiutil.WriteError(w, r, apiutil.BadRequest(err))
		return
	}
	count, err := apiutil.ParseBoundedIntField(r.URL.Query().Get("count"), "count", opts.DefaultSlotCount, 1, maxSlotCount)
	if err != nil {
		apiutil.WriteError(w, r, apiutil.BadRequest(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), bookingQueryTimeout)
	defer cancel()

	professional, err := q.GetProfessional(ctx, professionalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusNotFound, Message: "Professional not found", Err: err})
			return
		}
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusInternalServerError, Message: "Failed to load professional", Err: err})
		return
	}

	now := clk.Now()
	catalog, err := loadCatalog(ctx, q, now)
	if err != nil {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusInternalServerError, Message: "Failed to load availability", Err: err})
		return
	}

	slots := availability.NewSearch(catalog, opts.HorizonDays).NextAvailable(professional, count, now)
	if slots == nil {
		slots = []availability.Slot{}
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{
		"professional": professional,
		"slots":        slots,
	}); err != nil {
		logger.Error().Err(err).Int64("professional_id", professionalID).Msg("Failed to write slots response")
	}
}

// HandleRanking handles GET /api/v1/booking/ranking?service_id=1&service_id=2.
func HandleRanking(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	required, err := apiutil.Int64ListFromQuery(r, "service_id")
	if err != nil {
		apiutil.WriteError(w, r, apiutil.BadRequest(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), bookingQueryTimeout)
	defer cancel()

	professionals, err := q.ListProfessionals(ctx)
	if err != nil {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusInternalServerError, Message: "Failed to load professionals", Err: err})
		return
	}

	now := clk.Now()
	catalog, err := loadCatalog(ctx, q, now)
	if err != nil {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusInternalServerError, Message: "Failed to load availability", Err: err})
		return
	}

	ranker := ranking.Ranker{
		Search:      availability.NewSearch(catalog, opts.HorizonDays),
		Parallelism: opts.RankingParallelism,
	}
	result := ranker.Rank(professionals, required, now)

	logger.Debug().
		Int("eligible", len(result.Entries)).
		Ints64("required_services", required).
		Msg("Ranked professionals")

	if err := apiutil.WriteJSON(w, http.StatusOK, result); err != nil {
		logger.Error().Err(err).Msg("Failed to write ranking response")
	}
}

// loadCatalog snapshots availability across the search horizon starting at now's day.
func loadCatalog(ctx context.Context, q *appdb.Queries, now time.Time) (availability.MapCatalog, error) {
	now = now.UTC()
	from := now.Format(dayLayout)
	to := now.AddDate(0, 0, opts.HorizonDays-1).Format(dayLayout)
	return q.LoadAvailabilityCatalog(ctx, from, to)
}

func loadQueries() *appdb.Queries {
	return queries
}
