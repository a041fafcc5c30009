// internal/api/maintenance/handlers.go
package maintenance

import (
	"context"
	"database/sql"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/courtlyhq/courtly/internal/api/apiutil"
	"github.com/courtlyhq/courtly/internal/booking"
	appdb "github.com/courtlyhq/courtly/internal/db"
	dbgen "github.com/courtlyhq/courtly/internal/db/generated"
)

const (
	maintenanceQueryTimeout = 5 * time.Second
	// Series expansion horizon. Windows beyond this are materialized by
	// re-running the expansion, not stored up front.
	seriesHorizon = 90 * 24 * time.Hour
)

var (
	store     *appdb.DB
	storeOnce sync.Once
)

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(database *appdb.DB) {
	if database == nil {
		return
	}
	storeOnce.Do(func() {
		store = database
	})
}

func loadDB() *appdb.DB {
	return store
}

type createWindowRequest struct {
	CourtID   int64  `json:"courtId"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

type createSeriesRequest struct {
	CourtID         int64  `json:"courtId"`
	CronExpr        string `json:"cronExpr"`
	DurationMinutes int64  `json:"durationMinutes"`
}

type windowResponse struct {
	ID        int64  `json:"id"`
	CourtID   int64  `json:"courtId"`
	SeriesID  int64  `json:"seriesId,omitempty"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Status    string `json:"status"`
}

type seriesResponse struct {
	ID              int64            `json:"id"`
	CourtID         int64            `json:"courtId"`
	CronExpr        string           `json:"cronExpr"`
	DurationMinutes int64            `json:"durationMinutes"`
	Status          string           `json:"status"`
	Windows         []windowResponse `json:"windows"`
}

func toWindowResponse(w dbgen.MaintenanceWindow) windowResponse {
	out := windowResponse{
		ID:        w.ID,
		CourtID:   w.CourtID,
		StartTime: w.StartTime.UTC().Format(time.RFC3339),
		EndTime:   w.EndTime.UTC().Format(time.RFC3339),
		Status:    w.Status,
	}
	if w.SeriesID.Valid {
		out.SeriesID = w.SeriesID.Int64
	}
	return out
}

// POST /api/v1/maintenance/windows
func HandleCreateWindow(w http.ResponseWriter, r *http.Request) {
	database := loadDB()
	if database == nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var req createWindowRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteDomainError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Message: "Invalid request body", Err: err})
		return
	}
	if req.CourtID <= 0 {
		apiutil.WriteDomainError(w, r, apiutil.FieldError{Field: "courtId", Reason: "must be greater than 0"})
		return
	}
	start, err := apiutil.ParseTimeField(req.StartTime, "startTime")
	if err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}
	end, err := apiutil.ParseTimeField(req.EndTime, "endTime")
	if err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}
	if !end.After(start) {
		apiutil.WriteDomainError(w, r, apiutil.FieldError{Field: "endTime", Reason: "must be after startTime"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), maintenanceQueryTimeout)
	defer cancel()

	if _, err := database.Queries.GetCourtByID(ctx, req.CourtID); err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}
	window, err := database.Queries.CreateMaintenanceWindow(ctx, dbgen.CreateMaintenanceWindowParams{
		CourtID:   req.CourtID,
		StartTime: start,
		EndTime:   end,
		Status:    booking.MaintenanceScheduled,
	})
	if err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}

	log.Ctx(r.Context()).Info().
		Int64("court_id", req.CourtID).
		Int64("window_id", window.ID).
		Msg("Maintenance window scheduled")
	_ = apiutil.WriteJSON(w, http.StatusCreated, toWindowResponse(window))
}

// POST /api/v1/maintenance/series
// Creates the series row and materializes its occurrences over the
// expansion horizon in one transaction.
func HandleCreateSeries(w http.ResponseWriter, r *http.Request) {
	database := loadDB()
	if database == nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var req createSeriesRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteDomainError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Message: "Invalid request body", Err: err})
		return
	}
	if req.CourtID <= 0 {
		apiutil.WriteDomainError(w, r, apiutil.FieldError{Field: "courtId", Reason: "must be greater than 0"})
		return
	}
	if req.DurationMinutes <= 0 {
		apiutil.WriteDomainError(w, r, apiutil.FieldError{Field: "durationMinutes", Reason: "must be greater than 0"})
		return
	}

	now := time.Now().UTC()
	occurrences, err := booking.ExpandSeries(req.CronExpr, time.Duration(req.DurationMinutes)*time.Minute, now, seriesHorizon)
	if err != nil {
		apiutil.WriteDomainError(w, r, apiutil.FieldError{Field: "cronExpr", Reason: err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), maintenanceQueryTimeout)
	defer cancel()

	var (
		series  dbgen.MaintenanceSeries
		windows []dbgen.MaintenanceWindow
	)
	err = database.RunInTx(ctx, func(txdb *appdb.DB) error {
		if _, err := txdb.Queries.GetCourtByID(ctx, req.CourtID); err != nil {
			return err
		}
		var err error
		series, err = txdb.Queries.CreateMaintenanceSeries(ctx, dbgen.CreateMaintenanceSeriesParams{
			CourtID:         req.CourtID,
			CronExpr:        req.CronExpr,
			DurationMinutes: req.DurationMinutes,
			Status:          booking.MaintenanceScheduled,
		})
		if err != nil {
			return err
		}
		for _, occ := range occurrences {
			window, err := txdb.Queries.CreateMaintenanceWindow(ctx, dbgen.CreateMaintenanceWindowParams{
				CourtID:   req.CourtID,
				SeriesID:  sql.NullInt64{Int64: series.ID, Valid: true},
				StartTime: occ.Start,
				EndTime:   occ.End,
				Status:    booking.MaintenanceScheduled,
			})
			if err != nil {
				return err
			}
			windows = append(windows, window)
		}
		return nil
	})
	if err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}

	log.Ctx(r.Context()).Info().
		Int64("court_id", req.CourtID).
		Int64("series_id", series.ID).
		Int("windows", len(windows)).
		Msg("Maintenance series created")

	out := seriesResponse{
		ID:              series.ID,
		CourtID:         series.CourtID,
		CronExpr:        series.CronExpr,
		DurationMinutes: series.DurationMinutes,
		Status:          series.Status,
		Windows:         make([]windowResponse, 0, len(windows)),
	}
	for _, window := range windows {
		out.Windows = append(out.Windows, toWindowResponse(window))
	}
	_ = apiutil.WriteJSON(w, http.StatusCreated, out)
}

// POST /api/v1/maintenance/windows/{id}/cancel
func HandleCancelWindow(w http.ResponseWriter, r *http.Request) {
	database := loadDB()
	if database == nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	id, err := apiutil.PathInt64(r, "id")
	if err != nil {
		apiutil.WriteDomainError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Message: err.Error(), Err: err})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), maintenanceQueryTimeout)
	defer cancel()

	rows, err := database.Queries.UpdateMaintenanceWindowStatus(ctx, dbgen.UpdateMaintenanceWindowStatusParams{
		Status: booking.MaintenanceCancelled,
		ID:     id,
	})
	if err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}
	if rows == 0 {
		apiutil.WriteDomainError(w, r, apiutil.HandlerError{Status: http.StatusNotFound, Message: "Maintenance window not found"})
		return
	}
	log.Ctx(r.Context()).Info().Int64("window_id", id).Msg("Maintenance window cancelled")
	w.WriteHeader(http.StatusNoContent)
}
