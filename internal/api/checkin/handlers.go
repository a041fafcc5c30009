// internal/api/checkin/handlers.go
package checkin

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/courtlyhq/courtly/internal/api/apiutil"
	"github.com/courtlyhq/courtly/internal/reconcile"
)

const checkinQueryTimeout = 5 * time.Second

var (
	service     *reconcile.Service
	serviceOnce sync.Once
)

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(svc *reconcile.Service) {
	if svc == nil {
		return
	}
	serviceOnce.Do(func() {
		service = svc
	})
}

type checkinResponse struct {
	ReservationID int64  `json:"reservationId"`
	Status        string `json:"status"`
	CheckInTime   string `json:"checkInTime,omitempty"`
	CheckOutTime  string `json:"checkOutTime,omitempty"`
}

// POST /api/v1/reservations/{id}/checkin
// The front desk hitting this endpoint also doubles as an opportunistic
// sweep trigger: elapsed reservations get finalized before the new
// check-in is processed.
func HandleCheckIn(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	if service == nil {
		logger.Error().Msg("Reconciliation service not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	id, err := apiutil.PathInt64(r, "id")
	if err != nil {
		apiutil.WriteDomainError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Message: err.Error(), Err: err})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), checkinQueryTimeout)
	defer cancel()

	now := time.Now().UTC()
	if _, err := service.SweepAutoComplete(ctx, now); err != nil {
		logger.Warn().Err(err).Msg("Opportunistic sweep failed")
	}

	res, err := service.CheckIn(ctx, id, now)
	if err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}
	logger.Info().Int64("reservation_id", id).Msg("Checked in")
	out := checkinResponse{ReservationID: res.ID, Status: res.Status}
	if res.CheckInTime.Valid {
		out.CheckInTime = res.CheckInTime.Time.UTC().Format(time.RFC3339)
	}
	_ = apiutil.WriteJSON(w, http.StatusOK, out)
}

// POST /api/v1/reservations/{id}/checkout
func HandleCheckOut(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	if service == nil {
		logger.Error().Msg("Reconciliation service not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	id, err := apiutil.PathInt64(r, "id")
	if err != nil {
		apiutil.WriteDomainError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Message: err.Error(), Err: err})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), checkinQueryTimeout)
	defer cancel()

	res, err := service.CheckOut(ctx, id, time.Now().UTC())
	if err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}
	logger.Info().Int64("reservation_id", id).Msg("Checked out")
	out := checkinResponse{ReservationID: res.ID, Status: res.Status}
	if res.CheckOutTime.Valid {
		out.CheckOutTime = res.CheckOutTime.Time.UTC().Format(time.RFC3339)
	}
	_ = apiutil.WriteJSON(w, http.StatusOK, out)
}
