// internal/api/reservations/handlers.go
package reservations

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
	"github.com/courtlyhq/courtly/internal/outbox"
	"github.com/courtlyhq/courtly/internal/ratelimit"
	"github.com/courtlyhq/courtly/internal/reconcile"
)

const reservationQueryTimeout = 5 * time.Second

var (
	store     *appdb.DB
	service   *reconcile.Service
	limiter   *ratelimit.Limiter
	holdTTL   time.Duration
	storeOnce sync.Once
)

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(database *appdb.DB, svc *reconcile.Service, rl *ratelimit.Limiter, ttl time.Duration) {
	if database == nil {
		return
	}
	storeOnce.Do(func() {
		store = database
		service = svc
		limiter = rl
		holdTTL = ttl
	})
}

func loadDB() *appdb.DB {
	return store
}

type createReservationRequest struct {
	UserID         int64  `json:"userId"`
	CourtID        int64  `json:"courtId"`
	Sport          string `json:"sport"`
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	PayWithCredits bool   `json:"payWithCredits"`
}

type reservationResponse struct {
	ID              int64  `json:"id"`
	UserID          int64  `json:"userId"`
	CourtID         int64  `json:"courtId"`
	Sport           string `json:"sport"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	Status          string `json:"status"`
	TotalPrice      string `json:"totalPrice"`
	PaymentMethod   string `json:"paymentMethod,omitempty"`
	PaymentIntentID string `json:"paymentIntentId,omitempty"`
	ExpiresAt       string `json:"expiresAt,omitempty"`
	CheckInTime     string `json:"checkInTime,omitempty"`
	CheckOutTime    string `json:"checkOutTime,omitempty"`
}

func toResponse(res dbgen.Reservation) reservationResponse {
	out := reservationResponse{
		ID:         res.ID,
		UserID:     res.UserID,
		CourtID:    res.CourtID,
		Sport:      res.Sport,
		StartTime:  res.StartTime.UTC().Format(time.RFC3339),
		EndTime:    res.EndTime.UTC().Format(time.RFC3339),
		Status:     res.Status,
		TotalPrice: res.TotalPrice.String(),
	}
	if res.PaymentMethod.Valid {
		out.PaymentMethod = res.PaymentMethod.String
	}
	if res.PaymentIntentID.Valid {
		out.PaymentIntentID = res.PaymentIntentID.String
	}
	if res.ExpiresAt.Valid {
		out.ExpiresAt = res.ExpiresAt.Time.UTC().Format(time.RFC3339)
	}
	if res.CheckInTime.Valid {
		out.CheckInTime = res.CheckInTime.Time.UTC().Format(time.RFC3339)
	}
	if res.CheckOutTime.Valid {
		out.CheckOutTime = res.CheckOutTime.Time.UTC().Format(time.RFC3339)
	}
	return out
}

// POST /api/v1/reservations
func HandleCreateReservation(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	database := loadDB()
	if database == nil {
		logger.Error().Msg("Database not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var req createReservationRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteDomainError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Message: "Invalid request body", Err: err})
		return
	}
	if req.UserID <= 0 {
		apiutil.WriteDomainError(w, r, apiutil.FieldError{Field: "userId", Reason: "must be greater than 0"})
		return
	}
	if req.CourtID <= 0 {
		apiutil.WriteDomainError(w, r, apiutil.FieldError{Field: "courtId", Reason: "must be greater than 0"})
		return
	}
	if req.Sport == "" {
		apiutil.WriteDomainError(w, r, apiutil.FieldError{Field: "sport", Reason: "is required"})
		return
	}
	start, err := apiutil.ParseTimeField(req.StartTime, "startTime")
	if err != nil {
		apiutil.WriteDomainError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Message: err.Error(), Err: err})
		return
	}
	end, err := apiutil.ParseTimeField(req.EndTime, "endTime")
	if err != nil {
		apiutil.WriteDomainError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Message: err.Error(), Err: err})
		return
	}

	if limiter != nil {
		ip := ratelimit.GetClientIP(r, false)
		if result := limiter.AllowBooking(req.UserID, ip); !result.Allowed {
			ratelimit.LogRateLimitExceeded("booking", ip, result.Reason)
			w.Header().Set("Retry-After", result.RetryAfter.Round(time.Second).String())
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), reservationQueryTimeout)
	defer cancel()

	now := time.Now().UTC()

	// An abandoned cart must not deadlock the user out of rebooking the
	// same slot.
	if _, err := service.ReleaseOwnHolds(ctx, req.UserID, req.CourtID, start, end); err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}

	var created dbgen.Reservation
	err = database.RunInTx(ctx, func(txdb *appdb.DB) error {
		court, err := txdb.Queries.GetCourtByID(ctx, req.CourtID)
		if err != nil {
			return err
		}
		if !court.IsActive {
			return apiutil.HandlerError{Status: http.StatusConflict, Message: "Court is not active"}
		}
		if err := booking.CheckSlotFree(ctx, txdb.Queries, court, req.Sport, start, end, 0, now); err != nil {
			return err
		}
		price, err := booking.QuotePrice(ctx, txdb.Queries, court, req.Sport, start, end, req.UserID)
		if err != nil {
			return err
		}
		created, err = txdb.Queries.CreateReservation(ctx, dbgen.CreateReservationParams{
			UserID:     req.UserID,
			CourtID:    req.CourtID,
			Sport:      req.Sport,
			StartTime:  start,
			EndTime:    end,
			Status:     booking.StatusPending,
			TotalPrice: price,
			ExpiresAt:  sql.NullTime{Time: now.Add(holdTTL), Valid: true},
		})
		if err != nil {
			return apiutil.HandlerError{Status: http.StatusInternalServerError, Message: "Failed to create reservation", Err: err}
		}
		_, err = outbox.Append(ctx, txdb.Queries, outbox.EventReservationCreated,
			outbox.AggregateReservation, created.ID, toResponse(created))
		return err
	})
	if err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}

	if req.PayWithCredits {
		funded, err := service.ConfirmCreditPayment(ctx, created.ID, now)
		if err != nil {
			// The hold survives; the client can retry funding or pay
			// another way.
			logger.Warn().Err(err).Int64("reservation_id", created.ID).Msg("Immediate credit funding failed")
			apiutil.WriteDomainError(w, r, err)
			return
		}
		created = funded
	}

	logger.Info().
		Int64("reservation_id", created.ID).
		Int64("court_id", created.CourtID).
		Str("status", created.Status).
		Msg("Reservation created")
	_ = apiutil.WriteJSON(w, http.StatusCreated, toResponse(created))
}

// GET /api/v1/reservations?court_id=&from=&to=
func HandleListReservations(w http.ResponseWriter, r *http.Request) {
	database := loadDB()
	if database == nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	courtID, err := apiutil.ParsePositiveInt64Field(r.URL.Query().Get("court_id"), "court_id")
	if err != nil {
		apiutil.WriteDomainError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Message: err.Error(), Err: err})
		return
	}
	from, err := apiutil.ParseTimeField(r.URL.Query().Get("from"), "from")
	if err != nil {
		apiutil.WriteDomainError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Message: err.Error(), Err: err})
		return
	}
	to, err := apiutil.ParseTimeField(r.URL.Query().Get("to"), "to")
	if err != nil {
		apiutil.WriteDomainError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Message: err.Error(), Err: err})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), reservationQueryTimeout)
	defer cancel()

	rows, err := database.Queries.ListReservationsByCourtAndRange(ctx, dbgen.ListReservationsByCourtAndRangeParams{
		CourtID:   courtID,
		EndTime:   to,
		StartTime: from,
	})
	if err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}
	out := make([]reservationResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, toResponse(row))
	}
	_ = apiutil.WriteJSON(w, http.StatusOK, map[string]any{"reservations": out})
}

// GET /api/v1/reservations/{id}
func HandleGetReservation(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := context.WithTimeout(r.Context(), reservationQueryTimeout)
	defer cancel()

	res, err := database.Queries.GetReservationByID(ctx, id)
	if err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}
	_ = apiutil.WriteJSON(w, http.StatusOK, toResponse(res))
}

// POST /api/v1/reservations/{id}/cancel
func HandleCancelReservation(w http.ResponseWriter, r *http.Request) {
	id, err := apiutil.PathInt64(r, "id")
	if err != nil {
		apiutil.WriteDomainError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Message: err.Error(), Err: err})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), reservationQueryTimeout)
	defer cancel()

	res, err := service.Cancel(ctx, id)
	if err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}
	log.Ctx(r.Context()).Info().Int64("reservation_id", id).Msg("Reservation cancelled")
	_ = apiutil.WriteJSON(w, http.StatusOK, toResponse(res))
}

// DELETE /api/v1/reservations/{id}
// Administrative hard-delete of an expired unpaid hold. Funded
// reservations are never deleted; cancellation is a state, not a row
// removal.
func HandleDeleteAbandonedHold(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := context.WithTimeout(r.Context(), reservationQueryTimeout)
	defer cancel()

	deleted, err := database.Queries.DeleteAbandonedHold(ctx, dbgen.DeleteAbandonedHoldParams{
		ID:  id,
		Now: time.Now().UTC(),
	})
	if err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}
	if deleted == 0 {
		apiutil.WriteDomainError(w, r, apiutil.HandlerError{Status: http.StatusNotFound, Message: "No expired unpaid hold with that id"})
		return
	}
	log.Ctx(r.Context()).Info().Int64("reservation_id", id).Msg("Abandoned hold deleted")
	w.WriteHeader(http.StatusNoContent)
}
