// internal/api/payments/handlers.go
package payments

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/courtlyhq/courtly/internal/api/apiutil"
	"github.com/courtlyhq/courtly/internal/ratelimit"
	"github.com/courtlyhq/courtly/internal/reconcile"
)

const paymentQueryTimeout = 5 * time.Second

var (
	service     *reconcile.Service
	limiter     *ratelimit.Limiter
	serviceOnce sync.Once
)

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(svc *reconcile.Service, rl *ratelimit.Limiter) {
	if svc == nil {
		return
	}
	serviceOnce.Do(func() {
		service = svc
		limiter = rl
	})
}

type webhookRequest struct {
	ReservationID     int64  `json:"reservationId"`
	ExternalPaymentID string `json:"externalPaymentId"`
	Amount            string `json:"amount"`
	Status            string `json:"status"`
}

type confirmRequest struct {
	ReservationID int64 `json:"reservationId"`
}

type refundRequest struct {
	ReservationID int64  `json:"reservationId"`
	AmountEuro    string `json:"amountEuro,omitempty"`
}

type statusResponse struct {
	ReservationID int64  `json:"reservationId"`
	Status        string `json:"status"`
}

// POST /api/v1/payments/webhook
// Consumes a normalized gateway fact. Deliveries repeat; the operation is
// idempotent on the external payment id.
func HandleGatewayWebhook(w http.ResponseWriter, r *http.Request) {
	if service == nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if limiter != nil {
		ip := ratelimit.GetClientIP(r, true)
		if result := limiter.AllowWebhook(ip); !result.Allowed {
			ratelimit.LogRateLimitExceeded("webhook", ip, result.Reason)
			w.Header().Set("Retry-After", result.RetryAfter.Round(time.Second).String())
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}
	}

	var req webhookRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteDomainError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Message: "Invalid request body", Err: err})
		return
	}
	if req.ReservationID <= 0 {
		apiutil.WriteDomainError(w, r, apiutil.FieldError{Field: "reservationId", Reason: "must be greater than 0"})
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		apiutil.WriteDomainError(w, r, apiutil.FieldError{Field: "amount", Reason: "must be a decimal amount"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), paymentQueryTimeout)
	defer cancel()

	res, err := service.ConfirmGatewayPayment(ctx, reconcile.PaymentFact{
		ReservationID:     req.ReservationID,
		ExternalPaymentID: req.ExternalPaymentID,
		Amount:            amount,
		Status:            req.Status,
	}, time.Now().UTC())
	if err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}

	log.Ctx(r.Context()).Info().
		Int64("reservation_id", res.ID).
		Str("status", res.Status).
		Str("external_payment_id", req.ExternalPaymentID).
		Msg("Gateway fact applied")
	_ = apiutil.WriteJSON(w, http.StatusOK, statusResponse{ReservationID: res.ID, Status: res.Status})
}

// POST /api/v1/payments/confirm
// Admin confirmation that funds a pending hold from stored credits.
func HandleConfirmCreditPayment(w http.ResponseWriter, r *http.Request) {
	if service == nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var req confirmRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteDomainError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Message: "Invalid request body", Err: err})
		return
	}
	if req.ReservationID <= 0 {
		apiutil.WriteDomainError(w, r, apiutil.FieldError{Field: "reservationId", Reason: "must be greater than 0"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), paymentQueryTimeout)
	defer cancel()

	res, err := service.ConfirmCreditPayment(ctx, req.ReservationID, time.Now().UTC())
	if err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}
	_ = apiutil.WriteJSON(w, http.StatusOK, statusResponse{ReservationID: res.ID, Status: res.Status})
}

// POST /api/v1/payments/refund
func HandleRefund(w http.ResponseWriter, r *http.Request) {
	if service == nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var req refundRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteDomainError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Message: "Invalid request body", Err: err})
		return
	}
	if req.ReservationID <= 0 {
		apiutil.WriteDomainError(w, r, apiutil.FieldError{Field: "reservationId", Reason: "must be greater than 0"})
		return
	}
	amount := decimal.Zero
	if req.AmountEuro != "" {
		var err error
		amount, err = decimal.NewFromString(req.AmountEuro)
		if err != nil || !amount.IsPositive() {
			apiutil.WriteDomainError(w, r, apiutil.FieldError{Field: "amountEuro", Reason: "must be a positive decimal amount"})
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), paymentQueryTimeout)
	defer cancel()

	res, err := service.Refund(ctx, reconcile.RefundRequest{
		ReservationID: req.ReservationID,
		AmountEuro:    amount,
	}, time.Now().UTC())
	if err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}
	log.Ctx(r.Context()).Info().Int64("reservation_id", res.ID).Msg("Reservation refunded")
	_ = apiutil.WriteJSON(w, http.StatusOK, statusResponse{ReservationID: res.ID, Status: res.Status})
}
