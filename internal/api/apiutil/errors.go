package apiutil

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/courtlyhq/courtly/internal/booking"
	"github.com/courtlyhq/courtly/internal/reconcile"
	"github.com/courtlyhq/courtly/internal/wallet"
)

type errorResponse struct {
	Error string `json:"error"`
}

// WriteDomainError maps the core's error taxonomy onto HTTP statuses:
// not found 404, validation 400, domain conflicts 409. Anything
// unrecognized is logged and surfaced as a 500 without leaking detail.
func WriteDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		fieldErr      FieldError
		handlerErr    HandlerError
		validationErr booking.ValidationError
		sportErr      booking.SportNotAllowedError
		conflictErr   booking.SlotConflictError
		balanceErr    wallet.InsufficientBalanceError
		amountErr     reconcile.AmountMismatchError
		windowErr     reconcile.OutsideCheckInWindowError
	)

	switch {
	case errors.As(err, &handlerErr):
		if handlerErr.Status >= http.StatusInternalServerError {
			log.Ctx(r.Context()).Error().Err(handlerErr.Err).Msg(handlerErr.Message)
		}
		_ = WriteJSON(w, handlerErr.Status, errorResponse{Error: handlerErr.Message})
	case errors.Is(err, sql.ErrNoRows):
		_ = WriteJSON(w, http.StatusNotFound, errorResponse{Error: "Not found"})
	case errors.As(err, &fieldErr), errors.As(err, &validationErr), errors.As(err, &sportErr):
		_ = WriteJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.As(err, &conflictErr),
		errors.As(err, &balanceErr),
		errors.As(err, &amountErr),
		errors.As(err, &windowErr),
		errors.Is(err, reconcile.ErrHoldExpired),
		errors.Is(err, booking.ErrIllegalTransition),
		errors.Is(err, wallet.ErrRefundExceedsCharge):
		_ = WriteJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	default:
		log.Ctx(r.Context()).Error().Err(err).Msg("Unhandled error")
		_ = WriteJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal Server Error"})
	}
}
