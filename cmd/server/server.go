// cmd/server/server.go
package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/courtlyhq/courtly/internal/api"
	"github.com/courtlyhq/courtly/internal/api/audit"
	"github.com/courtlyhq/courtly/internal/api/checkin"
	"github.com/courtlyhq/courtly/internal/api/maintenance"
	"github.com/courtlyhq/courtly/internal/api/payments"
	"github.com/courtlyhq/courtly/internal/api/reservations"
	"github.com/courtlyhq/courtly/internal/api/wallet"
	"github.com/courtlyhq/courtly/internal/config"
	"github.com/courtlyhq/courtly/internal/db"
	"github.com/courtlyhq/courtly/internal/ratelimit"
	"github.com/courtlyhq/courtly/internal/reconcile"
)

func newServer(cfg *config.Config, database *db.DB, service *reconcile.Service, limiter *ratelimit.Limiter) *http.Server {
	reservations.InitHandlers(database, service, limiter, cfg.HoldTTL())
	payments.InitHandlers(service, limiter)
	checkin.InitHandlers(service)
	wallet.InitHandlers(database)
	maintenance.InitHandlers(database)
	audit.InitHandlers(database)

	router := http.NewServeMux()

	handler := api.ChainMiddleware(
		router,
		api.WithLogging,
		api.WithRecovery,
		api.WithRequestID,
	)

	registerRoutes(router)

	return &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.App.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Reservations
	mux.HandleFunc("POST /api/v1/reservations", reservations.HandleCreateReservation)
	mux.HandleFunc("GET /api/v1/reservations", reservations.HandleListReservations)
	mux.HandleFunc("GET /api/v1/reservations/{id}", reservations.HandleGetReservation)
	mux.HandleFunc("POST /api/v1/reservations/{id}/cancel", reservations.HandleCancelReservation)
	mux.HandleFunc("DELETE /api/v1/reservations/{id}/hold", reservations.HandleDeleteAbandonedHold)

	// Check-in desk
	mux.HandleFunc("POST /api/v1/reservations/{id}/checkin", checkin.HandleCheckIn)
	mux.HandleFunc("POST /api/v1/reservations/{id}/checkout", checkin.HandleCheckOut)

	// Payments
	mux.HandleFunc("POST /api/v1/payments/webhook", payments.HandleGatewayWebhook)
	mux.HandleFunc("POST /api/v1/payments/confirm", payments.HandleConfirmCreditPayment)
	mux.HandleFunc("POST /api/v1/payments/refund", payments.HandleRefund)

	// Wallet
	mux.HandleFunc("GET /api/v1/users/{id}/wallet", wallet.HandleGetBalance)
	mux.HandleFunc("GET /api/v1/users/{id}/wallet/ledger", wallet.HandleListLedger)
	mux.HandleFunc("POST /api/v1/users/{id}/wallet/topup", wallet.HandleTopUp)

	// Maintenance
	mux.HandleFunc("POST /api/v1/maintenance/windows", maintenance.HandleCreateWindow)
	mux.HandleFunc("POST /api/v1/maintenance/series", maintenance.HandleCreateSeries)
	mux.HandleFunc("POST /api/v1/maintenance/windows/{id}/cancel", maintenance.HandleCancelWindow)

	// Audit
	mux.HandleFunc("GET /api/v1/reservations/{id}/events", audit.HandleListReservationEvents)
}
