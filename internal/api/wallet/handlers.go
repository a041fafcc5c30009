// internal/api/wallet/handlers.go
package wallet

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/courtlyhq/courtly/internal/api/apiutil"
	appdb "github.com/courtlyhq/courtly/internal/db"
	dbgen "github.com/courtlyhq/courtly/internal/db/generated"
	"github.com/courtlyhq/courtly/internal/outbox"
	ledger "github.com/courtlyhq/courtly/internal/wallet"
)

const (
	walletQueryTimeout = 5 * time.Second
	defaultLedgerLimit = 25
	maxLedgerLimit     = 100
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

type balanceResponse struct {
	UserID  int64  `json:"userId"`
	Balance string `json:"balance"`
}

type ledgerEntryResponse struct {
	ID           int64  `json:"id"`
	EntryType    string `json:"entryType"`
	Reason       string `json:"reason"`
	Credits      string `json:"credits"`
	BalanceAfter string `json:"balanceAfter"`
	SourceType   string `json:"sourceType,omitempty"`
	SourceID     int64  `json:"sourceId,omitempty"`
	CreatedAt    string `json:"createdAt"`
}

type topUpRequest struct {
	Credits        string `json:"credits"`
	IdempotencyKey string `json:"idempotencyKey"`
}

// GET /api/v1/users/{id}/wallet
func HandleGetBalance(w http.ResponseWriter, r *http.Request) {
	database := loadDB()
	if database == nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	userID, err := apiutil.PathInt64(r, "id")
	if err != nil {
		apiutil.WriteDomainError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Message: err.Error(), Err: err})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), walletQueryTimeout)
	defer cancel()

	user, err := database.Queries.GetUserByID(ctx, userID)
	if err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}
	_ = apiutil.WriteJSON(w, http.StatusOK, balanceResponse{
		UserID:  user.ID,
		Balance: user.CreditBalance.String(),
	})
}

// GET /api/v1/users/{id}/wallet/ledger?limit=&offset=
func HandleListLedger(w http.ResponseWriter, r *http.Request) {
	database := loadDB()
	if database == nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	userID, err := apiutil.PathInt64(r, "id")
	if err != nil {
		apiutil.WriteDomainError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Message: err.Error(), Err: err})
		return
	}

	limit := int64(defaultLedgerLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = apiutil.ParsePositiveInt64Field(raw, "limit")
		if err != nil {
			apiutil.WriteDomainError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Message: err.Error(), Err: err})
			return
		}
		if limit > maxLedgerLimit {
			limit = maxLedgerLimit
		}
	}
	offset := int64(0)
	if raw := r.URL.Query().Get("offset"); raw != "" {
		offset, err = apiutil.ParseNonNegativeInt64Field(raw, "offset")
		if err != nil {
			apiutil.WriteDomainError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Message: err.Error(), Err: err})
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), walletQueryTimeout)
	defer cancel()

	entries, err := database.Queries.ListLedgerEntriesByUser(ctx, dbgen.ListLedgerEntriesByUserParams{
		UserID: userID,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}

	out := make([]ledgerEntryResponse, 0, len(entries))
	for _, entry := range entries {
		item := ledgerEntryResponse{
			ID:           entry.ID,
			EntryType:    entry.EntryType,
			Reason:       entry.Reason,
			Credits:      entry.Credits.String(),
			BalanceAfter: entry.BalanceAfter.String(),
			CreatedAt:    entry.CreatedAt.UTC().Format(time.RFC3339),
		}
		if entry.SourceType.Valid {
			item.SourceType = entry.SourceType.String
			item.SourceID = entry.SourceID.Int64
		}
		out = append(out, item)
	}
	_ = apiutil.WriteJSON(w, http.StatusOK, map[string]any{"entries": out})
}

// POST /api/v1/users/{id}/wallet/topup
// Admin top-up. Callers supply the idempotency key so a retried request
// credits the wallet once.
func HandleTopUp(w http.ResponseWriter, r *http.Request) {
	database := loadDB()
	if database == nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	userID, err := apiutil.PathInt64(r, "id")
	if err != nil {
		apiutil.WriteDomainError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Message: err.Error(), Err: err})
		return
	}

	var req topUpRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteDomainError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Message: "Invalid request body", Err: err})
		return
	}
	credits, err := decimal.NewFromString(req.Credits)
	if err != nil || !credits.IsPositive() {
		apiutil.WriteDomainError(w, r, apiutil.FieldError{Field: "credits", Reason: "must be a positive decimal amount"})
		return
	}
	if req.IdempotencyKey == "" {
		apiutil.WriteDomainError(w, r, apiutil.FieldError{Field: "idempotencyKey", Reason: "is required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), walletQueryTimeout)
	defer cancel()

	var entry dbgen.WalletLedgerEntry
	err = database.RunInTx(ctx, func(txdb *appdb.DB) error {
		var err error
		entry, err = ledger.Credit(ctx, txdb.Queries, ledger.EntryParams{
			UserID:         userID,
			Credits:        credits,
			Reason:         ledger.ReasonTopUp,
			IdempotencyKey: req.IdempotencyKey,
		})
		if err != nil {
			return err
		}
		_, err = outbox.Append(ctx, txdb.Queries, outbox.EventWalletTopUp,
			outbox.AggregateWallet, userID, map[string]string{
				"user_id": strconv.FormatInt(userID, 10),
				"credits": credits.String(),
			})
		return err
	})
	if err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}

	log.Ctx(r.Context()).Info().
		Int64("user_id", userID).
		Str("credits", credits.String()).
		Msg("Wallet topped up")
	_ = apiutil.WriteJSON(w, http.StatusOK, ledgerEntryResponse{
		ID:           entry.ID,
		EntryType:    entry.EntryType,
		Reason:       entry.Reason,
		Credits:      entry.Credits.String(),
		BalanceAfter: entry.BalanceAfter.String(),
		CreatedAt:    entry.CreatedAt.UTC().Format(time.RFC3339),
	})
}
