// internal/wallet/ledger.go
package wallet

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	dbgen "github.com/courtlyhq/courtly/internal/db/generated"
)

const (
	EntryTypeCredit = "credit"
	EntryTypeDebit  = "debit"
)

const (
	ReasonReservation = "reservation"
	ReasonRefund      = "refund"
	ReasonOrder       = "order"
	ReasonPromotion   = "promotion"
	ReasonTopUp       = "topup"
)

const SourceTypeReservation = "reservation"

var ErrRefundExceedsCharge = errors.New("cumulative refunds exceed amount charged")

// InsufficientBalanceError carries enough detail for the caller to act.
type InsufficientBalanceError struct {
	UserID    int64
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e InsufficientBalanceError) Error() string {
	return fmt.Sprintf("user %d has %s credits, needs %s", e.UserID, e.Available, e.Requested)
}

// EntryParams describes one ledger movement. Credits is a positive
// magnitude; the sign is implied by the operation.
type EntryParams struct {
	UserID         int64
	Credits        decimal.Decimal
	Reason         string
	IdempotencyKey string
	SourceType     string
	SourceID       int64
	Metadata       map[string]string
}

// DebitKey builds the deterministic idempotency key for charging a
// reservation from stored credits.
func DebitKey(sourceType string, sourceID int64) string {
	return fmt.Sprintf("DEBIT:%s:%d", strings.ToUpper(sourceType), sourceID)
}

// RefundKey builds the deterministic idempotency key for a refund, scoped
// by amount so distinct partial refunds get distinct keys.
func RefundKey(sourceType string, sourceID int64, amount decimal.Decimal) string {
	return fmt.Sprintf("REFUND:%s:%d:%s", strings.ToUpper(sourceType), sourceID, amount)
}

// Debit appends a debit entry and lowers the denormalized balance. Must be
// called on a transactional querier: the balance re-read, sufficiency
// check, insert, and balance update all commit or roll back together.
// Replaying an idempotency key returns the original entry and moves no
// money.
func Debit(ctx context.Context, q *dbgen.Queries, p EntryParams) (dbgen.WalletLedgerEntry, error) {
	return appendEntry(ctx, q, EntryTypeDebit, p)
}

// Credit is the symmetric counterpart of Debit.
func Credit(ctx context.Context, q *dbgen.Queries, p EntryParams) (dbgen.WalletLedgerEntry, error) {
	return appendEntry(ctx, q, EntryTypeCredit, p)
}

func appendEntry(ctx context.Context, q *dbgen.Queries, entryType string, p EntryParams) (dbgen.WalletLedgerEntry, error) {
	if !p.Credits.IsPositive() {
		return dbgen.WalletLedgerEntry{}, fmt.Errorf("credits must be positive, got %s", p.Credits)
	}
	if p.IdempotencyKey == "" {
		return dbgen.WalletLedgerEntry{}, fmt.Errorf("idempotency key is required")
	}

	existing, err := q.GetLedgerEntryByIdempotencyKey(ctx, p.IdempotencyKey)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return dbgen.WalletLedgerEntry{}, fmt.Errorf("idempotency lookup failed: %w", err)
	}

	user, err := q.GetUserByID(ctx, p.UserID)
	if err != nil {
		return dbgen.WalletLedgerEntry{}, fmt.Errorf("loading user %d: %w", p.UserID, err)
	}

	var balanceAfter decimal.Decimal
	switch entryType {
	case EntryTypeDebit:
		if user.CreditBalance.Cmp(p.Credits) < 0 {
			return dbgen.WalletLedgerEntry{}, InsufficientBalanceError{
				UserID:    p.UserID,
				Available: user.CreditBalance,
				Requested: p.Credits,
			}
		}
		balanceAfter = user.CreditBalance.Sub(p.Credits)
	case EntryTypeCredit:
		balanceAfter = user.CreditBalance.Add(p.Credits)
	default:
		return dbgen.WalletLedgerEntry{}, fmt.Errorf("unknown entry type %q", entryType)
	}

	metadata := "{}"
	if len(p.Metadata) > 0 {
		raw, err := json.Marshal(p.Metadata)
		if err != nil {
			return dbgen.WalletLedgerEntry{}, fmt.Errorf("encoding metadata: %w", err)
		}
		metadata = string(raw)
	}

	sourceType := sql.NullString{}
	sourceID := sql.NullInt64{}
	if p.SourceType != "" {
		sourceType = sql.NullString{String: p.SourceType, Valid: true}
		sourceID = sql.NullInt64{Int64: p.SourceID, Valid: true}
	}

	entry, err := q.InsertLedgerEntry(ctx, dbgen.InsertLedgerEntryParams{
		UserID:         p.UserID,
		EntryType:      entryType,
		Reason:         p.Reason,
		Credits:        p.Credits,
		BalanceAfter:   balanceAfter,
		IdempotencyKey: p.IdempotencyKey,
		SourceType:     sourceType,
		SourceID:       sourceID,
		Metadata:       metadata,
	})
	if err != nil {
		// A concurrent writer may have landed the same key between our
		// lookup and insert. The unique constraint is the source of truth.
		if original, lookupErr := q.GetLedgerEntryByIdempotencyKey(ctx, p.IdempotencyKey); lookupErr == nil {
			return original, nil
		}
		return dbgen.WalletLedgerEntry{}, fmt.Errorf("inserting ledger entry: %w", err)
	}

	if err := q.UpdateUserBalance(ctx, dbgen.UpdateUserBalanceParams{
		CreditBalance: balanceAfter,
		ID:            p.UserID,
	}); err != nil {
		return dbgen.WalletLedgerEntry{}, fmt.Errorf("updating balance: %w", err)
	}

	return entry, nil
}

// RefundParams converts a euro amount back into credits using the ratio
// snapshotted at charge time.
type RefundParams struct {
	UserID         int64
	SourceType     string
	SourceID       int64
	AmountEuro     decimal.Decimal
	EuroPerCredit  decimal.Decimal
	IdempotencyKey string
}

// Refund credits the user back for a prior charge. Cumulative refunds for
// one source never exceed the credits originally debited for it; the
// euro-per-credit ratio is recorded in the entry metadata so a later
// ratio change cannot distort the audit trail.
func Refund(ctx context.Context, q *dbgen.Queries, p RefundParams) (dbgen.WalletLedgerEntry, error) {
	if !p.EuroPerCredit.IsPositive() {
		return dbgen.WalletLedgerEntry{}, fmt.Errorf("euro-per-credit ratio must be positive, got %s", p.EuroPerCredit)
	}
	if !p.AmountEuro.IsPositive() {
		return dbgen.WalletLedgerEntry{}, fmt.Errorf("refund amount must be positive, got %s", p.AmountEuro)
	}
	credits := p.AmountEuro.Div(p.EuroPerCredit)

	if p.IdempotencyKey == "" {
		p.IdempotencyKey = RefundKey(p.SourceType, p.SourceID, p.AmountEuro)
	}
	if existing, err := q.GetLedgerEntryByIdempotencyKey(ctx, p.IdempotencyKey); err == nil {
		return existing, nil
	} else if !errors.Is(err, sql.ErrNoRows) {
		return dbgen.WalletLedgerEntry{}, fmt.Errorf("idempotency lookup failed: %w", err)
	}

	charged, refunded, err := sourceTotals(ctx, q, p.SourceType, p.SourceID)
	if err != nil {
		return dbgen.WalletLedgerEntry{}, err
	}
	if refunded.Add(credits).Cmp(charged) > 0 {
		return dbgen.WalletLedgerEntry{}, fmt.Errorf("%w: charged %s, already refunded %s, requested %s",
			ErrRefundExceedsCharge, charged, refunded, credits)
	}

	return Credit(ctx, q, EntryParams{
		UserID:         p.UserID,
		Credits:        credits,
		Reason:         ReasonRefund,
		IdempotencyKey: p.IdempotencyKey,
		SourceType:     p.SourceType,
		SourceID:       p.SourceID,
		Metadata: map[string]string{
			"euro_per_credit": p.EuroPerCredit.String(),
			"amount_euro":     p.AmountEuro.String(),
		},
	})
}

// sourceTotals sums the debits (charged) and refund credits (refunded)
// recorded against one source.
func sourceTotals(ctx context.Context, q *dbgen.Queries, sourceType string, sourceID int64) (charged, refunded decimal.Decimal, err error) {
	entries, err := q.ListLedgerEntriesBySource(ctx, dbgen.ListLedgerEntriesBySourceParams{
		SourceType: sql.NullString{String: sourceType, Valid: true},
		SourceID:   sql.NullInt64{Int64: sourceID, Valid: true},
	})
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("loading source entries: %w", err)
	}
	for _, entry := range entries {
		switch {
		case entry.EntryType == EntryTypeDebit:
			charged = charged.Add(entry.Credits)
		case entry.EntryType == EntryTypeCredit && entry.Reason == ReasonRefund:
			refunded = refunded.Add(entry.Credits)
		}
	}
	return charged, refunded, nil
}

// ReconstructBalance replays the full ledger for a user. It exists as a
// consistency check against the denormalized balance column.
func ReconstructBalance(ctx context.Context, q *dbgen.Queries, userID int64) (decimal.Decimal, error) {
	const pageSize = 500
	balance := decimal.Zero
	for offset := int64(0); ; offset += pageSize {
		entries, err := q.ListLedgerEntriesByUser(ctx, dbgen.ListLedgerEntriesByUserParams{
			UserID: userID,
			Limit:  pageSize,
			Offset: offset,
		})
		if err != nil {
			return decimal.Zero, fmt.Errorf("loading ledger page: %w", err)
		}
		for _, entry := range entries {
			if entry.EntryType == EntryTypeDebit {
				balance = balance.Sub(entry.Credits)
			} else {
				balance = balance.Add(entry.Credits)
			}
		}
		if len(entries) < pageSize {
			return balance, nil
		}
	}
}
