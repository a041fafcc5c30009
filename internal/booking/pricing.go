// internal/booking/pricing.go
package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	dbgen "github.com/courtlyhq/courtly/internal/db/generated"
)

var decimalHundred = decimal.NewFromInt(100)

// PriceInputs carries everything the pure pricing core needs. BaseRate is
// the already-resolved hourly rate (sport override or court base rate).
// Rules must be in creation order; ties between equally specific rules are
// broken by position.
type PriceInputs struct {
	BaseRate    decimal.Decimal
	Rules       []dbgen.PricingRule
	DiscountPct decimal.Decimal
	Start       time.Time
	End         time.Time
}

// Price computes the total for a slot: base rate scaled by duration, the
// most specific applicable multiplier rule, then the tariff discount.
// Output is rounded to currency minor units with banker's rounding so
// repeated half-cent cases do not drift in one direction.
func Price(in PriceInputs) decimal.Decimal {
	minutes := decimal.NewFromInt(int64(in.End.Sub(in.Start) / time.Minute))
	total := in.BaseRate.Mul(minutes).Div(decimal.NewFromInt(60))

	if rule, ok := matchRule(in.Rules, in.Start, in.End); ok {
		total = total.Mul(rule.Multiplier)
	}

	if in.DiscountPct.IsPositive() {
		total = total.Mul(decimalHundred.Sub(in.DiscountPct)).Div(decimalHundred)
	}

	return total.RoundBank(2)
}

// matchRule selects the applicable pricing rule: the rule must cover the
// slot's weekday and its time-of-day window must overlap the slot's
// (half-open). The narrowest window wins; ties keep the earliest-created
// rule, which is the first in slice order.
func matchRule(rules []dbgen.PricingRule, start, end time.Time) (dbgen.PricingRule, bool) {
	slotStart := minutesOfDay(start)
	slotEnd := slotStart + int(end.Sub(start)/time.Minute)

	var best dbgen.PricingRule
	bestWidth := -1
	for _, rule := range rules {
		if !ruleCoversWeekday(rule.DaysOfWeek, start.Weekday()) {
			continue
		}
		ruleStart, err1 := parseMinutes(rule.WindowStart)
		ruleEnd, err2 := parseMinutes(rule.WindowEnd)
		if err1 != nil || err2 != nil || ruleEnd <= ruleStart {
			continue
		}
		if ruleStart >= slotEnd || ruleEnd <= slotStart {
			continue
		}
		width := ruleEnd - ruleStart
		if bestWidth == -1 || width < bestWidth {
			best = rule
			bestWidth = width
		}
	}
	return best, bestWidth != -1
}

func ruleCoversWeekday(daysOfWeek string, day time.Weekday) bool {
	for _, part := range strings.Split(daysOfWeek, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		if time.Weekday(n) == day {
			return true
		}
	}
	return false
}

func parseMinutes(hhmm string) (int, error) {
	parsed, err := time.Parse("15:04", strings.TrimSpace(hhmm))
	if err != nil {
		return 0, fmt.Errorf("invalid time-of-day %q: %w", hhmm, err)
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}

func minutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// QuotePrice loads the pricing inputs for a slot and runs the pure core:
// sport-specific rate override if one exists, the center's rules, and the
// requester's tariff discount.
func QuotePrice(ctx context.Context, q *dbgen.Queries, court dbgen.Court, sport string, start, end time.Time, userID int64) (decimal.Decimal, error) {
	baseRate := court.BasePricePerHour
	override, err := q.GetSportPricing(ctx, dbgen.GetSportPricingParams{
		CourtID: court.ID,
		Sport:   sport,
	})
	if err == nil {
		baseRate = override.PricePerHour
	} else if !errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, fmt.Errorf("loading sport pricing: %w", err)
	}

	rules, err := q.ListPricingRulesByCenter(ctx, court.CenterID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("loading pricing rules: %w", err)
	}

	user, err := q.GetUserByID(ctx, userID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("loading user: %w", err)
	}

	return Price(PriceInputs{
		BaseRate:    baseRate,
		Rules:       rules,
		DiscountPct: user.TariffDiscountPct,
		Start:       start,
		End:         end,
	}), nil
}
