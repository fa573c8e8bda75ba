package estimator

import (
	"fmt"
	"strconv"
)

// PricingKind tags the shape of a feature's price.
type PricingKind string

const (
	OneTime      PricingKind = "one_time"
	OneTimeRange PricingKind = "one_time_range"
	Recurring    PricingKind = "recurring"
)

// Period is the billing period of a recurring price.
type Period string

const (
	Monthly Period = "month"
	Yearly  Period = "year"
)

// Pricing is a feature price. Exactly one of the kinds applies: a fixed
// one-time amount, a one-time range (Amount is the minimum), or a recurring
// amount billed per Period.
type Pricing struct {
	Kind   PricingKind `json:"kind"`
	Amount int         `json:"amount"`
	Max    int         `json:"max,omitempty"`
	Period Period      `json:"period,omitempty"`
}

// OneTimePrice is a fixed one-time price.
func OneTimePrice(amount int) Pricing {
	return Pricing{Kind: OneTime, Amount: amount}
}

// RangePrice is a one-time price quoted as a range.
func RangePrice(min, max int) Pricing {
	return Pricing{Kind: OneTimeRange, Amount: min, Max: max}
}

// RecurringPrice is a price charged every period.
func RecurringPrice(amount int, period Period) Pricing {
	return Pricing{Kind: Recurring, Amount: amount, Period: period}
}

// Minimum is the amount used in computations. A range contributes only its
// lower bound; the upper bound is advisory.
func (p Pricing) Minimum() int { return p.Amount }

// IsRecurring reports whether the price is excluded from the one-time total.
func (p Pricing) IsRecurring() bool { return p.Kind == Recurring }

func (p Pricing) validate() error {
	if p.Amount < 0 {
		return fmt.Errorf("negative price %d", p.Amount)
	}
	switch p.Kind {
	case OneTime:
		return nil
	case OneTimeRange:
		if p.Max < p.Amount {
			return fmt.Errorf("price range %d-%d is inverted", p.Amount, p.Max)
		}
		return nil
	case Recurring:
		if p.Period != Monthly && p.Period != Yearly {
			return fmt.Errorf("recurring price has invalid period %q", p.Period)
		}
		return nil
	default:
		return fmt.Errorf("invalid pricing kind %q", p.Kind)
	}
}

// Label renders the price the way the estimator displays it, e.g.
// "€150–€300", "+€100" or "+€100/year".
func (p Pricing) Label() string {
	switch p.Kind {
	case OneTimeRange:
		return "€" + strconv.Itoa(p.Amount) + "–€" + strconv.Itoa(p.Max)
	case Recurring:
		return "+€" + strconv.Itoa(p.Amount) + "/" + string(p.Period)
	default:
		return "+€" + strconv.Itoa(p.Amount)
	}
}
