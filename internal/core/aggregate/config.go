// Package aggregate rolls order sets up into balance, KPI and monthly figures.
// Every function here is pure and treats missing fees or refunds as zero.
package aggregate

import "github.com/govalues/decimal"

// CostRates are the estimated cost shares applied to the reconciled value of a month.
type CostRates struct {
	FixedFees    decimal.Decimal
	FreeShipping decimal.Decimal
	Coupons      decimal.Decimal
}

type Config struct {
	CostRates CostRates
	// UnreconciledRatio estimates the ledger balance as reconciled balance * (1 + ratio).
	UnreconciledRatio decimal.Decimal
	// SignificantGapPercent is the difference percentage above which the gap is flagged.
	SignificantGapPercent decimal.Decimal
}

// HoursSavedPerOrder is the manual work avoided for each reconciled order.
var HoursSavedPerOrder = decimal.MustNew(25, 2)

// TimelineDays is the number of most recent sale days kept in the KPI timeline.
const TimelineDays = 10

// AutomationThreshold is the reconciled and released value from which settlement
// automation is offered.
var AutomationThreshold = decimal.MustNew(1000, 0)

// TopFeeCauses is the number of fee causes kept in the KPI ranking.
const TopFeeCauses = 5

func DefaultCostRates() CostRates {
	return CostRates{
		FixedFees:    decimal.MustNew(1, 2),
		FreeShipping: decimal.MustNew(5, 3),
		Coupons:      decimal.MustNew(3, 3),
	}
}

func DefaultConfig() Config {
	return Config{
		CostRates:             DefaultCostRates(),
		UnreconciledRatio:     decimal.MustNew(25, 2),
		SignificantGapPercent: decimal.Ten,
	}
}
