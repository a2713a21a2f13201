package domain

import (
	"time"

	"github.com/govalues/decimal"
)

// BalanceSummary is the balance sheet of a set of orders.
type BalanceSummary struct {
	// TotalBalance is the balance reported by the settlement ledger.
	TotalBalance      decimal.Decimal
	ReconciledBalance decimal.Decimal
	Unreconciled      decimal.Decimal
	// DifferencePercentage is Unreconciled relative to TotalBalance, in percent.
	DifferencePercentage decimal.Decimal
	SignificantGap       bool

	UnresolvedDifferences decimal.Decimal
	UnresolvedCount       int

	TotalReceived  decimal.Decimal
	PendingRelease decimal.Decimal
	Retained       decimal.Decimal
	Refunds        decimal.Decimal
}

type FinancialShare struct {
	Status FinancialStatus
	Count  int
	Value  decimal.Decimal
}

type ReconciliationShare struct {
	Status ReconciliationStatus
	Count  int
}

type FeeCause struct {
	Name  string
	Value decimal.Decimal
}

type ResolutionShare struct {
	Status DifferenceStatus
	Value  decimal.Decimal
}

// TimelinePoint compares expected and received amounts of one sale day.
type TimelinePoint struct {
	Date     time.Time
	Expected decimal.Decimal
	Received decimal.Decimal
}

// AutomationEligibility sums the orders that are both reconciled and released.
type AutomationEligibility struct {
	Value decimal.Decimal
	Count int
	Ready bool
}

type KPISet struct {
	RecoveredValue     decimal.Decimal
	ConfirmedCostValue decimal.Decimal
	SupportOpenValue   decimal.Decimal
	// RecoveryRate is a ratio in [0, 1].
	RecoveryRate        decimal.Decimal
	RecoveryRatePercent decimal.Decimal

	ReconciledValue      decimal.Decimal
	EligibleTotal        decimal.Decimal
	ReconciledPercentage decimal.Decimal

	ReconciledCount     int
	WithDifferenceCount int
	ResolvedCount       int
	TimeSavedHours      decimal.Decimal

	FinancialDistribution      []FinancialShare
	ReconciliationDistribution []ReconciliationShare
	TopFeeCauses               []FeeCause
	Resolution                 []ResolutionShare
	Timeline                   []TimelinePoint
	AverageGapPercent          decimal.Decimal

	Automation AutomationEligibility
}

// PeriodStat is the rollup of one calendar month.
type PeriodStat struct {
	Month time.Time
	Label string

	TotalOrders      int
	TotalOrdersValue decimal.Decimal

	FinanciallyValidOrders int
	FinanciallyValidValue  decimal.Decimal

	ReconciledOrders     int
	ReconciledValue      decimal.Decimal
	ReconciledPercentage decimal.Decimal

	DifferenceOrders   int
	DifferenceValue    decimal.Decimal
	NotReconciledCount int

	Commissions     decimal.Decimal
	FixedFees       decimal.Decimal
	FreeShipping    decimal.Decimal
	Coupons         decimal.Decimal
	Refunds         decimal.Decimal
	TotalCosts      decimal.Decimal
	CostsPercentage decimal.Decimal

	TotalReceived  decimal.Decimal
	PendingRelease decimal.Decimal
	Retained       decimal.Decimal
	NetToReceive   decimal.Decimal
}
