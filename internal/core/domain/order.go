package domain

import (
	"fmt"
	"time"

	"github.com/govalues/decimal"
)

// FinancialStatus describes where the money of an order is.
type FinancialStatus string

const (
	FinancialStatusReleased       FinancialStatus = "released"
	FinancialStatusPendingRelease FinancialStatus = "pending_release"
	FinancialStatusRetained       FinancialStatus = "retained"
	FinancialStatusRefunded       FinancialStatus = "refunded"
	FinancialStatusCancelled      FinancialStatus = "cancelled"
)

// FinancialStatuses lists every financial status in display order.
var FinancialStatuses = []FinancialStatus{
	FinancialStatusReleased,
	FinancialStatusPendingRelease,
	FinancialStatusRetained,
	FinancialStatusRefunded,
	FinancialStatusCancelled,
}

func (s FinancialStatus) Validate() error {
	switch s {
	case FinancialStatusReleased,
		FinancialStatusPendingRelease,
		FinancialStatusRetained,
		FinancialStatusRefunded,
		FinancialStatusCancelled:
		return nil
	default:
		return fmt.Errorf("%w: unknown financial status %q", ErrInvalidRecord, string(s))
	}
}

// ReconciliationStatus describes whether sold and settled values have been matched.
type ReconciliationStatus string

const (
	ReconciliationStatusReconciled         ReconciliationStatus = "reconciled"
	ReconciliationStatusDifferenceDetected ReconciliationStatus = "difference_detected"
	ReconciliationStatusNotReconciled      ReconciliationStatus = "not_reconciled"
	ReconciliationStatusInProgress         ReconciliationStatus = "in_progress"
)

var ReconciliationStatuses = []ReconciliationStatus{
	ReconciliationStatusReconciled,
	ReconciliationStatusDifferenceDetected,
	ReconciliationStatusNotReconciled,
	ReconciliationStatusInProgress,
}

func (s ReconciliationStatus) Validate() error {
	switch s {
	case ReconciliationStatusReconciled,
		ReconciliationStatusDifferenceDetected,
		ReconciliationStatusNotReconciled,
		ReconciliationStatusInProgress:
		return nil
	default:
		return fmt.Errorf("%w: unknown reconciliation status %q", ErrInvalidRecord, string(s))
	}
}

// DifferenceStatus is the lifecycle of a discrepancy. The empty value means no issue.
type DifferenceStatus string

const (
	DifferenceStatusNone          DifferenceStatus = ""
	DifferenceStatusDetected      DifferenceStatus = "detected"
	DifferenceStatusSupportOpen   DifferenceStatus = "support_open"
	DifferenceStatusRecovered     DifferenceStatus = "recovered"
	DifferenceStatusConfirmedCost DifferenceStatus = "confirmed_cost"
)

func (s DifferenceStatus) Validate() error {
	switch s {
	case DifferenceStatusNone,
		DifferenceStatusDetected,
		DifferenceStatusSupportOpen,
		DifferenceStatusRecovered,
		DifferenceStatusConfirmedCost:
		return nil
	default:
		return fmt.Errorf("%w: unknown difference status %q", ErrInvalidRecord, string(s))
	}
}

// IsOpen reports whether the discrepancy still waits for a resolution.
func (s DifferenceStatus) IsOpen() bool {
	return s == DifferenceStatusDetected || s == DifferenceStatusSupportOpen
}

// IsResolved reports whether the discrepancy reached a terminal state.
func (s DifferenceStatus) IsResolved() bool {
	return s == DifferenceStatusRecovered || s == DifferenceStatusConfirmedCost
}

type Fee struct {
	Name       string
	Percentage decimal.Decimal
	Value      decimal.Decimal
	Origin     string
}

type Refund struct {
	Amount decimal.Decimal
	Date   time.Time
	Status string
}

type Order struct {
	ID      string
	Date    time.Time
	Product string
	Channel string

	SoldValue     decimal.Decimal
	ReceivedValue decimal.Decimal
	Difference    decimal.Decimal

	FinancialStatus      FinancialStatus
	ReconciliationStatus ReconciliationStatus
	DifferenceStatus     DifferenceStatus

	ReleaseDate *time.Time
	Fees        []Fee
	Refund      *Refund
	Explanation string

	SupportOpenedAt    *time.Time
	SupportDescription string
	ResolvedAt         *time.Time
}

// Validate checks the record invariants and returns an error wrapping ErrInvalidRecord
// for the first violation found.
func (o Order) Validate() error {
	if o.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidRecord)
	}
	if o.Date.IsZero() {
		return fmt.Errorf("%w: order %s has no sale date", ErrInvalidRecord, o.ID)
	}
	if o.SoldValue.IsNeg() || o.ReceivedValue.IsNeg() {
		return fmt.Errorf("%w: order %s has negative sold or received value", ErrInvalidRecord, o.ID)
	}
	for _, v := range []interface{ Validate() error }{
		o.FinancialStatus, o.ReconciliationStatus, o.DifferenceStatus,
	} {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("order %s: %w", o.ID, err)
		}
	}
	for _, f := range o.Fees {
		if f.Value.IsNeg() {
			return fmt.Errorf("%w: order %s has negative fee %q", ErrInvalidRecord, o.ID, f.Name)
		}
	}

	if o.Difference.IsZero() {
		if o.DifferenceStatus != DifferenceStatusNone {
			return fmt.Errorf("%w: order %s has difference status %q without a difference",
				ErrInvalidRecord, o.ID, o.DifferenceStatus)
		}
		if o.ReconciliationStatus == ReconciliationStatusDifferenceDetected {
			return fmt.Errorf("%w: order %s is marked with difference but difference is zero",
				ErrInvalidRecord, o.ID)
		}
	}

	switch o.FinancialStatus {
	case FinancialStatusRefunded:
		if o.Refund == nil || !o.Refund.Amount.IsPos() {
			return fmt.Errorf("%w: refunded order %s has no positive refund amount", ErrInvalidRecord, o.ID)
		}
	case FinancialStatusCancelled:
		if !o.ReceivedValue.IsZero() {
			return fmt.Errorf("%w: cancelled order %s has received value", ErrInvalidRecord, o.ID)
		}
	}
	if o.Refund != nil && o.Refund.Amount.IsNeg() {
		return fmt.Errorf("%w: order %s has negative refund amount", ErrInvalidRecord, o.ID)
	}

	if o.SupportOpenedAt != nil &&
		o.DifferenceStatus != DifferenceStatusSupportOpen && !o.DifferenceStatus.IsResolved() {
		return fmt.Errorf("%w: order %s has support opened in status %q",
			ErrInvalidRecord, o.ID, o.DifferenceStatus)
	}
	if o.ResolvedAt != nil && !o.DifferenceStatus.IsResolved() {
		return fmt.Errorf("%w: order %s has resolution date in status %q",
			ErrInvalidRecord, o.ID, o.DifferenceStatus)
	}

	return nil
}

// HasUnresolvedDifference reports whether the order carries a discrepancy still in progress.
func (o Order) HasUnresolvedDifference() bool {
	return !o.Difference.IsZero() && o.DifferenceStatus.IsOpen()
}

// FeeTotal sums the itemized fee values.
func (o Order) FeeTotal() (decimal.Decimal, error) {
	total := decimal.Zero
	for _, f := range o.Fees {
		var err error
		total, err = total.Add(f.Value)
		if err != nil {
			return decimal.Zero, fmt.Errorf("math error:%w", err)
		}
	}
	return total, nil
}

// RefundAmount returns the refund amount or zero when no refund is recorded.
func (o Order) RefundAmount() decimal.Decimal {
	if o.Refund == nil {
		return decimal.Zero
	}
	return o.Refund.Amount
}

// Clone returns a deep copy that shares no mutable state with o.
func (o Order) Clone() Order {
	c := o
	c.ReleaseDate = cloneTime(o.ReleaseDate)
	c.SupportOpenedAt = cloneTime(o.SupportOpenedAt)
	c.ResolvedAt = cloneTime(o.ResolvedAt)
	if o.Fees != nil {
		c.Fees = make([]Fee, len(o.Fees))
		copy(c.Fees, o.Fees)
	}
	if o.Refund != nil {
		r := *o.Refund
		c.Refund = &r
	}
	return c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
