// Package classify decides whether the gap between sold and received value of an
// order is explained by its itemized fees and refund.
package classify

import (
	"github.com/MikeRez0/conciliator/internal/core/domain"
	"github.com/MikeRez0/conciliator/internal/core/utils"
	"github.com/govalues/decimal"
)

// DefaultEpsilon is the smallest currency unit.
var DefaultEpsilon = decimal.MustNew(1, 2)

type Result struct {
	FeeTotal decimal.Decimal
	// Refund is the refund amount taken into account, zero unless the order is refunded.
	Refund decimal.Decimal
	// Residual is sold - received - fees - refund.
	Residual        decimal.Decimal
	Explained       bool
	SuggestedStatus domain.ReconciliationStatus
}

// Classify never modifies the order. The error is returned only on decimal overflow.
func Classify(order domain.Order, epsilon decimal.Decimal) (Result, error) {
	var c utils.Calc

	fees := decimal.Zero
	for _, f := range order.Fees {
		fees = c.Add(fees, f.Value)
	}

	refund := decimal.Zero
	if order.FinancialStatus == domain.FinancialStatusRefunded {
		refund = order.RefundAmount()
	}

	gap := c.Sub(order.SoldValue, order.ReceivedValue)
	residual := c.Sub(c.Sub(gap, fees), refund)
	if err := c.Err(); err != nil {
		return Result{}, err
	}

	res := Result{
		FeeTotal:        fees,
		Refund:          refund,
		Residual:        residual,
		Explained:       residual.Abs().Cmp(epsilon) < 0,
		SuggestedStatus: domain.ReconciliationStatusDifferenceDetected,
	}
	if res.Explained {
		res.SuggestedStatus = domain.ReconciliationStatusReconciled
	}
	return res, nil
}
