package aggregate_test

import (
	"testing"
	"time"

	"github.com/MikeRez0/conciliator/internal/core/aggregate"
	"github.com/MikeRez0/conciliator/internal/core/domain"
	"github.com/govalues/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func monthlyOrders() []domain.Order {
	return []domain.Order{
		{
			ID: "a", Date: date(1, 10), Channel: "Mercado Livre",
			SoldValue: decimal.MustParse("200"), ReceivedValue: decimal.MustParse("195"),
			Difference:           decimal.MustParse("-5"),
			FinancialStatus:      domain.FinancialStatusReleased,
			ReconciliationStatus: domain.ReconciliationStatusReconciled,
			Fees:                 []domain.Fee{fee("Intermediação", "5")},
		},
		{
			ID: "b", Date: date(1, 11), Channel: "Mercado Livre",
			SoldValue:            decimal.MustParse("100"),
			FinancialStatus:      domain.FinancialStatusCancelled,
			ReconciliationStatus: domain.ReconciliationStatusReconciled,
		},
		{
			ID: "c", Date: date(1, 12), Channel: "Mercado Livre",
			SoldValue:            decimal.MustParse("50"),
			Difference:           decimal.MustParse("-50"),
			FinancialStatus:      domain.FinancialStatusPendingRelease,
			ReconciliationStatus: domain.ReconciliationStatusDifferenceDetected,
			DifferenceStatus:     domain.DifferenceStatusDetected,
		},
		{
			ID: "d", Date: date(1, 13), Channel: "Mercado Livre",
			SoldValue:            decimal.MustParse("80"),
			Difference:           decimal.MustParse("-80"),
			FinancialStatus:      domain.FinancialStatusRefunded,
			ReconciliationStatus: domain.ReconciliationStatusReconciled,
			Refund:               &domain.Refund{Amount: decimal.MustParse("80"), Date: date(1, 14)},
		},
		{
			ID: "e", Date: date(1, 14), Channel: "Mercado Livre",
			SoldValue:            decimal.MustParse("30"),
			FinancialStatus:      domain.FinancialStatusRetained,
			ReconciliationStatus: domain.ReconciliationStatusNotReconciled,
		},
		{
			ID: "f", Date: date(2, 2), Channel: "Mercado Pago",
			SoldValue: decimal.MustParse("100"), ReceivedValue: decimal.MustParse("100"),
			FinancialStatus:      domain.FinancialStatusReleased,
			ReconciliationStatus: domain.ReconciliationStatusReconciled,
		},
	}
}

func TestComputeMonthlySummary(t *testing.T) {
	r := domain.DateRange{
		From: time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC),
		To:   date(2, 10),
	}

	stats, err := aggregate.ComputeMonthlySummary(monthlyOrders(), r, domain.ChannelAll,
		domain.FilterModeSaleDate, aggregate.DefaultCostRates())
	require.NoError(t, err)
	require.Len(t, stats, 3)

	dec := stats[0]
	assert.Equal(t, "Dec/2024", dec.Label)
	assert.Equal(t, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), dec.Month)
	assert.Zero(t, dec.TotalOrders)
	assert.True(t, dec.TotalOrdersValue.IsZero())
	assert.True(t, dec.ReconciledPercentage.IsZero())
	assert.True(t, dec.CostsPercentage.IsZero())
	assert.True(t, dec.NetToReceive.IsZero())

	jan := stats[1]
	assert.Equal(t, "Jan/2025", jan.Label)
	assert.Equal(t, 5, jan.TotalOrders)
	assertDecimal(t, "460", jan.TotalOrdersValue, "TotalOrdersValue")
	assert.Equal(t, 4, jan.FinanciallyValidOrders)
	assertDecimal(t, "360", jan.FinanciallyValidValue, "FinanciallyValidValue")
	assert.Equal(t, 3, jan.ReconciledOrders)
	assertDecimal(t, "380", jan.ReconciledValue, "ReconciledValue")
	assertDecimal(t, "106", jan.ReconciledPercentage, "ReconciledPercentage")
	assert.Equal(t, 1, jan.DifferenceOrders)
	assertDecimal(t, "50", jan.DifferenceValue, "DifferenceValue")
	assert.Equal(t, 1, jan.NotReconciledCount)
	assertDecimal(t, "5", jan.Commissions, "Commissions")
	assertDecimal(t, "3.80", jan.FixedFees, "FixedFees")
	assertDecimal(t, "1.90", jan.FreeShipping, "FreeShipping")
	assertDecimal(t, "1.14", jan.Coupons, "Coupons")
	assertDecimal(t, "80", jan.Refunds, "Refunds")
	assertDecimal(t, "91.84", jan.TotalCosts, "TotalCosts")
	assertDecimal(t, "24", jan.CostsPercentage, "CostsPercentage")
	assertDecimal(t, "195", jan.TotalReceived, "TotalReceived")
	assertDecimal(t, "50", jan.PendingRelease, "PendingRelease")
	assertDecimal(t, "30", jan.Retained, "Retained")
	assertDecimal(t, "93.16", jan.NetToReceive, "NetToReceive")

	feb := stats[2]
	assert.Equal(t, "Feb/2025", feb.Label)
	assert.Equal(t, 1, feb.TotalOrders)
	assertDecimal(t, "100", feb.ReconciledPercentage, "ReconciledPercentage")
	assertDecimal(t, "1.80", feb.TotalCosts, "TotalCosts")
	assertDecimal(t, "2", feb.CostsPercentage, "CostsPercentage")
	assertDecimal(t, "-1.80", feb.NetToReceive, "NetToReceive")
}

func TestComputeMonthlySummary_Channel(t *testing.T) {
	r := domain.DateRange{From: date(1, 1), To: date(2, 28)}

	stats, err := aggregate.ComputeMonthlySummary(monthlyOrders(), r, "mercado_livre",
		domain.FilterModeSaleDate, aggregate.DefaultCostRates())
	require.NoError(t, err)
	require.Len(t, stats, 2)

	assert.Equal(t, 5, stats[0].TotalOrders)
	assert.Zero(t, stats[1].TotalOrders)
	assert.True(t, stats[1].TotalCosts.IsZero())
}

func TestComputeMonthlySummary_PaymentDate(t *testing.T) {
	r := domain.DateRange{From: date(1, 1), To: date(2, 28)}

	stats, err := aggregate.ComputeMonthlySummary(monthlyOrders(), r, domain.ChannelAll,
		domain.FilterModePaymentDate, aggregate.DefaultCostRates())
	require.NoError(t, err)
	require.Len(t, stats, 2)

	assert.Equal(t, 1, stats[0].TotalOrders)
	assertDecimal(t, "200", stats[0].ReconciledValue, "ReconciledValue")
	assert.Equal(t, 1, stats[1].TotalOrders)
}

func TestComputeMonthlySummary_SingleReconciledOrder(t *testing.T) {
	orders := []domain.Order{
		{
			ID: "single", Date: date(3, 5), Channel: "Mercado Livre",
			SoldValue:            decimal.MustParse("200"),
			Difference:           decimal.MustParse("-200"),
			FinancialStatus:      domain.FinancialStatusReleased,
			ReconciliationStatus: domain.ReconciliationStatusReconciled,
		},
	}
	r := domain.DateRange{From: date(3, 1), To: date(3, 31)}

	stats, err := aggregate.ComputeMonthlySummary(orders, r, domain.ChannelAll,
		domain.FilterModeSaleDate, aggregate.CostRates{})
	require.NoError(t, err)
	require.Len(t, stats, 1)

	assertDecimal(t, "100", stats[0].ReconciledPercentage, "ReconciledPercentage")
	assertDecimal(t, "0", stats[0].TotalCosts, "TotalCosts")
	assertDecimal(t, "200", stats[0].NetToReceive, "NetToReceive")

	stats, err = aggregate.ComputeMonthlySummary(orders, r, domain.ChannelAll,
		domain.FilterModeSaleDate, aggregate.DefaultCostRates())
	require.NoError(t, err)
	assertDecimal(t, "100", stats[0].ReconciledPercentage, "ReconciledPercentage")
	assertDecimal(t, "3.60", stats[0].TotalCosts, "TotalCosts")
	assertDecimal(t, "196.40", stats[0].NetToReceive, "NetToReceive")
}

func TestComputeMonthlySummary_CancelledOnlyLeavesDenominator(t *testing.T) {
	orders := []domain.Order{
		{
			ID: "ok", Date: date(4, 1),
			SoldValue: decimal.MustParse("100"), ReceivedValue: decimal.MustParse("100"),
			FinancialStatus:      domain.FinancialStatusReleased,
			ReconciliationStatus: domain.ReconciliationStatusReconciled,
		},
		{
			ID: "cancelled", Date: date(4, 2),
			SoldValue:            decimal.MustParse("300"),
			FinancialStatus:      domain.FinancialStatusCancelled,
			ReconciliationStatus: domain.ReconciliationStatusReconciled,
			Fees:                 []domain.Fee{fee("Intermediação", "10")},
		},
	}
	r := domain.DateRange{From: date(4, 1), To: date(4, 30)}

	stats, err := aggregate.ComputeMonthlySummary(orders, r, domain.ChannelAll,
		domain.FilterModeSaleDate, aggregate.DefaultCostRates())
	require.NoError(t, err)
	require.Len(t, stats, 1)

	s := stats[0]
	assertDecimal(t, "100", s.FinanciallyValidValue, "FinanciallyValidValue")
	assert.Equal(t, 2, s.TotalOrders)
	assert.Equal(t, 1, s.FinanciallyValidOrders)

	assert.Equal(t, 2, s.ReconciledOrders)
	assertDecimal(t, "400", s.ReconciledValue, "ReconciledValue")
	assertDecimal(t, "400", s.ReconciledPercentage, "ReconciledPercentage")
	assertDecimal(t, "10", s.Commissions, "Commissions")
	assertDecimal(t, "17.20", s.TotalCosts, "TotalCosts")
	assertDecimal(t, "282.80", s.NetToReceive, "NetToReceive")
}

func TestComputeMonthlySummary_Range(t *testing.T) {
	type rangeTest struct {
		name     string
		r        domain.DateRange
		expLen   int
		expError error
	}

	tests := []rangeTest{
		{name: "no range", r: domain.DateRange{}, expLen: 0},
		{name: "open end", r: domain.DateRange{From: date(1, 1)}, expLen: 0},
		{name: "reversed days", r: domain.DateRange{From: date(1, 20), To: date(1, 3)}, expError: domain.ErrInvalidFilter},
		{name: "same day", r: domain.DateRange{From: date(1, 20), To: date(1, 20)}, expLen: 1},
		{name: "reversed months", r: domain.DateRange{From: date(3, 1), To: date(1, 31)}, expError: domain.ErrInvalidFilter},
		{name: "year", r: domain.DateRange{From: date(1, 31), To: date(12, 1)}, expLen: 12},
		{
			name:   "longest span",
			r:      domain.DateRange{From: date(1, 1), To: time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)},
			expLen: aggregate.MaxSummaryMonths,
		},
		{
			name:     "span too long",
			r:        domain.DateRange{From: time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC), To: date(1, 31)},
			expError: domain.ErrInvalidFilter,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			stats, err := aggregate.ComputeMonthlySummary(nil, test.r, domain.ChannelAll,
				domain.FilterModeSaleDate, aggregate.DefaultCostRates())
			if test.expError != nil {
				assert.ErrorIs(t, err, test.expError)
				return
			}
			require.NoError(t, err)
			assert.Len(t, stats, test.expLen)
		})
	}
}
