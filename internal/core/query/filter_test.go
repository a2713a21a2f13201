package query_test

import (
	"testing"
	"time"

	"github.com/MikeRez0/conciliator/internal/core/domain"
	"github.com/MikeRez0/conciliator/internal/core/query"
	"github.com/govalues/decimal"
	"github.com/stretchr/testify/assert"
)

var now = time.Date(2025, 1, 20, 15, 0, 0, 0, time.UTC)

func day(d int) time.Time {
	return time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC)
}

func dayPtr(d int) *time.Time {
	t := day(d)
	return &t
}

func testOrders() []domain.Order {
	return []domain.Order{
		{
			ID: "released", Date: day(2), Channel: "Mercado Livre",
			SoldValue: decimal.MustParse("150"), ReceivedValue: decimal.MustParse("145.50"),
			Difference:           decimal.MustParse("-4.50"),
			FinancialStatus:      domain.FinancialStatusReleased,
			ReconciliationStatus: domain.ReconciliationStatusReconciled,
		},
		{
			ID: "released-dated", Date: day(3), Channel: "Mercado Pago",
			SoldValue: decimal.MustParse("200"), ReceivedValue: decimal.MustParse("200"),
			FinancialStatus:      domain.FinancialStatusReleased,
			ReconciliationStatus: domain.ReconciliationStatusReconciled,
			ReleaseDate:          dayPtr(15),
		},
		{
			ID: "pending", Date: day(9), Channel: "Mercado Livre",
			SoldValue:            decimal.MustParse("350"),
			Difference:           decimal.MustParse("-350"),
			FinancialStatus:      domain.FinancialStatusPendingRelease,
			ReconciliationStatus: domain.ReconciliationStatusNotReconciled,
		},
		{
			ID: "pending-dated", Date: day(9), Channel: "Mercado Livre",
			SoldValue:            decimal.MustParse("80"),
			Difference:           decimal.MustParse("-80"),
			FinancialStatus:      domain.FinancialStatusPendingRelease,
			ReconciliationStatus: domain.ReconciliationStatusInProgress,
			ReleaseDate:          dayPtr(18),
		},
		{
			ID: "retained", Date: day(12), Channel: "Mercado Livre",
			SoldValue:            decimal.MustParse("120"),
			Difference:           decimal.MustParse("-120"),
			FinancialStatus:      domain.FinancialStatusRetained,
			ReconciliationStatus: domain.ReconciliationStatusDifferenceDetected,
			DifferenceStatus:     domain.DifferenceStatusDetected,
		},
	}
}

func ids(orders []domain.Order) []string {
	res := make([]string, 0, len(orders))
	for _, o := range orders {
		res = append(res, o.ID)
	}
	return res
}

func TestFilterOrders(t *testing.T) {
	five := decimal.MustParse("5")
	exact := decimal.MustParse("4.50")

	type filterTest struct {
		name   string
		filter domain.Filter
		expIDs []string
	}

	tests := []filterTest{
		{
			name:   "sale date whole month",
			filter: domain.Filter{Mode: domain.FilterModeSaleDate, DateRange: domain.DateRange{From: day(1), To: day(31)}},
			expIDs: []string{"released", "released-dated", "pending", "pending-dated", "retained"},
		},
		{
			name:   "sale date inclusive bounds",
			filter: domain.Filter{Mode: domain.FilterModeSaleDate, DateRange: domain.DateRange{From: day(3), To: day(9)}},
			expIDs: []string{"released-dated", "pending", "pending-dated"},
		},
		{
			name: "sale date bounds with time of day",
			filter: domain.Filter{Mode: domain.FilterModeSaleDate, DateRange: domain.DateRange{
				From: day(3).Add(20 * time.Hour), To: day(9).Add(time.Hour)}},
			expIDs: []string{"released-dated", "pending", "pending-dated"},
		},
		{
			name:   "payment date uses release date or estimate",
			filter: domain.Filter{Mode: domain.FilterModePaymentDate, DateRange: domain.DateRange{From: day(1), To: day(31)}},
			expIDs: []string{"released", "released-dated", "pending-dated"},
		},
		{
			name:   "payment date estimate is sale date plus seven days",
			filter: domain.Filter{Mode: domain.FilterModePaymentDate, DateRange: domain.DateRange{From: day(9), To: day(9)}},
			expIDs: []string{"released"},
		},
		{
			name:   "payment date open upper bound is today",
			filter: domain.Filter{Mode: domain.FilterModePaymentDate, DateRange: domain.DateRange{From: day(16)}},
			expIDs: []string{"pending-dated"},
		},
		{
			name:   "payment date without range keeps future payments",
			filter: domain.Filter{Mode: domain.FilterModePaymentDate},
			expIDs: []string{"released", "released-dated", "pending-dated"},
		},
		{
			name:   "payment date start only ends today",
			filter: domain.Filter{Mode: domain.FilterModePaymentDate, DateRange: domain.DateRange{From: day(1)}},
			expIDs: []string{"released", "released-dated", "pending-dated"},
		},
		{
			name: "financial status set",
			filter: domain.Filter{
				Mode:            domain.FilterModeSaleDate,
				FinancialStatus: []domain.FinancialStatus{domain.FinancialStatusReleased, domain.FinancialStatusRetained},
			},
			expIDs: []string{"released", "released-dated", "retained"},
		},
		{
			name: "reconciliation status set",
			filter: domain.Filter{
				Mode:                 domain.FilterModeSaleDate,
				ReconciliationStatus: []domain.ReconciliationStatus{domain.ReconciliationStatusDifferenceDetected},
			},
			expIDs: []string{"retained"},
		},
		{
			name:   "min difference",
			filter: domain.Filter{Mode: domain.FilterModeSaleDate, MinDifference: &five},
			expIDs: []string{"pending", "pending-dated", "retained"},
		},
		{
			name:   "min difference is inclusive",
			filter: domain.Filter{Mode: domain.FilterModeSaleDate, MinDifference: &exact},
			expIDs: []string{"released", "pending", "pending-dated", "retained"},
		},
		{
			name:   "channel",
			filter: domain.Filter{Mode: domain.FilterModeSaleDate, Channel: "mercado_pago"},
			expIDs: []string{"released-dated"},
		},
		{
			name:   "all channels",
			filter: domain.Filter{Mode: domain.FilterModeSaleDate, Channel: domain.ChannelAll},
			expIDs: []string{"released", "released-dated", "pending", "pending-dated", "retained"},
		},
		{
			name: "axes combine with and",
			filter: domain.Filter{
				Mode:            domain.FilterModeSaleDate,
				DateRange:       domain.DateRange{From: day(5), To: day(31)},
				FinancialStatus: []domain.FinancialStatus{domain.FinancialStatusPendingRelease},
				MinDifference:   &five,
				Channel:         "mercado_livre",
			},
			expIDs: []string{"pending", "pending-dated"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			orders := testOrders()

			result := query.FilterOrders(orders, test.filter, now)

			assert.Equal(t, test.expIDs, ids(result))
			assert.Equal(t, testOrders(), orders)
		})
	}
}

func TestFilterOrders_Idempotent(t *testing.T) {
	five := decimal.MustParse("5")
	filters := []domain.Filter{
		{Mode: domain.FilterModeSaleDate},
		{Mode: domain.FilterModePaymentDate, DateRange: domain.DateRange{From: day(1), To: day(16)}},
		{Mode: domain.FilterModeSaleDate, MinDifference: &five, Channel: "mercado_livre"},
	}

	for _, f := range filters {
		once := query.FilterOrders(testOrders(), f, now)
		twice := query.FilterOrders(once, f, now)
		assert.Equal(t, once, twice)
	}
}

func TestFilterOrders_NoRangeKeepsFutureReleaseDates(t *testing.T) {
	today := day(15)
	orders := []domain.Order{
		{
			ID: "pending", Date: day(10),
			SoldValue:            decimal.MustParse("350"),
			FinancialStatus:      domain.FinancialStatusPendingRelease,
			ReconciliationStatus: domain.ReconciliationStatusInProgress,
			ReleaseDate:          dayPtr(20),
		},
		{
			ID: "released-recently", Date: day(14),
			SoldValue: decimal.MustParse("90"), ReceivedValue: decimal.MustParse("90"),
			FinancialStatus:      domain.FinancialStatusReleased,
			ReconciliationStatus: domain.ReconciliationStatusReconciled,
		},
	}

	type openRangeTest struct {
		name   string
		mode   domain.FilterMode
		expIDs []string
	}
	tests := []openRangeTest{
		{name: "sale date", mode: domain.FilterModeSaleDate, expIDs: []string{"pending", "released-recently"}},
		{name: "payment date", mode: domain.FilterModePaymentDate, expIDs: []string{"pending", "released-recently"}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := query.FilterOrders(orders, domain.Filter{Mode: test.mode}, today)
			assert.Equal(t, test.expIDs, ids(result))
		})
	}
}

func TestFilterOrders_PendingWithoutReleaseDateHasNoPaymentDate(t *testing.T) {
	o := domain.Order{
		ID: "pending", Date: day(9),
		FinancialStatus: domain.FinancialStatusPendingRelease,
	}
	ranges := []domain.DateRange{
		{},
		{From: day(1), To: day(31)},
		{From: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), To: time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, r := range ranges {
		result := query.FilterOrders([]domain.Order{o},
			domain.Filter{Mode: domain.FilterModePaymentDate, DateRange: r}, now)
		assert.Empty(t, result)
	}

	_, ok := query.EffectiveDate(o, domain.FilterModePaymentDate)
	assert.False(t, ok)
}
