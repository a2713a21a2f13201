package workflow_test

import (
	"testing"
	"time"

	"github.com/MikeRez0/conciliator/internal/core/domain"
	"github.com/MikeRez0/conciliator/internal/core/workflow"
	"github.com/govalues/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC)

func orderIn(status domain.DifferenceStatus) domain.Order {
	o := domain.Order{
		ID:                   "#324051",
		Date:                 time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		SoldValue:            decimal.MustParse("150.00"),
		ReceivedValue:        decimal.MustParse("145.50"),
		Difference:           decimal.MustParse("-4.50"),
		FinancialStatus:      domain.FinancialStatusReleased,
		ReconciliationStatus: domain.ReconciliationStatusDifferenceDetected,
		DifferenceStatus:     status,
	}
	opened := now.Add(-time.Hour)
	if status == domain.DifferenceStatusSupportOpen || status.IsResolved() {
		o.SupportOpenedAt = &opened
	}
	if status.IsResolved() {
		o.ResolvedAt = &opened
	}
	return o
}

func TestApply(t *testing.T) {
	type applyTest struct {
		name      string
		order     domain.Order
		action    workflow.Action
		expError  error
		expStatus domain.DifferenceStatus
	}

	noDiff := orderIn(domain.DifferenceStatusNone)
	noDiff.Difference = decimal.Zero

	tests := []applyTest{
		{
			name:      "open support from detected",
			order:     orderIn(domain.DifferenceStatusDetected),
			action:    workflow.ActionOpenSupport,
			expStatus: domain.DifferenceStatusSupportOpen,
		},
		{
			name:      "recover from support open",
			order:     orderIn(domain.DifferenceStatusSupportOpen),
			action:    workflow.ActionMarkRecovered,
			expStatus: domain.DifferenceStatusRecovered,
		},
		{
			name:      "confirm cost from support open",
			order:     orderIn(domain.DifferenceStatusSupportOpen),
			action:    workflow.ActionConfirmCost,
			expStatus: domain.DifferenceStatusConfirmedCost,
		},
		{
			name:     "recover skipping support",
			order:    orderIn(domain.DifferenceStatusDetected),
			action:   workflow.ActionMarkRecovered,
			expError: domain.ErrInvalidTransition,
		},
		{
			name:     "confirm cost skipping support",
			order:    orderIn(domain.DifferenceStatusDetected),
			action:   workflow.ActionConfirmCost,
			expError: domain.ErrInvalidTransition,
		},
		{
			name:     "open support twice",
			order:    orderIn(domain.DifferenceStatusSupportOpen),
			action:   workflow.ActionOpenSupport,
			expError: domain.ErrInvalidTransition,
		},
		{
			name:     "reopen recovered",
			order:    orderIn(domain.DifferenceStatusRecovered),
			action:   workflow.ActionOpenSupport,
			expError: domain.ErrInvalidTransition,
		},
		{
			name:     "confirm recovered",
			order:    orderIn(domain.DifferenceStatusRecovered),
			action:   workflow.ActionConfirmCost,
			expError: domain.ErrInvalidTransition,
		},
		{
			name:     "recover confirmed cost",
			order:    orderIn(domain.DifferenceStatusConfirmedCost),
			action:   workflow.ActionMarkRecovered,
			expError: domain.ErrInvalidTransition,
		},
		{
			name:     "order without difference",
			order:    noDiff,
			action:   workflow.ActionOpenSupport,
			expError: domain.ErrInvalidTransition,
		},
		{
			name:     "unknown action",
			order:    orderIn(domain.DifferenceStatusDetected),
			action:   "reopen",
			expError: domain.ErrInvalidTransition,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			before := test.order.Clone()

			result, err := workflow.Apply(test.order, test.action, "missing fee", now)

			assert.Equal(t, before, test.order)
			if test.expError != nil {
				assert.ErrorIs(t, err, test.expError)
				assert.Equal(t, domain.Order{}, result)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expStatus, result.DifferenceStatus)
			assert.NoError(t, result.Validate())
		})
	}
}

func TestWorkflow_RoundTrip(t *testing.T) {
	o := orderIn(domain.DifferenceStatusDetected)

	opened, err := workflow.OpenSupport(o, "fee charged twice", now)
	require.NoError(t, err)
	assert.Equal(t, domain.DifferenceStatusSupportOpen, opened.DifferenceStatus)
	require.NotNil(t, opened.SupportOpenedAt)
	assert.Equal(t, now, *opened.SupportOpenedAt)
	assert.Equal(t, "fee charged twice", opened.SupportDescription)
	assert.Nil(t, opened.ResolvedAt)

	later := now.Add(48 * time.Hour)
	recovered, err := workflow.MarkRecovered(opened, later)
	require.NoError(t, err)
	assert.Equal(t, domain.DifferenceStatusRecovered, recovered.DifferenceStatus)
	require.NotNil(t, recovered.ResolvedAt)
	assert.Equal(t, later, *recovered.ResolvedAt)
	assert.Equal(t, now, *recovered.SupportOpenedAt)
	assert.True(t, recovered.Difference.Cmp(o.Difference) == 0)

	_, err = workflow.MarkRecovered(recovered, later)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = workflow.ConfirmCost(recovered, later)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	assert.Equal(t, domain.DifferenceStatusSupportOpen, opened.DifferenceStatus)
	assert.Nil(t, opened.ResolvedAt)
}
