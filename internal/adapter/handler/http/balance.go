package http

import (
	"time"

	"github.com/MikeRez0/conciliator/internal/core/domain"
	"github.com/MikeRez0/conciliator/internal/core/port"
	"github.com/gin-gonic/gin"
	"github.com/govalues/decimal"
	"go.uber.org/zap"
)

// BalanceHandler serves the aggregated views over orders.
type BalanceHandler struct {
	Handler
	service port.Service
}

func NewBalanceHandler(service port.Service, logger *zap.Logger) (*BalanceHandler, error) {
	return &BalanceHandler{
		Handler: Handler{logger: logger},
		service: service,
	}, nil
}

type balanceResponse struct {
	TotalBalance          decimal.Decimal `json:"total_balance"`
	ReconciledBalance     decimal.Decimal `json:"reconciled_balance"`
	Unreconciled          decimal.Decimal `json:"unreconciled"`
	DifferencePercentage  decimal.Decimal `json:"difference_percentage"`
	SignificantGap        bool            `json:"significant_gap"`
	UnresolvedDifferences decimal.Decimal `json:"unresolved_differences"`
	UnresolvedCount       int             `json:"unresolved_count"`
	TotalReceived         decimal.Decimal `json:"total_received"`
	PendingRelease        decimal.Decimal `json:"pending_release"`
	Retained              decimal.Decimal `json:"retained"`
	Refunds               decimal.Decimal `json:"refunds"`
}

// bindFilter reads the query filter, sending the error response itself on failure.
func (bh *BalanceHandler) bindFilter(ctx *gin.Context) (domain.Filter, bool) {
	var q filterQuery
	err := ctx.ShouldBindQuery(&q)
	if err != nil {
		bh.handleValidationError(ctx, err)
		return domain.Filter{}, false
	}
	filter, err := q.toFilter()
	if err != nil {
		bh.handleError(ctx, err)
		return domain.Filter{}, false
	}
	return filter, true
}

func (bh *BalanceHandler) Balance(ctx *gin.Context) {
	filter, ok := bh.bindFilter(ctx)
	if !ok {
		return
	}

	b, err := bh.service.Balance(ctx, filter)
	if err != nil {
		bh.handleError(ctx, err)
		return
	}

	bh.handleSuccess(ctx, balanceResponse{
		TotalBalance:          b.TotalBalance,
		ReconciledBalance:     b.ReconciledBalance,
		Unreconciled:          b.Unreconciled,
		DifferencePercentage:  b.DifferencePercentage,
		SignificantGap:        b.SignificantGap,
		UnresolvedDifferences: b.UnresolvedDifferences,
		UnresolvedCount:       b.UnresolvedCount,
		TotalReceived:         b.TotalReceived,
		PendingRelease:        b.PendingRelease,
		Retained:              b.Retained,
		Refunds:               b.Refunds,
	})
}

type financialShareResponse struct {
	Status string          `json:"status"`
	Count  int             `json:"count"`
	Value  decimal.Decimal `json:"value"`
}

type reconciliationShareResponse struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type feeCauseResponse struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
}

type resolutionShareResponse struct {
	Status string          `json:"status"`
	Value  decimal.Decimal `json:"value"`
}

type timelinePointResponse struct {
	Date     string          `json:"date"`
	Expected decimal.Decimal `json:"expected"`
	Received decimal.Decimal `json:"received"`
}

type automationResponse struct {
	Value decimal.Decimal `json:"value"`
	Count int             `json:"count"`
	Ready bool            `json:"ready"`
}

type kpiResponse struct {
	RecoveredValue      decimal.Decimal `json:"recovered_value"`
	ConfirmedCostValue  decimal.Decimal `json:"confirmed_cost_value"`
	SupportOpenValue    decimal.Decimal `json:"support_open_value"`
	RecoveryRate        decimal.Decimal `json:"recovery_rate"`
	RecoveryRatePercent decimal.Decimal `json:"recovery_rate_percent"`

	ReconciledValue      decimal.Decimal `json:"reconciled_value"`
	EligibleTotal        decimal.Decimal `json:"eligible_total"`
	ReconciledPercentage decimal.Decimal `json:"reconciled_percentage"`

	ReconciledCount     int             `json:"reconciled_count"`
	WithDifferenceCount int             `json:"with_difference_count"`
	ResolvedCount       int             `json:"resolved_count"`
	TimeSavedHours      decimal.Decimal `json:"time_saved_hours"`

	FinancialDistribution      []financialShareResponse      `json:"financial_distribution"`
	ReconciliationDistribution []reconciliationShareResponse `json:"reconciliation_distribution"`
	TopFeeCauses               []feeCauseResponse            `json:"top_fee_causes"`
	Resolution                 []resolutionShareResponse     `json:"resolution"`
	Timeline                   []timelinePointResponse       `json:"timeline"`
	AverageGapPercent          decimal.Decimal               `json:"average_gap_percent"`

	Automation automationResponse `json:"automation"`
}

func (bh *BalanceHandler) KPIs(ctx *gin.Context) {
	filter, ok := bh.bindFilter(ctx)
	if !ok {
		return
	}

	k, err := bh.service.KPIs(ctx, filter)
	if err != nil {
		bh.handleError(ctx, err)
		return
	}

	resp := kpiResponse{
		RecoveredValue:             k.RecoveredValue,
		ConfirmedCostValue:         k.ConfirmedCostValue,
		SupportOpenValue:           k.SupportOpenValue,
		RecoveryRate:               k.RecoveryRate,
		RecoveryRatePercent:        k.RecoveryRatePercent,
		ReconciledValue:            k.ReconciledValue,
		EligibleTotal:              k.EligibleTotal,
		ReconciledPercentage:       k.ReconciledPercentage,
		ReconciledCount:            k.ReconciledCount,
		WithDifferenceCount:        k.WithDifferenceCount,
		ResolvedCount:              k.ResolvedCount,
		TimeSavedHours:             k.TimeSavedHours,
		FinancialDistribution:      make([]financialShareResponse, 0, len(k.FinancialDistribution)),
		ReconciliationDistribution: make([]reconciliationShareResponse, 0, len(k.ReconciliationDistribution)),
		TopFeeCauses:               make([]feeCauseResponse, 0, len(k.TopFeeCauses)),
		Resolution:                 make([]resolutionShareResponse, 0, len(k.Resolution)),
		Timeline:                   make([]timelinePointResponse, 0, len(k.Timeline)),
		AverageGapPercent:          k.AverageGapPercent,
		Automation: automationResponse{
			Value: k.Automation.Value,
			Count: k.Automation.Count,
			Ready: k.Automation.Ready,
		},
	}
	for _, s := range k.FinancialDistribution {
		resp.FinancialDistribution = append(resp.FinancialDistribution,
			financialShareResponse{Status: string(s.Status), Count: s.Count, Value: s.Value})
	}
	for _, s := range k.ReconciliationDistribution {
		resp.ReconciliationDistribution = append(resp.ReconciliationDistribution,
			reconciliationShareResponse{Status: string(s.Status), Count: s.Count})
	}
	for _, c := range k.TopFeeCauses {
		resp.TopFeeCauses = append(resp.TopFeeCauses, feeCauseResponse(c))
	}
	for _, s := range k.Resolution {
		resp.Resolution = append(resp.Resolution,
			resolutionShareResponse{Status: string(s.Status), Value: s.Value})
	}
	for _, p := range k.Timeline {
		resp.Timeline = append(resp.Timeline, timelinePointResponse{
			Date:     p.Date.Format(time.DateOnly),
			Expected: p.Expected,
			Received: p.Received,
		})
	}

	bh.handleSuccess(ctx, resp)
}

type periodResponse struct {
	Month string `json:"month"`
	Label string `json:"label"`

	TotalOrders      int             `json:"total_orders"`
	TotalOrdersValue decimal.Decimal `json:"total_orders_value"`

	FinanciallyValidOrders int             `json:"financially_valid_orders"`
	FinanciallyValidValue  decimal.Decimal `json:"financially_valid_value"`

	ReconciledOrders     int             `json:"reconciled_orders"`
	ReconciledValue      decimal.Decimal `json:"reconciled_value"`
	ReconciledPercentage decimal.Decimal `json:"reconciled_percentage"`

	DifferenceOrders   int             `json:"difference_orders"`
	DifferenceValue    decimal.Decimal `json:"difference_value"`
	NotReconciledCount int             `json:"not_reconciled_count"`

	Commissions     decimal.Decimal `json:"commissions"`
	FixedFees       decimal.Decimal `json:"fixed_fees"`
	FreeShipping    decimal.Decimal `json:"free_shipping"`
	Coupons         decimal.Decimal `json:"coupons"`
	Refunds         decimal.Decimal `json:"refunds"`
	TotalCosts      decimal.Decimal `json:"total_costs"`
	CostsPercentage decimal.Decimal `json:"costs_percentage"`

	TotalReceived  decimal.Decimal `json:"total_received"`
	PendingRelease decimal.Decimal `json:"pending_release"`
	Retained       decimal.Decimal `json:"retained"`
	NetToReceive   decimal.Decimal `json:"net_to_receive"`
}

func (bh *BalanceHandler) MonthlySummary(ctx *gin.Context) {
	var q filterQuery
	err := ctx.ShouldBindQuery(&q)
	if err != nil {
		bh.handleValidationError(ctx, err)
		return
	}

	stats, err := bh.service.MonthlySummary(ctx,
		domain.DateRange{From: q.From, To: q.To}, q.Channel, domain.FilterMode(q.Mode))
	if err != nil {
		bh.handleError(ctx, err)
		return
	}

	result := make([]periodResponse, 0, len(stats))
	for _, s := range stats {
		result = append(result, periodResponse{
			Month:                  s.Month.Format("2006-01"),
			Label:                  s.Label,
			TotalOrders:            s.TotalOrders,
			TotalOrdersValue:       s.TotalOrdersValue,
			FinanciallyValidOrders: s.FinanciallyValidOrders,
			FinanciallyValidValue:  s.FinanciallyValidValue,
			ReconciledOrders:       s.ReconciledOrders,
			ReconciledValue:        s.ReconciledValue,
			ReconciledPercentage:   s.ReconciledPercentage,
			DifferenceOrders:       s.DifferenceOrders,
			DifferenceValue:        s.DifferenceValue,
			NotReconciledCount:     s.NotReconciledCount,
			Commissions:            s.Commissions,
			FixedFees:              s.FixedFees,
			FreeShipping:           s.FreeShipping,
			Coupons:                s.Coupons,
			Refunds:                s.Refunds,
			TotalCosts:             s.TotalCosts,
			CostsPercentage:        s.CostsPercentage,
			TotalReceived:          s.TotalReceived,
			PendingRelease:         s.PendingRelease,
			Retained:               s.Retained,
			NetToReceive:           s.NetToReceive,
		})
	}

	bh.handleSuccess(ctx, result)
}
