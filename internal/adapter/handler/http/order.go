package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/MikeRez0/conciliator/internal/core/classify"
	"github.com/MikeRez0/conciliator/internal/core/domain"
	"github.com/MikeRez0/conciliator/internal/core/port"
	"github.com/gin-gonic/gin"
	"github.com/govalues/decimal"
	"go.uber.org/zap"
)

type OrderHandler struct {
	Handler
	service port.Service
}

func NewOrderHandler(service port.Service, logger *zap.Logger) (*OrderHandler, error) {
	return &OrderHandler{
		Handler: *NewHandler(logger),
		service: service,
	}, nil
}

type feeBody struct {
	Name       string          `json:"name"`
	Percentage decimal.Decimal `json:"percentage"`
	Value      decimal.Decimal `json:"value"`
	Origin     string          `json:"origin,omitempty"`
}

type refundBody struct {
	Amount decimal.Decimal `json:"amount"`
	Date   string          `json:"date,omitempty"`
	Status string          `json:"status,omitempty"`
}

// orderBody is the wire form of an order. Calendar dates use the YYYY-MM-DD layout.
type orderBody struct {
	ID                   string          `json:"id" binding:"required"`
	Date                 string          `json:"date" binding:"required"`
	Product              string          `json:"product"`
	Channel              string          `json:"channel"`
	SoldValue            decimal.Decimal `json:"sold_value"`
	ReceivedValue        decimal.Decimal `json:"received_value"`
	Difference           decimal.Decimal `json:"difference"`
	FinancialStatus      string          `json:"financial_status" binding:"required"`
	ReconciliationStatus string          `json:"reconciliation_status" binding:"required"`
	DifferenceStatus     string          `json:"difference_status,omitempty"`
	ReleaseDate          string          `json:"release_date,omitempty"`
	Fees                 []feeBody       `json:"fees"`
	Refund               *refundBody     `json:"refund,omitempty"`
	Explanation          string          `json:"explanation,omitempty"`
	SupportOpenedAt      *time.Time      `json:"support_opened_at,omitempty"`
	SupportDescription   string          `json:"support_description,omitempty"`
	ResolvedAt           *time.Time      `json:"resolved_at,omitempty"`
}

func parseDay(field, s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return t, fmt.Errorf("%w: %s: %w", domain.ErrBadRequest, field, err)
	}
	return t, nil
}

func (b orderBody) toOrder() (*domain.Order, error) {
	date, err := parseDay("date", b.Date)
	if err != nil {
		return nil, err
	}

	o := &domain.Order{
		ID:                   b.ID,
		Date:                 date,
		Product:              b.Product,
		Channel:              b.Channel,
		SoldValue:            b.SoldValue,
		ReceivedValue:        b.ReceivedValue,
		Difference:           b.Difference,
		FinancialStatus:      domain.FinancialStatus(b.FinancialStatus),
		ReconciliationStatus: domain.ReconciliationStatus(b.ReconciliationStatus),
		DifferenceStatus:     domain.DifferenceStatus(b.DifferenceStatus),
		Explanation:          b.Explanation,
		SupportOpenedAt:      b.SupportOpenedAt,
		SupportDescription:   b.SupportDescription,
		ResolvedAt:           b.ResolvedAt,
	}
	if b.ReleaseDate != "" {
		d, err := parseDay("release_date", b.ReleaseDate)
		if err != nil {
			return nil, err
		}
		o.ReleaseDate = &d
	}
	for _, f := range b.Fees {
		o.Fees = append(o.Fees, domain.Fee(f))
	}
	if b.Refund != nil {
		o.Refund = &domain.Refund{Amount: b.Refund.Amount, Status: b.Refund.Status}
		if b.Refund.Date != "" {
			d, err := parseDay("refund.date", b.Refund.Date)
			if err != nil {
				return nil, err
			}
			o.Refund.Date = d
		}
	}
	return o, nil
}

type classificationResponse struct {
	FeeTotal        decimal.Decimal `json:"fee_total"`
	Refund          decimal.Decimal `json:"refund"`
	Residual        decimal.Decimal `json:"residual"`
	Explained       bool            `json:"explained"`
	SuggestedStatus string          `json:"suggested_status"`
}

type orderResponse struct {
	orderBody
	HasUnresolvedDifference bool                    `json:"has_unresolved_difference"`
	Classification          *classificationResponse `json:"classification,omitempty"`
}

func newOrderResponse(o *domain.Order) orderResponse {
	r := orderResponse{
		orderBody: orderBody{
			ID:                   o.ID,
			Date:                 o.Date.Format(time.DateOnly),
			Product:              o.Product,
			Channel:              o.Channel,
			SoldValue:            o.SoldValue,
			ReceivedValue:        o.ReceivedValue,
			Difference:           o.Difference,
			FinancialStatus:      string(o.FinancialStatus),
			ReconciliationStatus: string(o.ReconciliationStatus),
			DifferenceStatus:     string(o.DifferenceStatus),
			Fees:                 make([]feeBody, 0, len(o.Fees)),
			Explanation:          o.Explanation,
			SupportOpenedAt:      o.SupportOpenedAt,
			SupportDescription:   o.SupportDescription,
			ResolvedAt:           o.ResolvedAt,
		},
		HasUnresolvedDifference: o.HasUnresolvedDifference(),
	}
	if o.ReleaseDate != nil {
		r.ReleaseDate = o.ReleaseDate.Format(time.DateOnly)
	}
	for _, f := range o.Fees {
		r.Fees = append(r.Fees, feeBody(f))
	}
	if o.Refund != nil {
		r.Refund = &refundBody{Amount: o.Refund.Amount, Status: o.Refund.Status}
		if !o.Refund.Date.IsZero() {
			r.Refund.Date = o.Refund.Date.Format(time.DateOnly)
		}
	}
	return r
}

func newClassificationResponse(res *classify.Result) *classificationResponse {
	return &classificationResponse{
		FeeTotal:        res.FeeTotal,
		Refund:          res.Refund,
		Residual:        res.Residual,
		Explained:       res.Explained,
		SuggestedStatus: string(res.SuggestedStatus),
	}
}

func (oh *OrderHandler) CreateOrder(ctx *gin.Context) {
	var req orderBody
	err := ctx.ShouldBindJSON(&req)
	if err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	order, err := req.toOrder()
	if err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	created, err := oh.service.CreateOrder(ctx, order)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	oh.handleSuccessWithStatus(ctx, newOrderResponse(created), http.StatusCreated)
}

func (oh *OrderHandler) ListOrders(ctx *gin.Context) {
	var q filterQuery
	err := ctx.ShouldBindQuery(&q)
	if err != nil {
		oh.handleValidationError(ctx, err)
		return
	}
	filter, err := q.toFilter()
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	list, err := oh.service.ListOrders(ctx, filter)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	result := make([]orderResponse, 0, len(list))
	for i := range list {
		result = append(result, newOrderResponse(&list[i]))
	}
	oh.handleSuccess(ctx, result)
}

// GetOrder returns the order together with the classification of its difference.
func (oh *OrderHandler) GetOrder(ctx *gin.Context) {
	orderID := ctx.Param("id")

	order, err := oh.service.GetOrder(ctx, orderID)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}
	res, err := oh.service.ClassifyOrder(ctx, orderID)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	resp := newOrderResponse(order)
	resp.Classification = newClassificationResponse(res)
	oh.handleSuccess(ctx, resp)
}

type supportRequest struct {
	Description string `json:"description"`
}

func (oh *OrderHandler) OpenSupport(ctx *gin.Context) {
	var req supportRequest
	if ctx.Request.ContentLength != 0 {
		err := ctx.ShouldBindJSON(&req)
		if err != nil {
			oh.handleValidationError(ctx, err)
			return
		}
	}

	order, err := oh.service.OpenSupport(ctx, ctx.Param("id"), req.Description)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}
	oh.handleSuccess(ctx, newOrderResponse(order))
}

func (oh *OrderHandler) MarkRecovered(ctx *gin.Context) {
	order, err := oh.service.MarkRecovered(ctx, ctx.Param("id"))
	if err != nil {
		oh.handleError(ctx, err)
		return
	}
	oh.handleSuccess(ctx, newOrderResponse(order))
}

func (oh *OrderHandler) ConfirmCost(ctx *gin.Context) {
	order, err := oh.service.ConfirmCost(ctx, ctx.Param("id"))
	if err != nil {
		oh.handleError(ctx, err)
		return
	}
	oh.handleSuccess(ctx, newOrderResponse(order))
}
