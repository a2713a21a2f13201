package port

import (
	"context"

	"github.com/MikeRez0/conciliator/internal/core/classify"
	"github.com/MikeRez0/conciliator/internal/core/domain"
)

//go:generate mockgen -source=service.go -destination=mock/service.go -package=mock
type Service interface {
	CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetOrder(ctx context.Context, orderID string) (*domain.Order, error)
	ClassifyOrder(ctx context.Context, orderID string) (*classify.Result, error)
	ListOrders(ctx context.Context, filter domain.Filter) ([]domain.Order, error)

	OpenSupport(ctx context.Context, orderID string, description string) (*domain.Order, error)
	MarkRecovered(ctx context.Context, orderID string) (*domain.Order, error)
	ConfirmCost(ctx context.Context, orderID string) (*domain.Order, error)

	Balance(ctx context.Context, filter domain.Filter) (*domain.BalanceSummary, error)
	KPIs(ctx context.Context, filter domain.Filter) (*domain.KPISet, error)
	MonthlySummary(ctx context.Context, dateRange domain.DateRange,
		channel string, mode domain.FilterMode) ([]domain.PeriodStat, error)
}
