package service

import (
	"context"
	"errors"
	"time"

	"github.com/MikeRez0/conciliator/internal/core/aggregate"
	"github.com/MikeRez0/conciliator/internal/core/classify"
	"github.com/MikeRez0/conciliator/internal/core/domain"
	"github.com/MikeRez0/conciliator/internal/core/port"
	"github.com/MikeRez0/conciliator/internal/core/query"
	"github.com/MikeRez0/conciliator/internal/core/workflow"
	"github.com/govalues/decimal"
	"go.uber.org/zap"
)

type Options struct {
	Aggregate aggregate.Config
	Epsilon   decimal.Decimal
	// MaxRangeDays limits date ranges of order queries. Zero means no limit.
	MaxRangeDays int
	// Now is the clock used for workflow timestamps and open date ranges.
	Now func() time.Time
}

func DefaultOptions() Options {
	return Options{
		Aggregate:    aggregate.DefaultConfig(),
		Epsilon:      classify.DefaultEpsilon,
		MaxRangeDays: 60,
		Now:          time.Now,
	}
}

type Service struct {
	repo   port.OrderRepository
	opts   Options
	logger *zap.Logger
}

func NewService(repo port.OrderRepository, opts Options, logger *zap.Logger) (*Service, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		repo:   repo,
		opts:   opts,
		logger: logger,
	}, nil
}

func (s *Service) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	err := order.Validate()
	if err != nil {
		s.logger.Warn("Rejected order", zap.String("order", order.ID), zap.Error(err))
		return nil, err
	}

	newOrder, err := s.repo.CreateOrder(ctx, order)
	if err != nil {
		if errors.Is(err, domain.ErrConflictingData) {
			return nil, domain.ErrConflictingData
		}
		s.logger.Error("Create order", zap.Error(err))
		return nil, domain.ErrInternal
	}

	return newOrder, nil
}

func (s *Service) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := s.repo.ReadOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrDataNotFound) {
			return nil, domain.ErrDataNotFound
		}
		s.logger.Error("Read order", zap.Error(err))
		return nil, domain.ErrInternal
	}
	return order, nil
}

func (s *Service) ClassifyOrder(ctx context.Context, orderID string) (*classify.Result, error) {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	res, err := classify.Classify(*order, s.opts.Epsilon)
	if err != nil {
		s.logger.Error("Classify order", zap.String("order", orderID), zap.Error(err))
		return nil, domain.ErrInternal
	}
	return &res, nil
}

func (s *Service) ListOrders(ctx context.Context, filter domain.Filter) ([]domain.Order, error) {
	filter, err := s.prepareFilter(filter)
	if err != nil {
		return nil, err
	}

	orders, err := s.repo.ListOrders(ctx)
	if err != nil {
		s.logger.Error("List orders", zap.Error(err))
		return nil, domain.ErrInternal
	}

	return query.FilterOrders(orders, filter, s.opts.Now()), nil
}

func (s *Service) OpenSupport(ctx context.Context, orderID string, description string) (*domain.Order, error) {
	return s.transition(ctx, orderID, workflow.ActionOpenSupport, description)
}

func (s *Service) MarkRecovered(ctx context.Context, orderID string) (*domain.Order, error) {
	return s.transition(ctx, orderID, workflow.ActionMarkRecovered, "")
}

func (s *Service) ConfirmCost(ctx context.Context, orderID string) (*domain.Order, error) {
	return s.transition(ctx, orderID, workflow.ActionConfirmCost, "")
}

func (s *Service) transition(ctx context.Context,
	orderID string,
	action workflow.Action,
	description string,
) (*domain.Order, error) {
	now := s.opts.Now()

	order, err := s.repo.UpdateOrder(ctx, orderID,
		func(current domain.Order) (domain.Order, error) {
			return workflow.Apply(current, action, description, now)
		})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidTransition):
			s.logger.Debug("Transition rejected",
				zap.String("order", orderID), zap.String("action", string(action)), zap.Error(err))
			return nil, err
		case errors.Is(err, domain.ErrDataNotFound):
			return nil, domain.ErrDataNotFound
		default:
			s.logger.Error("Update order", zap.String("order", orderID), zap.Error(err))
			return nil, domain.ErrInternal
		}
	}

	s.logger.Info("Difference status changed",
		zap.String("order", orderID),
		zap.String("action", string(action)),
		zap.String("status", string(order.DifferenceStatus)))

	return order, nil
}

func (s *Service) Balance(ctx context.Context, filter domain.Filter) (*domain.BalanceSummary, error) {
	orders, err := s.ListOrders(ctx, filter)
	if err != nil {
		return nil, err
	}

	balance, err := aggregate.ComputeBalance(orders, s.opts.Aggregate)
	if err != nil {
		s.logger.Error("Compute balance", zap.Error(err))
		return nil, domain.ErrInternal
	}
	return &balance, nil
}

func (s *Service) KPIs(ctx context.Context, filter domain.Filter) (*domain.KPISet, error) {
	orders, err := s.ListOrders(ctx, filter)
	if err != nil {
		return nil, err
	}

	kpis, err := aggregate.ComputeKPIs(orders)
	if err != nil {
		s.logger.Error("Compute KPIs", zap.Error(err))
		return nil, domain.ErrInternal
	}
	return &kpis, nil
}

func (s *Service) MonthlySummary(ctx context.Context,
	dateRange domain.DateRange,
	channel string,
	mode domain.FilterMode,
) ([]domain.PeriodStat, error) {
	if mode == "" {
		mode = domain.FilterModeSaleDate
	}
	if err := mode.Validate(); err != nil {
		return nil, err
	}
	if err := dateRange.Validate(s.opts.Now(), 0); err != nil {
		return nil, err
	}

	orders, err := s.repo.ListOrders(ctx)
	if err != nil {
		s.logger.Error("List orders", zap.Error(err))
		return nil, domain.ErrInternal
	}

	stats, err := aggregate.ComputeMonthlySummary(orders, dateRange, channel, mode, s.opts.Aggregate.CostRates)
	if errors.Is(err, domain.ErrInvalidFilter) {
		return nil, err
	}
	if err != nil {
		s.logger.Error("Compute monthly summary", zap.Error(err))
		return nil, domain.ErrInternal
	}
	return stats, nil
}

// prepareFilter defaults the mode and checks a date range when one is given.
// A range with only an upper bound is rejected, a missing upper bound means today.
func (s *Service) prepareFilter(filter domain.Filter) (domain.Filter, error) {
	if filter.Mode == "" {
		filter.Mode = domain.FilterModeSaleDate
	}
	if err := filter.Mode.Validate(); err != nil {
		return filter, err
	}
	if filter.MinDifference != nil && filter.MinDifference.IsNeg() {
		return filter, domain.ErrInvalidFilter
	}

	r := filter.DateRange
	if r.From.IsZero() && r.To.IsZero() {
		return filter, nil
	}
	now := s.opts.Now()
	if r.To.IsZero() {
		r.To = now
	}
	if err := r.Validate(now, s.opts.MaxRangeDays); err != nil {
		return filter, err
	}
	filter.DateRange = r
	return filter, nil
}
