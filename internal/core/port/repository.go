package port

import (
	"context"

	"github.com/MikeRez0/conciliator/internal/core/domain"
)

//go:generate mockgen -source=repository.go -destination=mock/repository.go -package=mock
type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error)
	ReadOrder(ctx context.Context, orderID string) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
	// UpdateOrder runs updateFn on a copy of the stored order while holding the order
	// exclusively and stores its result only when updateFn succeeds.
	UpdateOrder(ctx context.Context, orderID string, updateFn UpdateOrderFn) (*domain.Order, error)
}

type UpdateOrderFn func(current domain.Order) (domain.Order, error)
