package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/MikeRez0/conciliator/internal/core/domain"
	"github.com/MikeRez0/conciliator/internal/core/port"
)

type record struct {
	mu    sync.Mutex
	order domain.Order
}

// Repository keeps orders in process memory. Orders are copied on the way in
// and out, so callers never share state with the store.
type Repository struct {
	mu      sync.RWMutex
	records map[string]*record
	ids     []string
}

func NewRepository() (*Repository, error) {
	return &Repository{records: make(map[string]*record)}, nil
}

func (r *Repository) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[order.ID]; ok {
		return nil, domain.ErrConflictingData
	}
	r.records[order.ID] = &record{order: order.Clone()}
	r.ids = append(r.ids, order.ID)

	created := order.Clone()
	return &created, nil
}

func (r *Repository) ReadOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rec, err := r.record(orderID)
	if err != nil {
		return nil, err
	}

	rec.mu.Lock()
	order := rec.order.Clone()
	rec.mu.Unlock()

	return &order, nil
}

// ListOrders returns a snapshot of all orders in insertion order.
func (r *Repository) ListOrders(ctx context.Context) ([]domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	recs := make([]*record, 0, len(r.ids))
	for _, id := range r.ids {
		recs = append(recs, r.records[id])
	}
	r.mu.RUnlock()

	list := make([]domain.Order, 0, len(recs))
	for _, rec := range recs {
		rec.mu.Lock()
		list = append(list, rec.order.Clone())
		rec.mu.Unlock()
	}
	return list, nil
}

// UpdateOrder serializes updates of one order. updateFn sees the current state,
// so a check inside it followed by the store is a compare-and-swap.
func (r *Repository) UpdateOrder(ctx context.Context,
	orderID string,
	updateFn port.UpdateOrderFn,
) (*domain.Order, error) {
	rec, err := r.record(orderID)
	if err != nil {
		return nil, err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	next, err := updateFn(rec.order.Clone())
	if err != nil {
		return nil, err
	}
	if next.ID != orderID {
		return nil, fmt.Errorf("%w: update changed order id %s to %s", domain.ErrInvalidRecord, orderID, next.ID)
	}
	if err := next.Validate(); err != nil {
		return nil, err
	}
	rec.order = next.Clone()

	return &next, nil
}

func (r *Repository) record(orderID string) (*record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[orderID]
	if !ok {
		return nil, domain.ErrDataNotFound
	}
	return rec, nil
}
