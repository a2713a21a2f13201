// Package workflow moves a detected difference of an order to its resolution:
// detected -> support_open -> recovered | confirmed_cost.
package workflow

import (
	"fmt"
	"time"

	"github.com/MikeRez0/conciliator/internal/core/domain"
)

type Action string

const (
	ActionOpenSupport   Action = "open_support"
	ActionMarkRecovered Action = "mark_recovered"
	ActionConfirmCost   Action = "confirm_cost"
)

type transition struct {
	from domain.DifferenceStatus
	to   domain.DifferenceStatus
}

var transitions = map[Action]transition{
	ActionOpenSupport:   {from: domain.DifferenceStatusDetected, to: domain.DifferenceStatusSupportOpen},
	ActionMarkRecovered: {from: domain.DifferenceStatusSupportOpen, to: domain.DifferenceStatusRecovered},
	ActionConfirmCost:   {from: domain.DifferenceStatusSupportOpen, to: domain.DifferenceStatusConfirmedCost},
}

// Apply returns a copy of order with the action applied. On error the returned
// order is the zero value and the input is left untouched.
func Apply(order domain.Order, action Action, description string, now time.Time) (domain.Order, error) {
	t, ok := transitions[action]
	if !ok {
		return domain.Order{}, fmt.Errorf("%w: unknown action %q", domain.ErrInvalidTransition, string(action))
	}
	if order.Difference.IsZero() {
		return domain.Order{}, fmt.Errorf("%w: order %s has no difference",
			domain.ErrInvalidTransition, order.ID)
	}
	if order.DifferenceStatus != t.from {
		return domain.Order{}, fmt.Errorf("%w: cannot %s order %s in status %q",
			domain.ErrInvalidTransition, action, order.ID, order.DifferenceStatus)
	}

	next := order.Clone()
	next.DifferenceStatus = t.to
	stamp := now
	switch t.to {
	case domain.DifferenceStatusSupportOpen:
		next.SupportOpenedAt = &stamp
		next.SupportDescription = description
	case domain.DifferenceStatusRecovered, domain.DifferenceStatusConfirmedCost:
		next.ResolvedAt = &stamp
	}
	return next, nil
}

// OpenSupport opens a support case for a detected difference.
func OpenSupport(order domain.Order, description string, now time.Time) (domain.Order, error) {
	return Apply(order, ActionOpenSupport, description, now)
}

// MarkRecovered records that the difference was compensated by a later settlement.
func MarkRecovered(order domain.Order, now time.Time) (domain.Order, error) {
	return Apply(order, ActionMarkRecovered, "", now)
}

// ConfirmCost accepts the difference as a permanent cost.
func ConfirmCost(order domain.Order, now time.Time) (domain.Order, error) {
	return Apply(order, ActionConfirmCost, "", now)
}
