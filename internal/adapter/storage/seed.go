package storage

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/MikeRez0/conciliator/internal/adapter/config"
	"github.com/MikeRez0/conciliator/internal/core/domain"
	"github.com/govalues/decimal"
	"go.uber.org/zap"
)

//go:embed seed/*.json
var seedDir embed.FS

const bundledSeed = "seed/orders.json"

type feeRecord struct {
	Name       string          `json:"name"`
	Percentage decimal.Decimal `json:"percentage"`
	Value      decimal.Decimal `json:"value"`
	Origin     string          `json:"origin"`
}

type refundRecord struct {
	Amount decimal.Decimal `json:"amount"`
	Date   string          `json:"date"`
	Status string          `json:"status"`
}

type orderRecord struct {
	ID                   string          `json:"id"`
	Date                 string          `json:"date"`
	Product              string          `json:"product"`
	Channel              string          `json:"channel"`
	SoldValue            decimal.Decimal `json:"sold_value"`
	ReceivedValue        decimal.Decimal `json:"received_value"`
	Difference           decimal.Decimal `json:"difference"`
	FinancialStatus      string          `json:"financial_status"`
	ReconciliationStatus string          `json:"reconciliation_status"`
	DifferenceStatus     string          `json:"difference_status"`
	ReleaseDate          string          `json:"release_date"`
	Fees                 []feeRecord     `json:"fees"`
	Refund               *refundRecord   `json:"refund"`
	Explanation          string          `json:"explanation"`
	SupportOpenedAt      *time.Time      `json:"support_opened_at"`
	SupportDescription   string          `json:"support_description"`
	ResolvedAt           *time.Time      `json:"resolved_at"`
}

func (r orderRecord) toOrder() (domain.Order, error) {
	date, err := time.Parse(time.DateOnly, r.Date)
	if err != nil {
		return domain.Order{}, fmt.Errorf("%w: order %s date: %w", domain.ErrInvalidRecord, r.ID, err)
	}

	o := domain.Order{
		ID:                   r.ID,
		Date:                 date,
		Product:              r.Product,
		Channel:              r.Channel,
		SoldValue:            r.SoldValue,
		ReceivedValue:        r.ReceivedValue,
		Difference:           r.Difference,
		FinancialStatus:      domain.FinancialStatus(r.FinancialStatus),
		ReconciliationStatus: domain.ReconciliationStatus(r.ReconciliationStatus),
		DifferenceStatus:     domain.DifferenceStatus(r.DifferenceStatus),
		Explanation:          r.Explanation,
		SupportOpenedAt:      r.SupportOpenedAt,
		SupportDescription:   r.SupportDescription,
		ResolvedAt:           r.ResolvedAt,
	}

	if r.ReleaseDate != "" {
		d, err := time.Parse(time.DateOnly, r.ReleaseDate)
		if err != nil {
			return domain.Order{}, fmt.Errorf("%w: order %s release date: %w", domain.ErrInvalidRecord, r.ID, err)
		}
		o.ReleaseDate = &d
	}
	for _, f := range r.Fees {
		o.Fees = append(o.Fees, domain.Fee(f))
	}
	if r.Refund != nil {
		o.Refund = &domain.Refund{Amount: r.Refund.Amount, Status: r.Refund.Status}
		if r.Refund.Date != "" {
			d, err := time.Parse(time.DateOnly, r.Refund.Date)
			if err != nil {
				return domain.Order{}, fmt.Errorf("%w: order %s refund date: %w", domain.ErrInvalidRecord, r.ID, err)
			}
			o.Refund.Date = d
		}
	}
	return o, nil
}

// ReadOrders decodes the orders of a seed file, or of the bundled sample when path is empty.
// Records that cannot be decoded are skipped and reported in the returned error list.
func ReadOrders(path string) ([]domain.Order, []error, error) {
	var data []byte
	var err error
	if path == "" {
		data, err = seedDir.ReadFile(bundledSeed)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var records []orderRecord
	err = json.Unmarshal(data, &records)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode seed file: %w", err)
	}

	orders := make([]domain.Order, 0, len(records))
	var rejected []error
	for _, r := range records {
		o, err := r.toOrder()
		if err != nil {
			rejected = append(rejected, err)
			continue
		}
		orders = append(orders, o)
	}
	return orders, rejected, nil
}

type OrderCreator interface {
	CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error)
}

// Seed ingests the configured seed orders through creator and returns how many were stored.
// Invalid or duplicate records are logged and skipped.
func Seed(ctx context.Context, conf *config.Seed, creator OrderCreator, logger *zap.Logger) (int, error) {
	if conf.Skip {
		return 0, nil
	}

	orders, rejected, err := ReadOrders(conf.Path)
	if err != nil {
		return 0, err
	}
	for _, err := range rejected {
		logger.Warn("Seed record rejected", zap.Error(err))
	}

	stored := 0
	for i := range orders {
		_, err := creator.CreateOrder(ctx, &orders[i])
		if err != nil {
			if errors.Is(err, domain.ErrInvalidRecord) || errors.Is(err, domain.ErrConflictingData) {
				logger.Warn("Seed order skipped", zap.String("order", orders[i].ID), zap.Error(err))
				continue
			}
			return stored, fmt.Errorf("failed to store seed order %s: %w", orders[i].ID, err)
		}
		stored++
	}

	logger.Info("Seed orders loaded", zap.Int("stored", stored), zap.Int("read", len(orders)+len(rejected)))
	return stored, nil
}
