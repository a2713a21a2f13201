package main

import (
	"context"
	"fmt"

	"github.com/MikeRez0/conciliator/internal/adapter/config"
	"github.com/MikeRez0/conciliator/internal/adapter/handler/http"
	"github.com/MikeRez0/conciliator/internal/adapter/logger"
	"github.com/MikeRez0/conciliator/internal/adapter/storage"
	"github.com/MikeRez0/conciliator/internal/adapter/storage/repository"
	"github.com/MikeRez0/conciliator/internal/core/service"
	"github.com/govalues/decimal"
	"go.uber.org/zap"
)

func main() {
	conf, err := config.NewConfig()
	if err != nil {
		fmt.Printf("config error:%s", err)
		return
	}

	log, err := logger.NewLogger(conf.App)
	if err != nil {
		fmt.Printf("error creating log: %s", err)
		return
	}
	defer func() {
		err := log.Sync()
		if err != nil {
			fmt.Printf("log error: %s", err)
		}
	}()

	ctx := context.Background()

	repo, err := repository.NewRepository()
	if err != nil {
		log.Error("order repo creating error", zap.Error(err))
		return
	}

	opts, err := serviceOptions(conf.Reconciliation)
	if err != nil {
		log.Error("reconciliation config error", zap.Error(err))
		return
	}
	svc, err := service.NewService(repo, opts, log.Named("Service"))
	if err != nil {
		log.Error("order service creating error", zap.Error(err))
		return
	}

	_, err = storage.Seed(ctx, conf.Seed, svc, log.Named("Seed"))
	if err != nil {
		log.Error("seed error", zap.Error(err))
		return
	}

	orderHandler, err := http.NewOrderHandler(svc, log.Named("Order handler"))
	if err != nil {
		log.Error("order handler creating error", zap.Error(err))
		return
	}
	balanceHandler, err := http.NewBalanceHandler(svc, log.Named("Balance handler"))
	if err != nil {
		log.Error("balance handler creating error", zap.Error(err))
		return
	}

	r, err := http.NewRouter(conf.HTTP, orderHandler, balanceHandler, log.Named("Router"))
	if err != nil {
		log.Error("router creating error", zap.Error(err))
		return
	}

	log.Info("listening", zap.String("address", conf.HTTP.HostString))
	err = r.Serve(conf.HTTP.HostString)
	if err != nil {
		log.Error("router serve error", zap.Error(err))
		return
	}
}

// serviceOptions overrides the service defaults with the configured figures.
// Empty values keep the default.
func serviceOptions(conf *config.Reconciliation) (service.Options, error) {
	opts := service.DefaultOptions()

	fields := []struct {
		name  string
		value string
		dst   *decimal.Decimal
	}{
		{"epsilon", conf.Epsilon, &opts.Epsilon},
		{"fixed fee rate", conf.FixedFeeRate, &opts.Aggregate.CostRates.FixedFees},
		{"free shipping rate", conf.FreeShippingRate, &opts.Aggregate.CostRates.FreeShipping},
		{"coupon rate", conf.CouponRate, &opts.Aggregate.CostRates.Coupons},
		{"unreconciled ratio", conf.UnreconciledRatio, &opts.Aggregate.UnreconciledRatio},
		{"significant gap percent", conf.SignificantGapPercent, &opts.Aggregate.SignificantGapPercent},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		d, err := decimal.Parse(f.value)
		if err != nil {
			return opts, fmt.Errorf("invalid %s %q: %w", f.name, f.value, err)
		}
		if d.IsNeg() {
			return opts, fmt.Errorf("invalid %s %q: negative value", f.name, f.value)
		}
		*f.dst = d
	}
	if conf.MaxRangeDays < 0 {
		return opts, fmt.Errorf("invalid max range days %d", conf.MaxRangeDays)
	}
	opts.MaxRangeDays = conf.MaxRangeDays

	return opts, nil
}
