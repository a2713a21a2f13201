package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTP           *HTTP
	Seed           *Seed
	Reconciliation *Reconciliation
	App            *App
}

const AppModeProduction = "PROD"
const AppModeDevelop = "DEV"

type App struct {
	LogLevel string `env:"LOG_LEVEL"`
	Mode     string `env:"APP_MODE"`
}

type HTTP struct {
	HostString   string   `env:"RUN_ADDRESS"`
	AllowOrigins []string `env:"ALLOW_ORIGINS" envSeparator:","`
}

type Seed struct {
	// Path of a JSON file with orders. Empty loads the bundled sample orders.
	Path string `env:"SEED_PATH"`
	Skip bool   `env:"SEED_SKIP"`
}

// Reconciliation holds the tunable figures of the aggregation engine.
// Decimal values are kept as strings and parsed by the service wiring.
type Reconciliation struct {
	Epsilon               string `env:"RECONCILIATION_EPSILON"`
	FixedFeeRate          string `env:"FIXED_FEE_RATE"`
	FreeShippingRate      string `env:"FREE_SHIPPING_RATE"`
	CouponRate            string `env:"COUPON_RATE"`
	UnreconciledRatio     string `env:"UNRECONCILED_RATIO"`
	SignificantGapPercent string `env:"SIGNIFICANT_GAP_PERCENT"`
	MaxRangeDays          int    `env:"MAX_RANGE_DAYS"`
}

func NewConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	var http HTTP
	var seed Seed
	var rec Reconciliation
	var app App

	var origins string
	flag.StringVar(&http.HostString, "a", `localhost:8080`, "HTTP server endpoint")
	flag.StringVar(&origins, "o", `*`, "Comma separated CORS origins")
	flag.StringVar(&seed.Path, "s", "", "Seed orders JSON file")
	flag.BoolVar(&seed.Skip, "no-seed", false, "Start with an empty order store")
	flag.StringVar(&rec.Epsilon, "epsilon", "0.01", "Smallest currency unit")
	flag.StringVar(&rec.FixedFeeRate, "fixed-fee-rate", "0.01", "Estimated fixed fee share of reconciled value")
	flag.StringVar(&rec.FreeShippingRate, "free-shipping-rate", "0.005", "Estimated free shipping share of reconciled value")
	flag.StringVar(&rec.CouponRate, "coupon-rate", "0.003", "Estimated coupon share of reconciled value")
	flag.StringVar(&rec.UnreconciledRatio, "unreconciled-ratio", "0.25", "Ledger balance surplus over reconciled balance")
	flag.StringVar(&rec.SignificantGapPercent, "gap-percent", "10", "Difference percentage flagged as significant")
	flag.IntVar(&rec.MaxRangeDays, "max-range-days", 60, "Longest date range of order queries")
	flag.StringVar(&app.LogLevel, "l", `error`, "Log level")
	flag.StringVar(&app.Mode, "m", `DEV`, "PROD / DEV")
	flag.Parse()

	http.AllowOrigins = splitOrigins(origins)

	err = env.Parse(&http)
	if err != nil {
		return nil, fmt.Errorf("error parsing http config: %w", err)
	}
	err = env.Parse(&seed)
	if err != nil {
		return nil, fmt.Errorf("error parsing seed config: %w", err)
	}
	err = env.Parse(&rec)
	if err != nil {
		return nil, fmt.Errorf("error parsing reconciliation config: %w", err)
	}
	err = env.Parse(&app)
	if err != nil {
		return nil, fmt.Errorf("error parsing app config: %w", err)
	}

	config := Config{
		HTTP:           &http,
		Seed:           &seed,
		Reconciliation: &rec,
		App:            &app,
	}

	return &config, nil
}

func splitOrigins(s string) []string {
	var res []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			res = append(res, o)
		}
	}
	return res
}
