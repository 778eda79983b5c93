package config

import (
	"flag"
	"os"
	"strconv"
	"sync"
	"time"
)

const (
	defaultServerAddr          = ":8080"
	defaultDatabaseDSN         = ""
	defaultLogLevel            = "debug"
	defaultCommissionPct       = 0.10
	defaultPlatformFeePct      = 0.02
	defaultProcessorFeePct     = 0.029
	defaultProcessorFeeFixed   = 0.30
	defaultMaxDailyOrders      = 50
	defaultMaxDailySpend       = 2000.0
	defaultCapitalBufferPct    = 0.20
	defaultRetryInitialBackoff = time.Second
	defaultRetryMaxAttempts    = 5
	defaultWorkerPollInterval  = 5 * time.Second
	defaultPricingInterval     = 15 * time.Minute
	defaultUndercutPct         = 0.03
)

type Config struct {
	ServerAddr           string
	DatabaseDSN          string
	LogLevel             string
	AuthTokenKey         string
	LiveMode             bool
	CommissionPct        float64
	PlatformFeePct       float64
	ProcessorFeePct      float64
	ProcessorFeeFixed    float64
	AdminPayoutAddress   string
	MaxDailyOrders       int
	MaxDailySpend        float64
	CapitalBufferPct     float64
	RetryInitialBackoff  time.Duration
	RetryMaxAttempts     int
	SupplierAddr         string
	ExternalSupplierAddr string
	PrimaryPayoutAddr    string
	AlternatePayoutAddr  string
	WorkerPollInterval   time.Duration
	PricingInterval      time.Duration
	UndercutPct          float64
}

var (
	once      sync.Once
	singleton *Config
)

// New returns new Config. It parses command line and environment variables only once.
func New() (*Config, error) {
	once.Do(func() {
		cfg := Config{}

		// initialize flags
		flag.StringVar(&cfg.ServerAddr, "a", defaultServerAddr, "server address")
		flag.StringVar(&cfg.DatabaseDSN, "d", defaultDatabaseDSN, "database DSN")
		flag.StringVar(&cfg.LogLevel, "l", defaultLogLevel, "log level")
		flag.StringVar(&cfg.AuthTokenKey, "k", "", "auth token signing key (hex)")
		flag.BoolVar(&cfg.LiveMode, "live", false, "live mode: real supplier purchases")
		flag.Float64Var(&cfg.CommissionPct, "commission", defaultCommissionPct, "platform commission percent")
		flag.Float64Var(&cfg.PlatformFeePct, "platform-fee", defaultPlatformFeePct, "platform fee percent")
		flag.Float64Var(&cfg.ProcessorFeePct, "processor-fee", defaultProcessorFeePct, "payment processor fee percent")
		flag.Float64Var(&cfg.ProcessorFeeFixed, "processor-fee-fixed", defaultProcessorFeeFixed, "payment processor fixed fee")
		flag.StringVar(&cfg.AdminPayoutAddress, "admin-payout", "", "platform payout address")
		flag.IntVar(&cfg.MaxDailyOrders, "max-daily-orders", defaultMaxDailyOrders, "max orders per day")
		flag.Float64Var(&cfg.MaxDailySpend, "max-daily-spend", defaultMaxDailySpend, "max aggregate order spend per day")
		flag.Float64Var(&cfg.CapitalBufferPct, "capital-buffer", defaultCapitalBufferPct, "safety buffer on purchase cost")
		flag.DurationVar(&cfg.RetryInitialBackoff, "retry-backoff", defaultRetryInitialBackoff, "initial purchase retry backoff")
		flag.IntVar(&cfg.RetryMaxAttempts, "retry-max", defaultRetryMaxAttempts, "max purchase attempts")
		flag.StringVar(&cfg.SupplierAddr, "supplier", "", "supplier provider address")
		flag.StringVar(&cfg.ExternalSupplierAddr, "external-supplier", "", "external fallback supplier address")
		flag.StringVar(&cfg.PrimaryPayoutAddr, "payout", "", "primary payout provider address")
		flag.StringVar(&cfg.AlternatePayoutAddr, "alt-payout", "", "alternate payout provider address")
		flag.DurationVar(&cfg.WorkerPollInterval, "poll", defaultWorkerPollInterval, "fulfillment worker poll interval")
		flag.DurationVar(&cfg.PricingInterval, "pricing-interval", defaultPricingInterval, "pricing engine interval")
		flag.Float64Var(&cfg.UndercutPct, "undercut", defaultUndercutPct, "pricing undercut percent")

		flag.Parse()

		// if environment variable is set, then using it
		if v := os.Getenv("RUN_ADDRESS"); v != "" {
			cfg.ServerAddr = v
		}
		if v := os.Getenv("DATABASE_URI"); v != "" {
			cfg.DatabaseDSN = v
		}
		if v := os.Getenv("LOG_LEVEL"); v != "" {
			cfg.LogLevel = v
		}
		if v := os.Getenv("AUTH_TOKEN_KEY"); v != "" {
			cfg.AuthTokenKey = v
		}
		if v := os.Getenv("LIVE_MODE"); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				cfg.LiveMode = b
			}
		}
		if v := os.Getenv("SUPPLIER_ADDRESS"); v != "" {
			cfg.SupplierAddr = v
		}
		if v := os.Getenv("EXTERNAL_SUPPLIER_ADDRESS"); v != "" {
			cfg.ExternalSupplierAddr = v
		}
		if v := os.Getenv("PAYOUT_ADDRESS"); v != "" {
			cfg.PrimaryPayoutAddr = v
		}
		if v := os.Getenv("ALT_PAYOUT_ADDRESS"); v != "" {
			cfg.AlternatePayoutAddr = v
		}
		if v := os.Getenv("ADMIN_PAYOUT_ADDRESS"); v != "" {
			cfg.AdminPayoutAddress = v
		}

		singleton = &cfg
	})

	return singleton, nil
}
