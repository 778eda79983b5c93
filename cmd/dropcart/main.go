package main

import (
	"context"
	"encoding/hex"
	"log"
	"net/http"
	"time"

	"github.com/dropcart/dropcart/config"
	handler "github.com/dropcart/dropcart/internal/handler/http"
	"github.com/dropcart/dropcart/internal/logger"
	"github.com/dropcart/dropcart/internal/middleware"
	"github.com/dropcart/dropcart/internal/payout"
	"github.com/dropcart/dropcart/internal/provider"
	"github.com/dropcart/dropcart/internal/repository"
	"github.com/dropcart/dropcart/internal/repository/postgres"
	"github.com/dropcart/dropcart/internal/service"
	"github.com/dropcart/dropcart/internal/supplier"
	"github.com/dropcart/dropcart/internal/worker"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const serviceTokenTTL = 24 * time.Hour

func main() {

	// create new config
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// initialize logger
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer logger.Log.Sync()

	// create context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// initialize database
	db, err := postgres.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Log.Fatal("Error initializing database", zap.Error(err))
	}
	defer db.Close()

	// migrate database
	if err := db.Migrate(); err != nil {
		logger.Log.Fatal("Error migrating database", zap.Error(err))
	}

	tokenKey, err := hex.DecodeString(cfg.AuthTokenKey)
	if err != nil || len(tokenKey) == 0 {
		logger.Log.Fatal("Error extracting token key", zap.Error(err))
	}
	tokenService := service.NewJWTTokenService(tokenKey, serviceTokenTTL)

	// provider clients
	supplierClient := supplier.NewClient(cfg.SupplierAddr, "supplier")
	var externalSupplier provider.PurchaseProvider
	if cfg.ExternalSupplierAddr != "" {
		externalSupplier = supplier.NewClient(cfg.ExternalSupplierAddr, "external")
	}
	primaryPayout := payout.NewClient(cfg.PrimaryPayoutAddr, "primary")
	var alternatePayout provider.PayoutProvider
	if cfg.AlternatePayoutAddr != "" {
		alternatePayout = payout.NewClient(cfg.AlternatePayoutAddr, "alternate")
	}

	// dependency injection
	// repositories
	orderRepo := repository.NewOrderRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	attemptRepo := repository.NewAttemptRepository(db)
	userRepo := repository.NewUserRepository(db)

	// guards
	profitGuard := service.NewProfitGuard(cfg.PlatformFeePct, cfg.ProcessorFeePct, cfg.ProcessorFeeFixed)
	limitsGuard := service.NewDailyLimitsGuard(orderRepo, cfg.MaxDailyOrders, cfg.MaxDailySpend)
	capitalGuard := service.NewCapitalGuard(orderRepo, primaryPayout, cfg.CapitalBufferPct)

	// services
	rotation := service.NewAccountRotationService(accountRepo)
	engine := service.NewPurchaseRetryEngine(supplierClient, externalSupplier, rotation, attemptRepo,
		cfg.RetryInitialBackoff, cfg.RetryMaxAttempts)
	settlement := service.NewSettlementService(saleRepo, orderRepo, userRepo,
		primaryPayout, alternatePayout, primaryPayout, rotation,
		cfg.CommissionPct, cfg.PlatformFeePct, cfg.AdminPayoutAddress)
	fulfillment := service.NewFulfillmentService(orderRepo, profitGuard, limitsGuard, capitalGuard,
		engine, settlement, cfg.LiveMode)
	pricing := service.NewPricingEngine(nil, orderRepo, profitGuard, cfg.UndercutPct)

	// handlers
	fulfillmentHandler := handler.NewFulfillmentHandler(fulfillment)
	settlementHandler := handler.NewSettlementHandler(settlement)
	opsHandler := handler.NewOpsHandler(rotation, capitalGuard, pricing)

	router := chi.NewRouter()

	router.Use(middleware.Logging(logger.Log))

	// routes that require a service token
	router.Group(func(group chi.Router) {
		group.Use(middleware.Auth(tokenService))
		group.Post("/api/orders", fulfillmentHandler.CreateOrder())
		group.Post("/api/orders/{orderID}/fulfill", fulfillmentHandler.FulfillOrder())
		group.Post("/api/orders/{orderID}/sale", settlementHandler.CreateSaleFromOrder())
		group.Get("/api/accounts/health", opsHandler.AccountsHealth())
		group.Get("/api/capital", opsHandler.Capital())
		group.Get("/api/pricing/suggest", opsHandler.SuggestPrice())
	})

	// background fulfillment and pricing
	processor := worker.NewOrderProcessor(fulfillment, pricing, cfg.WorkerPollInterval, cfg.PricingInterval)
	go processor.ProcessOrders(ctx)

	logger.Log.Info("Running server", zap.String("addr", cfg.ServerAddr))

	if err := http.ListenAndServe(cfg.ServerAddr, router); err != nil {
		logger.Log.Fatal("Error starting server", zap.Error(err))
	}
}
