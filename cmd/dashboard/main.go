package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nest_dashboard/internal/app/service"
	nestclient "nest_dashboard/internal/client"
	"nest_dashboard/internal/infrastructure/configloader"
	evmclient "nest_dashboard/internal/infrastructure/network/client"
	"nest_dashboard/internal/infrastructure/restapi"
	"nest_dashboard/internal/infrastructure/walletloader"
	"nest_dashboard/internal/pkg/logger"
	"nest_dashboard/internal/pkg/metrics"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.yml"
	}
	cfg, err := configloader.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration from %s: %v\n", cfgPath, err)
		os.Exit(1)
	}

	zapLogger, err := newZapLogger(cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize zap logger: %v\n", err)
		os.Exit(1)
	}
	defer zapLogger.Sync()

	// Route the package-level slog helpers through zap so the whole process
	// shares one logging pipeline.
	logger.SetHandler(zapslog.NewHandler(zapLogger.Core()))
	appLogger := logger.NewSlogAdapter()

	zapLogger.Info("Configuration loaded", zap.String("path", cfgPath))

	metrics.MustRegister()

	nestClient := nestclient.NewNestAPIClient(
		cfg.VaultAPI.BaseURL,
		time.Duration(cfg.VaultAPI.RequestTimeoutMillis)*time.Millisecond,
		zapLogger,
	)
	zapLogger.Info("Vault API client initialized", zap.String("base_url", cfg.VaultAPI.BaseURL))

	chainReader, err := evmclient.NewEVMClient(
		cfg.Chain.RPCURL,
		time.Duration(cfg.Chain.ConnectionTimeoutSeconds)*time.Second,
		time.Duration(cfg.Chain.RPCCallTimeoutSeconds)*time.Second,
		cfg.Chain.RateLimitPerSecond,
	)
	if err != nil {
		zapLogger.Fatal("Failed to connect to chain RPC", zap.Error(err))
	}
	zapLogger.Info("Chain client initialized", zap.String("rpc_url", cfg.Chain.RPCURL))

	accountProvider := walletloader.NewWalletFileLoader(cfg.Wallet.FilePath, appLogger.Info)

	vaultService := service.NewVaultService(nestClient, appLogger, cfg.Vaults.AlphaName, cfg.Vaults.TreasuryName)
	balanceService := service.NewBalanceService(vaultService, chainReader, accountProvider, appLogger)
	historyService := service.NewHistoryService(chainReader, vaultService, accountProvider, balanceService, appLogger)

	poller := service.NewPoller(
		vaultService,
		balanceService,
		historyService,
		appLogger,
		time.Duration(cfg.Polling.VaultIntervalSeconds)*time.Second,
		time.Duration(cfg.Polling.HistoryIntervalSeconds)*time.Second,
	)

	pollCtx, stopPolling := context.WithCancel(context.Background())
	go poller.Run(pollCtx)

	vaultHandler := restapi.NewVaultHandler(nestClient, zapLogger)
	dashboardHandler := restapi.NewDashboardHandler(balanceService, historyService)
	router := restapi.SetupRouter(vaultHandler, dashboardHandler, zapLogger)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeoutSeconds) * time.Second,
	}

	go func() {
		zapLogger.Info("Server starting", zap.String("addr", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	stopPolling()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		zapLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exiting")
}

func newZapLogger(level string) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	if parsed, err := zapcore.ParseLevel(level); err == nil {
		zapCfg.Level = zap.NewAtomicLevelAt(parsed)
	}
	return zapCfg.Build()
}
