package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LavaJover/shvark-transfer-service/internal/app/background"
	"github.com/LavaJover/shvark-transfer-service/internal/app/setup"
	"github.com/LavaJover/shvark-transfer-service/internal/config"
	"github.com/LavaJover/shvark-transfer-service/internal/delivery/grpcapi"
	"github.com/LavaJover/shvark-transfer-service/internal/delivery/http/handlers"
	"github.com/LavaJover/shvark-transfer-service/internal/infrastructure/logger"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file loaded", "error", err.Error())
	}
	// Reading config
	cfg := config.MustLoad()
	slog.SetDefault(logger.New(cfg.LogConfig, os.Stdout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := setup.InitializeDependencies(cfg)
	if err != nil {
		slog.Error("failed to init dependencies", "error", err.Error())
		os.Exit(1)
	}
	defer func() {
		if err := deps.Close(); err != nil {
			slog.Error("failed to close dependencies", "error", err.Error())
		}
	}()

	uc, err := setup.InitializeUseCases(deps)
	if err != nil {
		slog.Error("failed to init usecases", "error", err.Error())
		os.Exit(1)
	}
	if err := setup.SeedAccounts(ctx, cfg, uc.AccountUsecase); err != nil {
		slog.Error("failed to seed accounts", "error", err.Error())
		os.Exit(1)
	}

	// Outbox relay
	tasks, err := background.NewBackgroundTasks(
		deps.Outbox,
		deps.Publisher,
		cfg.KafkaService.Topic,
		cfg.Outbox.Interval,
		cfg.Outbox.BatchSize,
		deps.Metrics,
	)
	if err != nil {
		slog.Error("failed to init outbox relay", "error", err.Error())
		os.Exit(1)
	}
	tasks.StartAll(ctx)

	// gRPC server
	grpcServer := grpc.NewServer()
	grpcapi.RegisterTransferServiceServer(grpcServer, grpcapi.NewTransferHandler(uc.TransferUsecase, uc.AccountUsecase))
	healthServer := health.NewServer()
	healthServer.SetServingStatus(grpcapi.TransferServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	lis, err := net.Listen("tcp", fmt.Sprintf("%s:%s", cfg.GRPCServer.Host, cfg.GRPCServer.Port))
	if err != nil {
		slog.Error("failed to listen", "error", err.Error())
		os.Exit(1)
	}

	// HTTP server
	httpHandler := handlers.NewHTTPTransferHandler(
		uc.TransferUsecase,
		uc.AccountUsecase,
		uc.ExchangeRateService,
		promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}),
	)
	httpServer := &http.Server{
		Addr:        fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port),
		Handler:     httpHandler.Routes(),
		ReadTimeout: cfg.HTTPServer.ReadTimeout,
	}

	errCh := make(chan error, 2)
	go func() {
		slog.Info("gRPC server started", "addr", lis.Addr().String())
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- fmt.Errorf("grpc: %w", err)
		}
	}()
	go func() {
		slog.Info("HTTP server started", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down")
	case err := <-errCh:
		slog.Error("server stopped", "error", err.Error())
	}
	stop()

	healthServer.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown", "error", err.Error())
	}
	grpcServer.GracefulStop()
}
