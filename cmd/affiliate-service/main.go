package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LavaJover/shvark-affiliate-service/internal/app/setup"
	"github.com/LavaJover/shvark-affiliate-service/internal/config"
	"github.com/LavaJover/shvark-affiliate-service/internal/delivery/grpcapi"
	"github.com/LavaJover/shvark-affiliate-service/internal/delivery/httpapi"
	"github.com/LavaJover/shvark-affiliate-service/internal/infrastructure/logger"
	"github.com/joho/godotenv"
	"google.golang.org/grpc"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()

	appLogger, logCloser, err := logger.SetupLogger(cfg.LogConfig)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logCloser.Close()
	slog.SetDefault(appLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := setup.InitializeDependencies(ctx, cfg)
	if err != nil {
		slog.Error("failed to init dependencies", "error", err.Error())
		os.Exit(1)
	}
	defer func() {
		if err := deps.Close(); err != nil {
			slog.Error("failed to close dependencies", "error", err.Error())
		}
	}()

	ucs := setup.InitializeUseCases(deps)

	// Creating gRPC server
	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(grpcapi.LoggingInterceptor(appLogger)))
	affiliateHandler := grpcapi.NewAffiliateHandler(
		ucs.LeadUsecase,
		ucs.CommissionUsecase,
		ucs.RateSettingsUsecase,
		ucs.PayoutUsecase,
		ucs.ReferralUsecase,
		ucs.AffiliateUsecase,
	)
	grpcapi.RegisterAffiliateServiceServer(grpcServer, affiliateHandler)

	grpcAddr := fmt.Sprintf("%s:%s", cfg.GRPCServer.Host, cfg.GRPCServer.Port)
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		slog.Error("failed to listen", "addr", grpcAddr, "error", err.Error())
		os.Exit(1)
	}

	opsServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port),
		Handler:           httpapi.NewOpsRouter(deps.Registry, deps.HealthChecks()),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		slog.Info("gRPC server started", "addr", grpcAddr)
		errCh <- grpcServer.Serve(lis)
	}()
	go func() {
		slog.Info("ops HTTP server started", "addr", opsServer.Addr)
		if err := opsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down")
	case err := <-errCh:
		if err != nil {
			slog.Error("server stopped", "error", err.Error())
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := opsServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to stop ops server", "error", err.Error())
	}
	stopped := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-shutdownCtx.Done():
		grpcServer.Stop()
	}
}
