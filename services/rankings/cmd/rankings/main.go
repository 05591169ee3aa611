package main

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/MaheshSharan/FlixPatrol-API/internal/platform/httpserver"
	"github.com/MaheshSharan/FlixPatrol-API/internal/platform/logging"
	"github.com/MaheshSharan/FlixPatrol-API/internal/platform/run"
	"github.com/MaheshSharan/FlixPatrol-API/services/rankings/internal/app"
	"github.com/MaheshSharan/FlixPatrol-API/services/rankings/internal/catalog"
	"github.com/MaheshSharan/FlixPatrol-API/services/rankings/internal/config"
	"github.com/MaheshSharan/FlixPatrol-API/services/rankings/internal/handlers"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logging.New(cfg.LogLevel, zap.String("service", cfg.ServiceName), zap.String("env", cfg.Env))
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if err := catalog.Check(); err != nil {
		log.Error("platform table", zap.Error(err))
		run.Exit(1)
	}

	bootCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	a, err := app.Build(bootCtx, cfg, log, app.Options{NATS: true})
	cancel()
	if err != nil {
		log.Error("startup", zap.Error(err))
		run.Exit(1)
	}
	if err := a.SubscribeInvalidation(); err != nil {
		log.Warn("cache invalidation disabled", zap.Error(err))
	}

	r := chi.NewRouter()
	httpserver.SetupRouter(r, httpserver.RouterConfig{
		Logger: log.Named("http"),
		ReadyFunc: func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return a.Service.Ready(ctx)
		},
	})
	handlers.Mount(r, a.Service, handlers.Info{
		AppName: cfg.AppName,
		Version: cfg.Version,
		Region:  cfg.Region,
	}, handlers.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst), log.Named("handlers"))

	srv := httpserver.New(httpserver.Options{Addr: cfg.HTTP.Addr, Logger: log, Router: r})

	var (
		grpcSrv   *grpc.Server
		healthSrv *health.Server
	)
	if cfg.GRPCAddr != "" {
		grpcSrv = grpc.NewServer()
		healthSrv = health.NewServer()
		healthpb.RegisterHealthServer(grpcSrv, healthSrv)
		reflection.Register(grpcSrv)
	}

	code := run.New(log).WithSignals(
		func(ctx context.Context) error {
			// gctx ends when a listener fails; ctx ends on a signal and is
			// drained by the shutdown func below.
			g, gctx := errgroup.WithContext(context.Background())
			watchCtx, stopWatch := context.WithCancel(ctx)
			defer stopWatch()
			context.AfterFunc(gctx, stopWatch)

			g.Go(srv.Start)
			if grpcSrv != nil {
				g.Go(func() error { return serveGRPC(cfg.GRPCAddr, grpcSrv, log) })
				g.Go(func() error { return watchReadiness(watchCtx, a, healthSrv, log) })
			}
			g.Go(func() error {
				select {
				case <-ctx.Done():
					return nil
				case <-gctx.Done():
					if grpcSrv != nil {
						grpcSrv.Stop()
					}
					return srv.HTTP.Close()
				}
			})
			return g.Wait()
		},
		func(ctx context.Context) error {
			if healthSrv != nil {
				healthSrv.Shutdown()
			}
			err := srv.Shutdown(ctx)
			if grpcSrv != nil {
				stopGRPC(ctx, grpcSrv)
			}
			return err
		},
	)
	a.Close()
	run.Exit(code)
}

func serveGRPC(addr string, srv *grpc.Server, log *zap.Logger) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	log.Info("grpc health server starting", zap.String("addr", addr))
	if err := srv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

func stopGRPC(ctx context.Context, srv *grpc.Server) {
	stopped := make(chan struct{})
	go func() {
		srv.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-ctx.Done():
		srv.Stop()
	}
}

// watchReadiness mirrors the cache store's health into the gRPC health
// service until ctx ends.
func watchReadiness(ctx context.Context, a *app.App, hs *health.Server, log *zap.Logger) error {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	last := healthpb.HealthCheckResponse_UNKNOWN
	for {
		status := healthpb.HealthCheckResponse_SERVING
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := a.Service.Ready(pingCtx); err != nil {
			status = healthpb.HealthCheckResponse_NOT_SERVING
			if last != status {
				log.Warn("cache store unreachable", zap.Error(err))
			}
		}
		cancel()
		if status != last {
			hs.SetServingStatus("", status)
			hs.SetServingStatus(a.Config.ServiceName, status)
			last = status
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
