package run

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

type Runner struct {
	Logger          *zap.Logger
	ShutdownTimeout time.Duration
}

func New(log *zap.Logger) *Runner {
	return &Runner{Logger: log, ShutdownTimeout: 10 * time.Second}
}

// WithSignals runs start until it returns or SIGINT/SIGTERM arrives. On a
// signal, shutdown gets ShutdownTimeout to drain before start is awaited.
// The result is a process exit code.
func (r *Runner) WithSignals(start func(ctx context.Context) error, shutdown func(ctx context.Context) error) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return r.run(ctx, start, shutdown)
}

func (r *Runner) run(ctx context.Context, start func(ctx context.Context) error, shutdown func(ctx context.Context) error) int {
	errCh := make(chan error, 1)
	go func() {
		errCh <- start(ctx)
	}()

	select {
	case <-ctx.Done():
		r.Logger.Info("shutdown signal received")
		if shutdown != nil {
			c, cancel := context.WithTimeout(context.Background(), r.ShutdownTimeout)
			defer cancel()
			if err := shutdown(c); err != nil {
				r.Logger.Warn("graceful shutdown failed", zap.Error(err))
			}
		}
		select {
		case err := <-errCh:
			return r.exitCode(err)
		case <-time.After(r.ShutdownTimeout):
			r.Logger.Warn("service did not stop in time")
			return 1
		}
	case err := <-errCh:
		return r.exitCode(err)
	}
}

func (r *Runner) exitCode(err error) int {
	if err == nil || errors.Is(err, http.ErrServerClosed) || errors.Is(err, context.Canceled) {
		return 0
	}
	r.Logger.Error("service exited with error", zap.Error(err))
	return 1
}

func Exit(code int) {
	os.Exit(code)
}
