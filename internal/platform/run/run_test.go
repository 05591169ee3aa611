package run

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestRun_StartReturnsNil(t *testing.T) {
	r := New(zap.NewNop())
	code := r.run(context.Background(), func(context.Context) error { return nil }, nil)
	if code != 0 {
		t.Fatalf("expected 0, got %d", code)
	}
}

func TestRun_StartFails(t *testing.T) {
	r := New(zap.NewNop())
	code := r.run(context.Background(), func(context.Context) error { return errors.New("boom") }, nil)
	if code != 1 {
		t.Fatalf("expected 1, got %d", code)
	}
}

func TestRun_ServerClosedIsClean(t *testing.T) {
	r := New(zap.NewNop())
	code := r.run(context.Background(), func(context.Context) error { return http.ErrServerClosed }, nil)
	if code != 0 {
		t.Fatalf("expected 0, got %d", code)
	}
}

func TestRun_CancelTriggersShutdown(t *testing.T) {
	r := New(zap.NewNop())
	r.ShutdownTimeout = time.Second

	ctx, cancel := context.WithCancel(context.Background())
	release := make(chan struct{})
	shutdownCalled := false

	go cancel()
	code := r.run(ctx,
		func(context.Context) error {
			<-release
			return nil
		},
		func(context.Context) error {
			shutdownCalled = true
			close(release)
			return nil
		},
	)
	if code != 0 {
		t.Fatalf("expected 0, got %d", code)
	}
	if !shutdownCalled {
		t.Fatal("expected shutdown to run")
	}
}
