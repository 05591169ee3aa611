package main

import (
	"context"
	"errors"
	"io/fs"
	"strings"
	"sync"

	"github.com/joho/godotenv"

	"github.com/MaheshSharan/FlixPatrol-API/internal/platform/logging"
	"github.com/MaheshSharan/FlixPatrol-API/services/rankings/internal/app"
	"github.com/MaheshSharan/FlixPatrol-API/services/rankings/internal/config"
)

type commandContext struct {
	envFile *string
	verbose *bool
	jsonOut *bool
	// connectNATS is set by commands that publish.
	connectNATS bool

	appOnce sync.Once
	app     *app.App
	appErr  error
}

func newCommandContext(envFile *string, verbose, jsonOut *bool) *commandContext {
	return &commandContext{envFile: envFile, verbose: verbose, jsonOut: jsonOut}
}

func (c *commandContext) ensureApp(ctx context.Context) (*app.App, error) {
	c.appOnce.Do(func() {
		if path := strings.TrimSpace(*c.envFile); path != "" {
			if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
				c.appErr = err
				return
			}
		}
		cfg, err := config.Load()
		if err != nil {
			c.appErr = err
			return
		}
		log, err := logging.NewCLI(*c.verbose)
		if err != nil {
			c.appErr = err
			return
		}
		if ctx == nil {
			ctx = context.Background()
		}
		c.app, c.appErr = app.Build(ctx, cfg, log, app.Options{NATS: c.connectNATS})
	})
	return c.app, c.appErr
}

func (c *commandContext) close() {
	if c.app != nil {
		c.app.Close()
		_ = c.app.Log.Sync()
		c.app = nil
	}
}

func (c *commandContext) json() bool {
	return c.jsonOut != nil && *c.jsonOut
}
