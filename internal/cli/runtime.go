package cli

import (
	"context"
	"fmt"

	"github.com/sangkips/salonpro-api/internal/app"
	"github.com/sangkips/salonpro-api/internal/config"
	"github.com/sangkips/salonpro-api/internal/infrastructure/database"
	"github.com/sangkips/salonpro-api/pkg/logger"
)

// EnvRuntime connects to the databases named by the environment, the same
// way the API server does.
type EnvRuntime struct{}

// Open loads config, connects to PostgreSQL and Redis and wires services.
func (EnvRuntime) Open(ctx context.Context, opts *RootOptions) (*app.App, func(), error) {
	cfg := config.Load()

	level := "warn"
	if opts.Verbose {
		level = "debug"
	}
	log := logger.Must(logger.Config{
		Level:             level,
		Encoding:          "console",
		Development:       true,
		DisableStacktrace: true,
	})

	db, err := database.NewPostgresDB(&cfg.Database, log)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "connect to database", err)
	}

	a, err := app.Connect(cfg, db, log)
	if err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
		return nil, nil, WrapExitError(ExitCommandError, "connect to redis", err)
	}

	return a, func() {
		a.Close()
		_ = log.Sync()
	}, nil
}

var _ Runtime = EnvRuntime{}

func openApp(ctx context.Context, rt Runtime, opts *RootOptions) (*app.App, func(), error) {
	a, closeFn, err := rt.Open(ctx, opts)
	if err != nil {
		if GetExitCode(err) == ExitFailure {
			return nil, nil, WrapExitError(ExitCommandError, "open application", err)
		}
		return nil, nil, err
	}
	if closeFn == nil {
		closeFn = func() {}
	}
	return a, closeFn, nil
}

func errorf(code int, format string, args ...interface{}) error {
	return &ExitError{Code: code, Message: fmt.Sprintf(format, args...)}
}
