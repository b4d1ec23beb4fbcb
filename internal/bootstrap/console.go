package bootstrap

import (
	"context"

	"credmask/internal/console"
	"credmask/internal/ports"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type consoleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Console   *console.Interface
	Browser   ports.PageDriver
	Logger    *zap.Logger

	// Requested so the global provider is installed before the first span.
	Tracer *sdktrace.TracerProvider
}

func runConsole(p consoleParams) {
	logger := p.Logger

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Starting credmask console...")

			logger.Info("Launching browser...")

			if err := p.Browser.Launch(ctx); err != nil {
				logger.Error("Failed to launch browser", zap.Error(err))

				return err
			}

			logger.Info("Browser launched successfully")

			go func() {
				if err := p.Console.Start(); err != nil {
					logger.Error("Console interface error", zap.Error(err))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Shutting down credmask...")

			if err := p.Console.Stop(); err != nil {
				logger.Error("Failed to stop console", zap.Error(err))
			}

			if err := p.Browser.Close(ctx); err != nil {
				logger.Error("Failed to close browser", zap.Error(err))
			}

			return nil
		},
	})
}
