package bootstrap

import (
	"time"

	"credmask/internal/browser"
	"credmask/internal/config"
	"credmask/internal/console"
	"credmask/internal/ports"
	"credmask/internal/usecase"

	"go.uber.org/fx"
)

func NewApp() *fx.App {
	return fx.New(
		fx.Provide(
			config.GetConfig,
			newLogger,
			newTraceProvider,

			fx.Annotate(browser.NewManager, fx.As(new(ports.PageDriver))),

			usecase.NewUsecase,

			console.NewInterface,
		),

		fx.Invoke(
			runConsole,
		),

		fx.StartTimeout(time.Minute),
	)
}
