package usecase

import (
	"credmask/internal/config"
	"credmask/internal/ports"
	"credmask/internal/usecase/adapters"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Service struct {
	Scanner adapters.ScannerService
	Browser adapters.BrowserService
}

type Params struct {
	fx.In

	Logger  *zap.Logger
	Config  *config.Config
	Browser ports.PageDriver
}

func NewUsecase(params Params) *Service {
	factory := newServiceFactory(params)

	return &Service{
		Scanner: factory.CreateScannerService(),
		Browser: factory.CreateBrowserService(),
	}
}
