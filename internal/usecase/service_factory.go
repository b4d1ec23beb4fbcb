package usecase

import (
	"credmask/internal/usecase/adapters"
)

type serviceFactory struct {
	deps Params
}

func newServiceFactory(deps Params) *serviceFactory {
	return &serviceFactory{
		deps: deps,
	}
}

func (f *serviceFactory) CreateScannerService() adapters.ScannerService {
	return NewScannerService(ScannerServiceParams{
		Config: f.deps.Config,
		Logger: f.deps.Logger,
		Page:   f.deps.Browser,
	})
}

func (f *serviceFactory) CreateBrowserService() adapters.BrowserService {
	return f.deps.Browser
}
