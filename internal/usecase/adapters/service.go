package adapters

import (
	"context"

	"credmask/internal/entity"
)

type BrowserService interface {
	Launch(ctx context.Context) error
	Close(ctx context.Context) error
	URL() string
	IsReady() bool
}

type ScannerService interface {
	Open(ctx context.Context, url string) (*entity.ScanReport, error)
	Scan(ctx context.Context) (*entity.ScanReport, error)
	Rescan(ctx context.Context) (*entity.ScanReport, error)
	Report() *entity.ScanReport
	Stop()
}
