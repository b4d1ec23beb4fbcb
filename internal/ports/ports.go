package ports

import (
	"context"

	"credmask/internal/dom"
)

type PageDriver interface {
	Launch(ctx context.Context) error
	Close(ctx context.Context) error
	Navigate(ctx context.Context, url string) error
	URL() string
	Snapshot(ctx context.Context) (*dom.Document, error)
	ApplyMasks(ctx context.Context, ids []dom.NodeID, class string) error
	InstallObserver(ctx context.Context) error
	DrainMutations(ctx context.Context) (*dom.Mutations, error)
	IsReady() bool
}
