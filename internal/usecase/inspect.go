package usecase

import (
	"context"
	"io"

	"go.uber.org/zap"

	"credmask/internal/config"
	"credmask/internal/detector"
	"credmask/internal/dom"
	"credmask/internal/entity"
)

type InspectParams struct {
	Config *config.Config
	Logger *zap.Logger
	// URL is the address the markup was served from. It drives host
	// matching for single-input mode.
	URL string
	// ForceSingleInput enables single-input mode regardless of the host list.
	ForceSingleInput bool
}

// Inspect runs one detection pass over static markup. There is no page to
// paint, so masking only shows up as masked fields in the report.
func Inspect(ctx context.Context, r io.Reader, params InspectParams) (*entity.ScanReport, error) {
	opts := dom.DefaultOptions()
	opts.URL = params.URL

	if bc := params.Config.BrowserConfig; bc != nil && bc.ViewportWidth > 0 && bc.ViewportHeight > 0 {
		opts.Viewport = dom.Size{Width: float64(bc.ViewportWidth), Height: float64(bc.ViewportHeight)}
	}

	doc, err := dom.ParseHTML(r, opts)
	if err != nil {
		return nil, err
	}

	sess := detector.NewSession(detector.SessionParams{
		URL:         params.URL,
		SingleInput: params.ForceSingleInput || SingleInputEnabled(params.Config.DetectorConfig, params.URL),
		Detector:    detector.New(detector.OptionsFromConfig(params.Config.DetectorConfig)),
		Logger:      params.Logger,
	})

	res := sess.InitCredentialFields(ctx, doc)

	return NewReport(sess, res), nil
}
