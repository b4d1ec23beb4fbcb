// Package detector finds username/password field combinations in a document
// snapshot and masks the username fields it pairs.
package detector

import (
	"strings"

	"credmask/internal/config"
)

const (
	DefaultMaxInputs = 100
	DefaultMinSize   = 8
	DefaultMaskClass = "misc-hidden"
)

var defaultIgnoredPrefixes = []string{"YTMUSIC", "YT-"}

type Options struct {
	// MaxInputs caps the candidates considered per collector call.
	MaxInputs int
	// MinSize is the smallest width and height a visible element may have.
	MinSize float64
	// MaskClass is the marker class added to masked username fields.
	MaskClass string
	// IgnoredNamePrefixes are custom element prefixes the collector skips.
	IgnoredNamePrefixes []string
}

// DefaultOptions holds the stock heuristic limits and mask class.
func DefaultOptions() Options {
	return Options{
		MaxInputs:           DefaultMaxInputs,
		MinSize:             DefaultMinSize,
		MaskClass:           DefaultMaskClass,
		IgnoredNamePrefixes: defaultIgnoredPrefixes,
	}
}

func OptionsFromConfig(c *config.DetectorConfig) Options {
	opts := DefaultOptions()
	if c == nil {
		return opts
	}

	if c.MaxInputs > 0 {
		opts.MaxInputs = c.MaxInputs
	}
	if c.MinSize > 0 {
		opts.MinSize = c.MinSize
	}
	if c.MaskClass != "" {
		opts.MaskClass = c.MaskClass
	}
	if len(c.IgnoredNamePrefix) > 0 {
		opts.IgnoredNamePrefixes = make([]string, 0, len(c.IgnoredNamePrefix))
		for _, p := range c.IgnoredNamePrefix {
			if p = strings.ToUpper(strings.TrimSpace(p)); p != "" {
				opts.IgnoredNamePrefixes = append(opts.IgnoredNamePrefixes, p)
			}
		}
	}

	return opts
}

// Detector holds the heuristics' tunables. It keeps no page state; that
// lives in Registry.
type Detector struct {
	opts Options
}

func New(opts Options) *Detector {
	if opts.MaxInputs <= 0 {
		opts.MaxInputs = DefaultMaxInputs
	}
	if opts.MinSize <= 0 {
		opts.MinSize = DefaultMinSize
	}
	if opts.MaskClass == "" {
		opts.MaskClass = DefaultMaskClass
	}
	if opts.IgnoredNamePrefixes == nil {
		opts.IgnoredNamePrefixes = defaultIgnoredPrefixes
	}

	return &Detector{opts: opts}
}

func (d *Detector) Options() Options {
	return d.opts
}
