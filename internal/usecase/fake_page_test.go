package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"credmask/internal/config"
	"credmask/internal/dom"
)

// fakePage serves static markup as if it were a live page.
type fakePage struct {
	mu       sync.Mutex
	url      string
	markup   string
	token    string
	loads    int
	added    []dom.AddedNode
	masks    [][]dom.NodeID
	painted  map[dom.NodeID]string
	observed bool
	installs int

	navErr      error
	observerErr error
}

func (p *fakePage) Launch(context.Context) error { return nil }
func (p *fakePage) Close(context.Context) error  { return nil }
func (p *fakePage) IsReady() bool                { return true }

func (p *fakePage) Navigate(_ context.Context, url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.navErr != nil {
		return p.navErr
	}
	p.loadLocked(url, p.markup)

	return nil
}

func (p *fakePage) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.url
}

// Snapshot reflects the masks painted on the current document.
func (p *fakePage) Snapshot(context.Context) (*dom.Document, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	opts := dom.DefaultOptions()
	opts.URL = p.url

	doc, err := dom.ParseHTML(strings.NewReader(p.markup), opts)
	if err != nil {
		return nil, err
	}
	doc.Token = p.token

	for id, class := range p.painted {
		if n := doc.Node(id); n != nil {
			n.Style.Color = "transparent"
			n.AddClass(class)
		}
	}

	return doc, nil
}

func (p *fakePage) ApplyMasks(_ context.Context, ids []dom.NodeID, class string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.masks = append(p.masks, ids)
	if p.painted == nil {
		p.painted = make(map[dom.NodeID]string)
	}
	for _, id := range ids {
		p.painted[id] = class
	}

	return nil
}

func (p *fakePage) InstallObserver(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.observerErr != nil {
		return p.observerErr
	}
	p.observed = true
	p.installs++

	return nil
}

func (p *fakePage) DrainMutations(context.Context) (*dom.Mutations, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	added := p.added
	p.added = nil

	return &dom.Mutations{Token: p.token, Added: added}, nil
}

// render swaps the page content and queues the given nodes as added.
func (p *fakePage) render(markup string, added ...dom.AddedNode) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.markup = markup
	p.added = append(p.added, added...)
}

// navigate loads a new document: masks, queued nodes and the observer are
// gone with the old one.
func (p *fakePage) navigate(url, markup string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.loadLocked(url, markup)
}

func (p *fakePage) loadLocked(url, markup string) {
	p.loads++
	p.url = url
	p.markup = markup
	p.token = fmt.Sprintf("doc-%d", p.loads)
	p.added = nil
	p.painted = nil
	p.observed = false
}

func (p *fakePage) observerInstalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.installs
}

func (p *fakePage) maskCalls() [][]dom.NodeID {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([][]dom.NodeID(nil), p.masks...)
}

func testConfig(watch bool) *config.Config {
	return &config.Config{
		AppConfig:      &config.AppConfig{LogLevel: "debug"},
		DetectorConfig: &config.DetectorConfig{SingleInputHosts: []string{"single.test"}},
		BrowserConfig:  &config.BrowserConfig{ViewportWidth: 1280, ViewportHeight: 720},
		WatchConfig: &config.WatchConfig{
			Enabled:       watch,
			Interval:      10 * time.Millisecond,
			RedetectDelay: 30 * time.Millisecond,
		},
	}
}

func newTestScanner(t *testing.T, page *fakePage, watch bool) *ScannerService {
	t.Helper()

	s := NewScannerService(ScannerServiceParams{
		Config: testConfig(watch),
		Logger: zap.NewNop(),
		Page:   page,
	})
	t.Cleanup(s.Stop)

	return s
}

// elementID returns the id the static parser gives the element with
// the attribute key=value.
func elementID(t *testing.T, markup, key, value string) dom.NodeID {
	t.Helper()

	doc, err := dom.ParseHTML(strings.NewReader(markup), dom.DefaultOptions())
	require.NoError(t, err)

	var found dom.NodeID
	var walk func(n *dom.Node)
	walk = func(n *dom.Node) {
		if found != 0 {
			return
		}
		if v, ok := n.Attr(key); ok && v == value {
			found = n.ID
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(doc.Root)

	require.NotZero(t, found, "no element with %s=%q", key, value)

	return found
}
