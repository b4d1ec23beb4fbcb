package usecase

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"credmask/internal/config"
	"credmask/internal/detector"
	"credmask/internal/dom"
	"credmask/internal/entity"
	"credmask/internal/ports"
	"credmask/pkg/apperr"
	"credmask/pkg/logg"
	"credmask/pkg/tracing"
)

const (
	scannerServiceName = "ScannerService"
	scannerTracer      = "usecase.scanner"
)

// ScannerService runs credential field detection against the live page.
// Each Open starts a new page session; Scan and Rescan extend it.
type ScannerService struct {
	config   *config.Config
	logger   *zap.Logger
	tracer   trace.Tracer
	page     ports.PageDriver
	detector *detector.Detector

	mu      sync.Mutex
	session *detector.Session
	// token and docURL identify the document session was built on.
	token    string
	docURL   string
	watching bool
	last     *entity.ScanReport
	watcher  *watcher
}

type ScannerServiceParams struct {
	fx.In

	Config *config.Config
	Logger *zap.Logger
	Page   ports.PageDriver
}

func NewScannerService(params ScannerServiceParams) *ScannerService {
	return &ScannerService{
		config:   params.Config,
		logger:   params.Logger.With(zap.String(logg.Layer, scannerServiceName)),
		tracer:   otel.Tracer(scannerTracer),
		page:     params.Page,
		detector: detector.New(detector.OptionsFromConfig(params.Config.DetectorConfig)),
	}
}

// Open navigates to rawURL, starts a fresh session and runs the first pass.
// With watching enabled, later DOM insertions are rescanned automatically.
func (s *ScannerService) Open(ctx context.Context, rawURL string) (report *entity.ScanReport, err error) {
	const op = "Open"
	logger := s.logger.With(zap.String(logg.Operation, op), zap.String(logg.URL, rawURL))

	ctx, step := tracing.StartSpan(ctx, s.tracer, logger, op, attribute.String("url", rawURL))
	defer func() {
		step.End(err)
	}()

	if strings.TrimSpace(rawURL) == "" {
		return nil, apperr.InvalidReqError(op, "url", errors.New("url cannot be empty"))
	}

	s.stopWatcher()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.page.Navigate(ctx, rawURL); err != nil {
		return nil, err
	}

	pageURL := s.page.URL()
	if pageURL == "" {
		pageURL = rawURL
	}

	s.startSessionLocked(pageURL)
	s.last = nil

	s.watching = s.config.WatchConfig != nil && s.config.WatchConfig.Enabled
	if s.watching {
		if err := s.page.InstallObserver(ctx); err != nil {
			logger.Warn("Mutation observer not installed, rescans stay manual", zap.Error(err))
			s.watching = false
		}
	}

	report, err = s.initLocked(ctx)
	if err != nil {
		return nil, err
	}

	if s.watching {
		s.watcher = newWatcher(s, s.config.WatchConfig, s.logger)
		s.watcher.start()
	}

	return report, nil
}

// Scan re-runs the full detection routine on the current page.
func (s *ScannerService) Scan(ctx context.Context) (*entity.ScanReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.initLocked(ctx)
}

// Rescan drains the page's added-node queue and scans only those subtrees.
func (s *ScannerService) Rescan(ctx context.Context) (*entity.ScanReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	report, _, err := s.rescanLocked(ctx)

	return report, err
}

func (s *ScannerService) Report() *entity.ScanReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.last
}

func (s *ScannerService) Stop() {
	s.stopWatcher()
}

func (s *ScannerService) stopWatcher() {
	s.mu.Lock()
	w := s.watcher
	s.watcher = nil
	s.mu.Unlock()

	if w != nil {
		w.stop()
	}
}

func (s *ScannerService) startSessionLocked(pageURL string) {
	s.session = detector.NewSession(detector.SessionParams{
		URL:         pageURL,
		SingleInput: SingleInputEnabled(s.config.DetectorConfig, pageURL),
		Detector:    s.detector,
		Painter:     s.page,
		Logger:      s.logger,
	})
	s.token, s.docURL = "", pageURL
}

// documentChanged reports whether token or pageURL belong to another
// document than the one the current session was built on. Node ids are only
// meaningful within one document.
func (s *ScannerService) documentChanged(token, pageURL string) bool {
	if s.session.Passes() == 0 {
		return false
	}

	if token != s.token {
		return true
	}

	return pageURL != "" && s.docURL != "" && !sameDocumentURL(pageURL, s.docURL)
}

// replaceSessionLocked drops the registry of a document the page has left
// and starts over on the current one.
func (s *ScannerService) replaceSessionLocked(ctx context.Context, pageURL string) {
	if pageURL == "" {
		pageURL = s.page.URL()
	}

	s.logger.Info("Document changed, starting a new session",
		zap.String("previous_session", s.session.ID.String()),
		zap.String(logg.URL, pageURL),
	)

	s.startSessionLocked(pageURL)

	if s.watching {
		if err := s.page.InstallObserver(ctx); err != nil {
			s.logger.Warn("Mutation observer not reinstalled", zap.Error(err))
		}
	}

	if s.watcher != nil {
		s.watcher.rearm()
	}
}

func (s *ScannerService) initLocked(ctx context.Context) (report *entity.ScanReport, err error) {
	const op = "initLocked"

	if s.session == nil {
		return nil, apperr.WrapErrorWithReason(op, apperr.CodeBrowserNotReady, "no_page_open")
	}

	doc, err := s.page.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	return s.fullPassLocked(ctx, doc), nil
}

func (s *ScannerService) fullPassLocked(ctx context.Context, doc *dom.Document) *entity.ScanReport {
	if s.documentChanged(doc.Token, doc.URL) {
		s.replaceSessionLocked(ctx, doc.URL)
	}

	res := s.session.InitCredentialFields(ctx, doc)
	s.token = doc.Token
	if doc.URL != "" {
		s.docURL = doc.URL
	}
	s.last = NewReport(s.session, res)

	return s.last
}

// rescanLocked reports whether any node had been added since the last drain.
func (s *ScannerService) rescanLocked(ctx context.Context) (*entity.ScanReport, bool, error) {
	const op = "rescanLocked"

	if s.session == nil {
		return nil, false, apperr.WrapErrorWithReason(op, apperr.CodeBrowserNotReady, "no_page_open")
	}

	mutations, err := s.page.DrainMutations(ctx)
	if err != nil {
		return nil, false, err
	}

	// The queue of a document the page has left is gone with it.
	if s.documentChanged(mutations.Token, s.page.URL()) {
		report, err := s.initLocked(ctx)
		return report, true, err
	}

	if len(mutations.Added) == 0 {
		return s.last, false, nil
	}

	doc, err := s.page.Snapshot(ctx)
	if err != nil {
		return nil, true, err
	}

	if s.documentChanged(doc.Token, doc.URL) {
		return s.fullPassLocked(ctx, doc), true, nil
	}

	res := s.session.Rescan(ctx, doc, dom.Resolve(doc, mutations.Added))
	s.last = NewReport(s.session, res)

	return s.last, true, nil
}

// redetectIfEmpty runs the full routine once more when the first pass found
// no fields or no combinations, for pages that render their form late.
func (s *ScannerService) redetectIfEmpty(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return
	}

	reg := s.session.Registry()
	if len(reg.Inputs()) > 0 && len(reg.Combinations()) > 0 {
		return
	}

	if _, err := s.initLocked(ctx); err != nil {
		s.logger.Warn("Automatic redetect failed", zap.Error(err))
	}
}

// SingleInputEnabled reports whether the page's host is listed for
// single-input mode. Subdomains of a listed host match too.
func SingleInputEnabled(c *config.DetectorConfig, pageURL string) bool {
	if c == nil || len(c.SingleInputHosts) == 0 {
		return false
	}

	u, err := url.Parse(pageURL)
	if err != nil || u.Hostname() == "" {
		return false
	}

	host := strings.ToLower(u.Hostname())
	for _, h := range c.SingleInputHosts {
		h = strings.ToLower(strings.TrimSpace(h))
		if h == "" {
			continue
		}
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}

	return false
}

// sameDocumentURL compares page URLs without their fragment, which changes
// without loading a new document.
func sameDocumentURL(a, b string) bool {
	ua, errA := url.Parse(a)
	ub, errB := url.Parse(b)
	if errA != nil || errB != nil {
		return a == b
	}

	ua.Fragment, ua.RawFragment = "", ""
	ub.Fragment, ub.RawFragment = "", ""

	return ua.String() == ub.String()
}
