package usecase

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"credmask/internal/config"
	"credmask/pkg/logg"
)

// watcher polls the page's mutation queue and rescans added subtrees. It
// also runs the one-off redetect for documents whose first pass came up empty.
type watcher struct {
	scanner       *ScannerService
	interval      time.Duration
	redetectDelay time.Duration
	logger        *zap.Logger

	// rearmCh restarts the redetect timer when the page loads a new document.
	rearmCh chan struct{}
	cancel  context.CancelFunc
	done    sync.WaitGroup
}

func newWatcher(s *ScannerService, c *config.WatchConfig, logger *zap.Logger) *watcher {
	interval := c.Interval
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}

	return &watcher{
		scanner:       s,
		interval:      interval,
		redetectDelay: c.RedetectDelay,
		logger:        logger.With(zap.String(logg.Layer, "Watcher")),
		rearmCh:       make(chan struct{}, 1),
	}
}

func (w *watcher) start() {
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel

	w.done.Add(1)
	go w.run(ctx)
}

func (w *watcher) stop() {
	if w.cancel != nil {
		w.cancel()
	}

	w.done.Wait()
}

// rearm never blocks; it is called with the scanner lock held.
func (w *watcher) rearm() {
	select {
	case w.rearmCh <- struct{}{}:
	default:
	}
}

func (w *watcher) run(ctx context.Context) {
	defer w.done.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	var (
		timer    *time.Timer
		redetect <-chan time.Time
	)
	if w.redetectDelay > 0 {
		timer = time.NewTimer(w.redetectDelay)
		defer timer.Stop()
		redetect = timer.C
	}

	w.logger.Debug("Watching for added nodes", zap.Duration("interval", w.interval))

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.rearmCh:
			if timer != nil {
				timer.Reset(w.redetectDelay)
				redetect = timer.C
			}
		case <-redetect:
			redetect = nil
			w.scanner.redetectIfEmpty(ctx)
		case <-ticker.C:
			w.poll(ctx)
		}
	}
}

func (w *watcher) poll(ctx context.Context) {
	s := w.scanner

	s.mu.Lock()
	defer s.mu.Unlock()

	report, changed, err := s.rescanLocked(ctx)
	if err != nil {
		if ctx.Err() == nil {
			w.logger.Warn("Rescan failed", zap.Error(err))
		}
		return
	}

	if changed && report != nil && report.NewFields > 0 {
		w.logger.Info("New credential fields detected",
			zap.Int("fields", report.NewFields),
			zap.Int("combinations", len(report.Combinations)),
		)
	}
}
