package detector

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"credmask/internal/dom"
	"credmask/pkg/apperr"
	"credmask/pkg/logg"
	"credmask/pkg/tracing"
)

const (
	sessionName   = "DetectorSession"
	sessionTracer = "detector.session"
)

// Painter pushes masking into the page the document was taken from.
type Painter interface {
	ApplyMasks(ctx context.Context, ids []dom.NodeID, class string) error
}

// PassResult summarises one detection pass.
type PassResult struct {
	Pass            int
	FormInputs      int
	PageInputs      int
	NewFields       int
	NewCombinations int
	Masked          []dom.NodeID
	Err             error
}

// Session owns the registry of one page and runs detection passes over
// successive snapshots of it. Passes are serialised.
type Session struct {
	ID          uuid.UUID
	URL         string
	SingleInput bool

	detector *Detector
	registry *Registry
	painter  Painter
	logger   *zap.Logger
	tracer   trace.Tracer

	mu     sync.Mutex
	passes int
	// painted holds the usernames whose mask reached the page.
	painted IDSet
}

type SessionParams struct {
	URL         string
	SingleInput bool
	Detector    *Detector
	// Painter may be nil; masking then only marks the snapshot nodes.
	Painter Painter
	Logger  *zap.Logger
}

func NewSession(params SessionParams) *Session {
	id := uuid.New()

	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	det := params.Detector
	if det == nil {
		det = New(DefaultOptions())
	}

	return &Session{
		ID:          id,
		URL:         params.URL,
		SingleInput: params.SingleInput,
		detector:    det,
		registry:    NewRegistry(),
		painted:     make(IDSet),
		painter:     params.Painter,
		logger: logger.With(
			zap.String(logg.Layer, sessionName),
			zap.String(logg.SessionID, id.String()),
			zap.String(logg.URL, params.URL),
		),
		tracer: otel.Tracer(sessionTracer),
	}
}

func (s *Session) Registry() *Registry {
	return s.registry
}

func (s *Session) Detector() *Detector {
	return s.detector
}

// Masked reports whether the field's mask was last pushed to the page
// successfully. Without a painter, marking the snapshot is enough.
func (s *Session) Masked(id dom.NodeID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.painted.Has(id)
}

func (s *Session) Passes() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.passes
}

// InitCredentialFields runs the form scanner, then the page scanner over the
// fields outside scanned forms, records the fields and masks every stored
// combination. Failures are logged and reported in the result, never raised.
func (s *Session) InitCredentialFields(ctx context.Context, doc *dom.Document) (res PassResult) {
	const op = "InitCredentialFields"

	s.mu.Lock()
	defer s.mu.Unlock()

	s.passes++
	res.Pass = s.passes
	logger := s.logger.With(zap.String(logg.Operation, op), zap.Int(logg.Pass, res.Pass))

	ctx, step := tracing.StartSpan(ctx, s.tracer, logger, op, attribute.Int(logg.Pass, res.Pass))
	defer func() {
		step.Count("form_inputs", res.FormInputs)
		step.Count("page_inputs", res.PageInputs)
		step.Count("masked", len(res.Masked))
		step.End(res.Err)
	}()
	defer s.recoverPass(op, logger, &res)

	if doc == nil || doc.Body == nil {
		res.Err = apperr.InvalidReqError(op, "document", errors.New("document has no body"))
		logger.Error("Detection skipped", zap.Error(res.Err))

		return res
	}

	formInputs := s.detector.IdentifyFormInputs(doc, s.registry, s.SingleInput)
	pageInputs := s.detector.GetAllPageInputs(doc, s.registry, formInputs, s.SingleInput)

	res.FormInputs = len(formInputs)
	res.PageInputs = len(pageInputs)

	before := len(s.registry.combinations)
	res.NewFields, _ = s.registry.Merge(append(formInputs, pageInputs...), nil)
	res.NewCombinations = s.newCombinationsSince(before)

	res.Masked, res.Err = s.maskAll(ctx, doc)
	if res.Err != nil {
		logger.Error("Masking failed", zap.Error(res.Err))
	}

	logger.Info("Detection pass finished",
		zap.Int("form_inputs", res.FormInputs),
		zap.Int("page_inputs", res.PageInputs),
		zap.Int("combinations", len(s.registry.combinations)),
		zap.Int("masked", len(res.Masked)),
	)

	return res
}

// Rescan looks for new fields under roots, typically nodes a mutation
// observer reported as added. It only ever adds to the registry.
func (s *Session) Rescan(ctx context.Context, doc *dom.Document, roots []*dom.Node) (res PassResult) {
	const op = "Rescan"

	s.mu.Lock()
	defer s.mu.Unlock()

	s.passes++
	res.Pass = s.passes
	logger := s.logger.With(zap.String(logg.Operation, op), zap.Int(logg.Pass, res.Pass))

	ctx, step := tracing.StartSpan(ctx, s.tracer, logger, op,
		attribute.Int(logg.Pass, res.Pass),
		attribute.Int("roots", len(roots)),
	)
	defer func() {
		step.Count("page_inputs", res.PageInputs)
		step.Count("masked", len(res.Masked))
		step.End(res.Err)
	}()
	defer s.recoverPass(op, logger, &res)

	if doc == nil {
		res.Err = apperr.InvalidReqError(op, "document", errors.New("document is nil"))
		logger.Error("Rescan skipped", zap.Error(res.Err))

		return res
	}

	before := len(s.registry.combinations)
	batch := make(IDSet)

	for _, root := range roots {
		fields, fresh := s.addedFields(doc, root, batch)
		if len(fresh) == 0 {
			continue
		}

		for _, f := range fresh {
			batch.Add(f)
		}

		s.registry.InitCombinations(fields, s.SingleInput)
		added, _ := s.registry.Merge(fresh, nil)

		res.PageInputs += len(fresh)
		res.NewFields += added
	}

	res.NewCombinations = s.newCombinationsSince(before)

	res.Masked, res.Err = s.maskAll(ctx, doc)
	if res.Err != nil {
		logger.Error("Masking failed", zap.Error(res.Err))
	}

	if res.NewFields > 0 {
		logger.Info("Rescan found new fields",
			zap.Int("fields", res.NewFields),
			zap.Int("combinations", res.NewCombinations),
		)
	}

	return res
}

// addedFields returns the fields to pair for an added root and the unseen
// ones among them. An added INPUT has no descendants to collect, so it is
// paired inside its form or nearest collectable ancestor, next to fields
// that may already be known.
func (s *Session) addedFields(doc *dom.Document, root *dom.Node, batch IDSet) (fields, fresh []*dom.Node) {
	if !root.Is("INPUT") {
		fields = s.detector.GetInputs(doc, root, Excluding(s.registry, batch), false)
		return fields, fields
	}

	if s.registry.Has(root.ID) || batch.Has(root.ID) {
		return nil, nil
	}

	for _, scope := range s.inputScopes(root) {
		fields = s.detector.GetInputs(doc, scope, nil, false)
		if !containsNode(fields, root) {
			continue
		}

		for _, f := range fields {
			if !s.registry.Has(f.ID) && !batch.Has(f.ID) {
				fresh = append(fresh, f)
			}
		}

		return fields, fresh
	}

	return nil, nil
}

// inputScopes lists the owning form element, then the nearest ancestor the
// collector does not ignore.
func (s *Session) inputScopes(n *dom.Node) []*dom.Node {
	var scopes []*dom.Node

	if form := n.Closest(func(p *dom.Node) bool { return p.Is("FORM") }); form != nil {
		scopes = append(scopes, form)
	}

	for p := n.Parent; p != nil; p = p.Parent {
		if !s.detector.IgnoredNode(p) {
			scopes = append(scopes, p)
			break
		}
	}

	return scopes
}

func containsNode(nodes []*dom.Node, n *dom.Node) bool {
	for _, c := range nodes {
		if c == n {
			return true
		}
	}

	return false
}

func (s *Session) newCombinationsSince(before int) int {
	return len(s.registry.combinations) - before
}

// maskAll applies HideUsernameField to every stored combination in order.
// Mask state is read from doc, the current snapshot, so a field whose mask
// never reached the page or was wiped since is painted again.
func (s *Session) maskAll(ctx context.Context, doc *dom.Document) ([]dom.NodeID, error) {
	class := s.detector.opts.MaskClass

	var changed []dom.NodeID
	for _, c := range s.registry.combinations {
		if c.Username == nil {
			continue
		}

		current := doc.Node(c.Username.ID)
		if current == nil {
			continue
		}

		switch {
		case HideUsernameField(Combination{Username: current}, class):
			changed = append(changed, current.ID)
		case IsMasked(current, class):
			// Already masked on the page.
			s.painted.Add(current)
		}
	}

	if len(changed) == 0 {
		return nil, nil
	}

	if s.painter == nil {
		s.markPainted(changed)
		return changed, nil
	}

	if err := s.painter.ApplyMasks(ctx, changed, class); err != nil {
		for _, id := range changed {
			delete(s.painted, id)
		}

		return nil, apperr.Wrap("maskAll", apperr.CodeActionFailed, err, map[string]any{
			apperr.MetaReason:  "apply_masks_failed",
			apperr.MetaStage:   apperr.StageMasking,
			apperr.MetaSession: s.ID.String(),
		})
	}

	s.markPainted(changed)

	return changed, nil
}

func (s *Session) markPainted(ids []dom.NodeID) {
	for _, id := range ids {
		s.painted[id] = struct{}{}
	}
}

func (s *Session) recoverPass(op string, logger *zap.Logger, res *PassResult) {
	r := recover()
	if r == nil {
		return
	}

	res.Err = apperr.Wrap(op, apperr.CodeDetection, fmt.Errorf("panic: %v", r), map[string]any{
		apperr.MetaStage:   apperr.StageDetection,
		apperr.MetaSession: s.ID.String(),
	})
	res.Masked = nil

	logger.Error("Detection pass failed", zap.Error(res.Err))
}
