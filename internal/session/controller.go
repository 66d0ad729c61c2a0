// Package session holds the per-browser application state: which section
// is visible, whether an analysis is pending, the progress animation, the
// current analysis and its rendered results, and the pending notifications.
package session

import (
	"context"
	"errors"
	"html/template"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/BerylCAtieno/niche-analyzer/internal/models"
	"github.com/BerylCAtieno/niche-analyzer/internal/notify"
	"github.com/BerylCAtieno/niche-analyzer/internal/progress"
	"github.com/BerylCAtieno/niche-analyzer/internal/router"
)

var (
	ErrBusy         = errors.New("an analysis is already in progress")
	ErrInvalidNiche = errors.New("niche is required")
	ErrNoAnalysis   = errors.New("no analysis available")
	ErrClosed       = errors.New("session closed")
)

// DefaultResultDelay is how long results stay hidden after the backend
// answered.
const DefaultResultDelay = 12 * time.Second

const (
	msgNicheRequired  = "Por favor, informe o nicho de atuação."
	msgAnalysisFailed = "Erro ao realizar análise. Verifique sua conexão e tente novamente."
	msgRenderFailed   = "Erro ao exibir os resultados da análise."
)

// Analyzer runs one analysis against the backend.
type Analyzer interface {
	Analyze(ctx context.Context, req models.AnalysisRequest) (*models.Analysis, error)
}

// ResultRenderer produces the results fragment.
type ResultRenderer interface {
	RenderResults(a *models.Analysis) (template.HTML, error)
}

type Options struct {
	StepInterval    time.Duration
	ResultDelay     time.Duration
	NotificationTTL time.Duration
	Steps           []progress.Step
}

func (o Options) withDefaults() Options {
	if o.StepInterval <= 0 {
		o.StepInterval = progress.DefaultInterval
	}
	if o.ResultDelay <= 0 {
		o.ResultDelay = DefaultResultDelay
	}
	if o.NotificationTTL <= 0 {
		o.NotificationTTL = notify.DefaultTTL
	}
	if len(o.Steps) == 0 {
		o.Steps = progress.DefaultSteps
	}
	return o
}

// Snapshot is the observable state of a controller.
type Snapshot struct {
	Section      router.Section `json:"section"`
	Busy         bool           `json:"busy"`
	Loading      bool           `json:"loading"`
	Progress     progress.Step  `json:"progress"`
	ResultsReady bool           `json:"results_ready"`
	HasAnalysis  bool           `json:"has_analysis"`
	Renders      int            `json:"renders"`
}

// Controller owns one browser session.
type Controller struct {
	id       string
	analyzer Analyzer
	renderer ResultRenderer
	opts     Options
	logger   *zap.Logger

	router *router.Router
	notes  *notify.Queue

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu           sync.Mutex
	generation   uint64
	cancelCall   context.CancelFunc
	busy         bool
	loading      bool
	animator     *progress.Animator
	delay        *time.Timer
	analysis     *models.Analysis
	niche        string
	results      template.HTML
	resultsReady bool
	renders      int
	lastSeen     time.Time
	closed       bool

	// watchMu is separate from mu: the animator signals changes from its
	// own goroutine while Snapshot holds mu.
	watchMu sync.Mutex
	watch   chan struct{}
}

func New(id string, analyzer Analyzer, renderer ResultRenderer, opts Options, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts = opts.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		id:       id,
		analyzer: analyzer,
		renderer: renderer,
		opts:     opts,
		logger:   logger.With(zap.String("session", id)),
		router:   router.New(),
		notes:    notify.NewQueue(opts.NotificationTTL),
		ctx:      ctx,
		cancel:   cancel,
		lastSeen: time.Now(),
		watch:    make(chan struct{}),
	}
}

func (c *Controller) ID() string {
	return c.id
}

// Submit validates the request and starts an analysis. It returns
// immediately; the backend call, the progress animation and the result
// delay all run in the background.
func (c *Controller) Submit(req models.AnalysisRequest) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.busy {
		c.mu.Unlock()
		return ErrBusy
	}
	if err := req.Validate(); err != nil {
		c.mu.Unlock()
		c.notes.Push(notify.Error, msgNicheRequired)
		c.changed()
		return ErrInvalidNiche
	}

	c.busy = true
	c.loading = true
	c.results = ""
	c.resultsReady = false
	_ = c.router.Show(string(router.Results))

	c.stopAnimatorLocked()
	c.animator = progress.Start(c.opts.Steps, c.opts.StepInterval, func(progress.Step) { c.changed() })

	gen := c.generation
	ctx, cancel := context.WithCancel(c.ctx)
	c.cancelCall = cancel
	c.wg.Add(1)
	go c.perform(ctx, cancel, gen, req)
	c.mu.Unlock()

	c.logger.Info("analysis submitted", zap.String("nicho", req.Nicho))
	c.changed()
	return nil
}

func (c *Controller) perform(ctx context.Context, cancel context.CancelFunc, gen uint64, req models.AnalysisRequest) {
	defer c.wg.Done()
	defer cancel()

	analysis, err := c.analyzer.Analyze(ctx, req)

	c.mu.Lock()
	if c.closed || gen != c.generation {
		c.mu.Unlock()
		c.logger.Debug("discarding stale analysis response", zap.Uint64("generation", gen))
		return
	}
	if err != nil {
		c.loading = false
		c.busy = false
		c.stopAnimatorLocked()
		c.mu.Unlock()

		c.logger.Error("analysis failed", zap.Error(err))
		c.notes.Push(notify.Error, msgAnalysisFailed)
		c.changed()
		return
	}

	c.analysis = analysis
	c.niche = req.Nicho
	c.wg.Add(1)
	c.delay = time.AfterFunc(c.opts.ResultDelay, func() {
		defer c.wg.Done()
		c.finish(gen)
	})
	c.mu.Unlock()

	c.logger.Info("analysis received", zap.Duration("result_delay", c.opts.ResultDelay))
	c.changed()
}

func (c *Controller) finish(gen uint64) {
	c.mu.Lock()
	if c.closed || gen != c.generation {
		c.mu.Unlock()
		return
	}
	c.delay = nil
	c.loading = false
	c.busy = false
	c.stopAnimatorLocked()

	html, err := c.renderer.RenderResults(c.analysis)
	if err != nil {
		c.mu.Unlock()
		c.logger.Error("rendering results failed", zap.Error(err))
		c.notes.Push(notify.Error, msgRenderFailed)
		c.changed()
		return
	}
	c.results = html
	c.resultsReady = true
	c.renders++
	c.mu.Unlock()

	c.changed()
}

// Reset returns the session to its initial state, as a page reload does.
// The backend call still in flight is cancelled and its outcome discarded.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.generation++
	c.cancelCallLocked()
	c.stopAnimatorLocked()
	c.stopDelayLocked()
	c.busy = false
	c.loading = false
	c.analysis = nil
	c.niche = ""
	c.results = ""
	c.resultsReady = false
	_ = c.router.Show(string(router.Home))
	c.mu.Unlock()

	c.changed()
}

// ShowSection switches the visible section. It never affects a pending
// analysis.
func (c *Controller) ShowSection(name string) error {
	if err := c.router.Show(name); err != nil {
		return err
	}
	c.changed()
	return nil
}

func (c *Controller) Nav() []router.NavItem {
	return c.router.Nav()
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		Section:      c.router.Current(),
		Busy:         c.busy,
		Loading:      c.loading,
		ResultsReady: c.resultsReady,
		HasAnalysis:  c.analysis != nil,
		Renders:      c.renders,
	}
	if c.loading && c.animator != nil {
		s.Progress, _ = c.animator.Current()
	}
	return s
}

// Watch returns the current snapshot and a channel closed on the next
// state change.
func (c *Controller) Watch() (Snapshot, <-chan struct{}) {
	c.watchMu.Lock()
	ch := c.watch
	c.watchMu.Unlock()
	return c.Snapshot(), ch
}

func (c *Controller) changed() {
	c.watchMu.Lock()
	close(c.watch)
	c.watch = make(chan struct{})
	c.watchMu.Unlock()
}

// Results returns the rendered results once they are visible.
func (c *Controller) Results() (template.HTML, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.results, c.resultsReady
}

// Analysis returns the current analysis and the niche it was requested
// for. It is set as soon as the backend answers.
func (c *Controller) Analysis() (*models.Analysis, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.analysis, c.niche
}

func (c *Controller) Notify(kind notify.Kind, message string) {
	c.notes.Push(kind, message)
	c.changed()
}

func (c *Controller) DrainNotifications() []notify.Notification {
	return c.notes.Drain()
}

func (c *Controller) PendingNotifications() []notify.Notification {
	return c.notes.Pending()
}

func (c *Controller) Touch(now time.Time) {
	c.mu.Lock()
	c.lastSeen = now
	c.mu.Unlock()
}

func (c *Controller) LastSeen() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSeen
}

// Close cancels the backend call, stops the timers and waits for every
// goroutine of the session to exit. Watchers see a final, idle snapshot.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.busy = false
	c.loading = false
	animator := c.animator
	c.stopAnimatorLocked()
	c.stopDelayLocked()
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
	if animator != nil {
		<-animator.Done()
	}
	c.changed()
}

func (c *Controller) cancelCallLocked() {
	if c.cancelCall != nil {
		c.cancelCall()
		c.cancelCall = nil
	}
}

func (c *Controller) stopAnimatorLocked() {
	if c.animator != nil {
		c.animator.Stop()
		c.animator = nil
	}
}

func (c *Controller) stopDelayLocked() {
	if c.delay != nil && c.delay.Stop() {
		c.wg.Done()
	}
	c.delay = nil
}
