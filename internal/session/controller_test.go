package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/BerylCAtieno/niche-analyzer/internal/export"
	"github.com/BerylCAtieno/niche-analyzer/internal/models"
	"github.com/BerylCAtieno/niche-analyzer/internal/notify"
	"github.com/BerylCAtieno/niche-analyzer/internal/render"
	"github.com/BerylCAtieno/niche-analyzer/internal/router"
	"github.com/BerylCAtieno/niche-analyzer/internal/testkit"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeAnalyzer struct {
	result  *models.Analysis
	err     error
	release chan struct{}

	mu        sync.Mutex
	calls     int
	returned  int
	cancelled int
	requests  []models.AnalysisRequest
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, req models.AnalysisRequest) (*models.Analysis, error) {
	f.mu.Lock()
	f.calls++
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.returned++
		f.mu.Unlock()
	}()

	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			f.mu.Lock()
			f.cancelled++
			f.mu.Unlock()
			return nil, ctx.Err()
		}
	}
	return f.result, f.err
}

func (f *fakeAnalyzer) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeAnalyzer) Returned() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.returned
}

var fastOptions = Options{
	StepInterval: 5 * time.Millisecond,
	ResultDelay:  40 * time.Millisecond,
}

func newController(t *testing.T, analyzer Analyzer, opts Options) *Controller {
	t.Helper()
	renderer, err := render.New()
	require.NoError(t, err)
	c := New("test", analyzer, renderer, opts, nil)
	t.Cleanup(c.Close)
	return c
}

func eventually(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	require.Eventually(t, cond, 2*time.Second, 5*time.Millisecond, msg)
}

func messages(ns []notify.Notification) []string {
	out := make([]string, 0, len(ns))
	for _, n := range ns {
		out = append(out, n.Message)
	}
	return out
}

func TestSubmitRejectsBlankNiche(t *testing.T) {
	for _, niche := range []string{"", "   ", "\t\n"} {
		fake := &fakeAnalyzer{result: testkit.SampleAnalysis()}
		c := newController(t, fake, fastOptions)

		err := c.Submit(models.AnalysisRequest{Nicho: niche, Produto: "Curso"})
		assert.ErrorIs(t, err, ErrInvalidNiche)

		notes := c.DrainNotifications()
		require.Len(t, notes, 1)
		assert.Equal(t, notify.Error, notes[0].Kind)
		assert.Equal(t, msgNicheRequired, notes[0].Message)

		snap := c.Snapshot()
		assert.False(t, snap.Busy)
		assert.False(t, snap.Loading)
		assert.Equal(t, router.Home, snap.Section)
		assert.Zero(t, fake.Calls())
	}
}

func TestSubmitWhileBusyIsNoop(t *testing.T) {
	fake := &fakeAnalyzer{result: testkit.SampleAnalysis(), release: make(chan struct{})}
	c := newController(t, fake, fastOptions)

	require.NoError(t, c.Submit(models.AnalysisRequest{Nicho: "nutrição"}))
	assert.ErrorIs(t, c.Submit(models.AnalysisRequest{Nicho: "nutrição"}), ErrBusy)
	assert.ErrorIs(t, c.Submit(models.AnalysisRequest{Nicho: "fitness"}), ErrBusy)
	assert.Empty(t, c.DrainNotifications())

	close(fake.release)
	eventually(t, func() bool { return c.Snapshot().ResultsReady }, "results never became ready")

	assert.Equal(t, 1, fake.Calls())
	assert.Equal(t, 1, c.Snapshot().Renders)
}

func TestSubmitSendsEveryField(t *testing.T) {
	fake := &fakeAnalyzer{result: testkit.SampleAnalysis()}
	c := newController(t, fake, fastOptions)

	req := models.AnalysisRequest{Nicho: "nutrição", Produto: "Mentoria", Preco: "997", Publico: "nutricionistas"}
	require.NoError(t, c.Submit(req))
	eventually(t, func() bool { return fake.Returned() == 1 }, "backend never called")

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Equal(t, req, fake.requests[0])
}

func TestResultsAppearOnlyAfterDelay(t *testing.T) {
	fake := &fakeAnalyzer{result: testkit.SampleAnalysis()}
	opts := fastOptions
	opts.ResultDelay = 300 * time.Millisecond
	c := newController(t, fake, opts)

	require.NoError(t, c.Submit(models.AnalysisRequest{Nicho: "nutrição"}))
	snap := c.Snapshot()
	assert.True(t, snap.Busy)
	assert.True(t, snap.Loading)
	assert.Equal(t, router.Results, snap.Section)

	eventually(t, func() bool { return c.Snapshot().HasAnalysis }, "analysis never stored")
	snap = c.Snapshot()
	assert.False(t, snap.ResultsReady)
	assert.True(t, snap.Busy)
	_, ready := c.Results()
	assert.False(t, ready)

	eventually(t, func() bool { return c.Snapshot().ResultsReady }, "results never became ready")
	snap = c.Snapshot()
	assert.False(t, snap.Busy)
	assert.False(t, snap.Loading)
	assert.Equal(t, 1, snap.Renders)

	html, ready := c.Results()
	assert.True(t, ready)
	assert.Contains(t, string(html), "Maria")
	assert.Empty(t, c.DrainNotifications())
}

func TestBackendFailureNotifiesOnce(t *testing.T) {
	fake := &fakeAnalyzer{err: errors.New("boom")}
	c := newController(t, fake, fastOptions)

	require.NoError(t, c.Submit(models.AnalysisRequest{Nicho: "nutrição"}))
	eventually(t, func() bool { return !c.Snapshot().Busy }, "busy never cleared")

	time.Sleep(3 * fastOptions.ResultDelay)
	snap := c.Snapshot()
	assert.False(t, snap.Loading)
	assert.False(t, snap.ResultsReady)
	assert.False(t, snap.HasAnalysis)
	assert.Zero(t, snap.Renders)
	assert.Equal(t, []string{msgAnalysisFailed}, messages(c.DrainNotifications()))

	// The session accepts a new submission afterwards.
	fake.err = nil
	fake.result = testkit.SampleAnalysis()
	require.NoError(t, c.Submit(models.AnalysisRequest{Nicho: "nutrição"}))
	eventually(t, func() bool { return c.Snapshot().ResultsReady }, "retry never rendered")
}

func TestRenderFailureClearsBusy(t *testing.T) {
	incomplete := testkit.SampleAnalysis()
	incomplete.Funnel = nil
	fake := &fakeAnalyzer{result: incomplete}
	c := newController(t, fake, fastOptions)

	require.NoError(t, c.Submit(models.AnalysisRequest{Nicho: "nutrição"}))
	eventually(t, func() bool {
		s := c.Snapshot()
		return s.HasAnalysis && !s.Busy
	}, "busy never cleared")

	snap := c.Snapshot()
	assert.False(t, snap.ResultsReady)
	assert.Zero(t, snap.Renders)
	assert.Equal(t, []string{msgRenderFailed}, messages(c.DrainNotifications()))
}

func TestProgressRunsIndependentlyOfResponse(t *testing.T) {
	fake := &fakeAnalyzer{result: testkit.SampleAnalysis(), release: make(chan struct{})}
	c := newController(t, fake, fastOptions)

	require.NoError(t, c.Submit(models.AnalysisRequest{Nicho: "nutrição"}))
	eventually(t, func() bool { return c.Snapshot().Progress.Percent == 100 }, "progress never completed")

	snap := c.Snapshot()
	assert.Equal(t, "Análise concluída!", snap.Progress.Label)
	assert.True(t, snap.Busy)
	assert.False(t, snap.ResultsReady)

	close(fake.release)
	eventually(t, func() bool { return c.Snapshot().ResultsReady }, "results never became ready")
	assert.Zero(t, c.Snapshot().Progress)
}

func TestResetDiscardsLateResponse(t *testing.T) {
	fake := &fakeAnalyzer{result: testkit.SampleAnalysis(), release: make(chan struct{})}
	c := newController(t, fake, fastOptions)

	require.NoError(t, c.Submit(models.AnalysisRequest{Nicho: "nutrição"}))
	c.Reset()
	close(fake.release)
	eventually(t, func() bool { return fake.Returned() == 1 }, "backend never returned")

	time.Sleep(3 * fastOptions.ResultDelay)
	snap := c.Snapshot()
	assert.Equal(t, router.Home, snap.Section)
	assert.False(t, snap.Busy)
	assert.False(t, snap.HasAnalysis)
	assert.Zero(t, snap.Renders)
}

func TestResetCancelsRequestInFlight(t *testing.T) {
	fake := &fakeAnalyzer{result: testkit.SampleAnalysis(), release: make(chan struct{})}
	c := newController(t, fake, fastOptions)
	t.Cleanup(func() { close(fake.release) })

	require.NoError(t, c.Submit(models.AnalysisRequest{Nicho: "nutrição"}))
	eventually(t, func() bool { return fake.Calls() == 1 }, "backend never called")

	c.Reset()
	eventually(t, func() bool { return fake.Returned() == 1 }, "first call was not cancelled")

	require.NoError(t, c.Submit(models.AnalysisRequest{Nicho: "nutrição"}))
	eventually(t, func() bool { return fake.Calls() == 2 }, "second call never started")

	fake.mu.Lock()
	cancelled := fake.cancelled
	fake.mu.Unlock()
	assert.Equal(t, 1, cancelled)
	assert.Equal(t, 1, fake.Calls()-fake.Returned(), "one call in flight")
	assert.Empty(t, c.PendingNotifications())
}

func TestShowSectionLeavesPendingAnalysisAlone(t *testing.T) {
	fake := &fakeAnalyzer{result: testkit.SampleAnalysis(), release: make(chan struct{})}
	c := newController(t, fake, fastOptions)

	require.NoError(t, c.Submit(models.AnalysisRequest{Nicho: "nutrição"}))
	require.NoError(t, c.ShowSection("home"))
	assert.ErrorIs(t, c.ShowSection("dashboard"), router.ErrUnknownSection)

	snap := c.Snapshot()
	assert.Equal(t, router.Home, snap.Section)
	assert.True(t, snap.Busy)

	var active []router.Section
	for _, item := range c.Nav() {
		if item.Active {
			active = append(active, item.Section)
		}
	}
	assert.Equal(t, []router.Section{router.Home}, active)

	close(fake.release)
	eventually(t, func() bool { return c.Snapshot().ResultsReady }, "results never became ready")
	assert.Equal(t, router.Home, c.Snapshot().Section)
}

func TestWatchSignalsChanges(t *testing.T) {
	c := newController(t, &fakeAnalyzer{}, fastOptions)

	snap, ch := c.Watch()
	assert.Equal(t, router.Home, snap.Section)
	require.NoError(t, c.ShowSection("analyzer"))

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("watch channel not closed after a change")
	}
	snap, _ = c.Watch()
	assert.Equal(t, router.Analyzer, snap.Section)
}

func TestCloseCancelsPendingRequest(t *testing.T) {
	fake := &fakeAnalyzer{result: testkit.SampleAnalysis(), release: make(chan struct{})}
	renderer, err := render.New()
	require.NoError(t, err)
	c := New("closing", fake, renderer, fastOptions, nil)

	require.NoError(t, c.Submit(models.AnalysisRequest{Nicho: "nutrição"}))
	eventually(t, func() bool { return fake.Calls() == 1 }, "backend never called")

	c.Close()
	assert.Equal(t, 1, fake.Returned())
	assert.ErrorIs(t, c.Submit(models.AnalysisRequest{Nicho: "nutrição"}), ErrClosed)
	c.Close()
}

func TestCloseReleasesWatchers(t *testing.T) {
	fake := &fakeAnalyzer{result: testkit.SampleAnalysis(), release: make(chan struct{})}
	renderer, err := render.New()
	require.NoError(t, err)
	c := New("closing", fake, renderer, fastOptions, nil)

	require.NoError(t, c.Submit(models.AnalysisRequest{Nicho: "nutrição"}))
	snap, ch := c.Watch()
	require.True(t, snap.Busy)

	c.Close()
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("watchers not signalled on close")
	}
	snap, _ = c.Watch()
	assert.False(t, snap.Busy)
	assert.False(t, snap.Loading)
}

func completed(t *testing.T) *Controller {
	t.Helper()
	c := newController(t, &fakeAnalyzer{result: testkit.SampleAnalysis()}, fastOptions)
	require.NoError(t, c.Submit(models.AnalysisRequest{Nicho: "nutrição"}))
	eventually(t, func() bool { return c.Snapshot().ResultsReady }, "results never became ready")
	c.DrainNotifications()
	return c
}

func TestActionsWithoutAnalysis(t *testing.T) {
	c := newController(t, &fakeAnalyzer{}, fastOptions)
	now := time.Now()

	_, err := c.DownloadReport(now)
	assert.ErrorIs(t, err, ErrNoAnalysis)
	_, err = c.PrintReport(now, true)
	assert.ErrorIs(t, err, ErrNoAnalysis)
	_, err = c.Share(false, func(*models.Analysis, string) (string, error) {
		t.Fatal("link built without analysis")
		return "", nil
	})
	assert.ErrorIs(t, err, ErrNoAnalysis)

	assert.Equal(t, []string{msgNoDownload, msgNoExport, msgNoShare}, messages(c.DrainNotifications()))
}

func TestDownloadReport(t *testing.T) {
	c := completed(t)
	now := time.UnixMilli(1700000000000)

	d, err := c.DownloadReport(now)
	require.NoError(t, err)
	assert.Equal(t, "analise-avatar-1700000000000.txt", d.Filename)
	assert.Contains(t, d.Body, "Nome: Maria")
	assert.Contains(t, d.Body, "Leads Projetados: 1000")
	assert.Contains(t, d.Body, "Taxa de Conversão: 5%")
	assert.Contains(t, d.Body, "Faturamento Projetado: R$ 50000")
	assert.Equal(t, []string{msgDownloaded}, messages(c.DrainNotifications()))
}

func TestPrintReport(t *testing.T) {
	c := completed(t)

	page, err := c.PrintReport(time.Now(), true)
	require.NoError(t, err)
	assert.Contains(t, page, "window.print()")
	assert.Contains(t, page, "Maria")
	assert.Equal(t, []string{msgPrintReady}, messages(c.DrainNotifications()))
}

func TestShare(t *testing.T) {
	c := completed(t)
	link := func(a *models.Analysis, niche string) (string, error) {
		assert.Equal(t, "nutrição", niche)
		return "http://localhost/shared/abc", nil
	}

	action, err := c.Share(false, link)
	require.NoError(t, err)
	assert.Equal(t, export.ShareClipboard, action.Mode)
	assert.Equal(t, "http://localhost/shared/abc", action.URL)
	assert.Equal(t, []string{msgLinkCopied}, messages(c.DrainNotifications()))

	action, err = c.Share(true, link)
	require.NoError(t, err)
	assert.Equal(t, export.ShareNative, action.Mode)
	assert.Equal(t, export.ShareTitle, action.Title)
	assert.Empty(t, c.DrainNotifications())

	_, err = c.Share(false, func(*models.Analysis, string) (string, error) {
		return "", errors.New("disk full")
	})
	assert.Error(t, err)
	assert.Equal(t, []string{msgShareFailed}, messages(c.DrainNotifications()))
}
