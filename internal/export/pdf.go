package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// ErrPDFUnavailable is returned when no browser is configured for PDF output.
var ErrPDFUnavailable = errors.New("pdf rendering unavailable")

// PDFRenderer turns a printable HTML page into a PDF document.
type PDFRenderer interface {
	RenderPDF(ctx context.Context, html string) ([]byte, error)
}

type RodPDFConfig struct {
	// ControlURL is the DevTools endpoint of a running browser.
	ControlURL string
	// Launch starts a local headless browser when ControlURL is empty.
	Launch bool
}

// RodPDF prints pages through a headless Chrome driven by rod. The browser
// connection is opened on first use and reused afterwards.
type RodPDF struct {
	cfg    RodPDFConfig
	logger *zap.Logger

	mu      sync.Mutex
	browser *rod.Browser
}

func NewRodPDF(cfg RodPDFConfig, logger *zap.Logger) *RodPDF {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RodPDF{cfg: cfg, logger: logger}
}

// Enabled reports whether a browser can be reached or launched.
func (r *RodPDF) Enabled() bool {
	return r != nil && (r.cfg.ControlURL != "" || r.cfg.Launch)
}

func (r *RodPDF) connect() (*rod.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser != nil {
		return r.browser, nil
	}

	controlURL := r.cfg.ControlURL
	if controlURL == "" {
		if !r.cfg.Launch {
			return nil, ErrPDFUnavailable
		}
		url, err := launcher.New().Headless(true).Launch()
		if err != nil {
			return nil, fmt.Errorf("launch chrome: %w", err)
		}
		controlURL = url
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}
	r.logger.Info("pdf browser connected", zap.String("control_url", controlURL))
	r.browser = browser
	return browser, nil
}

func (r *RodPDF) RenderPDF(ctx context.Context, html string) ([]byte, error) {
	if !r.Enabled() {
		return nil, ErrPDFUnavailable
	}
	browser, err := r.connect()
	if err != nil {
		return nil, err
	}

	page, err := browser.Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	defer func() { _ = page.Close() }()

	if err := page.SetDocumentContent(html); err != nil {
		return nil, fmt.Errorf("set document: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait load: %w", err)
	}

	stream, err := page.PDF(&proto.PagePrintToPDF{PrintBackground: true})
	if err != nil {
		return nil, fmt.Errorf("print to pdf: %w", err)
	}
	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("read pdf stream: %w", err)
	}
	return data, nil
}

// Close releases the browser connection, if any.
func (r *RodPDF) Close() error {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.browser == nil {
		return nil
	}
	err := r.browser.Close()
	r.browser = nil
	return err
}
