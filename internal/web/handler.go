// Package web serves the analyzer front-end: the page, the per-session API
// the page script talks to, and the exports.
package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BerylCAtieno/niche-analyzer/internal/archive"
	"github.com/BerylCAtieno/niche-analyzer/internal/backend"
	"github.com/BerylCAtieno/niche-analyzer/internal/export"
	"github.com/BerylCAtieno/niche-analyzer/internal/models"
	"github.com/BerylCAtieno/niche-analyzer/internal/notify"
	"github.com/BerylCAtieno/niche-analyzer/internal/render"
	"github.com/BerylCAtieno/niche-analyzer/internal/router"
	"github.com/BerylCAtieno/niche-analyzer/internal/session"
)

const (
	cookieName     = "nsid"
	controllerKey  = "session"
	minSearchTerm  = 3
	fallbackHeader = "X-Export-Fallback"
	msgNoPDF       = "Exportação em PDF indisponível. Use a versão para impressão."
	msgNoExport    = "Nenhuma análise disponível para exportar."
	msgShareAbsent = "Análise compartilhada não encontrada."
)

// NicheSearcher looks up previously analyzed niches.
type NicheSearcher interface {
	SearchNiches(ctx context.Context, term string) ([]string, error)
}

// Archive stores analyses behind permalinks.
type Archive interface {
	Save(ctx context.Context, niche string, a *models.Analysis) (string, error)
	Get(ctx context.Context, id string) (archive.Entry, error)
}

type Deps struct {
	Sessions *session.Store
	Renderer *render.Renderer
	Niches   NicheSearcher
	// Archive and PDF are optional.
	Archive Archive
	PDF     export.PDFRenderer

	// PublicURL overrides the scheme and host used in share links.
	PublicURL       string
	NotificationTTL time.Duration
	Logger          *zap.Logger
	Now             func() time.Time
}

type Handler struct {
	sessions  *session.Store
	renderer  *render.Renderer
	niches    NicheSearcher
	archive   Archive
	pdf       export.PDFRenderer
	publicURL string
	ttl       time.Duration
	logger    *zap.Logger
	now       func() time.Time
	page      *template.Template
}

func NewHandler(d Deps) (*Handler, error) {
	if d.Sessions == nil || d.Renderer == nil || d.Niches == nil {
		return nil, errors.New("web: sessions, renderer and niche searcher are required")
	}
	page, err := template.New("page").Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}
	h := &Handler{
		sessions:  d.Sessions,
		renderer:  d.Renderer,
		niches:    d.Niches,
		archive:   d.Archive,
		pdf:       d.PDF,
		publicURL: strings.TrimRight(d.PublicURL, "/"),
		ttl:       d.NotificationTTL,
		logger:    d.Logger,
		now:       d.Now,
		page:      page,
	}
	if h.logger == nil {
		h.logger = zap.NewNop()
	}
	if h.now == nil {
		h.now = time.Now
	}
	if h.ttl <= 0 {
		h.ttl = notify.DefaultTTL
	}
	return h, nil
}

// Register mounts the front-end routes.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/api/nichos", h.searchNiches)
	r.GET("/shared/:id", h.shared)

	s := r.Group("/", h.sessionMiddleware)
	s.GET("/", h.index)
	s.POST("/section/:name", h.showSection)
	s.POST("/analyze", h.analyze)
	s.GET("/state", h.state)
	s.GET("/progress", h.progress)
	s.GET("/results", h.results)
	s.GET("/export/text", h.exportText)
	s.GET("/export/print", h.exportPrint)
	s.GET("/export/pdf", h.exportPDF)
	s.POST("/share", h.share)
}

// NewRouter builds the gin engine serving the front-end plus any extra
// route sets (the A2A surface).
func NewRouter(h *Handler, logger *zap.Logger, extra ...func(gin.IRouter)) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLoggingMiddleware(logger))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	for _, register := range extra {
		register(r)
	}
	h.Register(r)
	return r
}

func (h *Handler) sessionMiddleware(c *gin.Context) {
	id, _ := c.Cookie(cookieName)
	ctrl, created, err := h.sessions.GetOrCreate(id)
	if err != nil {
		abortError(c, err)
		return
	}
	if created {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cookieName, ctrl.ID(), 0, "/", "", false, true)
	}
	c.Set(controllerKey, ctrl)
	c.Next()
}

func controller(c *gin.Context) *session.Controller {
	return c.MustGet(controllerKey).(*session.Controller)
}

type pageView struct {
	Nav             []router.NavItem
	Section         router.Section
	Snapshot        session.Snapshot
	Results         template.HTML
	Shared          bool
	NotificationTTL int64
}

func (h *Handler) writePage(c *gin.Context, status int, view pageView) {
	view.NotificationTTL = h.ttl.Milliseconds()
	var buf bytes.Buffer
	if err := h.page.Execute(&buf, view); err != nil {
		h.logger.Error("rendering page failed", zap.Error(err))
		c.String(http.StatusInternalServerError, "Erro interno do servidor")
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

// index serves the full page. Loading the page starts the session over.
func (h *Handler) index(c *gin.Context) {
	ctrl := controller(c)
	ctrl.Reset()
	if name := c.Query("section"); name != "" {
		if err := ctrl.ShowSection(name); err != nil {
			h.logger.Debug("ignoring unknown section", zap.String("section", name))
		}
	}
	snap := ctrl.Snapshot()
	h.writePage(c, http.StatusOK, pageView{
		Nav:      ctrl.Nav(),
		Section:  snap.Section,
		Snapshot: snap,
	})
}

func (h *Handler) showSection(c *gin.Context) {
	ctrl := controller(c)
	if err := ctrl.ShowSection(c.Param("name")); err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctrl.Snapshot())
}

type stateResponse struct {
	session.Snapshot
	Notifications []notify.Notification `json:"notifications"`
}

func (h *Handler) analyze(c *gin.Context) {
	ctrl := controller(c)

	var req models.AnalysisRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "corpo da requisição inválido"})
		return
	}
	if err := ctrl.Submit(req); err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, ctrl.Snapshot())
}

func (h *Handler) state(c *gin.Context) {
	ctrl := controller(c)
	c.JSON(http.StatusOK, stateResponse{
		Snapshot:      ctrl.Snapshot(),
		Notifications: nonNil(ctrl.DrainNotifications()),
	})
}

// progress streams state changes until the session is no longer busy.
func (h *Handler) progress(c *gin.Context) {
	ctrl := controller(c)
	ctx := c.Request.Context()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Stream(func(_ io.Writer) bool {
		snap, changed := ctrl.Watch()
		c.SSEvent("state", snap)
		for _, n := range ctrl.DrainNotifications() {
			c.SSEvent("notification", n)
		}
		if !snap.Busy {
			c.SSEvent("done", snap)
			return false
		}
		select {
		case <-changed:
			return true
		case <-ctx.Done():
			return false
		}
	})
}

func (h *Handler) results(c *gin.Context) {
	html, ok := controller(c).Results()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "resultados indisponíveis"})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

func (h *Handler) exportText(c *gin.Context) {
	now := h.now()
	d, err := controller(c).DownloadReport(now)
	if err != nil {
		abortError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, d.Filename))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(d.Body))
}

func (h *Handler) exportPrint(c *gin.Context) {
	page, err := controller(c).PrintReport(h.now(), c.Query("autoprint") != "0")
	if err != nil {
		abortError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}

// exportPDF renders the printable report through the headless browser.
// Without one it answers 404 and tells the page to open the printable
// version instead.
func (h *Handler) exportPDF(c *gin.Context) {
	ctrl := controller(c)
	if h.pdf == nil {
		if a, _ := ctrl.Analysis(); a == nil {
			ctrl.Notify(notify.Error, msgNoExport)
			abortError(c, session.ErrNoAnalysis)
			return
		}
		c.Header(fallbackHeader, "print")
		ctrl.Notify(notify.Info, msgNoPDF)
		abortError(c, export.ErrPDFUnavailable)
		return
	}

	now := h.now()
	page, err := ctrl.PrintReport(now, false)
	if err != nil {
		abortError(c, err)
		return
	}
	pdf, err := h.pdf.RenderPDF(c.Request.Context(), page)
	if err != nil {
		h.logger.Error("pdf rendering failed", zap.Error(err))
		c.Header(fallbackHeader, "print")
		abortError(c, err)
		return
	}
	filename := strings.TrimSuffix(export.ReportFilename(now), ".txt") + ".pdf"
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

type shareRequest struct {
	Native bool `json:"native"`
}

func (h *Handler) share(c *gin.Context) {
	var req shareRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "corpo da requisição inválido"})
			return
		}
	}

	base := h.baseURL(c)
	action, err := controller(c).Share(req.Native, func(a *models.Analysis, niche string) (string, error) {
		if h.archive == nil {
			return base + "/", nil
		}
		id, err := h.archive.Save(c.Request.Context(), niche, a)
		if err != nil {
			return "", err
		}
		return base + "/shared/" + id, nil
	})
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, action)
}

func (h *Handler) shared(c *gin.Context) {
	if h.archive == nil {
		c.String(http.StatusNotFound, msgShareAbsent)
		return
	}
	entry, err := h.archive.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, archive.ErrNotFound) {
		c.String(http.StatusNotFound, msgShareAbsent)
		return
	}
	if err != nil {
		h.logger.Error("loading shared analysis failed", zap.Error(err))
		c.String(http.StatusInternalServerError, "Erro interno do servidor")
		return
	}

	html, err := h.renderer.RenderShared(entry.Analysis)
	if err != nil {
		h.logger.Error("rendering shared analysis failed", zap.String("id", entry.ID), zap.Error(err))
		c.String(http.StatusInternalServerError, "Erro ao exibir os resultados da análise.")
		return
	}
	nav := router.New()
	_ = nav.Show(string(router.Results))
	h.writePage(c, http.StatusOK, pageView{
		Nav:     nav.Nav(),
		Section: router.Results,
		Results: html,
		Shared:  true,
	})
}

// searchNiches proxies the backend niche lookup. Terms shorter than three
// characters are answered locally with an empty list.
func (h *Handler) searchNiches(c *gin.Context) {
	term := strings.TrimSpace(c.Query("search"))
	if utf8.RuneCountInString(term) < minSearchTerm {
		c.JSON(http.StatusOK, models.NicheSearchResult{Nichos: []string{}})
		return
	}

	nichos, err := h.niches.SearchNiches(c.Request.Context(), term)
	if err != nil {
		h.logger.Warn("niche search failed", zap.String("search", term), zap.Error(err))
		abortError(c, err)
		return
	}
	if nichos == nil {
		nichos = []string{}
	}
	h.logger.Info("nichos encontrados", zap.String("search", term), zap.Strings("nichos", nichos))
	c.JSON(http.StatusOK, models.NicheSearchResult{Nichos: nichos, Count: len(nichos)})
}

func (h *Handler) baseURL(c *gin.Context) string {
	if h.publicURL != "" {
		return h.publicURL
	}
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}

// statusFor maps package sentinels to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrInvalidNiche), errors.Is(err, router.ErrUnknownSection):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, session.ErrNoAnalysis),
		errors.Is(err, archive.ErrNotFound),
		errors.Is(err, export.ErrPDFUnavailable):
		return http.StatusNotFound
	case errors.Is(err, export.ErrIncomplete):
		return http.StatusUnprocessableEntity
	case errors.Is(err, backend.ErrStatus):
		return http.StatusBadGateway
	case errors.Is(err, session.ErrClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func abortError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(statusFor(err), gin.H{"error": err.Error()})
}

func nonNil(ns []notify.Notification) []notify.Notification {
	if ns == nil {
		return []notify.Notification{}
	}
	return ns
}
