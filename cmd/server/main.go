package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/BerylCAtieno/niche-analyzer/internal/a2a"
	"github.com/BerylCAtieno/niche-analyzer/internal/archive"
	"github.com/BerylCAtieno/niche-analyzer/internal/backend"
	"github.com/BerylCAtieno/niche-analyzer/internal/config"
	"github.com/BerylCAtieno/niche-analyzer/internal/export"
	"github.com/BerylCAtieno/niche-analyzer/internal/logging"
	"github.com/BerylCAtieno/niche-analyzer/internal/render"
	"github.com/BerylCAtieno/niche-analyzer/internal/session"
	"github.com/BerylCAtieno/niche-analyzer/internal/web"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	gin.SetMode(cfg.GinMode)

	client := backend.NewClient(cfg.BackendURL, cfg.BackendTimeout, logger)

	renderer, err := render.New()
	if err != nil {
		return err
	}
	if cfg.ChartsEnabled {
		renderer.UseCharts(render.NewSVGCharts(render.DefaultChartConfig()))
	}

	deps := web.Deps{
		Renderer:        renderer,
		Niches:          client,
		PublicURL:       cfg.PublicURL,
		NotificationTTL: cfg.NotificationTTL,
		Logger:          logger,
	}

	if cfg.ArchivePath != "" {
		store, err := archive.Open(cfg.ArchivePath)
		if err != nil {
			return err
		}
		defer store.Close()
		deps.Archive = store
		logger.Info("share archive enabled", zap.String("path", cfg.ArchivePath))
	}

	pdf := export.NewRodPDF(export.RodPDFConfig{ControlURL: cfg.PDFBrowserURL, Launch: cfg.PDFLaunch}, logger)
	defer pdf.Close()
	if pdf.Enabled() {
		deps.PDF = pdf
	}

	sessions := session.NewStore(client, renderer, session.Options{
		StepInterval:    cfg.StepInterval,
		ResultDelay:     cfg.ResultDelay,
		NotificationTTL: cfg.NotificationTTL,
	}, cfg.SessionIdleTTL, logger)
	defer sessions.Close()
	deps.Sessions = sessions

	handler, err := web.NewHandler(deps)
	if err != nil {
		return err
	}

	publicURL := cfg.PublicURL
	if publicURL == "" {
		publicURL = "http://localhost:" + cfg.Port
	}
	agent := a2a.NewHandler(client, a2a.DefaultAgentCard(publicURL), logger)

	router := web.NewRouter(handler, logger, func(r gin.IRouter) {
		r.GET("/.well-known/agent.json", agent.ServeAgentCard)
		r.POST("/a2a/analyzer", agent.HandleAnalyzer)
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("niche analyzer starting",
			zap.String("port", cfg.Port),
			zap.String("backend", cfg.BackendURL),
			zap.String("agent_card", publicURL+"/.well-known/agent.json"))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return sessions.Run(ctx, time.Minute)
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		// Ends open progress streams so Shutdown does not wait on them.
		sessions.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
