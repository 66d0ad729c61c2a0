package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BerylCAtieno/niche-analyzer/internal/config"
	"github.com/BerylCAtieno/niche-analyzer/internal/devbackend"
	"github.com/BerylCAtieno/niche-analyzer/internal/logging"
	"github.com/BerylCAtieno/niche-analyzer/internal/web"
)

func main() {
	cfg, err := config.LoadDevBackend()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	var gen devbackend.Generator = devbackend.FallbackGenerator{}
	if cfg.Generator == "gemini" {
		gemini, err := devbackend.NewGeminiGenerator(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Fatal("failed to create Gemini generator", zap.Error(err))
		}
		defer gemini.Close()
		gen = gemini
	}

	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery(), web.RequestLoggingMiddleware(logger))
	router.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})
	devbackend.NewServer(gen, logger).Register(router)

	logger.Info("development backend starting",
		zap.String("port", cfg.Port),
		zap.String("generator", cfg.Generator))
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server failed to start", zap.Error(err))
	}
}
