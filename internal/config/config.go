// Package config loads process configuration from the environment, after
// an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the front-end server configuration.
type Config struct {
	Port           string        `env:"PORT" envDefault:"8080"`
	BackendURL     string        `env:"BACKEND_URL" envDefault:"http://localhost:5000"`
	BackendTimeout time.Duration `env:"BACKEND_TIMEOUT" envDefault:"120s"`

	StepInterval    time.Duration `env:"PROGRESS_STEP_INTERVAL" envDefault:"1500ms"`
	ResultDelay     time.Duration `env:"RESULT_DELAY" envDefault:"12s"`
	NotificationTTL time.Duration `env:"NOTIFICATION_TTL" envDefault:"3s"`
	SessionIdleTTL  time.Duration `env:"SESSION_IDLE_TTL" envDefault:"30m"`

	ChartsEnabled bool   `env:"CHARTS_ENABLED" envDefault:"true"`
	ArchivePath   string `env:"ARCHIVE_PATH"`
	PDFBrowserURL string `env:"PDF_BROWSER_URL"`
	PDFLaunch     bool   `env:"PDF_LAUNCH" envDefault:"false"`

	PublicURL string `env:"PUBLIC_URL"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	GinMode   string `env:"GIN_MODE" envDefault:"release"`
}

// DevBackend configures cmd/devbackend.
type DevBackend struct {
	Port         string `env:"DEVBACKEND_PORT" envDefault:"5000"`
	Generator    string `env:"DEVBACKEND_GENERATOR" envDefault:"fallback"`
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash-lite"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	GinMode      string `env:"GIN_MODE" envDefault:"release"`
}

// Load reads .env files (when present) and then the environment.
func Load(files ...string) (Config, error) {
	var cfg Config
	if err := parse(&cfg, files); err != nil {
		return Config{}, err
	}
	if cfg.ResultDelay < 0 || cfg.StepInterval <= 0 {
		return Config{}, fmt.Errorf("invalid timing: PROGRESS_STEP_INTERVAL=%s RESULT_DELAY=%s", cfg.StepInterval, cfg.ResultDelay)
	}
	return cfg, nil
}

func LoadDevBackend(files ...string) (DevBackend, error) {
	var cfg DevBackend
	if err := parse(&cfg, files); err != nil {
		return DevBackend{}, err
	}
	switch cfg.Generator {
	case "fallback":
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return DevBackend{}, errors.New("GEMINI_API_KEY environment variable is required for the gemini generator")
		}
	default:
		return DevBackend{}, fmt.Errorf("unknown DEVBACKEND_GENERATOR %q", cfg.Generator)
	}
	return cfg, nil
}

func parse(target any, files []string) error {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
