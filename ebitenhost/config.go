package ebitenhost

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix of the environment variables LoadConfig reads,
// for example ARBOR_WIDTH.
const EnvPrefix = "ARBOR"

// Config describes the host window and stage.
type Config struct {
	Title         string  `envconfig:"TITLE" default:"arbor"`
	Width         int     `envconfig:"WIDTH" default:"640"`
	Height        int     `envconfig:"HEIGHT" default:"480"`
	FPS           float64 `envconfig:"FPS" default:"60"`
	Resizable     bool    `envconfig:"RESIZABLE" default:"false"`
	Debug         bool    `envconfig:"DEBUG" default:"false"`
	ScreenshotDir string  `envconfig:"SCREENSHOT_DIR" default:"screenshots"`
	LogLevel      string  `envconfig:"LOG_LEVEL" default:"info"`
}

// DefaultConfig returns the configuration LoadConfig produces from an empty
// environment.
func DefaultConfig() Config {
	return Config{
		Title:         "arbor",
		Width:         640,
		Height:        480,
		FPS:           60,
		ScreenshotDir: "screenshots",
		LogLevel:      "info",
	}
}

// LoadConfig reads the configuration from ARBOR_* environment variables,
// applying defaults for the unset ones.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// Validate reports a configuration the host cannot run with.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", c.Width, c.Height)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("invalid fps %v", c.FPS)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel. An empty value means info.
func (c Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if strings.TrimSpace(c.LogLevel) == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

// NewLogger returns a text logger writing to w at the configured level.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	lvl, err := c.Level()
	if err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}
