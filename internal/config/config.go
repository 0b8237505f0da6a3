// Package config loads rview settings from a YAML file and RVIEW_* env vars.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/kk-code-lab/rview/internal/preview"
	"github.com/kk-code-lab/rview/internal/previewer"
)

// Config holds application configuration.
type Config struct {
	Log        LogConfig        `mapstructure:"log"`
	Preview    PreviewConfig    `mapstructure:"preview"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Previewers []previewer.Rule `mapstructure:"previewers"`
}

// LogConfig selects the log level, encoding and destination.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Path   string `mapstructure:"path"`
}

// PreviewConfig tunes previewers and folder loading.
type PreviewConfig struct {
	FolderBatchSize     int           `mapstructure:"folder_batch_size"`
	FolderBatchInterval time.Duration `mapstructure:"folder_batch_interval"`
	MaxBytes            int64         `mapstructure:"max_bytes"`
	TabWidth            int           `mapstructure:"tab_width"`
	SyntaxStyle         string        `mapstructure:"syntax_style"`
	MarkdownStyle       string        `mapstructure:"markdown_style"`
	ShowHidden          bool          `mapstructure:"show_hidden"`
	WatchDebounce       time.Duration `mapstructure:"watch_debounce"`
}

// MetricsConfig enables the Prometheus endpoint when Addr is set.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// New returns a viper instance with defaults and env bindings but no file.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.path", "")
	v.SetDefault("preview.folder_batch_size", 50_000)
	v.SetDefault("preview.folder_batch_interval", 500*time.Millisecond)
	v.SetDefault("preview.max_bytes", 256*1024)
	v.SetDefault("preview.tab_width", 4)
	v.SetDefault("preview.syntax_style", "monokai")
	v.SetDefault("preview.markdown_style", "notty")
	v.SetDefault("preview.show_hidden", false)
	v.SetDefault("preview.watch_debounce", 100*time.Millisecond)
	v.SetDefault("metrics.addr", "")

	v.SetConfigType("yaml")
	v.SetEnvPrefix("RVIEW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// DefaultPath returns $XDG_CONFIG_HOME/rview/config.yaml.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "rview", "config.yaml")
}

// Load reads path into v and decodes the result. An empty path falls back to
// DefaultPath, which may be missing; an explicit path must exist.
func Load(v *viper.Viper, path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			missing := errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
			if explicit || !missing {
				return Config{}, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	return Decode(v)
}

// Decode unmarshals and validates the settings held by v.
func Decode(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if len(c.Previewers) == 0 {
		c.Previewers = previewer.DefaultRules()
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects settings the application cannot run with.
func (c Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log.level %q: %w", c.Log.Level, err)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log.format %q: want console or json", c.Log.Format)
	}

	p := c.Preview
	if p.FolderBatchSize < 1 {
		return fmt.Errorf("preview.folder_batch_size must be positive, got %d", p.FolderBatchSize)
	}
	if p.FolderBatchInterval <= 0 {
		return fmt.Errorf("preview.folder_batch_interval must be positive, got %s", p.FolderBatchInterval)
	}
	if p.MaxBytes < 1 {
		return fmt.Errorf("preview.max_bytes must be positive, got %d", p.MaxBytes)
	}
	if p.TabWidth < 1 || p.TabWidth > 16 {
		return fmt.Errorf("preview.tab_width must be between 1 and 16, got %d", p.TabWidth)
	}
	if p.WatchDebounce < 0 {
		return fmt.Errorf("preview.watch_debounce must not be negative, got %s", p.WatchDebounce)
	}

	for i, rule := range c.Previewers {
		if rule.Run == "" {
			return fmt.Errorf("previewers[%d]: run is required", i)
		}
	}
	return nil
}

// PreviewerOptions maps the preview settings onto builtin previewer options.
func (c Config) PreviewerOptions() previewer.Options {
	return previewer.Options{
		MaxBytes:      c.Preview.MaxBytes,
		TabWidth:      c.Preview.TabWidth,
		SyntaxStyle:   c.Preview.SyntaxStyle,
		MarkdownStyle: c.Preview.MarkdownStyle,
	}
}

// LoaderOptions maps the folder batching settings onto the folder loader.
func (c Config) LoaderOptions() preview.LoaderOptions {
	return preview.LoaderOptions{
		BatchSize:     c.Preview.FolderBatchSize,
		BatchInterval: c.Preview.FolderBatchInterval,
	}
}
