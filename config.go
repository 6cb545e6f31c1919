package tabledb

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/tabledb/internal/storage"
	"github.com/hupe1980/tabledb/resource"
)

// ErrConfig indicates an invalid configuration file.
var ErrConfig = errors.New("invalid config")

// Config is the file form of the table options.
//
// Example:
//
//	block_capacity: 8192
//	blocks_per_segment: 1024
//	log:
//	  level: debug
//	  format: json
//	resources:
//	  memory_limit_bytes: 1073741824
//	  max_scan_workers: 4
//	  io_limit_bytes_per_sec: 10485760
type Config struct {
	BlockCapacity    int            `yaml:"block_capacity"`
	BlocksPerSegment int            `yaml:"blocks_per_segment"`
	Log              LogConfig      `yaml:"log"`
	Resources        ResourceConfig `yaml:"resources"`
}

// LogConfig selects the logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error. Empty disables logging.
	Level string `yaml:"level"`
	// Format is text (default) or json.
	Format string `yaml:"format"`
}

// ResourceConfig mirrors resource.Config.
type ResourceConfig struct {
	MemoryLimitBytes   int64 `yaml:"memory_limit_bytes"`
	MaxScanWorkers     int   `yaml:"max_scan_workers"`
	IOLimitBytesPerSec int64 `yaml:"io_limit_bytes_per_sec"`
}

// LoadConfig reads a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML config. Unknown keys are rejected.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.BlockCapacity < 0 {
		return fmt.Errorf("%w: block_capacity must not be negative", ErrConfig)
	}
	if c.BlocksPerSegment < 0 {
		return fmt.Errorf("%w: blocks_per_segment must not be negative", ErrConfig)
	}
	layout := storage.Options{BlockCapacity: c.BlockCapacity, BlocksPerSegment: c.BlocksPerSegment}
	if err := layout.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrConfig, err)
	}
	if c.Resources.MemoryLimitBytes < 0 || c.Resources.MaxScanWorkers < 0 || c.Resources.IOLimitBytesPerSec < 0 {
		return fmt.Errorf("%w: resource limits must not be negative", ErrConfig)
	}
	if _, err := c.Log.level(); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: unknown log format %q", ErrConfig, c.Log.Format)
	}
	return nil
}

func (l LogConfig) level() (slog.Level, error) {
	var lvl slog.Level
	if l.Level == "" {
		return lvl, nil
	}
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return lvl, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	return lvl, nil
}

// Logger builds the configured logger, NoopLogger if no level is set.
func (l LogConfig) Logger() *Logger {
	if l.Level == "" {
		return NoopLogger()
	}
	lvl, _ := l.level()
	if strings.EqualFold(l.Format, "json") {
		return NewJSONLogger(lvl)
	}
	return NewTextLogger(lvl)
}

// Options converts the config into table options. A resource controller is
// created only when a limit is set.
func (c *Config) Options() []Option {
	opts := []Option{
		WithBlockCapacity(c.BlockCapacity),
		WithBlocksPerSegment(c.BlocksPerSegment),
		WithLogger(c.Log.Logger()),
	}
	if c.Resources != (ResourceConfig{}) {
		opts = append(opts, WithResourceController(resource.NewController(resource.Config(c.Resources))))
	}
	return opts
}
