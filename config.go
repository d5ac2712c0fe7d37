// FILE: config.go
package ultralog

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/lixenwraith/config"

	"github.com/lixenwraith/ultralog/formatter"
)

// configPrefix is the key namespace used in configuration files
const configPrefix = "ultralog."

// Config holds all logger configuration values
type Config struct {
	// Basic settings
	Name  string `toml:"name"`
	Level int64  `toml:"level"`
	Path  string `toml:"path"` // Destination file, empty disables the file sink

	// Formatting
	ShowTimestamp   bool   `toml:"show_timestamp"`
	TimestampFormat string `toml:"timestamp_format"`

	// File lifecycle
	TruncateFile   bool  `toml:"truncate_file"`    // Empty the destination at construction
	FileBufferSize int64 `toml:"file_buffer_size"` // Write buffer in bytes, 0 = unbuffered
	ForceSync      bool  `toml:"force_sync"`       // fsync after every batch

	// Rotation policy
	EnableRotation    bool   `toml:"enable_rotation"`
	MaxFileSize       int64  `toml:"max_file_size"` // Bytes
	BackupCount       int64  `toml:"backup_count"`
	RotationTimeoutMs int64  `toml:"rotation_timeout_ms"`
	RotateSchedule    string `toml:"rotate_schedule"` // Cron spec for forced rotation

	// Batch writer
	BatchSize       int64 `toml:"batch_size"`
	FlushIntervalMs int64 `toml:"flush_interval_ms"`

	// Shutdown
	ShutdownTimeoutMs   int64 `toml:"shutdown_timeout_ms"`
	WriterJoinTimeoutMs int64 `toml:"writer_join_timeout_ms"`

	// Heartbeat
	HeartbeatIntervalS int64 `toml:"heartbeat_interval_s"` // 0 = disabled

	// Console mirror
	ConsoleOutput bool   `toml:"console_output"`
	ConsoleTarget string `toml:"console_target"` // "stderr" or "stdout"

	// Remote sink
	ServerURL       string `toml:"server_url"`
	AuthToken       string `toml:"auth_token"`
	RemoteTimeoutMs int64  `toml:"remote_timeout_ms"`
	RemoteQueueSize int64  `toml:"remote_queue_size"`
}

// defaultConfig is the single source for all configurable default values
var defaultConfig = Config{
	// Basic settings
	Name:  "UltraLogger",
	Level: LevelDebug,
	Path:  "",

	// Formatting
	ShowTimestamp:   true,
	TimestampFormat: formatter.DefaultTimestampFormat,

	// File lifecycle
	TruncateFile:   false,
	FileBufferSize: 256 * KiB,
	ForceSync:      false,

	// Rotation policy
	EnableRotation:    true,
	MaxFileSize:       10 * MiB,
	BackupCount:       5,
	RotationTimeoutMs: 2000,
	RotateSchedule:    "",

	// Batch writer
	BatchSize:       50,
	FlushIntervalMs: 50,

	// Shutdown
	ShutdownTimeoutMs:   5000,
	WriterJoinTimeoutMs: 1000,

	// Heartbeat
	HeartbeatIntervalS: 0,

	// Console mirror
	ConsoleOutput: true,
	ConsoleTarget: ConsoleStderr,

	// Remote sink
	ServerURL:       "",
	AuthToken:       "",
	RemoteTimeoutMs: 5000,
	RemoteQueueSize: 1024,
}

// DefaultConfig returns a copy of the default configuration
func DefaultConfig() *Config {
	copiedConfig := defaultConfig
	return &copiedConfig
}

// NewConfigFromFile loads configuration from a TOML file and returns a validated Config.
// Keys live under the [ultralog] table; a missing file yields the defaults.
func NewConfigFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	loader := config.New()

	if err := loader.RegisterStruct(configPrefix, *cfg); err != nil {
		return nil, fmt.Errorf("failed to register config struct: %w", err)
	}

	if err := loader.Load(path, nil); err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	if err := extractConfig(loader, configPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to extract config values: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewConfigFromDefaults creates a Config with default values and applies overrides
func NewConfigFromDefaults(overrides map[string]any) (*Config, error) {
	cfg := DefaultConfig()

	if err := applyOverrides(cfg, overrides); err != nil {
		return nil, fmt.Errorf("failed to apply overrides: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// extractConfig extracts values from lixenwraith/config into our Config struct
func extractConfig(loader *config.Config, prefix string, cfg *Config) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tomlTag := field.Tag.Get("toml")
		if tomlTag == "" {
			continue
		}

		val, found := loader.Get(prefix + tomlTag)
		if !found {
			continue
		}

		if err := setFieldValue(v.Field(i), val); err != nil {
			return fmt.Errorf("failed to set field %s: %w", field.Name, err)
		}
	}

	return nil
}

// applyOverrides applies a map of overrides to the Config struct
func applyOverrides(cfg *Config, overrides map[string]any) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	fieldMap := make(map[string]reflect.Value)
	for i := 0; i < t.NumField(); i++ {
		if tomlTag := t.Field(i).Tag.Get("toml"); tomlTag != "" {
			fieldMap[tomlTag] = v.Field(i)
		}
	}

	for key, value := range overrides {
		fieldValue, exists := fieldMap[key]
		if !exists {
			return fmt.Errorf("unknown config key: %s", key)
		}

		if err := setFieldValue(fieldValue, value); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}

	return nil
}

// setFieldValue sets a reflect.Value with proper type conversion
func setFieldValue(field reflect.Value, value any) error {
	switch field.Kind() {
	case reflect.String:
		strVal, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
		field.SetString(strVal)

	case reflect.Int64:
		switch v := value.(type) {
		case int64:
			field.SetInt(v)
		case int:
			field.SetInt(int64(v))
		case float64:
			field.SetInt(int64(v))
		default:
			return fmt.Errorf("expected int64, got %T", value)
		}

	case reflect.Bool:
		boolVal, ok := value.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", value)
		}
		field.SetBool(boolVal)

	default:
		return fmt.Errorf("unsupported field type: %v", field.Kind())
	}

	return nil
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmtErrorf("logger name cannot be empty")
	}

	if strings.TrimSpace(c.TimestampFormat) == "" {
		return fmtErrorf("timestamp_format cannot be empty")
	}

	if c.ConsoleTarget != ConsoleStderr && c.ConsoleTarget != ConsoleStdout {
		return fmtErrorf("invalid console_target: '%s' (use stderr or stdout)", c.ConsoleTarget)
	}

	if c.MaxFileSize <= 0 {
		return fmtErrorf("max_file_size must be positive: %d", c.MaxFileSize)
	}

	if c.BackupCount < 0 {
		return fmtErrorf("backup_count cannot be negative: %d", c.BackupCount)
	}

	if c.FileBufferSize < 0 {
		return fmtErrorf("file_buffer_size cannot be negative: %d", c.FileBufferSize)
	}

	if c.BatchSize <= 0 {
		return fmtErrorf("batch_size must be positive: %d", c.BatchSize)
	}

	if c.FlushIntervalMs <= 0 || c.RotationTimeoutMs <= 0 ||
		c.ShutdownTimeoutMs <= 0 || c.WriterJoinTimeoutMs <= 0 || c.RemoteTimeoutMs <= 0 {
		return fmtErrorf("interval and timeout settings must be positive")
	}

	if c.HeartbeatIntervalS < 0 {
		return fmtErrorf("heartbeat_interval_s cannot be negative: %d", c.HeartbeatIntervalS)
	}

	if c.RemoteQueueSize <= 0 {
		return fmtErrorf("remote_queue_size must be positive: %d", c.RemoteQueueSize)
	}

	if c.RotateSchedule != "" {
		if _, err := parseSchedule(c.RotateSchedule); err != nil {
			return fmtErrorf("invalid rotate_schedule '%s': %w", c.RotateSchedule, err)
		}
	}

	return nil
}

// Validate reports whether the configuration is usable
func (c *Config) Validate() error {
	return c.validate()
}

// Clone creates a copy of the configuration
func (c *Config) Clone() *Config {
	copiedConfig := *c
	return &copiedConfig
}

// remoteEnabled reports whether records are forwarded to a remote endpoint
func (c *Config) remoteEnabled() bool {
	return c.ServerURL != "" && c.AuthToken != ""
}

// ms converts a millisecond setting
func ms(v int64) time.Duration {
	return time.Duration(v) * time.Millisecond
}
