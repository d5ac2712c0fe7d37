// FILE: override.go
package ultralog

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ApplyOverride applies "key=value" overrides to the configuration in place.
// All overrides are attempted; the combined error lists every rejected one.
//
// Example:
//
//	cfg := ultralog.DefaultConfig()
//	err := cfg.ApplyOverride(
//	    "path=/var/log/app.log",
//	    "level=warning",
//	    "max_file_size=1048576",
//	)
func (c *Config) ApplyOverride(overrides ...string) error {
	var errs []error

	for _, override := range overrides {
		key, value, err := parseKeyValue(override)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		if err := applyConfigField(c, key, value); err != nil {
			errs = append(errs, err)
		}
	}

	return combineConfigErrors(errs)
}

// ApplyEnv reads one environment variable per configuration key, named by the
// prefix followed by the upper-cased key (ULOG_LEVEL, ULOG_MAX_FILE_SIZE, ...).
// It never fails: a value that does not convert leaves the current setting in
// place and is reported in the returned warnings.
func (c *Config) ApplyEnv(prefix string) []error {
	var warnings []error

	for _, key := range configKeys() {
		raw, ok := os.LookupEnv(prefix + strings.ToUpper(key))
		if !ok {
			continue
		}

		candidate := c.Clone()
		if err := applyConfigField(candidate, key, raw); err != nil {
			warnings = append(warnings, err)
			continue
		}
		*c = *candidate
	}

	return warnings
}

// combineConfigErrors combines multiple configuration errors into a single error.
func combineConfigErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}

	var sb strings.Builder
	sb.WriteString(internalPrefix + "multiple configuration errors:")
	for i, err := range errs {
		fmt.Fprintf(&sb, "\n  %d. %s", i+1, strings.TrimPrefix(err.Error(), internalPrefix))
	}
	return fmt.Errorf("%s", sb.String())
}

// configKeys lists every key accepted by applyConfigField, in table order
func configKeys() []string {
	return []string{
		"name", "level", "path",
		"show_timestamp", "timestamp_format",
		"truncate_file", "file_buffer_size", "force_sync",
		"enable_rotation", "max_file_size", "backup_count", "rotation_timeout_ms", "rotate_schedule",
		"batch_size", "flush_interval_ms",
		"shutdown_timeout_ms", "writer_join_timeout_ms",
		"heartbeat_interval_s",
		"console_output", "console_target",
		"server_url", "auth_token", "remote_timeout_ms", "remote_queue_size",
	}
}

// applyConfigField applies a single key-value override to a Config.
func applyConfigField(cfg *Config, key, value string) error {
	var err error

	switch key {
	// Basic settings
	case "name":
		cfg.Name = value
	case "level":
		var level int64
		if level, err = ParseLevel(value); err != nil {
			return fmtErrorf("invalid level value '%s': %w", value, err)
		}
		cfg.Level = level
	case "path":
		cfg.Path = value

	// Formatting
	case "show_timestamp":
		err = setBool(&cfg.ShowTimestamp, key, value)
	case "timestamp_format":
		cfg.TimestampFormat = value

	// File lifecycle
	case "truncate_file":
		err = setBool(&cfg.TruncateFile, key, value)
	case "file_buffer_size":
		err = setInt(&cfg.FileBufferSize, key, value)
	case "force_sync":
		err = setBool(&cfg.ForceSync, key, value)

	// Rotation policy
	case "enable_rotation":
		err = setBool(&cfg.EnableRotation, key, value)
	case "max_file_size":
		err = setInt(&cfg.MaxFileSize, key, value)
	case "backup_count":
		err = setInt(&cfg.BackupCount, key, value)
	case "rotation_timeout_ms":
		err = setInt(&cfg.RotationTimeoutMs, key, value)
	case "rotate_schedule":
		cfg.RotateSchedule = value

	// Batch writer
	case "batch_size":
		err = setInt(&cfg.BatchSize, key, value)
	case "flush_interval_ms":
		err = setInt(&cfg.FlushIntervalMs, key, value)

	// Shutdown
	case "shutdown_timeout_ms":
		err = setInt(&cfg.ShutdownTimeoutMs, key, value)
	case "writer_join_timeout_ms":
		err = setInt(&cfg.WriterJoinTimeoutMs, key, value)

	// Heartbeat
	case "heartbeat_interval_s":
		err = setInt(&cfg.HeartbeatIntervalS, key, value)

	// Console mirror
	case "console_output":
		err = setBool(&cfg.ConsoleOutput, key, value)
	case "console_target":
		cfg.ConsoleTarget = value

	// Remote sink
	case "server_url":
		cfg.ServerURL = value
	case "auth_token":
		cfg.AuthToken = value
	case "remote_timeout_ms":
		err = setInt(&cfg.RemoteTimeoutMs, key, value)
	case "remote_queue_size":
		err = setInt(&cfg.RemoteQueueSize, key, value)

	default:
		return fmtErrorf("unknown configuration key '%s'", key)
	}

	return err
}

func setBool(dst *bool, key, value string) error {
	boolVal, err := strconv.ParseBool(value)
	if err != nil {
		return fmtErrorf("invalid boolean value for %s '%s': %w", key, value, err)
	}
	*dst = boolVal
	return nil
}

func setInt(dst *int64, key, value string) error {
	intVal, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fmtErrorf("invalid integer value for %s '%s': %w", key, value, err)
	}
	*dst = intVal
	return nil
}
