// File: pkg/config/store.go
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// EnvPrefix prefixes environment overrides, e.g. PROJECTDUMP_MAX_FILE_SIZE.
const EnvPrefix = "PROJECTDUMP"

// Load reads settings from path. A missing file, malformed JSON or a value
// that cannot be decoded all yield Default(); unknown keys are ignored and
// missing keys keep their defaults.
func Load(path string, logger *zap.Logger) Config {
	if logger == nil {
		logger = zap.NewNop()
	}
	def := Default()

	v := viper.New()
	setDefaults(v, def)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("json")
			if err := v.ReadInConfig(); err != nil {
				logger.Warn("Ignoring unreadable settings file", zap.String("path", path), zap.Error(err))
				return def
			}
			logger.Debug("Loaded settings file", zap.String("path", path))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		logger.Warn("Ignoring undecodable settings", zap.String("path", path), zap.Error(err))
		return def
	}
	return cfg
}

// setDefaults registers every key so that env overrides and partial files
// resolve against the built-in values.
func setDefaults(v *viper.Viper, def Config) {
	v.SetDefault("ignore_hidden", def.IgnoreHidden)
	v.SetDefault("max_file_size", def.MaxFileSize)
	v.SetDefault("encoding", def.Encoding)
	v.SetDefault("errors_policy", string(def.ErrorsPolicy))
	v.SetDefault("follow_symlinks", def.FollowSymlinks)
	v.SetDefault("ignore_dirs", def.IgnoreDirs)
	v.SetDefault("ignore_files", def.IgnoreFiles)
	v.SetDefault("dirs_first_in_tree", def.DirsFirstInTree)
	v.SetDefault("binary_threshold", def.BinaryThreshold)
	v.SetDefault("detect_encoding", def.DetectEncoding)
	v.SetDefault("output_format", string(def.OutputFormat))
	v.SetDefault("theme", def.Theme)
	v.SetDefault("include_collapsed_in_dump", def.IncludeCollapsedInDump)
	v.SetDefault("diff_group_modifier", def.DiffGroupModifier)
	v.SetDefault("diff_copy_flash_duration_ms", def.DiffCopyFlashMS)
}

// Save writes cfg to path as an indented JSON object. The write goes to a
// temporary file that is renamed over path while <path>.lock is held, so a
// concurrent reader never observes a partial file.
func Save(path string, cfg Config, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory %s: %w", dir, err)
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire lock on %s: %w", path, err)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("Failed to release settings lock", zap.String("path", path), zap.Error(err))
		}
	}()

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	logger.Debug("Saved settings", zap.String("path", path))
	return nil
}
