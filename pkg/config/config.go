// File: pkg/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileName is the settings file kept in the user's home directory.
const FileName = ".project_dumper.json"

// ErrInvalid is returned by Validate for a setting outside its allowed range.
var ErrInvalid = errors.New("invalid configuration")

// ErrorsPolicy selects how undecodable byte sequences are handled.
type ErrorsPolicy string

const (
	ErrorsStrict  ErrorsPolicy = "strict"
	ErrorsReplace ErrorsPolicy = "replace"
	ErrorsIgnore  ErrorsPolicy = "ignore"
)

// Format is the output encoding of a dump.
type Format string

const (
	FormatText     Format = "txt"
	FormatMarkdown Format = "md"
	FormatJSON     Format = "json"
)

// Config holds the settings consumed by a scan and by the diff viewer.
// A Config is copied into each scan and never mutated while one runs.
type Config struct {
	IgnoreHidden           bool         `mapstructure:"ignore_hidden" json:"ignore_hidden"`
	MaxFileSize            int64        `mapstructure:"max_file_size" json:"max_file_size"` // 0 = unlimited
	Encoding               string       `mapstructure:"encoding" json:"encoding"`
	ErrorsPolicy           ErrorsPolicy `mapstructure:"errors_policy" json:"errors_policy"`
	FollowSymlinks         bool         `mapstructure:"follow_symlinks" json:"follow_symlinks"`
	IgnoreDirs             []string     `mapstructure:"ignore_dirs" json:"ignore_dirs"`
	IgnoreFiles            []string     `mapstructure:"ignore_files" json:"ignore_files"`
	DirsFirstInTree        bool         `mapstructure:"dirs_first_in_tree" json:"dirs_first_in_tree"`
	BinaryThreshold        float64      `mapstructure:"binary_threshold" json:"binary_threshold"`
	DetectEncoding         bool         `mapstructure:"detect_encoding" json:"detect_encoding"`
	OutputFormat           Format       `mapstructure:"output_format" json:"output_format"`
	Theme                  string       `mapstructure:"theme" json:"theme"`
	IncludeCollapsedInDump bool         `mapstructure:"include_collapsed_in_dump" json:"include_collapsed_in_dump"`
	DiffGroupModifier      string       `mapstructure:"diff_group_modifier" json:"diff_group_modifier"`
	DiffCopyFlashMS        int          `mapstructure:"diff_copy_flash_duration_ms" json:"diff_copy_flash_duration_ms"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		IgnoreHidden:   true,
		MaxFileSize:    512 * 1024,
		Encoding:       "utf-8",
		ErrorsPolicy:   ErrorsReplace,
		FollowSymlinks: false,
		IgnoreDirs: []string{
			".git", "__pycache__", "node_modules", ".venv", "venv", ".idea", ".vscode",
			".mypy_cache", ".pytest_cache", ".tox", "build", "dist", "target", ".cache",
		},
		IgnoreFiles: []string{
			".gitignore", "*.png", "*.jpg", "*.jpeg", "*.gif", "*.webp", "*.ico",
			"*.pdf", "*.zip", "*.tar", "*.gz", "*.7z", "*.rar",
			"*.mp3", "*.wav", "*.ogg", "*.flac",
			"*.mov", "*.mp4", "*.avi", "*.mkv",
			"*.exe", "*.dll", "*.so", "*.bin",
			"*.otf", "*.ttf", "*.woff", "*.woff2",
			"*.pyc", "*.pyo", "*.class", "*.o", "*.a", "*.dylib",
			"*.sqlite*", "*.db",
		},
		DirsFirstInTree:        true,
		BinaryThreshold:        0.30,
		DetectEncoding:         true,
		OutputFormat:           FormatText,
		Theme:                  "light",
		IncludeCollapsedInDump: true,
		DiffGroupModifier:      "Ctrl",
		DiffCopyFlashMS:        350,
	}
}

// DefaultPath returns the per-user settings location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, FileName), nil
}

// Clone returns a copy that shares no slices with c.
func (c Config) Clone() Config {
	out := c
	out.IgnoreDirs = append([]string(nil), c.IgnoreDirs...)
	out.IgnoreFiles = append([]string(nil), c.IgnoreFiles...)
	return out
}

// Validate reports the first setting that a scan cannot run with.
func (c Config) Validate() error {
	if c.MaxFileSize < 0 {
		return fmt.Errorf("%w: max_file_size must not be negative, got %d", ErrInvalid, c.MaxFileSize)
	}
	if c.BinaryThreshold < 0 || c.BinaryThreshold > 1 {
		return fmt.Errorf("%w: binary_threshold must be within [0,1], got %v", ErrInvalid, c.BinaryThreshold)
	}
	if strings.TrimSpace(c.Encoding) == "" {
		return fmt.Errorf("%w: encoding must not be empty", ErrInvalid)
	}
	switch c.ErrorsPolicy {
	case ErrorsStrict, ErrorsReplace, ErrorsIgnore:
	default:
		return fmt.Errorf("%w: errors_policy %q is not one of strict, replace, ignore", ErrInvalid, c.ErrorsPolicy)
	}
	if _, err := ParseFormat(string(c.OutputFormat)); err != nil {
		return err
	}
	if c.DiffCopyFlashMS < 0 {
		return fmt.Errorf("%w: diff_copy_flash_duration_ms must not be negative", ErrInvalid)
	}
	return nil
}

// ParseFormat maps a user supplied name onto a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatText:
		return FormatText, nil
	case FormatMarkdown:
		return FormatMarkdown, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: output_format %q is not one of txt, md, json", ErrInvalid, s)
}
