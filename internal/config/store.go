package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Output formats.
const (
	FormatPDF  = "pdf"
	FormatTIFF = "tiff"
	FormatPNG  = "png"
)

// Settings holds the filter defaults. Environment variables override the
// settings file.
type Settings struct {
	LogLevel      string `json:"logLevel"`
	Format        string `json:"format"`       // "pdf", "tiff" or "png"
	MaxPageBytes  int64  `json:"maxPageBytes"` // 0 = no override
	DefaultDPI    int    `json:"defaultDpi"`
	DrainLiterals bool   `json:"drainLiterals"`
	Compress      *bool  `json:"compress"` // PDF content streams; nil = default (true)
	TempDir       string `json:"tempDir"`
	OutputDir     string `json:"outputDir"` // directory for tiff/png pages
}

// DefaultSettings returns the default filter settings.
func DefaultSettings() Settings {
	return Settings{
		LogLevel:   "info",
		Format:     FormatPDF,
		DefaultDPI: 300,
		OutputDir:  ".",
	}
}

// CompressEnabled reports whether PDF content streams should be
// compressed. Page images are Flate-encoded regardless.
func (s Settings) CompressEnabled() bool {
	return s.Compress == nil || *s.Compress
}

// Level returns the slog level named by LogLevel.
func (s Settings) Level() slog.Level {
	return parseLogLevel(s.LogLevel)
}

// Load reads settings from the JSON file at path. A missing path or file
// yields the defaults; an invalid file is reported and ignored.
func Load(path string) Settings {
	s := DefaultSettings()
	if path == "" {
		return s
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("cannot read settings file, using defaults", "path", path, "err", err)
		}
		return s
	}
	if err := json.Unmarshal(data, &s); err != nil {
		slog.Warn("invalid settings file, using defaults", "path", path, "err", err)
		return DefaultSettings()
	}
	return s
}

// ApplyEnv overlays URF_* variables looked up with getenv onto s.
func (s Settings) ApplyEnv(getenv func(string) string) Settings {
	s.LogLevel = envStr(getenv, "URF_LOG_LEVEL", s.LogLevel)
	s.Format = strings.ToLower(envStr(getenv, "URF_FORMAT", s.Format))
	s.MaxPageBytes = int64(envInt(getenv, "URF_MAX_PAGE_BYTES", int(s.MaxPageBytes)))
	s.DefaultDPI = envInt(getenv, "URF_DEFAULT_DPI", s.DefaultDPI)
	s.DrainLiterals = envBool(getenv, "URF_DRAIN_LITERALS", s.DrainLiterals)
	if v := getenv("URF_COMPRESS"); v != "" {
		c := envBool(getenv, "URF_COMPRESS", s.CompressEnabled())
		s.Compress = &c
	}
	s.TempDir = envStr(getenv, "URF_TMPDIR", s.TempDir)
	s.OutputDir = envStr(getenv, "URF_OUTPUT_DIR", s.OutputDir)
	return s
}

// FromEnv loads the file named by URF_CONFIG and applies the environment.
func FromEnv() Settings {
	return Load(os.Getenv("URF_CONFIG")).ApplyEnv(os.Getenv)
}

func envStr(getenv func(string) string, key, fallback string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(getenv func(string) string, key string, fallback int) int {
	if v := getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		slog.Warn("ignoring invalid integer", "key", key, "value", v)
	}
	return fallback
}

func envBool(getenv func(string) string, key string, fallback bool) bool {
	if v := getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		slog.Warn("ignoring invalid boolean", "key", key, "value", v)
	}
	return fallback
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
