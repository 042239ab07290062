package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func mapEnv(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	valid := filepath.Join(dir, "valid.json")
	os.WriteFile(valid, []byte(`{"format":"tiff","defaultDpi":600,"compress":false}`), 0644)
	invalid := filepath.Join(dir, "invalid.json")
	os.WriteFile(invalid, []byte(`{"format":`), 0644)

	tests := []struct {
		name         string
		path         string
		wantFormat   string
		wantDPI      int
		wantCompress bool
	}{
		{"no_path", "", FormatPDF, 300, true},
		{"missing_file", filepath.Join(dir, "nope.json"), FormatPDF, 300, true},
		{"valid", valid, FormatTIFF, 600, false},
		{"invalid", invalid, FormatPDF, 300, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Load(tt.path)
			if s.Format != tt.wantFormat {
				t.Errorf("Format = %q, want %q", s.Format, tt.wantFormat)
			}
			if s.DefaultDPI != tt.wantDPI {
				t.Errorf("DefaultDPI = %d, want %d", s.DefaultDPI, tt.wantDPI)
			}
			if s.CompressEnabled() != tt.wantCompress {
				t.Errorf("CompressEnabled = %v, want %v", s.CompressEnabled(), tt.wantCompress)
			}
			if s.LogLevel != "info" {
				t.Errorf("LogLevel = %q, want default info", s.LogLevel)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	s := DefaultSettings().ApplyEnv(mapEnv(map[string]string{
		"URF_LOG_LEVEL":      "debug",
		"URF_FORMAT":         "PNG",
		"URF_MAX_PAGE_BYTES": "1048576",
		"URF_DEFAULT_DPI":    "not-a-number",
		"URF_DRAIN_LITERALS": "true",
		"URF_COMPRESS":       "0",
		"URF_TMPDIR":         "/var/tmp",
	}))
	if s.Level() != slog.LevelDebug {
		t.Errorf("Level = %v, want debug", s.Level())
	}
	if s.Format != FormatPNG {
		t.Errorf("Format = %q, want png", s.Format)
	}
	if s.MaxPageBytes != 1<<20 {
		t.Errorf("MaxPageBytes = %d", s.MaxPageBytes)
	}
	if s.DefaultDPI != 300 {
		t.Errorf("DefaultDPI = %d, want 300 kept on bad input", s.DefaultDPI)
	}
	if !s.DrainLiterals {
		t.Error("DrainLiterals not set")
	}
	if s.CompressEnabled() {
		t.Error("CompressEnabled = true, want false")
	}
	if s.TempDir != "/var/tmp" {
		t.Errorf("TempDir = %q", s.TempDir)
	}
	if s.OutputDir != "." {
		t.Errorf("OutputDir = %q, want default", s.OutputDir)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLogLevel(tt.in); got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
