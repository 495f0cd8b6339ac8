// internal/appconfig/appconfig_test.go
package appconfig

import (
	"bytes"
	"runtime"
	"strings"
	"testing"

	"golang.org/x/text/language"
)

func TestDefaults(t *testing.T) {
	var cfg Config
	if cfg.LogFilePath() != "perfreport.log" {
		t.Fatalf("unexpected default log file %q", cfg.LogFilePath())
	}
	if cfg.OutputDirectory() != "report" {
		t.Fatalf("unexpected default output dir %q", cfg.OutputDirectory())
	}
	if cfg.WorkerCount() != runtime.NumCPU() {
		t.Fatalf("expected NumCPU workers, got %d", cfg.WorkerCount())
	}
	if tag, err := cfg.LocaleTag(); err != nil || tag != language.AmericanEnglish {
		t.Fatalf("expected en-US, got %v (%v)", tag, err)
	}
	if loc, err := cfg.Location(); err != nil || loc.String() != "Local" {
		t.Fatalf("expected the local zone, got %v (%v)", loc, err)
	}
	if d := Default(); !d.HTML || !d.CSV {
		t.Fatalf("html and csv should default on: %+v", d)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"defaults", Default(), ""},
		{"negative workers", Config{Workers: -1}, "workers must not be negative"},
		{"bad locale", Config{Locale: "not a locale!"}, "invalid locale"},
		{"bad timezone", Config{Timezone: "Nowhere/City"}, "invalid timezone"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestShowConfig(t *testing.T) {
	var buf bytes.Buffer
	ShowConfig(&buf, "", nil, Config{OutputDir: "fallback", Workers: 2, Timezone: "UTC"})
	out := buf.String()
	for _, want := range []string{
		"No config file loaded (using defaults).",
		"Output Dir:            fallback",
		"Workers:               2",
		"Locale:                en-US",
		"Timezone:              UTC",
		"(embedded desktop)",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("ShowConfig output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	ShowConfig(&buf, "config/config.json", &Config{Catalog: "mobile.yaml", Seed: 7}, Config{})
	out = buf.String()
	if !strings.Contains(out, "Config file: config/config.json") || !strings.Contains(out, "Catalog:               mobile.yaml") || !strings.Contains(out, "Seed:                  7") {
		t.Fatalf("unexpected ShowConfig output:\n%s", out)
	}
}
