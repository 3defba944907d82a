package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/badgepress/pkg/errors"
)

func lookupMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestFromEnvDefaults(t *testing.T) {
	got, err := FromEnv(lookupMap(nil))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if diff := cmp.Diff(Default(), got); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
	if got.Addr() != "0.0.0.0:8000" {
		t.Errorf("Addr() = %q", got.Addr())
	}
}

func TestFromEnvOverrides(t *testing.T) {
	got, err := FromEnv(lookupMap(map[string]string{
		EnvUploadDir: "/var/badges/in",
		EnvOutputDir: "/var/badges/out",
		EnvHost:      "127.0.0.1",
		EnvPort:      "9090",
		EnvTemplates: "/etc/badges/templates.toml",
		EnvFont:      "/usr/share/fonts/NotoSansTC-Regular.ttf",
		EnvPageSize:  "A4",
		EnvRedisURL:  "redis://localhost:6379/0",
		EnvReportTTL: "90m",
		EnvReportDir: "  ",

		EnvReportPrefix: "badgepress:staging:",
	}))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	want := Settings{
		UploadDir: "/var/badges/in",
		OutputDir: "/var/badges/out",
		Host:      "127.0.0.1",
		Port:      9090,
		Templates: "/etc/badges/templates.toml",
		Font:      "/usr/share/fonts/NotoSansTC-Regular.ttf",
		PageSize:  "a4",
		RedisURL:  "redis://localhost:6379/0",
		ReportTTL: 90 * time.Minute,

		ReportPrefix: "badgepress:staging:",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("settings mismatch (-want +got):\n%s", diff)
	}
}

func TestFromEnvInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"port not a number", map[string]string{EnvPort: "http"}},
		{"port out of range", map[string]string{EnvPort: "70000"}},
		{"bad ttl", map[string]string{EnvReportTTL: "tomorrow"}},
		{"negative ttl", map[string]string{EnvReportTTL: "-1h"}},
		{"output dir is root", map[string]string{EnvOutputDir: "/"}},
		{"upload dir is cwd", map[string]string{EnvUploadDir: "."}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromEnv(lookupMap(tt.env))
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("FromEnv error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("BADGE_PORT=8123\nBADGE_PAGE_SIZE=a4\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	// Process environment wins over the file.
	t.Setenv(EnvPageSize, "letter")
	t.Setenv(EnvPort, "")
	os.Unsetenv(EnvPort)

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Port != 8123 {
		t.Errorf("Port = %d, want 8123 from .env", got.Port)
	}
	if got.PageSize != "letter" {
		t.Errorf("PageSize = %q, want process value letter", got.PageSize)
	}
}

func TestLoadMissingDotEnv(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Errorf("Load with missing file: %v", err)
	}
}
