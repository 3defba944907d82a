// Package config loads runtime settings from the environment.
//
// Settings are read from BADGE_* environment variables after an optional
// .env file has been loaded into the environment. Variables already set in
// the process environment take precedence over the file.
//
//	BADGE_UPLOAD_DIR   ./upload_files       where uploaded rosters are saved
//	BADGE_OUTPUT_DIR   ./generated_images   where badges are rendered
//	BADGE_HOST         0.0.0.0              HTTP listen host
//	BADGE_PORT         8000                 HTTP listen port
//	BADGE_TEMPLATES    (embedded table)     template table TOML file
//	BADGE_FONT         (Go Regular)         TrueType font file
//	BADGE_PAGE_SIZE    letter               PDF page size (letter, a4)
//	BADGE_REDIS_URL    (none)               Redis report store
//	BADGE_REPORT_DIR   (none)               file report store, when no Redis URL
//	BADGE_REPORT_TTL   24h                  report lifetime
//	BADGE_REPORT_PREFIX (none)              key prefix for a shared report store
package config

import (
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/matzehuels/badgepress/pkg/errors"
)

// Environment variable names.
const (
	EnvUploadDir = "BADGE_UPLOAD_DIR"
	EnvOutputDir = "BADGE_OUTPUT_DIR"
	EnvHost      = "BADGE_HOST"
	EnvPort      = "BADGE_PORT"
	EnvTemplates = "BADGE_TEMPLATES"
	EnvFont      = "BADGE_FONT"
	EnvPageSize  = "BADGE_PAGE_SIZE"
	EnvRedisURL  = "BADGE_REDIS_URL"
	EnvReportDir = "BADGE_REPORT_DIR"
	EnvReportTTL = "BADGE_REPORT_TTL"

	EnvReportPrefix = "BADGE_REPORT_PREFIX"
)

// Defaults.
const (
	DefaultUploadDir = "./upload_files"
	DefaultOutputDir = "./generated_images"
	DefaultHost      = "0.0.0.0"
	DefaultPort      = 8000
	DefaultPageSize  = "letter"
	DefaultReportTTL = 24 * time.Hour
)

// Settings holds the resolved configuration.
type Settings struct {
	UploadDir string
	OutputDir string
	Host      string
	Port      int
	Templates string // empty selects the embedded table
	Font      string // empty selects the bundled typeface
	PageSize  string
	RedisURL  string
	ReportDir string
	ReportTTL time.Duration

	// ReportPrefix scopes report keys when deployments share one store.
	ReportPrefix string
}

// Default returns the settings used when nothing is configured.
func Default() Settings {
	return Settings{
		UploadDir: DefaultUploadDir,
		OutputDir: DefaultOutputDir,
		Host:      DefaultHost,
		Port:      DefaultPort,
		PageSize:  DefaultPageSize,
		ReportTTL: DefaultReportTTL,
	}
}

// Load reads the given .env files (default ".env") into the environment and
// returns settings from it. Missing .env files are ignored; malformed ones
// and invalid values are INVALID_CONFIG errors.
func Load(envFiles ...string) (Settings, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return Settings{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load %s", f)
		}
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds settings from a lookup function such as os.LookupEnv.
func FromEnv(lookup func(string) (string, bool)) (Settings, error) {
	s := Default()
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get(EnvUploadDir); ok {
		s.UploadDir = v
	}
	if v, ok := get(EnvOutputDir); ok {
		s.OutputDir = v
	}
	if v, ok := get(EnvHost); ok {
		s.Host = v
	}
	if v, ok := get(EnvPort); ok {
		port, err := strconv.Atoi(v)
		if err != nil || port < 1 || port > 65535 {
			return Settings{}, errors.New(errors.ErrCodeInvalidConfig, "%s: invalid port %q", EnvPort, v)
		}
		s.Port = port
	}
	if v, ok := get(EnvTemplates); ok {
		s.Templates = v
	}
	if v, ok := get(EnvFont); ok {
		s.Font = v
	}
	if v, ok := get(EnvPageSize); ok {
		s.PageSize = strings.ToLower(v)
	}
	if v, ok := get(EnvRedisURL); ok {
		s.RedisURL = v
	}
	if v, ok := get(EnvReportDir); ok {
		s.ReportDir = v
	}
	if v, ok := get(EnvReportTTL); ok {
		ttl, err := time.ParseDuration(v)
		if err != nil || ttl <= 0 {
			return Settings{}, errors.New(errors.ErrCodeInvalidConfig, "%s: invalid duration %q", EnvReportTTL, v)
		}
		s.ReportTTL = ttl
	}
	if v, ok := get(EnvReportPrefix); ok {
		s.ReportPrefix = v
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks that the working directories are safe to clear and write.
func (s Settings) Validate() error {
	if err := errors.ValidateDir(s.UploadDir); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", EnvUploadDir)
	}
	if err := errors.ValidateDir(s.OutputDir); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", EnvOutputDir)
	}
	return nil
}

// Addr returns the HTTP listen address.
func (s Settings) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}
