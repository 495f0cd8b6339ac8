// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"golang.org/x/text/language"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// LegacyConfigPath is read when the default file is missing.
	LegacyConfigPath = "perfreport.json"
	// defaultOutputDir is where reports are written when the config omits it.
	defaultOutputDir = "report"
	// defaultLogFile is the log file used when the config omits it.
	defaultLogFile = "perfreport.log"
)

// Config represents the top-level application configuration.
type Config struct {
	OutputDir           string `json:"outputDir,omitempty"`
	Timestamped         bool   `json:"timestamped"`
	HTML                bool   `json:"html"`
	CSV                 bool   `json:"csv"`
	Debug               bool   `json:"debug"`
	PopulateDummyValues bool   `json:"populateDummyValues"`
	Workers             int    `json:"workers,omitempty"`
	Locale              string `json:"locale,omitempty"`
	Timezone            string `json:"timezone,omitempty"`
	Catalog             string `json:"catalog,omitempty"`
	Seed                int64  `json:"seed,omitempty"`
	LogFile             string `json:"logFile,omitempty"`
	ConfigPath          string `json:"-"`
}

// Default returns the configuration used when no file sets a value.
func Default() Config {
	return Config{
		OutputDir: defaultOutputDir,
		HTML:      true,
		CSV:       true,
	}
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return defaultLogFile
}

// OutputDirectory returns the report output directory, applying a default if not set.
func (c Config) OutputDirectory() string {
	if dir := strings.TrimSpace(c.OutputDir); dir != "" {
		return dir
	}
	return defaultOutputDir
}

// WorkerCount returns how many pages may render concurrently.
func (c Config) WorkerCount() int {
	if c.Workers <= 0 {
		return runtime.NumCPU()
	}
	return c.Workers
}

// Location resolves the timezone used for collection times. An empty value
// selects the local zone.
func (c Config) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.Timezone)
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	return loc, nil
}

// LocaleTag resolves the number formatting locale. An empty value selects en-US.
func (c Config) LocaleTag() (language.Tag, error) {
	name := strings.TrimSpace(c.Locale)
	if name == "" {
		return language.AmericanEnglish, nil
	}
	tag, err := language.Parse(name)
	if err != nil {
		return language.Und, fmt.Errorf("invalid locale %q: %w", name, err)
	}
	return tag, nil
}

// Validate reports settings that cannot be used.
func (c Config) Validate() error {
	var errs []error
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.LocaleTag(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ResolvePath returns the config file to read for path. An empty path means
// DefaultConfigPath, which falls back to LegacyConfigPath when missing. The
// error wraps os.ErrNotExist when no file is found.
func ResolvePath(path string) (string, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	_, err := os.Stat(path)
	if err == nil {
		return path, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("could not read config file %q: %w", path, err)
	}
	if path != DefaultConfigPath {
		return "", fmt.Errorf("no configuration file found at %q: %w", path, os.ErrNotExist)
	}

	_, legacyErr := os.Stat(LegacyConfigPath)
	switch {
	case legacyErr == nil:
		return LegacyConfigPath, nil
	case errors.Is(legacyErr, os.ErrNotExist):
		return "", fmt.Errorf("no configuration file found (searched %q and %q): %w", DefaultConfigPath, LegacyConfigPath, os.ErrNotExist)
	}
	return "", fmt.Errorf("could not read config file %q: %w", LegacyConfigPath, legacyErr)
}
