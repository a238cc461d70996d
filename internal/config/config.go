// Package config provides centralized configuration for the site e2e suite.
// It loads an optional .env file, reads environment variables, validates them,
// and provides the defaults the suite has always run with (10s actions,
// 30s navigations, all three browser engines).
//
// The same Config drives `go test ./tests/...` and the site-e2e CLI.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultBaseURL = "https://inmoment.com"

	defaultActionTimeout     = 10 * time.Second
	defaultNavigationTimeout = 30 * time.Second
	defaultTestTimeout       = 30 * time.Second
	defaultArtifactsDir      = "test-results"
)

// Artifact capture modes for screenshots, videos and traces.
const (
	ModeOff             = "off"
	ModeOn              = "on"
	ModeOnlyOnFailure   = "only-on-failure"
	ModeRetainOnFailure = "retain-on-failure"
)

// Supported browser engines.
const (
	BrowserChromium = "chromium"
	BrowserFirefox  = "firefox"
	BrowserWebKit   = "webkit"
)

// Viewport is a browser viewport size in CSS pixels.
type Viewport struct {
	Width  int
	Height int
}

func (v Viewport) String() string {
	return fmt.Sprintf("%dx%d", v.Width, v.Height)
}

// Config holds all suite configuration.
type Config struct {
	// Target
	BaseURL   string
	LocalSite bool // If true, tests start the in-process replica site and ignore BaseURL

	// Browser projects
	Browsers []string
	Headless bool
	SlowMo   time.Duration
	Viewport Viewport

	// Timeouts
	ActionTimeout     time.Duration
	NavigationTimeout time.Duration
	TestTimeout       time.Duration

	// Artifacts
	ArtifactsDir string
	Screenshot   string
	Video        string
	Trace        string

	// Smoke crawler pacing
	SmokeRPS   float64
	SmokeBurst int
}

// ValidationError represents a configuration validation error with multiple issues.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("configuration validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// LoadDotEnv loads .env from the working directory if present. Variables that
// are already set in the environment win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("load %s: %w", strings.Join(existing, ", "), err)
	}
	return nil
}

// LoadConfig loads configuration from .env and environment variables.
func LoadConfig() (*Config, error) {
	if err := LoadDotEnv(); err != nil {
		return nil, err
	}
	return FromEnv()
}

// FromEnv builds configuration from the current environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{}

	cfg.BaseURL = strings.TrimRight(getEnvOrDefault("BASE_URL", DefaultBaseURL), "/")
	cfg.LocalSite = parseBoolOrDefault("E2E_LOCAL_SITE", false)

	cfg.Browsers = parseListOrDefault("E2E_BROWSERS", []string{BrowserChromium, BrowserFirefox, BrowserWebKit})
	cfg.Headless = parseBoolOrDefault("HEADLESS", true)
	cfg.SlowMo = parseDurationOrDefault("E2E_SLOWMO", 0)
	cfg.Viewport = parseViewportOrDefault("E2E_VIEWPORT", Viewport{Width: 1280, Height: 720})

	cfg.ActionTimeout = parseDurationOrDefault("E2E_ACTION_TIMEOUT", defaultActionTimeout)
	cfg.NavigationTimeout = parseDurationOrDefault("E2E_NAVIGATION_TIMEOUT", defaultNavigationTimeout)
	cfg.TestTimeout = parseDurationOrDefault("E2E_TEST_TIMEOUT", defaultTestTimeout)

	cfg.ArtifactsDir = getEnvOrDefault("E2E_ARTIFACTS_DIR", defaultArtifactsDir)
	cfg.Screenshot = strings.ToLower(getEnvOrDefault("E2E_SCREENSHOT", ModeOnlyOnFailure))
	cfg.Video = strings.ToLower(getEnvOrDefault("E2E_VIDEO", ModeRetainOnFailure))
	cfg.Trace = strings.ToLower(getEnvOrDefault("E2E_TRACE", ModeOff))

	cfg.SmokeRPS = parseFloat64OrDefault("SMOKE_RPS", 2)
	cfg.SmokeBurst = parseIntOrDefault("SMOKE_BURST", 1)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that all configuration values are usable.
func (c *Config) Validate() error {
	var errs []string

	if !c.LocalSite {
		if c.BaseURL == "" {
			errs = append(errs, "BASE_URL is required (or set E2E_LOCAL_SITE=true)")
		} else if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
			errs = append(errs, "BASE_URL must start with http:// or https://")
		}
	}

	if len(c.Browsers) == 0 {
		errs = append(errs, "E2E_BROWSERS must name at least one browser")
	}
	for _, b := range c.Browsers {
		switch b {
		case BrowserChromium, BrowserFirefox, BrowserWebKit:
		default:
			errs = append(errs, fmt.Sprintf("E2E_BROWSERS: unknown browser %q (want chromium, firefox or webkit)", b))
		}
	}

	if c.ActionTimeout <= 0 {
		errs = append(errs, "E2E_ACTION_TIMEOUT must be positive")
	}
	if c.NavigationTimeout <= 0 {
		errs = append(errs, "E2E_NAVIGATION_TIMEOUT must be positive")
	}
	if c.TestTimeout <= 0 {
		errs = append(errs, "E2E_TEST_TIMEOUT must be positive")
	}
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		errs = append(errs, "E2E_VIEWPORT must be WIDTHxHEIGHT with positive values")
	}

	if !validMode(c.Screenshot, ModeOff, ModeOn, ModeOnlyOnFailure) {
		errs = append(errs, fmt.Sprintf("E2E_SCREENSHOT: unknown mode %q", c.Screenshot))
	}
	if !validMode(c.Video, ModeOff, ModeOn, ModeRetainOnFailure) {
		errs = append(errs, fmt.Sprintf("E2E_VIDEO: unknown mode %q", c.Video))
	}
	if !validMode(c.Trace, ModeOff, ModeOn, ModeRetainOnFailure) {
		errs = append(errs, fmt.Sprintf("E2E_TRACE: unknown mode %q", c.Trace))
	}
	if c.ArtifactsDir == "" && (c.Screenshot != ModeOff || c.Video != ModeOff || c.Trace != ModeOff) {
		errs = append(errs, "E2E_ARTIFACTS_DIR is required when artifacts are captured")
	}

	if c.SmokeRPS <= 0 {
		errs = append(errs, "SMOKE_RPS must be positive")
	}
	if c.SmokeBurst <= 0 {
		errs = append(errs, "SMOKE_BURST must be positive")
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// ActionTimeoutMS returns the action timeout in the milliseconds playwright expects.
func (c *Config) ActionTimeoutMS() float64 {
	return float64(c.ActionTimeout.Milliseconds())
}

// NavigationTimeoutMS returns the navigation timeout in milliseconds.
func (c *Config) NavigationTimeoutMS() float64 {
	return float64(c.NavigationTimeout.Milliseconds())
}

// RecordsVideo reports whether contexts should record video.
func (c *Config) RecordsVideo() bool {
	return c.Video == ModeOn || c.Video == ModeRetainOnFailure
}

// Traces reports whether contexts should record a trace.
func (c *Config) Traces() bool {
	return c.Trace == ModeOn || c.Trace == ModeRetainOnFailure
}

// PrintStartupSummary prints a human-readable summary of the configuration to stderr.
func (c *Config) PrintStartupSummary() {
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "site-e2e")
	if c.LocalSite {
		fmt.Fprintln(os.Stderr, "  Target:    local replica site (E2E_LOCAL_SITE)")
	} else {
		fmt.Fprintf(os.Stderr, "  Target:    %s\n", c.BaseURL)
	}
	fmt.Fprintf(os.Stderr, "  Browsers:  %s (headless=%t)\n", strings.Join(c.Browsers, ", "), c.Headless)
	fmt.Fprintf(os.Stderr, "  Timeouts:  action=%s navigation=%s test=%s\n", c.ActionTimeout, c.NavigationTimeout, c.TestTimeout)
	fmt.Fprintf(os.Stderr, "  Artifacts: %s (screenshot=%s video=%s trace=%s)\n", c.ArtifactsDir, c.Screenshot, c.Video, c.Trace)
	fmt.Fprintln(os.Stderr, "")
}

// Helper functions for parsing environment variables

func validMode(mode string, allowed ...string) bool {
	for _, a := range allowed {
		if mode == a {
			return true
		}
	}
	return false
}

func getEnvOrDefault(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}

func parseIntOrDefault(key string, defaultValue int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func parseFloat64OrDefault(key string, defaultValue float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func parseBoolOrDefault(key string, defaultValue bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func parseListOrDefault(key string, defaultValue []string) []string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return append([]string(nil), defaultValue...)
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseViewportOrDefault(key string, defaultValue Viewport) Viewport {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	w, h, ok := strings.Cut(strings.ToLower(value), "x")
	if !ok {
		return defaultValue
	}
	width, err := strconv.Atoi(strings.TrimSpace(w))
	if err != nil {
		return defaultValue
	}
	height, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil {
		return defaultValue
	}
	return Viewport{Width: width, Height: height}
}
