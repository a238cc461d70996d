// Package browser is the playwright harness shared by every browser test.
// One playwright driver and one browser per configured engine are started
// lazily and reused across tests; each test gets its own context via
// NewSession, with screenshots, video and traces kept according to config.
package browser

import (
	"fmt"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/playwright-community/playwright-go"

	"github.com/kuitang/site-e2e/internal/config"
	"github.com/kuitang/site-e2e/internal/errs"
	"github.com/kuitang/site-e2e/internal/obs"
	"github.com/kuitang/site-e2e/internal/sitefixture"
)

var sharedMu sync.Mutex
var sharedEnv *Env

// Env is the process-wide browser environment.
type Env struct {
	Config *config.Config

	mu        sync.Mutex
	pw        *playwright.Playwright
	pwErr     error
	browsers  map[string]playwright.Browser
	launchErr map[string]error

	site    *httptest.Server
	replica *sitefixture.Site
}

func logger() *slog.Logger { return obs.Pkg("browser") }

// Shared returns the process-wide Env, loading configuration on first use.
// A .env at the repository root is honored as well as one in the package dir.
func Shared(t testing.TB) *Env {
	t.Helper()

	sharedMu.Lock()
	defer sharedMu.Unlock()

	if sharedEnv != nil {
		return sharedEnv
	}
	if err := config.LoadDotEnv(".env", filepath.Join(repositoryRoot(), ".env")); err != nil {
		t.Fatalf("Failed to load .env: %v", err)
	}
	cfg, err := config.FromEnv()
	if err != nil {
		t.Fatalf("Invalid suite configuration: %v", err)
	}
	sharedEnv = NewEnv(cfg)
	return sharedEnv
}

// NewEnv returns an Env for cfg. Nothing is started until first use.
func NewEnv(cfg *config.Config) *Env {
	return &Env{
		Config:    cfg,
		browsers:  make(map[string]playwright.Browser),
		launchErr: make(map[string]error),
	}
}

// Shutdown closes the shared Env. Call it from TestMain after m.Run.
func Shutdown() {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	if sharedEnv == nil {
		return
	}
	sharedEnv.Close()
	sharedEnv = nil
}

// Close stops every browser, the driver and the replica site.
func (env *Env) Close() {
	env.mu.Lock()
	defer env.mu.Unlock()

	for name, b := range env.browsers {
		if err := b.Close(); err != nil {
			logger().Warn("browser close failed", "browser", name, "error", err)
		}
	}
	env.browsers = make(map[string]playwright.Browser)
	if env.pw != nil {
		_ = env.pw.Stop()
		env.pw = nil
	}
	if env.site != nil {
		env.site.Close()
		env.site = nil
		env.replica = nil
	}
}

// Browser returns the shared browser for name, launching it on first use.
// The test is skipped when playwright or that engine is unavailable.
func (env *Env) Browser(t testing.TB, name string) playwright.Browser {
	t.Helper()

	env.mu.Lock()
	defer env.mu.Unlock()

	if b, ok := env.browsers[name]; ok {
		return b
	}
	if err, ok := env.launchErr[name]; ok {
		t.Skip("Could not launch "+name+":", err)
	}

	if env.pw == nil && env.pwErr == nil {
		env.pw, env.pwErr = playwright.Run()
	}
	if env.pwErr != nil {
		t.Skip("Playwright not available:", env.pwErr)
	}

	b, err := Launch(env.pw, env.Config, name)
	if err != nil {
		env.launchErr[name] = err
		t.Skip("Could not launch "+name+":", err)
	}
	env.browsers[name] = b
	return b
}

// Launch starts the named engine with the configured headless and slow-mo
// settings. PLAYWRIGHT_CHROMIUM_EXECUTABLE_PATH points chromium at a system
// Chrome.
func Launch(pw *playwright.Playwright, cfg *config.Config, name string) (playwright.Browser, error) {
	var bt playwright.BrowserType
	switch name {
	case config.BrowserChromium:
		bt = pw.Chromium
	case config.BrowserFirefox:
		bt = pw.Firefox
	case config.BrowserWebKit:
		bt = pw.WebKit
	default:
		return nil, errs.New(errs.InvalidArgument, fmt.Sprintf("unknown browser %q", name))
	}

	opts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
	}
	if cfg.SlowMo > 0 {
		opts.SlowMo = playwright.Float(float64(cfg.SlowMo.Milliseconds()))
	}
	if name == config.BrowserChromium {
		if execPath := os.Getenv("PLAYWRIGHT_CHROMIUM_EXECUTABLE_PATH"); execPath != "" {
			opts.ExecutablePath = playwright.String(execPath)
		}
	}

	b, err := bt.Launch(opts)
	if err != nil {
		return nil, errs.Wrap(errs.Unavailable, "launch "+name, err)
	}
	logger().Info("browser launched", "browser", name, "version", b.Version(), "headless", cfg.Headless)
	return b, nil
}

// Install downloads the playwright driver and the named browsers.
func Install(browsers []string) error {
	if err := playwright.Install(&playwright.RunOptions{Browsers: browsers}); err != nil {
		return errs.Wrap(errs.Unavailable, "install playwright", err)
	}
	return nil
}

// Site returns the in-process replica, starting it on first use.
func (env *Env) Site(t testing.TB) (*sitefixture.Site, string) {
	t.Helper()

	env.mu.Lock()
	defer env.mu.Unlock()

	if env.site == nil {
		srv, site, err := sitefixture.Start()
		if err != nil {
			t.Fatalf("Failed to start replica site: %v", err)
		}
		env.site = srv
		env.replica = site
		logger().Info("replica site started", "url", srv.URL)
	}
	return env.replica, env.site.URL
}

// BaseURL is the site under test: the replica when E2E_LOCAL_SITE is set,
// BASE_URL otherwise.
func (env *Env) BaseURL(t testing.TB) string {
	t.Helper()
	if env.Config.LocalSite {
		_, url := env.Site(t)
		return url
	}
	return env.Config.BaseURL
}

// ForEachBrowser runs fn as a parallel subtest for every configured browser.
func (env *Env) ForEachBrowser(t *testing.T, fn func(t *testing.T, s *Session)) {
	t.Helper()
	for _, name := range env.Config.Browsers {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			fn(t, env.NewSession(t, name))
		})
	}
}

// Run is the usual entry point for a suite test. It skips in -short mode, marks
// the test parallel and runs fn once per browser.
func Run(t *testing.T, fn func(t *testing.T, s *Session)) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	t.Parallel()
	Shared(t).ForEachBrowser(t, fn)
}

func repositoryRoot() string {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return "."
	}
	// internal/browser/browser.go
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
