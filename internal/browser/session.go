package browser

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sync/atomic"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/kuitang/site-e2e/internal/config"
	"github.com/kuitang/site-e2e/internal/consent"
	"github.com/kuitang/site-e2e/internal/expect"
	"github.com/kuitang/site-e2e/internal/logutil"
	"github.com/kuitang/site-e2e/internal/nav"
	"github.com/kuitang/site-e2e/internal/obs"
	"github.com/kuitang/site-e2e/internal/urlutil"
)

const contentPreviewChars = 500

// Session is one test's isolated browser context and page.
type Session struct {
	Page    playwright.Page
	Context playwright.BrowserContext
	Browser string
	BaseURL string
	Expect  *expect.Checker
	Log     *slog.Logger
	// Ctx is canceled when the test ends or E2E_TEST_TIMEOUT elapses. When the
	// deadline passes the browser context is closed, so pending page calls fail.
	Ctx context.Context

	t       *testing.T
	cfg     *config.Config
	expired *atomic.Bool
}

// NewSession opens a fresh context on the named browser. Artifacts are
// collected and the context closed in t.Cleanup.
func (env *Env) NewSession(t *testing.T, browserName string) *Session {
	t.Helper()

	b := env.Browser(t, browserName)
	cfg := env.Config
	baseURL := env.BaseURL(t)

	opts := playwright.BrowserNewContextOptions{
		BaseURL:  playwright.String(baseURL),
		Viewport: &playwright.Size{Width: cfg.Viewport.Width, Height: cfg.Viewport.Height},
	}
	if cfg.RecordsVideo() {
		opts.RecordVideo = &playwright.RecordVideo{
			Dir:  filepath.Join(cfg.ArtifactsDir, "videos"),
			Size: &playwright.Size{Width: cfg.Viewport.Width, Height: cfg.Viewport.Height},
		}
	}

	bctx, err := b.NewContext(opts)
	if err != nil {
		t.Fatalf("could not create browser context: %v", err)
	}
	bctx.SetDefaultTimeout(cfg.ActionTimeoutMS())
	bctx.SetDefaultNavigationTimeout(cfg.NavigationTimeoutMS())

	if cfg.Traces() {
		if err := bctx.Tracing().Start(playwright.TracingStartOptions{
			Name:        playwright.String(artifactName(t.Name(), browserName)),
			Screenshots: playwright.Bool(true),
			Snapshots:   playwright.Bool(true),
		}); err != nil {
			t.Logf("tracing not started: %v", err)
		}
	}

	page, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		t.Fatalf("could not create page: %v", err)
	}

	ctx := obs.WithCorrelation(context.Background(), obs.Correlation{
		Test:    t.Name(),
		Browser: browserName,
	})
	ctx, cancel := withTestTimeout(ctx, cfg.TestTimeout)
	log := obs.From(ctx)
	expired, stop := closeOnDeadline(ctx, bctx, log)

	s := &Session{
		Page:    page,
		Context: bctx,
		Browser: browserName,
		BaseURL: baseURL,
		Expect:  expect.New(t, cfg.ActionTimeout, log),
		Log:     log,
		Ctx:     ctx,
		t:       t,
		cfg:     cfg,
		expired: expired,
	}
	t.Cleanup(func() {
		stop()
		if s.expired.Load() {
			t.Errorf("test exceeded E2E_TEST_TIMEOUT (%s); browser context closed", cfg.TestTimeout)
		}
		s.finish()
		cancel()
	})
	return s
}

// withTestTimeout bounds ctx by d. A non-positive d means no deadline.
func withTestTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// closeOnDeadline closes bctx once ctx's deadline passes. Plain cancellation
// at test end leaves bctx alone. expired reports whether the deadline fired.
func closeOnDeadline(ctx context.Context, bctx playwright.BrowserContext, log *slog.Logger) (expired *atomic.Bool, stop func() bool) {
	expired = new(atomic.Bool)
	stop = context.AfterFunc(ctx, func() {
		if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return
		}
		expired.Store(true)
		log.Error("test timeout exceeded, closing browser context")
		if err := bctx.Close(playwright.BrowserContextCloseOptions{
			Reason: playwright.String("test timeout exceeded"),
		}); err != nil {
			log.Warn("context close after timeout failed", "error", err)
		}
	})
	return expired, stop
}

// URL resolves path against the site under test.
func (s *Session) URL(path string) string {
	return urlutil.BuildAbsolute(s.BaseURL, path)
}

// Goto navigates to path on the site under test and fails the test on error.
func (s *Session) Goto(path string) {
	s.t.Helper()
	if err := nav.Goto(s.Page, s.URL(path), s.cfg.NavigationTimeout); err != nil {
		s.t.Fatalf("Failed to navigate to %s: %v", path, err)
	}
}

// GotoHome opens the home page and clears the consent banner and region
// chooser if they show up.
func (s *Session) GotoHome() {
	s.t.Helper()
	s.Goto("/")
	dismissed := consent.Dismiss(s.Page)
	region := consent.EnsureRegion(s.Page)
	s.Log.Debug("home opened", "consent_dismissed", dismissed, "region_selected", region)
}

// WaitForSelector waits for the first match of selector to be visible and
// fails the test with a page preview when it does not appear.
func (s *Session) WaitForSelector(selector string) playwright.Locator {
	s.t.Helper()

	first := s.Page.Locator(selector).First()
	err := first.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(s.cfg.ActionTimeoutMS()),
	})
	if err != nil {
		s.logPage()
		s.t.Fatalf("Failed to wait for selector %s: %v", selector, err)
	}
	return first
}

// BootstrapCounter loads the standalone counter widget into the page.
func (s *Session) BootstrapCounter() {
	s.t.Helper()
	if err := s.Page.SetContent(counterHTML); err != nil {
		s.t.Fatalf("Failed to load counter page: %v", err)
	}
}

const counterHTML = `<!doctype html>
<html>
<head><title>Counter</title></head>
<body>
<main>
  <h1>Counter</h1>
  <button type="button" data-testid="dec" aria-label="Decrement">-</button>
  <span data-testid="count" aria-live="polite">0</span>
  <button type="button" data-testid="inc" aria-label="Increment">+</button>
</main>
<script>
  (() => {
    const out = document.querySelector('[data-testid="count"]');
    let n = 0;
    const render = () => { out.textContent = String(n); };
    document.querySelector('[data-testid="inc"]').addEventListener('click', () => { n++; render(); });
    document.querySelector('[data-testid="dec"]').addEventListener('click', () => { n--; render(); });
  })();
</script>
</body>
</html>`

func (s *Session) logPage() {
	title, _ := s.Page.Title()
	content, _ := s.Page.Content()
	s.t.Logf("Current URL: %s", s.Page.URL())
	s.t.Logf("Current title: %s", title)
	s.t.Logf("Content preview: %s", logutil.TruncateForLog(content, contentPreviewChars))
}

// finish collects artifacts and closes the context. Videos are only final
// once the page is closed, so the handle is taken before Close and saved
// after.
func (s *Session) finish() {
	failed := s.t.Failed()
	name := artifactName(s.t.Name(), s.Browser)

	if keepScreenshot(s.cfg.Screenshot, failed) {
		path := filepath.Join(s.cfg.ArtifactsDir, "screenshots", name+".png")
		if _, err := s.Page.Screenshot(playwright.PageScreenshotOptions{
			Path:     playwright.String(path),
			FullPage: playwright.Bool(true),
		}); err != nil {
			s.Log.Warn("screenshot failed", "path", path, "error", err)
		} else {
			s.t.Logf("screenshot: %s", path)
		}
	}
	if failed {
		s.logPage()
		s.Log.Error("test failed", "url", s.Page.URL(), "soft_failures", s.Expect.SoftFailures())
	}

	if s.cfg.Traces() {
		if keepArtifact(s.cfg.Trace, failed) {
			path := filepath.Join(s.cfg.ArtifactsDir, "traces", name+".zip")
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				s.Log.Warn("trace dir not created", "error", err)
			}
			if err := s.Context.Tracing().Stop(path); err != nil {
				s.Log.Warn("trace not saved", "path", path, "error", err)
			} else {
				s.t.Logf("trace: %s", path)
			}
		} else if err := s.Context.Tracing().Stop(); err != nil {
			s.Log.Debug("trace stop failed", "error", err)
		}
	}

	var video playwright.Video
	if s.cfg.RecordsVideo() {
		video = s.Page.Video()
	}
	if err := s.Context.Close(); err != nil {
		s.Log.Warn("context close failed", "error", err)
	}
	if video == nil {
		return
	}
	if keepArtifact(s.cfg.Video, failed) {
		path := filepath.Join(s.cfg.ArtifactsDir, "videos", name+".webm")
		if err := video.SaveAs(path); err != nil {
			s.Log.Warn("video not saved", "path", path, "error", err)
		} else {
			s.t.Logf("video: %s", path)
		}
	}
	if err := video.Delete(); err != nil {
		s.Log.Debug("video cleanup failed", "error", err)
	}
}

func keepScreenshot(mode string, failed bool) bool {
	return mode == config.ModeOn || (mode == config.ModeOnlyOnFailure && failed)
}

func keepArtifact(mode string, failed bool) bool {
	return mode == config.ModeOn || (mode == config.ModeRetainOnFailure && failed)
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// artifactName turns a test name into a file name unique per browser.
func artifactName(testName, browser string) string {
	return unsafeName.ReplaceAllString(testName, "_") + "-" + browser
}
