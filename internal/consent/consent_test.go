package consent_test

import (
	"os"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kuitang/site-e2e/internal/browser"
	"github.com/kuitang/site-e2e/internal/config"
	"github.com/kuitang/site-e2e/internal/consent"
	"github.com/kuitang/site-e2e/internal/locate"
)

func TestMain(m *testing.M) {
	code := m.Run()
	browser.Shutdown()
	os.Exit(code)
}

func TestAcceptSelectors_OneTrustFirst(t *testing.T) {
	require.NotEmpty(t, consent.AcceptSelectors)
	assert.Equal(t, `button#onetrust-accept-btn-handler`, consent.AcceptSelectors[0])
}

func TestFirstVisit(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	env := browser.NewEnv(&config.Config{
		LocalSite:         true,
		Browsers:          []string{config.BrowserChromium},
		Headless:          true,
		Viewport:          config.Viewport{Width: 1280, Height: 720},
		ActionTimeout:     5 * time.Second,
		NavigationTimeout: 5 * time.Second,
		TestTimeout:       time.Minute,
		Screenshot:        config.ModeOff,
		Video:             config.ModeOff,
		Trace:             config.ModeOff,
	})
	t.Cleanup(env.Close)

	env.ForEachBrowser(t, func(t *testing.T, s *browser.Session) {
		_, err := s.Page.Goto(s.URL("/"), playwright.PageGotoOptions{WaitUntil: playwright.WaitUntilStateDomcontentloaded})
		require.NoError(t, err)
		require.True(t, locate.VisibleWithin(s.Page.Locator("#onetrust-banner-sdk"), 5*time.Second), "banner should show on first visit")

		assert.True(t, consent.Dismiss(s.Page))
		assert.Zero(t, locate.Count(s.Page.Locator("#onetrust-consent-sdk")))

		assert.True(t, consent.EnsureRegion(s.Page))
		require.NoError(t, s.Page.Locator("#region-chooser").WaitFor(playwright.LocatorWaitForOptions{
			State: playwright.WaitForSelectorStateDetached,
		}))

		// Both choices are remembered in cookies.
		_, err = s.Page.Goto(s.URL("/"), playwright.PageGotoOptions{WaitUntil: playwright.WaitUntilStateDomcontentloaded})
		require.NoError(t, err)
		assert.False(t, consent.Dismiss(s.Page))
		assert.False(t, consent.EnsureRegion(s.Page))
	})
}

func blankEnv(t *testing.T) *browser.Env {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	env := browser.NewEnv(&config.Config{
		Browsers:          []string{config.BrowserChromium},
		Headless:          true,
		Viewport:          config.Viewport{Width: 800, Height: 600},
		ActionTimeout:     2 * time.Second,
		NavigationTimeout: 2 * time.Second,
		TestTimeout:       30 * time.Second,
		BaseURL:           "http://127.0.0.1",
		Screenshot:        config.ModeOff,
		Video:             config.ModeOff,
		Trace:             config.ModeOff,
	})
	t.Cleanup(env.Close)
	return env
}

func TestZapOverlays_EmptyPage(t *testing.T) {
	blankEnv(t).ForEachBrowser(t, func(t *testing.T, s *browser.Session) {
		require.NoError(t, s.Page.SetContent(`<div class="ot-floating-button">x</div><p>ok</p>`))
		require.NoError(t, consent.ZapOverlays(s.Page))
		assert.Zero(t, locate.Count(s.Page.Locator(".ot-floating-button")))
		assert.Equal(t, 1, locate.Count(s.Page.Locator("p")))
	})
}

func TestDismiss_NoBannerReturnsQuickly(t *testing.T) {
	blankEnv(t).ForEachBrowser(t, func(t *testing.T, s *browser.Session) {
		require.NoError(t, s.Page.SetContent(`<main><h1>No banner</h1></main>`))

		start := time.Now()
		assert.False(t, consent.Dismiss(s.Page))
		assert.Less(t, time.Since(start), 3*time.Second)
	})
}

func TestDismiss_StopsAtFirstVisibleSelector(t *testing.T) {
	blankEnv(t).ForEachBrowser(t, func(t *testing.T, s *browser.Session) {
		// The OneTrust button is visible but never enabled, so its click times
		// out. The later OK button must be left alone.
		require.NoError(t, s.Page.SetContent(`<div>
  <button id="onetrust-accept-btn-handler" disabled>Accept All</button>
  <button id="ok" onclick="document.body.dataset.ok = '1'">OK</button>
</div>`))

		assert.False(t, consent.Dismiss(s.Page))
		ok, err := s.Page.Locator("body").GetAttribute("data-ok")
		require.NoError(t, err)
		assert.Empty(t, ok, "OK button should not have been clicked")
	})
}
