package nav_test

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kuitang/site-e2e/internal/browser"
	"github.com/kuitang/site-e2e/internal/config"
	"github.com/kuitang/site-e2e/internal/errs"
	"github.com/kuitang/site-e2e/internal/locate"
	"github.com/kuitang/site-e2e/internal/nav"
)

func TestMain(m *testing.M) {
	code := m.Run()
	browser.Shutdown()
	os.Exit(code)
}

func replicaEnv(t *testing.T) *browser.Env {
	t.Helper()
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
	return env
}

// coveredLink renders a link to target underneath a full-page overlay, so a
// real click never reaches it.
func coveredLink(target string) string {
	return `<html><body>
<a id="go" href="` + target + `">Go</a>
<div style="position:fixed;inset:0;background:rgba(0,0,0,0.5);z-index:10"></div>
</body></html>`
}

func TestToAbsoluteAndHref(t *testing.T) {
	env := replicaEnv(t)
	env.ForEachBrowser(t, func(t *testing.T, s *browser.Session) {
		s.GotoHome()
		assert.Equal(t, s.URL("/platform"), nav.ToAbsolute(s.Page, "/platform"))

		href, err := nav.Href(locate.Link(s.Page, locate.ExactName("Platform")))
		require.NoError(t, err)
		assert.Equal(t, "/platform", href)

		_, err = nav.Href(locate.Link(s.Page, locate.ExactName("No Such Link")))
		require.Error(t, err)
		assert.True(t, errs.Is(err, errs.NotFound))
	})
}

func TestClickAndWaitHref_FollowsHeaderLink(t *testing.T) {
	env := replicaEnv(t)
	env.ForEachBrowser(t, func(t *testing.T, s *browser.Session) {
		s.GotoHome()
		got, err := nav.OpenTopMenu(s.Page, "Resources")
		require.NoError(t, err)
		assert.Equal(t, s.URL("/resources"), got)
		assert.True(t, strings.HasPrefix(s.Page.URL(), got))
	})
}

func TestClickAndWaitHref_FallsBackToDirectNavigation(t *testing.T) {
	env := replicaEnv(t)
	env.ForEachBrowser(t, func(t *testing.T, s *browser.Session) {
		target := s.URL("/solutions")
		require.NoError(t, s.Page.SetContent(coveredLink(target)))

		got, err := nav.ClickAndWaitHref(s.Page, s.Page.Locator("#go"), nav.Options{Timeout: time.Second})
		require.NoError(t, err)
		assert.Equal(t, target, got)
		assert.True(t, strings.HasPrefix(s.Page.URL(), target), "at %s", s.Page.URL())
	})
}

func TestClickAndWaitHref_NoFallbackReportsFailure(t *testing.T) {
	env := replicaEnv(t)
	env.ForEachBrowser(t, func(t *testing.T, s *browser.Session) {
		target := s.URL("/solutions")
		require.NoError(t, s.Page.SetContent(coveredLink(target)))

		_, err := nav.ClickAndWaitHref(s.Page, s.Page.Locator("#go"), nav.Options{Timeout: time.Second, NoFallback: true})
		require.Error(t, err)
		assert.False(t, strings.HasPrefix(s.Page.URL(), target))
	})
}

func TestFollowLinkAndReturn(t *testing.T) {
	env := replicaEnv(t)
	env.ForEachBrowser(t, func(t *testing.T, s *browser.Session) {
		s.GotoHome()
		home := s.Page.URL()

		visited, err := nav.FollowLinkAndReturn(s.Page, locate.ExactName("Partners"), home)
		require.NoError(t, err)
		assert.Equal(t, s.URL("/partners"), visited)
		assert.Equal(t, home, s.Page.URL())
	})
}

func TestGotoHref(t *testing.T) {
	env := replicaEnv(t)
	env.ForEachBrowser(t, func(t *testing.T, s *browser.Session) {
		s.GotoHome()

		got, err := nav.GotoHref(s.Page, locate.Link(s.Page, locate.ExactName("Login")), "")
		require.NoError(t, err)
		assert.Equal(t, s.URL("/login"), got)

		got, err = nav.GotoHref(s.Page, locate.Link(s.Page, locate.ExactName("Careers")), "/partners")
		require.NoError(t, err)
		assert.Equal(t, s.URL("/partners"), got)

		_, err = nav.GotoHref(s.Page, locate.Link(s.Page, locate.ExactName("Careers")), "")
		assert.True(t, errs.Is(err, errs.NotFound))
	})
}
