// Package consent clears the cookie banner and region chooser that cover the
// site on first load. Everything here is best effort: a page without a banner
// is the normal case on repeat visits.
package consent

import (
	"log/slog"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/kuitang/site-e2e/internal/locate"
	"github.com/kuitang/site-e2e/internal/obs"
	"github.com/kuitang/site-e2e/internal/urlutil"
)

const (
	acceptWait   = 500 * time.Millisecond
	acceptClick  = time.Second
	regionWait   = 500 * time.Millisecond
	regionClick  = 2 * time.Second
	settleLoaded = 3 * time.Second
)

// AcceptSelectors are tried in order; only the first visible one is clicked.
var AcceptSelectors = []string{
	`button#onetrust-accept-btn-handler`,
	`button[aria-label*="accept" i]`,
	`button:has-text("Accept All")`,
	`button:has-text("Accept")`,
	`button:has-text("Agree")`,
	`button:has-text("Got it")`,
	`button:has-text("I agree")`,
	`button:has-text("Allow all")`,
	`button:has-text("OK")`,
	`[role="button"]:has-text("Accept")`,
	`a:has-text("Accept")`,
}

// zapScript removes consent containers that keep intercepting pointer events
// after the banner itself is accepted.
const zapScript = `() => {
  for (const id of ['onetrust-consent-sdk', 'ot-sdk-cookie-policy']) {
    const el = document.getElementById(id);
    if (el) el.remove();
  }
  const sel = ['.onetrust-pc-dark-filter', '.ot-floating-button', '.ot-sdk-container', '.ot-sdk-row', '.ot-sdk-four'];
  for (const s of sel) {
    document.querySelectorAll(s).forEach(el => el.remove());
  }
}`

func logger() *slog.Logger { return obs.Pkg("consent") }

// Dismiss accepts the cookie banner if one shows up, then removes leftover
// overlays. It waits once, briefly, for any accept control, then clicks the
// first visible selector in order and stops there even if the click fails.
// It reports whether the click went through.
func Dismiss(page playwright.Page) bool {
	clicked := false
	if locate.VisibleWithin(page.Locator(strings.Join(AcceptSelectors, ", ")), acceptWait) {
		for _, sel := range AcceptSelectors {
			btn := page.Locator(sel).First()
			if !locate.VisibleNow(btn) {
				continue
			}
			err := btn.Click(playwright.LocatorClickOptions{Timeout: playwright.Float(float64(acceptClick.Milliseconds()))})
			if err != nil {
				logger().Debug("consent click failed", "selector", sel, "error", err)
			} else {
				logger().Debug("consent accepted", "selector", sel)
			}
			clicked = err == nil
			break
		}
	}
	if err := ZapOverlays(page); err != nil {
		logger().Debug("overlay removal failed", "error", err)
	}
	return clicked
}

// EnsureRegion picks the United States / Canada (English) site when the region
// chooser is showing. It reports whether a choice was clicked.
func EnsureRegion(page playwright.Page) bool {
	candidates := []playwright.Locator{
		locate.Link(page, locate.Pattern(`united\s*states\/?canada\s*\(english\)`)),
		locate.Button(page, locate.Pattern(`united\s*states|canada`)),
	}
	if origin := urlutil.Origin(page.URL()); origin != "" {
		candidates = append(candidates, page.Locator(`a[href="`+origin+`"]`))
	}

	choice, ok := locate.FirstVisible(regionWait*time.Duration(len(candidates)), candidates...)
	if !ok {
		return false
	}
	if err := choice.Click(playwright.LocatorClickOptions{Timeout: playwright.Float(float64(regionClick.Milliseconds()))}); err != nil {
		logger().Debug("region click failed", "error", err)
		return false
	}
	if err := page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateDomcontentloaded,
		Timeout: playwright.Float(float64(settleLoaded.Milliseconds())),
	}); err != nil {
		logger().Debug("region load wait failed", "error", err)
	}
	return true
}

// ZapOverlays removes consent containers from the DOM.
func ZapOverlays(page playwright.Page) error {
	_, err := page.Evaluate(zapScript)
	return err
}
