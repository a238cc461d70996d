// Package pages holds the page objects for the marketing site. Each object
// wraps a playwright.Page and exposes locators plus thin actions; actions
// return errors and assertion helpers report through an *expect.Checker.
package pages

import (
	"log/slog"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/kuitang/site-e2e/internal/errs"
	"github.com/kuitang/site-e2e/internal/locate"
	"github.com/kuitang/site-e2e/internal/nav"
	"github.com/kuitang/site-e2e/internal/obs"
	"github.com/kuitang/site-e2e/internal/urlutil"
)

// VisibleTimeout is how long OpenFromHome-style actions wait for the link
// they are about to click.
const VisibleTimeout = 10 * time.Second

func logger() *slog.Logger { return obs.Pkg("pages") }

// follow clicks link, waits for the URL to reach its href and confirms the
// page ended up there.
func follow(page playwright.Page, link playwright.Locator) (string, error) {
	expected, err := nav.ClickAndWaitHref(page, link, nav.Options{})
	if err != nil {
		return expected, err
	}
	if !urlutil.HasPrefix(expected)(page.URL()) {
		return expected, errs.New(errs.NavigationFailed, "expected URL "+expected+", at "+page.URL())
	}
	return expected, nil
}

// openVisible waits for link to be visible and then follows it.
func openVisible(page playwright.Page, link playwright.Locator, what string) (string, error) {
	if !locate.VisibleWithin(link, VisibleTimeout) {
		return "", errs.New(errs.NotFound, what+" link not visible")
	}
	return follow(page, link)
}
