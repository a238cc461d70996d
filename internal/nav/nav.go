// Package nav resolves link targets and moves between pages. Every click is
// paired with a wait on the resolved href and, unless disabled, a direct
// navigation to that href when the click does not land.
package nav

import (
	"log/slog"
	"regexp"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/kuitang/site-e2e/internal/errs"
	"github.com/kuitang/site-e2e/internal/locate"
	"github.com/kuitang/site-e2e/internal/obs"
	"github.com/kuitang/site-e2e/internal/urlutil"
)

// DefaultTimeout bounds clicks and URL waits when Options.Timeout is zero.
const DefaultTimeout = 10 * time.Second

// Options tune ClickAndWaitHref. The zero value clicks with DefaultTimeout and
// falls back to direct navigation.
type Options struct {
	Timeout    time.Duration
	NoFallback bool
}

func (o Options) timeout() time.Duration {
	if o.Timeout <= 0 {
		return DefaultTimeout
	}
	return o.Timeout
}

func logger() *slog.Logger { return obs.Pkg("nav") }

// ToAbsolute resolves href against the page's current URL.
func ToAbsolute(page playwright.Page, href string) string {
	return urlutil.Resolve(page.URL(), href)
}

// Href reads the href of the first match. A missing attribute reads as "".
func Href(link playwright.Locator) (string, error) {
	first := link.First()
	if !locate.Present(first) {
		return "", errs.New(errs.NotFound, "link not found")
	}
	href, err := first.GetAttribute("href")
	if err != nil {
		return "", errs.FromPlaywright(errs.NotFound, "read href", err)
	}
	return href, nil
}

// Goto navigates directly to url and waits for DOMContentLoaded.
func Goto(page playwright.Page, url string, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	_, err := page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(float64(timeout.Milliseconds())),
	})
	if err != nil {
		return errs.FromPlaywright(errs.NavigationFailed, "goto "+url, err)
	}
	return nil
}

// ClickAndWaitHref clicks link and waits until the page URL starts with the
// link's resolved href. It returns the resolved href.
func ClickAndWaitHref(page playwright.Page, link playwright.Locator, opts Options) (string, error) {
	href, err := Href(link)
	if err != nil {
		return "", err
	}
	expected := ToAbsolute(page, href)
	timeout := opts.timeout()
	ms := playwright.Float(float64(timeout.Milliseconds()))

	clickErr := link.First().Click(playwright.LocatorClickOptions{Timeout: ms})
	if clickErr == nil {
		clickErr = page.WaitForURL(urlutil.HasPrefix(expected), playwright.PageWaitForURLOptions{
			Timeout:   ms,
			WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		})
	}
	if clickErr == nil {
		return expected, nil
	}
	if opts.NoFallback {
		return expected, errs.FromPlaywright(errs.NavigationFailed, "click "+expected, clickErr)
	}

	logger().Debug("click did not land, navigating directly", "href", expected, "error", clickErr)
	if err := Goto(page, expected, timeout); err != nil {
		return expected, err
	}
	return expected, nil
}

// ClickRoleAndWaitHref is ClickAndWaitHref for the first element with role
// whose accessible name matches name.
func ClickRoleAndWaitHref(page playwright.Page, role playwright.AriaRole, name any) (string, error) {
	loc := page.GetByRole(role, playwright.PageGetByRoleOptions{Name: name})
	return ClickAndWaitHref(page, loc, Options{})
}

// OpenTopMenu follows the header link whose accessible name is exactly name.
func OpenTopMenu(page playwright.Page, name string) (string, error) {
	return ClickRoleAndWaitHref(page, locate.RoleLink, locate.ExactName(name))
}

// FollowLinkAndReturn opens the link named name and then goes back to
// returnURL. The visited URL is returned.
func FollowLinkAndReturn(page playwright.Page, name *regexp.Regexp, returnURL string) (string, error) {
	visited, err := ClickAndWaitHref(page, locate.Link(page, name), Options{})
	if err != nil {
		return visited, err
	}
	if err := Goto(page, returnURL, DefaultTimeout); err != nil {
		return visited, err
	}
	return visited, nil
}

// GotoHref navigates to link's href without clicking. When the link is absent
// or has no href, fallbackPath is used instead. An empty fallbackPath makes a
// missing link an error.
func GotoHref(page playwright.Page, link playwright.Locator, fallbackPath string) (string, error) {
	href, err := Href(link)
	if err != nil || href == "" {
		if fallbackPath == "" {
			if err == nil {
				err = errs.New(errs.NotFound, "link has no href")
			}
			return "", err
		}
		href = fallbackPath
	}
	target := ToAbsolute(page, href)
	return target, Goto(page, target, DefaultTimeout)
}
