// Package locate holds the resilient-locator strategies shared by page objects:
// or-chains of alternative selectors, case-insensitive accessible-name
// patterns, and best-effort actions that report success instead of failing.
package locate

import (
	"log/slog"
	"regexp"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/kuitang/site-e2e/internal/obs"
)

// ARIA roles used across the suite.
var (
	RoleLink       = playwright.AriaRole("link")
	RoleButton     = playwright.AriaRole("button")
	RoleHeading    = playwright.AriaRole("heading")
	RoleBanner     = playwright.AriaRole("banner")
	RoleCombobox   = playwright.AriaRole("combobox")
	RoleOption     = playwright.AriaRole("option")
	RoleArticle    = playwright.AriaRole("article")
	RoleListitem   = playwright.AriaRole("listitem")
	RoleSearchbox  = playwright.AriaRole("searchbox")
	RoleNavigation = playwright.AriaRole("navigation")
	RoleMain       = playwright.AriaRole("main")
)

// ProbeTimeout is how long best-effort helpers wait for something optional.
const ProbeTimeout = 500 * time.Millisecond

func logger() *slog.Logger { return obs.Pkg("locate") }

// Pattern compiles expr as a case-insensitive regular expression.
func Pattern(expr string) *regexp.Regexp {
	return regexp.MustCompile("(?i)" + expr)
}

// ExactName matches an accessible name equal to name, ignoring case.
func ExactName(name string) *regexp.Regexp {
	return regexp.MustCompile("(?i)^" + regexp.QuoteMeta(name) + "$")
}

// Contains matches an accessible name containing name, ignoring case.
func Contains(name string) *regexp.Regexp {
	return regexp.MustCompile("(?i)" + regexp.QuoteMeta(name))
}

// AnyOf chains alternatives with Or so the first strategy that matches wins.
func AnyOf(first playwright.Locator, rest ...playwright.Locator) playwright.Locator {
	loc := first
	for _, alt := range rest {
		loc = loc.Or(alt)
	}
	return loc
}

// Link returns page links whose accessible name matches name.
func Link(page playwright.Page, name any) playwright.Locator {
	return page.GetByRole(RoleLink, playwright.PageGetByRoleOptions{Name: name})
}

// Button returns page buttons whose accessible name matches name.
func Button(page playwright.Page, name any) playwright.Locator {
	return page.GetByRole(RoleButton, playwright.PageGetByRoleOptions{Name: name})
}

// Heading returns page headings whose accessible name matches name.
func Heading(page playwright.Page, name any) playwright.Locator {
	return page.GetByRole(RoleHeading, playwright.PageGetByRoleOptions{Name: name})
}

// Headings returns every heading on the page.
func Headings(page playwright.Page) playwright.Locator {
	return page.GetByRole(RoleHeading)
}

// LinkWithin returns links inside scope whose accessible name matches name.
func LinkWithin(scope playwright.Locator, name any) playwright.Locator {
	return scope.GetByRole(RoleLink, playwright.LocatorGetByRoleOptions{Name: name})
}

// LinkOrButton returns the first link or button inside scope matching name.
// Menus on the site switch between the two depending on viewport.
func LinkOrButton(scope playwright.Locator, name any) playwright.Locator {
	return AnyOf(
		scope.GetByRole(RoleLink, playwright.LocatorGetByRoleOptions{Name: name}),
		scope.GetByRole(RoleButton, playwright.LocatorGetByRoleOptions{Name: name}),
	).First()
}

// TextField finds an input by its label, falling back to its placeholder.
func TextField(page playwright.Page, label *regexp.Regexp) playwright.Locator {
	return AnyOf(
		page.GetByLabel(label),
		page.GetByPlaceholder(label),
	)
}

// SearchBox finds a search input by role, label, placeholder or type.
func SearchBox(page playwright.Page) playwright.Locator {
	search := Pattern(`search`)
	return AnyOf(
		page.GetByRole(RoleSearchbox),
		page.GetByLabel(search),
		page.GetByPlaceholder(search),
		page.Locator(`input[type="search"]`),
	)
}

// MainContent finds the main landmark by tag or role.
func MainContent(page playwright.Page) playwright.Locator {
	return page.Locator(`main, [role="main"]`).First()
}

// Count returns the number of matches, treating errors as zero.
func Count(loc playwright.Locator) int {
	n, err := loc.Count()
	if err != nil {
		return 0
	}
	return n
}

// Present reports whether loc matches at least one element.
func Present(loc playwright.Locator) bool {
	return Count(loc) > 0
}

// VisibleNow reports whether the first match is visible right now.
func VisibleNow(loc playwright.Locator) bool {
	visible, err := loc.First().IsVisible()
	return err == nil && visible
}

// VisibleWithin waits up to timeout for the first match to become visible.
func VisibleWithin(loc playwright.Locator, timeout time.Duration) bool {
	err := loc.First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(ms(timeout)),
	})
	return err == nil
}

// TryClick clicks the first match if it is visible, reporting whether it did.
func TryClick(loc playwright.Locator, timeout time.Duration) bool {
	first := loc.First()
	if !Present(first) || !VisibleNow(first) {
		return false
	}
	if err := first.Click(playwright.LocatorClickOptions{Timeout: playwright.Float(ms(timeout))}); err != nil {
		logger().Debug("best-effort click failed", "error", err)
		return false
	}
	return true
}

// TryFill fills the first match if it is visible, reporting whether it did.
func TryFill(loc playwright.Locator, value string, timeout time.Duration) bool {
	first := loc.First()
	if !VisibleNow(first) {
		return false
	}
	if err := first.Fill(value, playwright.LocatorFillOptions{Timeout: playwright.Float(ms(timeout))}); err != nil {
		logger().Debug("best-effort fill failed", "error", err)
		return false
	}
	return true
}

// FirstVisible returns the first candidate that becomes visible within timeout.
// Each candidate gets an equal share of the budget.
func FirstVisible(timeout time.Duration, candidates ...playwright.Locator) (playwright.Locator, bool) {
	if len(candidates) == 0 {
		return nil, false
	}
	share := timeout / time.Duration(len(candidates))
	if share <= 0 {
		share = time.Millisecond
	}
	for _, c := range candidates {
		if VisibleWithin(c, share) {
			return c.First(), true
		}
	}
	return nil, false
}

func ms(d time.Duration) float64 {
	return float64(d.Milliseconds())
}
