// Package expect adapts playwright's web-first assertions to testing.TB.
//
// Soft assertions record the failure with Errorf and let the test keep going,
// which is how most page checks on the marketing site are written: one missing
// footer block should not hide the state of the other four. Hard assertions
// stop the test with Fatalf.
package expect

import (
	"fmt"
	"log/slog"
	"regexp"
	"sync/atomic"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/kuitang/site-e2e/internal/locate"
	"github.com/kuitang/site-e2e/internal/obs"
)

// DefaultTimeout is how long web-first assertions retry before failing.
const DefaultTimeout = 10 * time.Second

// TB is the subset of testing.TB the checker reports through.
type TB interface {
	Helper()
	Errorf(format string, args ...any)
	Fatalf(format string, args ...any)
	Logf(format string, args ...any)
}

// Checker runs assertions against one test.
type Checker struct {
	t        TB
	timeout  time.Duration
	asserts  playwright.PlaywrightAssertions
	log      *slog.Logger
	failures atomic.Int32
}

// New returns a Checker reporting to t. A zero timeout uses DefaultTimeout and
// a nil logger uses the package logger.
func New(t TB, timeout time.Duration, log *slog.Logger) *Checker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = obs.Pkg("expect")
	}
	return &Checker{
		t:       t,
		timeout: timeout,
		asserts: playwright.NewPlaywrightAssertions(float64(timeout.Milliseconds())),
		log:     log,
	}
}

// SoftFailures returns how many soft assertions have failed so far.
func (c *Checker) SoftFailures() int {
	return int(c.failures.Load())
}

func (c *Checker) report(soft bool, format string, args ...any) {
	c.t.Helper()
	msg := fmt.Sprintf(format, args...)
	if soft {
		c.failures.Add(1)
		c.log.Warn("soft assertion failed", "detail", msg)
		c.t.Errorf("%s", msg)
		return
	}
	c.log.Error("assertion failed", "detail", msg)
	c.t.Fatalf("%s", msg)
}

func (c *Checker) visible(soft bool, loc playwright.Locator, what string) bool {
	c.t.Helper()
	err := c.asserts.Locator(loc.First()).ToBeVisible()
	if err != nil {
		c.report(soft, "expected %s to be visible: %v", what, err)
		return false
	}
	return true
}

// Visible fails the test unless the first match of loc becomes visible.
func (c *Checker) Visible(loc playwright.Locator, what string) {
	c.t.Helper()
	c.visible(false, loc, what)
}

// SoftVisible records a failure unless the first match of loc becomes visible.
func (c *Checker) SoftVisible(loc playwright.Locator, what string) bool {
	c.t.Helper()
	return c.visible(true, loc, what)
}

// Title fails the test unless the page title matches re.
func (c *Checker) Title(page playwright.Page, re *regexp.Regexp) {
	c.t.Helper()
	if err := c.asserts.Page(page).ToHaveTitle(re); err != nil {
		title, _ := page.Title()
		c.report(false, "expected title matching %s, got %q: %v", re, title, err)
	}
}

// URL fails the test unless the page URL matches re.
func (c *Checker) URL(page playwright.Page, re *regexp.Regexp) {
	c.t.Helper()
	if err := c.asserts.Page(page).ToHaveURL(re); err != nil {
		c.report(false, "expected URL matching %s, got %q: %v", re, page.URL(), err)
	}
}

func (c *Checker) notURL(soft bool, page playwright.Page, re *regexp.Regexp) bool {
	c.t.Helper()
	if err := c.asserts.Page(page).Not().ToHaveURL(re); err != nil {
		c.report(soft, "expected URL not matching %s, got %q: %v", re, page.URL(), err)
		return false
	}
	return true
}

// NotURL fails the test if the page URL matches re.
func (c *Checker) NotURL(page playwright.Page, re *regexp.Regexp) {
	c.t.Helper()
	c.notURL(false, page, re)
}

// SoftNotURL records a failure if the page URL matches re.
func (c *Checker) SoftNotURL(page playwright.Page, re *regexp.Regexp) bool {
	c.t.Helper()
	return c.notURL(true, page, re)
}

// Text fails the test unless the first match of loc has exactly text expected
// (a string or *regexp.Regexp).
func (c *Checker) Text(loc playwright.Locator, expected any) {
	c.t.Helper()
	if err := c.asserts.Locator(loc.First()).ToHaveText(expected); err != nil {
		got, _ := loc.First().TextContent()
		c.report(false, "expected text %v, got %q: %v", expected, got, err)
	}
}

// SoftEditable records a failure unless the first match of loc is editable.
func (c *Checker) SoftEditable(loc playwright.Locator, what string) bool {
	c.t.Helper()
	if err := c.asserts.Locator(loc.First()).ToBeEditable(); err != nil {
		c.report(true, "expected %s to be editable: %v", what, err)
		return false
	}
	return true
}

// SoftHeadings soft-checks that a heading containing each name is visible.
func (c *Checker) SoftHeadings(page playwright.Page, names ...string) int {
	c.t.Helper()
	found := 0
	for _, name := range names {
		if c.visible(true, locate.Heading(page, locate.Contains(name)), "heading "+name) {
			found++
		}
	}
	return found
}

// True fails the test when cond is false.
func (c *Checker) True(cond bool, format string, args ...any) {
	c.t.Helper()
	if !cond {
		c.report(false, format, args...)
	}
}

// SoftTrue records a failure when cond is false.
func (c *Checker) SoftTrue(cond bool, format string, args ...any) bool {
	c.t.Helper()
	if !cond {
		c.report(true, format, args...)
	}
	return cond
}

// NoError fails the test when err is non-nil.
func (c *Checker) NoError(err error, what string) {
	c.t.Helper()
	if err != nil {
		c.report(false, "%s: %v", what, err)
	}
}
