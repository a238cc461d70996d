// Package smoke checks that the site's top navigation and footer links lead
// somewhere. It opens the home page once, collects the links worth checking
// and then visits each one directly, paced per host.
package smoke

import (
	"context"
	"log/slog"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/kuitang/site-e2e/internal/consent"
	"github.com/kuitang/site-e2e/internal/errs"
	"github.com/kuitang/site-e2e/internal/locate"
	"github.com/kuitang/site-e2e/internal/nav"
	"github.com/kuitang/site-e2e/internal/obs"
	"github.com/kuitang/site-e2e/internal/ratelimit"
	"github.com/kuitang/site-e2e/internal/urlutil"
)

// Target is a link the crawler found on the home page.
type Target struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Result is the outcome of visiting one Target.
type Result struct {
	Name   string `json:"name"`
	URL    string `json:"url"`
	Status int    `json:"status"`
	Title  string `json:"title,omitempty"`
	Err    string `json:"error,omitempty"`
}

// OK reports whether the visit loaded without error and without an HTTP error
// status. A zero status (no response, e.g. a same-document navigation) counts
// as loaded.
func (r Result) OK() bool {
	return r.Err == "" && r.Status < 400
}

// Report summarizes a crawl.
type Report struct {
	BaseURL  string        `json:"base_url"`
	RunID    string        `json:"run_id"`
	Started  time.Time     `json:"started"`
	Duration time.Duration `json:"duration_ns"`
	Results  []Result      `json:"results"`
	Failed   int           `json:"failed"`
}

// OK reports whether every link loaded.
func (r Report) OK() bool {
	return r.Failed == 0
}

// probe is a link to look for on the home page.
type probe struct {
	name    string
	pattern string
}

// TopMenus are the header menus every crawl checks.
var TopMenus = []string{"Solutions", "Platform", "Resources", "Partners"}

var probes = []probe{
	{name: "Request Demo", pattern: `request\s*(a\s*)?demo`},
	{name: "Login", pattern: `login`},
	{name: "Privacy", pattern: `privacy|policy`},
	{name: "Terms", pattern: `terms|legal`},
	{name: "Contact", pattern: `contact`},
}

// Runner crawls one site with one page.
type Runner struct {
	// Limiter paces visits per host. Nil means unpaced.
	Limiter *ratelimit.HostLimiter
	// NavigationTimeout bounds each visit. Zero uses nav.DefaultTimeout.
	NavigationTimeout time.Duration
}

func logger() *slog.Logger { return obs.Pkg("smoke") }

// Run crawls baseURL. The error is non-nil only when the home page itself
// cannot be opened; individual link failures are recorded in the Report.
func (r *Runner) Run(ctx context.Context, page playwright.Page, baseURL string) (report Report, err error) {
	log := obs.From(ctx).With("pkg", "smoke")
	report = Report{
		BaseURL: baseURL,
		RunID:   obs.RunID(),
		Started: time.Now(),
	}
	defer func() { report.Duration = time.Since(report.Started) }()

	home := urlutil.BuildAbsolute(baseURL, "/")
	if err = r.wait(ctx, home); err != nil {
		return report, err
	}
	if err = nav.Goto(page, home, r.NavigationTimeout); err != nil {
		return report, err
	}
	consent.Dismiss(page)
	consent.EnsureRegion(page)

	targets := Collect(page)
	log.Info("smoke targets collected", "base_url", baseURL, "count", len(targets))

	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return report, errs.Wrap(errs.Timeout, "smoke run canceled", err)
		}
		res := r.visit(ctx, page, target)
		if !res.OK() {
			report.Failed++
			log.Warn("smoke link failed", "name", res.Name, "url", res.URL, "status", res.Status, "error", res.Err)
		} else {
			log.Debug("smoke link ok", "name", res.Name, "url", res.URL, "status", res.Status)
		}
		report.Results = append(report.Results, res)
	}
	return report, nil
}

// Collect reads the top menus and sample header and footer links from the
// current page. Links that are missing are skipped and duplicate URLs are
// dropped.
func Collect(page playwright.Page) []Target {
	var targets []Target
	seen := make(map[string]bool)
	add := func(name string, link playwright.Locator) {
		href, err := nav.Href(link)
		if err != nil {
			logger().Debug("smoke link missing", "name", name, "error", err)
			return
		}
		url := nav.ToAbsolute(page, href)
		if seen[url] {
			return
		}
		seen[url] = true
		targets = append(targets, Target{Name: name, URL: url})
	}

	for _, menu := range TopMenus {
		add(menu, locate.Link(page, locate.ExactName(menu)))
	}
	for _, p := range probes {
		add(p.name, locate.Link(page, locate.Pattern(p.pattern)))
	}
	return targets
}

func (r *Runner) visit(ctx context.Context, page playwright.Page, target Target) Result {
	res := Result{Name: target.Name, URL: target.URL}
	if err := r.wait(ctx, target.URL); err != nil {
		res.Err = err.Error()
		return res
	}

	timeout := r.NavigationTimeout
	if timeout <= 0 {
		timeout = nav.DefaultTimeout
	}
	resp, err := page.Goto(target.URL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(float64(timeout.Milliseconds())),
	})
	if err != nil {
		res.Err = errs.FromPlaywright(errs.NavigationFailed, "goto "+target.URL, err).Error()
		return res
	}
	if resp != nil {
		res.Status = resp.Status()
	}
	if title, err := page.Title(); err == nil {
		res.Title = title
	}
	return res
}

func (r *Runner) wait(ctx context.Context, url string) error {
	if r.Limiter == nil {
		return nil
	}
	return r.Limiter.Wait(ctx, url)
}
