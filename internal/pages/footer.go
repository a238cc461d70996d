package pages

import (
	"regexp"

	"github.com/playwright-community/playwright-go"

	"github.com/kuitang/site-e2e/internal/expect"
	"github.com/kuitang/site-e2e/internal/locate"
	"github.com/kuitang/site-e2e/internal/nav"
)

// Footer is the site footer, present on every page.
type Footer struct {
	Page   playwright.Page
	Footer playwright.Locator
}

// CommonBlocks are the footer block headings.
var CommonBlocks = []*regexp.Regexp{
	locate.Pattern(`services`),
	locate.Pattern(`applications?`),
	locate.Pattern(`plans`),
	locate.Pattern(`packages`),
	locate.Pattern(`customer\s*service`),
}

// SampleLinks are footer links worth following on any page.
var SampleLinks = []*regexp.Regexp{
	locate.Pattern(`privacy|policy`),
	locate.Pattern(`terms|legal`),
	locate.Pattern(`contact`),
}

func NewFooter(page playwright.Page) *Footer {
	return &Footer{Page: page, Footer: page.Locator("footer")}
}

// ScrollToFooter scrolls the footer into view and soft-checks it is visible.
func (f *Footer) ScrollToFooter(c *expect.Checker) bool {
	if err := f.Footer.First().ScrollIntoViewIfNeeded(); err != nil {
		logger().Debug("footer scroll failed", "error", err)
	}
	return c.SoftVisible(f.Footer, "footer")
}

// Link returns footer links whose accessible name matches name.
func (f *Footer) Link(name any) playwright.Locator {
	return locate.LinkWithin(f.Footer, name)
}

// FollowAndAssert follows the footer link named exactly name. A link without
// an href is skipped and reported as "".
func (f *Footer) FollowAndAssert(name string) (string, error) {
	link := f.Link(locate.ExactName(name))
	if href, err := nav.Href(link); err != nil || href == "" {
		return "", nil
	}
	return follow(f.Page, link)
}

// FollowMatching follows the first footer link matching re. It reports false
// when no such link with an href exists.
func (f *Footer) FollowMatching(re *regexp.Regexp) (string, bool, error) {
	link := f.Link(re)
	if href, err := nav.Href(link); err != nil || href == "" {
		return "", false, nil
	}
	url, err := follow(f.Page, link)
	return url, true, err
}

// AssertCommonBlocks soft-checks each footer block heading and returns how
// many were found.
func (f *Footer) AssertCommonBlocks(c *expect.Checker) int {
	found := 0
	for _, re := range CommonBlocks {
		h := f.Footer.GetByRole(locate.RoleHeading, playwright.LocatorGetByRoleOptions{Name: re})
		if c.SoftVisible(h, "footer block "+re.String()) {
			found++
		}
	}
	return found
}
