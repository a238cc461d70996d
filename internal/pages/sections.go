package pages

import (
	"regexp"

	"github.com/playwright-community/playwright-go"

	"github.com/kuitang/site-e2e/internal/expect"
	"github.com/kuitang/site-e2e/internal/locate"
)

// section is the behavior shared by the landing pages reached from a header
// menu: open it, find its sub-links, check the key ones and follow one.
type section struct {
	Page     playwright.Page
	menu     Menu
	keyLinks []*regexp.Regexp
}

// OpenFromHome follows the header menu link whose name is exactly the
// section's menu.
func (s *section) OpenFromHome() (string, error) {
	return openVisible(s.Page, locate.Link(s.Page, locate.ExactName(string(s.menu))), string(s.menu))
}

// SubLink returns links whose accessible name matches name.
func (s *section) SubLink(name any) playwright.Locator {
	return locate.Link(s.Page, name)
}

// KeyLinks are the link names the section is expected to show.
func (s *section) KeyLinks() []*regexp.Regexp {
	return s.keyLinks
}

// AssertKeyLinksVisible fails the test unless every key link is visible.
func (s *section) AssertKeyLinksVisible(c *expect.Checker) {
	for _, re := range s.keyLinks {
		c.Visible(s.SubLink(re), string(s.menu)+" link "+re.String())
	}
}

// FollowAndAssert follows the sub-link named exactly name and returns the URL
// it landed on.
func (s *section) FollowAndAssert(name string) (string, error) {
	return follow(s.Page, s.SubLink(locate.ExactName(name)))
}

// Solutions is the Solutions landing page.
type Solutions struct{ section }

// SolutionsFeatured are the capability links the suite clicks through.
var SolutionsFeatured = []string{
	"Customer Feedback",
	"Conversational Intelligence",
	"Reputation Management",
	"Digital Listening",
}

func NewSolutions(page playwright.Page) *Solutions {
	return &Solutions{section{Page: page, menu: MenuSolutions, keyLinks: []*regexp.Regexp{
		locate.Pattern(`customer\s*feedback`),
		locate.Pattern(`conversational\s*intelligence`),
		locate.Pattern(`reputation\s*management`),
		locate.Pattern(`digital\s*listening`),
		locate.Pattern(`customer\s*experience\s*leaders`),
		locate.Pattern(`contact\s*center\s*leaders`),
		locate.Pattern(`marketing\s*leaders`),
		locate.Pattern(`insights?\s*leaders?`),
		locate.Pattern(`retail`),
		locate.Pattern(`financial\s*services`),
		locate.Pattern(`healthcare`),
		locate.Pattern(`transportation`),
	}}}
}

// Platform is the Platform landing page.
type Platform struct{ section }

// PlatformAreas are the exact names of the platform areas.
var PlatformAreas = []string{
	"Platform Overview",
	"Listen & Improve",
	"Report",
	"Mobile Application",
	"Integrations",
	"Text Analytics",
	"Artificial Intelligence",
	"Security",
	"Scalability",
}

func NewPlatform(page playwright.Page) *Platform {
	keys := make([]*regexp.Regexp, 0, len(PlatformAreas))
	for _, name := range PlatformAreas {
		keys = append(keys, locate.ExactName(name))
	}
	return &Platform{section{Page: page, menu: MenuPlatform, keyLinks: keys}}
}

// Areas returns the exact platform area names.
func (p *Platform) Areas() []string {
	return PlatformAreas
}

// Resources is the Resources landing page.
type Resources struct{ section }

// ResourceCategories are the category links on the Resources page. Names are
// matched as case-insensitive substrings.
var ResourceCategories = []string{
	"Customer Stories",
	"Events",
	"Blog",
	"Podcast",
	"Calculate the ROI",
	"Resource Library",
	"Partners",
}

func NewResources(page playwright.Page) *Resources {
	keys := make([]*regexp.Regexp, 0, len(ResourceCategories))
	for _, name := range ResourceCategories {
		keys = append(keys, locate.Contains(name))
	}
	return &Resources{section{Page: page, menu: MenuResources, keyLinks: keys}}
}

// Category returns the category link whose name contains name.
func (r *Resources) Category(name string) playwright.Locator {
	return r.SubLink(locate.Contains(name))
}

// FollowCategory follows the category link whose name contains name.
func (r *Resources) FollowCategory(name string) (string, error) {
	return follow(r.Page, r.Category(name))
}

// SearchBox is the resources search field.
func (r *Resources) SearchBox() playwright.Locator {
	return locate.SearchBox(r.Page)
}

// Partners is the Partners landing page.
type Partners struct{ section }

func NewPartners(page playwright.Page) *Partners {
	return &Partners{section{Page: page, menu: MenuPartners, keyLinks: []*regexp.Regexp{
		locate.Pattern(`partner\s*with\s*inmoment`),
		locate.Pattern(`become\s*a\s*partner`),
		locate.Pattern(`find\s*a\s*partner`),
	}}}
}
