package pages

import (
	"github.com/playwright-community/playwright-go"

	"github.com/kuitang/site-e2e/internal/errs"
	"github.com/kuitang/site-e2e/internal/expect"
	"github.com/kuitang/site-e2e/internal/locate"
)

// ResourceLibrary is the searchable list of resources.
type ResourceLibrary struct {
	Page        playwright.Page
	SearchInput playwright.Locator
}

func NewResourceLibrary(page playwright.Page) *ResourceLibrary {
	search := locate.Pattern(`search`)
	return &ResourceLibrary{
		Page: page,
		SearchInput: locate.AnyOf(
			page.GetByLabel(search),
			page.GetByPlaceholder(search),
			page.Locator(`input[type="search"]`),
		),
	}
}

// OpenFromHome goes Resources, then Resource Library.
func (r *ResourceLibrary) OpenFromHome() (string, error) {
	if _, err := openVisible(r.Page, locate.Link(r.Page, locate.ExactName("Resources")), "Resources"); err != nil {
		return "", err
	}
	return openVisible(r.Page, locate.Link(r.Page, locate.Pattern(`resource\s*library`)), "Resource Library")
}

// Search types term into the search field and presses Enter. It does nothing
// when the page has no search field.
func (r *ResourceLibrary) Search(term string) error {
	if !locate.Present(r.SearchInput) {
		logger().Debug("library has no search field", "url", r.Page.URL())
		return nil
	}
	field := r.SearchInput.First()
	if err := field.Fill(term); err != nil {
		return errs.FromPlaywright(errs.NotFound, "fill search", err)
	}
	if err := field.Press("Enter"); err != nil {
		return errs.FromPlaywright(errs.NotFound, "submit search", err)
	}
	return nil
}

// Card matches resource cards and article teasers.
func (r *ResourceLibrary) Card() playwright.Locator {
	return locate.AnyOf(
		r.Page.GetByRole(locate.RoleArticle),
		r.Page.Locator(`[class*="card" i]`),
	)
}

// AssertAnyVisible soft-checks that at least one resource is showing.
func (r *ResourceLibrary) AssertAnyVisible(c *expect.Checker) bool {
	return c.SoftVisible(r.Card(), "resource card")
}
