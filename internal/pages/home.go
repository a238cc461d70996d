package pages

import (
	"github.com/playwright-community/playwright-go"

	"github.com/kuitang/site-e2e/internal/errs"
	"github.com/kuitang/site-e2e/internal/locate"
	"github.com/kuitang/site-e2e/internal/nav"
)

// Menu is a top-level header menu.
type Menu string

const (
	MenuSolutions Menu = "Solutions"
	MenuPlatform  Menu = "Platform"
	MenuResources Menu = "Resources"
	MenuPartners  Menu = "Partners"
)

// Menus lists the header menus in display order.
var Menus = []Menu{MenuSolutions, MenuPlatform, MenuResources, MenuPartners}

// Home is the site home page and its header.
type Home struct {
	Page        playwright.Page
	Solutions   playwright.Locator
	Platform    playwright.Locator
	Resources   playwright.Locator
	Partners    playwright.Locator
	RequestDemo playwright.Locator
	Login       playwright.Locator
}

func NewHome(page playwright.Page) *Home {
	return &Home{
		Page:        page,
		Solutions:   locate.Link(page, locate.Pattern(`solutions`)),
		Platform:    locate.Link(page, locate.Pattern(`platform`)),
		Resources:   locate.Link(page, locate.Pattern(`resources`)),
		Partners:    locate.Link(page, locate.Pattern(`partners`)),
		RequestDemo: locate.Link(page, locate.Pattern(`request\s*demo`)),
		Login:       locate.Link(page, locate.Pattern(`login`)),
	}
}

// Goto opens the home page relative to the context's base URL.
func (h *Home) Goto() error {
	return nav.Goto(h.Page, "/", 0)
}

// LinkByName returns links whose accessible name matches name (a string or
// *regexp.Regexp).
func (h *Home) LinkByName(name any) playwright.Locator {
	return locate.Link(h.Page, name)
}

// Menu returns the header link for m.
func (h *Home) Menu(m Menu) playwright.Locator {
	switch m {
	case MenuSolutions:
		return h.Solutions
	case MenuPlatform:
		return h.Platform
	case MenuResources:
		return h.Resources
	default:
		return h.Partners
	}
}

// HoverMenu hovers a header menu to reveal its panel.
func (h *Home) HoverMenu(m Menu) error {
	if err := h.Menu(m).First().Hover(); err != nil {
		return errs.FromPlaywright(errs.NotFound, "hover "+string(m), err)
	}
	return nil
}

// ClickTopNav follows a header menu and returns the URL it landed on.
func (h *Home) ClickTopNav(m Menu) (string, error) {
	return follow(h.Page, h.Menu(m))
}

// FollowAndAssertLink follows the link named exactly name.
func (h *Home) FollowAndAssertLink(name string) (string, error) {
	return follow(h.Page, h.LinkByName(locate.ExactName(name)))
}

func (h *Home) ClickRequestDemo() (string, error) {
	return follow(h.Page, h.RequestDemo)
}

func (h *Home) ClickLogin() (string, error) {
	return follow(h.Page, h.Login)
}

func (h *Home) Title() (string, error) {
	return h.Page.Title()
}

// Header is the banner landmark.
func (h *Home) Header() playwright.Locator {
	return h.Page.GetByRole(locate.RoleBanner)
}

// HeaderItem is the first header link or button matching name.
func (h *Home) HeaderItem(name any) playwright.Locator {
	return locate.LinkOrButton(h.Header(), name)
}

// HeaderNav is the navigation landmark inside the header.
func (h *Home) HeaderNav() playwright.Locator {
	header := h.Header()
	return locate.AnyOf(header.Locator("nav"), header.Locator(`[role="navigation"]`)).First()
}

// HeaderItems are every link and button in the header.
func (h *Home) HeaderItems() playwright.Locator {
	header := h.Header()
	return locate.AnyOf(header.GetByRole(locate.RoleLink), header.GetByRole(locate.RoleButton))
}

func (h *Home) MainContent() playwright.Locator {
	return locate.MainContent(h.Page)
}

func (h *Home) Footer() playwright.Locator {
	return h.Page.Locator("footer").First()
}
