package site

import (
	"testing"

	"github.com/playwright-community/playwright-go"

	"github.com/kuitang/site-e2e/internal/browser"
	"github.com/kuitang/site-e2e/internal/locate"
)

func eventFilter(s *browser.Session) playwright.Locator {
	return locate.AnyOf(
		s.Page.GetByRole(locate.RoleCombobox),
		s.Page.GetByLabel(locate.Pattern(`filter|type|category`)),
	)
}

func TestEvents_FromResources(t *testing.T) {
	browser.Run(t, func(t *testing.T, s *browser.Session) {
		s.GotoHome()
		openResources(t, s)
		openCategory(t, s, locate.ExactName("Events"))

		s.Expect.Title(s.Page, locate.Pattern(`events|inmoment`))
		s.Expect.SoftVisible(locate.Headings(s.Page), "first heading")
		s.Expect.SoftVisible(eventFilter(s), "event filter")
		s.Expect.SoftVisible(s.Page.GetByRole(locate.RoleListitem), "event item")
	})
}

func TestEvents_FilterAndItems(t *testing.T) {
	browser.Run(t, func(t *testing.T, s *browser.Session) {
		s.GotoHome()
		openResources(t, s)
		openCategory(t, s, locate.ExactName("Events"))

		s.Expect.Title(s.Page, locate.Pattern(`events|inmoment`))
		s.Expect.SoftVisible(eventFilter(s), "event filter")
		s.Expect.SoftVisible(locate.AnyOf(
			s.Page.GetByRole(locate.RoleListitem),
			s.Page.Locator(`[class*="event" i]`),
		), "upcoming event")
	})
}
