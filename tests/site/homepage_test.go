package site

import (
	"testing"

	"github.com/kuitang/site-e2e/internal/browser"
	"github.com/kuitang/site-e2e/internal/locate"
	"github.com/kuitang/site-e2e/internal/pages"
)

func TestHomepage_TitleAndHeader(t *testing.T) {
	browser.Run(t, func(t *testing.T, s *browser.Session) {
		s.GotoHome()
		s.Expect.Title(s.Page, locate.Pattern(`InMoment|Customer Experience`))

		home := pages.NewHome(s.Page)
		s.Expect.Visible(home.Header(), "header")
		for _, m := range pages.Menus {
			s.Expect.Visible(home.HeaderItem(locate.Pattern(string(m))), "header "+string(m))
		}

		demo := home.Header().Locator(`:is(a,button):has-text("Request a Demo"), :is(a,button):has-text("Request Demo")`).First()
		if locate.Present(demo) {
			s.Expect.SoftVisible(demo, "header Request Demo")
		}
		login := home.HeaderItem(locate.Pattern(`login`))
		if locate.Present(login) {
			s.Expect.SoftVisible(login, "header Login")
		}
	})
}

func TestHomepage_MainContent(t *testing.T) {
	browser.Run(t, func(t *testing.T, s *browser.Session) {
		s.GotoHome()
		home := pages.NewHome(s.Page)
		s.Expect.Visible(home.MainContent(), "main")
		s.Expect.Visible(locate.Headings(s.Page), "first heading")
		s.Expect.Visible(s.Page.GetByRole(locate.RoleLink), "first link")
	})
}
