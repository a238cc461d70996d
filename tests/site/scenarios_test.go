package site

import (
	"testing"

	"github.com/kuitang/site-e2e/internal/browser"
	"github.com/kuitang/site-e2e/internal/locate"
	"github.com/kuitang/site-e2e/internal/pages"
)

// Quick page-shape checks that every release must pass before the deeper
// navigation tests are worth reading.
var smokeChecks = []struct {
	name  string
	check func(t *testing.T, s *browser.Session)
}{
	{"TitleAndBanner", func(t *testing.T, s *browser.Session) {
		s.Expect.Title(s.Page, locate.Pattern(`InMoment`))
		s.Expect.Visible(s.Page.GetByRole(locate.RoleBanner), "banner")
		waitDOMContentLoaded(t, s)
	}},
	{"BannerAndLinks", func(t *testing.T, s *browser.Session) {
		s.Expect.Title(s.Page, locate.Pattern(`InMoment`))
		s.Expect.Visible(s.Page.GetByRole(locate.RoleBanner), "banner")
		s.Expect.Visible(s.Page.GetByRole(locate.RoleLink), "first link")
	}},
	{"LinksAndMain", func(t *testing.T, s *browser.Session) {
		s.Expect.Visible(s.Page.GetByRole(locate.RoleLink), "first link")
		s.Expect.SoftVisible(locate.MainContent(s.Page), "main")
	}},
	{"MainAndHeadings", func(t *testing.T, s *browser.Session) {
		s.Expect.SoftVisible(locate.MainContent(s.Page), "main")
		s.Expect.SoftVisible(locate.Headings(s.Page), "first heading")
	}},
	{"HeadingsAndFooter", func(t *testing.T, s *browser.Session) {
		s.Expect.SoftVisible(locate.Headings(s.Page), "first heading")
		s.Expect.SoftVisible(pages.NewHome(s.Page).Footer(), "footer")
	}},
	{"Footer", func(t *testing.T, s *browser.Session) {
		waitDOMContentLoaded(t, s)
		s.Expect.SoftVisible(pages.NewHome(s.Page).Footer(), "footer")
	}},
}

func TestSmoke(t *testing.T) {
	for _, c := range smokeChecks {
		t.Run(c.name, func(t *testing.T) {
			browser.Run(t, func(t *testing.T, s *browser.Session) {
				s.GotoHome()
				c.check(t, s)
			})
		})
	}
}
