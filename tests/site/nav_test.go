package site

import (
	"testing"

	"github.com/kuitang/site-e2e/internal/browser"
	"github.com/kuitang/site-e2e/internal/fakedata"
	"github.com/kuitang/site-e2e/internal/locate"
	"github.com/kuitang/site-e2e/internal/nav"
	"github.com/kuitang/site-e2e/internal/pages"
)

func TestNav_TopMenus(t *testing.T) {
	browser.Run(t, func(t *testing.T, s *browser.Session) {
		s.GotoHome()
		for _, m := range pages.Menus {
			name := string(m)
			s.Expect.Visible(locate.Link(s.Page, locate.ExactName(name)), name+" link")
			_, err := nav.OpenTopMenu(s.Page, name)
			s.Expect.NoError(err, "open "+name)
			s.Expect.Title(s.Page, locate.Pattern(name+`|InMoment`))
			s.Goto("/")
		}
	})
}

func TestNav_RequestDemoAndLoginUI(t *testing.T) {
	browser.Run(t, func(t *testing.T, s *browser.Session) {
		s.GotoHome()
		home := pages.NewHome(s.Page)

		_, err := home.ClickRequestDemo()
		s.Expect.NoError(err, "open Request Demo")
		s.Goto("/")

		_, err = home.ClickLogin()
		s.Expect.NoError(err, "open Login")

		login := pages.NewLogin(s.Page)
		if !s.Expect.SoftVisible(login.EmailInput, "email field") {
			return
		}
		s.Expect.NoError(login.EnterEmail(fakedata.UniqueEmail("qa")), "enter email")
		if locate.Present(login.NextButton) {
			s.Expect.NoError(login.ClickNext(), "click Next")
		}
		if !s.Expect.SoftVisible(login.PasswordInput, "password field") {
			return
		}
		s.Expect.NoError(login.EnterPassword(fakedata.RandomPassword(0)), "enter password")
		// Bad credentials are rejected by any real identity provider, so the
		// check stops at the sign-in button being offered.
		s.Expect.SoftVisible(login.SignInButton, "sign in button")
	})
}
