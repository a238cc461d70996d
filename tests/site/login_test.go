package site

import (
	"testing"

	"github.com/kuitang/site-e2e/internal/browser"
	"github.com/kuitang/site-e2e/internal/fakedata"
	"github.com/kuitang/site-e2e/internal/locate"
	"github.com/kuitang/site-e2e/internal/pages"
)

func TestLogin_RandomCredentialsFailSafely(t *testing.T) {
	browser.Run(t, func(t *testing.T, s *browser.Session) {
		s.GotoHome()
		_, err := pages.NewHome(s.Page).ClickLogin()
		s.Expect.NoError(err, "open Login")

		a := pages.NewLogin(s.Page).Attempt(fakedata.UniqueEmail("qa"), fakedata.RandomPassword(0))
		s.Log.Info("login attempt", "email", a.EmailEntered, "next", a.NextClicked,
			"password", a.PasswordEntered, "sign_in", a.SignInClicked)
		if a.SignInClicked {
			s.Expect.NotURL(s.Page, locate.Pattern(`dashboard|home`))
		}
	})
}
