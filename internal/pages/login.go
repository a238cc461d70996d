package pages

import (
	"github.com/playwright-community/playwright-go"

	"github.com/kuitang/site-e2e/internal/errs"
	"github.com/kuitang/site-e2e/internal/locate"
)

// Login is the two-step sign-in page: email, Next, then password.
type Login struct {
	Page          playwright.Page
	EmailInput    playwright.Locator
	NextButton    playwright.Locator
	PasswordInput playwright.Locator
	SignInButton  playwright.Locator
}

// Attempt records how far a sign-in attempt got.
type Attempt struct {
	EmailEntered    bool
	NextClicked     bool
	PasswordEntered bool
	SignInClicked   bool
}

func NewLogin(page playwright.Page) *Login {
	email := locate.Pattern(`email`)
	password := locate.Pattern(`password`)
	return &Login{
		Page: page,
		EmailInput: locate.AnyOf(
			page.GetByLabel(email),
			page.GetByPlaceholder(email),
			page.Locator(`input[type="email"], input[id*="email" i], input[name*="email" i]`),
		).First(),
		NextButton: locate.Button(page, locate.Pattern(`next|continue`)),
		PasswordInput: locate.AnyOf(
			page.GetByLabel(password),
			page.GetByPlaceholder(password),
			page.Locator(`input[type="password"]`),
		).First(),
		SignInButton: locate.Button(page, locate.Pattern(`sign in|log in`)),
	}
}

// GotoFromHome follows the header Login link and waits for the email field.
func (l *Login) GotoFromHome() error {
	if _, err := follow(l.Page, locate.Link(l.Page, locate.Pattern(`login`))); err != nil {
		return err
	}
	if !locate.VisibleWithin(l.EmailInput, VisibleTimeout) {
		return errs.New(errs.NotFound, "email field not visible on "+l.Page.URL())
	}
	return nil
}

func (l *Login) EnterEmail(email string) error {
	if err := l.EmailInput.Fill(email); err != nil {
		return errs.FromPlaywright(errs.NotFound, "fill email", err)
	}
	return nil
}

func (l *Login) ClickNext() error {
	if err := l.NextButton.First().Click(); err != nil {
		return errs.FromPlaywright(errs.NotFound, "click next", err)
	}
	return nil
}

func (l *Login) EnterPassword(password string) error {
	if err := l.PasswordInput.Fill(password); err != nil {
		return errs.FromPlaywright(errs.NotFound, "fill password", err)
	}
	return nil
}

func (l *Login) IsSignInEnabled() (bool, error) {
	enabled, err := l.SignInButton.First().IsEnabled()
	if err != nil {
		return false, errs.FromPlaywright(errs.NotFound, "sign in button", err)
	}
	return enabled, nil
}

// TryEnterEmail fills the email field when it is visible.
func (l *Login) TryEnterEmail(email string) bool {
	return locate.TryFill(l.EmailInput, email, locate.ProbeTimeout*2)
}

// TryClickNext clicks Next/Continue when it is present and visible.
func (l *Login) TryClickNext() bool {
	return locate.TryClick(l.NextButton, locate.ProbeTimeout*2)
}

// TryEnterPassword fills the password field once it shows up.
func (l *Login) TryEnterPassword(password string) bool {
	if !locate.VisibleWithin(l.PasswordInput, locate.ProbeTimeout) {
		return false
	}
	return locate.TryFill(l.PasswordInput, password, locate.ProbeTimeout*2)
}

// TryClickSignIn clicks Sign In when it is present and visible.
func (l *Login) TryClickSignIn() bool {
	return locate.TryClick(l.SignInButton, locate.ProbeTimeout*2)
}

// Attempt walks the sign-in flow as far as the page allows. Each step only
// runs if the previous field was filled.
func (l *Login) Attempt(email, password string) Attempt {
	var a Attempt
	if a.EmailEntered = l.TryEnterEmail(email); !a.EmailEntered {
		return a
	}
	a.NextClicked = l.TryClickNext()
	if a.PasswordEntered = l.TryEnterPassword(password); !a.PasswordEntered {
		return a
	}
	a.SignInClicked = l.TryClickSignIn()
	if a.SignInClicked {
		if err := l.Page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
			State: playwright.LoadStateDomcontentloaded,
		}); err != nil {
			logger().Debug("sign in did not settle", "error", err)
		}
	}
	logger().Debug("login attempted",
		"email_entered", a.EmailEntered,
		"next_clicked", a.NextClicked,
		"password_entered", a.PasswordEntered,
		"sign_in_clicked", a.SignInClicked)
	return a
}
