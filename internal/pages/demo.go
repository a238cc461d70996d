package pages

import (
	"regexp"

	"github.com/playwright-community/playwright-go"

	"github.com/kuitang/site-e2e/internal/errs"
	"github.com/kuitang/site-e2e/internal/fakedata"
	"github.com/kuitang/site-e2e/internal/locate"
)

// RequestDemo is the demo request form.
type RequestDemo struct {
	Page   playwright.Page
	Form   playwright.Locator
	Submit playwright.Locator
}

func NewRequestDemo(page playwright.Page) *RequestDemo {
	return &RequestDemo{
		Page:   page,
		Form:   page.Locator("form"),
		Submit: locate.Button(page, locate.Pattern(`submit|request|demo|send`)),
	}
}

// OpenFromHome follows the header Request Demo link.
func (d *RequestDemo) OpenFromHome() (string, error) {
	return openVisible(d.Page, locate.Link(d.Page, locate.Pattern(`request\s*(a\s*)?demo`)), "Request Demo")
}

// Input finds a form field by label or placeholder.
func (d *RequestDemo) Input(label *regexp.Regexp) playwright.Locator {
	return locate.TextField(d.Page, label)
}

// FillCommon fills whichever contact fields exist. Empty values are skipped.
// It fails only when a field that exists refuses input.
func (d *RequestDemo) FillCommon(details fakedata.ContactDetails) error {
	fields := []struct {
		label *regexp.Regexp
		value string
	}{
		{locate.Pattern(`first\s*name`), details.First},
		{locate.Pattern(`last\s*name`), details.Last},
		{locate.Pattern(`email`), details.Email},
		{locate.Pattern(`company`), details.Company},
		{locate.Pattern(`phone`), details.Phone},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		el := d.Input(f.label)
		if !locate.Present(el) {
			continue
		}
		if err := el.First().Fill(f.value); err != nil {
			return errs.FromPlaywright(errs.NotFound, "fill "+f.label.String(), err)
		}
	}
	if details.Country != "" {
		d.chooseCountry(details.Country)
	}
	return nil
}

// chooseCountry selects country in a native select, falling back to clicking
// an option in a custom combobox.
func (d *RequestDemo) chooseCountry(country string) bool {
	combo := locate.AnyOf(
		d.Page.GetByRole(locate.RoleCombobox),
		d.Page.GetByLabel(locate.Pattern(`country`)),
	).First()
	if !locate.Present(combo) {
		return false
	}

	short := playwright.Float(float64((locate.ProbeTimeout * 4).Milliseconds()))
	if _, err := combo.SelectOption(playwright.SelectOptionValues{Labels: &[]string{country}},
		playwright.LocatorSelectOptionOptions{Timeout: short}); err == nil {
		return true
	}

	if err := combo.Click(playwright.LocatorClickOptions{Timeout: short}); err != nil {
		logger().Debug("country combobox not clickable", "error", err)
		return false
	}
	option := d.Page.GetByRole(locate.RoleOption, playwright.PageGetByRoleOptions{
		Name: locate.Contains(country),
	}).First()
	if err := option.Click(playwright.LocatorClickOptions{Timeout: short, Trial: playwright.Bool(true)}); err != nil {
		logger().Debug("country option not clickable", "country", country, "error", err)
		return false
	}
	if err := option.Click(playwright.LocatorClickOptions{Timeout: short}); err != nil {
		logger().Debug("country option click failed", "country", country, "error", err)
		return false
	}
	return true
}

// SubmitForm clicks the submit button, or presses Enter in the form when
// there is none. It does not check the outcome.
func (d *RequestDemo) SubmitForm() error {
	if locate.Present(d.Submit) {
		if err := d.Submit.First().Click(); err != nil {
			return errs.FromPlaywright(errs.NotFound, "click submit", err)
		}
		return nil
	}
	if locate.Present(d.Form) {
		if err := d.Form.First().Press("Enter"); err != nil {
			return errs.FromPlaywright(errs.NotFound, "submit form", err)
		}
		return nil
	}
	return errs.New(errs.NotFound, "no form on "+d.Page.URL())
}
