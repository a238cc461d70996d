// Package fakedata generates throwaway values for filling public forms.
// Nothing generated here is meant to authenticate anywhere; values only need
// to look plausible to client-side validation.
package fakedata

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
)

const (
	lowerChars  = "abcdefghijklmnopqrstuvwxyz"
	upperChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitChars  = "0123456789"
	symbolChars = "!@#$%^&*()-_=+[]{};:,.<>/?"
	alnumChars  = lowerChars + upperChars + digitChars

	DefaultStringLength   = 12
	DefaultPasswordLength = 16
	DefaultPhoneLength    = 10
	DefaultEmailDomain    = "example.com"

	minPasswordLength = 4
)

// ContactDetails holds the optional fields of a contact/demo form.
type ContactDetails struct {
	First   string
	Last    string
	Email   string
	Company string
	Phone   string
	Country string
}

// Fields returns the details keyed by form label, for logging.
func (d ContactDetails) Fields() map[string]string {
	return map[string]string{
		"First Name": d.First,
		"Last Name":  d.Last,
		"Email":      d.Email,
		"Company":    d.Company,
		"Phone":      d.Phone,
		"Country":    d.Country,
	}
}

// RandomString returns length random alphanumeric characters.
func RandomString(length int) string {
	if length <= 0 {
		length = DefaultStringLength
	}
	return pick(alnumChars, length)
}

// RandomPassword returns a password with at least one lowercase letter,
// uppercase letter, digit and symbol, in that order, padded from all classes.
func RandomPassword(length int) string {
	if length <= 0 {
		length = DefaultPasswordLength
	}
	if length < minPasswordLength {
		length = minPasswordLength
	}
	var b strings.Builder
	b.Grow(length)
	b.WriteString(pick(lowerChars, 1))
	b.WriteString(pick(upperChars, 1))
	b.WriteString(pick(digitChars, 1))
	b.WriteString(pick(symbolChars, 1))
	b.WriteString(pick(alnumChars+symbolChars, length-minPasswordLength))
	return b.String()
}

// RandomEmail returns "<6 chars>.<base36 ms timestamp>@domain", lower-cased.
func RandomEmail(domain string) string {
	domain = strings.TrimSpace(domain)
	if domain == "" {
		domain = DefaultEmailDomain
	}
	user := strings.ToLower(RandomString(6) + "." + timestamp36())
	return user + "@" + domain
}

// UniqueEmail returns "<prefix>.<base36 ms timestamp><2 chars>@example.com".
func UniqueEmail(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "qa"
	}
	return strings.ToLower(prefix + "." + timestamp36() + pick(lowerChars+digitChars, 2) + "@" + DefaultEmailDomain)
}

// RandomPhone returns length random digits.
func RandomPhone(length int) string {
	if length <= 0 {
		length = DefaultPhoneLength
	}
	return pick(digitChars, length)
}

// NewContactDetails returns a full set of benign demo-request values.
func NewContactDetails() ContactDetails {
	return ContactDetails{
		First:   "QA-" + RandomString(6),
		Last:    RandomString(7),
		Email:   RandomEmail(""),
		Company: "E2E Test Co",
		Phone:   RandomPhone(0),
		Country: "United States",
	}
}

func timestamp36() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 36)
}

func pick(alphabet string, n int) string {
	if n <= 0 {
		return ""
	}
	out := make([]byte, n)
	for i := range out {
		out[i] = alphabet[rand.IntN(len(alphabet))]
	}
	return string(out)
}
