package urlutil

import (
	"fmt"
	"net/url"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func TestResolve_RelativeHrefAgainstPageURL(t *testing.T) {
	cases := []struct {
		base, href, want string
	}{
		{"https://site.test/", "/platform/", "https://site.test/platform/"},
		{"https://site.test/resources/", "blog/", "https://site.test/resources/blog/"},
		{"https://site.test/resources/", "../partners/", "https://site.test/partners/"},
		{"https://site.test/a/b", "?q=feedback", "https://site.test/a/b?q=feedback"},
		{"https://site.test/a/", "https://other.test/x", "https://other.test/x"},
		{"https://site.test/a/", "", "https://site.test/"},
		{"https://site.test/a/", "   ", "https://site.test/"},
	}
	for _, tc := range cases {
		if got := Resolve(tc.base, tc.href); got != tc.want {
			t.Errorf("Resolve(%q, %q) = %q, want %q", tc.base, tc.href, got, tc.want)
		}
	}
}

func TestResolve_UnparsableHrefReturnedRaw(t *testing.T) {
	raw := "http://[::1"
	if got := Resolve("https://site.test/", raw); got != raw {
		t.Fatalf("expected raw href back, got %q", got)
	}
}

func TestResolve_AbsolutePathsKeepOrigin(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		host := fmt.Sprintf("%s.%s",
			rapid.StringMatching(`[a-z]{3,12}`).Draw(rt, "host"),
			rapid.StringMatching(`[a-z]{2,6}`).Draw(rt, "tld"),
		)
		current := "https://" + host + "/" + rapid.StringMatching(`[a-z]{0,8}/?`).Draw(rt, "current")
		path := "/" + rapid.StringMatching(`[a-z]{1,10}(/[a-z]{1,10})?/?`).Draw(rt, "path")

		got := Resolve(current, path)
		if got != "https://"+host+path {
			rt.Fatalf("Resolve mismatch: got=%s want=https://%s%s", got, host, path)
		}
		if !HasPrefix(got)(got + "#section") {
			rt.Fatalf("HasPrefix should match a URL extended with a fragment")
		}
	})
}

func TestHasPrefix(t *testing.T) {
	match := HasPrefix("https://site.test/platform/")
	if !match("https://site.test/platform/") || !match("https://site.test/platform/security/") {
		t.Fatal("expected prefix match")
	}
	if match("https://site.test/") {
		t.Fatal("expected shorter URL not to match")
	}
}

func TestOriginAndHost(t *testing.T) {
	if got := Origin("https://site.test:8443/platform/?x=1"); got != "https://site.test:8443" {
		t.Fatalf("Origin mismatch: %q", got)
	}
	if got := Origin("/relative"); got != "" {
		t.Fatalf("expected empty origin for relative URL, got %q", got)
	}
	if got := Host("http://127.0.0.1:4000/login"); got != "127.0.0.1:4000" {
		t.Fatalf("Host mismatch: %q", got)
	}
}

func TestBuildAbsolute_GeneratesExpectedURLs(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		base := fmt.Sprintf(
			"https://%s.%s",
			rapid.StringMatching(`[a-z]{3,12}`).Draw(rt, "baseHost"),
			rapid.StringMatching(`[a-z]{2,8}`).Draw(rt, "baseTld"),
		)
		if rapid.Bool().Draw(rt, "baseHasSlash") {
			base += "/"
		}

		pathKind := rapid.IntRange(0, 3).Draw(rt, "pathKind")
		var path string
		switch pathKind {
		case 0:
			path = ""
		case 1:
			path = "/" + rapid.StringMatching(`[a-z]{1,12}`).Draw(rt, "relativePath")
		case 2:
			path = "resources/" + rapid.StringMatching(`[a-z]{1,12}`).Draw(rt, "nestedPath")
		case 3:
			path = fmt.Sprintf(
				"https://%s.%s/request-demo",
				rapid.StringMatching(`[a-z]{3,10}`).Draw(rt, "absoluteHost"),
				rapid.StringMatching(`[a-z]{2,6}`).Draw(rt, "absoluteTld"),
			)
		}

		got := BuildAbsolute(base, path)
		var want string
		switch {
		case path == "":
			want = strings.TrimRight(base, "/")
		case strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://"):
			want = path
		case strings.HasPrefix(path, "/"):
			want = strings.TrimRight(base, "/") + path
		default:
			want = strings.TrimRight(base, "/") + "/" + path
		}

		if got != want {
			rt.Fatalf("BuildAbsolute mismatch: got=%s want=%s", got, want)
		}
		if _, err := url.Parse(got); err != nil {
			rt.Fatalf("BuildAbsolute returned invalid URL %s: %v", got, err)
		}
	})
}
