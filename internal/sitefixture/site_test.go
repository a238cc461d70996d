package sitefixture

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/kuitang/site-e2e/internal/obs"
)

func newTestSite(t *testing.T) *Site {
	t.Helper()
	s, err := New()
	require.NoError(t, err)
	return s
}

func get(t *testing.T, h http.Handler, target string, cookies ...*http.Cookie) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	resp := rec.Result()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func post(t *testing.T, h http.Handler, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

var (
	consented = &http.Cookie{Name: consentCookie, Value: "1"}
	regioned  = &http.Cookie{Name: regionCookie, Value: "en-us"}
)

func TestHome_FirstVisitShowsConsentAndRegion(t *testing.T) {
	s := newTestSite(t)
	resp, body := get(t, s, "/")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "<title>InMoment | Customer Experience Improvement</title>")
	assert.Contains(t, body, `id="onetrust-accept-btn-handler"`)
	assert.Contains(t, body, `id="region-chooser"`)
	assert.Contains(t, body, "United States/Canada (English)")
	assert.Contains(t, body, "<header>")
	assert.Contains(t, body, "<main>")
	assert.Contains(t, body, "<footer>")
}

func TestHome_ReturningVisitorSeesNoOverlays(t *testing.T) {
	s := newTestSite(t)
	_, body := get(t, s, "/", consented, regioned)

	assert.NotContains(t, body, "onetrust-consent-sdk")
	assert.NotContains(t, body, "region-chooser")
}

func TestRegionQuery_SetsCookieAndHidesChooser(t *testing.T) {
	s := newTestSite(t)
	resp, body := get(t, s, "/?region=en-us")

	assert.NotContains(t, body, "region-chooser")
	var found bool
	for _, c := range resp.Cookies() {
		if c.Name == regionCookie {
			found = true
			assert.Equal(t, "en-us", c.Value)
		}
	}
	assert.True(t, found, "region cookie should be set")
}

func TestHeader_ListsTopMenusAndActions(t *testing.T) {
	s := newTestSite(t)
	_, body := get(t, s, "/", consented, regioned)

	for _, m := range TopMenus {
		assert.Contains(t, body, `<a href="`+m.Href+`">`+m.Name+`</a>`)
	}
	assert.Contains(t, body, `<a href="/login">Login</a>`)
	assert.Contains(t, body, `href="/request-demo">Request Demo</a>`)
}

func TestSections_RenderEveryGroupLink(t *testing.T) {
	s := newTestSite(t)
	for _, section := range sections {
		resp, body := get(t, s, "/"+section.Slug, consented, regioned)
		require.Equal(t, http.StatusOK, resp.StatusCode, section.Slug)
		assert.Contains(t, body, "<title>"+section.Title+"</title>")
		for _, g := range section.Groups {
			assert.Contains(t, body, "<h2>"+htmlText(g.Heading)+"</h2>", section.Slug)
			for _, l := range g.Links {
				assert.Contains(t, body, `href="`+l.Href+`"`, l.Name)
			}
		}
	}
}

// htmlText escapes text the way html/template renders it in element content.
func htmlText(s string) string {
	return strings.ReplaceAll(s, "&", "&amp;")
}

func TestResources_FeaturesStoriesBlogAndEvents(t *testing.T) {
	s := newTestSite(t)
	_, body := get(t, s, "/resources", consented, regioned)

	for _, heading := range []string{"Customer Stories", "Blog", "Events"} {
		assert.Contains(t, body, "<h2>"+heading+"</h2>")
	}
	assert.Contains(t, body, `type="search"`)
	assert.Contains(t, body, "How a Regional Grocer Lifted Loyalty")
}

func TestResources_SearchFiltersArticles(t *testing.T) {
	s := newTestSite(t)
	_, body := get(t, s, "/resources?q=feedback", consented, regioned)

	assert.Contains(t, body, "Results for")
	assert.Contains(t, body, "Five Ways to Close the Loop on Customer Feedback")
	assert.Equal(t, 1, strings.Count(body, `class="resource-card"`))
}

func testDetailPages_EveryLeafLinkResolves(t *rapid.T) {
	s, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	var hrefs []string
	for _, section := range sections {
		for _, g := range section.Groups {
			for _, l := range g.Links {
				hrefs = append(hrefs, l.Href)
			}
		}
	}
	for _, g := range FooterBlocks {
		for _, l := range g.Links {
			hrefs = append(hrefs, l.Href)
		}
	}
	for _, l := range LegalLinks {
		hrefs = append(hrefs, l.Href)
	}
	href := rapid.SampledFrom(hrefs).Draw(t, "href")

	req := httptest.NewRequest(http.MethodGet, href, nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET %s = %d, want 200", href, rec.Code)
	}
}

func TestDetailPages_EveryLeafLinkResolves(t *testing.T) {
	rapid.Check(t, testDetailPages_EveryLeafLinkResolves)
}

func TestUnknownPath_NotFound(t *testing.T) {
	s := newTestSite(t)
	resp, body := get(t, s, "/no/such/page", consented, regioned)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "Page Not Found | InMoment")
}

func TestBlog_ListsAndRendersMarkdown(t *testing.T) {
	s := newTestSite(t)
	posts := s.Articles("blog")
	require.Len(t, posts, 3)

	_, list := get(t, s, "/resources/blog", consented, regioned)
	assert.Contains(t, list, `placeholder="Search the blog"`)
	for _, p := range posts {
		assert.Contains(t, list, `href="`+p.Href+`"`)
	}

	resp, body := get(t, s, "/resources/blog/text-analytics-churn", consented, regioned)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "What Text Analytics Reveals About Churn</h1>")
	assert.Contains(t, body, "<em>billing confusion</em>")
	assert.Contains(t, body, `href="/platform/text-analytics"`)
	assert.NotContains(t, body, `target="_blank"`)
}

func TestLibrary_CardsAndSearch(t *testing.T) {
	s := newTestSite(t)
	_, all := get(t, s, "/resources/library", consented, regioned)
	assert.Equal(t, len(s.articles), strings.Count(all, `class="resource-card"`))

	_, filtered := get(t, s, "/resources/library?q=credit+union", consented, regioned)
	assert.Equal(t, 1, strings.Count(filtered, `class="resource-card"`))
	assert.Contains(t, filtered, "A Credit Union Rebuilds Member Onboarding")
}

func TestEvents_FilterByType(t *testing.T) {
	s := newTestSite(t)
	_, all := get(t, s, "/resources/events", consented, regioned)
	assert.Equal(t, len(events), strings.Count(all, `<li class="event">`))
	assert.Contains(t, all, `<label for="event-type">Filter by type</label>`)

	_, webinars := get(t, s, "/resources/events?type=Webinar", consented, regioned)
	assert.Equal(t, 1, strings.Count(webinars, `<li class="event">`))
}

func TestPodcast_HasAudioAndEpisodes(t *testing.T) {
	s := newTestSite(t)
	_, body := get(t, s, "/resources/podcast", consented, regioned)
	assert.Equal(t, len(episodes), strings.Count(body, "<audio controls"))
	assert.Contains(t, body, `class="episode"`)
}

func TestROI_EstimateRendered(t *testing.T) {
	s := newTestSite(t)
	_, body := get(t, s, "/resources/roi?revenue=1000000&churn=10", consented, regioned)
	assert.Contains(t, body, "Estimated retained revenue: $20000")
	assert.Contains(t, body, "<h2>ROI Calculator</h2>")
}

func TestROIEstimate(t *testing.T) {
	got, ok := roiEstimate("500000", "20")
	require.True(t, ok)
	assert.Equal(t, "$20000", got)

	for _, tc := range [][2]string{{"", "10"}, {"abc", "10"}, {"100", "0"}, {"100", "101"}, {"-5", "10"}} {
		_, ok := roiEstimate(tc[0], tc[1])
		assert.False(t, ok, "revenue=%q churn=%q", tc[0], tc[1])
	}
}

func TestRequestDemo_RecordsSubmissionAndRedirects(t *testing.T) {
	s := newTestSite(t)
	_, form := get(t, s, "/request-demo", consented, regioned)
	for _, label := range []string{"First Name", "Last Name", "Business Email", "Company", "Phone Number", "Country"} {
		assert.Contains(t, form, ">"+label+"</label>")
	}

	rec := post(t, s, "/request-demo", url.Values{
		"first_name": {"QA-abc123"},
		"email":      {"qa@example.com"},
		"country":    {"Canada"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/request-demo/thanks", rec.Header().Get("Location"))

	subs := s.Submissions()
	require.Len(t, subs, 1)
	assert.Equal(t, FormRequestDemo, subs[0].Form)
	assert.Equal(t, "QA-abc123", subs[0].Fields["first_name"])
	assert.Equal(t, "Canada", subs[0].Fields["country"])
	assert.Empty(t, subs[0].Fields["phone"])
}

func TestLogin_AlwaysRejectsAndRedactsPassword(t *testing.T) {
	var logs bytes.Buffer
	restore := obs.SetOutputForTests(&logs)
	defer restore()

	s := newTestSite(t)
	rec := post(t, s, "/login", url.Values{"email": {"qa@example.com"}, "password": {"Xy!2secret"}})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `role="alert"`)
	assert.Contains(t, rec.Body.String(), `value="qa@example.com"`)

	subs := s.Submissions()
	require.Len(t, subs, 1)
	assert.Equal(t, FormLogin, subs[0].Form)
	assert.NotContains(t, logs.String(), "Xy!2secret")
	assert.Contains(t, logs.String(), "[REDACTED]")
}

func TestMarkdownHelpers(t *testing.T) {
	md := []byte("# A *Bold* Claim\n\nFirst paragraph\nwraps here.\n\n## Next\n\nSecond.")
	assert.Equal(t, "A Bold Claim", markdownTitle(md))
	assert.Equal(t, "First paragraph wraps here.", markdownSummary(md))
	assert.Empty(t, markdownTitle([]byte("no heading")))
}

func TestRenderMarkdown_StripsScripts(t *testing.T) {
	out := string(renderMarkdown([]byte("hello <script>alert(1)</script> [x](javascript:alert(1))")))
	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, "javascript:")
}

func TestStart_ServesOverHTTP(t *testing.T) {
	srv, _, err := Start()
	require.NoError(t, err)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/platform")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
