// Package sitefixture serves a local replica of the marketing site. It has the
// structure the page objects depend on (header menus, consent banner, region
// chooser, landing pages, forms, footer blocks) so the suite and the smoke
// crawler can run without touching the live site.
package sitefixture

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kuitang/site-e2e/internal/logutil"
	"github.com/kuitang/site-e2e/internal/obs"
)

//go:embed templates/*.html content/*.md
var assets embed.FS

const (
	consentCookie = "OptanonAlertBoxClosed"
	regionCookie  = "im_region"
)

// Form names recorded in submissions.
const (
	FormRequestDemo = "request-demo"
	FormLogin       = "login"
)

// Submission is a form post received by the site.
type Submission struct {
	Form   string
	Fields map[string]string
	At     time.Time
}

// Article is a markdown-authored blog post or customer story.
type Article struct {
	Kind    string
	Slug    string
	Title   string
	Summary string
	Href    string
	Body    []byte
}

// Event is an entry on the events page.
type Event struct {
	Name string
	Type string
	Date string
}

// Episode is an entry on the podcast page.
type Episode struct {
	Number int
	Title  string
	Audio  string
}

var events = []Event{
	{Name: "XI Forum 2026", Type: "Conference", Date: "2026-11-04"},
	{Name: "Closing the Loop at Scale", Type: "Webinar", Date: "2026-11-18"},
	{Name: "Retail Roundtable", Type: "Roundtable", Date: "2026-12-02"},
}

var episodes = []Episode{
	{Number: 42, Title: "Listening Beyond the Survey", Audio: "/media/episode-42.mp3"},
	{Number: 41, Title: "Frontline Feedback That Sticks", Audio: "/media/episode-41.mp3"},
}

// Site is the replica site. It is safe for concurrent use.
type Site struct {
	renderer *Renderer
	articles []Article
	details  map[string]string
	mux      *http.ServeMux

	mu          sync.Mutex
	submissions []Submission
}

func logger() *slog.Logger { return obs.Pkg("sitefixture") }

// New builds the site from the embedded templates and content.
func New() (*Site, error) {
	renderer, err := NewRenderer(assets)
	if err != nil {
		return nil, err
	}
	articles, err := loadArticles(assets)
	if err != nil {
		return nil, err
	}
	s := &Site{
		renderer: renderer,
		articles: articles,
		details:  detailPages(),
		mux:      http.NewServeMux(),
	}
	s.routes()
	return s, nil
}

// Start serves a new site on a loopback listener. Callers Close the server.
func Start() (*httptest.Server, *Site, error) {
	s, err := New()
	if err != nil {
		return nil, nil, err
	}
	return httptest.NewServer(s), s, nil
}

func (s *Site) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Submissions returns a copy of the form posts received so far.
func (s *Site) Submissions() []Submission {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Submission, len(s.submissions))
	copy(out, s.submissions)
	return out
}

// Articles returns the markdown-authored articles of kind ("blog" or "story").
func (s *Site) Articles(kind string) []Article {
	var out []Article
	for _, a := range s.articles {
		if a.Kind == kind {
			out = append(out, a)
		}
	}
	return out
}

func (s *Site) record(form string, fields map[string]string) {
	s.mu.Lock()
	s.submissions = append(s.submissions, Submission{Form: form, Fields: fields, At: time.Now()})
	s.mu.Unlock()
	logger().Info("form submitted", "form", form, "fields", logutil.FormatFieldsForLog(fields))
}

func loadArticles(fsys fs.FS) ([]Article, error) {
	files, err := fs.Glob(fsys, "content/*.md")
	if err != nil {
		return nil, fmt.Errorf("failed to list content: %w", err)
	}
	sort.Strings(files)

	var out []Article
	for _, f := range files {
		body, err := fs.ReadFile(fsys, f)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f, err)
		}
		kind, slug, ok := strings.Cut(strings.TrimSuffix(path.Base(f), ".md"), "-")
		if !ok {
			return nil, fmt.Errorf("content file %s must be named <kind>-<slug>.md", f)
		}
		a := Article{
			Kind:    kind,
			Slug:    slug,
			Title:   markdownTitle(body),
			Summary: markdownSummary(body),
			Body:    body,
		}
		switch kind {
		case "blog":
			a.Href = "/resources/blog/" + slug
		case "story":
			a.Href = "/resources/customer-stories/" + slug
		default:
			return nil, fmt.Errorf("content file %s has unknown kind %q", f, kind)
		}
		if a.Title == "" {
			return nil, fmt.Errorf("content file %s has no title heading", f)
		}
		out = append(out, a)
	}
	return out, nil
}

// matches reports whether the article title or summary contains q.
func (a Article) matches(q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(a.Title), q) || strings.Contains(strings.ToLower(a.Summary), q)
}
