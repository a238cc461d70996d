package sitefixture

import (
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
)

type menuItem struct {
	Link
	Blurb string
}

// pageData is what base.html renders around every page.
type pageData struct {
	Title       string
	Menus       []menuItem
	Footer      []LinkGroup
	Legal       []Link
	Regions     []Link
	ShowConsent bool
	ShowRegion  bool
	Content     any
}

type homeContent struct {
	Heading    string
	Intro      string
	Highlights []Link
}

type sectionContent struct {
	Section
	Search   bool
	Query    string
	Results  []Article
	Featured []LinkGroup
}

type detailContent struct {
	Heading string
	Body    template.HTML
	Back    Link
}

type listContent struct {
	Heading     string
	SearchLabel string
	Query       string
	Articles    []Article
}

type eventsContent struct {
	Types    []string
	Selected string
	Events   []Event
}

type roiContent struct {
	Revenue   string
	Customers string
	Churn     string
	Estimate  string
}

type demoContent struct {
	Countries []string
}

type loginContent struct {
	Email string
	Error string
}

func (s *Site) routes() {
	s.mux.HandleFunc("GET /{$}", s.handleHome)
	for _, slug := range []string{"solutions", "platform", "resources", "partners"} {
		s.mux.HandleFunc("GET /"+slug+"/{$}", s.handleSection(slug))
		s.mux.HandleFunc("GET /"+slug, s.handleSection(slug))
	}
	s.mux.HandleFunc("GET /resources/blog", s.handleArticleList("blog", "Blog", "Search the blog"))
	s.mux.HandleFunc("GET /resources/blog/{slug}", s.handleArticle("blog"))
	s.mux.HandleFunc("GET /resources/customer-stories", s.handleArticleList("story", "Customer Stories", "Search customer stories"))
	s.mux.HandleFunc("GET /resources/customer-stories/{slug}", s.handleArticle("story"))
	s.mux.HandleFunc("GET /resources/library", s.handleLibrary)
	s.mux.HandleFunc("GET /resources/events", s.handleEvents)
	s.mux.HandleFunc("GET /resources/podcast", s.handlePodcast)
	s.mux.HandleFunc("GET /resources/roi", s.handleROI)
	s.mux.HandleFunc("GET /request-demo", s.handleDemoForm)
	s.mux.HandleFunc("POST /request-demo", s.handleDemoSubmit)
	s.mux.HandleFunc("GET /request-demo/thanks", s.handleDemoThanks)
	s.mux.HandleFunc("GET /login", s.handleLoginForm)
	s.mux.HandleFunc("POST /login", s.handleLoginSubmit)
	s.mux.HandleFunc("GET /", s.handleDetail)
}

// chrome builds the shared page frame. Visiting with ?region= picks a region
// and hides the chooser from then on.
func (s *Site) chrome(w http.ResponseWriter, r *http.Request, title string, content any) pageData {
	showRegion := true
	if region := r.URL.Query().Get("region"); region != "" {
		http.SetCookie(w, &http.Cookie{Name: regionCookie, Value: region, Path: "/"})
		showRegion = false
	} else if _, err := r.Cookie(regionCookie); err == nil {
		showRegion = false
	}
	_, consentErr := r.Cookie(consentCookie)

	menus := make([]menuItem, 0, len(TopMenus))
	for _, m := range TopMenus {
		menus = append(menus, menuItem{Link: m, Blurb: menuBlurbs[m.Name]})
	}
	return pageData{
		Title:       title,
		Menus:       menus,
		Footer:      FooterBlocks,
		Legal:       LegalLinks,
		Regions:     Regions,
		ShowConsent: consentErr != nil,
		ShowRegion:  showRegion,
		Content:     content,
	}
}

func (s *Site) render(w http.ResponseWriter, r *http.Request, status int, tmpl, title string, content any) {
	data := s.chrome(w, r, title, content)
	if err := s.renderer.Render(w, status, tmpl, data); err != nil {
		logger().Error("render failed", "template", tmpl, "path", r.URL.Path, "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
	}
}

func (s *Site) notFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusNotFound, "notfound.html", "Page Not Found | InMoment", nil)
}

func (s *Site) handleHome(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "home.html", "InMoment | Customer Experience Improvement", homeContent{
		Heading: "Experience Improvement for Every Customer",
		Intro:   "InMoment helps brands listen to every signal and turn feedback into results.",
		Highlights: []Link{
			{Name: "See how it works", Href: "/platform/overview"},
			{Name: "Read customer results", Href: "/resources/customer-stories"},
			{Name: "Talk to an expert", Href: "/contact"},
		},
	})
}

func (s *Site) handleSection(slug string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		section, ok := SectionBySlug(slug)
		if !ok {
			s.notFound(w, r)
			return
		}
		content := sectionContent{Section: section}
		if slug == "resources" {
			content.Search = true
			content.Query = strings.TrimSpace(r.URL.Query().Get("q"))
			if content.Query != "" {
				content.Results = s.search(content.Query)
			}
			content.Featured = s.featuredResources()
		}
		s.render(w, r, http.StatusOK, "section.html", section.Title, content)
	}
}

func (s *Site) featuredResources() []LinkGroup {
	var stories, posts []Link
	for _, a := range s.Articles("story") {
		stories = append(stories, Link{Name: a.Title, Href: a.Href})
	}
	for _, a := range s.Articles("blog") {
		posts = append(posts, Link{Name: a.Title, Href: a.Href})
	}
	upcoming := make([]Link, 0, len(events))
	for _, e := range events {
		upcoming = append(upcoming, Link{Name: e.Name, Href: "/resources/events?type=" + e.Type})
	}
	return []LinkGroup{
		{Heading: "Customer Stories", Links: stories},
		{Heading: "Blog", Links: posts},
		{Heading: "Events", Links: upcoming},
	}
}

func (s *Site) search(q string) []Article {
	var out []Article
	for _, a := range s.articles {
		if a.matches(q) {
			out = append(out, a)
		}
	}
	return out
}

func (s *Site) handleArticleList(kind, heading, searchLabel string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := strings.TrimSpace(r.URL.Query().Get("q"))
		var list []Article
		for _, a := range s.Articles(kind) {
			if a.matches(q) {
				list = append(list, a)
			}
		}
		s.render(w, r, http.StatusOK, "articles.html", heading+" | InMoment", listContent{
			Heading:     heading,
			SearchLabel: searchLabel,
			Query:       q,
			Articles:    list,
		})
	}
}

func (s *Site) handleArticle(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := r.PathValue("slug")
		for _, a := range s.Articles(kind) {
			if a.Slug != slug {
				continue
			}
			s.render(w, r, http.StatusOK, "detail.html", a.Title+" | InMoment", detailContent{
				Body: renderMarkdown(a.Body),
			})
			return
		}
		s.notFound(w, r)
	}
}

func (s *Site) handleLibrary(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	s.render(w, r, http.StatusOK, "library.html", "Resource Library | InMoment", listContent{
		Heading:     "Resource Library",
		SearchLabel: "Search the library",
		Query:       q,
		Articles:    s.search(q),
	})
}

func (s *Site) handleEvents(w http.ResponseWriter, r *http.Request) {
	selected := r.URL.Query().Get("type")
	content := eventsContent{Selected: selected}
	seen := make(map[string]bool)
	for _, e := range events {
		if !seen[e.Type] {
			seen[e.Type] = true
			content.Types = append(content.Types, e.Type)
		}
		if selected == "" || selected == e.Type {
			content.Events = append(content.Events, e)
		}
	}
	s.render(w, r, http.StatusOK, "events.html", "Events | InMoment", content)
}

func (s *Site) handlePodcast(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "podcast.html", "Podcast | InMoment", episodes)
}

func (s *Site) handleROI(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	content := roiContent{
		Revenue:   q.Get("revenue"),
		Customers: q.Get("customers"),
		Churn:     q.Get("churn"),
	}
	if estimate, ok := roiEstimate(content.Revenue, content.Churn); ok {
		content.Estimate = estimate
	}
	s.render(w, r, http.StatusOK, "roi.html", "ROI Calculator | InMoment", content)
}

// roiEstimate is the revenue an integrated program could retain: a fifth of
// the revenue lost to churn.
func roiEstimate(revenue, churnPercent string) (string, bool) {
	rev, err := strconv.ParseFloat(strings.TrimSpace(revenue), 64)
	if err != nil || rev <= 0 {
		return "", false
	}
	churn, err := strconv.ParseFloat(strings.TrimSpace(churnPercent), 64)
	if err != nil || churn <= 0 || churn > 100 {
		return "", false
	}
	return fmt.Sprintf("$%.0f", rev*churn/100*0.2), true
}

func (s *Site) handleDemoForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "demo.html", "Request a Demo | InMoment", demoContent{Countries: DemoCountries})
}

func (s *Site) handleDemoSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	fields := make(map[string]string)
	for _, key := range []string{"first_name", "last_name", "email", "company", "phone", "country", "comments"} {
		fields[key] = strings.TrimSpace(r.PostForm.Get(key))
	}
	s.record(FormRequestDemo, fields)
	http.Redirect(w, r, "/request-demo/thanks", http.StatusSeeOther)
}

func (s *Site) handleDemoThanks(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "detail.html", "Thank You | InMoment", detailContent{
		Heading: "Thanks, we will be in touch",
		Back:    Link{Name: "Back to home", Href: "/"},
	})
}

func (s *Site) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "login.html", "Login | InMoment", loginContent{})
}

// handleLoginSubmit rejects every attempt; there are no accounts on the replica.
func (s *Site) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	email := strings.TrimSpace(r.PostForm.Get("email"))
	s.record(FormLogin, map[string]string{
		"email":    email,
		"password": r.PostForm.Get("password"),
	})
	s.render(w, r, http.StatusUnauthorized, "login.html", "Login | InMoment", loginContent{
		Email: email,
		Error: "The email or password is incorrect.",
	})
}

func (s *Site) handleDetail(w http.ResponseWriter, r *http.Request) {
	name, ok := s.details[strings.TrimSuffix(r.URL.Path, "/")]
	if !ok {
		s.notFound(w, r)
		return
	}
	s.render(w, r, http.StatusOK, "detail.html", name+" | InMoment", detailContent{
		Heading: name,
		Body:    renderMarkdown([]byte(name + " content for the replica site.")),
		Back:    Link{Name: "Back to home", Href: "/"},
	})
}
