package sitefixture

// Link is an anchor rendered by the replica site.
type Link struct {
	Name string
	Href string
}

// LinkGroup is a headed list of links on a landing page.
type LinkGroup struct {
	Heading string
	Links   []Link
}

// Section is a landing page reached from the header menu.
type Section struct {
	Slug    string
	Title   string
	Heading string
	Intro   string
	Groups  []LinkGroup
}

// TopMenus are the header menu items, in display order.
var TopMenus = []Link{
	{Name: "Solutions", Href: "/solutions"},
	{Name: "Platform", Href: "/platform"},
	{Name: "Resources", Href: "/resources"},
	{Name: "Partners", Href: "/partners"},
}

var menuBlurbs = map[string]string{
	"Solutions": "Feedback, conversational and reputation programs for every team and industry.",
	"Platform":  "One platform to listen, understand and act on every signal.",
	"Resources": "Stories, research and tools from the experience improvement community.",
	"Partners":  "Consultancies and technology partners that extend the platform.",
}

// FooterBlocks are the headed link columns in the site footer.
var FooterBlocks = []LinkGroup{
	{Heading: "Services", Links: []Link{
		{Name: "Professional Services", Href: "/services/professional"},
		{Name: "Managed Programs", Href: "/services/managed"},
	}},
	{Heading: "Applications", Links: []Link{
		{Name: "Experience Analytics", Href: "/applications/analytics"},
		{Name: "Active Listening", Href: "/applications/listening"},
	}},
	{Heading: "Plans", Links: []Link{
		{Name: "Starter", Href: "/plans/starter"},
		{Name: "Enterprise", Href: "/plans/enterprise"},
	}},
	{Heading: "Packages", Links: []Link{
		{Name: "CX Essentials", Href: "/packages/essentials"},
		{Name: "Employee Experience", Href: "/packages/employee"},
	}},
	{Heading: "Customer Service", Links: []Link{
		{Name: "Support Center", Href: "/support"},
		{Name: "Contact Us", Href: "/contact"},
	}},
}

// LegalLinks sit under the footer blocks.
var LegalLinks = []Link{
	{Name: "Privacy Policy", Href: "/privacy"},
	{Name: "Terms of Use", Href: "/terms"},
	{Name: "Cookie Settings", Href: "/cookies"},
}

// Regions offered by the region chooser.
var Regions = []Link{
	{Name: "United States/Canada (English)", Href: "?region=en-us"},
	{Name: "United Kingdom (English)", Href: "?region=en-gb"},
	{Name: "Deutschland (Deutsch)", Href: "?region=de-de"},
}

// DemoCountries populate the request-demo country combobox.
var DemoCountries = []string{"United States", "Canada", "United Kingdom", "Germany", "Australia"}

var sections = []Section{
	{
		Slug:    "solutions",
		Title:   "Solutions | InMoment",
		Heading: "Solutions",
		Intro:   "Improve experiences across every channel, role and industry.",
		Groups: []LinkGroup{
			{Heading: "By capability", Links: []Link{
				{Name: "Customer Feedback", Href: "/solutions/customer-feedback"},
				{Name: "Conversational Intelligence", Href: "/solutions/conversational-intelligence"},
				{Name: "Reputation Management", Href: "/solutions/reputation-management"},
				{Name: "Digital Listening", Href: "/solutions/digital-listening"},
			}},
			{Heading: "By role", Links: []Link{
				{Name: "Customer Experience Leaders", Href: "/solutions/cx-leaders"},
				{Name: "Contact Center Leaders", Href: "/solutions/contact-center-leaders"},
				{Name: "Marketing Leaders", Href: "/solutions/marketing-leaders"},
				{Name: "Insights Leaders", Href: "/solutions/insights-leaders"},
			}},
			{Heading: "By industry", Links: []Link{
				{Name: "Retail", Href: "/solutions/retail"},
				{Name: "Financial Services", Href: "/solutions/financial-services"},
				{Name: "Healthcare", Href: "/solutions/healthcare"},
				{Name: "Transportation", Href: "/solutions/transportation"},
			}},
		},
	},
	{
		Slug:    "platform",
		Title:   "Platform | InMoment",
		Heading: "The XI Platform",
		Intro:   "Listen everywhere, understand what matters and act faster.",
		Groups: []LinkGroup{
			{Heading: "Listen & Improve", Links: []Link{
				{Name: "Platform Overview", Href: "/platform/overview"},
				{Name: "Listen & Improve", Href: "/platform/listen-and-improve"},
				{Name: "Text Analytics", Href: "/platform/text-analytics"},
				{Name: "Artificial Intelligence", Href: "/platform/artificial-intelligence"},
			}},
			{Heading: "Report", Links: []Link{
				{Name: "Report", Href: "/platform/report"},
				{Name: "Integrations", Href: "/platform/integrations"},
			}},
			{Heading: "Mobile Application", Links: []Link{
				{Name: "Mobile Application", Href: "/platform/mobile"},
			}},
			{Heading: "Trust", Links: []Link{
				{Name: "Security", Href: "/platform/security"},
				{Name: "Scalability", Href: "/platform/scalability"},
			}},
		},
	},
	{
		Slug:    "resources",
		Title:   "Resources | InMoment",
		Heading: "Resources",
		Intro:   "Learn, connect and grow with the experience improvement community.",
		Groups: []LinkGroup{
			{Heading: "Browse", Links: []Link{
				{Name: "Customer Stories", Href: "/resources/customer-stories"},
				{Name: "Events", Href: "/resources/events"},
				{Name: "Blog", Href: "/resources/blog"},
				{Name: "Podcast", Href: "/resources/podcast"},
				{Name: "Calculate the ROI of Integrated CX", Href: "/resources/roi"},
				{Name: "Resource Library", Href: "/resources/library"},
				{Name: "Partners", Href: "/partners"},
			}},
		},
	},
	{
		Slug:    "partners",
		Title:   "Partners | InMoment",
		Heading: "Partner Program",
		Intro:   "Grow with the experience improvement leader.",
		Groups: []LinkGroup{
			{Heading: "Work with us", Links: []Link{
				{Name: "Partner with InMoment", Href: "/partners/partner-with-inmoment"},
				{Name: "Become a Partner", Href: "/partners/become"},
				{Name: "Find a Partner", Href: "/partners/directory"},
			}},
		},
	},
}

// SectionBySlug returns the landing page with slug.
func SectionBySlug(slug string) (Section, bool) {
	for _, s := range sections {
		if s.Slug == slug {
			return s, true
		}
	}
	return Section{}, false
}

// detailPages maps every leaf link on the site to the page it opens.
func detailPages() map[string]string {
	pages := make(map[string]string)
	for _, s := range sections {
		for _, g := range s.Groups {
			for _, l := range g.Links {
				pages[l.Href] = l.Name
			}
		}
	}
	for _, g := range FooterBlocks {
		for _, l := range g.Links {
			pages[l.Href] = l.Name
		}
	}
	for _, l := range LegalLinks {
		pages[l.Href] = l.Name
	}
	// Landing pages and dedicated handlers render themselves.
	for _, href := range []string{
		"/partners", "/resources/customer-stories", "/resources/events", "/resources/blog",
		"/resources/podcast", "/resources/roi", "/resources/library",
	} {
		delete(pages, href)
	}
	return pages
}
