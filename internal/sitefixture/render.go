package sitefixture

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

// Renderer executes page templates wrapped in the shared site chrome.
type Renderer struct {
	templates map[string]*template.Template
}

// NewRenderer parses templates/base.html together with every other template
// in fsys. Page templates define a "content" block the base pulls in.
func NewRenderer(fsys fs.FS) (*Renderer, error) {
	base, err := fs.ReadFile(fsys, "templates/base.html")
	if err != nil {
		return nil, fmt.Errorf("failed to read base template: %w", err)
	}

	pages, err := fs.Glob(fsys, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	r := &Renderer{templates: make(map[string]*template.Template)}
	for _, p := range pages {
		name := path.Base(p)
		if name == "base.html" {
			continue
		}
		content, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("failed to read template %s: %w", name, err)
		}
		tmpl, err := template.New("base").Parse(string(base))
		if err != nil {
			return nil, fmt.Errorf("failed to parse base template for %s: %w", name, err)
		}
		if tmpl, err = tmpl.Parse(string(content)); err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		r.templates[name] = tmpl
	}
	return r, nil
}

// Render writes the named template with status code.
func (r *Renderer) Render(w http.ResponseWriter, status int, templateName string, data any) error {
	tmpl, ok := r.templates[templateName]
	if !ok {
		return fmt.Errorf("template %q not found", templateName)
	}

	// Render into a buffer first so a template error still yields a clean 500.
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		return fmt.Errorf("failed to execute template %q: %w", templateName, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := w.Write(buf.Bytes())
	return err
}

// renderMarkdown converts authored markdown to sanitized HTML. Links stay in
// the same tab so navigation helpers can follow them.
func renderMarkdown(md []byte) template.HTML {
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs | parser.NoEmptyLineBeforeBlock
	p := parser.NewWithExtensions(extensions)
	doc := p.Parse(md)

	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	htmlContent := markdown.Render(doc, renderer)

	policy := bluemonday.UGCPolicy()
	return template.HTML(policy.SanitizeBytes(htmlContent))
}

// markdownTitle returns the text of the first level-one heading in md.
func markdownTitle(md []byte) string {
	doc := parser.NewWithExtensions(parser.CommonExtensions).Parse(md)
	var title string
	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		h, ok := node.(*ast.Heading)
		if !ok || !entering || h.Level != 1 {
			return ast.GoToNext
		}
		title = strings.TrimSpace(string(headingText(h)))
		return ast.Terminate
	})
	return title
}

func headingText(node ast.Node) []byte {
	var out []byte
	ast.WalkFunc(node, func(n ast.Node, entering bool) ast.WalkStatus {
		if leaf := n.AsLeaf(); leaf != nil && entering {
			out = append(out, leaf.Literal...)
		}
		return ast.GoToNext
	})
	return out
}

// markdownSummary returns the first paragraph of md as plain text.
func markdownSummary(md []byte) string {
	for _, block := range strings.Split(string(md), "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" || strings.HasPrefix(block, "#") {
			continue
		}
		return strings.Join(strings.Fields(block), " ")
	}
	return ""
}
