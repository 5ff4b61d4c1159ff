package page

import (
	"bytes"
	_ "embed"
	"html/template"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

//go:embed about.md
var aboutMarkdown string

var markdownRenderer = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	// Raw HTML stays disabled (no html.WithUnsafe).
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

var (
	aboutOnce sync.Once
	aboutHTML template.HTML
)

// About is the controller for the static about page.
type About struct{}

// NewAbout returns the About controller.
func NewAbout() *About {
	return &About{}
}

// State is always ready: the page loads nothing.
func (a *About) State() State { return StateReady }

// Content returns the rendered page body.
func (a *About) Content() template.HTML {
	aboutOnce.Do(func() {
		aboutHTML = renderMarkdownHTML(aboutMarkdown)
	})
	return aboutHTML
}

// ConfigPath and HomePath are the page's navigation shortcuts.
func (a *About) ConfigPath() string { return PathConfig }
func (a *About) HomePath() string   { return PathHome }

func renderMarkdownHTML(src string) template.HTML {
	src = strings.TrimSpace(src)
	if src == "" {
		return ""
	}
	var b bytes.Buffer
	if err := markdownRenderer.Convert([]byte(src), &b); err != nil {
		return template.HTML("<pre>" + template.HTMLEscapeString(src) + "</pre>")
	}
	return template.HTML(b.String())
}
