// Package render holds the host-facing rich-text collaborators. The engine
// never touches a DOM; it hands the host pre-rendered HTML fragments and the
// host decides where they land.
package render

import (
	"bytes"

	"github.com/yuin/goldmark"
)

// Renderer turns a rich-text (markdown) string into an HTML fragment.
type Renderer interface {
	HTML(src string) string
}

// Typesetter re-processes a rendered fragment to typeset embedded math.
// Implementations are best-effort: on failure they must return the input
// unchanged.
type Typesetter interface {
	Typeset(html string) string
}

// Markdown renders prompts, option labels and explanations with goldmark.
type Markdown struct {
	md goldmark.Markdown
}

func NewMarkdown() *Markdown {
	return &Markdown{md: goldmark.New()}
}

// HTML degrades to the raw source when conversion fails, so a broken prompt
// still shows up as text.
func (m *Markdown) HTML(src string) string {
	if src == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := m.md.Convert([]byte(src), &buf); err != nil {
		return src
	}
	return buf.String()
}

// Passthrough is the fallback when no markdown renderer is available: rich
// text is shown as-is.
type Passthrough struct{}

func (Passthrough) HTML(src string) string { return src }

// NoopTypesetter skips typesetting entirely.
type NoopTypesetter struct{}

func (NoopTypesetter) Typeset(html string) string { return html }
