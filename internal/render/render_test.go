package render

import (
	"strings"
	"testing"
)

func TestMarkdownHTML(t *testing.T) {
	m := NewMarkdown()
	out := m.HTML("What is **2+2**?")
	if !strings.Contains(out, "<strong>2+2</strong>") {
		t.Fatalf("markdown not rendered: %q", out)
	}
	if got := m.HTML(""); got != "" {
		t.Fatalf("empty source must stay empty, got %q", got)
	}
}

func TestPassthrough(t *testing.T) {
	src := "raw *text* stays raw"
	if got := (Passthrough{}).HTML(src); got != src {
		t.Fatalf("passthrough changed the text: %q", got)
	}
}

func TestNoopTypesetter(t *testing.T) {
	html := "<p>\\(x^2\\)</p>"
	if got := (NoopTypesetter{}).Typeset(html); got != html {
		t.Fatalf("noop typesetter changed the fragment: %q", got)
	}
}
