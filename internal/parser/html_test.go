package parser

import (
	"strings"
	"testing"
)

func TestHTMLParser_KeepsBodyBlocks(t *testing.T) {
	input := `<html><head><title>Guide</title><style>p{}</style></head>
<body>
<h1>Intro</h1>
<p>Hello <b>world</b></p>
<script>alert(1)</script>
stray text
<ul><li>x</li></ul>
</body></html>`

	p := &HTMLParser{}
	doc, err := p.Parse(strings.NewReader(input), "guide.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "Guide" {
		t.Errorf("expected title %q, got %q", "Guide", doc.Title)
	}

	want := "<h1>Intro</h1><p>Hello <b>world</b></p><p>stray text</p><ul><li>x</li></ul>"
	if doc.Content != want {
		t.Errorf("expected content %q, got %q", want, doc.Content)
	}
}

func TestHTMLParser_FragmentWithoutTitle(t *testing.T) {
	p := &HTMLParser{}
	doc, err := p.Parse(strings.NewReader("<p>one</p><p>two</p>"), "frag.htm")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "frag" {
		t.Errorf("expected title %q, got %q", "frag", doc.Title)
	}
	if doc.Content != "<p>one</p><p>two</p>" {
		t.Errorf("unexpected content %q", doc.Content)
	}
}
