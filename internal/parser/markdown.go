package parser

import (
	"bytes"
	"fmt"
	"io"

	"github.com/dgallion1/pagewright/internal/doctree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser renders Markdown with goldmark. The first level-one heading,
// if any, becomes the title.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (doctree.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return doctree.Document{}, err
	}

	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(src))

	var buf bytes.Buffer
	if err := md.Renderer().Render(&buf, src, root); err != nil {
		return doctree.Document{}, fmt.Errorf("render markdown: %w", err)
	}

	doc := doctree.Document{
		Title:   titleFromFilename(filename),
		Content: string(bytes.TrimSpace(buf.Bytes())),
	}
	if title := firstHeading(root, src); title != "" {
		doc.Title = title
	}
	return doc, nil
}

func firstHeading(root ast.Node, src []byte) string {
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok && h.Level == 1 {
			return string(inlineText(h, src))
		}
	}
	return ""
}

func inlineText(n ast.Node, src []byte) []byte {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Segment.Value(src))
			continue
		}
		buf.Write(inlineText(c, src))
	}
	return bytes.TrimSpace(buf.Bytes())
}
