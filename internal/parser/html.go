package parser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/dgallion1/pagewright/internal/doctree"
)

// HTMLParser handles HTML files. The children of <body> are kept as blocks;
// scripts, styles and bare text runs are dropped or wrapped.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (doctree.Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return doctree.Document{}, fmt.Errorf("parse html: %w", err)
	}

	doc := doctree.Document{Title: titleFromFilename(filename)}
	if title := findTitle(root); title != "" {
		doc.Title = title
	}

	body := findBody(root)
	if body == nil {
		body = root
	}

	var content strings.Builder
	var buf bytes.Buffer
	for n := body.FirstChild; n != nil; n = n.NextSibling {
		switch n.Type {
		case html.TextNode:
			writeBlock(&content, "p", n.Data)
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "noscript", "template":
				continue
			}
			buf.Reset()
			if err := html.Render(&buf, n); err != nil {
				return doctree.Document{}, fmt.Errorf("render html: %w", err)
			}
			content.Write(buf.Bytes())
		}
	}

	doc.Content = content.String()
	return doc, nil
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
