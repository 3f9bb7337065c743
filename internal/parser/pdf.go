package parser

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/dgallion1/pagewright/internal/doctree"
)

// PDFParser extracts plain text from PDF files and wraps each paragraph in a
// <p>. Source page boundaries are not kept; the paginator decides pages.
type PDFParser struct {
	FallbackPdftotext bool
}

func (p *PDFParser) Parse(r io.Reader, filename string) (doctree.Document, error) {
	// ledongthuc/pdf needs a ReadSeeker and size.
	tmp, err := os.CreateTemp("", "pagewright-pdf-*.pdf")
	if err != nil {
		return doctree.Document{}, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return doctree.Document{}, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	text, err := extractPDFText(tmpPath)
	if err != nil && p.FallbackPdftotext {
		text, err = extractPdftotext(tmpPath)
	}
	if err != nil {
		return doctree.Document{}, fmt.Errorf("extract pdf text: %w", err)
	}

	var content strings.Builder
	for _, page := range strings.Split(text, "\f") {
		for _, para := range splitParagraphs(page) {
			writeBlock(&content, "p", para)
		}
	}

	return doctree.Document{
		Title:   titleFromFilename(filename),
		Content: content.String(),
	}, nil
}

func extractPDFText(path string) (string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var buf strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if i > 1 {
			buf.WriteString("\f")
		}
		buf.WriteString(text)
	}
	return buf.String(), nil
}

func extractPdftotext(path string) (string, error) {
	out, err := exec.Command("pdftotext", path, "-").Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	return string(out), nil
}
