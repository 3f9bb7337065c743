// Package export renders paginated documents to PDF, one PDF page per
// document page.
package export

import (
	"fmt"
	"html"
	"io"
	"strings"
	"time"

	"codeberg.org/go-pdf/fpdf"

	"github.com/dgallion1/pagewright/internal/doctree"
	"github.com/dgallion1/pagewright/internal/navigation"
	"github.com/dgallion1/pagewright/internal/pagination"
	"github.com/dgallion1/pagewright/internal/session"
)

const (
	margin      = 72.0
	footerSpace = 48.0
	lineHeight  = 1.4
)

// Options control page decoration.
type Options struct {
	Title            string
	Header           string
	Footer           string
	ShowHeaderFooter bool
	FontSize         int
	FontFamily       string
	Date             time.Time
}

// OptionsFor builds export options from a session's settings.
func OptionsFor(title string, s session.Settings, date time.Time) Options {
	return Options{
		Title:            title,
		Header:           s.Header,
		Footer:           s.Footer,
		ShowHeaderFooter: s.ShowHeaderFooter,
		FontSize:         s.FontSize,
		FontFamily:       s.FontFamily,
		Date:             date,
	}
}

// WritePDF renders pages to w and returns the number of PDF pages written.
// A document page that overflows the sheet continues on extra PDF pages that
// repeat its header and footer.
func WritePDF(w io.Writer, pages []doctree.Page, opts Options) (int, error) {
	family := coreFont(opts.FontFamily)
	size := float64(navigation.ClampFontSize(opts.FontSize))

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.SetTitle(opts.Title, true)
	pdf.SetCreator("pagewright", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	total := len(pages)
	current, next := 0, 0
	pdf.SetHeaderFunc(func() {
		current = next
		if !opts.ShowHeaderFooter || opts.Header == "" {
			return
		}
		pdf.SetY(margin / 2)
		pdf.SetFont(family, "I", 9)
		pdf.CellFormat(0, 12, tr(opts.Header), "", 0, "C", false, 0, "")
		pdf.SetY(margin)
	})
	pdf.SetFooterFunc(func() {
		if !opts.ShowHeaderFooter || opts.Footer == "" {
			return
		}
		pdf.SetY(-footerSpace)
		pdf.SetFont(family, "", 9)
		footer := session.RenderFooter(opts.Footer, current, total, opts.Date)
		pdf.CellFormat(0, 12, tr(footer), "", 0, "C", false, 0, "")
	})

	for i, page := range pages {
		next = i + 1
		pdf.AddPage()
		if err := writePage(pdf, tr, page, family, size); err != nil {
			return 0, fmt.Errorf("render page %d: %w", page.ID, err)
		}
	}

	if err := pdf.Output(w); err != nil {
		return 0, fmt.Errorf("write pdf: %w", err)
	}
	return pdf.PageCount(), nil
}

func writePage(pdf *fpdf.Fpdf, tr func(string) string, page doctree.Page, family string, size float64) error {
	blocks, err := pagination.SplitBlocks(page.Content)
	if err != nil || len(blocks) == 0 {
		blocks = []doctree.Block{{Tag: "p", Markup: page.Content}}
	}

	for _, b := range blocks {
		text := plainText(b.Markup)
		if text == "" {
			continue
		}
		style, scale := blockStyle(b.Tag)
		pdf.SetFont(family, style, size*scale)
		pdf.MultiCell(0, size*scale*lineHeight, tr(text), "", "L", false)
		pdf.Ln(size * 0.6)
	}
	return pdf.Error()
}

func plainText(markup string) string {
	text := html.UnescapeString(pagination.StripMarkup(markup))
	return strings.Join(strings.Fields(text), " ")
}

func blockStyle(tag string) (string, float64) {
	switch tag {
	case "h1":
		return "B", 2
	case "h2":
		return "B", 1.5
	case "h3":
		return "B", 1.25
	case "h4", "h5", "h6":
		return "B", 1
	case "blockquote":
		return "I", 1
	}
	return "", 1
}

// coreFont maps an editor font family onto one of the built-in PDF fonts.
func coreFont(family string) string {
	switch navigation.NormalizeFontFamily(family) {
	case "georgia", "times-new-roman":
		return "Times"
	default:
		return "Helvetica"
	}
}
