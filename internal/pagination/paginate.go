package pagination

import (
	"strings"

	"github.com/dgallion1/pagewright/internal/doctree"
)

// DefaultWordsPerPage is the budget used when none (or a non-positive one) is given.
const DefaultWordsPerPage = 200

// EmptyPreview is the preview of the single page produced for empty content.
const EmptyPreview = "Empty document"

// Paginate splits content into pages of at most wordsPerPage words.
//
// Top-level blocks are never split: a block that would push the current page
// over budget starts a new page, and a block that is larger than the budget on
// its own gets a page to itself. The result always holds at least one page.
// Content without any top-level element, or content the tokenizer rejects,
// becomes a single page holding the whole content.
func Paginate(content string, wordsPerPage int) []doctree.Page {
	if content == "" {
		return []doctree.Page{{ID: 1, Preview: EmptyPreview}}
	}
	if wordsPerPage <= 0 {
		wordsPerPage = DefaultWordsPerPage
	}

	blocks, err := SplitBlocks(content)
	if err != nil || len(blocks) == 0 {
		return []doctree.Page{wholePage(content)}
	}

	var pages []doctree.Page
	var current strings.Builder
	currentWords := 0

	flush := func() {
		text := current.String()
		pages = append(pages, doctree.Page{
			ID:        len(pages) + 1,
			Content:   text,
			WordCount: currentWords,
			Preview:   GeneratePreview(text),
		})
		current.Reset()
		currentWords = 0
	}

	for _, block := range blocks {
		words := CountWords(block.Markup)

		// Would adding this block exceed the budget?
		if currentWords+words > wordsPerPage && current.Len() > 0 {
			flush()
		}
		current.WriteString(block.Markup)
		currentWords += words
	}

	if current.Len() > 0 {
		flush()
	}

	return pages
}

// PageContent paginates content and returns the page with the given id.
func PageContent(content string, pageNumber, wordsPerPage int) (doctree.Page, bool) {
	for _, p := range Paginate(content, wordsPerPage) {
		if p.ID == pageNumber {
			return p, true
		}
	}
	return doctree.Page{}, false
}

// TotalWords sums the word counts of pages.
func TotalWords(pages []doctree.Page) int {
	total := 0
	for _, p := range pages {
		total += p.WordCount
	}
	return total
}

func wholePage(content string) doctree.Page {
	return doctree.Page{
		ID:        1,
		Content:   content,
		WordCount: CountWords(content),
		Preview:   GeneratePreview(content),
	}
}
