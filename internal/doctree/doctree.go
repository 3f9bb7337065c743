package doctree

import "time"

// Document is a stored or imported document. Content is block-structured markup.
type Document struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Block is one top-level element span of a document's markup.
type Block struct {
	Tag    string // Lower-cased tag name of the top-level element
	Markup string // Exact source text of the span, including any attached inter-element text
	Offset int    // Byte offset of Markup within the source content
}

// Page is a word-budget chunk of document content.
type Page struct {
	ID        int    `json:"id"`         // 1-based, contiguous within one pagination run
	Content   string `json:"content"`    // Concatenated block markup
	WordCount int    `json:"word_count"` // Words in the stripped text of Content
	Preview   string `json:"preview"`    // Stripped text, truncated to 150 characters
}
