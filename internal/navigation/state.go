// Package navigation holds the page navigation state machine of an editing
// session. Every transition is a pure function from one State to the next.
package navigation

import "github.com/dgallion1/pagewright/internal/pagination"

// Words-per-page policy range.
const (
	MinWordsPerPage     = 50
	MaxWordsPerPage     = 500
	DefaultWordsPerPage = pagination.DefaultWordsPerPage
)

// State is the mutable part of an editing session. TotalPages is never stored;
// it is derived from a pagination pass over Content.
type State struct {
	Content      string `json:"content"`
	CurrentPage  int    `json:"current_page"`
	WordsPerPage int    `json:"words_per_page"`
	Dirty        bool   `json:"dirty"`
}

// NewState returns the state of a freshly loaded document.
func NewState(content string, wordsPerPage int) State {
	return State{
		Content:      content,
		CurrentPage:  1,
		WordsPerPage: ClampWordsPerPage(wordsPerPage),
	}
}

// Event is an input to Reduce.
type Event interface {
	event()
}

// DocumentLoaded replaces the document and resets navigation and the dirty flag.
type DocumentLoaded struct{ Content string }

// ContentChanged is fired on every edit of the document.
type ContentChanged struct{ Content string }

// WordsPerPageChanged changes the page budget.
type WordsPerPageChanged struct{ WordsPerPage int }

// PageSelected moves to an explicit page. Only the lower bound is enforced here.
type PageSelected struct{ Page int }

// NextPage advances one page without checking the upper bound.
type NextPage struct{}

// PreviousPage goes back one page unless already on the first.
type PreviousPage struct{}

// FirstPage jumps to page 1.
type FirstPage struct{}

// LastPage jumps to the caller-supplied last page.
type LastPage struct{ TotalPages int }

// PagesRecomputed reports the page count of a fresh pagination pass.
type PagesRecomputed struct{ TotalPages int }

// MarkedDirty flags unsaved edits.
type MarkedDirty struct{}

// MarkedClean clears the dirty flag after a save.
type MarkedClean struct{}

func (DocumentLoaded) event()      {}
func (ContentChanged) event()      {}
func (WordsPerPageChanged) event() {}
func (PageSelected) event()        {}
func (NextPage) event()            {}
func (PreviousPage) event()        {}
func (FirstPage) event()           {}
func (LastPage) event()            {}
func (PagesRecomputed) event()     {}
func (MarkedDirty) event()         {}
func (MarkedClean) event()         {}

// Reduce applies e to s and returns the resulting state.
//
// NextPage and PageSelected may leave CurrentPage above the page count; the
// PagesRecomputed event that follows every pagination pass pulls it back.
func Reduce(s State, e Event) State {
	switch ev := e.(type) {
	case DocumentLoaded:
		s.Content = ev.Content
		s.CurrentPage = 1
		s.Dirty = false
	case ContentChanged:
		s.Content = ev.Content
		s.Dirty = true
		if s.CurrentPage > 1 {
			s.CurrentPage = 1
		}
	case WordsPerPageChanged:
		s.WordsPerPage = ClampWordsPerPage(ev.WordsPerPage)
		s.CurrentPage = 1
	case PageSelected:
		s.CurrentPage = max(1, ev.Page)
	case NextPage:
		s.CurrentPage++
	case PreviousPage:
		if s.CurrentPage > 1 {
			s.CurrentPage--
		}
	case FirstPage:
		s.CurrentPage = 1
	case LastPage:
		s.CurrentPage = ev.TotalPages
	case PagesRecomputed:
		if s.CurrentPage > ev.TotalPages && ev.TotalPages > 0 {
			s.CurrentPage = ev.TotalPages
		}
	case MarkedDirty:
		s.Dirty = true
	case MarkedClean:
		s.Dirty = false
	}
	return s
}

// ClampWordsPerPage forces n into [MinWordsPerPage, MaxWordsPerPage].
func ClampWordsPerPage(n int) int {
	return min(max(n, MinWordsPerPage), MaxWordsPerPage)
}

// ValidatePageNumber clamps n into [1, totalPages]. For totalPages <= 0 it
// returns 1, which is not a real page; callers must check for that themselves.
func ValidatePageNumber(n, totalPages int) int {
	return max(1, min(n, totalPages))
}
