package session

import (
	"github.com/dgallion1/pagewright/internal/doctree"
	"github.com/dgallion1/pagewright/internal/navigation"
	"github.com/dgallion1/pagewright/internal/pagination"
)

// View is everything the display layer needs to render a session.
type View struct {
	SessionID      string            `json:"session_id"`
	DocumentID     string            `json:"document_id,omitempty"`
	Title          string            `json:"title,omitempty"`
	CurrentPage    int               `json:"current_page"`
	TotalPages     int               `json:"total_pages"`
	WordsPerPage   int               `json:"words_per_page"`
	TotalWords     int               `json:"total_words"`
	ReadingMinutes int               `json:"reading_minutes"`
	Dirty          bool              `json:"dirty"`
	Page           doctree.Page      `json:"page"`
	OverBudget     bool              `json:"over_budget"`
	Navigation     navigation.Info   `json:"navigation"`
	Window         navigation.Window `json:"window"`
	Header         string            `json:"header,omitempty"`
	Footer         string            `json:"footer,omitempty"`
	Settings       Settings          `json:"settings"`
}

// PageSummary is a page without its markup, for thumbnail lists.
type PageSummary struct {
	ID        int    `json:"id"`
	WordCount int    `json:"word_count"`
	Preview   string `json:"preview"`
	Current   bool   `json:"current"`
}

// Summaries strips page content for list rendering.
func Summaries(pages []doctree.Page, currentPage int) []PageSummary {
	out := make([]PageSummary, 0, len(pages))
	for _, p := range pages {
		out = append(out, PageSummary{
			ID:        p.ID,
			WordCount: p.WordCount,
			Preview:   p.Preview,
			Current:   p.ID == currentPage,
		})
	}
	return out
}

// view builds a View. Caller holds s.mu.
func (s *Session) view() View {
	pages := s.paginated()
	total := len(pages)
	current := s.state.CurrentPage

	v := View{
		SessionID:      s.ID,
		DocumentID:     s.DocumentID,
		Title:          s.Title,
		CurrentPage:    current,
		TotalPages:     total,
		WordsPerPage:   s.state.WordsPerPage,
		TotalWords:     pagination.TotalWords(pages),
		ReadingMinutes: pagination.ReadingTime(s.state.Content, pagination.DefaultWordsPerMinute),
		Dirty:          s.state.Dirty,
		Navigation:     navigation.NewInfo(current, total),
		Window:         navigation.PageWindow(current, total),
		Settings:       s.settings,
	}
	if total > 0 {
		v.Page = pages[navigation.ValidatePageNumber(current, total)-1]
		v.OverBudget = v.Page.WordCount > s.state.WordsPerPage
	}
	if s.settings.ShowHeaderFooter {
		v.Header = s.settings.Header
		v.Footer = RenderFooter(s.settings.Footer, current, total, s.now())
	}
	return v
}
