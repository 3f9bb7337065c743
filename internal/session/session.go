// Package session ties a document's navigation state to its derived page list
// and display settings for one editing session.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dgallion1/pagewright/internal/docstore"
	"github.com/dgallion1/pagewright/internal/doctree"
	"github.com/dgallion1/pagewright/internal/navigation"
	"github.com/dgallion1/pagewright/internal/pagination"
	"github.com/google/uuid"
)

// ViewMode selects between the editing surface and the page view.
type ViewMode string

const (
	ViewText ViewMode = "text"
	ViewPage ViewMode = "page"
)

// Settings are display preferences that do not affect page boundaries.
type Settings struct {
	Header           string   `json:"header" toml:"header"`
	Footer           string   `json:"footer" toml:"footer"`
	ShowHeaderFooter bool     `json:"show_header_footer" toml:"show_header_footer"`
	FontSize         int      `json:"font_size" toml:"font_size"`
	FontFamily       string   `json:"font_family" toml:"font_family"`
	ViewMode         ViewMode `json:"view_mode" toml:"view_mode"`
}

// Normalize clamps and whitelists every field.
func (s Settings) Normalize() Settings {
	if s.FontSize == 0 {
		s.FontSize = navigation.DefaultFontSize
	}
	s.FontSize = navigation.ClampFontSize(s.FontSize)
	s.FontFamily = navigation.NormalizeFontFamily(s.FontFamily)
	if s.ViewMode != ViewPage {
		s.ViewMode = ViewText
	}
	return s
}

// SettingsUpdate is a partial settings change. Nil fields are left unchanged.
type SettingsUpdate struct {
	WordsPerPage     *int      `json:"words_per_page,omitempty"`
	Header           *string   `json:"header,omitempty"`
	Footer           *string   `json:"footer,omitempty"`
	ShowHeaderFooter *bool     `json:"show_header_footer,omitempty"`
	FontSize         *int      `json:"font_size,omitempty"`
	FontFamily       *string   `json:"font_family,omitempty"`
	ViewMode         *ViewMode `json:"view_mode,omitempty"`
}

// Options configure a new session.
type Options struct {
	DocumentID   string
	Title        string
	Content      string
	WordsPerPage int
	Settings     Settings

	// Observer, if set, is told about every pagination pass.
	Observer PassObserver
}

// PassObserver receives the duration and page count of each pagination pass.
type PassObserver interface {
	Observe(elapsed time.Duration, pages int)
}

// Action is a navigation request from the display layer.
type Action string

const (
	ActionNext     Action = "next"
	ActionPrevious Action = "previous"
	ActionFirst    Action = "first"
	ActionLast     Action = "last"
	ActionGoto     Action = "goto"
)

// Session is one editing session. It is safe for concurrent use; all
// transitions are serialized on the session mutex.
type Session struct {
	mu sync.Mutex

	ID         string
	DocumentID string
	Title      string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	state    navigation.State
	settings Settings

	// Page list derived from (pagesContent, pagesBudget).
	pages        []doctree.Page
	pagesContent string
	pagesBudget  int

	observer PassObserver
	now      func() time.Time

	// Open live connections. An attached session is never idle.
	attached int
}

// New creates a session for a freshly loaded document.
func New(opts Options) *Session {
	now := time.Now()
	s := &Session{
		ID:         uuid.NewString(),
		DocumentID: opts.DocumentID,
		Title:      opts.Title,
		CreatedAt:  now,
		UpdatedAt:  now,
		state:      navigation.NewState(opts.Content, opts.WordsPerPage),
		settings:   opts.Settings.Normalize(),
		observer:   opts.Observer,
		now:        time.Now,
	}
	s.refresh()
	return s
}

// SetClock replaces the time source used for timestamps and footer dates.
func (s *Session) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// State returns the raw navigation state.
func (s *Session) State() navigation.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Settings returns the current display settings.
func (s *Session) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// LastActive returns the time of the last transition.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.UpdatedAt
}

// Attach pins the session for the lifetime of a live connection. The returned
// func releases the pin and restarts the idle clock.
func (s *Session) Attach() (release func()) {
	s.mu.Lock()
	s.attached++
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.attached--
			s.UpdatedAt = s.now()
		})
	}
}

// Touch marks the session active without a transition.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.UpdatedAt = s.now()
}

// Idle reports whether the session has had no activity for longer than ttl and
// has no live connection attached.
func (s *Session) Idle(now time.Time, ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attached == 0 && now.Sub(s.UpdatedAt) > ttl
}

// Load replaces the session's document and resets navigation.
func (s *Session) Load(doc doctree.Document) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.DocumentID = doc.ID
	s.Title = doc.Title
	s.apply(navigation.DocumentLoaded{Content: doc.Content})
	return s.view()
}

// OnContentChange records an edit from the editing surface.
func (s *Session) OnContentChange(markup string) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apply(navigation.ContentChanged{Content: markup}, navigation.MarkedDirty{})
	return s.view()
}

// OnWordsPerPageChange changes the page budget.
func (s *Session) OnWordsPerPageChange(n int) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apply(navigation.WordsPerPageChanged{WordsPerPage: n})
	return s.view()
}

// UpdateSettings applies a partial settings change.
func (s *Session) UpdateSettings(u SettingsUpdate) View {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.settings
	if u.Header != nil {
		next.Header = *u.Header
	}
	if u.Footer != nil {
		next.Footer = *u.Footer
	}
	if u.ShowHeaderFooter != nil {
		next.ShowHeaderFooter = *u.ShowHeaderFooter
	}
	if u.FontSize != nil {
		next.FontSize = navigation.ClampFontSize(*u.FontSize)
	}
	if u.FontFamily != nil {
		next.FontFamily = *u.FontFamily
	}
	if u.ViewMode != nil {
		next.ViewMode = *u.ViewMode
	}
	s.settings = next.Normalize()
	s.UpdatedAt = s.now()

	if u.WordsPerPage != nil {
		s.apply(navigation.WordsPerPageChanged{WordsPerPage: *u.WordsPerPage})
	}
	return s.view()
}

// Navigate performs a navigation action. page is only used by ActionGoto,
// where it is validated against the current page count first.
func (s *Session) Navigate(action Action, page int) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch action {
	case ActionNext:
		s.apply(navigation.NextPage{})
	case ActionPrevious:
		s.apply(navigation.PreviousPage{})
	case ActionFirst:
		s.apply(navigation.FirstPage{})
	case ActionLast:
		s.apply(navigation.LastPage{TotalPages: len(s.paginated())})
	case ActionGoto:
		total := len(s.paginated())
		s.apply(navigation.PageSelected{Page: navigation.ValidatePageNumber(page, total)})
	default:
		return View{}, fmt.Errorf("unknown navigation action %q", action)
	}
	return s.view(), nil
}

// Pages returns the current page list.
func (s *Session) Pages() []doctree.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	pages := s.paginated()
	out := make([]doctree.Page, len(pages))
	copy(out, pages)
	return out
}

// Page returns the page with the given id.
func (s *Session) Page(id int) (doctree.Page, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pages := s.paginated()
	if id < 1 || id > len(pages) {
		return doctree.Page{}, false
	}
	return pages[id-1], true
}

// View returns a render-ready snapshot of the session.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}

// Save persists the document and clears the dirty flag.
func (s *Session) Save(ctx context.Context, store docstore.Store) (doctree.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := doctree.Document{
		ID:      s.DocumentID,
		Title:   s.Title,
		Content: s.state.Content,
	}
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	saved, err := store.Save(ctx, doc)
	if err != nil {
		return doctree.Document{}, fmt.Errorf("save document %s: %w", doc.ID, err)
	}
	s.DocumentID = saved.ID
	s.apply(navigation.MarkedClean{})
	return saved, nil
}

// apply runs events through the reducer, then the reactive clamp against a
// fresh page count. Caller holds s.mu.
func (s *Session) apply(events ...navigation.Event) {
	for _, e := range events {
		s.state = navigation.Reduce(s.state, e)
	}
	s.UpdatedAt = s.now()
	s.refresh()
}

// refresh recomputes the page count and clamps the current page to it.
func (s *Session) refresh() {
	s.state = navigation.Reduce(s.state, navigation.PagesRecomputed{TotalPages: len(s.paginated())})
}

// paginated returns the page list for the current content and budget,
// repaginating only when either has changed.
func (s *Session) paginated() []doctree.Page {
	if s.pages != nil && s.pagesContent == s.state.Content && s.pagesBudget == s.state.WordsPerPage {
		return s.pages
	}
	start := time.Now()
	s.pages = pagination.Paginate(s.state.Content, s.state.WordsPerPage)
	if s.observer != nil {
		s.observer.Observe(time.Since(start), len(s.pages))
	}
	s.pagesContent = s.state.Content
	s.pagesBudget = s.state.WordsPerPage
	return s.pages
}
