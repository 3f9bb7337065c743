package session

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/pagewright/internal/docstore"
	"github.com/dgallion1/pagewright/internal/doctree"
)

func paragraphs(n, words int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteString("<p>" + strings.TrimSpace(strings.Repeat("word ", words)) + "</p>")
	}
	return b.String()
}

func TestNew_Defaults(t *testing.T) {
	s := New(Options{Content: paragraphs(3, 80), WordsPerPage: 150})

	v := s.View()
	assert.NotEmpty(t, v.SessionID)
	assert.Equal(t, 1, v.CurrentPage)
	assert.Equal(t, 3, v.TotalPages)
	assert.Equal(t, 150, v.WordsPerPage)
	assert.Equal(t, 240, v.TotalWords)
	assert.False(t, v.Dirty)
	assert.Equal(t, 16, v.Settings.FontSize)
	assert.Equal(t, "arial", v.Settings.FontFamily)
	assert.Equal(t, ViewText, v.Settings.ViewMode)
}

func TestNew_EmptyDocumentHasOnePage(t *testing.T) {
	v := New(Options{}).View()
	assert.Equal(t, 1, v.TotalPages)
	assert.Equal(t, 1, v.Page.ID)
	assert.Equal(t, "Empty document", v.Page.Preview)
	assert.True(t, v.Navigation.IsFirst)
	assert.True(t, v.Navigation.IsLast)
}

func TestOnContentChange_MarksDirtyAndResetsPage(t *testing.T) {
	s := New(Options{Content: paragraphs(4, 80), WordsPerPage: 100})
	_, err := s.Navigate(ActionGoto, 3)
	require.NoError(t, err)
	require.Equal(t, 3, s.View().CurrentPage)

	v := s.OnContentChange(paragraphs(5, 80))
	assert.True(t, v.Dirty)
	assert.Equal(t, 1, v.CurrentPage)
	assert.Equal(t, 5, v.TotalPages)
}

func TestOnWordsPerPageChange_ClampsAndResets(t *testing.T) {
	s := New(Options{Content: paragraphs(6, 60), WordsPerPage: 100})
	_, _ = s.Navigate(ActionLast, 0)

	v := s.OnWordsPerPageChange(10000)
	assert.Equal(t, 500, v.WordsPerPage)
	assert.Equal(t, 1, v.CurrentPage)
	assert.Equal(t, 1, v.TotalPages)

	v = s.OnWordsPerPageChange(1)
	assert.Equal(t, 50, v.WordsPerPage)
	assert.Equal(t, 6, v.TotalPages) // each 60-word paragraph alone
	assert.True(t, v.OverBudget)
}

func TestNavigate_NextPastEndIsClampedByRecompute(t *testing.T) {
	s := New(Options{Content: paragraphs(3, 80), WordsPerPage: 100})
	_, _ = s.Navigate(ActionLast, 0)

	v, err := s.Navigate(ActionNext, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, v.CurrentPage)
	assert.Equal(t, 3, s.State().CurrentPage)
	assert.False(t, v.Navigation.HasNext)
	assert.True(t, v.Navigation.IsLast)
}

func TestNavigate_Actions(t *testing.T) {
	s := New(Options{Content: paragraphs(5, 80), WordsPerPage: 100})

	steps := []struct {
		action Action
		page   int
		want   int
	}{
		{ActionNext, 0, 2},
		{ActionNext, 0, 3},
		{ActionPrevious, 0, 2},
		{ActionLast, 0, 5},
		{ActionFirst, 0, 1},
		{ActionPrevious, 0, 1},
		{ActionGoto, 4, 4},
		{ActionGoto, 99, 5},
		{ActionGoto, -1, 1},
	}
	for _, st := range steps {
		v, err := s.Navigate(st.action, st.page)
		require.NoError(t, err)
		assert.Equal(t, st.want, v.CurrentPage, "%s %d", st.action, st.page)
		assert.Equal(t, st.want, v.Page.ID, "%s %d", st.action, st.page)
	}
}

func TestNavigate_UnknownAction(t *testing.T) {
	s := New(Options{})
	_, err := s.Navigate("sideways", 0)
	assert.Error(t, err)
}

func TestContentShrinkClampsCurrentPage(t *testing.T) {
	s := New(Options{Content: paragraphs(5, 80), WordsPerPage: 100})
	_, _ = s.Navigate(ActionLast, 0)

	// Loading a shorter document resets to page 1; the view is always in range.
	v := s.Load(doctree.Document{ID: "d", Content: paragraphs(2, 80)})
	assert.Equal(t, 1, v.CurrentPage)
	assert.Equal(t, 2, v.TotalPages)
	assert.False(t, v.Dirty)
}

func TestView_FooterAndHeader(t *testing.T) {
	s := New(Options{
		Content:      paragraphs(2, 80),
		WordsPerPage: 100,
		Settings: Settings{
			Header:           "My Report",
			Footer:           "Page {{pageNumber}} of {{totalPages}} - {{date}} {{author}}",
			ShowHeaderFooter: true,
		},
	})
	s.SetClock(func() time.Time { return time.Date(2026, 3, 7, 12, 0, 0, 0, time.UTC) })
	_, _ = s.Navigate(ActionNext, 0)

	v := s.View()
	assert.Equal(t, "My Report", v.Header)
	assert.Equal(t, "Page 2 of 2 - 3/7/2026 {{author}}", v.Footer)
}

func TestView_HiddenHeaderFooter(t *testing.T) {
	s := New(Options{Settings: Settings{Header: "h", Footer: "f"}})
	v := s.View()
	assert.Empty(t, v.Header)
	assert.Empty(t, v.Footer)
}

func TestUpdateSettings(t *testing.T) {
	s := New(Options{Content: paragraphs(4, 80), WordsPerPage: 100})
	_, _ = s.Navigate(ActionNext, 0)

	size := 200
	family := "Georgia"
	mode := ViewPage
	show := true
	footer := "{{pageNumber}}"
	v := s.UpdateSettings(SettingsUpdate{
		FontSize:         &size,
		FontFamily:       &family,
		ViewMode:         &mode,
		ShowHeaderFooter: &show,
		Footer:           &footer,
	})
	assert.Equal(t, 72, v.Settings.FontSize)
	assert.Equal(t, "georgia", v.Settings.FontFamily)
	assert.Equal(t, ViewPage, v.Settings.ViewMode)
	assert.Equal(t, "2", v.Footer)
	assert.Equal(t, 2, v.CurrentPage, "display settings must not move the page")

	wpp := 300
	v = s.UpdateSettings(SettingsUpdate{WordsPerPage: &wpp})
	assert.Equal(t, 300, v.WordsPerPage)
	assert.Equal(t, 1, v.CurrentPage)
}

func TestPages_AreMemoized(t *testing.T) {
	s := New(Options{Content: paragraphs(3, 80), WordsPerPage: 100})
	first := s.paginated()
	second := s.paginated()
	assert.Same(t, &first[0], &second[0])

	s.OnContentChange(paragraphs(2, 80))
	third := s.paginated()
	assert.NotSame(t, &first[0], &third[0])
	assert.Len(t, third, 2)
}

func TestPage(t *testing.T) {
	s := New(Options{Content: paragraphs(3, 80), WordsPerPage: 100})
	p, ok := s.Page(2)
	require.True(t, ok)
	assert.Equal(t, 2, p.ID)

	_, ok = s.Page(0)
	assert.False(t, ok)
	_, ok = s.Page(4)
	assert.False(t, ok)
}

func TestSummaries(t *testing.T) {
	s := New(Options{Content: paragraphs(3, 80), WordsPerPage: 100})
	sums := Summaries(s.Pages(), 2)
	require.Len(t, sums, 3)
	assert.True(t, sums[1].Current)
	assert.False(t, sums[0].Current)
	assert.Equal(t, 80, sums[2].WordCount)
}

func TestSave_ClearsDirty(t *testing.T) {
	store := docstore.NewMemoryStore()
	s := New(Options{Title: "Notes"})
	s.OnContentChange("<p>hello</p>")
	require.True(t, s.View().Dirty)

	doc, err := s.Save(context.Background(), store)
	require.NoError(t, err)
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, doc.ID, s.View().DocumentID)
	assert.False(t, s.View().Dirty)

	stored, err := store.Get(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "<p>hello</p>", stored.Content)
	assert.Equal(t, "Notes", stored.Title)
}

type failingStore struct{ docstore.Store }

func (failingStore) Save(context.Context, doctree.Document) (doctree.Document, error) {
	return doctree.Document{}, errors.New("disk full")
}

func TestSave_ErrorKeepsDirty(t *testing.T) {
	s := New(Options{})
	s.OnContentChange("<p>x</p>")

	_, err := s.Save(context.Background(), failingStore{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.True(t, s.View().Dirty)
}

func TestRenderFooter(t *testing.T) {
	date := time.Date(2026, 12, 25, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		tmpl string
		want string
	}{
		{"", ""},
		{"plain", "plain"},
		{"{{pageNumber}}/{{totalPages}}", "3/9"},
		{"{{date}}", "12/25/2026"},
		{"{{pageNumber}} and {{pageNumber}}", "3 and 3"},
		{"{{unknown}} {{pageNumber}}", "{{unknown}} 3"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RenderFooter(tt.tmpl, 3, 9, date), tt.tmpl)
	}
}
