package api

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/pagewright/internal/doctree"
	"github.com/dgallion1/pagewright/internal/session"
)

func createSession(t *testing.T, srv *Server, body map[string]any) session.View {
	t.Helper()
	rec := do(t, srv, http.MethodPost, "/api/sessions", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody[session.View](t, rec)
}

func TestCreateSession(t *testing.T) {
	srv, _ := testServer(t)
	view := createSession(t, srv, map[string]any{"title": "Notes", "content": paragraphs(3, 80)})

	assert.NotEmpty(t, view.SessionID)
	assert.Equal(t, "Notes", view.Title)
	assert.Equal(t, 1, view.CurrentPage)
	assert.Equal(t, 3, view.TotalPages)
	assert.Equal(t, 150, view.WordsPerPage)
	assert.Equal(t, 240, view.TotalWords)
	assert.True(t, view.Navigation.HasNext)
	assert.False(t, view.Navigation.HasPrevious)
}

func TestCreateSessionFromStoredDocument(t *testing.T) {
	srv, docs := testServer(t)
	_, err := docs.Save(context.Background(), doctree.Document{ID: "d1", Title: "Stored", Content: paragraphs(2, 10)})
	require.NoError(t, err)

	view := createSession(t, srv, map[string]any{"document_id": "d1", "words_per_page": 300})
	assert.Equal(t, "d1", view.DocumentID)
	assert.Equal(t, "Stored", view.Title)
	assert.Equal(t, 300, view.WordsPerPage)

	rec := do(t, srv, http.MethodPost, "/api/sessions", map[string]any{"document_id": "missing"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateSessionInvalidJSON(t *testing.T) {
	srv, _ := testServer(t)
	req := newAuthedRequest(http.MethodPost, "/api/sessions", bytes.NewBufferString("{"))
	rec := serve(srv, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionNotFound(t *testing.T) {
	srv, _ := testServer(t)
	for _, path := range []string{"/api/sessions/nope", "/api/sessions/nope/pages", "/api/sessions/nope/export.pdf"} {
		rec := do(t, srv, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
	rec := do(t, srv, http.MethodDelete, "/api/sessions/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNavigateAndClamp(t *testing.T) {
	srv, _ := testServer(t)
	view := createSession(t, srv, map[string]any{"content": paragraphs(3, 80)})
	base := "/api/sessions/" + view.SessionID

	steps := []struct {
		action string
		page   int
		want   int
	}{
		{"next", 0, 2},
		{"next", 0, 3},
		{"next", 0, 3},
		{"previous", 0, 2},
		{"last", 0, 3},
		{"first", 0, 1},
		{"goto", 2, 2},
		{"goto", 99, 3},
		{"goto", -4, 1},
	}
	for _, st := range steps {
		rec := do(t, srv, http.MethodPost, base+"/navigate", map[string]any{"action": st.action, "page": st.page})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		got := decodeBody[session.View](t, rec)
		assert.Equal(t, st.want, got.CurrentPage, "%s %d", st.action, st.page)
	}

	rec := do(t, srv, http.MethodPost, base+"/navigate", map[string]any{"action": "sideways"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestContentChangeClampsCurrentPage(t *testing.T) {
	srv, _ := testServer(t)
	view := createSession(t, srv, map[string]any{"content": paragraphs(3, 80)})
	base := "/api/sessions/" + view.SessionID

	do(t, srv, http.MethodPost, base+"/navigate", map[string]any{"action": "last"})

	rec := do(t, srv, http.MethodPut, base+"/content", map[string]any{"content": "<p>short</p>"})
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[session.View](t, rec)
	assert.Equal(t, 1, got.TotalPages)
	assert.Equal(t, 1, got.CurrentPage)
	assert.True(t, got.Dirty)
	assert.Equal(t, "<p>short</p>", got.Page.Content)
}

func TestSettingsChange(t *testing.T) {
	srv, _ := testServer(t)
	view := createSession(t, srv, map[string]any{"content": paragraphs(3, 80)})
	base := "/api/sessions/" + view.SessionID

	rec := do(t, srv, http.MethodPut, base+"/settings", map[string]any{
		"words_per_page":     10,
		"show_header_footer": true,
		"header":             "Draft",
		"font_size":          200,
		"font_family":        "wingdings",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[session.View](t, rec)
	assert.Equal(t, 50, got.WordsPerPage)
	assert.Equal(t, 3, got.TotalPages)
	assert.Equal(t, 72, got.Settings.FontSize)
	assert.Equal(t, "arial", got.Settings.FontFamily)
	assert.Equal(t, "Draft", got.Header)
	assert.Equal(t, "Page 1 of 3", got.Footer)
	assert.True(t, got.OverBudget)
}

func TestListAndGetPages(t *testing.T) {
	srv, _ := testServer(t)
	view := createSession(t, srv, map[string]any{"content": paragraphs(3, 80)})
	base := "/api/sessions/" + view.SessionID

	rec := do(t, srv, http.MethodGet, base+"/pages", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeBody[struct {
		CurrentPage int                   `json:"current_page"`
		TotalPages  int                   `json:"total_pages"`
		Pages       []session.PageSummary `json:"pages"`
	}](t, rec)
	assert.Equal(t, 3, list.TotalPages)
	require.Len(t, list.Pages, 3)
	assert.True(t, list.Pages[0].Current)
	assert.Equal(t, 80, list.Pages[1].WordCount)

	rec = do(t, srv, http.MethodGet, base+"/pages/2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decodeBody[doctree.Page](t, rec)
	assert.Equal(t, 2, page.ID)

	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, base+"/pages/4", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodGet, base+"/pages/two", nil).Code)
}

func TestSaveSession(t *testing.T) {
	srv, docs := testServer(t)
	view := createSession(t, srv, map[string]any{"title": "Essay", "content": "<p>a</p>"})
	base := "/api/sessions/" + view.SessionID

	do(t, srv, http.MethodPut, base+"/content", map[string]any{"content": "<p>a b</p>"})

	rec := do(t, srv, http.MethodPost, base+"/save", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[session.View](t, rec)
	assert.False(t, got.Dirty)
	require.NotEmpty(t, got.DocumentID)

	doc, err := docs.Get(context.Background(), got.DocumentID)
	require.NoError(t, err)
	assert.Equal(t, "Essay", doc.Title)
	assert.Equal(t, "<p>a b</p>", doc.Content)
}

func TestCloseSession(t *testing.T) {
	srv, _ := testServer(t)
	view := createSession(t, srv, map[string]any{"content": "<p>a</p>"})
	base := "/api/sessions/" + view.SessionID

	assert.Equal(t, http.StatusNoContent, do(t, srv, http.MethodDelete, base, nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, base, nil).Code)
}

func TestExportPDF(t *testing.T) {
	srv, _ := testServer(t)
	view := createSession(t, srv, map[string]any{"title": "My Report", "content": paragraphs(3, 80)})

	rec := do(t, srv, http.MethodGet, "/api/sessions/"+view.SessionID+"/export.pdf", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="My Report.pdf"`)
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))
}

func TestPaginateStateless(t *testing.T) {
	srv, _ := testServer(t)

	rec := do(t, srv, http.MethodPost, "/api/paginate", map[string]any{"content": paragraphs(3, 80)})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[struct {
		WordsPerPage int            `json:"words_per_page"`
		TotalPages   int            `json:"total_pages"`
		TotalWords   int            `json:"total_words"`
		Pages        []doctree.Page `json:"pages"`
	}](t, rec)
	assert.Equal(t, 150, body.WordsPerPage)
	assert.Equal(t, 3, body.TotalPages)
	assert.Equal(t, 240, body.TotalWords)

	rec = do(t, srv, http.MethodPost, "/api/paginate", map[string]any{"content": "", "words_per_page": 5})
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody[struct {
		WordsPerPage int            `json:"words_per_page"`
		TotalPages   int            `json:"total_pages"`
		TotalWords   int            `json:"total_words"`
		Pages        []doctree.Page `json:"pages"`
	}](t, rec)
	assert.Equal(t, 50, body.WordsPerPage)
	require.Len(t, body.Pages, 1)
	assert.Equal(t, "Empty document", body.Pages[0].Preview)
}
