package api

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/pagewright/internal/doctree"
	"github.com/dgallion1/pagewright/internal/session"
)

func uploadRequest(t *testing.T, filename, content string, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := newAuthedRequest(http.MethodPost, "/api/documents", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

type importResponse struct {
	Document documentSummary `json:"document"`
	Session  *session.View   `json:"session"`
}

func TestImportDocument(t *testing.T) {
	srv, docs := testServer(t)

	rec := serve(srv, uploadRequest(t, "../../notes.txt", "First para.\n\nSecond para here.", nil))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	resp := decodeBody[importResponse](t, rec)
	assert.Len(t, resp.Document.ID, 16)
	assert.Equal(t, "notes", resp.Document.Title)
	assert.Equal(t, 5, resp.Document.WordCount)
	assert.Nil(t, resp.Session)

	doc, err := docs.Get(context.Background(), resp.Document.ID)
	require.NoError(t, err)
	assert.Equal(t, "<p>First para.</p><p>Second para here.</p>", doc.Content)
}

func TestImportDocumentAndOpen(t *testing.T) {
	srv, _ := testServer(t)

	md := "# Guide\n\n" + "Intro.\n\n## Part\n\nBody text.\n"
	rec := serve(srv, uploadRequest(t, "guide.md", md, map[string]string{
		"doc_id":         "guide",
		"open":           "true",
		"words_per_page": "60",
	}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	resp := decodeBody[importResponse](t, rec)
	assert.Equal(t, "guide", resp.Document.ID)
	assert.Equal(t, "Guide", resp.Document.Title)
	require.NotNil(t, resp.Session)
	assert.Equal(t, "guide", resp.Session.DocumentID)
	assert.Equal(t, 60, resp.Session.WordsPerPage)
	assert.Equal(t, 1, resp.Session.TotalPages)
}

func TestImportDocumentRejectsUnsupported(t *testing.T) {
	srv, _ := testServer(t)
	rec := serve(srv, uploadRequest(t, "image.png", "PNG", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unsupported file type")
}

func TestImportDocumentTooLarge(t *testing.T) {
	srv, _ := testServer(t)
	big := bytes.Repeat([]byte("a"), int(srv.cfg.MaxUploadBytes)+10)
	rec := serve(srv, uploadRequest(t, "big.txt", string(big), nil))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestDocumentsListGetDelete(t *testing.T) {
	srv, docs := testServer(t)
	ctx := context.Background()
	_, err := docs.Save(ctx, doctree.Document{ID: "a", Title: "A", Content: "<p>one two</p>"})
	require.NoError(t, err)
	_, err = docs.Save(ctx, doctree.Document{ID: "b", Title: "B", Content: "<p>three</p>"})
	require.NoError(t, err)

	rec := do(t, srv, http.MethodGet, "/api/documents", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeBody[struct {
		Documents []documentSummary `json:"documents"`
	}](t, rec)
	require.Len(t, list.Documents, 2)

	rec = do(t, srv, http.MethodGet, "/api/documents/a", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	doc := decodeBody[doctree.Document](t, rec)
	assert.Equal(t, "<p>one two</p>", doc.Content)

	assert.Equal(t, http.StatusNoContent, do(t, srv, http.MethodDelete, "/api/documents/a", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/api/documents/a", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodDelete, "/api/documents/a", nil).Code)
}

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"notes.txt":          "notes.txt",
		"../../etc/passwd":   "passwd",
		`a"b.pdf`:            "a_b.pdf",
		"":                   "unnamed",
		"dir\\..\\evil.docx": "dir___evil.docx",
	}
	for in, want := range tests {
		assert.Equal(t, want, sanitizeFilename(in), in)
	}
}
