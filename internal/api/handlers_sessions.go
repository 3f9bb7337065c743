package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/pagewright/internal/docstore"
	"github.com/dgallion1/pagewright/internal/doctree"
	"github.com/dgallion1/pagewright/internal/export"
	"github.com/dgallion1/pagewright/internal/navigation"
	"github.com/dgallion1/pagewright/internal/pagination"
	"github.com/dgallion1/pagewright/internal/session"
)

type createSessionRequest struct {
	Title        string `json:"title"`
	Content      string `json:"content"`
	DocumentID   string `json:"document_id"`
	WordsPerPage int    `json:"words_per_page"`
}

type contentRequest struct {
	Content string `json:"content"`
}

type navigateRequest struct {
	Action session.Action `json:"action"`
	Page   int            `json:"page"`
}

type paginateRequest struct {
	Content      string `json:"content"`
	WordsPerPage int    `json:"words_per_page"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if !s.decode(w, r, &req) {
		return
	}

	if req.DocumentID != "" {
		sess, err := s.sessions.Open(r.Context(), req.DocumentID, req.WordsPerPage)
		if err != nil {
			s.storeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, sess.View())
		return
	}

	sess := s.sessions.Create(req.Title, req.Content, req.WordsPerPage)
	writeJSON(w, http.StatusCreated, sess.View())
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.View())
}

func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Close(chi.URLParam(r, "sessionID")); err != nil {
		s.storeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleContentChange(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req contentRequest
	if !s.decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, sess.OnContentChange(req.Content))
}

func (s *Server) handleSettingsChange(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req session.SettingsUpdate
	if !s.decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, sess.UpdateSettings(req))
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req navigateRequest
	if !s.decode(w, r, &req) {
		return
	}
	view, err := sess.Navigate(req.Action, req.Page)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleListPages(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	view := sess.View()
	writeJSON(w, http.StatusOK, map[string]any{
		"current_page": view.CurrentPage,
		"total_pages":  view.TotalPages,
		"pages":        session.Summaries(sess.Pages(), view.CurrentPage),
	})
}

func (s *Server) handleGetPage(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	id, err := strconv.Atoi(chi.URLParam(r, "page"))
	if err != nil {
		jsonError(w, "page must be a number", http.StatusBadRequest)
		return
	}
	page, found := sess.Page(id)
	if !found {
		jsonError(w, fmt.Sprintf("page %d not found", id), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleSaveSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Save(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.View())
}

func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	view := sess.View()

	var buf bytes.Buffer
	opts := export.OptionsFor(view.Title, view.Settings, time.Now())
	if _, err := export.WritePDF(&buf, sess.Pages(), opts); err != nil {
		s.log.Error("export failed", "session_id", view.SessionID, "error", err)
		jsonError(w, "export failed", http.StatusInternalServerError)
		return
	}

	name := view.Title
	if name == "" {
		name = "document"
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.pdf"`, sanitizeFilename(name)))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes())
}

// handlePaginate splits content without creating a session.
func (s *Server) handlePaginate(w http.ResponseWriter, r *http.Request) {
	var req paginateRequest
	if !s.decode(w, r, &req) {
		return
	}
	wpp := req.WordsPerPage
	if wpp == 0 {
		wpp = s.cfg.Editor.WordsPerPage
	}
	wpp = navigation.ClampWordsPerPage(wpp)

	pages := pagination.Paginate(req.Content, wpp)
	writeJSON(w, http.StatusOK, struct {
		WordsPerPage   int            `json:"words_per_page"`
		TotalPages     int            `json:"total_pages"`
		TotalWords     int            `json:"total_words"`
		ReadingMinutes int            `json:"reading_minutes"`
		Pages          []doctree.Page `json:"pages"`
	}{
		WordsPerPage:   wpp,
		TotalPages:     len(pages),
		TotalWords:     pagination.TotalWords(pages),
		ReadingMinutes: pagination.ReadingTime(req.Content, pagination.DefaultWordsPerMinute),
		Pages:          pages,
	})
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.sessions.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		s.storeError(w, err)
		return nil, false
	}
	return sess, true
}

// decode reads a JSON body bounded by the upload limit.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			jsonError(w, fmt.Sprintf("body exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
			return false
		}
		jsonError(w, "invalid json body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) storeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		jsonError(w, "session not found", http.StatusNotFound)
	case errors.Is(err, docstore.ErrNotFound):
		jsonError(w, "document not found", http.StatusNotFound)
	default:
		s.log.Error("storage error", "error", err)
		jsonError(w, err.Error(), http.StatusInternalServerError)
	}
}
