package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/pagewright/internal/docstore"
	"github.com/dgallion1/pagewright/internal/stats"
)

// Defaults seed every new session.
type Defaults struct {
	WordsPerPage int
	Settings     Settings
}

// Manager owns the live sessions and their backing document store.
type Manager struct {
	sessions *Store
	docs     docstore.Store
	defaults Defaults
	stats    *stats.Pagination
	log      *slog.Logger

	cleanupInterval time.Duration
	cancel          context.CancelFunc
	wg              sync.WaitGroup
}

// NewManager creates a manager. Call Start to begin idle eviction.
func NewManager(docs docstore.Store, ttl time.Duration, defaults Defaults, log *slog.Logger) *Manager {
	return &Manager{
		sessions:        NewStore(ttl),
		docs:            docs,
		defaults:        defaults,
		stats:           stats.NewPagination(time.Hour),
		log:             log,
		cleanupInterval: time.Minute,
	}
}

// Start launches the eviction loop.
func (m *Manager) Start(ctx context.Context) {
	loopCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(m.cleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-loopCtx.Done():
				return
			case now := <-ticker.C:
				for _, id := range m.sessions.Cleanup(now) {
					m.log.Info("session expired", "session_id", id)
				}
			}
		}
	}()
}

// Stop ends the eviction loop.
func (m *Manager) Stop() {
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()
}

// Create opens a session on new, unsaved content.
func (m *Manager) Create(title, content string, wordsPerPage int) *Session {
	if wordsPerPage == 0 {
		wordsPerPage = m.defaults.WordsPerPage
	}
	sess := New(Options{
		Title:        title,
		Content:      content,
		WordsPerPage: wordsPerPage,
		Settings:     m.defaults.Settings,
		Observer:     m.stats,
	})
	m.sessions.Put(sess)
	m.log.Info("session created", "session_id", sess.ID)
	return sess
}

// Open starts a session on a stored document.
func (m *Manager) Open(ctx context.Context, documentID string, wordsPerPage int) (*Session, error) {
	doc, err := m.docs.Get(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("load document %s: %w", documentID, err)
	}
	if wordsPerPage == 0 {
		wordsPerPage = m.defaults.WordsPerPage
	}
	sess := New(Options{
		DocumentID:   doc.ID,
		Title:        doc.Title,
		Content:      doc.Content,
		WordsPerPage: wordsPerPage,
		Settings:     m.defaults.Settings,
		Observer:     m.stats,
	})
	m.sessions.Put(sess)
	m.log.Info("session opened", "session_id", sess.ID, "doc_id", doc.ID)
	return sess, nil
}

// Get returns a live session.
func (m *Manager) Get(id string) (*Session, error) {
	return m.sessions.Get(id)
}

// Close drops a session without saving.
func (m *Manager) Close(id string) error {
	if err := m.sessions.Delete(id); err != nil {
		return err
	}
	m.log.Info("session closed", "session_id", id)
	return nil
}

// Save persists a session's document.
func (m *Manager) Save(ctx context.Context, id string) (*Session, error) {
	sess, err := m.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	doc, err := sess.Save(ctx, m.docs)
	if err != nil {
		return nil, err
	}
	m.log.Info("session saved", "session_id", id, "doc_id", doc.ID)
	return sess, nil
}

// Documents returns the backing document store.
func (m *Manager) Documents() docstore.Store {
	return m.docs
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	return m.sessions.Len()
}

// Stats returns rolling figures for pagination passes across all sessions.
func (m *Manager) Stats() stats.Snapshot {
	return m.stats.Snapshot()
}
