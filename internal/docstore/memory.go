package docstore

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dgallion1/pagewright/internal/doctree"
)

// MemoryStore keeps documents in a map. Contents are lost on restart.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]doctree.Document
	now  func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs: make(map[string]doctree.Document),
		now:  time.Now,
	}
}

func (s *MemoryStore) Save(_ context.Context, doc doctree.Document) (doctree.Document, error) {
	if doc.ID == "" {
		return doctree.Document{}, errors.New("document id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if existing, ok := s.docs[doc.ID]; ok {
		doc.CreatedAt = existing.CreatedAt
	} else {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now
	s.docs[doc.ID] = doc
	return doc, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (doctree.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	if !ok {
		return doctree.Document{}, ErrNotFound
	}
	return doc, nil
}

func (s *MemoryStore) List(_ context.Context) ([]doctree.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]doctree.Document, 0, len(s.docs))
	for _, doc := range s.docs {
		out = append(out, doc)
	}
	sortByUpdated(out)
	return out, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return ErrNotFound
	}
	delete(s.docs, id)
	return nil
}

func (s *MemoryStore) Close() error { return nil }
