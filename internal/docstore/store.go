// Package docstore persists documents on behalf of editing sessions.
package docstore

import (
	"context"
	"errors"
	"sort"

	"github.com/dgallion1/pagewright/internal/doctree"
)

// ErrNotFound is returned when a document id is unknown.
var ErrNotFound = errors.New("document not found")

// Store abstracts document persistence.
// Implementations: MemoryStore, SQLiteStore, PathstoreStore.
type Store interface {
	// Save creates or replaces a document. CreatedAt is kept from the existing
	// record; UpdatedAt is set to the time of the save.
	Save(ctx context.Context, doc doctree.Document) (doctree.Document, error)
	Get(ctx context.Context, id string) (doctree.Document, error)
	// List returns all documents, most recently updated first.
	List(ctx context.Context) ([]doctree.Document, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

func sortByUpdated(docs []doctree.Document) {
	sort.SliceStable(docs, func(i, j int) bool {
		if docs[i].UpdatedAt.Equal(docs[j].UpdatedAt) {
			return docs[i].ID < docs[j].ID
		}
		return docs[i].UpdatedAt.After(docs[j].UpdatedAt)
	})
}
