package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/pagewright/internal/doctree"
	"github.com/dgallion1/pagewright/internal/pathstore"
)

const (
	documentsPrefix = "documents"
	listLimit       = 1000
)

// PathstoreStore keeps documents as JSON nodes under documents/{id} in a
// remote pathstore.
type PathstoreStore struct {
	client *pathstore.Client
	log    *slog.Logger
	now    func() time.Time
}

func NewPathstoreStore(client *pathstore.Client, log *slog.Logger) *PathstoreStore {
	return &PathstoreStore{client: client, log: log, now: time.Now}
}

func documentKey(id string) string {
	return documentsPrefix + "/" + id
}

func (s *PathstoreStore) Save(ctx context.Context, doc doctree.Document) (doctree.Document, error) {
	if doc.ID == "" {
		return doctree.Document{}, errors.New("document id is required")
	}
	now := s.now().UTC()

	existing, err := s.Get(ctx, doc.ID)
	switch {
	case err == nil:
		doc.CreatedAt = existing.CreatedAt
	case errors.Is(err, ErrNotFound):
		doc.CreatedAt = now
	default:
		return doctree.Document{}, err
	}
	doc.UpdatedAt = now

	if err := s.client.PutNode(ctx, documentKey(doc.ID), pathstore.NodeRequest{
		Value:     doc,
		MergeMode: "replace",
		Source:    "pagewright",
	}); err != nil {
		return doctree.Document{}, fmt.Errorf("saving document: %w", err)
	}
	return doc, nil
}

func (s *PathstoreStore) Get(ctx context.Context, id string) (doctree.Document, error) {
	node, err := s.client.GetNode(ctx, documentKey(id))
	if err != nil {
		return doctree.Document{}, fmt.Errorf("getting document: %w", err)
	}
	if node == nil {
		return doctree.Document{}, ErrNotFound
	}
	var doc doctree.Document
	if err := json.Unmarshal(node.Value, &doc); err != nil {
		return doctree.Document{}, fmt.Errorf("decoding document %s: %w", id, err)
	}
	return doc, nil
}

func (s *PathstoreStore) List(ctx context.Context) ([]doctree.Document, error) {
	nodes, err := s.client.ListChildren(ctx, documentsPrefix, listLimit)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	docs := make([]doctree.Document, 0, len(nodes))
	for _, n := range nodes {
		var doc doctree.Document
		if err := json.Unmarshal(n.Value, &doc); err != nil {
			s.log.Warn("skipping undecodable document", "key", n.Key, "error", err)
			continue
		}
		docs = append(docs, doc)
	}
	sortByUpdated(docs)
	return docs, nil
}

func (s *PathstoreStore) Delete(ctx context.Context, id string) error {
	deleted, err := s.client.DeleteNode(ctx, documentKey(id))
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

func (s *PathstoreStore) Close() error {
	s.client.Close()
	return nil
}
