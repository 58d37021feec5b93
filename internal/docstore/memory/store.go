// Package memory provides an in-process docstore.Store used by tests.
// Documents are round-tripped through JSON on write so stored values have
// the same shapes a real backend would return.
package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"

	"github.com/clinirec/clinical-api/internal/docstore"
)

type Store struct {
	mu   sync.RWMutex
	docs map[string]docstore.Fields
}

func NewStore() *Store {
	return &Store{docs: make(map[string]docstore.Fields)}
}

func (s *Store) Ping(ctx context.Context) error {
	return nil
}

func (s *Store) Get(ctx context.Context, path string) (*docstore.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fields, ok := s.docs[path]
	if !ok {
		return nil, docstore.ErrNotFound
	}
	_, id := docstore.Split(path)
	return &docstore.Document{Path: path, ID: id, Fields: copyFields(fields)}, nil
}

func (s *Store) Set(ctx context.Context, path string, fields docstore.Fields) error {
	normalized, err := normalize(fields)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[path] = normalized
	return nil
}

func (s *Store) Update(ctx context.Context, path string, fields docstore.Fields) error {
	normalized, err := normalize(fields)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.docs[path]
	if !ok {
		return docstore.ErrNotFound
	}
	for k, v := range normalized {
		existing[k] = v
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, path)
	return nil
}

func (s *Store) Query(ctx context.Context, collection, field string, value interface{}, limit int) ([]*docstore.Document, error) {
	want, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var docs []*docstore.Document
	for _, path := range s.sortedPaths() {
		col, id := docstore.Split(path)
		if col != collection {
			continue
		}
		got, err := json.Marshal(s.docs[path][field])
		if err != nil || string(got) != string(want) {
			continue
		}
		docs = append(docs, &docstore.Document{Path: path, ID: id, Fields: copyFields(s.docs[path])})
		if limit > 0 && len(docs) == limit {
			break
		}
	}
	return docs, nil
}

func (s *Store) ListDocuments(ctx context.Context, collection string) ([]*docstore.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var docs []*docstore.Document
	for _, path := range s.sortedPaths() {
		col, id := docstore.Split(path)
		if col != collection {
			continue
		}
		docs = append(docs, &docstore.Document{Path: path, ID: id, Fields: copyFields(s.docs[path])})
	}
	return docs, nil
}

func (s *Store) ListChildren(ctx context.Context, path string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prefix := path + "/"
	seen := map[string]bool{}
	for p := range s.docs {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		rest := strings.TrimPrefix(p, prefix)
		if i := strings.Index(rest, "/"); i >= 0 {
			rest = rest[:i]
		}
		seen[rest] = true
	}

	children := make([]string, 0, len(seen))
	for c := range seen {
		children = append(children, c)
	}
	sort.Strings(children)
	return children, nil
}

func (s *Store) sortedPaths() []string {
	paths := make([]string, 0, len(s.docs))
	for p := range s.docs {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func normalize(fields docstore.Fields) (docstore.Fields, error) {
	raw, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	out := docstore.Fields{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func copyFields(fields docstore.Fields) docstore.Fields {
	out, _ := normalize(fields)
	return out
}
