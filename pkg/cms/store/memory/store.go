package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/tendant/site-content-types/pkg/cms"
	"github.com/tendant/site-content-types/pkg/contenttypes"
)

// Store implements cms.Store using in-memory storage
type Store struct {
	mu           sync.RWMutex
	contentTypes map[string]*cms.ContentType
	entries      map[uuid.UUID]*cms.Entry
	entriesByCT  map[string][]uuid.UUID // content type key -> []entry_id
}

// New creates a new in-memory store
func New() *Store {
	return &Store{
		contentTypes: make(map[string]*cms.ContentType),
		entries:      make(map[uuid.UUID]*cms.Entry),
		entriesByCT:  make(map[string][]uuid.UUID),
	}
}

var _ cms.Store = (*Store)(nil)

func copyContentType(ct *cms.ContentType) *cms.ContentType {
	c := *ct
	c.Config.Supports = append([]contenttypes.Feature(nil), ct.Config.Supports...)
	return &c
}

// Content type operations

func (s *Store) UpsertContentType(ctx context.Context, ct *cms.ContentType) (*cms.ContentType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := copyContentType(ct)
	if existing, ok := s.contentTypes[ct.Key]; ok {
		stored.ID = existing.ID
		stored.CreatedAt = existing.CreatedAt
	}
	s.contentTypes[ct.Key] = stored

	return copyContentType(stored), nil
}

func (s *Store) GetContentType(ctx context.Context, key string) (*cms.ContentType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ct, ok := s.contentTypes[key]
	if !ok {
		return nil, cms.ErrContentTypeNotFound
	}
	return copyContentType(ct), nil
}

func (s *Store) ListContentTypes(ctx context.Context) ([]*cms.ContentType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	types := make([]*cms.ContentType, 0, len(s.contentTypes))
	for _, ct := range s.contentTypes {
		types = append(types, copyContentType(ct))
	}
	sort.Slice(types, func(i, j int) bool {
		if types[i].CreatedAt.Equal(types[j].CreatedAt) {
			return types[i].Key < types[j].Key
		}
		return types[i].CreatedAt.Before(types[j].CreatedAt)
	})
	return types, nil
}

// Entry operations

func (s *Store) CreateEntry(ctx context.Context, entry *cms.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.contentTypes[entry.ContentType]; !ok {
		return cms.ErrContentTypeNotFound
	}

	e := *entry
	s.entries[e.ID] = &e
	s.entriesByCT[e.ContentType] = append(s.entriesByCT[e.ContentType], e.ID)
	return nil
}

func (s *Store) GetEntry(ctx context.Context, id uuid.UUID) (*cms.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, cms.ErrEntryNotFound
	}
	c := *e
	return &c, nil
}

// matching returns the entries of contentType with status, newest first.
// Caller holds the read lock.
func (s *Store) matching(contentType string, status cms.EntryStatus) []*cms.Entry {
	var out []*cms.Entry
	for _, id := range s.entriesByCT[contentType] {
		e := s.entries[id]
		if status != "" && e.Status != status {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (s *Store) ListEntries(ctx context.Context, contentType string, status cms.EntryStatus, limit, offset int) ([]*cms.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.matching(contentType, status)
	if offset >= len(all) {
		return []*cms.Entry{}, nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	out := make([]*cms.Entry, 0, end-offset)
	for _, e := range all[offset:end] {
		c := *e
		out = append(out, &c)
	}
	return out, nil
}

func (s *Store) CountEntries(ctx context.Context, contentType string, status cms.EntryStatus) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.matching(contentType, status)), nil
}
