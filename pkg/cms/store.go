package cms

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/site-content-types/pkg/contenttypes"
)

// ContentType is a registered content type as the host persists it.
type ContentType struct {
	ID        uuid.UUID                       `json:"id"`
	Key       string                          `json:"key"`
	Config    contenttypes.RegistrationConfig `json:"config"`
	CreatedAt time.Time                       `json:"created_at"`
	UpdatedAt time.Time                       `json:"updated_at"`
}

// EntryStatus is the publication state of an entry.
type EntryStatus string

const (
	EntryStatusDraft     EntryStatus = "draft"
	EntryStatusPublished EntryStatus = "published"
)

// Entry is one item of a content type.
type Entry struct {
	ID          uuid.UUID   `json:"id"`
	ContentType string      `json:"content_type"`
	Title       string      `json:"title"`
	Body        string      `json:"body"`
	Status      EntryStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// Store persists content types and their entries.
type Store interface {
	// UpsertContentType inserts ct or replaces the config of the existing
	// type with the same key. The stored ID and CreatedAt never change.
	UpsertContentType(ctx context.Context, ct *ContentType) (*ContentType, error)
	GetContentType(ctx context.Context, key string) (*ContentType, error)
	// ListContentTypes returns all types ordered by creation.
	ListContentTypes(ctx context.Context) ([]*ContentType, error)

	CreateEntry(ctx context.Context, entry *Entry) error
	GetEntry(ctx context.Context, id uuid.UUID) (*Entry, error)
	// ListEntries returns entries of contentType with the given status,
	// newest first. An empty status matches every entry.
	ListEntries(ctx context.Context, contentType string, status EntryStatus, limit, offset int) ([]*Entry, error)
	CountEntries(ctx context.Context, contentType string, status EntryStatus) (int, error)
}
