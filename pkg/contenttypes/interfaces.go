package contenttypes

import (
	"context"

	"golang.org/x/text/message"
)

// Translator formats a message through a localized catalog.
// *message.Printer satisfies it.
type Translator interface {
	Sprintf(key message.Reference, a ...interface{}) string
}

// Host is the content-management runtime the registry plugs into.
type Host interface {
	// RegisterContentType adds or replaces a routable, administrable content type.
	RegisterContentType(ctx context.Context, key string, cfg RegistrationConfig) error

	// RefreshRoutingRules recomputes URL-to-handler mappings.
	RefreshRoutingRules(ctx context.Context) error

	// LoadLocalizedCatalog loads translated strings for domain from a bundled path.
	LoadLocalizedCatalog(ctx context.Context, domain, path string) error

	// Translator returns the formatter for domain. It must never be nil.
	Translator(domain string) Translator

	// Version is the host release, e.g. "6.4.2".
	Version() string
}

// Query is the listing query about to be executed by the host.
type Query interface {
	IsAdmin() bool
	IsMainQuery() bool
	IsArchive(key string) bool
	PageSize() int
	SetPageSize(n int)
}
