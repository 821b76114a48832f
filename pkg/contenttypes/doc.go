// Package contenttypes registers the site's custom content types ("products"
// and "reviews") with a host content-management runtime.
//
// The package owns a static, immutable definition Table and three lifecycle
// handlers:
//
//   - EventStartup loads the label catalog for the text domain.
//   - EventInit registers every definition and refreshes the routing rules.
//   - EventPreQuery overrides the page size of matching archive listings.
//
// Everything else (persistence, routing, rendering, translation) belongs to
// the Host, which is consumed only through the interfaces in interfaces.go.
package contenttypes
