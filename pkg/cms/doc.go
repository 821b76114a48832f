// Package cms is a small in-process content-management host.
//
// It implements contenttypes.Host: content types are persisted through a
// Store, their archive routes are served by a chi router that is rebuilt on
// every RefreshRoutingRules call, and label catalogs are YAML files loaded
// into golang.org/x/text catalogs. Lifecycle hooks are attached with Use and
// dispatched by Start (startup, then init) and RunQuery (pre-query).
package cms
