package cms

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth"
	"github.com/google/uuid"
	"github.com/tendant/site-content-types/pkg/contenttypes"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// DefaultVersion is reported when no version is configured.
	DefaultVersion = "6.4.2"

	// DefaultPostsPerPage is the listing size before any pre-query hook runs.
	DefaultPostsPerPage = 10

	// RecentPageSize is the size of the secondary "recent entries" query
	// rendered alongside every archive.
	RecentPageSize = 5
)

var keyPattern = regexp.MustCompile(`^[a-z0-9_-]{1,20}$`)

// reservedKeys are top-level paths the host routes itself.
var reservedKeys = map[string]bool{
	"admin":  true,
	"health": true,
}

// Host is an in-process content-management runtime.
type Host struct {
	store        Store
	version      string
	pluginDir    string
	locale       language.Tag
	frontBase    string
	postsPerPage int
	auth         *jwtauth.JWTAuth
	logger       *slog.Logger

	hooksMu sync.RWMutex
	hooks   contenttypes.Hooks

	printersMu sync.RWMutex
	printers   map[string]*message.Printer

	router atomic.Pointer[chi.Mux]
}

var _ contenttypes.Host = (*Host)(nil)

// Option represents a functional option for configuring the host
type Option func(*Host)

// WithVersion sets the reported host version
func WithVersion(version string) Option {
	return func(h *Host) {
		h.version = version
	}
}

// WithPluginDir sets the directory catalog paths are resolved against
func WithPluginDir(dir string) Option {
	return func(h *Host) {
		h.pluginDir = dir
	}
}

// WithLocale sets the locale catalogs are loaded for
func WithLocale(tag language.Tag) Option {
	return func(h *Host) {
		h.locale = tag
	}
}

// WithFrontBase sets the path prefix of routes registered with WithFront
func WithFrontBase(base string) Option {
	return func(h *Host) {
		h.frontBase = base
	}
}

// WithPostsPerPage sets the default listing size
func WithPostsPerPage(n int) Option {
	return func(h *Host) {
		h.postsPerPage = n
	}
}

// WithJWTAuth enables the admin routes, guarded by auth
func WithJWTAuth(auth *jwtauth.JWTAuth) Option {
	return func(h *Host) {
		h.auth = auth
	}
}

// WithLogger sets the logger for the host. A nil logger is ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Host) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// New creates a host backed by store. No routes are served until the first
// RefreshRoutingRules.
func New(store Store, options ...Option) (*Host, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}

	h := &Host{
		store:        store,
		version:      DefaultVersion,
		pluginDir:    ".",
		locale:       language.English,
		postsPerPage: DefaultPostsPerPage,
		logger:       slog.Default(),
		printers:     make(map[string]*message.Printer),
	}
	for _, option := range options {
		option(h)
	}

	if h.postsPerPage <= 0 {
		return nil, fmt.Errorf("posts per page must be positive, got %d", h.postsPerPage)
	}

	return h, nil
}

// Version returns the host version.
func (h *Host) Version() string { return h.version }

// Use attaches lifecycle hooks. Hooks attached after Start only take part in
// pre-query dispatch.
func (h *Host) Use(hooks *contenttypes.Hooks) {
	h.hooksMu.Lock()
	defer h.hooksMu.Unlock()
	h.hooks.Merge(hooks)
}

func (h *Host) snapshotHooks() contenttypes.Hooks {
	h.hooksMu.RLock()
	defer h.hooksMu.RUnlock()
	return h.hooks
}

// Start fires the startup hooks and then the init hooks.
func (h *Host) Start(ctx context.Context) error {
	hooks := h.snapshotHooks()

	if err := hooks.RunStartup(ctx); err != nil {
		return fmt.Errorf("startup hooks: %w", err)
	}
	if err := hooks.RunInit(ctx); err != nil {
		return fmt.Errorf("init hooks: %w", err)
	}

	h.logger.Info("host started", "version", h.version, "locale", h.locale.String())
	return nil
}

// RegisterContentType stores cfg under key. Registering the same key again
// replaces the config and keeps the original ID.
func (h *Host) RegisterContentType(ctx context.Context, key string, cfg contenttypes.RegistrationConfig) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	if reservedKeys[key] || reservedKeys[cfg.Rewrite.Slug] {
		return fmt.Errorf("%w: %q", ErrReservedKey, key)
	}

	now := time.Now().UTC()
	ct, err := h.store.UpsertContentType(ctx, &ContentType{
		ID:        uuid.New(),
		Key:       key,
		Config:    cfg,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return fmt.Errorf("register content type %q: %w", key, err)
	}

	h.logger.Info("content type registered", "key", key, "id", ct.ID.String())
	return nil
}

// RunQuery fires the pre-query hooks for q and executes it.
func (h *Host) RunQuery(ctx context.Context, q *Query) (*Result, error) {
	hooks := h.snapshotHooks()
	if err := hooks.RunPreQuery(ctx, q); err != nil {
		return nil, fmt.Errorf("pre-query hooks: %w", err)
	}

	status := q.Status
	if !q.Admin && status == "" {
		status = EntryStatusPublished
	}

	total, err := h.store.CountEntries(ctx, q.ContentType, status)
	if err != nil {
		return nil, err
	}

	res := &Result{Total: total, Page: max(q.Page, 1), PageSize: q.Size}
	if q.Size <= 0 {
		return res, nil
	}
	res.TotalPages = (total + q.Size - 1) / q.Size

	res.Entries, err = h.store.ListEntries(ctx, q.ContentType, status, q.Size, q.offset())
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ServeHTTP dispatches to the router built by the last RefreshRoutingRules.
func (h *Host) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	mux := h.router.Load()
	if mux == nil {
		http.NotFound(w, r)
		return
	}
	mux.ServeHTTP(w, r)
}
