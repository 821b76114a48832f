package contenttypes

import (
	"context"
	"log/slog"
)

// Registry registers a Table with a Host and keeps archive page sizes in line
// with it.
type Registry struct {
	host   Host
	table  Table
	caps   Capabilities
	logger *slog.Logger
}

// Option represents a functional option for configuring the registry
type Option func(*Registry)

// WithTable replaces the built-in definitions
func WithTable(table Table) Option {
	return func(r *Registry) {
		r.table = table
	}
}

// WithLogger sets the logger for the registry. A nil logger is ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates a registry bound to host. Host capabilities are resolved here,
// once.
func New(host Host, options ...Option) (*Registry, error) {
	if host == nil {
		return nil, ErrHostRequired
	}

	r := &Registry{
		host:   host,
		table:  DefineTypes(),
		logger: slog.Default(),
	}
	for _, option := range options {
		option(r)
	}

	r.caps = ResolveCapabilities(host.Version())
	r.logger.Debug("resolved host capabilities", "host_version", host.Version(), "menu_icon", r.caps.MenuIcon)

	return r, nil
}

// Table returns the definitions this registry owns.
func (r *Registry) Table() Table { return r.table }

// Capabilities returns the capabilities resolved in New.
func (r *Registry) Capabilities() Capabilities { return r.caps }

// BuildConfig derives the host registration config for def.
func (r *Registry) BuildConfig(def Definition) RegistrationConfig {
	tr := r.host.Translator(TextDomain)

	cfg := RegistrationConfig{
		Label:        tr.Sprintf("%s", def.Key),
		Description:  tr.Sprintf("Custom Post Type per Site Name"),
		Labels:       DeriveLabels(tr, def),
		Supports:     append([]Feature(nil), def.Supports...),
		Hierarchical: false,
		Public:       true,
		ShowUI:       true,
		ShowInMenu:   true,
		MenuPosition: DefaultMenuPosition,

		ShowInAdminBar:    true,
		ShowInNavMenus:    true,
		CanExport:         true,
		HasArchive:        true,
		ExcludeFromSearch: false,
		PubliclyQueryable: true,
		Rewrite: Rewrite{
			Slug:      def.Key,
			WithFront: true,
			Pages:     true,
			Feeds:     true,
		},
		CapabilityType: CapabilityTypePost,
	}
	if r.caps.MenuIcon {
		cfg.MenuIcon = def.Icon
	}
	return cfg
}

// RegisterTypes registers every definition and then refreshes the host's
// routing rules. Host failures are logged, never returned.
func (r *Registry) RegisterTypes(ctx context.Context) {
	if r.table.Len() == 0 {
		return
	}

	for _, def := range r.table.All() {
		if err := r.host.RegisterContentType(ctx, def.Key, r.BuildConfig(def)); err != nil {
			r.logger.Error("failed to register content type", "error", &RegistrationError{Key: def.Key, Op: "register", Err: err})
			continue
		}
		r.logger.Debug("registered content type", "key", def.Key)
	}

	if err := r.host.RefreshRoutingRules(ctx); err != nil {
		r.logger.Error("failed to refresh routing rules", "error", err)
	}
}

// LoadLabelCatalog loads the text domain's catalog.
func (r *Registry) LoadLabelCatalog(ctx context.Context) {
	if err := r.host.LoadLocalizedCatalog(ctx, TextDomain, CatalogPath); err != nil {
		r.logger.Warn("failed to load label catalog", "domain", TextDomain, "error", err)
	}
}

// AdjustArchivePageSize sets the page size of a front-end main archive query
// to the matching definition's ArchivePageSize.
func (r *Registry) AdjustArchivePageSize(q Query) {
	if q.IsAdmin() || !q.IsMainQuery() {
		return
	}

	for _, def := range r.table.defs {
		if q.IsArchive(def.Key) {
			q.SetPageSize(def.ArchivePageSize)
			return
		}
	}
}

// Hooks returns the registry's lifecycle handlers.
func (r *Registry) Hooks() *Hooks {
	return &Hooks{
		Startup: []StartupHook{
			func(hctx *HookContext) error {
				r.LoadLabelCatalog(hctx.Context)
				return nil
			},
		},
		Init: []InitHook{
			func(hctx *HookContext) error {
				r.RegisterTypes(hctx.Context)
				return nil
			},
		},
		PreQuery: []PreQueryHook{
			func(hctx *HookContext, q Query) error {
				r.AdjustArchivePageSize(q)
				return nil
			},
		},
	}
}
