package contenttypes

import "fmt"

const (
	// TextDomain is the catalog domain every label is looked up in.
	TextDomain = "site_theme_cpt"

	// CatalogPath is where the domain's catalogs ship, relative to the plugin directory.
	CatalogPath = "/site-custom-post-types/languages/"
)

// Table is the immutable set of content type definitions.
type Table struct {
	defs  []Definition
	index map[string]int
}

// NewTable builds a Table from defs. Later duplicates of a key are kept in
// order but Lookup resolves to the first one.
func NewTable(defs ...Definition) Table {
	t := Table{
		defs:  make([]Definition, 0, len(defs)),
		index: make(map[string]int, len(defs)),
	}
	for _, d := range defs {
		d.Supports = append([]Feature(nil), d.Supports...)
		if _, ok := t.index[d.Key]; !ok {
			t.index[d.Key] = len(t.defs)
		}
		t.defs = append(t.defs, d)
	}
	return t
}

// DefineTypes returns the site's content types.
func DefineTypes() Table {
	return NewTable(
		Definition{
			Key:             "products",
			SingularLabel:   "Product",
			PluralLabel:     "Products",
			ItemLabel:       "Item",
			ItemsLabel:      "Items",
			Supports:        []Feature{FeatureTitle, FeatureEditor},
			ArchivePageSize: 1,
			Icon:            "dashicons-archive",
		},
		Definition{
			Key:             "reviews",
			SingularLabel:   "Review",
			PluralLabel:     "Reviews",
			ItemLabel:       "Thing",
			ItemsLabel:      "Things",
			Supports:        []Feature{FeatureTitle, FeatureEditor, FeatureThumbnail},
			ArchivePageSize: 3,
			Icon:            "dashicons-format-aside",
		},
	)
}

// Len returns the number of definitions.
func (t Table) Len() int { return len(t.defs) }

// All returns a copy of the definitions in declaration order.
func (t Table) All() []Definition {
	out := make([]Definition, len(t.defs))
	for i, d := range t.defs {
		d.Supports = append([]Feature(nil), d.Supports...)
		out[i] = d
	}
	return out
}

// Keys returns the definition keys in declaration order.
func (t Table) Keys() []string {
	keys := make([]string, len(t.defs))
	for i, d := range t.defs {
		keys[i] = d.Key
	}
	return keys
}

// Lookup returns the definition registered under key.
func (t Table) Lookup(key string) (Definition, bool) {
	i, ok := t.index[key]
	if !ok {
		return Definition{}, false
	}
	d := t.defs[i]
	d.Supports = append([]Feature(nil), d.Supports...)
	return d, true
}

// Validate checks key uniqueness and page sizes. Registration does not call
// it; hosts and tests do.
func (t Table) Validate() error {
	seen := make(map[string]struct{}, len(t.defs))
	for _, d := range t.defs {
		if d.Key == "" {
			return fmt.Errorf("%w: empty key", ErrInvalidDefinition)
		}
		if _, dup := seen[d.Key]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateKey, d.Key)
		}
		seen[d.Key] = struct{}{}
		if d.ArchivePageSize <= 0 {
			return fmt.Errorf("%w: %q archive page size %d", ErrInvalidDefinition, d.Key, d.ArchivePageSize)
		}
	}
	return nil
}
