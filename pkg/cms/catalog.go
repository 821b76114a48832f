package cms

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tendant/site-content-types/pkg/contenttypes"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

// catalogFile is the on-disk form of a label catalog:
//
//	language: it
//	messages:
//	  "All %s": "Tutti gli %s"
type catalogFile struct {
	Language string            `yaml:"language"`
	Messages map[string]string `yaml:"messages"`
}

// CatalogFileName returns the file a domain's catalog is read from for tag.
func CatalogFileName(domain string, tag language.Tag) string {
	return fmt.Sprintf("%s-%s.yaml", domain, strings.ReplaceAll(tag.String(), "-", "_"))
}

// catalogCandidates returns the tags a catalog is looked up under, most
// specific first: "it-IT" then "it".
func catalogCandidates(tag language.Tag) []language.Tag {
	tags := []language.Tag{tag}
	if base, conf := tag.Base(); conf != language.No {
		if bt := language.Make(base.String()); bt != tag {
			tags = append(tags, bt)
		}
	}
	return tags
}

// LoadLocalizedCatalog reads the catalog of domain for the host locale from
// path, relative to the plugin directory. A regional locale falls back to its
// base language file. A missing file is not an error: the domain keeps using
// its source strings.
func (h *Host) LoadLocalizedCatalog(ctx context.Context, domain, path string) error {
	dir := filepath.Join(h.pluginDir, filepath.FromSlash(path))

	var (
		file string
		data []byte
		tag  language.Tag
	)
	for _, candidate := range catalogCandidates(h.locale) {
		f := filepath.Join(dir, CatalogFileName(domain, candidate))
		b, err := os.ReadFile(f)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("read catalog %s: %w", f, err)
		}
		file, data, tag = f, b, candidate
		break
	}
	if file == "" {
		h.logger.Info("label catalog not found", "domain", domain, "dir", dir, "locale", h.locale.String())
		return nil
	}

	var cf catalogFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return fmt.Errorf("parse catalog %s: %w", file, err)
	}

	if cf.Language != "" {
		var err error
		if tag, err = language.Parse(cf.Language); err != nil {
			return fmt.Errorf("catalog %s: %w", file, err)
		}
	}

	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, msg := range cf.Messages {
		if err := b.SetString(tag, key, msg); err != nil {
			return fmt.Errorf("catalog %s: message %q: %w", file, key, err)
		}
	}

	// The printer speaks the catalog's language so its messages are always
	// reachable, whatever the host locale.
	h.printersMu.Lock()
	h.printers[domain] = message.NewPrinter(tag, message.Catalog(b))
	h.printersMu.Unlock()

	h.logger.Info("label catalog loaded", "domain", domain, "file", file, "locale", tag.String(), "messages", len(cf.Messages))
	return nil
}

// Translator returns the printer of domain, or a source-string printer when
// no catalog was loaded for it.
func (h *Host) Translator(domain string) contenttypes.Translator {
	h.printersMu.RLock()
	p, ok := h.printers[domain]
	h.printersMu.RUnlock()
	if ok {
		return p
	}
	return message.NewPrinter(h.locale, message.Catalog(catalog.NewBuilder()))
}
