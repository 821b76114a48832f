package cms_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/jwtauth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/site-content-types/pkg/cms"
	"github.com/tendant/site-content-types/pkg/cms/config"
	"github.com/tendant/site-content-types/pkg/cms/store/memory"
	"github.com/tendant/site-content-types/pkg/contenttypes"
	"golang.org/x/text/language"
)

var testAuth = jwtauth.New("HS256", []byte("test-secret"), nil)

// setupHost creates a started host with the registry's hooks attached
func setupHost(t *testing.T, opts ...cms.Option) (*cms.Host, *memory.Store) {
	t.Helper()
	store := memory.New()

	opts = append([]cms.Option{cms.WithJWTAuth(testAuth)}, opts...)
	host, err := cms.New(store, opts...)
	require.NoError(t, err)

	registry, err := contenttypes.New(host)
	require.NoError(t, err)
	host.Use(registry.Hooks())

	require.NoError(t, host.Start(context.Background()))
	return host, store
}

func seedEntries(t *testing.T, store *memory.Store, contentType string, n int) {
	t.Helper()
	base := time.Now().UTC()
	for i := 0; i < n; i++ {
		require.NoError(t, store.CreateEntry(context.Background(), &cms.Entry{
			ID:          uuid.New(),
			ContentType: contentType,
			Title:       contentType + "-" + string(rune('a'+i)),
			Status:      cms.EntryStatusPublished,
			CreatedAt:   base.Add(time.Duration(i) * time.Second),
			UpdatedAt:   base,
		}))
	}
}

func get(t *testing.T, h http.Handler, path string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if len(header) == 2 {
		req.Header.Set(header[0], header[1])
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func adminToken(t *testing.T) string {
	t.Helper()
	_, token, err := testAuth.Encode(map[string]interface{}{"sub": "editor"})
	require.NoError(t, err)
	return "Bearer " + token
}

func decodeArchive(t *testing.T, w *httptest.ResponseRecorder) cms.ArchiveResponse {
	t.Helper()
	var resp cms.ArchiveResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestNew_RequiresStore(t *testing.T) {
	host, err := cms.New(nil)
	assert.Nil(t, host)
	assert.ErrorIs(t, err, cms.ErrStoreRequired)

	host, err = cms.New(memory.New(), cms.WithPostsPerPage(0))
	assert.Nil(t, host)
	assert.Error(t, err)
}

func TestHost_RoutesResolveOnlyAfterRefresh(t *testing.T) {
	store := memory.New()
	host, err := cms.New(store)
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, get(t, host, "/reviews").Code)

	require.NoError(t, host.RegisterContentType(context.Background(), "reviews", contenttypes.RegistrationConfig{
		Public:            true,
		PubliclyQueryable: true,
		HasArchive:        true,
		Rewrite:           contenttypes.Rewrite{Slug: "reviews"},
	}))
	assert.Equal(t, http.StatusNotFound, get(t, host, "/reviews").Code)

	require.NoError(t, host.RefreshRoutingRules(context.Background()))
	assert.Equal(t, http.StatusOK, get(t, host, "/reviews").Code)
	// pages and feeds were not enabled
	assert.Equal(t, http.StatusNotFound, get(t, host, "/reviews/page/2").Code)
}

func TestHost_RegisterContentType_InvalidKey(t *testing.T) {
	host, err := cms.New(memory.New())
	require.NoError(t, err)

	err = host.RegisterContentType(context.Background(), "Not A Key", contenttypes.RegistrationConfig{})
	assert.ErrorIs(t, err, cms.ErrInvalidKey)
}

func TestHost_StartRegistersTypes(t *testing.T) {
	host, store := setupHost(t)

	types, err := store.ListContentTypes(context.Background())
	require.NoError(t, err)
	keys := make([]string, 0, len(types))
	for _, ct := range types {
		keys = append(keys, ct.Key)
	}
	assert.ElementsMatch(t, []string{"products", "reviews"}, keys)

	reviews, err := store.GetContentType(context.Background(), "reviews")
	require.NoError(t, err)
	assert.Equal(t, "All Reviews", reviews.Config.Labels.AllItems)
	assert.Equal(t, "dashicons-format-aside", reviews.Config.MenuIcon)

	w := get(t, host, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHost_StartTwiceKeepsRegistrations(t *testing.T) {
	host, store := setupHost(t)
	before, err := store.ListContentTypes(context.Background())
	require.NoError(t, err)

	require.NoError(t, host.Start(context.Background()))

	after, err := store.ListContentTypes(context.Background())
	require.NoError(t, err)
	require.Len(t, after, len(before))
	for i := range before {
		assert.Equal(t, before[i].ID, after[i].ID)
		assert.Equal(t, before[i].Config, after[i].Config)
	}
}

func TestHost_LegacyVersionOmitsIcon(t *testing.T) {
	_, store := setupHost(t, cms.WithVersion("3.7.1"))

	products, err := store.GetContentType(context.Background(), "products")
	require.NoError(t, err)
	assert.Empty(t, products.Config.MenuIcon)
}

func TestHost_ArchivePageSize(t *testing.T) {
	host, store := setupHost(t)
	seedEntries(t, store, "reviews", 7)
	seedEntries(t, store, "products", 2)

	t.Run("reviews", func(t *testing.T) {
		w := get(t, host, "/reviews")
		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeArchive(t, w)
		assert.Equal(t, "Reviews", resp.Name)
		assert.Equal(t, 3, resp.PageSize)
		assert.Len(t, resp.Entries, 3)
		assert.Equal(t, 7, resp.Total)
		assert.Equal(t, 3, resp.TotalPages)
		// the secondary query keeps its own size
		assert.Len(t, resp.Recent, cms.RecentPageSize)
	})

	t.Run("reviews page 3", func(t *testing.T) {
		w := get(t, host, "/reviews/page/3")
		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeArchive(t, w)
		assert.Equal(t, 3, resp.Page)
		assert.Len(t, resp.Entries, 1)
	})

	t.Run("products", func(t *testing.T) {
		resp := decodeArchive(t, get(t, host, "/products"))
		assert.Equal(t, 1, resp.PageSize)
		assert.Len(t, resp.Entries, 1)
		assert.Equal(t, "products-b", resp.Entries[0].Title)
	})

	t.Run("invalid page", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, get(t, host, "/reviews/page/zero").Code)
	})
}

func TestHost_AdminListingIsNotAdjusted(t *testing.T) {
	host, store := setupHost(t)
	seedEntries(t, store, "reviews", 7)

	assert.Equal(t, http.StatusUnauthorized, get(t, host, "/admin/reviews").Code)

	w := get(t, host, "/admin/reviews", "Authorization", adminToken(t))
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeArchive(t, w)
	assert.Equal(t, cms.DefaultPostsPerPage, resp.PageSize)
	assert.Len(t, resp.Entries, 7)
}

func TestHost_AdminCreateAndSingleEntry(t *testing.T) {
	host, _ := setupHost(t)

	body, _ := json.Marshal(cms.CreateEntryRequest{Title: "Great thing", Body: "Five stars"})
	req := httptest.NewRequest(http.MethodPost, "/admin/reviews", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", adminToken(t))
	w := httptest.NewRecorder()
	host.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var created cms.EntryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "reviews", created.ContentType)
	assert.Equal(t, string(cms.EntryStatusPublished), created.Status)

	w = get(t, host, "/reviews/"+created.ID)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Great thing")

	// entries are only reachable under their own type
	assert.Equal(t, http.StatusNotFound, get(t, host, "/products/"+created.ID).Code)
	assert.Equal(t, http.StatusNotFound, get(t, host, "/reviews/"+uuid.New().String()).Code)
}

func TestHost_AdminCreateValidation(t *testing.T) {
	host, _ := setupHost(t)

	for _, body := range []string{`{"title":""}`, `{"title":"x","status":"archived"}`, `not json`} {
		req := httptest.NewRequest(http.MethodPost, "/admin/products", strings.NewReader(body))
		req.Header.Set("Authorization", adminToken(t))
		w := httptest.NewRecorder()
		host.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestHost_Feed(t *testing.T) {
	host, store := setupHost(t)
	seedEntries(t, store, "products", 2)

	w := get(t, host, "/products/feed")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<rss version=\"2.0\">")
	assert.Contains(t, w.Body.String(), "<title>products-a</title>")
	assert.Contains(t, w.Body.String(), "<title>products-b</title>")
}

func TestHost_FrontBase(t *testing.T) {
	host, _ := setupHost(t, cms.WithFrontBase("blog"))

	assert.Equal(t, http.StatusOK, get(t, host, "/blog/reviews").Code)
	assert.Equal(t, http.StatusNotFound, get(t, host, "/reviews").Code)
}

func TestHost_LocalizedCatalog(t *testing.T) {
	dir := t.TempDir()
	langDir := filepath.Join(dir, "site-custom-post-types", "languages")
	require.NoError(t, os.MkdirAll(langDir, 0o755))
	catalogYAML := `language: it
messages:
  "Reviews": "Recensioni"
  "All %s": "Tutte le %s"
`
	require.NoError(t, os.WriteFile(
		filepath.Join(langDir, cms.CatalogFileName(contenttypes.TextDomain, language.Italian)),
		[]byte(catalogYAML), 0o644))

	_, store := setupHost(t, cms.WithPluginDir(dir), cms.WithLocale(language.Italian))

	reviews, err := store.GetContentType(context.Background(), "reviews")
	require.NoError(t, err)
	assert.Equal(t, "Recensioni", reviews.Config.Labels.Name)
	assert.Equal(t, "Tutte le Recensioni", reviews.Config.Labels.AllItems)
	assert.Equal(t, "Add New Thing", reviews.Config.Labels.AddNewItem)
}

func TestHost_MissingCatalogIsTolerated(t *testing.T) {
	host, err := cms.New(memory.New(), cms.WithPluginDir(t.TempDir()), cms.WithLocale(language.German))
	require.NoError(t, err)

	err = host.LoadLocalizedCatalog(context.Background(), contenttypes.TextDomain, contenttypes.CatalogPath)
	assert.NoError(t, err)
	assert.Equal(t, "All Reviews", host.Translator(contenttypes.TextDomain).Sprintf("All %s", "Reviews"))
}

func TestHost_RunQuery_HookError(t *testing.T) {
	host, err := cms.New(memory.New())
	require.NoError(t, err)
	host.Use(&contenttypes.Hooks{
		PreQuery: []contenttypes.PreQueryHook{
			func(*contenttypes.HookContext, contenttypes.Query) error { return assert.AnError },
		},
	})

	res, err := host.RunQuery(context.Background(), &cms.Query{ContentType: "reviews", Size: 3})
	assert.Nil(t, res)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestCatalogFileName(t *testing.T) {
	assert.Equal(t, "site_theme_cpt-it.yaml", cms.CatalogFileName("site_theme_cpt", language.Italian))
	assert.Equal(t, "site_theme_cpt-it_IT.yaml", cms.CatalogFileName("site_theme_cpt", language.MustParse("it-IT")))
}

func TestHost_BundledItalianCatalog(t *testing.T) {
	_, store := setupHost(t, cms.WithPluginDir("../.."), cms.WithLocale(language.Italian))

	products, err := store.GetContentType(context.Background(), "products")
	require.NoError(t, err)
	assert.Equal(t, "Prodotti", products.Config.Labels.Name)
	assert.Equal(t, "Aggiungi nuovo Elemento", products.Config.Labels.AddNewItem)
	assert.Equal(t, "Non trovato", products.Config.Labels.NotFound)
}

func TestHost_RegionalLocaleFallsBackToBaseCatalog(t *testing.T) {
	t.Setenv("LOCALE", "it_IT")
	t.Setenv("PLUGIN_DIR", "../..")
	cfg, err := config.Load()
	require.NoError(t, err)

	opts, err := cfg.HostOptions(nil)
	require.NoError(t, err)
	_, store := setupHost(t, opts...)

	products, err := store.GetContentType(context.Background(), "products")
	require.NoError(t, err)
	assert.Equal(t, "Prodotti", products.Config.Labels.Name)
	assert.Equal(t, "Non trovato", products.Config.Labels.NotFound)
}

func TestHost_CatalogLanguageDiffersFromLocale(t *testing.T) {
	dir := t.TempDir()
	langDir := filepath.Join(dir, "site-custom-post-types", "languages")
	require.NoError(t, os.MkdirAll(langDir, 0o755))
	catalogYAML := `language: fr
messages:
  "Reviews": "Avis"
  "All %s": "Tous les %s"
`
	require.NoError(t, os.WriteFile(
		filepath.Join(langDir, cms.CatalogFileName(contenttypes.TextDomain, language.Italian)),
		[]byte(catalogYAML), 0o644))

	_, store := setupHost(t, cms.WithPluginDir(dir), cms.WithLocale(language.Italian))

	reviews, err := store.GetContentType(context.Background(), "reviews")
	require.NoError(t, err)
	assert.Equal(t, "Avis", reviews.Config.Labels.Name)
	assert.Equal(t, "Tous les Avis", reviews.Config.Labels.AllItems)
}

func TestHost_WithNilLoggerStarts(t *testing.T) {
	host, err := cms.New(memory.New(), cms.WithLogger(nil))
	require.NoError(t, err)

	registry, err := contenttypes.New(host, contenttypes.WithLogger(nil))
	require.NoError(t, err)
	host.Use(registry.Hooks())

	assert.NotPanics(t, func() {
		require.NoError(t, host.Start(context.Background()))
	})
	assert.Equal(t, http.StatusOK, get(t, host, "/reviews").Code)
}

func TestHost_RegisterContentType_ReservedKey(t *testing.T) {
	host, err := cms.New(memory.New())
	require.NoError(t, err)
	ctx := context.Background()

	for _, key := range []string{"admin", "health"} {
		err := host.RegisterContentType(ctx, key, contenttypes.RegistrationConfig{
			Public: true, PubliclyQueryable: true, HasArchive: true,
			Rewrite: contenttypes.Rewrite{Slug: key},
		})
		assert.ErrorIs(t, err, cms.ErrReservedKey, key)
	}

	err = host.RegisterContentType(ctx, "events", contenttypes.RegistrationConfig{
		Rewrite: contenttypes.Rewrite{Slug: "admin"},
	})
	assert.ErrorIs(t, err, cms.ErrReservedKey)

	require.NoError(t, host.RefreshRoutingRules(ctx))
	assert.Equal(t, http.StatusOK, get(t, host, "/health").Code)
}

// failingCountStore fails every count so archive queries error out.
type failingCountStore struct {
	*memory.Store
}

func (s failingCountStore) CountEntries(ctx context.Context, contentType string, status cms.EntryStatus) (int, error) {
	return 0, assert.AnError
}

func TestHost_HandlersLogThroughHostLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	host, err := cms.New(failingCountStore{memory.New()}, cms.WithLogger(logger))
	require.NoError(t, err)
	registry, err := contenttypes.New(host)
	require.NoError(t, err)
	host.Use(registry.Hooks())
	require.NoError(t, host.Start(context.Background()))

	assert.Equal(t, http.StatusInternalServerError, get(t, host, "/reviews").Code)
	assert.Contains(t, buf.String(), "Failed to run archive query")
	assert.Contains(t, buf.String(), "content_type=reviews")
}
