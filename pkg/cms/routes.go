package cms

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/tendant/site-content-types/pkg/contenttypes"
)

// EntryResponse is the response body for an entry
type EntryResponse struct {
	ID          string    `json:"id"`
	ContentType string    `json:"content_type"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// ArchiveResponse is the response body for an archive listing
type ArchiveResponse struct {
	ContentType string          `json:"content_type"`
	Name        string          `json:"name"`
	Page        int             `json:"page"`
	PageSize    int             `json:"page_size"`
	Total       int             `json:"total"`
	TotalPages  int             `json:"total_pages"`
	Entries     []EntryResponse `json:"entries"`
	Recent      []EntryResponse `json:"recent,omitempty"`
}

// CreateEntryRequest is the request body for creating an entry
type CreateEntryRequest struct {
	Title  string `json:"title"`
	Body   string `json:"body"`
	Status string `json:"status"`
}

// RefreshRoutingRules rebuilds the router from every registered content type.
func (h *Host) RefreshRoutingRules(ctx context.Context) error {
	types, err := h.store.ListContentTypes(ctx)
	if err != nil {
		return fmt.Errorf("list content types: %w", err)
	}

	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"status": "ok", "version": h.version})
	})

	rules := 0
	for _, ct := range types {
		cfg := ct.Config
		if !cfg.Public || !cfg.PubliclyQueryable {
			continue
		}

		base := h.archiveBase(cfg.Rewrite)
		if cfg.HasArchive {
			r.Get(base, h.handleArchive(ct.Key))
			rules++
			if cfg.Rewrite.Pages {
				r.Get(base+"/page/{page}", h.handleArchive(ct.Key))
				rules++
			}
			if cfg.Rewrite.Feeds {
				r.Get(base+"/feed", h.handleFeed(ct.Key))
				rules++
			}
		}
		r.Get(base+"/{entryID}", h.handleEntry(ct.Key))
		rules++
	}

	if h.auth != nil {
		r.Route("/admin", func(r chi.Router) {
			r.Use(jwtauth.Verifier(h.auth))
			r.Use(jwtauth.Authenticator)

			for _, ct := range types {
				if !ct.Config.ShowUI {
					continue
				}
				r.Get("/"+ct.Key, h.handleAdminList(ct.Key))
				r.Post("/"+ct.Key, h.handleAdminCreate(ct.Key))
			}
		})
	}

	h.router.Store(r)
	h.logger.Info("routing rules refreshed", "content_types", len(types), "rules", rules)
	return nil
}

func (h *Host) archiveBase(rw contenttypes.Rewrite) string {
	if rw.WithFront && h.frontBase != "" {
		return path.Join("/", h.frontBase, rw.Slug)
	}
	return path.Join("/", rw.Slug)
}

func (h *Host) contentTypeName(ctx context.Context, key string) string {
	ct, err := h.store.GetContentType(ctx, key)
	if err != nil {
		return key
	}
	return ct.Config.Labels.Name
}

func (h *Host) handleArchive(key string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := 1
		if p := chi.URLParam(r, "page"); p != "" {
			n, err := strconv.Atoi(p)
			if err != nil || n < 1 {
				http.Error(w, "Invalid page", http.StatusBadRequest)
				return
			}
			page = n
		}

		main := &Query{Main: true, Archive: true, ContentType: key, Page: page, Size: h.postsPerPage}
		res, err := h.RunQuery(r.Context(), main)
		if err != nil {
			h.logger.Error("Failed to run archive query", "content_type", key, "error", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		recent := &Query{ContentType: key, Page: 1, Size: RecentPageSize}
		recentRes, err := h.RunQuery(r.Context(), recent)
		if err != nil {
			h.logger.Error("Failed to run recent query", "content_type", key, "error", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, ArchiveResponse{
			ContentType: key,
			Name:        h.contentTypeName(r.Context(), key),
			Page:        res.Page,
			PageSize:    res.PageSize,
			Total:       res.Total,
			TotalPages:  res.TotalPages,
			Entries:     toEntryResponses(res.Entries),
			Recent:      toEntryResponses(recentRes.Entries),
		})
	}
}

func (h *Host) handleEntry(key string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idStr := chi.URLParam(r, "entryID")
		id, err := uuid.Parse(idStr)
		if err != nil {
			http.Error(w, "Invalid entry ID", http.StatusNotFound)
			return
		}

		entry, err := h.store.GetEntry(r.Context(), id)
		if err != nil {
			if errors.Is(err, ErrEntryNotFound) {
				http.Error(w, "Entry not found", http.StatusNotFound)
				return
			}
			h.logger.Error("Failed to get entry", "entry_id", idStr, "error", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if entry.ContentType != key || entry.Status != EntryStatusPublished {
			http.Error(w, "Entry not found", http.StatusNotFound)
			return
		}

		render.JSON(w, r, toEntryResponse(entry))
	}
}

type rssFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title string    `xml:"title"`
	Items []rssItem `xml:"item"`
}

type rssItem struct {
	GUID        string `xml:"guid"`
	Title       string `xml:"title"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
}

func (h *Host) handleFeed(key string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := h.RunQuery(r.Context(), &Query{ContentType: key, Page: 1, Size: h.postsPerPage})
		if err != nil {
			h.logger.Error("Failed to run feed query", "content_type", key, "error", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		feed := rssFeed{Version: "2.0", Channel: rssChannel{Title: h.contentTypeName(r.Context(), key)}}
		for _, e := range res.Entries {
			feed.Channel.Items = append(feed.Channel.Items, rssItem{
				GUID:        e.ID.String(),
				Title:       e.Title,
				Description: e.Body,
				PubDate:     e.CreatedAt.Format(time.RFC1123Z),
			})
		}
		render.XML(w, r, feed)
	}
}

func (h *Host) handleAdminList(key string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := 1
		if p := r.URL.Query().Get("page"); p != "" {
			if n, err := strconv.Atoi(p); err == nil && n > 0 {
				page = n
			}
		}

		q := &Query{Admin: true, Main: true, Archive: true, ContentType: key, Page: page, Size: h.postsPerPage}
		res, err := h.RunQuery(r.Context(), q)
		if err != nil {
			h.logger.Error("Failed to run admin query", "content_type", key, "error", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, ArchiveResponse{
			ContentType: key,
			Name:        h.contentTypeName(r.Context(), key),
			Page:        res.Page,
			PageSize:    res.PageSize,
			Total:       res.Total,
			TotalPages:  res.TotalPages,
			Entries:     toEntryResponses(res.Entries),
		})
	}
}

func (h *Host) handleAdminCreate(key string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateEntryRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.Title == "" {
			http.Error(w, "Title is required", http.StatusBadRequest)
			return
		}

		status := EntryStatus(req.Status)
		switch status {
		case "":
			status = EntryStatusPublished
		case EntryStatusDraft, EntryStatusPublished:
		default:
			http.Error(w, "Invalid status", http.StatusBadRequest)
			return
		}

		now := time.Now().UTC()
		entry := &Entry{
			ID:          uuid.New(),
			ContentType: key,
			Title:       req.Title,
			Body:        req.Body,
			Status:      status,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := h.store.CreateEntry(r.Context(), entry); err != nil {
			h.logger.Error("Failed to create entry", "content_type", key, "error", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		_, claims, _ := jwtauth.FromContext(r.Context())
		h.logger.Info("Entry created", "entry_id", entry.ID.String(), "content_type", key, "sub", claims["sub"])

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, toEntryResponse(entry))
	}
}

func toEntryResponse(e *Entry) EntryResponse {
	return EntryResponse{
		ID:          e.ID.String(),
		ContentType: e.ContentType,
		Title:       e.Title,
		Body:        e.Body,
		Status:      string(e.Status),
		CreatedAt:   e.CreatedAt,
	}
}

func toEntryResponses(entries []*Entry) []EntryResponse {
	resp := make([]EntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, toEntryResponse(e))
	}
	return resp
}
