package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/feedmill/feedmill/app/database"
	"github.com/feedmill/feedmill/app/feed"
	"github.com/feedmill/feedmill/app/sources"
)

type Handler struct {
	mu       sync.Mutex
	session  *feed.Session
	feedRepo *database.FeedRepository
	itemRepo *database.ItemRepository
	sources  []sources.Source
	version  string
}

func NewHandler(session *feed.Session, feedRepo *database.FeedRepository,
	itemRepo *database.ItemRepository, srcs []sources.Source, version string) *Handler {
	return &Handler{
		session:  session,
		feedRepo: feedRepo,
		itemRepo: itemRepo,
		sources:  srcs,
		version:  version,
	}
}

func (h *Handler) GetFeeds(c *gin.Context) {
	feeds, err := h.feedRepo.GetFeeds()
	if err != nil {
		slog.Error("Database error", "operation", "get_feeds", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	out := make([]gin.H, 0, len(feeds))
	for _, f := range feeds {
		info := gin.H{
			"name": f.Name,
			"url":  f.URL,
		}
		if f.LastFetchedAt != nil {
			info["last_fetched_at"] = f.LastFetchedAt.Format(time.RFC3339)
		}
		if count, err := h.itemRepo.GetItemCount(f.Name); err == nil {
			info["item_count"] = count
		}
		out = append(out, info)
	}

	c.JSON(http.StatusOK, gin.H{"feeds": out})
}

func (h *Handler) GetFeedItems(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	f, err := h.feedRepo.GetFeed(name)
	if err != nil {
		slog.Error("Database error", "operation", "get_feed", "feed", name, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	if f == nil {
		c.Status(http.StatusNotFound)
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	items, err := h.itemRepo.GetItems(name, limit)
	if err != nil {
		slog.Error("Database error", "operation", "get_items", "feed", name, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []feed.Item{}
	}

	c.Header("X-Feed-Items", strconv.Itoa(len(items)))
	c.Header("X-Feed-Name", name)
	c.JSON(http.StatusOK, gin.H{"feed": name, "items": items})
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := gin.H{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"version":   h.version,
	}

	if feedCount, err := h.feedRepo.GetFeedCount(); err == nil {
		health["feeds"] = feedCount
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats := gin.H{
		"session_items": h.session.Count(),
		"last_error":    h.session.LastError(),
	}

	if feedCount, err := h.feedRepo.GetFeedCount(); err == nil {
		stats["feeds"] = feedCount
	}
	if itemCount, err := h.itemRepo.GetTotalItemCount(); err == nil {
		stats["archived_items"] = itemCount
	}

	c.JSON(http.StatusOK, stats)
}

// RefreshFeed re-runs the normalization session for one registered
// source and replaces its archived items.
func (h *Handler) RefreshFeed(c *gin.Context) {
	name := c.Param("name")

	var src *sources.Source
	for i := range h.sources {
		if h.sources[i].Name == name {
			src = &h.sources[i]
			break
		}
	}
	if src == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown feed: " + name})
		return
	}

	// The session's running list and error log are shared state; refresh
	// requests are serialized.
	h.mu.Lock()
	defer h.mu.Unlock()

	batch := h.session.Run(c.Request.Context(), src.URL)
	if len(batch) == 0 {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": h.session.LastError(),
		})
		return
	}

	items := batch[0]
	if err := h.itemRepo.ReplaceItems(name, items); err != nil {
		slog.Error("Database error", "operation", "replace_items", "feed", name, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	if err := h.feedRepo.TouchFetched(name, time.Now()); err != nil {
		slog.Error("Database error", "operation", "touch_fetched", "feed", name, "error", err)
	}

	slog.Info("Feed refreshed", "feed", name, "items", len(items))
	c.JSON(http.StatusOK, gin.H{"feed": name, "items": len(items)})
}
