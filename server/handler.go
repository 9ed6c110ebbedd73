// Package server exposes the pantry read API consumed by the dashboard.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"pantry-monitor/config"
	"pantry-monitor/models"
	"pantry-monitor/storage"
	"pantry-monitor/utils"
)

// Handler serves the JSON read endpoints and the camera images.
type Handler struct {
	cfg    *config.Config
	store  storage.InventoryReader
	logger *utils.Logger
	now    func() time.Time
}

// NewHandler creates a Handler over the given store.
func NewHandler(cfg *config.Config, store storage.InventoryReader, logger *utils.Logger) *Handler {
	return &Handler{cfg: cfg, store: store, logger: logger, now: time.Now}
}

// Router builds the full route tree with CORS and request logging.
func (h *Handler) Router() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/api/statistics", h.serveStatistics).Methods(http.MethodGet)
	r.HandleFunc("/api/inventory", h.serveInventory).Methods(http.MethodGet)
	r.HandleFunc("/api/recent-scans", h.serveRecentScans).Methods(http.MethodGet)
	r.HandleFunc("/api/latest-image", h.serveLatestImage).Methods(http.MethodGet)
	r.HandleFunc("/api/item-history/{id:[0-9]+}", h.serveItemHistory).Methods(http.MethodGet)
	r.HandleFunc("/image/{filename}", h.serveImage).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{h.cfg.CORSOrigins},
		AllowedMethods: []string{http.MethodGet},
	})
	return requestLogging(h.logger)(c.Handler(r))
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("[server] Failed to encode response: %v", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *Handler) serveStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Statistics()
	if err != nil {
		h.logger.Error("[server] Statistics query failed: %v", err)
		h.writeError(w, http.StatusInternalServerError, "statistics unavailable")
		return
	}
	h.writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) serveInventory(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.CurrentInventory()
	if err != nil {
		h.logger.Error("[server] Inventory query failed: %v", err)
		h.writeError(w, http.StatusInternalServerError, "inventory unavailable")
		return
	}

	now := h.now()
	for _, it := range items {
		if it.Category == "" {
			it.Category = "Uncategorized"
		}
		days := int(now.Sub(it.FirstDetected).Hours() / 24)
		if days < 0 {
			days = 0
		}
		it.DaysInPantry = days
	}
	if items == nil {
		items = []*models.Item{}
	}
	h.writeJSON(w, http.StatusOK, items)
}

func (h *Handler) serveRecentScans(w http.ResponseWriter, r *http.Request) {
	scans, err := h.store.RecentScans(h.cfg.RecentScansLimit)
	if err != nil {
		h.logger.Error("[server] Recent-scans query failed: %v", err)
		h.writeError(w, http.StatusInternalServerError, "scans unavailable")
		return
	}
	if scans == nil {
		scans = []*models.Scan{}
	}
	h.writeJSON(w, http.StatusOK, scans)
}

func (h *Handler) serveLatestImage(w http.ResponseWriter, r *http.Request) {
	path := filepath.Join(h.cfg.ImageDirectory, h.cfg.CurrentImage)

	info, err := os.Stat(path)
	if err != nil {
		h.writeJSON(w, http.StatusOK, models.LatestImage{Exists: false})
		return
	}

	mod := info.ModTime()
	h.writeJSON(w, http.StatusOK, models.LatestImage{
		Exists:      true,
		Path:        "/image/" + h.cfg.CurrentImage,
		LastUpdated: &mod,
	})
}

func (h *Handler) serveItemHistory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	name, err := h.store.ItemName(id)
	if errors.Is(err, storage.ErrItemNotFound) {
		h.writeError(w, http.StatusNotFound, "Item not found")
		return
	}
	if err != nil {
		h.logger.Error("[server] Item lookup failed: %v", err)
		h.writeError(w, http.StatusInternalServerError, "item lookup failed")
		return
	}

	history, err := h.store.ItemHistory(name)
	if err != nil {
		h.logger.Error("[server] History query failed: %v", err)
		h.writeError(w, http.StatusInternalServerError, "history unavailable")
		return
	}
	if history == nil {
		history = []*models.Change{}
	}
	h.writeJSON(w, http.StatusOK, history)
}

func (h *Handler) serveImage(w http.ResponseWriter, r *http.Request) {
	// filepath.Base guards against traversal in the path variable.
	name := filepath.Base(mux.Vars(r)["filename"])
	path := filepath.Join(h.cfg.ImageDirectory, name)

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}

	h.logger.Debug("[server] Serving image %s (%s)", name, humanize.Bytes(uint64(info.Size())))
	http.ServeFile(w, r, path)
}
