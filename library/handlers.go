package library

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"tripdesk/globals"
	"tripdesk/models"
	"tripdesk/mq"
	"tripdesk/rdx"
	"tripdesk/utils"

	"github.com/julienschmidt/httprouter"
)

const (
	statsCacheKey = "library:stats"
	listCacheKey  = "library:items"
	cacheTTL      = 60 * time.Second
)

// Handler exposes the catalog item store over HTTP.
type Handler struct {
	store   Store
	cache   *rdx.Cache
	emitter *mq.Emitter
}

func NewHandler(store Store, cache *rdx.Cache, emitter *mq.Emitter) *Handler {
	return &Handler{store: store, cache: cache, emitter: emitter}
}

// GET /api/library/items
func (h *Handler) GetItems(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	opts := utils.ParseListOptions(r)

	// Only the unfiltered listing is cached; filtered views go to the store.
	cacheable := opts.Category == "" && opts.Search == "" && opts.SortBy == ""
	if cacheable {
		if cached, err := h.cache.Get(ctx, listCacheKey); err == nil && cached != "" {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(cached))
			return
		}
	}

	items, err := h.store.List(ctx, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch library items")
		return
	}

	if cacheable {
		if data, err := json.Marshal(items); err == nil {
			h.cache.Set(ctx, listCacheKey, string(data), cacheTTL)
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, items)
}

// GET /api/library/item/:id
func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := h.store.Get(ctx, ps.ByName("id"))
	if err != nil {
		respondStoreError(w, err, "Failed to fetch library item")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, item)
}

// POST /api/library/item
func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var item models.LibraryItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	created, err := h.store.Create(ctx, item)
	if err != nil {
		respondStoreError(w, err, "Failed to create library item")
		return
	}

	h.invalidate(ctx)
	m := models.Index{EntityType: "library", EntityId: created.ItemID, Method: "POST", Title: created.Title}
	go h.emitter.Emit(globals.Ctx, "library-item-created", m)

	utils.RespondWithJSON(w, http.StatusCreated, created)
}

// PUT /api/library/item/:id
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var patch map[string]any
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	updated, err := h.store.Update(ctx, id, patch)
	if err != nil {
		respondStoreError(w, err, "Failed to update library item")
		return
	}

	h.invalidate(ctx)
	m := models.Index{EntityType: "library", EntityId: id, Method: "PUT", Title: updated.Title}
	go h.emitter.Emit(globals.Ctx, "library-item-updated", m)

	utils.RespondWithJSON(w, http.StatusOK, updated)
}

// DELETE /api/library/item/:id
func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// fetch first so the delete event still carries the title
	item, err := h.store.Get(ctx, id)
	if err != nil {
		respondStoreError(w, err, "Failed to delete library item")
		return
	}

	if err := h.store.Delete(ctx, id); err != nil {
		respondStoreError(w, err, "Failed to delete library item")
		return
	}

	h.invalidate(ctx)
	m := models.Index{EntityType: "library", EntityId: id, Method: "DELETE", Title: item.Title}
	go h.emitter.Emit(globals.Ctx, "library-item-deleted", m)

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Library item deleted successfully"})
}

// GET /api/library/stats
// Responds with the fixed category shape; categories the store omitted are
// reported as zero.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if cached, err := h.cache.Get(ctx, statsCacheKey); err == nil && cached != "" {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(cached))
		return
	}

	stats, err := h.store.Stats(ctx)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch library stats")
		return
	}

	full := models.LibraryStats{}
	for _, category := range models.KnownCategories {
		full[category] = stats[category]
	}
	for category, count := range stats {
		full[category] = count
	}

	if data, err := json.Marshal(full); err == nil {
		h.cache.Set(ctx, statsCacheKey, string(data), cacheTTL)
	}

	utils.RespondWithJSON(w, http.StatusOK, full)
}

// GET /api/library/suggest?q=
func (h *Handler) Suggest(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	titles, err := mq.Suggest(ctx, h.cache, r.URL.Query().Get("q"), 10)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch suggestions")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, titles)
}

func (h *Handler) invalidate(ctx context.Context) {
	h.cache.Del(ctx, listCacheKey, statsCacheKey)
}

func respondStoreError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case ErrNotFound:
		utils.RespondWithError(w, http.StatusNotFound, "Library item not found")
	case ErrInvalidID:
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid library item ID")
	case ErrMissingFields:
		utils.RespondWithError(w, http.StatusBadRequest, "Title and category are required")
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}
