package itinerary

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"tripdesk/globals"
	"tripdesk/models"
	"tripdesk/mq"
	"tripdesk/utils"

	"github.com/julienschmidt/httprouter"
)

// Handler exposes the itinerary record store over HTTP.
type Handler struct {
	store   Store
	emitter *mq.Emitter
}

func NewHandler(store Store, emitter *mq.Emitter) *Handler {
	return &Handler{store: store, emitter: emitter}
}

// GET /api/itineraries
func (h *Handler) GetItineraries(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	itineraries, err := h.store.List(ctx)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch itineraries")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, itineraries)
}

// GET /api/itineraries/:id
func (h *Handler) GetItinerary(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	it, err := h.store.Get(ctx, ps.ByName("id"))
	if err != nil {
		respondStoreError(w, err, "Failed to fetch itinerary")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, it)
}

// POST /api/itineraries
func (h *Handler) CreateItinerary(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var it models.Itinerary
	if err := json.NewDecoder(r.Body).Decode(&it); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	created, err := h.store.Create(ctx, it)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create itinerary")
		return
	}

	m := models.Index{EntityType: "itinerary", EntityId: created.ItineraryID, Method: "POST"}
	go h.emitter.Emit(globals.Ctx, "itinerary-created", m)

	utils.RespondWithJSON(w, http.StatusCreated, created)
}

// PUT /api/itineraries/:id
func (h *Handler) UpdateItinerary(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
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
		respondStoreError(w, err, "Failed to update itinerary")
		return
	}

	m := models.Index{EntityType: "itinerary", EntityId: id, Method: "PUT"}
	go h.emitter.Emit(globals.Ctx, "itinerary-updated", m)

	utils.RespondWithJSON(w, http.StatusOK, updated)
}

// DELETE /api/itineraries/:id
func (h *Handler) DeleteItinerary(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.store.Delete(ctx, id); err != nil {
		respondStoreError(w, err, "Failed to delete itinerary")
		return
	}

	m := models.Index{EntityType: "itinerary", EntityId: id, Method: "DELETE"}
	go h.emitter.Emit(globals.Ctx, "itinerary-deleted", m)

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Itinerary deleted successfully"})
}

func respondStoreError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case ErrNotFound:
		utils.RespondWithError(w, http.StatusNotFound, "Itinerary not found")
	case ErrInvalidID:
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid itinerary ID")
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}
