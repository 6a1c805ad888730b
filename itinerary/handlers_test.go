package itinerary

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"tripdesk/models"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) (*Handler, *MemStore) {
	t.Helper()
	store := NewMemStore()
	return NewHandler(store, nil), store
}

func TestCreateItineraryHandler(t *testing.T) {
	h, _ := newTestHandler(t)

	body, _ := json.Marshal(models.Itinerary{Title: "Kyoto in Autumn", DayCount: 6})
	req := httptest.NewRequest(http.MethodPost, "/api/itineraries", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.CreateItinerary(rec, req, nil)

	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Itinerary
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.Equal(t, "Kyoto in Autumn", created.Title)
	assert.NotEmpty(t, created.ItineraryID)
	assert.False(t, created.CreatedAt.IsZero())
}

func TestGetItineraryHandlerNotFound(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/itineraries/nosuchid", nil)
	rec := httptest.NewRecorder()

	h.GetItinerary(rec, req, httprouter.Params{{Key: "id", Value: "nosuchid"}})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Itinerary not found"}`, rec.Body.String())
}

func TestGetItineraryHandlerInvalidID(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/itineraries/x", nil)
	rec := httptest.NewRecorder()

	h.GetItinerary(rec, req, httprouter.Params{{Key: "id", Value: "bad id with spaces"}})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateItineraryHandler(t *testing.T) {
	h, store := newTestHandler(t)

	created, err := store.Create(context.Background(), models.Itinerary{Title: "Draft"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/api/itineraries/"+created.ItineraryID,
		bytes.NewReader([]byte(`{"title":"Final","country":"Portugal"}`)))
	rec := httptest.NewRecorder()

	h.UpdateItinerary(rec, req, httprouter.Params{{Key: "id", Value: created.ItineraryID}})

	require.Equal(t, http.StatusOK, rec.Code)

	var updated models.Itinerary
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&updated))
	assert.Equal(t, "Final", updated.Title)
	assert.Equal(t, "Portugal", updated.Country)
}

func TestDeleteItineraryHandler(t *testing.T) {
	h, store := newTestHandler(t)

	created, err := store.Create(context.Background(), models.Itinerary{Title: "Gone"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/api/itineraries/"+created.ItineraryID, nil)
	rec := httptest.NewRecorder()
	h.DeleteItinerary(rec, req, httprouter.Params{{Key: "id", Value: created.ItineraryID}})
	require.Equal(t, http.StatusOK, rec.Code)

	_, err = store.Get(context.Background(), created.ItineraryID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListItinerariesHandler(t *testing.T) {
	h, store := newTestHandler(t)

	_, err := store.Create(context.Background(), models.Itinerary{Title: "One"})
	require.NoError(t, err)
	_, err = store.Create(context.Background(), models.Itinerary{Title: "Two"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/itineraries", nil)
	rec := httptest.NewRecorder()
	h.GetItineraries(rec, req, nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var its []models.Itinerary
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&its))
	assert.Len(t, its, 2)
}
