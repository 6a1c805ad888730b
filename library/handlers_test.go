package library

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
	// nil cache and emitter: caching and event emission are no-ops
	return NewHandler(store, nil, nil), store
}

func TestCreateItemHandler(t *testing.T) {
	h, _ := newTestHandler(t)

	body := []byte(`{"title":"City Tour","category":"Activity","description":""}`)
	req := httptest.NewRequest(http.MethodPost, "/api/library/item", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.CreateItem(rec, req, nil)

	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.LibraryItem
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.Equal(t, "City Tour", created.Title)
	assert.Equal(t, "Activity", created.Category)
	assert.Empty(t, created.Description)
	assert.NotEmpty(t, created.ItemID)
}

func TestCreateItemHandlerMissingFields(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/library/item",
		bytes.NewReader([]byte(`{"title":"No category"}`)))
	rec := httptest.NewRecorder()

	h.CreateItem(rec, req, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Title and category are required"}`, rec.Body.String())
}

func TestGetStatsFixedShape(t *testing.T) {
	h, store := newTestHandler(t)
	ctx := context.Background()

	for _, item := range []models.LibraryItem{
		{Title: "A", Category: models.CategoryActivity},
		{Title: "B", Category: models.CategoryActivity},
		{Title: "C", Category: models.CategoryLodging},
	} {
		_, err := store.Create(ctx, item)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/library/stats", nil)
	rec := httptest.NewRecorder()
	h.GetStats(rec, req, nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var stats map[string]int
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&stats))

	// present categories counted, absent ones defaulted to zero
	assert.Equal(t, 2, stats[models.CategoryActivity])
	assert.Equal(t, 1, stats[models.CategoryLodging])
	assert.Equal(t, 0, stats[models.CategoryFlight])
	assert.Equal(t, 0, stats[models.CategoryCruise])
	assert.Len(t, stats, len(models.KnownCategories))
}

func TestGetItemsHandlerFilter(t *testing.T) {
	h, store := newTestHandler(t)
	ctx := context.Background()

	_, err := store.Create(ctx, models.LibraryItem{Title: "Sunset Cruise", Category: models.CategoryCruise})
	require.NoError(t, err)
	_, err = store.Create(ctx, models.LibraryItem{Title: "Museum Pass", Category: models.CategoryActivity})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/library/items?search=cruise", nil)
	rec := httptest.NewRecorder()
	h.GetItems(rec, req, nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var items []models.LibraryItem
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&items))
	require.Len(t, items, 1)
	assert.Equal(t, "Sunset Cruise", items[0].Title)
}

func TestUpdateItemHandlerNotFound(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPut, "/api/library/item/missing",
		bytes.NewReader([]byte(`{"price":10}`)))
	rec := httptest.NewRecorder()

	h.UpdateItem(rec, req, httprouter.Params{{Key: "id", Value: "missingitemid"}})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteItemHandler(t *testing.T) {
	h, store := newTestHandler(t)

	created, err := store.Create(context.Background(),
		models.LibraryItem{Title: "Old Entry", Category: models.CategoryInfo})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/api/library/item/"+created.ItemID, nil)
	rec := httptest.NewRecorder()
	h.DeleteItem(rec, req, httprouter.Params{{Key: "id", Value: created.ItemID}})

	require.Equal(t, http.StatusOK, rec.Code)

	_, err = store.Get(context.Background(), created.ItemID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSuggestWithoutRedis(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/library/suggest?q=ci", nil)
	rec := httptest.NewRecorder()
	h.Suggest(rec, req, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}
