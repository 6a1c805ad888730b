package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateRandomString(t *testing.T) {
	a := GenerateRandomString(14)
	b := GenerateRandomString(14)

	assert.Len(t, a, 14)
	assert.Len(t, b, 14)
	assert.NotEqual(t, a, b)
}

func TestContainsIgnoreCase(t *testing.T) {
	assert.True(t, ContainsIgnoreCase("Grand Hotel", "grand"))
	assert.True(t, ContainsIgnoreCase("city tour", "TOUR"))
	assert.False(t, ContainsIgnoreCase("Cruise", "hotel"))
	assert.True(t, ContainsIgnoreCase("anything", ""))
}

func TestParseListOptions(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/library/items?category=Activity&search=%20tour%20&sort=title", nil)
	opts := ParseListOptions(r)

	assert.Equal(t, "Activity", opts.Category)
	assert.Equal(t, "tour", opts.Search)
	assert.Equal(t, "title", opts.SortBy)
}

func TestRespondWithError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondWithError(rec, 404, "Itinerary not found")

	assert.Equal(t, 404, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"Itinerary not found"}`, rec.Body.String())
}
