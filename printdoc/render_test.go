package printdoc

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"tripdesk/itinerary"
	"tripdesk/models"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDocHeader(t *testing.T) {
	doc, err := BuildDoc(models.Itinerary{
		Title:      "Vietnam North to South",
		Country:    "Vietnam",
		DayCount:   12,
		NightCount: 11,
		Days:       []models.ItineraryDay{},
	})
	require.NoError(t, err)
	assert.Equal(t, "Vietnam North to South", doc.Title)
	assert.Equal(t, "12 Days • 11 Nights", doc.Duration)
	assert.Empty(t, doc.Days)
}

func TestBuildDocMissingDays(t *testing.T) {
	_, err := BuildDoc(models.Itinerary{Title: "Broken"})
	assert.ErrorIs(t, err, ErrMissingDays)
}

func TestBuildDocHighlights(t *testing.T) {
	// zero highlights: block omitted entirely
	doc, err := BuildDoc(models.Itinerary{Days: []models.ItineraryDay{}})
	require.NoError(t, err)
	assert.Empty(t, doc.Highlights)

	// one highlight: exactly one tag
	doc, err = BuildDoc(models.Itinerary{
		Highlights: []string{"Halong Bay cruise"},
		Days:       []models.ItineraryDay{},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Halong Bay cruise"}, doc.Highlights)
}

func TestBuildDocMeals(t *testing.T) {
	doc, err := BuildDoc(models.Itinerary{
		Days: []models.ItineraryDay{
			{}, // no meals record: block omitted
			{Meals: &models.Meals{Breakfast: true, Lunch: false, Dinner: true}},
			{Meals: &models.Meals{}}, // record present, nothing included
		},
	})
	require.NoError(t, err)

	assert.Nil(t, doc.Days[0].Meals)
	assert.Equal(t, []string{"Breakfast included", "Dinner included"}, doc.Days[1].Meals)
	assert.Empty(t, doc.Days[2].Meals)
}

func TestBuildDocDayLabelsAndEvents(t *testing.T) {
	doc, err := BuildDoc(models.Itinerary{
		Days: []models.ItineraryDay{
			{Events: []models.Event{
				{Title: "Arrival", Time: "14:00", Location: "Noi Bai Airport"},
				{Title: "Street food dinner"},
			}},
			{Events: []models.Event{{Title: "Old Quarter walk"}}},
		},
	})
	require.NoError(t, err)

	require.Len(t, doc.Days, 2)
	assert.Equal(t, "Day 1", doc.Days[0].Label)
	assert.Equal(t, "Day 2", doc.Days[1].Label)

	first := doc.Days[0].Events[0]
	assert.Equal(t, "Arrival", first.Title)
	assert.Equal(t, "14:00", first.Time)
	assert.Equal(t, "Noi Bai Airport", first.Location)

	// optional fields independently absent-safe
	second := doc.Days[0].Events[1]
	assert.Empty(t, second.Time)
	assert.Empty(t, second.Location)
}

func TestRenderProducesPDF(t *testing.T) {
	pdfBytes, err := Render(models.Itinerary{
		Title:      "Sample",
		DayCount:   2,
		NightCount: 1,
		Highlights: []string{"Tag one", "Tag two"},
		Days: []models.ItineraryDay{
			{
				Events: []models.Event{{Title: "Check-in", Description: "Early arrival possible", Time: "12:00"}},
				Meals:  &models.Meals{Dinner: true},
			},
			{Events: []models.Event{{Title: "Departure"}}},
		},
	}, nil)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdfBytes, []byte("%PDF")))
}

func TestRenderSparseItinerary(t *testing.T) {
	// all optional fields missing must not fail
	pdfBytes, err := Render(models.Itinerary{Days: []models.ItineraryDay{{}}}, nil)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdfBytes, []byte("%PDF")))
}

func TestRenderMissingDays(t *testing.T) {
	_, err := Render(models.Itinerary{Title: "No schedule"}, nil)
	assert.ErrorIs(t, err, ErrMissingDays)
}

func TestPrintItineraryHandler(t *testing.T) {
	store := itinerary.NewMemStore()
	created, err := store.Create(context.Background(), models.Itinerary{
		Title: "Printable",
		Days:  []models.ItineraryDay{{Events: []models.Event{{Title: "Walk"}}}},
	})
	require.NoError(t, err)

	h := NewHandler(store)
	req := httptest.NewRequest(http.MethodGet, "/api/itineraries/"+created.ItineraryID+"/print", nil)
	rec := httptest.NewRecorder()
	h.PrintItinerary(rec, req, httprouter.Params{{Key: "id", Value: created.ItineraryID}})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
}

func TestPrintItineraryHandlerNotFound(t *testing.T) {
	h := NewHandler(itinerary.NewMemStore())

	req := httptest.NewRequest(http.MethodGet, "/api/itineraries/missing/print", nil)
	rec := httptest.NewRecorder()
	h.PrintItinerary(rec, req, httprouter.Params{{Key: "id", Value: "missingid12345"}})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
