package models

import "time"

// Itinerary is the persisted travel itinerary document.
type Itinerary struct {
	ItineraryID string   `json:"itineraryid" bson:"itineraryid,omitempty"`
	Title       string   `json:"title" bson:"title"`
	Description string   `json:"description,omitempty" bson:"description,omitempty"`
	Country     string   `json:"country,omitempty" bson:"country,omitempty"`
	DayCount    int      `json:"days_count" bson:"days_count"`
	NightCount  int      `json:"nights_count" bson:"nights_count"`
	Highlights  []string `json:"highlights,omitempty" bson:"highlights,omitempty"`
	// the day-by-day schedule; index 0 = day 1
	Days []ItineraryDay `json:"days" bson:"days"`
	// free-form sections keyed by "terms", "visas", "inclusions",
	// "exclusions", "notes"; unknown keys round-trip untouched
	Sections  map[string]string `json:"sections,omitempty" bson:"sections,omitempty"`
	Extra     map[string]any    `json:"extra,omitempty" bson:"extra,omitempty"`
	CreatedAt time.Time         `json:"created_at,omitempty" bson:"created_at,omitempty"`
	UpdatedAt time.Time         `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

// ItineraryDay has no identity outside its parent itinerary.
type ItineraryDay struct {
	Events []Event `json:"events" bson:"events"`
	Meals  *Meals  `json:"meals,omitempty" bson:"meals,omitempty"`
}

type Meals struct {
	Breakfast bool `json:"breakfast" bson:"breakfast"`
	Lunch     bool `json:"lunch" bson:"lunch"`
	Dinner    bool `json:"dinner" bson:"dinner"`
}

// Event is a scheduled entry within a day.
type Event struct {
	Title       string  `json:"title" bson:"title"`
	Description string  `json:"description,omitempty" bson:"description,omitempty"`
	Time        string  `json:"time,omitempty" bson:"time,omitempty"`
	Location    string  `json:"location,omitempty" bson:"location,omitempty"`
	Duration    float64 `json:"duration,omitempty" bson:"duration,omitempty"`
	Price       float64 `json:"price,omitempty" bson:"price,omitempty"`
	Rating      float64 `json:"rating,omitempty" bson:"rating,omitempty"`
}
