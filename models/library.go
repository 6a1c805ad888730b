package models

import "time"

// Library item categories. The store accepts values outside this list so new
// categories can ship without a schema change.
const (
	CategoryActivity       = "Activity"
	CategoryLodging        = "Lodging"
	CategoryFlight         = "Flight"
	CategoryTransportation = "Transportation"
	CategoryCruise         = "Cruise"
	CategoryInfo           = "Info"
)

// KnownCategories is the fixed presentation order for stats responses.
var KnownCategories = []string{
	CategoryActivity,
	CategoryLodging,
	CategoryFlight,
	CategoryTransportation,
	CategoryCruise,
	CategoryInfo,
}

// LibraryItem is a reusable bookable offering in the agency catalog.
type LibraryItem struct {
	ItemID         string         `json:"itemid" bson:"itemid,omitempty"`
	Title          string         `json:"title" bson:"title"`
	Category       string         `json:"category" bson:"category"`
	SubCategory    string         `json:"subcategory,omitempty" bson:"subcategory,omitempty"`
	Description    string         `json:"description,omitempty" bson:"description,omitempty"`
	City           string         `json:"city,omitempty" bson:"city,omitempty"`
	Country        string         `json:"country,omitempty" bson:"country,omitempty"`
	Labels         []string       `json:"labels,omitempty" bson:"labels,omitempty"`
	Notes          string         `json:"notes,omitempty" bson:"notes,omitempty"`
	Price          float64        `json:"price,omitempty" bson:"price,omitempty"`
	Currency       string         `json:"currency,omitempty" bson:"currency,omitempty"`
	AvailableFrom  time.Time      `json:"available_from,omitempty" bson:"available_from,omitempty"`
	AvailableUntil time.Time      `json:"available_until,omitempty" bson:"available_until,omitempty"`
	StartDate      string         `json:"start_date,omitempty" bson:"start_date,omitempty"`
	EndDate        string         `json:"end_date,omitempty" bson:"end_date,omitempty"`
	Media          []string       `json:"media,omitempty" bson:"media,omitempty"`
	Extra          map[string]any `json:"extra,omitempty" bson:"extra,omitempty"`
	CreatedAt      time.Time      `json:"created_at,omitempty" bson:"created_at,omitempty"`
	UpdatedAt      time.Time      `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

// LibraryStats maps category name to item count. Categories with zero items
// are absent; presentation layers fill zeros from KnownCategories.
type LibraryStats map[string]int

// Index is the change-event payload published after entity writes.
type Index struct {
	EntityType string `json:"entity_type"`
	Method     string `json:"method"`
	EntityId   string `json:"entity_id"`
	Title      string `json:"title,omitempty"`
}
