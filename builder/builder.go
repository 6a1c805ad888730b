// Package builder holds the mutable working copy of an itinerary while an
// agent composes or edits it. All edits are local; nothing touches the record
// store until Save.
package builder

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"tripdesk/itinerary"
	"tripdesk/models"
)

var (
	ErrDayOutOfRange   = errors.New("day index out of range")
	ErrEventOutOfRange = errors.New("event index out of range")
	ErrUnknownField    = errors.New("unknown numeric field")
)

// Builder owns a single working copy. Single-owner, single-goroutine; two
// sessions editing the same itinerary race at the store (last write wins).
type Builder struct {
	store    itinerary.Store
	work     models.Itinerary
	baseline models.Itinerary
}

// New starts from an empty itinerary with zero days.
func New(store itinerary.Store) *Builder {
	empty := models.Itinerary{Days: []models.ItineraryDay{}}
	return &Builder{store: store, work: empty, baseline: copyItinerary(empty)}
}

// Load fetches a record and seeds the working copy from it.
func Load(ctx context.Context, store itinerary.Store, id string) (*Builder, error) {
	it, err := store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Builder{store: store, work: it, baseline: copyItinerary(it)}, nil
}

// copyItinerary deep-copies the working copy so the discard baseline never
// aliases slices or maps still being edited.
func copyItinerary(it models.Itinerary) models.Itinerary {
	out := it
	out.Highlights = append([]string(nil), it.Highlights...)
	out.Days = make([]models.ItineraryDay, len(it.Days))
	for i, d := range it.Days {
		day := models.ItineraryDay{Events: append([]models.Event(nil), d.Events...)}
		if d.Meals != nil {
			meals := *d.Meals
			day.Meals = &meals
		}
		out.Days[i] = day
	}
	if it.Sections != nil {
		out.Sections = make(map[string]string, len(it.Sections))
		for k, v := range it.Sections {
			out.Sections[k] = v
		}
	}
	if it.Extra != nil {
		out.Extra = make(map[string]any, len(it.Extra))
		for k, v := range it.Extra {
			out.Extra[k] = v
		}
	}
	return out
}

// Snapshot returns the current working copy.
func (b *Builder) Snapshot() models.Itinerary {
	return b.work
}

// --- Top-level field edits ---

func (b *Builder) SetTitle(title string)      { b.work.Title = title }
func (b *Builder) SetDescription(desc string) { b.work.Description = desc }
func (b *Builder) SetCountry(country string)  { b.work.Country = country }
func (b *Builder) SetHighlights(hs []string)  { b.work.Highlights = hs }

func (b *Builder) SetCounts(days, nights int) {
	b.work.DayCount = days
	b.work.NightCount = nights
}

func (b *Builder) SetSection(key, content string) {
	if b.work.Sections == nil {
		b.work.Sections = map[string]string{}
	}
	b.work.Sections[key] = content
}

// --- Day edits ---

// InsertDay inserts an empty day at position at; at == len(Days) appends.
func (b *Builder) InsertDay(at int) error {
	if at < 0 || at > len(b.work.Days) {
		return ErrDayOutOfRange
	}
	day := models.ItineraryDay{Events: []models.Event{}}
	b.work.Days = append(b.work.Days, models.ItineraryDay{})
	copy(b.work.Days[at+1:], b.work.Days[at:])
	b.work.Days[at] = day
	return nil
}

func (b *Builder) RemoveDay(i int) error {
	if i < 0 || i >= len(b.work.Days) {
		return ErrDayOutOfRange
	}
	b.work.Days = append(b.work.Days[:i], b.work.Days[i+1:]...)
	return nil
}

func (b *Builder) MoveDay(from, to int) error {
	if from < 0 || from >= len(b.work.Days) || to < 0 || to >= len(b.work.Days) {
		return ErrDayOutOfRange
	}
	day := b.work.Days[from]
	b.work.Days = append(b.work.Days[:from], b.work.Days[from+1:]...)
	b.work.Days = append(b.work.Days, models.ItineraryDay{})
	copy(b.work.Days[to+1:], b.work.Days[to:])
	b.work.Days[to] = day
	return nil
}

// --- Event edits ---

func (b *Builder) InsertEvent(day, at int, ev models.Event) error {
	if day < 0 || day >= len(b.work.Days) {
		return ErrDayOutOfRange
	}
	events := b.work.Days[day].Events
	if at < 0 || at > len(events) {
		return ErrEventOutOfRange
	}
	events = append(events, models.Event{})
	copy(events[at+1:], events[at:])
	events[at] = ev
	b.work.Days[day].Events = events
	return nil
}

func (b *Builder) RemoveEvent(day, i int) error {
	if day < 0 || day >= len(b.work.Days) {
		return ErrDayOutOfRange
	}
	events := b.work.Days[day].Events
	if i < 0 || i >= len(events) {
		return ErrEventOutOfRange
	}
	b.work.Days[day].Events = append(events[:i], events[i+1:]...)
	return nil
}

func (b *Builder) MoveEvent(day, from, to int) error {
	if day < 0 || day >= len(b.work.Days) {
		return ErrDayOutOfRange
	}
	events := b.work.Days[day].Events
	if from < 0 || from >= len(events) || to < 0 || to >= len(events) {
		return ErrEventOutOfRange
	}
	ev := events[from]
	events = append(events[:from], events[from+1:]...)
	events = append(events, models.Event{})
	copy(events[to+1:], events[to:])
	events[to] = ev
	b.work.Days[day].Events = events
	return nil
}

func (b *Builder) UpdateEvent(day, i int, ev models.Event) error {
	if day < 0 || day >= len(b.work.Days) {
		return ErrDayOutOfRange
	}
	if i < 0 || i >= len(b.work.Days[day].Events) {
		return ErrEventOutOfRange
	}
	b.work.Days[day].Events[i] = ev
	return nil
}

// SetEventNumeric parses text into the named numeric field of an event.
// Non-numeric input leaves the prior value untouched and reports no error;
// the edit is simply dropped.
func (b *Builder) SetEventNumeric(day, i int, field, text string) error {
	if day < 0 || day >= len(b.work.Days) {
		return ErrDayOutOfRange
	}
	if i < 0 || i >= len(b.work.Days[day].Events) {
		return ErrEventOutOfRange
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return nil
	}

	ev := &b.work.Days[day].Events[i]
	switch field {
	case "duration":
		ev.Duration = value
	case "price":
		ev.Price = value
	case "rating":
		ev.Rating = value
	default:
		return ErrUnknownField
	}
	return nil
}

// --- Meal flags ---

func (b *Builder) SetMeals(day int, meals *models.Meals) error {
	if day < 0 || day >= len(b.work.Days) {
		return ErrDayOutOfRange
	}
	b.work.Days[day].Meals = meals
	return nil
}

// ToggleMeal flips one meal flag, creating the meals record on first use.
func (b *Builder) ToggleMeal(day int, meal string) error {
	if day < 0 || day >= len(b.work.Days) {
		return ErrDayOutOfRange
	}
	if b.work.Days[day].Meals == nil {
		b.work.Days[day].Meals = &models.Meals{}
	}
	m := b.work.Days[day].Meals
	switch meal {
	case "breakfast":
		m.Breakfast = !m.Breakfast
	case "lunch":
		m.Lunch = !m.Lunch
	case "dinner":
		m.Dinner = !m.Dinner
	}
	return nil
}

// --- Persistence ---

// Save writes the working copy through the record store: create when no
// identifier is assigned yet, otherwise a full-field update. On success the
// stored record (with server-assigned id and timestamps) replaces the
// working copy.
func (b *Builder) Save(ctx context.Context) (models.Itinerary, error) {
	var (
		saved models.Itinerary
		err   error
	)
	if b.work.ItineraryID == "" {
		saved, err = b.store.Create(ctx, b.work)
	} else {
		saved, err = b.store.Update(ctx, b.work.ItineraryID, map[string]any{
			"title":        b.work.Title,
			"description":  b.work.Description,
			"country":      b.work.Country,
			"days_count":   b.work.DayCount,
			"nights_count": b.work.NightCount,
			"highlights":   b.work.Highlights,
			"days":         b.work.Days,
			"sections":     b.work.Sections,
			"extra":        b.work.Extra,
		})
	}
	if err != nil {
		return models.Itinerary{}, err
	}
	b.work = saved
	b.baseline = copyItinerary(saved)
	return saved, nil
}

// Discard abandons all unsaved edits, restoring the last loaded or saved
// snapshot.
func (b *Builder) Discard() {
	b.work = copyItinerary(b.baseline)
}
