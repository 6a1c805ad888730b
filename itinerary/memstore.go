package itinerary

import (
	"context"
	"sort"
	"sync"
	"time"

	"tripdesk/models"
	"tripdesk/utils"
)

// MemStore is the in-process itinerary store. Same contract as MongoStore;
// used by tests and when no document store is configured.
type MemStore struct {
	mu    sync.RWMutex
	items map[string]models.Itinerary
}

func NewMemStore() *MemStore {
	return &MemStore{items: make(map[string]models.Itinerary)}
}

func (s *MemStore) Get(ctx context.Context, id string) (models.Itinerary, error) {
	if !validID(id) {
		return models.Itinerary{}, ErrInvalidID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	it, ok := s.items[id]
	if !ok {
		return models.Itinerary{}, ErrNotFound
	}
	return clone(it), nil
}

func (s *MemStore) List(ctx context.Context) ([]models.Itinerary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	its := make([]models.Itinerary, 0, len(s.items))
	for _, it := range s.items {
		its = append(its, clone(it))
	}
	sort.Slice(its, func(i, j int) bool {
		return its[i].CreatedAt.After(its[j].CreatedAt)
	})
	return its, nil
}

func (s *MemStore) Create(ctx context.Context, it models.Itinerary) (models.Itinerary, error) {
	now := time.Now().UTC()
	it.ItineraryID = utils.GenerateRandomString(14)
	it.CreatedAt = now
	it.UpdatedAt = now
	normalize(&it)

	s.mu.Lock()
	s.items[it.ItineraryID] = clone(it)
	s.mu.Unlock()

	return it, nil
}

func (s *MemStore) Update(ctx context.Context, id string, patch map[string]any) (models.Itinerary, error) {
	if !validID(id) {
		return models.Itinerary{}, ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.items[id]
	if !ok {
		return models.Itinerary{}, ErrNotFound
	}

	applyPatch(&it, patch)
	it.UpdatedAt = time.Now().UTC()
	normalize(&it)
	s.items[id] = clone(it)

	return it, nil
}

func (s *MemStore) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return ErrNotFound
	}
	delete(s.items, id)
	return nil
}

// clone deep-copies an itinerary so callers never share day or event slices
// with the store.
func clone(it models.Itinerary) models.Itinerary {
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
