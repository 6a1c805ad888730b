package library

import (
	"context"
	"sort"
	"sync"
	"time"

	"tripdesk/models"
	"tripdesk/utils"
)

// MemStore keeps catalog items in process memory, preserving insertion order.
// It is the LIBRARY_BACKEND=memory implementation and the test fixture.
type MemStore struct {
	mu    sync.RWMutex
	items map[string]models.LibraryItem
	order []string
}

func NewMemStore() *MemStore {
	return &MemStore{items: make(map[string]models.LibraryItem)}
}

func (s *MemStore) Get(ctx context.Context, id string) (models.LibraryItem, error) {
	if !validID(id) {
		return models.LibraryItem{}, ErrInvalidID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return models.LibraryItem{}, ErrNotFound
	}
	return cloneItem(item), nil
}

func (s *MemStore) List(ctx context.Context, opts utils.ListOptions) ([]models.LibraryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]models.LibraryItem, 0, len(s.order))
	for _, id := range s.order {
		item := s.items[id]
		if opts.Category != "" && item.Category != opts.Category {
			continue
		}
		if opts.Search != "" &&
			!utils.ContainsIgnoreCase(item.Title, opts.Search) &&
			!utils.ContainsIgnoreCase(item.Description, opts.Search) {
			continue
		}
		items = append(items, cloneItem(item))
	}

	switch opts.SortBy {
	case "title":
		sort.SliceStable(items, func(i, j int) bool { return items[i].Title < items[j].Title })
	case "price":
		sort.SliceStable(items, func(i, j int) bool { return items[i].Price < items[j].Price })
	case "category":
		sort.SliceStable(items, func(i, j int) bool { return items[i].Category < items[j].Category })
	case "created_at":
		sort.SliceStable(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	}

	return items, nil
}

func (s *MemStore) Create(ctx context.Context, item models.LibraryItem) (models.LibraryItem, error) {
	if err := prepare(&item); err != nil {
		return models.LibraryItem{}, err
	}

	now := time.Now().UTC()
	item.ItemID = utils.GenerateRandomString(14)
	item.CreatedAt = now
	item.UpdatedAt = now

	s.mu.Lock()
	s.items[item.ItemID] = cloneItem(item)
	s.order = append(s.order, item.ItemID)
	s.mu.Unlock()

	return item, nil
}

func (s *MemStore) Update(ctx context.Context, id string, patch map[string]any) (models.LibraryItem, error) {
	if !validID(id) {
		return models.LibraryItem{}, ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return models.LibraryItem{}, ErrNotFound
	}

	applyItemPatch(&item, sanitizePatch(patch))
	item.UpdatedAt = time.Now().UTC()
	s.items[id] = cloneItem(item)

	return item, nil
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
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemStore) Stats(ctx context.Context) (models.LibraryStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := models.LibraryStats{}
	for _, item := range s.items {
		stats[item.Category]++
	}
	return stats, nil
}

func (s *MemStore) AddMedia(ctx context.Context, id, url string) (models.LibraryItem, error) {
	if !validID(id) {
		return models.LibraryItem{}, ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return models.LibraryItem{}, ErrNotFound
	}
	item.Media = append(item.Media, url)
	item.UpdatedAt = time.Now().UTC()
	s.items[id] = cloneItem(item)

	return item, nil
}

func applyItemPatch(item *models.LibraryItem, patch map[string]any) {
	for k, v := range patch {
		switch k {
		case "title":
			if s, ok := v.(string); ok {
				item.Title = s
			}
		case "category":
			if s, ok := v.(string); ok {
				item.Category = s
			}
		case "subcategory":
			if s, ok := v.(string); ok {
				item.SubCategory = s
			}
		case "description":
			if s, ok := v.(string); ok {
				item.Description = s
			}
		case "city":
			if s, ok := v.(string); ok {
				item.City = s
			}
		case "country":
			if s, ok := v.(string); ok {
				item.Country = s
			}
		case "notes":
			if s, ok := v.(string); ok {
				item.Notes = s
			}
		case "currency":
			if s, ok := v.(string); ok {
				item.Currency = s
			}
		case "start_date":
			if s, ok := v.(string); ok {
				item.StartDate = s
			}
		case "end_date":
			if s, ok := v.(string); ok {
				item.EndDate = s
			}
		case "price":
			if n, ok := v.(float64); ok {
				item.Price = n
			}
		case "available_from":
			if t, ok := v.(time.Time); ok {
				item.AvailableFrom = t
			}
		case "available_until":
			if t, ok := v.(time.Time); ok {
				item.AvailableUntil = t
			}
		case "labels":
			reencodeStrings(v, &item.Labels)
		case "media":
			reencodeStrings(v, &item.Media)
		case "extra":
			if m, ok := v.(map[string]any); ok {
				item.Extra = m
			}
		}
	}
}

func reencodeStrings(v any, target *[]string) {
	raw, ok := v.([]any)
	if !ok {
		return
	}
	out := make([]string, 0, len(raw))
	for _, e := range raw {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	*target = out
}

func cloneItem(item models.LibraryItem) models.LibraryItem {
	out := item
	out.Labels = append([]string(nil), item.Labels...)
	out.Media = append([]string(nil), item.Media...)
	if item.Extra != nil {
		out.Extra = make(map[string]any, len(item.Extra))
		for k, v := range item.Extra {
			out.Extra[k] = v
		}
	}
	return out
}
