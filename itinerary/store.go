package itinerary

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"tripdesk/models"
	"tripdesk/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound  = errors.New("itinerary not found")
	ErrInvalidID = errors.New("invalid itinerary id")
)

// Store is the itinerary record store. Two implementations exist: MongoStore
// for the real document store and MemStore for tests and storeless runs.
type Store interface {
	Get(ctx context.Context, id string) (models.Itinerary, error)
	List(ctx context.Context) ([]models.Itinerary, error)
	Create(ctx context.Context, it models.Itinerary) (models.Itinerary, error)
	Update(ctx context.Context, id string, patch map[string]any) (models.Itinerary, error)
	Delete(ctx context.Context, id string) error
}

// patchable lists the top-level fields a partial update may touch. Anything
// else in the request body is dropped.
var patchable = map[string]bool{
	"title":        true,
	"description":  true,
	"country":      true,
	"days_count":   true,
	"nights_count": true,
	"highlights":   true,
	"days":         true,
	"sections":     true,
	"extra":        true,
}

func validID(id string) bool {
	if id == "" || len(id) > 64 {
		return false
	}
	for _, c := range id {
		if c < 0x21 || c > 0x7e {
			return false
		}
	}
	return true
}

func normalize(it *models.Itinerary) {
	if it.Days == nil {
		it.Days = []models.ItineraryDay{}
	}
	for i := range it.Days {
		if it.Days[i].Events == nil {
			it.Days[i].Events = []models.Event{}
		}
	}
}

// --- Mongo implementation ---

type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

func (s *MongoStore) Get(ctx context.Context, id string) (models.Itinerary, error) {
	if !validID(id) {
		return models.Itinerary{}, ErrInvalidID
	}

	var it models.Itinerary
	err := s.coll.FindOne(ctx, bson.M{"itineraryid": id}).Decode(&it)
	if err == mongo.ErrNoDocuments {
		return models.Itinerary{}, ErrNotFound
	}
	if err != nil {
		return models.Itinerary{}, err
	}
	normalize(&it)
	return it, nil
}

func (s *MongoStore) List(ctx context.Context) ([]models.Itinerary, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	its, err := utils.FindAndDecode[models.Itinerary](ctx, s.coll, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	if its == nil {
		its = []models.Itinerary{}
	}
	for i := range its {
		normalize(&its[i])
	}
	return its, nil
}

func (s *MongoStore) Create(ctx context.Context, it models.Itinerary) (models.Itinerary, error) {
	now := time.Now().UTC()
	it.ItineraryID = utils.GenerateRandomString(14)
	it.CreatedAt = now
	it.UpdatedAt = now
	normalize(&it)

	if _, err := s.coll.InsertOne(ctx, it); err != nil {
		return models.Itinerary{}, err
	}
	return it, nil
}

func (s *MongoStore) Update(ctx context.Context, id string, patch map[string]any) (models.Itinerary, error) {
	if !validID(id) {
		return models.Itinerary{}, ErrInvalidID
	}

	set := bson.M{}
	for k, v := range patch {
		if patchable[k] {
			set[k] = v
		}
	}
	set["updated_at"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Itinerary
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"itineraryid": id}, bson.M{"$set": set}, opts).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return models.Itinerary{}, ErrNotFound
	}
	if err != nil {
		return models.Itinerary{}, err
	}
	normalize(&updated)
	return updated, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrInvalidID
	}

	err := s.coll.FindOneAndDelete(ctx, bson.M{"itineraryid": id}).Err()
	if err == mongo.ErrNoDocuments {
		return ErrNotFound
	}
	return err
}

// applyPatch merges whitelisted fields from a decoded JSON body onto an
// itinerary. Shared by MemStore and the builder; the Mongo path lets $set do
// the merge instead.
func applyPatch(it *models.Itinerary, patch map[string]any) {
	for k, v := range patch {
		if !patchable[k] {
			continue
		}
		switch k {
		case "title":
			if s, ok := v.(string); ok {
				it.Title = s
			}
		case "description":
			if s, ok := v.(string); ok {
				it.Description = s
			}
		case "country":
			if s, ok := v.(string); ok {
				it.Country = s
			}
		case "days_count":
			if n, ok := asInt(v); ok {
				it.DayCount = n
			}
		case "nights_count":
			if n, ok := asInt(v); ok {
				it.NightCount = n
			}
		case "highlights":
			reencode(v, &it.Highlights)
		case "days":
			reencode(v, &it.Days)
		case "sections":
			reencode(v, &it.Sections)
		case "extra":
			reencode(v, &it.Extra)
		}
	}
}

// asInt accepts the int from builder saves and the float64 that JSON bodies
// decode numbers into.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		return int(n), true
	}
	return 0, false
}

// reencode converts a generic decoded JSON value into a typed field via a
// marshal round-trip. Values that do not fit are dropped.
func reencode(v any, target any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = json.Unmarshal(data, target)
}
