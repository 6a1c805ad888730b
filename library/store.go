package library

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"tripdesk/models"
	"tripdesk/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound      = errors.New("library item not found")
	ErrInvalidID     = errors.New("invalid library item id")
	ErrMissingFields = errors.New("title and category are required")
)

// Store is the catalog item store. Backed by MongoDB in production and by an
// in-process map when LIBRARY_BACKEND=memory; callers never see which.
type Store interface {
	Get(ctx context.Context, id string) (models.LibraryItem, error)
	List(ctx context.Context, opts utils.ListOptions) ([]models.LibraryItem, error)
	Create(ctx context.Context, item models.LibraryItem) (models.LibraryItem, error)
	Update(ctx context.Context, id string, patch map[string]any) (models.LibraryItem, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (models.LibraryStats, error)
	AddMedia(ctx context.Context, id, url string) (models.LibraryItem, error)
}

var patchable = map[string]bool{
	"title":           true,
	"category":        true,
	"subcategory":     true,
	"description":     true,
	"city":            true,
	"country":         true,
	"labels":          true,
	"notes":           true,
	"price":           true,
	"currency":        true,
	"available_from":  true,
	"available_until": true,
	"start_date":      true,
	"end_date":        true,
	"media":           true,
	"extra":           true,
}

var sortable = map[string]bool{
	"title":      true,
	"price":      true,
	"category":   true,
	"created_at": true,
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

// prepare trims text fields, applies defaults, and checks the two required
// fields. Empty optional strings stay empty and are omitted by the bson
// omitempty tags, so sparse documents carry no placeholder values.
func prepare(item *models.LibraryItem) error {
	item.Title = strings.TrimSpace(item.Title)
	item.Category = strings.TrimSpace(item.Category)
	item.Description = strings.TrimSpace(item.Description)
	if item.Title == "" || item.Category == "" {
		return ErrMissingFields
	}
	if item.Currency == "" {
		item.Currency = "USD"
	}
	return nil
}

// sanitizePatch whitelists patch keys and coerces date strings so a patched
// document still decodes into the typed model.
func sanitizePatch(patch map[string]any) map[string]any {
	out := make(map[string]any, len(patch))
	for k, v := range patch {
		if !patchable[k] {
			continue
		}
		switch k {
		case "available_from", "available_until":
			s, ok := v.(string)
			if !ok {
				continue
			}
			t, err := time.Parse(time.RFC3339, s)
			if err != nil {
				continue
			}
			out[k] = t
		default:
			out[k] = v
		}
	}
	return out
}

// --- Mongo implementation ---

type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

func (s *MongoStore) Get(ctx context.Context, id string) (models.LibraryItem, error) {
	if !validID(id) {
		return models.LibraryItem{}, ErrInvalidID
	}

	var item models.LibraryItem
	err := s.coll.FindOne(ctx, bson.M{"itemid": id}).Decode(&item)
	if err == mongo.ErrNoDocuments {
		return models.LibraryItem{}, ErrNotFound
	}
	if err != nil {
		return models.LibraryItem{}, err
	}
	return item, nil
}

func (s *MongoStore) List(ctx context.Context, opts utils.ListOptions) ([]models.LibraryItem, error) {
	filter := bson.M{}
	if opts.Category != "" {
		filter["category"] = opts.Category
	}
	if opts.Search != "" {
		pattern := regexp.QuoteMeta(opts.Search)
		filter["$or"] = []bson.M{
			{"title": bson.M{"$regex": pattern, "$options": "i"}},
			{"description": bson.M{"$regex": pattern, "$options": "i"}},
		}
	}

	findOpts := options.Find()
	if sortable[opts.SortBy] {
		findOpts.SetSort(bson.D{{Key: opts.SortBy, Value: 1}})
	}

	items, err := utils.FindAndDecode[models.LibraryItem](ctx, s.coll, filter, findOpts)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.LibraryItem{}
	}
	return items, nil
}

func (s *MongoStore) Create(ctx context.Context, item models.LibraryItem) (models.LibraryItem, error) {
	if err := prepare(&item); err != nil {
		return models.LibraryItem{}, err
	}

	now := time.Now().UTC()
	item.ItemID = utils.GenerateRandomString(14)
	item.CreatedAt = now
	item.UpdatedAt = now

	if _, err := s.coll.InsertOne(ctx, item); err != nil {
		return models.LibraryItem{}, err
	}
	return item, nil
}

func (s *MongoStore) Update(ctx context.Context, id string, patch map[string]any) (models.LibraryItem, error) {
	if !validID(id) {
		return models.LibraryItem{}, ErrInvalidID
	}

	set := sanitizePatch(patch)
	set["updated_at"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.LibraryItem
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"itemid": id}, bson.M{"$set": set}, opts).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return models.LibraryItem{}, ErrNotFound
	}
	if err != nil {
		return models.LibraryItem{}, err
	}
	return updated, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrInvalidID
	}

	err := s.coll.FindOneAndDelete(ctx, bson.M{"itemid": id}).Err()
	if err == mongo.ErrNoDocuments {
		return ErrNotFound
	}
	return err
}

func (s *MongoStore) Stats(ctx context.Context) (models.LibraryStats, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$category"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Category string `bson:"_id"`
		Count    int    `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	stats := models.LibraryStats{}
	for _, row := range rows {
		stats[row.Category] = row.Count
	}
	return stats, nil
}

func (s *MongoStore) AddMedia(ctx context.Context, id, url string) (models.LibraryItem, error) {
	if !validID(id) {
		return models.LibraryItem{}, ErrInvalidID
	}

	update := bson.M{
		"$push": bson.M{"media": url},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.LibraryItem
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"itemid": id}, update, opts).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return models.LibraryItem{}, ErrNotFound
	}
	if err != nil {
		return models.LibraryItem{}, err
	}
	return updated, nil
}
