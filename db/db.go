package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collections bundles the handles the service works with. Constructed once in
// main and handed to the stores; no package-level singletons.
type Collections struct {
	Itineraries *mongo.Collection
	Library     *mongo.Collection
}

// Connect establishes the MongoDB connection and verifies it with a ping.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	return client, nil
}

// NewCollections binds the named database's collections.
func NewCollections(client *mongo.Client, database string) *Collections {
	d := client.Database(database)
	return &Collections{
		Itineraries: d.Collection("itineraries"),
		Library:     d.Collection("library"),
	}
}
