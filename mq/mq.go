package mq

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"tripdesk/models"
	"tripdesk/rdx"

	"github.com/redis/go-redis/v9"
)

const (
	channel         = "catalog-events"
	autocompleteKey = "library:titles"
)

// Emitter publishes entity change events for the indexing worker. A nil
// *Emitter is a no-op, mirroring the cache.
type Emitter struct {
	cache *rdx.Cache
}

func NewEmitter(cache *rdx.Cache) *Emitter {
	if cache == nil {
		return nil
	}
	return &Emitter{cache: cache}
}

// Emit publishes an indexing event. Failures are logged, never surfaced; a
// write that persisted must not fail because indexing is down.
func (e *Emitter) Emit(ctx context.Context, eventName string, content models.Index) {
	if e == nil {
		return
	}
	data, err := json.Marshal(content)
	if err != nil {
		log.Printf("[Emit] failed to marshal %s event: %v", eventName, err)
		return
	}
	if err := e.cache.Conn.Publish(ctx, channel, data).Err(); err != nil {
		log.Printf("[Emit] failed to publish %s event: %v", eventName, err)
	}
}

// StartIndexingWorker consumes change events and maintains the library title
// autocomplete index. Runs until ctx is cancelled.
func StartIndexingWorker(ctx context.Context, cache *rdx.Cache) {
	if cache == nil {
		return
	}
	sub := cache.Conn.Subscribe(ctx, channel)
	defer sub.Close()

	log.Println("[IndexingWorker] listening for catalog events")

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-sub.Channel():
			if !ok {
				return
			}
			var event models.Index
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Printf("[IndexingWorker] failed to parse event: %v", err)
				continue
			}
			indexEvent(ctx, cache, event)
		}
	}
}

func indexEvent(ctx context.Context, cache *rdx.Cache, event models.Index) {
	if event.EntityType != "library" || event.Title == "" {
		return
	}
	member := strings.ToLower(event.Title)

	var err error
	switch event.Method {
	case "DELETE":
		err = cache.Conn.ZRem(ctx, autocompleteKey, member).Err()
	default:
		err = cache.Conn.ZAdd(ctx, autocompleteKey, redis.Z{Score: 0, Member: member}).Err()
	}
	if err != nil {
		log.Printf("[IndexingWorker] index update for %q: %v", event.Title, err)
	}
}

// Suggest returns up to limit indexed titles starting with prefix.
func Suggest(ctx context.Context, cache *rdx.Cache, prefix string, limit int) ([]string, error) {
	if cache == nil {
		return []string{}, nil
	}
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return []string{}, nil
	}
	titles, err := cache.Conn.ZRangeByLex(ctx, autocompleteKey, &redis.ZRangeBy{
		Min:   "[" + prefix,
		Max:   "[" + prefix + "\xff",
		Count: int64(limit),
	}).Result()
	if err != nil {
		return nil, err
	}
	if titles == nil {
		titles = []string{}
	}
	return titles, nil
}
