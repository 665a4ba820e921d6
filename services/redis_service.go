// File: /services/redis_service.go
package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// EventsChannel carries collection-change notifications between API
// instances. Every instance publishes after an append and re-snapshots on
// receipt, its own messages included.
const EventsChannel = "events.changed"

type RedisService struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisService(addr string, db int) (*RedisService, error) {
	ctx := context.Background()

	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisService{
		client: client,
		ctx:    ctx,
	}, nil
}

// EventsChanged publishes a change notification. Implements ChangeNotifier,
// so the creation path can be pointed at Redis instead of a local hub.
func (r *RedisService) EventsChanged() {
	payload := time.Now().UTC().Format(time.RFC3339Nano)
	if err := r.client.Publish(r.ctx, EventsChannel, payload).Err(); err != nil {
		log.Printf("Failed to publish events change: %v", err)
	}
}

// Listen blocks forever, invoking handler for every message on the events
// channel. Run it in its own goroutine.
func (r *RedisService) Listen(handler func(payload string)) {
	pubsub := r.client.Subscribe(r.ctx, EventsChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		handler(msg.Payload)
	}
}

func (r *RedisService) Close() error {
	return r.client.Close()
}
