// Package cache keeps each owner's ordered card list in Redis in front of a
// database.DataStore.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/thenoetrevino/cardsort/internal/database"
	"github.com/thenoetrevino/cardsort/internal/models"
)

// DefaultTTL bounds how stale a snapshot can get if an invalidation is lost
const DefaultTTL = 5 * time.Minute

// invalidateTimeout bounds a Del that outlives the caller's context
const invalidateTimeout = 2 * time.Second

// BoardCache decorates a DataStore. ListCards is served from Redis when
// possible; every write goes to the store and then drops the owner's
// snapshot. Redis failures degrade to uncached reads.
type BoardCache struct {
	database.DataStore
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var _ database.DataStore = (*BoardCache)(nil)

// Connect parses redisURL and verifies the server is reachable
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return client, nil
}

// New wraps store with a Redis-backed snapshot cache
func New(store database.DataStore, client *redis.Client, ttl time.Duration) *BoardCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &BoardCache{
		DataStore: store,
		client:    client,
		prefix:    "cardsort:board:",
		ttl:       ttl,
	}
}

func (c *BoardCache) key(ownerID string) string {
	return c.prefix + ownerID
}

// versionKey is bumped by every invalidation. A fill only lands if the
// version it read before loading from the store is still current.
func (c *BoardCache) versionKey(ownerID string) string {
	return c.prefix + ownerID + ":version"
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (c *BoardCache) version(ctx context.Context, g getter, ownerID string) (int64, error) {
	v, err := g.Get(ctx, c.versionKey(ownerID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

// ListCards returns the cached snapshot, loading it from the store on a miss
func (c *BoardCache) ListCards(ctx context.Context, ownerID string) ([]models.Card, error) {
	raw, err := c.client.Get(ctx, c.key(ownerID)).Bytes()
	switch {
	case err == nil:
		var cards []models.Card
		jsonErr := json.Unmarshal(raw, &cards)
		if jsonErr == nil {
			return cards, nil
		}
		slog.Warn("discarding corrupt board snapshot", "owner_id", ownerID, "error", jsonErr)
	case !errors.Is(err, redis.Nil):
		slog.Warn("board cache read failed", "owner_id", ownerID, "error", err)
	}

	seen, versionErr := c.version(ctx, c.client, ownerID)

	cards, err := c.DataStore.ListCards(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if versionErr != nil {
		slog.Warn("board cache read failed", "owner_id", ownerID, "error", versionErr)
		return cards, nil
	}

	data, err := json.Marshal(cards)
	if err != nil {
		return nil, fmt.Errorf("marshal board snapshot: %w", err)
	}
	if err := c.fill(ctx, ownerID, seen, data); err != nil {
		slog.Warn("board cache write failed", "owner_id", ownerID, "error", err)
	}
	return cards, nil
}

// fill stores data unless an invalidation happened since seen was read
func (c *BoardCache) fill(ctx context.Context, ownerID string, seen int64, data []byte) error {
	err := c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := c.version(ctx, tx, ownerID)
		if err != nil {
			return err
		}
		if current != seen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, c.key(ownerID), data, c.ttl)
			return nil
		})
		return err
	}, c.versionKey(ownerID))
	if errors.Is(err, redis.TxFailedErr) {
		// raced with an invalidation
		return nil
	}
	return err
}

// Invalidate drops the owner's snapshot and bumps its version. It still runs
// when ctx is already done.
func (c *BoardCache) Invalidate(ctx context.Context, ownerID string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), invalidateTimeout)
	defer cancel()

	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, c.versionKey(ownerID))
		pipe.Del(ctx, c.key(ownerID))
		return nil
	})
	if err != nil {
		slog.Warn("board cache invalidation failed", "owner_id", ownerID, "error", err)
	}
}

// CreateCard creates through the store and invalidates
func (c *BoardCache) CreateCard(ctx context.Context, card models.Card) (models.Card, error) {
	created, err := c.DataStore.CreateCard(ctx, card)
	c.Invalidate(ctx, card.OwnerID)
	return created, err
}

// UpdateCard updates through the store and invalidates
func (c *BoardCache) UpdateCard(ctx context.Context, ownerID, id string, patch models.CardPatch) (models.Card, error) {
	updated, err := c.DataStore.UpdateCard(ctx, ownerID, id, patch)
	c.Invalidate(ctx, ownerID)
	return updated, err
}

// DeleteCard deletes through the store and invalidates
func (c *BoardCache) DeleteCard(ctx context.Context, ownerID, id string) error {
	err := c.DataStore.DeleteCard(ctx, ownerID, id)
	c.Invalidate(ctx, ownerID)
	return err
}

// ApplyReorder reorders through the store and invalidates. Failed batches
// invalidate too, so the loser's resync reads the winner's state.
func (c *BoardCache) ApplyReorder(ctx context.Context, ownerID string, items []models.ReorderItem) error {
	err := c.DataStore.ApplyReorder(ctx, ownerID, items)
	c.Invalidate(ctx, ownerID)
	return err
}

// Close closes the Redis connection
func (c *BoardCache) Close() error {
	return c.client.Close()
}
