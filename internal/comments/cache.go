package comments

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pstuifzand/tui-annotator/internal/model"
)

// DraftTTL is how long unpersisted drafts survive in the cache
const DraftTTL = 7 * 24 * time.Hour

// Cache keeps unpersisted comment drafts between sessions
type Cache interface {
	LoadDrafts(ctx context.Context, key string) ([]*model.Comment, error)
	SaveDrafts(ctx context.Context, key string, drafts []*model.Comment) error
	ClearDrafts(ctx context.Context, key string) error
}

// RedisCache stores drafts as JSON values in redis
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache connects to the redis server at redisURL
func NewRedisCache(redisURL string) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewRedisCacheWithClient(client), nil
}

// NewRedisCacheWithClient creates a cache from an existing client
func NewRedisCacheWithClient(client *redis.Client) *RedisCache {
	return &RedisCache{
		client: client,
		prefix: "tua:drafts:",
	}
}

func (c *RedisCache) key(k string) string {
	return c.prefix + k
}

// LoadDrafts returns the drafts stored under key, nil when there are none
func (c *RedisCache) LoadDrafts(ctx context.Context, key string) ([]*model.Comment, error) {
	data, err := c.client.Get(ctx, c.key(key)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load drafts: %w", err)
	}

	var drafts []*model.Comment
	if err := json.Unmarshal([]byte(data), &drafts); err != nil {
		return nil, fmt.Errorf("unmarshal drafts: %w", err)
	}
	return drafts, nil
}

// SaveDrafts replaces the drafts stored under key
func (c *RedisCache) SaveDrafts(ctx context.Context, key string, drafts []*model.Comment) error {
	data, err := json.Marshal(drafts)
	if err != nil {
		return fmt.Errorf("marshal drafts: %w", err)
	}
	if err := c.client.Set(ctx, c.key(key), data, DraftTTL).Err(); err != nil {
		return fmt.Errorf("save drafts: %w", err)
	}
	return nil
}

// ClearDrafts removes the drafts stored under key
func (c *RedisCache) ClearDrafts(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.key(key)).Err(); err != nil {
		return fmt.Errorf("clear drafts: %w", err)
	}
	return nil
}

// Close closes the redis connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// MemoryCache keeps drafts for the lifetime of the process
type MemoryCache struct {
	mu     sync.Mutex
	drafts map[string][]byte
}

// NewMemoryCache creates an empty in-process cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{drafts: make(map[string][]byte)}
}

// LoadDrafts returns copies of the drafts stored under key
func (c *MemoryCache) LoadDrafts(ctx context.Context, key string) ([]*model.Comment, error) {
	c.mu.Lock()
	data, ok := c.drafts[key]
	c.mu.Unlock()
	if !ok {
		return nil, nil
	}
	var drafts []*model.Comment
	if err := json.Unmarshal(data, &drafts); err != nil {
		return nil, fmt.Errorf("unmarshal drafts: %w", err)
	}
	return drafts, nil
}

// SaveDrafts replaces the drafts stored under key
func (c *MemoryCache) SaveDrafts(ctx context.Context, key string, drafts []*model.Comment) error {
	data, err := json.Marshal(drafts)
	if err != nil {
		return fmt.Errorf("marshal drafts: %w", err)
	}
	c.mu.Lock()
	c.drafts[key] = data
	c.mu.Unlock()
	return nil
}

// ClearDrafts removes the drafts stored under key
func (c *MemoryCache) ClearDrafts(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.drafts, key)
	c.mu.Unlock()
	return nil
}
