package credential

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is an exported constant or variable used by the client SDK.
var ErrCacheMiss = errors.New("no cached credential")

// ErrCacheUnavailable is an exported constant or variable used by the client SDK.
var ErrCacheUnavailable = errors.New("credential cache unavailable")

// ErrCacheCorrupt is an exported constant or variable used by the client SDK.
var ErrCacheCorrupt = errors.New("cached credential corrupt")

type cachedPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	SavedAt int64  `json:"saved_at"`
}

// Cache defines a public type used by goAuthClient APIs.
//
// Cache instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
//
// A Cache persists the credential pair across process restarts for
// daemon-style deployments. The cached value is a convenience copy only: the
// store remains the source of truth, and a cached access credential that no
// longer decodes is discarded at startup.
type Cache struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
	now    func() time.Time
}

// NewCache describes the newcache operation and its observable behavior.
//
// NewCache may return an error when input validation fails.
// NewCache does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewCache(client redis.UniversalClient, prefix, profile string, ttl time.Duration) (*Cache, error) {
	if client == nil {
		return nil, errors.New("cache requires a redis client")
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return nil, errors.New("cache prefix empty")
	}
	profile = strings.TrimSpace(profile)
	if profile == "" {
		return nil, errors.New("cache profile empty")
	}
	if ttl < 0 {
		return nil, errors.New("invalid cache ttl")
	}
	return &Cache{
		client: client,
		key:    prefix + ":" + profile,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Save describes the save operation and its observable behavior.
//
// Save persists the pair under the profile key. Incomplete pairs are rejected
// so the cache can never hand back one credential without the other.
// Save may return an error when input validation or the Redis call fails.
func (c *Cache) Save(ctx context.Context, pair Pair) error {
	if !pair.Complete() {
		return ErrIncompletePair
	}
	blob, err := json.Marshal(cachedPair{
		Access:  pair.Access,
		Refresh: pair.Refresh,
		SavedAt: c.now().Unix(),
	})
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, c.key, blob, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return nil
}

// Load describes the load operation and its observable behavior.
//
// Load returns the persisted pair, [ErrCacheMiss] when no entry exists, and
// [ErrCacheCorrupt] when the entry cannot be interpreted as a complete pair.
func (c *Cache) Load(ctx context.Context) (Pair, error) {
	blob, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Pair{}, ErrCacheMiss
		}
		return Pair{}, fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}

	var cached cachedPair
	if err := json.Unmarshal(blob, &cached); err != nil {
		return Pair{}, ErrCacheCorrupt
	}
	pair := Pair{Access: cached.Access, Refresh: cached.Refresh}
	if !pair.Complete() {
		return Pair{}, ErrCacheCorrupt
	}
	return pair, nil
}

// Delete describes the delete operation and its observable behavior.
//
// Delete removes the persisted pair. Deleting a missing entry is not an
// error.
func (c *Cache) Delete(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return nil
}
