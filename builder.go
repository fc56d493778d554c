package goAuthClient

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/goAuthClient/claims"
	"github.com/MrEthical07/goAuthClient/credential"
	"github.com/MrEthical07/goAuthClient/internal/flows"
)

// Builder defines a public type used by goAuthClient APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config

	httpClient *http.Client
	redis      redis.UniversalClient
	eventSink  EventSink
	warn       func(string, ...any)

	built bool
}

// New describes the new operation and its observable behavior.
//
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithBaseURL describes the withbaseurl operation and its observable behavior.
//
// WithBaseURL does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithBaseURL(baseURL string) *Builder {
	b.config.API.BaseURL = baseURL
	return b
}

// WithHTTPClient describes the withhttpclient operation and its observable behavior.
//
// WithHTTPClient does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithHTTPClient(client *http.Client) *Builder {
	b.httpClient = client
	return b
}

// WithRedis describes the withredis operation and its observable behavior.
//
// WithRedis enables the credential cache: the pair is persisted across
// process restarts and restored during Build.
// WithRedis does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithEventSink describes the witheventsink operation and its observable behavior.
//
// WithEventSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithEventSink(sink EventSink) *Builder {
	b.eventSink = sink
	return b
}

// WithWarnFunc describes the withwarnfunc operation and its observable behavior.
//
// WithWarnFunc does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithWarnFunc(warn func(string, ...any)) *Builder {
	b.warn = warn
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation or dependency wiring fails.
// Build performs at most one Redis round-trip, to restore a persisted
// credential pair; everything before it is allocation-only.
func (b *Builder) Build() (*Client, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	if err := validateConfig(b.config); err != nil {
		return nil, err
	}

	decoder, err := claims.NewDecoder(claims.Config{
		Leeway:      b.config.Claims.Leeway,
		DefaultRole: b.config.Claims.DefaultRole,
	})
	if err != nil {
		return nil, err
	}

	warn := b.warn
	if warn == nil {
		warn = log.Printf
	}

	c := &Client{
		config:  b.config,
		decoder: decoder,
		metrics: NewMetrics(b.config.Metrics),
		events:  newEventDispatcher(b.config.Events, b.eventSink),
		warn:    warn,
	}
	c.store = credential.NewStore(c.handleTransition)

	httpClient := b.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: b.config.API.Timeout}
	}
	c.gateway = &gateway{
		baseURL:   trimBaseURL(b.config.API.BaseURL),
		http:      httpClient,
		store:     c.store,
		userAgent: b.config.API.UserAgent,
		metrics:   c.metrics,
	}

	c.flows = flows.New(flows.Deps{
		Exchange: flows.ExchangeDeps{
			Decode: decoder.Decode,
			Store:  c.store.Set,
			Warn:   warn,
		},
		Refresh: flows.RefreshDeps{
			Send:   c.sendRefresh,
			Decode: decoder.Decode,
		},
	})

	c.renewals = &renewalCoordinator{
		store:   c.store,
		run:     c.flows.Refresh,
		metrics: c.metrics,
		events:  c.dispatchEvent,
		warn:    warn,
	}
	c.gateway.renew = c.renewals.Renew

	if b.redis != nil {
		cache, err := credential.NewCache(
			b.redis,
			b.config.Cache.RedisPrefix,
			b.config.Cache.Profile,
			b.config.Cache.TTL,
		)
		if err != nil {
			c.events.Close()
			return nil, err
		}
		c.cache = cache
		c.restoreFromCache()
	}

	b.built = true
	return c, nil
}

// restoreFromCache loads a persisted pair, decodes its access credential, and
// seeds the store. A pair that no longer decodes is discarded so the session
// starts Anonymous instead of carrying dead credentials.
func (c *Client) restoreFromCache() {
	ctx, cancel := context.WithTimeout(context.Background(), cacheOpTimeout)
	defer cancel()

	pair, err := c.cache.Load(ctx)
	switch {
	case errors.Is(err, credential.ErrCacheMiss):
		return
	case errors.Is(err, credential.ErrCacheCorrupt):
		c.metrics.Inc(MetricCacheDiscarded)
		c.warn("goAuthClient: discarding corrupt cached credential")
		if delErr := c.cache.Delete(ctx); delErr != nil {
			c.warn("goAuthClient: cached credential cleanup failed: %v", delErr)
		}
		return
	case err != nil:
		c.warn("goAuthClient: credential cache restore skipped: %v", err)
		return
	}

	identity, err := c.decoder.Decode(pair.Access)
	if err != nil {
		c.metrics.Inc(MetricCacheDiscarded)
		c.warn("goAuthClient: discarding cached credential: %v", err)
		if delErr := c.cache.Delete(ctx); delErr != nil {
			c.warn("goAuthClient: cached credential cleanup failed: %v", delErr)
		}
		return
	}

	if err := c.store.Set(pair, identity); err != nil {
		c.warn("goAuthClient: cached credential restore failed: %v", err)
		return
	}
	c.metrics.Inc(MetricCacheHit)
	c.emitEvent(EventCacheRestore, nil)
}
