package cachedresults

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/travigo/liverail/pkg/metrics"
	"github.com/travigo/liverail/pkg/redis_client"
	"github.com/travigo/liverail/pkg/util"
)

// Freshness says when a cached result should be refreshed and when it can no longer be shown
type Freshness struct {
	Kind             string
	PreferFreshAfter time.Duration
	UnusableAfter    time.Duration
}

var (
	JourneyFreshness = Freshness{Kind: "journeys", PreferFreshAfter: 5 * time.Minute, UnusableAfter: time.Hour}
	BoardFreshness   = Freshness{Kind: "boards", PreferFreshAfter: 2 * time.Minute, UnusableAfter: 24 * time.Hour}
)

const journeyTimeBucket = 5 * time.Minute

type entry struct {
	Payload   json.RawMessage
	FetchedAt time.Time
}

type Lookup struct {
	FetchedAt time.Time
	Stale     bool
}

type Cache struct {
	Cache *cache.Cache[string]

	Now func() time.Time
}

func (c *Cache) Setup() {
	c.SetupWithClient(redis_client.Client)
}

func (c *Cache) SetupWithClient(client *redis.Client) {
	redisStore := redisstore.NewRedis(client, store.WithExpiration(BoardFreshness.UnusableAfter))

	c.Cache = cache.New[string](redisStore)
	if c.Now == nil {
		c.Now = time.Now
	}
}

func (c *Cache) Put(ctx context.Context, key string, value any, freshness Freshness) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}

	encoded, err := json.Marshal(entry{
		Payload:   payload,
		FetchedAt: c.Now(),
	})
	if err != nil {
		return err
	}

	return c.Cache.Set(ctx, key, string(encoded), store.WithExpiration(freshness.UnusableAfter))
}

// Get decodes a usable cached value into target
func (c *Cache) Get(ctx context.Context, key string, target any, freshness Freshness) (Lookup, bool) {
	value, err := c.Cache.Get(ctx, key)
	if err != nil || value == "" {
		metrics.CacheLookups.WithLabelValues(freshness.Kind, "miss").Inc()
		return Lookup{}, false
	}

	var cached entry
	if err := json.Unmarshal([]byte(value), &cached); err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to decode cache entry")
		metrics.CacheLookups.WithLabelValues(freshness.Kind, "miss").Inc()
		return Lookup{}, false
	}

	age := c.Now().Sub(cached.FetchedAt)
	if age > freshness.UnusableAfter {
		metrics.CacheLookups.WithLabelValues(freshness.Kind, "expired").Inc()
		return Lookup{}, false
	}

	if err := json.Unmarshal(cached.Payload, target); err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to decode cached payload")
		metrics.CacheLookups.WithLabelValues(freshness.Kind, "miss").Inc()
		return Lookup{}, false
	}

	metrics.CacheLookups.WithLabelValues(freshness.Kind, "hit").Inc()

	return Lookup{
		FetchedAt: cached.FetchedAt,
		Stale:     age > freshness.PreferFreshAfter,
	}, true
}

func JourneyKey(origin string, destination string, startDateTime time.Time) string {
	bucket := startDateTime.In(util.LondonTimezone()).Truncate(journeyTimeBucket)

	return fmt.Sprintf("liverail/journeys/%s_%s_%s", strings.ToUpper(origin), strings.ToUpper(destination), bucket.Format("2006-01-02T15:04"))
}

func BoardKey(boardType string, station string, filter string) string {
	return fmt.Sprintf("liverail/boards/%s/%s_%s", boardType, strings.ToUpper(station), strings.ToUpper(filter))
}
