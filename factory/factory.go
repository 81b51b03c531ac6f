// Package factory assembles the tool invocation stack from configuration:
// the cache backing store, the result cache, the observability pipeline,
// the registry, and the background reconciler.
package factory

import (
	"github.com/redis/go-redis/v9"

	"github.com/gulabjamun04/mcp-ai-assistant/config"
	"github.com/gulabjamun04/mcp-ai-assistant/mcpsession"
	"github.com/gulabjamun04/mcp-ai-assistant/observability"
	"github.com/gulabjamun04/mcp-ai-assistant/reconciler"
	"github.com/gulabjamun04/mcp-ai-assistant/registry"
	"github.com/gulabjamun04/mcp-ai-assistant/toolcache"
)

// Stack is the assembled invocation stack. Close it when done to flush
// the observability pipeline and release the Redis connection.
type Stack struct {
	Config     *config.Config
	Store      toolcache.Store
	Cache      *toolcache.Cache
	Sink       *observability.AsyncSink
	Registry   *registry.Registry
	Reconciler *reconciler.Reconciler

	redisClient *redis.Client
}

// Load builds the stack from a configuration file.
func Load(location string) (*Stack, error) {
	cfg, err := config.LoadConfig(location)
	if err != nil {
		return nil, err
	}
	return New(cfg), nil
}

// New builds the stack from an already-loaded configuration. With no
// Redis address configured the cache falls back to the in-process store.
func New(cfg *config.Config) *Stack {
	s := &Stack{
		Config: cfg,
	}

	if cfg.Redis.Addr != "" {
		s.redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		s.Store = toolcache.NewRedisStore(s.redisClient)
	} else {
		s.Store = toolcache.NewMemoryStore()
	}

	s.Sink = observability.NewAsyncSink(observability.NewMetricsSink(), observability.DefaultQueueSize)
	s.Cache = toolcache.New(s.Store, cfg.Cache.Prefix, cfg.Cache.TTL.TimeDuration(),
		toolcache.WithSink(s.Sink))

	s.Registry = registry.New(cfg.Providers,
		registry.WithDialer(&mcpsession.SSEDialer{
			ConnectTimeout: cfg.Discovery.ConnectTimeout.TimeDuration(),
		}),
		registry.WithCache(s.Cache),
		registry.WithSink(s.Sink),
		registry.WithCallTimeout(cfg.Discovery.CallTimeout.TimeDuration()),
		registry.WithHealthTimeout(cfg.Discovery.HealthTimeout.TimeDuration()),
	)
	s.Reconciler = reconciler.New(s.Registry, cfg.Discovery.RefreshInterval.TimeDuration())
	return s
}

// Close drains the observability pipeline and closes the Redis client
// when one was created.
func (s *Stack) Close() error {
	s.Sink.Close()
	if s.redisClient != nil {
		return s.redisClient.Close()
	}
	return nil
}
