package usuarios

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/nikoidev/usuarios-go/tokenstore"
	"github.com/nikoidev/usuarios-go/transport"
)

// Builder assembles a [Client]. Configure it during initialization, call
// Build once, and discard it. Construction is allocation-only; no network
// or storage I/O happens before the first Client call.
type Builder struct {
	config   Config
	store    tokenstore.Store
	redis    redis.UniversalClient
	logger   Logger
	listener SessionListener

	built bool
}

// New returns a Builder loaded with defaults. At minimum the backend base
// URL must be set before Build.
func New() *Builder {
	return &Builder{config: defaultConfig()}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithBaseURL sets the backend origin, keeping all other defaults.
func (b *Builder) WithBaseURL(url string) *Builder {
	b.config.API.BaseURL = url
	return b
}

// WithTokenStore installs a custom token store. The default is in-memory.
func (b *Builder) WithTokenStore(s tokenstore.Store) *Builder {
	b.store = s
	return b
}

// WithRedis persists tokens in redis under Config.Tokens.RedisKey, so the
// session survives restarts. Ignored when WithTokenStore is also set.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithLogger installs a logger. The default discards everything.
func (b *Builder) WithLogger(l Logger) *Builder {
	b.logger = l
	return b
}

// WithSessionListener subscribes to session termination events.
func (b *Builder) WithSessionListener(l SessionListener) *Builder {
	b.listener = l
	return b
}

// WithMetricsEnabled toggles the in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates the configuration and wires the client together.
func (b *Builder) Build() (*Client, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store := b.store
	if store == nil {
		if b.redis != nil {
			store = tokenstore.NewRedis(b.redis, cfg.Tokens.RedisKey, cfg.Tokens.RedisTTL)
		} else {
			store = tokenstore.NewMemory()
		}
	}

	logger := b.logger
	if logger == nil {
		logger = nopLogger{}
	}

	tc := transport.New(transport.Config{
		BaseURL:          cfg.API.BaseURL,
		Timeout:          cfg.API.Timeout,
		UserAgent:        cfg.API.UserAgent,
		RetryCount:       cfg.API.RetryCount,
		RetryWaitTime:    cfg.API.RetryWaitTime,
		RetryMaxWaitTime: cfg.API.RetryMaxWaitTime,
	})

	c := &Client{
		config:    cfg,
		logger:    logger,
		metrics:   NewMetrics(cfg.Metrics),
		tokens:    store,
		transport: tc,
		listener:  b.listener,
		loading:   true,
	}

	c.coord = &refreshCoordinator{
		tokens:    store,
		transport: tc,
		metrics:   c.metrics,
		logger:    logger,
		onFailure: func(ctx context.Context, cause error) {
			c.endSession(ctx, EndReasonRefreshFailed, cause)
		},
	}

	c.scheduler = &renewalScheduler{
		enabled:     cfg.Renewal.Enabled,
		margin:      cfg.Renewal.Margin,
		accessTTL:   cfg.Tokens.AccessTTL,
		fireTimeout: cfg.Renewal.FireTimeout,
		refresh:     c.coord.ensureFreshToken,
		onEnd: func(ctx context.Context, cause error) {
			c.endSession(ctx, EndReasonRefreshFailed, cause)
		},
		metrics: c.metrics,
		logger:  logger,
	}

	tc.SetTokenSource(func(ctx context.Context) (string, bool) {
		pair, err := store.Load(ctx)
		if err != nil || pair.AccessToken == "" {
			return "", false
		}
		return pair.AccessToken, true
	})
	tc.SetRefreshHook(func(ctx context.Context) (string, error) {
		c.metrics.inc(MetricRequestReplayed)
		return c.coord.ensureFreshToken(ctx)
	})

	b.built = true
	return c, nil
}
