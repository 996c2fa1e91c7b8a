package container

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"

	"github.com/lmartins/shortly/internal/analytics"
	"github.com/lmartins/shortly/internal/auth"
	"github.com/lmartins/shortly/internal/handlers"
	"github.com/lmartins/shortly/internal/health"
	"github.com/lmartins/shortly/internal/messaging"
	"github.com/lmartins/shortly/internal/middleware"
	"github.com/lmartins/shortly/internal/ratelimit"
	"github.com/lmartins/shortly/internal/shortener"
	"github.com/lmartins/shortly/internal/store"
)

// Options holds all runtime configuration. humacli fills it from flags and
// environment variables.
type Options struct {
	Port           int    `default:"8080"                                        help:"Port to listen on" short:"p"`
	Env            string `default:"development"                                 help:"Environment name (development, production)"`
	BaseURL        string `default:"http://localhost:8080"                       help:"Public base URL used to build short links"`
	DatabaseURL    string `default:"postgres://localhost:5432/shortly"           help:"Postgres connection string"`
	RedisAddr      string `default:"localhost:6379"                              help:"Redis server address" short:"r"`
	JWTSecret      string `default:"dev-secret-change-me"                        help:"Secret used to sign session tokens"`
	TokenTTL       string `default:"15m"                                         help:"Session token lifetime"`
	CookieName     string `default:"auth_token"                                  help:"Session cookie name"`
	CookieSameSite string `default:"lax"                                         help:"Session cookie SameSite mode (lax, strict, none)"`
	AllowedOrigins string `default:"http://localhost:5173,http://127.0.0.1:5173" help:"Comma-separated CORS origins"`
	CodeSalt       string `default:"url-shortener"                               help:"Salt for short code generation"`
	LogFormat      string `default:"console"                                     help:"Log format (console or json)"`
	ShortenLimit   int    `default:"30"                                          help:"Max shorten requests per client per window"`
	ShortenWindow  string `default:"1m"                                          help:"Shorten rate limit window"`
}

// LoggerPackage provides the application logger.
func LoggerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*zap.Logger, error) {
		options := do.MustInvoke[*Options](i)

		if options.LogFormat == "json" {
			return zap.NewProduction()
		}

		return zap.NewDevelopment()
	})
}

// RedisPackage provides the shared Redis client.
func RedisPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*redis.Client, error) {
		options := do.MustInvoke[*Options](i)

		return redis.NewClient(&redis.Options{Addr: options.RedisAddr}), nil
	})
}

// PostgresPackage provides the connection pool and runs startup migrations.
func PostgresPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*pgxpool.Pool, error) {
		options := do.MustInvoke[*Options](i)

		pool, err := pgxpool.New(context.Background(), options.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connecting to postgres: %w", err)
		}

		if err := store.Migrate(context.Background(), pool); err != nil {
			pool.Close()

			return nil, fmt.Errorf("running migrations: %w", err)
		}

		return pool, nil
	})
}

// RepositoryPackage provides storage, domain services and auth services.
func RepositoryPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (shortener.Repository, error) {
		return store.NewPostgresStore(do.MustInvoke[*pgxpool.Pool](i)), nil
	})

	do.Provide(injector, func(i *do.Injector) (shortener.Cache, error) {
		return store.NewRedisCache(do.MustInvoke[*redis.Client](i)), nil
	})

	do.Provide(injector, func(i *do.Injector) (*shortener.Service, error) {
		options := do.MustInvoke[*Options](i)

		generator, err := shortener.NewGenerator(options.CodeSalt)
		if err != nil {
			return nil, err
		}

		return shortener.NewService(
			do.MustInvoke[shortener.Repository](i),
			do.MustInvoke[shortener.Cache](i),
			generator,
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	do.Provide(injector, func(i *do.Injector) (auth.UserRepository, error) {
		return store.NewPostgresUserStore(do.MustInvoke[*pgxpool.Pool](i)), nil
	})

	do.Provide(injector, func(i *do.Injector) (*auth.Service, error) {
		return auth.NewService(
			do.MustInvoke[auth.UserRepository](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	do.Provide(injector, func(i *do.Injector) (*auth.TokenService, error) {
		options := do.MustInvoke[*Options](i)

		ttl, err := time.ParseDuration(options.TokenTTL)
		if err != nil {
			return nil, fmt.Errorf("parsing token ttl: %w", err)
		}

		return auth.NewTokenService(options.JWTSecret, ttl)
	})

	do.Provide(injector, func(i *do.Injector) (auth.CookieConfig, error) {
		options := do.MustInvoke[*Options](i)

		return auth.NewCookieConfig(
			options.CookieName,
			options.CookieSameSite,
			options.Env != "development",
		), nil
	})
}

// RateLimitPackage provides the Redis-backed rate limit store.
func RateLimitPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (ratelimit.Store, error) {
		return store.NewRateLimitRedisStore(do.MustInvoke[*redis.Client](i)), nil
	})
}

// PublisherGroupPackage provides the Redis Streams event publisher.
func PublisherGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
			Client: do.MustInvoke[*redis.Client](i),
		}, watermill.NewStdLogger(false, false))
		if err != nil {
			return nil, fmt.Errorf("creating stream publisher: %w", err)
		}

		return messaging.NewPublisherGroup(publisher), nil
	})
}

// ConsumerGroupPackage provides the analytics consumer group reading from
// Redis Streams and persisting into Postgres.
func ConsumerGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		options := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
			Client:        do.MustInvoke[*redis.Client](i),
			ConsumerGroup: "analytics",
		}, watermill.NewStdLogger(false, false))
		if err != nil {
			return nil, fmt.Errorf("creating stream subscriber: %w", err)
		}

		// Without a database the consumer still drains the streams,
		// it just logs what it sees.
		var eventStore analytics.Store = analytics.NewLogStore(logger)
		if options.DatabaseURL != "" {
			eventStore = analytics.NewPostgresStore(do.MustInvoke[*pgxpool.Pool](i))
		}

		return analytics.NewConsumerGroup(subscriber, eventStore, logger), nil
	})
}

// HTTPPackage provides the router and the fully wired API.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(_ *do.Injector) (*chi.Mux, error) {
		return chi.NewMux(), nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		options := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		router := do.MustInvoke[*chi.Mux](i)
		router.Use(middleware.CORS(splitOrigins(options.AllowedOrigins)))

		api := humachi.New(router, huma.DefaultConfig("Shortly", "1.0.0"))
		api.UseMiddleware(middleware.RequestMeta(api))
		api.UseMiddleware(middleware.Authenticate(api, do.MustInvoke[*auth.TokenService](i), options.CookieName))
		api.UseMiddleware(middleware.RateLimiter(api, do.MustInvoke[ratelimit.Store](i), logger))

		publisher := do.MustInvoke[*messaging.PublisherGroup](i).Publisher()

		urlHandler := handlers.NewURLHandler(
			do.MustInvoke[*shortener.Service](i),
			strings.TrimRight(options.BaseURL, "/"),
			messaging.NewPublishFunc[analytics.LinkCreatedEvent](publisher, analytics.TopicLinkCreated),
			messaging.NewPublishFunc[analytics.LinkVisitedEvent](publisher, analytics.TopicLinkVisited),
			messaging.NewPublishFunc[analytics.LinkDeletedEvent](publisher, analytics.TopicLinkDeleted),
			logger,
		)

		authHandler := handlers.NewAuthHandler(
			do.MustInvoke[*auth.Service](i),
			do.MustInvoke[*auth.TokenService](i),
			do.MustInvoke[auth.CookieConfig](i),
			logger,
		)

		shortenWindow, err := time.ParseDuration(options.ShortenWindow)
		if err != nil {
			return nil, fmt.Errorf("parsing shorten rate limit window: %w", err)
		}

		handlers.RegisterRoutes(api, urlHandler, authHandler, ratelimit.EndpointConfig{
			Max:    int64(options.ShortenLimit),
			Window: shortenWindow,
		})

		healthHandler := health.NewHandler(
			health.NewRedisChecker(do.MustInvoke[*redis.Client](i)),
			health.NewPostgresChecker(do.MustInvoke[*pgxpool.Pool](i)),
		)
		health.RegisterRoutes(api, healthHandler)

		return api, nil
	})
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))

	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}

	return origins
}
