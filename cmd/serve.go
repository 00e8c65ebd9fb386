package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/caching"
	"storefront/internal/common"
	"storefront/internal/config"
	"storefront/internal/events"
	"storefront/internal/handlers"
	"storefront/internal/jobs"
	"storefront/internal/jobs/background"
	"storefront/internal/metrics"
	"storefront/internal/middleware"
	"storefront/internal/repositories"
	"storefront/internal/services"
	"storefront/internal/storage"
	"storefront/pkg/database"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/juju/clock"
	"github.com/juju/errors"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, log)
		},
	}
}

// cleanup runs registered closers in reverse order.
type cleanup []func()

func (c *cleanup) add(f func()) { *c = append(*c, f) }

func (c cleanup) run() {
	for i := len(c) - 1; i >= 0; i-- {
		c[i]()
	}
}

func serve(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	var closers cleanup
	defer closers.run()

	if cfg.RunMigrations {
		if err := database.RunMigrations(cfg.DatabaseURL, log); err != nil {
			return errors.Annotate(err, "run migrations")
		}
	}

	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return errors.Annotate(err, "connect database")
	}
	closers.add(pool.Close)

	collector := metrics.NewCollector()
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collector,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	health := handlers.NewHealthHandlers(pool, version)

	bus := events.NewBus(log, cfg.EventTimeout)
	bus.OnError = func(derr *events.DeliveryError) { collector.DeliveryFailed(derr.Subscriber) }
	bus.Subscribe("log", events.NewLogSubscriber(log))
	bus.Subscribe("metrics", events.SubscriberFunc(func(_ context.Context, ev events.Event) error {
		if ev.Name == events.OrderCreated {
			collector.OrderCreated()
		}
		return nil
	}))

	cache := caching.NewNoopCacheService()
	if cfg.RedisAddr != "" {
		client := caching.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		closers.add(func() { _ = client.Close() })
		cache = caching.NewRedisCacheService(client, cfg.ProductCacheTTL)
		health.WithDependency("redis", cache, false)
		bus.Subscribe("redis", events.WithBreaker("redis", events.NewRedisSubscriber(client), events.DefaultBreakerSettings, log))
	}

	if cfg.RabbitMQURL != "" {
		conn, err := dialRabbit(ctx, cfg.RabbitMQURL, log)
		if err != nil {
			log.Warn("rabbitmq disabled", "error", errors.ErrorStack(err))
		} else {
			subscribeRabbit(bus, conn, &closers, log)
		}
	}

	var receipts handlers.ReceiptLinker
	if cfg.MinioEndpoint != "" {
		archiver, store, err := openReceipts(ctx, cfg, log)
		if err != nil {
			log.Warn("receipt archiving disabled", "error", errors.ErrorStack(err))
		} else {
			receipts = archiver
			health.WithDependency("storage", store, false)
			bus.Subscribe("receipts", events.WithBreaker("receipts", archiver, events.DefaultBreakerSettings, log))
		}
	}

	// Runs before the backend closers above.
	closers.add(drainBus(bus, shutdownTimeout, log))

	categoryRepo := repositories.NewCategoryRepo(pool)
	productRepo := repositories.NewProductRepo(pool)
	commentRepo := repositories.NewCommentRepo(pool)
	customerRepo := repositories.NewCustomerRepo(pool)
	cartRepo := repositories.NewCartRepo(pool)
	orderRepo := repositories.NewOrderRepo(pool)

	productSvc := services.NewProductService(productRepo, categoryRepo, cache, log)
	categorySvc := services.NewCategoryService(categoryRepo, productRepo, cache, log)
	commentSvc := services.NewCommentService(commentRepo, productRepo)
	customerSvc := services.NewCustomerService(customerRepo, log)
	cartSvc := services.NewCartService(cartRepo, productRepo)
	orderSvc := services.NewOrderService(repositories.NewTransactor(pool), orderRepo, customerRepo, bus, log)

	scheduler, err := background.NewJobScheduler(log)
	if err != nil {
		return errors.Annotate(err, "create job scheduler")
	}
	janitor := jobs.NewCartJanitor(cartRepo, clock.WallClock, cfg.CartTTL, log)
	janitor.OnSwept = collector.CartsSwept
	if err := scheduler.AddJob("cart_janitor", cfg.CartSweepInterval, janitor.Sweep); err != nil {
		return errors.Annotate(err, "schedule cart janitor")
	}
	scheduler.Start()
	closers.add(func() {
		if err := scheduler.Stop(); err != nil {
			log.Warn("job scheduler shutdown", "error", err)
		}
	})

	var keyFunc jwt.Keyfunc
	if cfg.JWKSURL != "" {
		jwks, err := keyfunc.Get(cfg.JWKSURL, keyfunc.Options{
			Ctx:               ctx,
			RefreshInterval:   time.Hour,
			RefreshRateLimit:  5 * time.Minute,
			RefreshTimeout:    10 * time.Second,
			RefreshUnknownKID: true,
			RefreshErrorHandler: func(err error) {
				log.Error("jwks refresh failed", "error", err)
			},
		})
		if err != nil {
			return errors.Annotate(err, "load jwks")
		}
		closers.add(jwks.EndBackground)
		keyFunc = jwks.Keyfunc
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(echoMiddleware.RemoveTrailingSlash())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(middleware.RequestLogger(log))
	e.Use(collector.Middleware())

	registerRoutes(e, &api{
		health:         health,
		products:       handlers.NewProductHandlers(productSvc, log),
		categories:     handlers.NewCategoryHandlers(categorySvc, log),
		comments:       handlers.NewCommentHandlers(commentSvc, log),
		carts:          handlers.NewCartHandlers(cartSvc, log),
		customers:      handlers.NewCustomerHandlers(customerSvc, cfg.IdentityWebhookSecret, log),
		orders:         handlers.NewOrderHandlers(orderSvc, receipts, log),
		jobs:           handlers.NewJobHandlers(scheduler, log),
		jwt:            echojwt.WithConfig(middleware.NewJWTConfig(cfg.JWTSecret, keyFunc)),
		registry:       registry,
		webhookEnabled: cfg.IdentityWebhookSecret != "",
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", "port", cfg.Port, "version", version)
		if err := e.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return errors.Annotate(err, "http server")
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

type rabbitConn interface {
	events.AMQPConnection
	Close() error
}

// subscribeRabbit attaches the rabbitmq subscriber. If no channel can be
// opened the subscriber stays disabled and conn is closed.
func subscribeRabbit(bus *events.Bus, conn rabbitConn, closers *cleanup, log *slog.Logger) bool {
	ch, err := events.OpenRabbitChannel(conn)
	if err != nil {
		log.Warn("rabbitmq disabled", "error", errors.ErrorStack(err))
		_ = conn.Close()
		return false
	}
	closers.add(func() { _ = conn.Close() })
	bus.Subscribe("rabbitmq", events.WithBreaker("rabbitmq", events.NewRabbitSubscriber(ch), events.DefaultBreakerSettings, log))
	return true
}

// drainBus waits for in-flight deliveries. It must be registered after every
// backend a subscriber writes to.
func drainBus(bus *events.Bus, timeout time.Duration, log *slog.Logger) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := bus.Close(ctx); err != nil {
			log.Warn("event bus did not drain", "error", err)
		}
	}
}

func dialRabbit(ctx context.Context, url string, log *slog.Logger) (*amqp.Connection, error) {
	var conn *amqp.Connection
	err := common.Retry(ctx, log, "rabbitmq", common.DefaultRetryPolicy, func(context.Context) error {
		c, err := amqp.Dial(url)
		if err != nil {
			return err
		}
		conn = c
		return nil
	})
	return conn, err
}

func openReceipts(ctx context.Context, cfg *config.Config, log *slog.Logger) (*storage.ReceiptArchiver, storage.ObjectStore, error) {
	client, err := storage.NewMinioClient(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL)
	if err != nil {
		return nil, nil, err
	}
	store := storage.NewObjectStore(client, cfg.ReceiptsBucket)
	if err := common.Retry(ctx, log, "minio", common.DefaultRetryPolicy, store.EnsureBucketExists); err != nil {
		return nil, nil, err
	}
	return storage.NewReceiptArchiver(store), store, nil
}
