package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"urbanlink/internal/app"
	"urbanlink/internal/assist"
	"urbanlink/internal/booking"
	"urbanlink/internal/config"
	"urbanlink/internal/directory"
	"urbanlink/internal/domain"
	"urbanlink/internal/events"
	"urbanlink/internal/logging"
	"urbanlink/internal/metrics"
	"urbanlink/internal/monitoring"
	"urbanlink/internal/notify"
	"urbanlink/internal/session"
	"urbanlink/internal/storage"
	"urbanlink/internal/view"

	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func(c io.Closer) { _ = c.Close() })(closer)
	}
	logger := baseLogger.With().Str("component", "main").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, storeCleanup, err := initStorage(ctx, cfg, &logger)
	if err != nil {
		return err
	}
	if storeCleanup != nil {
		defer storeCleanup()
	}

	catalog, err := directory.LoadCatalog(cfg.Directory.FixturesPath)
	if err != nil {
		return err
	}
	logger.Info().Int("workers", catalog.Len()).Msg("catalog loaded")

	engine := directory.NewEngine(catalog, time.Duration(cfg.Search.DelayMS)*time.Millisecond, directory.SystemClock{})

	eventBus := events.NewEventBus()
	subscribeEventLog(eventBus, &logger)

	sessions := session.NewManager(store, &logger)
	bookings := booking.NewManager(store, sessions, &logger)
	toasts := notify.NewQueue(time.Duration(cfg.Notifications.TTLMS)*time.Millisecond, notify.TimerScheduler{})
	router := view.NewRouter()
	assistant := assist.NewClient(cfg.Assist, &logger)

	metrics.Register()
	if cfg.Monitoring.PrometheusEnabled {
		monServer := monitoring.NewServer(cfg.Monitoring, cfg.App, &logger)
		go func() {
			if err := monServer.Start(); err != nil {
				logger.Error().Err(err).Msg("monitoring server error")
			}
		}()
		defer func() {
			_ = monServer.Shutdown(context.Background())
		}()
	}

	application := app.New(
		directory.NewService(catalog, engine),
		sessions,
		bookings,
		toasts,
		router,
		assistant,
		eventBus,
		cfg.Exports.Path,
		&logger,
	)

	if err := application.RestoreSession(ctx); err != nil {
		logger.Warn().Err(err).Msg("session restore failed, starting anonymous")
	}

	logger.Info().Str("view", string(application.View())).Msg("urbanlink ready")

	<-ctx.Done()
	logger.Info().Msg("shutting down")
	return nil
}

func initStorage(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (domain.KVStore, func(), error) {
	switch cfg.Storage.Driver {
	case "redis":
		client := storage.NewRedisClient(cfg.Storage.Redis)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := storage.Ping(pingCtx, client); err != nil {
			logger.Warn().Err(err).Msg("redis unreachable at startup, failover will cover it")
		}
		primary := storage.NewRedisStore(client, 0)
		store := storage.NewFailoverStore(primary, storage.NewMemoryStore(), logger)
		return store, func() { _ = storage.Close(client) }, nil
	case "sqlite":
		store, err := storage.NewSQLiteStore(cfg.Storage.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	default:
		return storage.NewMemoryStore(), nil, nil
	}
}

func subscribeEventLog(bus *events.EventBus, logger *zerolog.Logger) {
	for _, eventType := range []string{
		events.EventUserSignedUp,
		events.EventUserLoggedIn,
		events.EventUserLoggedOut,
		events.EventSearchPerformed,
		events.EventBookingCreated,
		events.EventBookingCancelled,
	} {
		bus.Subscribe(eventType, func(event *events.Event) error {
			logger.Debug().Str("event", event.Type).RawJSON("payload", event.Payload).Msg("event")
			return nil
		})
	}
}
