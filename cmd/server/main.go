package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"eventra/internal/adapters/api"
	"eventra/internal/adapters/broker"
	emailPkg "eventra/internal/adapters/email"
	web "eventra/internal/adapters/http"
	"eventra/internal/adapters/http/perf"
	"eventra/internal/adapters/storage"
	"eventra/internal/adapters/storage/kv"
	outboxStorePkg "eventra/internal/adapters/storage/outbox"
	"eventra/internal/application/orchestrators"
	"eventra/internal/config"
	domainOutbox "eventra/internal/domain/outbox"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		slog.Error("dotenv_load_failed", "error", err)
		os.Exit(1)
	}
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config_invalid", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(newLogger(cfg))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("server_failed", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func run(ctx context.Context, cfg config.Config) error {
	// Database holds favorites (sqlite backend) and the outbox
	db, err := storage.Open(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector, cfg.SlowQuery)
	slog.Info("database_ready", "path", cfg.DBPath, "schema", storage.SchemaVersion)

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			slog.Warn("redis_unreachable", "addr", cfg.RedisAddr, "error", err)
		}
	}

	var gateway api.Gateway = api.NewClient(cfg.APIBaseURL, api.ClientOptions{
		Timeout:      cfg.APITimeout,
		Collector:    collector,
		SlowUpstream: cfg.SlowUpstream,
	})
	if rdb != nil {
		gateway = api.NewCachedGateway(gateway, api.NewRedisCache(rdb, "eventra:api:"), cfg.CacheTTL)
		slog.Info("event_cache_enabled", "ttl", cfg.CacheTTL)
	}

	var favorites kv.Store
	switch cfg.FavoritesBackend {
	case config.BackendRedis:
		favorites = kv.NewRedisStore(rdb, "eventra:")
	case config.BackendMemory:
		favorites = kv.NewMemoryStore()
	default:
		favorites = kv.NewSQLiteStore(timedDB)
	}

	// Configure email sender
	var sender emailPkg.Sender
	if cfg.ResendKey != "" {
		sender = emailPkg.NewResendSender(cfg.ResendKey, cfg.ResendFrom)
		slog.Info("email_sender_configured", "provider", "resend")
	} else {
		sender = emailPkg.NewNoopSender()
		if cfg.IsProduction() {
			slog.Warn("email_delivery_disabled", "hint", "set EVENTRA_RESEND_KEY")
		}
	}

	var publisher broker.Publisher = broker.LogPublisher{}
	if cfg.AMQPURL != "" {
		amqpPub := broker.NewAMQPPublisher(cfg.AMQPURL)
		defer amqpPub.Close()
		publisher = amqpPub
		slog.Info("broker_configured", "transport", "amqp")
	}

	outbox := outboxStorePkg.NewSQLiteStore(timedDB)
	processor := orchestrators.NewOutboxProcessor(outbox, map[string]orchestrators.ActionExecutor{
		domainOutbox.ActionConfirmationEmail: &orchestrators.EmailExecutor{Sender: sender},
		domainOutbox.ActionBookingEvent:      &orchestrators.BookingEventExecutor{Publisher: publisher},
	}, time.Now)
	workerDone := orchestrators.StartBackgroundWorker(ctx, processor, cfg.OutboxInterval)

	csrfKey, err := web.ParseCSRFKey(cfg.CSRFKey)
	if err != nil {
		return err
	}
	handler := web.NewMux(ctx, &web.Deps{
		Gateway:      gateway,
		Favorites:    favorites,
		Outbox:       outbox,
		Processor:    processor,
		DB:           db,
		Collector:    collector,
		AdminContact: cfg.AdminContact,
		Production:   cfg.IsProduction(),
	}, web.Options{
		CSRFKey:     csrfKey,
		RateLimit:   cfg.RateLimit,
		SlowRequest: cfg.SlowRequest,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server_starting", "version", version, "addr", cfg.Addr, "env", cfg.Env, "api", cfg.APIBaseURL)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		slog.Info("server_stopping")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("server_shutdown_incomplete", "error", err)
		}
	}
	<-workerDone
	return nil
}
