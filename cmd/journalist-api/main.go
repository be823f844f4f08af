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

	"journalist-api/internal/config"
	"journalist-api/internal/jwtsigner"
	"journalist-api/internal/observability/logging"
	"journalist-api/internal/observability/metrics"
	"journalist-api/internal/service"
	impl "journalist-api/internal/service/impl"
	"journalist-api/internal/storage"
	"journalist-api/internal/store"
	httpx "journalist-api/internal/transport/http"
	"journalist-api/pkg/db"

	"github.com/redis/go-redis/v9"
)

const purgeInterval = 10 * time.Minute

func main() {
	cfg := config.Load()

	logger := logging.NewLogger(logging.Config{
		ServiceName: "journalist-api",
		Environment: cfg.Environment,
		Level:       cfg.LogLevel,
	})
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	if cfg.SigningKey == "" {
		return errors.New("SIGNING_KEY is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics.MustRegister("journalist-api")

	gdb, err := db.OpenGorm(cfg.DB())
	if err != nil {
		return err
	}
	st := store.New(gdb)
	if err := st.AutoMigrate(ctx); err != nil {
		return err
	}
	if _, err := st.Users().EnsureDeletedSentinel(ctx); err != nil {
		return err
	}

	blobs, err := storage.Open(ctx, cfg.Storage())
	if err != nil {
		return err
	}

	var guard service.ReplayGuard
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return err
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		guard = impl.NewRedisReplayGuard(rdb)
	} else {
		gg := impl.NewGormReplayGuard(st)
		guard = gg
		go purgeLoop(ctx, logger, "used_codes", gg.Purge)
	}
	go purgeLoop(ctx, logger, "revoked_tokens", func(ctx context.Context) (int64, error) {
		return st.RevokedTokens().PurgeExpired(ctx, time.Now().UTC())
	})

	signer, err := jwtsigner.New(cfg.SigningMethod, cfg.SigningKey, cfg.SigningKeyID)
	if err != nil {
		return err
	}

	pw := impl.NewPasswordServiceArgon2id()
	ts := impl.NewTokenService(impl.TokenConfig{
		Issuer:   cfg.Issuer,
		Audience: cfg.Audience,
		TTL:      cfg.TokenTTL,
	}, signer, st)
	mfa := impl.NewMFAService(st, guard, cfg.Issuer)

	router := httpx.NewRouter(httpx.Services{
		Auth:          impl.NewAuthServiceImpl(st, pw, ts, mfa),
		Tokens:        ts,
		Resources:     impl.NewResourceService(st),
		Replies:       impl.NewReplyService(st, blobs, impl.PGPArmorValidator{}),
		Seen:          impl.NewSeenService(st),
		Downloads:     impl.NewDownloadService(st, blobs, impl.SHA256Checksum{}),
		Conversations: impl.NewConversationService(st, blobs),
	}, httpx.Options{
		TrustProxy:     cfg.TrustProxy,
		TokenRateLimit: cfg.TokenRateLimit,
		CORSOrigins:    cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.RequestTimeout,
		IdleTimeout:       2 * time.Minute,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("journalist api listening", "addr", srv.Addr, "issuer", cfg.Issuer, "storage", cfg.StorageBackend)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func purgeLoop(ctx context.Context, logger *slog.Logger, what string, purge func(context.Context) (int64, error)) {
	t := time.NewTicker(purgeInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := purge(ctx)
			if err != nil {
				logger.Warn("purge failed", "table", what, "error", err)
				continue
			}
			if n > 0 {
				logger.Debug("purged expired rows", "table", what, "rows", n)
			}
		}
	}
}
