package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/opsbridge/zpa-adapter/internal/api"
	"github.com/opsbridge/zpa-adapter/internal/credentials"
	"github.com/opsbridge/zpa-adapter/internal/store"
	"github.com/opsbridge/zpa-adapter/internal/zpa"
	"github.com/opsbridge/zpa-adapter/pkg/config"
	"github.com/opsbridge/zpa-adapter/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Load configuration ---
	cfg := config.Load()

	logger.Init(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	defer logger.Sync()
	logg := logger.S()
	logg.Infow("starting [zpa-adapter]",
		"cloud", cfg.BaseURL,
		"credential_source", cfg.CredentialSource,
		"auth_variant", cfg.AuthVariant)

	// --- Credential resolver ---
	resolver, err := credentials.NewResolver(logg.Desugar(), cfg)
	if err != nil {
		logg.Fatalw("failed to build credential resolver", "error", err)
	}

	opts := zpa.Options{
		Timeout:               cfg.HTTPTimeout,
		InsecureSkipTLSVerify: cfg.InsecureSkipTLSVerify,
	}

	// --- ZPA authenticator and client ---
	auth := zpa.NewAuthenticator(logg.Desugar(), cfg.BaseURL, opts)
	client := zpa.NewClient(logg.Desugar(), cfg.BaseURL, cfg.CustomerID, opts)

	if len(os.Args) > 1 && os.Args[1] == "serve" {
		serve(ctx, cfg, auth, client, resolver)
		return
	}

	fetch(ctx, cfg, auth, client, resolver)
}

// fetch runs the linear authenticate-then-call sequence and prints the
// response body to stdout — the sole user-visible output of a run.
func fetch(ctx context.Context, cfg *config.Config, auth *zpa.Authenticator, client *zpa.Client, resolver credentials.Resolver) {
	logg := logger.S()

	svc := zpa.NewService(logg.Desugar(), auth, client, resolver, nil, 0)

	resp, err := svc.Fetch(ctx, cfg.Resource)
	if err != nil {
		logg.Errorw("fetch failed", "resource", cfg.Resource, "error", err)
		logger.Sync()
		os.Exit(1)
	}

	fmt.Println(string(resp.Raw))
}

// serve exposes the configured ZPA resources over a local fiber surface,
// with an optional Redis response cache.
func serve(ctx context.Context, cfg *config.Config, auth *zpa.Authenticator, client *zpa.Client, resolver credentials.Resolver) {
	logg := logger.S()

	// --- Response cache (optional) ---
	var st store.Store
	if cfg.RedisAddr != "" {
		redisStore, err := store.NewRedis(cfg.RedisAddr, cfg.RedisDB, cfg.RedisPass, logg.Desugar())
		if err != nil {
			logg.Fatalw("failed to init response cache", "error", err)
		}
		st = redisStore
	}

	svc := zpa.NewService(logg.Desugar(), auth, client, resolver, st, cfg.CacheTTL)

	// --- Fiber HTTP Server ---
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	})

	handler := api.NewResourceHandler(logg.Desugar(), svc)
	api.RegisterRoutes(app, st, handler)

	go func() {
		logg.Infof("HTTP API listening on :%d", cfg.Port)
		if err := app.Listen(fmt.Sprintf(":%d", cfg.Port)); err != nil {
			logg.Fatalw("fiber.listen_failed", "error", err)
		}
	}()

	<-ctx.Done()
	logg.Info("shutting down [zpa-adapter]")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logg.Warnw("fiber.shutdown_failed", "error", err)
	}
	if st != nil {
		if err := st.Close(); err != nil {
			logg.Warnw("store.close_failed", "error", err)
		}
	}
}
