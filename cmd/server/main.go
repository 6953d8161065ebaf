// @title           Guardrail Engine API
// @version         1.0
// @description     Decision locking and behavioral guardrails for the growth guide.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/growthai/guardrail-engine/internal/api"
	"github.com/growthai/guardrail-engine/internal/api/handler"
	"github.com/growthai/guardrail-engine/internal/core/ports"
	"github.com/growthai/guardrail-engine/internal/core/service"
	"github.com/growthai/guardrail-engine/internal/infrastructure/assistant"
	"github.com/growthai/guardrail-engine/internal/infrastructure/config"
	redisdb "github.com/growthai/guardrail-engine/internal/infrastructure/db/redis"
	"github.com/growthai/guardrail-engine/internal/infrastructure/memory"
	"github.com/growthai/guardrail-engine/internal/infrastructure/queue"
	"github.com/growthai/guardrail-engine/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Load configuration
	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{})
		bootLog.Fatal().Err(err).Msg("config")
	}

	// 2. Logger
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "guardrail-engine",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	secret := cfg.Session.Secret
	if secret == "" {
		secret = randomSecret()
		log.Warn().Msg("SESSION_SECRET not set; generated an ephemeral secret, handles will not survive a restart")
	}

	// 3. Assistant adapter
	var model ports.Assistant = assistant.Unconfigured{}
	assistantName := assistant.Unconfigured{}.Name()
	gemini, err := assistant.NewGemini(ctx, assistant.GeminiConfig{
		APIKey:  cfg.Assistant.APIKey,
		Model:   cfg.Assistant.Model,
		Timeout: cfg.Assistant.Timeout,
	})
	switch {
	case err == nil:
		model, assistantName = gemini, gemini.Name()
	case errors.Is(err, assistant.ErrNotConfigured):
		log.Warn().Msg("GEMINI_API_KEY not set; the guide will answer with the fallback reply")
	default:
		return err
	}

	guide := service.NewGuideContextAssembler(model, logger.Component(log, "guide"))
	dispatcher := queue.NewDispatcher(cfg.Assistant.Workers, guide, logger.Component(log, "dispatcher"))

	// 4. Idempotency keys: Redis when configured, process memory otherwise
	var (
		guard service.IdempotencyGuard = memory.NewIdempotencyGuard(24 * time.Hour)
		redis handler.Pinger
	)
	if cfg.Redis.Addr != "" {
		client, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer client.Close()
		rg := redisdb.NewIdempotencyGuard(client)
		guard, redis = rg, rg
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")
	}

	// 5. Services
	deps := service.SessionDeps{
		Clock:      ports.SystemClock{},
		Rules:      service.NewDecisionRulesEngine(service.DefaultRules()),
		Guide:      guide,
		Dispatcher: dispatcher,
		Log:        logger.Component(log, "session"),
	}
	sessions := service.NewSessionService(
		memory.NewSessionStore(cfg.Session.TTL),
		guard,
		deps,
		service.SessionServiceConfig{Secret: secret, TTL: cfg.Session.TTL},
	)

	// 6. HTTP
	e := api.NewRouter(api.RouterDeps{
		Sessions:      sessions,
		SessionSecret: secret,
		Log:           logger.Component(log, "http"),
		Redis:         redis,
		AssistantName: assistantName,
	})

	g, gctx := errgroup.WithContext(ctx)
	dispatcher.Start(gctx)

	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Str("assistant", assistantName).Msg("listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := e.Shutdown(shutdownCtx)
		dispatcher.Wait()
		return err
	})

	return g.Wait()
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}
