package main

import (
	"context"
	"echoes-server/internal/config"
	"echoes-server/internal/content"
	"echoes-server/internal/engine"
	"echoes-server/internal/infrastructure/storage"
	"echoes-server/internal/server"
	"echoes-server/internal/version"
	"echoes-server/pkg/logger"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Конфиг из окружения, флаги поверх
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatal("Config error: ", err)
	}

	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Master seed (0 for random)")
	flag.StringVar(&cfg.Port, "port", cfg.Port, "HTTP port")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite journal path (empty disables storage)")
	resume := flag.Bool("resume", false, "Reopen unfinished rooms from stored snapshots")
	flag.Parse()

	logger.Log.Info("Starting Echoes host...")
	logger.Log.Info(version.String())

	engineCfg := cfg.Engine()
	logger.Log.Infof("🎲 Master Seed: %d", engineCfg.Seed)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Генератор контента. Без ключа сразу офлайн.
	var live content.Generator
	if cfg.LiveContent() {
		live = content.NewLLMGenerator(cfg.LLMAPIKey, cfg.LLMBaseURL, cfg.LLMModel)
		logger.Log.WithField("model", cfg.LLMModel).Info("Live content generator enabled")
	} else {
		logger.Log.Warn("No LLM key configured, using fallback content")
	}
	contentSvc := content.NewService(live, content.NewFallback(engineCfg.Seed),
		content.WithRetries(cfg.LLMRetries),
		content.WithInitialBackoff(cfg.LLMBackoff),
	)

	// 3. Журнал
	var (
		store   *storage.Store
		journal engine.Journal
	)
	if cfg.DBPath != "" {
		store, err = storage.Open(cfg.DBPath)
		if err != nil {
			logger.Log.Fatal("Storage error: ", err)
		}
		defer store.Close()
		journal = store
		logger.Log.WithField("path", cfg.DBPath).Info("Journal storage opened")
	}

	gameService := engine.NewService(ctx, engineCfg, contentSvc, journal)

	if *resume {
		if store == nil {
			logger.Log.Fatal("-resume needs storage, set -db")
		}
		resumeRooms(ctx, store, gameService)
	}

	// 4. Сервер до сигнала
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.New(gameService, cfg.Port).Run(gctx)
	})

	if err := g.Wait(); err != nil {
		logger.Log.Error("Server error: ", err)
		stop()
		if store != nil {
			_ = store.Close()
		}
		os.Exit(1)
	}
	logger.Log.Info("Done.")
}

// resumeRooms поднимает незавершенные партии из последних снимков
func resumeRooms(ctx context.Context, store *storage.Store, svc *engine.GameService) {
	codes, err := store.Rooms(ctx)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to list stored rooms")
		return
	}
	for _, code := range codes {
		session, err := store.LatestSnapshot(ctx, code)
		if err != nil {
			logger.Log.WithError(err).WithField("room", code).Warn("Skipping room")
			continue
		}
		if session.Phase.IsTerminal() {
			continue
		}
		if _, err := svc.Restore(session); err != nil {
			logger.Log.WithError(err).WithField("room", code).Warn("Failed to restore room")
		}
	}
}
