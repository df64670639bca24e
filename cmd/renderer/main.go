package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/D-Sokol/schedule-bot/internal/app"
	"github.com/D-Sokol/schedule-bot/internal/config"
	"github.com/D-Sokol/schedule-bot/internal/queue"
	"github.com/D-Sokol/schedule-bot/internal/render"
	"github.com/D-Sokol/schedule-bot/internal/repository"
	"github.com/D-Sokol/schedule-bot/internal/store"
	"github.com/D-Sokol/schedule-bot/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	if cfg.FontsDir != "" {
		render.SetFontsDir(cfg.FontsDir)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	nc, js, err := app.ConnectNATS(ctx, cfg.NATSServers, logger)
	if err != nil {
		logger.Fatal("Failed to connect to NATS", zap.Error(err))
	}
	defer nc.Close()

	if err := queue.Setup(ctx, js); err != nil {
		logger.Fatal("Failed to set up streams", zap.Error(err))
	}

	assets, err := store.OpenBucket(ctx, js, queue.AssetsBucket)
	if err != nil {
		logger.Fatal("Failed to open assets bucket", zap.Error(err))
	}
	rendered, err := store.OpenBucket(ctx, js, queue.RenderedBucket)
	if err != nil {
		logger.Fatal("Failed to open rendered bucket", zap.Error(err))
	}

	// Реестр элементов опционален: без БД шаблоны со ссылками
	// на изображения по имени будут завершаться ошибкой данных
	var elements *repository.ElementRepository
	if cfg.DBDSN != "" {
		pool, err := pgxpool.New(ctx, cfg.DBDSN)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer pool.Close()

		migrator, err := app.NewMigrator(pool, cfg.MigrationsPath, logger)
		if err != nil {
			logger.Fatal("Failed to create migrator", zap.Error(err))
		}
		if err := migrator.Run(ctx); err != nil {
			logger.Fatal("Failed to apply migrations", zap.Error(err))
		}
		migrator.Close()

		elements = repository.NewElementRepository(pool)
	} else {
		logger.Warn("DB_DSN is not set, image lookup by name is disabled")
	}

	resolver := worker.NewElementResolver(assets, elements)
	rend := worker.NewRenderer(js, assets, rendered, resolver, logger)
	if err := rend.Run(ctx, js); err != nil {
		logger.Fatal("Renderer failed", zap.Error(err))
	}
}
