package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/D-Sokol/schedule-bot/internal/app"
	"github.com/D-Sokol/schedule-bot/internal/config"
	"github.com/D-Sokol/schedule-bot/internal/delivery"
	"github.com/D-Sokol/schedule-bot/internal/queue"
	"github.com/D-Sokol/schedule-bot/internal/render"
	"github.com/D-Sokol/schedule-bot/internal/repository"
	"github.com/D-Sokol/schedule-bot/internal/store"
	"github.com/D-Sokol/schedule-bot/internal/worker"
)

// Запускает все три воркера конвейера в одном процессе.
// Удобно для разработки и небольших установок; в остальном
// поведение идентично трём отдельным бинарникам.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	if err := cfg.RequireTelegramToken(); err != nil {
		logger.Fatal("Invalid config", zap.Error(err))
	}

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

	b, err := bot.New(cfg.TelegramToken, bot.WithSkipGetMe())
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	conv := worker.NewConverter(assets, delivery.NewTelegramFetcher(b), logger.Named("converter"))
	rend := worker.NewRenderer(js, assets, rendered, worker.NewElementResolver(assets, elements), logger.Named("renderer"))
	snd := worker.NewSender(rendered, delivery.NewTelegramDestination(b), logger.Named("sender"))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return conv.Run(gctx, js) })
	g.Go(func() error { return rend.Run(gctx, js) })
	g.Go(func() error { return snd.Run(gctx, js) })

	if err := g.Wait(); err != nil {
		logger.Fatal("Pipeline failed", zap.Error(err))
	}
}
