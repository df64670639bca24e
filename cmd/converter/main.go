package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	"go.uber.org/zap"

	"github.com/D-Sokol/schedule-bot/internal/app"
	"github.com/D-Sokol/schedule-bot/internal/config"
	"github.com/D-Sokol/schedule-bot/internal/delivery"
	"github.com/D-Sokol/schedule-bot/internal/queue"
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

	if err := cfg.RequireTelegramToken(); err != nil {
		logger.Fatal("Invalid config", zap.Error(err))
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

	// GetMe здесь не нужен: воркер только скачивает файлы по file_id
	b, err := bot.New(cfg.TelegramToken, bot.WithSkipGetMe())
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	conv := worker.NewConverter(assets, delivery.NewTelegramFetcher(b), logger)
	if err := conv.Run(ctx, js); err != nil {
		logger.Fatal("Converter failed", zap.Error(err))
	}
}
