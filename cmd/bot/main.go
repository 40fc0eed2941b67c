package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"care-label-reader/config"
	"care-label-reader/internal/api/telegram"
	"care-label-reader/internal/container"
	"care-label-reader/internal/infrastructure/logging"
)

var Version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync(log)

	if cfg.TelegramToken == "" {
		log.Fatal("TELEGRAM_TOKEN is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Собираем сервисы приложения
	appContainer, err := container.Build(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to build container", zap.Error(err))
	}
	defer appContainer.Close()

	// Создаём бота
	bot, err := telegram.NewBot(cfg.TelegramToken, appContainer.UserService, appContainer.ReaderService, cfg.Pipeline.MaxSymbols, log)
	if err != nil {
		log.Fatal("failed to create bot", zap.Error(err))
	}

	log.Info("bot is running", zap.String("version", Version))
	if err := bot.Run(ctx); err != nil {
		log.Error("bot error", zap.Error(err))
	}
}
