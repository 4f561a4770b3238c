package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"cable-inspector/config"
	telegram "cable-inspector/internal/api"
	"cable-inspector/internal/container"
	"cable-inspector/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load config")
	}

	if cfg.TelegramToken == "" {
		logger.Logger.Fatal("TELEGRAM_TOKEN is required")
	}

	// Собираем сервисы приложения
	appContainer, err := container.New(cfg)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize container")
	}

	// Создаём бота
	bot, err := telegram.NewBot(cfg.TelegramToken, appContainer.SessionService, appContainer.InspectionService)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create bot")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Bot is running...")
	if err := bot.Run(ctx); err != nil {
		logger.WithError(err).Fatal("Bot error")
	}
	logger.Info("Bot stopped")
}
