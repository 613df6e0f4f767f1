package commands

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"

	"github.com/alexisbanda/AI-Image-Analyzer/api/internal/telegram"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Telegram bot (TELEGRAM_BOT_TOKEN)",
	RunE:  runBot,
}

func init() {
	rootCmd.AddCommand(botCmd)
}

func runBot(cmd *cobra.Command, args []string) error {
	if cfg.TelegramBotToken == "" {
		return errors.New("TELEGRAM_BOT_TOKEN is empty")
	}

	a, err := newApp(cfg, log, nil)
	if err != nil {
		return err
	}

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return err
	}
	bot.Debug = false

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return telegram.Run(ctx, bot, &telegram.Router{
		Bot:              bot,
		Pipeline:         a.pipeline,
		GeminiConfigured: cfg.GeminiConfigured(),
		Log:              log,
		MaxBytes:         cfg.MaxContentLength,
	})
}
