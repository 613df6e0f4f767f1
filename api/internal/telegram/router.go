package telegram

import (
	"context"
	"errors"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/alexisbanda/AI-Image-Analyzer/api/internal/pipeline"
)

// maxMessageRunes keeps replies under Telegram's 4096 limit.
const maxMessageRunes = 3900

// API is the part of *tgbotapi.BotAPI the router needs.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetFileDirectURL(fileID string) (string, error)
}

type Router struct {
	Bot              API
	Pipeline         *pipeline.Pipeline
	GeminiConfigured bool
	Log              *zap.Logger
	// MaxBytes caps downloaded files; zero means config.MaxContentLength.
	MaxBytes         int64
	Download         func(ctx context.Context, url string) ([]byte, error)
}

func (r *Router) HandleCommand(upd tgbotapi.Update) {
	cid := upd.Message.Chat.ID
	switch upd.Message.Command() {
	case "start", "help":
		r.send(cid, "Envíame una foto (o una imagen como archivo: PNG, JPG, JPEG, GIF, BMP, WEBP) y te devuelvo un análisis detallado.\nComandos: /health")
	case "health":
		if r.GeminiConfigured {
			r.send(cid, "✅ OK: Gemini configurado")
		} else {
			r.send(cid, "⚠️ OK, pero GEMINI_API_KEY no está configurada")
		}
	default:
		r.send(cid, "Comando desconocido")
	}
}

func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.Message == nil || upd.Message.Chat == nil {
		return
	}
	msg := upd.Message

	switch {
	case msg.IsCommand():
		r.HandleCommand(upd)
	case len(msg.Photo) > 0:
		// largest size is last
		ph := msg.Photo[len(msg.Photo)-1]
		r.acceptImage(ctx, msg.Chat.ID, ph.FileID, "photo.jpg", "image/jpeg")
	case msg.Document != nil:
		r.acceptImage(ctx, msg.Chat.ID, msg.Document.FileID, msg.Document.FileName, msg.Document.MimeType)
	case msg.Text != "":
		r.send(msg.Chat.ID, "Envíame una imagen para analizarla.")
	}
}

// Run long-polls updates until ctx is done.
func Run(ctx context.Context, bot *tgbotapi.BotAPI, r *Router) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := bot.GetUpdatesChan(u)
	defer bot.StopReceivingUpdates()

	r.logger().Info("telegram bot started", zap.String("username", bot.Self.UserName))
	for {
		select {
		case <-ctx.Done():
			return nil
		case upd, ok := <-updates:
			if !ok {
				return errors.New("telegram: updates channel closed")
			}
			go r.HandleUpdate(ctx, upd)
		}
	}
}

func (r *Router) send(chatID int64, text string) {
	if _, err := r.Bot.Send(tgbotapi.NewMessage(chatID, truncate(text, maxMessageRunes))); err != nil {
		r.logger().Warn("telegram send failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (r *Router) logger() *zap.Logger {
	if r.Log == nil {
		return zap.NewNop()
	}
	return r.Log
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "…"
}
