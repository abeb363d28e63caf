package services

import (
	"context"
	"fmt"
	"html"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"luxera/internal/logger"
	"luxera/internal/models"
)

// Alerter pushes operational notices to staff. Alerts are best effort and
// must never block or fail the caller's flow.
type Alerter interface {
	DeliveryFailed(ctx context.Context, userID int64, method models.ResetMethod, cause error)
	ResetCompleted(ctx context.Context, userID int64, method models.ResetMethod)
}

type botSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type TelegramAlerter struct {
	bot    botSender
	chatID int64
	log    *logger.Logger
	wg     sync.WaitGroup
}

func NewTelegramAlerter(botToken string, chatID int64, log *logger.Logger) (*TelegramAlerter, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return newTelegramAlerter(bot, chatID, log), nil
}

func newTelegramAlerter(bot botSender, chatID int64, log *logger.Logger) *TelegramAlerter {
	if log == nil {
		log = logger.Nop()
	}
	return &TelegramAlerter{bot: bot, chatID: chatID, log: log.Component("tg")}
}

func (t *TelegramAlerter) DeliveryFailed(_ context.Context, userID int64, method models.ResetMethod, cause error) {
	text := fmt.Sprintf("⚠️ <b>Reset code delivery failed</b>\nuser_id: %d\nmethod: %s\nerror: %s\nat: %s",
		userID, method, html.EscapeString(cause.Error()), time.Now().UTC().Format(time.RFC3339))
	t.send(text)
}

func (t *TelegramAlerter) ResetCompleted(_ context.Context, userID int64, method models.ResetMethod) {
	text := fmt.Sprintf("🔑 <b>Password reset completed</b>\nuser_id: %d\nmethod: %s\nat: %s",
		userID, method, time.Now().UTC().Format(time.RFC3339))
	t.send(text)
}

func (t *TelegramAlerter) send(text string) {
	if t == nil || t.bot == nil || t.chatID == 0 {
		return
	}
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		msg := tgbotapi.NewMessage(t.chatID, text)
		msg.ParseMode = tgbotapi.ModeHTML
		msg.DisableWebPagePreview = true
		if _, err := t.bot.Send(msg); err != nil {
			t.log.Warn().Err(err).Int64("chat_id", t.chatID).Msg("[tg][send] failed")
		}
	}()
}

// Wait blocks until in-flight alerts finish. Used on shutdown.
func (t *TelegramAlerter) Wait() {
	t.wg.Wait()
}

type NopAlerter struct{}

func (NopAlerter) DeliveryFailed(context.Context, int64, models.ResetMethod, error) {}
func (NopAlerter) ResetCompleted(context.Context, int64, models.ResetMethod) {}
