// Package telegram delivers critical-report alerts over the Telegram Bot
// API. Chats opt in with /subscribe, optionally limited to locations, and
// the bot relays every critical report from the store's live feed.
package telegram

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/lib/pq"

	"dispatchgo/backend/internal/models"
	"dispatchgo/backend/internal/storage"
)

// BotService polls Telegram for subscription commands and pushes alerts.
type BotService struct {
	BotAPI  *tgbotapi.BotAPI
	Storage storage.Storage
}

// NewBotService creates a new BotService instance.
func NewBotService(token string, s storage.Storage) (*BotService, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	bot.Debug = false
	log.Printf("✅ Authorized on account %s", bot.Self.UserName)

	return &BotService{BotAPI: bot, Storage: s}, nil
}

// Run is the update loop handling subscription commands.
func (s *BotService) Run() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	for update := range s.BotAPI.GetUpdatesChan(u) {
		if update.Message == nil || !update.Message.IsCommand() {
			continue
		}
		s.handleCommand(update.Message)
	}
}

func (s *BotService) handleCommand(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start", "help":
		s.reply(chatID, "Use /subscribe [location ...] to receive critical incident alerts, /unsubscribe to stop. Without locations you get every critical report.")

	case "subscribe":
		locations := strings.Fields(msg.CommandArguments())
		subscriber := &models.Subscriber{
			ChatID:    chatID,
			Locations: pq.StringArray(locations),
		}
		if err := s.Storage.SaveSubscriber(subscriber); err != nil {
			s.reply(chatID, "Failed to save your subscription, please try again later.")
			return
		}
		if len(locations) == 0 {
			s.reply(chatID, "Subscribed to critical alerts for all locations.")
		} else {
			s.reply(chatID, "Subscribed to critical alerts for: "+strings.Join(locations, ", "))
		}

	case "unsubscribe":
		if err := s.Storage.DeleteSubscriber(chatID); err != nil {
			s.reply(chatID, "Failed to remove your subscription, please try again later.")
			return
		}
		s.reply(chatID, "Unsubscribed. You will no longer receive alerts.")
	}
}

func (s *BotService) reply(chatID int64, text string) {
	if _, err := s.BotAPI.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Printf("ERROR: Failed to send Telegram reply to %d: %v", chatID, err)
	}
}

// ListenReports relays critical reports from the store's feed to
// subscribed chats. It blocks until the feed closes.
func (s *BotService) ListenReports(ctx context.Context) {
	pubsub := s.Storage.SubscribeReports(ctx)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var r models.Report
		if err := json.Unmarshal([]byte(msg.Payload), &r); err != nil {
			log.Printf("ERROR: Failed to decode feed payload for alerting: %v", err)
			continue
		}
		if r.Severity != models.SeverityCritical {
			continue
		}
		s.dispatchAlert(r)
	}
}

func (s *BotService) dispatchAlert(r models.Report) {
	subscribers, err := s.Storage.GetSubscribers()
	if err != nil {
		log.Printf("ERROR: Failed to load subscribers for report %s: %v", r.ID, err)
		return
	}

	text := formatAlert(r)
	for _, subscriber := range subscribers {
		if !subscriberWatches(subscriber, r.Location) {
			continue
		}
		msg := tgbotapi.NewMessage(subscriber.ChatID, text)
		msg.ParseMode = tgbotapi.ModeMarkdown
		if _, err := s.BotAPI.Send(msg); err != nil {
			log.Printf("ERROR: Failed to send alert to chat %d: %v", subscriber.ChatID, err)
		}
	}
}
