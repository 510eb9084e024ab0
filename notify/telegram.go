package notify

import (
	"fmt"
	"log/slog"

	"oikotie-scraper/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier pushes a Telegram message for every newly discovered
// listing. It is outbound only; delivery failures are logged, never
// propagated, so a flaky bot cannot break a fetch run.
type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	log    *slog.Logger
}

// NewNotifier creates a notifier for the given bot token and chat.
func NewNotifier(token string, chatID int64, log *slog.Logger) (*Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize bot: %w", err)
	}
	if log == nil {
		log = slog.Default()
	}
	log.Info("telegram notifier ready", "account", bot.Self.UserName)
	return &Notifier{bot: bot, chatID: chatID, log: log}, nil
}

// NotifyNewListing announces one new listing.
func (n *Notifier) NotifyNewListing(entry models.HouseEntry) {
	text := fmt.Sprintf("Found a new one!\n%s, %s\n%d € — %g m²\n%s",
		entry.Address, entry.City, entry.Price, entry.Size, entry.URL)

	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		n.log.Warn("failed to send notification", "id", entry.ID, "err", err)
	}
}
