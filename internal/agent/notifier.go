package agent

import (
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/geo"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Deviation is what the agent tells the user about: the monitored position
// drifted from the configured default location.
type Deviation struct {
	DistanceKm float64
	Location   geo.Point
}

// Notifier raises a user-facing deviation notification.
type Notifier interface {
	NotifyDeviation(dev Deviation) error
}

// LogNotifier writes deviation notifications to the structured log. It is
// the fallback when no delivery channel is configured.
type LogNotifier struct{}

func (LogNotifier) NotifyDeviation(dev Deviation) error {
	slog.Warn("location deviation",
		"distance_km", dev.DistanceKm,
		"latitude", dev.Location.Latitude,
		"longitude", dev.Location.Longitude,
	)
	return nil
}

// TelegramNotifier delivers deviation notifications to a Telegram chat.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

func (n *TelegramNotifier) NotifyDeviation(dev Deviation) error {
	text := fmt.Sprintf(
		"⚠️ Location deviation detected\nDistance from default location: %.2f km\nCurrent position: %.5f, %.5f",
		dev.DistanceKm, dev.Location.Latitude, dev.Location.Longitude,
	)
	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram notification: %w", err)
	}
	return nil
}
