// internal/infra/telegram/notifier.go
package telegram

import (
	"fmt"

	"subscription_tracker_bot/internal/domain/notify"

	"gopkg.in/telebot.v3"
)

// TelebotNotifier implements the notify.Notifier interface using the
// gopkg.in/telebot.v3 library. Every event is delivered as a message to the
// owner's chat.
type TelebotNotifier struct {
	bot         *telebot.Bot
	ownerChatID int64
}

func NewTelebotNotifier(b *telebot.Bot, ownerChatID int64) *TelebotNotifier {
	return &TelebotNotifier{bot: b, ownerChatID: ownerChatID}
}

// Notify sends the event's message to the owner, prefixed by a severity marker.
func (n *TelebotNotifier) Notify(event notify.Event) error {
	recipient := &telebot.User{ID: n.ownerChatID}
	_, err := n.bot.Send(recipient, fmt.Sprintf("%s %s", severityMarker(event.Severity), event.Message))
	return err
}

func severityMarker(severity notify.Severity) string {
	switch severity {
	case notify.SeveritySuccess:
		return "✅"
	case notify.SeverityWarning:
		return "⏰"
	case notify.SeverityError:
		return "❌"
	default:
		return "ℹ️"
	}
}
