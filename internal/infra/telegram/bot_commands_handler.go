// internal/infra/telegram/bot_commands_handler.go
package telegram

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"subscription_tracker_bot/internal/app"
	"subscription_tracker_bot/internal/domain/subscription"
	"subscription_tracker_bot/internal/infra/config"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// RegisterBotCommands wires the owner-facing command surface. Every command
// is restricted to the configured owner; the tracker is a single-user system.
func RegisterBotCommands(
	ctx context.Context,
	b *telebot.Bot,
	cfg *config.AppConfig,
	subs *app.SubscriptionService,
	reminders app.ReminderService,
	baseLogger *logrus.Entry,
) {
	commandLogger := baseLogger.WithField("handler_group", "owner_commands")

	ownerOnly := func(command string, handler func(c telebot.Context, logCtx *logrus.Entry) error) telebot.HandlerFunc {
		return func(c telebot.Context) error {
			senderID := c.Sender().ID
			logCtx := commandLogger.WithField("command", command).WithField("sender_id", senderID)
			if senderID != cfg.OwnerTelegramID {
				logCtx.Warn("Ignoring command from non-owner")
				return c.Send("This tracker belongs to someone else. Run your own instance to use it.")
			}
			logCtx.Info("Processing command")
			return handler(c, logCtx)
		}
	}

	b.Handle("/start", ownerOnly("/start", func(c telebot.Context, _ *logrus.Entry) error {
		return c.Send(fmt.Sprintf("Hi, %s! I track your subscriptions and remind you before payments are due. Use /help for the command list.", c.Sender().FirstName))
	}))

	b.Handle("/help", ownerOnly("/help", func(c telebot.Context, _ *logrus.Entry) error {
		var helpText strings.Builder
		helpText.WriteString("Available commands:\n\n")
		helpText.WriteString("`/add <name> <price> <cycle> <YYYY-MM-DD>`\n - Track a new subscription. Cycle is weekly, monthly, quarterly or yearly.\n\n")
		helpText.WriteString("`/list`\n - Show all subscriptions, soonest payment first.\n\n")
		helpText.WriteString("`/due`\n - Show subscriptions due within the reminder window.\n\n")
		helpText.WriteString("`/total`\n - Show monthly and annual portfolio totals.\n\n")
		helpText.WriteString("`/paid <name>`\n - Acknowledge a payment; moves the due date one cycle forward.\n\n")
		helpText.WriteString("`/remind <name>`\n - Send a reminder for one subscription right now.\n\n")
		helpText.WriteString("`/remove <name>`\n - Stop tracking a subscription.\n\n")
		helpText.WriteString("`/help`\n - Show this help message.")
		return c.Send(helpText.String(), &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
	}))

	b.Handle("/list", ownerOnly("/list", func(c telebot.Context, logCtx *logrus.Entry) error {
		all, err := subs.List(ctx)
		if err != nil {
			logCtx.WithError(err).Error("Failed to list subscriptions")
			return c.Send("Could not load your subscriptions. Please try again later.")
		}
		if len(all) == 0 {
			return c.Send("No subscriptions tracked yet. Add one with /add.")
		}

		sortByDueDate(all)
		var sb strings.Builder
		sb.WriteString("Your subscriptions:\n\n")
		for _, sub := range all {
			sb.WriteString(fmt.Sprintf("%s %s — %.2f %s, next payment %s%s\n",
				sub.Icon, sub.Name, sub.Price, sub.Cycle, sub.NextPayment, dueSuffix(subs, sub)))
		}
		sb.WriteString(fmt.Sprintf("\nTotal monthly: %.2f", subscription.PortfolioMonthlyTotal(all)))
		return c.Send(sb.String())
	}))

	b.Handle("/due", ownerOnly("/due", func(c telebot.Context, logCtx *logrus.Entry) error {
		all, err := subs.List(ctx)
		if err != nil {
			logCtx.WithError(err).Error("Failed to list subscriptions")
			return c.Send("Could not load your subscriptions. Please try again later.")
		}

		var sb strings.Builder
		count := 0
		for _, sub := range all {
			due, err := subscription.ParseDate(sub.NextPayment)
			if err != nil {
				continue
			}
			days := subscription.DaysUntil(subs.Now(), due)
			if days < 0 || days > cfg.ReminderWindowDays {
				continue
			}
			count++
			if days == 0 {
				sb.WriteString(fmt.Sprintf("%s %s — due today\n", sub.Icon, sub.Name))
			} else {
				sb.WriteString(fmt.Sprintf("%s %s — due in %d day(s)\n", sub.Icon, sub.Name, days))
			}
		}
		if count == 0 {
			return c.Send(fmt.Sprintf("Nothing due within the next %d days.", cfg.ReminderWindowDays))
		}
		return c.Send("Upcoming payments:\n\n" + sb.String())
	}))

	b.Handle("/total", ownerOnly("/total", func(c telebot.Context, logCtx *logrus.Entry) error {
		all, err := subs.List(ctx)
		if err != nil {
			logCtx.WithError(err).Error("Failed to list subscriptions")
			return c.Send("Could not load your subscriptions. Please try again later.")
		}
		return c.Send(fmt.Sprintf("Monthly total: %.2f\nAnnual total: %.2f",
			subscription.PortfolioMonthlyTotal(all), subscription.PortfolioAnnualTotal(all)))
	}))

	b.Handle("/add", ownerOnly("/add", func(c telebot.Context, logCtx *logrus.Entry) error {
		args := strings.Fields(c.Message().Payload)
		if len(args) < 4 {
			return c.Send("Usage: /add <name> <price> <cycle> <YYYY-MM-DD>")
		}
		// The name may contain spaces; the trailing three fields are fixed.
		name := strings.Join(args[:len(args)-3], " ")
		input := app.Input{
			Name:        name,
			Price:       args[len(args)-3],
			Cycle:       subscription.Cycle(strings.ToLower(args[len(args)-2])),
			NextPayment: args[len(args)-1],
		}

		sub, err := subs.Add(ctx, input)
		if err != nil {
			var vErr *app.ValidationError
			if errors.As(err, &vErr) {
				return c.Send("Could not add subscription: " + vErr.Error())
			}
			logCtx.WithError(err).Error("Failed to add subscription")
			return c.Send("Something went wrong adding the subscription. Please try again later.")
		}
		return c.Send(fmt.Sprintf("Tracking %s (%.2f %s), next payment %s.", sub.Name, sub.Price, sub.Cycle, sub.NextPayment))
	}))

	b.Handle("/paid", ownerOnly("/paid", func(c telebot.Context, logCtx *logrus.Entry) error {
		sub, reply := resolveByName(ctx, subs, c.Message().Payload, "/paid")
		if sub == nil {
			return c.Send(reply)
		}
		if err := subs.MarkPaid(ctx, sub.ID); err != nil {
			logCtx.WithError(err).WithField("subscription_id", sub.ID).Error("Failed to mark subscription paid")
			return c.Send("Something went wrong. Please try again later.")
		}
		return nil // confirmation arrives as a notification event
	}))

	b.Handle("/remind", ownerOnly("/remind", func(c telebot.Context, logCtx *logrus.Entry) error {
		sub, reply := resolveByName(ctx, subs, c.Message().Payload, "/remind")
		if sub == nil {
			return c.Send(reply)
		}
		if err := reminders.SendReminder(ctx, sub.ID); err != nil {
			logCtx.WithError(err).WithField("subscription_id", sub.ID).Error("Failed to send reminder")
			return c.Send("Something went wrong. Please try again later.")
		}
		return nil
	}))

	b.Handle("/remove", ownerOnly("/remove", func(c telebot.Context, logCtx *logrus.Entry) error {
		sub, reply := resolveByName(ctx, subs, c.Message().Payload, "/remove")
		if sub == nil {
			return c.Send(reply)
		}
		if err := subs.Remove(ctx, sub.ID); err != nil {
			logCtx.WithError(err).WithField("subscription_id", sub.ID).Error("Failed to remove subscription")
			return c.Send("Something went wrong. Please try again later.")
		}
		return nil
	}))
}

// resolveByName finds a subscription by case-insensitive name match. When it
// returns a nil subscription, the second value is the reply to send instead.
func resolveByName(ctx context.Context, subs *app.SubscriptionService, payload, command string) (*subscription.Subscription, string) {
	name := strings.TrimSpace(payload)
	if name == "" {
		return nil, fmt.Sprintf("Usage: %s <name>", command)
	}
	all, err := subs.List(ctx)
	if err != nil {
		return nil, "Could not load your subscriptions. Please try again later."
	}
	for _, sub := range all {
		if strings.EqualFold(sub.Name, name) {
			return sub, ""
		}
	}
	return nil, fmt.Sprintf("No subscription named %q. Use /list to see what is tracked.", name)
}

func sortByDueDate(subs []*subscription.Subscription) {
	sort.SliceStable(subs, func(i, j int) bool {
		di, errI := subscription.ParseDate(subs[i].NextPayment)
		dj, errJ := subscription.ParseDate(subs[j].NextPayment)
		if errI != nil {
			return false // unparseable dates sort last
		}
		if errJ != nil {
			return true
		}
		return di.Before(dj)
	})
}

func dueSuffix(subs *app.SubscriptionService, sub *subscription.Subscription) string {
	due, err := subscription.ParseDate(sub.NextPayment)
	if err != nil {
		return " (date unreadable)"
	}
	days := subscription.DaysUntil(subs.Now(), due)
	switch {
	case days < 0:
		return fmt.Sprintf(" (overdue by %d day(s))", -days)
	case days == 0:
		return " (due today)"
	default:
		return fmt.Sprintf(" (in %d day(s))", days)
	}
}
