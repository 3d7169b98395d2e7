package bot

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"latexorder-bot/internal/catalog"
	"latexorder-bot/internal/session"
	"latexorder-bot/internal/ui"
)

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	b.navigate(ctx, msg.Chat.ID, ui.ScreenHome)
}

func (b *Bot) handleOrder(ctx context.Context, msg *tgbotapi.Message) {
	b.navigate(ctx, msg.Chat.ID, ui.ScreenPricing)
}

func (b *Bot) handleCancel(ctx context.Context, msg *tgbotapi.Message) {
	b.navigate(ctx, msg.Chat.ID, ui.ScreenHome)
}

func (b *Bot) handleHelp(_ context.Context, msg *tgbotapi.Message) {
	b.sendMessage(tgbotapi.NewMessage(msg.Chat.ID, helpText))
}

func (b *Bot) navigate(ctx context.Context, chatID int64, to ui.Screen) {
	s := b.sessions.Get(ctx, chatID)
	s.Navigate(ctx, to)
	b.sessions.Persist(ctx, s)
}

func (b *Bot) dispatchCallback(ctx context.Context, s *session.Session, data string) {
	switch {
	case strings.HasPrefix(data, callbackTier):
		s.SelectTier(ctx, catalog.TierID(strings.TrimPrefix(data, callbackTier)))

	case strings.HasPrefix(data, callbackAddOn):
		s.ToggleAddOn(ctx, strings.TrimPrefix(data, callbackAddOn))

	case data == callbackProceed:
		s.Proceed(ctx)

	case data == callbackWizardNext:
		// stale buttons can still send next for an incomplete step
		s.Next(ctx)

	case data == callbackWizardBack:
		s.Back(ctx)

	default:
		screen, ok := navTarget(data)
		if !ok {
			b.logger.Warn("Unknown callback",
				zap.Int64("chat_id", s.ChatID()),
				zap.String("data", data))
			return
		}
		s.Navigate(ctx, screen)
	}
}

func navTarget(data string) (ui.Screen, bool) {
	switch data {
	case callbackNavHome:
		return ui.ScreenHome, true
	case callbackNavOrder:
		return ui.ScreenPricing, true
	case callbackNavIntake:
		return ui.ScreenIntake, true
	}
	return "", false
}

// parseStatusCallback splits "status:<order id>:<status>".
func parseStatusCallback(data string) (int64, string, bool) {
	rest, ok := strings.CutPrefix(data, callbackStatus)
	if !ok {
		return 0, "", false
	}
	idStr, status, ok := strings.Cut(rest, ":")
	if !ok {
		return 0, "", false
	}
	orderID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, "", false
	}
	return orderID, status, true
}
