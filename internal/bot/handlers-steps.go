package bot

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"latexorder-bot/internal/session"
	"latexorder-bot/internal/ui"
)

// handleIntakeInput treats free text as the answer to the active wizard step.
func (b *Bot) handleIntakeInput(ctx context.Context, s *session.Session, text string) {
	err := s.SetAnswer(ctx, text)
	switch {
	case err == nil:
		return
	case errors.Is(err, session.ErrPageCountNotNumber):
		b.view.Notify(ctx, s.ChatID(), pageCountHint, ui.SeverityError)
	case errors.Is(err, session.ErrNotOnIntake):
		b.handleDefault(s.ChatID())
	default:
		b.logger.Error("Failed to store answer",
			zap.Int64("chat_id", s.ChatID()),
			zap.Error(err))
	}
}

func (b *Bot) handleDefault(chatID int64) {
	b.sendError(chatID, "I didn't get that. Use /order to build a quote or /help for commands")
}
