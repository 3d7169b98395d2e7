package bot

import (
	"context"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"latexorder-bot/internal/projector"
	"latexorder-bot/internal/session"
	"latexorder-bot/internal/ui"
)

// Sender is the subset of the Bot API used to talk to chats.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// priceMessage is the pricing screen message of one chat, edited in place.
type priceMessage struct {
	messageID int
	body      string
	markup    tgbotapi.InlineKeyboardMarkup
	text      string
	edited    time.Time
}

// chatView renders sessions into Telegram messages. Projector frames arrive
// on the projector goroutine, so the pricing message lives under its own lock
// and RenderTotal never reads the session.
type chatView struct {
	sender   Sender
	logger   *zap.Logger
	interval time.Duration
	now      func() time.Time

	mu     sync.Mutex
	prices map[int64]*priceMessage
}

var _ session.View = (*chatView)(nil)

func newChatView(sender Sender, interval time.Duration, logger *zap.Logger) *chatView {
	if interval <= 0 {
		interval = defaultRenderInterval
	}
	return &chatView{
		sender:   sender,
		logger:   logger,
		interval: interval,
		now:      time.Now,
		prices:   make(map[int64]*priceMessage),
	}
}

func (v *chatView) Render(ctx context.Context, s *session.Session) {
	chatID := s.ChatID()

	switch s.Screen() {
	case ui.ScreenHome:
		v.forget(chatID)
		msg := tgbotapi.NewMessage(chatID, homeText)
		msg.ReplyMarkup = createHomeKeyboard()
		v.send(msg)

	case ui.ScreenPricing:
		sel := s.Selection()
		body := FormatPricing(s.Catalog(), sel)
		markup := createPricingKeyboard(s.Catalog(), sel)
		text := body + "\n\n" + FormatTotal(s.DisplayedTotal(), s.ActualTotal())
		v.renderPricing(chatID, body, text, markup)

	case ui.ScreenIntake:
		v.forget(chatID)
		w := s.Wizard()
		if w == nil {
			return
		}
		msg := tgbotapi.NewMessage(chatID, FormatIntakeStep(w))
		msg.ReplyMarkup = createIntakeKeyboard(w)
		v.send(msg)

	case ui.ScreenConfirmation:
		v.forget(chatID)
		msg := tgbotapi.NewMessage(chatID, confirmationText)
		msg.ReplyMarkup = createConfirmationKeyboard()
		v.send(msg)
	}
}

func (v *chatView) renderPricing(chatID int64, body, text string, markup tgbotapi.InlineKeyboardMarkup) {
	v.mu.Lock()
	pm, ok := v.prices[chatID]
	if ok {
		pm.body, pm.markup, pm.text, pm.edited = body, markup, text, v.now()
		messageID := pm.messageID
		v.mu.Unlock()

		v.edit(chatID, messageID, text, markup)
		return
	}
	v.mu.Unlock()

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = markup
	sent, err := v.sender.Send(msg)
	if err != nil {
		v.logger.Error("Failed to send pricing message",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		return
	}

	v.mu.Lock()
	v.prices[chatID] = &priceMessage{
		messageID: sent.MessageID,
		body:      body,
		markup:    markup,
		text:      text,
		edited:    v.now(),
	}
	v.mu.Unlock()
}

// RenderTotal edits the pricing message's total line. Intermediate frames are
// throttled to one edit per interval; the final frame is always shown.
func (v *chatView) RenderTotal(_ context.Context, chatID int64, frame projector.Frame) {
	v.mu.Lock()
	pm, ok := v.prices[chatID]
	if !ok {
		v.mu.Unlock()
		return
	}

	now := v.now()
	text := pm.body + "\n\n" + FormatTotal(frame.Value, frame.Target)
	if text == pm.text || !shouldRender(pm.edited, now, v.interval, frame.Final) {
		v.mu.Unlock()
		return
	}
	pm.text, pm.edited = text, now
	messageID, markup := pm.messageID, pm.markup
	v.mu.Unlock()

	v.edit(chatID, messageID, text, markup)
}

func (v *chatView) Notify(_ context.Context, chatID int64, message string, severity ui.Severity) {
	v.send(tgbotapi.NewMessage(chatID, severityPrefix(severity)+message))
}

func (v *chatView) forget(chatID int64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.prices, chatID)
}

func (v *chatView) send(msg tgbotapi.MessageConfig) {
	if _, err := v.sender.Send(msg); err != nil {
		v.logger.Error("Failed to send message",
			zap.Int64("chat_id", msg.ChatID),
			zap.Error(err))
	}
}

func (v *chatView) edit(chatID int64, messageID int, text string, markup tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, markup)
	if _, err := v.sender.Request(edit); err != nil {
		if strings.Contains(err.Error(), "message is not modified") {
			return
		}
		v.logger.Error("Failed to edit pricing message",
			zap.Int64("chat_id", chatID),
			zap.Int("message_id", messageID),
			zap.Error(err))
	}
}

func shouldRender(last, now time.Time, interval time.Duration, final bool) bool {
	return final || now.Sub(last) >= interval
}

func severityPrefix(severity ui.Severity) string {
	switch severity {
	case ui.SeverityError:
		return "❌ "
	case ui.SeveritySuccess:
		return "✅ "
	case ui.SeverityWarning:
		return "⚠️ "
	}
	return "ℹ️ "
}
