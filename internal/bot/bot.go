package bot

import (
	"context"
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"latexorder-bot/internal/catalog"
	"latexorder-bot/internal/config"
	"latexorder-bot/internal/projector"
	"latexorder-bot/internal/session"
	"latexorder-bot/internal/storage"
)

// OrderStore is what admin commands need from order storage.
type OrderStore interface {
	GetOrderByID(ctx context.Context, orderID int64) (*storage.Order, error)
	ListOrders(ctx context.Context) ([]storage.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, status string) error
}

type Deps struct {
	Catalog   *catalog.Catalog
	Submitter session.Submitter
	Snapshots session.SnapshotStore
	Orders    OrderStore
	Exporter  *storage.Exporter
	NewTicker projector.TickerFunc
}

type Bot struct {
	bot      *tgbotapi.BotAPI
	sender   Sender
	logger   *zap.Logger
	cfg      *config.Config
	sessions *session.Manager
	view     *chatView
	orders   OrderStore
	exporter *storage.Exporter
	mu       sync.Mutex
	handlers map[string]func(context.Context, *tgbotapi.Message)
}

// NewAPI authorizes the bot token.
func NewAPI(token string, debug bool, logger *zap.Logger) (*tgbotapi.BotAPI, error) {
	botAPI, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}

	botAPI.Debug = debug

	logger.Info("Bot authorized",
		zap.String("username", botAPI.Self.UserName),
		zap.Int64("id", botAPI.Self.ID))

	return botAPI, nil
}

func New(botAPI *tgbotapi.BotAPI, cfg *config.Config, deps Deps, logger *zap.Logger) *Bot {
	b := newBot(botAPI, cfg, deps, logger)
	b.bot = botAPI
	return b
}

func newBot(sender Sender, cfg *config.Config, deps Deps, logger *zap.Logger) *Bot {
	view := newChatView(sender, cfg.PriceRenderInterval, logger)

	b := &Bot{
		sender:   sender,
		logger:   logger,
		cfg:      cfg,
		view:     view,
		orders:   deps.Orders,
		exporter: deps.Exporter,
		sessions: session.NewManager(session.Deps{
			Catalog:           deps.Catalog,
			View:              view,
			Submitter:         deps.Submitter,
			AnimationDuration: cfg.PriceAnimationDuration,
			NewTicker:         deps.NewTicker,
			Logger:            logger,
		}, deps.Snapshots),
	}

	b.registerHandlers()
	return b
}

func (b *Bot) registerHandlers() {
	b.handlers = map[string]func(context.Context, *tgbotapi.Message){
		CommandStart:  b.handleStart,
		CommandOrder:  b.handleOrder,
		CommandHelp:   b.handleHelp,
		CommandCancel: b.handleCancel,
		CommandExport: b.handleExport,
		CommandStatus: b.handleStatus,
	}
}

func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("Starting bot")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = updateTimeout
	updates := b.bot.GetUpdatesChan(u)
	defer b.bot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Shutting down bot")
			b.sessions.Close()
			return nil

		case update := <-updates:
			b.handleUpdate(ctx, update)
		}
	}
}

// handleUpdate processes one update at a time; sessions are not safe for
// concurrent use.
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if update.Message != nil {
		b.processMessage(ctx, update.Message)
	} else if update.CallbackQuery != nil {
		b.processCallback(ctx, update.CallbackQuery)
	}
}

func (b *Bot) processMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	b.logger.Debug("Processing message",
		zap.Int64("chat_id", chatID),
		zap.String("text", msg.Text))

	if msg.IsCommand() {
		if handler, exists := b.handlers[msg.Command()]; exists {
			handler(ctx, msg)
		} else {
			b.sendError(chatID, "Unknown command. Use /help to see what I can do")
		}
		return
	}

	s := b.sessions.Get(ctx, chatID)
	b.handleIntakeInput(ctx, s, msg.Text)
	b.sessions.Persist(ctx, s)
}

func (b *Bot) processCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	if _, err := b.sender.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		b.logger.Warn("Failed to answer callback", zap.Error(err))
	}

	if callback.Message == nil {
		return
	}
	chatID := callback.Message.Chat.ID

	b.logger.Debug("Processing callback",
		zap.Int64("chat_id", chatID),
		zap.String("data", callback.Data))

	if orderID, status, ok := parseStatusCallback(callback.Data); ok {
		if callback.From != nil && b.cfg.IsAdmin(callback.From.ID) {
			b.updateStatus(ctx, chatID, orderID, status)
		}
		return
	}

	s := b.sessions.Get(ctx, chatID)
	b.dispatchCallback(ctx, s, callback.Data)
	b.sessions.Persist(ctx, s)
}

func (b *Bot) sendMessage(msg tgbotapi.MessageConfig) {
	if _, err := b.sender.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Int64("chat_id", msg.ChatID),
			zap.Error(err))
	}
}

func (b *Bot) sendError(chatID int64, text string) {
	b.sendMessage(tgbotapi.NewMessage(chatID, "❌ "+text))
}
