package bot

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"latexorder-bot/internal/storage"
	"latexorder-bot/internal/submission"
)

// AdminNotifier tells admins about new orders: a short post in the admin
// channel and, for every admin, the order details plus an Excel report.
type AdminNotifier struct {
	sender    Sender
	exporter  *storage.Exporter
	adminIDs  []int64
	channelID int64
	logger    *zap.Logger
}

var _ submission.AdminNotifier = (*AdminNotifier)(nil)

func NewAdminNotifier(sender Sender, exporter *storage.Exporter, adminIDs []int64, channelID int64, logger *zap.Logger) *AdminNotifier {
	return &AdminNotifier{
		sender:    sender,
		exporter:  exporter,
		adminIDs:  adminIDs,
		channelID: channelID,
		logger:    logger,
	}
}

func (n *AdminNotifier) NotifyNewOrder(ctx context.Context, order storage.Order) error {
	var errs []error

	if n.channelID != 0 {
		if _, err := n.sender.Send(tgbotapi.NewMessage(n.channelID, FormatChannelNotification(order))); err != nil {
			errs = append(errs, fmt.Errorf("channel %d: %w", n.channelID, err))
		}
	}

	for _, adminID := range n.adminIDs {
		if adminID == 0 {
			continue
		}
		if err := n.notifyAdmin(ctx, adminID, order); err != nil {
			errs = append(errs, fmt.Errorf("admin %d: %w", adminID, err))
		}
	}

	return errors.Join(errs...)
}

func (n *AdminNotifier) notifyAdmin(_ context.Context, chatID int64, order storage.Order) error {
	msg := tgbotapi.NewMessage(chatID, FormatOrderNotification(order))
	if order.ID != 0 {
		msg.ReplyMarkup = createStatusKeyboard(order.ID)
	}
	if _, err := n.sender.Send(msg); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}

	if n.exporter == nil {
		return nil
	}

	path, err := n.exporter.ExportOrder(order)
	if err != nil {
		n.logger.Error("Failed to create Excel file for order",
			zap.String("reference", order.Reference),
			zap.Error(err))
		return nil
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(path))
	doc.Caption = fmt.Sprintf("📊 Order #%d details", order.ID)
	if _, err := n.sender.Send(doc); err != nil {
		return fmt.Errorf("send document: %w", err)
	}
	return nil
}
