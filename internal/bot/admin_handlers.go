package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"latexorder-bot/internal/storage"
)

func (b *Bot) isAdmin(msg *tgbotapi.Message) bool {
	return msg.From != nil && b.cfg.IsAdmin(msg.From.ID)
}

func (b *Bot) handleExport(ctx context.Context, msg *tgbotapi.Message) {
	if !b.isAdmin(msg) {
		return
	}
	chatID := msg.Chat.ID

	args := strings.Fields(msg.CommandArguments())
	if len(args) == 0 {
		b.handleExportAllOrders(ctx, chatID)
		return
	}

	orderID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		b.sendError(chatID, "Invalid order ID format")
		return
	}
	b.handleExportSingleOrder(ctx, chatID, orderID)
}

func (b *Bot) handleStatus(ctx context.Context, msg *tgbotapi.Message) {
	if !b.isAdmin(msg) {
		return
	}
	chatID := msg.Chat.ID

	args := strings.Fields(msg.CommandArguments())
	if len(args) < 2 {
		b.sendError(chatID, "Usage: /status <order_id> <new_status>")
		return
	}

	orderID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		b.sendError(chatID, "Invalid order ID format")
		return
	}
	b.updateStatus(ctx, chatID, orderID, args[1])
}

func (b *Bot) updateStatus(ctx context.Context, chatID int64, orderID int64, newStatus string) {
	if !storage.ValidStatus(newStatus) {
		b.sendError(chatID, "Invalid status. Allowed values: new, processing, completed, cancelled")
		return
	}

	if err := b.orders.UpdateOrderStatus(ctx, orderID, newStatus); err != nil {
		if errors.Is(err, storage.ErrOrderNotFound) {
			b.sendError(chatID, fmt.Sprintf("Order #%d not found", orderID))
			return
		}
		b.logger.Error("Failed to update order status",
			zap.Int64("order_id", orderID),
			zap.String("status", newStatus),
			zap.Error(err))
		b.sendError(chatID, "Failed to update status")
		return
	}

	b.sendMessage(tgbotapi.NewMessage(chatID, fmt.Sprintf(
		"✅ Order #%d status changed to: %s", orderID, statusTitles[newStatus])))

	// Notify user if possible
	order, err := b.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		b.logger.Warn("Failed to load order for user notification",
			zap.Int64("order_id", orderID),
			zap.Error(err))
		return
	}
	userMsg := tgbotapi.NewMessage(order.UserID, fmt.Sprintf(
		"ℹ️ Your order #%d status changed to: %s", orderID, statusTitles[newStatus]))
	if _, err := b.sender.Send(userMsg); err != nil {
		b.logger.Warn("Failed to notify user about status change",
			zap.Int64("user_id", order.UserID),
			zap.Error(err))
	}
}

func (b *Bot) handleExportAllOrders(ctx context.Context, chatID int64) {
	orders, err := b.orders.ListOrders(ctx)
	if err != nil {
		b.logger.Error("Failed to list orders", zap.Error(err))
		b.sendError(chatID, "Failed to export orders")
		return
	}

	filename := fmt.Sprintf("orders_report_%s", time.Now().Format("20060102"))
	path, err := b.exporter.ExportOrders(orders, filename)
	if err != nil {
		b.logger.Error("Failed to export all orders", zap.Error(err))
		b.sendError(chatID, "Failed to export orders")
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(path))
	doc.Caption = fmt.Sprintf("📊 All orders export (%d)", len(orders))

	if _, err := b.sender.Send(doc); err != nil {
		b.logger.Error("Failed to send Excel file", zap.Error(err))
		b.sendError(chatID, "Failed to send exported file")
	}
}

func (b *Bot) handleExportSingleOrder(ctx context.Context, chatID int64, orderID int64) {
	order, err := b.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		b.logger.Error("Failed to get order",
			zap.Int64("order_id", orderID),
			zap.Error(err))
		b.sendError(chatID, "Order not found")
		return
	}

	path, err := b.exporter.ExportOrder(*order)
	if err != nil {
		b.logger.Error("Failed to export order",
			zap.Int64("order_id", orderID),
			zap.Error(err))
		b.sendError(chatID, "Failed to export order")
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(path))
	doc.Caption = fmt.Sprintf("📊 Order #%d export", orderID)

	if _, err := b.sender.Send(doc); err != nil {
		b.logger.Error("Failed to send Excel file", zap.Error(err))
		b.sendError(chatID, "Failed to send exported file")
	}
}
