package bot

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"latexorder-bot/internal/storage"
)

func TestNotifyNewOrder(t *testing.T) {
	sender := &fakeSender{}
	n := NewAdminNotifier(sender, storage.NewExporter(t.TempDir()), []int64{10, 0, 20}, -1001, zap.NewNop())

	order := storage.Order{
		ID:        8,
		Reference: "ref-8",
		UserID:    42,
		Email:     "ada@x.io",
		PageCount: 30,
		Status:    storage.StatusNew,
		CreatedAt: time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC),
	}
	require.NoError(t, n.NotifyNewOrder(context.Background(), order))

	require.Len(t, sender.messages, 3)
	require.Equal(t, int64(-1001), sender.messages[0].chatID)
	require.Equal(t, "📦 New order #8 · 30 pages · ada@x.io", sender.messages[0].text)
	require.Equal(t, int64(10), sender.messages[1].chatID)
	require.Equal(t, int64(20), sender.messages[2].chatID)
	require.Equal(t, []int64{10, 20}, sender.docs)
}

func TestNotifyNewOrderWithoutChannel(t *testing.T) {
	sender := &fakeSender{}
	n := NewAdminNotifier(sender, nil, []int64{10}, 0, zap.NewNop())

	require.NoError(t, n.NotifyNewOrder(context.Background(), storage.Order{Reference: "ref"}))
	require.Len(t, sender.messages, 1)
	require.Empty(t, sender.docs)
}
