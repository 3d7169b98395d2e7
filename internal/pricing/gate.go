package pricing

import (
	"context"

	"go.uber.org/zap"

	"latexorder-bot/internal/ui"
)

const MsgSelectTier = "Please select a page tier to continue"

// Gate controls the transition from the pricing screen to the intake wizard.
type Gate struct {
	nav      ui.Navigator
	notifier ui.Notifier
	logger   *zap.Logger
}

func NewGate(nav ui.Navigator, notifier ui.Notifier, logger *zap.Logger) *Gate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{
		nav:      nav,
		notifier: notifier,
		logger:   logger,
	}
}

// Proceed navigates to the intake wizard when the selection allows it,
// otherwise it raises an error notification and stays put.
func (g *Gate) Proceed(ctx context.Context, s *Selection) bool {
	if !CanProceed(s) {
		tier, _ := s.Tier()
		g.logger.Debug("Proceed refused",
			zap.String("tier", string(tier)))
		g.notifier.Notify(ctx, MsgSelectTier, ui.SeverityError)
		return false
	}

	g.nav.Navigate(ctx, ui.ScreenIntake)
	return true
}
