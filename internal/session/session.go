package session

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"latexorder-bot/internal/catalog"
	"latexorder-bot/internal/pricing"
	"latexorder-bot/internal/projector"
	"latexorder-bot/internal/ui"
	"latexorder-bot/internal/wizard"
)

var (
	ErrNotOnIntake        = errors.New("session: intake wizard is not open")
	ErrPageCountNotNumber = errors.New("session: page count must be a whole number")
)

// View renders a session to the user.
type View interface {
	Render(ctx context.Context, s *Session)
	// RenderTotal is called from the projector's run goroutine.
	RenderTotal(ctx context.Context, chatID int64, frame projector.Frame)
	Notify(ctx context.Context, chatID int64, message string, severity ui.Severity)
}

type Submitter interface {
	Submit(ctx context.Context, chatID int64, answers wizard.FormAnswers)
}

type Deps struct {
	Catalog           *catalog.Catalog
	View              View
	Submitter         Submitter
	AnimationDuration time.Duration
	NewTicker         projector.TickerFunc
	Logger            *zap.Logger
}

// Session is the state of one chat's ordering flow. Only the mounted
// screen's state exists: leaving the pricing screen discards the selection
// and stops the projector, leaving the intake screen discards the wizard.
type Session struct {
	chatID int64
	deps   Deps
	logger *zap.Logger

	screen    ui.Screen
	selection *pricing.Selection
	projector *projector.Projector
	gate      *pricing.Gate
	wizard    *wizard.Wizard
}

func New(chatID int64, deps Deps) *Session {
	if deps.Catalog == nil {
		deps.Catalog = catalog.Default()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Session{
		chatID: chatID,
		deps:   deps,
		logger: deps.Logger.With(zap.Int64("chat_id", chatID)),
		screen: ui.ScreenHome,
	}
}

func (s *Session) ChatID() int64 { return s.chatID }

func (s *Session) Screen() ui.Screen { return s.screen }

func (s *Session) Catalog() *catalog.Catalog { return s.deps.Catalog }

// Selection is nil unless the pricing screen is mounted.
func (s *Session) Selection() *pricing.Selection { return s.selection }

// Wizard is nil unless the intake screen is mounted.
func (s *Session) Wizard() *wizard.Wizard { return s.wizard }

func (s *Session) ActualTotal() int {
	if s.selection == nil {
		return 0
	}
	return pricing.ComputeActualTotal(s.deps.Catalog, s.selection)
}

func (s *Session) DisplayedTotal() int {
	if s.projector == nil {
		return 0
	}
	return s.projector.Displayed()
}

func (s *Session) CanProceed() bool {
	return s.selection != nil && pricing.CanProceed(s.selection)
}

// Navigate implements ui.Navigator.
func (s *Session) Navigate(ctx context.Context, to ui.Screen) {
	if !to.Valid() {
		s.logger.Warn("Navigation to unknown screen ignored", zap.String("screen", string(to)))
		return
	}

	from := s.screen
	s.unmount()
	s.screen = to
	s.mount(0)

	s.logger.Debug("Screen changed",
		zap.String("from", string(from)),
		zap.String("to", string(to)))

	s.deps.View.Render(ctx, s)
}

func (s *Session) SelectTier(ctx context.Context, id catalog.TierID) bool {
	if !s.onScreen(ui.ScreenPricing, "select_tier") {
		return false
	}
	if !s.selection.SelectTier(id) {
		s.logger.Debug("Unknown tier ignored", zap.String("tier", string(id)))
		return false
	}
	s.retotal(ctx)
	return true
}

func (s *Session) ToggleAddOn(ctx context.Context, id string) bool {
	if !s.onScreen(ui.ScreenPricing, "toggle_add_on") {
		return false
	}
	if !s.selection.ToggleAddOn(id) {
		s.logger.Debug("Unknown add-on ignored", zap.String("add_on", id))
		return false
	}
	s.retotal(ctx)
	return true
}

func (s *Session) Proceed(ctx context.Context) bool {
	if !s.onScreen(ui.ScreenPricing, "proceed") {
		return false
	}
	return s.gate.Proceed(ctx, s.selection)
}

// SetAnswer stores text as the answer to the active wizard step.
func (s *Session) SetAnswer(ctx context.Context, text string) error {
	if s.screen != ui.ScreenIntake || s.wizard == nil {
		return ErrNotOnIntake
	}

	switch s.wizard.Step() {
	case wizard.StepName:
		s.wizard.SetName(text)
	case wizard.StepEmail:
		s.wizard.SetEmail(strings.TrimSpace(text))
	case wizard.StepPageCount:
		// "500+" is how the upper bound is labelled
		n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(text), "+"))
		if err != nil {
			return ErrPageCountNotNumber
		}
		s.wizard.SetPageCount(n)
	case wizard.StepProjectNotes:
		s.wizard.SetProjectNotes(text)
	case wizard.StepAdditionalNotes:
		s.wizard.SetAdditionalNotes(text)
	}

	s.deps.View.Render(ctx, s)
	return nil
}

func (s *Session) Next(ctx context.Context) bool {
	if !s.onScreen(ui.ScreenIntake, "next") {
		return false
	}
	w := s.wizard
	if !w.Next(ctx) {
		return false
	}
	// On submit the wizard has already navigated away and rendered.
	if !w.Submitted() {
		s.deps.View.Render(ctx, s)
	}
	return true
}

func (s *Session) Back(ctx context.Context) bool {
	if !s.onScreen(ui.ScreenIntake, "back") {
		return false
	}
	if !s.wizard.Back() {
		return false
	}
	s.deps.View.Render(ctx, s)
	return true
}

// Teardown releases the mounted screen without rendering.
func (s *Session) Teardown() {
	s.unmount()
}

func (s *Session) onScreen(screen ui.Screen, action string) bool {
	if s.screen == screen {
		return true
	}
	s.logger.Debug("Action ignored on current screen",
		zap.String("action", action),
		zap.String("screen", string(s.screen)))
	return false
}

func (s *Session) retotal(ctx context.Context) {
	s.projector.Retarget(s.ActualTotal())
	s.deps.View.Render(ctx, s)
}

func (s *Session) unmount() {
	switch s.screen {
	case ui.ScreenPricing:
		if s.projector != nil {
			s.projector.Stop()
		}
		s.selection, s.projector, s.gate = nil, nil, nil
	case ui.ScreenIntake:
		s.wizard = nil
	}
}

func (s *Session) mount(initialTotal int) {
	switch s.screen {
	case ui.ScreenPricing:
		chatID, view := s.chatID, s.deps.View
		s.selection = pricing.NewSelection(s.deps.Catalog)
		s.projector = projector.New(projector.Options{
			Duration:  s.deps.AnimationDuration,
			Initial:   initialTotal,
			NewTicker: s.deps.NewTicker,
			Logger:    s.logger,
			Sink: func(f projector.Frame) {
				view.RenderTotal(context.Background(), chatID, f)
			},
		})
		s.gate = pricing.NewGate(s, chatNotifier{s}, s.logger)
	case ui.ScreenIntake:
		s.wizard = wizard.New(chatSubmitter{s}, s, s.logger)
	}
}

type chatNotifier struct {
	s *Session
}

func (n chatNotifier) Notify(ctx context.Context, message string, severity ui.Severity) {
	n.s.deps.View.Notify(ctx, n.s.chatID, message, severity)
}

type chatSubmitter struct {
	s *Session
}

func (c chatSubmitter) Submit(ctx context.Context, answers wizard.FormAnswers) {
	c.s.logger.Info("Order handed to submission",
		zap.Int("page_count", answers.PageCount))
	c.s.deps.Submitter.Submit(ctx, c.s.chatID, answers)
}
