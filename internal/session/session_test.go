package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"latexorder-bot/internal/catalog"
	"latexorder-bot/internal/pricing"
	"latexorder-bot/internal/projector"
	"latexorder-bot/internal/ui"
	"latexorder-bot/internal/wizard"
)

type fakeView struct {
	mu      sync.Mutex
	renders []ui.Screen
	frames  []projector.Frame
	notes   []string
}

func (v *fakeView) Render(_ context.Context, s *Session) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.renders = append(v.renders, s.Screen())
}

func (v *fakeView) RenderTotal(_ context.Context, _ int64, f projector.Frame) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.frames = append(v.frames, f)
}

func (v *fakeView) Notify(_ context.Context, _ int64, message string, _ ui.Severity) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.notes = append(v.notes, message)
}

type submitted struct {
	chatID  int64
	answers wizard.FormAnswers
}

type fakeSubmitter struct {
	calls []submitted
}

func (f *fakeSubmitter) Submit(_ context.Context, chatID int64, answers wizard.FormAnswers) {
	f.calls = append(f.calls, submitted{chatID: chatID, answers: answers})
}

// idleTicker never fires; it only records whether it was stopped.
type idleTicker struct {
	mu      sync.Mutex
	stopped bool
}

func (t *idleTicker) C() <-chan time.Time { return nil }

func (t *idleTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
}

type idleTickers struct {
	mu  sync.Mutex
	all []*idleTicker
}

func (f *idleTickers) New(time.Duration) projector.Ticker {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &idleTicker{}
	f.all = append(f.all, t)
	return t
}

func (f *idleTickers) allStopped() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.all {
		t.mu.Lock()
		stopped := t.stopped
		t.mu.Unlock()
		if !stopped {
			return false
		}
	}
	return true
}

type harness struct {
	view    *fakeView
	sub     *fakeSubmitter
	tickers *idleTickers
	deps    Deps
}

func newHarness() *harness {
	h := &harness{
		view:    &fakeView{},
		sub:     &fakeSubmitter{},
		tickers: &idleTickers{},
	}
	h.deps = Deps{
		Catalog:   catalog.Default(),
		View:      h.view,
		Submitter: h.sub,
		NewTicker: h.tickers.New,
	}
	return h
}

func TestNewSessionStartsHome(t *testing.T) {
	s := New(7, newHarness().deps)

	require.Equal(t, ui.ScreenHome, s.Screen())
	require.Nil(t, s.Selection())
	require.Nil(t, s.Wizard())
	require.Zero(t, s.ActualTotal())
}

func TestPricingTotalsFollowSelection(t *testing.T) {
	h := newHarness()
	s := New(7, h.deps)
	ctx := context.Background()

	s.Navigate(ctx, ui.ScreenPricing)
	require.True(t, s.SelectTier(ctx, catalog.TierStandard))
	require.True(t, s.ToggleAddOn(ctx, "rush"))
	require.Equal(t, 100, s.ActualTotal())

	require.True(t, s.ToggleAddOn(ctx, "rush"))
	require.Equal(t, 70, s.ActualTotal())

	require.False(t, s.ToggleAddOn(ctx, "gold-foil"))
	require.Equal(t, 70, s.ActualTotal())

	// one projector run per selection change
	require.Len(t, h.tickers.all, 3)
}

func TestProceedWithCustomTierNotifies(t *testing.T) {
	h := newHarness()
	s := New(7, h.deps)
	ctx := context.Background()

	s.Navigate(ctx, ui.ScreenPricing)
	s.SelectTier(ctx, catalog.TierCustom)

	require.False(t, s.Proceed(ctx))
	require.Equal(t, ui.ScreenPricing, s.Screen())
	require.Equal(t, []string{pricing.MsgSelectTier}, h.view.notes)
}

func TestLeavingPricingStopsProjector(t *testing.T) {
	h := newHarness()
	s := New(7, h.deps)
	ctx := context.Background()

	s.Navigate(ctx, ui.ScreenPricing)
	s.SelectTier(ctx, catalog.TierStarter)
	require.False(t, h.tickers.allStopped())

	require.True(t, s.Proceed(ctx))
	require.Equal(t, ui.ScreenIntake, s.Screen())
	require.True(t, h.tickers.allStopped())
	require.Nil(t, s.Selection())
	require.NotNil(t, s.Wizard())
}

func TestWizardDoesNotReceiveSelection(t *testing.T) {
	h := newHarness()
	s := New(7, h.deps)
	ctx := context.Background()

	s.Navigate(ctx, ui.ScreenPricing)
	s.SelectTier(ctx, catalog.TierProfessional)
	s.Proceed(ctx)

	require.Equal(t, wizard.FormAnswers{PageCount: wizard.DefaultPageCount}, s.Wizard().Answers())
	require.Zero(t, s.ActualTotal())
}

func TestIntakeFlowSubmits(t *testing.T) {
	h := newHarness()
	s := New(42, h.deps)
	ctx := context.Background()

	s.Navigate(ctx, ui.ScreenIntake)

	require.NoError(t, s.SetAnswer(ctx, "Ada"))
	require.True(t, s.Next(ctx))
	require.Equal(t, wizard.StepEmail, s.Wizard().Step())

	require.NoError(t, s.SetAnswer(ctx, "bad"))
	require.False(t, s.Next(ctx))
	require.Equal(t, wizard.StepEmail, s.Wizard().Step())

	require.NoError(t, s.SetAnswer(ctx, " ada@x.io "))
	require.True(t, s.Next(ctx))
	require.Equal(t, wizard.StepPageCount, s.Wizard().Step())

	require.ErrorIs(t, s.SetAnswer(ctx, "lots"), ErrPageCountNotNumber)
	require.NoError(t, s.SetAnswer(ctx, "500+"))
	require.True(t, s.Next(ctx))

	require.NoError(t, s.SetAnswer(ctx, "Thesis chapter"))
	require.True(t, s.Next(ctx))

	require.True(t, s.Back(ctx))
	require.Equal(t, wizard.StepProjectNotes, s.Wizard().Step())
	require.True(t, s.Next(ctx))

	require.True(t, s.Next(ctx))
	require.Equal(t, ui.ScreenConfirmation, s.Screen())
	require.Nil(t, s.Wizard())
	require.Equal(t, []submitted{{
		chatID: 42,
		answers: wizard.FormAnswers{
			Name:         "Ada",
			Email:        "ada@x.io",
			PageCount:    500,
			ProjectNotes: "Thesis chapter",
		},
	}}, h.sub.calls)

	require.ErrorIs(t, s.SetAnswer(ctx, "late"), ErrNotOnIntake)
	require.False(t, s.Next(ctx))
}

func TestActionsOffScreenAreIgnored(t *testing.T) {
	h := newHarness()
	s := New(7, h.deps)
	ctx := context.Background()

	require.False(t, s.SelectTier(ctx, catalog.TierStarter))
	require.False(t, s.ToggleAddOn(ctx, "tikz"))
	require.False(t, s.Proceed(ctx))
	require.False(t, s.Next(ctx))
	require.False(t, s.Back(ctx))
	require.Empty(t, h.view.renders)
}

func TestNavigateToUnknownScreenIgnored(t *testing.T) {
	h := newHarness()
	s := New(7, h.deps)

	s.Navigate(context.Background(), ui.Screen("settings"))
	require.Equal(t, ui.ScreenHome, s.Screen())
	require.Empty(t, h.view.renders)
}

type memoryStore struct {
	snaps map[int64]Snapshot
	drops int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{snaps: make(map[int64]Snapshot)}
}

func (m *memoryStore) Load(_ context.Context, chatID int64) (*Snapshot, error) {
	snap, ok := m.snaps[chatID]
	if !ok {
		return nil, nil
	}
	return &snap, nil
}

func (m *memoryStore) Save(_ context.Context, chatID int64, snap Snapshot) error {
	m.snaps[chatID] = snap
	return nil
}

func (m *memoryStore) Drop(_ context.Context, chatID int64) error {
	delete(m.snaps, chatID)
	m.drops++
	return nil
}

func TestManagerResumesPricingSnapshot(t *testing.T) {
	h := newHarness()
	store := newMemoryStore()
	ctx := context.Background()

	m := NewManager(h.deps, store)
	s := m.Get(ctx, 9)
	require.Same(t, s, m.Get(ctx, 9))

	s.Navigate(ctx, ui.ScreenPricing)
	s.SelectTier(ctx, catalog.TierStandard)
	s.ToggleAddOn(ctx, "tikz")
	m.Persist(ctx, s)
	m.Close()

	restarted := NewManager(h.deps, store)
	resumed := restarted.Get(ctx, 9)
	defer restarted.Close()

	require.Equal(t, ui.ScreenPricing, resumed.Screen())
	tier, ok := resumed.Selection().Tier()
	require.True(t, ok)
	require.Equal(t, catalog.TierStandard, tier)
	require.Equal(t, []string{"tikz"}, resumed.Selection().AddOns())
	require.Equal(t, 90, resumed.ActualTotal())
	require.Equal(t, 90, resumed.DisplayedTotal())
}

func TestManagerResumesIntakeSnapshot(t *testing.T) {
	h := newHarness()
	store := newMemoryStore()
	ctx := context.Background()

	m := NewManager(h.deps, store)
	s := m.Get(ctx, 3)
	s.Navigate(ctx, ui.ScreenIntake)
	s.SetAnswer(ctx, "Ada")
	s.Next(ctx)
	m.Persist(ctx, s)

	resumed := NewManager(h.deps, store).Get(ctx, 3)
	require.Equal(t, ui.ScreenIntake, resumed.Screen())
	require.Equal(t, wizard.StepEmail, resumed.Wizard().Step())
	require.Equal(t, "Ada", resumed.Wizard().Answers().Name)
}

func TestManagerDropsSnapshotOffDialog(t *testing.T) {
	h := newHarness()
	store := newMemoryStore()
	ctx := context.Background()

	m := NewManager(h.deps, store)
	s := m.Get(ctx, 5)
	s.Navigate(ctx, ui.ScreenPricing)
	m.Persist(ctx, s)
	require.Contains(t, store.snaps, int64(5))

	s.Navigate(ctx, ui.ScreenHome)
	m.Persist(ctx, s)
	require.NotContains(t, store.snaps, int64(5))
	require.Equal(t, 1, store.drops)
}
