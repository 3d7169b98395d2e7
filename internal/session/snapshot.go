package session

import (
	"context"

	"latexorder-bot/internal/catalog"
	"latexorder-bot/internal/pricing"
	"latexorder-bot/internal/ui"
	"latexorder-bot/internal/wizard"
)

// Snapshot is the resumable part of a session, kept only while a dialog is
// in progress.
type Snapshot struct {
	Screen  ui.Screen           `json:"screen"`
	Tier    catalog.TierID      `json:"tier,omitempty"`
	AddOns  []string            `json:"add_ons,omitempty"`
	Step    wizard.Step         `json:"step,omitempty"`
	Answers *wizard.FormAnswers `json:"answers,omitempty"`
}

// Resumable reports whether the screen carries dialog state worth keeping.
func (s Snapshot) Resumable() bool {
	return s.Screen == ui.ScreenPricing || s.Screen == ui.ScreenIntake
}

type SnapshotStore interface {
	// Load returns nil without error when nothing is stored.
	Load(ctx context.Context, chatID int64) (*Snapshot, error)
	Save(ctx context.Context, chatID int64, snap Snapshot) error
	Drop(ctx context.Context, chatID int64) error
}

func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{Screen: s.screen}

	switch s.screen {
	case ui.ScreenPricing:
		if s.selection != nil {
			snap.Tier, _ = s.selection.Tier()
			snap.AddOns = s.selection.AddOns()
		}
	case ui.ScreenIntake:
		if s.wizard != nil {
			answers := s.wizard.Answers()
			snap.Step = s.wizard.Step()
			snap.Answers = &answers
		}
	}
	return snap
}

// restore mounts the snapshot's screen without rendering. The projector
// starts settled on the restored total.
func (s *Session) restore(snap Snapshot) {
	if !snap.Resumable() {
		return
	}

	s.unmount()
	s.screen = snap.Screen

	switch snap.Screen {
	case ui.ScreenPricing:
		sel := pricing.NewSelection(s.deps.Catalog)
		sel.Restore(snap.Tier, snap.AddOns)
		s.mount(pricing.ComputeActualTotal(s.deps.Catalog, sel))
		s.selection = sel
	case ui.ScreenIntake:
		s.mount(0)
		answers := wizard.FormAnswers{PageCount: wizard.DefaultPageCount}
		if snap.Answers != nil {
			answers = *snap.Answers
		}
		s.wizard.Restore(snap.Step, answers)
	}
}
