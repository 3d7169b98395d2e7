package wizard

import (
	"context"
	"math"

	"go.uber.org/zap"

	"latexorder-bot/internal/ui"
)

type Step int

const (
	StepName Step = iota + 1
	StepEmail
	StepPageCount
	StepProjectNotes
	StepAdditionalNotes
)

const TotalSteps = 5

const (
	MinPageCount     = 1
	MaxPageCount     = 500
	DefaultPageCount = 50
)

func (s Step) String() string {
	switch s {
	case StepName:
		return "name"
	case StepEmail:
		return "email"
	case StepPageCount:
		return "page_count"
	case StepProjectNotes:
		return "project_notes"
	case StepAdditionalNotes:
		return "additional_notes"
	}
	return "unknown"
}

type FormAnswers struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	PageCount       int    `json:"page_count"`
	ProjectNotes    string `json:"project_notes"`
	AdditionalNotes string `json:"additional_notes,omitempty"`
}

// Submitter receives the completed answers. Delivery is fire-and-forget.
type Submitter interface {
	Submit(ctx context.Context, answers FormAnswers)
}

// Wizard is a linear five-step intake form. Forward motion is gated by the
// active step's predicate; backward motion is free down to the first step.
type Wizard struct {
	step      Step
	answers   FormAnswers
	submitted bool

	submitter Submitter
	nav       ui.Navigator
	logger    *zap.Logger
}

func New(submitter Submitter, nav ui.Navigator, logger *zap.Logger) *Wizard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Wizard{
		step:      StepName,
		answers:   FormAnswers{PageCount: DefaultPageCount},
		submitter: submitter,
		nav:       nav,
		logger:    logger,
	}
}

func (w *Wizard) Step() Step { return w.step }

func (w *Wizard) Answers() FormAnswers { return w.answers }

func (w *Wizard) Submitted() bool { return w.submitted }

func (w *Wizard) IsLastStep() bool { return w.step == TotalSteps }

func (w *Wizard) SetName(v string) { w.answers.Name = v }

func (w *Wizard) SetEmail(v string) { w.answers.Email = v }

func (w *Wizard) SetProjectNotes(v string) { w.answers.ProjectNotes = v }

func (w *Wizard) SetAdditionalNotes(v string) { w.answers.AdditionalNotes = v }

// SetPageCount clamps n into the supported range.
func (w *Wizard) SetPageCount(n int) {
	w.answers.PageCount = clampPageCount(n)
}

// Progress is the completion percentage of the active step.
func (w *Wizard) Progress() int {
	return int(math.Round(float64(w.step) / TotalSteps * 100))
}

// CanProceed evaluates the active step's predicate.
func (w *Wizard) CanProceed() bool {
	switch w.step {
	case StepName:
		return IsNonBlank(w.answers.Name)
	case StepEmail:
		return IsValidEmail(w.answers.Email)
	case StepPageCount:
		return true
	case StepProjectNotes:
		return IsNonBlank(w.answers.ProjectNotes)
	case StepAdditionalNotes:
		return true
	}
	return false
}

// Next advances one step, or submits on the last one. It reports whether a
// transition happened.
func (w *Wizard) Next(ctx context.Context) bool {
	if w.submitted || !w.CanProceed() {
		return false
	}

	if w.step < TotalSteps {
		w.step++
		w.logger.Debug("Wizard advanced",
			zap.Stringer("step", w.step),
			zap.Int("progress", w.Progress()))
		return true
	}

	w.submitted = true
	w.submitter.Submit(ctx, w.answers)
	w.nav.Navigate(ctx, ui.ScreenConfirmation)
	return true
}

func (w *Wizard) Back() bool {
	if w.submitted || w.step <= StepName {
		return false
	}
	w.step--
	return true
}

// Restore resumes a wizard from a snapshot.
func (w *Wizard) Restore(step Step, answers FormAnswers) {
	if step < StepName {
		step = StepName
	}
	if step > TotalSteps {
		step = TotalSteps
	}
	answers.PageCount = clampPageCount(answers.PageCount)
	w.step = step
	w.answers = answers
	w.submitted = false
}

func clampPageCount(n int) int {
	if n < MinPageCount {
		return MinPageCount
	}
	if n > MaxPageCount {
		return MaxPageCount
	}
	return n
}
