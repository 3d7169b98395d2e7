package ui

import "context"

// Screen identifies one of the visible screens of the ordering flow.
type Screen string

const (
	ScreenHome         Screen = "home"
	ScreenPricing      Screen = "pricing"
	ScreenIntake       Screen = "intake"
	ScreenConfirmation Screen = "confirmation"
)

func (s Screen) Valid() bool {
	switch s {
	case ScreenHome, ScreenPricing, ScreenIntake, ScreenConfirmation:
		return true
	}
	return false
}

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Navigator switches the visible screen.
type Navigator interface {
	Navigate(ctx context.Context, to Screen)
}

// Notifier surfaces a transient user-visible alert.
type Notifier interface {
	Notify(ctx context.Context, message string, severity Severity)
}
