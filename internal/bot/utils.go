package bot

import (
	"fmt"
	"strings"

	"latexorder-bot/internal/catalog"
	"latexorder-bot/internal/pricing"
	"latexorder-bot/internal/storage"
	"latexorder-bot/internal/wizard"
)

const (
	homeText = "📄 Transform your handwritten notes into perfect LaTeX in 24 hours\n\n" +
		"Professional document conversion for students, researchers and academics. " +
		"From scribbles to publication-ready documents.\n\n" +
		"Build a quote to see what your project costs, or start an order right away."

	helpText = "ℹ️ Available commands:\n\n" +
		"/start - home screen\n" +
		"/order - build a price quote\n" +
		"/cancel - abandon the current step and go home\n" +
		"/help - this message\n\n" +
		"While filling in the order form just type your answer and press \"Next\"."

	confirmationText = "🎉 You're all set!\n\n" +
		"Your order has been received successfully. " +
		"We've sent you a confirmation email with further instructions and next steps.\n\n" +
		"Our team will review your request and get back to you shortly."

	pageCountHint = "Please send the page count as a whole number between 1 and 500"
)

// FormatPricing renders the pricing screen without its total line.
func FormatPricing(c *catalog.Catalog, sel *pricing.Selection) string {
	var sb strings.Builder
	sb.WriteString("💰 Build your quote\n\nPage tier:\n")

	selected, _ := sel.Tier()
	for _, t := range c.Tiers() {
		mark := "▫️"
		if t.ID == selected {
			mark = "🔘"
		}
		fmt.Fprintf(&sb, "%s %s (%s) · %s\n", mark, tierTitle(t.ID), t.Label, formatTierPrice(t))
	}

	sb.WriteString("\nAdd premium features:\n")
	for _, a := range c.AddOns() {
		mark := "▫️"
		if sel.HasAddOn(a.ID) {
			mark = "☑️"
		}
		fmt.Fprintf(&sb, "%s %s · +$%d\n   %s\n", mark, a.Name, a.Price, a.Description)
	}

	if selected == catalog.TierCustom {
		sb.WriteString("\nCustom projects are quoted individually. Pick a priced tier to order online.")
	}

	return strings.TrimRight(sb.String(), "\n")
}

// FormatTotal renders the running total; totals above the premium threshold
// are highlighted.
func FormatTotal(displayed, actual int) string {
	if pricing.IsPremium(actual) {
		return fmt.Sprintf("⭐ Total: $%d", displayed)
	}
	return fmt.Sprintf("Total: $%d", displayed)
}

func FormatIntakeStep(w *wizard.Wizard) string {
	a := w.Answers()

	var title, subtitle, value string
	switch w.Step() {
	case wizard.StepName:
		title, subtitle, value = "What's your name?", "Let's start with the basics", a.Name
	case wizard.StepEmail:
		title, subtitle, value = "Your email address", "We'll send updates here", a.Email
	case wizard.StepPageCount:
		title, subtitle = "How many pages?", "Approximate number of pages to convert (1-500)"
		value = fmt.Sprintf("%d pages", a.PageCount)
	case wizard.StepProjectNotes:
		title, subtitle, value = "Tell us about your project", "What kind of documents are you converting?", a.ProjectNotes
	case wizard.StepAdditionalNotes:
		title, subtitle, value = "Any additional notes?", "Optional - Anything else we should know?", a.AdditionalNotes
	}

	if strings.TrimSpace(value) == "" {
		value = "not set yet"
	}

	text := fmt.Sprintf("📝 Step %d of %d · %d%%\n\n%s\n%s\n\nCurrent answer: %s",
		w.Step(), wizard.TotalSteps, w.Progress(), title, subtitle, value)
	if !w.CanProceed() {
		text += "\n\n👉 " + StepHint(w.Step())
	}
	return text
}

// StepHint tells the user what the active step still needs.
func StepHint(step wizard.Step) string {
	switch step {
	case wizard.StepName:
		return "Please enter your name"
	case wizard.StepEmail:
		return "Please enter a valid email address"
	case wizard.StepProjectNotes:
		return "Please describe your project"
	}
	return "Please complete this step"
}

func FormatOrderNotification(order storage.Order) string {
	additional := order.AdditionalNotes
	if additional == "" {
		additional = "-"
	}
	return fmt.Sprintf(
		"📦 New order #%d\n\n"+
			"Reference: %s\n"+
			"Name: %s\n"+
			"Email: %s\n"+
			"Pages: %d\n"+
			"──────────────────\n"+
			"Project: %s\n"+
			"Notes: %s\n"+
			"──────────────────\n"+
			"User: %d\n"+
			"Status: %s\n"+
			"Date: %s",
		order.ID,
		order.Reference,
		order.Name,
		order.Email,
		order.PageCount,
		order.ProjectNotes,
		additional,
		order.UserID,
		order.Status,
		order.CreatedAt.Format("02.01.2006 15:04"),
	)
}

func FormatChannelNotification(order storage.Order) string {
	return fmt.Sprintf("📦 New order #%d · %d pages · %s", order.ID, order.PageCount, order.Email)
}

func tierTitle(id catalog.TierID) string {
	switch id {
	case catalog.TierStarter:
		return "Starter"
	case catalog.TierStandard:
		return "Standard"
	case catalog.TierProfessional:
		return "Professional"
	case catalog.TierCustom:
		return "Custom"
	}
	return string(id)
}

func formatTierPrice(t catalog.Tier) string {
	if t.CustomQuote() {
		return "custom quote"
	}
	return fmt.Sprintf("$%d", t.Price)
}

var statusTitles = map[string]string{
	storage.StatusNew:        "New",
	storage.StatusProcessing: "Processing",
	storage.StatusCompleted:  "Completed",
	storage.StatusCancelled:  "Cancelled",
}
