package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"latexorder-bot/internal/catalog"
	"latexorder-bot/internal/pricing"
	"latexorder-bot/internal/wizard"
)

// BOT KEYBOARDS

func createHomeKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💰 Build my quote", callbackNavOrder),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📝 Start an order", callbackNavIntake),
		),
	)
}

func createPricingKeyboard(c *catalog.Catalog, sel *pricing.Selection) tgbotapi.InlineKeyboardMarkup {
	selected, _ := sel.Tier()

	var rows [][]tgbotapi.InlineKeyboardButton

	var tierRow []tgbotapi.InlineKeyboardButton
	for _, t := range c.Tiers() {
		label := tierTitle(t.ID)
		if t.ID == selected {
			label = "🔘 " + label
		}
		tierRow = append(tierRow, tgbotapi.NewInlineKeyboardButtonData(label, callbackTier+string(t.ID)))
		if len(tierRow) == 2 {
			rows = append(rows, tierRow)
			tierRow = nil
		}
	}
	if len(tierRow) > 0 {
		rows = append(rows, tierRow)
	}

	var addOnRow []tgbotapi.InlineKeyboardButton
	for _, a := range c.AddOns() {
		label := fmt.Sprintf("%s +$%d", a.Name, a.Price)
		if sel.HasAddOn(a.ID) {
			label = "☑️ " + label
		}
		addOnRow = append(addOnRow, tgbotapi.NewInlineKeyboardButtonData(label, callbackAddOn+a.ID))
		if len(addOnRow) == 2 {
			rows = append(rows, addOnRow)
			addOnRow = nil
		}
	}
	if len(addOnRow) > 0 {
		rows = append(rows, addOnRow)
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🏠 Home", callbackNavHome),
		tgbotapi.NewInlineKeyboardButtonData("Continue ➡️", callbackProceed),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func createIntakeKeyboard(w *wizard.Wizard) tgbotapi.InlineKeyboardMarkup {
	next := "Next ➡️"
	if w.IsLastStep() {
		next = "✅ Submit"
	}

	// Next is offered only once the step's answer is acceptable
	var nav []tgbotapi.InlineKeyboardButton
	if w.Step() > wizard.StepName {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("⬅️ Back", callbackWizardBack))
	}
	if w.CanProceed() {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData(next, callbackWizardNext))
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	if len(nav) > 0 {
		rows = append(rows, nav)
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🏠 Home", callbackNavHome),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func createConfirmationKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🏠 Back to Home", callbackNavHome),
			tgbotapi.NewInlineKeyboardButtonData("📝 Place Another Order", callbackNavIntake),
		),
	)
}

func createStatusKeyboard(orderID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Processing", fmt.Sprintf("%s%d:processing", callbackStatus, orderID)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", fmt.Sprintf("%s%d:cancelled", callbackStatus, orderID)),
		),
	)
}
