package bot

import "time"

const (
	callbackTier       = "tier:"
	callbackAddOn      = "addon:"
	callbackStatus     = "status:"
	callbackProceed    = "proceed"
	callbackWizardNext = "wizard:next"
	callbackWizardBack = "wizard:back"
	callbackNavHome    = "nav:home"
	callbackNavOrder   = "nav:order"
	callbackNavIntake  = "nav:intake"
)

const (
	CommandStart  = "start"
	CommandOrder  = "order"
	CommandHelp   = "help"
	CommandCancel = "cancel"
	CommandExport = "export"
	CommandStatus = "status"
)

const (
	defaultRenderInterval = time.Second
	updateTimeout         = 60
)
