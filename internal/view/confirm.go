package view

// DefaultCancelLabel is the cancel button text when none is given.
const DefaultCancelLabel = "Cancel"

// ConfirmDialog is the view model of the generic confirm dialog.
type ConfirmDialog struct {
	Open         bool
	Title        string
	Description  string
	Confirming   bool
	ConfirmLabel string
	CancelLabel  string
	ConfirmURL   string
	CancelURL    string
	Target       string
}

// ConfirmText is the confirm button text.
func (d ConfirmDialog) ConfirmText() string {
	if d.Confirming {
		return BusyLabel
	}
	return d.ConfirmLabel
}

// CancelText is the cancel button text.
func (d ConfirmDialog) CancelText() string {
	if d.CancelLabel == "" {
		return DefaultCancelLabel
	}
	return d.CancelLabel
}
