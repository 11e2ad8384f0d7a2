package view

import "admin-console/internal/models"

// BusyLabel replaces a button label while its action is in flight.
const BusyLabel = "Processing..."

// Field describes one form input.
type Field struct {
	ID          string
	Label       string
	InputKind   string
	Placeholder string
	Required    bool
	// ReadOnly fields display their value and are never submitted.
	ReadOnly bool
	// Format renders the value of a read-only field.
	Format func(value string) string
}

// FieldView is a field with its current value and error.
type FieldView struct {
	Field
	Value   string
	Display string
	Error   string
}

// FormActions are the endpoints a form dialog talks to.
type FormActions struct {
	Prefix    string
	SubmitURL string
	ChangeURL string
	CancelURL string
	Target    string
}

// FormDialog is the view model of the generic form dialog.
type FormDialog struct {
	Open        bool
	Title       string
	Fields      []FieldView
	General     string
	Submitting  bool
	SubmitLabel string
	Actions     FormActions
}

// NewFormDialog fills the fields from draft and errs.
func NewFormDialog(open bool, title string, fields []Field, draft models.Draft, errs models.FieldErrors, submitting bool, submitLabel string, actions FormActions) FormDialog {
	d := FormDialog{
		Open:        open,
		Title:       title,
		General:     errs[models.GeneralError],
		Submitting:  submitting,
		SubmitLabel: submitLabel,
		Actions:     actions,
	}
	d.Fields = make([]FieldView, len(fields))
	for i, f := range fields {
		v := draft[f.ID]
		display := v
		if f.ReadOnly && f.Format != nil && v != "" {
			display = f.Format(v)
		}
		d.Fields[i] = FieldView{Field: f, Value: v, Display: display, Error: errs[f.ID]}
	}
	return d
}

// ButtonLabel is the submit button text.
func (d FormDialog) ButtonLabel() string {
	if d.Submitting {
		return BusyLabel
	}
	return d.SubmitLabel
}

// ErrorID is the element id of a field's error slot.
func (d FormDialog) ErrorID(field string) string {
	return d.Actions.Prefix + "-error-" + field
}

// GeneralID is the element id of the general error banner.
func (d FormDialog) GeneralID() string {
	return d.Actions.Prefix + "-error-general"
}
