package controller

import "admin-console/internal/models"

// ToastKind distinguishes success and error notifications.
type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
)

// Toast is a queued notification.
type Toast struct {
	Kind    ToastKind
	Message string
}

// State is the view state of one resource controller.
type State struct {
	Collection []models.Item
	Loading    bool
	LoadError  string
	// RefreshToken increments once per successful mutation. Every increment
	// is followed by exactly one list reload.
	RefreshToken int

	CreateOpen  bool
	EditOpen    bool
	ConfirmOpen bool

	CreateDraft  models.Draft
	EditDraft    models.Draft
	CreateErrors models.FieldErrors
	EditErrors   models.FieldErrors

	Creating bool
	Saving   bool
	Deleting bool

	Selected      models.Item
	PendingDelete string

	AuthExpired bool
	Toasts      []Toast
}

func (s State) clone() State {
	out := s
	out.Collection = append([]models.Item(nil), s.Collection...)
	out.CreateDraft = s.CreateDraft.Clone()
	out.EditDraft = s.EditDraft.Clone()
	out.CreateErrors = s.CreateErrors.Clone()
	out.EditErrors = s.EditErrors.Clone()
	if s.Selected != nil {
		out.Selected = make(models.Item, len(s.Selected))
		for k, v := range s.Selected {
			out.Selected[k] = v
		}
	}
	out.Toasts = append([]Toast(nil), s.Toasts...)
	return out
}

func (s *State) toast(kind ToastKind, msg string) {
	s.Toasts = append(s.Toasts, Toast{Kind: kind, Message: msg})
}
