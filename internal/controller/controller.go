// Package controller implements the generic resource view controller: the
// list, create, edit and delete state machines of one backend collection for
// one browser session.
//
// State is guarded by a mutex. Backend calls run without holding it, so a
// slow request never blocks rendering; each in-flight flag rejects duplicate
// submissions with ErrBusy instead.
package controller

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"admin-console/internal/client"
	"admin-console/internal/models"
	"admin-console/internal/resource"
	"admin-console/internal/session"
	"admin-console/internal/view"
)

var (
	// ErrBusy is returned when the action's in-flight flag is already set.
	ErrBusy = errors.New("controller: action already in flight")
	// ErrClosed is returned by operations on a closed controller.
	ErrClosed = errors.New("controller: closed")
	// ErrAuthExpired is returned after a 401 or 403 cleared the session.
	ErrAuthExpired = errors.New("controller: authorization expired")
	// ErrUnknownRow is returned by ActivateRow for a key not in the collection.
	ErrUnknownRow = errors.New("controller: unknown row")
)

// API is the slice of the backend client a controller uses.
type API interface {
	List(ctx context.Context, endpoint string) ([]models.Item, error)
	Create(ctx context.Context, endpoint string, body map[string]any) (models.Item, error)
	Update(ctx context.Context, endpoint, id string, body map[string]any) error
	Delete(ctx context.Context, endpoint, id string) error
}

// Controller owns the view state of one resource.
type Controller struct {
	def     resource.Definition
	api     API
	session session.Provider
	logger  *slog.Logger

	mu       sync.Mutex
	state    State
	loadSeq  int
	closed   bool
	lastUsed time.Time

	// Dialog generations, bumped on every open and cancel. A submission only
	// touches its dialog while the generation it started under is current.
	createGen int
	editGen   int
	deleteGen int
}

// New creates a controller with empty drafts and no collection.
func New(def resource.Definition, api API, sess session.Provider, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		def:     def,
		api:     api,
		session: sess,
		logger:  logger.With("resource", def.Name),
		state: State{
			CreateDraft:  def.EmptyDraft(),
			EditDraft:    models.Draft{},
			CreateErrors: models.FieldErrors{},
			EditErrors:   models.FieldErrors{},
		},
		lastUsed: time.Now(),
	}
}

// Definition returns the resource the controller manages.
func (c *Controller) Definition() resource.Definition {
	return c.def
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastUsed = time.Now()
	return c.state.clone()
}

// TakeToasts returns and clears the queued notifications.
func (c *Controller) TakeToasts() []Toast {
	c.mu.Lock()
	defer c.mu.Unlock()
	toasts := c.state.Toasts
	c.state.Toasts = nil
	return toasts
}

// Close tears the controller down. Results of requests still in flight are
// dropped when they arrive.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *Controller) idleSince() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastUsed
}

// begin locks the controller and checks it is still open. On success the
// caller holds the lock.
func (c *Controller) begin() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.lastUsed = time.Now()
	return nil
}

// apply runs fn under the lock unless the controller was closed meanwhile.
func (c *Controller) apply(fn func(s *State)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	fn(&c.state)
	return true
}

// Load fetches the collection, replacing the cached copy wholesale. Only the
// most recent load may write its result.
func (c *Controller) Load(ctx context.Context) error {
	if err := c.begin(); err != nil {
		return err
	}
	c.loadSeq++
	seq := c.loadSeq
	c.state.Loading = true
	c.state.LoadError = ""
	c.mu.Unlock()

	items, err := c.api.List(ctx, c.def.Endpoint)

	authFailed := client.IsAuthFailure(err)
	if authFailed {
		c.clearSession(ctx)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || seq != c.loadSeq {
		return nil
	}
	defer func() { c.state.Loading = false }()

	if err != nil {
		c.logger.Warn("controller: load failed", "op", opLoad, "error", err)
		c.state.LoadError = loadFailedMessage(c.def)
		c.state.toast(ToastError, loadFailedToast(c.def))
		if authFailed {
			c.state.LoadError = MsgSessionExpired
			c.state.AuthExpired = true
			return ErrAuthExpired
		}
		return nil
	}

	c.state.Collection = items
	return nil
}

// OpenCreate opens the create dialog with the default draft.
func (c *Controller) OpenCreate() error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.mu.Unlock()
	c.createGen++
	c.state.CreateDraft = c.def.EmptyDraft()
	c.state.CreateErrors = models.FieldErrors{}
	c.state.CreateOpen = true
	return nil
}

// CancelCreate closes the create dialog, even while submitting.
func (c *Controller) CancelCreate() error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.mu.Unlock()
	c.createGen++
	c.state.CreateOpen = false
	return nil
}

// ChangeCreateField sets one draft value and clears that field's error and
// the general error.
func (c *Controller) ChangeCreateField(field, value string) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.mu.Unlock()
	changeField(c.state.CreateDraft, c.state.CreateErrors, field, value)
	return nil
}

// ChangeEditField is ChangeCreateField for the edit dialog.
func (c *Controller) ChangeEditField(field, value string) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.mu.Unlock()
	changeField(c.state.EditDraft, c.state.EditErrors, field, value)
	return nil
}

func changeField(draft models.Draft, errs models.FieldErrors, field, value string) {
	draft[field] = value
	delete(errs, field)
	delete(errs, models.GeneralError)
}

// SubmitCreate validates the create draft and posts it. A successful create
// closes the dialog, resets the draft and reloads the collection.
func (c *Controller) SubmitCreate(ctx context.Context) error {
	refresh, err := c.submitCreate(ctx)
	if err != nil || !refresh {
		return err
	}
	return c.Load(ctx)
}

func (c *Controller) submitCreate(ctx context.Context) (bool, error) {
	if err := c.begin(); err != nil {
		return false, err
	}
	if c.state.Creating {
		c.mu.Unlock()
		return false, ErrBusy
	}
	c.state.CreateErrors = models.FieldErrors{}
	if errs := c.def.Validate(c.state.CreateDraft); len(errs) > 0 {
		c.state.CreateErrors = errs
		c.mu.Unlock()
		return false, nil
	}
	c.state.Creating = true
	gen := c.createGen
	body := c.def.ToRequestBody(c.state.CreateDraft.Clone(), c.def.CreateFields)
	c.mu.Unlock()

	defer c.apply(func(s *State) { s.Creating = false })

	if _, err := c.api.Create(ctx, c.def.Endpoint, body); err != nil {
		return false, c.mutationFailed(ctx, opCreate, err, func(s *State, fe models.FieldErrors) {
			if c.createGen == gen {
				s.CreateErrors = fe
			}
		})
	}

	return c.apply(func(s *State) {
		if c.createGen == gen {
			s.CreateOpen = false
			s.CreateDraft = c.def.EmptyDraft()
		}
		s.RefreshToken++
		s.toast(ToastSuccess, successMessage(c.def, opCreate))
	}), nil
}

// ActivateRow opens the edit dialog prefilled from the row with key, which is
// the item id or, for items without one, the row position.
func (c *Controller) ActivateRow(key string) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.mu.Unlock()

	for i, item := range c.state.Collection {
		if view.RowKey(item, c.def.IDField, i) != key {
			continue
		}
		selected := make(models.Item, len(item))
		for k, v := range item {
			selected[k] = v
		}
		c.editGen++
		c.state.Selected = selected
		c.state.EditDraft = c.def.EditDraft(item)
		c.state.EditErrors = models.FieldErrors{}
		c.state.EditOpen = true
		return nil
	}
	return ErrUnknownRow
}

// CancelEdit closes the edit dialog, even while saving.
func (c *Controller) CancelEdit() error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.mu.Unlock()
	c.editGen++
	c.state.EditOpen = false
	return nil
}

// SubmitEdit validates the edit draft and puts it to the selected item.
func (c *Controller) SubmitEdit(ctx context.Context) error {
	refresh, err := c.submitEdit(ctx)
	if err != nil || !refresh {
		return err
	}
	return c.Load(ctx)
}

func (c *Controller) submitEdit(ctx context.Context) (bool, error) {
	if err := c.begin(); err != nil {
		return false, err
	}
	if c.state.Selected == nil {
		c.mu.Unlock()
		return false, nil
	}
	if c.state.Saving {
		c.mu.Unlock()
		return false, ErrBusy
	}
	c.state.EditErrors = models.FieldErrors{}
	if errs := c.def.Validate(c.state.EditDraft); len(errs) > 0 {
		c.state.EditErrors = errs
		c.mu.Unlock()
		return false, nil
	}
	id, ok := c.state.Selected.ID(c.def.IDField)
	if !ok {
		c.state.toast(ToastError, failureToast(c.def, opUpdate))
		c.mu.Unlock()
		c.logger.Warn("controller: selected item has no id", "op", opUpdate)
		return false, nil
	}
	c.state.Saving = true
	gen := c.editGen
	body := c.def.ToRequestBody(c.state.EditDraft.Clone(), c.def.EditFields)
	c.mu.Unlock()

	defer c.apply(func(s *State) { s.Saving = false })

	if err := c.api.Update(ctx, c.def.Endpoint, id, body); err != nil {
		return false, c.mutationFailed(ctx, opUpdate, err, func(s *State, fe models.FieldErrors) {
			if c.editGen == gen {
				s.EditErrors = fe
			}
		})
	}

	return c.apply(func(s *State) {
		if c.editGen == gen {
			s.EditOpen = false
		}
		s.RefreshToken++
		s.toast(ToastSuccess, successMessage(c.def, opUpdate))
	}), nil
}

// RequestDelete stores id and opens the confirm dialog.
func (c *Controller) RequestDelete(id string) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.mu.Unlock()
	c.deleteGen++
	c.state.PendingDelete = id
	c.state.ConfirmOpen = true
	return nil
}

// CancelDelete closes the confirm dialog without side effects.
func (c *Controller) CancelDelete() error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.mu.Unlock()
	c.deleteGen++
	c.state.ConfirmOpen = false
	return nil
}

// ConfirmDelete deletes the pending item. On failure the dialog stays open
// with the id kept so the user can retry.
func (c *Controller) ConfirmDelete(ctx context.Context) error {
	refresh, err := c.confirmDelete(ctx)
	if err != nil || !refresh {
		return err
	}
	return c.Load(ctx)
}

func (c *Controller) confirmDelete(ctx context.Context) (bool, error) {
	if err := c.begin(); err != nil {
		return false, err
	}
	if c.state.PendingDelete == "" {
		c.mu.Unlock()
		return false, nil
	}
	if c.state.Deleting {
		c.mu.Unlock()
		return false, ErrBusy
	}
	c.state.Deleting = true
	id := c.state.PendingDelete
	gen := c.deleteGen
	c.mu.Unlock()

	defer c.apply(func(s *State) { s.Deleting = false })

	if err := c.api.Delete(ctx, c.def.Endpoint, id); err != nil {
		return false, c.mutationFailed(ctx, opDelete, err, nil)
	}

	return c.apply(func(s *State) {
		if c.deleteGen == gen {
			s.ConfirmOpen = false
			s.PendingDelete = ""
		}
		s.RefreshToken++
		s.toast(ToastSuccess, successMessage(c.def, opDelete))
	}), nil
}

// mutationFailed resolves a failed create, update or delete into state.
// setErrors is nil for actions without a form.
func (c *Controller) mutationFailed(ctx context.Context, op operation, err error, setErrors func(*State, models.FieldErrors)) error {
	if client.IsAuthFailure(err) {
		c.clearSession(ctx)
		if !c.apply(func(s *State) { s.AuthExpired = true }) {
			return nil
		}
		return ErrAuthExpired
	}

	apiErr, isAPI := client.AsAPIError(err)
	if isAPI && client.IsValidation(err) && setErrors != nil {
		fe := FieldErrorsFrom(c.def, apiErr)
		c.apply(func(s *State) {
			setErrors(s, fe)
			s.toast(ToastError, validationToast(c.def, op))
		})
		return nil
	}

	c.logger.Warn("controller: request failed", "op", op, "error", err)
	c.apply(func(s *State) { s.toast(ToastError, failureToast(c.def, op)) })
	return nil
}

func (c *Controller) clearSession(ctx context.Context) {
	if c.session == nil {
		return
	}
	if err := c.session.Clear(ctx); err != nil {
		c.logger.Error("controller: clear session", "error", err)
	}
}
