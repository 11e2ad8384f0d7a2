package handlers

import (
	"errors"
	"net/http"

	"admin-console/internal/controller"
	"admin-console/internal/resource"
	"admin-console/internal/session"
	"admin-console/internal/view"
)

// panelTarget is the element every resource event re-renders.
const panelTarget = "#resource-panel"

// ResourceHandlers serves the page and browser events of one resource.
type ResourceHandlers struct {
	h   *Handlers
	def resource.Definition
}

// Resource returns the handlers for def.
func (h *Handlers) Resource(def resource.Definition) *ResourceHandlers {
	return &ResourceHandlers{h: h, def: def}
}

// Routes registers the page and event endpoints of the resource on mux,
// behind RequireAuth.
func (rh *ResourceHandlers) Routes(mux *http.ServeMux) {
	base := "/" + rh.def.Name
	routes := map[string]http.HandlerFunc{
		"GET " + base:                  rh.Page,
		"GET " + base + "/table":       rh.Table,
		"POST " + base + "/create/open": rh.event(func(c *controller.Controller, r *http.Request) error {
			return c.OpenCreate()
		}),
		"POST " + base + "/create/cancel": rh.event(func(c *controller.Controller, r *http.Request) error {
			return c.CancelCreate()
		}),
		"POST " + base + "/create/change": rh.change(false),
		"POST " + base + "/create": rh.event(func(c *controller.Controller, r *http.Request) error {
			if err := rh.applyForm(r, rh.def.CreateFields, c.ChangeCreateField); err != nil {
				return err
			}
			return c.SubmitCreate(r.Context())
		}),
		"POST " + base + "/rows/{key}": rh.event(func(c *controller.Controller, r *http.Request) error {
			return c.ActivateRow(r.PathValue("key"))
		}),
		"POST " + base + "/edit/cancel": rh.event(func(c *controller.Controller, r *http.Request) error {
			return c.CancelEdit()
		}),
		"POST " + base + "/edit/change": rh.change(true),
		"POST " + base + "/edit": rh.event(func(c *controller.Controller, r *http.Request) error {
			if err := rh.applyForm(r, rh.def.EditFields, c.ChangeEditField); err != nil {
				return err
			}
			return c.SubmitEdit(r.Context())
		}),
		"POST " + base + "/delete/{id}": rh.event(func(c *controller.Controller, r *http.Request) error {
			return c.RequestDelete(r.PathValue("id"))
		}),
		"POST " + base + "/delete/cancel": rh.event(func(c *controller.Controller, r *http.Request) error {
			return c.CancelDelete()
		}),
		"POST " + base + "/delete/confirm": rh.event(func(c *controller.Controller, r *http.Request) error {
			return c.ConfirmDelete(r.Context())
		}),
	}
	for pattern, fn := range routes {
		mux.Handle(pattern, rh.h.RequireAuth(fn))
	}
}

// controllerFor returns the session's controller, building it on first use.
func (rh *ResourceHandlers) controllerFor(r *http.Request, fresh bool) (*controller.Controller, string) {
	id, sess, _ := GetSessionFromContext(r)
	build := func() *controller.Controller {
		api := rh.h.backend.WithToken(sess.Token)
		provider := session.Bind(rh.h.sessions, id, rh.h.sessionTTL)
		return controller.New(rh.def, api, provider, rh.h.logger)
	}
	if fresh {
		return rh.h.registry.Reset(id, rh.def.Name, build), id
	}
	return rh.h.registry.Get(id, rh.def.Name, build), id
}

// ResourceViewModel is the data of the resource page and its panel.
type ResourceViewModel struct {
	Page
	Name    string
	Base    string
	Heading string
	Table   view.Table
	Create  view.FormDialog
	Edit    view.FormDialog
	Confirm view.ConfirmDialog
	Toasts  []controller.Toast
}

func (rh *ResourceHandlers) viewModel(st controller.State, toasts []controller.Toast) ResourceViewModel {
	base := "/" + rh.def.Name
	return ResourceViewModel{
		Name:    rh.def.Name,
		Base:    base,
		Heading: rh.def.Title,
		Table: view.NewTable(st.Collection, rh.def.Columns, st.Loading, st.LoadError, view.TableOptions{
			IDField:      rh.def.IDField,
			ActivatePath: base + "/rows",
			DeletePath:   base + "/delete",
			Target:       panelTarget,
		}),
		Create: view.NewFormDialog(st.CreateOpen, rh.def.CreateTitle, rh.def.CreateFields, st.CreateDraft, st.CreateErrors, st.Creating, "Submit", view.FormActions{
			Prefix:    "create",
			SubmitURL: base + "/create",
			ChangeURL: base + "/create/change",
			CancelURL: base + "/create/cancel",
			Target:    panelTarget,
		}),
		Edit: view.NewFormDialog(st.EditOpen, rh.def.EditTitle, rh.def.EditFields, st.EditDraft, st.EditErrors, st.Saving, "Submit", view.FormActions{
			Prefix:    "edit",
			SubmitURL: base + "/edit",
			ChangeURL: base + "/edit/change",
			CancelURL: base + "/edit/cancel",
			Target:    panelTarget,
		}),
		Confirm: view.ConfirmDialog{
			Open:         st.ConfirmOpen,
			Title:        "Are you sure?",
			Description:  "This action cannot be undone.",
			Confirming:   st.Deleting,
			ConfirmLabel: "Delete",
			CancelLabel:  view.DefaultCancelLabel,
			ConfirmURL:   base + "/delete/confirm",
			CancelURL:    base + "/delete/cancel",
			Target:       panelTarget,
		},
		Toasts: toasts,
	}
}

// Page renders the resource page. Each visit starts a fresh controller and
// shows the loading skeleton until the table request arrives.
func (rh *ResourceHandlers) Page(w http.ResponseWriter, r *http.Request) {
	c, _ := rh.controllerFor(r, true)
	_, sess, _ := GetSessionFromContext(r)

	st := c.Snapshot()
	st.Loading = true
	vm := rh.viewModel(st, nil)
	vm.Page = newPage(rh.def.Title, rh.def.Name, sess)
	rh.h.render(w, r, "resource.html", vm)
}

// Table loads the collection and renders the panel.
func (rh *ResourceHandlers) Table(w http.ResponseWriter, r *http.Request) {
	c, id := rh.controllerFor(r, false)
	if err := c.Load(r.Context()); err != nil && rh.expired(w, r, id, err) {
		return
	}
	rh.renderPanel(w, c)
}

// event adapts a controller operation into a handler that re-renders the panel.
func (rh *ResourceHandlers) event(op func(c *controller.Controller, r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, id := rh.controllerFor(r, false)
		if err := op(c, r); err != nil {
			if rh.expired(w, r, id, err) {
				return
			}
			rh.h.logger.Debug("resource event rejected", "resource", rh.def.Name, "path", r.URL.Path, "error", err)
		}
		rh.renderPanel(w, c)
	}
}

// change applies one keystroke and clears the field's error slots in place,
// leaving the inputs untouched.
func (rh *ResourceHandlers) change(edit bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, id := rh.controllerFor(r, false)
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		field := r.FormValue("_field")
		prefix, apply := "create", c.ChangeCreateField
		if edit {
			prefix, apply = "edit", c.ChangeEditField
		}
		if err := apply(field, r.FormValue(field)); err != nil && rh.expired(w, r, id, err) {
			return
		}
		rh.h.renderFragment(w, "cleared_errors", map[string]string{"Prefix": prefix, "Field": field})
	}
}

// applyForm copies the submitted values of editable fields into the draft.
func (rh *ResourceHandlers) applyForm(r *http.Request, fields []view.Field, set func(field, value string) error) error {
	if err := r.ParseForm(); err != nil {
		return err
	}
	for _, f := range fields {
		if f.ReadOnly {
			continue
		}
		if _, ok := r.PostForm[f.ID]; !ok {
			continue
		}
		if err := set(f.ID, r.PostFormValue(f.ID)); err != nil {
			return err
		}
	}
	return nil
}

// expired ends the session when err says the backend rejected its token or
// the controller was torn down. It reports whether the response was written.
func (rh *ResourceHandlers) expired(w http.ResponseWriter, r *http.Request, id string, err error) bool {
	switch {
	case errors.Is(err, controller.ErrAuthExpired):
		rh.h.endSession(w, r, id)
		rh.h.redirect(w, r, "/login?expired=1")
		return true
	case errors.Is(err, controller.ErrClosed):
		rh.h.redirect(w, r, "/"+rh.def.Name)
		return true
	}
	return false
}

func (rh *ResourceHandlers) renderPanel(w http.ResponseWriter, c *controller.Controller) {
	toasts := c.TakeToasts()
	rh.h.renderFragment(w, "resource_panel", rh.viewModel(c.Snapshot(), toasts))
}
