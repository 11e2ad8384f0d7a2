// Package resource defines the backend collections the console manages and
// the per-resource rules the generic controller is parameterised with.
package resource

import (
	"strings"

	"admin-console/internal/models"
	"admin-console/internal/view"
)

// Definition parameterises the generic controller for one collection.
type Definition struct {
	// Name is the route segment, e.g. "users".
	Name     string
	Endpoint string
	Title    string
	// Singular and Plural are the lower-case nouns used in notifications.
	Singular string
	Plural   string
	IDField  string

	Columns      []view.Column
	CreateFields []view.Field
	EditFields   []view.Field
	CreateTitle  string
	EditTitle    string

	// EmptyDraft returns a fresh default draft for the create dialog.
	EmptyDraft func() models.Draft
	// EditDraft copies the editable and read-only values of item.
	EditDraft func(item models.Item) models.Draft
	// Validate runs local rules. A non-empty result aborts the submit.
	Validate func(draft models.Draft) models.FieldErrors
	// ToRequestBody coerces a draft into the JSON body for fields.
	ToRequestBody func(draft models.Draft, fields []view.Field) map[string]any
	// ClassifyMessages buckets a flat list of validation messages. When nil
	// the flat list is ignored and the response message is used instead.
	ClassifyMessages func(messages []string) models.FieldErrors
}

// Capitalized returns the singular noun with a leading capital.
func (d Definition) Capitalized() string {
	if d.Singular == "" {
		return ""
	}
	return strings.ToUpper(d.Singular[:1]) + d.Singular[1:]
}

// draftFromItem copies the values of fields out of item.
func draftFromItem(item models.Item, fields []view.Field) models.Draft {
	d := make(models.Draft, len(fields))
	for _, f := range fields {
		d[f.ID] = item.Field(f.ID)
	}
	return d
}

// stringBody submits every editable field as a string.
func stringBody(draft models.Draft, fields []view.Field) map[string]any {
	body := make(map[string]any, len(fields))
	for _, f := range fields {
		if f.ReadOnly {
			continue
		}
		body[f.ID] = draft[f.ID]
	}
	return body
}

// All returns the definitions served by the console, in navigation order.
func All() []Definition {
	return []Definition{Users(), Transactions()}
}

// Lookup finds a definition by route name.
func Lookup(name string) (Definition, bool) {
	for _, d := range All() {
		if d.Name == name {
			return d, true
		}
	}
	return Definition{}, false
}
