package resource

import (
	"strings"

	"admin-console/internal/models"
	"admin-console/internal/view"
)

// messageKeywords routes flat user validation messages to fields.
// The first matching keyword wins.
var messageKeywords = []struct {
	Keyword string
	Field   string
}{
	{"email", "email"},
	{"password", "password"},
	{"name", "name"},
}

// ClassifyUserMessages buckets messages by keyword, case-insensitively.
// Unmatched messages are joined with spaces into the general error. When a
// field matches more than once its first message is kept.
func ClassifyUserMessages(messages []string) models.FieldErrors {
	out := models.FieldErrors{}
	var general []string

	for _, msg := range messages {
		lower := strings.ToLower(msg)
		matched := false
		for _, kw := range messageKeywords {
			if strings.Contains(lower, kw.Keyword) {
				if _, taken := out[kw.Field]; !taken {
					out[kw.Field] = msg
				}
				matched = true
				break
			}
		}
		if !matched {
			general = append(general, msg)
		}
	}

	if len(general) > 0 {
		out[models.GeneralError] = strings.Join(general, " ")
	}
	return out
}

var userCreateFields = []view.Field{
	{ID: "name", Label: "Name", InputKind: "text", Placeholder: "Enter name", Required: true},
	{ID: "email", Label: "Email", InputKind: "email", Placeholder: "Enter email", Required: true},
	{ID: "password", Label: "Password", InputKind: "password", Placeholder: "Enter password", Required: true},
}

var userEditFields = []view.Field{
	{ID: "name", Label: "Name", InputKind: "text", Placeholder: "Enter name", Required: true},
	{ID: "email", Label: "Email", InputKind: "email", Placeholder: "Enter email", Required: true},
	{ID: "password", Label: "Password", InputKind: "password", Placeholder: "Leave blank to keep", Required: false},
}

// Users is the definition of the users collection.
func Users() Definition {
	return Definition{
		Name:     "users",
		Endpoint: "/users",
		Title:    "Users List",
		Singular: "user",
		Plural:   "users",
		IDField:  "id",
		Columns: []view.Column{
			{Key: "name", Header: "Name"},
			{Key: "email", Header: "Email"},
		},
		CreateFields: userCreateFields,
		EditFields:   userEditFields,
		CreateTitle:  "Create New User",
		EditTitle:    "Edit User",
		EmptyDraft: func() models.Draft {
			return models.Draft{"name": "", "email": "", "password": ""}
		},
		EditDraft: func(item models.Item) models.Draft {
			// The password is never prefilled.
			return models.Draft{"name": item.Field("name"), "email": item.Field("email"), "password": ""}
		},
		Validate:         func(models.Draft) models.FieldErrors { return nil },
		ToRequestBody:    userBody,
		ClassifyMessages: ClassifyUserMessages,
	}
}

// userBody leaves out an optional password the user did not fill in.
func userBody(draft models.Draft, fields []view.Field) map[string]any {
	body := stringBody(draft, fields)
	for _, f := range fields {
		if f.ID == "password" && !f.Required && draft["password"] == "" {
			delete(body, "password")
		}
	}
	return body
}
