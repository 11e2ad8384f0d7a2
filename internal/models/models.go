package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ID is a backend identifier. It accepts JSON numbers and strings.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

func (id ID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// User is the profile the backend returns for an account.
type User struct {
	ID    ID     `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Session is the authenticated state of one browser.
// Token and User are written and cleared together.
type Session struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// Authenticated reports whether a backend token is present.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// DisplayName returns the user's name, or an empty string when the profile is missing.
func (s Session) DisplayName() string {
	if s.User == nil {
		return ""
	}
	return s.User.Name
}

// Item is one record of a resource collection as returned by the backend.
type Item map[string]any

// Draft holds in-progress form values keyed by field id.
type Draft map[string]string

// FieldErrors maps a field id, or GeneralError, to a message.
type FieldErrors map[string]string

// GeneralError is the error map key for messages not tied to a field.
const GeneralError = "general"

// Clone returns a copy of the draft.
func (d Draft) Clone() Draft {
	out := make(Draft, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Clone returns a copy of the error map.
func (e FieldErrors) Clone() FieldErrors {
	out := make(FieldErrors, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// Field returns the item's value for key in its display form.
// Missing and null values render as an empty string.
func (i Item) Field(key string) string {
	v, ok := i[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

// ID returns the item's identifier under idField.
func (i Item) ID(idField string) (string, bool) {
	id := i.Field(idField)
	return id, id != ""
}
