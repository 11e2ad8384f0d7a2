package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestItemField(t *testing.T) {
	item := Item{
		"id":     json.Number("42"),
		"name":   "Alice",
		"amount": 1500.5,
		"note":   nil,
		"active": true,
	}

	assert.Equal(t, "42", item.Field("id"))
	assert.Equal(t, "Alice", item.Field("name"))
	assert.Equal(t, "1500.5", item.Field("amount"))
	assert.Equal(t, "", item.Field("note"))
	assert.Equal(t, "", item.Field("missing"))
	assert.Equal(t, "true", item.Field("active"))

	id, ok := item.ID("id")
	assert.True(t, ok)
	assert.Equal(t, "42", id)

	_, ok = Item{"name": "x"}.ID("id")
	assert.False(t, ok)
}

func TestSessionDisplay(t *testing.T) {
	assert.False(t, Session{}.Authenticated())

	tokenOnly := Session{Token: "t"}
	assert.True(t, tokenOnly.Authenticated())
	assert.Equal(t, "", tokenOnly.DisplayName())

	full := Session{Token: "t", User: &User{Name: "Budi"}}
	assert.Equal(t, "Budi", full.DisplayName())
}

func TestCloneIsIndependent(t *testing.T) {
	d := Draft{"amount": "10"}
	c := d.Clone()
	c["amount"] = "20"
	assert.Equal(t, "10", d["amount"])

	e := FieldErrors{"amount": "bad"}
	ec := e.Clone()
	delete(ec, "amount")
	assert.Contains(t, e, "amount")
}

func TestComputeTotal(t *testing.T) {
	assert.InDelta(t, 90.0, ComputeTotal(100, 10), 1e-9)
	assert.InDelta(t, 0.0, ComputeTotal(100, 100), 1e-9)
	assert.InDelta(t, 250.0, ComputeTotal(250, 0), 1e-9)
}

func TestIDAcceptsNumbersAndStrings(t *testing.T) {
	var u User
	assert.NoError(t, json.Unmarshal([]byte(`{"id": 12, "name": "A"}`), &u))
	assert.Equal(t, ID("12"), u.ID)

	assert.NoError(t, json.Unmarshal([]byte(`{"id": "usr-9"}`), &u))
	assert.Equal(t, ID("usr-9"), u.ID)

	b, err := json.Marshal(User{ID: "12"})
	assert.NoError(t, err)
	assert.Contains(t, string(b), `"id":12`)

	b, err = json.Marshal(User{ID: "usr-9"})
	assert.NoError(t, err)
	assert.Contains(t, string(b), `"id":"usr-9"`)
}
