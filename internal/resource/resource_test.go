package resource

import (
	"fmt"
	"testing"

	"admin-console/internal/models"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyUserMessages(t *testing.T) {
	tests := []struct {
		name     string
		messages []string
		want     models.FieldErrors
	}{
		{
			name:     "email only",
			messages: []string{"Email already taken"},
			want:     models.FieldErrors{"email": "Email already taken"},
		},
		{
			name:     "mixed",
			messages: []string{"The PASSWORD is too short", "Name is required", "Something odd", "Try later"},
			want: models.FieldErrors{
				"password":          "The PASSWORD is too short",
				"name":              "Name is required",
				models.GeneralError: "Something odd Try later",
			},
		},
		{
			name:     "email keyword wins over name",
			messages: []string{"username or email invalid"},
			want:     models.FieldErrors{"email": "username or email invalid"},
		},
		{
			name:     "first message per field is kept",
			messages: []string{"Email already taken", "Email is invalid"},
			want:     models.FieldErrors{"email": "Email already taken"},
		},
		{
			name:     "empty",
			messages: nil,
			want:     models.FieldErrors{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyUserMessages(tt.messages))
		})
	}
}

func TestDefinition_OnlyUsersClassifyMessages(t *testing.T) {
	assert.Nil(t, Transactions().ClassifyMessages)
	require.NotNil(t, Users().ClassifyMessages)
	assert.Equal(t, models.FieldErrors{"email": "Email already taken"}, Users().ClassifyMessages([]string{"Email already taken"}))
}

func TestValidateTransaction(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		discount string
		want     models.FieldErrors
	}{
		{"valid", "1500000", "10", nil},
		{"boundaries", "0", "100", nil},
		{"negative amount", "-1", "0", models.FieldErrors{"amount": MsgAmountInvalid}},
		{"amount not a number", "abc", "0", models.FieldErrors{"amount": MsgAmountInvalid}},
		{"empty amount", "", "0", models.FieldErrors{"amount": MsgAmountInvalid}},
		{"NaN amount", "NaN", "0", models.FieldErrors{"amount": MsgAmountInvalid}},
		{"discount too high", "10", "150", models.FieldErrors{"discount": MsgDiscountInvalid}},
		{"discount negative", "10", "-0.5", models.FieldErrors{"discount": MsgDiscountInvalid}},
		{"both", "-5", "101", models.FieldErrors{"amount": MsgAmountInvalid, "discount": MsgDiscountInvalid}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateTransaction(models.Draft{"amount": tt.amount, "discount": tt.discount})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateTransactionProperties(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("negative amounts always fail on amount", prop.ForAll(
		func(amount float64) bool {
			errs := ValidateTransaction(models.Draft{"amount": fmt.Sprint(amount), "discount": "0"})
			return errs["amount"] == MsgAmountInvalid
		},
		gen.Float64Range(-1e12, -1e-9),
	))

	properties.Property("discounts above 100 always fail on discount", prop.ForAll(
		func(discount float64) bool {
			errs := ValidateTransaction(models.Draft{"amount": "1", "discount": fmt.Sprint(discount)})
			return errs["discount"] == MsgDiscountInvalid && errs["amount"] == ""
		},
		gen.Float64Range(100.000001, 1e9),
	))

	properties.Property("in-range values pass", prop.ForAll(
		func(amount, discount float64) bool {
			return ValidateTransaction(models.Draft{"amount": fmt.Sprint(amount), "discount": fmt.Sprint(discount)}) == nil
		},
		gen.Float64Range(0, 1e12),
		gen.Float64Range(0, 100),
	))

	properties.TestingRun(t)
}

func TestTransactionBody_NeverSendsTotal(t *testing.T) {
	d := Transactions()
	item := models.Item{"id": "3", "date": "2024-03-05", "amount": "1000", "discount": "10", "total": "900", "note": "lunch"}

	draft := d.EditDraft(item)
	assert.Equal(t, models.Draft{"date": "2024-03-05", "amount": "1000", "discount": "10", "total": "900", "note": "lunch"}, draft)

	body := d.ToRequestBody(draft, d.EditFields)
	assert.NotContains(t, body, "total")
	assert.Equal(t, 1000.0, body["amount"])
	assert.Equal(t, 10.0, body["discount"])
	assert.Equal(t, "lunch", body["note"])
	assert.Equal(t, "2024-03-05", body["date"])
}

func TestUserBody_OptionalPassword(t *testing.T) {
	d := Users()

	body := d.ToRequestBody(models.Draft{"name": "A", "email": "a@x.io", "password": ""}, d.EditFields)
	assert.Equal(t, map[string]any{"name": "A", "email": "a@x.io"}, body)

	body = d.ToRequestBody(models.Draft{"name": "A", "email": "a@x.io", "password": "s3cret"}, d.EditFields)
	assert.Equal(t, "s3cret", body["password"])

	body = d.ToRequestBody(models.Draft{"name": "A", "email": "a@x.io", "password": ""}, d.CreateFields)
	assert.Contains(t, body, "password", "create always sends the required password")
}

func TestEmptyDraftsAreFresh(t *testing.T) {
	for _, d := range All() {
		a := d.EmptyDraft()
		for k := range a {
			a[k] = "dirty"
		}
		b := d.EmptyDraft()
		for k, v := range b {
			assert.NotEqual(t, "dirty", v, "%s.%s", d.Name, k)
		}
	}
}

func TestLookup(t *testing.T) {
	d, ok := Lookup("transactions")
	require.True(t, ok)
	assert.Equal(t, "/transactions", d.Endpoint)
	assert.Equal(t, "Transaction", d.Capitalized())

	_, ok = Lookup("invoices")
	assert.False(t, ok)
}
