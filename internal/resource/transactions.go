package resource

import (
	"math"
	"strconv"
	"strings"

	"admin-console/internal/models"
	"admin-console/internal/view"

	"github.com/go-playground/validator/v10"
)

const (
	// MsgAmountInvalid is the local error for a negative or non-numeric amount.
	MsgAmountInvalid = "Amount must be a positive number."
	// MsgDiscountInvalid is the local error for a discount outside [0, 100].
	MsgDiscountInvalid = "Discount must be between 0 and 100."
)

var validate = validator.New()

// parseNumber parses a draft value. NaN and infinities are rejected.
func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ValidateTransaction checks amount and discount before anything is sent.
func ValidateTransaction(draft models.Draft) models.FieldErrors {
	errs := models.FieldErrors{}

	amount, ok := parseNumber(draft["amount"])
	if !ok || validate.Var(amount, "gte=0") != nil {
		errs["amount"] = MsgAmountInvalid
	}

	discount, ok := parseNumber(draft["discount"])
	if !ok || validate.Var(discount, "gte=0,lte=100") != nil {
		errs["discount"] = MsgDiscountInvalid
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// transactionBody sends amount and discount as numbers and never sends
// read-only fields such as total.
func transactionBody(draft models.Draft, fields []view.Field) map[string]any {
	body := stringBody(draft, fields)
	for _, key := range []string{"amount", "discount"} {
		if _, ok := body[key]; !ok {
			continue
		}
		if v, ok := parseNumber(draft[key]); ok {
			body[key] = v
		}
	}
	return body
}

var transactionCreateFields = []view.Field{
	{ID: "date", Label: "Date", InputKind: "date", Placeholder: "Pick a date", Required: true},
	{ID: "amount", Label: "Amount (Rp)", InputKind: "number", Placeholder: "Enter amount (Rp)", Required: true},
	{ID: "discount", Label: "Discount (%)", InputKind: "number", Placeholder: "Enter discount percentage (0-100)", Required: true},
	{ID: "note", Label: "Note", InputKind: "text", Placeholder: "Enter a note"},
}

var transactionEditFields = []view.Field{
	transactionCreateFields[0],
	transactionCreateFields[1],
	transactionCreateFields[2],
	{ID: "total", Label: "Total (Rp)", InputKind: "number", ReadOnly: true, Format: view.Rupiah},
	transactionCreateFields[3],
}

// Transactions is the definition of the transactions collection.
func Transactions() Definition {
	return Definition{
		Name:     "transactions",
		Endpoint: "/transactions",
		Title:    "Transactions List",
		Singular: "transaction",
		Plural:   "transactions",
		IDField:  "id",
		Columns: []view.Column{
			{Key: "date", Header: "Date", Render: func(i models.Item) string { return view.ShortDate(i.Field("date")) }},
			{Key: "amount", Header: "Amount (Rp)", Render: func(i models.Item) string { return view.Rupiah(i.Field("amount")) }},
			{Key: "discount", Header: "Discount (%)", Render: func(i models.Item) string { return view.Percent(i.Field("discount")) }},
			{Key: "total", Header: "Total (Rp)", Render: func(i models.Item) string { return view.Rupiah(i.Field("total")) }},
			{Key: "note", Header: "Note"},
		},
		CreateFields: transactionCreateFields,
		EditFields:   transactionEditFields,
		CreateTitle:  "Create New Transaction",
		EditTitle:    "Edit Transaction",
		EmptyDraft: func() models.Draft {
			return models.Draft{"date": "", "amount": "0", "discount": "0", "note": ""}
		},
		EditDraft: func(item models.Item) models.Draft {
			return draftFromItem(item, transactionEditFields)
		},
		Validate:      ValidateTransaction,
		ToRequestBody: transactionBody,
	}
}
