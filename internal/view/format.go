package view

import (
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var idPrinter = message.NewPrinter(language.Indonesian)

// Rupiah formats an amount the way id-ID displays currency, e.g. Rp1.500.000.
// Unparseable input is returned unchanged.
func Rupiah(value string) string {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(v) {
		return value
	}
	return "Rp" + idPrinter.Sprint(number.Decimal(v, number.MaxFractionDigits(3)))
}

// Percent floors a percentage to a whole number, e.g. 12.7 -> 12%.
func Percent(value string) string {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(v) {
		return value
	}
	return strconv.FormatFloat(math.Floor(v), 'f', 0, 64) + "%"
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"}

// ShortDate formats a date as id-ID does (day/month/year without padding).
func ShortDate(value string) string {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("2/1/2006")
		}
	}
	return value
}
