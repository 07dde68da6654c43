package common

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// htmlReplacer escapes the five characters that can break out of HTML text or
// a quoted attribute.
var htmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// FormatPercent formats a fraction as a percentage with one decimal place.
// 0.205 -> "20.5%", nil -> "n/a".
func FormatPercent(x *float64) string {
	if x == nil {
		return "n/a"
	}
	return decimal.NewFromFloat(*x).Mul(hundred).StringFixed(1) + "%"
}

// EscapeHTML replaces & < > " ' with their entities. Everything else is unchanged.
func EscapeHTML(s string) string {
	if s == "" {
		return ""
	}
	return htmlReplacer.Replace(s)
}

// FormatNumber renders a JSON number in its shortest form: 7.5 -> "7.5", 20 -> "20".
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
