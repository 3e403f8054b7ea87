package shoppinglist

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Render writes one "<Name> (<unit>):  <total>" line per entry, in order.
func Render(lines []AggregatedLine) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(capitalize(l.IngredientName))
		b.WriteString(" (")
		b.WriteString(l.Unit)
		b.WriteString("):  ")
		b.WriteString(strconv.Itoa(l.TotalAmount))
		b.WriteByte('\n')
	}
	return b.String()
}

// capitalize upper-cases the first rune and leaves the rest untouched.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
