package header

import (
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// numericReplacer strips currency symbols and thousands separators the way
// spreadsheet exports tend to write them.
var numericReplacer = strings.NewReplacer(
	"$", "",
	"€", "", // Euro
	"£", "", // Pound
	",", "",
)

// IsNumeric reports whether a raw token looks like a number: a finite
// decimal once surrounding whitespace, Excel ="..." wrappers, quotes,
// currency symbols, thousands separators and accounting parentheses are
// removed. NaN and Infinity spellings are not numeric.
func IsNumeric(token string) bool {
	s := cleanToken(token)
	if s == "" {
		return false
	}

	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = "-" + strings.TrimSpace(s[1:len(s)-1])
	}
	s = strings.TrimSpace(numericReplacer.Replace(s))
	if s == "" || s == "-" {
		return false
	}

	d, _, err := apd.NewFromString(s)
	if err != nil {
		return false
	}
	return d.Form == apd.Finite
}

// cleanToken trims whitespace, an Excel formula wrapper and surrounding quotes.
func cleanToken(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") && len(s) >= 3 {
		s = s[2 : len(s)-1]
	}
	return strings.TrimSpace(strings.Trim(s, `"'`))
}
