package validation

import (
	"strings"
	"unicode"
)

// CamelCaseToTitleCase turns a field name into a label.
// Example: "confirmPassword" -> "Confirm Password"
// Example: "due_date" -> "Due Date"
// Example: "XMLParser" -> "XML Parser"
func CamelCaseToTitleCase(s string) string {
	if s == "" {
		return ""
	}

	var result strings.Builder
	runes := []rune(s)
	upperNext := true

	for i, r := range runes {
		if r == '_' || r == '-' {
			result.WriteRune(' ')
			upperNext = true
			continue
		}
		if upperNext {
			result.WriteRune(unicode.ToUpper(r))
			upperNext = false
			continue
		}

		if unicode.IsUpper(r) {
			// Word boundary: after a lowercase letter, or the last capital of
			// an acronym ("XMLParser").
			prevIsLower := unicode.IsLower(runes[i-1])
			prevIsUpper := unicode.IsUpper(runes[i-1])
			nextIsLower := i < len(runes)-1 && unicode.IsLower(runes[i+1])

			if prevIsLower || (prevIsUpper && nextIsLower) {
				result.WriteRune(' ')
			}
		}
		result.WriteRune(r)
	}

	return result.String()
}
