package normalize

import (
	"strings"
	"time"
)

// FormatRecipient turns the encoded recipient field into a readable display
// string. The form tool joins multiple recipients with "_and_" and words with
// plain underscores; both collapse to " and ". Blank input yields nil.
func FormatRecipient(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	value = strings.ReplaceAll(value, "_and_", " and ")
	value = strings.ReplaceAll(value, "_", " and ")
	return &value
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// ParseDate parses the date formats the form tool emits. Returns nil when the
// value is blank or matches none of the known layouts.
func ParseDate(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}
