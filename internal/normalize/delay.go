package normalize

import (
	"strconv"
	"strings"
)

// ParseDelay extracts the processing delay in hours from whatever the form
// tool delivered: an integer, a digit-prefixed string such as "24h", or
// nothing. Values with no leading digits yield nil.
func ParseDelay(value interface{}) *int {
	switch v := value.(type) {
	case nil:
		return nil
	case int:
		return &v
	case int64:
		hours := int(v)
		return &hours
	case float64:
		hours := int(v)
		return &hours
	case string:
		return parseLeadingInt(v)
	default:
		return nil
	}
}

func parseLeadingInt(s string) *int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return nil
	}
	hours, err := strconv.Atoi(s[:end])
	if err != nil {
		return nil
	}
	return &hours
}
