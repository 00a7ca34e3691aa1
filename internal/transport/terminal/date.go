package terminal

import (
	"time"
)

const (
	dateLayout = "2006-01-02 15:04"
	// Fallback cut for dates that are not RFC 3339. It is not format aware: an RFC 1123
	// date such as "Mon, 02 Jan 2006 15:04:05 GMT" becomes "Mon, 02 Jan 2006".
	fallbackDateRunes = 16
)

// FormatDate renders a raw publication date for display.
// RFC 3339 dates become "YYYY-MM-DD HH:MM UTC". Anything else longer than
// 10 bytes is cut to its first 16 characters; shorter strings pass through.
func FormatDate(raw string) string {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC().Format(dateLayout) + " UTC"
	}
	if len(raw) > 10 {
		runes := []rune(raw)
		if len(runes) > fallbackDateRunes {
			runes = runes[:fallbackDateRunes]
		}
		return string(runes)
	}
	return raw
}
