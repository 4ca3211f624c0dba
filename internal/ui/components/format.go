package components

import (
	"fmt"
	"strings"
	"time"
)

const timestampLayout = "2006-01-02 15:04:05"

// FormatTimestamp renders t for display, or "-" when it is unknown.
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(timestampLayout)
}

// FormatUptime renders a duration as days, hours, minutes and seconds,
// dropping leading zero units.
func FormatUptime(d time.Duration) string {
	if d <= 0 {
		return "-"
	}

	days := int(d / (24 * time.Hour))
	d -= time.Duration(days) * 24 * time.Hour
	hours := int(d / time.Hour)
	d -= time.Duration(hours) * time.Hour
	minutes := int(d / time.Minute)
	d -= time.Duration(minutes) * time.Minute
	seconds := int(d / time.Second)

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}

// LineCategory guesses the category of a raw log line for coloring: the
// leading four letter word, or "START" for process start lines.
func LineCategory(line string) string {
	if strings.HasPrefix(line, "Running ") {
		return "START"
	}
	word, _, _ := strings.Cut(line, " ")
	if len(word) != 4 {
		return ""
	}
	for _, r := range word {
		if r < 'A' || r > 'Z' {
			return ""
		}
	}
	return word
}
