package utils

import (
	"fmt"
	"os"
	"satchel/cli/styles"
	"strings"
	"time"
)

// GenerateTitle renders a form title with the app name prefixed
func GenerateTitle(title string) string {
	return styles.TitleStyle.Render(fmt.Sprintf("Satchel > %s", title))
}

func CopyToFile(contents string, to string) error {
	return os.WriteFile(to, []byte(contents), 0600)
}

// Truncate shortens s to at most n runes, marking the cut with an ellipsis
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n || n < 2 {
		return s
	}

	return string(runes[:n-1]) + "…"
}

// ReadableTime prints a timestamp relative to now, falling back to a date for
// anything older than a week. Zero times read as "never".
func ReadableTime(t time.Time, now time.Time) string {
	if t.IsZero() {
		return "never"
	}

	elapsed := now.Sub(t)
	switch {
	case elapsed < time.Minute:
		return "just now"
	case elapsed < time.Hour:
		return fmt.Sprintf("%dm ago", int(elapsed.Minutes()))
	case elapsed < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(elapsed.Hours()))
	case elapsed < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(elapsed.Hours()/24))
	default:
		return t.Local().Format("2006-01-02")
	}
}

// SplitIDs accepts ids given as separate args or comma separated
func SplitIDs(args []string) []string {
	var ids []string
	for _, arg := range args {
		for _, id := range strings.Split(arg, ",") {
			if id = strings.TrimSpace(id); len(id) > 0 {
				ids = append(ids, id)
			}
		}
	}

	return ids
}
