package tui

import (
	"fmt"
	"time"

	"github.com/devbush/tubescribe/internal/domain"
)

// FormatSize formats a byte count with a binary unit suffix
// Examples: 512 -> "512 B", 1536 -> "1.5 KB", 462*1024*1024 -> "462.0 MB"
func FormatSize(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}

// FormatDuration formats a task duration for progress lines
// Examples: 12.3s -> "12.3s", 75s -> "1m15s"
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return d.Round(time.Second).String()
}

// TaskLabel returns a short display name for a source URL: the video id
// when one is recognized, else the URL cut to maxLen.
func TaskLabel(url string, maxLen int) string {
	if v, err := domain.ParseVideoURL(url); err == nil {
		return v.Label()
	}
	return Truncate(url, maxLen)
}

// Truncate shortens s to maxLen runes, marking the cut with "...".
func Truncate(s string, maxLen int) string {
	r := []rune(s)
	if maxLen <= 3 || len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
