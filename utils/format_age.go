package utils

import (
	"fmt"
	"time"
)

// FormatAge renders how long ago something happened, at the coarsest unit
// that still reads naturally: just now, 42s ago, 3m ago, 2h 10m ago, 4d ago.
func FormatAge(d time.Duration) string {
	switch {
	case d < time.Second:
		return "just now"
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		hours := int(d.Hours())
		if minutes := int(d.Minutes()) % 60; minutes > 0 {
			return fmt.Sprintf("%dh %dm ago", hours, minutes)
		}
		return fmt.Sprintf("%dh ago", hours)
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours())/24)
	}
}
