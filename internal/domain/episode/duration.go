package episode

import "fmt"

// FormatDuration converts seconds to a zero-padded HH:MM:SS string.
// Hours are not wrapped, so 90000 seconds is "25:00:00".
// Negative input is clamped to zero.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
}
