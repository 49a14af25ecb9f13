package report

import (
	"fmt"
	"math"
)

// FormatClock renders a duration in minutes as H:MM:SS, truncating to the
// second. Hours are not wrapped at 24.
func FormatClock(minutes float64) string {
	if math.IsNaN(minutes) || math.IsInf(minutes, 0) {
		return "n/a"
	}
	sign := ""
	if minutes < 0 {
		sign = "-"
		minutes = -minutes
	}
	total := int64(minutes * 60)
	return fmt.Sprintf("%s%d:%02d:%02d", sign, total/3600, total/60%60, total%60)
}
