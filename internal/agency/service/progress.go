package service

import "math"

// Progress computes a whole-number completion percentage. A zero total is
// reported as 0%, not a division error. Monotonic non-decreasing in completed
// for a fixed total.
func Progress(completed, total int) int {
	if total <= 0 {
		return 0
	}
	if completed < 0 {
		completed = 0
	}
	if completed > total {
		completed = total
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}
