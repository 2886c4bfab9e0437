package utils

import "time"

// AgeDays returns the fractional number of days elapsed since t
func AgeDays(t time.Time) float64 {
	return time.Since(t).Hours() / 24
}

// AgeHours returns the fractional number of hours elapsed since t
func AgeHours(t time.Time) float64 {
	return time.Since(t).Hours()
}

// ElapsedDays returns the whole number of days elapsed since t
func ElapsedDays(t time.Time) int {
	return int(time.Since(t).Hours() / 24)
}
