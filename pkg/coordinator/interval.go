package coordinator

import "time"

// NormalizePollInterval resolves the configured poll interval to an
// actually-schedulable cadence. Sub-minute polling is not supported (the
// cloud API has no documented rate-limit guidance below one request per
// minute per device): requests under 60s are raised to 60s. An interval
// that divides evenly into whole minutes runs on that many minutes;
// anything else is rounded down to the nearest whole minute, never below
// one.
func NormalizePollInterval(requested time.Duration) time.Duration {
	if requested < time.Minute {
		return time.Minute
	}
	if requested%time.Minute == 0 {
		return requested
	}
	minutes := requested / time.Minute
	if minutes < 1 {
		minutes = 1
	}
	return minutes * time.Minute
}
