package shift

import "time"

// IsOutOfShift reports whether t falls outside the schedule. Weekday and
// clock time are read in t's own location. A nil schedule is always in-shift.
func IsOutOfShift(s *Schedule, t time.Time) bool {
	if s == nil {
		return false
	}

	day := s.days[t.Weekday()]
	if day == nil {
		return true
	}
	if day.Malformed {
		return day.FallbackOut
	}

	minute := t.Hour()*60 + t.Minute()
	for _, r := range day.Ranges {
		if r.contains(minute) {
			return false
		}
	}
	return true
}

// NextBoundary returns the first instant strictly after t at which the
// classification may change: a range start or end later the same day, or
// the next local midnight. Days that are absent, off or malformed only have
// midnight. Between t and the returned instant IsOutOfShift is constant.
func NextBoundary(s *Schedule, t time.Time) time.Time {
	y, m, d := t.Date()
	loc := t.Location()
	next := time.Date(y, m, d+1, 0, 0, 0, 0, loc)

	day := s.Day(t.Weekday())
	if day == nil || day.Malformed {
		return next
	}

	for _, r := range day.Ranges {
		for _, minute := range [2]int{r.From, r.To} {
			candidate := time.Date(y, m, d, minute/60, minute%60, 0, 0, loc)
			if candidate.After(t) && candidate.Before(next) {
				next = candidate
			}
		}
	}
	return next
}
