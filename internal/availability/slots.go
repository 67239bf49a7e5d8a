package availability

import "time"

// SlotTimes expands a day rule into the offerable "HH:MM" start times for one
// calendar date. It walks the working range in fixed 30-minute steps, keeps
// only steps whose full slot fits before the range end, and drops any step
// whose absolute start is not strictly after now plus the minimum lead time.
// The trailing remainder of a range that does not divide evenly is silently
// dropped.
//
// date must be a midnight value in the template's time zone, as produced by
// CandidateDates. A nil result means no offerable slots, which callers render
// as an empty list rather than an error.
func SlotTimes(date time.Time, rule DayRule, minLeadTimeHours int, now time.Time) []string {
	if !rule.Enabled || rule.Range.Start == "" || rule.Range.End == "" {
		return nil
	}

	startMin, err := parseClock(rule.Range.Start)
	if err != nil {
		return nil
	}
	endMin, err := parseClock(rule.Range.End)
	if err != nil {
		return nil
	}

	cutoff := now.Add(time.Duration(minLeadTimeHours) * time.Hour)
	y, mo, d := date.Date()

	var out []string
	for step := startMin; step+SlotMinutes <= endMin; step += SlotMinutes {
		// Wall-clock construction rather than duration addition, so DST
		// transition days keep their configured clock times.
		startAt := time.Date(y, mo, d, step/60, step%60, 0, 0, date.Location())
		if startAt.After(cutoff) {
			out = append(out, formatClock(step))
		}
	}

	return out
}

// SlotsOn is the template-level convenience over SlotTimes: it resolves the
// day rule for the date's weekday and applies the template's lead time.
func (t *Template) SlotsOn(date time.Time, now time.Time) []string {
	rule, ok := t.Rule(date.Weekday())
	if !ok {
		return nil
	}
	return SlotTimes(date, rule, t.MinLeadTimeHours, now.In(t.Location()))
}

// SlotEnd returns the "HH:MM" end of the slot starting at start, or an error
// when start is not a valid clock value.
func SlotEnd(start string) (string, error) {
	m, err := parseClock(start)
	if err != nil {
		return "", err
	}
	return formatClock(m + SlotMinutes), nil
}
