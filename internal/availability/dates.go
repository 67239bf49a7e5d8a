package availability

import "time"

const (
	// scanWindowDays bounds the calendar scan regardless of how few days match.
	scanWindowDays = 30
	// maxCandidateDates caps how many dates a visitor is offered.
	maxCandidateDates = 12
)

// CandidateDates scans up to 30 consecutive days starting at now's date in
// the template's time zone and returns the bookable calendar dates, ascending,
// capped at 12. A day qualifies when its weekday rule is enabled and the
// minimum lead time still leaves room for it: either the day lies past the
// lead instant's date, or it is the lead instant's date and the lead time has
// already rolled past midnight relative to now.
//
// Same-day booking with zero lead is therefore never offered at the date
// level; slot-level filtering is stricter still.
func CandidateDates(t *Template, now time.Time) []time.Time {
	loc := t.Location()
	now = now.In(loc)

	minLead := now.Add(time.Duration(t.MinLeadTimeHours) * time.Hour)
	today := midnight(now)
	leadDay := midnight(minLead)

	var out []time.Time
	for i := 0; i < scanWindowDays && len(out) < maxCandidateDates; i++ {
		day := today.AddDate(0, 0, i)

		rule, ok := t.Rule(day.Weekday())
		if !ok || !rule.Enabled {
			continue
		}

		if day.After(leadDay) || (day.Equal(leadDay) && leadDay.After(today)) {
			out = append(out, day)
		}
	}

	return out
}

// midnight truncates an instant to the start of its calendar day, keeping
// the location.
func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
