package availability

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SlotMinutes is the fixed length of a bookable slot.
const SlotMinutes = 30

// TimeRange is a wall-clock working range, "HH:MM" inclusive start to
// exclusive end, interpreted in the template's time zone.
type TimeRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DayRule is the availability rule for one weekday. A disabled rule, or an
// enabled rule with an empty range, offers nothing.
type DayRule struct {
	Enabled bool      `json:"enabled"`
	Range   TimeRange `json:"range"`
}

// Template is the per-owner weekly recurring availability, fetched by the
// public page slug. Days holds lowercase weekday names (monday..sunday);
// absent days are never offerable.
type Template struct {
	Slug             string
	OwnerID          uuid.UUID
	OwnerName        string
	OwnerEmail       string
	MinLeadTimeHours int
	Timezone         string
	Days             map[string]DayRule
}

// Location resolves the template's IANA time zone, falling back to UTC when
// the zone is unset or unknown.
func (t *Template) Location() *time.Location {
	if t.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(t.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Rule returns the day rule for a weekday, if one is configured.
func (t *Template) Rule(d time.Weekday) (DayRule, bool) {
	rule, ok := t.Days[weekdayKey(d)]
	return rule, ok
}

func weekdayKey(d time.Weekday) string {
	return strings.ToLower(d.String())
}

// parseClock parses "HH:MM" into minutes since midnight.
func parseClock(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid clock value %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock value %q out of range", s)
	}
	return h*60 + m, nil
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
