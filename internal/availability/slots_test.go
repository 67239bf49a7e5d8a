package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotTimesFullHour(t *testing.T) {
	date := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)

	got := SlotTimes(date, workRange("09:00", "10:00"), 0, now)
	assert.Equal(t, []string{"09:00", "09:30"}, got)
}

func TestSlotTimesTrailingRemainderDropped(t *testing.T) {
	date := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)

	// 09:30 would only leave 15 minutes before the range end.
	got := SlotTimes(date, workRange("09:00", "09:45"), 0, now)
	assert.Equal(t, []string{"09:00"}, got)
}

func TestSlotTimesLeadTimeFiltering(t *testing.T) {
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	rule := workRange("09:00", "17:00")

	tests := []struct {
		name  string
		now   time.Time
		lead  int
		first string
		count int
	}{
		{
			name:  "no lead, mid morning",
			now:   time.Date(2025, 6, 2, 10, 10, 0, 0, time.UTC),
			lead:  0,
			first: "10:30",
			count: 13,
		},
		{
			name:  "two hour lead",
			now:   time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC),
			lead:  2,
			first: "10:30",
			count: 13,
		},
		{
			name:  "lead swallows whole day",
			now:   time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC),
			lead:  24,
			count: 0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := SlotTimes(date, rule, tc.lead, tc.now)
			assert.Len(t, got, tc.count)
			if tc.count > 0 {
				assert.Equal(t, tc.first, got[0])
			}
		})
	}
}

func TestSlotTimesBoundaryIsExclusive(t *testing.T) {
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	rule := workRange("09:00", "10:00")

	// now + lead lands exactly on 09:00; admission requires strictly after.
	now := time.Date(2025, 6, 2, 7, 0, 0, 0, time.UTC)
	got := SlotTimes(date, rule, 2, now)
	assert.Equal(t, []string{"09:30"}, got)
}

func TestSlotTimesDisabledOrEmptyRule(t *testing.T) {
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	assert.Empty(t, SlotTimes(date, DayRule{}, 0, now))
	assert.Empty(t, SlotTimes(date, DayRule{Enabled: true}, 0, now))
	assert.Empty(t, SlotTimes(date, DayRule{Enabled: true, Range: TimeRange{Start: "bogus", End: "10:00"}}, 0, now))
}

func TestSlotTimesEndToEndMondayScenario(t *testing.T) {
	tpl := &Template{
		MinLeadTimeHours: 24,
		Days: map[string]DayRule{
			"monday": workRange("09:00", "17:00"),
		},
	}

	dates := CandidateDates(tpl, monday8am)
	require.NotEmpty(t, dates)
	require.Equal(t, "2025-06-09", dates[0].Format("2006-01-02"))

	slots := tpl.SlotsOn(dates[0], monday8am)
	require.NotEmpty(t, slots)
	assert.Equal(t, "09:00", slots[0])
	assert.Equal(t, "16:30", slots[len(slots)-1])
	assert.Len(t, slots, 16)
}

func TestSlotsOnUnconfiguredWeekday(t *testing.T) {
	tpl := &Template{
		Days: map[string]DayRule{"monday": workRange("09:00", "17:00")},
	}

	tuesday := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	assert.Empty(t, tpl.SlotsOn(tuesday, monday8am))
}

func TestSlotEnd(t *testing.T) {
	end, err := SlotEnd("09:00")
	require.NoError(t, err)
	assert.Equal(t, "09:30", end)

	_, err = SlotEnd("not-a-time")
	assert.Error(t, err)
}
