package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimestampLayout is the numeric date plus standard time form entries are stored with,
// e.g. "3/10/2024, 2:05:33 PM".
const TimestampLayout = "1/2/2006, 3:04:05 PM"

const clockLayout = "3:04:05 PM"

// CalendarDay is a (year, month, day) triple in some local calendar.
type CalendarDay struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// DayOf returns the calendar day of t in loc.
func DayOf(t time.Time, loc *time.Location) CalendarDay {
	if loc != nil {
		t = t.In(loc)
	}
	y, m, d := t.Date()
	return CalendarDay{Year: y, Month: int(m), Day: d}
}

func (d CalendarDay) String() string {
	return fmt.Sprintf("%d/%d/%d", d.Month, d.Day, d.Year)
}

// Before orders days chronologically.
func (d CalendarDay) Before(o CalendarDay) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

// FormatTimestamp renders t in the stored timestamp form.
func FormatTimestamp(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(TimestampLayout)
}

// ParseCalendarDay reads the month/day/year prefix of a stored timestamp.
// Only the part before the first comma is significant.
func ParseCalendarDay(ts string) (CalendarDay, error) {
	datePart, _, _ := strings.Cut(ts, ",")
	fields := strings.Split(strings.TrimSpace(datePart), "/")
	if len(fields) != 3 {
		return CalendarDay{}, fmt.Errorf("timestamp %q: expected month/day/year", ts)
	}

	nums := make([]int, 3)
	for i, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return CalendarDay{}, fmt.Errorf("timestamp %q: %w", ts, err)
		}
		nums[i] = n
	}

	day := CalendarDay{Month: nums[0], Day: nums[1], Year: nums[2]}
	if day.Month < 1 || day.Month > 12 || day.Day < 1 || day.Day > 31 || day.Year < 1 {
		return CalendarDay{}, fmt.Errorf("timestamp %q: date out of range", ts)
	}
	return day, nil
}

// SecondOfDay reads the time part of a stored timestamp. It returns -1 when the
// time part is absent or unreadable; ordering then falls back to the key.
func SecondOfDay(ts string) int {
	_, clock, ok := strings.Cut(ts, ",")
	if !ok {
		return -1
	}
	// Some clients separate the meridiem with a narrow no-break space.
	clock = strings.NewReplacer("\u202f", " ", "\u00a0", " ").Replace(strings.TrimSpace(clock))
	t, err := time.Parse(clockLayout, clock)
	if err != nil {
		return -1
	}
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}
