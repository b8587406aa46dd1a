package domain

import (
	"time"
	"unicode/utf8"
)

const (
	DateLayout        = "2006-01-02"
	DaysPerWeek       = 7
	MaxDayThemeLen    = 100
	MaxFocusMetricLen = 200
	MaxWeekThemeLen   = 100
)

// Week is a Monday-started span of exactly seven days. Start and End are UTC
// midnights of the first and last calendar date.
type Week struct {
	ID         string    `json:"id,omitempty"`
	WeekNumber int       `json:"weekNumber"`
	Start      time.Time `json:"startISO"`
	End        time.Time `json:"endISO"`
	Theme      string    `json:"theme,omitempty"`
	Days       []Day     `json:"days"`
}

// Day is one calendar date of a week. Tasks point at it via Task.DayID.
type Day struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	Label       string `json:"label"`
	Theme       string `json:"theme,omitempty"`
	FocusMetric string `json:"focusMetric,omitempty"`
}

// StartOfWeek returns the UTC midnight of the Monday on or before t's calendar date.
func StartOfWeek(t time.Time) time.Time {
	day := StartOfDay(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// WeekNumber derives the year*100 + ISO week index for a week starting at start.
func WeekNumber(start time.Time) int {
	y, w := start.ISOWeek()
	return y*100 + w
}

// BuildWeek generates the local skeleton for the week containing anchor.
// Local day IDs are the ISO dates themselves.
func BuildWeek(anchor time.Time) Week {
	start := StartOfWeek(anchor)
	return Week{
		WeekNumber: WeekNumber(start),
		Start:      start,
		End:        start.AddDate(0, 0, DaysPerWeek-1),
		Days:       GenerateDays(start, func(date string) string { return date }),
	}
}

// GenerateDays builds the seven days starting at start, naming each with idFn.
func GenerateDays(start time.Time, idFn func(date string) string) []Day {
	days := make([]Day, 0, DaysPerWeek)
	for i := 0; i < DaysPerWeek; i++ {
		date := start.AddDate(0, 0, i)
		iso := date.Format(DateLayout)
		days = append(days, Day{
			ID:    idFn(iso),
			Date:  iso,
			Label: date.Format("Mon, Jan 2"),
		})
	}
	return days
}

// Day returns the day with the given ID.
func (w Week) Day(id string) (Day, bool) {
	if i := w.DayIndex(id); i >= 0 {
		return w.Days[i], true
	}
	return Day{}, false
}

// DayIndex returns the position of the day with the given ID, or -1.
func (w Week) DayIndex(id string) int {
	for i, d := range w.Days {
		if d.ID == id {
			return i
		}
	}
	return -1
}

// DayByDate returns the day whose calendar date is date (YYYY-MM-DD).
func (w Week) DayByDate(date string) (Day, bool) {
	for _, d := range w.Days {
		if d.Date == date {
			return d, true
		}
	}
	return Day{}, false
}

// Contains reports whether t's calendar date falls inside the week.
func (w Week) Contains(t time.Time) bool {
	day := StartOfDay(t)
	return !day.Before(w.Start) && !day.After(w.End)
}

// Clone returns a deep copy of the week.
func (w Week) Clone() Week {
	out := w
	out.Days = make([]Day, len(w.Days))
	copy(out.Days, w.Days)
	return out
}

// ParseDate parses a YYYY-MM-DD date as a UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, invalid("date", "expected YYYY-MM-DD, got %q", s)
	}
	return t, nil
}

// DayPatch updates a day's free-text fields. Nil leaves a field untouched;
// an empty string clears it.
type DayPatch struct {
	Theme       *string
	FocusMetric *string
}

func (p DayPatch) Validate() error {
	if p.Theme != nil && utf8.RuneCountInString(*p.Theme) > MaxDayThemeLen {
		return invalid("theme", "must be at most %d characters", MaxDayThemeLen)
	}
	if p.FocusMetric != nil && utf8.RuneCountInString(*p.FocusMetric) > MaxFocusMetricLen {
		return invalid("focusMetric", "must be at most %d characters", MaxFocusMetricLen)
	}
	return nil
}

func (p DayPatch) Apply(d *Day) {
	if p.Theme != nil {
		d.Theme = *p.Theme
	}
	if p.FocusMetric != nil {
		d.FocusMetric = *p.FocusMetric
	}
}

// WeekPatch updates a week's theme.
type WeekPatch struct {
	Theme *string
}

func (p WeekPatch) Validate() error {
	if p.Theme != nil && utf8.RuneCountInString(*p.Theme) > MaxWeekThemeLen {
		return invalid("theme", "must be at most %d characters", MaxWeekThemeLen)
	}
	return nil
}

// WeekRange validates a requested week span and returns it normalized to dates.
func WeekRange(start, end time.Time) (time.Time, time.Time, error) {
	s := StartOfDay(start)
	e := StartOfDay(end)
	if !s.Before(e) {
		return time.Time{}, time.Time{}, invalid("endDate", "must be after start date")
	}
	if e.Sub(s) != time.Duration(DaysPerWeek-1)*24*time.Hour {
		return time.Time{}, time.Time{}, invalid("endDate", "week must span %d days", DaysPerWeek)
	}
	return s, e, nil
}

// StartOfDay returns the UTC midnight of t's calendar date.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
