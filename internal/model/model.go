package model

import "fmt"

// DayCode is a two-letter iCalendar weekday code (BYDAY vocabulary).
type DayCode string

const (
	Sunday    DayCode = "SU"
	Monday    DayCode = "MO"
	Tuesday   DayCode = "TU"
	Wednesday DayCode = "WE"
	Thursday  DayCode = "TH"
	Friday    DayCode = "FR"
	Saturday  DayCode = "SA"
)

// Weekday returns the time.Weekday-compatible index (Sunday = 0) for the
// code, or -1 for an unknown code.
func (d DayCode) Weekday() int {
	switch d {
	case Sunday:
		return 0
	case Monday:
		return 1
	case Tuesday:
		return 2
	case Wednesday:
		return 3
	case Thursday:
		return 4
	case Friday:
		return 5
	case Saturday:
		return 6
	}
	return -1
}

// ClockTime is a wall-clock time of day with no timezone attached.
// The target timezone is applied only at encoding time.
type ClockTime struct {
	Hours   int // 0-23
	Minutes int // 0-59
}

func (t ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hours, t.Minutes)
}

// CalendarDate is a plain year/month/day triple. Month is 1-12. Day-of-month
// validity against month length is left to the date library at encoding time.
type CalendarDate struct {
	Year  int
	Month int
	Day   int
}

func (d CalendarDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Confidence tags the outcome of pattern extraction. The row parser consumes
// the tag to decide whether explicit columns should replace or merely fill
// the extracted fields.
type Confidence int

const (
	// Parsed means extraction recovered a day set and both clock times.
	Parsed Confidence = iota
	// LowConfidence means extraction failed to find required fields; the
	// pattern is retained with whatever partial data was recovered instead
	// of being dropped.
	LowConfidence
)

// MeetingPattern is one recurring weekly time-slot description extracted
// from a schedule text cell.
type MeetingPattern struct {
	Days       []DayCode // first-seen order, no duplicates
	StartTime  *ClockTime
	EndTime    *ClockTime
	StartDate  *CalendarDate
	EndDate    *CalendarDate
	Location   string
	Raw        string // original source text for display/debugging
	Confidence Confidence
}

// Valid reports whether the pattern carries enough data to schedule a weekly
// slot: a non-empty day set and both clock times. Dates may still be absent
// in a valid pattern (degraded recurrence).
func (p *MeetingPattern) Valid() bool {
	return len(p.Days) > 0 && p.StartTime != nil && p.EndTime != nil
}

// MeetingEvent is a MeetingPattern merged with row-level course metadata.
// This is the unit handed to the iCalendar encoder. One spreadsheet row
// yields zero or more events.
type MeetingEvent struct {
	MeetingPattern

	CourseCode   string
	CourseTitle  string
	Section      string
	Format       string
	DeliveryMode string
	Instructor   string
}
