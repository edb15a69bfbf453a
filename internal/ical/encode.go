// Package ical encodes meeting events as an RFC 5545 calendar document with
// weekly recurring VEVENTs anchored in one fixed target timezone.
package ical

import (
	"fmt"
	"strings"
	"time"

	"schedcal/internal/model"
)

const prodID = "-//schedcal//Schedule Export Converter//EN"

// Options controls document generation.
type Options struct {
	// TZID is stamped on DTSTART/DTEND and the VTIMEZONE definition.
	TZID string

	// UIDDomain is the suffix of generated event identifiers.
	UIDDomain string

	// Now supplies the DTSTAMP instant; defaults to time.Now. Injectable so
	// that repeated encodings of the same events are byte-identical in tests.
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.TZID == "" {
		o.TZID = "America/New_York"
	}
	if o.UIDDomain == "" {
		o.UIDDomain = "schedcal"
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Generate builds the full calendar document for the given events and
// reports how many were encodable. Events missing a start date, either
// clock time, or all day codes are silently omitted; Generate itself never
// fails. Every line of the serialized document is folded at 75 octets.
func Generate(events []model.MeetingEvent, opts Options) (string, int) {
	opts = opts.withDefaults()

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:" + prodID,
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
	}
	lines = append(lines, timezoneLines(opts.TZID)...)

	encoded := 0
	for i := range events {
		ev, ok := generateEvent(&events[i], opts)
		if !ok {
			continue
		}
		lines = append(lines, ev...)
		encoded++
	}

	lines = append(lines, "END:VCALENDAR")
	return foldDocument(lines), encoded
}

// generateEvent renders a single VEVENT block, or reports false for an
// event that cannot be scheduled.
func generateEvent(ev *model.MeetingEvent, opts Options) ([]string, bool) {
	if ev.StartDate == nil || ev.StartTime == nil || ev.EndTime == nil || len(ev.Days) == 0 {
		return nil, false
	}

	first := FindFirstOccurrence(*ev.StartDate, ev.Days)

	lines := []string{
		"BEGIN:VEVENT",
		"UID:" + EventUID(ev, opts.UIDDomain),
		"DTSTAMP:" + opts.Now().UTC().Format("20060102T150405Z"),
		fmt.Sprintf("DTSTART;TZID=%s:%s", opts.TZID, localStamp(first, *ev.StartTime)),
		fmt.Sprintf("DTEND;TZID=%s:%s", opts.TZID, localStamp(first, *ev.EndTime)),
		"RRULE:" + recurrenceRule(ev),
		"SUMMARY:" + escapeText(summaryOf(ev)),
	}
	if ev.Location != "" {
		lines = append(lines, "LOCATION:"+escapeText(ev.Location))
	}
	if desc := descriptionOf(ev); desc != "" {
		lines = append(lines, "DESCRIPTION:"+escapeText(desc))
	}
	lines = append(lines, "END:VEVENT")
	return lines, true
}

// FindFirstOccurrence scans forward from the start date, up to seven
// calendar days inclusive, for the first date whose weekday is in the day
// set. With a non-empty set the scan always lands within the window; the
// unmodified start date is the (unreachable) fallback.
func FindFirstOccurrence(start model.CalendarDate, days []model.DayCode) model.CalendarDate {
	t := time.Date(start.Year, time.Month(start.Month), start.Day, 0, 0, 0, 0, time.UTC)
	for i := 0; i <= 7; i++ {
		cand := t.AddDate(0, 0, i)
		for _, d := range days {
			if d.Weekday() == int(cand.Weekday()) {
				return model.CalendarDate{Year: cand.Year(), Month: int(cand.Month()), Day: cand.Day()}
			}
		}
	}
	return start
}

// recurrenceRule builds the weekly RRULE. The UNTIL bound is the end date
// at the literal wall-clock instant 23:59:59 stamped as UTC; the wall-clock
// to UTC offset of the actual class end time is deliberately not applied.
// An event without an end date recurs unbounded.
func recurrenceRule(ev *model.MeetingEvent) string {
	byDay := make([]string, len(ev.Days))
	for i, d := range ev.Days {
		byDay[i] = string(d)
	}
	rule := "FREQ=WEEKLY;BYDAY=" + strings.Join(byDay, ",")
	if ev.EndDate != nil {
		rule += fmt.Sprintf(";UNTIL=%04d%02d%02dT235959Z", ev.EndDate.Year, ev.EndDate.Month, ev.EndDate.Day)
	}
	return rule
}

// localStamp renders a date + wall-clock time as an RFC 5545 local
// date-time (interpreted via the TZID parameter).
func localStamp(d model.CalendarDate, t model.ClockTime) string {
	return fmt.Sprintf("%04d%02d%02dT%02d%02d00", d.Year, d.Month, d.Day, t.Hours, t.Minutes)
}

// summaryOf composes "CODE (SECTION) - FORMAT", omitting empty parts.
func summaryOf(ev *model.MeetingEvent) string {
	summary := ev.CourseCode
	if ev.Section != "" {
		summary = strings.TrimSpace(summary + " (" + ev.Section + ")")
	}
	if ev.Format != "" {
		summary = strings.TrimSpace(summary + " - " + ev.Format)
	}
	return summary
}

// descriptionOf joins title, instructor and delivery mode with newlines;
// escapeText later rewrites those as literal "\n" sequences.
func descriptionOf(ev *model.MeetingEvent) string {
	var parts []string
	if ev.CourseTitle != "" {
		parts = append(parts, ev.CourseTitle)
	}
	if ev.Instructor != "" {
		parts = append(parts, "Instructor: "+ev.Instructor)
	}
	if ev.DeliveryMode != "" {
		parts = append(parts, "Delivery: "+ev.DeliveryMode)
	}
	return strings.Join(parts, "\n")
}

// timezoneLines emits the VTIMEZONE definition for the target zone, with
// the US daylight-saving transitions as yearly recurrences: DST begins the
// second Sunday of March, standard time returns the first Sunday of
// November. Zone names and UTC offsets come from the zone database (US
// Eastern when the zone is unknown); zones not on the US rule get correct
// names and offsets but the US transition dates.
func timezoneLines(tzid string) []string {
	stdName, stdOffset := "EST", -5*3600
	dstName, dstOffset := "EDT", -4*3600
	if loc, err := time.LoadLocation(tzid); err == nil {
		jan := time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC).In(loc)
		jul := time.Date(2024, time.July, 15, 12, 0, 0, 0, time.UTC).In(loc)
		_, janOffset := jan.Zone()
		_, julOffset := jul.Zone()
		std, dst := jan, jul
		if janOffset > julOffset {
			// Southern hemisphere: January is the daylight side.
			std, dst = jul, jan
		}
		stdName, stdOffset = std.Zone()
		dstName, dstOffset = dst.Zone()
	}
	return []string{
		"BEGIN:VTIMEZONE",
		"TZID:" + tzid,
		"BEGIN:DAYLIGHT",
		"TZOFFSETFROM:" + utcOffset(stdOffset),
		"TZOFFSETTO:" + utcOffset(dstOffset),
		"TZNAME:" + dstName,
		"DTSTART:20070311T020000",
		"RRULE:FREQ=YEARLY;BYMONTH=3;BYDAY=2SU",
		"END:DAYLIGHT",
		"BEGIN:STANDARD",
		"TZOFFSETFROM:" + utcOffset(dstOffset),
		"TZOFFSETTO:" + utcOffset(stdOffset),
		"TZNAME:" + stdName,
		"DTSTART:20071104T020000",
		"RRULE:FREQ=YEARLY;BYMONTH=11;BYDAY=1SU",
		"END:STANDARD",
		"END:VTIMEZONE",
	}
}

// utcOffset renders a zone offset in seconds as the signed HHMM form.
func utcOffset(seconds int) string {
	sign := "+"
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	return fmt.Sprintf("%s%02d%02d", sign, seconds/3600, (seconds%3600)/60)
}

// escapeText escapes a value for a TEXT property: backslash, semicolon and
// comma get a leading backslash, a newline becomes the two-character
// sequence backslash-n.
func escapeText(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, ";", `\;`)
	s = strings.ReplaceAll(s, ",", `\,`)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\n", `\n`)
	return s
}
