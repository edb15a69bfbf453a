package schedule

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"schedcal/internal/model"
)

const (
	// serialEpoch maps spreadsheet day-serial 25569 to 1970-01-01 UTC.
	serialEpoch      = 25569
	serialDaySeconds = 86400

	// minDateSerial guards against misreading small numbers (room numbers,
	// section sizes) as dates. 20000 is mid-1954; no schedule export
	// predates that.
	minDateSerial = 20000
)

var (
	clockRe    = regexp.MustCompile(`(?i)(\d{1,2})(?::(\d{2}))?\s*([ap])\.?\s*m?\.?`)
	bareHourRe = regexp.MustCompile(`(\d{1,2})(?::(\d{2}))?`)
	isoDateRe  = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	serialRe   = regexp.MustCompile(`^\d+(?:\.\d+)?$`)
	textDateRe = regexp.MustCompile(`(?i)^([a-z]{3,9})\.?\s+(\d{1,2})(?:,?\s*(\d{4}))?$`)
)

// monthsByPrefix maps 3-letter month abbreviations to month numbers.
var monthsByPrefix = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// NormalizeTime converts heterogeneous time text into a 24-hour ClockTime.
// Accepted forms: bare digits ("9" means 9:00), "H:MM", and an optional
// case-insensitive AM/PM marker with or without periods ("2:00 p.m.").
// PM with hour != 12 adds 12; AM with hour 12 wraps to 0. Returns nil when
// no hour pattern is found or the result is out of range; never panics.
func NormalizeTime(text string) *model.ClockTime {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var hourStr, minStr, meridiem string
	if m := clockRe.FindStringSubmatch(text); m != nil {
		hourStr, minStr, meridiem = m[1], m[2], strings.ToLower(m[3])
	} else if m := bareHourRe.FindStringSubmatch(text); m != nil {
		hourStr, minStr = m[1], m[2]
	} else {
		return nil
	}

	hours, err := strconv.Atoi(hourStr)
	if err != nil {
		return nil
	}
	minutes := 0
	if minStr != "" {
		minutes, err = strconv.Atoi(minStr)
		if err != nil {
			return nil
		}
	}

	switch meridiem {
	case "p":
		if hours != 12 {
			hours += 12
		}
	case "a":
		if hours == 12 {
			hours = 0
		}
	}

	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return nil
	}
	return &model.ClockTime{Hours: hours, Minutes: minutes}
}

// ParseDate converts date text into a CalendarDate, trying in order:
//
//  1. ISO "YYYY-MM-DD"
//  2. a bare numeric spreadsheet day-serial (only when the value exceeds
//     minDateSerial, so small numbers are never misread as dates)
//  3. textual "Mon D[, YYYY]" with a 3-letter month abbreviation; a missing
//     year is filled from defaultYear, or the current system year when
//     defaultYear is zero
//
// Returns nil on total failure; never panics.
func ParseDate(text string, defaultYear int) *model.CalendarDate {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	if m := isoDateRe.FindStringSubmatch(text); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		if month < 1 || month > 12 || day < 1 || day > 31 {
			return nil
		}
		return &model.CalendarDate{Year: year, Month: month, Day: day}
	}

	if serialRe.MatchString(text) {
		serial, err := strconv.ParseFloat(text, 64)
		if err == nil && serial > minDateSerial {
			unix := int64((serial - serialEpoch) * serialDaySeconds)
			t := time.Unix(unix, 0).UTC()
			return &model.CalendarDate{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
		}
		return nil
	}

	if m := textDateRe.FindStringSubmatch(text); m != nil {
		name := strings.ToLower(m[1])
		if len(name) < 3 {
			return nil
		}
		month, ok := monthsByPrefix[name[:3]]
		if !ok {
			return nil
		}
		day, _ := strconv.Atoi(m[2])
		if day < 1 || day > 31 {
			return nil
		}
		year := defaultYear
		if m[3] != "" {
			year, _ = strconv.Atoi(m[3])
		} else if year == 0 {
			year = time.Now().Year()
		}
		return &model.CalendarDate{Year: year, Month: month, Day: day}
	}

	return nil
}
