package schedule

import (
	"regexp"
	"strings"

	"schedcal/internal/model"
)

// A schedule cell may hold several meeting-pattern blocks separated by blank
// lines or HTML-ish line-break markers; each block describes one weekly slot.
var blockSplitRe = regexp.MustCompile(`(?i)(?:\r?\n[ \t]*\r?\n)+|<br\s*/?>`)

const (
	dateToken = `(?:[A-Za-z]{3,9}\.?\s+\d{1,2}(?:,?\s*\d{4})?|\d{4}-\d{1,2}-\d{1,2})`
	timeToken = `\d{1,2}(?::\d{2})?\s*(?:[APap]\.?\s*[Mm]\.?)?`
	rangeSep  = `\s*(?:-|–|—|to)\s*`
)

var (
	dateRangeRe = regexp.MustCompile(`(?i)(` + dateToken + `)` + rangeSep + `(` + dateToken + `)`)
	timeRangeRe = regexp.MustCompile(`(?i)(` + timeToken + `)` + rangeSep + `(` + timeToken + `)`)

	dayWordRe = regexp.MustCompile(`(?i)\b(sunday|monday|tuesday|wednesday|thursday|friday|saturday|thurs|tues|thur|sun|mon|tue|wed|thu|fri|sat|su|mo|tu|we|th|fr|sa|m|t|w|r|f|s|u)\b`)

	// roomRe is the "letters+digits" room-code heuristic, e.g. "Room 200"
	// or "SCI 101-B". Requires at least two digits so section numbers and
	// day ordinals slip through.
	roomRe = regexp.MustCompile(`\b([A-Za-z]{2,}\.?[ \t]?\d{2,4}[A-Za-z0-9-]*)\b`)
)

// SplitPatternBlocks splits a schedule text cell into individual
// meeting-pattern blocks. Blank-only blocks are dropped.
func SplitPatternBlocks(text string) []string {
	var out []string
	for _, block := range blockSplitRe.Split(text, -1) {
		if strings.TrimSpace(block) == "" {
			continue
		}
		out = append(out, block)
	}
	return out
}

// ParseSinglePattern extracts one MeetingPattern from a schedule text block.
//
// Strategy order:
//  1. strict: pipe-delimited fields [days | times | dates? | location?];
//     used only when the day field yields at least one code.
//  2. fuzzy: independent regex extraction of a date range, a time range and
//     whole-word day tokens anywhere in the block.
//
// A block that defeats both strategies still yields a pattern flagged
// LowConfidence with whatever partial fields were recovered, so the caller
// can fall back to explicit columns or display the raw text. This function
// never fails.
func ParseSinglePattern(block string, defaultYear int) model.MeetingPattern {
	trimmed := strings.TrimSpace(block)
	if trimmed == "" {
		return model.MeetingPattern{Raw: block, Confidence: model.LowConfidence}
	}

	if strings.Contains(trimmed, "|") {
		if p, ok := parseStrict(trimmed, defaultYear); ok {
			p.Raw = block
			return p
		}
	}

	p := parseFuzzy(trimmed, defaultYear)
	p.Raw = block
	return p
}

// parseStrict handles the delimited form
//
//	Mon Wed | 10:00 - 11:00 | 2024-09-03 - 2024-12-05 | Room 200
//
// with the date-range and location fields optional. It succeeds only when
// the first field yields at least one day code.
func parseStrict(text string, defaultYear int) (model.MeetingPattern, bool) {
	fields := strings.Split(text, "|")
	if len(fields) < 2 {
		return model.MeetingPattern{}, false
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	days := ParseDays(fields[0])
	if len(days) == 0 {
		return model.MeetingPattern{}, false
	}

	p := model.MeetingPattern{Days: days}
	p.StartTime, p.EndTime = parseTimeRange(fields[1])

	if len(fields) >= 3 && fields[2] != "" {
		p.StartDate, p.EndDate = parseDateRange(fields[2], defaultYear)
	}
	if len(fields) >= 4 {
		p.Location = fields[3]
	}

	p.Confidence = confidenceOf(&p)
	return p, true
}

// parseFuzzy scans the whole block for a date range, a time range and day
// tokens. Matched date text is excised before the time scan so that ISO
// date digits are never re-read as clock times; the time scan skips
// candidates whose endpoints fail to normalize; and the day scan runs on
// the excised text so a meridiem's "m." is never read as Monday.
func parseFuzzy(text string, defaultYear int) model.MeetingPattern {
	var p model.MeetingPattern

	work := text
	if loc := dateRangeRe.FindStringSubmatchIndex(work); loc != nil {
		p.StartDate = ParseDate(work[loc[2]:loc[3]], defaultYear)
		p.EndDate = ParseDate(work[loc[4]:loc[5]], defaultYear)
		work = work[:loc[0]] + " " + work[loc[1]:]
	}

	// A lone date (no range, so not excised above) exposes its digits to the
	// time scan; candidates are tried in order and only a match with two
	// normalizable endpoints is accepted and excised.
	for _, loc := range timeRangeRe.FindAllStringSubmatchIndex(work, -1) {
		start := NormalizeTime(work[loc[2]:loc[3]])
		end := NormalizeTime(work[loc[4]:loc[5]])
		if start == nil || end == nil {
			continue
		}
		p.StartTime, p.EndTime = start, end
		work = work[:loc[0]] + " " + work[loc[1]:]
		break
	}

	for _, tok := range dayWordRe.FindAllString(work, -1) {
		code, ok := dayCodeFor(strings.ToLower(tok))
		if !ok {
			continue
		}
		dup := false
		for _, have := range p.Days {
			if have == code {
				dup = true
				break
			}
		}
		if !dup {
			p.Days = append(p.Days, code)
		}
	}

	p.Location = extractLocation(text, work)
	p.Confidence = confidenceOf(&p)
	return p
}

// extractLocation prefers text after a trailing pipe; otherwise it applies
// the room-code heuristic to the block with dates and times already excised.
func extractLocation(original, stripped string) string {
	if idx := strings.LastIndex(original, "|"); idx >= 0 {
		if loc := strings.TrimSpace(original[idx+1:]); loc != "" {
			return loc
		}
	}

	for _, m := range roomRe.FindAllStringSubmatch(stripped, -1) {
		if looksLikeRoom(m[1]) {
			return m[1]
		}
	}
	return ""
}

// looksLikeRoom rejects room-heuristic matches whose letter part is really
// a weekday or month word ("Sep 2024", "Thursday 10").
func looksLikeRoom(candidate string) bool {
	letters := strings.ToLower(strings.TrimRight(strings.FieldsFunc(candidate, func(r rune) bool {
		return r >= '0' && r <= '9'
	})[0], ". \t"))
	if _, isDay := dayCodeFor(letters); isDay {
		return false
	}
	if len(letters) >= 3 {
		if _, isMonth := monthsByPrefix[letters[:3]]; isMonth {
			return false
		}
	}
	return true
}

// parseTimeRange splits "10:00 - 11:00" (or "10-11", "2 to 3 p.m.") into
// two clock times. Both sides must parse or neither is returned.
func parseTimeRange(text string) (*model.ClockTime, *model.ClockTime) {
	m := timeRangeRe.FindStringSubmatch(text)
	if m == nil {
		return nil, nil
	}
	start := NormalizeTime(m[1])
	end := NormalizeTime(m[2])
	if start == nil || end == nil {
		return nil, nil
	}
	return start, end
}

// parseDateRange splits a date range field; a field holding a single date
// becomes the start date with no end bound.
func parseDateRange(text string, defaultYear int) (*model.CalendarDate, *model.CalendarDate) {
	if m := dateRangeRe.FindStringSubmatch(text); m != nil {
		return ParseDate(m[1], defaultYear), ParseDate(m[2], defaultYear)
	}
	return ParseDate(text, defaultYear), nil
}

// confidenceOf tags a pattern: Parsed when it carries a non-empty day set
// plus both clock times, LowConfidence otherwise.
func confidenceOf(p *model.MeetingPattern) model.Confidence {
	if p.Valid() {
		return model.Parsed
	}
	return model.LowConfidence
}
