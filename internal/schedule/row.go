package schedule

import (
	"regexp"
	"strings"

	"schedcal/internal/model"
)

// Row is one spreadsheet row addressed by header name. Cell lookup is
// case-insensitive; missing cells read as the empty string.
type Row map[string]string

// Get returns the first non-empty cell among the given header aliases.
func (r Row) Get(names ...string) string {
	for _, name := range names {
		for key, val := range r {
			if strings.EqualFold(strings.TrimSpace(key), name) && strings.TrimSpace(val) != "" {
				return val
			}
		}
	}
	return ""
}

// Empty reports whether every cell in the row is blank.
func (r Row) Empty() bool {
	for _, val := range r {
		if strings.TrimSpace(val) != "" {
			return false
		}
	}
	return true
}

// Primary column names recognized in schedule exports.
const (
	ColCourseListing = "Course Listing"
	ColSection       = "Section"
	ColFormat        = "Instructional Format"
	ColDeliveryMode  = "Delivery Mode"
	ColMeetingTimes  = "Meeting Patterns"
	ColInstructor    = "Instructor"
)

// Alias groups for the optional explicit columns. First match wins.
var (
	startDateAliases = []string{"Start Date", "Meeting Start Date", "First Meeting Date"}
	endDateAliases   = []string{"End Date", "Meeting End Date", "Last Meeting Date"}
	startTimeAliases = []string{"Start Time", "Meeting Start Time"}
	endTimeAliases   = []string{"End Time", "Meeting End Time"}
	daysAliases      = []string{"Days", "Meeting Days", "Day", "Meeting Day(s)"}
)

// courseListingRe matches "CODE NNN[letter] - Title" with hyphen, en- or
// em-dash separators, e.g. "CS 2500 - Fundamentals of Computer Science".
var courseListingRe = regexp.MustCompile(`(?i)^\s*([a-z][a-z&/ ]*\d+[a-z]?)\s*[-–—]\s*(.+)$`)

const maxFallbackCodeLen = 20

// ParseRow turns one spreadsheet row into zero or more meeting events by
// reconciling the extracted meeting-pattern blocks with the explicit
// date/time/day columns:
//
//   - no extracted pattern, or exactly one flagged low-confidence, while the
//     explicit columns supply at least one of days/dates/times: a single
//     pattern is synthesized from the explicit data, with any partial fields
//     recovered from the flagged pattern as fallback;
//   - otherwise each extracted pattern has its missing fields filled from
//     the explicit columns, extracted fields taking precedence.
//
// A row with no usable pattern at all yields zero events, not an error.
func ParseRow(row Row, defaultYear int) []model.MeetingEvent {
	code, title := splitCourseListing(row.Get(ColCourseListing))

	explicit := explicitPattern(row, defaultYear)
	hasExplicit := len(explicit.Days) > 0 ||
		explicit.StartDate != nil || explicit.EndDate != nil ||
		explicit.StartTime != nil || explicit.EndTime != nil

	var patterns []model.MeetingPattern
	for _, block := range SplitPatternBlocks(row.Get(ColMeetingTimes)) {
		patterns = append(patterns, ParseSinglePattern(block, defaultYear))
	}

	var merged []model.MeetingPattern
	switch {
	case len(patterns) == 0 && !hasExplicit:
		return nil
	case hasExplicit && (len(patterns) == 0 ||
		(len(patterns) == 1 && patterns[0].Confidence == model.LowConfidence)):
		var partial model.MeetingPattern
		if len(patterns) == 1 {
			partial = patterns[0]
		}
		merged = []model.MeetingPattern{synthesize(explicit, partial)}
	default:
		for _, p := range patterns {
			merged = append(merged, fillMissing(p, explicit))
		}
	}

	events := make([]model.MeetingEvent, 0, len(merged))
	for _, p := range merged {
		events = append(events, model.MeetingEvent{
			MeetingPattern: p,
			CourseCode:     code,
			CourseTitle:    title,
			Section:        strings.TrimSpace(row.Get(ColSection)),
			Format:         strings.TrimSpace(row.Get(ColFormat)),
			DeliveryMode:   strings.TrimSpace(row.Get(ColDeliveryMode)),
			Instructor:     strings.TrimSpace(row.Get(ColInstructor)),
		})
	}
	return events
}

// splitCourseListing extracts course code and title. When the listing does
// not match the expected shape the raw text serves as both, with the code
// truncated to a displayable length.
func splitCourseListing(listing string) (code, title string) {
	listing = strings.TrimSpace(listing)
	if m := courseListingRe.FindStringSubmatch(listing); m != nil {
		return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	}
	code = listing
	if len(code) > maxFallbackCodeLen {
		code = code[:maxFallbackCodeLen]
	}
	return code, listing
}

// explicitPattern assembles a pattern from the optional alias columns.
func explicitPattern(row Row, defaultYear int) model.MeetingPattern {
	return model.MeetingPattern{
		Days:      ParseDays(row.Get(daysAliases...)),
		StartDate: ParseDate(row.Get(startDateAliases...), defaultYear),
		EndDate:   ParseDate(row.Get(endDateAliases...), defaultYear),
		StartTime: NormalizeTime(row.Get(startTimeAliases...)),
		EndTime:   NormalizeTime(row.Get(endTimeAliases...)),
	}
}

// synthesize builds a pattern from explicit column data, falling back to
// fields recovered from a flagged extraction. Explicit data wins.
func synthesize(explicit, partial model.MeetingPattern) model.MeetingPattern {
	out := partial
	if len(explicit.Days) > 0 {
		out.Days = explicit.Days
	}
	if explicit.StartDate != nil {
		out.StartDate = explicit.StartDate
	}
	if explicit.EndDate != nil {
		out.EndDate = explicit.EndDate
	}
	if explicit.StartTime != nil {
		out.StartTime = explicit.StartTime
	}
	if explicit.EndTime != nil {
		out.EndTime = explicit.EndTime
	}
	out.Confidence = confidenceOf(&out)
	return out
}

// fillMissing fills gaps in an extracted pattern from the explicit columns.
// Extracted fields take precedence.
func fillMissing(p, explicit model.MeetingPattern) model.MeetingPattern {
	if len(p.Days) == 0 {
		p.Days = explicit.Days
	}
	if p.StartDate == nil {
		p.StartDate = explicit.StartDate
	}
	if p.EndDate == nil {
		p.EndDate = explicit.EndDate
	}
	if p.StartTime == nil {
		p.StartTime = explicit.StartTime
	}
	if p.EndTime == nil {
		p.EndTime = explicit.EndTime
	}
	p.Confidence = confidenceOf(&p)
	return p
}
