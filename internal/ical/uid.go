package ical

import (
	"fmt"
	"strconv"
	"strings"

	"schedcal/internal/model"
)

// EventUID derives a stable identifier from a rolling hash over course code,
// section, day codes and start-time components, rendered as a non-negative
// hex string with a domain suffix. The hash is deliberately non-cryptographic:
// collisions are tolerated, only stability for identical inputs matters.
func EventUID(ev *model.MeetingEvent, domain string) string {
	var b strings.Builder
	b.WriteString(ev.CourseCode)
	b.WriteString(ev.Section)
	for _, d := range ev.Days {
		b.WriteString(string(d))
	}
	if ev.StartTime != nil {
		b.WriteString(strconv.Itoa(ev.StartTime.Hours))
		b.WriteString(strconv.Itoa(ev.StartTime.Minutes))
	}

	// 32-bit signed accumulation: h = h*31 + ch, expressed as shift-minus-self.
	var h int32
	for _, r := range b.String() {
		h = h<<5 - h + int32(r)
	}

	// The minimum 32-bit value negates to itself, so widen before taking
	// the absolute value; the rendered UID must never carry a sign.
	u := uint64(h)
	if h < 0 {
		u = uint64(-int64(h))
	}
	return fmt.Sprintf("%x@%s", u, domain)
}
