// Package convert runs the pipeline from decoded rows through meeting events
// to the calendar document for one uploaded schedule. A conversion owns its
// row and event lists; a bad row is recorded and skipped, never aborting the
// batch.
package convert

import (
	"fmt"
	"strings"
	"time"

	"schedcal/internal/config"
	"schedcal/internal/ical"
	appLog "schedcal/internal/log"
	"schedcal/internal/model"
	"schedcal/internal/schedule"
)

// RowError records a single failed row. The surrounding batch continues.
type RowError struct {
	Row     int // 1-based position in the filtered input
	Message string
}

// Report summarizes one conversion.
type Report struct {
	RowsIn    int // rows after header/empty filtering
	Events    int // meeting events produced by the row parser
	Encoded   int // events that made it into the document
	Skipped   int // events dropped by the encoder (missing required fields)
	RowErrors []RowError
}

// Schedule converts a decoded row set into a calendar document. The
// default-year substitution for yearless textual dates is resolved once per
// conversion so a batch stays internally consistent.
func Schedule(rows []schedule.Row, cfg *config.Config, now func() time.Time) (string, *Report) {
	if now == nil {
		now = time.Now
	}
	defaultYear := cfg.DefaultYear
	if defaultYear == 0 {
		defaultYear = now().Year()
	}

	report := &Report{}
	var events []model.MeetingEvent

	n := 0
	for _, row := range rows {
		if row.Empty() || isDuplicateHeader(row) {
			continue
		}
		n++

		parsed, err := parseRowGuarded(row, defaultYear)
		if err != nil {
			appLog.Error("row parse failed", err, "row", n)
			report.RowErrors = append(report.RowErrors, RowError{Row: n, Message: err.Error()})
			continue
		}
		events = append(events, parsed...)
	}
	report.RowsIn = n
	report.Events = len(events)

	doc, encoded := ical.Generate(events, ical.Options{
		TZID:      cfg.Timezone,
		UIDDomain: cfg.UIDDomain,
		Now:       now,
	})
	report.Encoded = encoded
	report.Skipped = len(events) - encoded

	appLog.Info("conversion complete",
		"rows", report.RowsIn,
		"events", report.Events,
		"encoded", report.Encoded,
		"skipped", report.Skipped,
		"row_errors", len(report.RowErrors),
	)
	return doc, report
}

// parseRowGuarded isolates a single row so that an unexpected panic in the
// extraction layers degrades to a per-row error.
func parseRowGuarded(row schedule.Row, defaultYear int) (events []model.MeetingEvent, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("row parse panicked: %v", r)
		}
	}()
	return schedule.ParseRow(row, defaultYear), nil
}

// isDuplicateHeader detects header rows repeated inside the data region,
// which some exports emit once per page.
func isDuplicateHeader(row schedule.Row) bool {
	return strings.Contains(strings.ToLower(row.Get(schedule.ColCourseListing)), "course listing")
}
