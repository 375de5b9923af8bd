// Package event identifies calendar windows where daily case reporting is
// known to dip or spike, mainly public holidays, so callers can annotate
// charts or discount observations when choosing a regional offset.
package event

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/au"
)

var (
	ErrStartAfterEnd = errors.New("event start date is after end date")
	ErrUnsetDate     = errors.New("unset event start or end date")
	ErrNoEventName   = errors.New("no event name")
)

// Event is an inclusive span of calendar days to treat separately.
type Event struct {
	Name  string
	Start time.Time
	End   time.Time
}

func NewEvent(name string, start, end time.Time) Event {
	return Event{
		Name:  name,
		Start: start,
		End:   end,
	}
}

func (e *Event) Valid() error {
	if e.Start.IsZero() || e.End.IsZero() {
		return ErrUnsetDate
	}
	if e.Start.After(e.End) {
		return ErrStartAfterEnd
	}
	if e.Name == "" {
		return ErrNoEventName
	}
	return nil
}

// Contains reports whether date falls inside the event span.
func (e *Event) Contains(date time.Time) bool {
	return !date.Before(e.Start) && !date.After(e.End)
}

// Holiday expands a holiday definition into one event per observed occurrence
// between start and end, padded by daysBefore and daysAfter to cover the
// reporting lag around the day itself.
func Holiday(hol *cal.Holiday, start, end time.Time, daysBefore, daysAfter int) []Event {
	var events []Event
	for year := start.Year(); year <= end.Year(); year++ {
		_, observed := hol.Calc(year)
		day := time.Date(observed.Year(), observed.Month(), observed.Day(), 0, 0, 0, 0, time.UTC)

		if day.Before(start) || day.After(end) {
			continue
		}
		events = append(events, Event{
			Name:  strings.ReplaceAll(fmt.Sprintf("%s_%d", hol.Name, year), " ", "_"),
			Start: day.AddDate(0, 0, -daysBefore),
			End:   day.AddDate(0, 0, daysAfter),
		})
	}
	return events
}

// AustralianHolidays expands the national holiday calendar over the given
// span. The source series is Victorian, where these are the days reporting
// artifacts show up.
func AustralianHolidays(start, end time.Time, daysBefore, daysAfter int) []Event {
	var events []Event
	for _, hol := range au.HolidaysVIC {
		events = append(events, Holiday(hol, start, end, daysBefore, daysAfter)...)
	}
	return events
}

// Overlapping filters events down to those containing date.
func Overlapping(events []Event, date time.Time) []Event {
	var out []Event
	for _, e := range events {
		if e.Contains(date) {
			out = append(out, e)
		}
	}
	return out
}
