package domain

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date format accepted by the export endpoint.
const DateLayout = "2006-01-02"

// DateRange is an inclusive range of calendar dates in a given location.
type DateRange struct {
	Start time.Time // midnight of the first day
	End   time.Time // midnight of the last day
}

// ParseDateRange parses two YYYY-MM-DD dates as midnight in loc.
func ParseDateRange(start, end string, loc *time.Location) (DateRange, error) {
	if start == "" || end == "" {
		return DateRange{}, fmt.Errorf("%w: start date and end date are required", ErrMissingParameter)
	}
	s, err := time.ParseInLocation(DateLayout, start, loc)
	if err != nil {
		return DateRange{}, ValidationError("invalid start date " + start)
	}
	e, err := time.ParseInLocation(DateLayout, end, loc)
	if err != nil {
		return DateRange{}, ValidationError("invalid end date " + end)
	}
	if e.Before(s) {
		return DateRange{}, ValidationError("end date is before start date")
	}
	return DateRange{Start: s, End: e}, nil
}

// Until returns the first instant after the range.
func (r DateRange) Until() time.Time {
	return r.End.AddDate(0, 0, 1)
}

// Contains reports whether t falls on one of the range's calendar days.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.Until())
}
