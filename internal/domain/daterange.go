package domain

import (
	"fmt"
	"time"
)

// DateLayout is the ISO-8601 calendar date form used by NeoWs for query
// parameters and feed date keys.
const DateLayout = "2006-01-02"

// MaxRangeDays is the widest window the NeoWs feed endpoint accepts.
const MaxRangeDays = 7

// DateRange is an inclusive UTC feed window.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ParseDateRange resolves raw start/end parameters into a validated window.
// An empty start defaults to today; an empty end defaults to start plus
// maxDays, mirroring the upstream defaults. The window must not be inverted
// and must not span more than maxDays.
func ParseDateRange(start, end string, maxDays int) (DateRange, error) {
	if maxDays <= 0 || maxDays > MaxRangeDays {
		maxDays = MaxRangeDays
	}

	var r DateRange
	if start == "" {
		r.Start = today()
	} else {
		t, err := time.Parse(DateLayout, start)
		if err != nil {
			return DateRange{}, &ValidationError{Param: "start_date", Reason: "must be an ISO date (YYYY-MM-DD)"}
		}
		r.Start = t
	}

	if end == "" {
		r.End = r.Start.AddDate(0, 0, maxDays)
	} else {
		t, err := time.Parse(DateLayout, end)
		if err != nil {
			return DateRange{}, &ValidationError{Param: "end_date", Reason: "must be an ISO date (YYYY-MM-DD)"}
		}
		r.End = t
	}

	if r.End.Before(r.Start) {
		return DateRange{}, &ValidationError{Param: "end_date", Reason: "precedes start_date"}
	}
	if r.Days() > maxDays {
		return DateRange{}, &ValidationError{Param: "date_range", Reason: fmt.Sprintf("window exceeds %d days", maxDays)}
	}
	return r, nil
}

// Days returns the span of the window in whole days.
func (r DateRange) Days() int {
	return int(r.End.Sub(r.Start).Hours() / 24)
}

// StartString returns the window start formatted for NeoWs.
func (r DateRange) StartString() string { return r.Start.Format(DateLayout) }

// EndString returns the window end formatted for NeoWs.
func (r DateRange) EndString() string { return r.End.Format(DateLayout) }

func (r DateRange) String() string {
	return r.StartString() + ".." + r.EndString()
}

// today returns the current UTC date at midnight, per the package clock.
func today() time.Time {
	now := clock.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
